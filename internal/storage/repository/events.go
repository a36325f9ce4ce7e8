package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/eduline/course-platform/internal/models"
)

// ListUpcomingEvents возвращает активные мероприятия, начинающиеся не раньше from.
func (s *Storage) ListUpcomingEvents(ctx context.Context, from time.Time, limit, offset int) ([]*models.Event, error) {
	const op = "storage.ListUpcomingEvents"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, description, starts_at, location, is_online, is_active
			  FROM events
			  WHERE is_active = TRUE AND starts_at >= $1
			  ORDER BY starts_at
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, from, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Event
	for rows.Next() {
		var e models.Event
		if err = rows.Scan(&e.ID, &e.Title, &e.Description, &e.StartsAt,
			&e.Location, &e.IsOnline, &e.IsActive); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
