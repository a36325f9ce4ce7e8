package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/eduline/course-platform/internal/models"
)

// CreateAlert добавляет новое оповещение и возвращает его ID.
func (s *Storage) CreateAlert(ctx context.Context, alert models.Alert) (int, error) {
	const op = "storage.CreateAlert"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var id int
	query := `INSERT INTO alerts (message, severity, starts_at, ends_at, is_active)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		alert.Message, alert.Severity, alert.StartsAt, alert.EndsAt,
		alert.IsActive).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// RemoveAlert деактивирует оповещение по ID, возвращает число измененных строк.
func (s *Storage) RemoveAlert(ctx context.Context, id int) (int, error) {
	const op = "storage.RemoveAlert"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE alerts SET is_active = FALSE WHERE id = $1`
	res, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(n), nil
}

// ListActiveAlerts возвращает оповещения, действующие в момент now.
func (s *Storage) ListActiveAlerts(ctx context.Context, now time.Time) ([]*models.Alert, error) {
	const op = "storage.ListActiveAlerts"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, message, severity, starts_at, ends_at, is_active
			  FROM alerts
			  WHERE is_active = TRUE AND starts_at <= $1 AND ends_at > $1
			  ORDER BY starts_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Alert
	for rows.Next() {
		var a models.Alert
		if err = rows.Scan(&a.ID, &a.Message, &a.Severity, &a.StartsAt,
			&a.EndsAt, &a.IsActive); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// DeactivateExpiredAlerts деактивирует оповещения, чей срок действия истек.
// Вызывается планировщиком раз в сутки, возвращает число измененных строк.
func (s *Storage) DeactivateExpiredAlerts(ctx context.Context, now time.Time) (int, error) {
	const op = "storage.DeactivateExpiredAlerts"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE alerts SET is_active = FALSE WHERE is_active = TRUE AND ends_at <= $1`
	res, err := s.DB.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(n), nil
}
