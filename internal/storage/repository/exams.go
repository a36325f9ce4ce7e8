package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/eduline/course-platform/internal/models"
)

// CreateExam добавляет новый экзамен и возвращает его ID.
func (s *Storage) CreateExam(ctx context.Context, exam models.Exam) (int, error) {
	const op = "storage.CreateExam"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var id int
	query := `INSERT INTO exams (code, title, provider, price_cents, duration_minutes, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		exam.Code, exam.Title, exam.Provider, exam.PriceCents,
		exam.DurationMinutes, exam.IsActive).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// ReadExam возвращает экзамен по ID.
func (s *Storage) ReadExam(ctx context.Context, id int) (*models.Exam, error) {
	const op = "storage.ReadExam"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, code, title, provider, price_cents, duration_minutes, is_active
			  FROM exams
			  WHERE id = $1`
	e := &models.Exam{}
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&e.ID, &e.Code, &e.Title,
		&e.Provider, &e.PriceCents, &e.DurationMinutes, &e.IsActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return e, nil
}

// UpdateExam обновляет данные экзамена по ID, возвращает число измененных строк.
func (s *Storage) UpdateExam(ctx context.Context, exam models.Exam, id int) (int, error) {
	const op = "storage.UpdateExam"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE exams
			  SET code = $1, title = $2, provider = $3, price_cents = $4,
			      duration_minutes = $5
			  WHERE id = $6`
	res, err := s.DB.ExecContext(ctx, query, exam.Code, exam.Title, exam.Provider,
		exam.PriceCents, exam.DurationMinutes, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(n), nil
}

// RemoveExam деактивирует экзамен по ID, возвращает число измененных строк.
// Записи не удаляются физически, на них могут ссылаться сертификаты.
func (s *Storage) RemoveExam(ctx context.Context, id int) (int, error) {
	const op = "storage.RemoveExam"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE exams SET is_active = FALSE WHERE id = $1`
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

// ListExams возвращает активные экзамены с пагинацией.
func (s *Storage) ListExams(ctx context.Context, limit, offset int) ([]*models.Exam, error) {
	const op = "storage.ListExams"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, code, title, provider, price_cents, duration_minutes, is_active
			  FROM exams
			  WHERE is_active = TRUE
			  ORDER BY code
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanExams(rows, op)
}

// SearchExams ищет активные экзамены по подстроке в коде или названии.
// Используется бэкендом комбобокса выбора экзамена.
func (s *Storage) SearchExams(ctx context.Context, queryStr string, limit int) ([]*models.Exam, error) {
	const op = "storage.SearchExams"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, code, title, provider, price_cents, duration_minutes, is_active
			  FROM exams
			  WHERE is_active = TRUE
			    AND (code ILIKE '%' || $1 || '%' OR title ILIKE '%' || $1 || '%')
			  ORDER BY code
			  LIMIT $2`
	rows, err := s.DB.QueryContext(ctx, query, queryStr, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanExams(rows, op)
}

func scanExams(rows *sql.Rows, op string) ([]*models.Exam, error) {
	var result []*models.Exam
	for rows.Next() {
		var e models.Exam
		if err := rows.Scan(&e.ID, &e.Code, &e.Title, &e.Provider,
			&e.PriceCents, &e.DurationMinutes, &e.IsActive); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
