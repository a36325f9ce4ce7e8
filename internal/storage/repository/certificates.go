package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/eduline/course-platform/internal/models"
)

// CreateCertificate сохраняет выданный сертификат.
func (s *Storage) CreateCertificate(ctx context.Context, cert models.Certificate) error {
	const op = "storage.CreateCertificate"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO certificates (code, user_uid, exam_id, holder_name,
			      issued_at, expires_at, revoked)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := s.DB.ExecContext(ctx, query,
		cert.Code, cert.UserUID, cert.ExamID, cert.HolderName,
		cert.IssuedAt, cert.ExpiresAt, cert.Revoked); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetCertificateByCode возвращает сертификат по публичному коду вместе
// с названием экзамена.
func (s *Storage) GetCertificateByCode(ctx context.Context, code string) (*models.Certificate, error) {
	const op = "storage.GetCertificateByCode"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT c.code, c.user_uid, c.exam_id, e.title, c.holder_name,
			      c.issued_at, c.expires_at, c.revoked
			  FROM certificates c
			  JOIN exams e ON e.id = c.exam_id
			  WHERE c.code = $1`
	cert := &models.Certificate{}
	var expiresAt sql.NullTime
	if err := s.DB.QueryRowContext(ctx, query, code).Scan(&cert.Code, &cert.UserUID,
		&cert.ExamID, &cert.ExamTitle, &cert.HolderName, &cert.IssuedAt,
		&expiresAt, &cert.Revoked); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if expiresAt.Valid {
		cert.ExpiresAt = &expiresAt.Time
	}
	return cert, nil
}

// FindCertificatesExpiringSoon находит неотозванные сертификаты, срок которых
// истекает в ближайшие within, вместе с данными владельца для напоминания.
func (s *Storage) FindCertificatesExpiringSoon(ctx context.Context, now time.Time, within time.Duration) ([]*models.CertificateReminder, error) {
	const op = "storage.FindCertificatesExpiringSoon"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT u.email, u.username, e.title, c.code, c.expires_at, c.holder_name
			  FROM certificates c
			  JOIN users u ON u.uid = c.user_uid
			  JOIN exams e ON e.id = c.exam_id
			  WHERE c.revoked = FALSE
			    AND c.expires_at IS NOT NULL
			    AND c.expires_at > $1
			    AND c.expires_at <= $2`
	rows, err := s.DB.QueryContext(ctx, query, now, now.Add(within))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.CertificateReminder
	for rows.Next() {
		var r models.CertificateReminder
		if err = rows.Scan(&r.Email, &r.Username, &r.ExamTitle, &r.Code,
			&r.ExpiresAt, &r.HolderName); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
