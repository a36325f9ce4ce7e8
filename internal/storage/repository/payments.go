package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/eduline/course-platform/internal/models"
)

// CreatePayment сохраняет новый платеж и возвращает его UID.
func (s *Storage) CreatePayment(ctx context.Context, payment models.Payment) (string, error) {
	const op = "storage.CreatePayment"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var uid string
	query := `INSERT INTO payments (provider_payment_id, user_uid, product_id,
			      amount_cents, status)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		payment.ProviderPaymentID, payment.UserUID, payment.ProductID,
		payment.AmountCents, payment.Status).Scan(&uid); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return uid, nil
}

// UpdatePaymentStatus обновляет статус платежа по идентификатору провайдера.
func (s *Storage) UpdatePaymentStatus(ctx context.Context, providerPaymentID, status string) (*models.Payment, error) {
	const op = "storage.UpdatePaymentStatus"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE payments
			  SET status = $1
			  WHERE provider_payment_id = $2
			  RETURNING uid, provider_payment_id, user_uid, product_id,
			      amount_cents, status, created_at`
	p := &models.Payment{}
	if err := s.DB.QueryRowContext(ctx, query, status, providerPaymentID).Scan(
		&p.UID, &p.ProviderPaymentID, &p.UserUID, &p.ProductID,
		&p.AmountCents, &p.Status, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// ListPayments возвращает платежи пользователя с пагинацией.
func (s *Storage) ListPayments(ctx context.Context, userUID string, limit, offset int) ([]*models.Payment, error) {
	const op = "storage.ListPayments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, provider_payment_id, user_uid, product_id,
			      amount_cents, status, created_at
			  FROM payments
			  WHERE user_uid = $1
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Payment
	for rows.Next() {
		var p models.Payment
		if err = rows.Scan(&p.UID, &p.ProviderPaymentID, &p.UserUID, &p.ProductID,
			&p.AmountCents, &p.Status, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
