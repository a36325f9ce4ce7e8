// Package services содержит бизнес-логику баннеров-оповещений.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/eduline/course-platform/internal/models"
)

// AlertRepository определяет методы для работы с оповещениями в хранилище.
type AlertRepository interface {
	CreateAlert(ctx context.Context, alert models.Alert) (int, error)
	RemoveAlert(ctx context.Context, id int) (int, error)
	ListActiveAlerts(ctx context.Context, now time.Time) ([]*models.Alert, error)
}

// AlertService управляет баннерами-оповещениями публичных страниц.
type AlertService struct {
	repo AlertRepository
	log  *slog.Logger
}

// NewAlertService создает новый экземпляр AlertService.
func NewAlertService(repo AlertRepository, log *slog.Logger) *AlertService {
	return &AlertService{repo: repo, log: log}
}

// Create создает новое оповещение. Даты приходят строками RFC3339,
// окно показа должно быть непустым.
func (s *AlertService) Create(ctx context.Context, req models.DummyAlert) (int, error) {
	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return 0, fmt.Errorf("invalid starts_at: %w", err)
	}
	endsAt, err := time.Parse(time.RFC3339, req.EndsAt)
	if err != nil {
		return 0, fmt.Errorf("invalid ends_at: %w", err)
	}
	if !endsAt.After(startsAt) {
		return 0, fmt.Errorf("ends_at must be after starts_at")
	}

	alert := models.Alert{
		Message:  req.Message,
		Severity: req.Severity,
		StartsAt: startsAt,
		EndsAt:   endsAt,
		IsActive: true,
	}
	id, err := s.repo.CreateAlert(ctx, alert)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new alert", slog.Int("id", id), slog.String("severity", alert.Severity))
	return id, nil
}

// Remove удаляет оповещение по ID.
func (s *AlertService) Remove(ctx context.Context, id int) (int, error) {
	return s.repo.RemoveAlert(ctx, id)
}

// ListActive возвращает оповещения, попадающие в текущее окно показа.
func (s *AlertService) ListActive(ctx context.Context) ([]*models.Alert, error) {
	return s.repo.ListActiveAlerts(ctx, time.Now().UTC())
}
