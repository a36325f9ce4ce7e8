// Package services содержит фоновые задачи платформы: деактивацию устаревших
// оповещений и рассылку напоминаний об истечении сертификатов.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/eduline/course-platform/internal/lib/rabbitmq"
	"github.com/eduline/course-platform/internal/lib/sl"
	"github.com/eduline/course-platform/internal/models"
)

// Напоминание уходит, когда до истечения сертификата остается меньше месяца.
const reminderWindow = 30 * 24 * time.Hour

// SchedulerRepository определяет методы хранилища, нужные планировщику.
type SchedulerRepository interface {
	DeactivateExpiredAlerts(ctx context.Context, now time.Time) (int, error)
	FindCertificatesExpiringSoon(ctx context.Context, now time.Time, within time.Duration) ([]*models.CertificateReminder, error)
}

type SchedulerService struct {
	repo SchedulerRepository
	log  *slog.Logger
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(repo SchedulerRepository, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		repo: repo,
		log:  log,
	}
}

// DeactivateExpiredAlerts раз в сутки снимает с публикации оповещения,
// чье окно показа закончилось.
func (s *SchedulerService) DeactivateExpiredAlerts(ctx context.Context) {
	s.runDeactivateExpiredAlerts(ctx)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runDeactivateExpiredAlerts(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (s *SchedulerService) runDeactivateExpiredAlerts(ctx context.Context) {
	s.log.Info("starting job to deactivate expired alerts")
	count, err := s.repo.DeactivateExpiredAlerts(ctx, time.Now().UTC())
	if err != nil {
		s.log.Error("failed to deactivate alerts", sl.Err(err))
		return
	}
	if count == 0 {
		s.log.Info("no expired alerts found")
		return
	}
	s.log.Info("deactivated expired alerts", "count", count)
}

// FindExpiringCertificates раз в сутки находит сертификаты, истекающие в
// ближайший месяц, и ставит напоминания в очередь писем.
func (s *SchedulerService) FindExpiringCertificates(ctx context.Context, channel *amqp.Channel) {
	s.runFindExpiringCertificates(ctx, channel)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runFindExpiringCertificates(ctx, channel)
		case <-ctx.Done():
			return
		}
	}
}

func (s *SchedulerService) runFindExpiringCertificates(ctx context.Context, channel *amqp.Channel) {
	s.log.Info("starting job to find expiring certificates")
	reminders, err := s.repo.FindCertificatesExpiringSoon(ctx, time.Now().UTC(), reminderWindow)
	if err != nil {
		s.log.Error("failed to find expiring certificates", sl.Err(err))
		return
	}
	if len(reminders) == 0 {
		s.log.Info("no expiring certificates found")
		return
	}
	s.log.Info("found expiring certificates", "count", len(reminders))
	for _, reminder := range reminders {
		err = rabbitmq.PublishMessage(channel, rabbitmq.NotificationsExchange, rabbitmq.RoutingKeyReminder, reminder)
		if err != nil {
			s.log.Error("failed to publish message", sl.Err(err))
		}
	}
}
