// Package services содержит бизнес-логику проверки подлинности сертификатов.
package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/eduline/course-platform/internal/models"
)

// ErrInvalidCode означает, что код не похож на код сертификата.
var ErrInvalidCode = errors.New("invalid certificate code")

// Статусы проверки сертификата.
const (
	StatusValid   = "valid"
	StatusExpired = "expired"
	StatusRevoked = "revoked"
)

// CertificateRepository определяет методы для работы с сертификатами.
type CertificateRepository interface {
	CreateCertificate(ctx context.Context, cert models.Certificate) error
	GetCertificateByCode(ctx context.Context, code string) (*models.Certificate, error)
}

// VerificationResult результат публичной проверки сертификата.
type VerificationResult struct {
	Status      string             `json:"status"` // valid, expired или revoked
	Certificate models.Certificate `json:"certificate"`
}

// CertificateService отвечает за выдачу и публичную проверку сертификатов.
type CertificateService struct {
	repo CertificateRepository
	log  *slog.Logger
}

// NewCertificateService создает новый экземпляр CertificateService.
func NewCertificateService(repo CertificateRepository, log *slog.Logger) *CertificateService {
	return &CertificateService{repo: repo, log: log}
}

// Issue выдает новый сертификат и возвращает его публичный код.
func (s *CertificateService) Issue(ctx context.Context, cert models.Certificate) (string, error) {
	cert.Code = uuid.NewString()
	cert.IssuedAt = time.Now().UTC()
	if err := s.repo.CreateCertificate(ctx, cert); err != nil {
		return "", err
	}
	s.log.Info("issued certificate", slog.String("code", cert.Code), slog.Int("exam_id", cert.ExamID))
	return cert.Code, nil
}

// Verify проверяет сертификат по публичному коду. Код, не являющийся UUID,
// отклоняется до похода в базу.
func (s *CertificateService) Verify(ctx context.Context, code string) (*VerificationResult, error) {
	if _, err := uuid.Parse(code); err != nil {
		return nil, ErrInvalidCode
	}

	cert, err := s.repo.GetCertificateByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	status := StatusValid
	switch {
	case cert.Revoked:
		status = StatusRevoked
	case cert.ExpiresAt != nil && time.Now().After(*cert.ExpiresAt):
		status = StatusExpired
	}

	return &VerificationResult{Status: status, Certificate: *cert}, nil
}
