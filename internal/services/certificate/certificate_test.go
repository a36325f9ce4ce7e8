package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/eduline/course-platform/internal/models"
	"github.com/eduline/course-platform/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateCertificate(ctx context.Context, cert models.Certificate) error {
	return m.Called(ctx, cert).Error(0)
}
func (m *RepoMock) GetCertificateByCode(ctx context.Context, code string) (*models.Certificate, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Certificate), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCertificateService_Verify(t *testing.T) {
	ctx := context.Background()
	code := uuid.NewString()
	future := time.Now().Add(365 * 24 * time.Hour)
	past := time.Now().Add(-24 * time.Hour)

	tests := []struct {
		name       string
		code       string
		setupMocks func(r *RepoMock)
		wantStatus string
		wantErr    error
	}{
		{
			name: "valid certificate",
			code: code,
			setupMocks: func(r *RepoMock) {
				r.On("GetCertificateByCode", mock.Anything, code).Return(&models.Certificate{
					Code: code, ExamTitle: "Commercial Pilot License", ExpiresAt: &future,
				}, nil).Once()
			},
			wantStatus: StatusValid,
		},
		{
			name: "expired certificate",
			code: code,
			setupMocks: func(r *RepoMock) {
				r.On("GetCertificateByCode", mock.Anything, code).Return(&models.Certificate{
					Code: code, ExpiresAt: &past,
				}, nil).Once()
			},
			wantStatus: StatusExpired,
		},
		{
			name: "revoked certificate",
			code: code,
			setupMocks: func(r *RepoMock) {
				r.On("GetCertificateByCode", mock.Anything, code).Return(&models.Certificate{
					Code: code, Revoked: true, ExpiresAt: &future,
				}, nil).Once()
			},
			wantStatus: StatusRevoked,
		},
		{
			name:       "malformed code rejected before repo",
			code:       "not-a-uuid",
			setupMocks: func(_ *RepoMock) {},
			wantErr:    ErrInvalidCode,
		},
		{
			name: "unknown code",
			code: code,
			setupMocks: func(r *RepoMock) {
				r.On("GetCertificateByCode", mock.Anything, code).Return(nil, repository.ErrNotFound).Once()
			},
			wantErr: repository.ErrNotFound,
		},
		{
			name: "perpetual certificate has no expiry",
			code: code,
			setupMocks: func(r *RepoMock) {
				r.On("GetCertificateByCode", mock.Anything, code).Return(&models.Certificate{
					Code: code, ExpiresAt: nil,
				}, nil).Once()
			},
			wantStatus: StatusValid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			tt.setupMocks(repo)

			svc := NewCertificateService(repo, newNoopLogger())
			result, err := svc.Verify(ctx, tt.code)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, result.Status)
			repo.AssertExpectations(t)
		})
	}
}

func TestCertificateService_Issue(t *testing.T) {
	ctx := context.Background()
	repo := new(RepoMock)
	repo.On("CreateCertificate", mock.Anything, mock.MatchedBy(func(c models.Certificate) bool {
		_, err := uuid.Parse(c.Code)
		return err == nil && !c.IssuedAt.IsZero()
	})).Return(nil).Once()

	svc := NewCertificateService(repo, newNoopLogger())
	code, err := svc.Issue(ctx, models.Certificate{UserUID: "uid-1", ExamID: 3, HolderName: "Jordan Lee"})
	require.NoError(t, err)
	_, err = uuid.Parse(code)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
