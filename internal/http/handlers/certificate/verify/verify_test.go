package verify

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/eduline/course-platform/internal/models"
	certificate "github.com/eduline/course-platform/internal/services/certificate"
	"github.com/eduline/course-platform/internal/storage/repository"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Verify(ctx context.Context, code string) (*certificate.VerificationResult, error) {
	args := m.Called(ctx, code)
	result, _ := args.Get(0).(*certificate.VerificationResult)
	return result, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestVerifyHandler_ServeHTTP(t *testing.T) {
	code := uuid.NewString()

	tests := []struct {
		name           string
		code           string
		setupMocks     func(m *ServiceMock)
		wantStatusCode int
		wantStatus     string
	}{
		{
			name: "valid certificate",
			code: code,
			setupMocks: func(m *ServiceMock) {
				m.On("Verify", mock.Anything, code).Return(&certificate.VerificationResult{
					Status:      certificate.StatusValid,
					Certificate: models.Certificate{Code: code, ExamTitle: "Commercial Pilot License"},
				}, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name: "malformed code",
			code: "not-a-uuid",
			setupMocks: func(m *ServiceMock) {
				m.On("Verify", mock.Anything, "not-a-uuid").Return(nil, certificate.ErrInvalidCode).Once()
			},
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "Error",
		},
		{
			name: "unknown certificate",
			code: code,
			setupMocks: func(m *ServiceMock) {
				m.On("Verify", mock.Anything, code).Return(nil, repository.ErrNotFound).Once()
			},
			wantStatusCode: http.StatusNotFound,
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			tt.setupMocks(svc)

			router := chi.NewRouter()
			router.Method(http.MethodGet, "/certificates/{code}", New(newNoopLogger(), svc))

			req := httptest.NewRequest(http.MethodGet, "/certificates/"+tt.code, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var resp map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantStatus, resp["status"])
			svc.AssertExpectations(t)
		})
	}
}
