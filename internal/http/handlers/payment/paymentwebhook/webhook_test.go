package paymentwebhook

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	payment "github.com/eduline/course-platform/internal/services/payment"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) ProcessWebhookEvent(ctx context.Context, body []byte, signature string) error {
	return m.Called(ctx, body, signature).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestWebhookHandler_ServeHTTP(t *testing.T) {
	body := []byte(`{"event":"payment.succeeded","object":{"id":"prov-1"}}`)

	tests := []struct {
		name           string
		serviceErr     error
		wantStatusCode int
	}{
		{
			name:           "event processed",
			serviceErr:     nil,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "bad signature",
			serviceErr:     payment.ErrBadSignature,
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "unknown event",
			serviceErr:     payment.ErrUnknownEvent,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "processing error",
			serviceErr:     assert.AnError,
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			svc.On("ProcessWebhookEvent", mock.Anything, body, "sig").Return(tt.serviceErr).Once()

			handler := New(newNoopLogger(), svc)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewReader(body))
			req.Header.Set("X-Api-Signature", "sig")
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}
