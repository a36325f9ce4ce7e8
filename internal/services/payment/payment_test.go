package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/eduline/course-platform/internal/models"
	"github.com/eduline/course-platform/internal/paymentprovider"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreatePayment(ctx context.Context, payment models.Payment) (string, error) {
	args := m.Called(ctx, payment)
	return args.String(0), args.Error(1)
}
func (m *RepoMock) UpdatePaymentStatus(ctx context.Context, providerPaymentID, status string) (*models.Payment, error) {
	args := m.Called(ctx, providerPaymentID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}
func (m *RepoMock) ListPayments(ctx context.Context, userUID string, limit, offset int) ([]*models.Payment, error) {
	args := m.Called(ctx, userUID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Payment), args.Error(1)
}

type ProductsMock struct{ mock.Mock }

func (m *ProductsMock) ReadProduct(ctx context.Context, id int) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

type UsersMock struct{ mock.Mock }

func (m *UsersMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type ProviderMock struct{ mock.Mock }

func (m *ProviderMock) CreatePayment(reqParams paymentprovider.CreatePaymentRequest) (*paymentprovider.CreatePaymentResponse, error) {
	args := m.Called(reqParams)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentprovider.CreatePaymentResponse), args.Error(1)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(routingKey string, message any) error {
	return m.Called(routingKey, message).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestPaymentService_Create(t *testing.T) {
	ctx := context.Background()
	product := &models.Product{
		ID: 7, Title: "Ground School Package", PriceCents: 180000, IsActive: true,
	}

	t.Run("success checkout", func(t *testing.T) {
		products := new(ProductsMock)
		provider := new(ProviderMock)
		repo := new(RepoMock)

		products.On("ReadProduct", mock.Anything, 7).Return(product, nil).Once()
		provider.On("CreatePayment", mock.MatchedBy(func(req paymentprovider.CreatePaymentRequest) bool {
			return req.Amount.Value == "1800.00" &&
				req.Amount.Currency == "USD" &&
				req.Capture &&
				req.Metadata["user_uid"] == "uid-1"
		})).Return(&paymentprovider.CreatePaymentResponse{
			ID:     "prov-1",
			Status: "pending",
			Confirmation: paymentprovider.Confirmation{
				Type: "redirect",
				URL:  "https://pay.example.com/confirm/prov-1",
			},
		}, nil).Once()
		repo.On("CreatePayment", mock.Anything, mock.MatchedBy(func(p models.Payment) bool {
			return p.ProviderPaymentID == "prov-1" &&
				p.Status == models.PaymentStatusPending &&
				p.AmountCents == int64(180000)
		})).Return("pay-uid-1", nil).Once()

		svc := NewPaymentService(repo, products, new(UsersMock), provider, new(PublisherMock), "secret", newNoopLogger())
		result, err := svc.Create(ctx, "uid-1", 7, "https://edu.example.com/checkout/done")
		require.NoError(t, err)
		assert.Equal(t, "pay-uid-1", result.PaymentUID)
		assert.Equal(t, "https://pay.example.com/confirm/prov-1", result.ConfirmationURL)

		provider.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("inactive product rejected", func(t *testing.T) {
		products := new(ProductsMock)
		products.On("ReadProduct", mock.Anything, 7).Return(&models.Product{ID: 7, IsActive: false}, nil).Once()

		svc := NewPaymentService(new(RepoMock), products, new(UsersMock), new(ProviderMock), new(PublisherMock), "secret", newNoopLogger())
		_, err := svc.Create(ctx, "uid-1", 7, "")
		require.ErrorIs(t, err, ErrProductMissing)
	})
}

func TestPaymentService_ProcessWebhookEvent(t *testing.T) {
	ctx := context.Background()
	const secret = "webhook-secret"

	succeededBody := []byte(`{"event":"payment.succeeded","object":{"id":"prov-1","status":"succeeded"}}`)
	canceledBody := []byte(`{"event":"payment.canceled","object":{"id":"prov-1","status":"canceled"}}`)

	t.Run("succeeded payment queues receipt", func(t *testing.T) {
		repo := new(RepoMock)
		users := new(UsersMock)
		products := new(ProductsMock)
		publisher := new(PublisherMock)

		repo.On("UpdatePaymentStatus", mock.Anything, "prov-1", models.PaymentStatusSucceeded).
			Return(&models.Payment{
				UID: "pay-uid-1", UserUID: "uid-1", ProductID: 7, AmountCents: 180000,
				Status: models.PaymentStatusSucceeded,
			}, nil).Once()
		users.On("GetUser", mock.Anything, "uid-1").Return(&models.User{
			UID: "uid-1", Email: "student@example.com", Username: "student",
		}, nil).Once()
		products.On("ReadProduct", mock.Anything, 7).Return(&models.Product{
			ID: 7, Title: "Ground School Package",
		}, nil).Once()
		publisher.On("Publish", "receipt", mock.MatchedBy(func(r models.PaymentReceipt) bool {
			return r.Email == "student@example.com" && r.AmountCents == int64(180000)
		})).Return(nil).Once()

		svc := NewPaymentService(repo, products, users, new(ProviderMock), publisher, secret, newNoopLogger())
		err := svc.ProcessWebhookEvent(ctx, succeededBody, sign(succeededBody, secret))
		require.NoError(t, err)
		publisher.AssertExpectations(t)
	})

	t.Run("canceled payment skips receipt", func(t *testing.T) {
		repo := new(RepoMock)
		publisher := new(PublisherMock)
		repo.On("UpdatePaymentStatus", mock.Anything, "prov-1", models.PaymentStatusCanceled).
			Return(&models.Payment{UID: "pay-uid-1", Status: models.PaymentStatusCanceled}, nil).Once()

		svc := NewPaymentService(repo, new(ProductsMock), new(UsersMock), new(ProviderMock), publisher, secret, newNoopLogger())
		err := svc.ProcessWebhookEvent(ctx, canceledBody, sign(canceledBody, secret))
		require.NoError(t, err)
		publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("bad signature rejected", func(t *testing.T) {
		svc := NewPaymentService(new(RepoMock), new(ProductsMock), new(UsersMock), new(ProviderMock), new(PublisherMock), secret, newNoopLogger())
		err := svc.ProcessWebhookEvent(ctx, succeededBody, "deadbeef")
		require.ErrorIs(t, err, ErrBadSignature)
	})

	t.Run("unknown event rejected", func(t *testing.T) {
		body := []byte(`{"event":"payment.refunded","object":{"id":"prov-1"}}`)
		svc := NewPaymentService(new(RepoMock), new(ProductsMock), new(UsersMock), new(ProviderMock), new(PublisherMock), secret, newNoopLogger())
		err := svc.ProcessWebhookEvent(ctx, body, sign(body, secret))
		require.ErrorIs(t, err, ErrUnknownEvent)
	})
}
