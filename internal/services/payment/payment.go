// Package services содержит бизнес-логику платежей: создание платежа у
// провайдера и обработку его webhook-событий.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/eduline/course-platform/internal/lib/rabbitmq"
	"github.com/eduline/course-platform/internal/lib/sl"
	"github.com/eduline/course-platform/internal/models"
	"github.com/eduline/course-platform/internal/paymentprovider"
)

// Ошибки обработки webhook-событий.
var (
	ErrBadSignature   = errors.New("invalid webhook signature")
	ErrUnknownEvent   = errors.New("unknown webhook event")
	ErrProductMissing = errors.New("product is not available")
)

// PaymentRepository определяет методы для работы с платежами в хранилище.
type PaymentRepository interface {
	CreatePayment(ctx context.Context, payment models.Payment) (string, error)
	UpdatePaymentStatus(ctx context.Context, providerPaymentID, status string) (*models.Payment, error)
	ListPayments(ctx context.Context, userUID string, limit, offset int) ([]*models.Payment, error)
}

// ProductReader возвращает товар для выставления счета.
type ProductReader interface {
	ReadProduct(ctx context.Context, id int) (*models.Product, error)
}

// UserReader возвращает пользователя для отправки чека.
type UserReader interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// Provider создает платеж во внешней платежной системе.
type Provider interface {
	CreatePayment(reqParams paymentprovider.CreatePaymentRequest) (*paymentprovider.CreatePaymentResponse, error)
}

// Publisher публикует уведомления для воркера отправки писем.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// CheckoutResult результат создания платежа: куда отправить покупателя.
type CheckoutResult struct {
	PaymentUID      string `json:"payment_uid"`
	ConfirmationURL string `json:"confirmation_url"`
}

// PaymentService реализует бизнес-логику платежей.
type PaymentService struct {
	repo          PaymentRepository
	products      ProductReader
	users         UserReader
	provider      Provider
	publisher     Publisher
	webhookSecret string
	log           *slog.Logger
}

// NewPaymentService создает новый экземпляр PaymentService.
func NewPaymentService(repo PaymentRepository, products ProductReader, users UserReader,
	provider Provider, publisher Publisher, webhookSecret string, log *slog.Logger) *PaymentService {
	return &PaymentService{
		repo:          repo,
		products:      products,
		users:         users,
		provider:      provider,
		publisher:     publisher,
		webhookSecret: webhookSecret,
		log:           log,
	}
}

// Create создает платеж за товар: заводит его у провайдера и сохраняет
// локально в статусе pending. Возвращает URL подтверждения оплаты.
func (s *PaymentService) Create(ctx context.Context, userUID string, productID int, returnURL string) (*CheckoutResult, error) {
	product, err := s.products.ReadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, ErrProductMissing
	}

	resp, err := s.provider.CreatePayment(paymentprovider.CreatePaymentRequest{
		Amount: paymentprovider.Amount{
			Value:    centsToValue(product.PriceCents),
			Currency: "USD",
		},
		Description: product.Title,
		Confirmation: paymentprovider.Confirmation{
			Type:      "redirect",
			ReturnURL: returnURL,
		},
		Capture: true,
		Metadata: map[string]string{
			"user_uid":   userUID,
			"product_id": strconv.Itoa(productID),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create provider payment: %w", err)
	}

	payment := models.Payment{
		ProviderPaymentID: resp.ID,
		UserUID:           userUID,
		ProductID:         productID,
		AmountCents:       product.PriceCents,
		Status:            models.PaymentStatusPending,
	}
	paymentUID, err := s.repo.CreatePayment(ctx, payment)
	if err != nil {
		return nil, err
	}

	s.log.Info("created payment",
		slog.String("payment_uid", paymentUID),
		slog.String("provider_payment_id", resp.ID))

	return &CheckoutResult{
		PaymentUID:      paymentUID,
		ConfirmationURL: resp.Confirmation.URL,
	}, nil
}

// List возвращает платежи пользователя с пагинацией.
func (s *PaymentService) List(ctx context.Context, userUID string, limit, offset int) ([]*models.Payment, error) {
	return s.repo.ListPayments(ctx, userUID, limit, offset)
}

// ProcessWebhookEvent проверяет подпись тела, обновляет статус платежа и при
// успешной оплате ставит чек в очередь писем.
func (s *PaymentService) ProcessWebhookEvent(ctx context.Context, body []byte, signature string) error {
	if !paymentprovider.VerifyWebhookSignature(body, signature, s.webhookSecret) {
		return ErrBadSignature
	}

	var event paymentprovider.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("failed to decode webhook event: %w", err)
	}

	var status string
	switch event.Event {
	case "payment.succeeded":
		status = models.PaymentStatusSucceeded
	case "payment.canceled":
		status = models.PaymentStatusCanceled
	default:
		return ErrUnknownEvent
	}

	payment, err := s.repo.UpdatePaymentStatus(ctx, event.Object.ID, status)
	if err != nil {
		return err
	}
	s.log.Info("payment status updated",
		slog.String("provider_payment_id", event.Object.ID),
		slog.String("status", status))

	if status != models.PaymentStatusSucceeded {
		return nil
	}

	user, err := s.users.GetUser(ctx, payment.UserUID)
	if err != nil {
		s.log.Error("failed to load user for receipt", sl.Err(err))
		return nil
	}
	product, err := s.products.ReadProduct(ctx, payment.ProductID)
	if err != nil {
		s.log.Error("failed to load product for receipt", sl.Err(err))
		return nil
	}

	receipt := models.PaymentReceipt{
		Email:        user.Email,
		Username:     user.Username,
		ProductTitle: product.Title,
		AmountCents:  payment.AmountCents,
	}
	if err := s.publisher.Publish(rabbitmq.RoutingKeyReceipt, receipt); err != nil {
		s.log.Error("failed to publish payment receipt", sl.Err(err))
	}
	return nil
}

// centsToValue переводит сумму в центах в строку вида "1800.00".
func centsToValue(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
