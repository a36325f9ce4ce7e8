// Package paymentwebhook реализует HTTP-обработчик webhook-событий платежного
// провайдера. Подпись тела проверяется на уровне бизнес-логики.
package paymentwebhook

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/eduline/course-platform/internal/http/response"
	"github.com/eduline/course-platform/internal/lib/sl"
	payment "github.com/eduline/course-platform/internal/services/payment"
)

// Service описывает интерфейс бизнес-логики обработки webhook-событий.
type Service interface {
	ProcessWebhookEvent(ctx context.Context, body []byte, signature string) error
}

// Handler обрабатывает webhook-запросы платежного провайдера.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Webhook платежного провайдера
// @Description Принимает событие об изменении статуса платежа. Подпись передается в X-Api-Signature.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param X-Api-Signature header string true "HMAC-SHA256 подпись тела"
// @Success 200 {object} response.Response "Событие обработано"
// @Failure 400 {object} response.ErrorResponse "Некорректное тело или событие"
// @Failure 401 {object} response.ErrorResponse "Неверная подпись"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /payments/webhook [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.webhook"
	log := h.log.With(slog.String("op", op))

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to read body"))
		return
	}
	defer r.Body.Close()

	signature := r.Header.Get("X-Api-Signature")

	if err := h.service.ProcessWebhookEvent(r.Context(), body, signature); err != nil {
		switch {
		case errors.Is(err, payment.ErrBadSignature):
			log.Error("invalid or missing webhook signature")
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("invalid signature"))
		case errors.Is(err, payment.ErrUnknownEvent):
			log.Info("ignored unknown webhook event")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("unknown event"))
		default:
			log.Error("failed to process webhook event", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not process event"))
		}
		return
	}

	log.Info("webhook processed successfully")
	render.JSON(w, r, response.OK())
}
