// Package resend реализует HTTP-обработчик повторной отправки кода подтверждения.
package resend

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/eduline/course-platform/internal/http/middlewarectx"
	"github.com/eduline/course-platform/internal/http/response"
	"github.com/eduline/course-platform/internal/lib/sl"
	auth "github.com/eduline/course-platform/internal/services/auth"
)

// Service описывает интерфейс бизнес-логики повторной отправки кода.
type Service interface {
	ResendVerification(ctx context.Context, userUID string) error
}

// Handler обрабатывает запросы на повторную отправку кода подтверждения.
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
// @Summary Повторная отправка кода подтверждения
// @Description Выпускает новый код подтверждения почты и отправляет его письмом.
// @Tags Auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response "Код отправлен"
// @Failure 401 {object} response.ErrorResponse "Нет или невалидный токен"
// @Failure 409 {object} response.ErrorResponse "Почта уже подтверждена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /resend-verification [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.resend"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user identification missing"))
		return
	}

	if err := h.service.ResendVerification(r.Context(), userUID); err != nil {
		if errors.Is(err, auth.ErrAlreadyVerified) {
			log.Info("email already verified")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("email already verified"))
			return
		}
		log.Error("failed to resend verification code", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not resend verification code"))
		return
	}

	log.Info("verification code resent", slog.String("user_uid", userUID))
	render.JSON(w, r, response.OK())
}
