// Package active реализует HTTP-обработчик списка активных оповещений
// для баннеров публичных страниц.
package active

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/eduline/course-platform/internal/http/response"
	"github.com/eduline/course-platform/internal/lib/sl"
	"github.com/eduline/course-platform/internal/models"
)

// Service описывает интерфейс бизнес-логики активных оповещений.
type Service interface {
	ListActive(ctx context.Context) ([]*models.Alert, error)
}

// Handler обрабатывает запросы на получение активных оповещений.
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
// @Summary Активные оповещения
// @Description Возвращает оповещения, попадающие в текущее окно показа.
// @Tags Alerts
// @Produce  json
// @Success 200 {object} response.Response "Список оповещений"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /alerts [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.alert.active"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	alerts, err := h.service.ListActive(r.Context())
	if err != nil {
		log.Error("failed to list alerts", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list alerts"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"alerts": alerts,
	}))
}
