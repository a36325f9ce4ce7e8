// Package list реализует HTTP-обработчик списка предстоящих мероприятий.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/eduline/course-platform/internal/http/response"
	"github.com/eduline/course-platform/internal/lib/sl"
	"github.com/eduline/course-platform/internal/models"
)

const defaultLimit = 20

// Service описывает интерфейс бизнес-логики списка мероприятий.
type Service interface {
	ListUpcomingEvents(ctx context.Context, limit, offset int) ([]*models.Event, error)
}

// Handler обрабатывает запросы на получение предстоящих мероприятий.
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
// @Summary Предстоящие мероприятия
// @Description Возвращает будущие мероприятия в порядке начала.
// @Tags Events
// @Produce  json
// @Param limit query int false "Количество записей (по умолчанию 20)"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Response "Список мероприятий"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /events [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.event.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit := defaultLimit
	offset := 0
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
		offset = v
	}

	events, err := h.service.ListUpcomingEvents(r.Context(), limit, offset)
	if err != nil {
		log.Error("failed to list events", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list events"))
		return
	}

	log.Info("events listed", slog.Int("count", len(events)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"events": events,
	}))
}
