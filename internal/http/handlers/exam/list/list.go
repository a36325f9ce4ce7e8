// Package list реализует HTTP-обработчик списка экзаменов каталога.
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

// Пагинация по умолчанию.
const (
	defaultLimit = 20
	maxLimit     = 100
)

// Service описывает интерфейс бизнес-логики списка экзаменов.
type Service interface {
	ListExams(ctx context.Context, limit, offset int) ([]*models.Exam, error)
}

// Handler обрабатывает запросы на получение списка экзаменов.
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

// ParsePagination извлекает limit и offset из query-параметров запроса.
func ParsePagination(r *http.Request) (limit, offset int) {
	limit = defaultLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= maxLimit {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}

// ServeHTTP godoc
// @Summary Список экзаменов
// @Description Возвращает экзамены каталога с пагинацией.
// @Tags Exams
// @Produce  json
// @Param limit query int false "Количество записей (по умолчанию 20)"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Response "Список экзаменов"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /exams [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.exam.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, offset := ParsePagination(r)

	exams, err := h.service.ListExams(r.Context(), limit, offset)
	if err != nil {
		log.Error("failed to list exams", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list exams"))
		return
	}

	log.Info("exams listed", slog.Int("count", len(exams)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"exams": exams,
	}))
}
