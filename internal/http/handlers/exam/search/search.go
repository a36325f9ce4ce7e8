// Package search реализует HTTP-обработчик поиска экзаменов для подсказок
// в поисковой строке каталога.
package search

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

const defaultLimit = 10

// Service описывает интерфейс бизнес-логики поиска экзаменов.
type Service interface {
	SearchExams(ctx context.Context, queryStr string, limit int) ([]*models.Exam, error)
}

// Handler обрабатывает запросы поиска экзаменов по коду или названию.
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
// @Summary Поиск экзаменов
// @Description Ищет экзамены по коду или названию. Пустой запрос возвращает пустой список.
// @Tags Exams
// @Produce  json
// @Param q query string false "Строка поиска"
// @Param limit query int false "Максимум результатов (по умолчанию 10)"
// @Success 200 {object} response.Response "Найденные экзамены"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /exams/search [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.exam.search"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	queryStr := r.URL.Query().Get("q")
	limit := defaultLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 50 {
		limit = v
	}

	exams, err := h.service.SearchExams(r.Context(), queryStr, limit)
	if err != nil {
		log.Error("failed to search exams", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not search exams"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"exams": exams,
	}))
}
