// Package verify реализует публичный HTTP-обработчик проверки сертификата по коду.
package verify

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/eduline/course-platform/internal/http/response"
	"github.com/eduline/course-platform/internal/lib/sl"
	certificate "github.com/eduline/course-platform/internal/services/certificate"
	"github.com/eduline/course-platform/internal/storage/repository"
)

// Service описывает интерфейс бизнес-логики проверки сертификата.
type Service interface {
	Verify(ctx context.Context, code string) (*certificate.VerificationResult, error)
}

// Handler обрабатывает публичные запросы проверки сертификата.
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
// @Summary Проверка сертификата
// @Description Проверяет подлинность сертификата по публичному коду.
// @Tags Certificates
// @Produce  json
// @Param code path string true "Код сертификата (UUID)"
// @Success 200 {object} response.Response "Результат проверки"
// @Failure 400 {object} response.ErrorResponse "Код не похож на код сертификата"
// @Failure 404 {object} response.ErrorResponse "Сертификат не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /certificates/{code} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.certificate.verify"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	code := chi.URLParam(r, "code")

	result, err := h.service.Verify(r.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, certificate.ErrInvalidCode):
			log.Info("malformed certificate code")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid certificate code"))
		case errors.Is(err, repository.ErrNotFound):
			log.Info("certificate not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("certificate not found"))
		default:
			log.Error("failed to verify certificate", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not verify certificate"))
		}
		return
	}

	log.Info("certificate verified", slog.String("status", result.Status))
	render.JSON(w, r, response.OKWithData(result))
}
