// Package issue реализует HTTP-обработчик выдачи сертификата администратором.
package issue

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/eduline/course-platform/internal/http/response"
	"github.com/eduline/course-platform/internal/lib/sl"
	"github.com/eduline/course-platform/internal/models"
)

// Request — структура входных данных для выдачи сертификата.
type Request struct {
	UserUID    string `json:"user_uid" validate:"required,uuid"`
	ExamID     int    `json:"exam_id" validate:"required,gt=0"`
	HolderName string `json:"holder_name" validate:"required,min=3,max=200"`
	ExpiresAt  string `json:"expires_at,omitempty"` // RFC3339; пусто — бессрочный
}

// Service описывает интерфейс бизнес-логики выдачи сертификата.
type Service interface {
	Issue(ctx context.Context, cert models.Certificate) (string, error)
}

// Handler обрабатывает запросы на выдачу сертификата.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Выдача сертификата
// @Description Выдает сертификат о сдаче экзамена. Доступно только администратору.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Данные сертификата, срок в формате RFC3339"
// @Success 201 {object} response.Response "Сертификат выдан"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или дата"
// @Failure 403 {object} response.ErrorResponse "Нет прав администратора"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/certificates [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.certificate.issue"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	cert := models.Certificate{
		UserUID:    req.UserUID,
		ExamID:     req.ExamID,
		HolderName: req.HolderName,
	}
	if req.ExpiresAt != "" {
		expiresAt, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			log.Error("failed to parse expires_at", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("expires_at must be RFC3339"))
			return
		}
		cert.ExpiresAt = &expiresAt
	}

	code, err := h.service.Issue(r.Context(), cert)
	if err != nil {
		log.Error("failed to issue certificate", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not issue certificate"))
		return
	}

	log.Info("certificate issued", slog.String("code", code), slog.Int("exam_id", req.ExamID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"code": code,
	}))
}
