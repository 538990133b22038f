// Package read реализует HTTP-обработчик для чтения одного курса по ID.
package read

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/course-marketplace/internal/apperr"
	"github.com/magabrotheeeer/course-marketplace/internal/http/response"
	"github.com/magabrotheeeer/course-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/course-marketplace/internal/models"
)

// Handler обрабатывает HTTP-запросы чтения курса.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения курса.
type Service interface {
	GetByID(ctx context.Context, courseID string) (*models.Course, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Курс по ID
// @Description Возвращает курс каталога по его идентификатору.
// @Tags Courses
// @Produce  json
// @Param id path string true "ID курса"
// @Success 200 {object} map[string]any "Курс"
// @Failure 404 {object} response.ErrorResponse "Курс не найден"
// @Router /courses/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	courseID := chi.URLParam(r, "id")

	course, err := h.service.GetByID(r.Context(), courseID)
	if err != nil {
		log.Error("failed to read course", sl.Err(err))
		w.WriteHeader(apperr.HTTPStatus(err))
		render.JSON(w, r, response.AppError(err))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"course": course,
	}))
}
