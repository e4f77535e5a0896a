// Package updatestatus реализует HTTP-обработчик публикации услуги
// и снятия её с витрины. Публикация возможна только после одобрения
// модерацией.
package updatestatus

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/eldercare-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/eldercare-platform/internal/http/response"
	"github.com/magabrotheeeer/eldercare-platform/internal/lib/sl"
	"github.com/magabrotheeeer/eldercare-platform/internal/models"
)

// Handler обрабатывает запросы на смену статуса размещения услуги.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики смены статуса размещения.
type Service interface {
	UpdateStatus(ctx context.Context, actorUID string, actorRole int, id int64, status int) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Опубликовать или снять услугу
// @Description Меняет статус размещения услуги. Публикация требует одобрения модерацией.
// @Tags Services
// @Accept  json
// @Produce  json
// @Param id path int true "ID услуги"
// @Param request body models.DummyServiceStatus true "Целевой статус размещения"
// @Success 200 {object} response.Response "Статус изменён"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Публиковать можно только свою услугу"
// @Failure 404 {object} response.ErrorResponse "Услуга не найдена"
// @Failure 409 {object} response.ErrorResponse "Услуга не одобрена модерацией"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /services/{id}/status [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.service.updatestatus"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid service id"))
		return
	}

	var req models.DummyServiceStatus
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

	actorUID, ok := middlewarectx.UserUIDFromContext(r.Context())
	if !ok {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}
	actorRole, _ := middlewarectx.RoleFromContext(r.Context())

	err = h.service.UpdateStatus(r.Context(), actorUID, actorRole, id, *req.Status)
	switch {
	case errors.Is(err, models.ErrServiceNotFound):
		log.Warn("service not found", slog.Int64("service_id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("service not found"))
		return
	case errors.Is(err, models.ErrForbidden):
		log.Warn("status change denied", slog.Int64("service_id", id), slog.String("user_uid", actorUID))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("access denied"))
		return
	case errors.Is(err, models.ErrNotAudited):
		log.Warn("service not approved by audit", slog.Int64("service_id", id))
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("service is not approved by audit"))
		return
	case err != nil:
		log.Error("failed to update service status", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update service status"))
		return
	}

	log.Info("service status updated", slog.Int64("service_id", id), slog.Int("status", *req.Status))
	render.JSON(w, r, response.OKWithData(nil))
}
