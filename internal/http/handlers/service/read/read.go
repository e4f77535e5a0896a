// Package read реализует HTTP-обработчик чтения карточки услуги по ID.
//
// Маршрут публичный: неавторизованный посетитель видит только
// опубликованные услуги, владелец и администратор — любые.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/eldercare-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/eldercare-platform/internal/http/response"
	"github.com/magabrotheeeer/eldercare-platform/internal/lib/sl"
	"github.com/magabrotheeeer/eldercare-platform/internal/models"
)

// Handler обрабатывает запросы на чтение карточки услуги.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения услуги.
type Service interface {
	Read(ctx context.Context, actorUID string, actorRole int, id int64) (*models.Service, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Карточка услуги
// @Description Возвращает карточку услуги по ID. Неопубликованные услуги видны только владельцу и администратору.
// @Tags Services
// @Produce  json
// @Param id path int true "ID услуги"
// @Success 200 {object} map[string]any "Данные услуги"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Услуга не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /services/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.service.read"

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

	// На публичном маршруте контекст может быть пустым: тогда запрос
	// идёт как от постороннего и видит только опубликованное.
	actorUID, _ := middlewarectx.UserUIDFromContext(r.Context())
	actorRole, _ := middlewarectx.RoleFromContext(r.Context())

	svc, err := h.service.Read(r.Context(), actorUID, actorRole, id)
	if err != nil {
		if errors.Is(err, models.ErrServiceNotFound) {
			log.Warn("service not found", slog.Int64("service_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("service not found"))
			return
		}
		log.Error("failed to read service", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read service"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"service": svc,
	}))
}
