// Package list реализует публичный HTTP-обработчик витрины услуг.
//
// Возвращает только опубликованные и одобренные модерацией услуги
// с поиском по названию, фильтром по типу и пагинацией.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/eldercare-platform/internal/http/response"
	"github.com/magabrotheeeer/eldercare-platform/internal/lib/sl"
	"github.com/magabrotheeeer/eldercare-platform/internal/models"
)

const defaultLimit = 20

// Handler обрабатывает запросы витрины услуг.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики витрины.
type Service interface {
	ListPublic(ctx context.Context, filter models.ServiceFilter) ([]*models.Service, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ParseListQuery читает общие query-параметры выборки услуг.
func ParseListQuery(r *http.Request) models.ServiceFilter {
	filter := models.ServiceFilter{
		Name:  r.URL.Query().Get("name"),
		Limit: defaultLimit,
	}
	if v := r.URL.Query().Get("type"); v != "" {
		if t, err := strconv.Atoi(v); err == nil {
			filter.Type = &t
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 && limit <= 100 {
			filter.Limit = limit
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if offset, err := strconv.Atoi(v); err == nil && offset >= 0 {
			filter.Offset = offset
		}
	}
	return filter
}

// ServeHTTP godoc
// @Summary Витрина услуг
// @Description Возвращает опубликованные услуги с поиском по названию, фильтром по типу и пагинацией.
// @Tags Services
// @Produce  json
// @Param name query string false "Поиск по названию"
// @Param type query int false "Фильтр по типу услуги"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} map[string]any "Список услуг"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /services [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.service.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	services, err := h.service.ListPublic(r.Context(), ParseListQuery(r))
	if err != nil {
		log.Error("failed to list services", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list services"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"services": services,
		"count":    len(services),
	}))
}
