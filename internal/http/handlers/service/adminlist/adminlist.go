// Package adminlist реализует HTTP-обработчик модераторской выборки услуг:
// администратор видит все карточки с фильтрами по статусам размещения
// и модерации.
package adminlist

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/eldercare-platform/internal/http/handlers/service/list"
	"github.com/magabrotheeeer/eldercare-platform/internal/http/response"
	"github.com/magabrotheeeer/eldercare-platform/internal/lib/sl"
	"github.com/magabrotheeeer/eldercare-platform/internal/models"
)

// Handler обрабатывает модераторские запросы на выборку услуг.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики модераторской выборки.
type Service interface {
	ListAll(ctx context.Context, filter models.ServiceFilter) ([]*models.Service, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Все услуги (администратор)
// @Description Возвращает услуги всех поставщиков с фильтрами по статусам размещения и модерации.
// @Tags Services
// @Produce  json
// @Param name query string false "Поиск по названию"
// @Param type query int false "Фильтр по типу услуги"
// @Param status query int false "Фильтр по статусу размещения"
// @Param audit_status query int false "Фильтр по статусу модерации"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} map[string]any "Список услуг"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /services/admin/list [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.service.adminlist"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	filter := list.ParseListQuery(r)
	filter.MerchantUID = r.URL.Query().Get("merchant_uid")
	if v := r.URL.Query().Get("status"); v != "" {
		if status, err := strconv.Atoi(v); err == nil {
			filter.Status = &status
		}
	}
	if v := r.URL.Query().Get("audit_status"); v != "" {
		if auditStatus, err := strconv.Atoi(v); err == nil {
			filter.AuditStatus = &auditStatus
		}
	}

	services, err := h.service.ListAll(r.Context(), filter)
	if err != nil {
		log.Error("failed to list services for admin", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list services"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"services": services,
		"count":    len(services),
	}))
}
