// Package evaluate реализует HTTP-обработчик оценки выполненного заказа.
//
// Оценка доступна только стороне пожилого человека, только в статусе
// ожидания оценки и только один раз. Статус заказа оценка не меняет.
package evaluate

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

// Handler обрабатывает запросы на оценку заказа.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики оценки заказа.
type Service interface {
	Evaluate(ctx context.Context, actorUID string, id int64, req models.DummyEvaluation) (*models.Order, error)
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
// @Summary Оценить заказ
// @Description Выставляет заказу оценку 1-5 с необязательным отзывом. Повторная оценка невозможна.
// @Tags Orders
// @Accept  json
// @Produce  json
// @Param id path int true "ID заказа"
// @Param request body models.DummyEvaluation true "Оценка и отзыв"
// @Success 200 {object} map[string]any "Заказ с оценкой"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Оценивать может только заказчик"
// @Failure 404 {object} response.ErrorResponse "Заказ не найден"
// @Failure 409 {object} response.ErrorResponse "Заказ не готов к оценке или уже оценён"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /orders/{id}/evaluate [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.evaluate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid order id"))
		return
	}

	var req models.DummyEvaluation
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

	userUID, ok := middlewarectx.UserUIDFromContext(r.Context())
	if !ok {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	order, err := h.service.Evaluate(r.Context(), userUID, id, req)
	switch {
	case errors.Is(err, models.ErrOrderNotFound):
		log.Warn("order not found", slog.Int64("order_id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("order not found"))
		return
	case errors.Is(err, models.ErrForbidden):
		log.Warn("evaluation denied", slog.Int64("order_id", id), slog.String("user_uid", userUID))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("access denied"))
		return
	case errors.Is(err, models.ErrInvalidState):
		log.Warn("order is not awaiting evaluation", slog.Int64("order_id", id))
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("order is not awaiting evaluation"))
		return
	case errors.Is(err, models.ErrAlreadyEvaluated):
		log.Warn("order already evaluated", slog.Int64("order_id", id))
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("order already evaluated"))
		return
	case err != nil:
		log.Error("failed to evaluate order", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not evaluate order"))
		return
	}

	log.Info("order evaluated", slog.Int64("order_id", id), slog.Int("evaluation", req.Evaluation))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"order": order,
	}))
}
