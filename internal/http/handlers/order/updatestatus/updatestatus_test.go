package updatestatus

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/eldercare-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/eldercare-platform/internal/models"
)

// MockService реализует интерфейс updatestatus.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) UpdateStatus(ctx context.Context, actorUID string, actorRole int, id int64, newStatus int) (*models.Order, error) {
	args := m.Called(ctx, actorUID, actorRole, id, newStatus)
	order, _ := args.Get(0).(*models.Order)
	return order, args.Error(1)
}

func intPtr(v int) *int { return &v }

func TestUpdateStatusHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	const merchantUID = "22222222-0000-4000-8000-000000000002"
	acceptedOrder := &models.Order{
		ID:          7,
		OrderNo:     "SN20260210090000123456",
		MerchantUID: merchantUID,
		Status:      models.OrderStatusAccepted,
	}

	tests := []struct {
		name           string
		url            string
		requestBody    interface{}
		userUID        string
		role           int
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "успешная смена статуса",
			url:         "/orders/7/status",
			requestBody: models.DummyOrderStatus{Status: intPtr(models.OrderStatusAccepted)},
			userUID:     merchantUID,
			role:        models.RoleMerchant,
			setupMock: func(m *MockService) {
				m.On("UpdateStatus", mock.Anything, merchantUID, models.RoleMerchant,
					int64(7), models.OrderStatusAccepted).
					Return(acceptedOrder, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"OK"`,
		},
		{
			name:           "некорректный id в url",
			url:            "/orders/abc/status",
			requestBody:    models.DummyOrderStatus{Status: intPtr(1)},
			userUID:        merchantUID,
			role:           models.RoleMerchant,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid order id"}`,
		},
		{
			name:           "некорректный JSON",
			url:            "/orders/7/status",
			requestBody:    "not a json",
			userUID:        merchantUID,
			role:           models.RoleMerchant,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:           "статус вне диапазона",
			url:            "/orders/7/status",
			requestBody:    models.DummyOrderStatus{Status: intPtr(9)},
			userUID:        merchantUID,
			role:           models.RoleMerchant,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"status":"Error"`,
		},
		{
			name:           "отсутствует авторизация",
			url:            "/orders/7/status",
			requestBody:    models.DummyOrderStatus{Status: intPtr(1)},
			userUID:        "",
			role:           models.RoleMerchant,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"unauthorized"}`,
		},
		{
			name:        "недопустимый переход",
			url:         "/orders/7/status",
			requestBody: models.DummyOrderStatus{Status: intPtr(models.OrderStatusPending)},
			userUID:     merchantUID,
			role:        models.RoleMerchant,
			setupMock: func(m *MockService) {
				m.On("UpdateStatus", mock.Anything, merchantUID, models.RoleMerchant,
					int64(7), models.OrderStatusPending).
					Return(nil, models.ErrInvalidTransition)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","error":"invalid order status transition"}`,
		},
		{
			name:        "чужой заказ",
			url:         "/orders/7/status",
			requestBody: models.DummyOrderStatus{Status: intPtr(models.OrderStatusAccepted)},
			userUID:     merchantUID,
			role:        models.RoleMerchant,
			setupMock: func(m *MockService) {
				m.On("UpdateStatus", mock.Anything, merchantUID, models.RoleMerchant,
					int64(7), models.OrderStatusAccepted).
					Return(nil, models.ErrForbidden)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `{"status":"Error","error":"access denied"}`,
		},
		{
			name:        "заказ не найден",
			url:         "/orders/7/status",
			requestBody: models.DummyOrderStatus{Status: intPtr(models.OrderStatusAccepted)},
			userUID:     merchantUID,
			role:        models.RoleMerchant,
			setupMock: func(m *MockService) {
				m.On("UpdateStatus", mock.Anything, merchantUID, models.RoleMerchant,
					int64(7), models.OrderStatusAccepted).
					Return(nil, models.ErrOrderNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"order not found"}`,
		},
		{
			name:        "ошибка сервиса",
			url:         "/orders/7/status",
			requestBody: models.DummyOrderStatus{Status: intPtr(models.OrderStatusAccepted)},
			userUID:     merchantUID,
			role:        models.RoleMerchant,
			setupMock: func(m *MockService) {
				m.On("UpdateStatus", mock.Anything, merchantUID, models.RoleMerchant,
					int64(7), models.OrderStatusAccepted).
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not update order status"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			var body []byte
			var err error
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, err = json.Marshal(tt.requestBody)
				assert.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPatch, tt.url, bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			ctx := req.Context()
			if tt.userUID != "" {
				ctx = context.WithValue(ctx, middlewarectx.UserUID, tt.userUID)
				ctx = context.WithValue(ctx, middlewarectx.Role, tt.role)
			}
			ctx = context.WithValue(ctx, middleware.RequestIDKey, "req-id")
			req = req.WithContext(ctx)

			// Устанавливаем URL параметр id для chi
			rctx := chi.NewRouteContext()
			id := strings.TrimPrefix(strings.TrimSuffix(tt.url, "/status"), "/orders/")
			rctx.URLParams.Add("id", id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
