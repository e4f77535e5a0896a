package evaluate

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/eldercare-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/eldercare-platform/internal/models"
)

// MockService реализует интерфейс evaluate.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Evaluate(ctx context.Context, actorUID string, id int64, req models.DummyEvaluation) (*models.Order, error) {
	args := m.Called(ctx, actorUID, id, req)
	order, _ := args.Get(0).(*models.Order)
	return order, args.Error(1)
}

func TestEvaluateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	const elderlyUID = "11111111-0000-4000-8000-000000000001"
	five := 5
	evaluated := &models.Order{
		ID:         7,
		ElderlyUID: elderlyUID,
		Status:     models.OrderStatusAwaitingEvaluation,
		Evaluation: &five,
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "успешная оценка",
			requestBody: models.DummyEvaluation{Evaluation: 5, Content: "отлично"},
			setupMock: func(m *MockService) {
				m.On("Evaluate", mock.Anything, elderlyUID, int64(7),
					models.DummyEvaluation{Evaluation: 5, Content: "отлично"}).
					Return(evaluated, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"OK"`,
		},
		{
			name:           "оценка вне диапазона",
			requestBody:    models.DummyEvaluation{Evaluation: 6},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"status":"Error"`,
		},
		{
			name:        "заказ не готов к оценке",
			requestBody: models.DummyEvaluation{Evaluation: 4},
			setupMock: func(m *MockService) {
				m.On("Evaluate", mock.Anything, elderlyUID, int64(7),
					models.DummyEvaluation{Evaluation: 4}).
					Return(nil, models.ErrInvalidState)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","error":"order is not awaiting evaluation"}`,
		},
		{
			name:        "повторная оценка",
			requestBody: models.DummyEvaluation{Evaluation: 4},
			setupMock: func(m *MockService) {
				m.On("Evaluate", mock.Anything, elderlyUID, int64(7),
					models.DummyEvaluation{Evaluation: 4}).
					Return(nil, models.ErrAlreadyEvaluated)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","error":"order already evaluated"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			body, err := json.Marshal(tt.requestBody)
			assert.NoError(t, err)

			req := httptest.NewRequest(http.MethodPatch, "/orders/7/evaluate", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			ctx := context.WithValue(req.Context(), middlewarectx.UserUID, elderlyUID)
			ctx = context.WithValue(ctx, middlewarectx.Role, models.RoleElderly)
			ctx = context.WithValue(ctx, middleware.RequestIDKey, "req-id")
			req = req.WithContext(ctx)

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", "7")
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
