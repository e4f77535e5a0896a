package middlewarectx_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/eldercare-platform/internal/http/middlewarectx"
	customjwt "github.com/magabrotheeeer/eldercare-platform/internal/lib/jwt"
	"github.com/magabrotheeeer/eldercare-platform/internal/models"

	"io"
	"log/slog"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Mock for auth service
type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) ValidateToken(ctx context.Context, token string) (*customjwt.CustomClaims, error) {
	args := m.Called(ctx, token)
	claims, _ := args.Get(0).(*customjwt.CustomClaims)
	return claims, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func validClaims() *customjwt.CustomClaims {
	return &customjwt.CustomClaims{
		Username: "elder1",
		Role:     models.RoleElderly,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject: "11111111-0000-4000-8000-000000000001",
		},
	}
}

func TestJWTMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		authHeader     string
		mockClaims     *customjwt.CustomClaims
		mockErr        error
		wantStatusCode int
		wantCalled     bool
	}{
		{
			name:           "missing Authorization header",
			authHeader:     "",
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:           "invalid Authorization header prefix",
			authHeader:     "Basic sometoken",
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:           "token validation error",
			authHeader:     "Bearer token",
			mockErr:        errors.New("token is malformed"),
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:           "valid token",
			authHeader:     "Bearer token",
			mockClaims:     validClaims(),
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock := new(AuthServiceMock)
			if tt.mockClaims != nil || tt.mockErr != nil {
				authMock.On("ValidateToken", mock.Anything, "token").
					Return(tt.mockClaims, tt.mockErr)
			}

			handlerCalled := false
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				uid, ok := middlewarectx.UserUIDFromContext(r.Context())
				assert.True(t, ok)
				assert.Equal(t, "11111111-0000-4000-8000-000000000001", uid)
				role, ok := middlewarectx.RoleFromContext(r.Context())
				assert.True(t, ok)
				assert.Equal(t, models.RoleElderly, role)
				w.WriteHeader(http.StatusOK)
			})

			mw := middlewarectx.JWTMiddleware(authMock, newNoopLogger())(nextHandler)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()
			mw.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatusCode, rr.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
		})
	}
}

func TestRequireRoles(t *testing.T) {
	tests := []struct {
		name           string
		ctxRole        any
		allowed        []int
		wantStatusCode int
		wantCalled     bool
	}{
		{
			name:           "role allowed",
			ctxRole:        models.RoleMerchant,
			allowed:        []int{models.RoleMerchant, models.RoleAdmin},
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
		{
			name:           "role denied",
			ctxRole:        models.RoleElderly,
			allowed:        []int{models.RoleAdmin},
			wantStatusCode: http.StatusForbidden,
			wantCalled:     false,
		},
		{
			name:           "role missing in context",
			ctxRole:        nil,
			allowed:        []int{models.RoleAdmin},
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			})

			mw := middlewarectx.RequireRoles(newNoopLogger(), tt.allowed...)(nextHandler)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
			if tt.ctxRole != nil {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.Role, tt.ctxRole))
			}
			rr := httptest.NewRecorder()
			mw.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatusCode, rr.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := rate.NewLimiter(rate.Limit(0), 2)

	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mw := middlewarectx.RateLimitMiddleware(newNoopLogger(), limiter)(nextHandler)

	// burst=2 при нулевой скорости пополнения: третий запрос отбивается
	for i, want := range []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/services", nil)
		rr := httptest.NewRecorder()
		mw.ServeHTTP(rr, req)
		assert.Equalf(t, want, rr.Code, "request %d", i+1)
	}
}
