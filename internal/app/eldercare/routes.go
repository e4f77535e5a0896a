// Package eldercare предоставляет маршруты приложения.
package eldercare

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/eldercare-platform/internal/http/handlers/auth/changepassword"
	"github.com/magabrotheeeer/eldercare-platform/internal/http/handlers/auth/login"
	authprofile "github.com/magabrotheeeer/eldercare-platform/internal/http/handlers/auth/profile"
	"github.com/magabrotheeeer/eldercare-platform/internal/http/handlers/auth/register"
	ordercreate "github.com/magabrotheeeer/eldercare-platform/internal/http/handlers/order/create"
	orderevaluate "github.com/magabrotheeeer/eldercare-platform/internal/http/handlers/order/evaluate"
	orderlist "github.com/magabrotheeeer/eldercare-platform/internal/http/handlers/order/list"
	orderread "github.com/magabrotheeeer/eldercare-platform/internal/http/handlers/order/read"
	orderupdatestatus "github.com/magabrotheeeer/eldercare-platform/internal/http/handlers/order/updatestatus"
	profileget "github.com/magabrotheeeer/eldercare-platform/internal/http/handlers/profile/get"
	profileread "github.com/magabrotheeeer/eldercare-platform/internal/http/handlers/profile/read"
	profileupdate "github.com/magabrotheeeer/eldercare-platform/internal/http/handlers/profile/update"
	profileupsert "github.com/magabrotheeeer/eldercare-platform/internal/http/handlers/profile/upsert"
	serviceadminlist "github.com/magabrotheeeer/eldercare-platform/internal/http/handlers/service/adminlist"
	serviceaudit "github.com/magabrotheeeer/eldercare-platform/internal/http/handlers/service/audit"
	servicecreate "github.com/magabrotheeeer/eldercare-platform/internal/http/handlers/service/create"
	servicelist "github.com/magabrotheeeer/eldercare-platform/internal/http/handlers/service/list"
	servicemerchantlist "github.com/magabrotheeeer/eldercare-platform/internal/http/handlers/service/merchantlist"
	serviceread "github.com/magabrotheeeer/eldercare-platform/internal/http/handlers/service/read"
	serviceupdate "github.com/magabrotheeeer/eldercare-platform/internal/http/handlers/service/update"
	serviceupdatestatus "github.com/magabrotheeeer/eldercare-platform/internal/http/handlers/service/updatestatus"
	usercreate "github.com/magabrotheeeer/eldercare-platform/internal/http/handlers/user/create"
	userget "github.com/magabrotheeeer/eldercare-platform/internal/http/handlers/user/get"
	userlist "github.com/magabrotheeeer/eldercare-platform/internal/http/handlers/user/list"
	userresetpassword "github.com/magabrotheeeer/eldercare-platform/internal/http/handlers/user/resetpassword"
	userupdatestatus "github.com/magabrotheeeer/eldercare-platform/internal/http/handlers/user/updatestatus"
	"github.com/magabrotheeeer/eldercare-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/eldercare-platform/internal/models"
	authservice "github.com/magabrotheeeer/eldercare-platform/internal/services/auth"
	catalogservice "github.com/magabrotheeeer/eldercare-platform/internal/services/catalog"
	orderservice "github.com/magabrotheeeer/eldercare-platform/internal/services/order"
	profileservice "github.com/magabrotheeeer/eldercare-platform/internal/services/profile"
	userservice "github.com/magabrotheeeer/eldercare-platform/internal/services/user"
)

// Services объединяет бизнес-сервисы, необходимые маршрутам.
type Services struct {
	Auth    *authservice.AuthService
	Catalog *catalogservice.CatalogService
	Order   *orderservice.OrderService
	Profile *profileservice.ProfileService
	User    *userservice.UserService
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	limiter := rate.NewLimiter(50, 100)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, s.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, s.Auth).ServeHTTP)
		r.Get("/services", servicelist.New(logger, s.Catalog).ServeHTTP)
		r.Get("/services/{id}", serviceread.New(logger, s.Catalog).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Auth, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger, limiter))

			r.Post("/auth/change-password", changepassword.New(logger, s.Auth).ServeHTTP)
			r.Get("/auth/profile", authprofile.New(logger, s.Auth).ServeHTTP)

			// Заказы
			r.Get("/orders", orderlist.New(logger, s.Order).ServeHTTP)
			r.Get("/orders/{id}", orderread.New(logger, s.Order).ServeHTTP)
			r.With(middlewarectx.RequireRoles(logger, models.RoleElderly)).
				Post("/orders", ordercreate.New(logger, s.Order).ServeHTTP)
			r.With(middlewarectx.RequireRoles(logger, models.RoleElderly, models.RoleMerchant, models.RoleAdmin)).
				Patch("/orders/{id}/status", orderupdatestatus.New(logger, s.Order).ServeHTTP)
			r.With(middlewarectx.RequireRoles(logger, models.RoleElderly)).
				Patch("/orders/{id}/evaluate", orderevaluate.New(logger, s.Order).ServeHTTP)

			// Каталог услуг
			r.With(middlewarectx.RequireRoles(logger, models.RoleMerchant)).
				Post("/services", servicecreate.New(logger, s.Catalog).ServeHTTP)
			r.With(middlewarectx.RequireRoles(logger, models.RoleMerchant)).
				Get("/services/merchant/list", servicemerchantlist.New(logger, s.Catalog).ServeHTTP)
			r.With(middlewarectx.RequireRoles(logger, models.RoleAdmin)).
				Get("/services/admin/list", serviceadminlist.New(logger, s.Catalog).ServeHTTP)
			r.With(middlewarectx.RequireRoles(logger, models.RoleMerchant, models.RoleAdmin)).
				Patch("/services/{id}", serviceupdate.New(logger, s.Catalog).ServeHTTP)
			r.With(middlewarectx.RequireRoles(logger, models.RoleMerchant, models.RoleAdmin)).
				Patch("/services/{id}/status", serviceupdatestatus.New(logger, s.Catalog).ServeHTTP)
			r.With(middlewarectx.RequireRoles(logger, models.RoleAdmin)).
				Patch("/services/{id}/audit", serviceaudit.New(logger, s.Catalog).ServeHTTP)

			// Анкеты пожилых людей
			r.With(middlewarectx.RequireRoles(logger, models.RoleElderly)).
				Get("/profiles/me", profileget.New(logger, s.Profile).ServeHTTP)
			r.With(middlewarectx.RequireRoles(logger, models.RoleElderly)).
				Post("/profiles/me", profileupsert.New(logger, s.Profile).ServeHTTP)
			r.With(middlewarectx.RequireRoles(logger, models.RoleFamily, models.RoleAdmin)).
				Get("/profiles/{uid}", profileread.New(logger, s.Profile).ServeHTTP)
			r.With(middlewarectx.RequireRoles(logger, models.RoleAdmin)).
				Put("/profiles/{uid}", profileupdate.New(logger, s.Profile).ServeHTTP)

			// Администрирование пользователей
			r.With(middlewarectx.RequireRoles(logger, models.RoleAdmin)).
				Post("/users", usercreate.New(logger, s.User).ServeHTTP)
			r.With(middlewarectx.RequireRoles(logger, models.RoleAdmin)).
				Get("/users", userlist.New(logger, s.User).ServeHTTP)
			r.With(middlewarectx.RequireRoles(logger, models.RoleAdmin)).
				Get("/users/{uid}", userget.New(logger, s.User).ServeHTTP)
			r.With(middlewarectx.RequireRoles(logger, models.RoleAdmin)).
				Patch("/users/{uid}/status", userupdatestatus.New(logger, s.User).ServeHTTP)
			r.With(middlewarectx.RequireRoles(logger, models.RoleAdmin)).
				Post("/users/{uid}/reset-password", userresetpassword.New(logger, s.User).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
