// Package eldercare собирает приложение платформы: подключения к базе,
// Redis и RabbitMQ, бизнес-сервисы, маршруты и HTTP-сервер с
// корректным завершением.
package eldercare

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/eldercare-platform/internal/cache"
	"github.com/magabrotheeeer/eldercare-platform/internal/config"
	"github.com/magabrotheeeer/eldercare-platform/internal/lib/jwt"
	"github.com/magabrotheeeer/eldercare-platform/internal/lib/sl"
	"github.com/magabrotheeeer/eldercare-platform/internal/migrations"
	"github.com/magabrotheeeer/eldercare-platform/internal/rabbitmq"
	authservice "github.com/magabrotheeeer/eldercare-platform/internal/services/auth"
	catalogservice "github.com/magabrotheeeer/eldercare-platform/internal/services/catalog"
	orderservice "github.com/magabrotheeeer/eldercare-platform/internal/services/order"
	profileservice "github.com/magabrotheeeer/eldercare-platform/internal/services/profile"
	userservice "github.com/magabrotheeeer/eldercare-platform/internal/services/user"
	"github.com/magabrotheeeer/eldercare-platform/internal/storage/repository"
)

// App держит HTTP-сервер и внешние соединения приложения.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
}

// New строит приложение: базу с миграциями, кеш, брокер, сервисы и роутер.
// Redis и RabbitMQ необязательны: без них приложение стартует с
// отключенными кешированием и нотификациями.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	var orderCache orderservice.OrderCache
	var serviceCache catalogservice.ServiceCache
	if cfg.AddressRedis != "" {
		cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			return nil, err
		}
		orderCache = cacheRedis
		serviceCache = cacheRedis
	} else {
		logger.Warn("redis address is empty, caching disabled")
	}

	var publisher orderservice.EventPublisher
	if cfg.RabbitConnectionString != "" {
		conn, err := rabbitmq.Connect(cfg.RabbitConnectionString, 5, 3*time.Second)
		if err != nil {
			return nil, err
		}
		ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
		if err != nil {
			return nil, err
		}
		publisher = rabbitmq.NewPublisher(ch)
	} else {
		logger.Warn("rabbitmq address is empty, notifications disabled")
	}

	jwtMaker := jwt.NewMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.NewAuthService(db, jwtMaker, logger)
	catalogService := catalogservice.NewCatalogService(db, serviceCache, logger)
	orderService := orderservice.NewOrderService(db, db, publisher, orderCache, logger)
	profileService := profileservice.NewProfileService(db, db, logger)
	userService := userservice.NewUserService(db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &Services{
		Auth:    authService,
		Catalog: catalogService,
		Order:   orderService,
		Profile: profileService,
		User:    userService,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", sl.Err(closeErr))
		}
		return err
	}
}
