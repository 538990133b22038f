// Package coursemarketplace собирает приложение: хранилище, миграции, кеш,
// очередь чеков, сервисы и HTTP-сервер с graceful shutdown.
package coursemarketplace

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/course-marketplace/internal/cache"
	"github.com/magabrotheeeer/course-marketplace/internal/config"
	"github.com/magabrotheeeer/course-marketplace/internal/lib/jwt"
	"github.com/magabrotheeeer/course-marketplace/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/course-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/course-marketplace/internal/migrations"
	authservice "github.com/magabrotheeeer/course-marketplace/internal/services/auth"
	courseservice "github.com/magabrotheeeer/course-marketplace/internal/services/course"
	subservice "github.com/magabrotheeeer/course-marketplace/internal/services/subscription"
	"github.com/magabrotheeeer/course-marketplace/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер и ресурсы, которые нужно освободить при остановке.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	amqp   *amqp.Connection // nil — публикация событий отключена
}

// New создает приложение из конфига: подключает Postgres, применяет миграции
// и проверяет готовность схемы, подключает Redis и, если настроен, RabbitMQ,
// после чего собирает маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}
	if err = repository.CheckDatabaseReady(db); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	var amqpConn *amqp.Connection
	var receipts subservice.ReceiptPublisher
	if cfg.RabbitMQConnection != "" {
		amqpConn, err = rabbitmq.Connect(cfg.RabbitMQConnection, 5, 2*time.Second)
		if err != nil {
			return nil, err
		}
		ch, err := rabbitmq.SetupChannel(amqpConn, rabbitmq.GetReceiptQueues())
		if err != nil {
			return nil, err
		}
		receipts = &rabbitmq.ChannelPublisher{Ch: ch}
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.NewAuthService(db, jwtMaker)
	courseService := courseservice.NewCourseService(db, cacheRedis, logger)
	subscriptionService := subservice.NewSubscriptionService(db, receipts, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, jwtMaker, authService, courseService, subscriptionService)

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
		amqp:   amqpConn,
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
		if a.amqp != nil {
			if closeErr := a.amqp.Close(); closeErr != nil {
				a.logger.Error("failed to close rabbitmq connection", sl.Err(closeErr))
			}
		}
		return err
	}
}
