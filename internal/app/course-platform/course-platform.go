package courseplatform

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/eduline/course-platform/internal/cache"
	"github.com/eduline/course-platform/internal/config"
	"github.com/eduline/course-platform/internal/lib/jwt"
	"github.com/eduline/course-platform/internal/lib/rabbitmq"
	"github.com/eduline/course-platform/internal/migrations"
	"github.com/eduline/course-platform/internal/paymentprovider"
	alertservice "github.com/eduline/course-platform/internal/services/alert"
	authservice "github.com/eduline/course-platform/internal/services/auth"
	catalogservice "github.com/eduline/course-platform/internal/services/catalog"
	certificateservice "github.com/eduline/course-platform/internal/services/certificate"
	paymentservice "github.com/eduline/course-platform/internal/services/payment"
	"github.com/eduline/course-platform/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер и ресурсы основного приложения.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New собирает приложение: хранилище, миграции, кеш, брокер сообщений,
// платежный провайдер, бизнес-логику и маршруты HTTP-сервера.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	notifier := rabbitmq.NewNotifier(ch)

	providerClient := paymentprovider.NewClient(cfg.ShopID, cfg.SecretKey)
	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.NewAuthService(db, cacheRedis, notifier, jwtMaker, logger)
	catalogService := catalogservice.NewCatalogService(db, db, db, cacheRedis, logger)
	alertService := alertservice.NewAlertService(db, logger)
	certificateService := certificateservice.NewCertificateService(db, logger)
	paymentService := paymentservice.NewPaymentService(db, db, db, providerClient,
		notifier, cfg.WebhookSecret, logger)

	router := chi.NewRouter()

	RegisterRoutes(router, logger, jwtMaker, authService, catalogService,
		alertService, certificateService, paymentService)

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
		cache:  cacheRedis,
		conn:   conn,
		ch:     ch,
	}, nil
}

// Run запускает HTTP-сервер и блокируется до отмены контекста или ошибки сервера.
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
		_ = a.ch.Close()
		_ = a.conn.Close()
		_ = a.cache.Close()
		_ = a.db.DB.Close()
		return err
	}
}
