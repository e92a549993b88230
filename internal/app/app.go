package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/obuzietter/Messah-Enterprise/internal/config"
	"github.com/obuzietter/Messah-Enterprise/internal/event"
	handler "github.com/obuzietter/Messah-Enterprise/internal/handler/http"
	"github.com/obuzietter/Messah-Enterprise/internal/mpesa"
	"github.com/obuzietter/Messah-Enterprise/internal/payment"
	"github.com/obuzietter/Messah-Enterprise/internal/repository/postgres"
	"github.com/obuzietter/Messah-Enterprise/internal/service"
	"github.com/obuzietter/Messah-Enterprise/internal/session"
	"github.com/obuzietter/Messah-Enterprise/internal/shipping"
	"github.com/obuzietter/Messah-Enterprise/migrations"
	"github.com/obuzietter/Messah-Enterprise/pkg/database"
	"github.com/obuzietter/Messah-Enterprise/pkg/health"
	"github.com/obuzietter/Messah-Enterprise/pkg/httpclient"
	pkgkafka "github.com/obuzietter/Messah-Enterprise/pkg/kafka"
	"github.com/obuzietter/Messah-Enterprise/pkg/middleware"
	"github.com/obuzietter/Messah-Enterprise/pkg/tracing"
)

// App wires together all dependencies and runs the checkout service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	redis          *goredis.Client
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "checkout-service",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Initialize PostgreSQL connection pool.
	pgCfg := database.PostgresConfig{
		Host:            cfg.PostgresHost,
		Port:            cfg.PostgresPort,
		User:            cfg.PostgresUser,
		Password:        cfg.PostgresPass,
		DBName:          cfg.PostgresDB,
		SSLMode:         cfg.PostgresSSL,
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: time.Duration(cfg.DBMaxConnLifetimeMins) * time.Minute,
		MaxConnIdleTime: time.Duration(cfg.DBMaxConnIdleTimeMins) * time.Minute,
	}

	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)

	// Run database migrations.
	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	// Initialize Redis for checkout session state.
	redisClient, err := database.NewRedisClient(ctx, database.RedisConfig{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("host", cfg.RedisHost),
		slog.Int("port", cfg.RedisPort),
	)

	// Initialize Kafka producer.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Mobile money gateway behind a circuit breaker.
	baseClient := httpclient.New(httpclient.Config{
		Timeout:         10 * time.Second,
		MaxRetries:      3,
		RetryWaitMin:    500 * time.Millisecond,
		RetryWaitMax:    5 * time.Second,
		MaxConnsPerHost: 100,
	})
	cbClient := httpclient.NewCircuitBreakerClient(baseClient, httpclient.CircuitBreakerConfig{
		Name:         "mpesa",
		MaxRequests:  cfg.CBMaxRequests,
		Interval:     time.Duration(cfg.CBInterval) * time.Second,
		Timeout:      time.Duration(cfg.CBTimeout) * time.Second,
		FailureRatio: cfg.CBFailureRatio,
		MinRequests:  cfg.CBMinRequests,
	}, logger)

	gateway := mpesa.NewGateway(mpesa.Config{
		BaseURL:        cfg.MpesaBaseURL,
		ConsumerKey:    cfg.MpesaConsumerKey,
		ConsumerSecret: cfg.MpesaConsumerSecret,
		ShortCode:      cfg.MpesaShortCode,
		Passkey:        cfg.MpesaPasskey,
		CallbackURL:    cfg.MpesaCallbackURL,
	}, cbClient, logger)

	// Build the dependency graph.
	checkoutService := service.NewCheckoutService(
		postgres.NewCartRepository(pool),
		postgres.NewOrderRepository(pool),
		postgres.NewCustomerRepository(pool),
		shipping.NewProvider(
			shipping.FlatRate{RatePerUnit: 500},
			shipping.FreeShipping{MinSubtotal: 500000},
		),
		payment.NewProvider(payment.DefaultMethods()...),
		gateway,
		session.NewStore(redisClient),
		event.NewPublisher(producer, cfg.OrderTopic, logger),
		service.URLs{
			Cart:    cfg.CartURL,
			Login:   cfg.LoginURL,
			Success: cfg.SuccessURL,
		},
		service.Options{
			MinimumOrderAmount: cfg.MinimumOrderAmount,
			Currency:           cfg.StoreCurrency,
			OrderLockTTL:       time.Duration(cfg.OrderLockTTLSeconds) * time.Second,
		},
		logger,
	)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.Register("redis", func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})
	healthHandler.Register("kafka", producer.Ping)

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins
	corsCfg.Environment = cfg.Environment

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler.NewRouter(checkoutService, healthHandler, corsCfg, logger),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		redis:          redisClient,
		producer:       producer,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components in dependency order: drain HTTP,
// flush spans, close Kafka, Redis and PostgreSQL.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if err := a.redis.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
