package config

import (
	"fmt"
	"net/url"

	pkgconfig "github.com/obuzietter/Messah-Enterprise/pkg/config"
)

// Config holds all configuration for the checkout service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"CHECKOUT_HTTP_PORT" envDefault:"8004"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"messah"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"messah_secret"`
	PostgresDB   string `env:"CHECKOUT_DB_NAME" envDefault:"checkout_db"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Database pool
	DBMaxConns            int32 `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns            int32 `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetimeMins int   `env:"DB_MAX_CONN_LIFETIME_MINUTES" envDefault:"60"`
	DBMaxConnIdleTimeMins int   `env:"DB_MAX_CONN_IDLE_TIME_MINUTES" envDefault:"30"`

	// Redis (checkout session state and order idempotency guard)
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	OrderTopic   string   `env:"KAFKA_ORDER_TOPIC" envDefault:"order.events"`

	// Storefront redirect targets returned to the client when a checkout
	// step cannot proceed or completes.
	CartURL    string `env:"STOREFRONT_CART_URL" envDefault:"/checkout/cart"`
	LoginURL   string `env:"STOREFRONT_LOGIN_URL" envDefault:"/customer/session/create"`
	SuccessURL string `env:"STOREFRONT_SUCCESS_URL" envDefault:"/checkout/onepage/success"`

	// Minimum order amount, in minor units of the store currency.
	MinimumOrderAmount int64  `env:"MINIMUM_ORDER_AMOUNT" envDefault:"0"`
	StoreCurrency      string `env:"STORE_CURRENCY" envDefault:"KES"`

	// Mobile money (M-Pesa STK push) gateway credentials. Secrets must be
	// injected through the environment.
	MpesaBaseURL        string `env:"MPESA_BASE_URL" envDefault:"https://sandbox.safaricom.co.ke"`
	MpesaConsumerKey    string `env:"MPESA_CONSUMER_KEY" envDefault:""`
	MpesaConsumerSecret string `env:"MPESA_CONSUMER_SECRET" envDefault:""`
	MpesaShortCode      string `env:"MPESA_SHORT_CODE" envDefault:""`
	MpesaPasskey        string `env:"MPESA_PASSKEY" envDefault:""`
	MpesaCallbackURL    string `env:"MPESA_CALLBACK_URL" envDefault:""`

	// Circuit breaker settings for the mobile money gateway.
	CBMaxRequests  uint32  `env:"CB_MAX_REQUESTS" envDefault:"1"`
	CBInterval     int     `env:"CB_INTERVAL_SECONDS" envDefault:"60"`
	CBTimeout      int     `env:"CB_TIMEOUT_SECONDS" envDefault:"30"`
	CBFailureRatio float64 `env:"CB_FAILURE_RATIO" envDefault:"0.5"`
	CBMinRequests  uint32  `env:"CB_MIN_REQUESTS" envDefault:"5"`

	// How long the per-cart order placement lock is held while an order
	// is being created.
	OrderLockTTLSeconds int `env:"ORDER_LOCK_TTL_SECONDS" envDefault:"30"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load checkout config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.PostgresHost == "" {
		return fmt.Errorf("POSTGRES_HOST is required")
	}
	if c.PostgresUser == "" {
		return fmt.Errorf("POSTGRES_USER is required")
	}
	if len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required")
	}
	if c.MinimumOrderAmount < 0 {
		return fmt.Errorf("MINIMUM_ORDER_AMOUNT must not be negative, got %d", c.MinimumOrderAmount)
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate)
	}
	if _, err := url.ParseRequestURI(c.MpesaBaseURL); err != nil {
		return fmt.Errorf("invalid MPESA_BASE_URL %q: %w", c.MpesaBaseURL, err)
	}
	return nil
}

// PostgresDSN returns the PostgreSQL connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.PostgresUser, c.PostgresPass, c.PostgresHost, c.PostgresPort, c.PostgresDB, c.PostgresSSL,
	)
}
