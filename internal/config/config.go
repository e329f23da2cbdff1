package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Logger     LoggerConfig
	Auth       AuthConfig
	Redis      RedisConfig
	S3         S3Config
	Promotions PromotionsConfig
	Payment    PaymentConfig
	Checkout   CheckoutConfig
	Delivery   DeliveryConfig
	Notify     NotifyConfig
	Telemetry  TelemetryConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host            string        `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port            int           `env:"SERVER_PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	AllowedOrigin   string        `env:"CORS_ALLOWED_ORIGIN" envDefault:"*"`
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string `env:"DB_HOST" envDefault:"localhost"`
	Port            int    `env:"DB_PORT" envDefault:"5432"`
	User            string `env:"DB_USER" envDefault:"postgres"`
	Password        string `env:"DB_PASSWORD"`
	Database        string `env:"DB_NAME" envDefault:"dinekart"`
	MaxConnections  int    `env:"DB_MAX_CONNECTIONS" envDefault:"25"`
	MinConnections  int    `env:"DB_MIN_CONNECTIONS" envDefault:"5"`
	MaxConnLifetime int    `env:"DB_MAX_CONN_LIFETIME" envDefault:"300"` // seconds
	AutoMigrate     bool   `env:"DB_AUTO_MIGRATE" envDefault:"true"`
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"` // "json" or "console"
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	APIKey      string `env:"API_KEY"`
	JWTSecret   string `env:"AUTH_JWT_SECRET"`
	JWTIssuer   string `env:"AUTH_JWT_ISSUER"`
	JWTAudience string `env:"AUTH_JWT_AUDIENCE"`
}

// RedisConfig holds the cart store connection.
type RedisConfig struct {
	Enabled bool          `env:"REDIS_ENABLED" envDefault:"false"`
	URL     string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	CartTTL time.Duration `env:"REDIS_CART_TTL" envDefault:"720h"`
}

// S3Config holds AWS S3 configuration for the promotion catalog.
type S3Config struct {
	Enabled bool   `env:"S3_ENABLED" envDefault:"false"`
	Bucket  string `env:"S3_BUCKET"`
	Region  string `env:"S3_REGION" envDefault:"us-east-1"`
	Key     string `env:"S3_PROMOTIONS_KEY" envDefault:"promotions/promotions.yaml.gz"`
}

// PromotionsConfig selects where promotion codes come from.
type PromotionsConfig struct {
	Source          string        `env:"PROMOTIONS_SOURCE" envDefault:"database"` // database, file or s3
	FilePath        string        `env:"PROMOTIONS_FILE" envDefault:"./data/promotions.yaml.gz"`
	RefreshInterval time.Duration `env:"PROMOTIONS_REFRESH_INTERVAL" envDefault:"5m"`
}

// PaymentConfig holds the hosted checkout settings.
type PaymentConfig struct {
	Provider            string `env:"PAYMENT_PROVIDER" envDefault:"mock"` // stripe or mock
	StripeSecretKey     string `env:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `env:"STRIPE_WEBHOOK_SECRET"`
	StripeAPIURL        string `env:"STRIPE_API_URL"`
	Currency            string `env:"PAYMENT_CURRENCY" envDefault:"usd"`
	SuccessURL          string `env:"PAYMENT_SUCCESS_URL" envDefault:"http://localhost:3000/checkout/success?session_id={CHECKOUT_SESSION_ID}"`
	CancelURL           string `env:"PAYMENT_CANCEL_URL" envDefault:"http://localhost:3000/cart"`
	MockCheckoutURL     string `env:"PAYMENT_MOCK_CHECKOUT_URL" envDefault:"http://localhost:3000/mock-checkout"`
}

// CheckoutConfig holds pricing rules applied when an order is assembled.
type CheckoutConfig struct {
	FreeDeliveryThreshold decimal.Decimal `env:"CHECKOUT_FREE_DELIVERY_THRESHOLD" envDefault:"50"`
	DeliveryFee           decimal.Decimal `env:"CHECKOUT_DELIVERY_FEE" envDefault:"4.99"`
}

// DeliveryConfig holds the delivery calendar rules.
type DeliveryConfig struct {
	Timezone           string `env:"DELIVERY_TIMEZONE" envDefault:"UTC"`
	LeadDays           int    `env:"DELIVERY_LEAD_DAYS" envDefault:"7"`
	WindowDays         int    `env:"DELIVERY_WINDOW_DAYS" envDefault:"84"`
	RevalidateLeadTime bool   `env:"DELIVERY_REVALIDATE_LEAD_TIME" envDefault:"false"`
}

// NotifyConfig controls customer and admin notifications.
type NotifyConfig struct {
	Enabled bool          `env:"NOTIFY_ENABLED" envDefault:"true"`
	Timeout time.Duration `env:"NOTIFY_TIMEOUT" envDefault:"5s"`
}

// TelemetryConfig holds tracing configuration.
type TelemetryConfig struct {
	TracingEnabled bool   `env:"TRACING_ENABLED" envDefault:"false"`
	ServiceName    string `env:"OTEL_SERVICE_NAME" envDefault:"dinekart"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	return load(env.Options{})
}

func load(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Database.Port)
	}

	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Database.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.Database.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.Database.MinConnections > c.Database.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	if c.Auth.APIKey == "" {
		return fmt.Errorf("API key is required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.Redis.Enabled && c.Redis.URL == "" {
		return fmt.Errorf("redis URL is required when redis is enabled")
	}

	if c.Redis.CartTTL < 0 {
		return fmt.Errorf("redis cart TTL cannot be negative")
	}

	switch c.Promotions.Source {
	case "database":
	case "file":
		if c.Promotions.FilePath == "" {
			return fmt.Errorf("promotions file is required when the promotion source is file")
		}
	case "s3":
		if !c.S3.Enabled {
			return fmt.Errorf("S3 must be enabled when the promotion source is s3")
		}
	default:
		return fmt.Errorf("invalid promotion source: %s (must be database, file, or s3)", c.Promotions.Source)
	}

	if c.Promotions.RefreshInterval <= 0 {
		return fmt.Errorf("promotion refresh interval must be positive")
	}

	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 is enabled")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required when S3 is enabled")
		}
	}

	switch c.Payment.Provider {
	case "mock":
	case "stripe":
		if c.Payment.StripeSecretKey == "" {
			return fmt.Errorf("stripe secret key is required when the payment provider is stripe")
		}
		if c.Payment.StripeWebhookSecret == "" {
			return fmt.Errorf("stripe webhook secret is required when the payment provider is stripe")
		}
	default:
		return fmt.Errorf("invalid payment provider: %s (must be stripe or mock)", c.Payment.Provider)
	}

	if c.Payment.SuccessURL == "" || c.Payment.CancelURL == "" {
		return fmt.Errorf("payment success and cancel URLs are required")
	}

	if c.Checkout.DeliveryFee.IsNegative() {
		return fmt.Errorf("delivery fee cannot be negative")
	}

	if c.Checkout.FreeDeliveryThreshold.IsNegative() {
		return fmt.Errorf("free delivery threshold cannot be negative")
	}

	if _, err := time.LoadLocation(c.Delivery.Timezone); err != nil {
		return fmt.Errorf("invalid delivery timezone: %s", c.Delivery.Timezone)
	}

	if c.Delivery.LeadDays < 0 {
		return fmt.Errorf("delivery lead days cannot be negative")
	}

	if c.Delivery.WindowDays < 1 {
		return fmt.Errorf("delivery window must be at least 1 day")
	}

	if c.Notify.Enabled && c.Notify.Timeout <= 0 {
		return fmt.Errorf("notification timeout must be positive")
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Location returns the delivery time zone.
func (c *DeliveryConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
