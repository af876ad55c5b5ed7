package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "QUOTEPORTAL"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
	Shipping     ShippingConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"QUOTEPORTAL_APP_ENV" required:"true"`
	Port         string `envconfig:"QUOTEPORTAL_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"QUOTEPORTAL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"QUOTEPORTAL_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"QUOTEPORTAL_DB_DSN"`
	Driver string `envconfig:"QUOTEPORTAL_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"QUOTEPORTAL_DB_HOST"`
	Port     int    `envconfig:"QUOTEPORTAL_DB_PORT" default:"5432"`
	User     string `envconfig:"QUOTEPORTAL_DB_USER"`
	Password string `envconfig:"QUOTEPORTAL_DB_PASSWORD"`
	Name     string `envconfig:"QUOTEPORTAL_DB_NAME"`
	SSLMode  string `envconfig:"QUOTEPORTAL_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"QUOTEPORTAL_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"QUOTEPORTAL_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"QUOTEPORTAL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"QUOTEPORTAL_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("either QUOTEPORTAL_DB_DSN or host/user/name must be set")
	}
	d.DSN = fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"QUOTEPORTAL_REDIS_URL" required:"true"`
	Password     string        `envconfig:"QUOTEPORTAL_REDIS_PASSWORD"`
	DB           int           `envconfig:"QUOTEPORTAL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"QUOTEPORTAL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"QUOTEPORTAL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"QUOTEPORTAL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"QUOTEPORTAL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"QUOTEPORTAL_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"QUOTEPORTAL_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"QUOTEPORTAL_JWT_ISSUER" default:"quoteportal"`
	ExpirationMinutes int    `envconfig:"QUOTEPORTAL_JWT_EXPIRATION_MINUTES" default:"60"`
}

// Expiration returns the configured token lifetime.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type RateLimitConfig struct {
	QuoteWindow  time.Duration `envconfig:"QUOTEPORTAL_RATE_LIMIT_QUOTE_WINDOW" default:"1m"`
	QuoteIPLimit int           `envconfig:"QUOTEPORTAL_RATE_LIMIT_QUOTE_IP_LIMIT" default:"60"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"QUOTEPORTAL_FEATURE_AUTO_MIGRATE" default:"false"`
}

type ShippingConfig struct {
	RoutingBaseURL string        `envconfig:"QUOTEPORTAL_SHIPPING_ROUTING_BASE_URL"`
	RoutingAPIKey  string        `envconfig:"QUOTEPORTAL_SHIPPING_ROUTING_API_KEY"`
	RequestTimeout time.Duration `envconfig:"QUOTEPORTAL_SHIPPING_REQUEST_TIMEOUT" default:"10s"`
	DistanceTTL    time.Duration `envconfig:"QUOTEPORTAL_SHIPPING_DISTANCE_TTL" default:"24h"`

	WarehousePostalCode string `envconfig:"QUOTEPORTAL_SHIPPING_WAREHOUSE_POSTAL_CODE" default:"2031EC"`
	WarehouseCountry    string `envconfig:"QUOTEPORTAL_SHIPPING_WAREHOUSE_COUNTRY" default:"NL"`

	BaseFee   string `envconfig:"QUOTEPORTAL_SHIPPING_BASE_FEE" default:"7.50"`
	RatePerKm string `envconfig:"QUOTEPORTAL_SHIPPING_RATE_PER_KM" default:"0.45"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"QUOTEPORTAL_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	QuoteTopic        string `envconfig:"QUOTEPORTAL_PUBSUB_QUOTE_TOPIC" default:"quote-events"`
	ConfigTopic       string `envconfig:"QUOTEPORTAL_PUBSUB_CONFIG_TOPIC" default:"pricing-config-events"`
	QuoteSubscription string `envconfig:"QUOTEPORTAL_PUBSUB_QUOTE_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"QUOTEPORTAL_OUTBOX_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"QUOTEPORTAL_OUTBOX_POLL_INTERVAL_MS" default:"500"`
	MaxAttempts    int `envconfig:"QUOTEPORTAL_OUTBOX_MAX_ATTEMPTS" default:"10"`
}
