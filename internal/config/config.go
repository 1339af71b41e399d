package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the gateway.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Session      SessionConfig
	Upstream     UpstreamConfig
	Cart         CartConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// SessionConfig defines browser-session and token lifecycle
// parameters. Access/refresh TTLs bound how long the persisted
// upstream tokens are retained; the guest secret signs anonymous
// session cookies.
type SessionConfig struct {
	GuestSecret     string
	CookieName      string
	AccessTTLHours  int
	RefreshTTLHours int
	GuestTTLHours   int
	CookieSecure    bool
}

// UpstreamConfig locates the remote auth authority and shop service.
type UpstreamConfig struct {
	AuthBaseURL    string
	ShopBaseURL    string
	TimeoutSeconds int
}

// CartConfig carries the pricing policy inputs.
type CartConfig struct {
	ShippingFee         float64
	TaxRate             float64
	RelatedProductLimit int
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "storefront-gateway"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Session: SessionConfig{
			GuestSecret:     getEnv("SESSION_GUEST_SECRET", "dev-secret"),
			CookieName:      getEnv("SESSION_COOKIE_NAME", "storefront_session"),
			AccessTTLHours:  getEnvAsInt("SESSION_ACCESS_TTL_HOURS", 24),
			RefreshTTLHours: getEnvAsInt("SESSION_REFRESH_TTL_HOURS", 168),
			GuestTTLHours:   getEnvAsInt("SESSION_GUEST_TTL_HOURS", 720),
			CookieSecure:    getEnvAsBool("SESSION_COOKIE_SECURE", false),
		},
		Upstream: UpstreamConfig{
			AuthBaseURL:    getEnv("UPSTREAM_AUTH_BASE_URL", "http://127.0.0.1:8000"),
			ShopBaseURL:    getEnv("UPSTREAM_SHOP_BASE_URL", "http://127.0.0.1:8000"),
			TimeoutSeconds: getEnvAsInt("UPSTREAM_TIMEOUT_SECONDS", 10),
		},
		Cart: CartConfig{
			ShippingFee:         getEnvAsFloat("CART_SHIPPING_FEE", 99),
			TaxRate:             getEnvAsFloat("CART_TAX_RATE", 0.08),
			RelatedProductLimit: getEnvAsInt("CATALOG_RELATED_LIMIT", 10),
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// AccessTTL returns the persisted access-token lifetime.
func (s SessionConfig) AccessTTL() time.Duration {
	return time.Duration(s.AccessTTLHours) * time.Hour
}

// RefreshTTL returns the persisted refresh-token lifetime.
func (s SessionConfig) RefreshTTL() time.Duration {
	return time.Duration(s.RefreshTTLHours) * time.Hour
}

// GuestTTL returns the anonymous session cookie lifetime.
func (s SessionConfig) GuestTTL() time.Duration {
	return time.Duration(s.GuestTTLHours) * time.Hour
}

// Timeout returns the upstream round-trip deadline.
func (u UpstreamConfig) Timeout() time.Duration {
	if u.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(u.TimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsFloat(key string, fallback float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
