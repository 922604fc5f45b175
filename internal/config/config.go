package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
)

const (
	EnvPrefix = "CAPTURE_"

	EnvProduction = "production"
)

type Config struct {
	Primary  Primary        `koanf:"primary"`
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	PayPal   PayPalConfig   `koanf:"paypal"`
	Retry    RetryConfig    `koanf:"retry"`
	Breaker  BreakerConfig  `koanf:"breaker"`
	Redis    RedisConfig    `koanf:"redis"`
	Logger   LoggerConfig   `koanf:"logger"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

type ServerConfig struct {
	Port         string        `koanf:"port" validate:"required"`
	ReadTimeout  time.Duration `koanf:"read_timeout" validate:"required"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"required"`
	IdleTimeout  time.Duration `koanf:"idle_timeout" validate:"required"`
}

type DatabaseConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            int           `koanf:"port" validate:"required"`
	User            string        `koanf:"user" validate:"required"`
	Password        string        `koanf:"password" validate:"required"`
	Name            string        `koanf:"name" validate:"required"`
	SSLMode         string        `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time" validate:"required"`
}

// PayPalConfig selects the REST endpoint and transport limits for the provider client.
// TokenExpiryMargin is subtracted from expires_in before an access token is cached.
type PayPalConfig struct {
	LiveBaseURL       string        `koanf:"live_base_url" validate:"required"`
	SandboxBaseURL    string        `koanf:"sandbox_base_url" validate:"required"`
	ConnTimeout       time.Duration `koanf:"conn_timeout" validate:"required"`
	TokenExpiryMargin time.Duration `koanf:"token_expiry_margin"`
}

// RetryConfig applies to the OAuth token request only. Captures are never retried.
type RetryConfig struct {
	BaseDelay  time.Duration `koanf:"base_delay"`
	MaxRetries int           `koanf:"max_retries" validate:"required"`
}

type BreakerConfig struct {
	MaxRequests         uint32        `koanf:"max_requests"`
	Interval            time.Duration `koanf:"interval"`
	Timeout             time.Duration `koanf:"timeout" validate:"required"`
	ConsecutiveFailures uint32        `koanf:"consecutive_failures" validate:"required"`
}

type RedisConfig struct {
	Addr      string `koanf:"addr" validate:"required"`
	Password  string `koanf:"password"`
	DB        int    `koanf:"db"`
	KeyPrefix string `koanf:"key_prefix" validate:"required"`
}

type LoggerConfig struct {
	Level string `koanf:"level"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"primary.env": "development",

		"server.port":          "3000",
		"server.read_timeout":  "15s",
		"server.write_timeout": "15s",
		"server.idle_timeout":  "60s",

		"database.host":               "localhost",
		"database.port":               5432,
		"database.user":               "postgres",
		"database.password":           "postgres",
		"database.name":               "calendso",
		"database.ssl_mode":           "disable",
		"database.max_open_conns":     10,
		"database.max_idle_conns":     2,
		"database.conn_max_lifetime":  "1h",
		"database.conn_max_idle_time": "30m",

		"paypal.live_base_url":       "https://api-m.paypal.com",
		"paypal.sandbox_base_url":    "https://api-m.sandbox.paypal.com",
		"paypal.conn_timeout":        "10s",
		"paypal.token_expiry_margin": "60s",

		"retry.base_delay":  "200ms",
		"retry.max_retries": 3,

		"breaker.max_requests":         1,
		"breaker.interval":             "60s",
		"breaker.timeout":              "30s",
		"breaker.consecutive_failures": 5,

		"redis.addr":       "localhost:6379",
		"redis.db":         0,
		"redis.key_prefix": "paypal:token:",

		"logger.level": "info",
	}
}

func LoadConfig() (*Config, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		logger.Error("failed to load default configuration", "error", err)
		return nil, err
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, EnvPrefix)),
			"__",
			".",
		)
	}), nil)
	if err != nil {
		logger.Error("failed to load environment variables", "error", err)
		return nil, err
	}

	mainConfig := &Config{}

	err = k.Unmarshal("", mainConfig)
	if err != nil {
		logger.Error("could not unmarshal main config", "error", err)
		return nil, err
	}

	validate := validator.New()

	err = validate.Struct(mainConfig)
	if err != nil {
		logger.Error("config validation failed", "error", err)
		return nil, err
	}

	return mainConfig, nil
}

// IsProduction reports whether diagnostics must be stripped and the live PayPal endpoint used.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Primary.Env, EnvProduction)
}

// PayPalBaseURL returns the live endpoint in production and the sandbox otherwise.
func (c *Config) PayPalBaseURL() string {
	if c.IsProduction() {
		return c.PayPal.LiveBaseURL
	}
	return c.PayPal.SandboxBaseURL
}
