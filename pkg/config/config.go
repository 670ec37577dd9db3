package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the complete service configuration
type Config struct {
	Storage   StorageConfig
	Database  DatabaseConfig
	HTTP      HTTPConfig
	JWT       JWTConfig
	Password  PasswordComplexityConfig
	RateLimit RateLimitConfig
	Log       LogConfig
	Metrics   MetricsConfig
}

// HTTPConfig holds listener settings
type HTTPConfig struct {
	Addr            string        `env:"CRM_HTTP_ADDR" env-default:":4000"`
	ReadTimeout     time.Duration `env:"CRM_HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `env:"CRM_HTTP_WRITE_TIMEOUT" env-default:"30s"`
	IdleTimeout     time.Duration `env:"CRM_HTTP_IDLE_TIMEOUT" env-default:"120s"`
	ShutdownTimeout time.Duration `env:"CRM_HTTP_SHUTDOWN_TIMEOUT" env-default:"15s"`
}

// LogConfig selects the slog handler
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" env-default:"info"`
	Format string `env:"LOG_FORMAT" env-default:"text"`
}

// SlogLevel maps Level onto a slog.Level
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// MetricsConfig toggles the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `env:"CRM_METRICS_ENABLED" env-default:"true"`
	Path    string `env:"CRM_METRICS_PATH" env-default:"/metrics"`
}

// Load reads the configuration from the environment and validates it
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("reading configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every section and reports all problems at once
func (c *Config) Validate() error {
	return Validate(
		func() ValidationErrors {
			return CollectErrors(
				RequireOneOf("CRM_STORAGE", c.Storage.Backend, []string{StoragePostgres, StorageMemory}),
				RequireOneOf("LOG_LEVEL", strings.ToLower(c.Log.Level), []string{"debug", "info", "warn", "error"}),
				RequireOneOf("LOG_FORMAT", strings.ToLower(c.Log.Format), []string{"text", "json"}),
				RequireNonEmpty("CRM_HTTP_ADDR", c.HTTP.Addr),
				RequirePositiveDuration("CRM_HTTP_SHUTDOWN_TIMEOUT", c.HTTP.ShutdownTimeout),
			)
		},
		func() ValidationErrors {
			if c.Storage.Backend != StoragePostgres {
				return nil
			}
			return c.Database.validate()
		},
		c.JWT.validate,
		c.Password.validate,
		c.RateLimit.validate,
	)
}
