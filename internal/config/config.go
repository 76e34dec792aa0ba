// Package config loads server configuration from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// ServerConfig holds listener and lifecycle settings.
type ServerConfig struct {
	Port            int           `mapstructure:"PORT"`
	MetricsPort     int           `mapstructure:"METRICS_PORT"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

// StorageConfig selects where ledger collections are persisted.
type StorageConfig struct {
	Backend string `mapstructure:"BACKEND"`
	DBPath  string `mapstructure:"DB_PATH"`
}

// RedisConfig holds Redis connection details for the redis backend.
type RedisConfig struct {
	Address   string `mapstructure:"ADDRESS"`
	Password  string `mapstructure:"PASSWORD"`
	DB        int    `mapstructure:"DB"`
	KeyPrefix string `mapstructure:"KEY_PREFIX"`
}

// AMQPConfig configures dashboard publishing. An empty URL disables it.
type AMQPConfig struct {
	URL        string `mapstructure:"URL"`
	Exchange   string `mapstructure:"EXCHANGE"`
	RoutingKey string `mapstructure:"ROUTING_KEY"`
}

// Enabled reports whether a broker URL is configured.
func (c AMQPConfig) Enabled() bool {
	return c.URL != ""
}

// Config aggregates all configuration sections.
type Config struct {
	LogLevel string        `mapstructure:"LOG_LEVEL"`
	Server   ServerConfig  `mapstructure:"SERVER"`
	Storage  StorageConfig `mapstructure:"STORAGE"`
	Redis    RedisConfig   `mapstructure:"REDIS"`
	AMQP     AMQPConfig    `mapstructure:"AMQP"`
}

// Load reads envFiles (default ".env") into the process environment, then
// builds the configuration from environment variables and defaults.
// Missing env files are ignored; variables already set win over the file.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read env file: %w", err)
	}

	v := viper.New()

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SERVER.PORT", 8080)
	v.SetDefault("SERVER.METRICS_PORT", 9090)
	v.SetDefault("SERVER.SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("STORAGE.BACKEND", BackendSQLite)
	v.SetDefault("STORAGE.DB_PATH", "./data/ledger.db")
	v.SetDefault("REDIS.ADDRESS", "localhost:6379")
	v.SetDefault("REDIS.PASSWORD", "")
	v.SetDefault("REDIS.DB", 0)
	v.SetDefault("REDIS.KEY_PREFIX", "splitledger:")
	v.SetDefault("AMQP.URL", "")
	v.SetDefault("AMQP.EXCHANGE", "splitledger")
	v.SetDefault("AMQP.ROUTING_KEY", "ledger.snapshot")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envBindings := [][2]string{
		{"LOG_LEVEL", "LOG_LEVEL"},
		{"SERVER.PORT", "PORT"},
		{"SERVER.METRICS_PORT", "METRICS_PORT"},
		{"SERVER.SHUTDOWN_TIMEOUT", "SHUTDOWN_TIMEOUT"},
		{"STORAGE.BACKEND", "STORAGE_BACKEND"},
		{"STORAGE.DB_PATH", "DB_PATH"},
		{"REDIS.ADDRESS", "REDIS_ADDRESS"},
		{"REDIS.PASSWORD", "REDIS_PASSWORD"},
		{"REDIS.DB", "REDIS_DB"},
		{"REDIS.KEY_PREFIX", "REDIS_KEY_PREFIX"},
		{"AMQP.URL", "AMQP_URL"},
		{"AMQP.EXCHANGE", "AMQP_EXCHANGE"},
		{"AMQP.ROUTING_KEY", "AMQP_ROUTING_KEY"},
	}
	for _, b := range envBindings {
		if err := v.BindEnv(b[0], b[1]); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", b[0], err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal failed: %w", err)
	}
	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	slog.Debug("Configuration loaded",
		"port", cfg.Server.Port,
		"metrics_port", cfg.Server.MetricsPort,
		"storage", cfg.Storage.Backend,
		"amqp_enabled", cfg.AMQP.Enabled(),
	)
	return &cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.MetricsPort < 0 || c.Server.MetricsPort > 65535 {
		errs = append(errs, fmt.Errorf("METRICS_PORT must be between 0 and 65535, got %d", c.Server.MetricsPort))
	}
	if c.Server.MetricsPort != 0 && c.Server.MetricsPort == c.Server.Port {
		errs = append(errs, errors.New("METRICS_PORT must differ from PORT"))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT must be positive"))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", c.LogLevel))
	}

	switch c.Storage.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.Storage.DBPath == "" {
			errs = append(errs, errors.New("DB_PATH is required for the sqlite backend"))
		}
	case BackendRedis:
		if c.Redis.Address == "" {
			errs = append(errs, errors.New("REDIS_ADDRESS is required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORAGE_BACKEND must be memory, sqlite or redis, got %q", c.Storage.Backend))
	}

	if c.AMQP.Enabled() {
		if c.AMQP.Exchange == "" {
			errs = append(errs, errors.New("AMQP_EXCHANGE is required when AMQP_URL is set"))
		}
		if c.AMQP.RoutingKey == "" {
			errs = append(errs, errors.New("AMQP_ROUTING_KEY is required when AMQP_URL is set"))
		}
	}

	return errors.Join(errs...)
}
