package config

import (
	"fmt"
	"time"

	"github.com/godilite/jsi-server/internal/insights"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv   string `koanf:"app_env"`
	LogLevel string `koanf:"log_level"`

	DBDriver string `koanf:"db_driver"`
	DBPath   string `koanf:"db_path"`

	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	GRPCPort              int    `koanf:"grpc_port"`
	GRPCReflectionEnabled bool   `koanf:"grpc_reflection_enabled"`
	MetricsAddr           string `koanf:"metrics_addr"`

	CacheTTLSeconds       int    `koanf:"cache_ttl_seconds"`
	RequestTimeoutSeconds int    `koanf:"request_timeout_seconds"`
	BaselineWindowDays    int    `koanf:"baseline_window_days"`
	AnomalyLookbackDays   int    `koanf:"anomaly_lookback_days"`
	AlertChannel          string `koanf:"alert_channel"`
}

// New returns the defaults every other layer is applied on.
func New() *Config {
	return &Config{
		AppEnv:                "development",
		LogLevel:              "info",
		DBDriver:              "sqlite3",
		DBPath:                "./data/jsi.db",
		RedisAddr:             "localhost:6379",
		GRPCPort:              50051,
		MetricsAddr:           ":9090",
		CacheTTLSeconds:       600,
		RequestTimeoutSeconds: 10,
		BaselineWindowDays:    insights.DefaultBaselineWindowDays,
		AnomalyLookbackDays:   30,
		AlertChannel:          "jsi:alerts",
	}
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.GRPCPort < 1 || c.GRPCPort > 65535:
		return fmt.Errorf("%w: grpc_port must be between 1 and 65535, got %d", ErrInvalidConfig, c.GRPCPort)
	case c.DBPath == "":
		return fmt.Errorf("%w: db_path must not be empty", ErrInvalidConfig)
	case c.DBDriver == "":
		return fmt.Errorf("%w: db_driver must not be empty", ErrInvalidConfig)
	case c.BaselineWindowDays <= 0:
		return fmt.Errorf("%w: baseline_window_days must be positive", ErrInvalidConfig)
	case c.AnomalyLookbackDays <= 0:
		return fmt.Errorf("%w: anomaly_lookback_days must be positive", ErrInvalidConfig)
	case c.CacheTTLSeconds < 0:
		return fmt.Errorf("%w: cache_ttl_seconds must not be negative", ErrInvalidConfig)
	case c.RequestTimeoutSeconds < 0:
		return fmt.Errorf("%w: request_timeout_seconds must not be negative", ErrInvalidConfig)
	}
	return nil
}
