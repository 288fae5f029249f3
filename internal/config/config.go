// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	API       APIConfig       `mapstructure:"api"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Rates     RatesConfig     `mapstructure:"rates"`
	Sync      SyncConfig      `mapstructure:"sync"`
	Update    UpdateConfig    `mapstructure:"update"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
	TUIMode     bool   `mapstructure:"-"` // Set at runtime, not from config file
}

// APIConfig holds the sync server (auth + settings) endpoints.
type APIConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// StorageConfig holds device-local storage settings.
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// RatesConfig holds exchange-rate source configuration.
type RatesConfig struct {
	Endpoint     string        `mapstructure:"endpoint"`
	Pair         string        `mapstructure:"pair"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	StreamURL    string        `mapstructure:"stream_url"`
	Stream       bool          `mapstructure:"stream"`
}

// SyncConfig holds persistence synchronizer tuning.
type SyncConfig struct {
	RemoteDebounce  time.Duration `mapstructure:"remote_debounce"`
	WritesPerMinute int           `mapstructure:"writes_per_minute"`
}

// UpdateConfig holds the version-check endpoint.
type UpdateConfig struct {
	ManifestURL   string        `mapstructure:"manifest_url"`
	CheckInterval time.Duration `mapstructure:"check_interval"`
	Enabled       bool          `mapstructure:"enabled"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("SPREADPAD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	// Config file is optional, env vars suffice
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	v.BindEnv("app.name", "SPREADPAD_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "SPREADPAD_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "SPREADPAD_LOG_LEVEL", "LOG_LEVEL")

	v.BindEnv("api.base_url", "SPREADPAD_API_URL", "SYNC_API_URL")

	v.BindEnv("storage.path", "SPREADPAD_STORAGE_PATH")

	v.BindEnv("rates.endpoint", "SPREADPAD_RATES_ENDPOINT")
	v.BindEnv("rates.pair", "SPREADPAD_RATES_PAIR")
	v.BindEnv("rates.stream_url", "SPREADPAD_RATES_STREAM_URL")

	v.BindEnv("update.manifest_url", "SPREADPAD_UPDATE_URL")

	v.BindEnv("telemetry.enabled", "SPREADPAD_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "SPREADPAD_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "SPREADPAD_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "spreadpad")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("api.base_url", "http://localhost:8080")
	v.SetDefault("api.request_timeout", "10s")

	v.SetDefault("storage.path", "spreadpad.db")

	v.SetDefault("rates.endpoint", "https://api.binance.com")
	v.SetDefault("rates.pair", "BTCUSDT")
	v.SetDefault("rates.poll_interval", "60s")
	v.SetDefault("rates.stream_url", "wss://stream.binance.com:9443")
	v.SetDefault("rates.stream", false)

	v.SetDefault("sync.remote_debounce", "2s")
	v.SetDefault("sync.writes_per_minute", 30)

	v.SetDefault("update.enabled", true)
	v.SetDefault("update.manifest_url", "https://get.spreadpad.dev/latest.json")
	v.SetDefault("update.check_interval", "6h")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "spreadpad")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required")
	}
	if c.Rates.Pair == "" {
		return fmt.Errorf("rates.pair is required")
	}
	if c.Rates.PollInterval <= 0 {
		return fmt.Errorf("rates.poll_interval must be positive")
	}
	if c.Sync.RemoteDebounce <= 0 {
		return fmt.Errorf("sync.remote_debounce must be positive")
	}
	return nil
}
