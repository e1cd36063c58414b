package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Adda-Baaj/healthy-diet-client/pkg/httpclient"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	APIBaseURL   string        `mapstructure:"api_base_url"`
	APIBasePath  string        `mapstructure:"api_base_path"`
	APITimeoutMs int64         `mapstructure:"api_timeout_ms"`
	APITimeout   time.Duration `mapstructure:"-"`

	PublishersFile string `mapstructure:"publishers_file"`

	HistoryStorageType     string        `mapstructure:"history_storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	HistoryTTLSeconds      int64         `mapstructure:"history_ttl_seconds"`
	HistoryCleanupSeconds  int64         `mapstructure:"history_cleanup_interval_seconds"`
	HistoryTTL             time.Duration `mapstructure:"-"`
	HistoryCleanupInterval time.Duration `mapstructure:"-"`
}

// EnvPrefix namespaces every environment variable Load reads, so API_BASE_URL
// is read as DIET_API_BASE_URL.
const EnvPrefix = "DIET"

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "healthy-diet-client")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("api_base_url", httpclient.DefaultBaseURL)
	v.SetDefault("api_base_path", httpclient.DefaultBasePath)
	v.SetDefault("api_timeout_ms", httpclient.DefaultTimeout.Milliseconds())
	v.SetDefault("publishers_file", "")
	v.SetDefault("history_storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/history.db")
	v.SetDefault("history_ttl_seconds", int64((30*24*time.Hour)/time.Second))
	v.SetDefault("history_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if strings.TrimSpace(cfg.APIBaseURL) == "" {
		return nil, fmt.Errorf("invalid api_base_url (must not be empty)")
	}
	if cfg.APITimeoutMs <= 0 {
		return nil, fmt.Errorf("invalid api_timeout_ms (must be positive milliseconds)")
	}
	cfg.APITimeout = time.Duration(cfg.APITimeoutMs) * time.Millisecond

	if cfg.HistoryTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid history_ttl_seconds (must be positive seconds)")
	}
	if cfg.HistoryCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid history_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.HistoryTTL = time.Duration(cfg.HistoryTTLSeconds) * time.Second
	cfg.HistoryCleanupInterval = time.Duration(cfg.HistoryCleanupSeconds) * time.Second

	return &cfg, nil
}

// HTTPClient derives the request configuration shared by every backend call.
func (c *Config) HTTPClient() httpclient.Config {
	cfg := httpclient.DefaultConfig()
	cfg.BaseURL = c.APIBaseURL
	cfg.BasePath = c.APIBasePath
	cfg.Timeout = c.APITimeout
	return cfg
}
