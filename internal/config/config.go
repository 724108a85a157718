package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Tradier holds credentials and tuning for the market-data API.
type Tradier struct {
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	TimeoutSec int    `mapstructure:"timeout_sec"`
}

// Server holds the listen addresses.
type Server struct {
	Addr        string `mapstructure:"addr"`
	MetricsAddr string `mapstructure:"metrics_addr"`
}

// Log holds logging output settings.
type Log struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// Config is the immutable process configuration. It is built once at startup
// and handed to constructors; nothing reads the environment after Load.
type Config struct {
	Tradier Tradier `mapstructure:"tradier"`
	Server  Server  `mapstructure:"server"`
	Log     Log     `mapstructure:"log"`
}

// Load reads configuration from the environment, with an optional TOML file
// merged underneath when path is non-empty and exists. Env names follow the
// key shape with dots replaced: tradier.api_key -> TRADIER_API_KEY.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		// Missing file is fine; env and defaults still apply.
		_ = v.ReadInConfig()
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("tradier.api_key", "")
	v.SetDefault("tradier.base_url", "https://api.tradier.com/v1")
	v.SetDefault("tradier.timeout_sec", 15)

	v.SetDefault("server.addr", ":5000")
	v.SetDefault("server.metrics_addr", ":9190")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
}

// Validate rejects configurations the service cannot start with. A missing
// API key is fatal here rather than at first request.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Tradier.APIKey) == "" {
		return fmt.Errorf("TRADIER_API_KEY is required; export it or set it in .env")
	}
	u, err := url.Parse(c.Tradier.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid TRADIER_BASE_URL %q", c.Tradier.BaseURL)
	}
	if c.Tradier.TimeoutSec <= 0 {
		return fmt.Errorf("tradier.timeout_sec must be > 0, got %d", c.Tradier.TimeoutSec)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	return nil
}

// Timeout returns the outbound request timeout as a duration.
func (t Tradier) Timeout() time.Duration {
	return time.Duration(t.TimeoutSec) * time.Second
}

// MaskedKey renders the API key safe for logs.
func (t Tradier) MaskedKey() string {
	if len(t.APIKey) <= 4 {
		return "****"
	}
	return t.APIKey[:4] + "..."
}
