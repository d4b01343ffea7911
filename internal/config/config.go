package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"coin-tracker/internal/logging"
)

// Config materialises application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Logging   logging.Config  `mapstructure:"logging"`
	Database  DatabaseConfig  `mapstructure:"database"`
	CoinGecko CoinGeckoConfig `mapstructure:"coingecko"`
	Recorder  RecorderConfig  `mapstructure:"recorder"`
	Search    SearchConfig    `mapstructure:"search"`
	Export    ExportConfig    `mapstructure:"export"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// DatabaseConfig encapsulates PostgreSQL connectivity.
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// CoinGeckoConfig captures pricing API connectivity.
type CoinGeckoConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	VsCurrency     string        `mapstructure:"vs_currency"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	UserAgent      string        `mapstructure:"user_agent"`
	MaxRetries     uint64        `mapstructure:"max_retries"`
	RetryInterval  time.Duration `mapstructure:"retry_interval"`
}

// RecorderConfig governs the periodic recording loop.
type RecorderConfig struct {
	Interval        time.Duration `mapstructure:"interval"`
	AlignToInterval bool          `mapstructure:"align_to_interval"`
	StartupDelay    time.Duration `mapstructure:"startup_delay"`
	AdvisoryLockKey int64         `mapstructure:"advisory_lock_key"`
}

// SearchConfig bounds catalog search results.
type SearchConfig struct {
	Limit int `mapstructure:"limit"`
}

// ExportConfig sets CLI export behaviour.
type ExportConfig struct {
	MaxDataPoints int `mapstructure:"max_data_points"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("COINTRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "cointracker")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("coingecko.base_url", "https://api.coingecko.com/api/v3")
	v.SetDefault("coingecko.vs_currency", "usd")
	v.SetDefault("coingecko.request_timeout", "10s")
	v.SetDefault("coingecko.user_agent", "cointracker/1.0")
	v.SetDefault("coingecko.max_retries", 3)
	v.SetDefault("coingecko.retry_interval", "1s")

	v.SetDefault("recorder.interval", "5m")
	v.SetDefault("recorder.align_to_interval", true)
	v.SetDefault("recorder.startup_delay", "0s")
	v.SetDefault("recorder.advisory_lock_key", int64(0x636f696e))

	v.SetDefault("search.limit", 10)

	v.SetDefault("export.max_data_points", 100000)

	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	if c.CoinGecko.VsCurrency == "" {
		return fmt.Errorf("coingecko.vs_currency is required")
	}
	if c.CoinGecko.RequestTimeout <= 0 {
		return fmt.Errorf("coingecko.request_timeout must be greater than zero")
	}
	if c.Recorder.Interval <= 0 {
		return fmt.Errorf("recorder.interval must be greater than zero")
	}
	if c.Search.Limit <= 0 {
		return fmt.Errorf("search.limit must be greater than zero")
	}
	if c.Export.MaxDataPoints <= 0 {
		return fmt.Errorf("export.max_data_points must be greater than zero")
	}
	return nil
}

// ResolveMaxPoints returns either the CLI override or config default.
func (c *Config) ResolveMaxPoints(override int) int {
	if override > 0 {
		return override
	}
	return c.Export.MaxDataPoints
}
