// Package config loads application configuration and wires the global
// logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Forager ForagerConfig `yaml:"forager" mapstructure:"forager"`
	Aviato  AviatoConfig  `yaml:"aviato" mapstructure:"aviato"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Batch   BatchConfig   `yaml:"batch" mapstructure:"batch"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Presets string        `yaml:"presets" mapstructure:"presets"`
}

// ForagerConfig holds Forager API credentials and tuning.
type ForagerConfig struct {
	APIKey      string  `yaml:"api_key" mapstructure:"api_key"`
	AccountID   string  `yaml:"account_id" mapstructure:"account_id"`
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// AviatoConfig holds Aviato API credentials and tuning.
type AviatoConfig struct {
	APIKey      string  `yaml:"api_key" mapstructure:"api_key"`
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// BatchConfig bounds pipeline concurrency. The sizes stand in for unstated
// vendor rate limits; no backoff exists below them.
type BatchConfig struct {
	EnrichSize int `yaml:"enrich_size" mapstructure:"enrich_size"`
	LookupSize int `yaml:"lookup_size" mapstructure:"lookup_size"`
}

// ServerConfig configures the API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CHERT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Secrets default empty so their env keys bind.
	v.SetDefault("forager.api_key", "")
	v.SetDefault("forager.account_id", "")
	v.SetDefault("aviato.api_key", "")
	v.SetDefault("forager.base_url", "https://api-v2.forager.ai")
	v.SetDefault("forager.timeout_secs", 30)
	v.SetDefault("forager.rate_limit", 10)
	v.SetDefault("aviato.base_url", "https://data.api.aviato.co")
	v.SetDefault("aviato.timeout_secs", 30)
	v.SetDefault("aviato.rate_limit", 10)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "contacts.db")
	v.SetDefault("batch.enrich_size", 5)
	v.SetDefault("batch.lookup_size", 3)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("presets", "presets.yaml")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
