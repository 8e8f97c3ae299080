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
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Registry  RegistryConfig  `yaml:"registry" mapstructure:"registry"`
	Match     MatchConfig     `yaml:"match" mapstructure:"match"`
	Lifecycle LifecycleConfig `yaml:"lifecycle" mapstructure:"lifecycle"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// RegistryConfig points at the catalog and profile files.
type RegistryConfig struct {
	CatalogPath  string `yaml:"catalog_path" mapstructure:"catalog_path"`
	ProfilesPath string `yaml:"profiles_path" mapstructure:"profiles_path"`
}

// MatchConfig configures scoring and ranking.
type MatchConfig struct {
	MaxReasons        int                `yaml:"max_reasons" mapstructure:"max_reasons"`
	ClosingSoonDays   int                `yaml:"closing_soon_days" mapstructure:"closing_soon_days"`
	Workers           int                `yaml:"workers" mapstructure:"workers"`
	ReferenceCurrency string             `yaml:"reference_currency" mapstructure:"reference_currency"`
	CurrencyRates     map[string]float64 `yaml:"currency_rates" mapstructure:"currency_rates"`
}

// LifecycleConfig configures application tracking.
type LifecycleConfig struct {
	DocumentValidityDays int `yaml:"document_validity_days" mapstructure:"document_validity_days"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port         int      `yaml:"port" mapstructure:"port"`
	RatePerSec   float64  `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	RateBurst    int      `yaml:"rate_burst" mapstructure:"rate_burst"`
	CORSOrigins  []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	ShutdownSecs int      `yaml:"shutdown_secs" mapstructure:"shutdown_secs"`
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
	v.SetEnvPrefix("SCHOLAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "scholar.db")
	v.SetDefault("registry.catalog_path", "catalog.yaml")
	v.SetDefault("registry.profiles_path", "profiles.yaml")
	v.SetDefault("match.max_reasons", 3)
	v.SetDefault("match.closing_soon_days", 30)
	v.SetDefault("match.workers", 8)
	v.SetDefault("match.reference_currency", "USD")
	v.SetDefault("match.currency_rates", map[string]float64{
		"USD": 1.0,
		"EUR": 1.08,
		"GBP": 1.27,
		"CAD": 0.73,
	})
	v.SetDefault("lifecycle.document_validity_days", 90)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_per_sec", 20)
	v.SetDefault("server.rate_burst", 40)
	v.SetDefault("server.shutdown_secs", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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
