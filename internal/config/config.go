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
	Taxonomy  TaxonomyConfig  `yaml:"taxonomy" mapstructure:"taxonomy"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Match     MatchConfig     `yaml:"match" mapstructure:"match"`
	Normalize NormalizeConfig `yaml:"normalize" mapstructure:"normalize"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// TaxonomyConfig configures the taxonomy repository backend.
type TaxonomyConfig struct {
	Driver      string  `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string  `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string  `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	FixturePath string  `yaml:"fixture_path" mapstructure:"fixture_path"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	RateBurst   int     `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// StoreConfig configures the evaluation snapshot store.
type StoreConfig struct {
	SQLitePath string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
}

// MatchConfig configures the tier engine thresholds.
type MatchConfig struct {
	YearTolerance     int            `yaml:"year_tolerance" mapstructure:"year_tolerance"`
	WideYearTolerance int            `yaml:"wide_year_tolerance" mapstructure:"wide_year_tolerance"`
	LaxYearSources    []string       `yaml:"lax_year_sources" mapstructure:"lax_year_sources"`
	KMOmittedSources  []string       `yaml:"km_omitted_sources" mapstructure:"km_omitted_sources"`
	FamilylessSources []string       `yaml:"familyless_sources" mapstructure:"familyless_sources"`
	Pressure          PressureConfig `yaml:"pressure" mapstructure:"pressure"`
}

// PressureConfig configures watch-to-buy promotion thresholds.
type PressureConfig struct {
	ConfidenceFloor float64 `yaml:"confidence_floor" mapstructure:"confidence_floor"`
	MinPassCount    int     `yaml:"min_pass_count" mapstructure:"min_pass_count"`
	MinDaysOnMarket int     `yaml:"min_days_on_market" mapstructure:"min_days_on_market"`
	MinPriceDrop    float64 `yaml:"min_price_drop" mapstructure:"min_price_drop"`
}

// NormalizeConfig configures identity resolution.
type NormalizeConfig struct {
	Concurrency       int      `yaml:"concurrency" mapstructure:"concurrency"`
	AmbiguousFamilies []string `yaml:"ambiguous_families" mapstructure:"ambiguous_families"`
}

// ServerConfig configures the normalize endpoint server.
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
	v.SetEnvPrefix("RESTOCK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("taxonomy.driver", "sqlite")
	v.SetDefault("taxonomy.sqlite_path", "taxonomy.db")
	v.SetDefault("taxonomy.rate_limit", 0)
	v.SetDefault("taxonomy.rate_burst", 1)
	v.SetDefault("store.sqlite_path", "restock.db")
	v.SetDefault("match.year_tolerance", 1)
	v.SetDefault("match.wide_year_tolerance", 4)
	v.SetDefault("match.pressure.confidence_floor", 4)
	v.SetDefault("match.pressure.min_pass_count", 2)
	v.SetDefault("match.pressure.min_days_on_market", 14)
	v.SetDefault("match.pressure.min_price_drop", 0.05)
	v.SetDefault("normalize.concurrency", 8)
	v.SetDefault("server.port", 8080)
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
