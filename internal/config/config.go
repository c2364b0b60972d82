// Package config loads application configuration from an optional YAML file
// and DISASTER_-prefixed environment variables, and initializes the global
// logger.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Query     QueryConfig     `yaml:"query" mapstructure:"query"`
	Feeds     FeedsConfig     `yaml:"feeds" mapstructure:"feeds"`
	Hurricane HurricaneConfig `yaml:"hurricane" mapstructure:"hurricane"`
	Tornado   TornadoConfig   `yaml:"tornado" mapstructure:"tornado"`
	Wildfire  WildfireConfig  `yaml:"wildfire" mapstructure:"wildfire"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// QueryConfig holds defaults for proximity queries.
type QueryConfig struct {
	RadiusMiles float64 `yaml:"radius_miles" mapstructure:"radius_miles"`
}

// FeedsConfig holds shared feed client settings.
type FeedsConfig struct {
	UserAgent     string  `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs   int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries    int     `yaml:"max_retries" mapstructure:"max_retries"`
	RatePerSecond float64 `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	RateBurst     int     `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// Timeout returns the feed request timeout as a duration.
func (f FeedsConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSecs) * time.Second
}

// HurricaneConfig configures the NOAA/NHC active hurricanes feed.
type HurricaneConfig struct {
	BaseURL      string `yaml:"base_url" mapstructure:"base_url"`
	ConeLayer    int    `yaml:"cone_layer" mapstructure:"cone_layer"`
	DetailsLayer int    `yaml:"details_layer" mapstructure:"details_layer"`
	PageSize     int    `yaml:"page_size" mapstructure:"page_size"`
}

// TornadoConfig configures the NOAA damage assessment toolkit feed.
type TornadoConfig struct {
	LayerURL     string `yaml:"layer_url" mapstructure:"layer_url"`
	LookbackDays int    `yaml:"lookback_days" mapstructure:"lookback_days"`
	MinEF        int    `yaml:"min_ef" mapstructure:"min_ef"`
	PageSize     int    `yaml:"page_size" mapstructure:"page_size"`
}

// WildfireConfig configures the WFIGS fire perimeters feed.
type WildfireConfig struct {
	LayerURL      string `yaml:"layer_url" mapstructure:"layer_url"`
	RecencyDays   int    `yaml:"recency_days" mapstructure:"recency_days"`
	PageSize      int    `yaml:"page_size" mapstructure:"page_size"`
	ShapefilePath string `yaml:"shapefile_path" mapstructure:"shapefile_path"`
}

// BatchConfig configures batch location processing.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// ServerConfig configures the HTTP API server.
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
	v.SetEnvPrefix("DISASTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("query.radius_miles", 100.0)
	v.SetDefault("feeds.user_agent", "disaster-monitor/1.0")
	v.SetDefault("feeds.timeout_secs", 30)
	v.SetDefault("feeds.max_retries", 5)
	v.SetDefault("feeds.rate_per_second", 5.0)
	v.SetDefault("feeds.rate_burst", 5)
	v.SetDefault("hurricane.base_url", "https://services9.arcgis.com/RHVPKKiFTONKtxq3/ArcGIS/rest/services/Active_Hurricanes_v1/FeatureServer")
	v.SetDefault("hurricane.cone_layer", 4)
	v.SetDefault("hurricane.details_layer", 0)
	v.SetDefault("hurricane.page_size", 2000)
	v.SetDefault("tornado.layer_url", "https://services.dat.noaa.gov/arcgis/rest/services/nws_damageassessmenttoolkit/DamageViewer/FeatureServer/1")
	v.SetDefault("tornado.lookback_days", 14)
	v.SetDefault("tornado.min_ef", -1)
	v.SetDefault("tornado.page_size", 1000)
	v.SetDefault("wildfire.layer_url", "https://services3.arcgis.com/T4QMspbfLg3qTGWY/arcgis/rest/services/WFIGS_Interagency_Perimeters_YearToDate/FeatureServer/0")
	v.SetDefault("wildfire.recency_days", 7)
	v.SetDefault("wildfire.page_size", 1000)
	v.SetDefault("batch.concurrency", 4)
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
