// Package config provides pipeline configuration using Viper.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all pipeline configuration.
type Config struct {
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Mapper   MapperConfig   `mapstructure:"mapper"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// PipelineConfig holds flattening configuration.
type PipelineConfig struct {
	// GroupBy is the attribute records are grouped by before
	// flattening. Empty means the whole collection is one group.
	GroupBy string `mapstructure:"group_by"`

	// GeometryColumn is the input column holding textual polygon
	// coordinates.
	GeometryColumn string `mapstructure:"geometry_column"`

	// CRS is the coordinate reference identifier shared by all
	// geometries in a run.
	CRS string `mapstructure:"crs"`
}

// MapperConfig holds vector-to-raster mapping configuration.
type MapperConfig struct {
	Suffix     string `mapstructure:"suffix"`
	Recurse    bool   `mapstructure:"recurse"`
	Parallel   bool   `mapstructure:"parallel"`
	Workers    int    `mapstructure:"workers"`
	SkipErrors bool   `mapstructure:"skip_errors"`
	CacheSize  int64  `mapstructure:"cache_size"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from an optional file plus FTCNN_* environment
// overrides, applying defaults for everything unset.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("pipeline.group_by", "")
	v.SetDefault("pipeline.geometry_column", "geometry")
	v.SetDefault("pipeline.crs", "EPSG:4326")
	v.SetDefault("mapper.suffix", ".tif")
	v.SetDefault("mapper.recurse", true)
	v.SetDefault("mapper.parallel", true)
	v.SetDefault("mapper.workers", 0)
	v.SetDefault("mapper.skip_errors", true)
	v.SetDefault("mapper.cache_size", 1024)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetEnvPrefix("FTCNN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}
