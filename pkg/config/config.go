// Package config loads tool settings from .hscgen.yaml with environment
// overrides. Precedence is flags over environment over file over defaults;
// flag binding happens in the command layer.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds everything the driver needs for a run.
type Config struct {
	Prefix       string            `mapstructure:"prefix"`
	OutDir       string            `mapstructure:"out_dir"`
	Overwrite    bool              `mapstructure:"overwrite"`
	IncludePaths []string          `mapstructure:"include_paths"`
	SystemPaths  []string          `mapstructure:"system_paths"`
	Defines      map[string]string `mapstructure:"defines"`
	Undefines    []string          `mapstructure:"undefines"`
	Cpp          string            `mapstructure:"cpp"`
	Patterns     []string          `mapstructure:"patterns"`
	Ignore       []string          `mapstructure:"ignore"`
}

// Load reads configuration for the given directory. A missing config file
// is fine; defaults and HSCGEN_* environment variables still apply.
func Load(dir string) (*Config, error) {
	v := viper.New()

	v.SetConfigName(".hscgen")
	v.SetConfigType("yaml")
	if dir != "" {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("HSCGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("prefix", "Bindings")
	v.SetDefault("out_dir", "")
	v.SetDefault("overwrite", false)
	v.SetDefault("patterns", []string{"**/*.h"})
}
