// Package config loads plume.yml.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/simonhull/firebird-suite/plume/internal/logger"
	"github.com/simonhull/firebird-suite/plume/internal/types"
)

// Config is the plume.yml configuration
type Config struct {
	Models      []string         `mapstructure:"models"`
	Stereotypes StereotypeConfig `mapstructure:"stereotypes"`
	Types       []TypeConfig     `mapstructure:"types"`
	Log         LogConfig        `mapstructure:"log"`
	Describe    DescribeConfig   `mapstructure:"describe"`
}

// StereotypeConfig names the stereotypes the Service plugin classifies by
type StereotypeConfig struct {
	Service string `mapstructure:"service"`
	DAO     string `mapstructure:"dao"`
}

// TypeConfig declares a custom semantic type. Types are a list rather than a
// map because viper lowercases map keys and type names are case-sensitive.
type TypeConfig struct {
	Name    string `mapstructure:"name"`
	Kind    string `mapstructure:"kind"`
	Format  string `mapstructure:"format"`
	Pattern string `mapstructure:"pattern"`
	Mock    any    `mapstructure:"mock"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// DescribeConfig holds settings for `plume describe`
type DescribeConfig struct {
	Template string `mapstructure:"template"` // Optional template file overriding the built-in one
}

// Default returns a config with sensible defaults
func Default() *Config {
	return &Config{
		Models: []string{"**/*.plume.yml"},
		Stereotypes: StereotypeConfig{
			Service: "Service",
			DAO:     "Entity",
		},
		Log: LogConfig{Level: "warn"},
	}
}

func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("models", def.Models)
	v.SetDefault("stereotypes.service", def.Stereotypes.Service)
	v.SetDefault("stereotypes.dao", def.Stereotypes.DAO)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("describe.template", "")
}

// Load reads configuration. An explicit path must exist; without one,
// plume.yml in the working directory is used when present. Environment
// variables prefixed with PLUME_ override file values (PLUME_LOG_LEVEL).
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("PLUME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("plume")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values plume cannot work with
func (c *Config) Validate() error {
	var errs []error

	if c.Stereotypes.Service == "" {
		errs = append(errs, errors.New("stereotypes.service must not be empty"))
	}
	if c.Stereotypes.DAO == "" {
		errs = append(errs, errors.New("stereotypes.dao must not be empty"))
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}

	seen := make(map[string]bool)
	for i, tc := range c.Types {
		if tc.Name == "" {
			errs = append(errs, fmt.Errorf("types[%d]: name is required", i))
			continue
		}
		if seen[tc.Name] {
			errs = append(errs, fmt.Errorf("types[%d]: duplicate type %q", i, tc.Name))
		}
		seen[tc.Name] = true
		if _, err := types.NewDescriptor(tc.Kind, tc.Format, tc.Pattern, tc.Mock); err != nil {
			errs = append(errs, fmt.Errorf("types[%d] (%s): %w", i, tc.Name, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Catalog builds the type catalog: builtins plus configured types
func (c *Config) Catalog() (*types.Catalog, error) {
	custom := make(map[string]types.Descriptor, len(c.Types))
	for _, tc := range c.Types {
		d, err := types.NewDescriptor(tc.Kind, tc.Format, tc.Pattern, tc.Mock)
		if err != nil {
			return nil, fmt.Errorf("type %s: %w", tc.Name, err)
		}
		custom[tc.Name] = d
	}
	return types.NewCatalog(custom), nil
}

// LogLevel returns the configured level
func (c *Config) LogLevel() logger.Level {
	level, _ := logger.ParseLevel(c.Log.Level)
	return level
}
