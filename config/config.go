// Package config loads the settings of the domainkit components with viper.
//
// Settings come from defaults, an optional YAML file and environment variables, in
// increasing priority. Environment variables are named PREFIX_SECTION_KEY,
// for example DOMAINKIT_DISPATCH_RETRY_MAX_RETRIES.
package config

import (
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Mediator MediatorConfig `mapstructure:"mediator"`
	Dispatch DispatchConfig `mapstructure:"dispatch"`
	Database DatabaseConfig `mapstructure:"database"`
}

type LoggingConfig struct {
	// Backend is one of std, slog, zap or nop.
	Backend string `mapstructure:"backend"`
	Debug   bool   `mapstructure:"debug"`
	Trace   bool   `mapstructure:"trace"`
}

type MediatorConfig struct {
	// Strategy is sequential or parallel.
	Strategy        string `mapstructure:"strategy"`
	ContinueOnError bool   `mapstructure:"continue_on_error"`
}

type DispatchConfig struct {
	MarkPublished bool        `mapstructure:"mark_published"`
	Retry         RetryConfig `mapstructure:"retry"`
}

type RetryConfig struct {
	MaxRetries      int           `mapstructure:"max_retries"`
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval"`
	Multiplier      float64       `mapstructure:"multiplier"`
}

type DatabaseConfig struct {
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

var defaults = map[string]any{
	"logging.backend": "std",
	"logging.debug":   false,
	"logging.trace":   false,

	"mediator.strategy":          "sequential",
	"mediator.continue_on_error": false,

	"dispatch.mark_published":         false,
	"dispatch.retry.max_retries":      0,
	"dispatch.retry.initial_interval": 100 * time.Millisecond,
	"dispatch.retry.max_interval":     time.Second,
	"dispatch.retry.multiplier":       2.0,

	"database.dsn":            "file::memory:?cache=shared",
	"database.max_open_conns": 1,
}

// NewViper returns a viper instance with defaults set and environment variables bound.
// Environment variables are not read when envPrefix is empty.
func NewViper(envPrefix string) *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if envPrefix != "" {
		v.SetEnvPrefix(envPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}

	return v
}

// Load reads the config file at path, if path is not empty, and validates the result.
// When validation fails, the returned error is *ValidationError.
func Load(path string, envPrefix string) (Config, error) {
	v := NewViper(envPrefix)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "cannot read config file %s", path)
		}
	}

	return FromViper(v)
}

// FromViper unmarshals and validates the config held by v.
func FromViper(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "cannot unmarshal config")
	}

	if err := c.Validate(); err != nil {
		return c, err
	}

	return c, nil
}

// WriteYAML writes all settings of v as YAML.
func WriteYAML(v *viper.Viper, w io.Writer) error {
	b, err := yaml.Marshal(v.AllSettings())
	if err != nil {
		return errors.Wrap(err, "could not marshal config to yaml")
	}

	_, err = w.Write(b)
	return errors.Wrap(err, "could not write config")
}
