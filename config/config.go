// Package config loads the batch pricer configuration from a file and
// OPTLIB_* environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/meenmo/optlib/pricing"
)

// EnvPrefix prefixes every environment override, e.g. OPTLIB_PRICING_MC_PATHS.
const EnvPrefix = "OPTLIB"

// Config holds the defaults of a pricing run.
type Config struct {
	// Pricing fills the knobs a request leaves at zero.
	Pricing pricing.Settings `mapstructure:"pricing"`

	// LogLevel is a zerolog level name.
	LogLevel string `mapstructure:"log_level"`

	// Precision is the number of decimal places written for each number.
	Precision int32 `mapstructure:"precision"`

	// Workers bounds the number of requests priced concurrently.
	Workers int `mapstructure:"workers"`

	// DistinctStreams gives each request without an explicit stream its
	// input index as RNG stream id.
	DistinctStreams bool `mapstructure:"distinct_streams"`
}

// Default returns the production defaults.
func Default() Config {
	return Config{
		Pricing:   pricing.DefaultSettings(),
		LogLevel:  "info",
		Precision: 8,
		Workers:   4,
	}
}

// Load reads path (YAML, JSON or TOML by extension) over the defaults and
// applies environment overrides. An empty path reads the environment only.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every key so that AutomaticEnv can override it.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("pricing.mc_paths", d.Pricing.MCPaths)
	v.SetDefault("pricing.seed", d.Pricing.Seed)
	v.SetDefault("pricing.stream", d.Pricing.Stream)
	v.SetDefault("pricing.antithetic", d.Pricing.Antithetic)
	v.SetDefault("pricing.target_std_error", d.Pricing.TargetStdError)
	v.SetDefault("pricing.tree_steps", d.Pricing.TreeSteps)
	v.SetDefault("pricing.pde_space_steps", d.Pricing.PDESpaceSteps)
	v.SetDefault("pricing.pde_time_steps", d.Pricing.PDETimeSteps)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("precision", d.Precision)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("distinct_streams", d.DistinctStreams)
}

// Validate rejects settings no engine could run with.
func (c Config) Validate() error {
	p := c.Pricing
	switch {
	case p.MCPaths < 1:
		return fmt.Errorf("pricing.mc_paths must be >= 1, got %d", p.MCPaths)
	case p.TargetStdError < 0:
		return fmt.Errorf("pricing.target_std_error must be >= 0, got %v", p.TargetStdError)
	case p.TreeSteps < 1:
		return fmt.Errorf("pricing.tree_steps must be >= 1, got %d", p.TreeSteps)
	case p.PDESpaceSteps < 2 || p.PDETimeSteps < 1:
		return fmt.Errorf("pricing PDE grid must be at least 2x1, got %dx%d", p.PDESpaceSteps, p.PDETimeSteps)
	case c.Precision < 0:
		return fmt.Errorf("precision must be >= 0, got %d", c.Precision)
	case c.Workers < 1:
		return fmt.Errorf("workers must be >= 1, got %d", c.Workers)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}
