package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. ZEUSBT_RUNNER_WORKERS=8.
const EnvPrefix = "ZEUSBT"

// Config is the process configuration of the zeusbt binary.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Runner    RunnerConfig    `mapstructure:"runner"`
	Inspector InspectorConfig `mapstructure:"inspector"`
	Tree      TreeConfig      `mapstructure:"tree"`
}

// LogConfig selects the zap log level.
type LogConfig struct {
	Level string `mapstructure:"level"` // debug | info | warn | error
}

// RunnerConfig controls the tick loop and how many demo agents are spawned.
type RunnerConfig struct {
	TickInterval time.Duration `mapstructure:"tick_interval"`
	Workers      int           `mapstructure:"workers"`
	Agents       int           `mapstructure:"agents"`
}

// InspectorConfig controls the websocket/metrics HTTP server.
type InspectorConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
	// SendBuffer is the number of frames queued per websocket client before frames are dropped.
	SendBuffer int `mapstructure:"send_buffer"`
}

// TreeConfig points at the tree definition file (YAML or JSON).
type TreeConfig struct {
	Path string `mapstructure:"path"`
}

// ErrInvalidConfig is wrapped by every validation error.
var ErrInvalidConfig = errors.New("invalid config")

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("runner.tick_interval", "100ms")
	v.SetDefault("runner.workers", 4)
	v.SetDefault("runner.agents", 16)
	v.SetDefault("inspector.enabled", true)
	v.SetDefault("inspector.addr", ":8090")
	v.SetDefault("inspector.send_buffer", 64)
	v.SetDefault("tree.path", "configs/guard.yaml")
}

// Load reads config from the given YAML file. An empty path uses defaults and
// environment overrides only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid field at once, each wrapping ErrInvalidConfig.
func (c *Config) Validate() error {
	var errs []error
	if c.Runner.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("%w: runner.tick_interval must be positive", ErrInvalidConfig))
	}
	if c.Runner.Workers < 1 {
		errs = append(errs, fmt.Errorf("%w: runner.workers must be at least 1", ErrInvalidConfig))
	}
	if c.Runner.Agents < 0 {
		errs = append(errs, fmt.Errorf("%w: runner.agents must not be negative", ErrInvalidConfig))
	}
	if c.Inspector.SendBuffer < 1 {
		errs = append(errs, fmt.Errorf("%w: inspector.send_buffer must be at least 1", ErrInvalidConfig))
	}
	if c.Tree.Path == "" {
		errs = append(errs, fmt.Errorf("%w: tree.path is required", ErrInvalidConfig))
	}
	return errors.Join(errs...)
}
