package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/nstehr/overmind/rules"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config is the full process configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Evaluation EvaluationConfig `mapstructure:"evaluation"`
	Cooldown   CooldownConfig   `mapstructure:"cooldown"`
	Script     rules.Script     `mapstructure:"script"`
	Display    DisplayConfig    `mapstructure:"display"`

	v        *viper.Viper
	fileRead bool
}

type ServerConfig struct {
	SocketPath string `mapstructure:"socket_path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig controls the Prometheus endpoint; an empty Addr disables it.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// EvaluationConfig sets how often the evaluator runs. Interval 0 follows the
// engine's command latency.
type EvaluationConfig struct {
	Interval int `mapstructure:"interval"`
}

type CooldownConfig struct {
	Grace int `mapstructure:"grace"`
}

type DisplayConfig struct {
	Overlay bool `mapstructure:"overlay"`
}

const envPrefix = "OVERMIND"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.socket_path", "/tmp/overmind.sock")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("metrics.addr", "")

	v.SetDefault("evaluation.interval", 0)
	v.SetDefault("cooldown.grace", rules.DefaultGrace)

	def := rules.DefaultScript()
	v.SetDefault("script.worker_target", def.WorkerTarget)
	v.SetDefault("script.supply_buffer", def.SupplyBuffer)
	v.SetDefault("script.scripted", def.Scripted)
	v.SetDefault("script.steady", def.Steady)

	v.SetDefault("display.overlay", true)
}

// Load reads configuration from path, or from the default locations when path
// is empty. A missing file is not an error; defaults and environment
// variables (OVERMIND_SERVER_SOCKET_PATH etc.) still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("overmind")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/overmind")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	fileRead := true
	if err := v.ReadInConfig(); err != nil {
		fileRead = false
		var notFound viper.ConfigFileNotFoundError
		if path == "" && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if path != "" && !isMissingFile(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{v: v, fileRead: fileRead}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// isMissingFile reports whether a ReadInConfig error for an explicit path
// means the file does not exist.
func isMissingFile(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || strings.Contains(err.Error(), "no such file")
}

// Validate checks values and clamps the script's numeric parameters.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Server.SocketPath) == "" {
		errs = append(errs, errors.New("server.socket_path must be set"))
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be console or json, got %q", c.Log.Format))
	}
	if c.Evaluation.Interval < 0 {
		errs = append(errs, errors.New("evaluation.interval must be non-negative"))
	}
	if c.Cooldown.Grace < 0 {
		errs = append(errs, errors.New("cooldown.grace must be non-negative"))
	}
	if err := c.Script.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("script: %w", err))
	}
	return errors.Join(errs...)
}

// FileUsed returns the config file that was read, or "" if none.
func (c *Config) FileUsed() string {
	if c.v == nil || !c.fileRead {
		return ""
	}
	return c.v.ConfigFileUsed()
}

// Watch reloads the file when it changes and passes the new log level to
// onLevel. Only the log level is hot-applied; rule sets are fixed per session.
func (c *Config) Watch(onLevel func(zerolog.Level)) {
	if c.FileUsed() == "" {
		return
	}
	c.v.OnConfigChange(func(fsnotify.Event) {
		lvl, err := zerolog.ParseLevel(c.v.GetString("log.level"))
		if err != nil {
			return
		}
		if onLevel != nil {
			onLevel(lvl)
		}
	})
	c.v.WatchConfig()
}

// Level returns the configured log level, defaulting to info.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}
