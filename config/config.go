//go:build !tinygo && !baremetal

// Package config loads the host runner's settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/ystepanoff/nrfmulti/protocol"
	"github.com/ystepanoff/nrfmulti/selection"
)

// ProtocolConfig selects how a rebind picks its protocol.
type ProtocolConfig struct {
	Selection        string `mapstructure:"selection"` // static | gesture
	Default          string `mapstructure:"default"`
	Gestures         string `mapstructure:"gestures"` // YAML table file; empty uses the built-in table
	WaitSafeThrottle bool   `mapstructure:"waitSafeThrottle"`
}

// StorageConfig locates the emulated EEPROM image.
type StorageConfig struct {
	File string `mapstructure:"file"`
}

// InputConfig describes the channel line stream. An empty device reads
// standard input.
type InputConfig struct {
	Device string `mapstructure:"device"`
	Baud   int    `mapstructure:"baud"`
}

// LumberjackConfig configures log file rotation.
type LumberjackConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"maxSize"`
	MaxBackups int    `mapstructure:"maxBackups"`
	MaxAgeDays int    `mapstructure:"maxAge"`
	Compress   bool   `mapstructure:"compress"`
}

type LoggingConfig struct {
	Level  string           `mapstructure:"level"`
	Format string           `mapstructure:"format"`
	File   LumberjackConfig `mapstructure:"file"`
}

type MetricsConfig struct {
	Enable bool   `mapstructure:"enable"`
	Addr   string `mapstructure:"addr"`
	Path   string `mapstructure:"path"`
}

// DiagConfig bounds the per-tick diagnostic lines.
type DiagConfig struct {
	OverrunLinesPerSecond float64 `mapstructure:"overrunLinesPerSecond"`
	Burst                 int     `mapstructure:"burst"`
}

type Config struct {
	Protocol ProtocolConfig `mapstructure:"protocol"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Input    InputConfig    `mapstructure:"input"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Diag     DiagConfig     `mapstructure:"diag"`
}

// Load reads a YAML/TOML/JSON file plus NRFMULTI_* environment overrides.
// With an empty path it tries NRFMULTI_CONFIG, then nrfmulti.yaml in . and
// ./configs; a missing default file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path == "" {
		path = os.Getenv("NRFMULTI_CONFIG")
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.SetConfigName("nrfmulti")
		v.SetConfigType("yaml")
	}

	setDefaults(v)

	v.SetEnvPrefix("NRFMULTI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("protocol.selection", "static")
	v.SetDefault("protocol.default", protocol.CX10Blue.String())
	v.SetDefault("protocol.gestures", "")
	v.SetDefault("protocol.waitSafeThrottle", false)

	v.SetDefault("storage.file", "nrfmulti.eeprom")

	v.SetDefault("input.device", "")
	v.SetDefault("input.baud", 115200)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file.filename", "logs/nrfmulti.log")
	v.SetDefault("logging.file.maxSize", 20)
	v.SetDefault("logging.file.maxBackups", 3)
	v.SetDefault("logging.file.maxAge", 7)
	v.SetDefault("logging.file.compress", false)

	v.SetDefault("metrics.enable", false)
	v.SetDefault("metrics.addr", ":9102")
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("diag.overrunLinesPerSecond", 1.0)
	v.SetDefault("diag.burst", 5)
}

var ErrInvalidConfig = errors.New("invalid config")

func (c *Config) Validate() error {
	switch strings.ToLower(c.Protocol.Selection) {
	case "static", "gesture":
	default:
		return fmt.Errorf("%w: protocol.selection %q", ErrInvalidConfig, c.Protocol.Selection)
	}
	if _, err := protocol.ParseSelector(c.Protocol.Default); err != nil {
		return fmt.Errorf("%w: protocol.default: %v", ErrInvalidConfig, err)
	}
	if c.Input.Baud <= 0 {
		return fmt.Errorf("%w: input.baud %d", ErrInvalidConfig, c.Input.Baud)
	}
	if c.Diag.OverrunLinesPerSecond < 0 {
		return fmt.Errorf("%w: diag.overrunLinesPerSecond %v", ErrInvalidConfig, c.Diag.OverrunLinesPerSecond)
	}
	return nil
}

// Policy builds the selection policy the config describes.
func (p ProtocolConfig) Policy() (selection.Policy, error) {
	if strings.ToLower(p.Selection) != "gesture" {
		sel, err := protocol.ParseSelector(p.Default)
		if err != nil {
			return nil, err
		}
		return selection.Static(sel), nil
	}
	if p.Gestures == "" {
		return selection.DefaultTable(), nil
	}
	t, err := selection.LoadTable(p.Gestures)
	if err != nil {
		return nil, fmt.Errorf("load gestures: %w", err)
	}
	return t, nil
}
