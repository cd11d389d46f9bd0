// Package config loads the agent configuration file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bandauth/bandauth-go/pkg/auth"
	"github.com/bandauth/bandauth-go/pkg/bluez"
)

// Defaults.
const (
	DefaultDeviceName  = "MI Band 2"
	DefaultAdapter     = "hci0"
	DefaultIdleTimeout = 50 * time.Second
	DefaultLogLevel    = "info"
)

// Config errors.
var (
	ErrInvalidIdleTimeout = errors.New("idle_timeout must be positive")
	ErrInvalidLogLevel    = errors.New("invalid log level")
	ErrEmptyDeviceName    = errors.New("device_name is empty")
)

// PolicyConfig is the authentication policy as written in the file.
type PolicyConfig struct {
	// Key is the shared key, 32 hex digits.
	Key string `yaml:"key"`

	// ResetOption is one of always, on-mismatch, never.
	ResetOption string `yaml:"reset_option"`
}

// Config is the agent configuration.
type Config struct {
	// DeviceName is the advertised name of supported bands.
	DeviceName string `yaml:"device_name"`

	// Adapter is the local Bluetooth adapter (e.g. hci0).
	Adapter string `yaml:"adapter"`

	// IdleTimeout stops the agent when no handshake completes for this long.
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// ProtocolLog is the CBOR protocol log path. Empty disables it.
	ProtocolLog string `yaml:"protocol_log"`

	// MetricsAddr is the Prometheus listen address. Empty disables it.
	MetricsAddr string `yaml:"metrics_addr"`

	Policy PolicyConfig `yaml:"policy"`
}

// Default returns the built-in configuration.
func Default() Config {
	def := auth.DefaultPolicy()
	return Config{
		DeviceName:  DefaultDeviceName,
		Adapter:     DefaultAdapter,
		IdleTimeout: DefaultIdleTimeout,
		LogLevel:    DefaultLogLevel,
		Policy: PolicyConfig{
			Key:         def.Key.String(),
			ResetOption: def.ResetOption.String(),
		},
	}
}

// Parse decodes YAML over the defaults. Fields missing from data keep their
// default value.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and parses the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data)
}

// Validate checks every field.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DeviceName) == "" {
		return ErrEmptyDeviceName
	}
	if _, err := bluez.AdapterPath(c.Adapter); err != nil {
		return err
	}
	if c.IdleTimeout <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidIdleTimeout, c.IdleTimeout)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := c.AuthPolicy(); err != nil {
		return err
	}
	return nil
}

// AuthPolicy converts the policy section.
func (c Config) AuthPolicy() (auth.Policy, error) {
	key, err := auth.ParseKey(c.Policy.Key)
	if err != nil {
		return auth.Policy{}, fmt.Errorf("policy.key: %w", err)
	}
	opt, err := auth.ParseKeyResetOption(c.Policy.ResetOption)
	if err != nil {
		return auth.Policy{}, fmt.Errorf("policy.reset_option: %w", err)
	}
	return auth.Policy{Key: key, ResetOption: opt}, nil
}

// Level returns the slog level of LogLevel. Invalid values map to info.
func (c Config) Level() slog.Level {
	l, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

// ParseLevel parses debug, info, warn or error.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, s)
	}
}
