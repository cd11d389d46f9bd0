package main

import (
	"flag"

	"github.com/bandauth/bandauth-go/pkg/config"
)

// loadConfig parses args, loads the configuration file if one is given and
// applies the flags that were set explicitly.
func loadConfig(fs *flag.FlagSet, args []string) (config.Config, error) {
	def := config.Default()

	path := fs.String("config", "", "Configuration file path (YAML)")
	deviceName := fs.String("device-name", def.DeviceName, "Name of supported devices")
	adapter := fs.String("adapter", def.Adapter, "Bluetooth adapter")
	idleTimeout := fs.Duration("idle-timeout", def.IdleTimeout, "Exit after this long without a completed handshake")
	key := fs.String("key", "", "Shared key, 32 hex digits (default factory key)")
	resetOption := fs.String("reset-option", "", "Key reset policy: always, on-mismatch, never (default on-mismatch)")
	logLevel := fs.String("log-level", def.LogLevel, "Log level: debug, info, warn, error")
	protocolLog := fs.String("protocol-log", "", "File path for protocol event logging (CBOR format)")
	metricsAddr := fs.String("metrics-addr", "", "Listen address for Prometheus metrics (disabled if empty)")

	if err := fs.Parse(args); err != nil {
		return config.Config{}, err
	}

	cfg := def
	if *path != "" {
		loaded, err := config.Load(*path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "device-name":
			cfg.DeviceName = *deviceName
		case "adapter":
			cfg.Adapter = *adapter
		case "idle-timeout":
			cfg.IdleTimeout = *idleTimeout
		case "key":
			cfg.Policy.Key = *key
		case "reset-option":
			cfg.Policy.ResetOption = *resetOption
		case "log-level":
			cfg.LogLevel = *logLevel
		case "protocol-log":
			cfg.ProtocolLog = *protocolLog
		case "metrics-addr":
			cfg.MetricsAddr = *metricsAddr
		}
	})

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
