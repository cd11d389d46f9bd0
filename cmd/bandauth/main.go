// Command bandauth authenticates Mi Band 2 class wearables as they connect.
//
// The agent watches BlueZ for devices whose GATT services resolved, runs
// the authentication handshake with every device that reports the
// configured name, and exits once no handshake has completed for the idle
// timeout.
//
// Usage:
//
//	bandauth [flags]
//
// Flags:
//
//	-config string        Configuration file path (YAML)
//	-device-name string   Name of supported devices (default "MI Band 2")
//	-adapter string       Bluetooth adapter (default "hci0")
//	-idle-timeout dur     Exit after this long without a completed handshake (default 50s)
//	-key string           Shared key, 32 hex digits
//	-reset-option string  Key reset policy: always, on-mismatch, never
//	-log-level string     Log level: debug, info, warn, error (default "info")
//	-protocol-log string  File path for protocol event logging (CBOR format)
//	-metrics-addr string  Listen address for Prometheus metrics (disabled if empty)
//
// Flags given on the command line override the configuration file.
//
// Examples:
//
//	# Authenticate with the factory key
//	bandauth
//
//	# Debug a band that holds another key, keeping a protocol log
//	bandauth -key 30313233343536373839404142434445 -log-level debug -protocol-log band.blog
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"hermannm.dev/devlog"

	"github.com/bandauth/bandauth-go/pkg/agent"
	"github.com/bandauth/bandauth-go/pkg/auth"
	"github.com/bandauth/bandauth-go/pkg/bluez"
	"github.com/bandauth/bandauth-go/pkg/config"
	bandlog "github.com/bandauth/bandauth-go/pkg/log"
)

var level slog.LevelVar

func init() {
	slog.SetDefault(slog.New(devlog.NewHandler(os.Stdout, &devlog.Options{
		Level: &level,
	})))
}

func main() {
	cfg, err := loadConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	level.Set(cfg.Level())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = run(ctx, cfg)
	switch {
	case errors.Is(err, agent.ErrNoDevices):
		fmt.Printf("no devices found. Timed out waiting for new connections for the last %s\n", cfg.IdleTimeout)
	case errors.Is(err, context.Canceled):
		slog.Info("shutting down")
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	policy, err := cfg.AuthPolicy()
	if err != nil {
		return err
	}
	adapter, err := bluez.AdapterPath(cfg.Adapter)
	if err != nil {
		return err
	}

	conn, err := bluez.ConnectSystemBus()
	if err != nil {
		return err
	}
	defer conn.Close()

	logger := slog.Default()

	protocolLogger, closeLog, err := openProtocolLog(cfg.ProtocolLog, logger)
	if err != nil {
		return err
	}
	defer closeLog()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := auth.NewMetrics(reg)
	if cfg.MetricsAddr != "" {
		srv := serveMetrics(cfg.MetricsAddr, reg, logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	a := agent.New(agent.Config{
		Bus:            conn,
		Adapter:        adapter,
		DeviceName:     cfg.DeviceName,
		Policy:         policy,
		IdleTimeout:    cfg.IdleTimeout,
		OnComplete:     printResult,
		Logger:         logger,
		ProtocolLogger: protocolLogger,
		Metrics:        metrics,
	})

	fmt.Println("Band auth agent has started...")
	return a.Run(ctx)
}

// openProtocolLog returns the protocol logger for path. Protocol events are
// also written to logger at debug level.
func openProtocolLog(path string, logger *slog.Logger) (bandlog.Logger, func(), error) {
	adapter := bandlog.NewSlogAdapter(logger)
	if path == "" {
		return adapter, func() {}, nil
	}

	file, err := bandlog.NewFileLogger(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create protocol logger: %w", err)
	}
	logger.Info("protocol logging", "path", path)

	closeFn := func() {
		if err := file.Close(); err != nil {
			logger.Warn("closing protocol log", "error", err)
		}
		if n := file.Dropped(); n > 0 {
			logger.Warn("protocol events dropped", "count", n)
		}
	}
	return bandlog.NewMultiLogger(file, adapter), closeFn, nil
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()
	return srv
}

func printResult(deviceID string, res auth.Result) {
	msg := fmt.Sprintf("%s: authentication finished with status %s", deviceID, res.Status)
	if res.Err != nil {
		msg += ": " + res.Err.Error()
	}
	fmt.Println(msg)
}
