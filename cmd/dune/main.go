package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/Versifine/dune/internal/config"
	"github.com/Versifine/dune/internal/logger"
	"github.com/Versifine/dune/internal/metrics"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

func main() {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:   "dune",
		Short: "Minecraft 1.18.2 protocol client",
		Long: `Dune speaks the Minecraft Java Edition 1.18.2 protocol (758).

It can log in to a server as an offline-mode client, sit between a
client and a server as an observing proxy, or replay a recorded session
through the same event pipeline.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override logging.level")

	rootCmd.AddCommand(
		connectCmd(opts),
		proxyCmd(opts),
		replayCmd(opts),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// setup loads the config and installs the default logger. The returned
// closer releases the log file.
func setup(opts *rootOptions) (*config.Config, io.Closer, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, nil, err
		}
	}
	closer := logger.Init(cfg.Logging.Logger())
	slog.Debug("Config loaded", "path", opts.configPath)
	return cfg, closer, nil
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// startMetrics returns the collector to wire through the pipeline and, when
// metrics are enabled, serves it until ctx is done.
func startMetrics(ctx context.Context, cfg config.MetricsConfig) metrics.Collector {
	if !cfg.Enabled {
		return metrics.Noop{}
	}
	collector := metrics.NewPrometheus(metrics.WithNamespace(cfg.Namespace))
	go func() {
		if err := metrics.Serve(ctx, cfg.Listen, prometheus.DefaultGatherer); err != nil {
			slog.Error("Metrics server failed", "error", err)
		}
	}()
	return collector
}
