package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Versifine/dune/internal/event"
	"github.com/Versifine/dune/internal/proxy"
	"github.com/Versifine/dune/internal/replay"
)

func proxyCmd(opts *rootOptions) *cobra.Command {
	var record string

	cmd := &cobra.Command{
		Use:   "proxy",
		Short: "Relay a client to a server and report the traffic",
		Long: `Proxy listens on proxy.listen and relays every connection to
proxy.backend unchanged, decoding both directions to log events.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, closer, err := setup(opts)
			if err != nil {
				return err
			}
			defer closer.Close()
			if record != "" {
				cfg.Record.Path = record
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()
			collector := startMetrics(ctx, cfg.Metrics)

			serverOpts := []proxy.Option{
				proxy.WithSubscriber(event.NewReporter(slog.Default())),
				proxy.WithMetrics(collector),
				proxy.WithMaxFrameSize(cfg.Session.MaxFrameSize),
			}
			if cfg.Record.Path != "" {
				rec, err := replay.Create(cfg.Record.Path)
				if err != nil {
					return err
				}
				defer rec.Close()
				serverOpts = append(serverOpts, proxy.WithRecorder(rec))
			}

			return proxy.NewServer(cfg.Proxy.Listen, cfg.Proxy.Backend, serverOpts...).Start(ctx)
		},
	}

	cmd.Flags().StringVarP(&record, "record", "r", "", "record all connections to this file (overrides record.path)")

	return cmd
}
