package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Versifine/dune/internal/event"
	"github.com/Versifine/dune/internal/replay"
)

func replayCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <file>",
		Short: "Play a recorded session through the event pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, closer, err := setup(opts)
			if err != nil {
				return err
			}
			defer closer.Close()

			ctx, stop := signalContext(cmd.Context())
			defer stop()
			collector := startMetrics(ctx, cfg.Metrics)

			disp := event.NewDispatcher(
				event.NewBus(event.NewReporter(slog.Default())),
				event.WithMetrics(collector),
			)
			stats, err := replay.PlayFile(ctx, args[0], disp)
			if errors.Is(err, context.Canceled) {
				err = nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d packets, %d skipped\n", stats.Packets, stats.Skipped)
			return err
		},
	}
	return cmd
}
