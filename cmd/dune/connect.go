package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Versifine/dune/internal/client"
	"github.com/Versifine/dune/internal/debug"
	"github.com/Versifine/dune/internal/event"
	"github.com/Versifine/dune/internal/poller"
	"github.com/Versifine/dune/internal/replay"
	"github.com/Versifine/dune/internal/session"
)

func connectCmd(opts *rootOptions) *cobra.Command {
	var (
		record   string
		username string
		console  bool
	)

	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Log in to a server and report what happens",
		Long: `Connect logs in to server.host:server.port as an offline-mode player
and logs chat, position and trade events until the server closes the
connection or the process is interrupted.

With --console, lines read from standard input are sent as chat and
:commands move the player (:help lists them).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, closer, err := setup(opts)
			if err != nil {
				return err
			}
			defer closer.Close()
			if username != "" {
				cfg.Client.Username = username
			}
			if record != "" {
				cfg.Record.Path = record
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()
			collector := startMetrics(ctx, cfg.Metrics)

			sock, err := client.Dial(ctx, cfg.Server.Addr())
			if err != nil {
				return err
			}
			defer sock.Close()
			p, err := poller.New()
			if err != nil {
				return err
			}
			defer p.Close()

			sess := session.New(session.WithMaxFrameSize(cfg.Session.MaxFrameSize))
			var sender event.Sender = sess
			var rec *replay.Recorder
			if cfg.Record.Path != "" {
				rec, err = replay.Create(cfg.Record.Path)
				if err != nil {
					return err
				}
				defer rec.Close()
				sender = rec.Sender(sess)
			}

			reporter := event.NewReporter(slog.Default())
			disp := event.NewDispatcher(
				event.NewBus(reporter),
				event.WithSender(sender),
				event.WithMetrics(collector),
			)
			var handler client.FrameHandler = disp
			if rec != nil {
				handler = rec.Frames(disp)
			}

			err = client.Bootstrap(disp, client.Login{
				Host:            cfg.Server.Host,
				Port:            uint16(cfg.Server.Port),
				Username:        cfg.Client.Username,
				ProtocolVersion: cfg.Client.ProtocolVersion,
			})
			if err != nil {
				return err
			}

			drv := client.NewDriver(sock, sess, handler, p,
				client.WithReadBufferSize(cfg.Session.ReadBufferSize),
				client.WithPollTimeout(cfg.Driver.PollTimeout),
				client.WithMetrics(collector),
				client.WithSender(client.SenderFunc(disp.Send)),
			)
			if console {
				go func() {
					if err := debug.NewConsole(drv, reporter).Start(ctx); err != nil {
						slog.Error("Console stopped", "error", err)
					}
				}()
			}

			slog.Info("Connecting", "server", cfg.Server.Addr(), "username", cfg.Client.Username)
			err = drv.Run(ctx)
			switch {
			case err == nil:
				slog.Info("Server closed the connection")
				return nil
			case errors.Is(err, context.Canceled):
				slog.Info("Interrupted")
				return nil
			case errors.Is(err, event.ErrDisconnected):
				slog.Warn("Kicked", "reason", err)
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&record, "record", "r", "", "record the session to this file (overrides record.path)")
	cmd.Flags().StringVarP(&username, "username", "u", "", "override client.username")
	cmd.Flags().BoolVar(&console, "console", false, "read chat and commands from standard input")

	return cmd
}
