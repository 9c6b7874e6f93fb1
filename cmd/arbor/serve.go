package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/arbor-ui/arbor/pkg/server"
)

func serveCmd() *cobra.Command {
	var (
		addr      string
		root      string
		heartbeat time.Duration
		jsonLogs  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo app over HTTP and WebSocket",
		Long: `Start the server: the root component renders as HTML on "/",
live sessions connect on "/ws", and Prometheus metrics are on "/metrics".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var handler slog.Handler = slog.NewTextHandler(os.Stderr, nil)
			if jsonLogs {
				handler = slog.NewJSONHandler(os.Stderr, nil)
			}
			logger := slog.New(handler)

			srv := server.New(demoRegistry(), root,
				server.WithAddr(addr),
				server.WithLogger(logger),
				server.WithHeartbeatInterval(heartbeat),
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			printBanner()
			info("serving %s on %s", root, addr)
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&root, "root", "App", "Root component name")
	cmd.Flags().DurationVar(&heartbeat, "heartbeat", 30*time.Second, "WebSocket ping interval")
	cmd.Flags().BoolVar(&jsonLogs, "json-logs", false, "Emit logs as JSON")

	return cmd
}
