package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cinematch/cinematch/internal/server"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve recommendations over an HTTP JSON API",
		Long: `Start an HTTP server exposing:

  GET /api/v1/recommendations?title=<title>&k=<n>
  GET /api/v1/titles?q=<query>&limit=<n>
  GET /api/v1/health

The dataset is loaded once at startup and shared by all requests.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(rootFlag)
			if err != nil {
				return err
			}
			listen := addr
			if listen == "" {
				listen = sess.cfg.Server.Addr
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(sess.engine, server.Config{
				Addr:              listen,
				RequestsPerMinute: sess.cfg.Server.RequestsPerMinute,
			})
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, :8080)")
	return cmd
}
