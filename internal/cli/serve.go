package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mircut/mircut/internal/api"
)

// newServeCmd creates the serve command for running the HTTP API.
func newServeCmd() *cobra.Command {
	var addr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Run the HTTP server exposing the cut-generation pipeline.

Endpoints:
  POST /v1/cuts   generate cuts for a problem and relaxation state
  POST /v1/graph  render the constraint graph
  GET  /healthz   liveness probe

The server is stateless; all problem data travels in the request.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(c.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			runner, cfg, err := newRunner(ctx, c, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			if addr != "" {
				cfg.Server.Addr = addr
			}

			srv := api.NewServer(runner, cfg.Server, loggerFromContext(ctx))
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, else :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")

	return cmd
}
