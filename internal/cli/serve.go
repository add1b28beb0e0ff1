package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/akellamp2020-create/lamp-card-render/pkg/server"
)

// serveCommand creates the serve command that runs the HTTP service.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the card rendering HTTP service",
		Long: `Run the HTTP service.

Routes:
  GET  /         banner
  GET  /health   {"ok":true}
  POST /render   JSON payload in, PNG out (?format=html|json)

The listen address defaults to :$PORT (8080).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config and $PORT)")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	runner, err := c.newRunner(cfg)
	if err != nil {
		return err
	}

	logger.Info("starting service",
		"backend", cfg.Render.Backend,
		"chunk", cfg.Engine.ChunkWidth,
		"viewport", cfg.Render.Viewport)
	return server.New(runner, cfg, logger).ListenAndServe(ctx)
}
