package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/matzehuels/figurine/pkg/buildinfo"
	"github.com/matzehuels/figurine/pkg/mcptools"
	"github.com/matzehuels/figurine/pkg/server"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP render API",
		Long: `Run the HTTP render API.

  GET  /healthz
  GET  /v1/kinds
  POST /v1/charts/{kind}
  POST /v1/diagrams/{kind}
  POST /v1/expand
  GET  /v1/posts/{slug}/figures`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	logger := loggerFromContext(ctx)

	cfg, err := c.config()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}

	runner, err := c.newRunner(ctx, runnerOpts{publish: true})
	if err != nil {
		return err
	}
	defer runner.Close()

	defaults, err := c.expandDefaults()
	if err != nil {
		return err
	}

	srv := server.New(runner, server.Config{
		Addr:         addr,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
	}, defaults, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	printSuccess("Server stopped")
	return nil
}

// mcpCommand creates the mcp command, which serves the render tools over
// stdio for drafting agents.
func (c *CLI) mcpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the render tools over MCP stdio",
		Long: `Serve the render tools over the Model Context Protocol on stdin/stdout.

Tools: ` + mcptools.ToolRenderDiagram + `, ` + mcptools.ToolRenderChart + `, ` +
			mcptools.ToolExpand + `, ` + mcptools.ToolListKinds + `.
Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, runnerOpts{})
			if err != nil {
				return err
			}
			defer runner.Close()

			defaults, err := c.expandDefaults()
			if err != nil {
				return err
			}

			start := time.Now()
			loggerFromContext(ctx).Debug("serving mcp", "version", buildinfo.Version)
			err = mcpserver.ServeStdio(mcptools.NewServer(buildinfo.Version, runner, defaults))
			loggerFromContext(ctx).Debug("mcp stopped", "uptime", time.Since(start).Round(time.Second))
			return err
		},
	}
}
