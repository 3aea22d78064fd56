package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/loopline/pkg/observability"
	"github.com/matzehuels/loopline/pkg/server"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags   optionFlags
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the compile API over HTTP",
		Long: `Serve the compile API over HTTP.

Endpoints:
  GET  /health
  POST /v1/check
  POST /v1/format
  POST /v1/compile?format=svg&viz=loop&style=simple
  GET  /v1/diagrams/{id}?format=png

Compiled diagrams are kept in the cache and can be fetched again by the ID
returned in the X-Diagram-ID header. Use a shared cache backend (redis or
mongo) when running several instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := server.Config{
				Addr:         c.Config.Server.Addr,
				ReadTimeout:  c.Config.Server.ReadTimeout.Duration,
				WriteTimeout: c.Config.Server.WriteTimeout.Duration,
				MaxBody:      c.Config.Server.MaxBody,
				Options:      flags.merge(cmd, c.Config.PipelineOptions()),
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			return c.runServe(cmd.Context(), cfg, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching (diagrams cannot be fetched again)")
	flags.registerLayout(cmd.Flags())
	cmd.Flags().StringVar(&flags.opts.Style, "style", "", "default visual style")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg server.Config, noCache bool) error {
	if err := cfg.Options.ValidateAndSetDefaults(); err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	hooks := observability.NewLogHooks(c.Logger)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	printInfo("Serving on %s", cfg.Addr)
	return server.New(runner, cfg, c.Logger).ListenAndServe(ctx)
}
