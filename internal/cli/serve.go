package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/masonry/internal/config"
	"github.com/matzehuels/masonry/internal/server"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout API over HTTP",
		Long: `Serve the layout API over HTTP.

Saved layouts go to MongoDB when [store] mongo_uri is configured and are
kept in memory otherwise. The cache backend follows the [cache] section.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, cmd.Flags().Changed("addr"), noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, addrSet, noCache bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if !addrSet && cfg.Server.Addr != "" {
		addr = cfg.Server.Addr
	}

	runner, err := c.newRunner(ctx, noCache, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	st, err := cfg.OpenStore(ctx, config.MemoryHistory)
	if err != nil {
		return err
	}
	runner.Store = st

	defaults, err := c.layoutDefaults()
	if err != nil {
		return err
	}

	printInfo("Serving on %s", StyleHighlight.Render(addr))
	prog := newProgress(c.Logger)
	err = server.New(runner, defaults, c.Logger).ListenAndServe(ctx, addr)
	if errors.Is(err, context.Canceled) {
		prog.done("Server stopped")
		return nil
	}
	return err
}

