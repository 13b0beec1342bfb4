package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/masonry/internal/config"
	"github.com/matzehuels/masonry/pkg/buildinfo"
	"github.com/matzehuels/masonry/pkg/observability"
	"github.com/matzehuels/masonry/pkg/pipeline"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "masonry",
		Short: "Masonry packs cards of mixed sizes into a gap-free grid",
		Long: `Masonry lays out cards of mixed sizes and aspect ratios on a fixed
container, keeping reading order where it can and filling gaps where it
cannot. Item sets are read from JSON, JSONC, YAML or TOML files.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/masonry/config.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config and Runner Factory
// =============================================================================

// loadConfig loads the configuration once per process.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Path() != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path())
	}
	c.cfg = cfg
	return cfg, nil
}

// layoutDefaults returns pipeline defaults overlaid with the config file.
func (c *CLI) layoutDefaults() (pipeline.Options, error) {
	opts := pipeline.DefaultOptions()
	cfg, err := c.loadConfig()
	if err != nil {
		return opts, err
	}
	cfg.ApplyLayout(&opts)
	return opts, nil
}

// newRunner creates a pipeline runner for CLI use. The history store is
// opened only when withHistory is set.
func (c *CLI) newRunner(ctx context.Context, noCache, withHistory bool) (*pipeline.Runner, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	observability.UseLogger(c.Logger)

	cch, keyer, err := cfg.OpenCache(ctx, noCache, c.Logger)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(cch, keyer, nil, c.Logger)
	runner.TTL = cfg.CacheTTL()

	if withHistory {
		st, err := cfg.OpenStore(ctx, cfg.FileHistory())
		if err != nil {
			runner.Close()
			return nil, err
		}
		runner.Store = st
	}
	return runner, nil
}
