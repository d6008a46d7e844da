// Package cli implements the figurine command-line interface.
//
// figurine renders the charts and diagrams of a blog draft. The commands are:
//   - render: draw one chart or diagram as SVG, PNG or PDF
//   - expand: substitute every [DIAGRAM: …] and [CHART: …] marker in a draft
//   - scan: list the markers of a draft and whether each one renders
//   - review: approve, revise or reject a draft interactively
//   - serve: run the HTTP API
//   - mcp: serve the render tools over MCP stdio
//   - cache: manage the figure cache
//
// All commands read the TOML configuration (see package config) and support
// --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/figurine/pkg/buildinfo"
	"github.com/matzehuels/figurine/pkg/config"
	"github.com/matzehuels/figurine/pkg/pipeline"
)

const appName = "figurine"

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

	// ConfigPath is the --config flag value.
	ConfigPath string

	cfg *config.Config
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
		Use:          appName,
		Short:        "figurine renders the charts and diagrams of blog drafts",
		Long:         `figurine turns the [DIAGRAM: …] and [CHART: …] markers of a markdown draft into self-contained, theme-aware SVG figures.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default $"+config.EnvPath+" or ~/.config/figurine/config.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.expandCommand())
	root.AddCommand(c.scanCommand())
	root.AddCommand(c.reviewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.mcpCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// config loads the configuration once per process.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return nil, err
	}
	if path, _ := config.Path(c.ConfigPath); path != "" {
		c.Logger.Debug("config", "path", path)
	}
	c.cfg = cfg
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// runnerOpts selects which backends a command needs.
type runnerOpts struct {
	noCache bool
	// publish opens the figure store and index for link mode.
	publish bool
}

// newRunner creates a pipeline runner from the configuration.
func (c *CLI) newRunner(ctx context.Context, ro runnerOpts) (*pipeline.Runner, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	fc, err := cfg.NewCache(ctx, ro.noCache)
	if err != nil {
		return nil, err
	}

	var opts []pipeline.RunnerOption
	if ro.publish {
		st, err := cfg.NewStore(ctx)
		if err != nil {
			fc.Close()
			return nil, err
		}
		idx, err := cfg.NewIndex(ctx)
		if err != nil {
			fc.Close()
			return nil, err
		}
		opts = append(opts, pipeline.WithStore(st), pipeline.WithIndex(idx))
	}
	return pipeline.NewRunner(fc, cfg.NewKeyer(), c.Logger, opts...), nil
}

// expandDefaults returns the configured expansion options.
func (c *CLI) expandDefaults() (pipeline.Options, error) {
	cfg, err := c.config()
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := cfg.ExpandOptions()
	opts.Logger = c.Logger
	return opts, nil
}

// =============================================================================
// Input / Output
// =============================================================================

// readInput reads a file, or stdin when path is "-".
func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// writeOutput writes data to path, or stdout when path is empty or "-".
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := w.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
