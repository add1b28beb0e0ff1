package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/akellamp2020-create/lamp-card-render/pkg/buildinfo"
	"github.com/akellamp2020-create/lamp-card-render/pkg/card"
	"github.com/akellamp2020-create/lamp-card-render/pkg/config"
	"github.com/akellamp2020-create/lamp-card-render/pkg/pipeline"
	"github.com/akellamp2020-create/lamp-card-render/pkg/render"
	"github.com/akellamp2020-create/lamp-card-render/pkg/render/chrome"
	"github.com/akellamp2020-create/lamp-card-render/pkg/render/raster"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "lampcard"

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

	// ConfigPath is the --config flag; empty falls back to $LAMPCARD_CONFIG.
	ConfigPath string
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
		Short:        "lampcard renders LAMP settlement reports as card images",
		Long:         `lampcard turns a game's settlement report (identity, redistribution and settlement tables) into a PNG of stacked cards, as a one-shot command or an HTTP service.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (.toml, .yaml); defaults to $"+config.EnvConfigPath)

	// Register all subcommands
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// loadConfig reads the configuration selected by --config.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}
	c.Logger.Debug("loaded config", "config", cfg.String())
	return cfg, nil
}

// newRunner builds a pipeline runner for cfg.
func (c *CLI) newRunner(cfg config.Config) (*pipeline.Runner, error) {
	engine, err := card.NewEngine(cfg.Engine.ChunkWidth)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(engine, newRenderer(cfg.Render, c.Logger), c.Logger), nil
}

// newRenderer returns the image backend selected by cfg.
func newRenderer(cfg config.RenderConfig, logger *log.Logger) render.Renderer {
	if cfg.Backend == config.BackendChrome {
		return chrome.New(chrome.Options{
			Bin:        cfg.Chrome.Bin,
			ControlURL: cfg.Chrome.ControlURL,
			NoSandbox:  cfg.Chrome.NoSandbox,
		}, logger)
	}
	return raster.New(logger)
}
