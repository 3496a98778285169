// Package cli implements the mindmap command-line interface.
package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yash2003ruhela/mind-map/pkg/buildinfo"
	"github.com/yash2003ruhela/mind-map/pkg/cache"
	"github.com/yash2003ruhela/mind-map/pkg/config"
	"github.com/yash2003ruhela/mind-map/pkg/diagram"
	"github.com/yash2003ruhela/mind-map/pkg/editor"
	"github.com/yash2003ruhela/mind-map/pkg/observability"
	"github.com/yash2003ruhela/mind-map/pkg/pipeline"
	"github.com/yash2003ruhela/mind-map/pkg/snapshot"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the binary name used in help text.
	appName = config.AppName

	// artifactCacheSize bounds the in-process export cache.
	artifactCacheSize = 4 << 20
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
	Config config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and the built-in
// configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Mindmap is a small node-and-line diagram editor",
		Long:          `Mindmap edits diagrams of labeled boxes joined by lines, with unlimited undo, from the terminal or through a local HTTP API.`,
		Version:       buildinfo.Read().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/mindmap/config.toml)")

	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.replayCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration, attaches the logger to the command context
// and routes editor and export events to the debug log.
func (c *CLI) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg

	hooks := &logHooks{logger: c.Logger}
	observability.SetEditorHooks(hooks)
	observability.SetExportHooks(hooks)

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Session and Runner Factories
// =============================================================================

// editorOptions translates the configuration into session options.
func editorOptions(cfg config.Config, logger *log.Logger) (editor.Options, error) {
	ids, err := editor.Generator(cfg.Graph.IDs)
	if err != nil {
		return editor.Options{}, err
	}
	codec, err := snapshot.Lookup(cfg.History.Codec, cfg.History.Compress)
	if err != nil {
		return editor.Options{}, err
	}
	opts := editor.DefaultOptions()
	opts.Canvas = diagram.Size{W: cfg.Canvas.Width, H: cfg.Canvas.Height}
	opts.NodeSize = diagram.Size{W: cfg.Node.Width, H: cfg.Node.Height}
	opts.AllowParallelEdges = cfg.Graph.AllowParallelEdges
	opts.HistoryLimit = cfg.History.Limit
	opts.Codec = codec
	opts.IDs = ids
	opts.Logger = logger
	return opts, nil
}

// newSession creates an editing session from the loaded configuration.
func (c *CLI) newSession() (*editor.Session, error) {
	opts, err := editorOptions(c.Config, c.Logger)
	if err != nil {
		return nil, err
	}
	return editor.NewSession(opts)
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) *pipeline.Runner {
	var store cache.Cache = cache.NewMemoryCache(artifactCacheSize)
	if noCache {
		store = cache.NewNullCache()
	}
	return pipeline.NewRunner(store, c.Logger)
}

// exportDefaults returns render options seeded from the configuration.
func (c *CLI) exportDefaults() pipeline.Options {
	return pipeline.Options{
		Scale:    c.Config.Export.Scale,
		FontSize: c.Config.Export.FontSize,
	}
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.DefaultFormat}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
