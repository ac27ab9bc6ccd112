package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/courseflow/internal/config"
	"github.com/matzehuels/courseflow/pkg/buildinfo"
	"github.com/matzehuels/courseflow/pkg/catalog"
	apperrors "github.com/matzehuels/courseflow/pkg/errors"
	"github.com/matzehuels/courseflow/pkg/pipeline"
	"github.com/matzehuels/courseflow/pkg/style"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "courseflow"
)

// Log levels accepted by New.
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

	// Config is loaded before any subcommand runs.
	Config *config.Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
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
		Use:   appName,
		Short: "Courseflow lays out academic catalogs as interactive force graphs",
		Long: `Courseflow turns a university catalog into a navigable graph: faculties,
schools and units are laid out by a force simulation and can be explored by
drilling into any group.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log debug output")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: "+config.Path()+")")

	// Commands that read a catalog
	for _, cmd := range []*cobra.Command{
		c.layoutCommand(),
		c.renderCommand(),
		c.exploreCommand(),
		c.serveCommand(),
	} {
		c.registerCompletions(cmd)
		root.AddCommand(cmd)
	}
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	var (
		cfg *config.Config
		err error
	)
	if c.configPath != "" {
		cfg, err = config.LoadFile(c.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("Loaded config", "path", c.configPathOrDefault())
	return nil
}

func (c *CLI) configPathOrDefault() string {
	if c.configPath != "" {
		return c.configPath
	}
	return config.Path()
}

// =============================================================================
// Inputs
// =============================================================================

// catalogPath picks the catalog file from the first argument, falling back
// to the configured default.
func (c *CLI) catalogPath(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if c.Config.Catalog.Path != "" {
		return c.Config.Catalog.Path, nil
	}
	return "", apperrors.New(apperrors.ErrCodeInvalidPath,
		"no catalog given; pass a file or set catalog.path in %s", c.configPathOrDefault())
}

// loadCatalog reads the catalog named by args or the config.
func (c *CLI) loadCatalog(args []string) (*catalog.Catalog, string, error) {
	path, err := c.catalogPath(args)
	if err != nil {
		return nil, "", err
	}
	cat, err := catalog.LoadFile(path)
	if err != nil {
		return nil, "", err
	}
	c.Logger.Debug("Loaded catalog", "path", path, "name", cat.Name, "units", len(cat.Units))
	return cat, path, nil
}

// properties loads a properties file, or the configured one when path is
// empty.
func (c *CLI) properties(path string) (*style.Properties, error) {
	if path != "" {
		return style.LoadProperties(path)
	}
	return c.Config.Properties()
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Logger)
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineFlags are the layout flags shared by layout and render.
type pipelineFlags struct {
	mode       string
	properties string
	opts       pipeline.Options
}

func (f *pipelineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.mode, "mode", "m", "", "grouping mode: faculty, school, level (default from config)")
	cmd.Flags().StringVar(&f.opts.Scope, "scope", "", "node ID to drill into before layout")
	cmd.Flags().StringVar(&f.properties, "properties", "", "graph properties TOML file")
	cmd.Flags().Uint64Var(&f.opts.Seed, "seed", 0, "random seed for initial positions (default from config)")
	cmd.Flags().IntVar(&f.opts.MaxTicks, "max-ticks", 0, "upper bound on simulation ticks (default from config)")
	cmd.Flags().BoolVar(&f.opts.Fit, "fit", false, "fit the viewport to the settled layout")
	cmd.Flags().Float64Var(&f.opts.Padding, "padding", pipeline.DefaultPadding, "fit padding in pixels")
}

// pipelineOptions fills unset flags from the config and loads properties.
func (c *CLI) pipelineOptions(f *pipelineFlags) (pipeline.Options, error) {
	opts := f.opts
	opts.Logger = c.Logger

	opts.Mode = f.mode
	if opts.Mode == "" {
		opts.Mode = c.Config.Catalog.Mode
	}
	if opts.Seed == 0 {
		opts.Seed = c.Config.Layout.Seed
	}
	if opts.MaxTicks == 0 {
		opts.MaxTicks = c.Config.Layout.MaxTicks
	}
	if opts.StopAlpha == 0 {
		opts.StopAlpha = c.Config.Layout.StopAlpha
	}

	props, err := c.properties(f.properties)
	if err != nil {
		return opts, err
	}
	opts.Properties = props
	return opts, nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.DefaultFormat}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
