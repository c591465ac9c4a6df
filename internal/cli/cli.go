package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chartlayout/pkg/buildinfo"
	"github.com/matzehuels/chartlayout/pkg/cache"
	"github.com/matzehuels/chartlayout/pkg/chart"
	"github.com/matzehuels/chartlayout/pkg/errors"
	"github.com/matzehuels/chartlayout/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "chartlayout"
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
// --verbose switches the CLI's logger to debug level before any command runs.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:   appName,
		Short: "Chartlayout computes chart geometry that fits its container",
		Long: `Chartlayout turns declarative chart specs into final geometry: margins,
plot and legend zones, wrapped and de-collided labels, pie and donut slices
and treemap rectangles. The result can be exported as JSON or drawn as a
wireframe SVG, PNG or PDF.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/chartlayout/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .json, ...), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// =============================================================================
// Options Helpers
// =============================================================================

// setCLIDefaults applies CLI-specific defaults on top of pipeline defaults.
func setCLIDefaults(opts *pipeline.Options) {
	opts.SetLayoutDefaults()
	opts.SetRenderDefaults()
	opts.Logger = nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// parseSpan parses a grid span such as "2x1" into column and row counts.
func parseSpan(s string) (int, int, error) {
	cols, rows, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "invalid span %q (want COLSxROWS, e.g. 2x1)", s)
	}
	c, err1 := strconv.Atoi(strings.TrimSpace(cols))
	r, err2 := strconv.Atoi(strings.TrimSpace(rows))
	if err1 != nil || err2 != nil || c < 1 || r < 1 {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "invalid span %q (want COLSxROWS, e.g. 2x1)", s)
	}
	return c, r, nil
}

// =============================================================================
// Shared Layout Flags
// =============================================================================

// layoutFlags are the flags every command that computes layouts shares.
type layoutFlags struct {
	gridPath string
	span     string
	noCache  bool
}

// register binds the shared flags onto cmd, writing into opts.
func (f *layoutFlags) register(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().Float64Var(&opts.Width, "width", opts.Width, "container width in pixels")
	cmd.Flags().Float64Var(&opts.Height, "height", opts.Height, "container height in pixels")
	cmd.Flags().StringVar(&opts.Target, "target", opts.Target, "output medium: screen (default), print")
	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "engine thresholds (TOML)")
	cmd.Flags().StringVar(&f.gridPath, "grid", "", "report grid config (JSON or TOML)")
	cmd.Flags().StringVar(&f.span, "span", "", "size the container from grid cells, e.g. 2x1 (needs --grid)")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when cached")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	_ = cmd.RegisterFlagCompletionFunc("target", cobra.FixedCompletions(
		[]string{string(chart.TargetScreen), string(chart.TargetPrint)},
		cobra.ShellCompDirectiveNoFileComp,
	))
}

// grid loads the grid config and, when --span is set, sizes the container
// from it.
func (f *layoutFlags) grid(opts *pipeline.Options) (chart.GridConfig, error) {
	var grid chart.GridConfig
	if f.gridPath != "" {
		g, err := chart.ReadGridFile(f.gridPath)
		if err != nil {
			return grid, fmt.Errorf("load grid: %w", err)
		}
		grid = g
	}
	if f.span == "" {
		return grid, nil
	}
	if f.gridPath == "" {
		return grid, errors.New(errors.ErrCodeInvalidInput, "--span needs --grid")
	}
	cols, rows, err := parseSpan(f.span)
	if err != nil {
		return grid, err
	}
	opts.Width, opts.Height = pipeline.ContainerFromGrid(grid, cols, rows)
	return grid, nil
}

// loadSpec reads and validates a chart spec file.
func loadSpec(path string) (chart.Spec, error) {
	spec, err := chart.ReadSpecFile(path)
	if err != nil {
		return chart.Spec{}, err
	}
	if err := spec.Validate(); err != nil {
		return chart.Spec{}, fmt.Errorf("%s: %w", path, err)
	}
	return spec, nil
}
