package cli

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartlayout/pkg/layout"
	"github.com/matzehuels/chartlayout/pkg/pipeline"
	"github.com/matzehuels/chartlayout/pkg/sink"
)

// renderOpts holds the command-line flags of the render command that do not
// map onto pipeline.Options directly.
type renderOpts struct {
	output     string // output file path (or base path for multiple outputs)
	formats    string // comma-separated output formats
	fromLayout bool   // input is a computed layout, not a spec
	flags      layoutFlags
}

// renderCommand creates the render command for drawing charts.
func (c *CLI) renderCommand() *cobra.Command {
	var ro renderOpts
	opts := pipeline.Options{}
	setCLIDefaults(&opts)

	cmd := &cobra.Command{
		Use:   "render [spec.json|spec.toml]",
		Short: "Lay out and draw a chart",
		Long: `Lay out and draw a chart.

The render command computes the layout of a chart spec and draws it as a
wireframe SVG, PNG or PDF, or exports it as JSON. With --from-layout the
input is a layout.json produced by 'layout' and only the drawing runs.

PNG and PDF output need rsvg-convert (librsvg) on the PATH.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeSpecFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(ro.formats)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if _, err := sink.ParseEffect(opts.Effect); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, ro)
		},
	}

	cmd.Flags().StringVarP(&ro.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&ro.formats, "format", "f", "", "output format(s): svg (default), json, pdf, png (comma-separated)")
	cmd.Flags().BoolVar(&ro.fromLayout, "from-layout", false, "input is a layout.json instead of a spec")
	cmd.Flags().StringVar(&opts.Effect, "effect", "", "visual effect: none, glass, gradient, shadow (default: the spec's)")
	cmd.Flags().BoolVar(&opts.Debug, "debug", false, "draw zones and hidden labels")
	cmd.Flags().Float64Var(&opts.Scale, "scale", opts.Scale, "PNG pixel density")
	ro.flags.register(cmd, &opts)
	registerRenderCompletions(cmd)

	return cmd
}

// runRender computes (or loads) the layout and writes one file per format.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, ro renderOpts) error {
	logger := loggerFromContext(ctx)
	logger.Debugf("Rendering %s", input)

	runner, err := c.newRunner(ro.flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	var (
		l         layout.ComputedLayout
		artifacts map[string][]byte
		points    int
		cached    bool
	)
	if ro.fromLayout {
		l, err = readLayoutFile(input)
		if err == nil {
			artifacts, cached, err = runner.RenderWithCacheInfo(ctx, l, opts)
		}
	} else {
		var res *pipeline.Result
		res, err = c.execute(ctx, runner, input, opts, ro.flags)
		if err == nil {
			l, artifacts, points = res.Layout, res.Artifacts, res.Stats.Points
			cached = res.CacheInfo.LayoutHit && res.CacheInfo.RenderHit
		}
	}
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	paths, err := writeArtifacts(artifacts, opts.Formats, ro.output, input)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", input)
	for _, p := range paths {
		printFile(p)
	}
	printStats(l, points, cached)
	printRisk(input, l.OverflowRisk)
	return nil
}

// execute loads the spec and grid and runs the full pipeline.
func (c *CLI) execute(ctx context.Context, runner *pipeline.Runner, input string, opts pipeline.Options, flags layoutFlags) (*pipeline.Result, error) {
	spec, err := loadSpec(input)
	if err != nil {
		return nil, fmt.Errorf("load spec: %w", err)
	}
	grid, err := flags.grid(&opts)
	if err != nil {
		return nil, err
	}
	return runner.Execute(ctx, spec, grid, opts)
}

// readLayoutFile reads a layout written by the layout command.
func readLayoutFile(path string) (layout.ComputedLayout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return layout.ComputedLayout{}, fmt.Errorf("read layout %s: %w", path, err)
	}
	l, err := layout.Unmarshal(data)
	if err != nil {
		return layout.ComputedLayout{}, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// outputExt is the file suffix for a format. JSON layouts get a compound
// suffix so they never overwrite a JSON spec of the same name.
func outputExt(format string) string {
	if format == pipeline.FormatJSON {
		return ".layout.json"
	}
	return "." + format
}

// writeArtifacts writes each artifact to disk in the order formats were
// requested and returns the paths written. A single format goes to output
// as given; several formats share output (or input) as a base path.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, input string) ([]string, error) {
	var paths []string
	for _, format := range slices.Compact(slices.Clone(formats)) {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := output
		if path == "" || len(formats) > 1 {
			path = basePath(output, input) + outputExt(format)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
