package cli

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartlayout/pkg/pipeline"
)

// exportOpts holds the flags of the export command.
type exportOpts struct {
	dir         string
	formats     string
	concurrency int
	page        bool
	flags       layoutFlags
}

// exportCommand creates the export command for laying out many charts at once.
func (c *CLI) exportCommand() *cobra.Command {
	var eo exportOpts
	opts := pipeline.Options{}
	setCLIDefaults(&opts)

	cmd := &cobra.Command{
		Use:   "export [spec...]",
		Short: "Lay out many charts and capture them together",
		Long: `Lay out many charts and capture them together.

All charts are laid out concurrently. Nothing is drawn until every chart is
ready; the charts are then rendered one by one in argument order. Each
chart gets its own effect instance, so their SVGs can share one page
without clashing ids. --page writes such a page (report.html).`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeSpecFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(eo.formats)
			if eo.page && !slices.Contains(opts.Formats, pipeline.FormatSVG) {
				opts.Formats = append(opts.Formats, pipeline.FormatSVG)
			}
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runExport(cmd.Context(), args, opts, eo)
		},
	}

	cmd.Flags().StringVarP(&eo.dir, "dir", "d", ".", "output directory")
	cmd.Flags().StringVarP(&eo.formats, "format", "f", "", "output format(s): svg (default), json, pdf, png (comma-separated)")
	cmd.Flags().IntVarP(&eo.concurrency, "concurrency", "j", pipeline.DefaultConcurrency, "layouts computed at once")
	cmd.Flags().BoolVar(&eo.page, "page", false, "also write report.html with every chart inline")
	cmd.Flags().StringVar(&opts.Effect, "effect", "", "visual effect: none, glass, gradient, shadow (default: each spec's)")
	cmd.Flags().BoolVar(&opts.Debug, "debug", false, "draw zones and hidden labels")
	cmd.Flags().Float64Var(&opts.Scale, "scale", opts.Scale, "PNG pixel density")
	eo.flags.register(cmd, &opts)
	registerRenderCompletions(cmd)

	return cmd
}

// runExport loads every spec, runs the export barrier and writes the results.
func (c *CLI) runExport(ctx context.Context, inputs []string, opts pipeline.Options, eo exportOpts) error {
	grid, err := eo.flags.grid(&opts)
	if err != nil {
		return err
	}
	opts.Logger = c.Logger

	jobs := make([]pipeline.Job, len(inputs))
	for i, input := range inputs {
		spec, err := loadSpec(input)
		if err != nil {
			return fmt.Errorf("load spec: %w", err)
		}
		jobs[i] = pipeline.Job{
			Name:    filepath.Base(basePath("", input)),
			Spec:    spec,
			Grid:    grid,
			Options: opts,
		}
	}

	if err := os.MkdirAll(eo.dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", eo.dir, err)
	}

	runner, err := c.newRunner(eo.flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	results, err := runner.Export(ctx, jobs, pipeline.ExportOptions{
		Concurrency: eo.concurrency,
		OnReady: func(index, ready, total int) {
			c.Logger.Debug("chart ready", "chart", jobs[index].Name, "ready", ready, "total", total)
		},
	})
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	prog.done(fmt.Sprintf("Exported %d charts", len(results)))

	for i, res := range results {
		target := filepath.Join(eo.dir, res.Name+filepath.Ext(inputs[i]))
		paths, err := writeArtifacts(res.Artifacts, opts.Formats, "", target)
		if err != nil {
			return err
		}
		printSuccess("%s", res.Name)
		for _, p := range paths {
			printFile(p)
		}
		printStats(res.Layout, jobs[i].Spec.Data.Count(), res.CacheInfo.LayoutHit && res.CacheInfo.RenderHit)
		printRisk(res.Name, res.Layout.OverflowRisk)
	}

	if eo.page {
		path := filepath.Join(eo.dir, "report.html")
		if err := writePage(path, results); err != nil {
			return err
		}
		printNewline()
		printInfo("Report page")
		printFile(path)
	}
	return nil
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>chartlayout export</title></head>
<body>
{{range .}}<figure id="{{.Name}}">
{{.SVG}}
<figcaption>{{.Name}}</figcaption>
</figure>
{{end}}</body>
</html>
`))

// writePage writes every chart's SVG inline into one HTML page, in export
// order.
func writePage(path string, results []pipeline.ExportResult) error {
	type figure struct {
		Name string
		SVG  template.HTML
	}
	figures := make([]figure, len(results))
	for i, r := range results {
		figures[i] = figure{Name: r.Name, SVG: template.HTML(r.Artifacts[pipeline.FormatSVG])}
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, figures); err != nil {
		return fmt.Errorf("build page: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
