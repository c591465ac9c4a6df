package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/chartlayout/pkg/layout"
	"github.com/matzehuels/chartlayout/pkg/observability"
	"github.com/matzehuels/chartlayout/pkg/sink"
)

// Render generates output artifacts in the requested formats. opts should
// already be validated for rendering.
func Render(ctx context.Context, l layout.ComputedLayout, opts Options) (map[string][]byte, error) {
	svgOpts, err := buildSVGOptions(opts)
	if err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		observability.Pipeline().OnRenderStart(ctx, format)
		start := time.Now()

		var data []byte
		switch format {
		case FormatSVG:
			data = sink.RenderSVG(l, svgOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(l, sink.WithPNGSVGOptions(svgOpts...), sink.WithScale(opts.Scale))
		case FormatPDF:
			data, err = sink.RenderPDF(l, sink.WithPDFSVGOptions(svgOpts...))
		case FormatJSON:
			var jsonOpts []sink.JSONOption
			if effect, _ := sink.ParseEffect(opts.Effect); effect != sink.EffectNone {
				jsonOpts = append(jsonOpts, sink.WithJSONEffect(effect, opts.Instance))
			}
			data, err = sink.RenderJSON(l, jsonOpts...)
		default:
			err = ValidateFormat(format)
		}

		observability.Pipeline().OnRenderComplete(ctx, format, time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// buildSVGOptions builds SVG rendering options.
func buildSVGOptions(opts Options) ([]sink.SVGOption, error) {
	effect, err := sink.ParseEffect(opts.Effect)
	if err != nil {
		return nil, err
	}
	svgOpts := []sink.SVGOption{
		sink.WithEffect(effect),
		sink.WithInstance(opts.Instance),
	}
	if opts.Config != nil {
		svgOpts = append(svgOpts, sink.WithMetrics(opts.Config.Text))
	}
	if opts.Debug {
		svgOpts = append(svgOpts, sink.WithDebug())
	}
	return svgOpts, nil
}
