// Package pipeline provides the layout → render pipeline shared by the CLI
// and the HTTP API.
//
// The layout engine in package layout is pure; this package adds what a
// running program needs around it: option defaults and validation, engine
// config loading, memoisation through a [cache.Cache], logging, hooks and
// the multi-chart export barrier.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Layout: compute the geometry of one chart ([layout.Compute])
//  2. Render: paint it in various formats (SVG, PNG, PDF, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{Width: 640, Height: 400, Formats: []string{"svg"}}
//	result, err := runner.Execute(ctx, spec, grid, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	l, err := runner.ComputeLayout(ctx, spec, grid, opts)
//	artifacts, err := runner.Render(ctx, l, opts)
//
// Lay out many charts and capture them once all are ready:
//
//	results, err := runner.Export(ctx, jobs, pipeline.ExportOptions{Concurrency: 4})
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chartlayout/pkg/cache"
	"github.com/matzehuels/chartlayout/pkg/chart"
	"github.com/matzehuels/chartlayout/pkg/errors"
	"github.com/matzehuels/chartlayout/pkg/layout"
	"github.com/matzehuels/chartlayout/pkg/sink"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default container width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default container height in pixels.
	DefaultHeight = 600.0

	// DefaultTarget is the default output medium.
	DefaultTarget = chart.TargetScreen

	// DefaultConcurrency bounds how many export layouts run at once.
	DefaultConcurrency = 4
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline except the chart
// itself. It supports JSON serialization for API requests.
type Options struct {
	// Layout options
	Width      float64 `json:"width,omitempty"`
	Height     float64 `json:"height,omitempty"`
	Target     string  `json:"target,omitempty"`
	ConfigPath string  `json:"-"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Scale    float64  `json:"scale,omitempty"`
	Effect   string   `json:"effect,omitempty"`
	Instance int      `json:"instance,omitempty"`
	Debug    bool     `json:"debug,omitempty"`

	// Refresh skips cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger    `json:"-"`
	Config *layout.Config `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is the computed chart geometry.
	Layout layout.ComputedLayout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Points     int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Target == "" {
		o.Target = string(DefaultTarget)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout sets layout defaults, validates them and loads the
// engine config named by ConfigPath unless Config is already set.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := errors.ValidateContainer(o.Width, o.Height); err != nil {
		return err
	}
	if err := chart.ValidateTarget(o.Target); err != nil {
		return err
	}
	if o.Config == nil && o.ConfigPath != "" {
		cfg, err := layout.LoadConfig(o.ConfigPath)
		if err != nil {
			return err
		}
		o.Config = &cfg
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale <= 0 {
		o.Scale = sink.DefaultPNGScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	_, err := sink.ParseEffect(o.Effect)
	return err
}

// LayoutKeyOpts returns cache key options for layout computation. The
// config hash keeps layouts computed with different thresholds apart.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	k := cache.LayoutKeyOpts{
		Width:  o.Width,
		Height: o.Height,
		Target: o.Target,
	}
	if o.Config != nil {
		k.ConfigHash, _ = cache.HashJSON(o.Config)
	}
	return k
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format: format,
		Effect: o.Effect,
		Debug:  o.Debug,
	}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	if o.Effect != "" && o.Effect != string(sink.EffectNone) {
		// Effect ids depend on the instance.
		k.Instance = o.Instance
	}
	return k
}

// inheritStyle fills render options the chart spec carries itself. Flags
// and request fields win over the spec.
func (o *Options) inheritStyle(spec chart.Spec) {
	if o.Effect == "" {
		o.Effect = spec.Style.Effect
	}
}

// layoutOptions converts Options into engine options.
func (o *Options) layoutOptions() []layout.Option {
	if o.Config == nil {
		return nil
	}
	return []layout.Option{layout.WithConfig(*o.Config)}
}
