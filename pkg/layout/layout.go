// Package layout is the chart layout engine. [Compute] turns a declarative
// chart description into final geometry: margins, the plot and legend
// zones, and the kind-specific shapes and label placements that a painter
// draws without further computation.
//
// Compute is a pure function. It performs no I/O, keeps no state between
// calls and never fails: degenerate inputs (an empty series, all-zero
// values, a zero-size container) produce a minimal valid layout. Callers
// that need to skip recomputation should memoize on the inputs; the
// pipeline package does so through its cache.
//
// # Dispatch
//
// Every kind shares the margin rules of package margin. The plot zone is
// then handed to one of three geometry builders:
//
//   - pie and donut: [radial.Resolve]
//   - treemap: [treemap.Layout]
//   - everything else: the cartesian builder in this package
package layout

import (
	"math"

	"github.com/matzehuels/chartlayout/pkg/chart"
	"github.com/matzehuels/chartlayout/pkg/layout/geom"
	"github.com/matzehuels/chartlayout/pkg/layout/margin"
	"github.com/matzehuels/chartlayout/pkg/layout/overflow"
	"github.com/matzehuels/chartlayout/pkg/layout/radial"
	"github.com/matzehuels/chartlayout/pkg/layout/treemap"
)

// Zones are the regions the margins leave for content.
type Zones struct {
	Plot   geom.Rect  `json:"plot"`
	Legend *geom.Rect `json:"legend,omitempty"`
}

// ComputedLayout is everything a painter needs. Exactly one of Cartesian,
// Radial and Treemap is set, according to Kind's family.
type ComputedLayout struct {
	Kind      chart.Kind   `json:"kind"`
	Mode      chart.Mode   `json:"mode"`
	Target    chart.Target `json:"target"`
	Container geom.Size    `json:"container"`

	Margins      geom.Margins        `json:"margins"`
	Zones        Zones               `json:"zones"`
	Legend       []margin.LegendItem `json:"legend,omitempty"`
	OverflowRisk overflow.Risk       `json:"overflowRisk"`

	// Scale is the content scale factor chosen by the margin rules.
	Scale float64 `json:"scale"`
	// FontSize is the scaled label font size.
	FontSize float64  `json:"fontSize"`
	Palette  []string `json:"palette"`

	Cartesian *Cartesian        `json:"cartesian,omitempty"`
	Radial    *radial.Geometry  `json:"radial,omitempty"`
	Treemap   *treemap.Geometry `json:"treemap,omitempty"`
}

// Option configures Compute.
type Option func(*options)

type options struct {
	cfg Config
}

// WithConfig replaces the engine thresholds. Zero fields keep their
// defaults.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.cfg = cfg
	}
}

// Compute lays out spec inside a container of the given size.
//
// The base font size is the spec's own, falling back to the grid's. The
// print target rounds the scaled font size to half points and checks
// overflow against the stricter print floor.
func Compute(spec chart.Spec, grid chart.GridConfig, size geom.Size, target chart.Target, opts ...Option) ComputedLayout {
	o := options{cfg: DefaultConfig()}
	for _, opt := range opts {
		opt(&o)
	}
	cfg := o.cfg.withDefaults()

	target = target.OrDefault()
	floor := cfg.ScreenFloor
	if target == chart.TargetPrint {
		floor = cfg.PrintFloor
	}
	fs := spec.Style.FontSize
	if !(fs > 0) {
		fs = grid.FontSize()
	}

	out := ComputedLayout{
		Kind:      spec.Kind,
		Mode:      spec.Style.ModeOrDefault(),
		Target:    target,
		Container: size,
		Scale:     1,
		FontSize:  fs,
		Palette:   Palette(spec.Style.Palette, paletteSize(spec)),
	}

	if !validSize(size) {
		out.Container = geom.Size{}
		out.OverflowRisk = overflow.Risk{Scale: 1, Floor: floor}
		if spec.Data.Count() > 0 {
			out.OverflowRisk = overflow.FromScale(0, floor)
		}
		out.emptyGeometry()
		return out
	}

	legend := spec.LegendOrDefault()
	var entries []string
	if legend != chart.LegendNone {
		entries = spec.LegendEntries()
	}

	in := margin.Input{
		Mode:          out.Mode,
		Legend:        legend,
		LegendEntries: entries,
		HasXTitle:     spec.Style.XAxisTitle != "",
		HasYTitle:     spec.Style.YAxisTitle != "",
		FontSize:      fs,
		Metrics:       cfg.Text,
		Container:     size,
		Profile:       margin.FillProfile,
	}
	var ms measured
	if spec.Kind.Family() == chart.FamilyCartesian {
		ms = measureCartesian(spec, fs, size, cfg)
		in.Profile = ms.profile
		in.Categories = ms.categories
		in.LabelLines = ms.labelLines
		in.CategoryLabelWidth = ms.catWidth
		in.ValueLabelWidth = ms.valueWidth
	}

	res := margin.Compute(in, cfg.Margin)
	if target == chart.TargetPrint {
		res.FontSize = math.Max(0.5, math.Round(res.FontSize*2)/2)
	}

	out.Margins = res.Margins
	out.Zones = Zones{Plot: res.Plot, Legend: res.Legend}
	out.Scale = res.Scale
	out.FontSize = res.FontSize
	out.OverflowRisk = overflow.Detect(res.Natural, res.Available, floor)
	if res.Legend != nil {
		out.Legend = margin.LegendLayout(*res.Legend, legend, entries, res.FontSize, cfg.Text)
	}

	var hero *int
	if i, ok := spec.HeroIndex(); ok {
		hero = &i
	}

	switch spec.Kind.Family() {
	case chart.FamilyRadial:
		g := radial.Resolve(radial.Input{
			Labels:     spec.Data.Labels,
			Values:     spec.Data.Primary(),
			Palette:    out.Palette,
			Donut:      spec.Kind == chart.KindDonut,
			Thickness:  spec.Style.DonutThickness,
			InnerRadii: spec.Style.InnerRadii,
			Hero:       hero,
			HeroScale:  spec.Style.HeroScale,
			ShowTotal:  spec.Style.ShowTotal,
			Format:     spec.Style.Format,
			Plot:       res.Plot,
			FontSize:   res.FontSize,
			Metrics:    cfg.Text,
		}, cfg.Radial)
		out.Radial = &g
	case chart.FamilyArea:
		g := treemap.Layout(treemap.Input{
			Labels:    spec.Data.Labels,
			Values:    spec.Data.Primary(),
			Palette:   out.Palette,
			Hero:      hero,
			HeroScale: spec.Style.HeroScale,
			Format:    spec.Style.Format,
			Bounds:    res.Plot,
			FontSize:  res.FontSize,
			Metrics:   cfg.Text,
		}, cfg.Treemap)
		out.Treemap = &g
	default:
		out.Cartesian = buildCartesian(cartesianBuilder{
			spec:    spec,
			cfg:     cfg,
			ms:      ms,
			res:     res,
			fs:      res.FontSize,
			size:    size,
			palette: out.Palette,
		})
	}
	return out
}

// emptyGeometry sets the kind's geometry to its empty value.
func (l *ComputedLayout) emptyGeometry() {
	switch l.Kind.Family() {
	case chart.FamilyRadial:
		l.Radial = &radial.Geometry{}
	case chart.FamilyArea:
		l.Treemap = &treemap.Geometry{}
	default:
		l.Cartesian = &Cartesian{Orientation: Vertical}
		if l.Kind.Horizontal() {
			l.Cartesian.Orientation = Horizontal
		}
	}
}

// paletteSize is the number of distinct fills the kind uses: one per
// point for radial, treemap and bubble charts, one per series otherwise.
func paletteSize(spec chart.Spec) int {
	if spec.Kind.Family() != chart.FamilyCartesian || spec.Kind == chart.KindBubble {
		return spec.Data.Count()
	}
	return max(1, len(spec.Data.Series))
}

func validSize(s geom.Size) bool {
	for _, v := range []float64{s.W, s.H} {
		if !(v > 0) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
