// Package treemap packs an ordered value list into area-proportional
// rectangles and decides where each rectangle's label goes.
//
// A label is drawn inside its rectangle when the rectangle is large enough
// and the wrapped text fits. Otherwise a gutter is reserved on the right,
// the map is repacked into the remaining width, and the label moves into
// the gutter with a spider leg pointing back at its rectangle.
package treemap

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/matzehuels/chartlayout/pkg/chart"
	"github.com/matzehuels/chartlayout/pkg/layout/collide"
	"github.com/matzehuels/chartlayout/pkg/layout/geom"
	"github.com/matzehuels/chartlayout/pkg/layout/place"
	"github.com/matzehuels/chartlayout/pkg/layout/text"
)

// Input describes one treemap.
type Input struct {
	Labels  []string
	Values  []float64
	Palette []string

	// Hero is the emphasised rectangle index, if any.
	Hero      *int
	HeroScale float64

	Format   chart.NumberFormat
	Bounds   geom.Rect
	FontSize float64
	Metrics  text.Metrics
}

// Rect is one packed rectangle with its label decision.
type Rect struct {
	geom.Rect
	Index     int              `json:"index"`
	Value     float64          `json:"value"`
	Percent   float64          `json:"percent"`
	IsHero    bool             `json:"isHero,omitempty"`
	Fill      string           `json:"fill,omitempty"`
	Label     place.Label      `json:"placement"`
	SpiderLeg *place.SpiderLeg `json:"spiderLeg,omitempty"`
}

// Strategy returns the label strategy of r.
func (r Rect) Strategy() place.Strategy { return r.Label.Strategy }

// Geometry is the complete treemap layout.
type Geometry struct {
	// Map is the area the rectangles tile; it is narrower than the bounds
	// when a gutter is reserved.
	Map    geom.Rect  `json:"map"`
	Gutter *geom.Rect `json:"gutter,omitempty"`
	Total  float64    `json:"total"`
	Rects  []Rect     `json:"rects"`
}

// Layout packs in and places its labels.
func Layout(in Input, cfg Config) Geometry {
	cfg = cfg.withDefaults()
	if in.FontSize <= 0 {
		in.FontSize = chart.DefaultBaseFontSize
	}
	if in.HeroScale <= 0 {
		in.HeroScale = cfg.HeroScale
	}
	in.HeroScale = min(max(in.HeroScale, minHeroScale), maxHeroScale)

	n := max(len(in.Labels), len(in.Values))
	values := make([]float64, n)
	for i := range values {
		if i < len(in.Values) && in.Values[i] > 0 && !math.IsInf(in.Values[i], 0) {
			values[i] = in.Values[i]
		}
	}
	p := &packer{in: in, cfg: cfg, values: values, total: floats.Sum(values)}

	g := Geometry{Map: in.Bounds, Total: p.total}
	g.Rects = p.place(in.Bounds)
	if hasExternal(g.Rects) && !in.Bounds.Empty() {
		gw := in.Bounds.Width * cfg.GutterShare
		g.Map = geom.Rect{X: in.Bounds.X, Y: in.Bounds.Y, Width: in.Bounds.Width - gw, Height: in.Bounds.Height}
		g.Gutter = &geom.Rect{X: g.Map.Right(), Y: in.Bounds.Y, Width: gw, Height: in.Bounds.Height}
		g.Rects = p.place(g.Map)
		p.gutter(g.Rects, *g.Gutter)
	}
	p.resolveCollisions(g.Rects)
	return g
}

type packer struct {
	in     Input
	cfg    Config
	values []float64
	total  float64
}

// place packs into area and makes the internal/hidden decisions. Labels
// that do not fit are marked external without a position yet.
func (p *packer) place(area geom.Rect) []Rect {
	rects := Pack(p.values, area)
	out := make([]Rect, len(rects))
	for i, r := range rects {
		out[i] = Rect{
			Rect:   r,
			Index:  i,
			Value:  p.values[i],
			IsHero: p.in.Hero != nil && *p.in.Hero == i,
			Fill:   p.fill(i),
		}
		if p.total > 0 {
			out[i].Percent = p.values[i] / p.total * 100
		}
		out[i].Label = p.label(out[i])
	}
	return out
}

func (p *packer) fill(i int) string {
	if len(p.in.Palette) == 0 {
		return ""
	}
	return p.in.Palette[i%len(p.in.Palette)]
}

func (p *packer) name(i int) string {
	if i < len(p.in.Labels) {
		return p.in.Labels[i]
	}
	return ""
}

// label decides between internal, external and hidden for r.
func (p *packer) label(r Rect) place.Label {
	fs := p.in.FontSize
	l := place.Label{
		FormattedValue: text.FormatValue(r.Value, p.in.Format),
		FontSize:       fs,
		TextColor:      text.DarkText,
	}
	if r.Value <= 0 || r.Empty() {
		l.Strategy = place.Hidden
		l.Lines = p.wrap(p.name(r.Index), p.cfg.ExternalWrapChars)
		return l
	}

	if r.IsHero {
		for m := p.in.HeroScale; m >= 1; m -= heroScaleStep {
			if fit, ok := p.fitInside(r, fs*m); ok {
				return fit
			}
		}
	} else if r.Width >= p.cfg.MinWidth && r.Height >= p.cfg.MinHeight {
		if fit, ok := p.fitInside(r, fs); ok {
			return fit
		}
	}

	l.Strategy = place.External
	return l
}

// fitInside returns an internal label at font size f when the wrapped
// text and value fit inside r with padding.
func (p *packer) fitInside(r Rect, f float64) (place.Label, bool) {
	m := p.in.Metrics
	pad := p.cfg.Padding * p.in.FontSize
	w, h := r.Width-2*pad, r.Height-2*pad
	if w <= 0 || h <= 0 {
		return place.Label{}, false
	}

	name := p.name(r.Index)
	l := place.Label{
		Lines:          p.wrap(name, m.MaxChars(w, f)),
		FormattedValue: text.FormatValue(r.Value, p.in.Format),
		FontSize:       f,
		TextAnchor:     place.Start,
		Strategy:       place.Internal,
		TextColor:      text.Contrast(r.Fill),
	}
	sz := m.Measure(l.Block(), f)
	if text.Truncated(name, l.Lines) || sz.W > w || sz.H > h {
		return place.Label{}, false
	}
	l.X = r.X + pad
	l.Y = r.Y + pad + sz.H/2
	return l, true
}

func (p *packer) wrap(s string, maxChars int) []string {
	if s == "" {
		return nil
	}
	return text.Wrap(s, maxChars, text.DefaultMaxLines)
}

// labelGap separates a spider leg end from its text, in font sizes.
const labelGap = 0.3

// gutter positions external labels in the gutter, level with their
// rectangles where possible.
func (p *packer) gutter(rects []Rect, gutter geom.Rect) {
	fs := p.in.FontSize
	m := p.in.Metrics
	run := p.cfg.LegRun * fs
	x := gutter.X + run + labelGap*fs
	chars := min(p.cfg.ExternalWrapChars, m.MaxChars(gutter.Right()-x, fs))

	var ext []*place.Label
	for i := range rects {
		r := &rects[i]
		if r.Label.Strategy != place.External {
			continue
		}
		r.Label.Lines = p.wrap(p.name(r.Index), chars)
		r.Label.X = x
		r.Label.Y = r.Center().Y
		r.Label.TextAnchor = place.Start
		ext = append(ext, &r.Label)
	}
	place.Spread(ext, gutter.Y, gutter.Bottom(), m)

	for i := range rects {
		r := &rects[i]
		if r.Label.Strategy != place.External {
			continue
		}
		cy := r.Center().Y
		r.SpiderLeg = &place.SpiderLeg{Points: []geom.Point{
			{X: r.Right(), Y: cy},
			{X: gutter.X, Y: cy},
			{X: gutter.X + run, Y: r.Label.Y},
		}}
	}
}

// resolveCollisions hides the lower-valued of any overlapping labels and
// any external label left without a gutter. The hero always wins.
func (p *packer) resolveCollisions(rects []Rect) {
	var cands []collide.Label
	var owner []int
	for i := range rects {
		l := &rects[i].Label
		if l.Strategy == place.External && rects[i].SpiderLeg == nil {
			l.Hide()
			continue
		}
		if !l.Visible() {
			continue
		}
		prio := rects[i].Value
		if rects[i].IsHero {
			prio = math.Inf(1)
		}
		cands = append(cands, collide.Label{Box: l.Box(p.in.Metrics), Priority: prio})
		owner = append(owner, i)
	}
	for k, c := range collide.Resolve(cands, geom.Size{}) {
		if !c.Visible {
			rects[owner[k]].Label.Hide()
			rects[owner[k]].SpiderLeg = nil
		}
	}
}

func hasExternal(rects []Rect) bool {
	for _, r := range rects {
		if r.Label.Strategy == place.External {
			return true
		}
	}
	return false
}
