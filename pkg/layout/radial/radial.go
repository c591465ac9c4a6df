// Package radial computes slice geometry and label placement for pie and
// donut charts.
//
// Slices partition the full turn in series order, starting at 12 o'clock
// and growing clockwise. Each slice's label is drawn inside the slice when
// the slice is wide enough and the wrapped text fits; otherwise it is drawn
// outside with a spider leg. A final collision pass hides whatever external
// labels still overlap after they have been spread vertically.
package radial

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/matzehuels/chartlayout/pkg/chart"
	"github.com/matzehuels/chartlayout/pkg/layout/collide"
	"github.com/matzehuels/chartlayout/pkg/layout/geom"
	"github.com/matzehuels/chartlayout/pkg/layout/place"
	"github.com/matzehuels/chartlayout/pkg/layout/text"
)

// Input describes one pie or donut.
type Input struct {
	Labels  []string
	Values  []float64
	Palette []string

	Donut bool
	// Thickness is the ring thickness as a share of the outer radius.
	Thickness float64
	// InnerRadii overrides the inner radius per slice as a share of the
	// outer radius. Missing or non-positive entries use Thickness.
	InnerRadii []float64

	// Hero is the emphasised slice index, if any.
	Hero      *int
	HeroScale float64
	ShowTotal bool

	Format   chart.NumberFormat
	Plot     geom.Rect
	FontSize float64
	Metrics  text.Metrics
}

// SliceGeometry is the angular extent of one slice. Angles are radians,
// zero at 12 o'clock, growing clockwise.
type SliceGeometry struct {
	StartAngle    float64 `json:"startAngle"`
	EndAngle      float64 `json:"endAngle"`
	InnerRadius   float64 `json:"innerRadius"`
	OuterRadius   float64 `json:"outerRadius"`
	Value         float64 `json:"value"`
	OriginalIndex int     `json:"originalIndex"`
}

// Span returns EndAngle-StartAngle.
func (s SliceGeometry) Span() float64 { return s.EndAngle - s.StartAngle }

// Mid returns the bisecting angle.
func (s SliceGeometry) Mid() float64 { return (s.StartAngle + s.EndAngle) / 2 }

// Slice is a slice together with its label decision.
type Slice struct {
	SliceGeometry
	Fill      string           `json:"fill,omitempty"`
	Percent   float64          `json:"percent"`
	IsHero    bool             `json:"isHero,omitempty"`
	Label     place.Label      `json:"label"`
	SpiderLeg *place.SpiderLeg `json:"spiderLeg,omitempty"`
}

// HeroReadout is the text drawn in the hole of a donut.
type HeroReadout struct {
	Center          geom.Point `json:"center"`
	Value           string     `json:"value"`
	FontSize        float64    `json:"fontSize"`
	Caption         []string   `json:"caption,omitempty"`
	CaptionFontSize float64    `json:"captionFontSize"`
	TextColor       string     `json:"textColor"`
}

// Geometry is the complete radial layout.
type Geometry struct {
	Center      geom.Point   `json:"center"`
	OuterRadius float64      `json:"outerRadius"`
	Total       float64      `json:"total"`
	Slices      []Slice      `json:"slices"`
	Hero        *HeroReadout `json:"hero,omitempty"`
}

// Resolve lays out in.
func Resolve(in Input, cfg Config) Geometry {
	cfg = cfg.withDefaults()
	if in.FontSize <= 0 {
		in.FontSize = chart.DefaultBaseFontSize
	}
	if in.Thickness <= 0 || in.Thickness > 1 {
		in.Thickness = cfg.Thickness
	}
	if in.HeroScale <= 0 {
		in.HeroScale = cfg.HeroScale
	}
	in.HeroScale = min(max(in.HeroScale, minHeroScale), maxHeroScale)

	values := sliceValues(in)
	total := floats.Sum(values)
	g := Geometry{Center: in.Plot.Center(), Total: total}
	if len(values) == 0 {
		return g
	}

	half := math.Min(in.Plot.Width, in.Plot.Height) / 2
	r := &resolver{in: in, cfg: cfg, values: values, total: total, center: g.Center}

	radius := math.Max(0, half*cfg.Fill)
	out := r.slices(radius)
	if hasExternal(out) {
		radius = r.externalRadius(half)
		out = r.slices(radius)
	}
	spread(out, in.Plot, in.Metrics)
	r.resolveCollisions(out)

	g.OuterRadius = radius
	g.Slices = out
	g.Hero = r.hero(out)
	return g
}

type resolver struct {
	in     Input
	cfg    Config
	values []float64
	total  float64
	center geom.Point
}

// sliceValues returns one non-negative value per slice.
func sliceValues(in Input) []float64 {
	n := max(len(in.Labels), len(in.Values))
	out := make([]float64, n)
	for i := range out {
		if i < len(in.Values) && in.Values[i] > 0 && !math.IsInf(in.Values[i], 0) {
			out[i] = in.Values[i]
		}
	}
	return out
}

// Partition returns the angular extent of each value. Slices follow input
// order and the last non-empty slice ends exactly at 2π. An all-zero input
// yields zero-width slices at angle zero.
func Partition(values []float64) []SliceGeometry {
	out := make([]SliceGeometry, len(values))
	total := 0.0
	for _, v := range values {
		if v > 0 {
			total += v
		}
	}

	// Angles come from running sums, which end exactly at total, so the
	// last non-empty slice closes the circle without drift.
	cum, a := 0.0, 0.0
	for i, v := range values {
		s := SliceGeometry{StartAngle: a, EndAngle: a, Value: v, OriginalIndex: i}
		if v > 0 {
			cum += v
			s.EndAngle = cum / total * 2 * math.Pi
		}
		a = s.EndAngle
		out[i] = s
	}
	return out
}

func (r *resolver) slices(radius float64) []Slice {
	geoms := Partition(r.values)
	out := make([]Slice, len(geoms))
	for i, sg := range geoms {
		sg.OuterRadius = radius
		sg.InnerRadius = r.innerRadius(i, radius)
		sg.Value = r.values[i]

		s := Slice{
			SliceGeometry: sg,
			Fill:          r.fill(i),
			IsHero:        r.in.Hero != nil && *r.in.Hero == i,
		}
		if r.total > 0 {
			s.Percent = sg.Value / r.total * 100
		}
		s.Label, s.SpiderLeg = r.place(s)
		out[i] = s
	}
	return out
}

func (r *resolver) fill(i int) string {
	if len(r.in.Palette) == 0 {
		return ""
	}
	return r.in.Palette[i%len(r.in.Palette)]
}

func (r *resolver) innerRadius(i int, radius float64) float64 {
	if !r.in.Donut {
		return 0
	}
	share := 1 - r.in.Thickness
	if i < len(r.in.InnerRadii) && r.in.InnerRadii[i] > 0 {
		share = r.in.InnerRadii[i]
	}
	return min(share, maxInner) * radius
}

func (r *resolver) label(i int) string {
	if i < len(r.in.Labels) {
		return r.in.Labels[i]
	}
	return ""
}

// place picks the strategy for one slice.
func (r *resolver) place(s Slice) (place.Label, *place.SpiderLeg) {
	fs := r.in.FontSize
	m := r.in.Metrics
	name := r.label(s.OriginalIndex)

	l := place.Label{
		FormattedValue: text.FormatValue(s.Value, r.in.Format),
		FontSize:       fs,
		TextColor:      text.DarkText,
	}
	if s.Value <= 0 || r.total <= 0 || s.Value/r.total < r.cfg.HiddenShare || s.OuterRadius <= 0 {
		l.Strategy = place.Hidden
		l.Lines = wrapLines(name, r.cfg.ExternalWrapChars)
		return l, nil
	}

	mid := s.Mid()
	if span := s.Span(); span >= r.cfg.MinArc {
		rl := s.OuterRadius * r.cfg.LabelRadius
		if s.InnerRadius > 0 {
			rl = (s.InnerRadius + s.OuterRadius) / 2
		}
		chord := 2 * rl * math.Sin(math.Min(span, math.Pi)/2) * r.cfg.InternalFill
		room := 2 * math.Min(s.OuterRadius-rl, rl-s.InnerRadius)

		lines := wrapLines(name, m.MaxChars(chord, fs))
		l.Lines = lines
		sz := m.Measure(l.Block(), fs)
		if !text.Truncated(name, lines) && sz.W <= chord && sz.H <= room {
			p := geom.Polar(r.center, rl, mid)
			l.X, l.Y = p.X, p.Y
			l.TextAnchor = place.Middle
			l.Strategy = place.Internal
			l.TextColor = text.Contrast(s.Fill)
			return l, nil
		}
	}

	edge := geom.Polar(r.center, s.OuterRadius, mid)
	elbow := geom.Polar(r.center, s.OuterRadius+r.cfg.LegOffset*fs, mid)
	dir, anchor := 1.0, place.Start
	if math.Sin(mid) < 0 {
		dir, anchor = -1, place.End
	}
	end := geom.Point{X: elbow.X + dir*r.cfg.LegRun*fs, Y: elbow.Y}

	l.Lines = wrapLines(name, r.cfg.ExternalWrapChars)
	l.X = end.X + dir*labelGap*fs
	l.Y = end.Y
	l.TextAnchor = anchor
	l.Strategy = place.External
	return l, &place.SpiderLeg{Points: []geom.Point{edge, elbow, end}}
}

// labelGap separates a spider leg end from its text, in font sizes.
const labelGap = 0.3

func wrapLines(s string, maxChars int) []string {
	if s == "" {
		return nil
	}
	return text.Wrap(s, maxChars, text.DefaultMaxLines)
}

// externalRadius shrinks the circle so external labels fit beside it.
func (r *resolver) externalRadius(half float64) float64 {
	fs := r.in.FontSize
	m := r.in.Metrics
	textW := float64(r.cfg.ExternalWrapChars) * m.CharWidth(fs)
	rx := r.in.Plot.Width/2 - (r.cfg.LegOffset+r.cfg.LegRun+labelGap)*fs - textW
	ry := r.in.Plot.Height/2 - r.cfg.LegOffset*fs - m.LinePitch(fs)
	radius := math.Min(half*r.cfg.Fill, math.Min(rx, ry))
	return math.Max(radius, half*minRadiusShare)
}

// minRadiusShare keeps the circle legible however long the labels are.
const minRadiusShare = 0.4

func hasExternal(s []Slice) bool {
	return slices.ContainsFunc(s, func(s Slice) bool { return s.Label.Strategy == place.External })
}

// spread pushes external labels on each side apart vertically. Spider leg
// ends follow their labels.
func spread(s []Slice, bounds geom.Rect, m text.Metrics) {
	for _, anchor := range []place.Anchor{place.Start, place.End} {
		var side []*place.Label
		for i := range s {
			if s[i].Label.Strategy == place.External && s[i].Label.TextAnchor == anchor {
				side = append(side, &s[i].Label)
			}
		}
		place.Spread(side, bounds.Y, bounds.Bottom(), m)
	}
	for i := range s {
		if leg := s[i].SpiderLeg; leg != nil {
			leg.Points[len(leg.Points)-1].Y = s[i].Label.Y
		}
	}
}

// resolveCollisions hides the lower-valued of any overlapping labels. The
// hero always wins.
func (r *resolver) resolveCollisions(s []Slice) {
	cands := make([]collide.Label, 0, len(s))
	owner := make([]int, 0, len(s))
	for i := range s {
		if !s[i].Label.Visible() {
			continue
		}
		prio := s[i].Value
		if s[i].IsHero {
			prio = math.Inf(1)
		}
		cands = append(cands, collide.Label{Box: s[i].Label.Box(r.in.Metrics), Priority: prio})
		owner = append(owner, i)
	}
	for k, c := range collide.Resolve(cands, geom.Size{}) {
		if !c.Visible {
			i := owner[k]
			s[i].Label.Hide()
			s[i].SpiderLeg = nil
		}
	}
}

// heroFill is the share of the hole diameter the readout may use.
const heroFill = 0.8

// hero builds the donut centre readout. A valid hero index shows that
// slice; otherwise ShowTotal shows the series total.
func (r *resolver) hero(s []Slice) *HeroReadout {
	if !r.in.Donut || len(s) == 0 {
		return nil
	}
	var value float64
	var caption string
	switch {
	case r.in.Hero != nil && *r.in.Hero >= 0 && *r.in.Hero < len(s):
		value, caption = s[*r.in.Hero].Value, r.label(*r.in.Hero)
	case r.in.ShowTotal:
		value, caption = r.total, "Total"
	default:
		return nil
	}

	hole := math.Inf(1)
	for _, sl := range s {
		hole = math.Min(hole, sl.InnerRadius)
	}
	if hole <= 0 {
		return nil
	}

	m := r.in.Metrics
	fs := r.in.FontSize
	width := 2 * hole * heroFill
	formatted := text.FormatValue(value, r.in.Format)

	var lines []string
	if caption != "" {
		lines = text.Wrap(caption, m.MaxChars(width, fs), 2)
	}
	captionH := m.Measure(lines, fs).H

	hf := fs * r.in.HeroScale
	if w := m.MeasureString(formatted, hf).W; w > width {
		hf *= width / w
	}
	if h := m.LinePitch(hf) + captionH; h > width {
		hf = math.Max(0, (width-captionH)/m.LinePitch(1))
	}

	return &HeroReadout{
		Center:          r.center,
		Value:           formatted,
		FontSize:        hf,
		Caption:         lines,
		CaptionFontSize: fs,
		TextColor:       text.DarkText,
	}
}
