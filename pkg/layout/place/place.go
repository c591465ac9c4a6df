// Package place defines the label placement vocabulary shared by the radial,
// treemap and cartesian resolvers.
package place

import (
	"cmp"
	"slices"

	"github.com/matzehuels/chartlayout/pkg/layout/geom"
	"github.com/matzehuels/chartlayout/pkg/layout/text"
)

// Strategy says where a label is drawn relative to its shape.
type Strategy string

const (
	Internal Strategy = "internal"
	External Strategy = "external"
	Hidden   Strategy = "hidden"
)

// Anchor is the SVG text-anchor of a label.
type Anchor string

const (
	Start  Anchor = "start"
	Middle Anchor = "middle"
	End    Anchor = "end"
)

// SpiderLeg is a leader line from a shape's edge to an external label.
type SpiderLeg struct {
	Points []geom.Point `json:"points"`
}

// Label is a final label decision. X is the anchor position according to
// TextAnchor; Y is the vertical centre of the text block.
type Label struct {
	X              float64  `json:"x"`
	Y              float64  `json:"y"`
	TextAnchor     Anchor   `json:"textAnchor"`
	Strategy       Strategy `json:"strategy"`
	Lines          []string `json:"lines,omitempty"`
	FormattedValue string   `json:"formattedValue,omitempty"`
	FontSize       float64  `json:"fontSize"`
	TextColor      string   `json:"textColor,omitempty"`
}

// Visible reports whether the label is drawn at all.
func (l Label) Visible() bool { return l.Strategy != Hidden }

// Block returns the text lines followed by the formatted value, which is how
// every resolver stacks a label.
func (l Label) Block() []string {
	if l.FormattedValue == "" {
		return l.Lines
	}
	out := make([]string, 0, len(l.Lines)+1)
	out = append(out, l.Lines...)
	return append(out, l.FormattedValue)
}

// Box returns the estimated bounding box of the label.
func (l Label) Box(m text.Metrics) geom.Rect {
	sz := m.Measure(l.Block(), l.FontSize)
	r := geom.Rect{Y: l.Y - sz.H/2, Width: sz.W, Height: sz.H}
	switch l.TextAnchor {
	case End:
		r.X = l.X - sz.W
	case Middle:
		r.X = l.X - sz.W/2
	default:
		r.X = l.X
	}
	return r
}

// Hide turns l into a hidden label, keeping its text for inspection.
func (l *Label) Hide() {
	l.Strategy = Hidden
}

// Spread moves labels apart vertically, in place, so that consecutive
// labels do not overlap, and keeps them between top and bottom where
// there is room. Labels keep their relative order by Y.
func Spread(labels []*Label, top, bottom float64, m text.Metrics) {
	if len(labels) < 2 {
		return
	}
	slices.SortStableFunc(labels, func(a, b *Label) int { return cmp.Compare(a.Y, b.Y) })

	half := func(l *Label) float64 { return l.Box(m).Height / 2 }
	for k := 1; k < len(labels); k++ {
		prev, cur := labels[k-1], labels[k]
		if limit := prev.Y + half(prev); cur.Y-half(cur) < limit {
			cur.Y = limit + half(cur)
		}
	}
	for k := len(labels) - 1; k >= 0; k-- {
		cur := labels[k]
		limit := bottom
		if k < len(labels)-1 {
			next := labels[k+1]
			limit = next.Y - half(next)
		}
		if cur.Y+half(cur) > limit {
			cur.Y = limit - half(cur)
		}
	}
	if first := labels[0]; first.Y-half(first) < top {
		first.Y = top + half(first)
	}
}
