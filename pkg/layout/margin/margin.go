// Package margin derives the outer margins, the plot and legend zones, and
// the single content scale factor for a chart.
//
// One algorithm serves every chart kind. Kinds only differ in their
// [Profile]: the natural height of their graph body and on which axis (if
// any) their category labels sit. Radial and treemap charts have no
// natural height of their own; their body takes whatever height the
// clearances leave.
//
// # Modes
//
// Classic mode uses fixed paddings plus room for axis labels and titles.
// It never enlarges content: the scale factor is 1 unless the natural
// content is taller than the available height, and leftover vertical space
// is split evenly above and below the content.
//
// Infographic mode computes a natural height
//
//	topClearance + graphBody + bottomLabelClearance
//
// and always scales it to exactly fill the available height.
//
// Every derived offset (clearances, font size, stagger offset) is multiplied
// by the same scale factor, so shrinking never distorts proportions.
package margin

import (
	"math"

	"github.com/matzehuels/chartlayout/pkg/chart"
	"github.com/matzehuels/chartlayout/pkg/layout/geom"
	"github.com/matzehuels/chartlayout/pkg/layout/text"
)

// Axis says where category labels are drawn.
type Axis int

const (
	AxisNone   Axis = iota // radial and treemap charts
	AxisBottom             // column, line, area, histogram, mixed, scatter
	AxisLeft               // horizontal bar
)

// Profile is what a chart kind contributes to the margin rules.
type Profile struct {
	Axis Axis
	// Body is the natural height of the plotted shapes. Ignored when Fill
	// is set.
	Body float64
	// Fill sizes the body to the available height minus the clearances.
	Fill bool
}

// FillProfile is the profile of charts without category axes.
var FillProfile = Profile{Axis: AxisNone, Fill: true}

// Input describes the content whose margins are computed.
type Input struct {
	Mode   chart.Mode
	Legend chart.LegendPosition
	// LegendEntries are the legend texts; ignored when Legend is none.
	LegendEntries []string

	HasXTitle bool
	HasYTitle bool

	FontSize float64
	Metrics  text.Metrics

	Profile    Profile
	Categories int
	// LabelLines is the wrapped line count of the tallest category label.
	LabelLines int
	// CategoryLabelWidth is the widest wrapped category label (AxisLeft).
	CategoryLabelWidth float64
	// ValueLabelWidth is the widest value-axis tick label.
	ValueLabelWidth float64

	Container geom.Size
}

// Result is the outcome of Compute.
type Result struct {
	Margins geom.Margins
	Plot    geom.Rect
	Legend  *geom.Rect

	// Scale multiplies every natural pixel quantity.
	Scale float64
	// FontSize is the scaled label font size.
	FontSize float64

	// Natural is the unscaled size the content asks for; Available is what
	// the container leaves after the legend.
	Natural   geom.Size
	Available geom.Size

	Stagger bool
	// StaggerOffset is the extra vertical offset of odd category labels.
	StaggerOffset float64
	// LabelGap is the scaled distance between an axis and its labels.
	LabelGap float64
}

// natural holds the unscaled clearances before mode-specific rules apply.
type natural struct {
	top, right, bottom, left float64
	body                     float64
	stagger                  bool
	staggerOffset            float64
	gap                      float64
}

// Compute derives margins and zones for in.
func Compute(in Input, cfg Config) Result {
	cfg = cfg.withDefaults()
	fs := in.FontSize
	if fs <= 0 {
		fs = chart.DefaultBaseFontSize
	}

	c := in.Container
	if c.Empty() {
		return Result{Scale: 1, FontSize: fs}
	}

	legendRect, band := legendBand(in, c, fs, cfg)
	avail := c
	switch in.Legend {
	case chart.LegendTop, chart.LegendBottom:
		avail.H -= band
	case chart.LegendLeft, chart.LegendRight:
		avail.W -= band
	}

	n := measure(in, fs, avail.W, cfg)
	if in.Profile.Fill {
		n.body = math.Max(0, avail.H-n.top-n.bottom)
	}
	naturalH := n.top + n.body + n.bottom

	var (
		scale float64
		m     geom.Margins
	)
	switch in.Mode {
	case chart.ModeInfographic:
		scale = 1
		if naturalH > 0 {
			scale = avail.H / naturalH
		}
		m = geom.Margins{Top: n.top, Right: n.right, Bottom: n.bottom, Left: n.left}.Scale(scale)
	default:
		scale = 1
		if naturalH > 0 && naturalH > avail.H {
			scale = avail.H / naturalH
		}
		m = geom.Margins{Top: n.top, Right: n.right, Bottom: n.bottom, Left: n.left}.Scale(scale)
		if extra := avail.H - naturalH*scale; extra > 0 && n.body > 0 {
			m.Top += extra / 2
			m.Bottom += extra / 2
		}
	}

	switch in.Legend {
	case chart.LegendTop:
		m.Top += band
	case chart.LegendBottom:
		m.Bottom += band
	case chart.LegendLeft:
		m.Left += band
	case chart.LegendRight:
		m.Right += band
	}
	m, fx, fy := clamp(m, c, cfg.MaxMarginShare)
	if legendRect != nil {
		shrinkLegend(legendRect, in.Legend, c, fx, fy)
	}

	naturalW := n.left + n.right + float64(max(in.Categories, 1))*fs*cfg.MinBandFactor
	if in.Profile.Axis != AxisBottom {
		naturalW = n.left + n.right
	}

	return Result{
		Margins:       m,
		Plot:          geom.Rect{Width: c.W, Height: c.H}.Inset(m),
		Legend:        legendRect,
		Scale:         scale,
		FontSize:      fs * scale,
		Natural:       geom.Size{W: naturalW, H: naturalH},
		Available:     avail,
		Stagger:       n.stagger,
		StaggerOffset: n.staggerOffset * scale,
		LabelGap:      n.gap * scale,
	}
}

// measure computes the natural clearances around the graph body.
func measure(in Input, fs, availW float64, cfg Config) natural {
	pitch := in.Metrics.LinePitch(fs)
	lines := float64(max(1, in.LabelLines))
	gap := cfg.LabelGap * fs
	title := cfg.AxisTitleAllowance * fs

	n := natural{body: math.Max(0, in.Profile.Body), gap: gap}

	switch in.Mode {
	case chart.ModeInfographic:
		n.top = cfg.TopClearance * fs
		n.right = cfg.Padding
		n.left = cfg.Padding
	default:
		n.top = cfg.Padding
		n.right = cfg.Padding
		n.left = cfg.Padding
	}
	n.bottom = cfg.Padding

	switch in.Profile.Axis {
	case AxisBottom:
		n.left += in.ValueLabelWidth + gap
		plotW := math.Max(0, availW-n.left-n.right)
		if in.Categories > 1 {
			bandW := plotW / float64(in.Categories)
			n.stagger = bandW < staggerThreshold(fs, cfg)
		}
		block := lines * pitch
		n.bottom += gap + block
		if n.stagger {
			n.staggerOffset = block
			n.bottom += block
		}
	case AxisLeft:
		n.left += in.CategoryLabelWidth + gap
		n.bottom += gap + pitch
		// Keep the last value tick label from running off the right edge.
		n.right += in.ValueLabelWidth / 2
	}

	if in.HasXTitle && in.Profile.Axis != AxisNone {
		n.bottom += title
	}
	if in.HasYTitle && in.Profile.Axis != AxisNone {
		n.left += title
	}
	return n
}

// StaggerThreshold returns the category width below which labels alternate
// vertically.
func StaggerThreshold(fs float64, cfg Config) float64 {
	return staggerThreshold(fs, cfg.withDefaults())
}

func staggerThreshold(fs float64, cfg Config) float64 {
	if cfg.StaggerMinWidth > 0 {
		return cfg.StaggerMinWidth
	}
	return fs * cfg.StaggerFactor
}

// clamp keeps margins non-negative and leaves at least (1-share) of each
// container dimension for the plot. It returns the horizontal and vertical
// shrink factors it applied.
func clamp(m geom.Margins, c geom.Size, share float64) (geom.Margins, float64, float64) {
	m.Top, m.Right = math.Max(0, m.Top), math.Max(0, m.Right)
	m.Bottom, m.Left = math.Max(0, m.Bottom), math.Max(0, m.Left)

	fx, fy := 1.0, 1.0
	if limit := c.W * share; m.Horizontal() > limit {
		fx = limit / m.Horizontal()
		m.Left *= fx
		m.Right *= fx
	}
	if limit := c.H * share; m.Vertical() > limit {
		fy = limit / m.Vertical()
		m.Top *= fy
		m.Bottom *= fy
	}
	return m, fx, fy
}

// shrinkLegend scales the legend band with its margin so the band stays
// inside the margin after clamping.
func shrinkLegend(r *geom.Rect, pos chart.LegendPosition, c geom.Size, fx, fy float64) {
	switch pos {
	case chart.LegendLeft:
		r.Width *= fx
	case chart.LegendRight:
		r.Width *= fx
		r.X = c.W - r.Width
	case chart.LegendTop:
		r.Height *= fy
	case chart.LegendBottom:
		r.Height *= fy
		r.Y = c.H - r.Height
	}
}
