package layout

import (
	"math"

	"gonum.org/v1/plot"

	"github.com/matzehuels/chartlayout/pkg/chart"
	"github.com/matzehuels/chartlayout/pkg/layout/collide"
	"github.com/matzehuels/chartlayout/pkg/layout/geom"
	"github.com/matzehuels/chartlayout/pkg/layout/margin"
	"github.com/matzehuels/chartlayout/pkg/layout/place"
	"github.com/matzehuels/chartlayout/pkg/layout/text"
)

// =============================================================================
// Types
// =============================================================================

// Orientation says which way category bands run.
type Orientation string

const (
	Vertical   Orientation = "vertical"   // categories along the bottom axis
	Horizontal Orientation = "horizontal" // categories along the left axis
)

// Cartesian is the geometry of bar, column, line, area, histogram, mixed,
// scatter and bubble charts.
type Cartesian struct {
	Orientation Orientation  `json:"orientation"`
	Categories  []Category   `json:"categories,omitempty"`
	ValueAxis   Axis         `json:"valueAxis"`
	XAxis       *Axis        `json:"xAxis,omitempty"`
	Bars        []Bar        `json:"bars,omitempty"`
	Lines       []Line       `json:"lines,omitempty"`
	Points      []Point      `json:"points,omitempty"`
	Labels      []ValueLabel `json:"labels,omitempty"`
	Titles      []Title      `json:"titles,omitempty"`
	Stagger     bool         `json:"stagger,omitempty"`
}

// Axis maps data values onto one pixel axis. Start is the pixel position
// of Min and End that of Max; a vertical axis has Start below End.
type Axis struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Ticks []Tick  `json:"ticks"`
}

// Position returns the pixel position of v.
func (a Axis) Position(v float64) float64 {
	if a.Max == a.Min {
		return a.Start
	}
	return a.Start + (v-a.Min)/(a.Max-a.Min)*(a.End-a.Start)
}

// Baseline returns the position of zero, clamped to the axis.
func (a Axis) Baseline() float64 {
	return a.Position(min(max(0, a.Min), a.Max))
}

// Tick is one labelled axis value.
type Tick struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
	Pos   float64 `json:"pos"`
}

// Category is one category band and its axis label.
type Category struct {
	Index      int          `json:"index"`
	Label      string       `json:"label"`
	Lines      []string     `json:"lines"`
	Band       geom.Rect    `json:"band"`
	Center     geom.Point   `json:"center"`
	Anchor     geom.Point   `json:"anchor"`
	TextAnchor place.Anchor `json:"textAnchor"`
	// Row is 1 for labels pushed down by staggering.
	Row int `json:"row"`
}

// Bar is one bar or stacked bar segment.
type Bar struct {
	Series int       `json:"series"`
	Index  int       `json:"index"`
	Value  float64   `json:"value"`
	Rect   geom.Rect `json:"rect"`
	Fill   string    `json:"fill,omitempty"`
	IsHero bool      `json:"isHero,omitempty"`
}

// Line is one series drawn as a polyline. Area series also carry the lower
// boundary of the filled region, in the same order as Points.
type Line struct {
	Series int          `json:"series"`
	Name   string       `json:"name,omitempty"`
	Color  string       `json:"color,omitempty"`
	Points []geom.Point `json:"points"`
	Area   bool         `json:"area,omitempty"`
	Lower  []geom.Point `json:"lower,omitempty"`
}

// Point is one scatter or bubble marker.
type Point struct {
	Index  int         `json:"index"`
	X      float64     `json:"x"`
	Y      float64     `json:"y"`
	Size   float64     `json:"size,omitempty"`
	Center geom.Point  `json:"center"`
	Radius float64     `json:"radius"`
	Fill   string      `json:"fill,omitempty"`
	IsHero bool        `json:"isHero,omitempty"`
	Label  place.Label `json:"label"`
}

// LabelRole says why a value label exists.
type LabelRole string

const (
	RoleValue LabelRole = "value"
	RoleMax   LabelRole = "max"
	RoleMin   LabelRole = "min"
)

// ValueLabel is a data label attached to a bar or line point.
type ValueLabel struct {
	Series    int         `json:"series"`
	Index     int         `json:"index"`
	Role      LabelRole   `json:"role"`
	Label     place.Label `json:"label"`
	Overflows bool        `json:"overflows,omitempty"`
}

// Title is an axis title. Rotate is in degrees.
type Title struct {
	Text     string  `json:"text"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotate   float64 `json:"rotate,omitempty"`
	FontSize float64 `json:"fontSize"`
}

// =============================================================================
// Measurement
// =============================================================================

// measured holds what the margin calculator needs to know about a
// cartesian chart, all at the unscaled font size.
type measured struct {
	profile    margin.Profile
	categories int
	lines      [][]string
	labelLines int
	catWidth   float64
	valueWidth float64

	value axisDomain
	x     *axisDomain
}

type axisDomain struct {
	min, max float64
	ticks    []float64
	labels   []string
}

// measureCartesian derives the margin inputs of a cartesian chart.
func measureCartesian(spec chart.Spec, fs float64, size geom.Size, cfg Config) measured {
	m := cfg.Text
	n := spec.Data.Count()
	ms := measured{categories: n}

	if spec.Kind.HasPoints() {
		ms.profile = margin.Profile{Axis: margin.AxisBottom, Body: cfg.Cartesian.GraphBody}
		ms.categories = 0
		ms.labelLines = 1
		xs, ys := pointValues(spec.Data, 0), pointValues(spec.Data, 1)
		xlo, xhi := extent(xs)
		ylo, yhi := extent(ys)
		x := niceDomain(xlo, xhi, spec.Style.Format)
		ms.x = &x
		ms.value = niceDomain(ylo, yhi, spec.Style.Format)
		ms.valueWidth = widest(ms.value.labels, fs, m)
		return ms
	}

	lo, hi := valueExtent(spec)
	ms.value = niceDomain(lo, hi, spec.Style.Format)
	ms.lines = make([][]string, n)

	if spec.Kind.Horizontal() {
		ms.profile = margin.Profile{Axis: margin.AxisLeft, Body: float64(max(n, 1)) * fs * cfg.Cartesian.BarBand}
		budget := size.W * cfg.Cartesian.CategoryShare
		for i := range ms.lines {
			ms.lines[i] = wrapLabel(spec.Data.Label(i), m.MaxChars(budget, fs))
			ms.catWidth = math.Max(ms.catWidth, m.Measure(ms.lines[i], fs).W)
			ms.labelLines = max(ms.labelLines, len(ms.lines[i]))
		}
		ms.valueWidth = widest(ms.value.labels, fs, m)
		return ms
	}

	ms.profile = margin.Profile{Axis: margin.AxisBottom, Body: cfg.Cartesian.GraphBody}
	ms.valueWidth = widest(ms.value.labels, fs, m)

	// Estimate the band before margins exist; staggered neighbours may use
	// twice the band.
	mc := cfg.Margin.WithDefaults()
	estW := size.W - 2*mc.Padding - ms.valueWidth - mc.LabelGap*fs
	band := math.Max(0, estW) / float64(max(n, 1))
	budget := band * 0.95
	if n > 1 && band < margin.StaggerThreshold(fs, cfg.Margin) {
		budget *= 2
	}
	for i := range ms.lines {
		ms.lines[i] = wrapLabel(spec.Data.Label(i), m.MaxChars(budget, fs))
		ms.labelLines = max(ms.labelLines, len(ms.lines[i]))
	}
	return ms
}

func wrapLabel(s string, maxChars int) []string {
	if s == "" {
		return nil
	}
	return text.Wrap(s, maxChars, text.DefaultMaxLines)
}

func widest(labels []string, fs float64, m text.Metrics) float64 {
	w := 0.0
	for _, l := range labels {
		w = math.Max(w, m.MeasureString(l, fs).W)
	}
	return w
}

// barSeries and lineSeries name the series drawn as bars and as lines.
func barSeries(spec chart.Spec) []int {
	switch spec.Kind {
	case chart.KindBar, chart.KindColumn:
		return seriesRange(0, len(spec.Data.Series))
	case chart.KindHistogram, chart.KindMixed:
		return seriesRange(0, min(1, len(spec.Data.Series)))
	}
	return nil
}

func lineSeries(spec chart.Spec) []int {
	switch spec.Kind {
	case chart.KindLine, chart.KindArea:
		return seriesRange(0, len(spec.Data.Series))
	case chart.KindMixed:
		return seriesRange(1, len(spec.Data.Series))
	}
	return nil
}

func seriesRange(from, to int) []int {
	var out []int
	for i := from; i < to; i++ {
		out = append(out, i)
	}
	return out
}

func stackedBars(spec chart.Spec) bool {
	return spec.Style.Stacked && (spec.Kind == chart.KindBar || spec.Kind == chart.KindColumn)
}

func stackedLines(spec chart.Spec) bool {
	return spec.Style.Stacked && spec.Kind == chart.KindArea
}

// valueExtent returns the data range of the value axis. Zero is always
// included so bars have a baseline.
func valueExtent(spec chart.Spec) (float64, float64) {
	lo, hi := 0.0, 0.0
	n := spec.Data.Count()
	grow := func(v float64) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return
		}
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	scan := func(series []int, stacked bool) {
		for i := range n {
			pos, neg := 0.0, 0.0
			for _, s := range series {
				v := spec.Data.Value(s, i)
				if !stacked {
					grow(v)
					continue
				}
				if v >= 0 {
					pos += v
				} else {
					neg += v
				}
			}
			if stacked {
				grow(pos)
				grow(neg)
			}
		}
	}
	scan(barSeries(spec), stackedBars(spec))
	scan(lineSeries(spec), stackedLines(spec))
	return lo, hi
}

func pointValues(d chart.Data, s int) []float64 {
	out := make([]float64, d.Count())
	for i := range out {
		out[i] = d.Value(s, i)
	}
	return out
}

// extent returns the finite range of vals, or [0, 1] when there is none.
func extent(vals []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	if math.IsInf(lo, 1) {
		return 0, 1
	}
	return lo, hi
}

// maxTicks bounds the tick count of one axis.
const maxTicks = 50

// niceDomain widens [lo, hi] to whole tick steps. Tick steps come from
// gonum's default tick marker; labels follow the chart's number format.
func niceDomain(lo, hi float64, f chart.NumberFormat) axisDomain {
	if hi-lo <= 0 {
		hi = lo + 1
	}

	var majors []float64
	for _, t := range (plot.DefaultTicks{}).Ticks(lo, hi) {
		if t.Label != "" {
			majors = append(majors, t.Value)
		}
	}
	step := (hi - lo) / 4
	if len(majors) >= 2 {
		step = majors[1] - majors[0]
	}
	if !(step > 0) || math.IsInf(step, 0) {
		step = 1
	}

	d := axisDomain{
		min: math.Floor(lo/step+1e-9) * step,
		max: math.Ceil(hi/step-1e-9) * step,
	}
	count := int(math.Round((d.max-d.min)/step)) + 1
	if count > maxTicks {
		count = 2
		step = d.max - d.min
	}

	tf := f
	if tf.Decimals == nil {
		dec := 0
		if step < 1 {
			dec = int(math.Ceil(-math.Log10(step) - 1e-9))
		}
		tf.Decimals = &dec
	}
	for k := range count {
		v := d.min + float64(k)*step
		if math.Abs(v) < step*1e-9 {
			v = 0
		}
		d.ticks = append(d.ticks, v)
		d.labels = append(d.labels, text.FormatValue(v, tf))
	}
	return d
}

func (d axisDomain) axis(start, end float64) Axis {
	a := Axis{Min: d.min, Max: d.max, Start: start, End: end}
	for i, v := range d.ticks {
		a.Ticks = append(a.Ticks, Tick{Value: v, Label: d.labels[i], Pos: a.Position(v)})
	}
	return a
}

// =============================================================================
// Geometry
// =============================================================================

type cartesianBuilder struct {
	spec    chart.Spec
	cfg     Config
	ms      measured
	res     margin.Result
	fs      float64
	size    geom.Size
	palette []string
	hero    int
	hasHero bool
}

// buildCartesian places every shape and label inside the plot zone.
func buildCartesian(b cartesianBuilder) *Cartesian {
	b.hero, b.hasHero = b.spec.HeroIndex()
	c := &Cartesian{Orientation: Vertical, Stagger: b.res.Stagger}
	plotR := b.res.Plot

	switch {
	case b.spec.Kind.HasPoints():
		x := b.ms.x.axis(plotR.X, plotR.Right())
		c.XAxis = &x
		c.ValueAxis = b.ms.value.axis(plotR.Bottom(), plotR.Y)
		c.Points = b.points(c.ValueAxis, x)
	case b.spec.Kind.Horizontal():
		c.Orientation = Horizontal
		c.ValueAxis = b.ms.value.axis(plotR.X, plotR.Right())
		c.Categories = b.categories(true)
		c.Bars = b.bars(c.Categories, c.ValueAxis, true)
	default:
		c.ValueAxis = b.ms.value.axis(plotR.Bottom(), plotR.Y)
		c.Categories = b.categories(false)
		c.Bars = b.bars(c.Categories, c.ValueAxis, false)
		c.Lines = b.lines(c.Categories, c.ValueAxis)
	}
	c.Labels = b.valueLabels(c)
	c.Titles = b.titles()
	return c
}

func (b cartesianBuilder) pitch() float64 { return b.cfg.Text.LinePitch(b.fs) }

func (b cartesianBuilder) categories(horizontal bool) []Category {
	n := b.ms.categories
	if n == 0 {
		return nil
	}
	p := b.res.Plot
	out := make([]Category, n)
	for i := range out {
		cat := Category{Index: i, Label: b.spec.Data.Label(i), Lines: b.ms.lines[i]}
		blockH := float64(len(cat.Lines)) * b.pitch()
		if horizontal {
			bh := p.Height / float64(n)
			cat.Band = geom.Rect{X: p.X, Y: p.Y + float64(i)*bh, Width: p.Width, Height: bh}
			cat.Center = cat.Band.Center()
			cat.Anchor = geom.Point{X: p.X - b.res.LabelGap, Y: cat.Center.Y}
			cat.TextAnchor = place.End
		} else {
			bw := p.Width / float64(n)
			cat.Band = geom.Rect{X: p.X + float64(i)*bw, Y: p.Y, Width: bw, Height: p.Height}
			cat.Center = cat.Band.Center()
			if b.res.Stagger {
				cat.Row = i % 2
			}
			y := p.Bottom() + b.res.LabelGap + float64(cat.Row)*b.res.StaggerOffset + blockH/2
			cat.Anchor = geom.Point{X: cat.Center.X, Y: y}
			cat.TextAnchor = place.Middle
		}
		out[i] = cat
	}
	return out
}

func (b cartesianBuilder) bars(cats []Category, a Axis, horizontal bool) []Bar {
	series := barSeries(b.spec)
	if len(series) == 0 || len(cats) == 0 {
		return nil
	}
	fill := b.cfg.Cartesian.BarFill
	if b.spec.Kind == chart.KindHistogram {
		fill = 1
	}
	stacked := stackedBars(b.spec)
	slots := len(series)
	if stacked {
		slots = 1
	}

	var out []Bar
	for _, cat := range cats {
		thick := cat.Band.Width
		if horizontal {
			thick = cat.Band.Height
		}
		inner := thick * fill
		slot := inner / float64(slots)
		off := (thick - inner) / 2

		pos, neg := 0.0, 0.0
		for k, s := range series {
			v := b.spec.Data.Value(s, cat.Index)
			from, to := 0.0, v
			if stacked {
				if v >= 0 {
					from, to = pos, pos+v
					pos += v
				} else {
					from, to = neg, neg+v
					neg += v
				}
				k = 0
			}
			p0, p1 := a.Position(clampTo(a, from)), a.Position(clampTo(a, to))
			lo, hi := math.Min(p0, p1), math.Max(p0, p1)

			var r geom.Rect
			if horizontal {
				r = geom.Rect{X: lo, Y: cat.Band.Y + off + float64(k)*slot, Width: hi - lo, Height: slot}
			} else {
				r = geom.Rect{X: cat.Band.X + off + float64(k)*slot, Y: lo, Width: slot, Height: hi - lo}
			}
			out = append(out, Bar{
				Series: s,
				Index:  cat.Index,
				Value:  v,
				Rect:   r,
				Fill:   b.color(s),
				IsHero: b.hasHero && b.hero == cat.Index,
			})
		}
	}
	return out
}

func clampTo(a Axis, v float64) float64 { return min(max(v, a.Min), a.Max) }

func (b cartesianBuilder) color(series int) string {
	if len(b.palette) == 0 {
		return ""
	}
	return b.palette[series%len(b.palette)]
}

func (b cartesianBuilder) lines(cats []Category, a Axis) []Line {
	series := lineSeries(b.spec)
	if len(series) == 0 || len(cats) == 0 {
		return nil
	}
	stacked := stackedLines(b.spec)
	area := b.spec.Kind == chart.KindArea
	base := make([]float64, len(cats))

	out := make([]Line, 0, len(series))
	for _, s := range series {
		l := Line{
			Series: s,
			Name:   b.spec.Data.Series[s].Name,
			Color:  b.color(s),
			Area:   area,
			Points: make([]geom.Point, len(cats)),
		}
		if area {
			l.Lower = make([]geom.Point, len(cats))
		}
		for i, cat := range cats {
			v := b.spec.Data.Value(s, cat.Index)
			lower := 0.0
			if stacked {
				lower = base[i]
				v += lower
				base[i] = v
			}
			l.Points[i] = geom.Point{X: cat.Center.X, Y: a.Position(clampTo(a, v))}
			if area {
				l.Lower[i] = geom.Point{X: cat.Center.X, Y: a.Position(clampTo(a, lower))}
			}
		}
		out = append(out, l)
	}
	return out
}

const (
	labelGap       = 0.3 // data label to its mark, in font sizes
	pointWrapChars = 16
)

func (b cartesianBuilder) points(y, x Axis) []Point {
	d := b.spec.Data
	n := d.Count()
	if n == 0 {
		return nil
	}
	cc := b.cfg.Cartesian
	bubble := b.spec.Kind == chart.KindBubble
	maxSize := 0.0
	if bubble {
		for i := range n {
			maxSize = math.Max(maxSize, d.Value(2, i))
		}
	}
	if maxSize <= 0 {
		maxSize = 1
	}

	out := make([]Point, n)
	cands := make([]collide.Label, n)
	for i := range out {
		p := Point{
			Index:  i,
			X:      d.Value(0, i),
			Y:      d.Value(1, i),
			Fill:   b.color(0),
			IsHero: b.hasHero && b.hero == i,
			Radius: cc.PointRadius * b.res.Scale,
		}
		prio := p.Y
		if bubble {
			p.Size = d.Value(2, i)
			p.Radius = (cc.BubbleMin + math.Sqrt(math.Max(0, p.Size)/maxSize)*(cc.BubbleMax-cc.BubbleMin)) * b.res.Scale
			p.Fill = b.color(i)
			prio = p.Size
		}
		p.Center = geom.Point{X: x.Position(clampTo(x, p.X)), Y: y.Position(clampTo(y, p.Y))}
		p.Label = place.Label{
			X:          p.Center.X + p.Radius + labelGap*b.fs,
			Y:          p.Center.Y,
			TextAnchor: place.Start,
			Strategy:   place.External,
			Lines:      wrapLabel(d.Label(i), pointWrapChars),
			FontSize:   b.fs,
			TextColor:  text.DarkText,
		}
		if len(p.Label.Lines) == 0 {
			p.Label.Strategy = place.Hidden
		}
		if p.IsHero {
			prio = math.Inf(1)
		}
		cands[i] = collide.Label{ID: d.Label(i), Box: p.Label.Box(b.cfg.Text), Priority: prio}
		out[i] = p
	}

	resolved := collide.Resolve(cands, b.size)
	for i := range out {
		if !resolved[i].Visible || !out[i].Label.Visible() {
			out[i].Label.Hide()
		}
	}
	return out
}

// valueLabels places value and extreme labels and hides those that
// collide. Extremes and the hero outrank plain values.
func (b cartesianBuilder) valueLabels(c *Cartesian) []ValueLabel {
	if !b.spec.Style.ShowValues && !b.spec.Style.ShowExtremes {
		return nil
	}
	var out []ValueLabel
	var prios []float64
	add := func(s, i int, role LabelRole, v float64, anchor geom.Point, ta place.Anchor, dy float64) {
		fs := b.fs
		isHero := b.hasHero && b.hero == i
		if isHero {
			fs *= b.cfg.Cartesian.HeroScale
		}
		pitch := b.cfg.Text.LinePitch(fs)
		out = append(out, ValueLabel{
			Series: s,
			Index:  i,
			Role:   role,
			Label: place.Label{
				X:              anchor.X,
				Y:              anchor.Y + dy*(labelGap*fs+pitch/2),
				TextAnchor:     ta,
				Strategy:       place.External,
				FormattedValue: text.FormatValue(v, b.spec.Style.Format),
				FontSize:       fs,
				TextColor:      text.DarkText,
			},
		})
		prio := math.Abs(v)
		switch {
		case isHero:
			prio = math.Inf(1)
		case role != RoleValue:
			prio = math.MaxFloat64
		}
		prios = append(prios, prio)
	}

	for _, bar := range c.Bars {
		role := b.role(bar.Series, bar.Index)
		if role == "" {
			continue
		}
		if c.Orientation == Horizontal {
			x, ta := bar.Rect.Right(), place.Start
			if bar.Value < 0 {
				x, ta = bar.Rect.X, place.End
			}
			off := labelGap * b.fs
			if ta == place.End {
				off = -off
			}
			add(bar.Series, bar.Index, role, bar.Value, geom.Point{X: x + off, Y: bar.Rect.Center().Y}, ta, 0)
			continue
		}
		if bar.Value < 0 {
			add(bar.Series, bar.Index, role, bar.Value, geom.Point{X: bar.Rect.Center().X, Y: bar.Rect.Bottom()}, place.Middle, 1)
		} else {
			add(bar.Series, bar.Index, role, bar.Value, geom.Point{X: bar.Rect.Center().X, Y: bar.Rect.Y}, place.Middle, -1)
		}
	}
	for _, l := range c.Lines {
		for i, p := range l.Points {
			role := b.role(l.Series, i)
			if role == "" {
				continue
			}
			dy := -1.0
			if role == RoleMin {
				dy = 1
			}
			add(l.Series, i, role, b.spec.Data.Value(l.Series, i), p, place.Middle, dy)
		}
	}

	cands := make([]collide.Label, len(out))
	for i := range out {
		cands[i] = collide.Label{Box: out[i].Label.Box(b.cfg.Text), Priority: prios[i]}
	}
	for i, r := range collide.Resolve(cands, b.size) {
		out[i].Overflows = r.Overflows
		if !r.Visible {
			out[i].Label.Hide()
		}
	}
	return out
}

// role returns the label role of a data point, or "" when it gets none.
func (b cartesianBuilder) role(series, i int) LabelRole {
	if b.spec.Style.ShowExtremes {
		lo, hi := b.extremes(series)
		switch i {
		case hi:
			return RoleMax
		case lo:
			return RoleMin
		}
	}
	if b.spec.Style.ShowValues {
		return RoleValue
	}
	return ""
}

// extremes returns the first indices of the smallest and largest value.
func (b cartesianBuilder) extremes(series int) (int, int) {
	lo, hi := -1, -1
	for i := range b.spec.Data.Count() {
		v := b.spec.Data.Value(series, i)
		if lo < 0 || v < b.spec.Data.Value(series, lo) {
			lo = i
		}
		if hi < 0 || v > b.spec.Data.Value(series, hi) {
			hi = i
		}
	}
	if lo == hi {
		lo = -1
	}
	return lo, hi
}

func (b cartesianBuilder) titles() []Title {
	st := b.spec.Style
	mc := b.cfg.Margin.WithDefaults()
	allowance := mc.AxisTitleAllowance * b.fs
	p := b.res.Plot
	var out []Title

	if st.XAxisTitle != "" {
		lines := max(1, b.ms.labelLines)
		if b.spec.Kind.Horizontal() {
			lines = 1
		}
		y := p.Bottom() + b.res.LabelGap + float64(lines)*b.pitch() + allowance/2
		if b.res.Stagger {
			y += b.res.StaggerOffset
		}
		out = append(out, Title{Text: st.XAxisTitle, X: p.Center().X, Y: y, FontSize: b.fs})
	}
	if st.YAxisTitle != "" {
		side := b.ms.valueWidth
		if b.spec.Kind.Horizontal() {
			side = b.ms.catWidth
		}
		x := p.X - b.res.LabelGap - side*b.res.Scale - allowance/2
		out = append(out, Title{Text: st.YAxisTitle, X: x, Y: p.Center().Y, Rotate: -90, FontSize: b.fs})
	}
	return out
}
