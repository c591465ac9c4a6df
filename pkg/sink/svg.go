package sink

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/chartlayout/pkg/layout"
	"github.com/matzehuels/chartlayout/pkg/layout/geom"
	"github.com/matzehuels/chartlayout/pkg/layout/place"
	"github.com/matzehuels/chartlayout/pkg/layout/radial"
	"github.com/matzehuels/chartlayout/pkg/layout/text"
	"github.com/matzehuels/chartlayout/pkg/layout/treemap"
)

const (
	axisColor   = "#333333"
	gridColor   = "#e0e0e0"
	legColor    = "#777777"
	debugColor  = "#e4572e"
	heroStroke  = "#222222"
	defaultFont = "Helvetica, Arial, sans-serif"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	effect     EffectKind
	instance   int
	debug      bool
	fontFamily string
	background string
	metrics    text.Metrics

	fx *effectSet
}

// WithEffect applies a visual effect to filled shapes.
func WithEffect(k EffectKind) SVGOption { return func(r *svgRenderer) { r.effect = k } }

// WithInstance sets the render instance index that effect ids are derived
// from. Charts embedded in one document need distinct instances.
func WithInstance(n int) SVGOption { return func(r *svgRenderer) { r.instance = n } }

// WithDebug outlines zones and draws hidden labels.
func WithDebug() SVGOption { return func(r *svgRenderer) { r.debug = true } }

// WithFontFamily sets the CSS font family of all text.
func WithFontFamily(f string) SVGOption {
	return func(r *svgRenderer) {
		if f != "" {
			r.fontFamily = f
		}
	}
}

// WithBackground fills the canvas. Empty leaves it transparent.
func WithBackground(c string) SVGOption { return func(r *svgRenderer) { r.background = c } }

// WithMetrics sets the text metrics used to stack multi-line labels. They
// should match the metrics the layout was computed with.
func WithMetrics(m text.Metrics) SVGOption { return func(r *svgRenderer) { r.metrics = m } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{
		effect:     EffectNone,
		fontFamily: defaultFont,
		metrics:    text.DefaultMetrics(),
	}
	for _, opt := range opts {
		opt(&r)
	}
	r.fx = newEffectSet(r.effect, r.instance)
	return r
}

// RenderSVG draws l as a standalone SVG document.
func RenderSVG(l layout.ComputedLayout, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	var body bytes.Buffer
	if r.background != "" {
		fmt.Fprintf(&body, `  <rect class="background" x="0" y="0" width="%s" height="%s" fill="%s"/>`+"\n",
			num(l.Container.W), num(l.Container.H), EscapeXML(r.background))
	}
	if r.debug {
		r.renderZones(&body, l)
	}
	switch {
	case l.Cartesian != nil:
		r.renderCartesian(&body, l, l.Cartesian)
	case l.Radial != nil:
		r.renderRadial(&body, l.Radial)
	case l.Treemap != nil:
		r.renderTreemap(&body, l.Treemap)
	}
	r.renderLegend(&body, l)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s" data-kind="%s">`+"\n",
		num(l.Container.W), num(l.Container.H), num(l.Container.W), num(l.Container.H), EscapeXML(string(l.Kind)))
	fmt.Fprintf(&buf, "  <style>text { font-family: %s; }</style>\n", EscapeXML(r.fontFamily))
	r.fx.writeDefs(&buf)
	buf.Write(body.Bytes())
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// =============================================================================
// Zones and legend
// =============================================================================

func (r *svgRenderer) renderZones(buf *bytes.Buffer, l layout.ComputedLayout) {
	zone := func(name string, z geom.Rect) {
		fmt.Fprintf(buf, `  <rect class="zone zone-%s" x="%s" y="%s" width="%s" height="%s" fill="none" stroke="%s" stroke-dasharray="4 3"/>`+"\n",
			name, num(z.X), num(z.Y), num(z.Width), num(z.Height), debugColor)
	}
	zone("plot", l.Zones.Plot)
	if l.Zones.Legend != nil {
		zone("legend", *l.Zones.Legend)
	}
}

func (r *svgRenderer) renderLegend(buf *bytes.Buffer, l layout.ComputedLayout) {
	if len(l.Legend) == 0 {
		return
	}
	buf.WriteString(`  <g class="legend">` + "\n")
	for _, it := range l.Legend {
		sw := it.Swatch
		fmt.Fprintf(buf, `    <rect x="%s" y="%s" width="%s" height="%s" %s/>`+"\n",
			num(sw.X), num(sw.Y), num(sw.Width), num(sw.Height), r.fx.fill(paletteAt(l.Palette, it.Index)))
		fmt.Fprintf(buf, `    <text x="%s" y="%s" font-size="%s" dominant-baseline="central" fill="%s">%s</text>`+"\n",
			num(it.Text.X), num(it.Text.Y), num(l.FontSize), text.DarkText, EscapeXML(it.Label))
	}
	buf.WriteString("  </g>\n")
}

func paletteAt(p []string, i int) string {
	if len(p) == 0 || i < 0 {
		return text.DarkText
	}
	return p[i%len(p)]
}

// =============================================================================
// Cartesian
// =============================================================================

func (r *svgRenderer) renderCartesian(buf *bytes.Buffer, l layout.ComputedLayout, c *layout.Cartesian) {
	plot := l.Zones.Plot
	fs := l.FontSize

	buf.WriteString(`  <g class="axes">` + "\n")
	r.renderValueAxis(buf, plot, c, fs)
	for _, cat := range c.Categories {
		r.writeLines(buf, cat.Lines, cat.Anchor.X, cat.Anchor.Y, cat.TextAnchor, fs, text.DarkText, "category")
	}
	buf.WriteString("  </g>\n")

	if len(c.Bars) > 0 {
		buf.WriteString(`  <g class="bars">` + "\n")
		for _, b := range c.Bars {
			fmt.Fprintf(buf, `    <rect x="%s" y="%s" width="%s" height="%s" %s%s/>`+"\n",
				num(b.Rect.X), num(b.Rect.Y), num(b.Rect.Width), num(b.Rect.Height), r.fx.fill(b.Fill), heroAttrs(b.IsHero))
		}
		buf.WriteString("  </g>\n")
	}

	for _, ln := range c.Lines {
		if ln.Area && len(ln.Points) > 0 {
			pts := append([]geom.Point(nil), ln.Points...)
			for i := len(ln.Lower) - 1; i >= 0; i-- {
				pts = append(pts, ln.Lower[i])
			}
			fmt.Fprintf(buf, `  <polygon class="area" points="%s" %s fill-opacity="0.6"/>`+"\n", points(pts), r.fx.fill(ln.Color))
		}
		fmt.Fprintf(buf, `  <polyline class="line" points="%s" fill="none" stroke="%s" stroke-width="2"/>`+"\n",
			points(ln.Points), EscapeXML(ln.Color))
	}

	if len(c.Points) > 0 {
		buf.WriteString(`  <g class="points">` + "\n")
		for _, p := range c.Points {
			fmt.Fprintf(buf, `    <circle cx="%s" cy="%s" r="%s" %s fill-opacity="0.8"%s/>`+"\n",
				num(p.Center.X), num(p.Center.Y), num(p.Radius), r.fx.fill(p.Fill), heroAttrs(p.IsHero))
		}
		for _, p := range c.Points {
			r.writeLabel(buf, p.Label, "point-label")
		}
		buf.WriteString("  </g>\n")
	}

	for _, vl := range c.Labels {
		class := "value-label value-" + string(vl.Role)
		if vl.Overflows && r.debug {
			vl.Label.TextColor = debugColor
		}
		r.writeLabel(buf, vl.Label, class)
	}

	for _, t := range c.Titles {
		transform := ""
		if t.Rotate != 0 {
			transform = fmt.Sprintf(` transform="rotate(%s %s %s)"`, num(t.Rotate), num(t.X), num(t.Y))
		}
		fmt.Fprintf(buf, `  <text class="axis-title" x="%s" y="%s" font-size="%s" text-anchor="middle" dominant-baseline="central"%s>%s</text>`+"\n",
			num(t.X), num(t.Y), num(t.FontSize), transform, EscapeXML(t.Text))
	}
}

// renderValueAxis draws gridlines and tick labels. A vertical chart runs
// the value axis up the left edge; a horizontal one along the bottom.
// Scatter charts carry a second, horizontal value axis in XAxis.
func (r *svgRenderer) renderValueAxis(buf *bytes.Buffer, plot geom.Rect, c *layout.Cartesian, fs float64) {
	gap := 0.4 * fs
	vertical := c.Orientation == layout.Vertical
	for _, t := range c.ValueAxis.Ticks {
		if vertical {
			fmt.Fprintf(buf, `    <line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s"/>`+"\n",
				num(plot.X), num(t.Pos), num(plot.Right()), num(t.Pos), gridColor)
			r.writeText(buf, t.Label, plot.X-gap, t.Pos, place.End, fs, "tick")
		} else {
			fmt.Fprintf(buf, `    <line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s"/>`+"\n",
				num(t.Pos), num(plot.Y), num(t.Pos), num(plot.Bottom()), gridColor)
			r.writeText(buf, t.Label, t.Pos, plot.Bottom()+gap+fs/2, place.Middle, fs, "tick")
		}
	}
	if c.XAxis != nil {
		for _, t := range c.XAxis.Ticks {
			r.writeText(buf, t.Label, t.Pos, plot.Bottom()+gap+fs/2, place.Middle, fs, "tick")
		}
	}

	if vertical {
		y := c.ValueAxis.Baseline()
		if c.XAxis != nil {
			y = plot.Bottom()
		}
		fmt.Fprintf(buf, `    <line class="baseline" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s"/>`+"\n",
			num(plot.X), num(y), num(plot.Right()), num(y), axisColor)
		return
	}
	x := c.ValueAxis.Baseline()
	fmt.Fprintf(buf, `    <line class="baseline" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s"/>`+"\n",
		num(x), num(plot.Y), num(x), num(plot.Bottom()), axisColor)
}

func heroAttrs(hero bool) string {
	if !hero {
		return ""
	}
	return fmt.Sprintf(` stroke="%s" stroke-width="2"`, heroStroke)
}

// =============================================================================
// Radial
// =============================================================================

func (r *svgRenderer) renderRadial(buf *bytes.Buffer, g *radial.Geometry) {
	buf.WriteString(`  <g class="slices">` + "\n")
	for _, s := range g.Slices {
		if s.Span() <= 0 || s.OuterRadius <= 0 {
			continue
		}
		fmt.Fprintf(buf, `    <path d="%s" %s stroke="#ffffff" stroke-width="1"%s/>`+"\n",
			slicePath(g.Center, s.SliceGeometry), r.fx.fill(s.Fill), heroAttrs(s.IsHero))
	}
	buf.WriteString("  </g>\n")

	for _, s := range g.Slices {
		r.writeLeg(buf, s.SpiderLeg, s.Label)
		r.writeLabel(buf, s.Label, "slice-label")
	}

	if h := g.Hero; h != nil {
		pitch := r.metrics.LinePitch(h.FontSize)
		capH := r.metrics.Measure(h.Caption, h.CaptionFontSize).H
		top := h.Center.Y - (pitch+capH)/2
		fmt.Fprintf(buf, `  <text class="hero-value" x="%s" y="%s" font-size="%s" font-weight="bold" text-anchor="middle" dominant-baseline="central" fill="%s">%s</text>`+"\n",
			num(h.Center.X), num(top+pitch/2), num(h.FontSize), EscapeXML(h.TextColor), EscapeXML(h.Value))
		if len(h.Caption) > 0 {
			cy := top + pitch + capH/2
			r.writeLines(buf, h.Caption, h.Center.X, cy, place.Middle, h.CaptionFontSize, h.TextColor, "hero-caption")
		}
	}
}

// slicePath returns the SVG path of an annular sector. Angles follow the
// layout convention: zero at 12 o'clock, clockwise.
func slicePath(c geom.Point, s radial.SliceGeometry) string {
	span := s.Span()
	if span >= 2*math.Pi-1e-9 {
		// A full turn cannot be drawn as one arc.
		half := s
		half.EndAngle = s.StartAngle + math.Pi
		rest := s
		rest.StartAngle = half.EndAngle
		return slicePath(c, half) + " " + slicePath(c, rest)
	}
	large := 0
	if span > math.Pi {
		large = 1
	}
	o0 := geom.Polar(c, s.OuterRadius, s.StartAngle)
	o1 := geom.Polar(c, s.OuterRadius, s.EndAngle)

	var b strings.Builder
	fmt.Fprintf(&b, "M%s,%s A%s,%s 0 %d 1 %s,%s", num(o0.X), num(o0.Y),
		num(s.OuterRadius), num(s.OuterRadius), large, num(o1.X), num(o1.Y))
	if s.InnerRadius > 0 {
		i1 := geom.Polar(c, s.InnerRadius, s.EndAngle)
		i0 := geom.Polar(c, s.InnerRadius, s.StartAngle)
		fmt.Fprintf(&b, " L%s,%s A%s,%s 0 %d 0 %s,%s", num(i1.X), num(i1.Y),
			num(s.InnerRadius), num(s.InnerRadius), large, num(i0.X), num(i0.Y))
	} else {
		fmt.Fprintf(&b, " L%s,%s", num(c.X), num(c.Y))
	}
	b.WriteString(" Z")
	return b.String()
}

// =============================================================================
// Treemap
// =============================================================================

func (r *svgRenderer) renderTreemap(buf *bytes.Buffer, g *treemap.Geometry) {
	buf.WriteString(`  <g class="rects">` + "\n")
	for _, rc := range g.Rects {
		if rc.Rect.Empty() {
			continue
		}
		fmt.Fprintf(buf, `    <rect x="%s" y="%s" width="%s" height="%s" %s stroke="#ffffff" stroke-width="1"%s/>`+"\n",
			num(rc.X), num(rc.Y), num(rc.Width), num(rc.Height), r.fx.fill(rc.Fill), heroAttrs(rc.IsHero))
	}
	buf.WriteString("  </g>\n")
	for _, rc := range g.Rects {
		r.writeLeg(buf, rc.SpiderLeg, rc.Label)
		r.writeLabel(buf, rc.Label, "rect-label")
	}
}

// =============================================================================
// Text
// =============================================================================

func (r *svgRenderer) writeLeg(buf *bytes.Buffer, leg *place.SpiderLeg, l place.Label) {
	if leg == nil || len(leg.Points) < 2 || (!l.Visible() && !r.debug) {
		return
	}
	fmt.Fprintf(buf, `  <polyline class="spider-leg" points="%s" fill="none" stroke="%s"/>`+"\n", points(leg.Points), legColor)
}

// writeLabel draws a placed label: its lines, then its formatted value, as
// one block centred on l.Y.
func (r *svgRenderer) writeLabel(buf *bytes.Buffer, l place.Label, class string) {
	if !l.Visible() {
		if !r.debug {
			return
		}
		class += " hidden"
	}
	color := l.TextColor
	if color == "" {
		color = text.DarkText
	}
	anchor := l.TextAnchor
	if anchor == "" {
		anchor = place.Middle
	}
	r.writeLines(buf, l.Block(), l.X, l.Y, anchor, l.FontSize, color, class)
}

func (r *svgRenderer) writeLines(buf *bytes.Buffer, lines []string, x, y float64, anchor place.Anchor, fs float64, color, class string) {
	if len(lines) == 0 {
		return
	}
	pitch := r.metrics.LinePitch(fs)
	top := y - float64(len(lines)-1)*pitch/2
	fmt.Fprintf(buf, `  <text class="%s" font-size="%s" text-anchor="%s" dominant-baseline="central" fill="%s">`,
		EscapeXML(class), num(fs), anchor, EscapeXML(color))
	for i, ln := range lines {
		fmt.Fprintf(buf, `<tspan x="%s" y="%s">%s</tspan>`, num(x), num(top+float64(i)*pitch), EscapeXML(ln))
	}
	buf.WriteString("</text>\n")
}

func (r *svgRenderer) writeText(buf *bytes.Buffer, s string, x, y float64, anchor place.Anchor, fs float64, class string) {
	if s == "" {
		return
	}
	fmt.Fprintf(buf, `    <text class="%s" x="%s" y="%s" font-size="%s" text-anchor="%s" dominant-baseline="central" fill="%s">%s</text>`+"\n",
		class, num(x), num(y), num(fs), anchor, text.DarkText, EscapeXML(s))
}

func points(pts []geom.Point) string {
	var b strings.Builder
	for i, p := range pts {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(num(p.X))
		b.WriteByte(',')
		b.WriteString(num(p.Y))
	}
	return b.String()
}

// num formats a coordinate with at most two decimals and no trailing zeros.
func num(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	if s == "-0" || s == "" {
		return "0"
	}
	return s
}
