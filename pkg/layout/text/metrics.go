package text

import (
	"math"

	"github.com/matzehuels/chartlayout/pkg/layout/geom"
)

const (
	defaultCharWidthRatio = 0.55
	defaultLineHeight     = 1.2
)

// Metrics holds the heuristics used to size text.
type Metrics struct {
	// CharWidthRatio is the average glyph advance as a fraction of the font
	// size; 0.5 to 0.6 covers common sans-serif faces.
	CharWidthRatio float64 `json:"char_width_ratio" toml:"char_width_ratio"`
	// LineHeight is the baseline-to-baseline distance as a multiple of the
	// font size.
	LineHeight float64 `json:"line_height" toml:"line_height"`
}

// DefaultMetrics returns the metrics used by the layout engine.
func DefaultMetrics() Metrics {
	return Metrics{CharWidthRatio: defaultCharWidthRatio, LineHeight: defaultLineHeight}
}

func (m Metrics) orDefault() Metrics {
	if m.CharWidthRatio <= 0 {
		m.CharWidthRatio = defaultCharWidthRatio
	}
	if m.LineHeight <= 0 {
		m.LineHeight = defaultLineHeight
	}
	return m
}

// CharWidth returns the estimated width of one character.
func (m Metrics) CharWidth(fontSize float64) float64 {
	return fontSize * m.orDefault().CharWidthRatio
}

// LinePitch returns the vertical distance between two baselines.
func (m Metrics) LinePitch(fontSize float64) float64 {
	return fontSize * m.orDefault().LineHeight
}

// MaxChars returns how many characters fit in width, never less than one.
func (m Metrics) MaxChars(width, fontSize float64) int {
	cw := m.CharWidth(fontSize)
	if cw <= 0 || width <= 0 {
		return 1
	}
	return max(1, int(math.Floor(width/cw)))
}

// WrapWidth wraps s to fit a pixel width.
func (m Metrics) WrapWidth(s string, width, fontSize float64, maxLines int) []string {
	return Wrap(s, m.MaxChars(width, fontSize), maxLines)
}

// Measure returns the bounding box of lines rendered at fontSize.
func (m Metrics) Measure(lines []string, fontSize float64) geom.Size {
	if len(lines) == 0 {
		return geom.Size{}
	}
	return geom.Size{
		W: float64(Longest(lines)) * m.CharWidth(fontSize),
		H: float64(len(lines)) * m.LinePitch(fontSize),
	}
}

// MeasureString measures a single unwrapped line.
func (m Metrics) MeasureString(s string, fontSize float64) geom.Size {
	if s == "" {
		return geom.Size{}
	}
	return m.Measure([]string{s}, fontSize)
}
