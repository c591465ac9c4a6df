// Package chart defines the declarative chart description consumed by the
// layout engine: what kind of chart, which data, and how it should be styled.
//
// A [Spec] is plain data. It can be decoded from JSON or TOML (see
// [ReadSpecFile]) and validated with [Spec.Validate] at the boundary; the
// layout engine itself accepts any Spec and degrades gracefully.
//
// # Data conventions
//
// Category charts (bar, column, line, area, histogram, mixed, pie, donut,
// treemap) read Data.Labels as categories and each Series as one value per
// category. Scatter charts read Series[0] as x and Series[1] as y; bubble
// charts additionally read Series[2] as the bubble size. Labels then name
// the individual points.
package chart

import (
	"math"
	"slices"
)

// Spec is a complete chart description.
type Spec struct {
	Kind  Kind  `json:"kind" toml:"kind"`
	Data  Data  `json:"data" toml:"data"`
	Style Style `json:"style" toml:"style"`
}

// Data holds the ordered categories and value series.
type Data struct {
	Labels []string `json:"labels" toml:"labels"`
	Series []Series `json:"series" toml:"series"`
	// Meta carries optional per-point annotations, parallel to Labels.
	Meta []string `json:"meta,omitempty" toml:"meta,omitempty"`
}

// Series is one named row of values.
type Series struct {
	Name   string    `json:"name" toml:"name"`
	Values []float64 `json:"values" toml:"values"`
}

// Style carries presentation options. Zero values mean "use the default".
type Style struct {
	Mode       Mode           `json:"mode,omitempty" toml:"mode,omitempty"`
	Legend     LegendPosition `json:"legend,omitempty" toml:"legend,omitempty"`
	Palette    []string       `json:"palette,omitempty" toml:"palette,omitempty"`
	FontFamily string         `json:"font_family,omitempty" toml:"font_family,omitempty"`
	FontSize   float64        `json:"font_size,omitempty" toml:"font_size,omitempty"`
	Format     NumberFormat   `json:"format" toml:"format"`

	XAxisTitle string `json:"x_axis_title,omitempty" toml:"x_axis_title,omitempty"`
	YAxisTitle string `json:"y_axis_title,omitempty" toml:"y_axis_title,omitempty"`

	// Hero is the index of the emphasised data point, if any.
	Hero *int `json:"hero,omitempty" toml:"hero,omitempty"`
	// HeroScale is the typography multiplier of the hero (treemap, donut).
	HeroScale float64 `json:"hero_scale,omitempty" toml:"hero_scale,omitempty"`

	ShowExtremes bool `json:"show_extremes,omitempty" toml:"show_extremes,omitempty"`
	ShowValues   bool `json:"show_values,omitempty" toml:"show_values,omitempty"`
	ShowTotal    bool `json:"show_total,omitempty" toml:"show_total,omitempty"`
	Stacked      bool `json:"stacked,omitempty" toml:"stacked,omitempty"`

	// DonutThickness is the ring thickness as a fraction of the outer radius.
	DonutThickness float64 `json:"donut_thickness,omitempty" toml:"donut_thickness,omitempty"`
	// InnerRadii optionally overrides the inner radius per slice, as a
	// fraction of the outer radius.
	InnerRadii []float64 `json:"inner_radii,omitempty" toml:"inner_radii,omitempty"`

	// Effect names a painter-side visual filter: glass, gradient or shadow.
	Effect string `json:"effect,omitempty" toml:"effect,omitempty"`
}

// NumberFormat describes how values are printed in labels.
type NumberFormat struct {
	// Decimals is the number of fraction digits; nil picks 0 for integral
	// values and 1 otherwise.
	Decimals *int   `json:"decimals,omitempty" toml:"decimals,omitempty"`
	Prefix   string `json:"prefix,omitempty" toml:"prefix,omitempty"`
	Suffix   string `json:"suffix,omitempty" toml:"suffix,omitempty"`
	Grouping bool   `json:"grouping,omitempty" toml:"grouping,omitempty"`
	Percent  bool   `json:"percent,omitempty" toml:"percent,omitempty"`
}

// Value returns series s at index i, or 0 when either is out of range or
// the stored value is NaN or infinite.
func (d Data) Value(s, i int) float64 {
	if s < 0 || s >= len(d.Series) {
		return 0
	}
	vals := d.Series[s].Values
	if i < 0 || i >= len(vals) {
		return 0
	}
	return finite(vals[i])
}

// Finite returns a copy of d with every NaN or infinite value replaced by
// 0, matching what Value reads.
func (d Data) Finite() Data {
	out := d
	if d.Series == nil {
		return out
	}
	out.Series = make([]Series, len(d.Series))
	for s, series := range d.Series {
		series.Values = slices.Clone(series.Values)
		for i, v := range series.Values {
			series.Values[i] = finite(v)
		}
		out.Series[s] = series
	}
	return out
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Label returns the label at index i, or "" when out of range.
func (d Data) Label(i int) string {
	if i < 0 || i >= len(d.Labels) {
		return ""
	}
	return d.Labels[i]
}

// Count returns the number of data points: the label count, or the length
// of the longest series when labels are missing.
func (d Data) Count() int {
	n := len(d.Labels)
	if n > 0 {
		return n
	}
	for _, s := range d.Series {
		n = max(n, len(s.Values))
	}
	return n
}

// Primary returns the first series padded or truncated to Count values.
func (d Data) Primary() []float64 {
	n := d.Count()
	out := make([]float64, n)
	for i := range out {
		out[i] = d.Value(0, i)
	}
	return out
}

// HeroIndex returns the hero index when it refers to an existing point.
func (s Spec) HeroIndex() (int, bool) {
	if s.Style.Hero == nil {
		return 0, false
	}
	i := *s.Style.Hero
	if i < 0 || i >= s.Data.Count() {
		return 0, false
	}
	return i, true
}

// ModeOrDefault returns the style mode, defaulting to classic.
func (s Style) ModeOrDefault() Mode {
	if s.Mode == "" {
		return ModeClassic
	}
	return s.Mode
}

// LegendOrDefault returns the legend position. Multi-series cartesian
// charts and radial charts default to a bottom legend.
func (s Spec) LegendOrDefault() LegendPosition {
	if s.Style.Legend != "" {
		return s.Style.Legend
	}
	switch {
	case s.Kind.Family() == FamilyRadial:
		return LegendBottom
	case s.Kind.Family() == FamilyCartesian && !s.Kind.HasPoints() && len(s.Data.Series) > 1:
		return LegendBottom
	default:
		return LegendNone
	}
}

// LegendEntries returns the texts a legend would list: category labels for
// radial and treemap charts, series names otherwise.
func (s Spec) LegendEntries() []string {
	if s.Kind.Family() != FamilyCartesian {
		return s.Data.Labels
	}
	out := make([]string, len(s.Data.Series))
	for i, ser := range s.Data.Series {
		out[i] = ser.Name
	}
	return out
}
