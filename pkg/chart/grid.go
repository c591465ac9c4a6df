package chart

import (
	"strings"

	"github.com/matzehuels/chartlayout/pkg/layout/geom"
)

// Screen resolution used to convert physical units.
const dpi = 96.0

// DefaultBaseFontSize is used when a grid does not specify one (px).
const DefaultBaseFontSize = 12.0

// GridConfig describes the print page a report is laid out on. The layout
// engine only reads the base font size from it; CellSize lets callers
// derive a container size from a column/row span.
type GridConfig struct {
	BaseFontSize float64 `json:"base_font_size,omitempty" toml:"base_font_size,omitempty"`
	// Unit applies to BaseFontSize, Margin and Gutter: px (default), pt or mm.
	Unit    string  `json:"unit,omitempty" toml:"unit,omitempty"`
	Columns int     `json:"columns,omitempty" toml:"columns,omitempty"`
	Rows    int     `json:"rows,omitempty" toml:"rows,omitempty"`
	Margin  float64 `json:"margin,omitempty" toml:"margin,omitempty"`
	Gutter  float64 `json:"gutter,omitempty" toml:"gutter,omitempty"`
	Page    Page    `json:"page" toml:"page"`
}

// Page is a physical page.
type Page struct {
	Size        string `json:"size,omitempty" toml:"size,omitempty"`               // A3, A4, A5, Letter, Legal
	Orientation string `json:"orientation,omitempty" toml:"orientation,omitempty"` // portrait, landscape
}

// pageSizesMM holds portrait page dimensions in millimetres.
var pageSizesMM = map[string][2]float64{
	"a3":     {297, 420},
	"a4":     {210, 297},
	"a5":     {148, 210},
	"letter": {215.9, 279.4},
	"legal":  {215.9, 355.6},
}

// ToPixels converts v in the grid's unit to CSS pixels.
func (g GridConfig) ToPixels(v float64) float64 {
	switch strings.ToLower(g.Unit) {
	case "pt":
		return v * dpi / 72
	case "mm":
		return v * dpi / 25.4
	default:
		return v
	}
}

// FontSize returns the base font size in pixels.
func (g GridConfig) FontSize() float64 {
	if g.BaseFontSize <= 0 {
		return DefaultBaseFontSize
	}
	return g.ToPixels(g.BaseFontSize)
}

// PageSize returns the page dimensions in pixels, A4 portrait by default.
func (g GridConfig) PageSize() geom.Size {
	mm, ok := pageSizesMM[strings.ToLower(g.Page.Size)]
	if !ok {
		mm = pageSizesMM["a4"]
	}
	w, h := mm[0]*dpi/25.4, mm[1]*dpi/25.4
	if strings.EqualFold(g.Page.Orientation, "landscape") {
		w, h = h, w
	}
	return geom.Size{W: w, H: h}
}

// CellSize returns the pixel size of a block spanning colSpan columns and
// rowSpan rows, gutters between spanned cells included. Spans are clamped
// to the grid.
func (g GridConfig) CellSize(colSpan, rowSpan int) geom.Size {
	cols, rows := max(1, g.Columns), max(1, g.Rows)
	colSpan = min(max(1, colSpan), cols)
	rowSpan = min(max(1, rowSpan), rows)

	page := g.PageSize()
	margin, gutter := g.ToPixels(g.Margin), g.ToPixels(g.Gutter)

	contentW := max(0, page.W-2*margin)
	contentH := max(0, page.H-2*margin)
	cellW := max(0, (contentW-float64(cols-1)*gutter)/float64(cols))
	cellH := max(0, (contentH-float64(rows-1)*gutter)/float64(rows))

	return geom.Size{
		W: float64(colSpan)*cellW + float64(colSpan-1)*gutter,
		H: float64(rowSpan)*cellH + float64(rowSpan-1)*gutter,
	}
}
