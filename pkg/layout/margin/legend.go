package margin

import (
	"math"

	"github.com/matzehuels/chartlayout/pkg/chart"
	"github.com/matzehuels/chartlayout/pkg/layout/geom"
	"github.com/matzehuels/chartlayout/pkg/layout/text"
)

// LegendItem is one placed legend entry.
type LegendItem struct {
	Index  int        `json:"index"`
	Label  string     `json:"label"`
	Swatch geom.Rect  `json:"swatch"`
	Text   geom.Point `json:"text"`
}

const (
	swatchGap = 0.4 // swatch to text, in font sizes
	entryGap  = 1.0 // between entries, in font sizes
)

func entryWidth(s string, fs float64, m text.Metrics) float64 {
	return fs + swatchGap*fs + m.MeasureString(s, fs).W
}

// legendBand returns the legend zone and its extent perpendicular to the
// side it sits on.
func legendBand(in Input, c geom.Size, fs float64, cfg Config) (*geom.Rect, float64) {
	if len(in.LegendEntries) == 0 {
		return nil, 0
	}
	pitch := in.Metrics.LinePitch(fs)

	switch in.Legend {
	case chart.LegendTop, chart.LegendBottom:
		rows := legendRows(in.LegendEntries, c.W-2*cfg.Padding, fs, in.Metrics)
		band := math.Min(float64(rows)*pitch+cfg.Padding, c.H*cfg.LegendMaxShare)
		r := geom.Rect{X: 0, Y: 0, Width: c.W, Height: band}
		if in.Legend == chart.LegendBottom {
			r.Y = c.H - band
		}
		return &r, band
	case chart.LegendLeft, chart.LegendRight:
		widest := 0.0
		for _, e := range in.LegendEntries {
			widest = math.Max(widest, entryWidth(e, fs, in.Metrics))
		}
		band := math.Min(widest+2*cfg.Padding, c.W*cfg.LegendMaxShare)
		r := geom.Rect{X: 0, Y: 0, Width: band, Height: c.H}
		if in.Legend == chart.LegendRight {
			r.X = c.W - band
		}
		return &r, band
	default:
		return nil, 0
	}
}

// legendRows counts the rows needed to flow entries across width.
func legendRows(entries []string, width, fs float64, m text.Metrics) int {
	rows, x := 1, 0.0
	for i, e := range entries {
		w := entryWidth(e, fs, m)
		if i > 0 && x+w > width {
			rows++
			x = 0
		}
		x += w + entryGap*fs
	}
	return rows
}

// LegendLayout places entries inside zone. Horizontal bands flow entries
// in centred rows; vertical bands stack them. Entries that do not fit in
// the zone are dropped.
func LegendLayout(zone geom.Rect, pos chart.LegendPosition, entries []string, fs float64, m text.Metrics) []LegendItem {
	if zone.Empty() || len(entries) == 0 {
		return nil
	}
	pitch := m.LinePitch(fs)
	items := make([]LegendItem, 0, len(entries))

	place := func(i int, x, y float64) {
		items = append(items, LegendItem{
			Index:  i,
			Label:  entries[i],
			Swatch: geom.Rect{X: x, Y: y + (pitch-fs)/2, Width: fs, Height: fs},
			Text:   geom.Point{X: x + fs + swatchGap*fs, Y: y + pitch/2},
		})
	}

	if pos == chart.LegendLeft || pos == chart.LegendRight {
		y := zone.Y + (zone.Height-float64(len(entries))*pitch)/2
		y = math.Max(zone.Y, y)
		for i := range entries {
			if y+pitch > zone.Bottom()+1e-9 {
				break
			}
			place(i, zone.X+fs/2, y)
			y += pitch
		}
		return items
	}

	// Group entries into rows, then centre each row.
	var rows [][]int
	var row []int
	x := 0.0
	for i, e := range entries {
		w := entryWidth(e, fs, m)
		if len(row) > 0 && x+w > zone.Width {
			rows = append(rows, row)
			row, x = nil, 0
		}
		row = append(row, i)
		x += w + entryGap*fs
	}
	rows = append(rows, row)

	y := zone.Y + math.Max(0, (zone.Height-float64(len(rows))*pitch)/2)
	for _, r := range rows {
		if y+pitch > zone.Bottom()+1e-9 {
			break
		}
		total := 0.0
		for k, i := range r {
			total += entryWidth(entries[i], fs, m)
			if k > 0 {
				total += entryGap * fs
			}
		}
		x := zone.X + math.Max(0, (zone.Width-total)/2)
		for _, i := range r {
			place(i, x, y)
			x += entryWidth(entries[i], fs, m) + entryGap*fs
		}
		y += pitch
	}
	return items
}
