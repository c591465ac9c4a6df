package margin

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/matzehuels/chartlayout/pkg/chart"
	"github.com/matzehuels/chartlayout/pkg/layout/geom"
	"github.com/matzehuels/chartlayout/pkg/layout/text"
)

func columnInput(mode chart.Mode, container geom.Size) Input {
	return Input{
		Mode:            mode,
		FontSize:        12,
		Metrics:         text.DefaultMetrics(),
		Profile:         Profile{Axis: AxisBottom, Body: 240},
		Categories:      3,
		LabelLines:      1,
		ValueLabelWidth: 30,
		Container:       container,
	}
}

func TestComputeZeroContainer(t *testing.T) {
	got := Compute(columnInput(chart.ModeInfographic, geom.Size{}), Config{})
	require.Equal(t, geom.Margins{}, got.Margins)
	require.Equal(t, 1.0, got.Scale)
	require.Nil(t, got.Legend)
}

func TestComputeClassicCentersExtraSpace(t *testing.T) {
	chk := require.New(t)
	got := Compute(columnInput(chart.ModeClassic, geom.Size{W: 600, H: 400}), Config{})

	chk.Equal(1.0, got.Scale)
	chk.InDelta(240, got.Plot.Height, 1e-9, "classic mode keeps the natural body height")

	// Both sides receive the same share of the leftover height.
	extraTop := got.Margins.Top - 12
	extraBottom := got.Margins.Bottom - (12 + 6 + 14.4)
	chk.InDelta(extraTop, extraBottom, 1e-9)
	chk.Greater(extraTop, 0.0)
}

func TestComputeClassicShrinksOnOverflow(t *testing.T) {
	chk := require.New(t)
	got := Compute(columnInput(chart.ModeClassic, geom.Size{W: 600, H: 200}), Config{})

	chk.Less(got.Scale, 1.0)
	chk.InDelta(240*got.Scale, got.Plot.Height, 1e-9)
	chk.InDelta(12*got.Scale, got.FontSize, 1e-9)
	chk.InDelta(200, got.Margins.Vertical()+got.Plot.Height, 1e-9)
}

func TestComputeInfographicFillsHeight(t *testing.T) {
	for _, h := range []float64{150, 296.4, 800} {
		got := Compute(columnInput(chart.ModeInfographic, geom.Size{W: 600, H: h}), Config{})
		natural := 24 + 240 + (12 + 6 + 14.4)
		if math.Abs(got.Scale-h/natural) > 1e-9 {
			t.Errorf("H=%v: Scale = %v, want %v", h, got.Scale, h/natural)
		}
		if math.Abs(got.Plot.Height-240*got.Scale) > 1e-6 {
			t.Errorf("H=%v: plot height = %v, want %v", h, got.Plot.Height, 240*got.Scale)
		}
	}
}

func TestComputeFillProfile(t *testing.T) {
	for _, mode := range []chart.Mode{chart.ModeClassic, chart.ModeInfographic} {
		t.Run(string(mode), func(t *testing.T) {
			chk := require.New(t)
			in := Input{
				Mode:      mode,
				Profile:   FillProfile,
				FontSize:  12,
				Metrics:   text.DefaultMetrics(),
				Container: geom.Size{W: 800, H: 800},
			}
			got := Compute(in, Config{})

			chk.Equal(1.0, got.Scale)
			chk.InDelta(800, got.Margins.Vertical()+got.Plot.Height, 1e-9)
			chk.Greater(got.Plot.Height, 0.9*800, "the body takes the height the clearances leave")
			chk.Greater(got.Plot.Width, 0.9*800)
		})
	}
}

func TestComputeFillProfileShrinksWhenClearancesOverflow(t *testing.T) {
	in := Input{
		Mode:      chart.ModeInfographic,
		Profile:   FillProfile,
		FontSize:  12,
		Metrics:   text.DefaultMetrics(),
		Container: geom.Size{W: 200, H: 20},
	}
	got := Compute(in, Config{})
	require.Less(t, got.Scale, 1.0)
	require.InDelta(t, 20, got.Margins.Vertical()+got.Plot.Height, 1e-9)
}

func TestComputeStagger(t *testing.T) {
	tests := []struct {
		name       string
		categories int
		cfg        Config
		want       bool
	}{
		{"few wide categories", 3, Config{}, false},
		{"many narrow categories", 30, Config{}, true},
		{"single category", 1, Config{}, false},
		{"fixed pixel threshold", 5, Config{StaggerMinWidth: 150}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := columnInput(chart.ModeInfographic, geom.Size{W: 600, H: 400})
			in.Categories = tt.categories
			got := Compute(in, tt.cfg)
			if got.Stagger != tt.want {
				t.Errorf("Stagger = %v, want %v", got.Stagger, tt.want)
			}
			if got.Stagger && got.StaggerOffset <= 0 {
				t.Error("staggered labels need a positive offset")
			}
		})
	}
}

func TestComputeStaggerGrowsBottomClearance(t *testing.T) {
	in := columnInput(chart.ModeClassic, geom.Size{W: 600, H: 1000})
	plain := Compute(in, Config{})
	in.Categories = 40
	staggered := Compute(in, Config{})

	require.True(t, staggered.Stagger)
	require.Greater(t, staggered.Natural.H, plain.Natural.H)
}

func TestComputeAxisTitles(t *testing.T) {
	in := columnInput(chart.ModeClassic, geom.Size{W: 600, H: 1000})
	without := Compute(in, Config{})
	in.HasXTitle, in.HasYTitle = true, true
	with := Compute(in, Config{})

	require.Greater(t, with.Natural.H, without.Natural.H)
	require.Greater(t, with.Margins.Left, without.Margins.Left)
}

func TestComputeLegendZones(t *testing.T) {
	entries := []string{"North", "South", "East", "West"}
	tests := []struct {
		pos   chart.LegendPosition
		check func(t *testing.T, r Result)
	}{
		{chart.LegendBottom, func(t *testing.T, r Result) {
			require.InDelta(t, 400, r.Legend.Bottom(), 1e-9)
			require.GreaterOrEqual(t, r.Margins.Bottom, r.Legend.Height)
		}},
		{chart.LegendTop, func(t *testing.T, r Result) {
			require.Zero(t, r.Legend.Y)
			require.GreaterOrEqual(t, r.Margins.Top, r.Legend.Height)
		}},
		{chart.LegendRight, func(t *testing.T, r Result) {
			require.InDelta(t, 600, r.Legend.Right(), 1e-9)
			require.GreaterOrEqual(t, r.Margins.Right, r.Legend.Width)
		}},
		{chart.LegendLeft, func(t *testing.T, r Result) {
			require.Zero(t, r.Legend.X)
			require.GreaterOrEqual(t, r.Margins.Left, r.Legend.Width)
		}},
	}

	for _, tt := range tests {
		t.Run(string(tt.pos), func(t *testing.T) {
			in := columnInput(chart.ModeInfographic, geom.Size{W: 600, H: 400})
			in.Legend = tt.pos
			in.LegendEntries = entries
			got := Compute(in, Config{})
			require.NotNil(t, got.Legend)
			require.False(t, got.Legend.Intersects(got.Plot), "legend and plot must not overlap")
			tt.check(t, got)
		})
	}
}

func TestComputeLegendShrinksWithClampedMargins(t *testing.T) {
	chk := require.New(t)
	in := Input{
		Mode:               chart.ModeClassic,
		Legend:             chart.LegendRight,
		LegendEntries:      []string{"2023", "2024"},
		FontSize:           12,
		Metrics:            text.DefaultMetrics(),
		Profile:            Profile{Axis: AxisLeft, Body: 100},
		Categories:         3,
		LabelLines:         1,
		CategoryLabelWidth: 40,
		ValueLabelWidth:    20,
		Container:          geom.Size{W: 60, H: 300},
	}
	got := Compute(in, Config{})

	chk.NotNil(got.Legend)
	chk.InDelta(60, got.Legend.Right(), 1e-9)
	chk.LessOrEqual(got.Plot.Right(), got.Legend.X+1e-9)
	chk.False(got.Legend.Intersects(got.Plot), "legend %+v overlaps plot %+v", *got.Legend, got.Plot)
}

func TestLegendLayout(t *testing.T) {
	m := text.DefaultMetrics()
	zone := geom.Rect{X: 0, Y: 360, Width: 600, Height: 40}
	items := LegendLayout(zone, chart.LegendBottom, []string{"North", "South", "East"}, 12, m)

	require.Len(t, items, 3)
	for i, it := range items {
		require.Equal(t, i, it.Index)
		require.GreaterOrEqual(t, it.Swatch.Y, zone.Y)
		require.LessOrEqual(t, it.Swatch.Bottom(), zone.Bottom())
		if i > 0 {
			require.Greater(t, it.Swatch.X, items[i-1].Swatch.X)
		}
	}

	vertical := LegendLayout(geom.Rect{X: 500, Y: 0, Width: 100, Height: 400}, chart.LegendRight, []string{"a", "b"}, 12, m)
	require.Len(t, vertical, 2)
	require.Greater(t, vertical[1].Swatch.Y, vertical[0].Swatch.Y)

	require.Nil(t, LegendLayout(geom.Rect{}, chart.LegendBottom, []string{"a"}, 12, m))
}

func TestComputeProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		in := Input{
			Mode:               rapid.SampledFrom([]chart.Mode{chart.ModeClassic, chart.ModeInfographic}).Draw(t, "mode"),
			Legend:             rapid.SampledFrom([]chart.LegendPosition{chart.LegendNone, chart.LegendTop, chart.LegendRight, chart.LegendBottom, chart.LegendLeft}).Draw(t, "legend"),
			LegendEntries:      []string{"alpha", "beta", "gamma"},
			HasXTitle:          rapid.Bool().Draw(t, "xTitle"),
			HasYTitle:          rapid.Bool().Draw(t, "yTitle"),
			FontSize:           rapid.Float64Range(6, 40).Draw(t, "fontSize"),
			Metrics:            text.DefaultMetrics(),
			Categories:         rapid.IntRange(0, 200).Draw(t, "categories"),
			LabelLines:         rapid.IntRange(0, 3).Draw(t, "lines"),
			CategoryLabelWidth: rapid.Float64Range(0, 400).Draw(t, "catWidth"),
			ValueLabelWidth:    rapid.Float64Range(0, 200).Draw(t, "valueWidth"),
			Profile: Profile{
				Axis: rapid.SampledFrom([]Axis{AxisNone, AxisBottom, AxisLeft}).Draw(t, "axis"),
				Body: rapid.Float64Range(0, 2000).Draw(t, "body"),
				Fill: rapid.Bool().Draw(t, "fill"),
			},
			Container: geom.Size{
				W: rapid.Float64Range(1, 3000).Draw(t, "w"),
				H: rapid.Float64Range(1, 3000).Draw(t, "h"),
			},
		}

		got := Compute(in, Config{})
		m := got.Margins
		for _, v := range []float64{m.Top, m.Right, m.Bottom, m.Left} {
			if v < 0 || math.IsNaN(v) {
				t.Fatalf("negative or NaN margin: %+v", m)
			}
		}
		if m.Horizontal() >= in.Container.W || m.Vertical() >= in.Container.H {
			t.Fatalf("margins %+v do not fit %+v", m, in.Container)
		}
		if got.Legend != nil && got.Legend.Intersects(got.Plot) {
			t.Fatalf("legend %+v overlaps plot %+v", *got.Legend, got.Plot)
		}

		// Growing the container height never lowers the scale.
		grow := rapid.Float64Range(0, 2000).Draw(t, "grow")
		taller := in
		taller.Container.H += grow
		if next := Compute(taller, Config{}); next.Scale < got.Scale-1e-9 {
			t.Fatalf("scale dropped from %v to %v when height grew by %v", got.Scale, next.Scale, grow)
		}
	})
}
