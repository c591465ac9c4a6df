package layout

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/matzehuels/chartlayout/pkg/chart"
	"github.com/matzehuels/chartlayout/pkg/layout/geom"
)

func intPtr(i int) *int { return &i }

func sampleSpec(kind chart.Kind) chart.Spec {
	return chart.Spec{
		Kind: kind,
		Data: chart.Data{
			Labels: []string{"North America", "Europe", "Asia Pacific", "Latin America"},
			Series: []chart.Series{
				{Name: "2023", Values: []float64{42, 31, 18, 9}},
				{Name: "2024", Values: []float64{45, 29, 21, 11}},
				{Name: "size", Values: []float64{5, 10, 3, 8}},
			},
		},
	}
}

func TestComputeDeterministic(t *testing.T) {
	for _, kind := range chart.Kinds {
		t.Run(string(kind), func(t *testing.T) {
			spec := sampleSpec(kind)
			spec.Style.ShowValues = true
			spec.Style.Hero = intPtr(1)
			size := geom.Size{W: 640, H: 420}

			a := Compute(spec, chart.GridConfig{}, size, chart.TargetScreen)
			b := Compute(spec, chart.GridConfig{}, size, chart.TargetScreen)
			if diff := cmp.Diff(a, b); diff != "" {
				t.Errorf("Compute not deterministic (-first +second):\n%s", diff)
			}
		})
	}
}

func TestComputeDegenerate(t *testing.T) {
	for _, kind := range chart.Kinds {
		t.Run(string(kind), func(t *testing.T) {
			chk := require.New(t)
			spec := chart.Spec{Kind: kind, Data: chart.Data{Series: []chart.Series{{Name: "empty"}}}}

			got := Compute(spec, chart.GridConfig{}, geom.Size{}, "")
			chk.Equal(geom.Margins{}, got.Margins)
			chk.Equal(Zones{}, got.Zones)
			chk.Equal(1.0, got.Scale)
			chk.Equal(chart.TargetScreen, got.Target)
			chk.False(got.OverflowRisk.HasRisk)
			chk.Equal(1, geometryCount(got), "exactly one geometry is set")
		})
	}
}

func TestComputeZeroContainerWithData(t *testing.T) {
	got := Compute(sampleSpec(chart.KindColumn), chart.GridConfig{}, geom.Size{W: 0, H: 300}, chart.TargetPrint)

	require.Equal(t, geom.Margins{}, got.Margins)
	require.True(t, got.OverflowRisk.HasRisk)
	require.Zero(t, got.OverflowRisk.Scale)
}

func TestComputeEmptySeriesRealContainer(t *testing.T) {
	for _, kind := range chart.Kinds {
		t.Run(string(kind), func(t *testing.T) {
			spec := chart.Spec{Kind: kind}
			got := Compute(spec, chart.GridConfig{}, geom.Size{W: 300, H: 200}, chart.TargetScreen)
			require.Equal(t, 1, geometryCount(got))
			require.GreaterOrEqual(t, got.Zones.Plot.Width, 0.0)
		})
	}
}

func geometryCount(l ComputedLayout) int {
	n := 0
	if l.Cartesian != nil {
		n++
	}
	if l.Radial != nil {
		n++
	}
	if l.Treemap != nil {
		n++
	}
	return n
}

func TestComputeDispatch(t *testing.T) {
	tests := []struct {
		kind      chart.Kind
		cartesian bool
		radial    bool
		treemap   bool
	}{
		{chart.KindBar, true, false, false},
		{chart.KindColumn, true, false, false},
		{chart.KindLine, true, false, false},
		{chart.KindArea, true, false, false},
		{chart.KindHistogram, true, false, false},
		{chart.KindMixed, true, false, false},
		{chart.KindScatter, true, false, false},
		{chart.KindBubble, true, false, false},
		{chart.KindPie, false, true, false},
		{chart.KindDonut, false, true, false},
		{chart.KindTreemap, false, false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			got := Compute(sampleSpec(tt.kind), chart.GridConfig{}, geom.Size{W: 800, H: 500}, chart.TargetScreen)
			require.Equal(t, tt.cartesian, got.Cartesian != nil)
			require.Equal(t, tt.radial, got.Radial != nil)
			require.Equal(t, tt.treemap, got.Treemap != nil)
			require.Equal(t, tt.kind, got.Kind)
		})
	}
}

func TestComputeMarginsFitContainer(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		kind := rapid.SampledFrom(chart.Kinds).Draw(t, "kind")
		n := rapid.IntRange(0, 30).Draw(t, "n")
		labels := make([]string, n)
		values := make([]float64, n)
		for i := range labels {
			labels[i] = rapid.StringMatching(`[A-Za-z]{1,10}( [A-Za-z]{1,10}){0,4}`).Draw(t, "label")
			values[i] = rapid.Float64Range(-100, 1000).Draw(t, "value")
		}
		spec := chart.Spec{
			Kind: kind,
			Data: chart.Data{Labels: labels, Series: []chart.Series{{Name: "a", Values: values}, {Name: "b", Values: values}}},
			Style: chart.Style{
				Mode:       rapid.SampledFrom([]chart.Mode{chart.ModeClassic, chart.ModeInfographic}).Draw(t, "mode"),
				Legend:     rapid.SampledFrom([]chart.LegendPosition{"", chart.LegendNone, chart.LegendTop, chart.LegendRight, chart.LegendBottom, chart.LegendLeft}).Draw(t, "legend"),
				XAxisTitle: rapid.SampledFrom([]string{"", "Region"}).Draw(t, "xtitle"),
				YAxisTitle: rapid.SampledFrom([]string{"", "Revenue"}).Draw(t, "ytitle"),
			},
		}
		size := geom.Size{
			W: rapid.Float64Range(1, 2000).Draw(t, "w"),
			H: rapid.Float64Range(1, 2000).Draw(t, "h"),
		}
		target := rapid.SampledFrom([]chart.Target{chart.TargetScreen, chart.TargetPrint}).Draw(t, "target")

		got := Compute(spec, chart.GridConfig{}, size, target)
		m := got.Margins
		for name, v := range map[string]float64{"top": m.Top, "right": m.Right, "bottom": m.Bottom, "left": m.Left} {
			if !(v >= 0) {
				t.Fatalf("%s margin = %v", name, v)
			}
		}
		if m.Horizontal() >= size.W {
			t.Fatalf("left+right = %v, container width %v", m.Horizontal(), size.W)
		}
		if m.Vertical() >= size.H {
			t.Fatalf("top+bottom = %v, container height %v", m.Vertical(), size.H)
		}
		if got.Scale <= 0 {
			t.Fatalf("scale = %v", got.Scale)
		}
	})
}

func TestComputeScaleMonotonicInHeight(t *testing.T) {
	for _, mode := range []chart.Mode{chart.ModeClassic, chart.ModeInfographic} {
		t.Run(string(mode), func(t *testing.T) {
			spec := sampleSpec(chart.KindColumn)
			spec.Style.Mode = mode

			prev := 0.0
			for h := 50.0; h <= 2000; h += 50 {
				got := Compute(spec, chart.GridConfig{}, geom.Size{W: 600, H: h}, chart.TargetScreen)
				if got.Scale < prev-1e-12 {
					t.Fatalf("H=%v: scale %v dropped below %v", h, got.Scale, prev)
				}
				prev = got.Scale
			}
		})
	}
}

func TestComputeClassicNeverEnlarges(t *testing.T) {
	got := Compute(sampleSpec(chart.KindLine), chart.GridConfig{}, geom.Size{W: 1600, H: 1600}, chart.TargetScreen)
	require.Equal(t, 1.0, got.Scale)
	require.Equal(t, chart.ModeClassic, got.Mode)
}

func TestComputeClassicRadialAndTreemapFillContainer(t *testing.T) {
	size := geom.Size{W: 800, H: 800}
	short := math.Min(size.W, size.H)

	t.Run("pie", func(t *testing.T) {
		chk := require.New(t)
		got := Compute(sampleSpec(chart.KindPie), chart.GridConfig{}, size, chart.TargetScreen)
		chk.Equal(chart.ModeClassic, got.Mode)
		chk.Greater(got.Zones.Plot.Height, 0.85*short)
		chk.Greater(got.Radial.OuterRadius, 0.18*short)
		chk.False(got.OverflowRisk.HasRisk)
	})

	t.Run("treemap", func(t *testing.T) {
		chk := require.New(t)
		got := Compute(sampleSpec(chart.KindTreemap), chart.GridConfig{}, size, chart.TargetScreen)
		chk.Greater(got.Zones.Plot.Height, 0.85*short)
		chk.Greater(got.Treemap.Map.Height, 0.85*short)
		chk.False(got.OverflowRisk.HasRisk)
	})
}

func TestComputeNonFiniteValuesReadAsZero(t *testing.T) {
	for _, kind := range chart.Kinds {
		t.Run(string(kind), func(t *testing.T) {
			spec := sampleSpec(kind)
			for s := range spec.Data.Series {
				spec.Data.Series[s].Values[0] = math.NaN()
				spec.Data.Series[s].Values[1] = math.Inf(1)
			}
			got := Compute(spec, chart.GridConfig{}, geom.Size{W: 640, H: 420}, chart.TargetScreen)
			_, err := Marshal(got)
			require.NoError(t, err, "layout must stay encodable")
		})
	}
}

func TestComputePrintRoundsFontSize(t *testing.T) {
	chk := require.New(t)
	spec := sampleSpec(chart.KindColumn)
	spec.Style.Mode = chart.ModeInfographic

	for _, h := range []float64{170, 333, 517, 901} {
		got := Compute(spec, chart.GridConfig{}, geom.Size{W: 700, H: h}, chart.TargetPrint)
		chk.Equal(got.FontSize*2, float64(int(got.FontSize*2)), "H=%v: font size %v", h, got.FontSize)
		chk.Equal(DefaultConfig().PrintFloor, got.OverflowRisk.Floor)
	}
}

func TestComputeFontSizeFromGrid(t *testing.T) {
	spec := sampleSpec(chart.KindColumn)
	grid := chart.GridConfig{BaseFontSize: 12, Unit: "pt"}

	got := Compute(spec, grid, geom.Size{W: 900, H: 700}, chart.TargetScreen)
	require.InDelta(t, 16, got.FontSize, 1e-9)

	spec.Style.FontSize = 10
	got = Compute(spec, grid, geom.Size{W: 900, H: 700}, chart.TargetScreen)
	require.InDelta(t, 10, got.FontSize, 1e-9)
}

func TestComputeOverflowRisk(t *testing.T) {
	spec := sampleSpec(chart.KindColumn)
	spec.Data.Series = spec.Data.Series[:1]

	roomy := Compute(spec, chart.GridConfig{}, geom.Size{W: 2000, H: 1200}, chart.TargetScreen)
	require.False(t, roomy.OverflowRisk.HasRisk)

	crowded := spec
	crowded.Data = chart.Data{Series: []chart.Series{{Name: "count"}}}
	for i := range 40 {
		crowded.Data.Labels = append(crowded.Data.Labels, "category")
		crowded.Data.Series[0].Values = append(crowded.Data.Series[0].Values, float64(i))
	}
	tight := Compute(crowded, chart.GridConfig{}, geom.Size{W: 120, H: 80}, chart.TargetScreen)
	require.True(t, tight.OverflowRisk.HasRisk)
	require.Less(t, tight.OverflowRisk.Scale, tight.OverflowRisk.Floor)
}

func TestComputeLegend(t *testing.T) {
	chk := require.New(t)
	spec := sampleSpec(chart.KindLine)

	got := Compute(spec, chart.GridConfig{}, geom.Size{W: 800, H: 500}, chart.TargetScreen)
	chk.NotNil(got.Zones.Legend, "multi-series charts default to a bottom legend")
	chk.Len(got.Legend, 3)
	chk.GreaterOrEqual(got.Zones.Legend.Y, got.Zones.Plot.Bottom())

	spec.Style.Legend = chart.LegendNone
	got = Compute(spec, chart.GridConfig{}, geom.Size{W: 800, H: 500}, chart.TargetScreen)
	chk.Nil(got.Zones.Legend)
	chk.Empty(got.Legend)
}

func TestComputeWithConfig(t *testing.T) {
	spec := sampleSpec(chart.KindColumn)
	spec.Data.Series = spec.Data.Series[:1]
	size := geom.Size{W: 900, H: 900}

	cfg := DefaultConfig()
	cfg.Cartesian.GraphBody = 400
	got := Compute(spec, chart.GridConfig{}, size, chart.TargetScreen, WithConfig(cfg))
	require.InDelta(t, 400, got.Zones.Plot.Height, 1e-9)

	// A zero config falls back to the defaults.
	got = Compute(spec, chart.GridConfig{}, size, chart.TargetScreen, WithConfig(Config{}))
	require.InDelta(t, DefaultConfig().Cartesian.GraphBody, got.Zones.Plot.Height, 1e-9)
}

func TestComputePaletteSize(t *testing.T) {
	pie := Compute(sampleSpec(chart.KindPie), chart.GridConfig{}, geom.Size{W: 500, H: 500}, chart.TargetScreen)
	require.Len(t, pie.Palette, 4)

	col := Compute(sampleSpec(chart.KindColumn), chart.GridConfig{}, geom.Size{W: 500, H: 500}, chart.TargetScreen)
	require.Len(t, col.Palette, 3)

	spec := sampleSpec(chart.KindPie)
	spec.Style.Palette = []string{"#000000", "#ffffff"}
	custom := Compute(spec, chart.GridConfig{}, geom.Size{W: 500, H: 500}, chart.TargetScreen)
	require.Equal(t, []string{"#000000", "#ffffff", "#000000", "#ffffff"}, custom.Palette)
	require.Equal(t, "#ffffff", custom.Radial.Slices[1].Fill)
}
