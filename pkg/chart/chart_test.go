package chart

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/chartlayout/pkg/errors"
)

func intPtr(i int) *int { return &i }

func TestDataValueRaggedSeries(t *testing.T) {
	d := Data{
		Labels: []string{"a", "b", "c"},
		Series: []Series{{Name: "s", Values: []float64{1, 2}}, {Name: "odd", Values: []float64{math.NaN(), math.Inf(1), math.Inf(-1)}}},
	}

	tests := []struct {
		name   string
		series int
		index  int
		want   float64
	}{
		{"in range", 0, 1, 2},
		{"short series", 0, 2, 0},
		{"missing series", 3, 0, 0},
		{"negative index", 0, -1, 0},
		{"NaN", 1, 0, 0},
		{"+Inf", 1, 1, 0},
		{"-Inf", 1, 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.Value(tt.series, tt.index); got != tt.want {
				t.Errorf("Value(%d, %d) = %v, want %v", tt.series, tt.index, got, tt.want)
			}
		})
	}

	if got := d.Primary(); len(got) != 3 || got[2] != 0 {
		t.Errorf("Primary() = %v, want padded to 3 values", got)
	}
}

func TestKindFamily(t *testing.T) {
	tests := []struct {
		kind Kind
		want Family
	}{
		{KindBar, FamilyCartesian},
		{KindScatter, FamilyCartesian},
		{KindPie, FamilyRadial},
		{KindDonut, FamilyRadial},
		{KindTreemap, FamilyArea},
		{Kind("unknown"), FamilyCartesian},
	}

	for _, tt := range tests {
		if got := tt.kind.Family(); got != tt.want {
			t.Errorf("%s.Family() = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestLegendOrDefault(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		want LegendPosition
	}{
		{"explicit", Spec{Kind: KindPie, Style: Style{Legend: LegendRight}}, LegendRight},
		{"pie", Spec{Kind: KindPie}, LegendBottom},
		{"single series column", Spec{Kind: KindColumn, Data: Data{Series: []Series{{}}}}, LegendNone},
		{"multi series column", Spec{Kind: KindColumn, Data: Data{Series: []Series{{}, {}}}}, LegendBottom},
		{"treemap", Spec{Kind: KindTreemap}, LegendNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.spec.LegendOrDefault(); got != tt.want {
				t.Errorf("LegendOrDefault() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSpecValidate(t *testing.T) {
	base := func() Spec {
		return Spec{
			Kind: KindColumn,
			Data: Data{
				Labels: []string{"a", "b"},
				Series: []Series{{Name: "s", Values: []float64{1, 2}}},
			},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Spec)
		code   errors.Code
	}{
		{"valid", func(*Spec) {}, ""},
		{"unknown kind", func(s *Spec) { s.Kind = "radar" }, errors.ErrCodeInvalidKind},
		{"bad mode", func(s *Spec) { s.Style.Mode = "poster" }, errors.ErrCodeInvalidMode},
		{"bad legend", func(s *Spec) { s.Style.Legend = "middle" }, errors.ErrCodeInvalidLegend},
		{"hero out of range", func(s *Spec) { s.Style.Hero = intPtr(5) }, errors.ErrCodeInvalidInput},
		{"bad decimals", func(s *Spec) { s.Style.Format.Decimals = intPtr(20) }, errors.ErrCodeInvalidFormat},
		{"scatter without y", func(s *Spec) { s.Kind = KindScatter }, errors.ErrCodeInvalidInput},
		{"donut thickness", func(s *Spec) { s.Style.DonutThickness = 2 }, errors.ErrCodeInvalidInput},
		{"NaN value", func(s *Spec) { s.Data.Series[0].Values[0] = math.NaN() }, errors.ErrCodeInvalidInput},
		{"infinite value", func(s *Spec) { s.Data.Series[0].Values[1] = math.Inf(1) }, errors.ErrCodeInvalidInput},
		{"NaN thickness", func(s *Spec) { s.Style.DonutThickness = math.NaN() }, errors.ErrCodeInvalidInput},
		{"NaN hero scale", func(s *Spec) { s.Style.HeroScale = math.NaN() }, errors.ErrCodeInvalidInput},
		{"NaN inner radius", func(s *Spec) { s.Style.InnerRadii = []float64{0.5, math.NaN()} }, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base()
			tt.mutate(&s)
			err := s.Validate()
			if tt.code == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("Validate() = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestGridFontSize(t *testing.T) {
	tests := []struct {
		name string
		grid GridConfig
		want float64
	}{
		{"default", GridConfig{}, DefaultBaseFontSize},
		{"px", GridConfig{BaseFontSize: 14}, 14},
		{"pt", GridConfig{BaseFontSize: 9, Unit: "pt"}, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.grid.FontSize(); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("FontSize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGridCellSize(t *testing.T) {
	g := GridConfig{Columns: 2, Rows: 2, Unit: "mm", Margin: 10, Gutter: 10, Page: Page{Size: "A4"}}

	one := g.CellSize(1, 1)
	two := g.CellSize(2, 1)
	gutter := g.ToPixels(10)

	if math.Abs(two.W-(2*one.W+gutter)) > 1e-6 {
		t.Errorf("CellSize(2,1).W = %v, want %v", two.W, 2*one.W+gutter)
	}

	page := g.PageSize()
	if math.Abs(two.W-(page.W-2*g.ToPixels(10))) > 1e-6 {
		t.Errorf("full-width span = %v, want page content width %v", two.W, page.W-2*g.ToPixels(10))
	}

	landscape := g
	landscape.Page.Orientation = "landscape"
	if landscape.PageSize().W <= landscape.PageSize().H {
		t.Error("landscape page should be wider than tall")
	}

	if got := g.CellSize(9, 9); got != g.CellSize(2, 2) {
		t.Errorf("CellSize should clamp spans, got %+v", got)
	}
}

func TestReadSpecFormats(t *testing.T) {
	jsonSpec := `{"kind":"pie","data":{"labels":["a","b"],"series":[{"name":"s","values":[1,2]}]},"style":{"format":{}}}`
	tomlSpec := `
kind = "pie"

[data]
labels = ["a", "b"]

[[data.series]]
name = "s"
values = [1.0, 2.0]
`

	fromJSON, err := ReadSpec(strings.NewReader(jsonSpec), FormatJSON)
	if err != nil {
		t.Fatalf("ReadSpec(json) error: %v", err)
	}
	fromTOML, err := ReadSpec(strings.NewReader(tomlSpec), FormatTOML)
	if err != nil {
		t.Fatalf("ReadSpec(toml) error: %v", err)
	}

	if fromJSON.Kind != KindPie || fromTOML.Kind != KindPie {
		t.Errorf("Kind = %v / %v, want pie", fromJSON.Kind, fromTOML.Kind)
	}
	if fromTOML.Data.Value(0, 1) != 2 {
		t.Errorf("toml value = %v, want 2", fromTOML.Data.Value(0, 1))
	}

	if _, err := ReadSpec(strings.NewReader(`{"kind":"pie","bogus":1}`), FormatJSON); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("unknown field error = %v, want %s", err, errors.ErrCodeInvalidFormat)
	}
}

func TestReadSpecNaNRejectedByValidate(t *testing.T) {
	spec, err := ReadSpec(strings.NewReader(`
kind = "column"

[data]
labels = ["a", "b"]

[[data.series]]
name = "s"
values = [nan, 3.0]
`), FormatTOML)
	if err != nil {
		t.Fatalf("ReadSpec(toml) error: %v", err)
	}
	if err := spec.Validate(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Validate() = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
	if got := spec.Data.Value(0, 0); got != 0 {
		t.Errorf("Value(0, 0) = %v, want 0", got)
	}
}

func TestDataFinite(t *testing.T) {
	d := Data{Series: []Series{{Name: "s", Values: []float64{math.NaN(), 2, math.Inf(-1)}}}}
	got := d.Finite()

	want := []float64{0, 2, 0}
	for i, v := range got.Series[0].Values {
		if v != want[i] {
			t.Errorf("Finite().Values[%d] = %v, want %v", i, v, want[i])
		}
	}
	if !math.IsNaN(d.Series[0].Values[0]) {
		t.Error("Finite() modified its receiver")
	}
	if (Data{}).Finite().Series != nil {
		t.Error("Finite() of empty data should keep nil series")
	}
}

func TestReadSpecFileMissing(t *testing.T) {
	_, err := ReadSpecFile(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ReadSpecFile() error = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestReadGridFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.toml")
	content := "base_font_size = 10\nunit = \"pt\"\ncolumns = 12\n\n[page]\nsize = \"A3\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	g, err := ReadGridFile(path)
	if err != nil {
		t.Fatalf("ReadGridFile() error: %v", err)
	}
	if g.Columns != 12 || g.Page.Size != "A3" {
		t.Errorf("ReadGridFile() = %+v", g)
	}
}
