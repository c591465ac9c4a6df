package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"path/filepath"
	"sync"
	"testing"

	"github.com/matzehuels/chartlayout/pkg/cache"
	"github.com/matzehuels/chartlayout/pkg/chart"
	"github.com/matzehuels/chartlayout/pkg/errors"
	"github.com/matzehuels/chartlayout/pkg/layout"
	"github.com/matzehuels/chartlayout/pkg/observability"
)

func testSpec() chart.Spec {
	return chart.Spec{
		Kind: chart.KindColumn,
		Data: chart.Data{
			Labels: []string{"Q1", "Q2", "Q3", "Q4"},
			Series: []chart.Series{{Name: "Revenue", Values: []float64{4, 7, 3, 9}}},
		},
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestSetDefaults(t *testing.T) {
	var o Options
	o.SetLayoutDefaults()
	o.SetRenderDefaults()

	if o.Width != DefaultWidth || o.Height != DefaultHeight {
		t.Errorf("size = %vx%v, want %vx%v", o.Width, o.Height, DefaultWidth, DefaultHeight)
	}
	if o.Target != string(DefaultTarget) {
		t.Errorf("Target = %q, want %q", o.Target, DefaultTarget)
	}
	if len(o.Formats) != 1 || o.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", o.Formats)
	}
	if o.Scale != 2 {
		t.Errorf("Scale = %v, want 2", o.Scale)
	}
	if o.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestValidateForLayout(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"negative width", Options{Width: -1}, errors.ErrCodeInvalidSize},
		{"huge height", Options{Height: 1e6}, errors.ErrCodeInvalidSize},
		{"unknown target", Options{Target: "paper"}, errors.ErrCodeInvalidTarget},
		{"missing config", Options{ConfigPath: filepath.Join(t.TempDir(), "nope.toml")}, errors.ErrCodeFileNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForLayout()
			if !errors.Is(err, tt.code) {
				t.Errorf("ValidateForLayout() error = %v, want %s", err, tt.code)
			}
		})
	}

	o := Options{Target: "print"}
	if err := o.ValidateForLayout(); err != nil {
		t.Errorf("ValidateForLayout(print) error = %v", err)
	}
}

func TestValidateForRender(t *testing.T) {
	o := Options{Effect: "sparkle"}
	if err := o.ValidateForRender(); err == nil {
		t.Error("unknown effect should fail")
	}
	o = Options{Formats: []string{"svg", "gif"}}
	if err := o.ValidateForRender(); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("ValidateForRender() error = %v, want INVALID_FORMAT", err)
	}
	o = Options{Effect: "glass", Formats: []string{"svg", "json"}}
	if err := o.ValidateForRender(); err != nil {
		t.Errorf("ValidateForRender() error = %v", err)
	}
}

func TestLayoutKeyOpts(t *testing.T) {
	o := Options{Width: 640, Height: 480, Target: "screen"}
	plain := o.LayoutKeyOpts()
	if plain.ConfigHash != "" {
		t.Errorf("ConfigHash = %q without config, want empty", plain.ConfigHash)
	}

	cfg := layout.DefaultConfig()
	o.Config = &cfg
	a := o.LayoutKeyOpts()
	cfg.Cartesian.GraphBody = 999
	b := o.LayoutKeyOpts()
	if a.ConfigHash == "" || a.ConfigHash == b.ConfigHash {
		t.Errorf("config hashes %q and %q should be set and differ", a.ConfigHash, b.ConfigHash)
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	o := Options{Scale: 3, Instance: 2}
	if k := o.ArtifactKeyOpts(FormatSVG); k.Scale != 0 || k.Instance != 0 {
		t.Errorf("svg key = %+v, want no scale and no instance", k)
	}
	if k := o.ArtifactKeyOpts(FormatPNG); k.Scale != 3 {
		t.Errorf("png key scale = %v, want 3", k.Scale)
	}
	o.Effect = "glass"
	if k := o.ArtifactKeyOpts(FormatSVG); k.Instance != 2 {
		t.Errorf("effect key instance = %d, want 2", k.Instance)
	}
}

func TestRunnerLayoutCache(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(cache.NewMemoryCache(0), nil, nil)
	defer r.Close()

	opts := Options{Width: 640, Height: 400}
	first, hit, err := r.ComputeLayoutWithCacheInfo(ctx, testSpec(), chart.GridConfig{}, opts)
	if err != nil {
		t.Fatalf("ComputeLayoutWithCacheInfo() error: %v", err)
	}
	if hit {
		t.Error("first call should miss")
	}

	second, hit, err := r.ComputeLayoutWithCacheInfo(ctx, testSpec(), chart.GridConfig{}, opts)
	if err != nil {
		t.Fatalf("ComputeLayoutWithCacheInfo() error: %v", err)
	}
	if !hit {
		t.Error("second call should hit")
	}
	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if !bytes.Equal(a, b) {
		t.Error("cached layout differs from the computed one")
	}

	opts.Width = 500
	if _, hit, _ := r.ComputeLayoutWithCacheInfo(ctx, testSpec(), chart.GridConfig{}, opts); hit {
		t.Error("a different container must not hit")
	}

	opts.Width = 640
	opts.Refresh = true
	if _, hit, _ := r.ComputeLayoutWithCacheInfo(ctx, testSpec(), chart.GridConfig{}, opts); hit {
		t.Error("refresh must skip the cache")
	}
}

func TestRunnerRenderCache(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(cache.NewMemoryCache(0), nil, nil)
	opts := Options{Width: 640, Height: 400, Formats: []string{FormatSVG, FormatJSON}}

	l, err := r.ComputeLayout(ctx, testSpec(), chart.GridConfig{}, opts)
	if err != nil {
		t.Fatalf("ComputeLayout() error: %v", err)
	}

	first, hit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		t.Fatalf("RenderWithCacheInfo() error: %v", err)
	}
	if hit {
		t.Error("first render should miss")
	}
	if len(first[FormatSVG]) == 0 || len(first[FormatJSON]) == 0 {
		t.Fatalf("missing artifacts: %v", first)
	}

	second, hit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		t.Fatalf("RenderWithCacheInfo() error: %v", err)
	}
	if !hit {
		t.Error("second render should hit")
	}
	if !bytes.Equal(first[FormatSVG], second[FormatSVG]) {
		t.Error("cached svg differs")
	}

	opts.Debug = true
	if _, hit, _ := r.RenderWithCacheInfo(ctx, l, opts); hit {
		t.Error("debug render must not reuse the plain artifact")
	}
}

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), testSpec(), chart.GridConfig{}, Options{Formats: []string{FormatJSON}})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if res.Layout.Cartesian == nil || len(res.Layout.Cartesian.Bars) != 4 {
		t.Errorf("unexpected layout: %+v", res.Layout)
	}
	if res.Layout.Container.W != DefaultWidth {
		t.Errorf("container width = %v, want default", res.Layout.Container.W)
	}
	if res.Stats.Points != 4 {
		t.Errorf("Points = %d, want 4", res.Stats.Points)
	}
	if _, ok := res.Artifacts[FormatJSON]; !ok {
		t.Error("json artifact missing")
	}

	_, err = r.Execute(context.Background(), testSpec(), chart.GridConfig{}, Options{Formats: []string{"gif"}})
	if err == nil {
		t.Error("invalid format should fail")
	}
}

func TestExecuteNonFiniteValues(t *testing.T) {
	spec := testSpec()
	spec.Data.Series[0].Values = []float64{math.NaN(), 7, math.Inf(1), 9}

	r := NewRunner(cache.NewMemoryCache(0), nil, nil)
	res, err := r.Execute(context.Background(), spec, chart.GridConfig{}, Options{Formats: []string{FormatJSON, FormatSVG}})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	for i, b := range res.Layout.Cartesian.Bars {
		if math.IsNaN(b.Rect.Y) || math.IsNaN(b.Rect.Height) {
			t.Errorf("bar %d has NaN geometry: %+v", i, b.Rect)
		}
	}
	if !math.IsNaN(spec.Data.Series[0].Values[0]) {
		t.Error("Execute() modified the caller's spec")
	}
}

func TestExecuteSpecEffect(t *testing.T) {
	spec := testSpec()
	spec.Style.Effect = "glass"
	r := NewRunner(nil, nil, nil)

	res, err := r.Execute(context.Background(), spec, chart.GridConfig{}, Options{})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !bytes.Contains(res.Artifacts[FormatSVG], []byte("<linearGradient")) {
		t.Error("spec effect not applied")
	}

	res, err = r.Execute(context.Background(), spec, chart.GridConfig{}, Options{Effect: "none"})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if bytes.Contains(res.Artifacts[FormatSVG], []byte("<linearGradient")) {
		t.Error("explicit effect should override the spec")
	}
}

// =============================================================================
// Export
// =============================================================================

type recordingHooks struct {
	observability.NoopPipelineHooks

	mu     sync.Mutex
	events []string
	ready  []int
}

func (h *recordingHooks) OnExportReady(_ context.Context, index, _ int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, "ready")
	h.ready = append(h.ready, index)
}

func (h *recordingHooks) OnRenderStart(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, "render")
}

func TestExportBarrier(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	jobs := make([]Job, 6)
	for i := range jobs {
		spec := testSpec()
		spec.Data.Series[0].Values[0] = float64(i + 1)
		jobs[i] = Job{Spec: spec, Options: Options{Width: 320, Height: 240, Formats: []string{FormatSVG}}}
	}

	var mu sync.Mutex
	var counts []int
	r := NewRunner(nil, nil, nil)
	results, err := r.Export(context.Background(), jobs, ExportOptions{
		Concurrency: 3,
		OnReady: func(_, ready, total int) {
			mu.Lock()
			counts = append(counts, ready)
			mu.Unlock()
			if total != len(jobs) {
				t.Errorf("total = %d, want %d", total, len(jobs))
			}
		},
	})
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	if len(results) != len(jobs) {
		t.Fatalf("results = %d, want %d", len(results), len(jobs))
	}

	// Every chart is ready before the first capture.
	if len(hooks.events) != 2*len(jobs) {
		t.Fatalf("events = %v", hooks.events)
	}
	for i, e := range hooks.events {
		want := "ready"
		if i >= len(jobs) {
			want = "render"
		}
		if e != want {
			t.Fatalf("event %d = %s, want %s: %v", i, e, want, hooks.events)
		}
	}

	seen := map[int]bool{}
	for _, i := range hooks.ready {
		seen[i] = true
	}
	if len(seen) != len(jobs) {
		t.Errorf("ready indices = %v, want each job once", hooks.ready)
	}
	if len(counts) != len(jobs) {
		t.Errorf("OnReady called %d times, want %d", len(counts), len(jobs))
	}

	// Results keep input order.
	for i, res := range results {
		if got := res.Layout.Cartesian.Bars[0].Value; got != float64(i+1) {
			t.Errorf("result %d has first value %v, want %v", i, got, i+1)
		}
		if len(res.Artifacts[FormatSVG]) == 0 {
			t.Errorf("result %d has no svg", i)
		}
	}
}

func TestExportDistinctInstances(t *testing.T) {
	job := Job{Spec: testSpec(), Options: Options{Width: 320, Height: 240, Effect: "gradient"}}
	r := NewRunner(cache.NewMemoryCache(0), nil, nil)

	results, err := r.Export(context.Background(), []Job{job, job}, ExportOptions{})
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	if bytes.Equal(results[0].Artifacts[FormatSVG], results[1].Artifacts[FormatSVG]) {
		t.Error("charts of one export must not share effect ids")
	}
}

func TestExportFailure(t *testing.T) {
	jobs := []Job{
		{Name: "ok", Spec: testSpec()},
		{Name: "broken", Spec: testSpec(), Options: Options{Width: -10}},
	}
	r := NewRunner(nil, nil, nil)
	results, err := r.Export(context.Background(), jobs, ExportOptions{Concurrency: 1})
	if err == nil {
		t.Fatal("Export() should fail")
	}
	if !errors.Is(err, errors.ErrCodeInvalidSize) {
		t.Errorf("error = %v, want INVALID_SIZE", err)
	}
	if results != nil {
		t.Error("no results on failure")
	}
}

func TestExportEmpty(t *testing.T) {
	results, err := NewRunner(nil, nil, nil).Export(context.Background(), nil, ExportOptions{})
	if err != nil || len(results) != 0 {
		t.Errorf("Export(nil) = %v, %v", results, err)
	}
}

func TestContainerFromGrid(t *testing.T) {
	grid := chart.GridConfig{Columns: 12, Rows: 8, Page: chart.Page{Size: "A4"}}
	w1, h1 := ContainerFromGrid(grid, 1, 1)
	w2, h2 := ContainerFromGrid(grid, 2, 2)
	if !(w1 > 0 && h1 > 0) || !(w2 > 2*w1-1e-9) || !(h2 > 2*h1-1e-9) {
		t.Errorf("spans: 1x1 = %vx%v, 2x2 = %vx%v", w1, h1, w2, h2)
	}
}
