package place

import (
	"testing"

	"github.com/matzehuels/chartlayout/pkg/layout/geom"
	"github.com/matzehuels/chartlayout/pkg/layout/text"
)

func TestLabelBox(t *testing.T) {
	m := text.DefaultMetrics()
	base := Label{X: 100, Y: 50, Lines: []string{"abcd"}, FormattedValue: "12", FontSize: 10}

	tests := []struct {
		anchor Anchor
		want   geom.Rect
	}{
		{Start, geom.Rect{X: 100, Y: 38, Width: 22, Height: 24}},
		{Middle, geom.Rect{X: 89, Y: 38, Width: 22, Height: 24}},
		{End, geom.Rect{X: 78, Y: 38, Width: 22, Height: 24}},
	}

	for _, tt := range tests {
		t.Run(string(tt.anchor), func(t *testing.T) {
			l := base
			l.TextAnchor = tt.anchor
			got := l.Box(m)
			if !near(got, tt.want) {
				t.Errorf("Box() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLabelBlock(t *testing.T) {
	l := Label{Lines: []string{"a", "b"}}
	if got := l.Block(); len(got) != 2 {
		t.Errorf("Block() = %v, want 2 lines", got)
	}
	l.FormattedValue = "3"
	if got := l.Block(); len(got) != 3 || got[2] != "3" {
		t.Errorf("Block() = %v, want value last", got)
	}
	if len(l.Lines) != 2 {
		t.Error("Block() must not modify Lines")
	}
}

func TestLabelHide(t *testing.T) {
	l := Label{Strategy: Internal}
	l.Hide()
	if l.Visible() {
		t.Error("hidden label reports visible")
	}
}

func near(a, b geom.Rect) bool {
	const eps = 1e-9
	d := func(x, y float64) bool { return x-y < eps && y-x < eps }
	return d(a.X, b.X) && d(a.Y, b.Y) && d(a.Width, b.Width) && d(a.Height, b.Height)
}

func TestSpread(t *testing.T) {
	m := text.DefaultMetrics()
	a := &Label{Y: 100, Lines: []string{"a"}, FontSize: 10}
	b := &Label{Y: 102, Lines: []string{"b"}, FontSize: 10}
	c := &Label{Y: 395, Lines: []string{"c"}, FontSize: 10}

	Spread([]*Label{c, b, a}, 0, 400, m)

	labels := []*Label{a, b, c}
	for i := 1; i < len(labels); i++ {
		if labels[i-1].Box(m).Intersects(labels[i].Box(m)) {
			t.Errorf("labels %d and %d still overlap", i-1, i)
		}
	}
	if got := c.Box(m).Bottom(); got > 400+1e-9 {
		t.Errorf("bottom label ends at %v, want <= 400", got)
	}
	if a.Y != 100 {
		t.Errorf("top label moved to %v, want 100", a.Y)
	}
}
