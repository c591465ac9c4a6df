package sink

import (
	"strings"
	"testing"

	"github.com/matzehuels/chartlayout/pkg/errors"
)

func TestNewEffectDeterministic(t *testing.T) {
	a := NewEffect(EffectGlass, "#66c2a5", 0)
	b := NewEffect(EffectGlass, "#66c2a5", 0)
	if a != b {
		t.Errorf("NewEffect() not deterministic: %v vs %v", a, b)
	}
	if !strings.HasPrefix(a.ID, "fx-") {
		t.Errorf("ID = %q, want fx- prefix", a.ID)
	}

	for _, other := range []Effect{
		NewEffect(EffectGlass, "#66c2a5", 1),
		NewEffect(EffectGlass, "#fc8d62", 0),
		NewEffect(EffectGradient, "#66c2a5", 0),
	} {
		if other.ID == a.ID {
			t.Errorf("%v shares id with %v", other, a)
		}
	}
}

func TestEffects(t *testing.T) {
	palette := []string{"#111111", "#222222", "#111111"}

	if got := Effects(EffectNone, palette, 0); got != nil {
		t.Errorf("Effects(none) = %v, want nil", got)
	}
	if got := Effects(EffectGradient, palette, 0); len(got) != 2 {
		t.Errorf("Effects(gradient) = %d entries, want one per distinct colour", len(got))
	}
	if got := Effects(EffectShadow, palette, 0); len(got) != 1 {
		t.Errorf("Effects(shadow) = %d entries, want 1", len(got))
	}
}

func TestEffectAttrs(t *testing.T) {
	tests := []struct {
		e    Effect
		want string
	}{
		{Effect{Color: "#abcdef"}, `fill="#abcdef"`},
		{Effect{Kind: EffectGlass, Color: "#abcdef", ID: "fx-1"}, `fill="url(#fx-1)"`},
		{Effect{Kind: EffectShadow, Color: "#abcdef", ID: "fx-2"}, `fill="#abcdef" filter="url(#fx-2)"`},
	}
	for _, tt := range tests {
		if got := tt.e.Attrs(); got != tt.want {
			t.Errorf("Attrs() = %s, want %s", got, tt.want)
		}
	}
}

func TestParseEffect(t *testing.T) {
	for _, name := range []string{"", "none", "glass", "gradient", "shadow"} {
		if _, err := ParseEffect(name); err != nil {
			t.Errorf("ParseEffect(%q) error: %v", name, err)
		}
	}
	_, err := ParseEffect("sparkle")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ParseEffect(sparkle) error = %v, want INVALID_INPUT", err)
	}
}

func TestBlend(t *testing.T) {
	if got := blend("#000000", "#ffffff", 0); got != "#000000" {
		t.Errorf("blend(t=0) = %s", got)
	}
	if got := blend("#000000", "#ffffff", 1); got != "#ffffff" {
		t.Errorf("blend(t=1) = %s", got)
	}
	if got := blend("teal", "#ffffff", 0.5); got != "teal" {
		t.Errorf("blend(unparseable) = %s, want input", got)
	}
}
