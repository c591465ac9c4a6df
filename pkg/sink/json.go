package sink

import (
	"encoding/json"

	"github.com/matzehuels/chartlayout/pkg/layout"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	effect   EffectKind
	instance int
}

// WithJSONEffect records the effect descriptors a painter should apply,
// with the same ids [RenderSVG] would use for that instance.
func WithJSONEffect(kind EffectKind, instance int) JSONOption {
	return func(r *jsonRenderer) { r.effect, r.instance = kind, instance }
}

type jsonOutput struct {
	layout.ComputedLayout
	Effects []Effect `json:"effects,omitempty"`
}

// RenderJSON exports the layout, and optionally its effects, as indented
// JSON.
func RenderJSON(l layout.ComputedLayout, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{effect: EffectNone}
	for _, opt := range opts {
		opt(&r)
	}
	out := jsonOutput{
		ComputedLayout: l,
		Effects:        Effects(r.effect, l.Palette, r.instance),
	}
	return json.MarshalIndent(out, "", "  ")
}
