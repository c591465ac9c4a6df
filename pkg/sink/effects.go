package sink

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/chartlayout/pkg/errors"
)

// EffectKind names a visual filter applied to filled shapes.
type EffectKind string

const (
	EffectNone     EffectKind = "none"
	EffectGlass    EffectKind = "glass"
	EffectGradient EffectKind = "gradient"
	EffectShadow   EffectKind = "shadow"
)

// EffectKinds lists the supported effects.
var EffectKinds = []EffectKind{EffectNone, EffectGlass, EffectGradient, EffectShadow}

// ParseEffect maps a name to its kind. Empty means none.
func ParseEffect(s string) (EffectKind, error) {
	if s == "" {
		return EffectNone, nil
	}
	for _, k := range EffectKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return EffectNone, errors.New(errors.ErrCodeInvalidInput, "unknown effect %q (valid: none, glass, gradient, shadow)", s)
}

// Effect is a resolved effect descriptor. Gradients are defined per fill
// colour; a shadow is shared by every shape of one render.
type Effect struct {
	Kind  EffectKind `json:"kind"`
	Color string     `json:"color"`
	ID    string     `json:"id"`
}

var effectNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/matzehuels/chartlayout/effects"))

// NewEffect builds the descriptor for kind and colour in the given render
// instance. The id only depends on the three arguments.
func NewEffect(kind EffectKind, color string, instance int) Effect {
	name := string(kind) + "/" + strconv.Itoa(instance) + "/" + color
	id := uuid.NewSHA1(effectNamespace, []byte(name))
	return Effect{Kind: kind, Color: color, ID: "fx-" + id.String()}
}

// Attrs returns the SVG attributes that apply e to a shape filled with
// e.Color.
func (e Effect) Attrs() string {
	switch e.Kind {
	case EffectGlass, EffectGradient:
		return fmt.Sprintf(`fill="url(#%s)"`, e.ID)
	case EffectShadow:
		return fmt.Sprintf(`fill="%s" filter="url(#%s)"`, EscapeXML(e.Color), e.ID)
	default:
		return fmt.Sprintf(`fill="%s"`, EscapeXML(e.Color))
	}
}

// Effects returns the descriptors that a render of the given palette
// defines, in palette order. It returns nil for EffectNone.
func Effects(kind EffectKind, palette []string, instance int) []Effect {
	s := newEffectSet(kind, instance)
	for _, c := range palette {
		s.fill(c)
	}
	return s.order
}

// effectSet resolves fills to effects for one render, in first-use order.
type effectSet struct {
	kind     EffectKind
	instance int
	byColor  map[string]Effect
	order    []Effect
}

func newEffectSet(kind EffectKind, instance int) *effectSet {
	return &effectSet{kind: kind, instance: instance, byColor: make(map[string]Effect)}
}

// fill returns the fill attributes for color.
func (s *effectSet) fill(color string) string {
	if s.kind == EffectNone || s.kind == "" || color == "" {
		return Effect{Color: color}.Attrs()
	}
	key := color
	if s.kind == EffectShadow {
		key = ""
	}
	e, ok := s.byColor[key]
	if !ok {
		e = NewEffect(s.kind, key, s.instance)
		s.byColor[key] = e
		s.order = append(s.order, e)
	}
	e.Color = color
	return e.Attrs()
}

func (s *effectSet) writeDefs(buf *bytes.Buffer) {
	if len(s.order) == 0 {
		return
	}
	buf.WriteString("  <defs>\n")
	for _, e := range s.order {
		switch e.Kind {
		case EffectGlass:
			fmt.Fprintf(buf, `    <linearGradient id="%s" x1="0" y1="0" x2="0" y2="1">`+"\n", e.ID)
			fmt.Fprintf(buf, `      <stop offset="0" stop-color="%s"/>`+"\n", blend(e.Color, "#ffffff", 0.45))
			fmt.Fprintf(buf, `      <stop offset="0.5" stop-color="%s"/>`+"\n", blend(e.Color, "#ffffff", 0.1))
			fmt.Fprintf(buf, `      <stop offset="0.51" stop-color="%s"/>`+"\n", EscapeXML(e.Color))
			fmt.Fprintf(buf, `      <stop offset="1" stop-color="%s"/>`+"\n", blend(e.Color, "#000000", 0.15))
			buf.WriteString("    </linearGradient>\n")
		case EffectGradient:
			fmt.Fprintf(buf, `    <linearGradient id="%s" x1="0" y1="0" x2="1" y2="1">`+"\n", e.ID)
			fmt.Fprintf(buf, `      <stop offset="0" stop-color="%s"/>`+"\n", blend(e.Color, "#ffffff", 0.35))
			fmt.Fprintf(buf, `      <stop offset="1" stop-color="%s"/>`+"\n", EscapeXML(e.Color))
			buf.WriteString("    </linearGradient>\n")
		case EffectShadow:
			fmt.Fprintf(buf, `    <filter id="%s" x="-20%%" y="-20%%" width="140%%" height="140%%">`+"\n", e.ID)
			buf.WriteString(`      <feDropShadow dx="1.5" dy="2" stdDeviation="2" flood-color="#000000" flood-opacity="0.3"/>` + "\n")
			buf.WriteString("    </filter>\n")
		}
	}
	buf.WriteString("  </defs>\n")
}

// blend mixes a towards b in Lab space. Unparseable colours are returned
// unchanged.
func blend(a, b string, t float64) string {
	ca, err := colorful.Hex(a)
	if err != nil {
		return EscapeXML(a)
	}
	cb, err := colorful.Hex(b)
	if err != nil {
		return EscapeXML(a)
	}
	return ca.BlendLab(cb, t).Clamped().Hex()
}
