package layout

import (
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/plot/palette/brewer"
)

// defaultPaletteName is the ColorBrewer scheme used when a spec has no
// palette of its own.
const defaultPaletteName = "Set2"

// fallbackPalette is Set2 itself, used if the brewer table cannot serve it.
var fallbackPalette = []string{
	"#66c2a5", "#fc8d62", "#8da0cb", "#e78ac3",
	"#a6d854", "#ffd92f", "#e5c494", "#b3b3b3",
}

var defaultPalette = loadPalette(defaultPaletteName, len(fallbackPalette))

func loadPalette(name string, n int) []string {
	p, err := brewer.GetPalette(brewer.TypeQualitative, name, n)
	if err != nil {
		return fallbackPalette
	}
	out := make([]string, 0, n)
	for _, c := range p.Colors() {
		cf, ok := colorful.MakeColor(c)
		if !ok {
			return fallbackPalette
		}
		out = append(out, cf.Hex())
	}
	return out
}

// Palette returns n fill colours: the spec palette when it has entries,
// the default qualitative palette otherwise. Colours repeat cyclically.
func Palette(custom []string, n int) []string {
	src := custom
	if len(src) == 0 {
		src = defaultPalette
	}
	out := make([]string, n)
	for i := range out {
		out[i] = src[i%len(src)]
	}
	return out
}
