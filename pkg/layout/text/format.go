package text

import (
	"fmt"
	"math"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/matzehuels/chartlayout/pkg/chart"
)

// Text colours picked by Contrast.
const (
	DarkText  = "#1a1a1a"
	LightText = "#ffffff"
)

// luminanceThreshold is the relative luminance at which black and white
// text have equal contrast against the fill.
const luminanceThreshold = 0.179

// groupPrinter formats numbers with thousands separators. Output is the same
// for every caller; only the English grouping convention is supported.
var groupPrinter = message.NewPrinter(language.English)

// FormatValue renders v according to f.
func FormatValue(v float64, f chart.NumberFormat) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}

	decimals := 0
	switch {
	case f.Decimals != nil:
		decimals = max(0, *f.Decimals)
	case v != math.Trunc(v):
		decimals = 1
	}

	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	// Avoid "-0" after rounding.
	if sign != "" && math.Round(v*math.Pow10(decimals)) == 0 {
		sign = ""
	}

	var num string
	if f.Grouping {
		num = groupPrinter.Sprintf("%.*f", decimals, v)
	} else {
		num = strconv.FormatFloat(v, 'f', decimals, 64)
	}

	out := sign + f.Prefix + num
	if f.Percent {
		out += "%"
	}
	return out + f.Suffix
}

// FormatPercent renders a share in percent with the given precision.
func FormatPercent(pct float64, decimals int) string {
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return ""
	}
	return fmt.Sprintf("%.*f%%", max(0, decimals), pct)
}

// Contrast returns a text colour readable on the given fill. Unparseable
// fills get dark text.
func Contrast(fill string) string {
	c, err := colorful.Hex(fill)
	if err != nil {
		return DarkText
	}
	r, g, b := c.LinearRgb()
	if 0.2126*r+0.7152*g+0.0722*b > luminanceThreshold {
		return DarkText
	}
	return LightText
}
