package errors

import (
	"math"
	"slices"
	"strings"
	"unicode"
)

// maxContainerSide bounds container dimensions accepted from the outside.
// 20000px is larger than an A0 sheet at 96 dpi.
const maxContainerSide = 20000.0

// ValidateContainer checks a container size supplied by a caller.
// Zero is accepted (the engine returns degenerate geometry); negative,
// NaN, infinite and absurdly large values are rejected.
func ValidateContainer(width, height float64) error {
	for _, v := range []float64{width, height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidSize, "container size must be finite")
		}
		if v < 0 {
			return New(ErrCodeInvalidSize, "container size cannot be negative (got %gx%g)", width, height)
		}
		if v > maxContainerSide {
			return New(ErrCodeInvalidSize, "container size too large (max %g px per side)", maxContainerSide)
		}
	}
	return nil
}

// ValidateFinite rejects NaN and infinite values. TOML and hand-built
// specs can carry them; the layout JSON cannot.
func ValidateFinite(field string, values ...float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			if len(values) == 1 {
				return New(ErrCodeInvalidInput, "%s must be finite (got %g)", field, v)
			}
			return New(ErrCodeInvalidInput, "%s[%d] must be finite (got %g)", field, i, v)
		}
	}
	return nil
}

// ValidateEnum checks that value is one of allowed. An empty value is
// accepted when allowEmpty is set, meaning "use the default".
func ValidateEnum(code Code, field, value string, allowed []string, allowEmpty bool) error {
	if value == "" && allowEmpty {
		return nil
	}
	if slices.Contains(allowed, value) {
		return nil
	}
	return New(code, "invalid %s: %q (must be one of: %s)", field, value, strings.Join(allowed, ", "))
}

// ValidateIndex checks an optional index into a sequence of length n.
func ValidateIndex(field string, idx *int, n int) error {
	if idx == nil {
		return nil
	}
	if *idx < 0 || *idx >= n {
		return New(ErrCodeInvalidInput, "%s %d out of range [0, %d)", field, *idx, n)
	}
	return nil
}

// ValidateFontSize checks an optional font size in pixels.
// Zero means "derive from the grid".
func ValidateFontSize(size float64) error {
	if size == 0 {
		return nil
	}
	if math.IsNaN(size) || size < 4 || size > 200 {
		return New(ErrCodeInvalidInput, "font size %g out of range [4, 200]", size)
	}
	return nil
}

// ValidateLabel rejects labels containing control characters, which would
// break both the wrapping heuristics and the SVG output.
func ValidateLabel(label string) error {
	for _, r := range label {
		if r != '\n' && unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "label %q contains control characters", label)
		}
	}
	return nil
}

// ValidateFilename checks an output filename for safety.
// It must be a plain basename without path components.
func ValidateFilename(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "filename cannot be empty")
	}
	if strings.ContainsAny(name, "/\\\x00") {
		return New(ErrCodeInvalidInput, "filename cannot contain path separators")
	}
	if name == "." || name == ".." {
		return New(ErrCodeInvalidInput, "filename cannot be %q", name)
	}
	return nil
}
