// Package overflow flags layouts whose content would have to shrink below a
// legibility floor to fit the available space.
package overflow

import (
	"math"

	"github.com/matzehuels/chartlayout/pkg/layout/geom"
)

// Legibility floors per target. Print is stricter because small type
// degrades more on paper than on screen.
const (
	ScreenFloor = 0.6
	PrintFloor  = 0.75
)

// Risk is the advisory result of Detect.
type Risk struct {
	HasRisk bool `json:"hasRisk"`
	// Scale is the factor content must be multiplied by to fit; values
	// above 1 mean there is spare room.
	Scale float64 `json:"scale"`
	Floor float64 `json:"floor"`
}

// Detect compares the natural content size to the available size. A
// natural dimension of zero never constrains the scale. A zero available
// size with non-zero content is reported as a risk with scale 0.
func Detect(natural, available geom.Size, floor float64) Risk {
	scale := math.Inf(1)
	if natural.W > 0 {
		scale = math.Min(scale, math.Max(0, available.W)/natural.W)
	}
	if natural.H > 0 {
		scale = math.Min(scale, math.Max(0, available.H)/natural.H)
	}
	if math.IsInf(scale, 1) {
		scale = 1
	}
	return Risk{HasRisk: scale < floor, Scale: scale, Floor: floor}
}

// FromScale builds a Risk from an already computed scale factor.
func FromScale(scale, floor float64) Risk {
	return Risk{HasRisk: scale < floor, Scale: scale, Floor: floor}
}
