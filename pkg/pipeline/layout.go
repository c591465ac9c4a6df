package pipeline

import (
	"github.com/matzehuels/chartlayout/pkg/chart"
	"github.com/matzehuels/chartlayout/pkg/layout"
	"github.com/matzehuels/chartlayout/pkg/layout/geom"
)

// =============================================================================
// Layout Generation
// =============================================================================

// ComputeLayout lays out spec with the container and target of opts. It
// is the uncached core of [Runner.ComputeLayout]; opts should already be
// validated.
func ComputeLayout(spec chart.Spec, grid chart.GridConfig, opts Options) layout.ComputedLayout {
	size := geom.Size{W: opts.Width, H: opts.Height}
	return layout.Compute(spec, grid, size, chart.Target(opts.Target), opts.layoutOptions()...)
}

// ContainerFromGrid returns the pixel size of a colSpan×rowSpan block of
// grid cells, for callers that size charts from a print grid rather than
// explicit pixels.
func ContainerFromGrid(grid chart.GridConfig, colSpan, rowSpan int) (float64, float64) {
	s := grid.CellSize(colSpan, rowSpan)
	return s.W, s.H
}
