package treemap

import (
	"math"

	"github.com/gammazero/deque"

	"github.com/matzehuels/chartlayout/pkg/layout/geom"
)

// Pack tiles bounds with one rectangle per value using the squarified
// algorithm of Bruls, Huizing and van Wijk, without sorting: rectangles
// follow input order, which keeps the map stable when values change.
//
// Areas are proportional to value and the rectangles of positive values
// cover bounds exactly. Non-positive values get a zero-size rectangle at
// the bounds origin.
func Pack(values []float64, bounds geom.Rect) []geom.Rect {
	out := make([]geom.Rect, len(values))
	for i := range out {
		out[i] = geom.Rect{X: bounds.X, Y: bounds.Y}
	}
	if bounds.Empty() {
		return out
	}

	var pending deque.Deque[int]
	remaining := 0.0
	for i, v := range values {
		if v > 0 && !math.IsInf(v, 0) {
			pending.PushBack(i)
			remaining += v
		}
	}

	free := bounds
	for pending.Len() > 0 {
		// Lay rows along the short side of the free space.
		vertical := free.Width >= free.Height
		short := free.Height
		if !vertical {
			short = free.Width
		}
		scale := free.Area() / remaining

		row := []int{pending.PopFront()}
		for pending.Len() > 0 {
			next := pending.Front()
			if worst(values, append(row, next), short, scale) > worst(values, row, short, scale) {
				break
			}
			row = append(row, pending.PopFront())
		}

		sum := 0.0
		for _, i := range row {
			sum += values[i]
		}
		last := pending.Len() == 0
		free = layoutRow(out, values, row, sum, sum/remaining, free, vertical, last)
		remaining -= sum
	}
	return out
}

// worst returns the largest aspect ratio in a row of the given items laid
// along a side of length short.
func worst(values []float64, row []int, short, scale float64) float64 {
	lo, hi, sum := math.Inf(1), 0.0, 0.0
	for _, i := range row {
		a := values[i] * scale
		lo = math.Min(lo, a)
		hi = math.Max(hi, a)
		sum += a
	}
	s2, w2 := sum*sum, short*short
	if s2 == 0 || lo == 0 {
		return math.Inf(1)
	}
	return math.Max(w2*hi/s2, s2/(w2*lo))
}

// layoutRow writes the rectangles of row into out and returns the free
// space left. The last row takes all remaining space, and the last item
// of a row takes the rest of the row, so rounding never leaves slivers.
func layoutRow(out []geom.Rect, values []float64, row []int, sum, share float64, free geom.Rect, vertical, last bool) geom.Rect {
	if vertical {
		w := free.Width * share
		if last {
			w = free.Width
		}
		y := free.Y
		for k, i := range row {
			h := free.Height * values[i] / sum
			if k == len(row)-1 {
				h = free.Bottom() - y
			}
			out[i] = geom.Rect{X: free.X, Y: y, Width: w, Height: h}
			y += h
		}
		return geom.Rect{X: free.X + w, Y: free.Y, Width: free.Width - w, Height: free.Height}
	}

	h := free.Height * share
	if last {
		h = free.Height
	}
	x := free.X
	for k, i := range row {
		w := free.Width * values[i] / sum
		if k == len(row)-1 {
			w = free.Right() - x
		}
		out[i] = geom.Rect{X: x, Y: free.Y, Width: w, Height: h}
		x += w
	}
	return geom.Rect{X: free.X, Y: free.Y + h, Width: free.Width, Height: free.Height - h}
}
