// Package collide decides which of a set of candidate labels can be shown
// without overlapping each other.
//
// Labels are never moved or resized; the resolver only flips visibility.
// Higher priority labels claim space first, so when two labels collide the
// less important one is hidden.
package collide

import (
	"cmp"
	"slices"

	"github.com/matzehuels/chartlayout/pkg/layout/geom"
)

// Label is a candidate text box.
type Label struct {
	ID       string    `json:"id"`
	Box      geom.Rect `json:"box"`
	Text     string    `json:"text,omitempty"`
	Priority float64   `json:"priority"`
	// Visible is set by Resolve.
	Visible bool `json:"visible"`
	// Overflows is set by Resolve when Box extends past the container.
	// It does not affect visibility.
	Overflows bool `json:"overflows,omitempty"`
}

// Resolve returns a copy of labels with Visible and Overflows decided.
//
// Candidates are visited by descending priority, ties in input order, and
// accepted when they intersect no previously accepted box (touching edges
// are not a collision). The result keeps the input order. A zero container
// skips the overflow check.
func Resolve(labels []Label, container geom.Size) []Label {
	out := slices.Clone(labels)

	order := make([]int, len(out))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(out[b].Priority, out[a].Priority)
	})

	placed := make([]geom.Rect, 0, len(out))
	for _, i := range order {
		l := &out[i]
		l.Overflows = !container.Empty() && !l.Box.Within(container)
		l.Visible = !collides(l.Box, placed)
		if l.Visible {
			placed = append(placed, l.Box)
		}
	}
	return out
}

func collides(box geom.Rect, placed []geom.Rect) bool {
	for _, p := range placed {
		if box.Intersects(p) {
			return true
		}
	}
	return false
}

// Visible returns the visible subset of labels, in order.
func Visible(labels []Label) []Label {
	out := make([]Label, 0, len(labels))
	for _, l := range labels {
		if l.Visible {
			out = append(out, l)
		}
	}
	return out
}
