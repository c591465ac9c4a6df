// Package geom defines the small set of 2-D value types shared by every
// layout package: points, sizes, rectangles and margins.
//
// All coordinates use the SVG convention: the origin is the top-left corner
// of the canvas, x grows to the right and y grows downward.
package geom

import "math"

// Point is a position on the canvas.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a width/height pair.
type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Empty reports whether either dimension is non-positive.
func (s Size) Empty() bool { return s.W <= 0 || s.H <= 0 }

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RectFromCenter builds a rectangle of the given size centred on c.
func RectFromCenter(c Point, w, h float64) Rect {
	return Rect{X: c.X - w/2, Y: c.Y - h/2, Width: w, Height: h}
}

func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Bottom() float64 { return r.Y + r.Height }
func (r Rect) Area() float64   { return r.Width * r.Height }
func (r Rect) Size() Size      { return Size{W: r.Width, H: r.Height} }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Intersects reports whether r and o overlap. The test is strict, so two
// rectangles that only share an edge do not intersect.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() &&
		r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Within reports whether r lies entirely inside a container of size s
// whose top-left corner is the origin.
func (r Rect) Within(s Size) bool {
	return r.X >= 0 && r.Y >= 0 && r.Right() <= s.W && r.Bottom() <= s.H
}

// Inset shrinks r by m. Width and height never go below zero.
func (r Rect) Inset(m Margins) Rect {
	return Rect{
		X:      r.X + m.Left,
		Y:      r.Y + m.Top,
		Width:  math.Max(0, r.Width-m.Left-m.Right),
		Height: math.Max(0, r.Height-m.Top-m.Bottom),
	}
}

// Margins are the four outer paddings around a plot area.
type Margins struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Horizontal returns Left+Right.
func (m Margins) Horizontal() float64 { return m.Left + m.Right }

// Vertical returns Top+Bottom.
func (m Margins) Vertical() float64 { return m.Top + m.Bottom }

// Scale multiplies every side by f.
func (m Margins) Scale(f float64) Margins {
	return Margins{Top: m.Top * f, Right: m.Right * f, Bottom: m.Bottom * f, Left: m.Left * f}
}

// Polar returns the point at radius r and angle a around c. Angle zero is
// 12 o'clock and angles grow clockwise.
func Polar(c Point, r, a float64) Point {
	return Point{X: c.X + r*math.Sin(a), Y: c.Y - r*math.Cos(a)}
}
