package world

// Rect is an axis-aligned rectangle of tiles spanning [X1,X2] x [Y1,Y2].
// Rooms store their outer corners; the carved interior is X1+1..X2, Y1+1..Y2.
type Rect struct {
	X1, Y1, X2, Y2 int
}

// NewRect creates a rectangle from a corner and a size
func NewRect(x, y, w, h int) Rect {
	return Rect{X1: x, Y1: y, X2: x + w, Y2: y + h}
}

// Width returns the horizontal extent
func (r Rect) Width() int { return r.X2 - r.X1 }

// Height returns the vertical extent
func (r Rect) Height() int { return r.Y2 - r.Y1 }

// Area returns the number of tiles covered by the rectangle's extent
func (r Rect) Area() int { return r.Width() * r.Height() }

// Valid reports whether the rectangle has positive extent on both axes
func (r Rect) Valid() bool {
	return r.X2 > r.X1 && r.Y2 > r.Y1
}

// Intersect returns true if the two rectangles overlap
func (r Rect) Intersect(other Rect) bool {
	return r.X1 <= other.X2 && r.X2 >= other.X1 && r.Y1 <= other.Y2 && r.Y2 >= other.Y1
}

// Center returns the rectangle's center point
func (r Rect) Center() (int, int) {
	return (r.X1 + r.X2) / 2, (r.Y1 + r.Y2) / 2
}

// Contains returns true if the point lies inside the carved interior
func (r Rect) Contains(x, y int) bool {
	return x > r.X1 && x <= r.X2 && y > r.Y1 && y <= r.Y2
}

// Expand returns a copy grown by n tiles on every side
func (r Rect) Expand(n int) Rect {
	return Rect{X1: r.X1 - n, Y1: r.Y1 - n, X2: r.X2 + n, Y2: r.Y2 + n}
}
