package builder

import (
	"math"
	"math/rand"

	"github.com/lawnchairsociety/delvegen/internal/world"
)

// Symmetry mirrors brush strokes around the map center
type Symmetry int

const (
	SymmetryNone Symmetry = iota
	SymmetryHorizontal
	SymmetryVertical
	SymmetryBoth
)

// interior reports whether (x, y) lies inside the one-tile wall border
func interior(m *world.Map, x, y int) bool {
	return x > 0 && x < m.Width-1 && y > 0 && y < m.Height-1
}

func carve(m *world.Map, x, y int) (int, bool) {
	if !interior(m, x, y) {
		return 0, false
	}
	idx := m.XYIdx(x, y)
	m.Tiles[idx] = world.TileFloor
	return idx, true
}

// applyRoomToMap carves the interior of a room rectangle
func applyRoomToMap(m *world.Map, r world.Rect) {
	for y := r.Y1 + 1; y <= r.Y2; y++ {
		for x := r.X1 + 1; x <= r.X2; x++ {
			carve(m, x, y)
		}
	}
}

func applyHorizontalTunnel(m *world.Map, x1, x2, y int) []int {
	var corridor []int
	for x := min(x1, x2); x <= max(x1, x2); x++ {
		wasWall := m.At(x, y) == world.TileWall
		if idx, ok := carve(m, x, y); ok && wasWall {
			corridor = append(corridor, idx)
		}
	}
	return corridor
}

func applyVerticalTunnel(m *world.Map, y1, y2, x int) []int {
	var corridor []int
	for y := min(y1, y2); y <= max(y1, y2); y++ {
		wasWall := m.At(x, y) == world.TileWall
		if idx, ok := carve(m, x, y); ok && wasWall {
			corridor = append(corridor, idx)
		}
	}
	return corridor
}

// drawCorridor walks from (x1, y1) to (x2, y2), closing the x gap first
func drawCorridor(m *world.Map, x1, y1, x2, y2 int) []int {
	var corridor []int
	x, y := x1, y1
	for x != x2 || y != y2 {
		switch {
		case x < x2:
			x++
		case x > x2:
			x--
		case y < y2:
			y++
		default:
			y--
		}
		wasWall := m.At(x, y) == world.TileWall
		if idx, ok := carve(m, x, y); ok && wasWall {
			corridor = append(corridor, idx)
		}
	}
	return corridor
}

// dogleg joins two points with an L-shaped tunnel of random orientation
func dogleg(rng *rand.Rand, m *world.Map, from, to Point) []int {
	var corridor []int
	if rng.Intn(2) == 1 {
		corridor = append(corridor, applyHorizontalTunnel(m, from.X, to.X, from.Y)...)
		corridor = append(corridor, applyVerticalTunnel(m, from.Y, to.Y, to.X)...)
	} else {
		corridor = append(corridor, applyVerticalTunnel(m, from.Y, to.Y, from.X)...)
		corridor = append(corridor, applyHorizontalTunnel(m, from.X, to.X, to.Y)...)
	}
	return corridor
}

// randomPointIn picks a random tile of a room's carved interior
func randomPointIn(rng *rand.Rand, r world.Rect) Point {
	return Point{
		X: r.X1 + 1 + rng.Intn(max(1, r.X2-r.X1)),
		Y: r.Y1 + 1 + rng.Intn(max(1, r.Y2-r.Y1)),
	}
}

func roomCenter(r world.Rect) Point {
	x, y := r.Center()
	return Point{X: x, Y: y}
}

// paint applies a brush at (x, y) and its mirrored positions
func paint(m *world.Map, mode Symmetry, brush, x, y int) {
	cx, cy := m.Width/2, m.Height/2
	switch mode {
	case SymmetryHorizontal:
		if x == cx {
			applyPaint(m, brush, x, y)
		} else {
			dx := abs(cx - x)
			applyPaint(m, brush, cx+dx, y)
			applyPaint(m, brush, cx-dx, y)
		}
	case SymmetryVertical:
		if y == cy {
			applyPaint(m, brush, x, y)
		} else {
			dy := abs(cy - y)
			applyPaint(m, brush, x, cy+dy)
			applyPaint(m, brush, x, cy-dy)
		}
	case SymmetryBoth:
		if x == cx && y == cy {
			applyPaint(m, brush, x, y)
		} else {
			dx, dy := abs(cx-x), abs(cy-y)
			applyPaint(m, brush, cx+dx, cy+dy)
			applyPaint(m, brush, cx-dx, cy+dy)
			applyPaint(m, brush, cx+dx, cy-dy)
			applyPaint(m, brush, cx-dx, cy-dy)
		}
	default:
		applyPaint(m, brush, x, y)
	}
}

func applyPaint(m *world.Map, brush, x, y int) {
	if brush <= 1 {
		carve(m, x, y)
		return
	}
	half := brush / 2
	for by := y - half; by < y+half; by++ {
		for bx := x - half; bx < x+half; bx++ {
			if bx > 1 && bx < m.Width-1 && by > 1 && by < m.Height-1 {
				carve(m, bx, by)
			}
		}
	}
}

// stagger moves one step in a random cardinal direction, staying off the border
func stagger(rng *rand.Rand, m *world.Map, x, y int) (int, int) {
	switch rng.Intn(4) {
	case 0:
		if x > 2 {
			x--
		}
	case 1:
		if x < m.Width-2 {
			x++
		}
	case 2:
		if y > 2 {
			y--
		}
	default:
		if y < m.Height-2 {
			y++
		}
	}
	return x, y
}

// rollDice returns the sum of n rolls of a die with the given sides
func rollDice(rng *rand.Rand, n, sides int) int {
	total := 0
	for i := 0; i < n; i++ {
		total += rng.Intn(sides) + 1
	}
	return total
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func distanceSquared(a, b Point) float64 {
	dx, dy := float64(a.X-b.X), float64(a.Y-b.Y)
	return dx*dx + dy*dy
}

func distance(a, b Point) float64 {
	return math.Sqrt(distanceSquared(a, b))
}

// floorTiles returns the indices of plain floor tiles in index order
func floorTiles(m *world.Map) []int {
	var out []int
	for i, t := range m.Tiles {
		if t == world.TileFloor {
			out = append(out, i)
		}
	}
	return out
}
