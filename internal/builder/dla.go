package builder

import (
	"math/rand"

	"github.com/lawnchairsociety/delvegen/internal/world"
)

// DLAAlgorithm picks how particles travel before sticking
type DLAAlgorithm int

const (
	DLAWalkInwards DLAAlgorithm = iota
	DLAWalkOutwards
	DLACentralAttractor
)

// DLASettings tunes diffusion-limited aggregation
type DLASettings struct {
	Algorithm    DLAAlgorithm
	BrushSize    int
	Symmetry     Symmetry
	FloorPercent float32
}

// DLA grows a cave by accreting random walkers onto a central seed
type DLA struct {
	Settings DLASettings
}

// NewDLA creates a DLA builder
func NewDLA(settings DLASettings) *DLA {
	return &DLA{Settings: settings}
}

// WalkInwards sticks walkers that wander in from afar
func WalkInwards() *DLA {
	return NewDLA(DLASettings{Algorithm: DLAWalkInwards, BrushSize: 1, FloorPercent: 0.25})
}

// WalkOutwards sticks walkers where they leave the existing cave
func WalkOutwards() *DLA {
	return NewDLA(DLASettings{Algorithm: DLAWalkOutwards, BrushSize: 2, FloorPercent: 0.25})
}

// CentralAttractor pulls walkers straight toward the seed
func CentralAttractor() *DLA {
	return NewDLA(DLASettings{Algorithm: DLACentralAttractor, BrushSize: 2, FloorPercent: 0.25})
}

// Insectoid is a horizontally mirrored central attractor
func Insectoid() *DLA {
	return NewDLA(DLASettings{Algorithm: DLACentralAttractor, BrushSize: 2, Symmetry: SymmetryHorizontal, FloorPercent: 0.25})
}

func (b *DLA) Name() string { return "DLA" }

// BuildInitial implements InitialBuilder
func (b *DLA) BuildInitial(rng *rand.Rand, s *BuildState) error {
	m := s.Map
	start := Point{X: m.Width / 2, Y: m.Height / 2}
	m.Set(start.X, start.Y, world.TileFloor)
	m.Set(start.X-1, start.Y, world.TileFloor)
	m.Set(start.X+1, start.Y, world.TileFloor)
	m.Set(start.X, start.Y-1, world.TileFloor)
	m.Set(start.X, start.Y+1, world.TileFloor)
	s.TakeSnapshot()

	b.grow(rng, s, start)
	s.Layout = nil
	return nil
}

// BuildMeta implements MetaBuilder, accreting onto whatever floor exists
func (b *DLA) BuildMeta(rng *rand.Rand, s *BuildState) error {
	m := s.Map
	b.grow(rng, s, Point{X: m.Width / 2, Y: m.Height / 2})
	return nil
}

func (b *DLA) grow(rng *rand.Rand, s *BuildState, start Point) {
	m := s.Map
	desired := int(b.Settings.FloorPercent * float32(m.Len()))
	floors := m.CountTiles(world.TileFloor)

	for i := 0; floors < desired && i < maxDiggers*10; i++ {
		switch b.Settings.Algorithm {
		case DLAWalkInwards:
			x, y := rng.Intn(m.Width-3)+1, rng.Intn(m.Height-3)+1
			px, py := x, y
			for m.At(x, y) == world.TileWall {
				px, py = x, y
				x, y = stagger(rng, m, x, y)
			}
			paint(m, b.Settings.Symmetry, b.Settings.BrushSize, px, py)

		case DLAWalkOutwards:
			x, y := start.X, start.Y
			for m.At(x, y) == world.TileFloor {
				x, y = stagger(rng, m, x, y)
			}
			paint(m, b.Settings.Symmetry, b.Settings.BrushSize, x, y)

		case DLACentralAttractor:
			x, y := rng.Intn(m.Width-3)+1, rng.Intn(m.Height-3)+1
			px, py := x, y
			path := line(Point{X: x, Y: y}, start)
			for m.At(x, y) == world.TileWall && len(path) > 0 {
				px, py = x, y
				x, y = path[0].X, path[0].Y
				path = path[1:]
			}
			paint(m, b.Settings.Symmetry, b.Settings.BrushSize, px, py)
		}

		next := m.CountTiles(world.TileFloor)
		if next != floors {
			s.TakeSnapshot()
		}
		floors = next
	}
}

// line returns the Bresenham line from a to b, excluding a
func line(a, b Point) []Point {
	var pts []Point
	dx, dy := abs(b.X-a.X), -abs(b.Y-a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	err := dx + dy
	x, y := a.X, a.Y
	for x != b.X || y != b.Y {
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
		pts = append(pts, Point{X: x, Y: y})
	}
	return pts
}
