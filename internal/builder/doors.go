package builder

import (
	"math/rand"

	"github.com/lawnchairsociety/delvegen/internal/world"
)

// DoorTag is the spawn tag written for every door
const DoorTag = "Door"

// DoorPlacement inserts doors where corridors break through room walls. On
// organic maps it falls back to scattering doors in natural chokepoints.
type DoorPlacement struct{}

// NewDoorPlacement creates a door placer
func NewDoorPlacement() *DoorPlacement {
	return &DoorPlacement{}
}

func (b *DoorPlacement) Name() string { return "DoorPlacement" }

// BuildMeta implements MetaBuilder
func (b *DoorPlacement) BuildMeta(rng *rand.Rand, s *BuildState) error {
	if s.Layout == nil {
		b.organic(rng, s)
		return nil
	}
	m := s.Map
	for _, r := range s.Layout.Rooms {
		for _, p := range boundaryRing(r) {
			if !m.InBounds(p.X, p.Y) {
				continue
			}
			if doorway(m, p.X, p.Y) {
				placeDoor(s, m.XYIdx(p.X, p.Y))
			}
		}
	}
	s.TakeSnapshot()
	return nil
}

func (b *DoorPlacement) organic(rng *rand.Rand, s *BuildState) {
	m := s.Map
	for y := 1; y < m.Height-1; y++ {
		for x := 1; x < m.Width-1; x++ {
			if doorway(m, x, y) && rng.Intn(3) == 0 {
				placeDoor(s, m.XYIdx(x, y))
			}
		}
	}
	s.TakeSnapshot()
}

// boundaryRing lists the wall ring around a room's carved interior
func boundaryRing(r world.Rect) []Point {
	var ring []Point
	for x := r.X1; x <= r.X2+1; x++ {
		ring = append(ring, Point{X: x, Y: r.Y1}, Point{X: x, Y: r.Y2 + 1})
	}
	for y := r.Y1 + 1; y <= r.Y2; y++ {
		ring = append(ring, Point{X: r.X1, Y: y}, Point{X: r.X2 + 1, Y: y})
	}
	return ring
}

// doorway reports a one-tile gap: floor with floor on two opposite sides and
// walls on the other two
func doorway(m *world.Map, x, y int) bool {
	if m.At(x, y) != world.TileFloor {
		return false
	}
	floor := func(dx, dy int) bool { return m.At(x+dx, y+dy) == world.TileFloor }
	wall := func(dx, dy int) bool { return m.At(x+dx, y+dy) == world.TileWall }

	eastWest := floor(-1, 0) && floor(1, 0) && wall(0, -1) && wall(0, 1)
	northSouth := floor(0, -1) && floor(0, 1) && wall(-1, 0) && wall(1, 0)
	return eastWest || northSouth
}

func placeDoor(s *BuildState, idx int) {
	if s.Map.ViewBlocked.Has(idx) {
		return
	}
	if startIdx, ok := s.StartIdx(); ok && startIdx == idx {
		return
	}
	s.Map.ViewBlocked.Put(idx)
	s.AddSpawn(idx, DoorTag)
}
