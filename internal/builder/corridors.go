package builder

import (
	"math/rand"

	"github.com/lawnchairsociety/delvegen/internal/spawn"
	"github.com/lawnchairsociety/delvegen/internal/world"
)

// DoglegCorridors joins consecutive room centres with L-shaped tunnels
type DoglegCorridors struct{}

// NewDoglegCorridors creates a dogleg corridor strategy
func NewDoglegCorridors() *DoglegCorridors { return &DoglegCorridors{} }

func (b *DoglegCorridors) Name() string { return "DoglegCorridors" }

// BuildMeta implements MetaBuilder
func (b *DoglegCorridors) BuildMeta(rng *rand.Rand, s *BuildState) error {
	layout := s.RequireRooms(b.Name())
	for i := 1; i < len(layout.Rooms); i++ {
		corridor := dogleg(rng, s.Map, roomCenter(layout.Rooms[i-1]), roomCenter(layout.Rooms[i]))
		layout.Corridors = append(layout.Corridors, corridor)
		s.TakeSnapshot()
	}
	return nil
}

// BspCorridors joins random interior points of consecutive rooms
type BspCorridors struct{}

// NewBspCorridors creates a BSP corridor strategy
func NewBspCorridors() *BspCorridors { return &BspCorridors{} }

func (b *BspCorridors) Name() string { return "BspCorridors" }

// BuildMeta implements MetaBuilder
func (b *BspCorridors) BuildMeta(rng *rand.Rand, s *BuildState) error {
	layout := s.RequireRooms(b.Name())
	for i := 1; i < len(layout.Rooms); i++ {
		from := randomPointIn(rng, layout.Rooms[i-1])
		to := randomPointIn(rng, layout.Rooms[i])
		layout.Corridors = append(layout.Corridors, drawCorridor(s.Map, from.X, from.Y, to.X, to.Y))
		s.TakeSnapshot()
	}
	return nil
}

// NearestCorridors grows a tree by joining each room to its nearest
// not-yet-connected neighbour
type NearestCorridors struct{}

// NewNearestCorridors creates a nearest-room corridor strategy
func NewNearestCorridors() *NearestCorridors { return &NearestCorridors{} }

func (b *NearestCorridors) Name() string { return "NearestCorridors" }

// BuildMeta implements MetaBuilder
func (b *NearestCorridors) BuildMeta(rng *rand.Rand, s *BuildState) error {
	layout := s.RequireRooms(b.Name())
	connected := make(map[int]bool, len(layout.Rooms))
	for i := range layout.Rooms {
		j := nearestUnconnected(layout.Rooms, i, connected)
		if j >= 0 {
			from, to := roomCenter(layout.Rooms[i]), roomCenter(layout.Rooms[j])
			layout.Corridors = append(layout.Corridors, drawCorridor(s.Map, from.X, from.Y, to.X, to.Y))
			s.TakeSnapshot()
		}
		connected[i] = true
	}
	return nil
}

// BresenhamCorridors joins each room to its nearest unconnected neighbour
// along a straight line
type BresenhamCorridors struct{}

// NewBresenhamCorridors creates a straight-line corridor strategy
func NewBresenhamCorridors() *BresenhamCorridors { return &BresenhamCorridors{} }

func (b *BresenhamCorridors) Name() string { return "BresenhamCorridors" }

// BuildMeta implements MetaBuilder
func (b *BresenhamCorridors) BuildMeta(rng *rand.Rand, s *BuildState) error {
	layout := s.RequireRooms(b.Name())
	connected := make(map[int]bool, len(layout.Rooms))
	for i := range layout.Rooms {
		j := nearestUnconnected(layout.Rooms, i, connected)
		if j >= 0 {
			layout.Corridors = append(layout.Corridors, straightCorridor(s.Map, roomCenter(layout.Rooms[i]), roomCenter(layout.Rooms[j])))
			s.TakeSnapshot()
		}
		connected[i] = true
	}
	return nil
}

func straightCorridor(m *world.Map, from, to Point) []int {
	var corridor []int
	for _, p := range line(from, to) {
		wasWall := m.At(p.X, p.Y) == world.TileWall
		if idx, ok := carve(m, p.X, p.Y); ok && wasWall {
			corridor = append(corridor, idx)
		}
	}
	return corridor
}

// StraightLineCorridors digs Bresenham corridors and then populates them
type StraightLineCorridors struct {
	dig     BresenhamCorridors
	spawner CorridorSpawner
}

// NewStraightLineCorridors creates a populated straight-line corridor strategy
func NewStraightLineCorridors() *StraightLineCorridors { return &StraightLineCorridors{} }

func (b *StraightLineCorridors) Name() string { return "StraightLineCorridors" }

// BuildMeta implements MetaBuilder
func (b *StraightLineCorridors) BuildMeta(rng *rand.Rand, s *BuildState) error {
	if err := b.dig.BuildMeta(rng, s); err != nil {
		return err
	}
	return b.spawner.BuildMeta(rng, s)
}

// CorridorSpawner rolls spawns along every recorded corridor
type CorridorSpawner struct{}

// NewCorridorSpawner creates a corridor spawner
func NewCorridorSpawner() *CorridorSpawner { return &CorridorSpawner{} }

func (b *CorridorSpawner) Name() string { return "CorridorSpawner" }

// BuildMeta implements MetaBuilder
func (b *CorridorSpawner) BuildMeta(rng *rand.Rand, s *BuildState) error {
	layout := s.RequireRooms(b.Name())
	table, err := spawn.ForDepth(s.Depth)
	if err != nil {
		return err
	}
	for _, c := range layout.Corridors {
		s.Spawns = append(s.Spawns, spawn.Region(c, s.Depth, table, rng)...)
	}
	return nil
}
