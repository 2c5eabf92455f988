package builder

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/lawnchairsociety/delvegen/internal/world"
)

// ErrNoWalkableTile is returned when an anchor cannot be resolved to any tile
var ErrNoWalkableTile = errors.New("builder: no walkable tile")

// XStart is the horizontal half of an area anchor
type XStart int

const (
	XLeft XStart = iota
	XCenter
	XRight
)

// YStart is the vertical half of an area anchor
type YStart int

const (
	YTop YStart = iota
	YCenter
	YBottom
)

// anchor resolves a pair of area anchors to a map coordinate
func anchor(m *world.Map, x XStart, y YStart) Point {
	p := Point{X: 1, Y: 1}
	switch x {
	case XCenter:
		p.X = m.Width / 2
	case XRight:
		p.X = m.Width - 2
	}
	switch y {
	case YCenter:
		p.Y = m.Height / 2
	case YBottom:
		p.Y = m.Height - 2
	}
	return p
}

// nearestTile returns the tile closest to p that satisfies keep. Ties go to
// the lower index.
func nearestTile(m *world.Map, p Point, keep func(world.TileType) bool) (int, bool) {
	best, bestDist := -1, math.MaxFloat64
	for idx, t := range m.Tiles {
		if !keep(t) {
			continue
		}
		x, y := m.IdxXY(idx)
		if d := distanceSquared(p, Point{X: x, Y: y}); d < bestDist {
			best, bestDist = idx, d
		}
	}
	return best, best >= 0
}

// AreaStartingPosition places the start on the floor tile nearest an anchor
type AreaStartingPosition struct {
	X XStart
	Y YStart
}

// NewAreaStartingPosition creates an anchored start selector
func NewAreaStartingPosition(x XStart, y YStart) *AreaStartingPosition {
	return &AreaStartingPosition{X: x, Y: y}
}

func (b *AreaStartingPosition) Name() string { return "AreaStartingPosition" }

// BuildMeta implements MetaBuilder
func (b *AreaStartingPosition) BuildMeta(rng *rand.Rand, s *BuildState) error {
	idx, ok := nearestTile(s.Map, anchor(s.Map, b.X, b.Y), func(t world.TileType) bool { return t == world.TileFloor })
	if !ok {
		return fmt.Errorf("%w for starting position", ErrNoWalkableTile)
	}
	x, y := s.Map.IdxXY(idx)
	s.Start = &Point{X: x, Y: y}
	return nil
}

// RoomBasedStartingPosition starts the player in the centre of the first room
type RoomBasedStartingPosition struct{}

// NewRoomBasedStartingPosition creates a room-based start selector
func NewRoomBasedStartingPosition() *RoomBasedStartingPosition {
	return &RoomBasedStartingPosition{}
}

func (b *RoomBasedStartingPosition) Name() string { return "RoomBasedStartingPosition" }

// BuildMeta implements MetaBuilder
func (b *RoomBasedStartingPosition) BuildMeta(rng *rand.Rand, s *BuildState) error {
	rooms := s.RequireRooms(b.Name()).Rooms
	if len(rooms) == 0 {
		return fmt.Errorf("%w: no rooms to start in", ErrNoWalkableTile)
	}
	c := roomCenter(rooms[0])
	s.Start = &c
	return nil
}

// RoomBasedStairs puts the down stairs in the centre of the last room
type RoomBasedStairs struct{}

// NewRoomBasedStairs creates a room-based exit placer
func NewRoomBasedStairs() *RoomBasedStairs {
	return &RoomBasedStairs{}
}

func (b *RoomBasedStairs) Name() string { return "RoomBasedStairs" }

// BuildMeta implements MetaBuilder
func (b *RoomBasedStairs) BuildMeta(rng *rand.Rand, s *BuildState) error {
	rooms := s.RequireRooms(b.Name()).Rooms
	if len(rooms) == 0 {
		return nil
	}
	c := roomCenter(rooms[len(rooms)-1])
	s.Map.Set(c.X, c.Y, world.TileDownStairs)
	s.TakeSnapshot()
	return nil
}

// AreaEndingPosition puts the down stairs on the floor tile nearest an anchor
type AreaEndingPosition struct {
	X XStart
	Y YStart
}

// NewAreaEndingPosition creates an anchored exit placer
func NewAreaEndingPosition(x XStart, y YStart) *AreaEndingPosition {
	return &AreaEndingPosition{X: x, Y: y}
}

func (b *AreaEndingPosition) Name() string { return "AreaEndingPosition" }

// BuildMeta implements MetaBuilder
func (b *AreaEndingPosition) BuildMeta(rng *rand.Rand, s *BuildState) error {
	idx, ok := nearestTile(s.Map, anchor(s.Map, b.X, b.Y), func(t world.TileType) bool { return t == world.TileFloor })
	if !ok {
		return fmt.Errorf("%w for exit", ErrNoWalkableTile)
	}
	s.Map.Tiles[idx] = world.TileDownStairs
	s.TakeSnapshot()
	return nil
}

// DistantExit puts the down stairs on the reachable floor tile farthest from
// the start
type DistantExit struct{}

// NewDistantExit creates a distant exit placer
func NewDistantExit() *DistantExit {
	return &DistantExit{}
}

func (b *DistantExit) Name() string { return "DistantExit" }

// BuildMeta implements MetaBuilder
func (b *DistantExit) BuildMeta(rng *rand.Rand, s *BuildState) error {
	start := s.RequireStart(b.Name())
	m := s.Map
	m.PopulateBlocked()
	dm := world.NewDijkstraMap(m, []int{m.XYIdx(start.X, start.Y)}, floodCutoff(m))

	exit, farthest := -1, float32(0)
	for idx, t := range m.Tiles {
		if t != world.TileFloor || !dm.Reachable(idx) {
			continue
		}
		if d := dm.Distance(idx); d > farthest {
			exit, farthest = idx, d
		}
	}
	if exit < 0 {
		return fmt.Errorf("%w reachable for exit", ErrNoWalkableTile)
	}
	m.Tiles[exit] = world.TileDownStairs
	s.TakeSnapshot()
	return nil
}

// CullUnreachable walls off every floor tile the start cannot reach
type CullUnreachable struct{}

// NewCullUnreachable creates a reachability culler
func NewCullUnreachable() *CullUnreachable {
	return &CullUnreachable{}
}

func (b *CullUnreachable) Name() string { return "CullUnreachable" }

// BuildMeta implements MetaBuilder
func (b *CullUnreachable) BuildMeta(rng *rand.Rand, s *BuildState) error {
	start := s.RequireStart(b.Name())
	m := s.Map
	m.PopulateBlocked()
	dm := world.NewDijkstraMap(m, []int{m.XYIdx(start.X, start.Y)}, floodCutoff(m))

	for idx, t := range m.Tiles {
		if t == world.TileFloor && !dm.Reachable(idx) {
			m.Tiles[idx] = world.TileWall
		}
	}
	m.PopulateBlocked()

	kept := s.Spawns[:0]
	for _, sp := range s.Spawns {
		if m.Tiles[sp.Idx].Walkable() {
			kept = append(kept, sp)
		}
	}
	s.Spawns = kept
	s.TakeSnapshot()
	return nil
}

// floodCutoff bounds a flood fill generously enough to cover the whole map
func floodCutoff(m *world.Map) float32 {
	return float32(m.Len()) * 2
}
