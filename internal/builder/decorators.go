package builder

import (
	"math/rand"

	"github.com/lawnchairsociety/delvegen/internal/world"
)

// CaveDecorator dresses a cavern with gravel, pools and rock formations
type CaveDecorator struct{}

// NewCaveDecorator creates a cave decorator
func NewCaveDecorator() *CaveDecorator {
	return &CaveDecorator{}
}

func (b *CaveDecorator) Name() string { return "CaveDecorator" }

// BuildMeta implements MetaBuilder. Neighbour counts read the undecorated map.
func (b *CaveDecorator) BuildMeta(rng *rand.Rand, s *BuildState) error {
	m := s.Map
	frozen := m.Clone()
	for y := 1; y < m.Height-1; y++ {
		for x := 1; x < m.Width-1; x++ {
			idx := m.XYIdx(x, y)
			switch frozen.Tiles[idx] {
			case world.TileFloor:
				if rng.Intn(6) == 0 {
					m.Tiles[idx] = world.TileGravel
				} else if rng.Intn(10) == 0 {
					m.Tiles[idx] = world.TileShallowWater
				}
			case world.TileWall:
				switch wallNeighbors(frozen, x, y) {
				case 2:
					m.Tiles[idx] = world.TileDeepWater
				case 1:
					switch rng.Intn(4) {
					case 0:
						m.Tiles[idx] = world.TileStalactite
					case 1:
						m.Tiles[idx] = world.TileStalagmite
					}
				}
			}
		}
	}
	m.PopulateBlocked()
	s.TakeSnapshot()
	return nil
}

// YellowBrickRoad lays a road from the start to the far side of the map,
// ending at the down stairs, and runs a stream across it
type YellowBrickRoad struct{}

// NewYellowBrickRoad creates a road builder
func NewYellowBrickRoad() *YellowBrickRoad {
	return &YellowBrickRoad{}
}

func (b *YellowBrickRoad) Name() string { return "YellowBrickRoad" }

// BuildMeta implements MetaBuilder
func (b *YellowBrickRoad) BuildMeta(rng *rand.Rand, s *BuildState) error {
	start := s.RequireStart(b.Name())
	m := s.Map

	end, ok := nearestTile(m, Point{X: m.Width - 2, Y: m.Height / 2}, func(t world.TileType) bool { return t == world.TileFloor })
	if !ok {
		return nil
	}
	m.PopulateBlocked()
	path := world.AStar(m, m.XYIdx(start.X, start.Y), end)
	if path.Success {
		for _, idx := range path.Steps {
			x, y := m.IdxXY(idx)
			paveRoad(m, x, y)
			paveRoad(m, x-1, y)
			paveRoad(m, x+1, y)
			paveRoad(m, x, y-1)
			paveRoad(m, x, y+1)
		}
	}
	m.Tiles[end] = world.TileDownStairs
	s.TakeSnapshot()

	// The stream flows top to bottom, cutting the road somewhere
	streamStart := Point{X: rng.Intn(m.Width-2) + 1, Y: 1}
	streamEnd, ok := nearestTile(m, Point{X: rng.Intn(m.Width-2) + 1, Y: m.Height - 2}, world.TileType.Walkable)
	if !ok {
		return nil
	}
	ex, ey := m.IdxXY(streamEnd)
	for _, p := range line(streamStart, Point{X: ex, Y: ey}) {
		if m.At(p.X, p.Y) == world.TileFloor {
			m.Set(p.X, p.Y, world.TileShallowWater)
		}
	}
	m.PopulateBlocked()
	s.TakeSnapshot()
	return nil
}

func paveRoad(m *world.Map, x, y int) {
	if !interior(m, x, y) {
		return
	}
	if t := m.At(x, y); t != world.TileDownStairs && t != world.TileUpStairs {
		m.Set(x, y, world.TileRoad)
	}
}

// CaveTransition replaces the right half of the map with the right half of a
// second, room-based level, keeping the second level's spawns there
type CaveTransition struct {
	// Right builds the level whose right half is spliced in
	Right func(depth, width, height int) *Chain
}

// NewCaveTransition creates a transition builder
func NewCaveTransition(right func(depth, width, height int) *Chain) *CaveTransition {
	return &CaveTransition{Right: right}
}

func (b *CaveTransition) Name() string { return "CaveTransition" }

// BuildMeta implements MetaBuilder. The sub-chain draws from the same stream,
// so the splice stays deterministic.
func (b *CaveTransition) BuildMeta(rng *rand.Rand, s *BuildState) error {
	sub := b.Right(s.Depth, s.Width, s.Height)
	if err := sub.Build(s.Context(), rng); err != nil {
		return err
	}

	half := s.Width / 2
	m := s.Map
	for y := 0; y < m.Height; y++ {
		for x := half; x < m.Width; x++ {
			m.Tiles[m.XYIdx(x, y)] = sub.State.Map.Tiles[m.XYIdx(x, y)]
		}
	}

	kept := s.Spawns[:0]
	for _, sp := range s.Spawns {
		if x, _ := m.IdxXY(sp.Idx); x < half {
			kept = append(kept, sp)
		}
	}
	for _, sp := range sub.State.Spawns {
		if x, _ := m.IdxXY(sp.Idx); x >= half {
			kept = append(kept, sp)
		}
	}
	s.Spawns = kept
	s.Layout = nil
	s.TakeSnapshot()
	return nil
}
