package builder

import (
	"math/rand"

	"github.com/lawnchairsociety/delvegen/internal/world"
)

const (
	// cellularWallChance is the percentage of interior tiles seeded as wall
	cellularWallChance = 55
	cellularIterations  = 15
)

// CellularAutomata seeds random noise and smooths it into caverns
type CellularAutomata struct{}

// NewCellularAutomata creates a cellular automata builder
func NewCellularAutomata() *CellularAutomata {
	return &CellularAutomata{}
}

func (b *CellularAutomata) Name() string { return "CellularAutomata" }

// BuildInitial implements InitialBuilder
func (b *CellularAutomata) BuildInitial(rng *rand.Rand, s *BuildState) error {
	m := s.Map
	for y := 1; y < m.Height-1; y++ {
		for x := 1; x < m.Width-1; x++ {
			if rng.Intn(100) < cellularWallChance {
				m.Set(x, y, world.TileWall)
			} else {
				m.Set(x, y, world.TileFloor)
			}
		}
	}
	s.TakeSnapshot()

	for i := 0; i < cellularIterations; i++ {
		smooth(m)
		s.TakeSnapshot()
	}
	s.Layout = nil
	return nil
}

// CellularAutomataMeta runs one smoothing pass over an existing map
type CellularAutomataMeta struct{}

// NewCellularAutomataMeta creates a smoothing meta builder
func NewCellularAutomataMeta() *CellularAutomataMeta {
	return &CellularAutomataMeta{}
}

func (b *CellularAutomataMeta) Name() string { return "CellularAutomataMeta" }

// BuildMeta implements MetaBuilder
func (b *CellularAutomataMeta) BuildMeta(rng *rand.Rand, s *BuildState) error {
	smooth(s.Map)
	s.TakeSnapshot()
	return nil
}

// smooth applies one majority-rule pass: more than four wall neighbours, or
// none at all, makes a wall. Every tile reads the frozen copy, so results
// never depend on visiting order.
func smooth(m *world.Map) {
	frozen := append([]world.TileType(nil), m.Tiles...)
	at := func(x, y int) world.TileType { return frozen[m.XYIdx(x, y)] }

	for y := 1; y < m.Height-1; y++ {
		for x := 1; x < m.Width-1; x++ {
			walls := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if (dx != 0 || dy != 0) && at(x+dx, y+dy) == world.TileWall {
						walls++
					}
				}
			}
			if walls > 4 || walls == 0 {
				m.Tiles[m.XYIdx(x, y)] = world.TileWall
			} else {
				m.Tiles[m.XYIdx(x, y)] = world.TileFloor
			}
		}
	}
}
