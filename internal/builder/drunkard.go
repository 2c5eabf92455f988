package builder

import (
	"math/rand"

	"github.com/lawnchairsociety/delvegen/internal/world"
)

// maxDiggers bounds a walk whose floor target cannot be reached
const maxDiggers = 10000

// DrunkSpawnMode decides where each new digger starts
type DrunkSpawnMode int

const (
	SpawnAtCenter DrunkSpawnMode = iota
	SpawnRandom
)

// DrunkardSettings tunes a drunkard's walk
type DrunkardSettings struct {
	SpawnMode    DrunkSpawnMode
	Lifetime     int
	FloorPercent float32
	BrushSize    int
	Symmetry     Symmetry
}

// DrunkardsWalk erodes caverns with short-lived random walkers
type DrunkardsWalk struct {
	Settings DrunkardSettings
}

// NewDrunkardsWalk creates a drunkard's walk builder
func NewDrunkardsWalk(settings DrunkardSettings) *DrunkardsWalk {
	return &DrunkardsWalk{Settings: settings}
}

// OpenArea digs one large central cave
func OpenArea() *DrunkardsWalk {
	return NewDrunkardsWalk(DrunkardSettings{SpawnMode: SpawnAtCenter, Lifetime: 400, FloorPercent: 0.5, BrushSize: 1})
}

// OpenHalls digs broad halls from scattered walkers
func OpenHalls() *DrunkardsWalk {
	return NewDrunkardsWalk(DrunkardSettings{SpawnMode: SpawnRandom, Lifetime: 400, FloorPercent: 0.5, BrushSize: 1})
}

// WindingPassages digs narrow winding tunnels
func WindingPassages() *DrunkardsWalk {
	return NewDrunkardsWalk(DrunkardSettings{SpawnMode: SpawnRandom, Lifetime: 100, FloorPercent: 0.4, BrushSize: 1})
}

// FatPassages digs winding tunnels two tiles wide
func FatPassages() *DrunkardsWalk {
	return NewDrunkardsWalk(DrunkardSettings{SpawnMode: SpawnRandom, Lifetime: 100, FloorPercent: 0.4, BrushSize: 2})
}

// FearfulSymmetry digs tunnels mirrored on both axes
func FearfulSymmetry() *DrunkardsWalk {
	return NewDrunkardsWalk(DrunkardSettings{SpawnMode: SpawnRandom, Lifetime: 100, FloorPercent: 0.4, BrushSize: 1, Symmetry: SymmetryBoth})
}

func (b *DrunkardsWalk) Name() string { return "DrunkardsWalk" }

// BuildInitial implements InitialBuilder
func (b *DrunkardsWalk) BuildInitial(rng *rand.Rand, s *BuildState) error {
	m := s.Map
	cx, cy := m.Width/2, m.Height/2
	m.Set(cx, cy, world.TileFloor)

	desired := int(b.Settings.FloorPercent * float32(m.Len()))
	floors := m.CountTiles(world.TileFloor)

	for diggers := 0; floors < desired && diggers < maxDiggers; diggers++ {
		x, y := cx, cy
		if diggers > 0 && b.Settings.SpawnMode == SpawnRandom {
			x = rng.Intn(m.Width-3) + 1
			y = rng.Intn(m.Height-3) + 1
		}

		for life := b.Settings.Lifetime; life > 0; life-- {
			paint(m, b.Settings.Symmetry, b.Settings.BrushSize, x, y)
			x, y = stagger(rng, m, x, y)
		}

		next := m.CountTiles(world.TileFloor)
		if next != floors {
			s.TakeSnapshot()
		}
		floors = next
	}
	s.Layout = nil
	return nil
}
