package spawn

import (
	"math/rand"

	"github.com/lawnchairsociety/delvegen/internal/world"
)

// MaxSpawns tunes how many spawns a room or region receives
const MaxSpawns = 4

// Count rolls how many spawns go in one area at a depth; deeper levels get more
func Count(rng *rand.Rand, depth int) int {
	n := rng.Intn(MaxSpawns+3) + 1 + (depth - 1) - 3
	if n < 0 {
		return 0
	}
	return n
}

// Region places spawns on distinct random tiles of an area. The area is
// consumed in order so results depend only on the rng stream.
func Region(area []int, depth int, table *Table, rng *rand.Rand) []world.Spawn {
	n := Count(rng, depth)
	if n > len(area) {
		n = len(area)
	}
	if n == 0 {
		return nil
	}

	tiles := append([]int(nil), area...)
	spawns := make([]world.Spawn, 0, n)
	for i := 0; i < n; i++ {
		pick := rng.Intn(len(tiles))
		idx := tiles[pick]
		tiles = append(tiles[:pick], tiles[pick+1:]...)
		spawns = append(spawns, world.Spawn{Idx: idx, Tag: table.Roll(rng)})
	}
	return spawns
}
