package builder

import (
	"math"
	"math/rand"
	"sort"

	"github.com/aquilax/go-perlin"

	"github.com/lawnchairsociety/delvegen/internal/spawn"
	"github.com/lawnchairsociety/delvegen/internal/world"
)

// RoomBasedSpawner fills every room from the depth's spawn table
type RoomBasedSpawner struct{}

// NewRoomBasedSpawner creates a room spawner
func NewRoomBasedSpawner() *RoomBasedSpawner {
	return &RoomBasedSpawner{}
}

func (b *RoomBasedSpawner) Name() string { return "RoomBasedSpawner" }

// BuildMeta implements MetaBuilder
func (b *RoomBasedSpawner) BuildMeta(rng *rand.Rand, s *BuildState) error {
	rooms := s.RequireRooms(b.Name()).Rooms
	table, err := spawn.ForDepth(s.Depth)
	if err != nil {
		return err
	}
	startIdx, hasStart := s.StartIdx()
	for i, r := range rooms {
		area := roomTiles(s.Map, r)
		// Keep the player's arrival quiet
		if i == 0 && hasStart {
			area = without(area, startIdx)
		}
		s.Spawns = append(s.Spawns, spawn.Region(area, s.Depth, table, rng)...)
	}
	return nil
}

const (
	// voronoiNoiseFrequency scales tile coordinates into noise space
	voronoiNoiseFrequency = 0.08
	voronoiNoiseBands     = 10
)

// VoronoiSpawning groups floor tiles into regions of similar noise value and
// spawns per region
type VoronoiSpawning struct{}

// NewVoronoiSpawning creates a noise-region spawner
func NewVoronoiSpawning() *VoronoiSpawning {
	return &VoronoiSpawning{}
}

func (b *VoronoiSpawning) Name() string { return "VoronoiSpawning" }

// BuildMeta implements MetaBuilder
func (b *VoronoiSpawning) BuildMeta(rng *rand.Rand, s *BuildState) error {
	table, err := spawn.ForDepth(s.Depth)
	if err != nil {
		return err
	}
	regions := noiseRegions(s.Map, rng.Int63())

	startIdx, hasStart := s.StartIdx()
	keys := make([]int, 0, len(regions))
	for k := range regions {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	for _, k := range keys {
		area := regions[k]
		if hasStart {
			area = without(area, startIdx)
		}
		s.Spawns = append(s.Spawns, spawn.Region(area, s.Depth, table, rng)...)
	}
	return nil
}

// noiseRegions buckets floor tiles by perlin band. The region key combines the
// band with a coarse grid cell so distant tiles of the same band stay apart.
func noiseRegions(m *world.Map, seed int64) map[int][]int {
	noise := perlin.NewPerlin(2, 2, 3, seed)
	regions := make(map[int][]int)
	for idx, t := range m.Tiles {
		if t != world.TileFloor {
			continue
		}
		x, y := m.IdxXY(idx)
		v := noise.Noise2D(float64(x)*voronoiNoiseFrequency, float64(y)*voronoiNoiseFrequency)
		band := int(math.Floor((v + 1) * voronoiNoiseBands / 2))
		band = max(0, min(voronoiNoiseBands-1, band))
		key := band*10000 + (y/16)*100 + x/16
		regions[key] = append(regions[key], idx)
	}
	return regions
}

func without(area []int, idx int) []int {
	out := make([]int, 0, len(area))
	for _, a := range area {
		if a != idx {
			out = append(out, a)
		}
	}
	return out
}
