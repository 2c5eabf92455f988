package builder

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/aquilax/go-perlin"
	"github.com/zyedidia/generic/mapset"

	"github.com/lawnchairsociety/delvegen/internal/logger"
	"github.com/lawnchairsociety/delvegen/internal/world"
)

const (
	maxBuildings      = 12
	buildingAttempts  = 2000
	townWallX         = 30
	townGapHeight     = 5
	shoreStepRadians  = 0.1
	shoreJitterFactor = 2
)

// Building is one placed town building, outer walls included
type Building struct {
	X, Y, W, H int
	Role       BuildingRole
	Door       int
}

// Area returns the building footprint in tiles
func (b Building) Area() int { return b.W * b.H }

// Center returns the middle of the building
func (b Building) Center() Point {
	return Point{X: b.X + b.W/2, Y: b.Y + b.H/2}
}

// Contains reports whether the coordinate lies inside the footprint
func (b Building) Contains(x, y int) bool {
	return x >= b.X && x < b.X+b.W && y >= b.Y && y < b.Y+b.H
}

// Town lays out the walled starting village on the shore. Buildings keeps the
// final layout for callers that want to inspect it.
type Town struct {
	Buildings []Building

	wallGapY int
}

// NewTown creates a town builder
func NewTown() *Town {
	return &Town{}
}

func (b *Town) Name() string { return "Town" }

// BuildInitial implements InitialBuilder
func (b *Town) BuildInitial(rng *rand.Rand, s *BuildState) error {
	m := s.Map
	s.Layout = nil
	b.Buildings = nil

	b.grass(m)
	s.TakeSnapshot()

	shore := b.water(rng, m)
	b.piers(rng, m, shore)
	s.TakeSnapshot()

	available := b.walls(rng, m)
	s.TakeSnapshot()

	b.placeBuildings(rng, m, available, s)
	if len(b.Buildings) == 0 {
		return fmt.Errorf("%w: town has no buildings", ErrNoWalkableTile)
	}
	b.outline(m)
	s.TakeSnapshot()

	b.doors(rng, m, s)
	m.PopulateBlocked()
	b.paths(m)
	s.TakeSnapshot()

	b.assignRoles()
	for _, bld := range b.Buildings {
		if bld.Role == RolePlayerHouse {
			c := bld.Center()
			s.Start = &c
			break
		}
	}
	b.furnish(rng, m, s)
	b.townsfolk(rng, m, s)

	m.Set(m.Width-5, b.wallGapY, world.TileDownStairs)
	m.PopulateBlocked()
	s.TakeSnapshot()

	logger.Debug("town built", "buildings", len(b.Buildings), "wall_gap_y", b.wallGapY)
	return nil
}

func (b *Town) grass(m *world.Map) {
	for i := range m.Tiles {
		m.Tiles[i] = world.TileGrass
	}
}

// water floods the west edge along a sine shoreline, returning the deep water
// width of each row
func (b *Town) water(rng *rand.Rand, m *world.Map) []int {
	noise := perlin.NewPerlin(2, 2, 3, rng.Int63())
	n := float64(rng.Intn(65)+1) / 65 * math.Pi * 2
	shore := make([]int, m.Height)
	for y := 0; y < m.Height; y++ {
		width := int(math.Sin(n)*10) + 14 + rng.Intn(6) + 1
		width += int(noise.Noise1D(float64(y)*shoreStepRadians) * shoreJitterFactor)
		width = max(1, min(width, townWallX-6))
		shore[y] = width
		for x := 0; x < width; x++ {
			m.Set(x, y, world.TileDeepWater)
		}
		for x := width; x < width+3; x++ {
			m.Set(x, y, world.TileShallowWater)
		}
		n += shoreStepRadians
	}
	return shore
}

func (b *Town) piers(rng *rand.Rand, m *world.Map, shore []int) {
	count := rng.Intn(4) + 7
	for i := 0; i < count; i++ {
		y := rng.Intn(m.Height)
		for x := 2 + rollDice(rng, 1, 6); x < shore[y]+4; x++ {
			m.Set(x, y, world.TileBridge)
		}
	}
}

// walls encloses the district east of the shore, leaving a road gap. It
// returns the tiles buildings may claim.
func (b *Town) walls(rng *rand.Rand, m *world.Map) mapset.Set[int] {
	available := mapset.New[int]()
	b.wallGapY = rng.Intn(m.Height-9) + 6

	for y := 1; y < m.Height-1; y++ {
		if y >= b.wallGapY && y < b.wallGapY+townGapHeight {
			for x := townWallX; x < m.Width; x++ {
				m.Set(x, y, world.TileRoad)
			}
			continue
		}
		m.Set(townWallX, y, world.TileWall)
		m.Set(townWallX-1, y, world.TileFloor)
		m.Set(m.Width-2, y, world.TileWall)
		for x := townWallX + 1; x < m.Width-2; x++ {
			m.Set(x, y, world.TileGravel)
			// A gravel lane stays free along every wall
			if y > 2 && y < m.Height-3 && x > townWallX+1 && x < m.Width-3 {
				available.Put(m.XYIdx(x, y))
			}
		}
	}
	for x := townWallX; x < m.Width-1; x++ {
		m.Set(x, 1, world.TileWall)
		m.Set(x, m.Height-2, world.TileWall)
	}
	return available
}

func (b *Town) placeBuildings(rng *rand.Rand, m *world.Map, available mapset.Set[int], s *BuildState) {
	for attempt := 0; attempt < buildingAttempts && len(b.Buildings) < maxBuildings; attempt++ {
		bld := Building{
			X: rng.Intn(m.Width-townWallX-2) + townWallX + 1,
			Y: rng.Intn(m.Height) - 1,
			W: rollDice(rng, 1, 8) + 4,
			H: rollDice(rng, 1, 8) + 4,
		}
		if !buildingFits(m, bld, available) {
			continue
		}
		b.Buildings = append(b.Buildings, bld)
		for y := bld.Y; y < bld.Y+bld.H; y++ {
			for x := bld.X; x < bld.X+bld.W; x++ {
				idx := m.XYIdx(x, y)
				m.Tiles[idx] = world.TileWoodFloor
				available.Remove(idx)
				available.Remove(idx - 1)
				available.Remove(idx + 1)
				available.Remove(idx - m.Width)
				available.Remove(idx + m.Width)
			}
		}
		s.TakeSnapshot()
	}
}

func buildingFits(m *world.Map, bld Building, available mapset.Set[int]) bool {
	for y := bld.Y; y < bld.Y+bld.H; y++ {
		for x := bld.X; x < bld.X+bld.W; x++ {
			if !m.InBounds(x, y) || !available.Has(m.XYIdx(x, y)) {
				return false
			}
		}
	}
	return true
}

// outline turns every wood floor tile touching anything else into wall
func (b *Town) outline(m *world.Map) {
	frozen := append([]world.TileType(nil), m.Tiles...)
	for y := 1; y < m.Height-1; y++ {
		for x := 1; x < m.Width-1; x++ {
			idx := m.XYIdx(x, y)
			if frozen[idx] != world.TileWoodFloor {
				continue
			}
			for _, d := range [4]int{-1, 1, -m.Width, m.Width} {
				if frozen[idx+d] != world.TileWoodFloor {
					m.Tiles[idx] = world.TileWall
					break
				}
			}
		}
	}
}

// doors cuts one door per building, away from the corners and facing the road gap
func (b *Town) doors(rng *rand.Rand, m *world.Map, s *BuildState) {
	for i := range b.Buildings {
		bld := &b.Buildings[i]
		doorX := bld.X + 1 + rollDice(rng, 1, bld.W-3)
		doorY := bld.Y + bld.H - 1
		if bld.Center().Y > b.wallGapY {
			doorY = bld.Y
		}
		bld.Door = m.XYIdx(doorX, doorY)
		m.Tiles[bld.Door] = world.TileFloor
		s.AddSpawn(bld.Door, DoorTag)
	}
}

// paths joins every door to its nearest road tile, widening the track
func (b *Town) paths(m *world.Map) {
	for _, bld := range b.Buildings {
		dx, dy := m.IdxXY(bld.Door)
		road, ok := nearestTile(m, Point{X: dx, Y: dy}, func(t world.TileType) bool { return t == world.TileRoad })
		if !ok {
			continue
		}
		path := world.AStar(m, bld.Door, road)
		if !path.Success {
			continue
		}
		for _, idx := range path.Steps {
			if idx == bld.Door {
				continue
			}
			if t := m.Tiles[idx]; t == world.TileGravel || t == world.TileGrass {
				m.Tiles[idx] = world.TileRoad
			}
			x, y := m.IdxXY(idx)
			for _, n := range [4]Point{{x - 1, y}, {x + 1, y}, {x, y - 1}, {x, y + 1}} {
				if t := m.At(n.X, n.Y); m.InBounds(n.X, n.Y) && (t == world.TileGravel || t == world.TileGrass) {
					m.Set(n.X, n.Y, world.TileRoad)
				}
			}
		}
	}
}

// assignRoles ranks buildings by area, largest first
func (b *Town) assignRoles() {
	sort.SliceStable(b.Buildings, func(i, j int) bool {
		return b.Buildings[i].Area() > b.Buildings[j].Area()
	})
	order := []BuildingRole{RolePub, RoleTemple, RoleBlacksmith, RoleClothier, RoleAlchemist, RolePlayerHouse}
	for i := range b.Buildings {
		if i < len(order) {
			b.Buildings[i].Role = order[i]
		} else {
			b.Buildings[i].Role = RoleHovel
		}
	}

	last := len(b.Buildings) - 1
	if len(b.Buildings) > len(order) {
		b.Buildings[last].Role = RoleAbandoned
	} else {
		b.Buildings[last].Role = RolePlayerHouse
	}
}

func (b *Town) furnish(rng *rand.Rand, m *world.Map, s *BuildState) {
	startIdx, _ := s.StartIdx()
	for _, bld := range b.Buildings {
		contents := bld.Role.Contents()
		for y := bld.Y; y < bld.Y+bld.H; y++ {
			for x := bld.X; x < bld.X+bld.W; x++ {
				idx := m.XYIdx(x, y)
				if m.Tiles[idx] != world.TileWoodFloor || idx == startIdx {
					continue
				}
				if bld.Role == RoleAbandoned {
					if rng.Intn(2) == 0 {
						s.AddSpawn(idx, "Rat")
					}
					continue
				}
				if len(contents) > 0 && rng.Intn(3) == 0 {
					s.AddSpawn(idx, contents[0])
					contents = contents[1:]
				}
			}
		}
	}
}

var (
	dockers   = []string{"Dock Worker", "Wannabe Pirate", "Fisher"}
	townsfolk = []string{"Peasant", "Drunk", "Dock Worker", "Fisher"}
)

func (b *Town) townsfolk(rng *rand.Rand, m *world.Map, s *BuildState) {
	for idx, t := range m.Tiles {
		switch t {
		case world.TileBridge:
			if rng.Intn(6) == 0 {
				s.AddSpawn(idx, dockers[rng.Intn(len(dockers))])
			}
		case world.TileRoad, world.TileGrass:
			if rng.Intn(50) == 0 {
				s.AddSpawn(idx, townsfolk[rng.Intn(len(townsfolk))])
			}
		}
	}
}
