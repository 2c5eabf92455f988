package builder

import (
	"math"
	"math/rand"
	"sort"

	"github.com/lawnchairsociety/delvegen/internal/world"
)

// SimpleMap scatters non-overlapping rectangular rooms
type SimpleMap struct{}

const (
	simpleMaxRooms = 30
	simpleMinSize  = 6
	simpleMaxSize  = 10
)

// NewSimpleMap creates a simple rooms builder
func NewSimpleMap() *SimpleMap {
	return &SimpleMap{}
}

func (b *SimpleMap) Name() string { return "SimpleMap" }

// BuildInitial implements InitialBuilder. Rooms are recorded but not carved;
// a RoomDrawer and a corridor strategy finish the job.
func (b *SimpleMap) BuildInitial(rng *rand.Rand, s *BuildState) error {
	var rooms []world.Rect
	for i := 0; i < simpleMaxRooms; i++ {
		w := simpleMinSize + rng.Intn(simpleMaxSize-simpleMinSize+1)
		h := simpleMinSize + rng.Intn(simpleMaxSize-simpleMinSize+1)
		if s.Width-w-1 <= 1 || s.Height-h-1 <= 1 {
			continue
		}
		x := rng.Intn(s.Width-w-1) + 1
		y := rng.Intn(s.Height-h-1) + 1
		candidate := world.NewRect(x, y, w, h)

		ok := true
		for _, r := range rooms {
			if candidate.Intersect(r) {
				ok = false
				break
			}
		}
		if ok {
			rooms = append(rooms, candidate)
		}
	}
	s.Layout = &RoomLayout{Rooms: rooms}
	return nil
}

// RoomSort selects the order RoomSorter applies
type RoomSort int

const (
	SortLeftmost RoomSort = iota
	SortRightmost
	SortTopmost
	SortBottommost
	SortCentral
)

func (r RoomSort) String() string {
	switch r {
	case SortLeftmost:
		return "leftmost"
	case SortRightmost:
		return "rightmost"
	case SortTopmost:
		return "topmost"
	case SortBottommost:
		return "bottommost"
	case SortCentral:
		return "central"
	default:
		return "unknown"
	}
}

// RoomSorter reorders the room list, fixing the order later steps visit rooms
type RoomSorter struct {
	Sort RoomSort
}

// NewRoomSorter creates a room sorter
func NewRoomSorter(order RoomSort) *RoomSorter {
	return &RoomSorter{Sort: order}
}

func (b *RoomSorter) Name() string { return "RoomSorter" }

// BuildMeta implements MetaBuilder
func (b *RoomSorter) BuildMeta(rng *rand.Rand, s *BuildState) error {
	rooms := s.RequireRooms(b.Name()).Rooms
	switch b.Sort {
	case SortLeftmost:
		sort.SliceStable(rooms, func(i, j int) bool { return rooms[i].X1 < rooms[j].X1 })
	case SortRightmost:
		sort.SliceStable(rooms, func(i, j int) bool { return rooms[i].X2 > rooms[j].X2 })
	case SortTopmost:
		sort.SliceStable(rooms, func(i, j int) bool { return rooms[i].Y1 < rooms[j].Y1 })
	case SortBottommost:
		sort.SliceStable(rooms, func(i, j int) bool { return rooms[i].Y2 > rooms[j].Y2 })
	case SortCentral:
		center := Point{X: s.Width / 2, Y: s.Height / 2}
		sort.SliceStable(rooms, func(i, j int) bool {
			return distanceSquared(roomCenter(rooms[i]), center) < distanceSquared(roomCenter(rooms[j]), center)
		})
	}
	return nil
}

// RoomDrawer carves recorded rooms, occasionally as circles
type RoomDrawer struct{}

// NewRoomDrawer creates a room drawer
func NewRoomDrawer() *RoomDrawer {
	return &RoomDrawer{}
}

func (b *RoomDrawer) Name() string { return "RoomDrawer" }

// BuildMeta implements MetaBuilder
func (b *RoomDrawer) BuildMeta(rng *rand.Rand, s *BuildState) error {
	for _, r := range s.RequireRooms(b.Name()).Rooms {
		if rng.Intn(4) == 0 {
			circle(s.Map, r)
		} else {
			applyRoomToMap(s.Map, r)
		}
		s.TakeSnapshot()
	}
	return nil
}

func circle(m *world.Map, r world.Rect) {
	radius := float64(min(r.Width(), r.Height())) / 2
	c := roomCenter(r)
	for y := r.Y1; y <= r.Y2; y++ {
		for x := r.X1; x <= r.X2; x++ {
			if distance(c, Point{X: x, Y: y}) <= radius {
				carve(m, x, y)
			}
		}
	}
}

// RoomExploder lets a few short-lived diggers loose inside every room
type RoomExploder struct{}

// NewRoomExploder creates a room exploder
func NewRoomExploder() *RoomExploder {
	return &RoomExploder{}
}

func (b *RoomExploder) Name() string { return "RoomExploder" }

// BuildMeta implements MetaBuilder
func (b *RoomExploder) BuildMeta(rng *rand.Rand, s *BuildState) error {
	for _, r := range s.RequireRooms(b.Name()).Rooms {
		diggers := rollDice(rng, 1, 20) - 5
		for i := 0; i < diggers; i++ {
			p := randomPointIn(rng, r)
			for life := 20; life > 0; life-- {
				carve(s.Map, p.X, p.Y)
				p.X, p.Y = stagger(rng, s.Map, p.X, p.Y)
			}
		}
		s.TakeSnapshot()
	}
	return nil
}

// RoomCornerRounder walls off room corners that stick out into rock
type RoomCornerRounder struct{}

// NewRoomCornerRounder creates a corner rounder
func NewRoomCornerRounder() *RoomCornerRounder {
	return &RoomCornerRounder{}
}

func (b *RoomCornerRounder) Name() string { return "RoomCornerRounder" }

// BuildMeta implements MetaBuilder
func (b *RoomCornerRounder) BuildMeta(rng *rand.Rand, s *BuildState) error {
	m := s.Map
	for _, r := range s.RequireRooms(b.Name()).Rooms {
		corners := [4]Point{
			{r.X1 + 1, r.Y1 + 1},
			{r.X2, r.Y1 + 1},
			{r.X1 + 1, r.Y2},
			{r.X2, r.Y2},
		}
		for _, c := range corners {
			if wallNeighbors(m, c.X, c.Y) == 2 && interior(m, c.X, c.Y) {
				m.Set(c.X, c.Y, world.TileWall)
			}
		}
		s.TakeSnapshot()
	}
	return nil
}

// wallNeighbors counts walls among the 4-neighbourhood
func wallNeighbors(m *world.Map, x, y int) int {
	n := 0
	for _, d := range [4]Point{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		if m.At(x+d.X, y+d.Y) == world.TileWall {
			n++
		}
	}
	return n
}

// RoomCulling drops rooms whose carved area has fewer floor tiles than MinFloor
type RoomCulling struct {
	MinFloor int
}

// NewRoomCulling creates a room culling meta builder
func NewRoomCulling(minFloor int) *RoomCulling {
	return &RoomCulling{MinFloor: minFloor}
}

func (b *RoomCulling) Name() string { return "RoomCulling" }

// BuildMeta implements MetaBuilder
func (b *RoomCulling) BuildMeta(rng *rand.Rand, s *BuildState) error {
	layout := s.RequireRooms(b.Name())
	kept := layout.Rooms[:0]
	for _, r := range layout.Rooms {
		if roomFloor(s.Map, r) >= b.MinFloor {
			kept = append(kept, r)
		}
	}
	layout.Rooms = kept
	return nil
}

// roomFloor counts walkable tiles inside a room's carved interior
func roomFloor(m *world.Map, r world.Rect) int {
	return len(roomTiles(m, r))
}

// roomTiles lists the walkable tiles of a room's carved interior
func roomTiles(m *world.Map, r world.Rect) []int {
	var out []int
	for y := r.Y1 + 1; y <= r.Y2; y++ {
		for x := r.X1 + 1; x <= r.X2; x++ {
			if m.InBounds(x, y) && m.At(x, y).Walkable() {
				out = append(out, m.XYIdx(x, y))
			}
		}
	}
	return out
}

// nearestUnconnected returns the room closest to rooms[i] not yet joined up,
// or -1 when every other room is connected
func nearestUnconnected(rooms []world.Rect, i int, connected map[int]bool) int {
	best, bestDist := -1, math.MaxFloat64
	c := roomCenter(rooms[i])
	for j, other := range rooms {
		if j == i || connected[j] {
			continue
		}
		if d := distance(c, roomCenter(other)); d < bestDist {
			best, bestDist = j, d
		}
	}
	return best
}
