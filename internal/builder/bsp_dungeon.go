package builder

import (
	"math/rand"
	"sort"

	"github.com/lawnchairsociety/delvegen/internal/world"
)

// bspAttempts is the fixed number of room placement attempts
const bspAttempts = 240

// BspDungeon quarters the map repeatedly and drops rooms into random partitions
type BspDungeon struct {
	rects []world.Rect
}

// NewBspDungeon creates a BSP dungeon builder
func NewBspDungeon() *BspDungeon {
	return &BspDungeon{}
}

func (b *BspDungeon) Name() string { return "BspDungeon" }

// BuildInitial implements InitialBuilder
func (b *BspDungeon) BuildInitial(rng *rand.Rand, s *BuildState) error {
	var rooms []world.Rect
	b.rects = b.rects[:0]

	first := world.NewRect(2, 2, s.Width-5, s.Height-5)
	b.rects = append(b.rects, first)
	b.addSubrects(first)

	for attempt := 0; attempt < bspAttempts; attempt++ {
		rect := b.randomRect(rng)
		candidate := randomSubRect(rng, rect)
		if b.isPossible(s.Map, candidate, rooms) {
			applyRoomToMap(s.Map, candidate)
			rooms = append(rooms, candidate)
			b.addSubrects(rect)
			s.TakeSnapshot()
		}
	}

	sort.SliceStable(rooms, func(i, j int) bool { return rooms[i].X1 < rooms[j].X1 })

	var corridors [][]int
	for i := 0; i+1 < len(rooms); i++ {
		from := randomPointIn(rng, rooms[i])
		to := randomPointIn(rng, rooms[i+1])
		corridors = append(corridors, dogleg(rng, s.Map, from, to))
		s.TakeSnapshot()
	}

	s.Layout = &RoomLayout{Rooms: rooms, Corridors: corridors}
	return nil
}

// addSubrects splits a rectangle into four quarters
func (b *BspDungeon) addSubrects(r world.Rect) {
	halfW := max(r.Width()/2, 1)
	halfH := max(r.Height()/2, 1)

	b.rects = append(b.rects,
		world.NewRect(r.X1, r.Y1, halfW, halfH),
		world.NewRect(r.X1, r.Y1+halfH, halfW, halfH),
		world.NewRect(r.X1+halfW, r.Y1, halfW, halfH),
		world.NewRect(r.X1+halfW, r.Y1+halfH, halfW, halfH),
	)
}

func (b *BspDungeon) randomRect(rng *rand.Rand) world.Rect {
	if len(b.rects) == 1 {
		return b.rects[0]
	}
	return b.rects[rng.Intn(len(b.rects))]
}

// randomSubRect picks a room of 4 to 10 tiles a side inside a partition
func randomSubRect(rng *rand.Rand, r world.Rect) world.Rect {
	w := max(3, rng.Intn(max(1, min(r.Width(), 10))))+1
	h := max(3, rng.Intn(max(1, min(r.Height(), 10))))+1
	x := r.X1 + rng.Intn(6)
	y := r.Y1 + rng.Intn(6)
	return world.NewRect(x, y, w, h)
}

// isPossible rejects rooms that leave the map, touch existing floor, or come
// within one tile of a placed room
func (b *BspDungeon) isPossible(m *world.Map, r world.Rect, rooms []world.Rect) bool {
	margin := r.Expand(1)
	for _, other := range rooms {
		if other.Intersect(margin) {
			return false
		}
	}

	for y := margin.Y1; y <= margin.Y2; y++ {
		for x := margin.X1; x <= margin.X2; x++ {
			if x < 1 || y < 1 || x > m.Width-2 || y > m.Height-2 {
				return false
			}
			if m.At(x, y) != world.TileWall {
				return false
			}
		}
	}
	return true
}
