package builder

import (
	"math/rand"

	"github.com/lawnchairsociety/delvegen/internal/world"
)

// MinInteriorRoomSize is the smallest half a BSP interior split may produce
const MinInteriorRoomSize = 8

// BspInterior bisects the whole map into rooms separated by single walls
type BspInterior struct {
	leaves []world.Rect
}

// NewBspInterior creates a BSP interior builder
func NewBspInterior() *BspInterior {
	return &BspInterior{}
}

func (b *BspInterior) Name() string { return "BspInterior" }

// BuildInitial implements InitialBuilder
func (b *BspInterior) BuildInitial(rng *rand.Rand, s *BuildState) error {
	b.leaves = b.leaves[:0]
	b.split(rng, world.Rect{X1: 0, Y1: 0, X2: s.Width - 2, Y2: s.Height - 2})

	rooms := append([]world.Rect(nil), b.leaves...)
	for _, r := range rooms {
		applyRoomToMap(s.Map, r)
		s.TakeSnapshot()
	}

	var corridors [][]int
	for i := 0; i+1 < len(rooms); i++ {
		from := randomPointIn(rng, rooms[i])
		to := randomPointIn(rng, rooms[i+1])
		corridors = append(corridors, drawCorridor(s.Map, from.X, from.Y, to.X, to.Y))
		s.TakeSnapshot()
	}

	s.Layout = &RoomLayout{Rooms: rooms, Corridors: corridors}
	return nil
}

// split recursively bisects r until both sides are under twice the minimum
func (b *BspInterior) split(rng *rand.Rand, r world.Rect) {
	w, h := r.Width(), r.Height()
	canSplitX := w >= MinInteriorRoomSize*2
	canSplitY := h >= MinInteriorRoomSize*2
	if !canSplitX && !canSplitY {
		b.leaves = append(b.leaves, r)
		return
	}

	vertical := rng.Intn(2) == 0
	if !canSplitX {
		vertical = false
	} else if !canSplitY {
		vertical = true
	}

	if vertical {
		half := w / 2
		b.split(rng, world.Rect{X1: r.X1, Y1: r.Y1, X2: r.X1 + half - 1, Y2: r.Y2})
		b.split(rng, world.Rect{X1: r.X1 + half, Y1: r.Y1, X2: r.X2, Y2: r.Y2})
		return
	}
	half := h / 2
	b.split(rng, world.Rect{X1: r.X1, Y1: r.Y1, X2: r.X2, Y2: r.Y1 + half - 1})
	b.split(rng, world.Rect{X1: r.X1, Y1: r.Y1 + half, X2: r.X2, Y2: r.Y2})
}
