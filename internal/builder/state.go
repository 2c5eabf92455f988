package builder

import (
	"context"
	"fmt"

	"github.com/lawnchairsociety/delvegen/internal/world"
)

// Point is a map coordinate
type Point struct {
	X, Y int
}

// RoomLayout is present only on chains whose starter produces rooms
type RoomLayout struct {
	Rooms     []world.Rect
	Corridors [][]int
}

// BuildState is the mutable record every pipeline step operates on
type BuildState struct {
	Map    *world.Map
	Spawns []world.Spawn
	Start  *Point

	// Layout is nil for organic chains
	Layout *RoomLayout

	History *History

	Width  int
	Height int
	Depth  int

	// ctx is the running step's context, set only while a chain builds
	ctx context.Context
}

// NewBuildState creates the state for one generation request
func NewBuildState(depth, width, height int, name string) *BuildState {
	return &BuildState{
		Map:    world.NewMap(depth, width, height, name),
		Width:  width,
		Height: height,
		Depth:  depth,
	}
}

// Context returns the context of the step currently running, for steps that
// build nested chains
func (s *BuildState) Context() context.Context {
	if s.ctx == nil {
		return context.Background()
	}
	return s.ctx
}

// TakeSnapshot records a fully revealed copy of the map when history is enabled
func (s *BuildState) TakeSnapshot() {
	if s.History == nil {
		return
	}
	snap := s.Map.Clone()
	snap.RevealAll()
	s.History.Add(snap)
}

// RequireRooms returns the room layout, panicking when a room-based step is
// run on an organic chain
func (s *BuildState) RequireRooms(step string) *RoomLayout {
	if s.Layout == nil {
		panic(fmt.Sprintf("builder: %s requires a room-based chain", step))
	}
	return s.Layout
}

// RequireStart returns the starting position, panicking if none was chosen
func (s *BuildState) RequireStart(step string) Point {
	if s.Start == nil {
		panic(fmt.Sprintf("builder: %s requires a starting position", step))
	}
	return *s.Start
}

// StartIdx returns the tile index of the starting position
func (s *BuildState) StartIdx() (int, bool) {
	if s.Start == nil {
		return 0, false
	}
	return s.Map.XYIdx(s.Start.X, s.Start.Y), true
}

// AddSpawn appends a spawn request
func (s *BuildState) AddSpawn(idx int, tag string) {
	s.Spawns = append(s.Spawns, world.Spawn{Idx: idx, Tag: tag})
}

// HasSpawnAt returns true if a spawn already targets idx
func (s *BuildState) HasSpawnAt(idx int) bool {
	for _, sp := range s.Spawns {
		if sp.Idx == idx {
			return true
		}
	}
	return false
}

// RemoveSpawnsIn drops spawns inside the inclusive rectangle
func (s *BuildState) RemoveSpawnsIn(r world.Rect) {
	kept := s.Spawns[:0]
	for _, sp := range s.Spawns {
		x, y := s.Map.IdxXY(sp.Idx)
		if x >= r.X1 && x <= r.X2 && y >= r.Y1 && y <= r.Y2 {
			continue
		}
		kept = append(kept, sp)
	}
	s.Spawns = kept
}
