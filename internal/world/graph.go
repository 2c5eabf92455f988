package world

import (
	"math"

	"codeberg.org/anaseto/gruid"
	"codeberg.org/anaseto/gruid/paths"
)

const (
	// DiagonalCost multiplies a tile's move cost for diagonal steps
	DiagonalCost = 1.45

	// Costs are fixed point with two decimals when handed to the path finder
	costScale = 100

	// minStepCost is the cheapest possible step (a cardinal move along a road)
	minStepCost = 80
)

// Unreachable is the distance reported for tiles a flood fill never reached
const Unreachable = float32(math.MaxFloat32)

// Exit is a neighbouring tile and the cost of stepping onto it
type Exit struct {
	Idx  int
	Cost float32
}

var (
	cardinalOffsets = [4]gruid.Point{{X: -1, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: -1}, {X: 0, Y: 1}}
	diagonalOffsets = [4]gruid.Point{{X: -1, Y: -1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: 1, Y: 1}}
)

// AvailableExits enumerates the up to eight passable neighbours of idx.
// Cardinal steps cost the tile's move cost, diagonal steps 1.45 times that.
func (m *Map) AvailableExits(idx int) []Exit {
	x, y := m.IdxXY(idx)
	cost := m.Tiles[idx].Cost()
	exits := make([]Exit, 0, 8)
	for _, d := range cardinalOffsets {
		if m.IsExitValid(x+d.X, y+d.Y) {
			exits = append(exits, Exit{Idx: m.XYIdx(x+d.X, y+d.Y), Cost: cost})
		}
	}
	for _, d := range diagonalOffsets {
		if m.IsExitValid(x+d.X, y+d.Y) {
			exits = append(exits, Exit{Idx: m.XYIdx(x+d.X, y+d.Y), Cost: cost * DiagonalCost})
		}
	}
	return exits
}

// pathRange returns the cached path finding range for the map's extent
func (m *Map) pathRange() *paths.PathRange {
	if m.pr == nil {
		m.pr = paths.NewPathRange(gruid.NewRange(0, 0, m.Width, m.Height))
	}
	return m.pr
}

func (m *Map) point(idx int) gruid.Point {
	x, y := m.IdxXY(idx)
	return gruid.Point{X: x, Y: y}
}

// navigator adapts a Map to the gruid path finding interfaces. Both the
// neighbour set and the step costs come from AvailableExits.
type navigator struct {
	m *Map
}

// Neighbors implements paths.Dijkstra and paths.Astar
func (n *navigator) Neighbors(p gruid.Point) []gruid.Point {
	exits := n.m.AvailableExits(n.m.XYIdx(p.X, p.Y))
	pts := make([]gruid.Point, len(exits))
	for i, e := range exits {
		pts[i] = n.m.point(e.Idx)
	}
	return pts
}

// Cost implements paths.Dijkstra and paths.Astar
func (n *navigator) Cost(from, to gruid.Point) int {
	target := n.m.XYIdx(to.X, to.Y)
	for _, e := range n.m.AvailableExits(n.m.XYIdx(from.X, from.Y)) {
		if e.Idx == target {
			return int(math.Round(float64(e.Cost * costScale)))
		}
	}
	// Non-neighbours cost a diagonal step
	return int(math.Round(float64(n.m.Tiles[n.m.XYIdx(from.X, from.Y)].Cost() * DiagonalCost * costScale)))
}

// Estimation implements paths.Astar
func (n *navigator) Estimation(from, to gruid.Point) int {
	return paths.DistanceChebyshev(from, to) * minStepCost
}

// DijkstraMap holds weighted flood fill distances from a set of origins
type DijkstraMap struct {
	Width    int
	Height   int
	MaxDepth float32
	Map      []float32
}

// NewDijkstraMap floods outward from starts, recording the cheapest path cost
// to every tile up to maxDepth. Unreached tiles hold Unreachable.
func NewDijkstraMap(m *Map, starts []int, maxDepth float32) *DijkstraMap {
	dm := &DijkstraMap{
		Width:    m.Width,
		Height:   m.Height,
		MaxDepth: maxDepth,
		Map:      make([]float32, m.Len()),
	}
	for i := range dm.Map {
		dm.Map[i] = Unreachable
	}

	sources := make([]gruid.Point, 0, len(starts))
	for _, idx := range starts {
		if m.ValidIdx(idx) {
			sources = append(sources, m.point(idx))
		}
	}
	if len(sources) == 0 {
		return dm
	}

	nav := &navigator{m: m}
	nodes := m.pathRange().DijkstraMap(nav, sources, int(maxDepth*costScale))
	for _, node := range nodes {
		dm.Map[m.XYIdx(node.P.X, node.P.Y)] = float32(node.Cost) / costScale
	}
	return dm
}

// Distance returns the flood fill distance for idx
func (dm *DijkstraMap) Distance(idx int) float32 {
	return dm.Map[idx]
}

// Reachable returns true if idx was reached by the flood fill
func (dm *DijkstraMap) Reachable(idx int) bool {
	return dm.Map[idx] < Unreachable
}

// NavigationPath is the result of an A* search
type NavigationPath struct {
	Success bool
	Steps   []int
}

// AStar finds the cheapest path from start to end over passable tiles.
// Steps include both endpoints.
func AStar(m *Map, start, end int) NavigationPath {
	if !m.ValidIdx(start) || !m.ValidIdx(end) {
		return NavigationPath{}
	}
	if start == end {
		return NavigationPath{Success: true, Steps: []int{start}}
	}
	nav := &navigator{m: m}
	pts := m.pathRange().AstarPath(nav, m.point(start), m.point(end))
	if len(pts) == 0 {
		return NavigationPath{}
	}
	steps := make([]int, len(pts))
	for i, p := range pts {
		steps[i] = m.XYIdx(p.X, p.Y)
	}
	return NavigationPath{Success: true, Steps: steps}
}
