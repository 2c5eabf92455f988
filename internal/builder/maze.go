package builder

import (
	"math/rand"

	"github.com/lawnchairsociety/delvegen/internal/wfc"
	"github.com/lawnchairsociety/delvegen/internal/world"
)

// mazeCell is one node of the half-resolution maze grid
type mazeCell struct {
	x, y    int
	visited bool
	walls   [4]bool // indexed by wfc.Direction
}

// mazeGrid stores cells in one backing slice addressed by index
type mazeGrid struct {
	width, height int
	cells         []mazeCell
	stack         []int
}

func newMazeGrid(width, height int) *mazeGrid {
	g := &mazeGrid{width: width, height: height, cells: make([]mazeCell, width*height)}
	for i := range g.cells {
		g.cells[i] = mazeCell{x: i % width, y: i / width, walls: [4]bool{true, true, true, true}}
	}
	return g
}

func (g *mazeGrid) index(x, y int) (int, bool) {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return 0, false
	}
	return y*g.width + x, true
}

// unvisitedNeighbors lists neighbouring cells not yet carved, in direction order
func (g *mazeGrid) unvisitedNeighbors(idx int) []int {
	c := g.cells[idx]
	var out []int
	for _, d := range wfc.AllDirections() {
		dx, dy := d.Offset()
		if n, ok := g.index(c.x+dx, c.y+dy); ok && !g.cells[n].visited {
			out = append(out, n)
		}
	}
	return out
}

// removeWalls opens the shared wall between two adjacent cells
func (g *mazeGrid) removeWalls(a, b int) {
	ca, cb := g.cells[a], g.cells[b]
	for _, d := range wfc.AllDirections() {
		dx, dy := d.Offset()
		if ca.x+dx == cb.x && ca.y+dy == cb.y {
			g.cells[a].walls[d] = false
			g.cells[b].walls[d.Opposite()] = false
			return
		}
	}
}

// generate runs the recursive backtracker with an explicit stack
func (g *mazeGrid) generate(rng *rand.Rand, onStep func()) {
	if len(g.cells) == 0 {
		return
	}
	current := 0
	for {
		g.cells[current].visited = true
		candidates := g.unvisitedNeighbors(current)

		if len(candidates) > 0 {
			next := candidates[0]
			if len(candidates) > 1 {
				next = candidates[rng.Intn(len(candidates))]
			}
			g.cells[next].visited = true
			g.stack = append(g.stack, current)
			g.removeWalls(current, next)
			current = next
			if onStep != nil {
				onStep()
			}
			continue
		}

		if len(g.stack) == 0 {
			return
		}
		current = g.stack[len(g.stack)-1]
		g.stack = g.stack[:len(g.stack)-1]
	}
}

// rasterize writes each cell and its open walls into the map at 2x scale
func (g *mazeGrid) rasterize(m *world.Map) {
	for _, c := range g.cells {
		x, y := (c.x+1)*2, (c.y+1)*2
		m.Set(x, y, world.TileFloor)
		for _, d := range wfc.AllDirections() {
			if !c.walls[d] {
				dx, dy := d.Offset()
				m.Set(x+dx, y+dy, world.TileFloor)
			}
		}
	}
}

// Maze carves a perfect maze of one-tile passages
type Maze struct{}

// NewMaze creates a maze builder
func NewMaze() *Maze {
	return &Maze{}
}

func (b *Maze) Name() string { return "Maze" }

// BuildInitial implements InitialBuilder
func (b *Maze) BuildInitial(rng *rand.Rand, s *BuildState) error {
	g := newMazeGrid(max(0, s.Width/2-2), max(0, s.Height/2-2))
	steps := 0
	g.generate(rng, func() {
		steps++
		if steps%10 == 0 && s.History != nil {
			g.rasterize(s.Map)
			s.TakeSnapshot()
		}
	})
	g.rasterize(s.Map)
	s.TakeSnapshot()
	s.Layout = nil
	return nil
}
