package wfc

import (
	"errors"
	"math/rand"

	"github.com/lawnchairsociety/delvegen/internal/world"
)

var (
	ErrContradiction    = errors.New("wfc: contradiction - no compatible chunk for slot")
	ErrNoSolution       = errors.New("wfc: failed to find valid solution")
	ErrInvalidChunkSize = errors.New("wfc: invalid chunk size")
	ErrNoChunks         = errors.New("wfc: empty chunk catalogue")
)

// slot is an undecided chunk position and its count of decided neighbours
type slot struct {
	idx       int
	neighbors int
}

// Solver fills a map with chunks one slot at a time
type Solver struct {
	ChunksX, ChunksY int

	chunks    []Chunk
	chunkSize int
	assigned  []int
	remaining []slot
	possible  bool
}

// NewSolver creates a solver covering as many whole chunks as fit on the map
func NewSolver(chunks []Chunk, chunkSize int, m *world.Map) *Solver {
	s := &Solver{
		ChunksX:   m.Width / chunkSize,
		ChunksY:   m.Height / chunkSize,
		chunks:    chunks,
		chunkSize: chunkSize,
		possible:  true,
	}

	n := s.ChunksX * s.ChunksY
	s.assigned = make([]int, n)
	s.remaining = make([]slot, n)
	for i := range s.assigned {
		s.assigned[i] = -1
		s.remaining[i] = slot{idx: i}
	}
	return s
}

// Possible returns false once the solver has hit a contradiction
func (s *Solver) Possible() bool {
	return s.possible
}

// Assigned returns the catalogue index placed at a chunk slot
func (s *Solver) Assigned(cx, cy int) (int, bool) {
	c := s.assigned[cy*s.ChunksX+cx]
	return c, c >= 0
}

// Complete returns true if every slot holds a chunk
func (s *Solver) Complete() bool {
	for _, c := range s.assigned {
		if c < 0 {
			return false
		}
	}
	return true
}

func (s *Solver) neighbor(idx int, d Direction) (int, bool) {
	cx, cy := idx%s.ChunksX, idx/s.ChunksX
	dx, dy := d.Offset()
	nx, ny := cx+dx, cy+dy
	if nx < 0 || nx >= s.ChunksX || ny < 0 || ny >= s.ChunksY {
		return 0, false
	}
	return ny*s.ChunksX + nx, true
}

// Iteration decides one slot and stamps it into the map. It returns true when
// the solve is finished, either complete or impossible.
func (s *Solver) Iteration(m *world.Map, rng *rand.Rand) bool {
	if len(s.remaining) == 0 || !s.possible {
		return true
	}

	// Most decided neighbours wins, ties go to the lowest slot index.
	// remaining stays in index order, so the first maximum is the lowest.
	pick, best := 0, 0
	for i := range s.remaining {
		count := 0
		for _, d := range AllDirections() {
			if n, ok := s.neighbor(s.remaining[i].idx, d); ok && s.assigned[n] >= 0 {
				count++
			}
		}
		s.remaining[i].neighbors = count
		if count > best {
			pick, best = i, count
		}
	}
	if best == 0 {
		pick = rng.Intn(len(s.remaining))
	}
	idx := s.remaining[pick].idx
	s.remaining = append(s.remaining[:pick], s.remaining[pick+1:]...)

	// Each decided neighbour contributes the chunks it accepts facing this slot
	var options [][]int
	for _, d := range AllDirections() {
		n, ok := s.neighbor(idx, d)
		if !ok || s.assigned[n] < 0 {
			continue
		}
		options = append(options, s.chunks[s.assigned[n]].Compatible[d.Opposite()])
	}

	var choice int
	if len(options) == 0 {
		choice = rng.Intn(len(s.chunks))
	} else {
		candidates := intersect(options)
		if len(candidates) == 0 {
			s.possible = false
			return true
		}
		choice = candidates[rng.Intn(len(candidates))]
	}

	s.assigned[idx] = choice
	cx, cy := idx%s.ChunksX, idx/s.ChunksX
	Stamp(m, &s.chunks[choice], s.chunkSize, cx*s.chunkSize, cy*s.chunkSize)
	return len(s.remaining) == 0
}

// intersect keeps the members of the first list present in every other list
func intersect(lists [][]int) []int {
	var out []int
	for _, c := range lists[0] {
		inAll := true
		for _, other := range lists[1:] {
			if !contains(other, c) {
				inAll = false
				break
			}
		}
		if inAll {
			out = append(out, c)
		}
	}
	return out
}

func contains(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
