package wfc

import (
	"fmt"
	"math/rand"

	"github.com/lawnchairsociety/delvegen/internal/world"
)

// DefaultMaxRetries bounds how many fresh solves are attempted before giving up
const DefaultMaxRetries = 50

// Generator repeatedly runs solvers over a chunk catalogue until one completes
type Generator struct {
	chunks     []Chunk
	chunkSize  int
	maxRetries int

	// Observer, when set, is called with the map after every solver iteration
	Observer func(m *world.Map)
}

// NewGenerator creates a generator for the given catalogue
func NewGenerator(chunks []Chunk, chunkSize int) *Generator {
	return &Generator{
		chunks:     chunks,
		chunkSize:  chunkSize,
		maxRetries: DefaultMaxRetries,
	}
}

// SetMaxRetries changes the retry bound; values below one are ignored
func (g *Generator) SetMaxRetries(n int) {
	if n > 0 {
		g.maxRetries = n
	}
}

// Generate solves into m, resetting it to solid wall before each attempt.
// It returns the successful solver, or an error wrapping ErrContradiction
// once the retry bound is exhausted.
func (g *Generator) Generate(m *world.Map, rng *rand.Rand) (*Solver, error) {
	if len(g.chunks) == 0 {
		return nil, ErrNoChunks
	}
	if g.chunkSize <= 0 || g.chunkSize > m.Width || g.chunkSize > m.Height {
		return nil, fmt.Errorf("%w: %d for %dx%d map", ErrInvalidChunkSize, g.chunkSize, m.Width, m.Height)
	}

	var lastErr error
	for attempt := 0; attempt < g.maxRetries; attempt++ {
		for i := range m.Tiles {
			m.Tiles[i] = world.TileWall
		}

		solver := NewSolver(g.chunks, g.chunkSize, m)
		for !solver.Iteration(m, rng) {
			if g.Observer != nil {
				g.Observer(m)
			}
		}
		if g.Observer != nil {
			g.Observer(m)
		}

		if solver.Possible() {
			return solver, nil
		}
		lastErr = fmt.Errorf("attempt %d: %w", attempt+1, ErrContradiction)
	}

	if lastErr != nil {
		return nil, fmt.Errorf("failed after %d attempts: %w", g.maxRetries, lastErr)
	}
	return nil, ErrNoSolution
}
