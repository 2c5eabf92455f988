package wfc

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/lawnchairsociety/delvegen/internal/world"
)

func TestNewSolver(t *testing.T) {
	m := world.NewMap(1, 80, 50, "Target")
	solver := NewSolver(nil, 7, m)

	if solver.ChunksX != 11 {
		t.Errorf("ChunksX = %d, want 11", solver.ChunksX)
	}
	if solver.ChunksY != 7 {
		t.Errorf("ChunksY = %d, want 7", solver.ChunksY)
	}
	if !solver.Possible() {
		t.Error("new solver should be possible")
	}
	if solver.Complete() {
		t.Error("new solver should not be complete")
	}
}

// checkEdges verifies every adjacent pair of placed chunks is compatible
func checkEdges(t *testing.T, s *Solver, chunks []Chunk) {
	t.Helper()
	for cy := 0; cy < s.ChunksY; cy++ {
		for cx := 0; cx < s.ChunksX; cx++ {
			a, ok := s.Assigned(cx, cy)
			if !ok {
				t.Fatalf("slot (%d,%d) unassigned in a completed solve", cx, cy)
			}
			if cx+1 < s.ChunksX {
				b, _ := s.Assigned(cx+1, cy)
				if !Compatible(&chunks[a], &chunks[b], East) {
					t.Errorf("slots (%d,%d)-(%d,%d) incompatible", cx, cy, cx+1, cy)
				}
			}
			if cy+1 < s.ChunksY {
				b, _ := s.Assigned(cx, cy+1)
				if !Compatible(&chunks[a], &chunks[b], South) {
					t.Errorf("slots (%d,%d)-(%d,%d) incompatible", cx, cy, cx, cy+1)
				}
			}
		}
	}
}

func TestSolverScenario(t *testing.T) {
	m := exemplar()
	m.Set(3, 6, world.TileWall)
	m.Set(2, 6, world.TileFloor)
	patterns, err := BuildPatterns(m, 7, FlipBoth, true)
	if err != nil {
		t.Fatalf("BuildPatterns() failed: %v", err)
	}
	if len(patterns) < 2 {
		t.Fatalf("need at least 2 patterns, got %d", len(patterns))
	}
	chunks := BuildChunks(patterns, 7)

	for seed := int64(1); seed <= 20; seed++ {
		target := world.NewMap(1, 80, 50, "Target")
		solver := NewSolver(chunks, 7, target)
		rng := rand.New(rand.NewSource(seed))
		for !solver.Iteration(target, rng) {
		}

		if !solver.Possible() {
			continue
		}
		if !solver.Complete() {
			t.Errorf("seed %d: possible solve left slots unassigned", seed)
			continue
		}
		checkEdges(t, solver, chunks)
	}
}

func TestSolverPicksMostConstrainedLowestSlot(t *testing.T) {
	open := world.NewMap(1, 14, 14, "Open")
	for i := range open.Tiles {
		open.Tiles[i] = world.TileFloor
	}
	patterns, err := BuildPatterns(open, 7, FlipNone, true)
	if err != nil {
		t.Fatalf("BuildPatterns() failed: %v", err)
	}
	chunks := BuildChunks(patterns, 7)

	target := world.NewMap(1, 70, 70, "Target")
	solver := NewSolver(chunks, 7, target)
	rng := rand.New(rand.NewSource(1))
	decided := func(i int) bool {
		_, ok := solver.Assigned(i%solver.ChunksX, i/solver.ChunksX)
		return ok
	}

	for iteration := 1; ; iteration++ {
		want, best := -1, 0
		for i := 0; i < solver.ChunksX*solver.ChunksY; i++ {
			if decided(i) {
				continue
			}
			count := 0
			for _, d := range AllDirections() {
				if n, ok := solver.neighbor(i, d); ok && decided(n) {
					count++
				}
			}
			if count > best {
				want, best = i, count
			}
		}

		before := make([]bool, solver.ChunksX*solver.ChunksY)
		for i := range before {
			before[i] = decided(i)
		}
		done := solver.Iteration(target, rng)

		got := -1
		for i := range before {
			if !before[i] && decided(i) {
				got = i
			}
		}
		if want >= 0 && got != want {
			t.Errorf("iteration %d: picked slot %d, want %d (%d decided neighbours)", iteration, got, want, best)
		}
		if done {
			break
		}
	}
	if !solver.Complete() {
		t.Error("open exemplar should always solve")
	}
}

func TestSolverDeterministic(t *testing.T) {
	patterns, _ := BuildPatterns(exemplar(), 7, FlipNone, true)
	chunks := BuildChunks(patterns, 7)

	run := func() string {
		target := world.NewMap(1, 42, 42, "Target")
		solver := NewSolver(chunks, 7, target)
		rng := rand.New(rand.NewSource(99))
		for !solver.Iteration(target, rng) {
		}
		return target.EncodeTiles()
	}

	if run() != run() {
		t.Error("same seed should produce identical maps")
	}
}

func TestGeneratorSuccess(t *testing.T) {
	patterns, _ := BuildPatterns(exemplar(), 7, FlipNone, true)
	chunks := BuildChunks(patterns, 7)

	gen := NewGenerator(chunks, 7)
	steps := 0
	gen.Observer = func(*world.Map) { steps++ }

	target := world.NewMap(1, 35, 35, "Target")
	solver, err := gen.Generate(target, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	if !solver.Complete() {
		t.Error("successful solve should be complete")
	}
	if steps == 0 {
		t.Error("observer should have been called")
	}
	checkEdges(t, solver, chunks)
}

func TestGeneratorRetriesBounded(t *testing.T) {
	// Chunks that accept no neighbours contradict on the second placement
	chunks := []Chunk{
		{Pattern: make([]world.TileType, 4)},
		{Pattern: make([]world.TileType, 4)},
	}
	gen := NewGenerator(chunks, 2)
	gen.SetMaxRetries(3)

	target := world.NewMap(1, 4, 2, "Target")
	_, err := gen.Generate(target, rand.New(rand.NewSource(1)))
	if err == nil {
		t.Fatal("Generate() should fail when every attempt contradicts")
	}
	if !errors.Is(err, ErrContradiction) {
		t.Errorf("error = %v, want ErrContradiction", err)
	}
}

func TestGeneratorEmptyCatalogue(t *testing.T) {
	gen := NewGenerator(nil, 7)
	if _, err := gen.Generate(world.NewMap(1, 20, 20, "T"), rand.New(rand.NewSource(1))); !errors.Is(err, ErrNoChunks) {
		t.Errorf("error = %v, want ErrNoChunks", err)
	}
}
