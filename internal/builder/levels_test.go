package builder

import (
	"context"
	"math/rand"
	"testing"

	"github.com/lawnchairsociety/delvegen/internal/world"
)

func runLevel(depth int, seed int64, opts LevelOptions) (*Chain, error) {
	rng := rand.New(rand.NewSource(seed))
	c := LevelBuilder(depth, 80, 50, rng, opts)
	return c, c.Build(context.Background(), rng)
}

func TestLevelsAreDeterministic(t *testing.T) {
	for depth := 1; depth <= 9; depth++ {
		a, errA := runLevel(depth, 1234, DefaultLevelOptions())
		b, errB := runLevel(depth, 1234, DefaultLevelOptions())
		if (errA == nil) != (errB == nil) {
			t.Fatalf("depth %d: errors differ: %v vs %v", depth, errA, errB)
		}
		if errA != nil {
			continue
		}
		compareStates(t, depth, a.State, b.State)
	}
}

func TestSnapshotsDoNotChangeResults(t *testing.T) {
	for _, depth := range []int{1, 2, 5, 8} {
		opts := DefaultLevelOptions()
		plain, errA := runLevel(depth, 77, opts)
		opts.HistoryCap = 50
		recorded, errB := runLevel(depth, 77, opts)
		if (errA == nil) != (errB == nil) {
			t.Fatalf("depth %d: errors differ: %v vs %v", depth, errA, errB)
		}
		if errA != nil {
			continue
		}
		compareStates(t, depth, plain.State, recorded.State)
		if recorded.State.History.Len() == 0 {
			t.Errorf("depth %d: no snapshots recorded", depth)
		}
		if recorded.State.History.Len() > 50 {
			t.Errorf("depth %d: history holds %d snapshots, cap is 50", depth, recorded.State.History.Len())
		}
	}
}

func TestLevelsHaveStartAndIndicesInRange(t *testing.T) {
	for depth := 1; depth <= 7; depth++ {
		c, err := runLevel(depth, 5, DefaultLevelOptions())
		if err != nil {
			t.Logf("depth %d: %v", depth, err)
			continue
		}
		if c.State.Start == nil {
			t.Errorf("depth %d: no starting position", depth)
		}
		checkIndices(t, c.State)
	}
}

func compareStates(t *testing.T, depth int, a, b *BuildState) {
	t.Helper()
	if a.Map.EncodeTiles() != b.Map.EncodeTiles() {
		t.Errorf("depth %d: tile grids differ", depth)
	}
	if len(a.Spawns) != len(b.Spawns) {
		t.Fatalf("depth %d: %d spawns vs %d", depth, len(a.Spawns), len(b.Spawns))
	}
	for i := range a.Spawns {
		if a.Spawns[i] != b.Spawns[i] {
			t.Errorf("depth %d: spawn %d differs: %v vs %v", depth, i, a.Spawns[i], b.Spawns[i])
		}
	}
	if (a.Start == nil) != (b.Start == nil) || (a.Start != nil && *a.Start != *b.Start) {
		t.Errorf("depth %d: starts differ: %v vs %v", depth, a.Start, b.Start)
	}
}

func TestForestSpawnsAvoidRoadAndStream(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		c, err := runLevel(2, seed, DefaultLevelOptions())
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		s := c.State
		if len(s.Spawns) == 0 {
			t.Errorf("seed %d: forest has no spawns", seed)
		}
		for _, sp := range s.Spawns {
			if got := s.Map.Tiles[sp.Idx]; got != world.TileFloor {
				t.Errorf("seed %d: spawn %q on %v, want floor", seed, sp.Tag, got)
			}
		}
	}
}
