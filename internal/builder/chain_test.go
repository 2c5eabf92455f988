package builder

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/lawnchairsociety/delvegen/internal/world"
)

// openRoom carves the whole interior, for tests that need a blank canvas
type openRoom struct{}

func (openRoom) BuildInitial(rng *rand.Rand, s *BuildState) error {
	for y := 1; y < s.Height-1; y++ {
		for x := 1; x < s.Width-1; x++ {
			s.Map.Set(x, y, world.TileFloor)
		}
	}
	s.TakeSnapshot()
	return nil
}

var errBroken = errors.New("broken step")

type brokenStep struct{}

func (brokenStep) Name() string { return "BrokenStep" }

func (brokenStep) BuildMeta(rng *rand.Rand, s *BuildState) error { return errBroken }

func expectPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s did not panic", name)
		}
	}()
	fn()
}

func TestChainRequiresStarter(t *testing.T) {
	c := NewChain(1, 20, 20, "empty")
	expectPanic(t, "Build without starter", func() {
		_ = c.Build(context.Background(), rand.New(rand.NewSource(1)))
	})
}

func TestChainRejectsSecondStarter(t *testing.T) {
	c := NewChain(1, 20, 20, "twice").StartWith(openRoom{})
	expectPanic(t, "second StartWith", func() {
		c.StartWith(NewCellularAutomata())
	})
}

func TestRoomStepOnOrganicChainPanics(t *testing.T) {
	c := NewChain(1, 40, 30, "organic").
		StartWith(NewCellularAutomata()).
		With(NewRoomSorter(SortLeftmost))
	expectPanic(t, "RoomSorter on organic chain", func() {
		_ = c.Build(context.Background(), rand.New(rand.NewSource(1)))
	})
}

func TestChainWrapsStepErrors(t *testing.T) {
	c := NewChain(1, 20, 20, "broken").StartWith(openRoom{}).With(brokenStep{})
	err := c.Build(context.Background(), rand.New(rand.NewSource(1)))
	if !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("Build error = %v, want ErrGenerationFailed", err)
	}
	if !errors.Is(err, errBroken) {
		t.Errorf("Build error = %v, want it to wrap the step error", err)
	}
	if !strings.Contains(err.Error(), "BrokenStep") {
		t.Errorf("Build error %q does not name the step", err)
	}
	if c.Built() {
		t.Error("Built() = true after a failed build")
	}
}

func TestChainSteps(t *testing.T) {
	c := NewChain(1, 20, 20, "steps").
		StartWith(NewCellularAutomata()).
		With(NewAreaStartingPosition(XCenter, YCenter)).
		With(NewCullUnreachable())

	want := []string{"CellularAutomata", "AreaStartingPosition", "CullUnreachable"}
	got := c.Steps()
	if len(got) != len(want) {
		t.Fatalf("Steps() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Steps()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSpawnEntitiesDrains(t *testing.T) {
	c := NewChain(1, 20, 20, "spawns").StartWith(openRoom{})
	if err := c.Build(context.Background(), rand.New(rand.NewSource(1))); err != nil {
		t.Fatalf("Build: %v", err)
	}
	c.State.AddSpawn(42, "Goblin")
	c.State.AddSpawn(43, "Orc")

	var got []world.Spawn
	c.SpawnEntities(func(sp world.Spawn) { got = append(got, sp) })
	if len(got) != 2 || got[0].Tag != "Goblin" || got[1].Idx != 43 {
		t.Errorf("SpawnEntities delivered %v", got)
	}
	if len(c.State.Spawns) != 0 {
		t.Errorf("spawn list has %d entries after draining, want 0", len(c.State.Spawns))
	}
}

func TestHistoryRing(t *testing.T) {
	h := NewHistory(3)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		h.Add(world.NewMap(1, 2, 2, name))
	}
	if h.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", h.Len())
	}
	snaps := h.Snapshots()
	for i, want := range []string{"c", "d", "e"} {
		if snaps[i].Name != want {
			t.Errorf("Snapshots()[%d] = %q, want %q", i, snaps[i].Name, want)
		}
	}
}

func TestSnapshotsAreRevealedCopies(t *testing.T) {
	c := NewChain(1, 20, 20, "snap", WithHistory(10)).StartWith(openRoom{})
	if err := c.Build(context.Background(), rand.New(rand.NewSource(1))); err != nil {
		t.Fatalf("Build: %v", err)
	}
	snaps := c.State.History.Snapshots()
	if len(snaps) != 1 {
		t.Fatalf("history has %d snapshots, want 1", len(snaps))
	}
	if snaps[0] == c.State.Map {
		t.Error("snapshot aliases the live map")
	}
	for i, r := range snaps[0].Revealed {
		if !r {
			t.Fatalf("snapshot tile %d not revealed", i)
		}
	}
	if c.State.Map.Revealed[0] {
		t.Error("snapshotting revealed the live map")
	}
}

func TestRemoveSpawnsIn(t *testing.T) {
	s := NewBuildState(1, 10, 10, "spawns")
	s.AddSpawn(s.Map.XYIdx(2, 2), "inside")
	s.AddSpawn(s.Map.XYIdx(4, 4), "edge")
	s.AddSpawn(s.Map.XYIdx(8, 8), "outside")

	s.RemoveSpawnsIn(world.Rect{X1: 1, Y1: 1, X2: 4, Y2: 4})
	if len(s.Spawns) != 1 || s.Spawns[0].Tag != "outside" {
		t.Errorf("Spawns = %v, want only the outside spawn", s.Spawns)
	}
}

func TestNestedChainSpansJoinParentTrace(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})

	c := NewChain(5, 40, 30, "transition").
		StartWith(openRoom{}).
		With(NewCaveTransition(func(depth, width, height int) *Chain {
			return NewChain(depth, width, height, "right").StartWith(openRoom{})
		}))
	if err := c.Build(context.Background(), rand.New(rand.NewSource(1))); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if c.State.ctx != nil {
		t.Errorf("state context left set after Build")
	}

	spans := rec.Ended()
	var transition sdktrace.ReadOnlySpan
	for _, sp := range spans {
		if sp.Name() == "CaveTransition" {
			transition = sp
		}
	}
	if transition == nil {
		t.Fatalf("no CaveTransition span among %d spans", len(spans))
	}

	nested := 0
	for _, sp := range spans {
		if sp.SpanContext().TraceID() != transition.SpanContext().TraceID() {
			t.Errorf("span %q trace = %v, want %v", sp.Name(), sp.SpanContext().TraceID(), transition.SpanContext().TraceID())
		}
		if sp.Name() == "chain.build" && sp.Parent().SpanID() == transition.SpanContext().SpanID() {
			nested++
		}
	}
	if nested != 1 {
		t.Errorf("chain.build spans under CaveTransition = %d, want 1", nested)
	}
}
