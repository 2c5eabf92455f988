package dungeon

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/lawnchairsociety/delvegen/internal/builder"
	"github.com/lawnchairsociety/delvegen/internal/world"
)

func TestNewDungeon(t *testing.T) {
	d := NewDungeon(42, 80, 50, builder.DefaultLevelOptions())
	if d.Seed != 42 {
		t.Errorf("Seed = %d, want 42", d.Seed)
	}
	if d.Levels == nil {
		t.Error("Levels should not be nil")
	}
	if d.HasLevel(1) {
		t.Error("HasLevel(1) should be false before generation")
	}
}

func TestGetLevelGeneratesOnce(t *testing.T) {
	ctx := context.Background()
	d := NewDungeon(42, 80, 50, builder.DefaultLevelOptions())

	first, err := d.GetLevel(ctx, 1)
	if err != nil {
		t.Fatalf("GetLevel(1): %v", err)
	}
	second, err := d.GetLevel(ctx, 1)
	if err != nil {
		t.Fatalf("GetLevel(1) again: %v", err)
	}
	if first != second {
		t.Error("GetLevel regenerated an existing level")
	}
	if d.Deepest != 1 {
		t.Errorf("Deepest = %d, want 1", d.Deepest)
	}
}

func TestGetLevelRejectsInvalidDepth(t *testing.T) {
	d := NewDungeon(42, 80, 50, builder.DefaultLevelOptions())
	if _, err := d.GetLevel(context.Background(), 0); err == nil {
		t.Error("GetLevel(0) should fail")
	}
}

func TestLevelsIndependentOfVisitOrder(t *testing.T) {
	ctx := context.Background()
	a := NewDungeon(7, 80, 50, builder.DefaultLevelOptions())
	b := NewDungeon(7, 80, 50, builder.DefaultLevelOptions())

	if _, err := a.GetLevel(ctx, 2); err != nil {
		t.Fatal(err)
	}
	la, err := a.GetLevel(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	lb, err := b.GetLevel(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if la.Map.EncodeTiles() != lb.Map.EncodeTiles() {
		t.Error("depth 3 differs depending on which levels were visited first")
	}
}

func TestConcurrentGetLevel(t *testing.T) {
	ctx := context.Background()
	d := NewDungeon(99, 80, 50, builder.DefaultLevelOptions())

	var wg sync.WaitGroup
	results := make([]*Level, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			level, err := d.GetLevel(ctx, 2)
			if err != nil {
				t.Errorf("GetLevel: %v", err)
				return
			}
			results[i] = level
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(results); i++ {
		if results[i] != results[0] {
			t.Fatal("concurrent callers saw different levels")
		}
	}
}

func TestSpawnEntitiesDrainsLevel(t *testing.T) {
	ctx := context.Background()
	d := NewDungeon(42, 80, 50, builder.DefaultLevelOptions())
	level, err := d.GetLevel(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	want := len(level.Spawns)
	if want == 0 {
		t.Fatal("town produced no spawns")
	}

	got := 0
	if err := d.SpawnEntities(1, func(world.Spawn) { got++ }); err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("SpawnEntities delivered %d spawns, want %d", got, want)
	}
	if len(level.Spawns) != 0 {
		t.Error("spawns were not cleared")
	}
	if err := d.SpawnEntities(9, func(world.Spawn) {}); err == nil {
		t.Error("SpawnEntities on an ungenerated depth should fail")
	}
}

func TestSaveAndLoadDungeon(t *testing.T) {
	ctx := context.Background()
	for _, snapshot := range []bool{false, true} {
		file := filepath.Join(t.TempDir(), "dungeon.yaml")
		d := NewDungeon(12345, 80, 50, builder.DefaultLevelOptions())
		for depth := 1; depth <= 3; depth++ {
			if _, err := d.GetLevel(ctx, depth); err != nil {
				t.Fatalf("GetLevel(%d): %v", depth, err)
			}
		}

		if err := SaveDungeon(d, file, snapshot); err != nil {
			t.Fatalf("SaveDungeon: %v", err)
		}
		if !DungeonFileExists(file) {
			t.Fatal("dungeon file should exist after save")
		}

		loaded, err := LoadDungeon(ctx, file, builder.DefaultLevelOptions())
		if err != nil {
			t.Fatalf("LoadDungeon: %v", err)
		}
		if loaded.Seed != d.Seed || loaded.Deepest != d.Deepest {
			t.Errorf("loaded seed/deepest = %d/%d, want %d/%d", loaded.Seed, loaded.Deepest, d.Seed, d.Deepest)
		}
		for depth := 1; depth <= 3; depth++ {
			orig := d.GetLevelIfExists(depth)
			got := loaded.GetLevelIfExists(depth)
			if got == nil {
				t.Fatalf("snapshot=%v: depth %d missing after load", snapshot, depth)
			}
			if got.Map.EncodeTiles() != orig.Map.EncodeTiles() {
				t.Errorf("snapshot=%v: depth %d tiles differ after load", snapshot, depth)
			}
			if got.Start != orig.Start {
				t.Errorf("snapshot=%v: depth %d start = %v, want %v", snapshot, depth, got.Start, orig.Start)
			}
		}
	}
}

func TestLoadDungeonMissingFile(t *testing.T) {
	if _, err := LoadDungeon(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"), builder.DefaultLevelOptions()); err == nil {
		t.Error("LoadDungeon should fail for a missing file")
	}
}
