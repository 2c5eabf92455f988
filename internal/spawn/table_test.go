package spawn

import (
	"errors"
	"math/rand"
	"testing"
)

func TestEntryWeightAt(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		depth int
		want  int
	}{
		{"flat", Entry{Weight: 10}, 4, 10},
		{"bonus", Entry{Weight: 1, DepthBonus: 1}, 4, 5},
		{"negative clamps", Entry{Weight: -6, DepthBonus: 1}, 3, 0},
		{"late unlock", Entry{Weight: -6, DepthBonus: 1}, 9, 3},
		{"below min", Entry{Weight: 4, MinDepth: 7}, 6, 0},
		{"above max", Entry{Weight: 8, MaxDepth: 5}, 6, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.WeightAt(tt.depth); got != tt.want {
				t.Errorf("WeightAt(%d) = %d, want %d", tt.depth, got, tt.want)
			}
		})
	}
}

func TestDefaultTableByDepth(t *testing.T) {
	shallow, err := ForDepth(1)
	if err != nil {
		t.Fatalf("ForDepth(1) failed: %v", err)
	}
	deep, err := ForDepth(10)
	if err != nil {
		t.Fatalf("ForDepth(10) failed: %v", err)
	}
	if deep.Len() <= shallow.Len() {
		t.Errorf("deep table has %d entries, shallow %d; deep levels should unlock content", deep.Len(), shallow.Len())
	}

	for _, e := range shallow.entries {
		if e.name == "Longsword" || e.name == "Dark Elf" {
			t.Errorf("%s should not be available at depth 1", e.name)
		}
	}
}

func TestEmptyTable(t *testing.T) {
	_, err := NewTable([]Entry{{Name: "Nothing", Weight: 0}}, 1)
	if !errors.Is(err, ErrEmptyTable) {
		t.Errorf("NewTable() error = %v, want ErrEmptyTable", err)
	}
}

func TestRollDistribution(t *testing.T) {
	table, err := NewTable([]Entry{{Name: "Common", Weight: 9}, {Name: "Rare", Weight: 1}}, 1)
	if err != nil {
		t.Fatalf("NewTable() failed: %v", err)
	}
	rng := rand.New(rand.NewSource(42))

	counts := make(map[string]int)
	for i := 0; i < 10000; i++ {
		counts[table.Roll(rng)]++
	}
	if counts["Common"] < 8500 || counts["Common"] > 9500 {
		t.Errorf("Common rolled %d times out of 10000, want about 9000", counts["Common"])
	}
}

func TestRegionDistinctTiles(t *testing.T) {
	table, _ := ForDepth(8)
	area := []int{3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14}
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 50; i++ {
		spawns := Region(area, 8, table, rng)
		seen := make(map[int]bool)
		for _, s := range spawns {
			if seen[s.Idx] {
				t.Fatalf("tile %d used twice", s.Idx)
			}
			seen[s.Idx] = true
			if s.Idx < 3 || s.Idx > 14 {
				t.Fatalf("tile %d outside area", s.Idx)
			}
		}
	}
}

func TestRegionSmallArea(t *testing.T) {
	table, _ := ForDepth(20)
	spawns := Region([]int{42}, 20, table, rand.New(rand.NewSource(1)))
	if len(spawns) > 1 {
		t.Errorf("got %d spawns for a one-tile area", len(spawns))
	}
}
