package wfc

import (
	"errors"
	"testing"

	"github.com/lawnchairsociety/delvegen/internal/world"
)

// exemplar builds a map of 7x7 cells: rooms joined by corridors through
// every edge midpoint, with the center cell left solid.
func exemplar() *world.Map {
	m := world.NewMap(1, 21, 21, "Exemplar")
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if x/7 == 1 && y/7 == 1 {
				continue
			}
			lx, ly := x%7, y%7
			room := lx >= 1 && lx <= 5 && ly >= 1 && ly <= 5
			if room || lx == 3 || ly == 3 {
				m.Set(x, y, world.TileFloor)
			}
		}
	}
	return m
}

func TestBuildPatterns(t *testing.T) {
	m := exemplar()

	all, err := BuildPatterns(m, 7, FlipNone, false)
	if err != nil {
		t.Fatalf("BuildPatterns() failed: %v", err)
	}
	if len(all) != 9 {
		t.Errorf("patterns = %d, want 9", len(all))
	}

	unique, err := BuildPatterns(m, 7, FlipNone, true)
	if err != nil {
		t.Fatalf("BuildPatterns() failed: %v", err)
	}
	if len(unique) != 2 {
		t.Errorf("deduplicated patterns = %d, want 2", len(unique))
	}

	flipped, err := BuildPatterns(m, 7, FlipBoth, false)
	if err != nil {
		t.Fatalf("BuildPatterns() failed: %v", err)
	}
	if len(flipped) != 36 {
		t.Errorf("flipped patterns = %d, want 36", len(flipped))
	}
}

func TestBuildPatternsInvalidSize(t *testing.T) {
	m := world.NewMap(1, 10, 10, "Small")
	for _, size := range []int{0, -1, 11} {
		if _, err := BuildPatterns(m, size, FlipNone, true); !errors.Is(err, ErrInvalidChunkSize) {
			t.Errorf("BuildPatterns(size %d) error = %v, want ErrInvalidChunkSize", size, err)
		}
	}
}

func TestFlipHorizontal(t *testing.T) {
	m := world.NewMap(1, 3, 3, "Flip")
	m.Set(0, 1, world.TileFloor)

	patterns, err := BuildPatterns(m, 3, FlipHorizontal, false)
	if err != nil {
		t.Fatalf("BuildPatterns() failed: %v", err)
	}
	if len(patterns) != 2 {
		t.Fatalf("patterns = %d, want 2", len(patterns))
	}
	if patterns[0][3] != world.TileFloor || patterns[1][5] != world.TileFloor {
		t.Error("horizontal flip should mirror the west floor tile to the east edge")
	}
}

func TestChunkExits(t *testing.T) {
	patterns, _ := BuildPatterns(exemplar(), 7, FlipNone, true)
	chunks := BuildChunks(patterns, 7)

	open, closed := chunks[0], chunks[1]
	for _, d := range AllDirections() {
		if !open.EdgeHasExit(d) {
			t.Errorf("open chunk should have an exit to the %s", d)
		}
		if closed.EdgeHasExit(d) {
			t.Errorf("closed chunk should have no exit to the %s", d)
		}
	}
	if !open.Exits[North][3] || open.Exits[North][2] {
		t.Error("open chunk north exit should be only at the midpoint")
	}
	if closed.HasExits {
		t.Error("closed chunk HasExits should be false")
	}
}

func TestCompatibilityIsSymmetric(t *testing.T) {
	m := exemplar()
	// Shift a corridor so some edges no longer align
	m.Set(3, 6, world.TileWall)
	m.Set(2, 6, world.TileFloor)

	patterns, _ := BuildPatterns(m, 7, FlipBoth, true)
	chunks := BuildChunks(patterns, 7)

	for i := range chunks {
		for _, d := range AllDirections() {
			for j := range chunks {
				ab := contains(chunks[i].Compatible[d], j)
				ba := contains(chunks[j].Compatible[d.Opposite()], i)
				if ab != ba {
					t.Errorf("chunk %d %s -> %d is %v but reverse is %v", i, d, j, ab, ba)
				}
			}
		}
	}
}

func TestCompatibleAlignment(t *testing.T) {
	a := newChunk(make([]world.TileType, 9), 3)
	b := newChunk(make([]world.TileType, 9), 3)
	a.Exits[East] = []bool{true, false, false}
	b.Exits[West] = []bool{false, true, false}

	if Compatible(&a, &b, East) {
		t.Error("misaligned exits should not be compatible")
	}
	b.Exits[West][0] = true
	if !Compatible(&a, &b, East) {
		t.Error("aligned exits should be compatible")
	}
	b.Exits[West] = []bool{false, false, false}
	if !Compatible(&a, &b, East) {
		t.Error("closed edge should be compatible with anything")
	}
}
