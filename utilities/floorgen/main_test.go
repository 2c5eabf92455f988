package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/lawnchairsociety/delvegen/internal/builder"
	"github.com/lawnchairsociety/delvegen/internal/dungeon"
)

func TestParseDepthRange(t *testing.T) {
	tests := []struct {
		input     string
		wantStart int
		wantEnd   int
		wantErr   bool
	}{
		{"5", 5, 5, false},
		{"1-10", 1, 10, false},
		{" 2 - 4 ", 2, 4, false},
		{"0", 0, 0, true},
		{"5-3", 0, 0, true},
		{"1-2-3", 0, 0, true},
		{"abc", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			start, end, err := parseDepthRange(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseDepthRange(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("parseDepthRange(%q) = %d, %d, want %d, %d", tt.input, start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestDepthGenerator(t *testing.T) {
	dir := t.TempDir()
	gen := NewDepthGenerator(42, 80, 50, dir, builder.DefaultLevelOptions())
	ctx := context.Background()

	for depth := 1; depth <= 2; depth++ {
		if _, err := gen.GenerateDepth(ctx, depth); err != nil {
			t.Fatalf("GenerateDepth(%d) error = %v", depth, err)
		}
		if _, err := os.Stat(filepath.Join(dir, fmt.Sprintf("depth_%d.txt", depth))); err != nil {
			t.Errorf("render for depth %d not written: %v", depth, err)
		}
	}

	path, err := gen.SaveDungeon()
	if err != nil {
		t.Fatalf("SaveDungeon() error = %v", err)
	}
	loaded, err := dungeon.LoadDungeon(ctx, path, builder.DefaultLevelOptions())
	if err != nil {
		t.Fatalf("LoadDungeon() error = %v", err)
	}
	if loaded.Depths() != 2 {
		t.Errorf("Depths() = %d, want 2", loaded.Depths())
	}
}
