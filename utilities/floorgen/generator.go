package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lawnchairsociety/delvegen/internal/builder"
	"github.com/lawnchairsociety/delvegen/internal/dungeon"
	"github.com/lawnchairsociety/delvegen/internal/world"
)

// DepthGenerator generates a range of depths and writes an ASCII render of each
type DepthGenerator struct {
	OutputDir string
	dungeon   *dungeon.Dungeon
}

// NewDepthGenerator creates a new depth generator
func NewDepthGenerator(seed int64, width, height int, outputDir string, opts builder.LevelOptions) *DepthGenerator {
	return &DepthGenerator{
		OutputDir: outputDir,
		dungeon:   dungeon.NewDungeon(seed, width, height, opts),
	}
}

// GenerateDepth generates a single depth, writes depth_N.txt and returns a
// one-line summary
func (g *DepthGenerator) GenerateDepth(ctx context.Context, depth int) (string, error) {
	level, err := g.dungeon.GetLevel(ctx, depth)
	if err != nil {
		return "", err
	}

	path := filepath.Join(g.OutputDir, fmt.Sprintf("depth_%d.txt", depth))
	content := fmt.Sprintf("%s\n%s", level.Map.Name, level.Map.Render())
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write render: %w", err)
	}

	return summarize(level), nil
}

// SaveDungeon writes every generated depth as a regenerable YAML file
func (g *DepthGenerator) SaveDungeon() (string, error) {
	path := filepath.Join(g.OutputDir, "dungeon.yaml")
	if err := dungeon.SaveDungeon(g.dungeon, path, false); err != nil {
		return "", err
	}
	return path, nil
}

func summarize(level *dungeon.Level) string {
	m := level.Map
	walkable := 0
	for _, t := range m.Tiles {
		if t.Walkable() {
			walkable++
		}
	}
	return fmt.Sprintf("%-28s walkable=%5.1f%% stairs=%d spawns=%d",
		m.Name,
		100*float64(walkable)/float64(m.Len()),
		m.CountTiles(world.TileDownStairs),
		len(level.Spawns),
	)
}
