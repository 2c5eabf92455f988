package dungeon

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/delvegen/internal/builder"
	"github.com/lawnchairsociety/delvegen/internal/world"
)

// DungeonData is the serialized dungeon
type DungeonData struct {
	Seed    int64       `yaml:"seed"`
	Width   int         `yaml:"width"`
	Height  int         `yaml:"height"`
	Deepest int         `yaml:"deepest"`
	SavedAt time.Time   `yaml:"saved_at"`
	Levels  []LevelData `yaml:"levels"`
}

// LevelData is a serialized level. Tiles and Spawns are optional; without
// them the level is regenerated from the seed on load.
type LevelData struct {
	Depth       int           `yaml:"depth"`
	Name        string        `yaml:"name"`
	StartX      int           `yaml:"start_x"`
	StartY      int           `yaml:"start_y"`
	GeneratedAt time.Time     `yaml:"generated_at"`
	Tiles       string        `yaml:"tiles,omitempty"`
	Spawns      []world.Spawn `yaml:"spawns,omitempty"`
}

// SaveDungeon writes the dungeon to a YAML file. With snapshot set the full
// tile grids and pending spawns are stored too.
func SaveDungeon(d *Dungeon, filename string, snapshot bool) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	data := DungeonData{
		Seed:    d.Seed,
		Width:   d.Width,
		Height:  d.Height,
		Deepest: d.Deepest,
		SavedAt: time.Now(),
		Levels:  make([]LevelData, 0, len(d.Levels)),
	}
	for _, level := range d.Levels {
		data.Levels = append(data.Levels, serializeLevel(level, snapshot))
	}
	sort.Slice(data.Levels, func(i, j int) bool { return data.Levels[i].Depth < data.Levels[j].Depth })

	yamlData, err := yaml.Marshal(&data)
	if err != nil {
		return fmt.Errorf("failed to marshal dungeon data: %w", err)
	}
	if err := os.WriteFile(filename, yamlData, 0644); err != nil {
		return fmt.Errorf("failed to write dungeon file: %w", err)
	}
	return nil
}

func serializeLevel(level *Level, snapshot bool) LevelData {
	ld := LevelData{
		Depth:       level.Depth,
		Name:        level.Map.Name,
		StartX:      level.Start.X,
		StartY:      level.Start.Y,
		GeneratedAt: level.Generated,
	}
	if snapshot {
		ld.Tiles = level.Map.EncodeTiles()
		ld.Spawns = append([]world.Spawn(nil), level.Spawns...)
	}
	return ld
}

// LoadDungeon reads a dungeon from a YAML file. Levels saved without tiles are
// regenerated, which reproduces them exactly.
func LoadDungeon(ctx context.Context, filename string, opts builder.LevelOptions) (*Dungeon, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read dungeon file: %w", err)
	}

	var data DungeonData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse dungeon YAML: %w", err)
	}

	d := NewDungeon(data.Seed, data.Width, data.Height, opts)
	for _, ld := range data.Levels {
		level, err := deserializeLevel(ctx, d, ld)
		if err != nil {
			return nil, fmt.Errorf("failed to load depth %d: %w", ld.Depth, err)
		}
		d.SetLevel(level)
	}
	if data.Deepest > d.Deepest {
		d.Deepest = data.Deepest
	}
	return d, nil
}

func deserializeLevel(ctx context.Context, d *Dungeon, ld LevelData) (*Level, error) {
	if ld.Tiles == "" {
		return Generate(ctx, d.Seed, ld.Depth, d.Width, d.Height, d.Options)
	}

	m := world.NewMap(ld.Depth, d.Width, d.Height, ld.Name)
	if !m.DecodeTiles(ld.Tiles) {
		return nil, fmt.Errorf("tile data does not fit a %dx%d map", d.Width, d.Height)
	}
	for _, sp := range ld.Spawns {
		if !m.ValidIdx(sp.Idx) {
			return nil, fmt.Errorf("spawn %q at %d is off the map", sp.Tag, sp.Idx)
		}
	}
	return &Level{
		Depth:     ld.Depth,
		Map:       m,
		Spawns:    ld.Spawns,
		Start:     builder.Point{X: ld.StartX, Y: ld.StartY},
		Generated: ld.GeneratedAt,
	}, nil
}

// DungeonFileExists returns true if a saved dungeon exists at the path
func DungeonFileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}
