package dungeon

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/lawnchairsociety/delvegen/internal/builder"
	"github.com/lawnchairsociety/delvegen/internal/logger"
	"github.com/lawnchairsociety/delvegen/internal/world"
)

// Level is one generated depth as handed to the game layer
type Level struct {
	Depth     int
	Map       *world.Map
	Spawns    []world.Spawn
	Start     builder.Point
	History   []*world.Map
	Generated time.Time
}

// Dungeon is the stack of levels beneath one seed. Levels generate on first
// request; each depth draws from its own random stream so the order levels
// are visited in never changes their content.
type Dungeon struct {
	Seed    int64
	Width   int
	Height  int
	Options builder.LevelOptions
	Levels  map[int]*Level
	Deepest int
	mu      sync.RWMutex
}

// NewDungeon creates an empty dungeon for the given seed and map size
func NewDungeon(seed int64, width, height int, opts builder.LevelOptions) *Dungeon {
	return &Dungeon{
		Seed:    seed,
		Width:   width,
		Height:  height,
		Options: opts,
		Levels:  make(map[int]*Level),
	}
}

// LevelRNG returns the random stream used for a depth
func LevelRNG(seed int64, depth int) *rand.Rand {
	return rand.New(rand.NewSource(seed + int64(depth)*1000))
}

// GetLevel returns a level by depth, generating it if necessary
func (d *Dungeon) GetLevel(ctx context.Context, depth int) (*Level, error) {
	d.mu.RLock()
	level, exists := d.Levels[depth]
	d.mu.RUnlock()

	if exists {
		return level, nil
	}
	return d.generateLevel(ctx, depth)
}

// GetLevelIfExists returns a level only if it was already generated
func (d *Dungeon) GetLevelIfExists(depth int) *Level {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.Levels[depth]
}

// HasLevel returns true if the depth has been generated
func (d *Dungeon) HasLevel(depth int) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, exists := d.Levels[depth]
	return exists
}

// SetLevel stores a level directly, for loading from persistence
func (d *Dungeon) SetLevel(level *Level) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Levels[level.Depth] = level
	if level.Depth > d.Deepest {
		d.Deepest = level.Depth
	}
}

// Depths returns how many levels have been generated
func (d *Dungeon) Depths() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.Levels)
}

func (d *Dungeon) generateLevel(ctx context.Context, depth int) (*Level, error) {
	if depth < 1 {
		return nil, fmt.Errorf("invalid depth %d", depth)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	// Another caller may have generated it while we waited for the lock
	if level, exists := d.Levels[depth]; exists {
		return level, nil
	}

	level, err := Generate(ctx, d.Seed, depth, d.Width, d.Height, d.Options)
	if err != nil {
		return nil, fmt.Errorf("failed to generate depth %d: %w", depth, err)
	}

	d.Levels[depth] = level
	if depth > d.Deepest {
		d.Deepest = depth
	}
	logger.Info("level generated", "depth", depth, "name", level.Map.Name, "spawns", len(level.Spawns))
	return level, nil
}

// Generate builds one level outside any dungeon
func Generate(ctx context.Context, seed int64, depth, width, height int, opts builder.LevelOptions) (*Level, error) {
	rng := LevelRNG(seed, depth)
	chain := builder.LevelBuilder(depth, width, height, rng, opts)
	if err := chain.Build(ctx, rng); err != nil {
		return nil, err
	}

	s := chain.State
	level := &Level{
		Depth:     depth,
		Map:       s.Map,
		Generated: time.Now(),
	}
	if s.Start != nil {
		level.Start = *s.Start
	}
	if s.History != nil {
		level.History = s.History.Snapshots()
	}
	chain.SpawnEntities(func(sp world.Spawn) {
		level.Spawns = append(level.Spawns, sp)
	})
	return level, nil
}

// SpawnEntities hands every pending spawn of a level to the game layer and
// clears the list
func (d *Dungeon) SpawnEntities(depth int, spawn func(world.Spawn)) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	level, exists := d.Levels[depth]
	if !exists {
		return fmt.Errorf("depth %d has not been generated", depth)
	}
	for _, sp := range level.Spawns {
		spawn(sp)
	}
	level.Spawns = nil
	return nil
}
