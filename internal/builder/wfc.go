package builder

import (
	"fmt"
	"math/rand"

	"github.com/zyedidia/generic/mapset"

	"github.com/lawnchairsociety/delvegen/internal/logger"
	"github.com/lawnchairsociety/delvegen/internal/prefab"
	"github.com/lawnchairsociety/delvegen/internal/wfc"
	"github.com/lawnchairsociety/delvegen/internal/world"
)

// DefaultChunkSize is the WFC pattern edge length used by the level selector
const DefaultChunkSize = 8

// WaveFunctionCollapse rebuilds the map from chunks sampled out of an exemplar.
// As a meta builder the exemplar is the map left by earlier steps.
type WaveFunctionCollapse struct {
	ChunkSize  int
	MaxRetries int
	Flip       wfc.FlipMode

	// exemplar overrides the current map when set
	exemplar *world.Map
}

// NewWaveFunctionCollapse creates a WFC meta builder
func NewWaveFunctionCollapse(chunkSize, maxRetries int) *WaveFunctionCollapse {
	return &WaveFunctionCollapse{
		ChunkSize:  chunkSize,
		MaxRetries: maxRetries,
		Flip:       wfc.FlipBoth,
	}
}

// NewWaveFunctionCollapseFrom creates a WFC initial builder sampling a fixed
// exemplar map
func NewWaveFunctionCollapseFrom(exemplar *world.Map, chunkSize, maxRetries int) *WaveFunctionCollapse {
	b := NewWaveFunctionCollapse(chunkSize, maxRetries)
	b.exemplar = exemplar
	return b
}

// NewWaveFunctionCollapseFromPrefab samples a level template from the
// embedded catalogue
func NewWaveFunctionCollapseFromPrefab(name string, chunkSize, maxRetries int) (*WaveFunctionCollapse, error) {
	catalog, err := prefab.DefaultCatalog()
	if err != nil {
		return nil, err
	}
	tmpl, err := catalog.Level(name)
	if err != nil {
		return nil, err
	}
	m, err := tmpl.ToMap(0)
	if err != nil {
		return nil, fmt.Errorf("exemplar %s: %w", name, err)
	}
	return NewWaveFunctionCollapseFrom(m, chunkSize, maxRetries), nil
}

func (b *WaveFunctionCollapse) Name() string { return "WaveFunctionCollapse" }

// BuildInitial implements InitialBuilder
func (b *WaveFunctionCollapse) BuildInitial(rng *rand.Rand, s *BuildState) error {
	return b.build(rng, s)
}

// BuildMeta implements MetaBuilder
func (b *WaveFunctionCollapse) BuildMeta(rng *rand.Rand, s *BuildState) error {
	return b.build(rng, s)
}

func (b *WaveFunctionCollapse) build(rng *rand.Rand, s *BuildState) error {
	exemplar := b.exemplar
	if exemplar == nil {
		exemplar = s.Map.Clone()
	}

	patterns, err := wfc.BuildPatterns(exemplar, b.ChunkSize, b.Flip, true)
	if err != nil {
		return err
	}
	chunks := wfc.BuildChunks(patterns, b.ChunkSize)
	logger.Debug("wfc catalogue built", "patterns", len(patterns), "chunk_size", b.ChunkSize)

	gen := wfc.NewGenerator(chunks, b.ChunkSize)
	gen.SetMaxRetries(b.MaxRetries)
	gen.Observer = func(*world.Map) { s.TakeSnapshot() }

	if _, err := gen.Generate(s.Map, rng); err != nil {
		return err
	}

	// The old geometry is gone, so anything derived from it is too
	s.Spawns = nil
	s.Start = nil
	s.Layout = nil
	s.Map.ViewBlocked = mapset.New[int]()
	return nil
}
