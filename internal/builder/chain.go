package builder

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/lawnchairsociety/delvegen/internal/logger"
	"github.com/lawnchairsociety/delvegen/internal/telemetry"
	"github.com/lawnchairsociety/delvegen/internal/world"
)

// ErrGenerationFailed wraps any error that aborts a chain
var ErrGenerationFailed = errors.New("builder: generation failed")

// InitialBuilder creates the base map from nothing
type InitialBuilder interface {
	BuildInitial(rng *rand.Rand, s *BuildState) error
}

// MetaBuilder refines the map left by earlier steps
type MetaBuilder interface {
	BuildMeta(rng *rand.Rand, s *BuildState) error
}

// Chain runs one initial builder followed by meta builders in append order
type Chain struct {
	State *BuildState

	starter  InitialBuilder
	builders []MetaBuilder
	built    bool
}

// Option configures a chain
type Option func(*Chain)

// WithHistory records up to capacity snapshots during the build
func WithHistory(capacity int) Option {
	return func(c *Chain) {
		c.State.History = NewHistory(capacity)
	}
}

// NewChain creates an unconfigured chain for a map of the given size
func NewChain(depth, width, height int, name string, opts ...Option) *Chain {
	c := &Chain{State: NewBuildState(depth, width, height, name)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StartWith sets the initial builder. A chain takes exactly one.
func (c *Chain) StartWith(b InitialBuilder) *Chain {
	if c.starter != nil {
		panic("builder: chain already has an initial builder")
	}
	c.starter = b
	return c
}

// With appends a meta builder
func (c *Chain) With(b MetaBuilder) *Chain {
	c.builders = append(c.builders, b)
	return c
}

// Steps returns the names of the configured steps in run order
func (c *Chain) Steps() []string {
	var names []string
	if c.starter != nil {
		names = append(names, stepName(c.starter))
	}
	for _, b := range c.builders {
		names = append(names, stepName(b))
	}
	return names
}

// Build runs the starter once and then each meta builder once, all against
// the same state. The context only carries tracing; steps reach it through
// BuildState.Context.
func (c *Chain) Build(ctx context.Context, rng *rand.Rand) error {
	if c.starter == nil {
		panic("builder: Build called without an initial builder")
	}

	s := c.State
	ctx, span := telemetry.Tracer("builder").Start(ctx, "chain.build")
	defer span.End()
	span.SetAttributes(
		attribute.Int("map.width", s.Width),
		attribute.Int("map.height", s.Height),
		attribute.Int("map.depth", s.Depth),
		attribute.String("map.name", s.Map.Name),
	)

	defer func() { s.ctx = nil }()
	step := func(name string, run func() error) error {
		stepCtx, stepSpan := telemetry.Tracer("builder").Start(ctx, name)
		defer stepSpan.End()
		s.ctx = stepCtx
		if err := run(); err != nil {
			stepSpan.RecordError(err)
			stepSpan.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("%w: %s: %w", ErrGenerationFailed, name, err)
		}
		return nil
	}

	if err := step(stepName(c.starter), func() error { return c.starter.BuildInitial(rng, s) }); err != nil {
		span.RecordError(err)
		return err
	}
	for _, b := range c.builders {
		if err := step(stepName(b), func() error { return b.BuildMeta(rng, s) }); err != nil {
			span.RecordError(err)
			return err
		}
	}

	c.built = true
	rooms := 0
	if s.Layout != nil {
		rooms = len(s.Layout.Rooms)
	}
	span.SetAttributes(
		attribute.Int("map.rooms", rooms),
		attribute.Int("map.spawns", len(s.Spawns)),
	)
	logger.Info("level built", "name", s.Map.Name, "depth", s.Depth, "steps", len(c.builders)+1, "rooms", rooms, "spawns", len(s.Spawns))
	return nil
}

// Built returns true once Build has completed
func (c *Chain) Built() bool {
	return c.built
}

// SpawnEntities drains the spawn list into the caller's entity layer
func (c *Chain) SpawnEntities(spawn func(world.Spawn)) {
	for _, sp := range c.State.Spawns {
		spawn(sp)
	}
	c.State.Spawns = nil
}

func stepName(b any) string {
	if n, ok := b.(interface{ Name() string }); ok {
		return n.Name()
	}
	name := fmt.Sprintf("%T", b)
	name = strings.TrimPrefix(name, "*")
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}
