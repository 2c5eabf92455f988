package wfc

import (
	"fmt"

	"github.com/lawnchairsociety/delvegen/internal/world"
)

// FlipMode controls which mirrored copies of each chunk are added to the catalogue
type FlipMode int

const (
	FlipNone FlipMode = iota
	FlipHorizontal
	FlipVertical
	FlipBoth
)

// Chunk is a fixed-size tile pattern with per-edge exits and derived
// neighbour compatibility. Compatible[d] lists catalogue indices that may sit
// in direction d of this chunk.
type Chunk struct {
	Pattern    []world.TileType
	Exits      [4][]bool
	HasExits   bool
	Compatible [4][]int
}

// EdgeHasExit returns true if any cell on the given edge is an exit
func (c *Chunk) EdgeHasExit(d Direction) bool {
	for _, e := range c.Exits[d] {
		if e {
			return true
		}
	}
	return false
}

// BuildPatterns slices an exemplar map into non-overlapping chunkSize
// patterns, optionally adding mirrored copies, and optionally removing
// duplicates. Patterns keep first-seen order.
func BuildPatterns(m *world.Map, chunkSize int, flip FlipMode, dedupe bool) ([][]world.TileType, error) {
	if chunkSize <= 0 || chunkSize > m.Width || chunkSize > m.Height {
		return nil, fmt.Errorf("%w: %d for %dx%d map", ErrInvalidChunkSize, chunkSize, m.Width, m.Height)
	}

	chunksX := m.Width / chunkSize
	chunksY := m.Height / chunkSize
	var patterns [][]world.TileType

	for cy := 0; cy < chunksY; cy++ {
		for cx := 0; cx < chunksX; cx++ {
			startX, startY := cx*chunkSize, cy*chunkSize
			patterns = append(patterns, readChunk(m, startX, startY, chunkSize, false, false))

			if flip == FlipHorizontal || flip == FlipBoth {
				patterns = append(patterns, readChunk(m, startX, startY, chunkSize, true, false))
			}
			if flip == FlipVertical || flip == FlipBoth {
				patterns = append(patterns, readChunk(m, startX, startY, chunkSize, false, true))
			}
			if flip == FlipBoth {
				patterns = append(patterns, readChunk(m, startX, startY, chunkSize, true, true))
			}
		}
	}

	if dedupe {
		patterns = dedupePatterns(patterns)
	}
	return patterns, nil
}

func readChunk(m *world.Map, startX, startY, size int, flipH, flipV bool) []world.TileType {
	pattern := make([]world.TileType, 0, size*size)
	for dy := 0; dy < size; dy++ {
		y := startY + dy
		if flipV {
			y = startY + size - 1 - dy
		}
		for dx := 0; dx < size; dx++ {
			x := startX + dx
			if flipH {
				x = startX + size - 1 - dx
			}
			pattern = append(pattern, m.Tiles[m.XYIdx(x, y)])
		}
	}
	return pattern
}

func dedupePatterns(patterns [][]world.TileType) [][]world.TileType {
	seen := make(map[string]bool, len(patterns))
	out := patterns[:0]
	for _, p := range patterns {
		key := patternKey(p)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}

func patternKey(p []world.TileType) string {
	b := make([]byte, len(p))
	for i, t := range p {
		b[i] = byte(t)
	}
	return string(b)
}

// BuildChunks derives edge exits and the compatibility relation for a pattern catalogue
func BuildChunks(patterns [][]world.TileType, chunkSize int) []Chunk {
	chunks := make([]Chunk, len(patterns))
	for i, p := range patterns {
		chunks[i] = newChunk(p, chunkSize)
	}

	for i := range chunks {
		for _, d := range AllDirections() {
			for j := range chunks {
				if Compatible(&chunks[i], &chunks[j], d) {
					chunks[i].Compatible[d] = append(chunks[i].Compatible[d], j)
				}
			}
		}
	}
	return chunks
}

func newChunk(pattern []world.TileType, size int) Chunk {
	c := Chunk{Pattern: pattern}
	for _, d := range AllDirections() {
		c.Exits[d] = make([]bool, size)
	}
	for i := 0; i < size; i++ {
		c.Exits[North][i] = pattern[i] == world.TileFloor
		c.Exits[South][i] = pattern[(size-1)*size+i] == world.TileFloor
		c.Exits[West][i] = pattern[i*size] == world.TileFloor
		c.Exits[East][i] = pattern[i*size+size-1] == world.TileFloor
	}
	for _, d := range AllDirections() {
		if c.EdgeHasExit(d) {
			c.HasExits = true
		}
	}
	return c
}

// Compatible reports whether b may be placed in direction d of a. Edges with
// no exits are closed and accept any neighbour; otherwise at least one exit on
// a's d edge must align with an exit on b's opposite edge.
func Compatible(a, b *Chunk, d Direction) bool {
	opp := d.Opposite()
	if !a.EdgeHasExit(d) || !b.EdgeHasExit(opp) {
		return true
	}
	for i, e := range a.Exits[d] {
		if e && b.Exits[opp][i] {
			return true
		}
	}
	return false
}

// Stamp writes a chunk's pattern into the map with its top-left corner at (x, y)
func Stamp(m *world.Map, c *Chunk, chunkSize, x, y int) {
	i := 0
	for dy := 0; dy < chunkSize; dy++ {
		for dx := 0; dx < chunkSize; dx++ {
			m.Set(x+dx, y+dy, c.Pattern[i])
			i++
		}
	}
}
