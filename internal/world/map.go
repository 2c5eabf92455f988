package world

import (
	"strings"

	"codeberg.org/anaseto/gruid/paths"
	"github.com/zyedidia/generic/mapset"
)

// Map is a rectangular tile buffer with visibility and reachability bookkeeping.
// Tiles are stored row-major: index(x, y) = y*Width + x.
type Map struct {
	Width  int
	Height int
	Depth  int
	Name   string

	Tiles    []TileType
	Revealed []bool
	Visible  []bool
	Blocked  []bool

	// Bloodstains and ViewBlocked hold tile indices
	Bloodstains mapset.Set[int]
	ViewBlocked mapset.Set[int]

	pr *paths.PathRange
}

// NewMap creates a map of the given size filled with walls
func NewMap(depth, width, height int, name string) *Map {
	n := width * height
	m := &Map{
		Width:       width,
		Height:      height,
		Depth:       depth,
		Name:        name,
		Tiles:       make([]TileType, n),
		Revealed:    make([]bool, n),
		Visible:     make([]bool, n),
		Blocked:     make([]bool, n),
		Bloodstains: mapset.New[int](),
		ViewBlocked: mapset.New[int](),
	}
	for i := range m.Tiles {
		m.Tiles[i] = TileWall
	}
	return m
}

// Len returns the number of tiles in the map
func (m *Map) Len() int {
	return m.Width * m.Height
}

// XYIdx converts a coordinate into a tile index
func (m *Map) XYIdx(x, y int) int {
	return y*m.Width + x
}

// IdxXY converts a tile index into a coordinate
func (m *Map) IdxXY(idx int) (int, int) {
	return idx % m.Width, idx / m.Width
}

// InBounds returns true if the coordinate lies on the map
func (m *Map) InBounds(x, y int) bool {
	return x >= 0 && x < m.Width && y >= 0 && y < m.Height
}

// ValidIdx returns true if idx addresses a tile of the map
func (m *Map) ValidIdx(idx int) bool {
	return idx >= 0 && idx < m.Len()
}

// At returns the tile at a coordinate; off-map coordinates read as walls
func (m *Map) At(x, y int) TileType {
	if !m.InBounds(x, y) {
		return TileWall
	}
	return m.Tiles[m.XYIdx(x, y)]
}

// Set assigns the tile at a coordinate; off-map coordinates are ignored
func (m *Map) Set(x, y int, t TileType) {
	if !m.InBounds(x, y) {
		return
	}
	m.Tiles[m.XYIdx(x, y)] = t
}

// PopulateBlocked derives the blocked buffer from tile walkability
func (m *Map) PopulateBlocked() {
	for i, t := range m.Tiles {
		m.Blocked[i] = !t.Walkable()
	}
}

// SetBlocked marks a tile as blocked or passable
func (m *Map) SetBlocked(idx int, blocked bool) {
	m.Blocked[idx] = blocked
}

// IsExitValid returns true if an actor could step onto the coordinate
func (m *Map) IsExitValid(x, y int) bool {
	if !m.InBounds(x, y) {
		return false
	}
	return !m.Blocked[m.XYIdx(x, y)]
}

// IsOpaque returns true if the tile at idx blocks sight
func (m *Map) IsOpaque(idx int) bool {
	return m.Tiles[idx].Opaque() || m.ViewBlocked.Has(idx)
}

// RevealAll marks every tile as revealed
func (m *Map) RevealAll() {
	for i := range m.Revealed {
		m.Revealed[i] = true
	}
}

// CountTiles returns how many tiles are of the given kind
func (m *Map) CountTiles(t TileType) int {
	count := 0
	for _, tt := range m.Tiles {
		if tt == t {
			count++
		}
	}
	return count
}

// FloorFraction returns the share of tiles that are plain floor
func (m *Map) FloorFraction() float32 {
	if m.Len() == 0 {
		return 0
	}
	return float32(m.CountTiles(TileFloor)) / float32(m.Len())
}

// Clone returns a deep copy of the map
func (m *Map) Clone() *Map {
	c := &Map{
		Width:       m.Width,
		Height:      m.Height,
		Depth:       m.Depth,
		Name:        m.Name,
		Tiles:       append([]TileType(nil), m.Tiles...),
		Revealed:    append([]bool(nil), m.Revealed...),
		Visible:     append([]bool(nil), m.Visible...),
		Blocked:     append([]bool(nil), m.Blocked...),
		Bloodstains: mapset.New[int](),
		ViewBlocked: mapset.New[int](),
	}
	m.Bloodstains.Each(func(idx int) { c.Bloodstains.Put(idx) })
	m.ViewBlocked.Each(func(idx int) { c.ViewBlocked.Put(idx) })
	return c
}

// Render draws the map as lines of glyphs
func (m *Map) Render() string {
	var sb strings.Builder
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			sb.WriteRune(m.Tiles[m.XYIdx(x, y)].Glyph())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// EncodeTiles packs the tile buffer into a glyph string, one rune per tile
func (m *Map) EncodeTiles() string {
	var sb strings.Builder
	for _, t := range m.Tiles {
		sb.WriteRune(t.Glyph())
	}
	return sb.String()
}

// DecodeTiles fills the tile buffer from a string produced by EncodeTiles.
// It returns false if the string has the wrong length or an unknown glyph.
func (m *Map) DecodeTiles(s string) bool {
	runes := []rune(s)
	if len(runes) != m.Len() {
		return false
	}
	for i, r := range runes {
		t, ok := ParseGlyph(r)
		if !ok {
			return false
		}
		m.Tiles[i] = t
	}
	m.PopulateBlocked()
	return true
}
