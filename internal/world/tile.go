package world

// TileType represents the kind of terrain occupying a single map cell
type TileType int

const (
	TileWall TileType = iota
	TileFloor
	TileWoodFloor
	TileDownStairs
	TileUpStairs
	TileBridge
	TileRoad
	TileGrass
	TileShallowWater
	TileDeepWater
	TileGravel
	TileStalactite
	TileStalagmite
)

// tileProperties holds the static per-kind attributes
type tileProperties struct {
	name     string
	glyph    rune
	walkable bool
	opaque   bool
	cost     float32
}

var tileTable = [...]tileProperties{
	TileWall:         {"wall", '#', false, true, 1.0},
	TileFloor:        {"floor", '.', true, false, 1.0},
	TileWoodFloor:    {"wood_floor", '_', true, false, 1.0},
	TileDownStairs:   {"down_stairs", '>', true, false, 1.0},
	TileUpStairs:     {"up_stairs", '<', true, false, 1.0},
	TileBridge:       {"bridge", '=', true, false, 1.0},
	TileRoad:         {"road", ':', true, false, 0.8},
	TileGrass:        {"grass", '"', true, false, 1.1},
	TileShallowWater: {"shallow_water", '~', true, false, 1.2},
	TileDeepWater:    {"deep_water", '≈', false, false, 1.0},
	TileGravel:       {"gravel", ';', true, false, 1.0},
	TileStalactite:   {"stalactite", '▼', false, true, 1.0},
	TileStalagmite:   {"stalagmite", '▲', false, true, 1.0},
}

// AllTileTypes returns every tile kind in declaration order
func AllTileTypes() []TileType {
	types := make([]TileType, len(tileTable))
	for i := range tileTable {
		types[i] = TileType(i)
	}
	return types
}

func (t TileType) props() tileProperties {
	if t < 0 || int(t) >= len(tileTable) {
		return tileTable[TileWall]
	}
	return tileTable[t]
}

// String returns the string representation of a TileType
func (t TileType) String() string {
	if t < 0 || int(t) >= len(tileTable) {
		return "unknown"
	}
	return tileTable[t].name
}

// Glyph returns the rune used when rendering the tile as ASCII
func (t TileType) Glyph() rune {
	return t.props().glyph
}

// Walkable returns true if actors can stand on the tile
func (t TileType) Walkable() bool {
	return t.props().walkable
}

// Opaque returns true if the tile blocks line of sight
func (t TileType) Opaque() bool {
	return t.props().opaque
}

// Cost returns the movement cost of leaving the tile
func (t TileType) Cost() float32 {
	return t.props().cost
}

// ParseTileType converts a tile name to a TileType
func ParseTileType(s string) (TileType, bool) {
	for i, p := range tileTable {
		if p.name == s {
			return TileType(i), true
		}
	}
	return TileWall, false
}

// ParseGlyph converts a rendering rune back to its TileType
func ParseGlyph(r rune) (TileType, bool) {
	for i, p := range tileTable {
		if p.glyph == r {
			return TileType(i), true
		}
	}
	return TileWall, false
}
