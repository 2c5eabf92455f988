package prefab

import "github.com/lawnchairsociety/delvegen/internal/world"

// Cell is the decoded meaning of one template character
type Cell struct {
	Tile  world.TileType
	Spawn string
	Start bool
}

// spawnGlyphs maps template characters to the spawn tag placed on a floor tile
var spawnGlyphs = map[rune]string{
	'g': "Goblin",
	'o': "Orc",
	'O': "Orc Leader",
	'k': "Kobold",
	'^': "Bear Trap",
	'%': "Rations",
	'!': "Health Potion",
}

// Decode returns the cell for a template character. The second result is
// false for characters outside the legend.
func Decode(r rune) (Cell, bool) {
	switch r {
	case ' ':
		return Cell{Tile: world.TileFloor}, true
	case '#':
		return Cell{Tile: world.TileWall}, true
	case '@':
		return Cell{Tile: world.TileFloor, Start: true}, true
	case '>':
		return Cell{Tile: world.TileDownStairs}, true
	case '~':
		return Cell{Tile: world.TileShallowWater}, true
	case '≈':
		return Cell{Tile: world.TileDeepWater}, true
	}
	if tag, ok := spawnGlyphs[r]; ok {
		return Cell{Tile: world.TileFloor, Spawn: tag}, true
	}
	return Cell{}, false
}
