package world

import "testing"

func TestTileTypeString(t *testing.T) {
	tests := []struct {
		tt   TileType
		want string
	}{
		{TileWall, "wall"},
		{TileFloor, "floor"},
		{TileWoodFloor, "wood_floor"},
		{TileDownStairs, "down_stairs"},
		{TileShallowWater, "shallow_water"},
		{TileStalagmite, "stalagmite"},
		{TileType(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.tt.String(); got != tt.want {
			t.Errorf("TileType(%d).String() = %q, want %q", tt.tt, got, tt.want)
		}
	}
}

func TestTileProperties(t *testing.T) {
	tests := []struct {
		tt       TileType
		walkable bool
		opaque   bool
	}{
		{TileWall, false, true},
		{TileFloor, true, false},
		{TileRoad, true, false},
		{TileDeepWater, false, false},
		{TileShallowWater, true, false},
		{TileStalactite, false, true},
		{TileBridge, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.tt.String(), func(t *testing.T) {
			if got := tt.tt.Walkable(); got != tt.walkable {
				t.Errorf("Walkable() = %v, want %v", got, tt.walkable)
			}
			if got := tt.tt.Opaque(); got != tt.opaque {
				t.Errorf("Opaque() = %v, want %v", got, tt.opaque)
			}
			if tt.tt.Cost() <= 0 {
				t.Errorf("Cost() = %v, want > 0", tt.tt.Cost())
			}
		})
	}
}

func TestParseTileType(t *testing.T) {
	for _, tt := range AllTileTypes() {
		got, ok := ParseTileType(tt.String())
		if !ok || got != tt {
			t.Errorf("ParseTileType(%q) = (%v, %v), want (%v, true)", tt.String(), got, ok, tt)
		}
		got, ok = ParseGlyph(tt.Glyph())
		if !ok || got != tt {
			t.Errorf("ParseGlyph(%q) = (%v, %v), want (%v, true)", tt.Glyph(), got, ok, tt)
		}
	}

	if _, ok := ParseTileType("lava"); ok {
		t.Error("ParseTileType(lava) should fail")
	}
}

func TestGlyphsUnique(t *testing.T) {
	seen := make(map[rune]TileType)
	for _, tt := range AllTileTypes() {
		if prev, ok := seen[tt.Glyph()]; ok {
			t.Errorf("glyph %q shared by %v and %v", tt.Glyph(), prev, tt)
		}
		seen[tt.Glyph()] = tt
	}
}
