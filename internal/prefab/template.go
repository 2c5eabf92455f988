package prefab

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lawnchairsociety/delvegen/internal/logger"
	"github.com/lawnchairsociety/delvegen/internal/world"
)

var (
	ErrTemplateTooShort = errors.New("prefab: template shorter than declared size")
	ErrUnknownTemplate  = errors.New("prefab: unknown template")
)

// HorizontalPlacement anchors a section to a vertical band of the map
type HorizontalPlacement string

const (
	Left   HorizontalPlacement = "left"
	Center HorizontalPlacement = "center"
	Right  HorizontalPlacement = "right"
)

// VerticalPlacement anchors a section to a horizontal band of the map
type VerticalPlacement string

const (
	Top    VerticalPlacement = "top"
	Middle VerticalPlacement = "center"
	Bottom VerticalPlacement = "bottom"
)

// Template is a fixed-legend ASCII prefab
type Template struct {
	Name       string              `yaml:"name"`
	Width      int                 `yaml:"width"`
	Height     int                 `yaml:"height"`
	Rows       []string            `yaml:"rows"`
	Horizontal HorizontalPlacement `yaml:"horizontal,omitempty"`
	Vertical   VerticalPlacement   `yaml:"vertical,omitempty"`
	FirstDepth int                 `yaml:"first_depth,omitempty"`
	LastDepth  int                 `yaml:"last_depth,omitempty"`
}

// Placement is what applying a template contributed to the map
type Placement struct {
	Spawns   []world.Spawn
	Start    int
	HasStart bool
}

// Cells returns the template characters in row-major order
func (t *Template) Cells() ([]rune, error) {
	if t.Width <= 0 || t.Height <= 0 {
		return nil, fmt.Errorf("%w: %s has size %dx%d", ErrTemplateTooShort, t.Name, t.Width, t.Height)
	}
	cells := []rune(strings.Join(t.Rows, ""))
	need := t.Width * t.Height
	if len(cells) < need {
		return nil, fmt.Errorf("%w: %s has %d cells, need %d", ErrTemplateTooShort, t.Name, len(cells), need)
	}
	return cells[:need], nil
}

// Validate checks the template has enough characters for its declared size
func (t *Template) Validate() error {
	_, err := t.Cells()
	return err
}

// Anchor returns the top-left corner of a section on a map of the given size
func (t *Template) Anchor(mapWidth, mapHeight int) (int, int) {
	x := 0
	switch t.Horizontal {
	case Center:
		x = mapWidth/2 - t.Width/2
	case Right:
		x = mapWidth - 1 - t.Width
	}
	y := 0
	switch t.Vertical {
	case Middle:
		y = mapHeight/2 - t.Height/2
	case Bottom:
		y = mapHeight - 1 - t.Height
	}
	return x, y
}

// Fits returns true if the template placed at (x, y) lies entirely on the map
func (t *Template) Fits(m *world.Map, x, y int) bool {
	return x >= 0 && y >= 0 && x+t.Width <= m.Width && y+t.Height <= m.Height
}

// Footprint returns the rectangle covered by the template placed at (x, y)
func (t *Template) Footprint(x, y int) world.Rect {
	return world.Rect{X1: x, Y1: y, X2: x + t.Width - 1, Y2: y + t.Height - 1}
}

// Apply writes the template into m with its top-left corner at (x, y).
// Cells that fall off the map are skipped; unknown characters are logged and
// leave the tile unchanged.
func (t *Template) Apply(m *world.Map, x, y int) (Placement, error) {
	cells, err := t.Cells()
	if err != nil {
		return Placement{}, err
	}

	var p Placement
	for ty := 0; ty < t.Height; ty++ {
		for tx := 0; tx < t.Width; tx++ {
			mx, my := x+tx, y+ty
			if !m.InBounds(mx, my) {
				continue
			}
			r := cells[ty*t.Width+tx]
			cell, ok := Decode(r)
			if !ok {
				logger.Warning("unknown prefab glyph", "template", t.Name, "glyph", string(r), "x", tx, "y", ty)
				continue
			}
			idx := m.XYIdx(mx, my)
			m.Tiles[idx] = cell.Tile
			if cell.Spawn != "" {
				p.Spawns = append(p.Spawns, world.Spawn{Idx: idx, Tag: cell.Spawn})
			}
			if cell.Start {
				p.Start = idx
				p.HasStart = true
			}
		}
	}
	return p, nil
}

// ToMap renders the template as a standalone map, used as a WFC exemplar
func (t *Template) ToMap(depth int) (*world.Map, error) {
	m := world.NewMap(depth, t.Width, t.Height, t.Name)
	if _, err := t.Apply(m, 0, 0); err != nil {
		return nil, err
	}
	return m, nil
}
