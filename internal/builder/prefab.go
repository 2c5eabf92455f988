package builder

import (
	"math/rand"

	"github.com/zyedidia/generic/mapset"

	"github.com/lawnchairsociety/delvegen/internal/logger"
	"github.com/lawnchairsociety/delvegen/internal/prefab"
	"github.com/lawnchairsociety/delvegen/internal/world"
)

// applyPlacement merges a template's spawns and start into the state
func applyPlacement(s *BuildState, p prefab.Placement) {
	s.Spawns = append(s.Spawns, p.Spawns...)
	if p.HasStart {
		x, y := s.Map.IdxXY(p.Start)
		s.Start = &Point{X: x, Y: y}
	}
}

// PrefabLevel stamps a whole-map template at the origin
type PrefabLevel struct {
	Template string
}

// NewPrefabLevel creates a level template builder
func NewPrefabLevel(name string) *PrefabLevel {
	return &PrefabLevel{Template: name}
}

func (b *PrefabLevel) Name() string { return "PrefabLevel" }

// BuildInitial implements InitialBuilder
func (b *PrefabLevel) BuildInitial(rng *rand.Rand, s *BuildState) error {
	catalog, err := prefab.DefaultCatalog()
	if err != nil {
		return err
	}
	tmpl, err := catalog.Level(b.Template)
	if err != nil {
		return err
	}
	p, err := tmpl.Apply(s.Map, 0, 0)
	if err != nil {
		return err
	}
	applyPlacement(s, p)
	s.Layout = nil
	s.TakeSnapshot()
	return nil
}

// SectionalVault overlays an edge-anchored template on the existing map
type SectionalVault struct {
	Template string
}

// NewSectionalVault creates a sectional prefab builder
func NewSectionalVault(name string) *SectionalVault {
	return &SectionalVault{Template: name}
}

func (b *SectionalVault) Name() string { return "SectionalVault" }

// BuildMeta implements MetaBuilder
func (b *SectionalVault) BuildMeta(rng *rand.Rand, s *BuildState) error {
	catalog, err := prefab.DefaultCatalog()
	if err != nil {
		return err
	}
	tmpl, err := catalog.Section(b.Template)
	if err != nil {
		return err
	}
	x, y := tmpl.Anchor(s.Width, s.Height)
	s.RemoveSpawnsIn(tmpl.Footprint(x, y))
	p, err := tmpl.Apply(s.Map, x, y)
	if err != nil {
		return err
	}
	applyPlacement(s, p)
	s.TakeSnapshot()
	return nil
}

// RoomVaults drops up to three depth-appropriate vaults into open floor.
// MaxScan caps the positions examined per vault; zero scans the whole map.
type RoomVaults struct {
	MaxScan int
}

// NewRoomVaults creates a room vault builder
func NewRoomVaults(maxScan int) *RoomVaults {
	return &RoomVaults{MaxScan: maxScan}
}

func (b *RoomVaults) Name() string { return "RoomVaults" }

// BuildMeta implements MetaBuilder
func (b *RoomVaults) BuildMeta(rng *rand.Rand, s *BuildState) error {
	catalog, err := prefab.DefaultCatalog()
	if err != nil {
		return err
	}
	candidates := catalog.VaultsForDepth(s.Depth)
	if len(candidates) == 0 {
		return nil
	}

	n := min(rng.Intn(3)+1, len(candidates))
	used := mapset.New[int]()
	for i := 0; i < n; i++ {
		pick := rng.Intn(len(candidates))
		vault := candidates[pick]
		candidates = append(candidates[:pick], candidates[pick+1:]...)

		x, y, ok := b.findSpot(rng, s, vault, used)
		if !ok {
			logger.Debug("no room for vault", "vault", vault.Name, "depth", s.Depth)
			continue
		}

		s.RemoveSpawnsIn(vault.Footprint(x, y))
		p, err := vault.Apply(s.Map, x, y)
		if err != nil {
			return err
		}
		applyPlacement(s, p)
		for ty := y; ty < y+vault.Height; ty++ {
			for tx := x; tx < x+vault.Width; tx++ {
				used.Put(s.Map.XYIdx(tx, ty))
			}
		}
		s.TakeSnapshot()
	}
	return nil
}

// findSpot scans from a random offset, wrapping, for the first position where
// the vault covers only unused plain floor away from the map edge and start
func (b *RoomVaults) findSpot(rng *rand.Rand, s *BuildState, vault *prefab.Template, used mapset.Set[int]) (int, int, bool) {
	m := s.Map
	total := m.Len()
	limit := total
	if b.MaxScan > 0 && b.MaxScan < total {
		limit = b.MaxScan
	}
	startIdx, hasStart := s.StartIdx()

	offset := rng.Intn(total)
	for i := 0; i < limit; i++ {
		idx := (offset + i) % total
		x, y := m.IdxXY(idx)
		if x <= 1 || x+vault.Width >= m.Width-2 || y <= 1 || y+vault.Height >= m.Height-2 {
			continue
		}
		if vaultFits(m, vault, x, y, used, startIdx, hasStart) {
			return x, y, true
		}
	}
	return 0, 0, false
}

func vaultFits(m *world.Map, vault *prefab.Template, x, y int, used mapset.Set[int], startIdx int, hasStart bool) bool {
	for ty := y; ty < y+vault.Height; ty++ {
		for tx := x; tx < x+vault.Width; tx++ {
			idx := m.XYIdx(tx, ty)
			if m.Tiles[idx] != world.TileFloor || used.Has(idx) {
				return false
			}
			if hasStart && idx == startIdx {
				return false
			}
		}
	}
	return true
}
