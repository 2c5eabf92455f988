package builder

import (
	"testing"

	"github.com/lawnchairsociety/delvegen/internal/world"
)

func TestTownScenario(t *testing.T) {
	for seed := int64(1); seed <= 8; seed++ {
		town := NewTown()
		c := NewChain(1, 80, 50, "town").StartWith(town)
		build(t, c, seed)
		s := c.State
		m := s.Map
		checkIndices(t, s)

		if len(town.Buildings) == 0 || len(town.Buildings) > maxBuildings {
			t.Fatalf("seed %d: %d buildings", seed, len(town.Buildings))
		}

		houses := 0
		for _, bld := range town.Buildings {
			if bld.Role != RolePlayerHouse {
				continue
			}
			houses++
			if s.Start == nil || !bld.Contains(s.Start.X, s.Start.Y) {
				t.Errorf("seed %d: start %v not inside the player's house", seed, s.Start)
			}
		}
		if houses != 1 {
			t.Errorf("seed %d: %d player houses, want 1", seed, houses)
		}

		m.PopulateBlocked()
		for i, bld := range town.Buildings {
			doors := 0
			for _, sp := range s.Spawns {
				x, y := m.IdxXY(sp.Idx)
				if sp.Tag == DoorTag && bld.Contains(x, y) {
					doors++
				}
			}
			if doors != 1 {
				t.Errorf("seed %d: building %d has %d doors, want 1", seed, i, doors)
			}

			dx, dy := m.IdxXY(bld.Door)
			road, ok := nearestTile(m, Point{X: dx, Y: dy}, func(tt world.TileType) bool { return tt == world.TileRoad })
			if !ok {
				t.Fatalf("seed %d: town has no road", seed)
			}
			if path := world.AStar(m, bld.Door, road); !path.Success {
				t.Errorf("seed %d: building %d door has no path to the road", seed, i)
			}
		}

		if m.CountTiles(world.TileDownStairs) != 1 {
			t.Errorf("seed %d: %d down stairs, want 1", seed, m.CountTiles(world.TileDownStairs))
		}
	}
}

func TestTownRolesBySize(t *testing.T) {
	town := &Town{}
	for i := 0; i < 9; i++ {
		town.Buildings = append(town.Buildings, Building{W: 5 + i, H: 5})
	}
	town.assignRoles()

	want := []BuildingRole{RolePub, RoleTemple, RoleBlacksmith, RoleClothier, RoleAlchemist, RolePlayerHouse, RoleHovel, RoleHovel, RoleAbandoned}
	for i, bld := range town.Buildings {
		if bld.Role != want[i] {
			t.Errorf("building %d (area %d) role = %v, want %v", i, bld.Area(), bld.Role, want[i])
		}
	}
}

func TestSmallTownStillHasPlayerHouse(t *testing.T) {
	town := &Town{Buildings: []Building{{W: 9, H: 9}, {W: 6, H: 6}, {W: 5, H: 5}}}
	town.assignRoles()
	if town.Buildings[2].Role != RolePlayerHouse {
		t.Errorf("smallest building role = %v, want %v", town.Buildings[2].Role, RolePlayerHouse)
	}
}

func TestBuildingRoleRoundTrip(t *testing.T) {
	for role := RolePub; role <= RoleAbandoned; role++ {
		got, ok := ParseBuildingRole(role.String())
		if !ok || got != role {
			t.Errorf("ParseBuildingRole(%q) = %v, %v", role.String(), got, ok)
		}
	}
	if _, ok := ParseBuildingRole("castle"); ok {
		t.Error("ParseBuildingRole accepted an unknown role")
	}
	if !RolePub.IsShop() || RoleHovel.IsShop() {
		t.Error("IsShop misclassified a role")
	}
}
