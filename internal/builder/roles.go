package builder

// BuildingRole is the purpose assigned to a town building
type BuildingRole int

const (
	RolePub          BuildingRole = iota // Largest building
	RoleTemple                           // Priest and parishioners
	RoleBlacksmith                       // Smithy
	RoleClothier                         // Tailoring
	RoleAlchemist                        // Potions
	RolePlayerHouse                      // Where the player starts
	RoleHovel                            // Filler housing
	RoleAbandoned                        // Smallest building, rats only
)

var roleNames = map[BuildingRole]string{
	RolePub:         "pub",
	RoleTemple:      "temple",
	RoleBlacksmith:  "blacksmith",
	RoleClothier:    "clothier",
	RoleAlchemist:   "alchemist",
	RolePlayerHouse: "player_house",
	RoleHovel:       "hovel",
	RoleAbandoned:   "abandoned",
}

// String returns the string representation of a BuildingRole
func (r BuildingRole) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

// IsShop returns true if the building's occupant trades with the player
func (r BuildingRole) IsShop() bool {
	switch r {
	case RolePub, RoleBlacksmith, RoleClothier, RoleAlchemist:
		return true
	default:
		return false
	}
}

// Contents returns the fixed list of spawns a building of this role holds
func (r BuildingRole) Contents() []string {
	switch r {
	case RolePub:
		return []string{"Barkeep", "Shady Salesman", "Patron", "Patron", "Keg", "Table", "Chair", "Table", "Chair"}
	case RoleTemple:
		return []string{"Priest", "Parishioner", "Parishioner", "Chair", "Chair", "Candle", "Candle"}
	case RoleBlacksmith:
		return []string{"Blacksmith", "Anvil", "Water Trough", "Weapon Rack", "Armor Stand"}
	case RoleClothier:
		return []string{"Clothier", "Cabinet", "Table", "Loom", "Hide Rack"}
	case RoleAlchemist:
		return []string{"Alchemist", "Chemistry Set", "Dead Thing", "Chair", "Table"}
	case RolePlayerHouse:
		return []string{"Mom", "Bed", "Cabinet", "Chair", "Table"}
	case RoleHovel:
		return []string{"Peasant", "Bed", "Chair", "Table"}
	default:
		return nil
	}
}

// ParseBuildingRole converts a string to a BuildingRole
func ParseBuildingRole(s string) (BuildingRole, bool) {
	for r, name := range roleNames {
		if name == s {
			return r, true
		}
	}
	return RoleHovel, false
}
