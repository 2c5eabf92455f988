package builder

import (
	"fmt"
	"math/rand"

	"github.com/lawnchairsociety/delvegen/internal/wfc"
)

// LevelOptions carries the generator settings every composed chain honours
type LevelOptions struct {
	// HistoryCap enables snapshot recording when positive
	HistoryCap int
	// MaxRetries bounds WFC solve attempts
	MaxRetries int
	// MaxVaultScan bounds the room vault placement scan; zero is exhaustive
	MaxVaultScan int
}

// DefaultLevelOptions returns the settings used when none are configured
func DefaultLevelOptions() LevelOptions {
	return LevelOptions{MaxRetries: wfc.DefaultMaxRetries}
}

func (o LevelOptions) chainOptions() []Option {
	if o.HistoryCap > 0 {
		return []Option{WithHistory(o.HistoryCap)}
	}
	return nil
}

// LevelBuilder composes the chain for a depth. Depths 1 to 6 are hand-built
// themes; deeper levels are assembled at random from the catalogue, drawing
// from rng.
func LevelBuilder(depth, width, height int, rng *rand.Rand, opts LevelOptions) *Chain {
	switch depth {
	case 1:
		return TownLevel(width, height, opts)
	case 2:
		return ForestLevel(depth, width, height, opts)
	case 3:
		return LimestoneCavern(depth, width, height, opts)
	case 4:
		return DeepCavern(depth, width, height, opts)
	case 5:
		return CaveTransitionLevel(depth, width, height, opts)
	case 6:
		return FortressLevel(depth, width, height, opts)
	default:
		return RandomLevel(depth, width, height, rng, opts)
	}
}

// TownLevel is the surface village
func TownLevel(width, height int, opts LevelOptions) *Chain {
	return NewChain(1, width, height, "The Town of Ashford", opts.chainOptions()...).
		StartWith(NewTown())
}

// ForestLevel is the wood outside town, crossed by a road to the caves
func ForestLevel(depth, width, height int, opts LevelOptions) *Chain {
	return NewChain(depth, width, height, "Into the Woods", opts.chainOptions()...).
		StartWith(NewCellularAutomata()).
		With(NewAreaStartingPosition(XCenter, YCenter)).
		With(NewCullUnreachable()).
		With(NewAreaStartingPosition(XLeft, YCenter)).
		With(NewYellowBrickRoad()).
		With(NewVoronoiSpawning())
}

// LimestoneCavern is the first cave level
func LimestoneCavern(depth, width, height int, opts LevelOptions) *Chain {
	return NewChain(depth, width, height, "Limestone Caverns", opts.chainOptions()...).
		StartWith(WindingPassages()).
		With(NewDLA(DLASettings{Algorithm: DLAWalkInwards, BrushSize: 1, FloorPercent: 0.45})).
		With(NewAreaStartingPosition(XCenter, YCenter)).
		With(NewCullUnreachable()).
		With(NewAreaStartingPosition(XLeft, YCenter)).
		With(NewVoronoiSpawning()).
		With(NewDistantExit()).
		With(NewCaveDecorator())
}

// DeepCavern grows a central cave and dresses it
func DeepCavern(depth, width, height int, opts LevelOptions) *Chain {
	return NewChain(depth, width, height, "Deep Limestone Caverns", opts.chainOptions()...).
		StartWith(CentralAttractor()).
		With(NewAreaStartingPosition(XLeft, YTop)).
		With(NewCullUnreachable()).
		With(NewVoronoiSpawning()).
		With(NewDistantExit()).
		With(NewCaveDecorator())
}

// CaveTransitionLevel is a cavern whose right half gives way to built rooms
func CaveTransitionLevel(depth, width, height int, opts LevelOptions) *Chain {
	return NewChain(depth, width, height, "Dwarf Fort - Upper Reaches", opts.chainOptions()...).
		StartWith(NewCellularAutomata()).
		With(NewAreaStartingPosition(XCenter, YCenter)).
		With(NewCullUnreachable()).
		With(NewVoronoiSpawning()).
		With(NewCaveDecorator()).
		With(NewCaveTransition(func(depth, width, height int) *Chain {
			return NewChain(depth, width, height, "Dwarf Fort Rooms").
				StartWith(NewBspDungeon()).
				With(NewRoomSorter(SortRightmost)).
				With(NewNearestCorridors()).
				With(NewRoomExploder()).
				With(NewRoomBasedSpawner())
		})).
		With(NewAreaStartingPosition(XLeft, YCenter)).
		With(NewCullUnreachable()).
		With(NewAreaEndingPosition(XRight, YCenter))
}

// FortressLevel is a Voronoi cave walled in by the underground fort
func FortressLevel(depth, width, height int, opts LevelOptions) *Chain {
	return NewChain(depth, width, height, "Dwarf Fort - Gates", opts.chainOptions()...).
		StartWith(VoronoiPythagoras()).
		With(NewSectionalVault("underground_fort")).
		With(NewAreaStartingPosition(XLeft, YCenter)).
		With(NewCullUnreachable()).
		With(NewDistantExit()).
		With(NewVoronoiSpawning())
}

// RandomLevel assembles a chain from a random starter and compatible steps
func RandomLevel(depth, width, height int, rng *rand.Rand, opts LevelOptions) *Chain {
	chain := NewChain(depth, width, height, fmt.Sprintf("Depth %d", depth), opts.chainOptions()...)

	roomBased := rng.Intn(2) == 0
	if roomBased {
		randomRoomStarter(rng, chain)
	} else {
		randomShapeStarter(rng, chain)
	}

	// WFC throws away room data, so it forces the organic flow
	if rng.Intn(3) == 0 {
		chain.With(NewWaveFunctionCollapse(DefaultChunkSize, opts.MaxRetries))
		roomBased = false
	}
	if rng.Intn(20) == 0 {
		chain.With(NewSectionalVault("underground_fort"))
	}

	if roomBased {
		chain.With(NewRoomBasedStartingPosition())
	} else {
		xs := []XStart{XLeft, XCenter, XRight}
		ys := []YStart{YTop, YCenter, YBottom}
		chain.With(NewAreaStartingPosition(xs[rng.Intn(3)], ys[rng.Intn(3)]))
	}
	chain.With(NewCullUnreachable())

	if roomBased && rng.Intn(2) == 0 {
		chain.With(NewRoomBasedStairs())
	} else {
		chain.With(NewDistantExit())
	}
	if roomBased && rng.Intn(2) == 0 {
		chain.With(NewRoomBasedSpawner())
	} else {
		chain.With(NewVoronoiSpawning())
	}

	chain.With(NewDoorPlacement())
	chain.With(NewRoomVaults(opts.MaxVaultScan))
	return chain
}

// minRoomFloor drops slivers left by circular rooms in tight rectangles
const minRoomFloor = 9

func randomRoomStarter(rng *rand.Rand, chain *Chain) {
	switch rng.Intn(3) {
	case 0:
		chain.StartWith(NewSimpleMap())
	case 1:
		chain.StartWith(NewBspDungeon())
	default:
		// Interior rooms already share walls and are joined
		chain.StartWith(NewBspInterior())
		return
	}

	chain.With(NewRoomSorter(RoomSort(rng.Intn(5))))
	chain.With(NewRoomDrawer())
	chain.With(NewRoomCulling(minRoomFloor))
	populated := false
	switch rng.Intn(5) {
	case 0:
		chain.With(NewDoglegCorridors())
	case 1:
		chain.With(NewBresenhamCorridors())
	case 2:
		chain.With(NewNearestCorridors())
	case 3:
		chain.With(NewStraightLineCorridors())
		populated = true
	default:
		chain.With(NewBspCorridors())
	}
	if !populated && rng.Intn(2) == 0 {
		chain.With(NewCorridorSpawner())
	}
	switch rng.Intn(6) {
	case 0:
		chain.With(NewRoomExploder())
	case 1:
		chain.With(NewRoomCornerRounder())
	}
}

func randomShapeStarter(rng *rand.Rand, chain *Chain) {
	starters := []func() InitialBuilder{
		func() InitialBuilder { return NewCellularAutomata() },
		func() InitialBuilder { return OpenArea() },
		func() InitialBuilder { return OpenHalls() },
		func() InitialBuilder { return WindingPassages() },
		func() InitialBuilder { return FatPassages() },
		func() InitialBuilder { return FearfulSymmetry() },
		func() InitialBuilder { return WalkInwards() },
		func() InitialBuilder { return WalkOutwards() },
		func() InitialBuilder { return CentralAttractor() },
		func() InitialBuilder { return Insectoid() },
		func() InitialBuilder { return NewMaze() },
		func() InitialBuilder { return VoronoiPythagoras() },
		func() InitialBuilder { return VoronoiManhattan() },
		func() InitialBuilder { return VoronoiChebyshev() },
	}
	chain.StartWith(starters[rng.Intn(len(starters))]())
}
