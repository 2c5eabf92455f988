package builder

import (
	"math/rand"

	"github.com/lawnchairsociety/delvegen/internal/world"
)

// DistanceMetric selects how nearest seeds are measured
type DistanceMetric int

const (
	DistanceEuclidean DistanceMetric = iota
	DistanceManhattan
	DistanceChebyshev
)

func (d DistanceMetric) measure(a, b Point) int {
	dx, dy := abs(a.X-b.X), abs(a.Y-b.Y)
	switch d {
	case DistanceManhattan:
		return dx + dy
	case DistanceChebyshev:
		return max(dx, dy)
	default:
		// Squared distance orders seeds the same as true distance
		return dx*dx + dy*dy
	}
}

// VoronoiCells partitions the map around random seeds and carves cell interiors
type VoronoiCells struct {
	Seeds  int
	Metric DistanceMetric
}

// NewVoronoiCells creates a Voronoi builder
func NewVoronoiCells(seeds int, metric DistanceMetric) *VoronoiCells {
	return &VoronoiCells{Seeds: seeds, Metric: metric}
}

// VoronoiPythagoras is the default 64-seed Euclidean layout
func VoronoiPythagoras() *VoronoiCells { return NewVoronoiCells(64, DistanceEuclidean) }

// VoronoiManhattan is a 64-seed Manhattan layout
func VoronoiManhattan() *VoronoiCells { return NewVoronoiCells(64, DistanceManhattan) }

// VoronoiChebyshev is a 64-seed Chebyshev layout
func VoronoiChebyshev() *VoronoiCells { return NewVoronoiCells(64, DistanceChebyshev) }

func (b *VoronoiCells) Name() string { return "VoronoiCells" }

// BuildInitial implements InitialBuilder
func (b *VoronoiCells) BuildInitial(rng *rand.Rand, s *BuildState) error {
	m := s.Map
	n := min(b.Seeds, max(0, (m.Width-1)*(m.Height-1)))

	seen := make(map[int]bool, n)
	seeds := make([]Point, 0, n)
	for len(seeds) < n {
		p := Point{X: rng.Intn(m.Width-1) + 1, Y: rng.Intn(m.Height-1) + 1}
		idx := m.XYIdx(p.X, p.Y)
		if seen[idx] {
			continue
		}
		seen[idx] = true
		seeds = append(seeds, p)
	}
	if len(seeds) == 0 {
		return nil
	}

	membership := voronoiMembership(m, seeds, b.Metric)

	for y := 1; y < m.Height-1; y++ {
		for x := 1; x < m.Width-1; x++ {
			mine := membership[m.XYIdx(x, y)]
			differing := 0
			for _, d := range [4]Point{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
				if membership[m.XYIdx(x+d.X, y+d.Y)] != mine {
					differing++
				}
			}
			if differing < 2 {
				m.Set(x, y, world.TileFloor)
			}
		}
		s.TakeSnapshot()
	}
	s.Layout = nil
	return nil
}

// voronoiMembership returns the nearest seed for every tile; ties go to the
// lower seed index. Each tile depends only on the seed list.
func voronoiMembership(m *world.Map, seeds []Point, metric DistanceMetric) []int {
	membership := make([]int, m.Len())
	for idx := range membership {
		x, y := m.IdxXY(idx)
		p := Point{X: x, Y: y}
		best, bestDist := 0, metric.measure(p, seeds[0])
		for i := 1; i < len(seeds); i++ {
			if d := metric.measure(p, seeds[i]); d < bestDist {
				best, bestDist = i, d
			}
		}
		membership[idx] = best
	}
	return membership
}
