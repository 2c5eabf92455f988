package spawn

import (
	_ "embed"
	"errors"
	"fmt"
	"math/rand"

	"gopkg.in/yaml.v3"
)

//go:embed spawns.yaml
var spawnsYAML []byte

// ErrEmptyTable is returned when no entry has positive weight at a depth
var ErrEmptyTable = errors.New("spawn: no entries available at depth")

// Entry is one row of the spawn definition file
type Entry struct {
	Name       string `yaml:"name"`
	Weight     int    `yaml:"weight"`
	DepthBonus int    `yaml:"depth_bonus"`
	MinDepth   int    `yaml:"min_depth"`
	MaxDepth   int    `yaml:"max_depth"`
}

// WeightAt returns the entry weight at a depth, or zero if it is out of range
func (e Entry) WeightAt(depth int) int {
	if e.MinDepth > 0 && depth < e.MinDepth {
		return 0
	}
	if e.MaxDepth > 0 && depth > e.MaxDepth {
		return 0
	}
	w := e.Weight + e.DepthBonus*depth
	if w < 0 {
		return 0
	}
	return w
}

type spawnFile struct {
	Spawns []Entry `yaml:"spawns"`
}

// LoadEntries parses spawn definitions from YAML
func LoadEntries(data []byte) ([]Entry, error) {
	var f spawnFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse spawn table: %w", err)
	}
	return f.Spawns, nil
}

// DefaultEntries returns the embedded spawn definitions
func DefaultEntries() ([]Entry, error) {
	return LoadEntries(spawnsYAML)
}

type weighted struct {
	name   string
	weight int
}

// Table is a weighted random selection of spawn tags for one depth
type Table struct {
	entries []weighted
	total   int
}

// NewTable builds the selection table for a depth
func NewTable(entries []Entry, depth int) (*Table, error) {
	t := &Table{}
	for _, e := range entries {
		if w := e.WeightAt(depth); w > 0 {
			t.entries = append(t.entries, weighted{name: e.Name, weight: w})
			t.total += w
		}
	}
	if t.total == 0 {
		return nil, fmt.Errorf("%w %d", ErrEmptyTable, depth)
	}
	return t, nil
}

// ForDepth builds a table for a depth from the embedded definitions
func ForDepth(depth int) (*Table, error) {
	entries, err := DefaultEntries()
	if err != nil {
		return nil, err
	}
	return NewTable(entries, depth)
}

// Roll selects a tag with probability proportional to its weight
func (t *Table) Roll(rng *rand.Rand) string {
	roll := rng.Intn(t.total)
	cumulative := 0
	for _, e := range t.entries {
		cumulative += e.weight
		if roll < cumulative {
			return e.name
		}
	}
	return t.entries[len(t.entries)-1].name
}

// Len returns the number of tags with positive weight
func (t *Table) Len() int {
	return len(t.entries)
}
