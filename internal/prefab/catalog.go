package prefab

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var templatesYAML []byte

// Catalog groups templates by how they are placed
type Catalog struct {
	Levels   []Template `yaml:"levels"`
	Sections []Template `yaml:"sections"`
	Vaults   []Template `yaml:"vaults"`
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// LoadCatalog parses and validates a YAML template catalogue
func LoadCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse prefab catalogue: %w", err)
	}
	for _, group := range [][]Template{c.Levels, c.Sections, c.Vaults} {
		for i := range group {
			if err := group[i].Validate(); err != nil {
				return nil, err
			}
		}
	}
	return &c, nil
}

// DefaultCatalog returns the embedded catalogue, parsed once
func DefaultCatalog() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = LoadCatalog(templatesYAML)
	})
	return defaultCatalog, defaultErr
}

// MustDefaultCatalog returns the embedded catalogue, panicking on error
func MustDefaultCatalog() *Catalog {
	c, err := DefaultCatalog()
	if err != nil {
		panic(err)
	}
	return c
}

func find(group []Template, name string) (*Template, error) {
	for i := range group {
		if group[i].Name == name {
			return &group[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownTemplate, name)
}

// Level returns a whole-map template by name
func (c *Catalog) Level(name string) (*Template, error) {
	return find(c.Levels, name)
}

// Section returns an edge-anchored template by name
func (c *Catalog) Section(name string) (*Template, error) {
	return find(c.Sections, name)
}

// VaultsForDepth returns the room vaults allowed at a depth
func (c *Catalog) VaultsForDepth(depth int) []*Template {
	var out []*Template
	for i := range c.Vaults {
		v := &c.Vaults[i]
		if depth >= v.FirstDepth && depth <= v.LastDepth {
			out = append(out, v)
		}
	}
	return out
}
