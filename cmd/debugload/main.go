package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lawnchairsociety/delvegen/internal/prefab"
	"github.com/lawnchairsociety/delvegen/internal/spawn"
)

func main() {
	templatesFile := flag.String("templates", "", "Prefab catalogue YAML to check (default: embedded)")
	spawnsFile := flag.String("spawns", "", "Spawn table YAML to check (default: embedded)")
	maxDepth := flag.Int("depth", 10, "Deepest level to report spawn weights for")
	flag.Parse()

	catalog, err := loadCatalog(*templatesFile)
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %d level prefabs, %d sections, %d room vaults\n",
		len(catalog.Levels), len(catalog.Sections), len(catalog.Vaults))
	for _, t := range catalog.Levels {
		fmt.Printf("  level   %-24s %3dx%-3d\n", t.Name, t.Width, t.Height)
	}
	for _, t := range catalog.Sections {
		fmt.Printf("  section %-24s %3dx%-3d %s/%s\n", t.Name, t.Width, t.Height, t.Horizontal, t.Vertical)
	}

	fmt.Println("\n--- Room vaults by depth ---")
	for depth := 1; depth <= *maxDepth; depth++ {
		var names []string
		for _, t := range catalog.VaultsForDepth(depth) {
			names = append(names, t.Name)
		}
		fmt.Printf("  depth %2d: %v\n", depth, names)
	}

	entries, err := loadEntries(*spawnsFile)
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	fmt.Printf("\n--- Spawn table (%d entries) ---\n", len(entries))
	for depth := 1; depth <= *maxDepth; depth++ {
		table, err := spawn.NewTable(entries, depth)
		if err != nil {
			fmt.Printf("  depth %2d: %v\n", depth, err)
			continue
		}
		fmt.Printf("  depth %2d: %d candidates\n", depth, table.Len())
		for _, e := range entries {
			if w := e.WeightAt(depth); w > 0 {
				fmt.Printf("      %-20s %d\n", e.Name, w)
			}
		}
	}
}

func loadCatalog(path string) (*prefab.Catalog, error) {
	if path == "" {
		return prefab.DefaultCatalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return prefab.LoadCatalog(data)
}

func loadEntries(path string) ([]spawn.Entry, error) {
	if path == "" {
		return spawn.DefaultEntries()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return spawn.LoadEntries(data)
}
