package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/lawnchairsociety/delvegen/internal/builder"
	"github.com/lawnchairsociety/delvegen/internal/logger"
)

func main() {
	depths := flag.String("depths", "", "Depth range to generate (e.g., 1-10 or 5)")
	seed := flag.Int64("seed", 42, "Dungeon seed")
	width := flag.Int("width", 80, "Map width")
	height := flag.Int("height", 50, "Map height")
	outDir := flag.String("out", "data/levels", "Output directory")
	flag.Parse()

	if *depths == "" {
		fmt.Fprintln(os.Stderr, "Error: --depths is required (e.g., --depths=1-10 or --depths=5)")
		flag.Usage()
		os.Exit(1)
	}

	startDepth, endDepth, err := parseDepthRange(*depths)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid depth range: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	cfg := logger.DefaultConfig()
	cfg.Level = "WARN"
	logger.Initialize(cfg)

	gen := NewDepthGenerator(*seed, *width, *height, *outDir, builder.DefaultLevelOptions())
	ctx := context.Background()

	fmt.Printf("Generating depths %d-%d (seed: %d)\n", startDepth, endDepth, *seed)
	fmt.Printf("Output directory: %s\n\n", *outDir)

	for depth := startDepth; depth <= endDepth; depth++ {
		fmt.Printf("Generating depth %d... ", depth)
		summary, err := gen.GenerateDepth(ctx, depth)
		if err != nil {
			fmt.Printf("FAILED: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("OK  %s\n", summary)
	}

	path, err := gen.SaveDungeon()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nSuccessfully generated %d depth(s), dungeon saved to %s\n", endDepth-startDepth+1, path)
}

// parseDepthRange parses a depth range string like "1-10" or "5"
func parseDepthRange(s string) (start, end int, err error) {
	if strings.Contains(s, "-") {
		parts := strings.Split(s, "-")
		if len(parts) != 2 {
			return 0, 0, fmt.Errorf("invalid range format, expected 'start-end'")
		}
		start, err = strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return 0, 0, fmt.Errorf("invalid start depth: %w", err)
		}
		end, err = strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return 0, 0, fmt.Errorf("invalid end depth: %w", err)
		}
	} else {
		start, err = strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0, 0, fmt.Errorf("invalid depth: %w", err)
		}
		end = start
	}

	if start < 1 {
		return 0, 0, fmt.Errorf("depths must be >= 1")
	}
	if end < start {
		return 0, 0, fmt.Errorf("end depth must be >= start depth")
	}

	return start, end, nil
}
