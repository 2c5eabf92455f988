package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/lawnchairsociety/delvegen/internal/config"
	"github.com/lawnchairsociety/delvegen/internal/database"
	"github.com/lawnchairsociety/delvegen/internal/dungeon"
	"github.com/lawnchairsociety/delvegen/internal/logger"
	"github.com/lawnchairsociety/delvegen/internal/telemetry"
	"github.com/lawnchairsociety/delvegen/internal/world"
)

func main() {
	configFile := flag.String("config", "data/delvegen.yaml", "Path to config YAML file")
	seed := flag.Int64("seed", 0, "Generation seed (default: config value, or random based on current time)")
	depth := flag.Int("depth", 0, "Depth to generate (default: config value)")
	width := flag.Int("width", 0, "Map width (default: config value)")
	height := flag.Int("height", 0, "Map height (default: config value)")
	history := flag.Bool("history", false, "Print every recorded construction snapshot")
	outputFile := flag.String("output", "", "Save the dungeon to this YAML file")
	snapshot := flag.Bool("snapshot", true, "Store tiles in the YAML file instead of regenerating on load")
	saveDB := flag.Bool("db", false, "Archive the level in the configured database")
	loadRun := flag.String("load", "", "Render an archived run by ID instead of generating")
	listRuns := flag.Int("list", -1, "List the N most recent archived runs (0 for all) and exit")
	showLegend := flag.Bool("legend", true, "Show legend")
	flag.Parse()

	// Not fatal, variables may be set directly
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading config: %v\n", err)
		os.Exit(1)
	}
	cfg.ApplyEnv()

	// Explicit flags win over file and environment
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			cfg.Generator.Seed = *seed
		case "depth":
			cfg.Generator.Depth = *depth
		case "width":
			cfg.Generator.Width = *width
		case "height":
			cfg.Generator.Height = *height
		case "history":
			cfg.Generator.History.Enabled = *history
		}
	})

	if err := logger.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initialising logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	shutdown, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		logger.Warning("Telemetry setup failed, continuing without tracing", "error", err)
	} else {
		defer func() {
			if err := shutdown(ctx); err != nil {
				logger.Error("Telemetry shutdown failed", "error", err)
			}
		}()
	}

	if err := run(ctx, cfg, options{
		history:    *history,
		outputFile: *outputFile,
		snapshot:   *snapshot,
		saveDB:     *saveDB,
		loadRun:    *loadRun,
		listRuns:   *listRuns,
		showLegend: *showLegend,
	}); err != nil {
		logger.Error("mapgen failed", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	history    bool
	outputFile string
	snapshot   bool
	saveDB     bool
	loadRun    string
	listRuns   int
	showLegend bool
}

func run(ctx context.Context, cfg *config.Config, opts options) error {
	if opts.listRuns >= 0 || opts.loadRun != "" {
		return fromArchive(ctx, cfg, opts)
	}

	seed := cfg.ResolveSeed()
	gen := cfg.Generator
	logger.Info("Generating level", "seed", seed, "depth", gen.Depth, "width", gen.Width, "height", gen.Height)

	d := dungeon.NewDungeon(seed, gen.Width, gen.Height, cfg.LevelOptions())
	level, err := d.GetLevel(ctx, gen.Depth)
	if err != nil {
		return err
	}

	var output strings.Builder
	fmt.Fprintf(&output, "%s (Seed: %d, Depth: %d)\n", level.Map.Name, seed, level.Depth)
	output.WriteString(strings.Repeat("=", gen.Width) + "\n")

	if opts.history {
		for i, snap := range level.History {
			fmt.Fprintf(&output, "Snapshot %d/%d\n", i+1, len(level.History))
			output.WriteString(snap.Render())
			output.WriteString("\n")
		}
	}

	output.WriteString(renderLevel(level))
	fmt.Fprintf(&output, "\nStart: (%d, %d)  Spawns: %d\n", level.Start.X, level.Start.Y, len(level.Spawns))
	if opts.showLegend {
		output.WriteString(getLegend())
	}
	fmt.Print(output.String())

	if opts.saveDB {
		db, err := database.OpenWithConfig(cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		id, err := db.SaveLevel(ctx, seed, level)
		if err != nil {
			return err
		}
		fmt.Printf("Archived as run %s\n", id)
	}

	if opts.outputFile != "" {
		if err := dungeon.SaveDungeon(d, opts.outputFile, opts.snapshot); err != nil {
			return err
		}
		fmt.Printf("Dungeon written to %s\n", opts.outputFile)
	}
	return nil
}

func fromArchive(ctx context.Context, cfg *config.Config, opts options) error {
	db, err := database.OpenWithConfig(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if opts.loadRun == "" {
		runs, err := db.ListRuns(ctx, opts.listRuns)
		if err != nil {
			return err
		}
		for _, r := range runs {
			fmt.Printf("%s  seed=%d depth=%d %dx%d  %s\n",
				r.ID, r.Seed, r.Depth, r.Width, r.Height, r.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	}

	level, err := db.LoadLevel(ctx, opts.loadRun)
	if err != nil {
		return err
	}
	fmt.Printf("%s (Run: %s, Depth: %d)\n", level.Map.Name, opts.loadRun, level.Depth)
	fmt.Print(renderLevel(level))
	if opts.showLegend {
		fmt.Print(getLegend())
	}
	return nil
}

// renderLevel draws the map with the start tile marked
func renderLevel(level *dungeon.Level) string {
	lines := strings.Split(strings.TrimSuffix(level.Map.Render(), "\n"), "\n")
	if y := level.Start.Y; y >= 0 && y < len(lines) {
		row := []rune(lines[y])
		if x := level.Start.X; x >= 0 && x < len(row) {
			row[x] = '@'
			lines[y] = string(row)
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

func getLegend() string {
	var sb strings.Builder
	sb.WriteString("\nLegend:\n")
	sb.WriteString("  @  Start\n")
	for _, t := range world.AllTileTypes() {
		fmt.Fprintf(&sb, "  %c  %s\n", t.Glyph(), t)
	}
	return sb.String()
}
