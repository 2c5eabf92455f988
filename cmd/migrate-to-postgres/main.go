// migrate-to-postgres copies a SQLite level archive into PostgreSQL.
//
// Usage:
//
//	go run ./cmd/migrate-to-postgres \
//	    -sqlite data/delvegen.db \
//	    -pg-host localhost \
//	    -pg-port 5432 \
//	    -pg-user delvegen \
//	    -pg-password delvegen \
//	    -pg-database delvegen
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/lawnchairsociety/delvegen/internal/database"
)

func main() {
	sqlitePath := flag.String("sqlite", "data/delvegen.db", "Path to SQLite database")
	pgHost := flag.String("pg-host", "localhost", "PostgreSQL host")
	pgPort := flag.Int("pg-port", 5432, "PostgreSQL port")
	pgUser := flag.String("pg-user", "delvegen", "PostgreSQL user")
	pgPassword := flag.String("pg-password", "", "PostgreSQL password")
	pgDatabase := flag.String("pg-database", "delvegen", "PostgreSQL database name")
	pgSSLMode := flag.String("pg-sslmode", "disable", "PostgreSQL SSL mode")
	dryRun := flag.Bool("dry-run", false, "Show what would be migrated without making changes")
	flag.Parse()

	log.Println("SQLite to PostgreSQL Migration Tool")
	log.Println("====================================")

	log.Printf("Opening SQLite database: %s", *sqlitePath)
	src, err := database.Open(*sqlitePath)
	if err != nil {
		log.Fatalf("Failed to open SQLite database: %v", err)
	}
	defer src.Close()

	ctx := context.Background()

	if *dryRun {
		log.Println("DRY RUN MODE - No changes will be made")
		for _, table := range []string{"runs", "levels", "spawns"} {
			var n int64
			if err := src.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
				log.Fatalf("Failed to count %s: %v", table, err)
			}
			log.Printf("  %s: %d rows", table, n)
		}
		return
	}

	cfg := database.DefaultConfig("")
	cfg.Driver = string(database.DialectPostgres)
	cfg.Postgres.Host = *pgHost
	cfg.Postgres.Port = *pgPort
	cfg.Postgres.User = *pgUser
	cfg.Postgres.Password = *pgPassword
	cfg.Postgres.Database = *pgDatabase
	cfg.Postgres.SSLMode = *pgSSLMode

	// Opening runs the schema migrations on the target
	log.Printf("Opening PostgreSQL database: %s@%s:%d/%s", *pgUser, *pgHost, *pgPort, *pgDatabase)
	dst, err := database.OpenWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to open PostgreSQL database: %v", err)
	}
	defer dst.Close()

	copied, skipped, spawns, err := migrateRuns(ctx, src, dst)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("====================================")
	log.Printf("Migration complete! Runs copied: %d, already present: %d, spawns copied: %d", copied, skipped, spawns)
}

// migrateRuns copies every run absent from dst together with its level and spawns
func migrateRuns(ctx context.Context, src, dst *database.Database) (copied, skipped, spawns int, err error) {
	runs, err := src.ListRuns(ctx, 0)
	if err != nil {
		return 0, 0, 0, err
	}

	// Oldest first so created_at order survives on the target
	for i := len(runs) - 1; i >= 0; i-- {
		run := runs[i]
		level, err := src.LoadLevel(ctx, run.ID)
		if err != nil {
			return copied, skipped, spawns, fmt.Errorf("load run %s: %w", run.ID, err)
		}

		err = dst.ImportRun(ctx, run, level)
		if errors.Is(err, database.ErrRunExists) {
			skipped++
			continue
		}
		if err != nil {
			return copied, skipped, spawns, fmt.Errorf("import run %s: %w", run.ID, err)
		}
		copied++
		spawns += len(level.Spawns)
		log.Printf("  Migrated run %s (%d spawns)", run.ID, len(level.Spawns))
	}
	return copied, skipped, spawns, nil
}
