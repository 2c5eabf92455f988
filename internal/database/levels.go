package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lawnchairsociety/delvegen/internal/builder"
	"github.com/lawnchairsociety/delvegen/internal/dungeon"
	"github.com/lawnchairsociety/delvegen/internal/world"
)

// ErrRunNotFound is returned when no archived run has the requested ID
var ErrRunNotFound = errors.New("run not found")

// ErrRunExists is returned when importing a run whose ID is already archived
var ErrRunExists = errors.New("run already exists")

// Run describes one archived generation request
type Run struct {
	ID        string
	Seed      int64
	Width     int
	Height    int
	Depth     int
	CreatedAt time.Time
}

// SaveLevel archives a generated level with its pending spawns and returns the
// new run ID.
func (d *Database) SaveLevel(ctx context.Context, seed int64, level *dungeon.Level) (string, error) {
	run := Run{
		ID:        uuid.NewString(),
		Seed:      seed,
		Width:     level.Map.Width,
		Height:    level.Map.Height,
		Depth:     level.Depth,
		CreatedAt: time.Now().UTC(),
	}
	if err := d.ImportRun(ctx, run, level); err != nil {
		return "", err
	}
	return run.ID, nil
}

// ImportRun archives a level under an existing run record, keeping its ID.
// It returns ErrRunExists if the ID is already archived.
func (d *Database) ImportRun(ctx context.Context, run Run, level *dungeon.Level) error {
	m := level.Map

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		d.q(`INSERT INTO runs (id, seed, width, height, depth, created_at) VALUES (?, ?, ?, ?, ?, ?)`),
		run.ID, run.Seed, run.Width, run.Height, run.Depth, run.CreatedAt,
	)
	if err != nil {
		if d.dialect.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", ErrRunExists, run.ID)
		}
		return fmt.Errorf("failed to insert run: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		d.q(`INSERT INTO levels (run_id, name, tiles, start_x, start_y) VALUES (?, ?, ?, ?, ?)`),
		run.ID, m.Name, m.EncodeTiles(), level.Start.X, level.Start.Y,
	)
	if err != nil {
		return fmt.Errorf("failed to insert level: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, d.q(`INSERT INTO spawns (run_id, idx, tag) VALUES (?, ?, ?)`))
	if err != nil {
		return fmt.Errorf("failed to prepare spawn insert: %w", err)
	}
	defer stmt.Close()
	for _, sp := range level.Spawns {
		if _, err := stmt.ExecContext(ctx, run.ID, sp.Idx, sp.Tag); err != nil {
			return fmt.Errorf("failed to insert spawn: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit level: %w", err)
	}
	return nil
}

// GetRun returns the metadata of an archived run
func (d *Database) GetRun(ctx context.Context, id string) (*Run, error) {
	var r Run
	err := d.db.QueryRowContext(ctx,
		d.q(`SELECT id, seed, width, height, depth, created_at FROM runs WHERE id = ?`), id,
	).Scan(&r.ID, &r.Seed, &r.Width, &r.Height, &r.Depth, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}
	return &r, nil
}

// LoadLevel rebuilds an archived level
func (d *Database) LoadLevel(ctx context.Context, id string) (*dungeon.Level, error) {
	run, err := d.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}

	var name, tiles string
	var start builder.Point
	err = d.db.QueryRowContext(ctx,
		d.q(`SELECT name, tiles, start_x, start_y FROM levels WHERE run_id = ?`), id,
	).Scan(&name, &tiles, &start.X, &start.Y)
	if err == sql.ErrNoRows {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query level: %w", err)
	}

	m := world.NewMap(run.Depth, run.Width, run.Height, name)
	if !m.DecodeTiles(tiles) {
		return nil, fmt.Errorf("archived tiles for run %s do not fit %dx%d", id, run.Width, run.Height)
	}

	rows, err := d.db.QueryContext(ctx, d.q(`SELECT idx, tag FROM spawns WHERE run_id = ? ORDER BY id`), id)
	if err != nil {
		return nil, fmt.Errorf("failed to query spawns: %w", err)
	}
	defer rows.Close()

	var spawns []world.Spawn
	for rows.Next() {
		var sp world.Spawn
		if err := rows.Scan(&sp.Idx, &sp.Tag); err != nil {
			return nil, fmt.Errorf("failed to scan spawn: %w", err)
		}
		spawns = append(spawns, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &dungeon.Level{
		Depth:     run.Depth,
		Map:       m,
		Spawns:    spawns,
		Start:     start,
		Generated: run.CreatedAt,
	}, nil
}

// ListRuns returns archived runs, newest first. A limit of zero returns all.
func (d *Database) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, seed, width, height, depth, created_at FROM runs ORDER BY created_at DESC, id`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := d.db.QueryContext(ctx, d.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Seed, &r.Width, &r.Height, &r.Depth, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// DeleteRun removes a run and everything archived with it
func (d *Database) DeleteRun(ctx context.Context, id string) error {
	res, err := d.db.ExecContext(ctx, d.q(`DELETE FROM runs WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRunNotFound
	}
	return nil
}
