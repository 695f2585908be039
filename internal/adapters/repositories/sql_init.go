package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
)

// Initialize the database schema. Statements are valid for both Postgres and SQLite.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createAEDSitesQuery := `
	CREATE TABLE IF NOT EXISTS aed_sites (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		lat DOUBLE PRECISION NOT NULL,
		lng DOUBLE PRECISION NOT NULL
	);
	`

	createRouteCacheQuery := `
	CREATE TABLE IF NOT EXISTS route_cache (
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		polyline TEXT NOT NULL,
		PRIMARY KEY (origin, destination)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_route_cache_destination_origin
	ON route_cache(destination, origin);
	`

	statements := []string{
		createAEDSitesQuery,
		createRouteCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Populate aed_sites from the bundled AED JSON export. Rows are keyed by their
// position in the file, so reseeding the same file is idempotent.
func SeedFromJSON(db *sql.DB, jsonPath string) (int, error) {
	if db == nil {
		return 0, errors.New("seed aeds: DB is nil")
	}

	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed aeds: read %q: %w", jsonPath, err)
	}

	sites, _, err := parseAEDs(raw)
	if err != nil {
		return 0, fmt.Errorf("seed aeds: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("seed aeds: begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT INTO aed_sites (id, name, address, lat, lng)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (id) DO UPDATE
	SET name = EXCLUDED.name,
		address = EXCLUDED.address,
		lat = EXCLUDED.lat,
		lng = EXCLUDED.lng;
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return 0, fmt.Errorf("seed aeds: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, s := range sites {
		if _, err := stmt.Exec(i+1, s.Name, s.Address, s.Location.Lat, s.Location.Lng); err != nil {
			return 0, fmt.Errorf("seed aeds: insert id=%d: %w", i+1, err)
		}
	}

	// Rows past the end of a shorter export are stale.
	if _, err := tx.Exec(`DELETE FROM aed_sites WHERE id > $1`, len(sites)); err != nil {
		return 0, fmt.Errorf("seed aeds: prune stale rows: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("seed aeds: commit tx: %w", err)
	}

	return len(sites), nil
}
