package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Open connects to Postgres for postgres:// URLs and treats anything else as a SQLite DSN.
func Open(databaseURL string) (*sql.DB, error) {
	driver, label := Driver(databaseURL)

	db, err := sql.Open(driver, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("openDB: open %s database: %w", label, err)
	}

	if driver == "pgx" {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
	} else {
		// A single connection keeps ":memory:" databases shared across queries.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("openDB: verify %s connection: %w", label, err)
	}

	return db, nil
}

// Driver returns the database/sql driver name and a human label for a URL.
func Driver(databaseURL string) (string, string) {
	u := strings.ToLower(strings.TrimSpace(databaseURL))
	if strings.HasPrefix(u, "postgres://") || strings.HasPrefix(u, "postgresql://") {
		return "pgx", "postgres"
	}
	return "sqlite", "sqlite"
}
