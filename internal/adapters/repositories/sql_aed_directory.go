package repositories

import (
	"aed-dispatch-service/internal/domain"
	"aed-dispatch-service/internal/platform/obs"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQL-backed implementation of the AEDDirectory port.
type SQLAEDDirectory struct{ DB *sql.DB }

func NewSQLAEDDirectory(db *sql.DB) *SQLAEDDirectory {
	return &SQLAEDDirectory{DB: db}
}

// Return every AED site in insertion order.
func (s *SQLAEDDirectory) ListAEDs(ctx context.Context) (_ []domain.AEDSite, err error) {
	defer obs.Time(ctx, "aeds.sql.List")(&err)

	if s.DB == nil {
		return nil, errors.New("sql aed directory: DB is nil")
	}

	query := `
	SELECT
		name,
		address,
		lat,
		lng
	FROM aed_sites
	ORDER BY id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list aeds: query aed_sites table: %w", err)
	}
	defer rows.Close()

	sites := make([]domain.AEDSite, 0, 256)
	for rows.Next() {
		var site domain.AEDSite
		if err := rows.Scan(&site.Name, &site.Address, &site.Location.Lat, &site.Location.Lng); err != nil {
			return nil, fmt.Errorf("list aeds: scan row: %w", err)
		}
		sites = append(sites, site)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list aeds: row iteration: %w", err)
	}

	return sites, nil
}
