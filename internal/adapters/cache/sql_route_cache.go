package cache

import (
	"aed-dispatch-service/internal/domain"
	"aed-dispatch-service/internal/platform/obs"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLRouteCache is a SQL-backed cache of routed paths keyed by origin and destination.
// It expects the route_cache table created by repositories.InitSchema.
type SQLRouteCache struct {
	DB *sql.DB
}

func NewSQLRouteCache(db *sql.DB) *SQLRouteCache {
	return &SQLRouteCache{DB: db}
}

func (s *SQLRouteCache) Get(
	ctx context.Context,
	origin domain.LatLng,
	destination domain.LatLng,
) (_ []domain.LatLng, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("route cache: db is nil")
	}

	var raw string
	err = s.DB.QueryRowContext(ctx, `
	SELECT polyline
	FROM route_cache
	WHERE origin = $1 AND destination = $2;
	`, pointKey(origin), pointKey(destination)).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	path, err := decodePath(raw)
	if err != nil {
		return nil, false, fmt.Errorf("get route cache: %w", err)
	}
	return path, true, nil
}

func (s *SQLRouteCache) Put(
	ctx context.Context,
	origin domain.LatLng,
	destination domain.LatLng,
	path []domain.LatLng,
) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}
	if len(path) < 2 {
		return fmt.Errorf("insert route cache: path has %d points", len(path))
	}

	raw, err := encodePath(path)
	if err != nil {
		return fmt.Errorf("insert route cache: %w", err)
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO route_cache (origin, destination, polyline)
	VALUES ($1, $2, $3)
	ON CONFLICT (origin, destination) DO UPDATE
	SET polyline = EXCLUDED.polyline;
	`, pointKey(origin), pointKey(destination), raw)
	if err != nil {
		return fmt.Errorf("insert route cache: %w", err)
	}

	return nil
}
