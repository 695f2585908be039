package ports

import (
	"aed-dispatch-service/internal/domain"
	"context"
)

// Contract for retrieving a routed path between two coordinates.
type RouteProvider interface {
	// Return ordered waypoints from origin to destination, both endpoints included.
	Route(ctx context.Context, origin domain.LatLng, destination domain.LatLng) ([]domain.LatLng, error)
}

// Optional persistent cache for routed paths keyed by origin and destination.
type RouteCache interface {
	// Return the cached path and whether it was present.
	Get(ctx context.Context, origin domain.LatLng, destination domain.LatLng) ([]domain.LatLng, bool, error)
	Put(ctx context.Context, origin domain.LatLng, destination domain.LatLng, path []domain.LatLng) error
}
