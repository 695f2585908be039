package routing

import (
	"aed-dispatch-service/internal/domain"
	"context"
)

// StraightLineProvider never calls out; every route is the direct line.
// Used when routing is disabled.
type StraightLineProvider struct{}

func (StraightLineProvider) Route(_ context.Context, origin, destination domain.LatLng) ([]domain.LatLng, error) {
	return domain.StraightLine(origin, destination), nil
}
