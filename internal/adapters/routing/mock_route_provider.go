package routing

import (
	"aed-dispatch-service/internal/domain"
	"context"
	"fmt"
	"sync"
)

type MockRoute struct {
	From, To domain.LatLng
	Points   []domain.LatLng
}

// MockRouteProvider serves canned routes and fails for unknown pairs.
type MockRouteProvider struct {
	mu    sync.Mutex
	m     map[[2]domain.LatLng][]domain.LatLng
	calls int
}

func NewMockRouteProvider(routes []MockRoute) *MockRouteProvider {
	m := make(map[[2]domain.LatLng][]domain.LatLng, len(routes))
	for _, r := range routes {
		m[[2]domain.LatLng{r.From, r.To}] = r.Points
	}
	return &MockRouteProvider{m: m}
}

func (p *MockRouteProvider) Route(ctx context.Context, origin, destination domain.LatLng) ([]domain.LatLng, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pts, ok := p.m[[2]domain.LatLng{origin, destination}]
	if !ok {
		return nil, fmt.Errorf("missing route %v -> %v", origin, destination)
	}
	return append([]domain.LatLng(nil), pts...), nil
}

// Calls reports how many Route calls were made.
func (p *MockRouteProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}
