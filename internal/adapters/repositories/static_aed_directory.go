package repositories

import (
	"aed-dispatch-service/internal/domain"
	"context"
)

// StaticAEDDirectory serves a fixed in-memory AED list.
type StaticAEDDirectory struct {
	sites []domain.AEDSite
}

func NewStaticAEDDirectory(sites []domain.AEDSite) *StaticAEDDirectory {
	return &StaticAEDDirectory{sites: append([]domain.AEDSite(nil), sites...)}
}

func (d *StaticAEDDirectory) ListAEDs(ctx context.Context) ([]domain.AEDSite, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]domain.AEDSite(nil), d.sites...), nil
}
