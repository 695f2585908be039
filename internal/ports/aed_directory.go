package ports

import (
	"aed-dispatch-service/internal/domain"
	"context"
)

// Port: a read-only, ordered source of AED pickup points.
type AEDDirectory interface {
	ListAEDs(ctx context.Context) ([]domain.AEDSite, error)
}
