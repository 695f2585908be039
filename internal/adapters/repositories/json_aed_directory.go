package repositories

import (
	"aed-dispatch-service/internal/domain"
	"aed-dispatch-service/internal/platform/obs"
	"context"
	"fmt"
	"log"
	"os"
	"sync"
)

// JSONAEDDirectory serves the AED list from a bundled JSON file.
// The file is read once, on first use.
type JSONAEDDirectory struct {
	path string

	once  sync.Once
	sites []domain.AEDSite
	err   error
}

func NewJSONAEDDirectory(path string) *JSONAEDDirectory {
	return &JSONAEDDirectory{path: path}
}

func (d *JSONAEDDirectory) ListAEDs(ctx context.Context) (_ []domain.AEDSite, err error) {
	defer obs.Time(ctx, "aeds.json.List")(&err)

	d.once.Do(func() {
		raw, err := os.ReadFile(d.path)
		if err != nil {
			d.err = fmt.Errorf("list aeds: read %q: %w", d.path, err)
			return
		}

		sites, dropped, err := parseAEDs(raw)
		if err != nil {
			d.err = fmt.Errorf("list aeds: %w", err)
			return
		}
		if dropped > 0 {
			log.Printf("aed directory path=%s dropped=%d reason=missing_coordinates", d.path, dropped)
		}
		d.sites = sites
	})

	if d.err != nil {
		return nil, d.err
	}
	return append([]domain.AEDSite(nil), d.sites...), nil
}
