package repositories

import (
	"aed-dispatch-service/internal/domain"
	"encoding/json"
	"fmt"
	"strings"
)

// aedRecord is one entry of the bundled AED export. Coordinates may be absent.
type aedRecord struct {
	Name    string   `json:"name"`
	Address string   `json:"address"`
	Lng     *float64 `json:"lng"`
	Lat     *float64 `json:"lat"`
}

// parseAEDs decodes an AED export, dropping entries without both coordinates.
func parseAEDs(raw []byte) ([]domain.AEDSite, int, error) {
	var records []aedRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, 0, fmt.Errorf("parse aed json: %w", err)
	}

	sites := make([]domain.AEDSite, 0, len(records))
	dropped := 0
	for _, r := range records {
		if r.Lat == nil || r.Lng == nil {
			dropped++
			continue
		}
		sites = append(sites, domain.AEDSite{
			Name:     strings.TrimSpace(r.Name),
			Address:  strings.TrimSpace(r.Address),
			Location: domain.LatLng{Lat: *r.Lat, Lng: *r.Lng},
		})
	}
	return sites, dropped, nil
}
