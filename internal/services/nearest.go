package services

import (
	"aed-dispatch-service/internal/domain"
	"errors"
	"math"
)

// NearestStation picks the station closest to target by great-circle distance.
// Ties are broken by name so the choice is deterministic.
func NearestStation(target domain.LatLng, stations []domain.Station) (domain.Station, error) {
	if len(stations) == 0 {
		return domain.Station{}, errors.New("nearest station: no stations")
	}

	best := -1
	bestKm := math.Inf(1)
	for i, s := range stations {
		km := domain.HaversineKm(target, s.Location)
		if km < bestKm || (km == bestKm && s.Name < stations[best].Name) {
			best, bestKm = i, km
		}
	}
	return stations[best], nil
}

// NearestAED picks the AED site closest to target, ties broken by name.
func NearestAED(target domain.LatLng, sites []domain.AEDSite) (domain.AEDSite, error) {
	if len(sites) == 0 {
		return domain.AEDSite{}, errors.New("nearest aed: no sites")
	}

	best := -1
	bestKm := math.Inf(1)
	for i, s := range sites {
		km := domain.HaversineKm(target, s.Location)
		if km < bestKm || (km == bestKm && s.Name < sites[best].Name) {
			best, bestKm = i, km
		}
	}
	return sites[best], nil
}
