package domain

import "math"

const earthRadiusKm = 6371.0

// Immutable geographic coordinates (latitude, longitude).
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Return coordinates as [lng, lat] for external API compatibility.
func (c LatLng) LngLat() []float64 { return []float64{c.Lng, c.Lat} }

// FromLngLat converts a [lng, lat] pair, as returned by routing services,
// into coordinates. The pair must contain exactly two values.
func FromLngLat(pair []float64) (LatLng, bool) {
	if len(pair) != 2 {
		return LatLng{}, false
	}
	return LatLng{Lat: pair[1], Lng: pair[0]}, true
}

// Lerp interpolates componentwise between a and b.
// Lerp(a, b, 0) is a and Lerp(a, b, 1) is b, exactly.
func Lerp(a, b LatLng, t float64) LatLng {
	switch t {
	case 0:
		return a
	case 1:
		return b
	}
	return LatLng{
		Lat: a.Lat + (b.Lat-a.Lat)*t,
		Lng: a.Lng + (b.Lng-a.Lng)*t,
	}
}

// HaversineKm returns the great-circle distance between two points.
func HaversineKm(a, b LatLng) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// PathLengthKm sums the great-circle length of consecutive waypoints.
func PathLengthKm(points []LatLng) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += HaversineKm(points[i-1], points[i])
	}
	return total
}

// StraightLine is the two-point path used whenever no routed path is available.
func StraightLine(from, to LatLng) []LatLng {
	return []LatLng{from, to}
}
