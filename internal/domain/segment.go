package domain

// LegPhase tags which leg of a dispatch a segment belongs to.
type LegPhase string

const (
	LegPickup  LegPhase = "pickup"
	LegDeliver LegPhase = "deliver"
)

// Represents a single straight sub-path between two consecutive waypoints of a leg.
// Segments are derived per dispatch and owned by the animation that consumes them.
type PathSegment struct {
	Start LatLng
	End   LatLng
	Phase LegPhase
}

// FlattenToSegments pairs consecutive waypoints into segments tagged with phase.
// A path of k waypoints yields exactly k-1 segments in the same order.
func FlattenToSegments(points []LatLng, phase LegPhase) []PathSegment {
	if len(points) < 2 {
		return []PathSegment{}
	}

	segments := make([]PathSegment, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		segments = append(segments, PathSegment{
			Start: points[i-1],
			End:   points[i],
			Phase: phase,
		})
	}
	return segments
}

// BuildSegments flattens both legs of a dispatch, pickup segments first.
func BuildSegments(pickupLeg, deliverLeg []LatLng) []PathSegment {
	pickup := FlattenToSegments(pickupLeg, LegPickup)
	deliver := FlattenToSegments(deliverLeg, LegDeliver)

	out := make([]PathSegment, 0, len(pickup)+len(deliver))
	out = append(out, pickup...)
	out = append(out, deliver...)
	return out
}
