package ports

import "aed-dispatch-service/internal/domain"

type MarkerKind string

const (
	MarkerUser    MarkerKind = "user"
	MarkerDrone   MarkerKind = "drone"
	MarkerStation MarkerKind = "station"
	MarkerAlert   MarkerKind = "alert"
	MarkerAED     MarkerKind = "aed"
)

// Marker is an inert description of a map marker. Icon names are opaque to the core.
type Marker struct {
	ID       string        `json:"id"`
	Kind     MarkerKind    `json:"kind"`
	Position domain.LatLng `json:"position"`
	Icon     string        `json:"icon,omitempty"`
	Popup    string        `json:"popup,omitempty"`
}

type Polyline struct {
	ID     string          `json:"id"`
	Points []domain.LatLng `json:"points"`
	Color  string          `json:"color"`
	Dashed bool            `json:"dashed"`
}

// Viewport is the initial camera and tile theme of a freshly created map.
type Viewport struct {
	Center domain.LatLng `json:"center"`
	Zoom   int           `json:"zoom"`
	Tiles  string        `json:"tiles"`
}

// MapSurface is the render collaborator. The core only issues commands to it;
// the sole value read back is a marker's current position.
type MapSurface interface {
	// Reset tears the surface down and recreates it with the given viewport.
	Reset(vp Viewport)
	AddMarker(m Marker)
	MoveMarker(id string, pos domain.LatLng)
	SetIcon(id string, icon string)
	RemoveMarker(id string)
	MarkerPosition(id string) (domain.LatLng, bool)
	AddPolyline(p Polyline)
	OpenPopup(id string, html string)
	ClosePopup(id string)
	FlyTo(pos domain.LatLng, zoom int)
	InvalidateSize()
}
