package domain

// Represents an emergency incident reported to the dispatcher. Read-only seed data.
type Alert struct {
	ID          int
	Location    LatLng
	Label       string
	Description string
	Time        string
}

// A drone station. DroneCount is a placeholder filled when the admin view loads.
type Station struct {
	Name       string
	Location   LatLng
	DroneCount int
}

// An AED pickup point from the directory.
type AEDSite struct {
	Name     string
	Address  string
	Location LatLng
}

// Fleet and equipment counters shown on the dispatcher dashboard.
type Stats struct {
	DronesAvailable int
	DronesTotal     int
	AEDsAvailable   int
	AEDsTotal       int
}
