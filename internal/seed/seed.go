// Package seed holds the demo fixtures of the Chengdu deployment.
package seed

import (
	"aed-dispatch-service/internal/domain"
	"time"
)

var (
	// UserLocation is where the user view's delivery ends.
	UserLocation = domain.LatLng{Lat: 30.6570, Lng: 104.0665}
	// NearbyStation is where the user view's drone starts.
	NearbyStation = domain.LatLng{Lat: 30.6700, Lng: 104.0750}

	// Depot and PickupAED are the fixed dispatch endpoints of the admin demo.
	Depot     = domain.LatLng{Lat: 30.678, Lng: 103.962}
	PickupAED = domain.LatLng{Lat: 30.670, Lng: 104.000}

	// CityCenter centres the admin map.
	CityCenter = domain.LatLng{Lat: 30.6570, Lng: 104.0665}
)

var initialStats = domain.Stats{
	DronesAvailable: 42,
	DronesTotal:     50,
	AEDsAvailable:   156,
	AEDsTotal:       160,
}

// Alerts returns the open emergency alerts.
func Alerts() []domain.Alert {
	return []domain.Alert{
		{ID: 1, Location: domain.LatLng{Lat: 30.658, Lng: 104.065}, Label: "天府广场地铁站C口", Description: "突发心脏骤停", Time: "10:42"},
		{ID: 2, Location: domain.LatLng{Lat: 30.628, Lng: 104.075}, Label: "四川大学望江校区", Description: "昏迷倒地", Time: "10:45"},
	}
}

// Stations returns the drone stations with zero drone counts.
func Stations() []domain.Station {
	pts := []struct {
		name     string
		lat, lng float64
	}{
		{"郫都区站点", 30.7958, 103.8674},
		{"郫都区站点 (备用)", 30.8422, 103.9551},
		{"温江区站点", 30.715, 103.856},
		{"温江区站点 (备用)", 30.655, 103.81},
		{"双流区站点", 30.508, 103.918},
		{"双流区站点 (备用)", 30.445, 104.08},
		{"新津区站点", 30.428, 103.888},
		{"天府新区站点", 30.393, 104.118},
		{"天府新区站点 (备用)", 30.25, 104.258},
		{"龙泉驿区站点", 30.603, 104.18},
		{"龙泉驿区站点 (备用)", 30.645, 104.305},
		{"青白江区站点", 30.828, 104.378},
		{"青白江区站点 (备用)", 30.9, 104.3},
		{"新都区站点", 30.82, 104.155},
		{"新都区站点 (备用)", 30.88, 104.25},
		{"青羊区站点", 30.678, 103.962},
		{"青羊区站点 (备用)", 30.665, 104.04},
		{"金牛区站点", 30.725, 104.028},
		{"金牛区站点 (备用)", 30.695, 104.06},
		{"武侯区站点", 30.63, 104.05},
		{"武侯区站点 (备用)", 30.605, 103.98},
	}

	out := make([]domain.Station, 0, len(pts))
	for _, p := range pts {
		out = append(out, domain.Station{Name: p.name, Location: domain.LatLng{Lat: p.lat, Lng: p.lng}})
	}
	return out
}

// DemoTasks returns the tasks already on the board when the service starts.
func DemoTasks(now time.Time) []domain.DispatchTask {
	return []domain.DispatchTask{
		{ID: "101", DroneLabel: "DR-882", Status: domain.TaskEnRouteToIncident, ETAMinutes: 3, DistanceKm: 1.2, CreatedAt: now.Add(-time.Minute)},
		{ID: "102", DroneLabel: "DR-905", Status: domain.TaskReturning, ETAMinutes: 8, DistanceKm: 4.5, CreatedAt: now.Add(-2 * time.Minute)},
	}
}

// InitialStats returns the dashboard counters before the AED directory loads.
func InitialStats() domain.Stats { return initialStats }

// InlineAEDs is the fallback directory used when no data file is available.
func InlineAEDs() []domain.AEDSite {
	return []domain.AEDSite{
		{Name: "天府广场", Address: "青羊区人民南路一段86号", Location: domain.LatLng{Lat: 30.6598, Lng: 104.0657}},
		{Name: "春熙路地铁站", Address: "锦江区春熙路", Location: domain.LatLng{Lat: 30.6558, Lng: 104.0808}},
		{Name: "成都东站", Address: "成华区邛崃山路333号", Location: domain.LatLng{Lat: 30.6285, Lng: 104.1412}},
		{Name: "四川大学华西医院", Address: "武侯区国学巷37号", Location: domain.LatLng{Lat: 30.6421, Lng: 104.0593}},
		{Name: "成都双流国际机场T2", Address: "双流区机场路", Location: domain.LatLng{Lat: 30.5785, Lng: 103.9471}},
	}
}
