package services

import (
	"aed-dispatch-service/internal/adapters/surface"
	"aed-dispatch-service/internal/domain"
	"aed-dispatch-service/internal/platform/clock"
	"aed-dispatch-service/internal/ports"
	"testing"
	"time"
)

var (
	testDepot    = domain.LatLng{Lat: 30.678, Lng: 103.962}
	testPickup   = domain.LatLng{Lat: 30.670, Lng: 104.000}
	testIncident = domain.LatLng{Lat: 30.658, Lng: 104.065}
	testAlert    = domain.Alert{ID: 1, Location: testIncident, Label: "Tianfu Square Exit C", Description: "cardiac arrest", Time: "10:42"}
)

func newManualClock() *clock.Manual {
	return clock.NewManual(time.Date(2026, 1, 1, 10, 42, 0, 0, time.UTC))
}

// eventually polls cond until it holds or two seconds pass.
func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

// tickN delivers n ticks and fails if any was not consumed.
func tickN(t *testing.T, c *clock.Manual, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if got := c.Tick(time.Second); got != 1 {
			t.Fatalf("tick %d delivered to %d tickers, want 1", i+1, got)
		}
	}
}

func markerByID(scene *surface.Scene, id string) (ports.Marker, bool) {
	for _, m := range scene.Snapshot().Markers {
		if m.ID == id {
			return m, true
		}
	}
	return ports.Marker{}, false
}

func countMarkers(scene *surface.Scene, kind ports.MarkerKind) int {
	n := 0
	for _, m := range scene.Snapshot().Markers {
		if m.Kind == kind {
			n++
		}
	}
	return n
}
