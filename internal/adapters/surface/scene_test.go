package surface

import (
	"aed-dispatch-service/internal/domain"
	"aed-dispatch-service/internal/ports"
	"testing"
)

var chengdu = ports.Viewport{Center: domain.LatLng{Lat: 30.6586, Lng: 104.0647}, Zoom: 11, Tiles: "dark"}

func TestSceneTracksMarkers(t *testing.T) {
	s := NewScene()
	s.Reset(chengdu)

	s.AddMarker(ports.Marker{ID: "drone-1", Kind: ports.MarkerDrone, Position: domain.LatLng{Lat: 1, Lng: 1}})
	s.AddMarker(ports.Marker{ID: "alert-1", Kind: ports.MarkerAlert})
	s.MoveMarker("drone-1", domain.LatLng{Lat: 2, Lng: 3})
	s.SetIcon("drone-1", "drone-aed")

	pos, ok := s.MarkerPosition("drone-1")
	if !ok || pos != (domain.LatLng{Lat: 2, Lng: 3}) {
		t.Fatalf("position = %v ok=%v", pos, ok)
	}

	snap := s.Snapshot()
	if len(snap.Markers) != 2 || snap.Markers[0].ID != "drone-1" {
		t.Fatalf("markers = %+v", snap.Markers)
	}
	if snap.Markers[0].Icon != "drone-aed" {
		t.Fatalf("icon = %q", snap.Markers[0].Icon)
	}

	s.RemoveMarker("drone-1")
	if _, ok := s.MarkerPosition("drone-1"); ok {
		t.Fatal("removed marker still present")
	}
}

func TestSceneIgnoresUnknownMarkers(t *testing.T) {
	s := NewScene()
	_, events, cancel := s.Subscribe(8)
	defer cancel()

	s.MoveMarker("ghost", domain.LatLng{Lat: 1, Lng: 1})
	s.SetIcon("ghost", "x")
	s.OpenPopup("ghost", "<b>hi</b>")
	s.ClosePopup("ghost")
	s.RemoveMarker("ghost")

	select {
	case ev := <-events:
		t.Fatalf("unexpected event %+v", ev)
	default:
	}
}

func TestSceneResetClearsEverything(t *testing.T) {
	s := NewScene()
	s.AddMarker(ports.Marker{ID: "user", Kind: ports.MarkerUser})
	s.AddPolyline(ports.Polyline{ID: "leg", Points: []domain.LatLng{{}, {Lat: 1}}})
	s.OpenPopup("user", "here")

	s.Reset(chengdu)

	snap := s.Snapshot()
	if len(snap.Markers) != 0 || len(snap.Polylines) != 0 || len(snap.Popups) != 0 {
		t.Fatalf("scene not cleared: %+v", snap)
	}
	if snap.Camera.Zoom != 11 || snap.Viewport.Tiles != "dark" {
		t.Fatalf("viewport = %+v camera = %+v", snap.Viewport, snap.Camera)
	}
}

func TestSceneSubscribeOrdersEvents(t *testing.T) {
	s := NewScene()
	s.AddMarker(ports.Marker{ID: "user"})

	snap, events, cancel := s.Subscribe(8)
	defer cancel()
	if len(snap.Markers) != 1 {
		t.Fatalf("snapshot markers = %d, want 1", len(snap.Markers))
	}

	s.FlyTo(domain.LatLng{Lat: 30.658, Lng: 104.065}, 16)
	s.InvalidateSize()

	first, second := <-events, <-events
	if first.Type != EventFlyTo || first.Zoom != 16 {
		t.Fatalf("first = %+v", first)
	}
	if second.Type != EventSizeInvalidated || second.Seq != first.Seq+1 {
		t.Fatalf("second = %+v", second)
	}
	if first.Seq != snap.Seq+1 {
		t.Fatalf("first seq = %d, want %d", first.Seq, snap.Seq+1)
	}
	if s.Snapshot().SizeEpoch != 1 {
		t.Fatal("size epoch not bumped")
	}
}

func TestSceneDropsSlowSubscriber(t *testing.T) {
	s := NewScene()
	_, events, cancel := s.Subscribe(1)
	defer cancel()

	s.InvalidateSize()
	s.InvalidateSize()

	<-events
	if _, ok := <-events; ok {
		t.Fatal("expected channel closed after overflow")
	}
	if n := s.Subscribers(); n != 0 {
		t.Fatalf("subscribers = %d, want 0", n)
	}
}

func TestSceneCloseDisconnectsSubscribers(t *testing.T) {
	s := NewScene()
	_, events, cancel := s.Subscribe(4)
	s.Close()
	cancel()

	if _, ok := <-events; ok {
		t.Fatal("expected closed channel")
	}

	_, late, _ := s.Subscribe(4)
	if _, ok := <-late; ok {
		t.Fatal("subscription after Close should be closed")
	}
}
