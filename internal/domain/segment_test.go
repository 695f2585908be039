package domain

import (
	"errors"
	"testing"
)

func TestFlattenToSegmentsCount(t *testing.T) {
	for k := 0; k <= 6; k++ {
		points := make([]LatLng, 0, k)
		for i := 0; i < k; i++ {
			points = append(points, LatLng{Lat: float64(i), Lng: float64(-i)})
		}

		segments := FlattenToSegments(points, LegPickup)

		want := k - 1
		if k < 2 {
			want = 0
		}
		if len(segments) != want {
			t.Fatalf("k=%d: got %d segments, want %d", k, len(segments), want)
		}

		for i, s := range segments {
			if s.Start != points[i] || s.End != points[i+1] {
				t.Fatalf("k=%d: segment %d = %v->%v, want %v->%v", k, i, s.Start, s.End, points[i], points[i+1])
			}
			if s.Phase != LegPickup {
				t.Fatalf("k=%d: segment %d phase = %q, want pickup", k, i, s.Phase)
			}
		}
	}
}

func TestBuildSegmentsOrdersPickupFirst(t *testing.T) {
	depot := LatLng{Lat: 30.678, Lng: 103.962}
	mid := LatLng{Lat: 30.675, Lng: 103.980}
	pickup := LatLng{Lat: 30.670, Lng: 104.000}
	incident := LatLng{Lat: 30.658, Lng: 104.065}

	segments := BuildSegments([]LatLng{depot, mid, pickup}, StraightLine(pickup, incident))

	if len(segments) != 3 {
		t.Fatalf("got %d segments, want 3", len(segments))
	}

	wantPhases := []LegPhase{LegPickup, LegPickup, LegDeliver}
	for i, want := range wantPhases {
		if segments[i].Phase != want {
			t.Fatalf("segment %d phase = %q, want %q", i, segments[i].Phase, want)
		}
	}

	if segments[2].Start != pickup || segments[2].End != incident {
		t.Fatalf("deliver segment = %v->%v, want %v->%v", segments[2].Start, segments[2].End, pickup, incident)
	}
}

func TestParseView(t *testing.T) {
	if v, err := ParseView(" Admin "); err != nil || v != ViewAdmin {
		t.Fatalf("ParseView(admin) = %q, %v", v, err)
	}
	if _, err := ParseView("kiosk"); !errors.Is(err, ErrUnknownView) {
		t.Fatalf("ParseView(kiosk) err = %v, want ErrUnknownView", err)
	}
}
