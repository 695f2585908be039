package services

import (
	"aed-dispatch-service/internal/domain"
	"math"
	"testing"
)

func TestAnimationTerminatesInExactSteps(t *testing.T) {
	cases := []struct {
		segments  int
		increment float64
		perSeg    int
	}{
		{1, 0.015, 67},
		{2, 0.015, 67},
		{5, 0.1, 10},
		{3, 0.25, 4},
		{4, 0.3, 4},
	}

	for _, tc := range cases {
		points := make([]domain.LatLng, tc.segments+1)
		for i := range points {
			points[i] = domain.LatLng{Lat: 30 + float64(i)*0.01, Lng: 104}
		}
		anim, err := NewAnimation(domain.FlattenToSegments(points, domain.LegPickup), tc.increment)
		if err != nil {
			t.Fatalf("NewAnimation: %v", err)
		}

		want := tc.segments * tc.perSeg
		if anim.TotalSteps() != want {
			t.Fatalf("segments=%d inc=%v: TotalSteps = %d, want %d", tc.segments, tc.increment, anim.TotalSteps(), want)
		}

		steps := 0
		for !anim.Done() {
			f := anim.Step()
			steps++
			if steps > want {
				t.Fatalf("segments=%d inc=%v: not done after %d steps", tc.segments, tc.increment, steps)
			}
			if f.Done != anim.Done() {
				t.Fatalf("frame Done disagrees with cursor at step %d", steps)
			}
		}
		if steps != want {
			t.Fatalf("segments=%d inc=%v: done after %d steps, want %d", tc.segments, tc.increment, steps, want)
		}
		if got := anim.Step(); !got.Done || got.Position != points[len(points)-1] {
			t.Fatalf("step after done = %+v", got)
		}
	}
}

func TestAnimationEntersDeliverExactlyOnce(t *testing.T) {
	pickupLeg := []domain.LatLng{testDepot, {Lat: 30.675, Lng: 103.98}, testPickup}
	deliverLeg := []domain.LatLng{testPickup, testIncident}

	anim, err := NewAnimation(domain.BuildSegments(pickupLeg, deliverLeg), 0.1)
	if err != nil {
		t.Fatalf("NewAnimation: %v", err)
	}

	entered := 0
	enteredAt := 0
	for step := 1; !anim.Done(); step++ {
		f := anim.Step()
		if f.EnteredDeliver {
			entered++
			enteredAt = step
			if f.Position != testPickup {
				t.Fatalf("crossing position = %v, want pickup %v", f.Position, testPickup)
			}
		}
	}

	if entered != 1 {
		t.Fatalf("EnteredDeliver fired %d times, want 1", entered)
	}
	if enteredAt != 2*10 {
		t.Fatalf("EnteredDeliver at step %d, want 20", enteredAt)
	}
}

func TestAnimationPositionStaysOnSegment(t *testing.T) {
	anim, err := NewAnimation(domain.BuildSegments(
		domain.StraightLine(testDepot, testPickup),
		domain.StraightLine(testPickup, testIncident),
	), 0.015)
	if err != nil {
		t.Fatalf("NewAnimation: %v", err)
	}

	prevLng := testDepot.Lng
	for !anim.Done() {
		f := anim.Step()
		if f.Progress < 0 || f.Progress >= 1 {
			t.Fatalf("progress %v outside [0, 1)", f.Progress)
		}
		// Both legs fly east, so longitude never decreases.
		if f.Position.Lng < prevLng-1e-12 {
			t.Fatalf("longitude went back from %v to %v", prevLng, f.Position.Lng)
		}
		prevLng = f.Position.Lng
	}
	if prevLng != testIncident.Lng {
		t.Fatalf("final longitude %v, want %v", prevLng, testIncident.Lng)
	}
}

func TestAnimationRemaining(t *testing.T) {
	anim, _ := NewAnimation(domain.BuildSegments(
		domain.StraightLine(testDepot, testPickup),
		domain.StraightLine(testPickup, testIncident),
	), 0.25)

	if anim.Remaining() != 1 {
		t.Fatalf("Remaining at start = %v", anim.Remaining())
	}
	for i := 0; i < 4; i++ {
		anim.Step()
	}
	if math.Abs(anim.Remaining()-0.5) > 1e-12 {
		t.Fatalf("Remaining after first segment = %v, want 0.5", anim.Remaining())
	}
}

func TestNewAnimationRejectsBadInput(t *testing.T) {
	seg := domain.BuildSegments(domain.StraightLine(testDepot, testPickup), nil)

	if _, err := NewAnimation(nil, 0.1); err == nil {
		t.Fatal("expected error for no segments")
	}
	for _, inc := range []float64{0, -0.1, 1, 1.5} {
		if _, err := NewAnimation(seg, inc); err == nil {
			t.Fatalf("expected error for increment %v", inc)
		}
	}
}
