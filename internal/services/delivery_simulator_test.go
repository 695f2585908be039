package services

import (
	"aed-dispatch-service/internal/adapters/surface"
	"aed-dispatch-service/internal/domain"
	"aed-dispatch-service/internal/platform/clock"
	"aed-dispatch-service/internal/ports"
	"context"
	"testing"
	"time"
)

var (
	userLoc    = domain.LatLng{Lat: 30.6570, Lng: 104.0665}
	droneStart = domain.LatLng{Lat: 30.6700, Lng: 104.0750}
)

func newTestSimulator(t *testing.T) (*DeliverySimulator, *surface.Scene, *clock.Manual) {
	t.Helper()
	scene := surface.NewScene()
	scene.AddMarker(ports.Marker{ID: "drone", Kind: ports.MarkerDrone, Position: droneStart})
	clk := newManualClock()

	cfg := DefaultSimulatorConfig()
	cfg.Destination = userLoc
	sim := NewDeliverySimulator(cfg, scene, clk, nil)
	t.Cleanup(sim.Stop)
	return sim, scene, clk
}

func TestSimulatorStartTwelveScenario(t *testing.T) {
	sim, _, _ := newTestSimulator(t)
	if err := sim.Start(context.Background(), 12, time.Second); err != nil {
		t.Fatalf("Start: %v", err)
	}

	want := []struct {
		eta   int
		phase domain.DeliveryPhase
	}{
		{11, domain.PhaseDispatching},
		{10, domain.PhasePickedUp},
		{9, domain.PhasePickedUp},
		{8, domain.PhaseDelivering},
	}
	for i, w := range want {
		sim.Step()
		st := sim.State()
		if st.ETAMinutes != w.eta || st.Phase != w.phase {
			t.Fatalf("after tick %d: eta=%d phase=%s, want eta=%d phase=%s", i+1, st.ETAMinutes, st.Phase, w.eta, w.phase)
		}
	}
}

func TestSimulatorEtaAndPhaseProperties(t *testing.T) {
	for _, initial := range []int{0, 1, 2, 3, 4, 5, 12} {
		sim, _, _ := newTestSimulator(t)
		if err := sim.Start(context.Background(), initial, time.Second); err != nil {
			t.Fatalf("Start: %v", err)
		}

		prev := sim.State().Phase
		for n := 1; n <= initial+3; n++ {
			live := sim.Step()
			st := sim.State()

			wantETA := initial - n
			if wantETA < 0 {
				wantETA = 0
			}
			if st.ETAMinutes != wantETA {
				t.Fatalf("E=%d n=%d: eta=%d, want %d", initial, n, st.ETAMinutes, wantETA)
			}
			if st.Phase < prev {
				t.Fatalf("E=%d n=%d: phase regressed %s -> %s", initial, n, prev, st.Phase)
			}
			prev = st.Phase

			arrived := st.Phase == domain.PhaseArrived
			if arrived && st.ETAMinutes != 0 {
				t.Fatalf("E=%d n=%d: arrived with eta %d", initial, n, st.ETAMinutes)
			}
			if arrived != (n > initial) {
				t.Fatalf("E=%d n=%d: arrived=%v", initial, n, arrived)
			}
			if live == arrived {
				t.Fatalf("E=%d n=%d: Step reported live=%v in phase %s", initial, n, live, st.Phase)
			}
		}
	}
}

func TestSimulatorMovesMarkerTowardDestination(t *testing.T) {
	sim, scene, _ := newTestSimulator(t)
	_ = sim.Start(context.Background(), 12, time.Second)

	sim.Step()
	got, _ := scene.MarkerPosition("drone")
	if want := domain.Lerp(droneStart, userLoc, 0.1); got != want {
		t.Fatalf("after one tick marker at %v, want %v", got, want)
	}

	for i := 0; i < 11; i++ {
		sim.Step()
	}
	end, _ := scene.MarkerPosition("drone")
	if domain.HaversineKm(end, userLoc) >= domain.HaversineKm(got, userLoc) {
		t.Fatal("marker did not keep approaching the user")
	}
}

func TestSimulatorLoopStopsAtArrival(t *testing.T) {
	sim, _, clk := newTestSimulator(t)
	_ = sim.Start(context.Background(), 3, time.Second)

	tickN(t, clk, 4)

	eventually(t, "arrival", func() bool { return sim.State().Phase == domain.PhaseArrived })
	eventually(t, "loop exit", func() bool { return !sim.Running() })

	if n := clk.LiveTickers(); n != 0 {
		t.Fatalf("live tickers after arrival = %d, want 0", n)
	}
	if n := clk.Tick(10 * time.Millisecond); n != 0 {
		t.Fatalf("tick after arrival delivered to %d tickers", n)
	}
	if st := sim.State(); st.ETAMinutes != 0 || st.Phase != domain.PhaseArrived {
		t.Fatalf("state changed after arrival: %+v", st)
	}
}

func TestSimulatorRestartCancelsPreviousRun(t *testing.T) {
	sim, _, clk := newTestSimulator(t)
	_ = sim.Start(context.Background(), 12, time.Second)
	sim.Step()
	sim.Step()

	_ = sim.Start(context.Background(), 12, time.Second)
	st := sim.State()
	if st.ETAMinutes != 12 || st.Phase != domain.PhaseDispatching || st.Recycled {
		t.Fatalf("restart did not reset: %+v", st)
	}
	if n := clk.LiveTickers(); n != 1 {
		t.Fatalf("live tickers after restart = %d, want 1", n)
	}
}

func TestSimulatorStopIsIdempotent(t *testing.T) {
	sim, _, clk := newTestSimulator(t)
	sim.Stop()

	_ = sim.Start(context.Background(), 12, time.Second)
	sim.Stop()
	sim.Stop()

	if sim.Running() {
		t.Fatal("simulator still running after Stop")
	}
	if n := clk.LiveTickers(); n != 0 {
		t.Fatalf("live tickers after Stop = %d, want 0", n)
	}
}

func TestSimulatorContextCancellationStopsLoop(t *testing.T) {
	sim, _, _ := newTestSimulator(t)
	ctx, cancel := context.WithCancel(context.Background())
	_ = sim.Start(ctx, 12, time.Second)

	cancel()
	eventually(t, "loop exit", func() bool { return !sim.Running() })
}

func TestSimulatorRecycle(t *testing.T) {
	sim, _, clk := newTestSimulator(t)
	ctx := context.Background()

	if sim.Recycle(ctx, true) {
		t.Fatal("recycle accepted before any simulation started")
	}

	_ = sim.Start(ctx, 12, time.Second)

	if sim.Recycle(ctx, false) {
		t.Fatal("declined recycle was accepted")
	}
	if st := sim.State(); st.RecycleStage != domain.RecycleNone {
		t.Fatalf("declined recycle changed stage to %s", st.RecycleStage)
	}

	if !sim.Recycle(ctx, true) {
		t.Fatal("confirmed recycle was rejected")
	}
	if st := sim.State(); st.RecycleStage != domain.RecycleAwaitingPickup || st.Recycled {
		t.Fatalf("after confirm: %+v", st)
	}
	if sim.Recycle(ctx, true) {
		t.Fatal("second recycle accepted while awaiting pickup")
	}

	if n := clk.FireTimers(); n != 1 {
		t.Fatalf("FireTimers = %d, want 1", n)
	}
	if st := sim.State(); st.RecycleStage != domain.RecycleDone || !st.Recycled {
		t.Fatalf("after delay: %+v", st)
	}
}

func TestSimulatorRestartDropsPendingRecycle(t *testing.T) {
	sim, _, clk := newTestSimulator(t)
	ctx := context.Background()

	_ = sim.Start(ctx, 12, time.Second)
	sim.Recycle(ctx, true)
	_ = sim.Start(ctx, 12, time.Second)

	clk.FireTimers()
	if st := sim.State(); st.Recycled || st.RecycleStage != domain.RecycleNone {
		t.Fatalf("stale recycle applied after restart: %+v", st)
	}
}

func TestSimulatorProgressAndStatus(t *testing.T) {
	sim, _, _ := newTestSimulator(t)
	if sim.ProgressPercent() != 0 {
		t.Fatalf("initial progress = %v", sim.ProgressPercent())
	}

	_ = sim.Start(context.Background(), 0, time.Second)
	sim.Step()

	if sim.ProgressPercent() != 100 {
		t.Fatalf("arrived progress = %v, want 100", sim.ProgressPercent())
	}
	if sim.StatusText() != "AED delivered, please retrieve it now!" {
		t.Fatalf("status = %q", sim.StatusText())
	}
}
