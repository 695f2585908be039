package services

import (
	"aed-dispatch-service/internal/domain"
	"aed-dispatch-service/internal/platform/obs"
	"aed-dispatch-service/internal/ports"
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

type SimulatorConfig struct {
	InitialETA int
	TickPeriod time.Duration
	// Fraction of the remaining distance covered per tick.
	Interpolation float64
	// Phase thresholds, as ETA minutes below the initial value.
	PickedUpOffset   int
	DeliveringOffset int
	RecycleDelay     time.Duration
	Destination      domain.LatLng
	MarkerID         string
}

func DefaultSimulatorConfig() SimulatorConfig {
	return SimulatorConfig{
		InitialETA:       12,
		TickPeriod:       time.Second,
		Interpolation:    0.1,
		PickedUpOffset:   2,
		DeliveringOffset: 4,
		RecycleDelay:     3 * time.Second,
		MarkerID:         "drone",
	}
}

var statusTexts = [...]string{
	domain.PhaseDispatching: "Drone is heading to the AED station for pickup",
	domain.PhasePickedUp:    "AED picked up, flying to your location",
	domain.PhaseDelivering:  "Drone arriving soon, please keep your phone available",
	domain.PhaseArrived:     "AED delivered, please retrieve it now!",
}

// DeliverySimulator drives the user-facing delivery narrative: a countdown
// that nudges the drone marker toward the user and advances the phase.
type DeliverySimulator struct {
	cfg     SimulatorConfig
	surface ports.MapSurface
	clock   ports.Clock
	metrics *obs.Metrics

	mu      sync.Mutex
	state   domain.DeliveryState
	initial int
	started bool
	gen     uint64
	cancel  context.CancelFunc
	done    chan struct{}
	recycle ports.Timer
}

func NewDeliverySimulator(cfg SimulatorConfig, surface ports.MapSurface, clock ports.Clock, metrics *obs.Metrics) *DeliverySimulator {
	def := DefaultSimulatorConfig()
	if cfg.TickPeriod <= 0 {
		cfg.TickPeriod = def.TickPeriod
	}
	if cfg.Interpolation <= 0 || cfg.Interpolation > 1 {
		cfg.Interpolation = def.Interpolation
	}
	if cfg.MarkerID == "" {
		cfg.MarkerID = def.MarkerID
	}

	return &DeliverySimulator{
		cfg:     cfg,
		surface: surface,
		clock:   clock,
		metrics: metrics,
	}
}

// Start resets the delivery and launches the tick loop, replacing any live run.
// ctx bounds the run; it is checked before every tick.
func (s *DeliverySimulator) Start(ctx context.Context, initialETA int, tickPeriod time.Duration) error {
	if initialETA < 0 {
		return fmt.Errorf("start simulation: negative initial eta %d", initialETA)
	}
	if tickPeriod <= 0 {
		tickPeriod = s.cfg.TickPeriod
	}

	s.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.recycle != nil {
		s.recycle.Stop()
		s.recycle = nil
	}

	s.gen++
	s.state = domain.DeliveryState{Phase: domain.PhaseDispatching, ETAMinutes: initialETA}
	s.initial = initialETA
	s.started = true

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	ticker := s.clock.NewTicker(tickPeriod)
	go s.run(runCtx, s.gen, ticker, done)

	log.Printf("op=simulator.Start eta=%d tick=%s", initialETA, tickPeriod)
	return nil
}

func (s *DeliverySimulator) run(ctx context.Context, gen uint64, ticker ports.Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			if ctx.Err() != nil {
				return
			}
			if !s.step(gen) {
				return
			}
		}
	}
}

// Step performs one tick of the current run and reports whether the run is
// still live. Once Arrived it has no effect.
func (s *DeliverySimulator) Step() bool {
	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()
	return s.step(gen)
}

func (s *DeliverySimulator) step(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen || !s.started {
		return false
	}
	if s.state.Phase == domain.PhaseArrived {
		return false
	}

	if s.state.ETAMinutes <= 0 {
		s.state.Phase = domain.PhaseArrived
		log.Printf("op=simulator.Arrived")
		return false
	}

	s.state.ETAMinutes--
	s.metrics.SimulationTick()

	// The marker is absent when the view was torn down mid-run.
	if cur, ok := s.surface.MarkerPosition(s.cfg.MarkerID); ok {
		s.surface.MoveMarker(s.cfg.MarkerID, domain.Lerp(cur, s.cfg.Destination, s.cfg.Interpolation))
	}

	if s.state.Phase == domain.PhaseDispatching && s.state.ETAMinutes <= s.initial-s.cfg.PickedUpOffset {
		s.state.Phase = domain.PhasePickedUp
	}
	if s.state.Phase == domain.PhasePickedUp && s.state.ETAMinutes <= s.initial-s.cfg.DeliveringOffset {
		s.state.Phase = domain.PhaseDelivering
	}

	return true
}

// Stop cancels the live run and waits for its loop to exit. No-op when idle.
func (s *DeliverySimulator) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Reset stops the run and forgets it, so Recycle becomes a no-op again.
func (s *DeliverySimulator) Reset() {
	s.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recycle != nil {
		s.recycle.Stop()
		s.recycle = nil
	}
	s.gen++
	s.started = false
	s.state = domain.DeliveryState{}
}

// Running reports whether a tick loop is live.
func (s *DeliverySimulator) Running() bool {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	if done == nil {
		return false
	}
	select {
	case <-done:
		return false
	default:
		return true
	}
}

func (s *DeliverySimulator) State() domain.DeliveryState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Started reports whether any run has begun since the last Reset.
func (s *DeliverySimulator) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// Recycle moves the equipment return from NotRecycled to AwaitingPickup and,
// after the configured delay, to Recycled. It returns whether the request was
// accepted; declined or premature requests change nothing.
func (s *DeliverySimulator) Recycle(ctx context.Context, confirmed bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !confirmed || !s.started || s.state.RecycleStage != domain.RecycleNone {
		return false
	}

	s.state.RecycleStage = domain.RecycleAwaitingPickup
	gen := s.gen
	s.recycle = s.clock.AfterFunc(s.cfg.RecycleDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if gen != s.gen || s.state.RecycleStage != domain.RecycleAwaitingPickup {
			return
		}
		s.state.RecycleStage = domain.RecycleDone
		s.state.Recycled = true
		s.recycle = nil
		log.Printf("op=simulator.Recycled")
	})

	log.Printf("req_id=%s op=simulator.Recycle stage=%s", obs.RequestID(ctx), s.state.RecycleStage)
	return true
}

// ProgressPercent maps the phase onto 0, 33.3, 66.7 and 100.
func (s *DeliverySimulator) ProgressPercent() float64 {
	return float64(s.State().Phase) / float64(domain.PhaseArrived) * 100
}

func (s *DeliverySimulator) StatusText() string {
	p := s.State().Phase
	if int(p) < 0 || int(p) >= len(statusTexts) {
		return "Processing..."
	}
	return statusTexts[p]
}
