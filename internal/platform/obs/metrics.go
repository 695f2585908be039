package obs

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Route acquisition outcomes.
const (
	RouteRouted   = "routed"
	RouteFallback = "fallback"
	RouteCacheHit = "cache_hit"
)

// Metrics bundles the Prometheus collectors of the dispatch simulator.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	RouteRequests       *prometheus.CounterVec
	Dispatches          prometheus.Counter
	DispatchesCompleted prometheus.Counter
	ActiveAnimations    prometheus.Gauge
	SimulationTicks     prometheus.Counter
}

// NewMetrics registers collectors against reg, defaulting to the global
// registry when reg is nil. Already registered collectors are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	routes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "aed_route_requests_total",
		Help: "Route acquisitions per leg, labeled by outcome (routed, fallback, cache_hit).",
	}, []string{"outcome"})
	if err := register(reg, &routes); err != nil {
		return nil, err
	}

	dispatches := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "aed_dispatches_total",
		Help: "Drone dispatches started.",
	})
	if err := register(reg, &dispatches); err != nil {
		return nil, err
	}

	completed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "aed_dispatches_completed_total",
		Help: "Drone dispatches whose animation reached the incident.",
	})
	if err := register(reg, &completed); err != nil {
		return nil, err
	}

	active := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "aed_active_animations",
		Help: "Dispatch animations currently running.",
	})
	if err := register(reg, &active); err != nil {
		return nil, err
	}

	ticks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "aed_simulation_ticks_total",
		Help: "Delivery progress simulator ticks.",
	})
	if err := register(reg, &ticks); err != nil {
		return nil, err
	}

	return &Metrics{
		gatherer:            gatherer,
		RouteRequests:       routes,
		Dispatches:          dispatches,
		DispatchesCompleted: completed,
		ActiveAnimations:    active,
		SimulationTicks:     ticks,
	}, nil
}

// register registers *c, swapping in the existing collector on a duplicate.
func register[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("register metrics: existing collector has unexpected type %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("register metrics: %w", err)
	}
	return nil
}

// Handler serves the registry the metrics were registered against.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) RouteOutcome(outcome string) {
	if m == nil {
		return
	}
	m.RouteRequests.WithLabelValues(outcome).Inc()
}

func (m *Metrics) DispatchStarted() {
	if m == nil {
		return
	}
	m.Dispatches.Inc()
	m.ActiveAnimations.Inc()
}

// DispatchEnded records the end of an animation, completed or cancelled.
func (m *Metrics) DispatchEnded(completed bool) {
	if m == nil {
		return
	}
	m.ActiveAnimations.Dec()
	if completed {
		m.DispatchesCompleted.Inc()
	}
}

func (m *Metrics) SimulationTick() {
	if m == nil {
		return
	}
	m.SimulationTicks.Inc()
}
