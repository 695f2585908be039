package clock

import (
	"aed-dispatch-service/internal/ports"
	"sync"
	"time"
)

// Real is the wall clock backed by package time.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

func (Real) NewTicker(d time.Duration) ports.Ticker {
	return &realTicker{t: time.NewTicker(d)}
}

func (Real) AfterFunc(d time.Duration, f func()) ports.Timer {
	return time.AfterFunc(d, f)
}

type realTicker struct{ t *time.Ticker }

func (r *realTicker) C() <-chan time.Time { return r.t.C }
func (r *realTicker) Stop()               { r.t.Stop() }

// Manual is a clock driven explicitly by the caller.
//
// Ticks are delivered synchronously: Tick blocks until every live ticker has
// received its tick, so a loop reading from the ticker has consumed it by the
// time the next Tick starts. Timers fire only on FireTimers.
type Manual struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*manualTicker
	timers  []*manualTimer
}

func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) NewTicker(d time.Duration) ports.Ticker {
	t := &manualTicker{
		period:  d,
		c:       make(chan time.Time),
		stopped: make(chan struct{}),
	}

	m.mu.Lock()
	m.tickers = append(m.tickers, t)
	m.mu.Unlock()
	return t
}

func (m *Manual) AfterFunc(d time.Duration, f func()) ports.Timer {
	t := &manualTimer{f: f}

	m.mu.Lock()
	m.timers = append(m.pendingTimers(), t)
	m.mu.Unlock()
	return t
}

// pendingTimers drops fired or stopped timers. Caller holds m.mu.
func (m *Manual) pendingTimers() []*manualTimer {
	live := m.timers[:0]
	for _, t := range m.timers {
		if !t.done() {
			live = append(live, t)
		}
	}
	return live
}

// Tick delivers one tick to every live ticker and returns how many received it.
// A ticker that is neither read nor stopped within wait is skipped.
func (m *Manual) Tick(wait time.Duration) int {
	m.mu.Lock()
	live := make([]*manualTicker, 0, len(m.tickers))
	for _, t := range m.tickers {
		select {
		case <-t.stopped:
		default:
			live = append(live, t)
		}
	}
	m.tickers = live
	if len(live) > 0 {
		m.now = m.now.Add(live[0].period)
	}
	now := m.now
	m.mu.Unlock()

	delivered := 0
	for _, t := range live {
		timeout := time.NewTimer(wait)
		select {
		case t.c <- now:
			delivered++
		case <-t.stopped:
		case <-timeout.C:
		}
		timeout.Stop()
	}
	return delivered
}

// LiveTickers reports tickers that have not been stopped.
func (m *Manual) LiveTickers() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, t := range m.tickers {
		select {
		case <-t.stopped:
		default:
			n++
		}
	}
	return n
}

// FireTimers runs every pending timer callback synchronously.
func (m *Manual) FireTimers() int {
	m.mu.Lock()
	pending := m.pendingTimers()
	m.timers = nil
	m.mu.Unlock()

	fired := 0
	for _, t := range pending {
		if t.fire() {
			fired++
		}
	}
	return fired
}

type manualTicker struct {
	period   time.Duration
	c        chan time.Time
	stopped  chan struct{}
	stopOnce sync.Once
}

func (t *manualTicker) C() <-chan time.Time { return t.c }

func (t *manualTicker) Stop() {
	t.stopOnce.Do(func() { close(t.stopped) })
}

type manualTimer struct {
	mu      sync.Mutex
	f       func()
	fired   bool
	stopped bool
}

func (t *manualTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

func (t *manualTimer) done() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fired || t.stopped
}

func (t *manualTimer) fire() bool {
	t.mu.Lock()
	if t.fired || t.stopped {
		t.mu.Unlock()
		return false
	}
	t.fired = true
	f := t.f
	t.mu.Unlock()

	f()
	return true
}
