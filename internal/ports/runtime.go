package ports

import "time"

// Clock abstracts timers so ticker-driven loops can be stepped by tests.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
	AfterFunc(d time.Duration, f func()) Timer
}

type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type Timer interface {
	Stop() bool
}

// Random supplies placeholder values (drone counts, labels, throttling).
type Random interface {
	// Return a value in [0, n).
	Intn(n int) int
	// Return a value in [0, 1).
	Float64() float64
}
