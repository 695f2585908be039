package random

import (
	"sync"
	"time"

	"github.com/MichaelTJones/pcg"
)

// Source is a goroutine-safe pseudo-random generator.
// A zero seed picks a time-based seed.
type Source struct {
	mu sync.Mutex
	r  *pcg.PCG32
}

func New(seed int64) *Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r := pcg.NewPCG32()
	r.Seed(uint64(seed), 0xda3e39cb94b95bdb)
	return &Source{r: r}
}

func (s *Source) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return int(s.r.Bounded(uint32(n)))
}

func (s *Source) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return float64(s.r.Random()) / (1 << 32)
}

// Sequence replays fixed values, cycling when exhausted. Intended for tests.
type Sequence struct {
	mu     sync.Mutex
	Ints   []int
	Floats []float64
	ii, fi int
}

func (s *Sequence) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Ints) == 0 || n <= 0 {
		return 0
	}
	v := s.Ints[s.ii%len(s.Ints)]
	s.ii++
	return v % n
}

func (s *Sequence) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Floats) == 0 {
		return 0
	}
	v := s.Floats[s.fi%len(s.Floats)]
	s.fi++
	return v
}
