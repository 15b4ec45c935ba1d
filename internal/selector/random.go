package selector

import (
	"math/rand/v2"
	"sync"
)

// Random supplies uniform draws. Implementations used by a shared engine must
// be safe for concurrent use.
type Random interface {
	// Float64 returns a uniform draw in [0,1)
	Float64() float64

	// IntN returns a uniform index in [0,n)
	IntN(n int) int
}

type globalRandom struct{}

func (globalRandom) Float64() float64 { return rand.Float64() }
func (globalRandom) IntN(n int) int   { return rand.IntN(n) }

// DefaultRandom returns the process-wide source from math/rand/v2
func DefaultRandom() Random {
	return globalRandom{}
}

// SeededRandom is a reproducible source guarded for concurrent use
type SeededRandom struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeededRandom creates a deterministic source, used for repeatable demos
func NewSeededRandom(seed uint64) *SeededRandom {
	return &SeededRandom{
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Float64 returns a uniform draw in [0,1)
func (r *SeededRandom) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}

// IntN returns a uniform index in [0,n)
func (r *SeededRandom) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.IntN(n)
}
