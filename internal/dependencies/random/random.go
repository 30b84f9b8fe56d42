package random

import (
	"math/rand/v2"
	"sync"
)

// Random provides random number generation that can be mocked for testing
type Random interface {
	// IntN returns a random int in [0, n)
	IntN(n int) int
}

// MathRandom implements Random using math/rand/v2. It is safe for
// concurrent use.
type MathRandom struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a Random backed by the global math/rand/v2 source
func New() *MathRandom {
	return &MathRandom{}
}

// NewSeeded returns a reproducible Random for simulations
func NewSeeded(seed uint64) *MathRandom {
	return &MathRandom{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// IntN returns a random int in [0, n), or 0 when n <= 0
func (r *MathRandom) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	if r.rng == nil {
		return rand.IntN(n)
	}
	// *rand.Rand is not safe for concurrent use.
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.IntN(n)
}
