package mocks

import (
	"ctchen222/minimax-tic-tac-toe/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing
type MockRandom struct {
	// IntNResults is a queue of results to return from IntN
	IntNResults []int
	intNIndex   int
	// Calls records the n of every IntN call
	Calls []int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// IntN returns the next queued result, or 0 if none remaining
func (r *MockRandom) IntN(n int) int {
	r.Calls = append(r.Calls, n)
	if r.intNIndex >= len(r.IntNResults) {
		return 0
	}
	result := r.IntNResults[r.intNIndex]
	r.intNIndex++
	return result
}

// QueueIntN adds values to the IntN result queue
func (r *MockRandom) QueueIntN(values ...int) {
	r.IntNResults = append(r.IntNResults, values...)
}

// Reset clears all queued results
func (r *MockRandom) Reset() {
	r.IntNResults = nil
	r.intNIndex = 0
	r.Calls = nil
}
