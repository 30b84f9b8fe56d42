package random

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMathRandom_IntNRange(t *testing.T) {
	for _, r := range []*MathRandom{New(), NewSeeded(3)} {
		assert.Zero(t, r.IntN(0))
		assert.Zero(t, r.IntN(-4))
		for i := 0; i < 100; i++ {
			v := r.IntN(9)
			assert.GreaterOrEqual(t, v, 0)
			assert.Less(t, v, 9)
		}
	}
}

func TestMathRandom_SeededIsReproducible(t *testing.T) {
	a, b := NewSeeded(42), NewSeeded(42)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.IntN(1000), b.IntN(1000))
	}
}

func TestMathRandom_SeededConcurrentUse(t *testing.T) {
	r := NewSeeded(7)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				v := r.IntN(9)
				if v < 0 || v >= 9 {
					t.Errorf("IntN(9) = %d", v)
				}
			}
		}()
	}
	wg.Wait()
}
