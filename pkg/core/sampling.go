package core

import "math/rand"

// Sampler provides random numbers for stochastic decisions
// Can be swapped out for deterministic testing
type Sampler interface {
	Get1D() float64
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler with its own generator seeded with seed
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Fork returns an independent sampler seeded from this one.
// Secondaries get forked samplers so no generator is shared between workers.
func (r *RandomSampler) Fork() Sampler {
	return NewSeededSampler(r.random.Int63())
}

// ConstantSampler always returns the same value. Useful in tests.
type ConstantSampler float64

func (c ConstantSampler) Get1D() float64 {
	return float64(c)
}

// ForkSampler returns an independent sampler derived from s when s supports
// forking, otherwise s itself. A nil sampler stays nil.
func ForkSampler(s Sampler) Sampler {
	if f, ok := s.(interface{ Fork() Sampler }); ok {
		return f.Fork()
	}
	return s
}
