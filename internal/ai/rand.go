package ai

import "math/rand/v2"

// Rand is the only source of randomness in the decision engine. Tests pin
// it with a seeded generator to assert exact outcomes. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// NewRand returns a deterministic generator for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
