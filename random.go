package formula

import "math/rand/v2"

// RandomSource supplies the random intrinsics rand, randf, and random. A
// source is bound into a Formula at parse time, so the same compiled formula
// always draws from the same source.
//
// UniformBelow and UniformIntBelow are only called with positive max; the
// intrinsics clamp non-positive bounds to 0 before consulting the source.
type RandomSource interface {
	// Uniform01 returns a uniform float in [0, 1).
	Uniform01() float64
	// UniformBelow returns a uniform float in [0, max).
	UniformBelow(max float64) float64
	// UniformIntBelow returns a uniform integer in [0, max).
	UniformIntBelow(max int) int
}

type defaultSource struct{}

func (defaultSource) Uniform01() float64 {
	return rand.Float64()
}

func (defaultSource) UniformBelow(max float64) float64 {
	return rand.Float64() * max
}

func (defaultSource) UniformIntBelow(max int) int {
	return rand.IntN(max)
}

// DefaultRandom returns the platform random source. It is stateless and safe
// for concurrent use from any number of evaluations.
func DefaultRandom() RandomSource {
	return defaultSource{}
}

type seededSource struct {
	r *rand.Rand
}

// NewSeededRandom returns a deterministic random source. Two sources with
// the same seed produce the same stream. A seeded source holds generator
// state and must not be shared across concurrent evaluations.
func NewSeededRandom(seed uint64) RandomSource {
	return &seededSource{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seededSource) Uniform01() float64 {
	return s.r.Float64()
}

func (s *seededSource) UniformBelow(max float64) float64 {
	return s.r.Float64() * max
}

func (s *seededSource) UniformIntBelow(max int) int {
	return s.r.IntN(max)
}

// FixedRandom is a RandomSource for tests. Uniform01 always returns V, and
// the bounded methods scale V by the bound.
type FixedRandom struct {
	// V is the fixed value, expected in [0, 1).
	V float64
}

func (f FixedRandom) Uniform01() float64 {
	return f.V
}

func (f FixedRandom) UniformBelow(max float64) float64 {
	return f.V * max
}

func (f FixedRandom) UniformIntBelow(max int) int {
	return int(f.V * float64(max))
}
