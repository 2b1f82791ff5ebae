package calculation

import (
	"math/rand"
	"time"
)

// seedFunc returns a pseudo-random seed (override for deterministic Monte
// Carlo tests).
var seedFunc = func() int64 { return time.Now().UnixNano() }

// SetSeedFunc overrides the seed source used when a simulation is run
// without an explicit seed.
func SetSeedFunc(f func() int64) { seedFunc = f }

// UniformSource yields uniform(0,1) draws. The Box-Muller transform consumes
// two draws per normal variate; tests can supply deterministic sequences.
type UniformSource func() float64

// SourceFactory builds a statistically independent UniformSource for each
// trial index.
type SourceFactory func(trial int) UniformSource

// DefaultSourceFactory derives one seeded generator per trial from a base
// seed, so trials are independent and a batch is reproducible.
func DefaultSourceFactory(baseSeed int64) SourceFactory {
	return func(trial int) UniformSource {
		r := rand.New(rand.NewSource(baseSeed + int64(trial)))
		return r.Float64
	}
}
