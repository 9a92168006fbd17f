// Package randengine wraps a single seeded random source so that every
// stochastic draw in a run — spawner batch sizes, initial velocities,
// behavior parameter sampling, random walk updates — flows through one
// reproducible stream.
package randengine

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Engine is the shared random source threaded through the Spawner,
// vehicle factory, and every Behavior.
type Engine struct {
	src rand.Source
	*rand.Rand
}

// New creates an Engine seeded deterministically. Two Engines created
// with the same seed produce the same sequence of draws.
func New(seed uint64) *Engine {
	src := rand.NewSource(seed)
	return &Engine{src: src, Rand: rand.New(src)}
}

// Normal draws from N(mu, sigma). sigma == 0 always returns mu.
func (e *Engine) Normal(mu, sigma float64) float64 {
	if sigma == 0 {
		return mu
	}
	d := distuv.Normal{Mu: mu, Sigma: sigma, Src: e.src}
	return d.Rand()
}

// Poisson draws from Poisson(lambda). lambda <= 0 always returns 0.
func (e *Engine) Poisson(lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	d := distuv.Poisson{Lambda: lambda, Src: e.src}
	return int(d.Rand())
}

// NonNegativeNormal draws from N(mu, sigma) and floors the result at
// floor, matching the "floored at 0.01" sampling rule used for behavior
// parameters (spec §4.6).
func (e *Engine) NonNegativeNormal(mu, sigma, floor float64) float64 {
	v := e.Normal(mu, sigma)
	if v < floor {
		return floor
	}
	return v
}
