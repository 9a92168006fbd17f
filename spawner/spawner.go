// Package spawner implements the per-tick stochastic vehicle-arrival
// process and its partitioning across lanes (spec §4.6).
package spawner

import (
	"math"

	"github.com/roadsim/core/entity"
	"github.com/roadsim/core/lanedist"
	"github.com/roadsim/core/randengine"
)

// ProcessKind selects how the per-tick batch size is drawn.
type ProcessKind int

const (
	// Poisson draws N ~ Poisson(rate * dt) per tick.
	Poisson ProcessKind = iota
	// Uniform draws N = round(rate * dt) per tick, deterministically.
	Uniform
)

// Factory constructs one new vehicle, sampling its own desired
// velocity and Behavior parameters. It is supplied by the caller
// wiring the Behavior model selected in configuration.
type Factory func() entity.IVehicle

// BirthObserver is notified once per spawned vehicle, right after it has
// been added to the Road.
type BirthObserver interface {
	OnBirth(v entity.IVehicle, t float64)
}

// Spawner draws a batch size every tick, partitions it across lanes
// with a LaneDistribution, and inserts the resulting vehicles into a
// Road via a vehicle Factory.
type Spawner struct {
	kind     ProcessKind
	rate     float64
	dt       float64
	dist     lanedist.Distribution
	factory  Factory
	engine   *randengine.Engine
	observer BirthObserver
}

func New(kind ProcessKind, rate, dt float64, dist lanedist.Distribution, factory Factory, engine *randengine.Engine, observer BirthObserver) *Spawner {
	return &Spawner{kind: kind, rate: rate, dt: dt, dist: dist, factory: factory, engine: engine, observer: observer}
}

// Spawn draws this tick's batch size, partitions it across road's
// lanes, and inserts the resulting vehicles at position 0.
func (s *Spawner) Spawn(t float64, road entity.IRoad) error {
	n := s.drawBatchSize()
	counts := s.dist.Allocate(n, road.LaneCount())

	for laneIndex, count := range counts {
		for i := 0; i < count; i++ {
			v := s.factory()
			if err := road.AddVehicle(v, laneIndex); err != nil {
				return err
			}
			if s.observer != nil {
				s.observer.OnBirth(v, t)
			}
		}
	}
	return nil
}

func (s *Spawner) drawBatchSize() int {
	switch s.kind {
	case Poisson:
		return s.engine.Poisson(s.rate * s.dt)
	case Uniform:
		return int(math.Round(s.rate * s.dt))
	default:
		panic("spawner: unknown process kind")
	}
}
