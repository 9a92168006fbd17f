// Package simulation implements the tick loop that drives the Road,
// Spawner, and DataCollector through one run (spec §4.8).
package simulation

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/roadsim/core/clock"
	"github.com/roadsim/core/entity"
)

var log = logrus.WithField("module", "simulation")

// Collector is the subset of collector.Collector the driver needs,
// kept narrow so this package doesn't import collector directly.
type Collector interface {
	SetCurrentTime(t float64)
	OnSample(v entity.IVehicle, laneIndex int) error
	OnDeath(v entity.IVehicle, t float64) error
	Finalize(runtimeSeconds float64) error
}

// Spawner is the subset of spawner.Spawner the driver needs.
type Spawner interface {
	Spawn(t float64, road entity.IRoad) error
}

// Driver owns the wall clock and steps the Road's vehicles through
// their Behaviors every tick, driving the Spawner and Collector and
// handling departures at the road's end (spec §4.8).
type Driver struct {
	Clock     *clock.Clock
	Road      entity.IRoad
	Spawner   Spawner
	Collector Collector
}

func New(c *clock.Clock, road entity.IRoad, spawner Spawner, collector Collector) *Driver {
	return &Driver{Clock: c, Road: road, Spawner: spawner, Collector: collector}
}

// Run executes every tick of the clock. Any error is returned after
// ensuring Collector.Finalize has run, per the propagation policy in
// spec §7.
func (d *Driver) Run() error {
	runErr := d.run()
	if finalizeErr := d.Collector.Finalize(d.Clock.T()); finalizeErr != nil {
		log.Errorf("finalize failed: %v", finalizeErr)
		if runErr == nil {
			runErr = finalizeErr
		}
	}
	return runErr
}

func (d *Driver) run() error {
	for !d.Clock.Done() {
		t := d.Clock.T()
		d.Collector.SetCurrentTime(t)

		if err := d.Spawner.Spawn(t, d.Road); err != nil {
			return fmt.Errorf("simulation: spawn at t=%v: %w", t, err)
		}

		if err := d.update(t); err != nil {
			return err
		}

		if err := d.depart(t); err != nil {
			return err
		}

		d.Clock.Advance()
	}
	return nil
}

// update steps every lane's vehicles, leader first, in ascending lane
// order, taking a snapshot per lane so that mid-iteration lane changes
// don't cause a vehicle to be skipped or visited twice within the tick
// (spec §4.8 step 3, Design Notes §9).
func (d *Driver) update(t float64) error {
	dt := d.Clock.DT()
	visited := make(map[int64]bool)

	for laneIndex := 0; laneIndex < d.Road.LaneCount(); laneIndex++ {
		l, ok := d.Road.Lane(laneIndex)
		if !ok {
			continue
		}
		for _, v := range l.Snapshot() {
			if visited[v.ID()] {
				continue
			}
			visited[v.ID()] = true

			currentIdx, onRoad := d.Road.CurrentLaneOf(v)
			if !onRoad {
				continue
			}
			lane, _ := d.Road.Lane(currentIdx)

			v.SetPreviousVelocity(v.Velocity())
			lane.Reposition(v, v.Position()+v.Velocity()*dt)

			v.Behavior().Update(v, d.Road, dt)

			postIdx, stillOnRoad := d.Road.CurrentLaneOf(v)
			if !stillOnRoad {
				continue
			}
			if err := d.Collector.OnSample(v, postIdx); err != nil {
				return fmt.Errorf("simulation: on_sample at t=%v: %w", t, err)
			}
		}
	}
	return nil
}

// depart removes every vehicle whose position has exceeded the road
// length, leader first, emitting a travel-time record for each (spec
// §4.8 step 4).
func (d *Driver) depart(t float64) error {
	for laneIndex := 0; laneIndex < d.Road.LaneCount(); laneIndex++ {
		l, ok := d.Road.Lane(laneIndex)
		if !ok {
			continue
		}
		for {
			v, has := l.First()
			if !has || v.Position() <= d.Road.Length() {
				break
			}
			if err := d.Collector.OnDeath(v, t); err != nil {
				return fmt.Errorf("simulation: on_death at t=%v: %w", t, err)
			}
			d.Road.DeleteVehicle(v)
		}
	}
	return nil
}
