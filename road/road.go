// Package road implements the fixed-length collection of indexed lanes
// and the vehicle -> lane reverse index, mediating every insertion,
// deletion, and lateral move (spec §4.2).
package road

import (
	"fmt"

	"github.com/roadsim/core/entity"
	"github.com/roadsim/core/lane"
)

// Road is a fixed-length road with L lanes, 0 = rightmost/slowest.
type Road struct {
	length float64
	lanes  []*lane.Lane
	laneOf map[int64]int
}

// New creates a Road of the given length with laneCount empty lanes
// already attached (indices 0..laneCount-1).
func New(length float64, laneCount int) *Road {
	r := &Road{
		length: length,
		lanes:  make([]*lane.Lane, 0, laneCount),
		laneOf: make(map[int64]int),
	}
	for i := 0; i < laneCount; i++ {
		r.lanes = append(r.lanes, lane.New(i))
	}
	return r
}

func (r *Road) Length() float64 {
	return r.length
}

func (r *Road) LaneCount() int {
	return len(r.lanes)
}

// Lane returns the lane at index, or (nil, false) if index is unknown.
func (r *Road) Lane(index int) (entity.ILane, bool) {
	if index < 0 || index >= len(r.lanes) {
		return nil, false
	}
	return r.lanes[index], true
}

// AddVehicle inserts v into the lane at laneIndex and updates the
// reverse index. It is an error — not a panic — for laneIndex to be
// unknown, since callers (the Spawner) pass it straight from a
// LaneDistribution and should be able to surface a bad config cleanly.
func (r *Road) AddVehicle(v entity.IVehicle, laneIndex int) error {
	if laneIndex < 0 || laneIndex >= len(r.lanes) {
		return fmt.Errorf("road: unknown lane index %d", laneIndex)
	}
	r.lanes[laneIndex].Insert(v)
	r.laneOf[v.ID()] = laneIndex
	return nil
}

// DeleteVehicle removes v from its lane and the reverse index.
func (r *Road) DeleteVehicle(v entity.IVehicle) {
	idx, ok := r.laneOf[v.ID()]
	if !ok {
		panic(fmt.Sprintf("road: delete: vehicle %d not present", v.ID()))
	}
	r.lanes[idx].Remove(v)
	delete(r.laneOf, v.ID())
}

// CurrentLaneOf returns the index of the lane v currently occupies.
func (r *Road) CurrentLaneOf(v entity.IVehicle) (int, bool) {
	idx, ok := r.laneOf[v.ID()]
	return idx, ok
}

// ChangeLane moves v from its current lane to newLaneIndex, which must
// be exactly one lane away. Violating either precondition is a
// structural-violation: a programming error in a Behavior, not a
// recoverable condition, so it panics rather than returning an error
// (spec §4.2, §7).
func (r *Road) ChangeLane(v entity.IVehicle, newLaneIndex int) {
	current, ok := r.laneOf[v.ID()]
	if !ok {
		panic(fmt.Sprintf("road: change_lane: vehicle %d not on this road", v.ID()))
	}
	if newLaneIndex < 0 || newLaneIndex >= len(r.lanes) {
		panic(fmt.Sprintf("road: change_lane: unknown target lane %d", newLaneIndex))
	}
	if diff := newLaneIndex - current; diff != 1 && diff != -1 {
		panic(fmt.Sprintf("road: change_lane: vehicle %d requested non-adjacent move %d -> %d", v.ID(), current, newLaneIndex))
	}
	r.lanes[current].Remove(v)
	r.lanes[newLaneIndex].Insert(v)
	r.laneOf[v.ID()] = newLaneIndex
}
