package road_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roadsim/core/entity"
	"github.com/roadsim/core/road"
	"github.com/roadsim/core/vehicle"
)

type stubBehavior struct{}

func (stubBehavior) SetInitialVelocity(self entity.IVehicle)                                {}
func (stubBehavior) Update(self entity.IVehicle, r entity.IRoad, dt float64)                 {}
func (stubBehavior) ConsidersLaneSafe(self entity.IVehicle, l entity.ILane, dt float64) bool { return true }

func TestAddVehicleUnknownLaneReturnsError(t *testing.T) {
	r := road.New(1000, 2)
	v := vehicle.New(4, 2, stubBehavior{})
	err := r.AddVehicle(v, 5)
	assert.Error(t, err)
}

func TestChangeLaneRoundTrip(t *testing.T) {
	r := road.New(1000, 3)
	v := vehicle.New(4, 2, stubBehavior{})
	assert.NoError(t, r.AddVehicle(v, 0))

	r.ChangeLane(v, 1)
	idx, ok := r.CurrentLaneOf(v)
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	r.ChangeLane(v, 0)
	idx, ok = r.CurrentLaneOf(v)
	assert.True(t, ok)
	assert.Equal(t, 0, idx)

	l, _ := r.Lane(0)
	assert.Equal(t, 1, l.Len())
}

func TestChangeLaneNonAdjacentPanics(t *testing.T) {
	r := road.New(1000, 3)
	v := vehicle.New(4, 2, stubBehavior{})
	assert.NoError(t, r.AddVehicle(v, 0))

	assert.Panics(t, func() { r.ChangeLane(v, 2) })
}

func TestDeleteVehicleRemovesFromReverseIndex(t *testing.T) {
	r := road.New(1000, 1)
	v := vehicle.New(4, 2, stubBehavior{})
	assert.NoError(t, r.AddVehicle(v, 0))

	r.DeleteVehicle(v)
	_, ok := r.CurrentLaneOf(v)
	assert.False(t, ok)
}
