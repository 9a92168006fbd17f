package lane_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roadsim/core/entity"
	"github.com/roadsim/core/lane"
	"github.com/roadsim/core/vehicle"
)

type stubBehavior struct{}

func (stubBehavior) SetInitialVelocity(self entity.IVehicle)                               {}
func (stubBehavior) Update(self entity.IVehicle, road entity.IRoad, dt float64)             {}
func (stubBehavior) ConsidersLaneSafe(self entity.IVehicle, l entity.ILane, dt float64) bool { return true }

func newVehicleAt(position float64) *vehicle.Vehicle {
	v := vehicle.New(4, 2, stubBehavior{})
	v.SetPosition(position)
	return v
}

func positions(vs []entity.IVehicle) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = v.Position()
	}
	return out
}

func TestInsertMaintainsDescendingOrder(t *testing.T) {
	l := lane.New(0)
	a := newVehicleAt(10)
	b := newVehicleAt(30)
	c := newVehicleAt(20)
	l.Insert(a)
	l.Insert(b)
	l.Insert(c)

	assert.Equal(t, []float64{30, 20, 10}, positions(l.Snapshot()))
}

func TestLeadingOfFrontmostHasNoLeader(t *testing.T) {
	l := lane.New(0)
	a := newVehicleAt(10)
	l.Insert(a)
	_, ok := l.LeadingOf(a)
	assert.False(t, ok)
}

func TestLeadingOfReturnsNearestAhead(t *testing.T) {
	l := lane.New(0)
	a := newVehicleAt(10)
	b := newVehicleAt(30)
	l.Insert(a)
	l.Insert(b)

	lead, ok := l.LeadingOf(a)
	assert.True(t, ok)
	assert.Equal(t, b.ID(), lead.ID())
}

func TestRepositionPreservesSortedOrder(t *testing.T) {
	l := lane.New(0)
	a := newVehicleAt(10)
	b := newVehicleAt(30)
	l.Insert(a)
	l.Insert(b)

	l.Reposition(a, 40)
	assert.Equal(t, []float64{40, 30}, positions(l.Snapshot()))
}

func TestRemovePanicsWhenAbsent(t *testing.T) {
	l := lane.New(0)
	a := newVehicleAt(10)
	assert.Panics(t, func() { l.Remove(a) })
}

func TestClosestAroundBrackets(t *testing.T) {
	l := lane.New(0)
	a := newVehicleAt(10)
	b := newVehicleAt(30)
	l.Insert(a)
	l.Insert(b)

	leader, hasLeader, follower, hasFollower := l.ClosestAround(20)
	assert.True(t, hasLeader)
	assert.Equal(t, b.ID(), leader.ID())
	assert.True(t, hasFollower)
	assert.Equal(t, a.ID(), follower.ID())
}
