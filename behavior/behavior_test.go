package behavior_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roadsim/core/behavior"
	"github.com/roadsim/core/randengine"
	"github.com/roadsim/core/road"
	"github.com/roadsim/core/vehicle"
)

func TestSimpleNoUpdateNoiseIsDeterministic(t *testing.T) {
	engine := randengine.New(1)
	model := behavior.NewSimple(engine, 100.0/3.6, 0, 0)
	v := vehicle.New(4, 2, model)
	assert.InDelta(t, 100.0/3.6, v.Velocity(), 1e-9)

	model.Update(v, nil, 1)
	assert.InDelta(t, 100.0/3.6, v.Velocity(), 1e-9)
}

// Scenario 2 (spec §8): two lanes, Simple-Following, leader at x=50 with
// v=10, follower spawned at x=0 with v=20, safe_time=2s. The gap
// 50-0=50 is not below 2*20=40, so the follower should not be blocked
// and should simply run its free-flow update.
func TestSimpleFollowingNotBlockedWhenGapIsSafe(t *testing.T) {
	engine := randengine.New(1)
	base := behavior.NewSimple(engine, 0, 0, 0)
	model := behavior.NewSimpleFollowing(base, 2)

	r := road.New(1000, 2)
	leader := vehicle.New(4, 2, model)
	leader.SetPosition(50)
	leader.SetVelocity(10)
	assert.NoError(t, r.AddVehicle(leader, 0))

	follower := vehicle.New(4, 2, model)
	follower.SetPosition(0)
	follower.SetVelocity(20)
	assert.NoError(t, r.AddVehicle(follower, 0))

	model.Update(follower, r, 1)

	idx, _ := r.CurrentLaneOf(follower)
	assert.Equal(t, 0, idx, "gap is safe, follower should not need to change lanes")
}

// Scenario 2's blocked branch: shrink the gap below 2*v so the
// follower is forced to either overtake or match the leader.
func TestSimpleFollowingMatchesLeaderWhenBlockedAndNoOvertakeLane(t *testing.T) {
	engine := randengine.New(1)
	base := behavior.NewSimple(engine, 0, 0, 0)
	model := behavior.NewSimpleFollowing(base, 2)

	r := road.New(1000, 1) // single lane: no overtake, no return possible
	leader := vehicle.New(4, 2, model)
	leader.SetPosition(10)
	leader.SetVelocity(10)
	assert.NoError(t, r.AddVehicle(leader, 0))

	follower := vehicle.New(4, 2, model)
	follower.SetPosition(0)
	follower.SetVelocity(20)
	assert.NoError(t, r.AddVehicle(follower, 0))

	model.Update(follower, r, 1)
	assert.InDelta(t, 10.0, follower.Velocity(), 1e-9)
}

// Scenario 5 (spec §8): Gipps, no leader, dt=0.1, a_max=2, v_desired=30,
// v=28. Expected v' = 28.2 (the acceleration candidate is binding).
func TestGippsNoLeaderAccelerationCandidateBinds(t *testing.T) {
	engine := randengine.New(1)
	model := behavior.NewGipps(engine, 2, 30, 2, 1.5, 28, 0)

	r := road.New(1000, 1)
	v := vehicle.New(4, 2, model)
	v.SetVelocity(28)
	assert.NoError(t, r.AddVehicle(v, 0))

	model.Update(v, r, 0.1)
	assert.InDelta(t, 28.2, v.Velocity(), 1e-6)
}

// Scenario 6 (spec §8): IDM, leader 20m ahead, both v=20, T=1.5,
// a_max=2, b_comf=3, s0=2, delta=4, v_desired=30. Expect a ≈ -3.51 and
// v' = 20 - 3.51*dt.
func TestIDMLeaderDecelerationMatchesWorkedExample(t *testing.T) {
	engine := randengine.New(1)
	model := behavior.NewIDM(engine, 2, 30, 2, 1.5, 3, 4, 20, 0)

	r := road.New(1000, 1)
	lead := vehicle.New(4, 2, model)
	lead.SetPosition(20)
	lead.SetVelocity(20)
	assert.NoError(t, r.AddVehicle(lead, 0))

	follower := vehicle.New(4, 2, model)
	follower.SetPosition(0)
	follower.SetVelocity(20)
	assert.NoError(t, r.AddVehicle(follower, 0))

	dt := 0.1
	model.Update(follower, r, dt)

	wantA := 2 * (1 - math.Pow(20.0/30.0, 4) - math.Pow(32.0/20.0, 2))
	wantV := 20 + wantA*dt
	assert.InDelta(t, wantV, follower.Velocity(), 1e-6)
	assert.InDelta(t, -3.51, wantA, 0.01)
}
