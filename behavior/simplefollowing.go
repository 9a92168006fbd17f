package behavior

import (
	"github.com/roadsim/core/entity"
)

// SimpleFollowing is Simple plus a single blocking check against the
// leader in the current lane: try to return to the slower lane first,
// then try to overtake, and only fall back to copying the leader's
// velocity if neither lane change is safe (spec §4.3.2).
type SimpleFollowing struct {
	*Simple
	SafeTime float64
}

func NewSimpleFollowing(base *Simple, safeTime float64) *SimpleFollowing {
	return &SimpleFollowing{Simple: base, SafeTime: safeTime}
}

func (f *SimpleFollowing) Update(self entity.IVehicle, road entity.IRoad, dt float64) {
	if ReturnIfPossible(road, self, dt) {
		f.updateVelocity(self)
		return
	}

	lane := currentLane(road, self)
	lead, hasLead := lane.LeadingOf(self)
	if !hasLead || lead.Position()-self.Position() >= f.SafeTime*self.Velocity() {
		f.updateVelocity(self)
		return
	}

	if OvertakeIfPossible(road, self, dt) {
		f.updateVelocity(self)
		return
	}

	self.SetPreviousVelocity(self.Velocity())
	self.SetVelocity(lead.Velocity())
}

func (f *SimpleFollowing) ConsidersLaneSafe(self entity.IVehicle, candidateLane entity.ILane, dt float64) bool {
	return IsOutsideNSecondsRule(self, candidateLane, f.SafeTime)
}

// currentLane resolves self's current lane; callers only invoke this
// from within Update, where self is guaranteed to be on the road.
func currentLane(road entity.IRoad, self entity.IVehicle) entity.ILane {
	idx, ok := road.CurrentLaneOf(self)
	if !ok {
		panic("behavior: vehicle not on road during Update")
	}
	l, ok := road.Lane(idx)
	if !ok {
		panic("behavior: current lane index unknown to road")
	}
	return l
}
