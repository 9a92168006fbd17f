package behavior

import (
	"math"

	"github.com/roadsim/core/entity"
)

// returnSafeTimeFactor is how much Simple-Following-Extended inflates
// its own safe_time when deciding whether to return to the slow lane.
// The inflation applies to that single check only — ConsidersLaneSafe
// (used for overtaking, and consulted externally) keeps the model's
// plain SafeTime (Design Notes §9).
const returnSafeTimeFactor = 1.5

// laneDecayBase is the per-second multiplier applied to velocity while
// blocked behind a leader with no safe lane change available.
const laneDecayBase = 0.9

// SimpleFollowingExtended refines SimpleFollowing in two ways: its
// free-flow update nudges velocity toward DesiredV instead of pure
// random walk, and when blocked without a safe lane it decays toward
// the leader's velocity instead of snapping to it (spec §4.3.3).
type SimpleFollowingExtended struct {
	*Simple
	SafeTime float64
}

func NewSimpleFollowingExtended(base *Simple, safeTime float64) *SimpleFollowingExtended {
	return &SimpleFollowingExtended{Simple: base, SafeTime: safeTime}
}

func (f *SimpleFollowingExtended) updateVelocityExtended(self entity.IVehicle) {
	self.SetPreviousVelocity(self.Velocity())
	next := 0.99*f.Engine.Normal(self.Velocity(), f.SigmaUpdate) + 0.01*f.DesiredV
	if next < 0 {
		next = 0
	}
	self.SetVelocity(next)
}

func (f *SimpleFollowingExtended) Update(self entity.IVehicle, road entity.IRoad, dt float64) {
	if f.returnIfPossibleInflated(road, self, dt) {
		f.updateVelocityExtended(self)
		return
	}

	lane := currentLane(road, self)
	lead, hasLead := lane.LeadingOf(self)
	if !hasLead || lead.Position()-self.Position() >= f.SafeTime*self.Velocity() {
		f.updateVelocityExtended(self)
		return
	}

	if OvertakeIfPossible(road, self, dt) {
		f.updateVelocityExtended(self)
		return
	}

	self.SetPreviousVelocity(self.Velocity())
	decayed := self.Velocity() * math.Pow(laneDecayBase, dt)
	if decayed > lead.Velocity() {
		decayed = lead.Velocity()
	}
	self.SetVelocity(decayed)
}

// returnIfPossibleInflated mirrors ReturnIfPossible but evaluates
// safety at returnSafeTimeFactor·SafeTime rather than going through
// ConsidersLaneSafe, so the inflation never leaks into the overtake
// check or into any external caller of ConsidersLaneSafe.
func (f *SimpleFollowingExtended) returnIfPossibleInflated(road entity.IRoad, self entity.IVehicle, dt float64) bool {
	current, ok := road.CurrentLaneOf(self)
	if !ok || current == 0 {
		return false
	}
	target := current - 1
	candidate, ok := road.Lane(target)
	if !ok {
		return false
	}
	if !IsOutsideNSecondsRule(self, candidate, returnSafeTimeFactor*f.SafeTime) {
		return false
	}
	road.ChangeLane(self, target)
	return true
}

func (f *SimpleFollowingExtended) ConsidersLaneSafe(self entity.IVehicle, candidateLane entity.ILane, dt float64) bool {
	return IsOutsideNSecondsRule(self, candidateLane, f.SafeTime)
}
