// Shared lane-change helpers (spec §4.4). Every Behavior's Update calls
// into these instead of touching Road directly, which is what keeps the
// "return before overtake" fairness ordering consistent across models.
package behavior

import "github.com/roadsim/core/entity"

// OvertakeIfPossible moves self one lane up (toward the overtaking
// side) if such a lane exists and self's Behavior considers it safe.
func OvertakeIfPossible(road entity.IRoad, self entity.IVehicle, dt float64) bool {
	current, ok := road.CurrentLaneOf(self)
	if !ok {
		return false
	}
	target := current + 1
	candidate, ok := road.Lane(target)
	if !ok {
		return false
	}
	if !self.Behavior().ConsidersLaneSafe(self, candidate, dt) {
		return false
	}
	road.ChangeLane(self, target)
	return true
}

// ReturnIfPossible moves self one lane down (toward the slow lane) if
// such a lane exists and self's Behavior considers it safe.
func ReturnIfPossible(road entity.IRoad, self entity.IVehicle, dt float64) bool {
	current, ok := road.CurrentLaneOf(self)
	if !ok || current == 0 {
		return false
	}
	target := current - 1
	candidate, ok := road.Lane(target)
	if !ok {
		return false
	}
	if !self.Behavior().ConsidersLaneSafe(self, candidate, dt) {
		return false
	}
	road.ChangeLane(self, target)
	return true
}

// IsOutsideNSecondsRule reports whether candidateLane has at least
// n·self.Velocity() meters of clearance to both the nearest leader and
// follower around self's position. Exported (rather than folded into
// ConsidersLaneSafe) so Simple-Following-Extended can evaluate it with
// an inflated n for its return check without mutating any shared
// state (Design Notes §9).
func IsOutsideNSecondsRule(self entity.IVehicle, candidateLane entity.ILane, n float64) bool {
	dSafe := SafeDistanceN(self, n)
	leader, hasLeader, follower, hasFollower := candidateLane.ClosestAround(self.Position())
	if hasLeader && (leader.Position()-leader.Length())-self.Position() < dSafe {
		return false
	}
	if hasFollower && (self.Position()-self.Length())-follower.Position() < dSafe {
		return false
	}
	return true
}

// SafeDistanceN is the n-second rule's required gap: v·n.
func SafeDistanceN(self entity.IVehicle, n float64) float64 {
	return self.Velocity() * n
}
