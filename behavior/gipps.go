package behavior

import (
	"math"

	"github.com/roadsim/core/entity"
)

// Gipps follows Simple-Following's return/overtake scaffolding but
// replaces the free-flow update with Gipps' car-following rule, which
// already incorporates the current-lane leader (spec §4.3.4).
type Gipps struct {
	AMax           float64
	VDesired       float64
	S0             float64 // comfortable distance
	ReactionTime   float64 // n-second parameter for ConsidersLaneSafe
	InitialDesired float64 // mean used to sample the initial velocity
	InitialSigma   float64
	Engine         engineSampler
}

// engineSampler is the subset of *randengine.Engine every model needs
// for initial-velocity sampling, kept narrow so Gipps/IDM don't import
// the Simple random-walk machinery they don't otherwise use.
type engineSampler interface {
	NonNegativeNormal(mu, sigma, floor float64) float64
}

func NewGipps(engine engineSampler, aMax, vDesired, s0, reactionTime, initialDesired, initialSigma float64) *Gipps {
	return &Gipps{
		AMax: aMax, VDesired: vDesired, S0: s0, ReactionTime: reactionTime,
		InitialDesired: initialDesired, InitialSigma: initialSigma, Engine: engine,
	}
}

func (g *Gipps) SetInitialVelocity(self entity.IVehicle) {
	self.SetVelocity(g.Engine.NonNegativeNormal(g.InitialDesired, g.InitialSigma, 0))
}

func (g *Gipps) Update(self entity.IVehicle, road entity.IRoad, dt float64) {
	if ReturnIfPossible(road, self, dt) {
		g.applyRule(self, road, dt)
		return
	}

	lane := currentLane(road, self)
	lead, hasLead := lane.LeadingOf(self)
	if !hasLead || lead.Position()-self.Position() >= g.ReactionTime*self.Velocity() {
		g.applyRule(self, road, dt)
		return
	}

	if OvertakeIfPossible(road, self, dt) {
		g.applyRule(self, road, dt)
		return
	}

	g.applyRule(self, road, dt)
}

// applyRule computes the three-way minimum from the vehicle's
// (possibly just-changed) current lane, looking the leader up fresh
// since a lane change may have just happened.
func (g *Gipps) applyRule(self entity.IVehicle, road entity.IRoad, dt float64) {
	lane := currentLane(road, self)
	lead, hasLead := lane.LeadingOf(self)

	deltaX := 0.0
	vLead := math.Inf(1)
	if hasLead {
		deltaX = (lead.Position() - lead.Length()) - self.Position()
		vLead = lead.Velocity()
	}

	accelCandidate := self.Velocity() + g.AMax*dt

	radicand := g.AMax*g.AMax*dt*dt + 2*g.AMax*(deltaX-g.S0) + vLead*vLead
	if radicand < 0 {
		radicand = 0
	}
	vSafe := g.AMax*dt + math.Sqrt(radicand)

	next := math.Min(accelCandidate, math.Min(g.VDesired, vSafe))
	if next < 0 {
		next = 0
	}

	self.SetPreviousVelocity(self.Velocity())
	self.SetVelocity(next)
}

func (g *Gipps) ConsidersLaneSafe(self entity.IVehicle, candidateLane entity.ILane, dt float64) bool {
	return IsOutsideNSecondsRule(self, candidateLane, g.ReactionTime)
}
