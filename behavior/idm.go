package behavior

import (
	"math"

	"github.com/roadsim/core/entity"
)

// IDM wraps the shared return/overtake scaffolding around the
// Intelligent Driver Model acceleration rule (spec §4.3.5).
type IDM struct {
	AMax     float64
	VDesired float64
	S0       float64
	T        float64 // time headway, also the n-second parameter
	BComf    float64 // comfortable braking
	Delta    float64 // acceleration exponent

	InitialDesired float64
	InitialSigma   float64
	Engine         engineSampler
}

func NewIDM(engine engineSampler, aMax, vDesired, s0, t, bComf, delta, initialDesired, initialSigma float64) *IDM {
	return &IDM{
		AMax: aMax, VDesired: vDesired, S0: s0, T: t, BComf: bComf, Delta: delta,
		InitialDesired: initialDesired, InitialSigma: initialSigma, Engine: engine,
	}
}

func (m *IDM) SetInitialVelocity(self entity.IVehicle) {
	self.SetVelocity(m.Engine.NonNegativeNormal(m.InitialDesired, m.InitialSigma, 0))
}

func (m *IDM) Update(self entity.IVehicle, road entity.IRoad, dt float64) {
	if ReturnIfPossible(road, self, dt) {
		m.applyRule(self, dt, road)
		return
	}

	lane := currentLane(road, self)
	lead, hasLead := lane.LeadingOf(self)
	if !hasLead || lead.Position()-self.Position() >= m.T*self.Velocity() {
		m.applyRule(self, dt, road)
		return
	}

	if OvertakeIfPossible(road, self, dt) {
		m.applyRule(self, dt, road)
		return
	}

	m.applyRule(self, dt, road)
}

// applyRule computes the IDM acceleration against the (possibly just
// changed) current lane's leader and integrates velocity over dt.
func (m *IDM) applyRule(self entity.IVehicle, dt float64, road entity.IRoad) {
	lane := currentLane(road, self)
	lead, hasLead := lane.LeadingOf(self)

	v := self.Velocity()
	freeTerm := math.Pow(v/m.VDesired, m.Delta)

	var a float64
	if !hasLead {
		a = m.AMax * (1 - freeTerm)
	} else {
		// s preserves the source's sign convention verbatim: it is
		// negative under the "leader ahead" position ordering used
		// everywhere else in this package. The term it feeds into is
		// squared, so the sign has no numeric effect except at s=0,
		// which is the division-by-zero degeneracy handled below.
		s := self.Position() - lead.Position()
		if s == 0 {
			self.SetPreviousVelocity(v)
			next := v - m.BComf*dt
			if next < 0 {
				next = 0
			}
			self.SetVelocity(next)
			return
		}
		sStar := m.S0 + math.Max(0, v*m.T+v*(v-lead.Velocity())/(2*math.Sqrt(m.AMax*m.BComf)))
		a = m.AMax * (1 - freeTerm - (sStar/s)*(sStar/s))
	}

	next := v + a*dt
	if next < 0 {
		next = 0
	}
	self.SetPreviousVelocity(v)
	self.SetVelocity(next)
}

func (m *IDM) ConsidersLaneSafe(self entity.IVehicle, candidateLane entity.ILane, dt float64) bool {
	return IsOutsideNSecondsRule(self, candidateLane, m.T)
}
