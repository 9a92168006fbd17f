package behavior

import (
	"github.com/roadsim/core/entity"
	"github.com/roadsim/core/randengine"
)

// Simple has no awareness of other vehicles at all: velocity performs an
// unbounded Gaussian random walk around its own previous value, floored
// at 0, and it never changes lanes (spec §4.3.1).
type Simple struct {
	Engine      *randengine.Engine
	DesiredV    float64
	SigmaInit   float64
	SigmaUpdate float64
}

func NewSimple(engine *randengine.Engine, desiredV, sigmaInit, sigmaUpdate float64) *Simple {
	return &Simple{Engine: engine, DesiredV: desiredV, SigmaInit: sigmaInit, SigmaUpdate: sigmaUpdate}
}

func (s *Simple) SetInitialVelocity(self entity.IVehicle) {
	self.SetVelocity(s.Engine.NonNegativeNormal(s.DesiredV, s.SigmaInit, 0))
}

func (s *Simple) Update(self entity.IVehicle, road entity.IRoad, dt float64) {
	s.updateVelocity(self)
}

// updateVelocity is the free-flow rule shared with every model that
// "falls back to Simple" when it isn't blocked.
func (s *Simple) updateVelocity(self entity.IVehicle) {
	self.SetPreviousVelocity(self.Velocity())
	next := s.Engine.Normal(self.Velocity(), s.SigmaUpdate)
	if next < 0 {
		next = 0
	}
	self.SetVelocity(next)
}

func (s *Simple) ConsidersLaneSafe(self entity.IVehicle, candidateLane entity.ILane, dt float64) bool {
	return true
}
