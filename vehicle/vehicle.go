// Package vehicle implements the concrete Vehicle entity: identity,
// kinematics, and the Behavior it owns. The simulation driver is the
// only thing that mutates a Vehicle's position outside of Lane.Reposition;
// Behaviors only ever set velocity.
package vehicle

import (
	"sync/atomic"

	"github.com/roadsim/core/entity"
)

var nextID int64

// NextID hands out a globally unique, monotonically increasing vehicle
// id. It is never reset per lane or per run — identities must stay
// unique across the whole process (Design Notes §9).
func NextID() int64 {
	return atomic.AddInt64(&nextID, 1)
}

// Vehicle is one car on the road. It implements entity.IVehicle.
type Vehicle struct {
	id       int64
	position float64
	velocity float64
	prevV    float64
	length   float64
	width    float64
	behavior entity.IBehavior
}

// New constructs a Vehicle at position 0 with the given Behavior, which
// is asked to sample the initial velocity immediately (spec §3
// lifecycle).
func New(length, width float64, behavior entity.IBehavior) *Vehicle {
	v := &Vehicle{
		id:       NextID(),
		length:   length,
		width:    width,
		behavior: behavior,
	}
	behavior.SetInitialVelocity(v)
	if v.velocity < 0 {
		v.velocity = 0
	}
	return v
}

func (v *Vehicle) ID() int64 { return v.id }

func (v *Vehicle) Position() float64        { return v.position }
func (v *Vehicle) SetPosition(p float64)    { v.position = p }
func (v *Vehicle) Velocity() float64        { return v.velocity }
func (v *Vehicle) SetVelocity(speed float64) {
	if speed < 0 {
		speed = 0
	}
	v.velocity = speed
}

func (v *Vehicle) PreviousVelocity() float64     { return v.prevV }
func (v *Vehicle) SetPreviousVelocity(p float64) { v.prevV = p }

func (v *Vehicle) Length() float64 { return v.length }
func (v *Vehicle) Width() float64  { return v.width }

func (v *Vehicle) Behavior() entity.IBehavior { return v.behavior }
