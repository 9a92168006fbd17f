// Package clock owns the simulation wall clock: the current time and
// the tick count, advanced one Δt at a time by the driver.
package clock

import "fmt"

// Clock tracks simulation time in fixed Δt steps over [0, totalSteps).
type Clock struct {
	dt         float64
	totalSteps int64

	step int64
	t    float64
}

// New creates a Clock for a run of the given duration at the given time
// step. Both must be positive; callers validate this as part of config
// loading (a non-positive Δt is a configuration-invalid error there).
func New(dt, duration float64) *Clock {
	return &Clock{
		dt:         dt,
		totalSteps: int64(duration/dt) + 1,
	}
}

// DT returns the fixed time step.
func (c *Clock) DT() float64 {
	return c.dt
}

// T returns the current simulation time.
func (c *Clock) T() float64 {
	return c.t
}

// Step returns the current tick index.
func (c *Clock) Step() int64 {
	return c.step
}

// TotalSteps returns the number of ticks the run will execute.
func (c *Clock) TotalSteps() int64 {
	return c.totalSteps
}

// Done reports whether every tick has been run.
func (c *Clock) Done() bool {
	return c.step >= c.totalSteps
}

// Advance moves the clock forward by one Δt.
func (c *Clock) Advance() {
	c.step++
	c.t = float64(c.step) * c.dt
}

func (c *Clock) String() string {
	return fmt.Sprintf("Clock{step=%d/%d, t=%.3f}", c.step, c.totalSteps, c.t)
}
