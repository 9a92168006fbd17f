package spawner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roadsim/core/behavior"
	"github.com/roadsim/core/entity"
	"github.com/roadsim/core/lanedist"
	"github.com/roadsim/core/randengine"
	"github.com/roadsim/core/road"
	"github.com/roadsim/core/spawner"
	"github.com/roadsim/core/vehicle"
)

type countingObserver struct{ births int }

func (c *countingObserver) OnBirth(v entity.IVehicle, t float64) { c.births++ }

func TestUniformSpawnIsDeterministic(t *testing.T) {
	engine := randengine.New(7)
	model := behavior.NewSimple(engine, 10, 0, 0)
	factory := func() entity.IVehicle { return vehicle.New(4, 2, model) }

	obs := &countingObserver{}
	s := spawner.New(spawner.Uniform, 2.0, 1.0, lanedist.Equal(), factory, engine, obs)

	r := road.New(1000, 1)
	assert.NoError(t, s.Spawn(0, r))

	l, _ := r.Lane(0)
	assert.Equal(t, 2, l.Len())
	assert.Equal(t, 2, obs.births)
}

func TestSpawnPartitionsAcrossLanes(t *testing.T) {
	engine := randengine.New(7)
	model := behavior.NewSimple(engine, 10, 0, 0)
	factory := func() entity.IVehicle { return vehicle.New(4, 2, model) }

	s := spawner.New(spawner.Uniform, 10.0, 1.0, lanedist.Triangle(), factory, engine, nil)

	r := road.New(1000, 4)
	assert.NoError(t, s.Spawn(0, r))

	total := 0
	for i := 0; i < r.LaneCount(); i++ {
		l, _ := r.Lane(i)
		total += l.Len()
	}
	assert.Equal(t, 10, total)
}
