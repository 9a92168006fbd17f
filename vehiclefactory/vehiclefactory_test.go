package vehiclefactory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadsim/core/behavior"
	"github.com/roadsim/core/config"
	"github.com/roadsim/core/randengine"
	"github.com/roadsim/core/vehiclefactory"
)

func baseConfig(modelName string, params map[string]config.GaussianParam) *config.Config {
	var cfg config.Config
	cfg.Vehicle.BehaviorModelName = modelName
	cfg.Vehicle.BehaviorParams = params
	cfg.Vehicle.BehaviorSettings = []float64{20, 2}
	cfg.Vehicle.Length = 4.5
	return &cfg
}

func TestNewConstructsEachRecognizedBehaviorModel(t *testing.T) {
	cases := []struct {
		name     string
		model    string
		params   map[string]config.GaussianParam
		wantType interface{}
	}{
		{
			name:   "Simple Model",
			model:  "Simple Model",
			params: map[string]config.GaussianParam{"sigma_update": {Mu: 0.5, Sigma: 0.1}},
			wantType: &behavior.Simple{},
		},
		{
			name:  "Simple Following Model",
			model: "Simple Following Model",
			params: map[string]config.GaussianParam{
				"sigma_update": {Mu: 0.5, Sigma: 0.1},
				"safe_time":    {Mu: 2, Sigma: 0.2},
			},
			wantType: &behavior.SimpleFollowing{},
		},
		{
			name:  "Simple Following Extended Model",
			model: "Simple Following Extended Model",
			params: map[string]config.GaussianParam{
				"sigma_update": {Mu: 0.5, Sigma: 0.1},
				"safe_time":    {Mu: 2, Sigma: 0.2},
			},
			wantType: &behavior.SimpleFollowingExtended{},
		},
		{
			name:  "Gipps Model",
			model: "Gipps Model",
			params: map[string]config.GaussianParam{
				"a_max":         {Mu: 2, Sigma: 0.2},
				"s0":            {Mu: 2, Sigma: 0.1},
				"reaction_time": {Mu: 1, Sigma: 0.1},
			},
			wantType: &behavior.Gipps{},
		},
		{
			name:  "Intelligent Driver Model",
			model: "Intelligent Driver Model",
			params: map[string]config.GaussianParam{
				"a_max":  {Mu: 2, Sigma: 0.2},
				"s0":     {Mu: 2, Sigma: 0.1},
				"t":      {Mu: 1.5, Sigma: 0.1},
				"b_comf": {Mu: 3, Sigma: 0.1},
				"delta":  {Mu: 4, Sigma: 0},
			},
			wantType: &behavior.IDM{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine := randengine.New(1)
			factory, err := vehiclefactory.New(baseConfig(tc.model, tc.params), engine)
			require.NoError(t, err)
			require.NotNil(t, factory)

			v := factory()
			require.NotNil(t, v)
			assert.IsType(t, tc.wantType, v.Behavior())
			assert.GreaterOrEqual(t, v.Velocity(), 0.0)
		})
	}
}

func TestNewRejectsUnrecognizedBehaviorModel(t *testing.T) {
	engine := randengine.New(1)
	factory, err := vehiclefactory.New(baseConfig("Not A Real Model", nil), engine)
	assert.Error(t, err)
	assert.Nil(t, factory)
}

func TestNewBuildsDistinctVehiclesPerCall(t *testing.T) {
	engine := randengine.New(1)
	cfg := baseConfig("Simple Model", map[string]config.GaussianParam{"sigma_update": {Mu: 0.5, Sigma: 0.1}})
	factory, err := vehiclefactory.New(cfg, engine)
	require.NoError(t, err)

	a := factory()
	b := factory()
	assert.NotEqual(t, a.ID(), b.ID())
}
