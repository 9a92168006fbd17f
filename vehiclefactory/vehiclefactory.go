// Package vehiclefactory builds the per-vehicle factory closure the
// Spawner calls: it samples a fresh set of Behavior parameters for
// every new vehicle, around the per-parameter means given in
// configuration, floored at 0.01 (spec §4.6).
package vehiclefactory

import (
	"fmt"

	"github.com/roadsim/core/behavior"
	"github.com/roadsim/core/config"
	"github.com/roadsim/core/entity"
	"github.com/roadsim/core/randengine"
	"github.com/roadsim/core/vehicle"
)

const paramFloor = 0.01

// New builds the Factory for cfg's recognized behavior model, closed
// over engine so every sampled parameter (including the initial
// velocity) flows through the one seeded source.
func New(cfg *config.Config, engine *randengine.Engine) (func() entity.IVehicle, error) {
	length := cfg.Vehicle.Length
	width := 2.0 // not part of the configuration schema; a fixed ambient default

	desiredVMu, desiredVSigma := behaviorSettings(cfg)

	switch cfg.Vehicle.BehaviorModelName {
	case "Simple Model":
		return func() entity.IVehicle {
			sigmaUpdate := sample(cfg, engine, "sigma_update")
			b := behavior.NewSimple(engine, desiredVMu, desiredVSigma, sigmaUpdate)
			return vehicle.New(length, width, b)
		}, nil

	case "Simple Following Model":
		return func() entity.IVehicle {
			sigmaUpdate := sample(cfg, engine, "sigma_update")
			safeTime := sample(cfg, engine, "safe_time")
			base := behavior.NewSimple(engine, desiredVMu, desiredVSigma, sigmaUpdate)
			b := behavior.NewSimpleFollowing(base, safeTime)
			return vehicle.New(length, width, b)
		}, nil

	case "Simple Following Extended Model":
		return func() entity.IVehicle {
			sigmaUpdate := sample(cfg, engine, "sigma_update")
			safeTime := sample(cfg, engine, "safe_time")
			base := behavior.NewSimple(engine, desiredVMu, desiredVSigma, sigmaUpdate)
			b := behavior.NewSimpleFollowingExtended(base, safeTime)
			return vehicle.New(length, width, b)
		}, nil

	case "Gipps Model":
		return func() entity.IVehicle {
			aMax := sample(cfg, engine, "a_max")
			s0 := sample(cfg, engine, "s0")
			reactionTime := sample(cfg, engine, "reaction_time")
			b := behavior.NewGipps(engine, aMax, desiredVMu, s0, reactionTime, desiredVMu, desiredVSigma)
			return vehicle.New(length, width, b)
		}, nil

	case "Intelligent Driver Model":
		return func() entity.IVehicle {
			aMax := sample(cfg, engine, "a_max")
			s0 := sample(cfg, engine, "s0")
			t := sample(cfg, engine, "t")
			bComf := sample(cfg, engine, "b_comf")
			delta := sample(cfg, engine, "delta")
			b := behavior.NewIDM(engine, aMax, desiredVMu, s0, t, bComf, delta, desiredVMu, desiredVSigma)
			return vehicle.New(length, width, b)
		}, nil

	default:
		return nil, fmt.Errorf("vehiclefactory: unrecognized behavior model %q", cfg.Vehicle.BehaviorModelName)
	}
}

func behaviorSettings(cfg *config.Config) (mu, sigma float64) {
	if len(cfg.Vehicle.BehaviorSettings) >= 2 {
		return cfg.Vehicle.BehaviorSettings[0], cfg.Vehicle.BehaviorSettings[1]
	}
	return 0, 0
}

// sample draws one value from the named parameter's Gaussian, floored
// at 0.01. A parameter absent from configuration samples as the 0.01
// floor itself (the
// Load-time validator only checks the structural fields; a missing
// model-specific parameter is a configuration omission the caller is
// expected to catch before a production run).
func sample(cfg *config.Config, engine *randengine.Engine, name string) float64 {
	p, ok := cfg.Vehicle.BehaviorParams[name]
	if !ok {
		return paramFloor
	}
	return engine.NonNegativeNormal(p.Mu, p.Sigma, paramFloor)
}
