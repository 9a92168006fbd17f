package main

import (
	"flag"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/roadsim/core/clock"
	"github.com/roadsim/core/collector"
	"github.com/roadsim/core/config"
	"github.com/roadsim/core/lanedist"
	"github.com/roadsim/core/randengine"
	"github.com/roadsim/core/road"
	"github.com/roadsim/core/simulation"
	"github.com/roadsim/core/spawner"
	"github.com/roadsim/core/vehiclefactory"
)

var (
	configPath = flag.String("config", "", "config file path")
	seed       = flag.Uint64("seed", 1, "seed for the run's random engine")

	logLevels = map[string]logrus.Level{
		"trace": logrus.TraceLevel,
		"debug": logrus.DebugLevel,
		"info":  logrus.InfoLevel,
		"warn":  logrus.WarnLevel,
		"error": logrus.ErrorLevel,
	}
	logLevel = flag.String("log.level", "info", "log level (trace debug info warn error)")

	log = logrus.WithField("module", "roadsim")
)

func main() {
	flag.Parse()

	if level, ok := logLevels[*logLevel]; ok {
		logrus.SetLevel(level)
	} else {
		log.Panicf("log.level must be one of %v", logLevels)
	}

	if *configPath == "" {
		log.Panic("config file must be specified via -config")
	}
	c, err := config.Load(*configPath)
	if err != nil {
		log.Panicf("config load err: %v", err)
	}
	log.Infof("%+v", c)

	engine := randengine.New(*seed)

	r := road.New(c.Road.Length, c.Road.Lanes)

	cwd, err := os.Getwd()
	if err != nil {
		log.Panicf("getwd err: %v", err)
	}
	dataCollector, err := collector.New(cwd, c.Name.ID, collector.DefaultWatermark, collector.SingleColumn, c)
	if err != nil {
		log.Panicf("collector init err: %v", err)
	}

	factory, err := vehiclefactory.New(c, engine)
	if err != nil {
		log.Panicf("vehicle factory err: %v", err)
	}

	dist, ok := lanedist.ByName(c.LaneDistribution)
	if !ok {
		log.Panicf("unrecognized lane_distribution %q", c.LaneDistribution)
	}

	kind := spawner.Poisson
	if c.Spawn.Process == "equal" || c.Spawn.Process == "uniform" {
		kind = spawner.Uniform
	}
	s := spawner.New(kind, c.Spawn.CarsPerSecond, c.Simulation.TimeStep, dist, factory, engine, dataCollector)

	clk := clock.New(c.Simulation.TimeStep, c.Simulation.Duration)
	driver := simulation.New(clk, r, s, dataCollector)

	if err := driver.Run(); err != nil {
		log.Panicf("run failed: %v", err)
	}
	log.Infof("run complete: %s", clk)
}
