// Package collector implements the DataCollector: an append-only sink
// for per-tick samples and travel times, with a bounded in-memory
// buffer that flushes to CSV once it crosses a watermark, plus a JSON
// metadata document written at the end of a run (spec §4.7, §6).
package collector

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/roadsim/core/entity"
)

var log = logrus.WithField("module", "collector")

// DefaultWatermark is the row count at which on_sample flushes the
// vehicle-data buffer to disk (spec §4.7).
const DefaultWatermark = 3_000_000

// TravelTimeFormat selects the travel_times.csv schema to emit.
type TravelTimeFormat int

const (
	// SingleColumn writes the `Travel Times` header with one numeric
	// row per departed vehicle.
	SingleColumn TravelTimeFormat = iota
	// TimeAndTraveltime writes `Time,Traveltime` with the death time
	// of each vehicle alongside its travel time — the format used by
	// one downstream analyzer and accepted as an alternative (spec §6).
	TimeAndTraveltime
)

// Collector is the DataCollector. It owns the run's output directory
// and is the sole writer to the files inside it.
type Collector struct {
	dir              string
	watermark        int
	travelTimeFormat TravelTimeFormat

	vehicleDataPath  string
	travelTimesPath  string
	settingsPath     string

	sampleBuf []entity.Sample
	birthT    map[int64]float64
	travel    []entity.TravelRecord

	currentTime float64
	rawConfig   interface{}
	steps       int
}

// New picks the output directory for simulation id, creating it and
// initializing the CSV files with their headers. It appends a numeric
// suffix to id if a non-empty directory of that name already exists
// (spec §4.7).
func New(cwd, id string, watermark int, format TravelTimeFormat, rawConfig interface{}) (*Collector, error) {
	if watermark <= 0 {
		watermark = DefaultWatermark
	}
	dir, err := resolveOutputDir(cwd, id)
	if err != nil {
		return nil, fmt.Errorf("collector: resolving output directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("collector: creating output directory: %w", err)
	}

	c := &Collector{
		dir:              dir,
		watermark:        watermark,
		travelTimeFormat: format,
		vehicleDataPath:  filepath.Join(dir, "vehicle_data.csv"),
		travelTimesPath:  filepath.Join(dir, "travel_times.csv"),
		settingsPath:     filepath.Join(dir, "simulation_settings.json"),
		birthT:           make(map[int64]float64),
		rawConfig:        rawConfig,
	}

	if err := initializeCSV(c.vehicleDataPath, []string{"time", "vehicle_id", "lane_index", "position", "velocity"}); err != nil {
		return nil, err
	}
	if err := initializeCSV(c.travelTimesPath, c.travelTimeHeader()); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Collector) travelTimeHeader() []string {
	if c.travelTimeFormat == TimeAndTraveltime {
		return []string{"Time", "Traveltime"}
	}
	return []string{"Travel Times"}
}

// resolveOutputDir implements `<cwd>/tmp/<id>` if absent or empty,
// else `<cwd>/tmp/<id>_<n>` for the smallest n >= 2 naming an absent
// path.
func resolveOutputDir(cwd, id string) (string, error) {
	base := filepath.Join(cwd, "tmp", id)
	if empty, err := dirAbsentOrEmpty(base); err != nil {
		return "", err
	} else if empty {
		return base, nil
	}
	for n := 2; ; n++ {
		candidate := filepath.Join(cwd, "tmp", fmt.Sprintf("%s_%d", id, n))
		absent, err := dirAbsent(candidate)
		if err != nil {
			return "", err
		}
		if absent {
			return candidate, nil
		}
	}
}

func dirAbsentOrEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return len(entries) == 0, nil
}

func dirAbsent(path string) (bool, error) {
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}

// OnBirth records vehicle's start time.
func (c *Collector) OnBirth(v entity.IVehicle, t float64) {
	c.birthT[v.ID()] = t
}

// SetCurrentTime updates the timestamp subsequent OnSample calls use.
func (c *Collector) SetCurrentTime(t float64) {
	c.currentTime = t
	c.steps++
}

// OnSample appends a per-tick sample to the in-memory buffer, flushing
// to disk if the buffer crosses the watermark.
func (c *Collector) OnSample(v entity.IVehicle, laneIndex int) error {
	c.sampleBuf = append(c.sampleBuf, entity.Sample{
		Time:      c.currentTime,
		VehicleID: v.ID(),
		LaneIndex: laneIndex,
		Position:  v.Position(),
		Velocity:  v.Velocity(),
	})
	if len(c.sampleBuf) >= c.watermark {
		return c.flushSamples()
	}
	return nil
}

// OnDeath looks up v's birth time and appends its travel-time record.
// It is idempotent in the sense the spec requires: the birth-time
// registry entry is never removed, so a repeated call (which should
// not happen in a correct driver) still computes the same duration.
func (c *Collector) OnDeath(v entity.IVehicle, t float64) error {
	start, ok := c.birthT[v.ID()]
	if !ok {
		log.Warnf("on_death: vehicle %d has no recorded birth time", v.ID())
		start = t
	}
	c.travel = append(c.travel, entity.TravelRecord{VehicleID: v.ID(), Birth: start, Death: t})
	if len(c.travel) >= c.watermark {
		return c.flushTravel()
	}
	return nil
}

func (c *Collector) flushSamples() error {
	if len(c.sampleBuf) == 0 {
		return nil
	}
	rows := make([][]string, len(c.sampleBuf))
	for i, s := range c.sampleBuf {
		rows[i] = []string{
			strconv.FormatFloat(s.Time, 'f', -1, 64),
			strconv.FormatInt(s.VehicleID, 10),
			strconv.Itoa(s.LaneIndex),
			strconv.FormatFloat(s.Position, 'f', -1, 64),
			strconv.FormatFloat(s.Velocity, 'f', -1, 64),
		}
	}
	if err := appendToCSV(c.vehicleDataPath, rows); err != nil {
		return fmt.Errorf("collector: flushing vehicle_data.csv: %w", err)
	}
	c.sampleBuf = c.sampleBuf[:0]
	return nil
}

func (c *Collector) flushTravel() error {
	if len(c.travel) == 0 {
		return nil
	}
	rows := make([][]string, len(c.travel))
	for i, r := range c.travel {
		if c.travelTimeFormat == TimeAndTraveltime {
			rows[i] = []string{
				strconv.FormatFloat(r.Death, 'f', -1, 64),
				strconv.FormatFloat(r.TravelTime(), 'f', -1, 64),
			}
		} else {
			rows[i] = []string{strconv.FormatFloat(r.TravelTime(), 'f', -1, 64)}
		}
	}
	if err := appendToCSV(c.travelTimesPath, rows); err != nil {
		return fmt.Errorf("collector: flushing travel_times.csv: %w", err)
	}
	c.travel = c.travel[:0]
	return nil
}

// Finalize flushes both buffers and writes the metadata document. It
// must run — even on an aborted run — before a fatal error propagates
// (spec §7).
func (c *Collector) Finalize(runtimeSeconds float64) error {
	if err := c.flushSamples(); err != nil {
		log.Errorf("finalize: %v", err)
	}
	if err := c.flushTravel(); err != nil {
		log.Errorf("finalize: %v", err)
	}

	doc := map[string]interface{}{
		"process": map[string]interface{}{
			"steps":   c.steps,
			"runtime": runtimeSeconds,
		},
	}
	merged := mergeConfig(c.rawConfig, doc)

	f, err := os.Create(c.settingsPath)
	if err != nil {
		return fmt.Errorf("collector: writing simulation_settings.json: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(merged); err != nil {
		return fmt.Errorf("collector: encoding simulation_settings.json: %w", err)
	}
	return nil
}

// mergeConfig flattens rawConfig (expected to be a map or a value that
// round-trips through JSON as one) with the process block into a
// single document, matching "the configuration document verbatim plus
// a process block" (spec §6).
func mergeConfig(rawConfig interface{}, extra map[string]interface{}) map[string]interface{} {
	out := map[string]interface{}{}
	if rawConfig != nil {
		b, err := json.Marshal(rawConfig)
		if err == nil {
			var asMap map[string]interface{}
			if json.Unmarshal(b, &asMap) == nil {
				out = asMap
			}
		}
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

func initializeCSV(path string, header []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing header to %s: %w", path, err)
	}
	return nil
}

func appendToCSV(path string, rows [][]string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("appending to %s: %w", path, err)
	}
	return nil
}
