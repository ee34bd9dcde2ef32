package main

import (
	"io"
	"log/slog"
	"math"
	"sync"

	"github.com/pthm-cable/atmo/climate"
	"github.com/pthm-cable/atmo/config"
	"github.com/pthm-cable/atmo/telemetry"
	"github.com/pthm-cable/atmo/world"
)

// Targets describes the field statistics a fitted parameter set should
// reproduce. Defaults approximate a temperate mixed continent world.
type Targets struct {
	TemperatureMean float64 `yaml:"temperature_mean"`
	TemperatureStd  float64 `yaml:"temperature_std"`
	HumidityMean    float64 `yaml:"humidity_mean"`
	HumidityStd     float64 `yaml:"humidity_std"`
	WindSpeedMean   float64 `yaml:"wind_speed_mean"`
	SnowFraction    float64 `yaml:"snow_fraction"`
}

// DefaultTargets returns the built-in target statistics.
func DefaultTargets() Targets {
	return Targets{
		TemperatureMean: 0.52,
		TemperatureStd:  0.18,
		HumidityMean:    0.55,
		HumidityStd:     0.16,
		WindSpeedMean:   0.35,
		SnowFraction:    0.08,
	}
}

// FitnessEvaluator runs generation passes and scores the resulting fields
// against the targets.
type FitnessEvaluator struct {
	params     *ParamVector
	gridSize   int
	seeds      []int64
	baseConfig *config.Config
	targets    Targets

	mu        sync.Mutex
	lastStats []telemetry.FieldStats // from the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, gridSize int, seeds []int64, baseCfg *config.Config, targets Targets) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		gridSize:   gridSize,
		seeds:      seeds,
		baseConfig: baseCfg,
		targets:    targets,
	}
}

// LastStats returns the field statistics from the most recent evaluation.
func (fe *FitnessEvaluator) LastStats() []telemetry.FieldStats {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastStats
}

// Evaluate computes fitness for a parameter vector (lower = better). Each
// seed generates an independent world; the score averages the per-seed
// statistic errors.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	scores := make([]float64, len(fe.seeds))
	stats := make([][]telemetry.FieldStats, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			scores[idx], stats[idx] = fe.runGeneration(x, s)
		}(i, seed)
	}
	wg.Wait()

	var total float64
	for _, s := range scores {
		total += s
	}
	fe.mu.Lock()
	fe.lastStats = stats[0]
	fe.mu.Unlock()
	return total / float64(len(fe.seeds))
}

// runGeneration runs one full pass with the candidate parameters and scores
// the outputs.
func (fe *FitnessEvaluator) runGeneration(x []float64, seed int64) (float64, []telemetry.FieldStats) {
	cfg := fe.copyConfig()
	cfg.Grid.Width = fe.gridSize
	cfg.Grid.Height = fe.gridSize
	cfg.Grid.Seed = seed
	fe.params.ApplyToConfig(cfg, x)
	if err := cfg.Finalize(); err != nil {
		return math.Inf(1), nil
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	heightmap, regions, plates := world.Synthesize(world.DefaultSynthOptions(
		fe.gridSize, fe.gridSize, seed, cfg.Derived.SeaLevel32))
	pipeline := climate.New(cfg, logger, heightmap, regions, plates, world.FixedSeed(seed))
	if err := pipeline.Generate(); err != nil {
		return math.Inf(1), nil
	}

	stats := pipeline.FieldStats()
	return fe.score(stats, pipeline), stats
}

// score measures the squared relative error of the generated statistics
// against the targets. Standard deviations get half weight: matching the
// overall level matters more than matching the spread exactly.
func (fe *FitnessEvaluator) score(stats []telemetry.FieldStats, p *climate.Pipeline) float64 {
	byName := make(map[string]telemetry.FieldStats, len(stats))
	for _, s := range stats {
		byName[s.Name] = s
	}
	t := fe.targets

	err := sqErr(byName["temperature"].Mean, t.TemperatureMean)
	err += 0.5 * sqErr(byName["temperature"].StdDev, t.TemperatureStd)
	err += sqErr(byName["humidity"].Mean, t.HumidityMean)
	err += 0.5 * sqErr(byName["humidity"].StdDev, t.HumidityStd)
	err += sqErr(byName["wind_speed"].Mean, t.WindSpeedMean)

	// Snow fraction: share of land pixels with meaningful cover.
	snow := p.SnowMask()
	covered := 0
	for _, v := range snow.Data {
		if v > 0.5 {
			covered++
		}
	}
	err += sqErr(float64(covered)/float64(len(snow.Data)), t.SnowFraction)
	return err
}

func sqErr(got, want float64) float64 {
	d := got - want
	return d * d
}

// copyConfig returns a mutable copy of the base config.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cp := *fe.baseConfig
	return &cp
}
