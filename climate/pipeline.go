// Package climate implements the multi-stage grid pipeline that turns
// latitude bands and terrain elevation into temperature, humidity, and
// near-surface wind fields.
//
// Stages form a directed acyclic graph. Each stage takes typed references to
// its upstream stages at construction, owns its output buffers exclusively
// until publication, and exposes an idempotent Generate that recomputes from
// scratch. Consuming a stage whose output is absent triggers exactly one
// synchronous upstream regeneration.
package climate

import (
	"log/slog"

	"github.com/pthm-cable/atmo/config"
	"github.com/pthm-cable/atmo/field"
	"github.com/pthm-cable/atmo/telemetry"
	"github.com/pthm-cable/atmo/world"
)

// Pipeline wires the full stage graph over one set of providers.
type Pipeline struct {
	cfg *config.Config
	log *slog.Logger

	Terrain     *TerrainStage
	Baseline    *BaselineStage
	Basins      *BasinStage
	OceanWind   *OceanWindStage
	Propagation *PropagationStage
	Smoothing   *SmoothStage
	Refiners    *RefinerStage
	RainShadow  *RainShadowStage
	Advection   *AdvectStage
	Snow        *SnowStage

	perf   *telemetry.PerfCollector
	passes int
}

// New builds a pipeline over the given providers. Nil providers are allowed
// at construction; the stages that need them abort cleanly at generation.
func New(cfg *config.Config, log *slog.Logger, elev world.ElevationSource, regions world.RegionSource, plates world.PlateSource, seeds world.SeedSource) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	p := &Pipeline{cfg: cfg, log: log, perf: telemetry.NewPerfCollector(16)}

	p.Terrain = NewTerrainStage(cfg, log, elev)
	p.Baseline = NewBaselineStage(cfg, log, seeds)
	p.Basins = NewBasinStage(cfg, log, regions, plates, p.Terrain)
	p.OceanWind = NewOceanWindStage(cfg, log, p.Baseline, p.Basins)
	p.Propagation = NewPropagationStage(cfg, log, p.OceanWind, p.Terrain)
	p.Smoothing = NewSmoothStage(cfg, log, p.Propagation)
	p.Refiners = NewRefinerStage(cfg, log, p.Baseline, p.Terrain)
	p.RainShadow = NewRainShadowStage(cfg, log, p.Refiners, p.Terrain)
	p.Advection = NewAdvectStage(cfg, log, p.Refiners, p.RainShadow, p.Smoothing)
	p.Snow = NewSnowStage(cfg, log, p.Advection, p.Terrain)
	return p
}

// Generate runs one full generation pass in topological order. Safe to call
// repeatedly; every call recomputes all fields from scratch. On error the
// failing stage has published nothing and earlier stages keep their outputs.
func (p *Pipeline) Generate() error {
	if err := p.cfg.Validate(); err != nil {
		p.log.Warn("generation aborted", "err", err)
		return ErrInvalidConfig
	}

	p.perf.StartPass()
	stages := []struct {
		phase string
		gen   func() error
	}{
		{telemetry.PhaseTerrain, p.Terrain.Generate},
		{telemetry.PhaseBaseline, p.Baseline.Generate},
		{telemetry.PhaseBasins, p.Basins.Generate},
		{telemetry.PhaseOceanWind, p.OceanWind.Generate},
		{telemetry.PhasePropagation, p.Propagation.Generate},
		{telemetry.PhaseSmoothing, p.Smoothing.Generate},
		{telemetry.PhaseRefiners, p.Refiners.Generate},
		{telemetry.PhaseRainShadow, p.RainShadow.Generate},
		{telemetry.PhaseAdvection, p.Advection.Generate},
		{telemetry.PhaseSnow, p.Snow.Generate},
	}
	for _, st := range stages {
		p.perf.StartPhase(st.phase)
		if err := st.gen(); err != nil {
			p.perf.EndPass()
			p.log.Warn("stage failed", "stage", st.phase, "err", err)
			return err
		}
	}
	p.perf.EndPass()
	p.passes++
	p.perf.Stats().Log(p.log)
	return nil
}

// Temperature returns the final consumable temperature field.
func (p *Pipeline) Temperature() *field.Scalar { return p.Advection.Temperature() }

// Humidity returns the final consumable humidity field.
func (p *Pipeline) Humidity() *field.Scalar { return p.Advection.Humidity() }

// Wind returns the final consumable wind field.
func (p *Pipeline) Wind() *field.Vector { return p.Smoothing.Wind() }

// SnowMask returns the final snow cover mask.
func (p *Pipeline) SnowMask() *field.Scalar { return p.Snow.Mask() }

// Passes returns the number of completed generation passes.
func (p *Pipeline) Passes() int { return p.passes }

// PerfStats returns stage timing aggregated over recent passes.
func (p *Pipeline) PerfStats() telemetry.PerfStats { return p.perf.Stats() }

// FieldStats summarizes the final outputs for telemetry export. Returns nil
// before the first successful pass.
func (p *Pipeline) FieldStats() []telemetry.FieldStats {
	if p.Temperature() == nil || p.Humidity() == nil || p.Wind() == nil || p.SnowMask() == nil {
		return nil
	}
	return []telemetry.FieldStats{
		telemetry.ComputeScalarStats("temperature", p.Temperature()),
		telemetry.ComputeScalarStats("humidity", p.Humidity()),
		telemetry.ComputeMagnitudeStats("wind_speed", p.Wind()),
		telemetry.ComputeScalarStats("snow", p.SnowMask()),
	}
}
