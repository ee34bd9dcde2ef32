package telemetry

import (
	"log/slog"
	"sort"
	"time"
)

// Phase names for the generation pass.
const (
	PhaseTerrain     = "terrain"
	PhaseBaseline    = "baseline"
	PhaseBasins      = "basins"
	PhaseOceanWind   = "ocean_wind"
	PhasePropagation = "propagation"
	PhaseSmoothing   = "smoothing"
	PhaseRefiners    = "refiners"
	PhaseRainShadow  = "rain_shadow"
	PhaseAdvection   = "advection"
	PhaseSnow        = "snow"
)

// PerfSample holds timing data for a single generation pass.
type PerfSample struct {
	PassDuration time.Duration
	Phases       map[string]time.Duration
}

// PerfCollector tracks per-stage timings over a rolling window of
// generation passes.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	passStart     time.Time
	phaseStart    time.Time
	lastPhase     string
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of generation passes to average over.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 16
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartPass begins timing a new generation pass.
func (p *PerfCollector) StartPass() {
	p.passStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a specific stage.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	// End previous phase if any
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndPass finishes timing the current pass and records the sample.
func (p *PerfCollector) EndPass() {
	now := time.Now()
	// End final phase
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	sample := PerfSample{
		PassDuration: now.Sub(p.passStart),
		Phases:       p.currentPhases,
	}

	p.samples[p.writeIndex] = sample
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgPassDuration time.Duration
	MinPassDuration time.Duration
	MaxPassDuration time.Duration

	// Phase breakdown (average durations)
	PhaseAvg map[string]time.Duration

	// Phase percentages of total pass time
	PhasePct map[string]float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg: make(map[string]time.Duration),
			PhasePct: make(map[string]float64),
		}
	}

	var total, minDur, maxDur time.Duration
	phaseTotals := make(map[string]time.Duration)
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.PassDuration
		if i == 0 || s.PassDuration < minDur {
			minDur = s.PassDuration
		}
		if s.PassDuration > maxDur {
			maxDur = s.PassDuration
		}
		for name, d := range s.Phases {
			phaseTotals[name] += d
		}
	}

	avg := total / time.Duration(p.sampleCount)
	phaseAvg := make(map[string]time.Duration, len(phaseTotals))
	phasePct := make(map[string]float64, len(phaseTotals))
	for name, d := range phaseTotals {
		pa := d / time.Duration(p.sampleCount)
		phaseAvg[name] = pa
		if avg > 0 {
			phasePct[name] = float64(pa) / float64(avg) * 100
		}
	}

	return PerfStats{
		AvgPassDuration: avg,
		MinPassDuration: minDur,
		MaxPassDuration: maxDur,
		PhaseAvg:        phaseAvg,
		PhasePct:        phasePct,
	}
}

// SortedPhases returns phase names in descending average-duration order.
func (s PerfStats) SortedPhases() []string {
	names := make([]string, 0, len(s.PhaseAvg))
	for name := range s.PhaseAvg {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return s.PhaseAvg[names[i]] > s.PhaseAvg[names[j]]
	})
	return names
}

// Log writes the aggregated stats at debug level.
func (s PerfStats) Log(log *slog.Logger) {
	log.Debug("generation pass timing",
		"avg", s.AvgPassDuration.Round(time.Microsecond),
		"min", s.MinPassDuration.Round(time.Microsecond),
		"max", s.MaxPassDuration.Round(time.Microsecond))
	for _, name := range s.SortedPhases() {
		log.Debug("stage timing",
			"stage", name,
			"avg", s.PhaseAvg[name].Round(time.Microsecond),
			"pct", s.PhasePct[name])
	}
}
