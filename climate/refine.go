package climate

import (
	"log/slog"

	"github.com/pthm-cable/atmo/config"
	"github.com/pthm-cable/atmo/field"
)

// RefinerStage applies the terrain-interaction refiners to the baseline
// temperature and humidity: altitude cooling/drying plus coastal moderation
// from the chamfer distance transform. It reads baseline outputs through a
// clone so published upstream buffers stay untouched.
type RefinerStage struct {
	cfg      *config.Config
	log      *slog.Logger
	baseline *BaselineStage
	terrain  *TerrainStage

	temperature *field.Scalar
	humidity    *field.Scalar
	coastDist   []int32
}

// NewRefinerStage wires the refiners to their upstream stages.
func NewRefinerStage(cfg *config.Config, log *slog.Logger, baseline *BaselineStage, terrain *TerrainStage) *RefinerStage {
	return &RefinerStage{cfg: cfg, log: log, baseline: baseline, terrain: terrain}
}

// Generate recomputes refined temperature and humidity. Missing upstream
// fields trigger one synchronous upstream regeneration; if still missing the
// stage aborts without mutating its published outputs.
func (s *RefinerStage) Generate() error {
	if s.baseline.Temperature() == nil || s.baseline.Humidity() == nil {
		s.log.Warn("refiner stage regenerating missing baseline")
		if err := s.baseline.Generate(); err != nil {
			return err
		}
		if s.baseline.Temperature() == nil || s.baseline.Humidity() == nil {
			return ErrMissingUpstream
		}
	}
	if s.terrain.Elevation() == nil {
		s.log.Warn("refiner stage regenerating missing terrain")
		if err := s.terrain.Generate(); err != nil {
			return err
		}
		if s.terrain.Elevation() == nil {
			return ErrMissingUpstream
		}
	}

	w, h := s.cfg.Grid.Width, s.cfg.Grid.Height
	elev := s.terrain.Elevation()
	if elev.W != w || elev.H != h {
		return ErrResolutionMismatch
	}
	tempCfg := s.cfg.Temperature
	humCfg := s.cfg.Humidity
	if humCfg.AltitudeThreshold >= 1 {
		return ErrInvalidConfig
	}

	// One distance map serves both coastal refiners; cap at the widest range.
	maxRange := tempCfg.Coastal.MaxRangePx
	if humCfg.Coastal.MaxRangePx > maxRange {
		maxRange = humCfg.Coastal.MaxRangePx
	}
	sweeps := tempCfg.Coastal.Sweeps
	if humCfg.Coastal.Sweeps > sweeps {
		sweeps = humCfg.Coastal.Sweeps
	}
	dist := distanceToWater(w, h, s.terrain.WaterMask(), sweeps, maxRange)

	temp := s.baseline.Temperature().Clone()
	hum := s.baseline.Humidity().Clone()
	water := s.terrain.WaterMask()

	altStrength := float32(tempCfg.AltitudeStrength)
	humThreshold := float32(humCfg.AltitudeThreshold)
	humExponent := float32(humCfg.AltitudeExponent)
	humStrength := float32(humCfg.AltitudeStrength)
	invExcess := 1 / (1 - humThreshold)

	parallelFor(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				i := y*w + x
				e := elev.Data[i]

				// Altitude cooling is linear in elevation.
				t := temp.Data[i] - e*altStrength

				// Altitude drying only bites above the threshold, shaped by
				// a power curve so only high peaks are strongly affected.
				hv := hum.Data[i]
				if e > humThreshold {
					excess := (e - humThreshold) * invExcess
					hv -= pow32(excess, humExponent) * humStrength
				}

				t = coastalModerate(t, dist[i], water[i], tempCfg.Coastal)
				hv = coastalModerate(hv, dist[i], water[i], humCfg.Coastal)

				temp.Data[i] = clamp01(t)
				hum.Data[i] = clamp01(hv)
			}
		}
	})

	s.temperature = temp
	s.humidity = hum
	s.coastDist = dist
	return nil
}

// coastalModerate blends a land value toward the marine reference by the
// normalized coastal factor. Ocean cells are pulled fully to the reference.
func coastalModerate(v float32, dist int32, wet bool, c config.CoastalConfig) float32 {
	marine := float32(c.MarineValue)
	if wet {
		return marine
	}
	factor := 1 - float32(dist)/float32(c.MaxRangePx)
	if factor <= 0 {
		return v
	}
	return lerp32(v, marine, factor*float32(c.Blend))
}

// Temperature returns the terrain-refined temperature field.
func (s *RefinerStage) Temperature() *field.Scalar { return s.temperature }

// Humidity returns the terrain-refined humidity field.
func (s *RefinerStage) Humidity() *field.Scalar { return s.humidity }

// CoastDistance returns the chamfer distance-to-water map from the last
// generation, in pixels, capped at the configured maximum range.
func (s *RefinerStage) CoastDistance() []int32 { return s.coastDist }
