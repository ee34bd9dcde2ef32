package climate

import (
	"log/slog"

	"github.com/pthm-cable/atmo/config"
	"github.com/pthm-cable/atmo/field"
)

// SnowStage derives the snow mask from final temperature and elevation:
// cold pixels snow, and altitude raises the effective threshold so peaks
// whiten before lowlands at the same temperature.
type SnowStage struct {
	cfg     *config.Config
	log     *slog.Logger
	advect  *AdvectStage
	terrain *TerrainStage

	mask *field.Scalar
}

// NewSnowStage wires the snow mask after advection.
func NewSnowStage(cfg *config.Config, log *slog.Logger, advect *AdvectStage, terrain *TerrainStage) *SnowStage {
	return &SnowStage{cfg: cfg, log: log, advect: advect, terrain: terrain}
}

// Generate recomputes the snow mask.
func (s *SnowStage) Generate() error {
	if s.advect.Temperature() == nil {
		s.log.Warn("snow stage regenerating missing advected temperature")
		if err := s.advect.Generate(); err != nil {
			return err
		}
		if s.advect.Temperature() == nil {
			return ErrMissingUpstream
		}
	}
	if s.terrain.Elevation() == nil {
		s.log.Warn("snow stage regenerating missing terrain")
		if err := s.terrain.Generate(); err != nil {
			return err
		}
		if s.terrain.Elevation() == nil {
			return ErrMissingUpstream
		}
	}

	temp := s.advect.Temperature()
	elev := s.terrain.Elevation()
	if temp.W != elev.W || temp.H != elev.H {
		return ErrResolutionMismatch
	}
	w, h := temp.W, temp.H

	threshold := float32(s.cfg.Snow.TemperatureThreshold)
	boost := float32(s.cfg.Snow.ElevationBoost)
	softness := float32(s.cfg.Snow.Softness)
	if softness <= 0 {
		return ErrInvalidConfig
	}

	mask := field.NewScalar(w, h)
	water := s.terrain.WaterMask()
	parallelFor(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				i := y*w + x
				if water[i] {
					continue
				}
				eff := threshold + elev.Data[i]*boost
				mask.Data[i] = smoothstep((eff - temp.Data[i]) / softness)
			}
		}
	})

	s.mask = mask
	return nil
}

// Mask returns the snow mask field, 0 for bare ground and water, rising to 1
// where snow cover is certain.
func (s *SnowStage) Mask() *field.Scalar { return s.mask }
