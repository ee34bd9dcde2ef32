package climate

import (
	"log/slog"

	"github.com/pthm-cable/atmo/config"
	"github.com/pthm-cable/atmo/field"
)

// AdvectStage transports temperature and humidity along the final wind by
// backward ray sampling: each pixel looks upwind at the point its air
// arrived from and blends that sample in. Edges are hard boundaries; the
// upwind point clamps to the grid, never wraps.
type AdvectStage struct {
	cfg    *config.Config
	log    *slog.Logger
	refine *RefinerStage
	shadow *RainShadowStage
	smooth *SmoothStage

	temperature *field.Scalar
	humidity    *field.Scalar
}

// NewAdvectStage wires the advection pass over the final wind.
func NewAdvectStage(cfg *config.Config, log *slog.Logger, refine *RefinerStage, shadow *RainShadowStage, smooth *SmoothStage) *AdvectStage {
	return &AdvectStage{cfg: cfg, log: log, refine: refine, shadow: shadow, smooth: smooth}
}

// advect transports one scalar field along wind. floor/ceiling extend the
// plain [0,1] clamp for fields (humidity) that keep a working margin.
func advect(src *field.Scalar, wind *field.Vector, a config.AdvectionConfig, offset, floor, ceiling float32) *field.Scalar {
	w, h := src.W, src.H
	out := field.NewScalar(w, h)
	power := float32(a.SpeedPower)
	reach := float32(a.DistancePx)
	blend := float32(a.Blend)
	invW := float32(1)
	invH := float32(1)
	if w > 1 {
		invW = 1 / float32(w-1)
	}
	if h > 1 {
		invH = 1 / float32(h-1)
	}

	parallelFor(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			v := field.NormCoord(y, h)
			for x := 0; x < w; x++ {
				u := field.NormCoord(x, w)
				local := src.At(x, y)
				val := local

				wx, wy := wind.At(x, y)
				speed := hypot32(wx, wy)
				if speed > 0 {
					// Air arrives from upwind: trace backward along the wind
					// vector, emphasizing strong flow.
					emph := pow32(speed, power)
					su := u - wx/speed*emph*reach*invW
					sv := v - wy/speed*emph*reach*invH
					upwind := src.Sample(clamp01(su), clamp01(sv))
					val = lerp32(local, upwind, blend)
				}

				val += offset
				if val < floor {
					val = floor
				}
				if val > ceiling {
					val = ceiling
				}
				out.Set(x, y, val)
			}
		}
	})
	return out
}

// Generate recomputes the advected temperature and humidity fields.
func (s *AdvectStage) Generate() error {
	if s.refine.Temperature() == nil {
		s.log.Warn("advection stage regenerating missing refined temperature")
		if err := s.refine.Generate(); err != nil {
			return err
		}
		if s.refine.Temperature() == nil {
			return ErrMissingUpstream
		}
	}
	if s.shadow.Humidity() == nil {
		s.log.Warn("advection stage regenerating missing rain-shadow humidity")
		if err := s.shadow.Generate(); err != nil {
			return err
		}
		if s.shadow.Humidity() == nil {
			return ErrMissingUpstream
		}
	}
	if s.smooth.Wind() == nil {
		s.log.Warn("advection stage regenerating missing smoothed wind")
		if err := s.smooth.Generate(); err != nil {
			return err
		}
		if s.smooth.Wind() == nil {
			return ErrMissingUpstream
		}
	}

	temp := s.refine.Temperature()
	hum := s.shadow.Humidity()
	wind := s.smooth.Wind()
	if temp.W != wind.W || temp.H != wind.H || hum.W != wind.W || hum.H != wind.H {
		return ErrResolutionMismatch
	}

	a := s.cfg.Advection
	s.temperature = advect(temp, wind, a, float32(a.TemperatureOffset), 0, 1)
	s.humidity = advect(hum, wind, a, float32(a.HumidityOffset),
		float32(s.cfg.Humidity.Floor), float32(s.cfg.Humidity.Ceiling))
	return nil
}

// Temperature returns the final, advected temperature field.
func (s *AdvectStage) Temperature() *field.Scalar { return s.temperature }

// Humidity returns the final, advected humidity field.
func (s *AdvectStage) Humidity() *field.Scalar { return s.humidity }
