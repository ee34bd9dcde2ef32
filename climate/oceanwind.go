package climate

import (
	"log/slog"

	"github.com/pthm-cable/atmo/config"
	"github.com/pthm-cable/atmo/field"
)

// OceanWindStage bends the belt wind over water into basin-scale gyres: each
// water pixel gets a tangential component around its basin centroid, fading
// with distance. Land pixels pass through unchanged; propagation picks them
// up later.
type OceanWindStage struct {
	cfg      *config.Config
	log      *slog.Logger
	baseline *BaselineStage
	basins   *BasinStage

	wind *field.Vector
}

// NewOceanWindStage wires the gyre transform between baseline wind and
// coastal propagation.
func NewOceanWindStage(cfg *config.Config, log *slog.Logger, baseline *BaselineStage, basins *BasinStage) *OceanWindStage {
	return &OceanWindStage{cfg: cfg, log: log, baseline: baseline, basins: basins}
}

// Generate recomputes the gyre-adjusted wind field.
func (s *OceanWindStage) Generate() error {
	if s.baseline.Wind() == nil {
		s.log.Warn("ocean wind stage regenerating missing baseline")
		if err := s.baseline.Generate(); err != nil {
			return err
		}
		if s.baseline.Wind() == nil {
			return ErrMissingUpstream
		}
	}
	if !s.basins.Generated() {
		s.log.Warn("ocean wind stage regenerating missing basins")
		if err := s.basins.Generate(); err != nil {
			return err
		}
		if !s.basins.Generated() {
			return ErrMissingUpstream
		}
	}

	w, h := s.cfg.Grid.Width, s.cfg.Grid.Height
	base := s.baseline.Wind()
	if base.W != w || base.H != h {
		return ErrResolutionMismatch
	}

	wind := base.Clone()
	strength := float32(s.cfg.Wind.Swirl.Strength)
	rangePx := float32(s.cfg.Wind.Swirl.RangePx)
	if strength == 0 || rangePx <= 0 {
		s.wind = wind
		return nil
	}
	basins := s.basins.Basins()

	parallelFor(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				bid := s.basins.BasinAt(x, y)
				if bid < 0 {
					continue
				}
				b := basins[bid]
				rx := float32(x) - float32(b.CentroidX)
				ry := float32(y) - float32(b.CentroidY)
				d := hypot32(rx, ry)
				if d == 0 {
					// Degenerate at the centroid itself: the tangent has no
					// direction, so keep the pre-transform wind.
					continue
				}
				falloff := 1 - d/rangePx
				if falloff <= 0 {
					continue
				}
				// Counter-clockwise tangent around the centroid.
				tx := -ry / d
				ty := rx / d
				vx, vy := wind.At(x, y)
				wind.Set(x, y, vx+tx*strength*falloff, vy+ty*strength*falloff)
			}
		}
	})

	s.wind = wind
	return nil
}

// Wind returns the gyre-adjusted wind field.
func (s *OceanWindStage) Wind() *field.Vector { return s.wind }
