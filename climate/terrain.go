package climate

import (
	"log/slog"

	"github.com/pthm-cable/atmo/config"
	"github.com/pthm-cable/atmo/field"
	"github.com/pthm-cable/atmo/world"
)

// TerrainStage materializes the external elevation source onto the climate
// grid and derives the ocean/land mask. Every terrain-aware stage downstream
// reads these instead of sampling the provider mid-loop.
type TerrainStage struct {
	cfg *config.Config
	log *slog.Logger
	src world.ElevationSource

	elevation *field.Scalar
	water     []bool
}

// NewTerrainStage wires the elevation provider into the pipeline grid.
func NewTerrainStage(cfg *config.Config, log *slog.Logger, src world.ElevationSource) *TerrainStage {
	return &TerrainStage{cfg: cfg, log: log, src: src}
}

// Generate resamples elevation at grid resolution and classifies water as
// elevation < sea level. Aborts without touching published output when no
// elevation source is available.
func (s *TerrainStage) Generate() error {
	if s.src == nil {
		s.log.Warn("terrain stage aborted", "reason", "no elevation source")
		return ErrNoTerrain
	}
	w, h := s.cfg.Grid.Width, s.cfg.Grid.Height
	if w <= 0 || h <= 0 {
		return ErrInvalidConfig
	}

	elev := field.NewScalar(w, h)
	water := make([]bool, w*h)
	seaLevel := s.cfg.Derived.SeaLevel32

	parallelFor(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			v := field.NormCoord(y, h)
			for x := 0; x < w; x++ {
				e := s.src.ElevationAt(field.NormCoord(x, w), v)
				i := y*w + x
				elev.Data[i] = e
				water[i] = e < seaLevel
			}
		}
	})

	s.elevation = elev
	s.water = water
	return nil
}

// Elevation returns the grid-resolution elevation field, or nil before the
// first successful Generate.
func (s *TerrainStage) Elevation() *field.Scalar {
	return s.elevation
}

// WaterMask returns the row-major ocean mask aligned with Elevation.
func (s *TerrainStage) WaterMask() []bool {
	return s.water
}

// IsWater reports whether grid cell (x, y) is below sea level.
func (s *TerrainStage) IsWater(x, y int) bool {
	return s.water[y*s.cfg.Grid.Width+x]
}
