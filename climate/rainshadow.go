package climate

import (
	"log/slog"

	"github.com/pthm-cable/atmo/config"
	"github.com/pthm-cable/atmo/field"
)

// moistureFloor keeps carried air moisture strictly positive so a long ridge
// can never drive it negative.
const moistureFloor = 1e-4

// RainShadowStage marches an "air column" across the grid in one cardinal
// direction, raining moisture out on windward slopes and drying the lee
// side. Rows (or columns) are independent and run in parallel; within a lane
// the carried state is strictly sequential.
type RainShadowStage struct {
	cfg     *config.Config
	log     *slog.Logger
	refiner *RefinerStage
	terrain *TerrainStage

	humidity *field.Scalar
}

// NewRainShadowStage wires the marching simulation after the terrain
// refiners.
func NewRainShadowStage(cfg *config.Config, log *slog.Logger, refiner *RefinerStage, terrain *TerrainStage) *RainShadowStage {
	return &RainShadowStage{cfg: cfg, log: log, refiner: refiner, terrain: terrain}
}

// Generate recomputes rain-shadowed humidity from the refined field.
func (s *RainShadowStage) Generate() error {
	if s.refiner.Humidity() == nil {
		s.log.Warn("rain shadow stage regenerating missing refined humidity")
		if err := s.refiner.Generate(); err != nil {
			return err
		}
		if s.refiner.Humidity() == nil {
			return ErrMissingUpstream
		}
	}
	if s.terrain.Elevation() == nil {
		s.log.Warn("rain shadow stage regenerating missing terrain")
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

	hum := s.refiner.Humidity().Clone()
	water := s.terrain.WaterMask()
	rs := s.cfg.RainShadow

	// Lane geometry for the four marching directions. The lane index walks
	// the axis perpendicular to the march; (sx, sy) steps along it.
	var lanes, steps int
	var ox, oy, sx, sy int
	switch rs.Direction {
	case "east": // wind West -> East
		lanes, steps = h, w
		ox, oy, sx, sy = 0, 0, 1, 0
	case "west":
		lanes, steps = h, w
		ox, oy, sx, sy = w-1, 0, -1, 0
	case "south": // wind North -> South
		lanes, steps = w, h
		ox, oy, sx, sy = 0, 0, 0, 1
	case "north":
		lanes, steps = w, h
		ox, oy, sx, sy = 0, h-1, 0, -1
	default:
		return ErrInvalidConfig
	}

	start := float32(rs.StartMoisture)
	recharge := float32(rs.OceanRecharge)
	sensitivity := float32(rs.RidgeSensitivity)
	windward := float32(rs.WindwardBoost)
	leeward := float32(rs.LeewardLoss)
	persistence := float32(rs.ShadowPersistence)

	parallelFor(lanes, func(l0, l1 int) {
		for lane := l0; lane < l1; lane++ {
			x, y := ox, oy
			if sx != 0 {
				y = lane
			} else {
				x = lane
			}

			moisture := start
			prevElev := elev.Data[y*w+x]

			for step := 0; step < steps; step++ {
				i := y*w + x
				e := elev.Data[i]

				if water[i] {
					// Ocean recharge relaxes the column toward saturation.
					moisture = lerp32(moisture, 1, recharge)
				}

				// Rising terrain rains out at the windward pixel and dries
				// the column for everything behind the ridge. The shadow
				// multiplier uses the moisture the column arrived with, so
				// the dry band starts one pixel past the ridge. Descending
				// terrain never replenishes; that asymmetry is the model.
				ridgeDelta := e - prevElev
				if ridgeDelta > 0 {
					hum.Data[i] = clamp01(hum.Data[i] + ridgeDelta*sensitivity*windward)
				}

				hum.Data[i] = clamp01(hum.Data[i] * lerp32(1, moisture, persistence))

				if ridgeDelta > 0 {
					moisture -= ridgeDelta * sensitivity * leeward
					if moisture < moistureFloor {
						moisture = moistureFloor
					}
				}

				prevElev = e
				x += sx
				y += sy
			}
		}
	})

	s.humidity = hum
	return nil
}

// Humidity returns the rain-shadowed humidity field.
func (s *RainShadowStage) Humidity() *field.Scalar { return s.humidity }
