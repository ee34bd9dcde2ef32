package climate

import (
	"log/slog"

	"github.com/pthm-cable/atmo/config"
	"github.com/pthm-cable/atmo/field"
)

// propNode is transient BFS state: a grid cell, the vector carried into it,
// the remaining strength, and the hop distance from its seed. Nodes live
// only for one propagation run.
type propNode struct {
	x, y   int32
	vx, vy float32
	s      float32
	hops   int32
}

// PropagationStage bleeds coastal wind inland. Seeds are land pixels
// 8-adjacent to water, injected with the strongest neighboring water vector;
// a 4-neighbor BFS then spreads over land with per-hop decay and mountain
// blocking. Termination rests on the monotonic best-strength-wins rule: a
// cell is only re-expanded by a strictly stronger arrival, so with
// decay_per_step > 0 the frontier dies out even without visited flags.
type PropagationStage struct {
	cfg     *config.Config
	log     *slog.Logger
	ocean   *OceanWindStage
	terrain *TerrainStage

	wind *field.Vector
}

// NewPropagationStage wires the inland propagation between the ocean wind
// and smoothing.
func NewPropagationStage(cfg *config.Config, log *slog.Logger, ocean *OceanWindStage, terrain *TerrainStage) *PropagationStage {
	return &PropagationStage{cfg: cfg, log: log, ocean: ocean, terrain: terrain}
}

// Generate recomputes the merged wind field: ocean wind over water, the
// weighted average of all propagated coastal contributions over land.
func (s *PropagationStage) Generate() error {
	if s.ocean.Wind() == nil {
		s.log.Warn("propagation stage regenerating missing ocean wind")
		if err := s.ocean.Generate(); err != nil {
			return err
		}
		if s.ocean.Wind() == nil {
			return ErrMissingUpstream
		}
	}
	if s.terrain.Elevation() == nil {
		s.log.Warn("propagation stage regenerating missing terrain")
		if err := s.terrain.Generate(); err != nil {
			return err
		}
		if s.terrain.Elevation() == nil {
			return ErrMissingUpstream
		}
	}

	w, h := s.cfg.Grid.Width, s.cfg.Grid.Height
	src := s.ocean.Wind()
	if src.W != w || src.H != h {
		return ErrResolutionMismatch
	}
	p := s.cfg.Wind.Propagation
	if p.DecayPerStep <= 0 || p.DecayPerStep >= 1 {
		return ErrInvalidConfig
	}

	water := s.terrain.WaterMask()
	elev := s.terrain.Elevation()

	accX := make([]float32, w*h)
	accY := make([]float32, w*h)
	accW := make([]float32, w*h)
	best := make([]float32, w*h)

	inject := float32(p.InjectStrength)
	decay := 1 - float32(p.DecayPerStep)
	eps := float32(p.Epsilon)
	maxHops := int32(p.MaxInlandRangePx)
	mountain := float32(p.MountainThreshold)
	blockStrength := float32(p.BlockStrength)

	// blockAt is 1 on open terrain and drops toward 0 above the mountain
	// threshold, proportional to the block strength.
	blockAt := func(i int) float32 {
		e := elev.Data[i]
		if e <= mountain || mountain >= 1 {
			return 1
		}
		excess := (e - mountain) / (1 - mountain)
		b := 1 - excess*blockStrength
		if b < 0 {
			return 0
		}
		return b
	}

	// Seed pass in scan order. Ties on neighbor magnitude break toward the
	// first encountered, which keeps basin edges stable across runs.
	var queue []propNode
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if water[i] {
				continue
			}
			bestMag := float32(0)
			var bx, by float32
			found := false
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					nx, ny := x+dx, y+dy
					if nx < 0 || nx >= w || ny < 0 || ny >= h {
						continue
					}
					if !water[ny*w+nx] {
						continue
					}
					vx, vy := src.At(nx, ny)
					mag := hypot32(vx, vy)
					if !found || mag > bestMag {
						found = true
						bestMag = mag
						bx, by = vx, vy
					}
				}
			}
			if !found {
				continue
			}
			node := propNode{
				x: int32(x), y: int32(y),
				vx: bx * inject, vy: by * inject,
				s: bestMag * inject,
			}
			if node.s <= eps {
				continue
			}
			accX[i] += node.vx * node.s
			accY[i] += node.vy * node.s
			accW[i] += node.s
			if node.s > best[i] {
				best[i] = node.s
				queue = append(queue, node)
			}
		}
	}

	// 4-neighbor BFS over land. Contributions accumulate at every cell they
	// reach; only strictly-improving arrivals re-enter the queue.
	var steps = [4][2]int32{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	for head := 0; head < len(queue); head++ {
		n := queue[head]
		if n.hops >= maxHops {
			continue
		}
		for _, d := range steps {
			nx, ny := n.x+d[0], n.y+d[1]
			if nx < 0 || nx >= int32(w) || ny < 0 || ny >= int32(h) {
				continue
			}
			i := int(ny)*w + int(nx)
			if water[i] {
				continue
			}
			f := decay * blockAt(i)
			s2 := n.s * f
			if s2 <= eps {
				continue
			}
			vx2 := n.vx * f
			vy2 := n.vy * f
			accX[i] += vx2 * s2
			accY[i] += vy2 * s2
			accW[i] += s2
			if best[i] >= s2 {
				continue
			}
			best[i] = s2
			queue = append(queue, propNode{x: nx, y: ny, vx: vx2, vy: vy2, s: s2, hops: n.hops + 1})
		}
	}

	// Merge: water keeps the ocean wind, land gets the weighted average of
	// everything that reached it.
	out := field.NewVector(w, h)
	parallelFor(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				i := y*w + x
				if water[i] {
					vx, vy := src.At(x, y)
					out.Set(x, y, vx, vy)
					continue
				}
				if accW[i] > 0 {
					out.Set(x, y, accX[i]/accW[i], accY[i]/accW[i])
				}
			}
		}
	})

	s.wind = out
	return nil
}

// Wind returns the merged post-propagation wind field.
func (s *PropagationStage) Wind() *field.Vector { return s.wind }
