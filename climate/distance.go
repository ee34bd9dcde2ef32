package climate

// distanceToWater builds an approximate integer distance-to-water map via
// bounded forward/backward 8-neighbor chamfer relaxation sweeps. The result
// is directionally biased rather than exact, which is fine for the coastal
// factor; values are capped at maxRange. Water cells are distance 0.
func distanceToWater(w, h int, water []bool, sweeps, maxRange int) []int32 {
	dist := make([]int32, w*h)
	cap32 := int32(maxRange)
	for i, wet := range water {
		if wet {
			dist[i] = 0
		} else {
			dist[i] = cap32
		}
	}
	if sweeps < 1 {
		sweeps = 1
	}

	for pass := 0; pass < sweeps; pass++ {
		// Forward sweep: top-left to bottom-right, relaxing from the
		// neighbors already visited in this direction.
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				i := y*w + x
				d := dist[i]
				if d == 0 {
					continue
				}
				if x > 0 {
					d = min32(d, dist[i-1]+1)
				}
				if y > 0 {
					d = min32(d, dist[i-w]+1)
					if x > 0 {
						d = min32(d, dist[i-w-1]+1)
					}
					if x < w-1 {
						d = min32(d, dist[i-w+1]+1)
					}
				}
				if d > cap32 {
					d = cap32
				}
				dist[i] = d
			}
		}
		// Backward sweep: bottom-right to top-left.
		for y := h - 1; y >= 0; y-- {
			for x := w - 1; x >= 0; x-- {
				i := y*w + x
				d := dist[i]
				if d == 0 {
					continue
				}
				if x < w-1 {
					d = min32(d, dist[i+1]+1)
				}
				if y < h-1 {
					d = min32(d, dist[i+w]+1)
					if x < w-1 {
						d = min32(d, dist[i+w+1]+1)
					}
					if x > 0 {
						d = min32(d, dist[i+w-1]+1)
					}
				}
				if d > cap32 {
					d = cap32
				}
				dist[i] = d
			}
		}
	}
	return dist
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}
