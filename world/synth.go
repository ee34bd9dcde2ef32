package world

import (
	"github.com/pthm-cable/atmo/field"
	"github.com/pthm-cable/atmo/noise"
)

// SynthOptions controls the synthetic world generator.
type SynthOptions struct {
	Width, Height int
	Seed          int64
	SeaLevel      float32

	// Elevation noise shape.
	Scale      float64
	Octaves    int
	Gain       float64
	Lacunarity float64

	// RegionSize is the coarse block edge, in pixels, of the region
	// partition. Blocks whose mean elevation is below sea level classify as
	// oceanic plates.
	RegionSize int
}

// DefaultSynthOptions returns generator settings that produce a plausible
// mixed continent/ocean world at the given resolution.
func DefaultSynthOptions(w, h int, seed int64, seaLevel float32) SynthOptions {
	return SynthOptions{
		Width: w, Height: h, Seed: seed, SeaLevel: seaLevel,
		Scale: 3, Octaves: 5, Gain: 0.5, Lacunarity: 2,
		RegionSize: 32,
	}
}

// Synthesize builds a self-contained provider set from fractal noise: an FBM
// heightmap, a coarse block region partition over it, and a plate
// classification keyed on each block's mean elevation. It exists so the
// generator runs standalone, without externally supplied terrain.
func Synthesize(opts SynthOptions) (*Heightmap, *GridRegionMap, *PlateTypes) {
	w, h := opts.Width, opts.Height
	elev := field.NewScalar(w, h)
	fbm := noise.NewFractal(opts.Seed, opts.Octaves, opts.Lacunarity, opts.Gain)
	for y := 0; y < h; y++ {
		v := float64(field.NormCoord(y, h))
		for x := 0; x < w; x++ {
			u := float64(field.NormCoord(x, w))
			elev.Set(x, y, float32(fbm.Eval01(u*opts.Scale, v*opts.Scale)))
		}
	}

	block := opts.RegionSize
	if block < 1 {
		block = 32
	}
	bw := (w + block - 1) / block
	ids := make([]int, w*h)
	sums := make([]float64, bw*((h+block-1)/block))
	counts := make([]int, len(sums))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			id := (y/block)*bw + x/block
			ids[y*w+x] = id
			sums[id] += float64(elev.At(x, y))
			counts[id]++
		}
	}

	plates := &PlateTypes{Types: make(map[int]PlateType, len(sums)), Default: PlateContinental}
	for id := range sums {
		if counts[id] == 0 {
			continue
		}
		if float32(sums[id]/float64(counts[id])) < opts.SeaLevel {
			plates.Types[id] = PlateOceanic
		}
	}

	return NewHeightmap(elev), NewGridRegionMap(w, h, ids), plates
}
