// Package noise provides seeded fractal (FBM) noise for the climate stages.
// All generators are deterministic for a given seed so that equal seeds
// reproduce worlds bit-for-bit.
package noise

import (
	"math/rand"

	"github.com/ojrac/opensimplex-go"
)

// Fractal sums a bounded number of simplex octaves into coherent noise.
type Fractal struct {
	src        opensimplex.Noise
	octaves    int
	lacunarity float64
	gain       float64
}

// NewFractal creates a seeded fractal generator. Octaves are clamped to
// [1,8]; lacunarity should be >1 and gain <1 for the usual 1/f spectrum.
func NewFractal(seed int64, octaves int, lacunarity, gain float64) *Fractal {
	if octaves < 1 {
		octaves = 1
	}
	if octaves > 8 {
		octaves = 8
	}
	return &Fractal{
		src:        opensimplex.New(seed),
		octaves:    octaves,
		lacunarity: lacunarity,
		gain:       gain,
	}
}

// Eval2 returns FBM noise at (x, y), normalized to [-1, 1].
func (f *Fractal) Eval2(x, y float64) float64 {
	sum := 0.0
	amp := 1.0
	freq := 1.0
	norm := 0.0
	for i := 0; i < f.octaves; i++ {
		sum += f.src.Eval2(x*freq, y*freq) * amp
		norm += amp
		amp *= f.gain
		freq *= f.lacunarity
	}
	return sum / norm
}

// Eval01 returns FBM noise at (x, y), remapped to [0, 1].
func (f *Fractal) Eval01(x, y float64) float64 {
	return f.Eval2(x, y)*0.5 + 0.5
}

// EffectiveSeed resolves the world-seed contract: a nonzero seed is used as
// is, while seed 0 asks for a fresh random seed on every call.
func EffectiveSeed(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return rand.Int63()
}

// Offset derives an independent generator seed from a base seed. Stages that
// need several uncorrelated noise fields (humidity perturbation, wind jitter,
// calm zones) offset the world seed by a distinct channel constant.
func Offset(seed int64, channel int64) int64 {
	return seed*31 + channel
}
