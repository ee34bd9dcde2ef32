package climate

import (
	"log/slog"
	"math"

	"github.com/pthm-cable/atmo/config"
	"github.com/pthm-cable/atmo/field"
	"github.com/pthm-cable/atmo/noise"
	"github.com/pthm-cable/atmo/world"
)

// Noise channel offsets so each perturbation field draws from an independent
// generator derived from the one world seed.
const (
	channelHumidity = 1
	channelTemp     = 2
	channelJitter   = 3
	channelCalm     = 4
)

// BaselineStage produces the latitude-band circulation baselines: temperature
// and humidity scalars plus the belt wind vector field, all perturbed by
// seeded fractal noise. Pure function of latitude and seed; terrain never
// enters here.
type BaselineStage struct {
	cfg   *config.Config
	log   *slog.Logger
	seeds world.SeedSource

	temperature *field.Scalar
	humidity    *field.Scalar
	wind        *field.Vector
	seedUsed    int64
}

// NewBaselineStage wires the seed provider into the baseline models.
func NewBaselineStage(cfg *config.Config, log *slog.Logger, seeds world.SeedSource) *BaselineStage {
	return &BaselineStage{cfg: cfg, log: log, seeds: seeds}
}

// latBaseline evaluates the pole/equator lerp for normalized latitude v,
// where v=0 and v=1 are poles and v=0.5 is the equator.
func latBaseline(v float32, pole, equator, falloff float64) float32 {
	lat01 := abs32(v-0.5) * 2
	t := 1 - pow32(lat01, float32(falloff))
	return lerp32(float32(pole), float32(equator), t)
}

// bandProfile evaluates the three-cell wet/dry humidity profile at an
// absolute latitude in degrees, easing between band centers with a cubic
// step and holding a plateau of blend_deg around each center.
func bandProfile(latDeg float32, b config.HumidityBandsConfig, poleValue float64) float32 {
	centers := [4]float32{0, float32(b.HorseLatDeg), float32(b.FerrelLatDeg), 90}
	values := [4]float32{float32(b.EquatorWet), float32(b.HorseDry), float32(b.TemperateWet), float32(poleValue)}
	blend := float32(b.BlendDeg)

	for i := 0; i < 3; i++ {
		if latDeg > centers[i+1] {
			continue
		}
		lo := centers[i] + blend
		hi := centers[i+1] - blend
		if hi <= lo {
			// Bands too close for a plateau; ease across the whole span.
			lo = centers[i]
			hi = centers[i+1]
		}
		t := smoothstep((latDeg - lo) / (hi - lo))
		return lerp32(values[i], values[i+1], t)
	}
	return values[3]
}

// beltDirections returns the canonical unit direction of each wind belt for
// the given hemisphere. In grid coordinates +y points toward v=1, so
// "toward the equator" flips sign across the equator.
func beltDirections(northern bool) (trade, westerly, polar [2]float32) {
	eq := float32(1) // +y is equatorward in the northern half (v < 0.5)
	if !northern {
		eq = -1
	}
	// Trades blow east-to-west bending equatorward, westerlies west-to-east
	// bending poleward, polar easterlies east-to-west bending equatorward.
	trade = [2]float32{-0.866, 0.5 * eq}
	westerly = [2]float32{0.94, -0.342 * eq}
	polar = [2]float32{-0.94, 0.342 * eq}
	return
}

// Generate recomputes all three baseline fields from scratch. With a nonzero
// world seed the result is bit-identical across runs.
func (s *BaselineStage) Generate() error {
	w, h := s.cfg.Grid.Width, s.cfg.Grid.Height
	if w <= 0 || h <= 0 {
		return ErrInvalidConfig
	}

	seed := noise.EffectiveSeed(s.seeds.Seed())
	tempCfg := s.cfg.Temperature
	humCfg := s.cfg.Humidity
	windCfg := s.cfg.Wind

	tempNoise := noise.NewFractal(noise.Offset(seed, channelTemp),
		tempCfg.Noise.Octaves, tempCfg.Noise.Lacunarity, tempCfg.Noise.Gain)
	humNoise := noise.NewFractal(noise.Offset(seed, channelHumidity),
		humCfg.Noise.Octaves, humCfg.Noise.Lacunarity, humCfg.Noise.Gain)
	jitterNoise := noise.NewFractal(noise.Offset(seed, channelJitter),
		windCfg.JitterNoise.Octaves, windCfg.JitterNoise.Lacunarity, windCfg.JitterNoise.Gain)
	calmNoise := noise.NewFractal(noise.Offset(seed, channelCalm),
		windCfg.CalmNoise.Octaves, windCfg.CalmNoise.Lacunarity, windCfg.CalmNoise.Gain)

	temp := field.NewScalar(w, h)
	hum := field.NewScalar(w, h)
	wind := field.NewVector(w, h)

	parallelFor(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			v := field.NormCoord(y, h)
			lat01 := abs32(v-0.5) * 2
			latDeg := lat01 * 90
			northern := v < 0.5

			tBase := latBaseline(v, tempCfg.Pole, tempCfg.Equator, tempCfg.LatitudeFalloff)
			hBase := latBaseline(v, humCfg.Pole, humCfg.Equator, humCfg.LatitudeFalloff)
			hBand := bandProfile(latDeg, humCfg.Bands, humCfg.Pole)
			hRow := lerp32(hBase, hBand, float32(humCfg.Bands.Weight))

			// Inverse-distance belt weights, normalized to sum to 1.
			trade, westerly, polar := beltDirections(northern)
			wTrade := 1 / (abs32(latDeg-float32(windCfg.Belts.TradeLatDeg)) + 1)
			wWest := 1 / (abs32(latDeg-float32(windCfg.Belts.WesterlyLatDeg)) + 1)
			wPolar := 1 / (abs32(latDeg-float32(windCfg.Belts.PolarLatDeg)) + 1)
			norm := wTrade + wWest + wPolar
			wTrade /= norm
			wWest /= norm
			wPolar /= norm
			baseX := trade[0]*wTrade + westerly[0]*wWest + polar[0]*wPolar
			baseY := trade[1]*wTrade + westerly[1]*wWest + polar[1]*wPolar

			for x := 0; x < w; x++ {
				u := field.NormCoord(x, w)
				nu := float64(u)
				nv := float64(v)

				t := tBase + float32(tempNoise.Eval2(nu*tempCfg.Noise.Scale, nv*tempCfg.Noise.Scale)*tempCfg.Noise.Strength)
				temp.Set(x, y, clamp01(t))

				hv := hRow + float32(humNoise.Eval2(nu*humCfg.Noise.Scale, nv*humCfg.Noise.Scale)*humCfg.Noise.Strength)
				hum.Set(x, y, clamp01(hv))

				// Seeded angular jitter, then calm-zone damping from an
				// independent noise field.
				angle := jitterNoise.Eval2(nu*windCfg.JitterNoise.Scale, nv*windCfg.JitterNoise.Scale) * windCfg.MaxJitterRad
				sin, cos := math.Sincos(angle)
				jx := baseX*float32(cos) - baseY*float32(sin)
				jy := baseX*float32(sin) + baseY*float32(cos)

				calm := float32(calmNoise.Eval01(nu*windCfg.CalmNoise.Scale, nv*windCfg.CalmNoise.Scale))
				mag := float32(windCfg.Belts.Strength) * (1 - float32(windCfg.CalmDamping)*(1-calm))
				wind.Set(x, y, jx*mag, jy*mag)
			}
		}
	})

	s.temperature = temp
	s.humidity = hum
	s.wind = wind
	s.seedUsed = seed
	return nil
}

// Temperature returns the latitude-baseline temperature field.
func (s *BaselineStage) Temperature() *field.Scalar { return s.temperature }

// Humidity returns the latitude-baseline humidity field.
func (s *BaselineStage) Humidity() *field.Scalar { return s.humidity }

// Wind returns the belt wind baseline.
func (s *BaselineStage) Wind() *field.Vector { return s.wind }

// SeedUsed returns the seed the last generation actually ran with, after
// resolving the zero sentinel.
func (s *BaselineStage) SeedUsed() int64 { return s.seedUsed }
