package climate

import (
	"math"
	"testing"
)

// gyreChain builds the terrain/baseline/basins/oceanwind chain over an
// all-ocean world with belt noise zeroed out so the baseline wind is pure
// latitude bands.
func gyreChain(t *testing.T, w, h int) (*Pipeline, *OceanWindStage) {
	t.Helper()
	cfg := testConfig(t, w, h)
	cfg.Wind.CalmDamping = 0
	cfg.Wind.MaxJitterRad = 0
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("finalizing config: %v", err)
	}
	p := testPipeline(t, cfg, flatHeightmap(w, h, 0.1))
	for _, stage := range []interface{ Generate() error }{
		p.Terrain, p.Baseline, p.Basins, p.OceanWind,
	} {
		if err := stage.Generate(); err != nil {
			t.Fatalf("generating stage: %v", err)
		}
	}
	return p, p.OceanWind
}

func TestOceanWindAddsCounterClockwiseTangent(t *testing.T) {
	_, ow := gyreChain(t, 33, 33)

	// Directly east of the centroid (16,16) the counter-clockwise tangent
	// points north (negative y in grid coordinates... here +y is down, so
	// the tangent at (+rx, 0) is (0, +1) scaled). Compare against baseline.
	cfg := testConfig(t, 33, 33)
	cfg.Wind.CalmDamping = 0
	cfg.Wind.MaxJitterRad = 0
	cfg.Wind.Swirl.Strength = 0
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("finalizing config: %v", err)
	}
	base := testPipeline(t, cfg, flatHeightmap(33, 33, 0.1))
	for _, stage := range []interface{ Generate() error }{
		base.Terrain, base.Baseline, base.Basins, base.OceanWind,
	} {
		if err := stage.Generate(); err != nil {
			t.Fatalf("generating baseline stage: %v", err)
		}
	}

	x, y := 24, 16
	wx, wy := ow.Wind().At(x, y)
	bx, by := base.OceanWind.Wind().At(x, y)
	if wx != bx {
		t.Errorf("x component changed east of centroid: got %v, baseline %v", wx, bx)
	}
	if wy <= by {
		t.Errorf("tangent east of centroid must push +y: got %v, baseline %v", wy, by)
	}
}

func TestOceanWindTangentMagnitudeFades(t *testing.T) {
	cfg := testConfig(t, 33, 33)
	cfg.Wind.CalmDamping = 0
	cfg.Wind.MaxJitterRad = 0
	cfg.Wind.Swirl.Strength = 0.5
	cfg.Wind.Swirl.RangePx = 10
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("finalizing config: %v", err)
	}
	p := testPipeline(t, cfg, flatHeightmap(33, 33, 0.1))
	for _, stage := range []interface{ Generate() error }{
		p.Terrain, p.Baseline, p.Basins, p.OceanWind,
	} {
		if err := stage.Generate(); err != nil {
			t.Fatalf("generating stage: %v", err)
		}
	}

	// Tangent contribution is swirl-strength scaled by (1 - d/range).
	near := tangentDelta(p, 18, 16) // d=2
	far := tangentDelta(p, 22, 16)  // d=6
	if near <= far {
		t.Errorf("tangent must fade with distance: near %v, far %v", near, far)
	}
	// Beyond the range the wind is untouched.
	if out := tangentDelta(p, 32, 16); out != 0 { // d=16 > range 10
		t.Errorf("tangent beyond range = %v, want 0", out)
	}
}

// tangentDelta measures how far the gyre wind departs from the baseline wind
// at one pixel.
func tangentDelta(p *Pipeline, x, y int) float64 {
	wx, wy := p.OceanWind.Wind().At(x, y)
	bx, by := p.Baseline.Wind().At(x, y)
	return math.Hypot(float64(wx-bx), float64(wy-by))
}

func TestOceanWindCentroidKeepsBaseline(t *testing.T) {
	p, ow := gyreChain(t, 33, 33)

	// The basin centroid of a full 33x33 ocean is exactly (16,16); the
	// tangent is undefined there and the baseline wind passes through.
	wx, wy := ow.Wind().At(16, 16)
	bx, by := p.Baseline.Wind().At(16, 16)
	if wx != bx || wy != by {
		t.Errorf("centroid wind = (%v,%v), want baseline (%v,%v)", wx, wy, bx, by)
	}
}

func TestOceanWindLandPassesThrough(t *testing.T) {
	w, h := 32, 32
	cfg := testConfig(t, w, h)
	cfg.Wind.CalmDamping = 0
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("finalizing config: %v", err)
	}
	// All land: every pixel above sea level, no basins anywhere.
	p := testPipeline(t, cfg, flatHeightmap(w, h, 0.9))
	for _, stage := range []interface{ Generate() error }{
		p.Terrain, p.Baseline, p.Basins, p.OceanWind,
	} {
		if err := stage.Generate(); err != nil {
			t.Fatalf("generating stage: %v", err)
		}
	}
	for y := 0; y < h; y += 7 {
		for x := 0; x < w; x += 7 {
			wx, wy := p.OceanWind.Wind().At(x, y)
			bx, by := p.Baseline.Wind().At(x, y)
			if wx != bx || wy != by {
				t.Fatalf("land wind at (%d,%d) = (%v,%v), want baseline (%v,%v)", x, y, wx, wy, bx, by)
			}
		}
	}
}
