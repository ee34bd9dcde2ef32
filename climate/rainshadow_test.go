package climate

import (
	"testing"

	"github.com/pthm-cable/atmo/config"
	"github.com/pthm-cable/atmo/world"
)

// shadowChain builds terrain -> baseline -> refiners -> rain shadow over the
// given heightmap with noise disabled so rows are uniform along the march.
func shadowChain(t *testing.T, cfg *config.Config, hm world.ElevationSource) (*RefinerStage, *RainShadowStage) {
	t.Helper()
	cfg.Temperature.Noise.Strength = 0
	cfg.Humidity.Noise.Strength = 0
	if err := cfg.Finalize(); err != nil {
		t.Fatal(err)
	}
	terrain := NewTerrainStage(cfg, testLogger(), hm)
	baseline := NewBaselineStage(cfg, testLogger(), world.FixedSeed(cfg.Grid.Seed))
	refiner := NewRefinerStage(cfg, testLogger(), baseline, terrain)
	shadow := NewRainShadowStage(cfg, testLogger(), refiner, terrain)
	return refiner, shadow
}

func TestRainShadowRidgeScenario(t *testing.T) {
	// A single full-height ridge bisecting a flat 32x32 ocean grid with
	// west-to-east wind: the east side must end up strictly drier than the
	// west side.
	cfg := testConfig(t, 32, 32)
	cfg.Grid.SeaLevel = 0.3
	cfg.RainShadow.Direction = "east"

	hm := heightmapFrom(32, 32, func(x, y int) float32 {
		if x == 16 {
			return 0.9
		}
		return 0.1
	})
	_, shadow := shadowChain(t, cfg, hm)
	if err := shadow.Generate(); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	hum := shadow.Humidity()
	y := 16
	west := hum.At(13, y)
	east := hum.At(19, y)
	if east >= west {
		t.Errorf("east humidity %v not strictly below west %v", east, west)
	}
}

func TestRainShadowWindwardRainout(t *testing.T) {
	// Flat land approach then a single steep rise: the windward ridge pixel
	// must be at least as wet as the flat pixel before it, and the pixel
	// past the ridge at most as wet as the approach.
	cfg := testConfig(t, 32, 8)
	cfg.Grid.SeaLevel = 0.05 // everything is land
	cfg.RainShadow.Direction = "east"

	hm := heightmapFrom(32, 8, func(x, y int) float32 {
		switch {
		case x < 16:
			return 0.2
		case x == 16:
			return 0.8
		default:
			return 0.8
		}
	})
	refiner, shadow := shadowChain(t, cfg, hm)
	if err := shadow.Generate(); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	hum := shadow.Humidity()
	y := 4
	preRidge := hum.At(15, y)
	ridge := hum.At(16, y)
	if ridge < preRidge {
		t.Errorf("ridge humidity %v below pre-ridge %v, want windward rainout", ridge, preRidge)
	}

	// Leeward drying: relative suppression past the ridge must exceed the
	// suppression before it. Compare against the refined input to cancel
	// the altitude term.
	in := refiner.Humidity()
	ratioBefore := preRidge / in.At(15, y)
	ratioAfter := hum.At(20, y) / in.At(20, y)
	if ratioAfter > ratioBefore {
		t.Errorf("post-ridge ratio %v exceeds pre-ridge ratio %v, want leeward drying", ratioAfter, ratioBefore)
	}
}

func TestRainShadowOceanRecharge(t *testing.T) {
	// After a drying ridge, a long stretch of open water rebuilds the air
	// column, so humidity suppression fades downwind over the ocean.
	cfg := testConfig(t, 64, 8)
	cfg.Grid.SeaLevel = 0.3
	cfg.RainShadow.Direction = "east"

	hm := heightmapFrom(64, 8, func(x, y int) float32 {
		if x == 8 {
			return 0.9
		}
		return 0.1
	})
	refiner, shadow := shadowChain(t, cfg, hm)
	if err := shadow.Generate(); err != nil {
		t.Fatal(err)
	}

	hum := shadow.Humidity()
	in := refiner.Humidity()
	y := 4
	justPast := hum.At(10, y) / in.At(10, y)
	farPast := hum.At(60, y) / in.At(60, y)
	if farPast <= justPast {
		t.Errorf("suppression ratio %v far downwind not above %v at the ridge, want recharge", farPast, justPast)
	}
}

func TestRainShadowDirections(t *testing.T) {
	// A north-south ridge shadows eastward; marching north instead must
	// leave the east-west symmetry intact.
	cfg := testConfig(t, 16, 16)
	cfg.Grid.SeaLevel = 0.05
	cfg.RainShadow.Direction = "north"

	hm := heightmapFrom(16, 16, func(x, y int) float32 {
		if y == 8 {
			return 0.9
		}
		return 0.2
	})
	_, shadow := shadowChain(t, cfg, hm)
	if err := shadow.Generate(); err != nil {
		t.Fatal(err)
	}

	hum := shadow.Humidity()
	// Marching north (from the south edge), the shadow falls on the north
	// side of the ridge.
	south := hum.At(8, 12)
	north := hum.At(8, 4)
	if north >= south {
		t.Errorf("north humidity %v not below south %v under northward march", north, south)
	}
}

func TestRainShadowInvalidDirection(t *testing.T) {
	cfg := testConfig(t, 8, 8)
	_, shadow := shadowChain(t, cfg, flatHeightmap(8, 8, 0.5))
	cfg.RainShadow.Direction = "upward"

	if err := shadow.Generate(); err != ErrInvalidConfig {
		t.Fatalf("Generate err = %v, want ErrInvalidConfig", err)
	}
	if shadow.Humidity() != nil {
		t.Error("stage published output despite invalid direction")
	}
}
