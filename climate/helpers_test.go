package climate

import (
	"io"
	"log/slog"
	"testing"

	"github.com/pthm-cable/atmo/config"
	"github.com/pthm-cable/atmo/field"
	"github.com/pthm-cable/atmo/world"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testConfig loads defaults and rescales the grid. Tests override individual
// knobs and re-Finalize as needed.
func testConfig(t *testing.T, w, h int) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading default config: %v", err)
	}
	cfg.Grid.Width = w
	cfg.Grid.Height = h
	cfg.Grid.Seed = 99
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("finalizing config: %v", err)
	}
	return cfg
}

// flatHeightmap builds a grid-aligned heightmap with uniform elevation.
func flatHeightmap(w, h int, elevation float32) *world.Heightmap {
	return world.UniformHeightmap(w, h, elevation)
}

// heightmapFrom builds a grid-aligned heightmap from explicit per-cell
// elevations.
func heightmapFrom(w, h int, set func(x, y int) float32) *world.Heightmap {
	f := field.NewScalar(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			f.Set(x, y, set(x, y))
		}
	}
	return world.NewHeightmap(f)
}

// singleOceanRegion partitions the whole grid into one oceanic region.
func singleOceanRegion(w, h int) (world.RegionSource, world.PlateSource) {
	ids := make([]int, w*h)
	regions := world.NewGridRegionMap(w, h, ids)
	plates := &world.PlateTypes{
		Types:   map[int]world.PlateType{0: world.PlateOceanic},
		Default: world.PlateContinental,
	}
	return regions, plates
}

// testPipeline wires a pipeline over a uniform-elevation world.
func testPipeline(t *testing.T, cfg *config.Config, elev world.ElevationSource) *Pipeline {
	t.Helper()
	regions, plates := singleOceanRegion(cfg.Grid.Width, cfg.Grid.Height)
	return New(cfg, testLogger(), elev, regions, plates, world.FixedSeed(cfg.Grid.Seed))
}
