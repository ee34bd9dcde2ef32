package climate

import (
	"math"
	"testing"

	"github.com/pthm-cable/atmo/world"
)

func TestAllOceanSingleBasin(t *testing.T) {
	// 64x64 flat elevation 0.1 with sea level 0.3: every pixel is ocean,
	// one basin, 4096 pixels, centroid at the grid center.
	cfg := testConfig(t, 64, 64)
	cfg.Grid.SeaLevel = 0.3
	if err := cfg.Finalize(); err != nil {
		t.Fatal(err)
	}

	terrain := NewTerrainStage(cfg, testLogger(), flatHeightmap(64, 64, 0.1))
	regions, plates := singleOceanRegion(64, 64)
	stage := NewBasinStage(cfg, testLogger(), regions, plates, terrain)

	if err := stage.Generate(); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	basins := stage.Basins()
	if len(basins) != 1 {
		t.Fatalf("basin count = %d, want 1", len(basins))
	}
	b := basins[0]
	if b.PixelCount != 4096 {
		t.Errorf("pixel count = %d, want 4096", b.PixelCount)
	}
	if math.Abs(b.CentroidX-31.5) > 1e-9 || math.Abs(b.CentroidY-31.5) > 1e-9 {
		t.Errorf("centroid = (%v,%v), want (31.5,31.5)", b.CentroidX, b.CentroidY)
	}
}

// splitRegions partitions a 16x16 grid into a left and right oceanic region.
func splitRegions(t *testing.T) (world.RegionSource, world.PlateSource) {
	t.Helper()
	const w, h = 16, 16
	ids := make([]int, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x >= w/2 {
				ids[y*w+x] = 1
			}
		}
	}
	regions := world.NewGridRegionMap(w, h, ids)
	plates := &world.PlateTypes{
		Types:   map[int]world.PlateType{0: world.PlateOceanic, 1: world.PlateOceanic},
		Default: world.PlateContinental,
	}
	return regions, plates
}

func TestBasinMergeThresholdLaws(t *testing.T) {
	cfg := testConfig(t, 16, 16)
	cfg.Grid.SeaLevel = 0.5
	terrain := NewTerrainStage(cfg, testLogger(), flatHeightmap(16, 16, 0.1))
	regions, plates := splitRegions(t)

	// Threshold far above any possible border: no merges, one basin per
	// oceanic region.
	cfg.Basins.MinSharedBorderPx = math.MaxInt32
	if err := cfg.Finalize(); err != nil {
		t.Fatal(err)
	}
	stage := NewBasinStage(cfg, testLogger(), regions, plates, terrain)
	if err := stage.Generate(); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got := len(stage.Basins()); got != 2 {
		t.Errorf("infinite threshold basin count = %d, want 2", got)
	}

	// Threshold 0: every adjacent oceanic pair merges; the two halves share
	// a 16-pixel border and collapse into one basin.
	cfg.Basins.MinSharedBorderPx = 0
	if err := cfg.Finalize(); err != nil {
		t.Fatal(err)
	}
	if err := stage.Generate(); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got := len(stage.Basins()); got != 1 {
		t.Errorf("zero threshold basin count = %d, want 1", got)
	}
	if got := stage.Basins()[0].PixelCount; got != 256 {
		t.Errorf("merged basin pixel count = %d, want 256", got)
	}
}

func TestBasinBorderThresholdBlocksThinBridges(t *testing.T) {
	cfg := testConfig(t, 16, 16)
	cfg.Grid.SeaLevel = 0.5
	cfg.Basins.MinSharedBorderPx = 17 // just above the 16-pixel shared edge
	if err := cfg.Finalize(); err != nil {
		t.Fatal(err)
	}
	terrain := NewTerrainStage(cfg, testLogger(), flatHeightmap(16, 16, 0.1))
	regions, plates := splitRegions(t)
	stage := NewBasinStage(cfg, testLogger(), regions, plates, terrain)

	if err := stage.Generate(); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got := len(stage.Basins()); got != 2 {
		t.Errorf("basin count = %d, want 2 when border is under threshold", got)
	}
}

func TestBasinStatsExcludeDryPixels(t *testing.T) {
	// Oceanic by plate type, but the right half of the region sits above
	// sea level; only true water pixels count.
	cfg := testConfig(t, 8, 8)
	cfg.Grid.SeaLevel = 0.5
	if err := cfg.Finalize(); err != nil {
		t.Fatal(err)
	}
	hm := heightmapFrom(8, 8, func(x, y int) float32 {
		if x >= 4 {
			return 0.9
		}
		return 0.1
	})
	terrain := NewTerrainStage(cfg, testLogger(), hm)
	regions, plates := singleOceanRegion(8, 8)
	stage := NewBasinStage(cfg, testLogger(), regions, plates, terrain)

	if err := stage.Generate(); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got := stage.Basins()[0].PixelCount; got != 32 {
		t.Errorf("pixel count = %d, want 32 water-only pixels", got)
	}
	if cx := stage.Basins()[0].CentroidX; math.Abs(cx-1.5) > 1e-9 {
		t.Errorf("centroid x = %v, want 1.5 over the wet half", cx)
	}
	if stage.BasinAt(6, 3) != -1 {
		t.Errorf("dry pixel mapped to basin %d, want -1", stage.BasinAt(6, 3))
	}
}

func TestBasinResolutionMismatch(t *testing.T) {
	cfg := testConfig(t, 8, 8)
	terrain := NewTerrainStage(cfg, testLogger(), flatHeightmap(8, 8, 0.1))
	regions, plates := singleOceanRegion(4, 4) // wrong resolution
	stage := NewBasinStage(cfg, testLogger(), regions, plates, terrain)

	if err := stage.Generate(); err != ErrResolutionMismatch {
		t.Fatalf("Generate err = %v, want ErrResolutionMismatch", err)
	}
	if stage.Generated() {
		t.Error("stage published output despite mismatch")
	}
}

func TestUnionFindPathCompression(t *testing.T) {
	uf := newUnionFind(8)
	// Build a chain 0-1-2-...-7.
	for i := 0; i < 7; i++ {
		uf.union(i, i+1)
	}
	root := uf.find(0)
	for i := 1; i < 8; i++ {
		if uf.find(i) != root {
			t.Fatalf("element %d not in root set", i)
		}
	}
	// After compression every element points at the root directly.
	for i := 0; i < 8; i++ {
		if uf.parent[i] != root {
			t.Errorf("parent[%d] = %d, want compressed to %d", i, uf.parent[i], root)
		}
	}
}
