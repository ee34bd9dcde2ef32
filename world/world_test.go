package world

import (
	"testing"

	"github.com/pthm-cable/atmo/field"
)

func TestHeightmapSamplesNativeResolution(t *testing.T) {
	f := field.NewScalar(4, 4)
	f.Set(0, 0, 0.2)
	f.Set(3, 3, 0.8)
	hm := NewHeightmap(f)

	if got := hm.ElevationAt(0, 0); got != 0.2 {
		t.Errorf("ElevationAt(0,0) = %v, want 0.2", got)
	}
	if got := hm.ElevationAt(1, 1); got != 0.8 {
		t.Errorf("ElevationAt(1,1) = %v, want 0.8", got)
	}
}

func TestGridRegionMapMembership(t *testing.T) {
	ids := []int{
		0, 0, 1,
		0, 1, 1,
		2, 2, 2,
	}
	m := NewGridRegionMap(3, 3, ids)

	if got := m.RegionAt(2, 0); got != 1 {
		t.Errorf("RegionAt(2,0) = %d, want 1", got)
	}
	if got := len(m.RegionIDs()); got != 3 {
		t.Fatalf("RegionIDs count = %d, want 3", got)
	}
	// Scan-order first encounter: 0, then 1, then 2.
	want := []int{0, 1, 2}
	for i, id := range m.RegionIDs() {
		if id != want[i] {
			t.Errorf("RegionIDs[%d] = %d, want %d", i, id, want[i])
		}
	}
	if got := len(m.RegionPixels(2)); got != 3 {
		t.Errorf("region 2 pixel count = %d, want 3", got)
	}
}

func TestPlateTypesDefault(t *testing.T) {
	p := &PlateTypes{
		Types:   map[int]PlateType{1: PlateOceanic},
		Default: PlateContinental,
	}
	if got := p.PlateTypeOf(1); got != PlateOceanic {
		t.Errorf("PlateTypeOf(1) = %v, want oceanic", got)
	}
	if got := p.PlateTypeOf(99); got != PlateContinental {
		t.Errorf("PlateTypeOf(99) = %v, want default continental", got)
	}
}
