package climate

import "testing"

func TestDistanceAllWaterIsZero(t *testing.T) {
	const w, h = 64, 64
	water := make([]bool, w*h)
	for i := range water {
		water[i] = true
	}
	dist := distanceToWater(w, h, water, 2, 48)
	for i, d := range dist {
		if d != 0 {
			t.Fatalf("dist[%d] = %d, want 0 on an all-water grid", i, d)
		}
	}
}

func TestDistanceSingleWaterCell(t *testing.T) {
	const w, h = 9, 9
	water := make([]bool, w*h)
	water[4*w+4] = true

	dist := distanceToWater(w, h, water, 2, 100)
	if dist[4*w+4] != 0 {
		t.Errorf("water cell distance = %d, want 0", dist[4*w+4])
	}
	// 8-neighbor chamfer: diagonal steps count 1, so the corner is 4 away.
	if dist[0] != 4 {
		t.Errorf("corner distance = %d, want 4", dist[0])
	}
	if dist[4*w+5] != 1 {
		t.Errorf("adjacent distance = %d, want 1", dist[4*w+5])
	}
}

func TestDistanceCapsAtMaxRange(t *testing.T) {
	const w, h = 32, 1
	water := make([]bool, w*h)
	water[0] = true

	dist := distanceToWater(w, h, water, 2, 5)
	for x := 0; x < w; x++ {
		if dist[x] > 5 {
			t.Fatalf("dist[%d] = %d, exceeds cap 5", x, dist[x])
		}
	}
	if dist[3] != 3 {
		t.Errorf("dist[3] = %d, want 3", dist[3])
	}
	if dist[31] != 5 {
		t.Errorf("dist[31] = %d, want cap 5", dist[31])
	}
}

func TestDistanceNoWaterStaysCapped(t *testing.T) {
	const w, h = 8, 8
	water := make([]bool, w*h)
	dist := distanceToWater(w, h, water, 2, 16)
	for i, d := range dist {
		if d != 16 {
			t.Fatalf("dist[%d] = %d, want cap 16 on a waterless grid", i, d)
		}
	}
}
