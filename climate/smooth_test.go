package climate

import (
	"math"
	"testing"

	"github.com/pthm-cable/atmo/field"
)

func TestBoxBlurUniformIsIdentity(t *testing.T) {
	const w, h = 16, 16
	src := make([]float32, w*h)
	for i := range src {
		src[i] = 0.4
	}
	out := blurPlane(src, w, h, 2, 3)
	for i, v := range out {
		if math.Abs(float64(v)-0.4) > 1e-5 {
			t.Fatalf("blur[%d] = %v, want 0.4 on uniform input", i, v)
		}
	}
}

func TestBoxBlurPreservesMeanInRow(t *testing.T) {
	const w, h = 8, 1
	src := []float32{0, 0, 0, 1, 1, 0, 0, 0}
	dst := make([]float32, w)
	boxBlurRow(src, dst, w, h, 1)

	// Peak spreads but the impulse does not grow.
	for i, v := range dst {
		if v > 1 {
			t.Errorf("blur[%d] = %v, exceeds input maximum", i, v)
		}
	}
	if dst[3] >= 1 {
		t.Errorf("blurred peak %v not reduced", dst[3])
	}
	if dst[2] <= 0 {
		t.Errorf("blur did not spread left: %v", dst[2])
	}
}

func TestSmoothingEdgeAwareBlend(t *testing.T) {
	// A sharp discontinuity gets more smoothing than a flat area.
	const w, h = 32, 8
	src := field.NewVector(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < w/2 {
				src.Set(x, y, 1, 0)
			} else {
				src.Set(x, y, -1, 0)
			}
		}
	}

	cfg := testConfig(t, w, h)
	prop := &PropagationStage{cfg: cfg, log: testLogger(), wind: src}
	stage := NewSmoothStage(cfg, testLogger(), prop)
	if err := stage.Generate(); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	out := stage.Wind()
	// At the discontinuity the x component moves off its original value.
	edgeBefore, _ := src.At(w/2, 4)
	edgeAfter, _ := out.At(w/2, 4)
	if edgeAfter == edgeBefore {
		t.Error("edge pixel unchanged by smoothing")
	}
	// Far from the edge the field is locally uniform and moves less.
	flatBefore, _ := src.At(2, 4)
	flatAfter, _ := out.At(2, 4)
	edgeShift := abs32(edgeAfter - edgeBefore)
	flatShift := abs32(flatAfter - flatBefore)
	if flatShift >= edgeShift {
		t.Errorf("flat shift %v not below edge shift %v", flatShift, edgeShift)
	}
}

func TestSmoothingDisabledPublishesCopy(t *testing.T) {
	const w, h = 8, 8
	src := field.NewVector(w, h)
	src.Set(3, 3, 0.5, -0.5)

	cfg := testConfig(t, w, h)
	cfg.Smoothing.Iterations = 0
	prop := &PropagationStage{cfg: cfg, log: testLogger(), wind: src}
	stage := NewSmoothStage(cfg, testLogger(), prop)
	if err := stage.Generate(); err != nil {
		t.Fatal(err)
	}

	out := stage.Wind()
	if out == src {
		t.Fatal("smoothing published the upstream buffer itself")
	}
	vx, vy := out.At(3, 3)
	if vx != 0.5 || vy != -0.5 {
		t.Errorf("disabled smoothing altered values: (%v,%v)", vx, vy)
	}
}
