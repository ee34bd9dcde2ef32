package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/atmo/field"
)

func TestComputeScalarStats(t *testing.T) {
	f := field.NewScalar(4, 1)
	f.Data[0] = 0.0
	f.Data[1] = 0.25
	f.Data[2] = 0.5
	f.Data[3] = 1.0

	s := ComputeScalarStats("humidity", f)
	if s.Name != "humidity" {
		t.Errorf("name = %q, want humidity", s.Name)
	}
	if s.Min != 0 || s.Max != 1 {
		t.Errorf("min/max = %v/%v, want 0/1", s.Min, s.Max)
	}
	if math.Abs(s.Mean-0.4375) > 1e-9 {
		t.Errorf("mean = %v, want 0.4375", s.Mean)
	}
	if s.StdDev <= 0 {
		t.Errorf("stddev = %v, want > 0", s.StdDev)
	}
}

func TestComputeMagnitudeStats(t *testing.T) {
	f := field.NewVector(2, 1)
	f.Set(0, 0, 3, 4)
	f.Set(1, 0, 0, 0)

	s := ComputeMagnitudeStats("wind", f)
	if s.Max != 5 {
		t.Errorf("max magnitude = %v, want 5", s.Max)
	}
	if s.Min != 0 {
		t.Errorf("min magnitude = %v, want 0", s.Min)
	}
}

func TestEmptyStats(t *testing.T) {
	s := computeStats("empty", nil)
	if s.Mean != 0 || s.Min != 0 || s.Max != 0 {
		t.Errorf("empty stats not zeroed: %+v", s)
	}
}
