// Package telemetry aggregates timing and field statistics for generation
// passes and writes them as structured experiment output.
package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/atmo/field"
)

// FieldStats holds summary statistics for one published field.
type FieldStats struct {
	Name   string  `csv:"field"`
	Min    float64 `csv:"min"`
	Max    float64 `csv:"max"`
	Mean   float64 `csv:"mean"`
	StdDev float64 `csv:"stddev"`
	P10    float64 `csv:"p10"`
	P50    float64 `csv:"p50"`
	P90    float64 `csv:"p90"`
}

// ComputeScalarStats summarizes a scalar field.
func ComputeScalarStats(name string, f *field.Scalar) FieldStats {
	values := make([]float64, len(f.Data))
	for i, v := range f.Data {
		values[i] = float64(v)
	}
	return computeStats(name, values)
}

// ComputeMagnitudeStats summarizes the magnitude plane of a vector field.
func ComputeMagnitudeStats(name string, f *field.Vector) FieldStats {
	values := make([]float64, len(f.X))
	for i := range f.X {
		values[i] = math.Hypot(float64(f.X[i]), float64(f.Y[i]))
	}
	return computeStats(name, values)
}

func computeStats(name string, values []float64) FieldStats {
	s := FieldStats{Name: name}
	if len(values) == 0 {
		return s
	}
	mean, std := stat.MeanStdDev(values, nil)
	s.Mean = mean
	s.StdDev = std

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.P10 = stat.Quantile(0.1, stat.Empirical, sorted, nil)
	s.P50 = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	s.P90 = stat.Quantile(0.9, stat.Empirical, sorted, nil)
	return s
}

// LogValue implements slog.LogValuer so stats render compactly.
func (s FieldStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("field", s.Name),
		slog.Float64("min", s.Min),
		slog.Float64("max", s.Max),
		slog.Float64("mean", s.Mean),
		slog.Float64("stddev", s.StdDev),
	)
}
