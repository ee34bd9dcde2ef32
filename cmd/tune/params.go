// Package main provides Nelder-Mead fitting of climate parameters against
// target field statistics.
package main

import (
	"github.com/pthm-cable/atmo/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable climate parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Temperature
			{Name: "temp_altitude_strength", Path: "temperature.altitude_strength", Min: 0.1, Max: 1.0, Default: 0.55},
			{Name: "temp_coastal_blend", Path: "temperature.coastal.blend", Min: 0.0, Max: 1.0, Default: 0.6},
			// Humidity
			{Name: "hum_altitude_strength", Path: "humidity.altitude_strength", Min: 0.1, Max: 1.0, Default: 0.5},
			{Name: "hum_coastal_blend", Path: "humidity.coastal.blend", Min: 0.0, Max: 1.0, Default: 0.7},
			{Name: "hum_band_weight", Path: "humidity.bands.weight", Min: 0.0, Max: 1.0, Default: 0.55},
			// Rain shadow
			{Name: "shadow_leeward_loss", Path: "rain_shadow.leeward_loss", Min: 0.1, Max: 1.5, Default: 0.9},
			{Name: "shadow_persistence", Path: "rain_shadow.shadow_persistence", Min: 0.2, Max: 1.0, Default: 0.75},
			{Name: "shadow_windward_boost", Path: "rain_shadow.windward_boost", Min: 0.0, Max: 1.0, Default: 0.45},
			// Wind
			{Name: "wind_inject_strength", Path: "wind.propagation.inject_strength", Min: 0.2, Max: 1.5, Default: 0.8},
			{Name: "wind_swirl_strength", Path: "wind.swirl.strength", Min: 0.0, Max: 1.0, Default: 0.3},
			// Advection
			{Name: "advection_blend", Path: "advection.blend", Min: 0.1, Max: 0.9, Default: 0.45},
			// Snow
			{Name: "snow_threshold", Path: "snow.temperature_threshold", Min: 0.05, Max: 0.5, Default: 0.22},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	// Order must match Specs order
	i := 0
	cfg.Temperature.AltitudeStrength = clamped[i]; i++
	cfg.Temperature.Coastal.Blend = clamped[i]; i++
	cfg.Humidity.AltitudeStrength = clamped[i]; i++
	cfg.Humidity.Coastal.Blend = clamped[i]; i++
	cfg.Humidity.Bands.Weight = clamped[i]; i++
	cfg.RainShadow.LeewardLoss = clamped[i]; i++
	cfg.RainShadow.ShadowPersistence = clamped[i]; i++
	cfg.RainShadow.WindwardBoost = clamped[i]; i++
	cfg.Wind.Propagation.InjectStrength = clamped[i]; i++
	cfg.Wind.Swirl.Strength = clamped[i]; i++
	cfg.Advection.Blend = clamped[i]; i++
	cfg.Snow.TemperatureThreshold = clamped[i]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Temperature.AltitudeStrength,
		cfg.Temperature.Coastal.Blend,
		cfg.Humidity.AltitudeStrength,
		cfg.Humidity.Coastal.Blend,
		cfg.Humidity.Bands.Weight,
		cfg.RainShadow.LeewardLoss,
		cfg.RainShadow.ShadowPersistence,
		cfg.RainShadow.WindwardBoost,
		cfg.Wind.Propagation.InjectStrength,
		cfg.Wind.Swirl.Strength,
		cfg.Advection.Blend,
		cfg.Snow.TemperatureThreshold,
	}
}
