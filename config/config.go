// Package config provides configuration loading and access for the climate
// generator.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all generation parameters.
type Config struct {
	Grid        GridConfig        `yaml:"grid"`
	Temperature TemperatureConfig `yaml:"temperature"`
	Humidity    HumidityConfig    `yaml:"humidity"`
	Wind        WindConfig        `yaml:"wind"`
	Basins      BasinsConfig      `yaml:"basins"`
	RainShadow  RainShadowConfig  `yaml:"rain_shadow"`
	Smoothing   SmoothingConfig   `yaml:"smoothing"`
	Advection   AdvectionConfig   `yaml:"advection"`
	Snow        SnowConfig        `yaml:"snow"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// GridConfig holds resolution and world-level settings.
type GridConfig struct {
	Width    int     `yaml:"width"`     // Climate grid width in pixels
	Height   int     `yaml:"height"`    // Climate grid height in pixels
	Seed     int64   `yaml:"seed"`      // World seed; 0 = fresh random seed per run
	SeaLevel float64 `yaml:"sea_level"` // Normalized elevation below which a pixel is water
}

// NoiseConfig holds fractal noise parameters shared by several stages.
type NoiseConfig struct {
	Scale      float64 `yaml:"scale"`      // Feature frequency in grid-normalized units
	Octaves    int     `yaml:"octaves"`    // FBM octave count
	Lacunarity float64 `yaml:"lacunarity"` // Frequency multiplier per octave (>1)
	Gain       float64 `yaml:"gain"`       // Amplitude multiplier per octave (<1)
	Strength   float64 `yaml:"strength"`   // Weight of the noise contribution
}

// CoastalConfig holds coastal-moderation parameters for a scalar field.
type CoastalConfig struct {
	MarineValue float64 `yaml:"marine_value"` // Reference value at open water
	Blend       float64 `yaml:"blend"`        // Blend strength toward the marine value
	MaxRangePx  int     `yaml:"max_range_px"` // Distance beyond which the coast has no effect
	Sweeps      int     `yaml:"sweeps"`       // Chamfer forward/backward sweep pairs
}

// TemperatureConfig holds latitude baseline and terrain refinement knobs.
type TemperatureConfig struct {
	Equator          float64       `yaml:"equator"`           // Baseline at the equator
	Pole             float64       `yaml:"pole"`              // Baseline at the poles
	LatitudeFalloff  float64       `yaml:"latitude_falloff"`  // Exponent shaping pole-to-equator falloff
	AltitudeStrength float64       `yaml:"altitude_strength"` // Cooling per unit elevation
	Coastal          CoastalConfig `yaml:"coastal"`
	Noise            NoiseConfig   `yaml:"noise"`
}

// HumidityBandsConfig describes the three-cell wet/dry circulation profile.
// Latitudes are absolute degrees from the equator.
type HumidityBandsConfig struct {
	EquatorWet   float64 `yaml:"equator_wet"`    // Humidity at the ITCZ
	HorseDry     float64 `yaml:"horse_dry"`      // Humidity at the subtropical dry belt
	TemperateWet float64 `yaml:"temperate_wet"`  // Humidity at the mid-latitude wet belt
	HorseLatDeg  float64 `yaml:"horse_lat_deg"`  // Center of the dry belt
	FerrelLatDeg float64 `yaml:"ferrel_lat_deg"` // Center of the temperate wet belt
	BlendDeg     float64 `yaml:"blend_deg"`      // Half-width of the cubic blend between bands
	Weight       float64 `yaml:"weight"`         // Blend of band profile into the latitude baseline
}

// HumidityConfig holds humidity baseline and refinement knobs.
type HumidityConfig struct {
	Equator           float64             `yaml:"equator"`
	Pole              float64             `yaml:"pole"`
	LatitudeFalloff   float64             `yaml:"latitude_falloff"`
	Bands             HumidityBandsConfig `yaml:"bands"`
	AltitudeThreshold float64             `yaml:"altitude_threshold"` // Elevation above which drying starts
	AltitudeExponent  float64             `yaml:"altitude_exponent"`  // Power curve on the excess factor
	AltitudeStrength  float64             `yaml:"altitude_strength"`
	Coastal           CoastalConfig       `yaml:"coastal"`
	Noise             NoiseConfig         `yaml:"noise"`
	Floor             float64             `yaml:"floor"`   // Post-advection lower clamp
	Ceiling           float64             `yaml:"ceiling"` // Post-advection upper clamp
}

// WindBeltsConfig holds the three canonical circulation belts.
type WindBeltsConfig struct {
	TradeLatDeg    float64 `yaml:"trade_lat_deg"`    // Band center of the trade winds
	WesterlyLatDeg float64 `yaml:"westerly_lat_deg"` // Band center of the westerlies
	PolarLatDeg    float64 `yaml:"polar_lat_deg"`    // Band center of the polar easterlies
	Strength       float64 `yaml:"strength"`         // Baseline wind magnitude
}

// PropagationConfig holds coastal-wind inland propagation knobs.
type PropagationConfig struct {
	InjectStrength    float64 `yaml:"inject_strength"`     // Scale on the seeded coastal vector
	DecayPerStep      float64 `yaml:"decay_per_step"`      // Strength loss per BFS hop, in (0,1)
	MaxInlandRangePx  int     `yaml:"max_inland_range_px"` // Hop-distance cutoff
	MountainThreshold float64 `yaml:"mountain_threshold"`  // Elevation above which terrain blocks
	BlockStrength     float64 `yaml:"block_strength"`      // How completely mountains block (0..1)
	Epsilon           float64 `yaml:"epsilon"`             // Strength floor terminating a branch
}

// SwirlConfig holds basin gyre knobs for ocean wind.
type SwirlConfig struct {
	Strength float64 `yaml:"strength"` // Tangential magnitude added at the basin edge
	RangePx  float64 `yaml:"range_px"` // Distance from the centroid at which the gyre fades out
}

// WindConfig holds wind baseline, jitter, swirl, and propagation knobs.
type WindConfig struct {
	Belts        WindBeltsConfig   `yaml:"belts"`
	JitterNoise  NoiseConfig       `yaml:"jitter_noise"`   // Angular jitter field
	CalmNoise    NoiseConfig       `yaml:"calm_noise"`     // Calm-zone magnitude damping field
	MaxJitterRad float64           `yaml:"max_jitter_rad"` // Jitter amplitude in radians
	CalmDamping  float64           `yaml:"calm_damping"`   // Max fraction of magnitude removed in calm zones
	Swirl        SwirlConfig       `yaml:"swirl"`
	Propagation  PropagationConfig `yaml:"propagation"`
}

// BasinsConfig holds ocean basin clustering knobs.
type BasinsConfig struct {
	MinSharedBorderPx int `yaml:"min_shared_border_px"` // Border length required to merge two regions
}

// RainShadowConfig holds directional marching knobs.
type RainShadowConfig struct {
	Direction         string  `yaml:"direction"`          // east, west, north, south (marching direction)
	StartMoisture     float64 `yaml:"start_moisture"`     // Air moisture at the upwind edge
	OceanRecharge     float64 `yaml:"ocean_recharge"`     // Relaxation toward 1 over water
	RidgeSensitivity  float64 `yaml:"ridge_sensitivity"`  // Scale on elevation rise
	WindwardBoost     float64 `yaml:"windward_boost"`     // Humidity deposited on the windward face
	LeewardLoss       float64 `yaml:"leeward_loss"`       // Air moisture removed past a ridge
	ShadowPersistence float64 `yaml:"shadow_persistence"` // How strongly dry air suppresses humidity
}

// SmoothingConfig holds adaptive vector smoothing knobs.
type SmoothingConfig struct {
	Iterations      int     `yaml:"iterations"`       // Box blur passes
	RadiusPx        int     `yaml:"radius_px"`        // Box half-width
	BaseBlend       float64 `yaml:"base_blend"`       // Blend applied everywhere
	EdgeBoost       float64 `yaml:"edge_boost"`       // Extra blend at discontinuities
	EdgeSensitivity float64 `yaml:"edge_sensitivity"` // Divisor normalizing edge strength
}

// AdvectionConfig holds upwind transport knobs.
type AdvectionConfig struct {
	SpeedPower        float64 `yaml:"speed_power"`        // Exponent emphasizing strong flow
	DistancePx        float64 `yaml:"distance_px"`        // Upwind reach in pixels at unit speed
	Blend             float64 `yaml:"blend"`              // Mix of upwind sample into the local value
	TemperatureOffset float64 `yaml:"temperature_offset"` // Global additive offset, temperature
	HumidityOffset    float64 `yaml:"humidity_offset"`    // Global additive offset, humidity
}

// SnowConfig holds snow mask knobs.
type SnowConfig struct {
	TemperatureThreshold float64 `yaml:"temperature_threshold"` // Below this, snow appears
	ElevationBoost       float64 `yaml:"elevation_boost"`       // Raises the effective threshold with altitude
	Softness             float64 `yaml:"softness"`              // Width of the 0..1 transition
}

// TelemetryConfig controls stats output.
type TelemetryConfig struct {
	OutputDir string `yaml:"output_dir"` // Empty disables CSV output
}

// DerivedConfig holds values derived from loaded config.
type DerivedConfig struct {
	SeaLevel32 float32 // Grid.SeaLevel as float32
	InvWidth   float32 // 1 / (Grid.Width - 1)
	InvHeight  float32 // 1 / (Grid.Height - 1)
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Finalize validates the configuration and recomputes derived values. Load
// calls it automatically; callers that mutate a loaded config afterwards
// (parameter sweeps, tests) call it again before use.
func (c *Config) Finalize() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// Validate rejects configurations the pipeline cannot run with. These are
// fatal before any buffer is allocated.
func (c *Config) Validate() error {
	if c.Grid.Width <= 0 || c.Grid.Height <= 0 {
		return fmt.Errorf("config: non-positive grid resolution %dx%d", c.Grid.Width, c.Grid.Height)
	}
	if c.Humidity.AltitudeThreshold >= 1 {
		return fmt.Errorf("config: humidity altitude_threshold %.3f leaves a degenerate excess range", c.Humidity.AltitudeThreshold)
	}
	if c.Temperature.Coastal.MaxRangePx <= 0 || c.Humidity.Coastal.MaxRangePx <= 0 {
		return fmt.Errorf("config: coastal max_range_px must be positive")
	}
	if d := c.Wind.Propagation.DecayPerStep; d <= 0 || d >= 1 {
		return fmt.Errorf("config: propagation decay_per_step %.3f outside (0,1)", d)
	}
	switch c.RainShadow.Direction {
	case "east", "west", "north", "south":
	default:
		return fmt.Errorf("config: unknown rain_shadow direction %q", c.RainShadow.Direction)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.SeaLevel32 = float32(c.Grid.SeaLevel)
	if c.Grid.Width > 1 {
		c.Derived.InvWidth = 1 / float32(c.Grid.Width-1)
	}
	if c.Grid.Height > 1 {
		c.Derived.InvHeight = 1 / float32(c.Grid.Height-1)
	}
}

// WriteYAML saves the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
