package main

import (
	"flag"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/pthm-cable/atmo/climate"
	"github.com/pthm-cable/atmo/config"
	"github.com/pthm-cable/atmo/field"
	"github.com/pthm-cable/atmo/telemetry"
	"github.com/pthm-cable/atmo/world"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV stats and config snapshot")
	seed := flag.Int64("seed", 0, "World seed (0 = use config; config seed 0 = random per pass)")
	passes := flag.Int("passes", 1, "Number of generation passes to run")
	writeImages := flag.Bool("images", false, "Export final fields as PNG into the output directory")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *seed != 0 {
		cfg.Grid.Seed = *seed
		if err := cfg.Finalize(); err != nil {
			slog.Error("invalid config after seed override", "error", err)
			os.Exit(1)
		}
	}

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	outDir := cfg.Telemetry.OutputDir
	if *outputDir != "" {
		outDir = *outputDir
	}
	output, err := telemetry.NewOutputManager(outDir)
	if err != nil {
		logger.Error("failed to initialize output", "error", err)
		os.Exit(1)
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		logger.Error("failed to write config snapshot", "error", err)
		os.Exit(1)
	}

	// Self-contained terrain: no external elevation feed in batch mode.
	heightmap, regions, plates := world.Synthesize(world.DefaultSynthOptions(
		cfg.Grid.Width, cfg.Grid.Height, cfg.Grid.Seed, cfg.Derived.SeaLevel32))

	pipeline := climate.New(cfg, logger, heightmap, regions, plates, world.FixedSeed(cfg.Grid.Seed))

	logger.Info("starting generation",
		"width", cfg.Grid.Width,
		"height", cfg.Grid.Height,
		"seed", cfg.Grid.Seed,
		"passes", *passes,
	)

	for i := 0; i < *passes; i++ {
		if err := pipeline.Generate(); err != nil {
			logger.Error("generation pass failed", "pass", i, "error", err)
			os.Exit(1)
		}
		if err := output.WriteFieldStats(pipeline.FieldStats()); err != nil {
			logger.Error("failed to write field stats", "error", err)
			os.Exit(1)
		}
		if err := output.WritePerf(pipeline.Passes(), pipeline.PerfStats()); err != nil {
			logger.Error("failed to write perf stats", "error", err)
			os.Exit(1)
		}
	}

	if *writeImages {
		if outDir == "" {
			logger.Error("images requested without an output directory")
			os.Exit(1)
		}
		images := map[string]*field.Scalar{
			"temperature.png": pipeline.Temperature(),
			"humidity.png":    pipeline.Humidity(),
			"snow.png":        pipeline.SnowMask(),
			"wind_speed.png":  windSpeed(pipeline.Wind()),
		}
		for name, f := range images {
			if err := writeFieldPNG(filepath.Join(outDir, name), f); err != nil {
				logger.Error("failed to export field image", "file", name, "error", err)
				os.Exit(1)
			}
		}
	}

	logger.Info("generation complete", "passes", pipeline.Passes())
}

// windSpeed collapses a vector field to its per-pixel magnitude, clamped to
// the unit interval for export.
func windSpeed(w *field.Vector) *field.Scalar {
	out := field.NewScalar(w.W, w.H)
	for i := range out.Data {
		out.Data[i] = field.Clamp01(float32(math.Hypot(float64(w.X[i]), float64(w.Y[i]))))
	}
	return out
}

// writeFieldPNG exports a unit-interval scalar field as 8-bit grayscale.
func writeFieldPNG(path string, f *field.Scalar) error {
	img := image.NewGray(image.Rect(0, 0, f.W, f.H))
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(field.Clamp01(f.At(x, y))*255 + 0.5)})
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return png.Encode(file, img)
}
