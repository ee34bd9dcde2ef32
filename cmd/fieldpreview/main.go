// Climate field preview tool - interactive visualization with sliders.
//
// Usage: go run ./cmd/fieldpreview
package main

import (
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/atmo/climate"
	"github.com/pthm-cable/atmo/config"
	"github.com/pthm-cable/atmo/field"
	"github.com/pthm-cable/atmo/world"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30

	gridSize = 256
)

// View selects which generated field the preview renders.
type View int

const (
	ViewTemperature View = iota
	ViewHumidity
	ViewWindSpeed
	ViewSnow
	ViewElevation
	viewCount
)

func (v View) String() string {
	switch v {
	case ViewTemperature:
		return "Temperature"
	case ViewHumidity:
		return "Humidity"
	case ViewWindSpeed:
		return "Wind Speed"
	case ViewSnow:
		return "Snow"
	default:
		return "Elevation"
	}
}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Climate Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}
	cfg.Grid.Width = gridSize
	cfg.Grid.Height = gridSize
	if err := cfg.Finalize(); err != nil {
		panic(err)
	}

	// The preview regenerates synchronously on every slider change; keep the
	// pipeline quiet so frame logs do not flood stdout.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	view := ViewTemperature
	needsRegen := true
	var pipeline *climate.Pipeline
	var elevation *field.Scalar

	for !rl.WindowShouldClose() {
		if needsRegen {
			if err := cfg.Finalize(); err != nil {
				panic(err)
			}
			heightmap, regions, plates := world.Synthesize(world.DefaultSynthOptions(
				gridSize, gridSize, cfg.Grid.Seed, cfg.Derived.SeaLevel32))
			pipeline = climate.New(cfg, logger, heightmap, regions, plates, world.FixedSeed(cfg.Grid.Seed))
			if err := pipeline.Generate(); err != nil {
				panic(err)
			}
			elevation = pipeline.Terrain.Elevation()
			updateTexture(texture, viewField(pipeline, elevation, view))
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Draw preview
		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: float32(gridSize), Height: float32(gridSize)},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		// Draw stats
		shown := viewField(pipeline, elevation, view)
		var minVal, maxVal float32 = 1, 0
		var total float32
		for _, v := range shown.Data {
			total += v
			if v < minVal {
				minVal = v
			}
			if v > maxVal {
				maxVal = v
			}
		}
		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("%s  Min: %.3f  Max: %.3f  Avg: %.3f",
			view, minVal, maxVal, total/float32(len(shown.Data))), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Seed: %d", cfg.Grid.Seed), 15, statsY+20, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Climate Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		if changed := floatSlider(&panelX, &panelY, "Sea level", &cfg.Grid.SeaLevel, 0.1, 0.7, "%.2f"); changed {
			needsRegen = true
		}
		if changed := floatSlider(&panelX, &panelY, "Gyre swirl strength", &cfg.Wind.Swirl.Strength, 0, 1, "%.2f"); changed {
			needsRegen = true
		}
		if changed := floatSlider(&panelX, &panelY, "Coastal inject strength", &cfg.Wind.Propagation.InjectStrength, 0, 1.5, "%.2f"); changed {
			needsRegen = true
		}
		if changed := floatSlider(&panelX, &panelY, "Rain shadow leeward loss", &cfg.RainShadow.LeewardLoss, 0, 1.5, "%.2f"); changed {
			needsRegen = true
		}
		if changed := floatSlider(&panelX, &panelY, "Rain shadow persistence", &cfg.RainShadow.ShadowPersistence, 0, 1, "%.2f"); changed {
			needsRegen = true
		}
		if changed := floatSlider(&panelX, &panelY, "Altitude cooling", &cfg.Temperature.AltitudeStrength, 0, 1, "%.2f"); changed {
			needsRegen = true
		}
		if changed := floatSlider(&panelX, &panelY, "Advection blend", &cfg.Advection.Blend, 0, 1, "%.2f"); changed {
			needsRegen = true
		}
		if changed := floatSlider(&panelX, &panelY, "Snow threshold", &cfg.Snow.TemperatureThreshold, 0, 0.6, "%.2f"); changed {
			needsRegen = true
		}

		// Separator
		rl.DrawLine(int32(panelX), int32(panelY), int32(panelX)+int32(panelWidth)-20, int32(panelY), rl.LightGray)
		panelY += 15

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, fmt.Sprintf("View: %s", view)) {
			view = (view + 1) % viewCount
			updateTexture(texture, viewField(pipeline, elevation, view))
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			cfg.Grid.Seed = int64(rl.GetRandomValue(1, 99999))
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			fresh, err := config.Load("")
			if err == nil {
				fresh.Grid.Width = gridSize
				fresh.Grid.Height = gridSize
				if err := fresh.Finalize(); err == nil {
					cfg = fresh
					needsRegen = true
				}
			}
		}
		panelY += 55

		// Instructions
		rl.DrawText("Press S to save config.yaml next to the binary", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyS) {
			if err := cfg.WriteYAML("config.yaml"); err == nil {
				rl.DrawText("saved", int32(panelX), int32(windowHeight-50), 12, rl.Gray)
			}
		}

		rl.EndDrawing()
	}
}

// floatSlider draws a labeled slider bound to a config value and reports
// whether the value changed this frame.
func floatSlider(panelX, panelY *float32, label string, value *float64, min, max float64, format string) bool {
	rl.DrawText(label, int32(*panelX), int32(*panelY), 14, rl.Gray)
	*panelY += 18
	next := gui.SliderBar(
		rl.Rectangle{X: *panelX, Y: *panelY, Width: float32(panelWidth - 80), Height: 20},
		fmt.Sprintf("%.1f", min), fmt.Sprintf("%.1f", max),
		float32(*value), float32(min), float32(max),
	)
	rl.DrawText(fmt.Sprintf(format, *value), int32(*panelX+float32(panelWidth-70)), int32(*panelY+2), 16, rl.DarkGray)
	*panelY += 35
	if float64(next) != *value {
		*value = float64(next)
		return true
	}
	return false
}

// viewField resolves the scalar the current view mode renders.
func viewField(p *climate.Pipeline, elevation *field.Scalar, view View) *field.Scalar {
	switch view {
	case ViewTemperature:
		return p.Temperature()
	case ViewHumidity:
		return p.Humidity()
	case ViewWindSpeed:
		wind := p.Wind()
		speed := field.NewScalar(wind.W, wind.H)
		for i := range speed.Data {
			speed.Data[i] = field.Clamp01(float32(math.Hypot(float64(wind.X[i]), float64(wind.Y[i]))))
		}
		return speed
	case ViewSnow:
		return p.SnowMask()
	default:
		return elevation
	}
}

// updateTexture updates the GPU texture from the field values
func updateTexture(texture rl.Texture2D, f *field.Scalar) {
	pixels := make([]color.RGBA, len(f.Data))
	for i, v := range f.Data {
		// Use a color gradient: dark blue -> cyan -> yellow -> white
		var r, g, b uint8
		if v < 0.25 {
			t := v / 0.25
			r = uint8(10 + t*30)
			g = uint8(20 + t*60)
			b = uint8(60 + t*100)
		} else if v < 0.5 {
			t := (v - 0.25) / 0.25
			r = uint8(40 + t*20)
			g = uint8(80 + t*120)
			b = uint8(160 + t*40)
		} else if v < 0.75 {
			t := (v - 0.5) / 0.25
			r = uint8(60 + t*140)
			g = uint8(200 - t*40)
			b = uint8(200 - t*150)
		} else {
			t := (v - 0.75) / 0.25
			r = uint8(200 + t*55)
			g = uint8(160 + t*95)
			b = uint8(50 + t*205)
		}
		pixels[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	rl.UpdateTexture(texture, pixels)
}
