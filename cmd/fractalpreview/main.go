// Fractal noise preview tool - interactive visualization with sliders.
//
// Usage: go run ./cmd/fractalpreview [-config path]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/earthnoise/config"
	"github.com/pthm-cable/earthnoise/noise"
	"github.com/pthm-cable/earthnoise/renderer"
	"github.com/pthm-cable/earthnoise/telemetry"
	"github.com/pthm-cable/earthnoise/terrain"
)

const previewSize = 512

var bases = []string{noise.BasisPerlin, noise.BasisOpenSimplex, noise.BasisGEGL}

// PreviewParams holds the values under slider control.
type PreviewParams struct {
	Octaves     int
	Persistence float32
	Gain        float32
	Span        float32 // Noise units across the preview
	Z           float32
	Basis       int
	Classify    bool
}

func paramsFromConfig(cfg *config.Config) PreviewParams {
	p := PreviewParams{
		Octaves:     cfg.Fractal.Octaves,
		Persistence: float32(cfg.Fractal.Persistence),
		Gain:        float32(cfg.Fractal.Gain),
		Span:        float32(cfg.Grid.Scale * float64(cfg.Preview.GridSize)),
		Z:           float32(cfg.Grid.OriginZ),
		Classify:    true,
	}
	for i, b := range bases {
		if b == cfg.Noise.Basis {
			p.Basis = i
		}
	}
	return p
}

// snippet renders the parameters as a config fragment.
func snippet(p PreviewParams) string {
	doc := struct {
		Noise   map[string]string    `yaml:"noise"`
		Fractal config.FractalConfig `yaml:"fractal"`
	}{
		Noise: map[string]string{"basis": bases[p.Basis]},
		Fractal: config.FractalConfig{
			Octaves:     p.Octaves,
			Persistence: float64(p.Persistence),
			Gain:        float64(p.Gain),
		},
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return err.Error()
	}
	return strings.TrimSpace(string(out))
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	table, err := cfg.Table()
	if err != nil {
		slog.Error("failed to build permutation table", "error", err)
		os.Exit(1)
	}

	windowWidth := int32(cfg.Preview.Width)
	windowHeight := int32(cfg.Preview.Height)
	panelWidth := windowWidth - previewSize - 30
	gridSize := cfg.Preview.GridSize

	rl.InitWindow(windowWidth, windowHeight, "Fractal Noise Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Preview.TargetFPS))

	params := paramsFromConfig(cfg)
	palette := renderer.DefaultPalette(cfg.Terrain)
	perf := telemetry.NewPerfCollector(30)

	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	var stats telemetry.FieldStats
	var genErr error
	animating := false
	needsRegen := true

	regenerate := func() {
		perf.StartRun()
		perf.StartPhase(telemetry.PhaseSample)
		src, err := noise.NewSource(bases[params.Basis], table, cfg.Noise.BasisSeed)
		if err != nil {
			genErr = err
			return
		}
		s := terrain.Sampler{
			Source:  src,
			Fractal: noise.Fractal{Octaves: params.Octaves, Persistence: float64(params.Persistence), Gain: float64(params.Gain)},
		}
		g := terrain.Grid{
			Width:      gridSize,
			Height:     gridSize,
			Scale:      float64(params.Span) / float64(gridSize),
			OriginX:    cfg.Grid.OriginX,
			OriginY:    cfg.Grid.OriginY,
			OriginZ:    float64(params.Z),
			Projection: terrain.ProjectionPlane,
		}
		hm, err := terrain.Generate(s, g)
		if err != nil {
			genErr = err
			return
		}
		genErr = nil

		var cells []terrain.Cell
		if params.Classify {
			perf.StartPhase(telemetry.PhaseNormalize)
			norm := hm.Normalized()
			perf.StartPhase(telemetry.PhaseClassify)
			cells = norm.ClassifyNormalized(cfg.Terrain)
		}
		perf.StartPhase(telemetry.PhaseStats)
		stats = telemetry.ComputeFieldStats(hm, cells)

		perf.StartPhase(telemetry.PhaseOutput)
		rl.UpdateTexture(texture, renderer.Colors(hm, cells, palette))
		perf.EndRun(len(hm.Values))
	}

	slider := func(y *float32, label, lo, hi string, value, minV, maxV float32, format string) float32 {
		panelX := float32(previewSize + 20)
		rl.DrawText(label, int32(panelX), int32(*y), 14, rl.Gray)
		*y += 18
		v := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: *y, Width: float32(panelWidth - 80), Height: 20},
			lo, hi,
			value, minV, maxV,
		)
		rl.DrawText(fmt.Sprintf(format, v), int32(panelX+float32(panelWidth-70)), int32(*y+2), 16, rl.DarkGray)
		*y += 35
		return v
	}

	for !rl.WindowShouldClose() {
		perf.RecordFrame()

		if animating {
			params.Z += rl.GetFrameTime() * 0.1
			needsRegen = true
		}
		if needsRegen {
			regenerate()
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: float32(gridSize), Height: float32(gridSize)},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		statsY := int32(previewSize + 25)
		if genErr != nil {
			rl.DrawText(genErr.Error(), 15, statsY, 16, rl.Red)
		} else {
			rl.DrawText(fmt.Sprintf("Min: %.3f  Max: %.3f  Mean: %.3f  Std: %.3f", stats.Min, stats.Max, stats.Mean, stats.Std), 15, statsY, 16, rl.DarkGray)
			if params.Classify {
				rl.DrawText(fmt.Sprintf("Land: %.1f%%", stats.LandFraction*100), 15, statsY+20, 16, rl.DarkGray)
			}
		}
		ps := perf.Stats()
		rl.DrawText(fmt.Sprintf("Regen: %.1f ms  FPS: %.0f  z: %.2f", float64(ps.AvgRunDuration.Microseconds())/1000, ps.FPS, params.Z), 15, statsY+40, 16, rl.DarkGray)

		panelX := float32(previewSize + 20)
		panelY := float32(10)
		rl.DrawText("Fractal Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		if v := int(slider(&panelY, "Octaves", "1", "10", float32(params.Octaves), 1, 10, "%.0f")); v != params.Octaves {
			params.Octaves = v
			needsRegen = true
		}
		if v := slider(&panelY, "Persistence (frequency base)", "1.0", "4.0", params.Persistence, 1, 4, "%.2f"); v != params.Persistence {
			params.Persistence = v
			needsRegen = true
		}
		if v := slider(&panelY, "Gain (amplitude base)", "0.1", "0.9", params.Gain, 0.1, 0.9, "%.2f"); v != params.Gain {
			params.Gain = v
			needsRegen = true
		}
		if v := slider(&panelY, "Span (noise units across)", "0.5", "16", params.Span, 0.5, 16, "%.1f"); v != params.Span {
			params.Span = v
			needsRegen = true
		}
		if v := slider(&panelY, "Z slice", "0", "10", params.Z, 0, 10, "%.2f"); v != params.Z {
			params.Z = v
			needsRegen = true
		}

		rl.DrawLine(int32(panelX), int32(panelY), int32(panelX)+panelWidth-20, int32(panelY), rl.LightGray)
		panelY += 15

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Basis: "+bases[params.Basis]) {
			params.Basis = (params.Basis + 1) % len(bases)
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, toggleText(params.Classify, "Gradient", "Terrain")) {
			params.Classify = !params.Classify
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(animating, "Stop", "Animate Z")) {
			animating = !animating
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = paramsFromConfig(cfg)
			animating = false
			needsRegen = true
		}
		panelY += 55

		yamlText := snippet(params)
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		for _, line := range strings.Split(yamlText, "\n") {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), windowHeight-30, 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(yamlText)
			slog.Info("copied config", "basis", bases[params.Basis], "octaves", params.Octaves,
				"persistence", params.Persistence, "gain", params.Gain)
		}

		rl.EndDrawing()
	}

	perf.Stats().LogStats()
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
