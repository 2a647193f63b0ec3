package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/pthm-cable/earthnoise/config"
	"github.com/pthm-cable/earthnoise/renderer"
	"github.com/pthm-cable/earthnoise/telemetry"
	"github.com/pthm-cable/earthnoise/terrain"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, images and config snapshot (overrides config)")
	octaves := flag.Int("octaves", 0, "Number of octaves (0 = use config)")
	persistence := flag.Float64("persistence", 0, "Frequency base per octave (0 = use config)")
	gain := flag.Float64("gain", 0, "Amplitude base per octave (0 = use config)")
	basis := flag.String("basis", "", "Noise basis: perlin, opensimplex or gegl (empty = use config)")
	width := flag.Int("width", 0, "Heightmap width in pixels (0 = use config)")
	height := flag.Int("height", 0, "Heightmap height in pixels (0 = use config)")
	image := flag.String("image", "", "Image format: png, tiff or none (empty = use config)")
	samples := flag.Bool("samples", false, "Also write every sample to samples.csv")
	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// CLI overrides
	if *octaves != 0 {
		cfg.Fractal.Octaves = *octaves
	}
	if *persistence != 0 {
		cfg.Fractal.Persistence = *persistence
	}
	if *gain != 0 {
		cfg.Fractal.Gain = *gain
	}
	if *basis != "" {
		cfg.Noise.Basis = *basis
	}
	if *width > 0 {
		cfg.Grid.Width = *width
	}
	if *height > 0 {
		cfg.Grid.Height = *height
	}
	if *image != "" {
		cfg.Output.Image = *image
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}
	if *samples {
		cfg.Output.SamplesCSV = true
	}
	if err := cfg.Refresh(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		slog.Error("generation failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	src, err := cfg.Source()
	if err != nil {
		return err
	}
	sampler := terrain.Sampler{
		Source:  src,
		Fractal: cfg.FractalParams(),
		Compat:  cfg.Fractal.Compat,
	}
	grid := terrain.GridFromConfig(cfg.Grid)

	om, err := telemetry.NewOutputManager(cfg.Output.Dir, cfg.Output.SamplesCSV)
	if err != nil {
		return err
	}
	defer om.Close()

	slog.Info("generating heightmap",
		"basis", cfg.Noise.Basis,
		"octaves", cfg.Fractal.Octaves,
		"persistence", cfg.Fractal.Persistence,
		"gain", cfg.Fractal.Gain,
		"width", grid.Width,
		"height", grid.Height,
		"projection", grid.Projection,
		"output_dir", om.Dir(),
	)

	perf := telemetry.NewPerfCollector(1)
	perf.StartRun()

	perf.StartPhase(telemetry.PhaseSample)
	hm, err := terrain.Generate(sampler, grid)
	if err != nil {
		return err
	}

	perf.StartPhase(telemetry.PhaseNormalize)
	norm := hm.Normalized()

	perf.StartPhase(telemetry.PhaseClassify)
	cells := norm.ClassifyNormalized(cfg.Terrain)

	perf.StartPhase(telemetry.PhaseStats)
	stats := telemetry.ComputeFieldStats(hm, cells)
	stats.Run = 1

	perf.StartPhase(telemetry.PhaseOutput)
	if err := om.WriteConfig(cfg); err != nil {
		return err
	}
	if err := om.WriteStats(stats); err != nil {
		return err
	}
	if err := om.WriteSamples(hm, cells); err != nil {
		return err
	}
	if err := om.WriteImages(hm, cells, renderer.DefaultPalette(cfg.Terrain), cfg.Output.Image); err != nil {
		return err
	}
	perf.EndRun(len(hm.Values))

	perfStats := perf.Stats()
	if err := om.WritePerf(perfStats, 1); err != nil {
		return err
	}

	slog.Info("run complete", "field", stats, "perf", perfStats)
	return nil
}
