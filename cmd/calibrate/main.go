// Package main fits fractal persistence and gain so generated terrain hits a
// target height spread and land fraction.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/earthnoise/config"
)

// EvalRecord is one row of calibrate_log.csv.
type EvalRecord struct {
	Eval        int     `csv:"eval"`
	Fitness     float64 `csv:"fitness"`
	Persistence float64 `csv:"persistence"`
	Gain        float64 `csv:"gain"`
	Std         float64 `csv:"std"`
	Land        float64 `csv:"land_fraction"`
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

// newMethod returns the gonum optimizer for name.
func newMethod(name string, dim int) (optimize.Method, error) {
	switch name {
	case "neldermead":
		return &optimize.NelderMead{SimplexSize: 0.25}, nil
	case "cmaes":
		return &optimize.CmaEsChol{InitStepSize: 0.3, Population: 4 + int(3*math.Log(float64(dim)))}, nil
	}
	return nil, fmt.Errorf("unknown method %q", name)
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxEvals := flag.Int("max-evals", 0, "Maximum number of evaluations (0 = use config)")
	slices := flag.Int("slices", 3, "Number of z slices averaged per evaluation")
	methodName := flag.String("method", "neldermead", "Optimizer: neldermead or cmaes")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	baseCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *maxEvals <= 0 {
		*maxEvals = baseCfg.Calibrate.MaxEvals
	}
	src, err := baseCfg.Source()
	if err != nil {
		log.Fatalf("failed to build noise source: %v", err)
	}

	params := NewParamVector(baseCfg)
	evaluator := NewFitnessEvaluator(params, baseCfg, src, *slices)

	method, err := newMethod(*methodName, params.Dim())
	if err != nil {
		log.Fatal(err)
	}

	logPath := filepath.Join(*outputDir, "calibrate_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	evalCount := 0
	bestFitness := math.Inf(1)
	var bestParams []float64
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			clamped := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(clamped)
			evalCount++

			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = clamped
			}

			st := evaluator.LastStats()
			rec := []EvalRecord{{
				Eval:        evalCount,
				Fitness:     fitness,
				Persistence: clamped[0],
				Gain:        clamped[1],
				Std:         st.Std,
				Land:        st.LandFraction,
			}}
			if evalCount == 1 {
				err = gocsv.Marshal(rec, logFile)
			} else {
				err = gocsv.MarshalWithoutHeaders(rec, logFile)
			}
			if err != nil {
				log.Printf("failed to write log row: %v", err)
			}

			elapsed := time.Since(startTime)
			remaining := time.Duration(*maxEvals-evalCount) * (elapsed / time.Duration(evalCount))
			fmt.Printf("Eval %d/%d: fitness=%.5f persistence=%.3f gain=%.3f std=%.3f land=%.3f (best=%.5f) | elapsed: %s, ETA: %s\n",
				evalCount, *maxEvals, fitness, clamped[0], clamped[1], st.Std, st.LandFraction, bestFitness,
				formatDuration(elapsed), formatDuration(remaining))
			return fitness
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // Sequential evaluation
	}

	fmt.Printf("Starting %s calibration: target std=%.3f land=%.3f, max_evals=%d, slices=%d\n",
		*methodName, baseCfg.Calibrate.TargetStd, baseCfg.Calibrate.TargetLand, *maxEvals, *slices)

	result, err := optimize.Minimize(problem, params.Normalize(params.DefaultVector()), settings, method)
	if err != nil {
		slog.Warn("optimization ended", "error", err)
	}
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		log.Fatal("no evaluations completed")
	}

	fmt.Printf("\nCalibration complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Printf("Best fitness: %.5f\n", bestFitness)
	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Path, bestParams[i])
	}

	bestCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to reload config: %v", err)
	}
	params.ApplyToConfig(bestCfg, bestParams)

	evaluator.Evaluate(bestParams)
	evaluator.LastStats().LogStats()

	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	}
}
