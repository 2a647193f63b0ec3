package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/earthnoise/config"
	"github.com/pthm-cable/earthnoise/noise"
	"github.com/pthm-cable/earthnoise/telemetry"
	"github.com/pthm-cable/earthnoise/terrain"
)

// FitnessEvaluator generates heightmaps and scores them against the targets.
type FitnessEvaluator struct {
	params     *ParamVector
	baseConfig *config.Config
	source     noise.Source
	slices     []float64 // z offsets sampled per evaluation

	mu        sync.Mutex
	lastStats telemetry.FieldStats
}

// NewFitnessEvaluator creates a new evaluator over src. Each evaluation
// averages the given number of z slices.
func NewFitnessEvaluator(params *ParamVector, baseCfg *config.Config, src noise.Source, slices int) *FitnessEvaluator {
	if slices < 1 {
		slices = 1
	}
	zs := make([]float64, slices)
	for i := range zs {
		zs[i] = baseCfg.Grid.OriginZ + float64(i)*17.31
	}
	return &FitnessEvaluator{
		params:     params,
		baseConfig: baseCfg,
		source:     src,
		slices:     zs,
	}
}

// LastStats returns the averaged stats from the most recent evaluation.
func (fe *FitnessEvaluator) LastStats() telemetry.FieldStats {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastStats
}

// Evaluate computes fitness for raw parameter values (lower = better).
// A failed generation scores +Inf.
func (fe *FitnessEvaluator) Evaluate(raw []float64) float64 {
	cfg := *fe.baseConfig
	fe.params.ApplyToConfig(&cfg, raw)

	s := terrain.Sampler{Source: fe.source, Fractal: cfg.FractalParams()}
	size := cfg.Calibrate.GridSize

	var avg telemetry.FieldStats
	for _, z := range fe.slices {
		g := terrain.Grid{
			Width:      size * 2,
			Height:     size,
			Scale:      cfg.Grid.Scale * float64(cfg.Grid.Width) / float64(size*2),
			OriginX:    cfg.Grid.OriginX,
			OriginY:    cfg.Grid.OriginY,
			OriginZ:    z,
			Projection: cfg.Grid.Projection,
		}
		hm, err := terrain.Generate(s, g)
		if err != nil {
			return math.Inf(1)
		}
		st := telemetry.ComputeFieldStats(hm, hm.Classify(cfg.Terrain))
		avg.Cells += st.Cells
		avg.Mean += st.Mean
		avg.Std += st.Std
		avg.LandFraction += st.LandFraction
	}
	n := float64(len(fe.slices))
	avg.Mean /= n
	avg.Std /= n
	avg.LandFraction /= n

	fe.mu.Lock()
	fe.lastStats = avg
	fe.mu.Unlock()

	return computeFitness(avg, cfg.Calibrate)
}

// computeFitness is the sum of squared relative misses on height std and
// land fraction.
func computeFitness(s telemetry.FieldStats, c config.CalibrateConfig) float64 {
	stdMiss := (s.Std - c.TargetStd) / math.Max(c.TargetStd, 1e-6)
	landMiss := (s.LandFraction - c.TargetLand) / math.Max(c.TargetLand, 0.05)
	return stdMiss*stdMiss + landMiss*landMiss
}
