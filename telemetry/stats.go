// Package telemetry computes summary statistics and timings for generated
// heightmaps and writes them out as CSV.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/earthnoise/terrain"
)

// FieldStats holds the distribution of raw fractal heights over a map.
type FieldStats struct {
	Run   int `csv:"run"`
	Cells int `csv:"cells"`

	Mean float64 `csv:"mean"`
	Std  float64 `csv:"std"`
	Min  float64 `csv:"min"`
	Max  float64 `csv:"max"`
	P10  float64 `csv:"p10"`
	P50  float64 `csv:"p50"`
	P90  float64 `csv:"p90"`

	LandFraction float64 `csv:"land_fraction"`

	// Share of cells in each band
	DeepWater float64 `csv:"deep_water"`
	Water     float64 `csv:"water"`
	Shore     float64 `csv:"shore"`
	Lowland   float64 `csv:"lowland"`
	Highland  float64 `csv:"highland"`
	Snow      float64 `csv:"snow"`
}

// Percentile returns the empirical p-quantile of a sorted slice.
// Returns 0 if the slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	switch {
	case p <= 0:
		return sorted[0]
	case p >= 1:
		return sorted[len(sorted)-1]
	}
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// ComputeDistribution returns mean, sample std and the 10/50/90 percentiles.
func ComputeDistribution(values []float64) (mean, std, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}
	mean, std = stat.MeanStdDev(values, nil)
	if len(values) == 1 {
		std = 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return mean, std, Percentile(sorted, 0.10), Percentile(sorted, 0.50), Percentile(sorted, 0.90)
}

// ComputeFieldStats summarises a heightmap and its classification. cells may
// be nil, in which case the land and band fractions are left at zero.
func ComputeFieldStats(hm *terrain.Heightmap, cells []terrain.Cell) FieldStats {
	s := FieldStats{Cells: len(hm.Values)}
	if len(hm.Values) == 0 {
		return s
	}
	s.Mean, s.Std, s.P10, s.P50, s.P90 = ComputeDistribution(hm.Values)
	s.Min = floats.Min(hm.Values)
	s.Max = floats.Max(hm.Values)

	if len(cells) == 0 {
		return s
	}
	var counts [terrain.CellSnow + 1]int
	for _, c := range cells {
		if c <= terrain.CellSnow {
			counts[c]++
		}
	}
	n := float64(len(cells))
	s.DeepWater = float64(counts[terrain.CellDeepWater]) / n
	s.Water = float64(counts[terrain.CellWater]) / n
	s.Shore = float64(counts[terrain.CellShore]) / n
	s.Lowland = float64(counts[terrain.CellLowland]) / n
	s.Highland = float64(counts[terrain.CellHighland]) / n
	s.Snow = float64(counts[terrain.CellSnow]) / n
	s.LandFraction = terrain.LandFraction(cells)
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s FieldStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("run", s.Run),
		slog.Int("cells", s.Cells),
		slog.Float64("mean", s.Mean),
		slog.Float64("std", s.Std),
		slog.Float64("min", s.Min),
		slog.Float64("max", s.Max),
		slog.Float64("p10", s.P10),
		slog.Float64("p50", s.P50),
		slog.Float64("p90", s.P90),
		slog.Float64("land_fraction", s.LandFraction),
		slog.Float64("deep_water", s.DeepWater),
		slog.Float64("water", s.Water),
		slog.Float64("shore", s.Shore),
		slog.Float64("lowland", s.Lowland),
		slog.Float64("highland", s.Highland),
		slog.Float64("snow", s.Snow),
	)
}

// LogStats logs the field stats using slog.
func (s FieldStats) LogStats() {
	slog.Info("stats",
		"run", s.Run,
		"cells", s.Cells,
		"mean", s.Mean,
		"std", s.Std,
		"min", s.Min,
		"max", s.Max,
		"p50", s.P50,
		"land", s.LandFraction,
	)
}
