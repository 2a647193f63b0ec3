package telemetry

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/pthm-cable/earthnoise/terrain"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1},
		{"p50 even", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.5, 5},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if got != tt.want {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeDistribution(t *testing.T) {
	values := []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}
	mean, std, p10, p50, p90 := ComputeDistribution(values)

	if math.Abs(mean-5.5) > 1e-12 {
		t.Errorf("mean = %v, want 5.5", mean)
	}
	// Sample std of 1..10
	if math.Abs(std-math.Sqrt(82.5/9)) > 1e-12 {
		t.Errorf("std = %v, want %v", std, math.Sqrt(82.5/9))
	}
	if p10 != 1 || p50 != 5 || p90 != 9 {
		t.Errorf("percentiles = %v %v %v, want 1 5 9", p10, p50, p90)
	}
	if values[0] != 10 {
		t.Error("ComputeDistribution sorted its input")
	}
}

func TestComputeDistributionSmall(t *testing.T) {
	mean, std, p10, p50, p90 := ComputeDistribution(nil)
	if mean != 0 || std != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Error("empty slice should return all zeros")
	}

	mean, std, _, p50, _ = ComputeDistribution([]float64{2.5})
	if mean != 2.5 || std != 0 || p50 != 2.5 {
		t.Errorf("single value: mean %v std %v p50 %v", mean, std, p50)
	}
}

func TestComputeFieldStats(t *testing.T) {
	hm := &terrain.Heightmap{W: 2, H: 2, Values: []float64{-0.5, 0.1, 0.2, 0.9}}
	cells := []terrain.Cell{terrain.CellDeepWater, terrain.CellWater, terrain.CellLowland, terrain.CellSnow}

	s := ComputeFieldStats(hm, cells)
	if s.Cells != 4 {
		t.Errorf("Cells = %d, want 4", s.Cells)
	}
	if s.Min != -0.5 || s.Max != 0.9 {
		t.Errorf("min/max = %v/%v, want -0.5/0.9", s.Min, s.Max)
	}
	if math.Abs(s.Mean-0.175) > 1e-12 {
		t.Errorf("mean = %v, want 0.175", s.Mean)
	}
	if s.LandFraction != 0.5 {
		t.Errorf("land = %v, want 0.5", s.LandFraction)
	}
	if s.DeepWater != 0.25 || s.Water != 0.25 || s.Lowland != 0.25 || s.Snow != 0.25 || s.Shore != 0 || s.Highland != 0 {
		t.Errorf("unexpected band split %+v", s)
	}

	noCells := ComputeFieldStats(hm, nil)
	if noCells.LandFraction != 0 || noCells.Max != 0.9 {
		t.Errorf("stats without cells: %+v", noCells)
	}

	empty := ComputeFieldStats(&terrain.Heightmap{}, nil)
	if empty.Cells != 0 || empty.Mean != 0 {
		t.Errorf("empty stats: %+v", empty)
	}
}

func TestFieldStatsLogging(t *testing.T) {
	s := FieldStats{Run: 2, Cells: 10, Mean: 0.25, P50: 0.5, LandFraction: 0.5}

	var buf bytes.Buffer
	slog.New(slog.NewJSONHandler(&buf, nil)).Info("run complete", "field", s)
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decoding log line: %v", err)
	}
	group, ok := rec["field"].(map[string]any)
	if !ok {
		t.Fatalf("field group missing in %s", buf.String())
	}
	if group["cells"] != float64(10) || group["mean"] != 0.25 || group["land_fraction"] != 0.5 {
		t.Errorf("unexpected field group %v", group)
	}

	buf.Reset()
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	s.LogStats()
	if !strings.Contains(buf.String(), `"msg":"stats"`) || !strings.Contains(buf.String(), `"land":0.5`) {
		t.Errorf("unexpected LogStats output %s", buf.String())
	}
}
