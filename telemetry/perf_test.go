package telemetry

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartRun()
		pc.StartPhase(PhaseSample)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseClassify)
		time.Sleep(200 * time.Microsecond)
		pc.EndRun(1000)
	}

	stats := pc.Stats()

	if stats.AvgRunDuration <= 0 {
		t.Error("expected positive average run duration")
	}
	if stats.MinRunDuration > stats.AvgRunDuration || stats.AvgRunDuration > stats.MaxRunDuration {
		t.Errorf("expected min <= avg <= max, got %v %v %v", stats.MinRunDuration, stats.AvgRunDuration, stats.MaxRunDuration)
	}
	if _, ok := stats.PhaseAvg[PhaseSample]; !ok {
		t.Error("expected sample phase to be tracked")
	}
	if _, ok := stats.PhaseAvg[PhaseClassify]; !ok {
		t.Error("expected classify phase to be tracked")
	}
	if stats.CellsPerSecond <= 0 {
		t.Error("expected positive cells per second")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartRun()
		pc.StartPhase(PhaseSample)
		time.Sleep(10 * time.Microsecond)
		pc.EndRun(64)
	}

	if pc.sampleCount != 5 {
		t.Errorf("sampleCount = %d, want 5", pc.sampleCount)
	}
	stats := pc.Stats()
	if stats.AvgRunDuration <= 0 {
		t.Error("expected positive average run duration after window filled")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartRun()
		pc.StartPhase("fast")
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase("slow")
		time.Sleep(2 * time.Millisecond)
		pc.EndRun(1)
	}

	stats := pc.Stats()
	fastPct := stats.PhasePct["fast"]
	slowPct := stats.PhasePct["slow"]
	if slowPct <= fastPct {
		t.Errorf("expected slow phase (%v%%) > fast phase (%v%%)", slowPct, fastPct)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(0).Stats()

	if stats.AvgRunDuration != 0 || stats.CellsPerSecond != 0 {
		t.Error("expected zero values for empty collector")
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil phase maps")
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()
	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.FrameDuration)
	}
	if stats.FPS <= 0 || stats.FPS > 70 {
		t.Errorf("expected FPS in (0, 70] with 16ms frames, got %v", stats.FPS)
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	s := PerfStats{
		AvgRunDuration: 1500 * time.Microsecond,
		CellsPerSecond: 42,
		PhasePct:       map[string]float64{PhaseSample: 70, PhaseNormalize: 10, PhaseOutput: 20},
	}
	row := s.ToCSV(3)
	if row.Run != 3 || row.AvgRunUS != 1500 || row.CellsPerSec != 42 {
		t.Errorf("unexpected row %+v", row)
	}
	if row.SamplePct != 70 || row.NormalizePct != 10 || row.OutputPct != 20 || row.ClassifyPct != 0 {
		t.Errorf("unexpected phase split %+v", row)
	}
}

func TestPerfStats_Logging(t *testing.T) {
	s := PerfStats{
		AvgRunDuration: 2 * time.Millisecond,
		CellsPerSecond: 1000,
		PhasePct:       map[string]float64{PhaseNormalize: 12.5},
	}

	var buf bytes.Buffer
	slog.New(slog.NewJSONHandler(&buf, nil)).Info("run complete", "perf", s)
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decoding log line: %v", err)
	}
	group, ok := rec["perf"].(map[string]any)
	if !ok {
		t.Fatalf("perf group missing in %s", buf.String())
	}
	if group["avg_run_us"] != float64(2000) || group["normalize_pct"] != 12.5 {
		t.Errorf("unexpected perf group %v", group)
	}
	if _, ok := group["fps"]; ok {
		t.Error("fps should be omitted when no frames were recorded")
	}

	buf.Reset()
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	s.LogStats()
	if !strings.Contains(buf.String(), `"msg":"perf"`) || !strings.Contains(buf.String(), `"normalize_pct":12.5`) {
		t.Errorf("unexpected LogStats output %s", buf.String())
	}
}
