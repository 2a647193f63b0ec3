package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for a generation run.
const (
	PhaseSample    = "sample"
	PhaseNormalize = "normalize"
	PhaseClassify  = "classify"
	PhaseStats     = "stats"
	PhaseOutput    = "output"
)

var phases = []string{PhaseSample, PhaseNormalize, PhaseClassify, PhaseStats, PhaseOutput}

// PerfSample holds timing data for a single run.
type PerfSample struct {
	RunDuration time.Duration
	Cells       int
	Phases      map[string]time.Duration
}

// PerfCollector tracks generation timings over a rolling window.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	runStart      time.Time
	phaseStart    time.Time
	lastPhase     string

	// Frame timing (for the preview)
	lastFrameTime time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of runs to average over.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 16
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartRun begins timing a new generation run.
func (p *PerfCollector) StartRun() {
	p.runStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a specific phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	// End previous phase if any
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndRun finishes timing the current run over the given number of cells.
func (p *PerfCollector) EndRun(cells int) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	p.samples[p.writeIndex] = PerfSample{
		RunDuration: now.Sub(p.runStart),
		Cells:       cells,
		Phases:      p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
	p.lastPhase = ""
}

// RecordFrame records frame timing for the preview.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrameTime.IsZero() {
		p.frameDuration = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgRunDuration time.Duration
	MinRunDuration time.Duration
	MaxRunDuration time.Duration

	// Phase breakdown (average durations)
	PhaseAvg map[string]time.Duration

	// Phase percentages of total run time
	PhasePct map[string]float64

	// Throughput over the whole window
	CellsPerSecond float64

	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	var fps float64
	if p.frameDuration > 0 {
		fps = float64(time.Second) / float64(p.frameDuration)
	}

	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg:      make(map[string]time.Duration),
			PhasePct:      make(map[string]float64),
			FrameDuration: p.frameDuration,
			FPS:           fps,
		}
	}

	var total, minRun, maxRun time.Duration
	var cells int
	phaseSum := make(map[string]time.Duration)

	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.RunDuration
		cells += s.Cells

		if i == 0 || s.RunDuration < minRun {
			minRun = s.RunDuration
		}
		if s.RunDuration > maxRun {
			maxRun = s.RunDuration
		}
		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avg := total / time.Duration(p.sampleCount)

	phaseAvg := make(map[string]time.Duration)
	phasePct := make(map[string]float64)
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avg > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avg) * 100
		}
	}

	var cellsPerSec float64
	if total > 0 {
		cellsPerSec = float64(cells) / total.Seconds()
	}

	return PerfStats{
		AvgRunDuration: avg,
		MinRunDuration: minRun,
		MaxRunDuration: maxRun,
		PhaseAvg:       phaseAvg,
		PhasePct:       phasePct,
		CellsPerSecond: cellsPerSec,
		FrameDuration:  p.frameDuration,
		FPS:            fps,
	}
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_run_us", s.AvgRunDuration.Microseconds(),
		"min_run_us", s.MinRunDuration.Microseconds(),
		"max_run_us", s.MaxRunDuration.Microseconds(),
		"cells_per_sec", int(s.CellsPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, phase := range phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}
	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_run_us", s.AvgRunDuration.Microseconds()),
		slog.Int64("min_run_us", s.MinRunDuration.Microseconds()),
		slog.Int64("max_run_us", s.MaxRunDuration.Microseconds()),
		slog.Float64("cells_per_sec", s.CellsPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, phase := range phases {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	Run          int     `csv:"run"`
	AvgRunUS     int64   `csv:"avg_run_us"`
	MinRunUS     int64   `csv:"min_run_us"`
	MaxRunUS     int64   `csv:"max_run_us"`
	CellsPerSec  float64 `csv:"cells_per_sec"`
	SamplePct    float64 `csv:"sample_pct"`
	NormalizePct float64 `csv:"normalize_pct"`
	ClassifyPct  float64 `csv:"classify_pct"`
	StatsPct     float64 `csv:"stats_pct"`
	OutputPct    float64 `csv:"output_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(run int) PerfStatsCSV {
	return PerfStatsCSV{
		Run:          run,
		AvgRunUS:     s.AvgRunDuration.Microseconds(),
		MinRunUS:     s.MinRunDuration.Microseconds(),
		MaxRunUS:     s.MaxRunDuration.Microseconds(),
		CellsPerSec:  s.CellsPerSecond,
		SamplePct:    s.PhasePct[PhaseSample],
		NormalizePct: s.PhasePct[PhaseNormalize],
		ClassifyPct:  s.PhasePct[PhaseClassify],
		StatsPct:     s.PhasePct[PhaseStats],
		OutputPct:    s.PhasePct[PhaseOutput],
	}
}
