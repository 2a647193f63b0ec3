package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/earthnoise/config"
	"github.com/pthm-cable/earthnoise/renderer"
	"github.com/pthm-cable/earthnoise/terrain"
)

// SampleRecord is one heightmap pixel in samples.csv.
type SampleRecord struct {
	X      int     `csv:"x"`
	Y      int     `csv:"y"`
	Height float64 `csv:"height"`
	Cell   string  `csv:"cell"`
}

// OutputManager handles structured generator output with CSV logging.
type OutputManager struct {
	dir         string
	statsFile   *os.File
	perfFile    *os.File
	samplesFile *os.File

	// Track if headers have been written
	statsHeaderWritten   bool
	perfHeaderWritten    bool
	samplesHeaderWritten bool
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled). samples.csv is only created
// when withSamples is set.
func NewOutputManager(dir string, withSamples bool) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "stats.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating stats.csv: %w", err)
	}
	om.statsFile = f

	f, err = os.Create(filepath.Join(dir, "perf.csv"))
	if err != nil {
		om.statsFile.Close()
		return nil, fmt.Errorf("creating perf.csv: %w", err)
	}
	om.perfFile = f

	if withSamples {
		f, err = os.Create(filepath.Join(dir, "samples.csv"))
		if err != nil {
			om.statsFile.Close()
			om.perfFile.Close()
			return nil, fmt.Errorf("creating samples.csv: %w", err)
		}
		om.samplesFile = f
	}

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// writeCSV marshals records, with the header only on the first call.
func writeCSV(f *os.File, records any, headerWritten *bool) error {
	if !*headerWritten {
		if err := gocsv.Marshal(records, f); err != nil {
			return err
		}
		*headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, f)
}

// WriteStats appends a stats record to stats.csv.
func (om *OutputManager) WriteStats(stats FieldStats) error {
	if om == nil {
		return nil
	}
	if err := writeCSV(om.statsFile, []FieldStats{stats}, &om.statsHeaderWritten); err != nil {
		return fmt.Errorf("writing stats: %w", err)
	}
	return nil
}

// WritePerf appends a performance record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, run int) error {
	if om == nil {
		return nil
	}
	if err := writeCSV(om.perfFile, []PerfStatsCSV{stats.ToCSV(run)}, &om.perfHeaderWritten); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// WriteSamples writes every pixel of the heightmap to samples.csv. It does
// nothing if the manager was created without samples.
func (om *OutputManager) WriteSamples(hm *terrain.Heightmap, cells []terrain.Cell) error {
	if om == nil || om.samplesFile == nil {
		return nil
	}
	records := make([]SampleRecord, len(hm.Values))
	for i, v := range hm.Values {
		records[i] = SampleRecord{X: i % hm.W, Y: i / hm.W, Height: v}
		if cells != nil {
			records[i].Cell = cells[i].String()
		}
	}
	if err := writeCSV(om.samplesFile, records, &om.samplesHeaderWritten); err != nil {
		return fmt.Errorf("writing samples: %w", err)
	}
	return nil
}

// WriteImages renders the heightmap in the given format: a colour map as
// heightmap.<ext> and a 16-bit greyscale as height16.<ext>.
func (om *OutputManager) WriteImages(hm *terrain.Heightmap, cells []terrain.Cell, p renderer.Palette, format string) error {
	if om == nil || format == renderer.FormatNone {
		return nil
	}
	colorPath := filepath.Join(om.dir, "heightmap."+format)
	if err := renderer.WriteImage(colorPath, renderer.ColorImage(hm, cells, p), format); err != nil {
		return fmt.Errorf("writing %s: %w", colorPath, err)
	}
	grayPath := filepath.Join(om.dir, "height16."+format)
	if err := renderer.WriteImage(grayPath, renderer.GrayImage16(hm), format); err != nil {
		return fmt.Errorf("writing %s: %w", grayPath, err)
	}
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, f := range []*os.File{om.statsFile, om.perfFile, om.samplesFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
