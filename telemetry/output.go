package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/atmo/config"
)

// OutputManager handles structured generation output with CSV logging.
type OutputManager struct {
	dir       string
	statsFile *os.File
	perfFile  *os.File

	statsHeaderWritten bool
	perfHeaderWritten  bool
}

// PerfRecord is one stage timing row in perf.csv.
type PerfRecord struct {
	Pass       int     `csv:"pass"`
	Stage      string  `csv:"stage"`
	AvgMicros  int64   `csv:"avg_us"`
	PctOfTotal float64 `csv:"pct"`
}

// NewOutputManager creates a new output manager and initializes the output
// directory. Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "fields.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating fields.csv: %w", err)
	}
	om.statsFile = f

	f, err = os.Create(filepath.Join(dir, "perf.csv"))
	if err != nil {
		om.statsFile.Close()
		return nil, fmt.Errorf("creating perf.csv: %w", err)
	}
	om.perfFile = f

	return om, nil
}

// WriteConfig saves the current configuration as YAML next to the CSVs.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteFieldStats appends per-field summary rows to fields.csv.
func (om *OutputManager) WriteFieldStats(stats []FieldStats) error {
	if om == nil || len(stats) == 0 {
		return nil
	}
	if !om.statsHeaderWritten {
		if err := gocsv.Marshal(stats, om.statsFile); err != nil {
			return fmt.Errorf("writing fields.csv: %w", err)
		}
		om.statsHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(stats, om.statsFile); err != nil {
		return fmt.Errorf("writing fields.csv: %w", err)
	}
	return nil
}

// WritePerf appends the stage timing breakdown of one pass to perf.csv.
func (om *OutputManager) WritePerf(pass int, stats PerfStats) error {
	if om == nil {
		return nil
	}
	records := make([]*PerfRecord, 0, len(stats.PhaseAvg))
	for _, name := range stats.SortedPhases() {
		records = append(records, &PerfRecord{
			Pass:       pass,
			Stage:      name,
			AvgMicros:  stats.PhaseAvg[name].Microseconds(),
			PctOfTotal: stats.PhasePct[name],
		})
	}
	if len(records) == 0 {
		return nil
	}
	if !om.perfHeaderWritten {
		if err := gocsv.Marshal(records, om.perfFile); err != nil {
			return fmt.Errorf("writing perf.csv: %w", err)
		}
		om.perfHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.perfFile); err != nil {
		return fmt.Errorf("writing perf.csv: %w", err)
	}
	return nil
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var firstErr error
	if err := om.statsFile.Close(); err != nil {
		firstErr = err
	}
	if err := om.perfFile.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
