// Package output persists frametap runs: rolling metrics snapshots and
// optional per-frame timings as CSV, plus a YAML snapshot of the config
// the run used.
package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/frametap/config"
	"github.com/pthm-cable/frametap/metrics"
	"github.com/pthm-cable/frametap/timing"
)

// Manager handles structured run output with CSV logging.
type Manager struct {
	dir         string
	metricsFile *os.File
	framesFile  *os.File

	// Track if headers have been written
	metricsHeaderWritten bool
	framesHeaderWritten  bool
}

// NewManager creates an output manager rooted at dir.
// Returns nil if dir is empty (output disabled); a nil Manager's write
// methods are safe no-ops.
func NewManager(dir string) (*Manager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	m := &Manager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "metrics.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating metrics.csv: %w", err)
	}
	m.metricsFile = f

	f, err = os.Create(filepath.Join(dir, "frames.csv"))
	if err != nil {
		m.metricsFile.Close()
		return nil, fmt.Errorf("creating frames.csv: %w", err)
	}
	m.framesFile = f

	return m, nil
}

// WriteConfig saves the current configuration as YAML next to the CSVs.
func (m *Manager) WriteConfig(cfg *config.Config) error {
	if m == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(m.dir, "config.yaml"))
}

// WriteMetrics appends one aggregate snapshot row to metrics.csv.
func (m *Manager) WriteMetrics(snap metrics.Metrics) error {
	if m == nil {
		return nil
	}

	records := []metrics.Metrics{snap}

	if !m.metricsHeaderWritten {
		if err := gocsv.Marshal(records, m.metricsFile); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
		m.metricsHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, m.metricsFile); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}

	return nil
}

// WriteFrame appends one completed frame's timings to frames.csv.
func (m *Manager) WriteFrame(rec timing.Timings) error {
	if m == nil {
		return nil
	}

	records := []timing.Timings{rec}

	if !m.framesHeaderWritten {
		if err := gocsv.Marshal(records, m.framesFile); err != nil {
			return fmt.Errorf("writing frame timings: %w", err)
		}
		m.framesHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, m.framesFile); err != nil {
			return fmt.Errorf("writing frame timings: %w", err)
		}
	}

	return nil
}

// Close flushes and closes the output files.
func (m *Manager) Close() error {
	if m == nil {
		return nil
	}
	var firstErr error
	for _, f := range []*os.File{m.metricsFile, m.framesFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
