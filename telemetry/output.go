package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/meadow/config"
	"github.com/pthm-cable/meadow/sim"
)

// OutputManager writes structured experiment output: window stats and
// action history as CSV, plus a YAML snapshot of the configuration.
type OutputManager struct {
	dir           string
	telemetryFile *os.File
	actionsFile   *os.File

	telemetryHeaderWritten bool
	actionsHeaderWritten   bool
}

// NewOutputManager creates the output directory and its files. Returns
// nil if dir is empty (output disabled); a nil manager ignores all
// writes.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating telemetry.csv: %w", err)
	}
	om.telemetryFile = f

	f, err = os.Create(filepath.Join(dir, "actions.csv"))
	if err != nil {
		om.telemetryFile.Close()
		return nil, fmt.Errorf("creating actions.csv: %w", err)
	}
	om.actionsFile = f

	return om, nil
}

// WriteConfig saves the configuration as YAML next to the CSV logs.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteWindow appends one window stats record to telemetry.csv.
func (om *OutputManager) WriteWindow(stats WindowStats) error {
	if om == nil {
		return nil
	}
	records := []WindowStats{stats}
	if !om.telemetryHeaderWritten {
		if err := gocsv.Marshal(records, om.telemetryFile); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
		om.telemetryHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.telemetryFile); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// WriteActions appends action history records to actions.csv.
func (om *OutputManager) WriteActions(records []sim.ActionRecord) error {
	if om == nil || len(records) == 0 {
		return nil
	}
	if !om.actionsHeaderWritten {
		if err := gocsv.Marshal(records, om.actionsFile); err != nil {
			return fmt.Errorf("writing actions: %w", err)
		}
		om.actionsHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.actionsFile); err != nil {
		return fmt.Errorf("writing actions: %w", err)
	}
	return nil
}

// WriteSnapshot saves a determinism snapshot as JSON.
func (om *OutputManager) WriteSnapshot(snap Snapshot) error {
	if om == nil {
		return nil
	}
	data, err := snap.JSON()
	if err != nil {
		return err
	}
	name := fmt.Sprintf("snapshot_%d.json", snap.Tick)
	if err := os.WriteFile(filepath.Join(om.dir, name), data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// Close flushes and closes the output files.
func (om *OutputManager) Close() {
	if om == nil {
		return
	}
	om.telemetryFile.Close()
	om.actionsFile.Close()
}
