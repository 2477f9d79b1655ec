// Command meadow runs the simulation headless: it steps the world for a
// fixed number of ticks, logs window stats via slog when -log-stats is
// set, and writes CSV
// telemetry, action history, and a final determinism snapshot.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/meadow/config"
	"github.com/pthm-cable/meadow/sim"
	"github.com/pthm-cable/meadow/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = embedded defaults)")
	presetName := flag.String("preset", "", fmt.Sprintf("Named preset %v (overrides -config)", config.PresetNames()))
	importPath := flag.String("import", "", "Path to a JSON config bundle exported by a shell")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 1000, "Stop after N ticks")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, config snapshot and state snapshot")
	logStats := flag.Bool("log-stats", false, "Log window stats via slog")
	statsWindow := flag.Uint64("stats-window", 100, "Stats window size in ticks")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, warnings, err := loadConfig(*configPath, *presetName, *importPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	for _, w := range warnings {
		slog.Warn("config", "warning", w)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	s := sim.New(cfg, uint32(rngSeed))

	om, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output", "error", err)
		os.Exit(1)
	}
	defer om.Close()
	if err := om.WriteConfig(cfg); err != nil {
		slog.Warn("writing config snapshot", "error", err)
	}

	var history *sim.HistoryRecorder
	if *outputDir != "" {
		history = sim.NewHistoryRecorder(cfg.Performance.ActionHistoryLimit)
		s.SetActionHistory(history)
	}

	collector := telemetry.NewCollector(s, *statsWindow, func(w telemetry.WindowStats) {
		if *logStats {
			w.LogWindow()
		}
		if err := om.WriteWindow(w); err != nil {
			slog.Warn("writing telemetry", "error", err)
		}
	})
	collector.Attach()

	slog.Info("starting simulation",
		"seed", uint32(rngSeed),
		"max_ticks", *maxTicks,
		"deer", s.DeerCount(),
		"wolf", s.WolfCount(),
		"vegetation", s.VegetationCount(),
	)

	for i := 0; i < *maxTicks; i++ {
		s.Step()
	}

	if history != nil {
		if err := om.WriteActions(history.Records()); err != nil {
			slog.Warn("writing actions", "error", err)
		}
	}
	snap := telemetry.Capture(s)
	if err := om.WriteSnapshot(snap); err != nil {
		slog.Warn("writing snapshot", "error", err)
	}

	slog.Info("simulation finished",
		"tick", s.CurrentTick(),
		"deer", s.DeerCount(),
		"wolf", s.WolfCount(),
		"corpses", len(s.Corpses()),
		"vegetation", s.VegetationCount(),
		"snapshot_hash", snap.Hash(),
	)
}

func loadConfig(path, preset, importPath string) (*config.Config, []string, error) {
	switch {
	case importPath != "":
		data, err := os.ReadFile(importPath)
		if err != nil {
			return nil, nil, fmt.Errorf("reading bundle: %w", err)
		}
		return config.ImportJSON(data)
	case preset != "":
		return config.Preset(preset)
	default:
		return config.Load(path)
	}
}
