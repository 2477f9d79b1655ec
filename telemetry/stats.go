// Package telemetry tracks ecosystem health outside the deterministic
// substrate: per-window statistics, lifetime records, CSV output, and the
// JSON state snapshot used by the determinism harness. Everything here is
// driven by the simulation's event stream and snapshot queries, so it can
// never perturb a replay.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats aggregates one stats window.
type WindowStats struct {
	WindowEndTick uint64 `csv:"window_end"`

	DeerCount       int `csv:"deer"`
	WolfCount       int `csv:"wolf"`
	VegetationCount int `csv:"vegetation"`

	Births           int `csv:"births"`
	DeathsStarvation int `csv:"deaths_starvation"`
	DeathsOldAge     int `csv:"deaths_old_age"`
	DeathsKilled     int `csv:"deaths_killed"`
	CorpsesCreated   int `csv:"corpses_created"`
	CorpsesRemoved   int `csv:"corpses_removed"`

	// Hunger ratio distribution over living animals at window end.
	HungerMean float64 `csv:"hunger_mean"`
	HungerStd  float64 `csv:"hunger_std"`
	HungerP10  float64 `csv:"hunger_p10"`
	HungerP50  float64 `csv:"hunger_p50"`
	HungerP90  float64 `csv:"hunger_p90"`

	// Genetic drift indicators.
	SpeedMean     float64 `csv:"speed_mean"`
	SizeMean      float64 `csv:"size_mean"`
	GenerationMax uint32  `csv:"generation_max"`
}

// Distribution computes mean, standard deviation and the 10/50/90
// quantiles of a sample. An empty sample yields zeros.
func Distribution(values []float64) (mean, std, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	if len(sorted) > 1 {
		std = stat.StdDev(sorted, nil)
	}
	p10 = stat.Quantile(0.1, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.9, stat.Empirical, sorted, nil)
	return mean, std, p10, p50, p90
}

// LogWindow emits a window summary via slog.
func (w WindowStats) LogWindow() {
	slog.Info("stats window",
		"tick", w.WindowEndTick,
		"deer", w.DeerCount,
		"wolf", w.WolfCount,
		"vegetation", w.VegetationCount,
		"births", w.Births,
		"deaths", w.DeathsStarvation+w.DeathsOldAge+w.DeathsKilled,
		"kills", w.DeathsKilled,
		"hunger_mean", w.HungerMean,
		"generation_max", w.GenerationMax,
	)
}
