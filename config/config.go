// Package config provides the typed parameter bundle for the simulation:
// embedded defaults, YAML loading with sparse overrides, named presets,
// bounds validation, and the JSON import format used by shells.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/meadow/components"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation parameters. Every numeric field has a
// declared range enforced by Validate; configuration is always accepted
// after clamping, never rejected.
type Config struct {
	World        WorldConfig        `yaml:"world" json:"world"`
	Vegetation   VegetationConfig   `yaml:"vegetation" json:"vegetation"`
	Entities     EntitiesConfig     `yaml:"entities" json:"entities"`
	DerivedStats DerivedStatsConfig `yaml:"derived_stats" json:"derived_stats"`
	Movement     MovementConfig     `yaml:"movement" json:"movement"`
	Reproduction ReproductionConfig `yaml:"reproduction" json:"reproduction"`
	Evolution    EvolutionConfig    `yaml:"evolution" json:"evolution"`
	Corpse       CorpseConfig       `yaml:"corpse" json:"corpse"`
	Performance  PerformanceConfig  `yaml:"performance" json:"performance"`
	UI           UIConfig           `yaml:"ui" json:"ui"`
}

// WorldConfig holds the world dimensions in world units.
type WorldConfig struct {
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// VegetationConfig holds the vegetation grid parameters.
type VegetationConfig struct {
	TileSize       float64 `yaml:"tile_size" json:"tile_size"`
	InitialDensity float64 `yaml:"initial_density" json:"initial_density"`
	SpreadRate     float64 `yaml:"spread_rate" json:"spread_rate"`
	FoodValue      float64 `yaml:"food_value" json:"food_value"`
	Pattern        string  `yaml:"pattern" json:"pattern"`                 // "uniform" or "patchy"
	PatchScale     float64 `yaml:"patch_scale" json:"patch_scale"`         // noise frequency for patchy layout
	PatchThreshold float64 `yaml:"patch_threshold" json:"patch_threshold"` // noise cutoff for patchy layout
}

// EntitiesConfig holds population and hunger parameters.
type EntitiesConfig struct {
	InitialDeerCount        int     `yaml:"initial_deer_count" json:"initial_deer_count"`
	InitialWolfCount        int     `yaml:"initial_wolf_count" json:"initial_wolf_count"`
	MaxEntities             int     `yaml:"max_entities" json:"max_entities"`
	MaxHunger               float64 `yaml:"max_hunger" json:"max_hunger"`
	InitialHungerSpawn      float64 `yaml:"initial_hunger_spawn" json:"initial_hunger_spawn"`
	InitialHungerOffspring  float64 `yaml:"initial_hunger_offspring" json:"initial_hunger_offspring"`
	InitialSpawnMinDistance float64 `yaml:"initial_spawn_min_distance" json:"initial_spawn_min_distance"`
}

// DerivedStatsConfig holds the multipliers feeding the derived-stat
// formulas.
type DerivedStatsConfig struct {
	SpeedMultiplier      float64 `yaml:"speed_multiplier" json:"speed_multiplier"`
	PerceptionMultiplier float64 `yaml:"perception_multiplier" json:"perception_multiplier"`
	BaseHungerDecay      float64 `yaml:"base_hunger_decay" json:"base_hunger_decay"`
}

// MovementConfig holds movement cost parameters.
type MovementConfig struct {
	MoveCost      float64 `yaml:"move_cost" json:"move_cost"`
	FleeCostBonus float64 `yaml:"flee_cost_bonus" json:"flee_cost_bonus"`
}

// ReproductionConfig holds reproduction parameters. Cost and SafetyBuffer
// are fractions of max hunger.
type ReproductionConfig struct {
	Cost                    float64 `yaml:"cost" json:"cost"`
	SafetyBuffer            float64 `yaml:"safety_buffer" json:"safety_buffer"`
	Cooldown                int     `yaml:"cooldown" json:"cooldown"`
	OffspringSpawnOffsetMax float64 `yaml:"offspring_spawn_offset_max" json:"offspring_spawn_offset_max"`
}

// EvolutionConfig holds per-category mutation rates (standard deviations
// of the multiplicative mutation draw).
type EvolutionConfig struct {
	BaseMutationRate       float64 `yaml:"base_mutation_rate" json:"base_mutation_rate"`
	BehavioralMutationRate float64 `yaml:"behavioral_mutation_rate" json:"behavioral_mutation_rate"`
	LifecycleMutationRate  float64 `yaml:"lifecycle_mutation_rate" json:"lifecycle_mutation_rate"`
}

// CorpseConfig holds corpse food and decay parameters.
type CorpseConfig struct {
	FoodMultiplier float64 `yaml:"food_multiplier" json:"food_multiplier"`
	DecayTicks     int     `yaml:"decay_ticks" json:"decay_ticks"`
	EatRatePerTick float64 `yaml:"eat_rate_per_tick" json:"eat_rate_per_tick"`
}

// PerformanceConfig holds tuning knobs that must not change semantics.
type PerformanceConfig struct {
	SpatialBucketSize  float64 `yaml:"spatial_bucket_size" json:"spatial_bucket_size"`
	ActionHistoryLimit int     `yaml:"action_history_limit" json:"action_history_limit"`
}

// UIConfig holds parameters consumed by the wall-clock scheduler; they
// never affect the deterministic substrate.
type UIConfig struct {
	TickRate float64 `yaml:"tick_rate" json:"tick_rate"` // ticks per second at speed 1
}

// Default returns the embedded default configuration.
func Default() *Config {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		panic(fmt.Sprintf("config: bad embedded defaults: %v", err))
	}
	return cfg
}

// Load reads a YAML file and merges it over the embedded defaults. An
// empty path returns the defaults. The result is validated; clamping and
// cross-field fixes are reported as warnings.
func Load(path string) (*Config, []string, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, nil, fmt.Errorf("parsing config file: %w", err)
		}
	}
	warnings := cfg.Validate()
	return cfg, warnings, nil
}

// DerivedParams returns the constants feeding the derived-stat formulas.
func (c *Config) DerivedParams() components.DerivedParams {
	return components.DerivedParams{
		SpeedMultiplier:      c.DerivedStats.SpeedMultiplier,
		PerceptionMultiplier: c.DerivedStats.PerceptionMultiplier,
		BaseHungerDecay:      c.DerivedStats.BaseHungerDecay,
	}
}

// MaxAlertRange returns the largest alert range any animal can evolve
// under this configuration.
func (c *Config) MaxAlertRange() float64 {
	return components.BoundPerception.Max * c.DerivedStats.PerceptionMultiplier
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
