package config

import "fmt"

// Validate clamps every field into its declared range and applies the
// cross-field rules. It returns human-readable warnings for each fix and
// never rejects a configuration.
func (c *Config) Validate() []string {
	var warnings []string

	clampF(&warnings, "world.width", &c.World.Width, 20, 2000)
	clampF(&warnings, "world.height", &c.World.Height, 20, 2000)

	clampF(&warnings, "vegetation.tile_size", &c.Vegetation.TileSize, 1, 50)
	clampF(&warnings, "vegetation.initial_density", &c.Vegetation.InitialDensity, 0, 1)
	clampF(&warnings, "vegetation.spread_rate", &c.Vegetation.SpreadRate, 0, 1)
	clampF(&warnings, "vegetation.food_value", &c.Vegetation.FoodValue, 1, 100)
	clampF(&warnings, "vegetation.patch_scale", &c.Vegetation.PatchScale, 0.001, 1)
	clampF(&warnings, "vegetation.patch_threshold", &c.Vegetation.PatchThreshold, 0, 1)
	if c.Vegetation.Pattern != "uniform" && c.Vegetation.Pattern != "patchy" {
		warnings = append(warnings, fmt.Sprintf("vegetation.pattern: unknown pattern %q, using uniform", c.Vegetation.Pattern))
		c.Vegetation.Pattern = "uniform"
	}

	clampI(&warnings, "entities.initial_deer_count", &c.Entities.InitialDeerCount, 0, 5000)
	clampI(&warnings, "entities.initial_wolf_count", &c.Entities.InitialWolfCount, 0, 5000)
	clampI(&warnings, "entities.max_entities", &c.Entities.MaxEntities, 1, 10000)
	clampF(&warnings, "entities.max_hunger", &c.Entities.MaxHunger, 10, 1000)
	clampF(&warnings, "entities.initial_hunger_spawn", &c.Entities.InitialHungerSpawn, 1, c.Entities.MaxHunger)
	clampF(&warnings, "entities.initial_hunger_offspring", &c.Entities.InitialHungerOffspring, 1, c.Entities.MaxHunger)
	clampF(&warnings, "entities.initial_spawn_min_distance", &c.Entities.InitialSpawnMinDistance, 0, 100)

	clampF(&warnings, "derived_stats.speed_multiplier", &c.DerivedStats.SpeedMultiplier, 0.1, 10)
	clampF(&warnings, "derived_stats.perception_multiplier", &c.DerivedStats.PerceptionMultiplier, 0.5, 50)
	clampF(&warnings, "derived_stats.base_hunger_decay", &c.DerivedStats.BaseHungerDecay, 0, 10)

	clampF(&warnings, "movement.move_cost", &c.Movement.MoveCost, 0, 10)
	clampF(&warnings, "movement.flee_cost_bonus", &c.Movement.FleeCostBonus, 0, 10)

	clampF(&warnings, "reproduction.cost", &c.Reproduction.Cost, 0, 0.95)
	clampF(&warnings, "reproduction.safety_buffer", &c.Reproduction.SafetyBuffer, 0, 0.95)
	clampI(&warnings, "reproduction.cooldown", &c.Reproduction.Cooldown, 0, 100000)
	clampF(&warnings, "reproduction.offspring_spawn_offset_max", &c.Reproduction.OffspringSpawnOffsetMax, 0, 100)

	clampF(&warnings, "evolution.base_mutation_rate", &c.Evolution.BaseMutationRate, 0, 1)
	clampF(&warnings, "evolution.behavioral_mutation_rate", &c.Evolution.BehavioralMutationRate, 0, 1)
	clampF(&warnings, "evolution.lifecycle_mutation_rate", &c.Evolution.LifecycleMutationRate, 0, 1)

	clampF(&warnings, "corpse.food_multiplier", &c.Corpse.FoodMultiplier, 0, 100)
	clampI(&warnings, "corpse.decay_ticks", &c.Corpse.DecayTicks, 1, 1000000)
	clampF(&warnings, "corpse.eat_rate_per_tick", &c.Corpse.EatRatePerTick, 1, 1000)

	clampF(&warnings, "performance.spatial_bucket_size", &c.Performance.SpatialBucketSize, 1, 10000)
	clampI(&warnings, "performance.action_history_limit", &c.Performance.ActionHistoryLimit, 0, 10000000)

	clampF(&warnings, "ui.tick_rate", &c.UI.TickRate, 1, 240)

	// Reproduction economics must leave headroom above the cost of a
	// litter, otherwise every birth is lethal. Rescale proportionally.
	if sum := c.Reproduction.Cost + c.Reproduction.SafetyBuffer; sum > 0.95 {
		f := 0.95 / sum
		c.Reproduction.Cost *= f
		c.Reproduction.SafetyBuffer *= f
		warnings = append(warnings, fmt.Sprintf(
			"reproduction: cost+safety_buffer %.3f exceeds 0.95, rescaled to %.3f+%.3f",
			sum, c.Reproduction.Cost, c.Reproduction.SafetyBuffer))
	}

	// The spatial index stays correct with small buckets (queries widen
	// their footprint), but warn because it defeats the bucket sizing.
	if c.Performance.SpatialBucketSize < c.MaxAlertRange() {
		warnings = append(warnings, fmt.Sprintf(
			"performance.spatial_bucket_size %.1f is below the maximum alert range %.1f",
			c.Performance.SpatialBucketSize, c.MaxAlertRange()))
	}

	// Initial population must fit under the entity cap.
	if total := c.Entities.InitialDeerCount + c.Entities.InitialWolfCount; total > c.Entities.MaxEntities {
		over := total - c.Entities.MaxEntities
		cut := min(over, c.Entities.InitialWolfCount)
		c.Entities.InitialWolfCount -= cut
		over -= cut
		c.Entities.InitialDeerCount -= over
		warnings = append(warnings, fmt.Sprintf(
			"entities: initial population %d exceeds max_entities %d, reduced to %d deer / %d wolves",
			total, c.Entities.MaxEntities, c.Entities.InitialDeerCount, c.Entities.InitialWolfCount))
	}

	return warnings
}

func clampF(warnings *[]string, name string, v *float64, lo, hi float64) {
	if *v < lo {
		*warnings = append(*warnings, fmt.Sprintf("%s: %v below minimum %v, clamped", name, *v, lo))
		*v = lo
	} else if *v > hi {
		*warnings = append(*warnings, fmt.Sprintf("%s: %v above maximum %v, clamped", name, *v, hi))
		*v = hi
	}
}

func clampI(warnings *[]string, name string, v *int, lo, hi int) {
	if *v < lo {
		*warnings = append(*warnings, fmt.Sprintf("%s: %d below minimum %d, clamped", name, *v, lo))
		*v = lo
	} else if *v > hi {
		*warnings = append(*warnings, fmt.Sprintf("%s: %d above maximum %d, clamped", name, *v, hi))
		*v = hi
	}
}
