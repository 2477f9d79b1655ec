// Package genetics implements the inheritance pipeline: asexual copy of
// the parent's attribute vector, clamped multiplicative mutation, and the
// maturity invariant. Derived stats are recomputed by the caller from the
// final mutated base attributes; they are never inherited.
package genetics

import (
	"math"

	"github.com/pthm-cable/meadow/components"
	"github.com/pthm-cable/meadow/config"
	"github.com/pthm-cable/meadow/rng"
)

// Offspring produces a child attribute vector from a single parent. Each
// attribute v draws m ~ N(0, rate) and becomes clamp(v*(1+m)); integer
// lifecycle attributes are rounded after clamping. Categories mutate in
// declaration order so the random stream is consumed deterministically.
// A zero rate reproduces the parent exactly.
func Offspring(parent components.Attributes, cfg *config.Config, r *rng.Source) components.Attributes {
	child := parent
	mutateGroup(child.BaseFields(), cfg.Evolution.BaseMutationRate, r)
	mutateGroup(child.BehavioralFields(), cfg.Evolution.BehavioralMutationRate, r)
	mutateGroup(child.LifecycleFields(), cfg.Evolution.LifecycleMutationRate, r)
	child.EnforceMaturity()
	return child
}

func mutateGroup(fields []components.AttrField, rate float64, r *rng.Source) {
	for _, f := range fields {
		m := r.Normal(0, rate)
		v := f.Bounds.Clamp(*f.Value * (1 + m))
		if f.Integer {
			v = math.Round(v)
		}
		*f.Value = v
	}
}
