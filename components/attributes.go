// Package components defines the data attached to simulation entities:
// the evolvable attribute schema, derived stats, per-animal state, and
// corpse records.
package components

import "math"

// Range bounds an attribute. Values are clamped, never rejected.
type Range struct {
	Min, Max float64
}

// Clamp limits v to the range.
func (r Range) Clamp(v float64) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Attribute bounds. Lifecycle attributes are integer-valued but stored as
// float64 so mutation math stays uniform; they are rounded after clamping.
var (
	BoundStrength   = Range{1, 20}
	BoundAgility    = Range{1, 20}
	BoundEndurance  = Range{1, 20}
	BoundPerception = Range{1, 20}
	BoundSize       = Range{0.3, 3.0}

	BoundAggression        = Range{0, 1}
	BoundFlightInstinct    = Range{0, 1}
	BoundCarrionPreference = Range{0, 1}
	BoundFoodPriority      = Range{0.1, 0.9}
	BoundReproductiveUrge  = Range{0.1, 0.9}

	BoundMaxAge      = Range{50, 2000}
	BoundMaturityAge = Range{10, 500}
	BoundLitterSize  = Range{1, 4}
)

// Base holds the physical attributes that feed the derived stats.
type Base struct {
	Strength   float64
	Agility    float64
	Endurance  float64
	Perception float64
	Size       float64
}

// Behavioral holds the decision-rule attributes.
type Behavioral struct {
	Aggression            float64
	FlightInstinct        float64
	CarrionPreference     float64
	FoodPriorityThreshold float64
	ReproductiveUrge      float64
}

// Lifecycle holds the integer-valued life-history attributes.
type Lifecycle struct {
	MaxAge      float64
	MaturityAge float64
	LitterSize  float64
}

// Attributes is the full evolvable vector of an animal.
type Attributes struct {
	Base       Base
	Behavioral Behavioral
	Lifecycle  Lifecycle
}

// AttrField exposes one attribute for uniform iteration. The mutation
// pipeline walks fields in declaration order so the random stream is
// consumed deterministically.
type AttrField struct {
	Name    string
	Value   *float64
	Bounds  Range
	Integer bool
}

// BaseFields returns the base attributes in declaration order.
func (a *Attributes) BaseFields() []AttrField {
	return []AttrField{
		{"strength", &a.Base.Strength, BoundStrength, false},
		{"agility", &a.Base.Agility, BoundAgility, false},
		{"endurance", &a.Base.Endurance, BoundEndurance, false},
		{"perception", &a.Base.Perception, BoundPerception, false},
		{"size", &a.Base.Size, BoundSize, false},
	}
}

// BehavioralFields returns the behavioural attributes in declaration order.
func (a *Attributes) BehavioralFields() []AttrField {
	return []AttrField{
		{"aggression", &a.Behavioral.Aggression, BoundAggression, false},
		{"flight_instinct", &a.Behavioral.FlightInstinct, BoundFlightInstinct, false},
		{"carrion_preference", &a.Behavioral.CarrionPreference, BoundCarrionPreference, false},
		{"food_priority_threshold", &a.Behavioral.FoodPriorityThreshold, BoundFoodPriority, false},
		{"reproductive_urge", &a.Behavioral.ReproductiveUrge, BoundReproductiveUrge, false},
	}
}

// LifecycleFields returns the lifecycle attributes in declaration order.
func (a *Attributes) LifecycleFields() []AttrField {
	return []AttrField{
		{"max_age", &a.Lifecycle.MaxAge, BoundMaxAge, true},
		{"maturity_age", &a.Lifecycle.MaturityAge, BoundMaturityAge, true},
		{"litter_size", &a.Lifecycle.LitterSize, BoundLitterSize, true},
	}
}

// ClampAll forces every attribute inside its bounds, rounds the integer
// attributes, and enforces maturityAge < maxAge.
func (a *Attributes) ClampAll() {
	for _, groups := range [][]AttrField{a.BaseFields(), a.BehavioralFields(), a.LifecycleFields()} {
		for _, f := range groups {
			v := f.Bounds.Clamp(*f.Value)
			if f.Integer {
				v = math.Round(v)
			}
			*f.Value = v
		}
	}
	a.EnforceMaturity()
}

// EnforceMaturity clamps maturityAge below maxAge.
func (a *Attributes) EnforceMaturity() {
	if a.Lifecycle.MaturityAge >= a.Lifecycle.MaxAge {
		a.Lifecycle.MaturityAge = a.Lifecycle.MaxAge - 1
	}
}

// InBounds reports whether every attribute lies inside its declared range
// and the maturity invariant holds.
func (a *Attributes) InBounds() bool {
	for _, groups := range [][]AttrField{a.BaseFields(), a.BehavioralFields(), a.LifecycleFields()} {
		for _, f := range groups {
			if *f.Value < f.Bounds.Min || *f.Value > f.Bounds.Max {
				return false
			}
		}
	}
	return a.Lifecycle.MaturityAge < a.Lifecycle.MaxAge
}

// DerivedParams carries the config constants that feed the derived-stat
// formulas.
type DerivedParams struct {
	SpeedMultiplier      float64
	PerceptionMultiplier float64
	BaseHungerDecay      float64
}

// Derived holds the stats recomputed from base attributes. They are never
// stored as independent truth: whenever base attributes change the owner
// must call ComputeDerived again.
type Derived struct {
	Speed           float64
	AlertRange      float64
	AttackPower     float64
	Defense         float64
	HungerDecayRate float64
}

// ComputeDerived evaluates the derived-stat formulas for a base vector.
func ComputeDerived(b Base, p DerivedParams) Derived {
	speed := b.Agility * math.Pow(b.Size, -0.5) * p.SpeedMultiplier
	return Derived{
		Speed:           speed,
		AlertRange:      b.Perception * p.PerceptionMultiplier,
		AttackPower:     b.Strength * math.Sqrt(b.Size),
		Defense:         b.Size * (1 + 0.3*b.Agility),
		HungerDecayRate: p.BaseHungerDecay * (b.Size + 0.3*speed) / b.Endurance,
	}
}
