// Package behavior implements perception and the decision rule. It is
// pure: functions read a prebuilt view of the world and never mutate
// simulation state, so the decision phase of a tick can run against a
// consistent snapshot.
package behavior

import (
	"math"
	"sort"

	"github.com/pthm-cable/meadow/components"
	"github.com/pthm-cable/meadow/geom"
	"github.com/pthm-cable/meadow/rng"
	"github.com/pthm-cable/meadow/species"
	"github.com/pthm-cable/meadow/systems"
)

// Agent is the deciding animal's own data at decision time.
type Agent struct {
	ID              components.AnimalID
	Species         species.Species
	Diet            species.Diet
	Pos             geom.Vec2
	Attrs           components.Attributes
	Derived         components.Derived
	Hunger          float64
	Age             int32
	TicksSinceRepro int32
}

// Neighbor is another living animal within the agent's alert range.
type Neighbor struct {
	ID          components.AnimalID
	Species     species.Species
	Diet        species.Diet
	Pos         geom.Vec2
	Dist        float64
	Size        float64
	AttackPower float64
	Aggression  float64
	Fitness     float64 // strength + agility + endurance
	ReproReady  bool
}

// CorpseSighting is a corpse with remaining food within alert range.
type CorpseSighting struct {
	ID        components.CorpseID
	Pos       geom.Vec2
	Dist      float64
	FoodValue float64
}

// View is the read-only perception snapshot the tick executor hands to
// the decision rule. Neighbors and corpses are sorted by distance
// ascending, ties by id ascending.
type View struct {
	Self      Agent
	Neighbors []Neighbor
	Corpses   []CorpseSighting
	Veg       *systems.VegetationGrid
}

// Threats returns the neighbours the agent perceives as threatening,
// sorted by distance ascending, ties by id. A neighbour threatens iff
// (attackPower * aggression) / defense > 1 - flightInstinct, with zero
// defense counting as infinitely threatened.
func Threats(v *View) []Neighbor {
	cut := 1 - v.Self.Attrs.Behavioral.FlightInstinct
	defense := v.Self.Derived.Defense

	var out []Neighbor
	for _, n := range v.Neighbors {
		perceived := math.Inf(1)
		if defense > 0 {
			perceived = n.AttackPower * n.Aggression / defense
		}
		if perceived > cut {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Dist != out[j].Dist {
			return out[i].Dist < out[j].Dist
		}
		return out[i].ID.Less(out[j].ID)
	})
	return out
}

// FleeVector computes the normalised weighted repulsion away from the
// threats: sum of (self - other) / max(1, distance). A zero sum yields
// the zero vector and the caller falls back to idling.
func FleeVector(self geom.Vec2, threats []Neighbor) geom.Vec2 {
	var sum geom.Vec2
	for _, t := range threats {
		w := 1 / math.Max(1, t.Dist)
		sum = sum.Add(self.Sub(t.Pos).Scale(w))
	}
	return sum.Normalize()
}

// NearestVegetation returns the closest vegetated tile center within the
// agent's alert range.
func NearestVegetation(v *View) (geom.Vec2, bool) {
	if v.Veg == nil || !v.Self.Diet.Vegetation {
		return geom.Vec2{}, false
	}
	gx, gy, ok := v.Veg.NearestIn(v.Self.Pos, v.Self.Derived.AlertRange)
	if !ok {
		return geom.Vec2{}, false
	}
	return v.Veg.GridToWorld(gx, gy), true
}

// NearestCorpse returns the closest corpse with food remaining.
func NearestCorpse(v *View) (CorpseSighting, bool) {
	if len(v.Corpses) == 0 {
		return CorpseSighting{}, false
	}
	return v.Corpses[0], true
}

// NearestPrey returns the closest neighbour of a different species that
// does not itself hunt. Predators never count each other as prey.
func NearestPrey(v *View) (Neighbor, bool) {
	for _, n := range v.Neighbors {
		if n.Species != v.Self.Species && !n.Diet.Hunts() {
			return n, true
		}
	}
	return Neighbor{}, false
}

// FoodKind identifies the selected food target.
type FoodKind uint8

const (
	FoodNone FoodKind = iota
	FoodVegetation
	FoodCorpse
	FoodPrey
)

// FoodTarget is the result of food selection.
type FoodTarget struct {
	Kind   FoodKind
	Pos    geom.Vec2
	Corpse CorpseSighting
	Prey   Neighbor
}

// SelectFood picks the agent's food target per its diet. A hunter with
// both prey and a corpse in sight consumes exactly one random draw and
// chooses the corpse with probability carrionPreference; if only one
// option exists no draw is consumed.
func SelectFood(v *View, r *rng.Source) FoodTarget {
	d := v.Self.Diet
	if d.Animals || d.Corpses {
		var prey Neighbor
		var corpse CorpseSighting
		haveP, haveC := false, false
		if d.Animals {
			prey, haveP = NearestPrey(v)
		}
		if d.Corpses {
			corpse, haveC = NearestCorpse(v)
		}
		switch {
		case haveP && haveC:
			if r.Bool(v.Self.Attrs.Behavioral.CarrionPreference) {
				return FoodTarget{Kind: FoodCorpse, Pos: corpse.Pos, Corpse: corpse}
			}
			return FoodTarget{Kind: FoodPrey, Pos: prey.Pos, Prey: prey}
		case haveC:
			return FoodTarget{Kind: FoodCorpse, Pos: corpse.Pos, Corpse: corpse}
		case haveP:
			return FoodTarget{Kind: FoodPrey, Pos: prey.Pos, Prey: prey}
		}
		return FoodTarget{}
	}
	if pos, ok := NearestVegetation(v); ok {
		return FoodTarget{Kind: FoodVegetation, Pos: pos}
	}
	return FoodTarget{}
}

// SelectMate returns the best reproduction-ready neighbour of the same
// species: highest fitness (strength + agility + endurance), ties by
// distance ascending. The decision rule does not require a mate; the
// finder backs any sexual variant.
func SelectMate(v *View) (Neighbor, bool) {
	var out []Neighbor
	for _, n := range v.Neighbors {
		if n.Species == v.Self.Species && n.ReproReady {
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		return Neighbor{}, false
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Fitness != out[j].Fitness {
			return out[i].Fitness > out[j].Fitness
		}
		if out[i].Dist != out[j].Dist {
			return out[i].Dist < out[j].Dist
		}
		return out[i].ID.Less(out[j].ID)
	})
	return out[0], true
}
