package world

import (
	"testing"

	"github.com/pthm-cable/meadow/components"
	"github.com/pthm-cable/meadow/geom"
	"github.com/pthm-cable/meadow/species"
)

var params = components.DerivedParams{SpeedMultiplier: 1, PerceptionMultiplier: 5, BaseHungerDecay: 0.25}

func addDeer(s *Store, x, y float64) components.Identity {
	attrs := components.BaselineAttributes(species.Deer)
	derived := components.ComputeDerived(attrs.Base, params)
	_, ident := s.AddAnimal(species.Deer, geom.Vec2{X: x, Y: y}, attrs, derived, components.AnimalState{Hunger: 60}, "", 0)
	return ident
}

func TestIDAllocation(t *testing.T) {
	s := NewStore()

	d1 := addDeer(s, 1, 1)
	d2 := addDeer(s, 2, 2)
	if d1.ID != "deer_1" || d2.ID != "deer_2" {
		t.Errorf("deer ids = %v, %v", d1.ID, d2.ID)
	}

	attrs := components.BaselineAttributes(species.Wolf)
	derived := components.ComputeDerived(attrs.Base, params)
	_, w1 := s.AddAnimal(species.Wolf, geom.Vec2{X: 3, Y: 3}, attrs, derived, components.AnimalState{Hunger: 60}, "", 0)
	if w1.ID != "wolf_1" {
		t.Errorf("wolf id = %v, want independent prefix counter", w1.ID)
	}
}

func TestIDsNeverReused(t *testing.T) {
	s := NewStore()
	d1 := addDeer(s, 1, 1)
	s.RemoveAnimal(d1.ID)
	d2 := addDeer(s, 2, 2)
	if d2.ID == d1.ID {
		t.Errorf("id %v reused after removal", d1.ID)
	}
	if d2.ID != "deer_2" {
		t.Errorf("id = %v, want deer_2", d2.ID)
	}
}

func TestLookupAndUpdate(t *testing.T) {
	s := NewStore()
	ident := addDeer(s, 10, 20)

	e, ok := s.AnimalEntity(ident.ID)
	if !ok {
		t.Fatal("lookup failed")
	}
	if pos := s.Position(e); pos.X != 10 || pos.Y != 20 {
		t.Errorf("position = %+v", pos)
	}

	ok = s.UpdateAnimal(ident.ID, func(p *components.Position, _ *components.Attributes, _ *components.Derived, st *components.AnimalState) {
		p.X = 15
		st.Hunger = 42
	})
	if !ok {
		t.Fatal("update reported failure")
	}
	if s.Position(e).X != 15 || s.State(e).Hunger != 42 {
		t.Error("update not applied")
	}

	// Updating an unknown id never creates.
	if s.UpdateAnimal("deer_999", func(*components.Position, *components.Attributes, *components.Derived, *components.AnimalState) {}) {
		t.Error("update of unknown id reported success")
	}
	if s.CountLiving() != 1 {
		t.Errorf("CountLiving = %d", s.CountLiving())
	}
}

func TestLivingAnimalsFiltersDead(t *testing.T) {
	s := NewStore()
	a := addDeer(s, 1, 1)
	b := addDeer(s, 2, 2)

	e, _ := s.AnimalEntity(a.ID)
	s.State(e).Dead = true

	living := s.LivingAnimals()
	if len(living) != 1 {
		t.Fatalf("living = %d", len(living))
	}
	if s.Identity(living[0]).ID != b.ID {
		t.Errorf("living[0] = %v", s.Identity(living[0]).ID)
	}
	if s.CountLiving() != 1 {
		t.Errorf("CountLiving = %d", s.CountLiving())
	}
}

func TestLivingAnimalsSortedByID(t *testing.T) {
	s := NewStore()
	for i := 0; i < 12; i++ {
		addDeer(s, float64(i), 0)
	}
	living := s.LivingAnimals()
	if len(living) != 12 {
		t.Fatalf("living = %d", len(living))
	}
	// Numeric suffix order: deer_2 before deer_10.
	prev := uint64(0)
	for _, e := range living {
		seq := s.Identity(e).Seq
		if seq <= prev {
			t.Fatalf("ids out of order: %d after %d", seq, prev)
		}
		prev = seq
	}
}

func TestSpeciesFilters(t *testing.T) {
	s := NewStore()
	addDeer(s, 1, 1)
	addDeer(s, 2, 2)
	attrs := components.BaselineAttributes(species.Wolf)
	derived := components.ComputeDerived(attrs.Base, params)
	s.AddAnimal(species.Wolf, geom.Vec2{X: 3, Y: 3}, attrs, derived, components.AnimalState{Hunger: 60}, "", 0)

	if n := len(s.AnimalsBySpecies(species.Deer)); n != 2 {
		t.Errorf("deer = %d", n)
	}
	if n := s.CountSpecies(species.Wolf); n != 1 {
		t.Errorf("wolves = %d", n)
	}
}

func TestCorpses(t *testing.T) {
	s := NewStore()
	_, c1 := s.AddCorpse(species.Deer, "deer_1", geom.Vec2{X: 5, Y: 5}, 1.0, 30, 150)
	_, c2 := s.AddCorpse(species.Wolf, "wolf_1", geom.Vec2{X: 6, Y: 6}, 1.3, 0, 150)

	if c1.ID != "corpse_1" || c2.ID != "corpse_2" {
		t.Errorf("corpse ids = %v, %v", c1.ID, c2.ID)
	}
	// Zero food value is legal (starvation corpse).
	if c2.FoodValue != 0 {
		t.Errorf("foodValue = %v", c2.FoodValue)
	}

	if len(s.Corpses()) != 2 {
		t.Fatalf("corpses = %d", len(s.Corpses()))
	}

	s.RemoveCorpse(c1.ID)
	if len(s.Corpses()) != 1 {
		t.Error("corpse removal failed")
	}
	if _, ok := s.CorpseEntity(c1.ID); ok {
		t.Error("removed corpse still resolvable")
	}
}

func TestLineage(t *testing.T) {
	s := NewStore()
	parent := addDeer(s, 1, 1)

	attrs := components.BaselineAttributes(species.Deer)
	derived := components.ComputeDerived(attrs.Base, params)
	_, child := s.AddAnimal(species.Deer, geom.Vec2{X: 1, Y: 1}, attrs, derived, components.AnimalState{Hunger: 50}, parent.ID, 1)

	if child.ParentID != parent.ID || child.Generation != 1 {
		t.Errorf("lineage = %+v", child)
	}
}
