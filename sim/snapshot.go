package sim

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/meadow/components"
	"github.com/pthm-cable/meadow/geom"
	"github.com/pthm-cable/meadow/species"
)

// AnimalSnapshot is a value copy of one animal, taken between ticks.
type AnimalSnapshot struct {
	ID              components.AnimalID
	Species         species.Species
	Pos             geom.Vec2
	Hunger          float64
	Age             int32
	TicksSinceRepro int32
	Generation      uint32
	ParentID        components.AnimalID
	Attrs           components.Attributes
	Derived         components.Derived
}

// CorpseSnapshot is a value copy of one corpse.
type CorpseSnapshot struct {
	ID            components.CorpseID
	SourceSpecies species.Species
	SourceID      components.AnimalID
	Pos           geom.Vec2
	SourceSize    float64
	FoodValue     float64
	DecayTimer    int32
}

// animalSnapshot copies an animal entity's state. Must be called before
// the entity is removed.
func (s *Simulation) animalSnapshot(e ecs.Entity) AnimalSnapshot {
	ident := s.store.Identity(e)
	pos := s.store.Position(e)
	state := s.store.State(e)
	return AnimalSnapshot{
		ID:              ident.ID,
		Species:         ident.Species,
		Pos:             pos.Vec(),
		Hunger:          state.Hunger,
		Age:             state.Age,
		TicksSinceRepro: state.TicksSinceRepro,
		Generation:      ident.Generation,
		ParentID:        ident.ParentID,
		Attrs:           *s.store.Attributes(e),
		Derived:         *s.store.Derived(e),
	}
}

func (s *Simulation) corpseSnapshot(e ecs.Entity) CorpseSnapshot {
	c := s.store.Corpse(e)
	pos := s.store.Position(e)
	return CorpseSnapshot{
		ID:            c.ID,
		SourceSpecies: c.SourceSpecies,
		SourceID:      c.SourceID,
		Pos:           pos.Vec(),
		SourceSize:    c.SourceSize,
		FoodValue:     c.FoodValue,
		DecayTimer:    c.DecayTimer,
	}
}
