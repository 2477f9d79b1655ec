// Package world owns the simulation entities. Animals and corpses live in
// an ark ECS world; every other component addresses them through stable
// string ids resolved here. Ids increase monotonically per species prefix
// and are never reused.
package world

import (
	"fmt"
	"sort"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/meadow/components"
	"github.com/pthm-cable/meadow/geom"
	"github.com/pthm-cable/meadow/species"
)

// Store is the exclusive owner of all animal and corpse entities.
type Store struct {
	world *ecs.World

	animalMapper *ecs.Map5[components.Position, components.Identity, components.Attributes, components.Derived, components.AnimalState]
	animalFilter *ecs.Filter5[components.Position, components.Identity, components.Attributes, components.Derived, components.AnimalState]
	corpseMapper *ecs.Map2[components.Position, components.Corpse]
	corpseFilter *ecs.Filter2[components.Position, components.Corpse]

	posMap    *ecs.Map1[components.Position]
	identMap  *ecs.Map1[components.Identity]
	attrMap   *ecs.Map1[components.Attributes]
	derMap    *ecs.Map1[components.Derived]
	stateMap  *ecs.Map1[components.AnimalState]
	corpseMap *ecs.Map1[components.Corpse]

	animals map[components.AnimalID]ecs.Entity
	corpses map[components.CorpseID]ecs.Entity
	seqs    map[string]uint64
}

// NewStore creates an empty entity store.
func NewStore() *Store {
	w := ecs.NewWorld()
	return &Store{
		world:        w,
		animalMapper: ecs.NewMap5[components.Position, components.Identity, components.Attributes, components.Derived, components.AnimalState](w),
		animalFilter: ecs.NewFilter5[components.Position, components.Identity, components.Attributes, components.Derived, components.AnimalState](w),
		corpseMapper: ecs.NewMap2[components.Position, components.Corpse](w),
		corpseFilter: ecs.NewFilter2[components.Position, components.Corpse](w),
		posMap:       ecs.NewMap1[components.Position](w),
		identMap:     ecs.NewMap1[components.Identity](w),
		attrMap:      ecs.NewMap1[components.Attributes](w),
		derMap:       ecs.NewMap1[components.Derived](w),
		stateMap:     ecs.NewMap1[components.AnimalState](w),
		corpseMap:    ecs.NewMap1[components.Corpse](w),
		animals:      make(map[components.AnimalID]ecs.Entity),
		corpses:      make(map[components.CorpseID]ecs.Entity),
		seqs:         make(map[string]uint64),
	}
}

// nextSeq advances and returns the counter for an id prefix.
func (s *Store) nextSeq(prefix string) uint64 {
	s.seqs[prefix]++
	return s.seqs[prefix]
}

// AddAnimal creates a living animal and returns its identity. The derived
// stats must already agree with the attributes; the store does not
// recompute them.
func (s *Store) AddAnimal(sp species.Species, pos geom.Vec2, attrs components.Attributes, derived components.Derived, state components.AnimalState, parentID components.AnimalID, generation uint32) (ecs.Entity, components.Identity) {
	prefix := sp.String()
	seq := s.nextSeq(prefix)
	ident := components.Identity{
		ID:         components.AnimalID(fmt.Sprintf("%s_%d", prefix, seq)),
		Seq:        seq,
		Species:    sp,
		ParentID:   parentID,
		Generation: generation,
	}
	p := components.Position{X: pos.X, Y: pos.Y}
	e := s.animalMapper.NewEntity(&p, &ident, &attrs, &derived, &state)
	s.animals[ident.ID] = e
	return e, ident
}

// AddCorpse creates a corpse record at the given (already tile-snapped)
// position.
func (s *Store) AddCorpse(srcSpecies species.Species, srcID components.AnimalID, pos geom.Vec2, srcSize, foodValue float64, decayTicks int32) (ecs.Entity, components.Corpse) {
	seq := s.nextSeq("corpse")
	c := components.Corpse{
		ID:            components.CorpseID(fmt.Sprintf("corpse_%d", seq)),
		Seq:           seq,
		SourceSpecies: srcSpecies,
		SourceID:      srcID,
		SourceSize:    srcSize,
		FoodValue:     foodValue,
		DecayTimer:    decayTicks,
	}
	p := components.Position{X: pos.X, Y: pos.Y}
	e := s.corpseMapper.NewEntity(&p, &c)
	s.corpses[c.ID] = e
	return e, c
}

// RemoveAnimal destroys an animal entity. Its id is retired forever.
func (s *Store) RemoveAnimal(id components.AnimalID) {
	e, ok := s.animals[id]
	if !ok {
		return
	}
	s.world.RemoveEntity(e)
	delete(s.animals, id)
}

// RemoveCorpse destroys a corpse entity.
func (s *Store) RemoveCorpse(id components.CorpseID) {
	e, ok := s.corpses[id]
	if !ok {
		return
	}
	s.world.RemoveEntity(e)
	delete(s.corpses, id)
}

// AnimalEntity resolves an id. Missing ids report false; callers treat
// that as a no-op.
func (s *Store) AnimalEntity(id components.AnimalID) (ecs.Entity, bool) {
	e, ok := s.animals[id]
	return e, ok
}

// CorpseEntity resolves a corpse id.
func (s *Store) CorpseEntity(id components.CorpseID) (ecs.Entity, bool) {
	e, ok := s.corpses[id]
	return e, ok
}

// Component accessors. The returned pointers stay valid until the next
// entity creation or removal.

func (s *Store) Position(e ecs.Entity) *components.Position { return s.posMap.Get(e) }

func (s *Store) Identity(e ecs.Entity) *components.Identity { return s.identMap.Get(e) }

func (s *Store) Attributes(e ecs.Entity) *components.Attributes { return s.attrMap.Get(e) }

func (s *Store) Derived(e ecs.Entity) *components.Derived { return s.derMap.Get(e) }

func (s *Store) State(e ecs.Entity) *components.AnimalState { return s.stateMap.Get(e) }

func (s *Store) Corpse(e ecs.Entity) *components.Corpse { return s.corpseMap.Get(e) }

// UpdateAnimal applies a mutation to an existing animal's state. It never
// creates: unknown ids are a no-op and report false.
func (s *Store) UpdateAnimal(id components.AnimalID, fn func(*components.Position, *components.Attributes, *components.Derived, *components.AnimalState)) bool {
	e, ok := s.animals[id]
	if !ok {
		return false
	}
	fn(s.posMap.Get(e), s.attrMap.Get(e), s.derMap.Get(e), s.stateMap.Get(e))
	return true
}

// LivingAnimals returns all animals with Dead == false, sorted by id.
func (s *Store) LivingAnimals() []ecs.Entity {
	type row struct {
		e  ecs.Entity
		id components.AnimalID
	}
	var rows []row
	query := s.animalFilter.Query()
	for query.Next() {
		_, ident, _, _, state := query.Get()
		if !state.Dead {
			rows = append(rows, row{query.Entity(), ident.ID})
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].id.Less(rows[j].id) })
	out := make([]ecs.Entity, len(rows))
	for i, r := range rows {
		out[i] = r.e
	}
	return out
}

// AnimalsBySpecies filters the living animals by species, sorted by id.
func (s *Store) AnimalsBySpecies(sp species.Species) []ecs.Entity {
	var out []ecs.Entity
	for _, e := range s.LivingAnimals() {
		if s.identMap.Get(e).Species == sp {
			out = append(out, e)
		}
	}
	return out
}

// CountLiving returns the number of living animals.
func (s *Store) CountLiving() int {
	n := 0
	query := s.animalFilter.Query()
	for query.Next() {
		_, _, _, _, state := query.Get()
		if !state.Dead {
			n++
		}
	}
	return n
}

// CountSpecies returns the number of living animals of one species.
func (s *Store) CountSpecies(sp species.Species) int {
	n := 0
	query := s.animalFilter.Query()
	for query.Next() {
		_, ident, _, _, state := query.Get()
		if !state.Dead && ident.Species == sp {
			n++
		}
	}
	return n
}

// Corpses returns all corpse entities sorted by id.
func (s *Store) Corpses() []ecs.Entity {
	type row struct {
		e  ecs.Entity
		id components.CorpseID
	}
	var rows []row
	query := s.corpseFilter.Query()
	for query.Next() {
		_, c := query.Get()
		rows = append(rows, row{query.Entity(), c.ID})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].id.Less(rows[j].id) })
	out := make([]ecs.Entity, len(rows))
	for i, r := range rows {
		out[i] = r.e
	}
	return out
}
