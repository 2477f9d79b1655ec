package sim

import (
	"fmt"
	"math"
	"sort"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/meadow/behavior"
	"github.com/pthm-cable/meadow/components"
	"github.com/pthm-cable/meadow/genetics"
	"github.com/pthm-cable/meadow/geom"
	"github.com/pthm-cable/meadow/species"
	"github.com/pthm-cable/meadow/systems"
)

// agentRef is one scheduled animal in a tick.
type agentRef struct {
	entity ecs.Entity
	id     components.AnimalID
	alert  float64
}

// runTick executes one tick: a read-only decision phase over a consistent
// snapshot, then an execution phase walking the same schedule. Animals
// are ordered by alert range descending (ties by id), so perceptive
// animals act first in both phases, and an animal killed early in the
// execution phase is skipped by everyone scheduled after it.
func (s *Simulation) runTick() {
	s.tick++
	order := s.schedule()

	// Decision phase: no state mutations, PRNG consumed in schedule order.
	actions := make(map[components.AnimalID]behavior.Action, len(order))
	for _, a := range order {
		view := s.buildView(a)
		actions[a.id] = behavior.Decide(&view, &s.cfg, s.rng)
	}

	// Execution phase.
	deaths := make(map[components.AnimalID]bool)
	for _, a := range order {
		if deaths[a.id] {
			continue
		}
		s.dispatch(a, actions[a.id], deaths)
	}

	// Age every animal that survived the tick.
	for _, e := range s.store.LivingAnimals() {
		st := s.store.State(e)
		st.Age++
		st.TicksSinceRepro++
	}

	s.ageCorpses()
	s.veg.Spread(s.rng, s.cfg.Vegetation.SpreadRate)

	// Dead entities are destroyed only after their death was observed
	// and published; their ids are retired for good. Removal runs in id
	// order so the entity world evolves identically across replays.
	dead := make([]components.AnimalID, 0, len(deaths))
	for id := range deaths {
		dead = append(dead, id)
	}
	sort.Slice(dead, func(i, j int) bool { return dead[i].Less(dead[j]) })
	for _, id := range dead {
		s.store.RemoveAnimal(id)
	}

	s.publish(Event{
		Kind:            EventTick,
		Tick:            s.tick,
		DeerCount:       s.store.CountSpecies(species.Deer),
		WolfCount:       s.store.CountSpecies(species.Wolf),
		VegetationCount: s.veg.Count(),
	})
}

// schedule snapshots the living animals sorted by alert range descending,
// ties by id ascending.
func (s *Simulation) schedule() []agentRef {
	living := s.store.LivingAnimals()
	order := make([]agentRef, len(living))
	for i, e := range living {
		order[i] = agentRef{
			entity: e,
			id:     s.store.Identity(e).ID,
			alert:  s.store.Derived(e).AlertRange,
		}
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].alert != order[j].alert {
			return order[i].alert > order[j].alert
		}
		return order[i].id.Less(order[j].id)
	})
	return order
}

// buildView assembles the read-only perception snapshot for one animal.
func (s *Simulation) buildView(a agentRef) behavior.View {
	ident := s.store.Identity(a.entity)
	pos := s.store.Position(a.entity).Vec()
	attrs := s.store.Attributes(a.entity)
	derived := s.store.Derived(a.entity)
	state := s.store.State(a.entity)

	self := behavior.Agent{
		ID:              ident.ID,
		Species:         ident.Species,
		Diet:            species.DietOf(ident.Species),
		Pos:             pos,
		Attrs:           *attrs,
		Derived:         *derived,
		Hunger:          state.Hunger,
		Age:             state.Age,
		TicksSinceRepro: state.TicksSinceRepro,
	}

	hits := s.index.QueryRadius(pos, derived.AlertRange, ident.ID)
	neighbors := make([]behavior.Neighbor, 0, len(hits))
	for _, h := range hits {
		ns := s.store.State(h.Entity)
		if ns == nil || ns.Dead {
			continue
		}
		ni := s.store.Identity(h.Entity)
		na := s.store.Attributes(h.Entity)
		nd := s.store.Derived(h.Entity)
		neighbors = append(neighbors, behavior.Neighbor{
			ID:          ni.ID,
			Species:     ni.Species,
			Diet:        species.DietOf(ni.Species),
			Pos:         s.store.Position(h.Entity).Vec(),
			Dist:        h.Dist,
			Size:        na.Base.Size,
			AttackPower: nd.AttackPower,
			Aggression:  na.Behavioral.Aggression,
			Fitness:     na.Base.Strength + na.Base.Agility + na.Base.Endurance,
			ReproReady:  behavior.ReproductionReady(na, ns.Hunger, ns.Age, ns.TicksSinceRepro, &s.cfg),
		})
	}

	var corpses []behavior.CorpseSighting
	for _, ce := range s.store.Corpses() {
		c := s.store.Corpse(ce)
		if c.FoodValue <= 0 {
			continue
		}
		cPos := s.store.Position(ce).Vec()
		d := pos.Dist(cPos)
		if d <= derived.AlertRange {
			corpses = append(corpses, behavior.CorpseSighting{
				ID:        c.ID,
				Pos:       cPos,
				Dist:      d,
				FoodValue: c.FoodValue,
			})
		}
	}
	sort.Slice(corpses, func(i, j int) bool {
		if corpses[i].Dist != corpses[j].Dist {
			return corpses[i].Dist < corpses[j].Dist
		}
		return corpses[i].ID.Less(corpses[j].ID)
	})

	return behavior.View{Self: self, Neighbors: neighbors, Corpses: corpses, Veg: s.veg}
}

// dispatch applies one action to the world.
func (s *Simulation) dispatch(a agentRef, act behavior.Action, deaths map[components.AnimalID]bool) {
	s.recordAction(a.id, act)

	switch act.Kind {
	case behavior.ActionDie:
		s.kill(a.entity, a.id, act.Cause, deaths)

	case behavior.ActionFlee:
		d := s.moveAnimal(a, act.Target)
		st := s.store.State(a.entity)
		st.Hunger -= (s.cfg.Movement.MoveCost + s.cfg.Movement.FleeCostBonus) * d
		s.applyDecay(a.entity)

	case behavior.ActionEat:
		s.eat(a, act)
		s.applyDecay(a.entity)

	case behavior.ActionMoveToFood, behavior.ActionMoveToMate:
		d := s.moveAnimal(a, act.Target)
		s.store.State(a.entity).Hunger -= s.cfg.Movement.MoveCost * d
		s.applyDecay(a.entity)

	case behavior.ActionAttack:
		s.attack(a, act.Prey, deaths)
		s.applyDecay(a.entity)

	case behavior.ActionReproduce:
		s.reproduce(a)
		s.applyDecay(a.entity)

	case behavior.ActionDrift:
		d := s.moveAnimal(a, act.Target)
		s.store.State(a.entity).Hunger -= s.cfg.Movement.MoveCost * d
		s.applyDecay(a.entity)

	default: // ActionStay
		s.applyDecay(a.entity)
	}
}

// moveAnimal moves toward the target (clamped to world bounds) by at most
// the animal's speed, updates the spatial index, and returns the distance
// covered.
func (s *Simulation) moveAnimal(a agentRef, target geom.Vec2) float64 {
	pos := s.store.Position(a.entity)
	speed := s.store.Derived(a.entity).Speed
	size := s.store.Attributes(a.entity).Base.Size

	clamped := target.ClampRect(s.cfg.World.Width, s.cfg.World.Height)
	next, d := geom.MoveToward(pos.Vec(), clamped, speed)
	pos.Set(next)
	s.index.Update(systems.Entry{Entity: a.entity, ID: a.id, Pos: next, Size: size})
	return d
}

// applyDecay debits the per-tick metabolic cost, clamped at zero so the
// starvation transition is observed by next tick's decision phase.
func (s *Simulation) applyDecay(e ecs.Entity) {
	st := s.store.State(e)
	st.Hunger -= s.store.Derived(e).HungerDecayRate
	if st.Hunger < 0 {
		st.Hunger = 0
	}
}

// kill marks an animal dead, removes it from the index, and leaves a
// corpse snapped to the vegetation tile it died on.
func (s *Simulation) kill(e ecs.Entity, id components.AnimalID, cause behavior.DeathCause, deaths map[components.AnimalID]bool) {
	deaths[id] = true
	st := s.store.State(e)
	st.Dead = true
	s.index.Remove(id)

	snap := s.animalSnapshot(e)
	s.publish(Event{Kind: EventAnimalDied, Tick: s.tick, Animal: snap, Cause: cause})

	c := &s.cfg
	ident := s.store.Identity(e)
	attrs := s.store.Attributes(e)
	foodValue := attrs.Base.Size * (st.Hunger / c.Entities.MaxHunger) * c.Corpse.FoodMultiplier
	corpsePos := s.veg.SnapToTile(s.store.Position(e).Vec())
	ce, _ := s.store.AddCorpse(ident.Species, id, corpsePos, attrs.Base.Size, foodValue, int32(c.Corpse.DecayTicks))
	s.publish(Event{Kind: EventCorpseCreated, Tick: s.tick, Corpse: s.corpseSnapshot(ce)})
}

// eat consumes vegetation on the animal's tile or bites a corpse. A
// vanished target is a silent no-op.
func (s *Simulation) eat(a agentRef, act behavior.Action) {
	c := &s.cfg
	st := s.store.State(a.entity)

	switch act.Food {
	case behavior.FoodVegetation:
		gx, gy := s.veg.WorldToGrid(s.store.Position(a.entity).X, s.store.Position(a.entity).Y)
		if !s.veg.Has(gx, gy) {
			return
		}
		s.veg.Remove(gx, gy)
		st.Hunger = math.Min(c.Entities.MaxHunger, st.Hunger+c.Vegetation.FoodValue)

	case behavior.FoodCorpse:
		ce, ok := s.store.CorpseEntity(act.Corpse)
		if !ok {
			return
		}
		corpse := s.store.Corpse(ce)
		if corpse.FoodValue <= 0 {
			return
		}
		take := math.Min(corpse.FoodValue, c.Corpse.EatRatePerTick)
		st.Hunger = math.Min(c.Entities.MaxHunger, st.Hunger+take)
		corpse.FoodValue -= take
		if corpse.FoodValue <= 0 {
			id := corpse.ID
			s.store.RemoveCorpse(id)
			s.publish(Event{Kind: EventCorpseRemoved, Tick: s.tick, CorpseID: id})
		}
	}
}

// attack resolves a bite: the target dies iff it is still alive and the
// attacker's power exceeds its defense. Otherwise the prey escapes.
func (s *Simulation) attack(a agentRef, preyID components.AnimalID, deaths map[components.AnimalID]bool) {
	te, ok := s.store.AnimalEntity(preyID)
	if !ok || deaths[preyID] {
		return
	}
	ts := s.store.State(te)
	if ts.Dead {
		return
	}
	attacker := s.store.Derived(a.entity)
	defender := s.store.Derived(te)
	if attacker.AttackPower <= defender.Defense {
		return
	}

	preySize := s.store.Attributes(te).Base.Size
	s.kill(te, preyID, behavior.CauseKilled, deaths)

	st := s.store.State(a.entity)
	st.Hunger = math.Min(s.cfg.Entities.MaxHunger, st.Hunger+preySize*10)
}

// reproduce spawns the litter asexually. Offspring above the entity cap
// are silently skipped. Random draws per offspring are fixed: the
// mutation pass, then the X and Y spawn offsets.
func (s *Simulation) reproduce(a agentRef) {
	c := &s.cfg
	parentIdent := s.store.Identity(a.entity)
	parentAttrs := *s.store.Attributes(a.entity)
	parentPos := s.store.Position(a.entity).Vec()
	parentGen := parentIdent.Generation
	sp := parentIdent.Species

	litter := int(parentAttrs.Lifecycle.LitterSize)
	off := c.Reproduction.OffspringSpawnOffsetMax
	for i := 0; i < litter; i++ {
		if s.store.CountLiving() >= c.Entities.MaxEntities {
			break
		}
		childAttrs := genetics.Offspring(parentAttrs, c, s.rng)
		dx := s.rng.FloatRange(-off, off)
		dy := s.rng.FloatRange(-off, off)
		childPos := parentPos.Add(geom.Vec2{X: dx, Y: dy}).ClampRect(c.World.Width, c.World.Height)

		derived := components.ComputeDerived(childAttrs.Base, c.DerivedParams())
		state := components.AnimalState{Hunger: c.Entities.InitialHungerOffspring}
		e, ident := s.store.AddAnimal(sp, childPos, childAttrs, derived, state, parentIdent.ID, parentGen+1)
		s.index.Insert(systems.Entry{Entity: e, ID: ident.ID, Pos: childPos, Size: childAttrs.Base.Size})
		s.publish(Event{Kind: EventAnimalBorn, Tick: s.tick, Animal: s.animalSnapshot(e)})
	}

	st := s.store.State(a.entity)
	st.Hunger -= c.Reproduction.Cost * c.Entities.MaxHunger
	if st.Hunger < 0 {
		st.Hunger = 0
	}
	st.TicksSinceRepro = 0
}

// ageCorpses advances decay and removes exhausted corpses.
func (s *Simulation) ageCorpses() {
	var removed []components.CorpseID
	for _, ce := range s.store.Corpses() {
		corpse := s.store.Corpse(ce)
		corpse.DecayTimer--
		if corpse.Expired() {
			removed = append(removed, corpse.ID)
		}
	}
	for _, id := range removed {
		s.store.RemoveCorpse(id)
		s.publish(Event{Kind: EventCorpseRemoved, Tick: s.tick, CorpseID: id})
	}
}

// recordAction feeds the optional history sink.
func (s *Simulation) recordAction(id components.AnimalID, act behavior.Action) {
	if s.history == nil {
		return
	}
	detail := ""
	switch act.Kind {
	case behavior.ActionDie:
		detail = act.Cause.String()
	case behavior.ActionFlee, behavior.ActionMoveToFood, behavior.ActionMoveToMate, behavior.ActionDrift:
		detail = fmt.Sprintf("target=(%.2f,%.2f)", act.Target.X, act.Target.Y)
	case behavior.ActionAttack:
		detail = "prey=" + string(act.Prey)
	case behavior.ActionEat:
		if act.Food == behavior.FoodCorpse {
			detail = "corpse=" + string(act.Corpse)
		} else {
			detail = "vegetation"
		}
	}
	s.history.Record(ActionRecord{AnimalID: id, Tick: s.tick, Action: act.Kind.String(), Detail: detail})
}
