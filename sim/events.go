// Package sim composes the simulation: the two-phase tick executor, the
// lifecycle façade exposed to shells, and the synchronous event stream.
package sim

import (
	"sort"

	"github.com/pthm-cable/meadow/behavior"
	"github.com/pthm-cable/meadow/components"
)

// EventKind identifies simulation events.
type EventKind uint8

const (
	EventTick EventKind = iota
	EventAnimalBorn
	EventAnimalDied
	EventCorpseCreated
	EventCorpseRemoved
	EventPaused
	EventResumed
	EventReset
)

// Event is one simulation event. Which fields are set depends on Kind.
// Events carry value snapshots, never live state: listeners may mutate UI
// state but can never reach back into the entity store.
type Event struct {
	Kind EventKind
	Tick uint64

	// EventTick
	DeerCount       int
	WolfCount       int
	VegetationCount int

	// EventAnimalBorn / EventAnimalDied
	Animal AnimalSnapshot
	Cause  behavior.DeathCause // EventAnimalDied only

	// EventCorpseCreated
	Corpse CorpseSnapshot

	// EventCorpseRemoved
	CorpseID components.CorpseID
}

// Listener receives events synchronously after a tick completes. A
// listener must not step or reset the simulation.
type Listener func(Event)

// emitter is a small synchronous pub/sub over event kinds. Listeners for
// a kind fire in subscription order.
type emitter struct {
	nextID int
	subs   map[EventKind]map[int]Listener
}

func newEmitter() *emitter {
	return &emitter{subs: make(map[EventKind]map[int]Listener)}
}

func (em *emitter) subscribe(kind EventKind, fn Listener) int {
	em.nextID++
	if em.subs[kind] == nil {
		em.subs[kind] = make(map[int]Listener)
	}
	em.subs[kind][em.nextID] = fn
	return em.nextID
}

func (em *emitter) unsubscribe(kind EventKind, id int) {
	delete(em.subs[kind], id)
}

func (em *emitter) emit(e Event) {
	listeners := em.subs[e.Kind]
	if len(listeners) == 0 {
		return
	}
	ids := make([]int, 0, len(listeners))
	for id := range listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		listeners[id](e)
	}
}
