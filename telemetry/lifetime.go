package telemetry

import (
	"github.com/pthm-cable/meadow/behavior"
	"github.com/pthm-cable/meadow/components"
	"github.com/pthm-cable/meadow/sim"
)

// LifetimeStats records one animal's life from the event stream.
type LifetimeStats struct {
	ID         components.AnimalID `csv:"id"`
	Species    string              `csv:"species"`
	Generation uint32              `csv:"generation"`
	ParentID   components.AnimalID `csv:"parent_id"`
	BirthTick  uint64              `csv:"birth_tick"`
	DeathTick  uint64              `csv:"death_tick"`
	DeathCause string              `csv:"death_cause"`
	Children   int                 `csv:"children"`
	Alive      bool                `csv:"alive"`
}

// LifetimeTracker indexes lifetime stats by animal id.
type LifetimeTracker struct {
	byID  map[components.AnimalID]*LifetimeStats
	order []components.AnimalID
}

// NewLifetimeTracker creates an empty tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{byID: make(map[components.AnimalID]*LifetimeStats)}
}

// RecordBirth registers a newborn and credits the parent.
func (t *LifetimeTracker) RecordBirth(a sim.AnimalSnapshot, tick uint64) {
	if _, ok := t.byID[a.ID]; ok {
		return
	}
	t.byID[a.ID] = &LifetimeStats{
		ID:         a.ID,
		Species:    a.Species.String(),
		Generation: a.Generation,
		ParentID:   a.ParentID,
		BirthTick:  tick,
		Alive:      true,
	}
	t.order = append(t.order, a.ID)

	if a.ParentID != "" {
		if parent, ok := t.byID[a.ParentID]; ok {
			parent.Children++
		}
	}
}

// RecordDeath closes an animal's record. Deaths of animals born before
// the tracker attached are recorded with a zero birth tick.
func (t *LifetimeTracker) RecordDeath(id components.AnimalID, tick uint64, cause behavior.DeathCause) {
	ls, ok := t.byID[id]
	if !ok {
		ls = &LifetimeStats{ID: id}
		t.byID[id] = ls
		t.order = append(t.order, id)
	}
	ls.DeathTick = tick
	ls.DeathCause = cause.String()
	ls.Alive = false
}

// Get returns the record for an id.
func (t *LifetimeTracker) Get(id components.AnimalID) (*LifetimeStats, bool) {
	ls, ok := t.byID[id]
	return ls, ok
}

// All returns every record in registration order.
func (t *LifetimeTracker) All() []LifetimeStats {
	out := make([]LifetimeStats, len(t.order))
	for i, id := range t.order {
		out[i] = *t.byID[id]
	}
	return out
}
