package components

import (
	"github.com/pthm-cable/meadow/geom"
	"github.com/pthm-cable/meadow/species"
)

// AnimalID is a stable ASCII identifier of the form "<prefix>_<n>" with a
// monotonically increasing n per species prefix. Ids are never reused.
type AnimalID string

// Identity is the immutable part of an animal: id, species and lineage.
type Identity struct {
	ID         AnimalID
	Seq        uint64 // numeric suffix of ID, kept for ordering
	Species    species.Species
	ParentID   AnimalID // empty for founders
	Generation uint32
}

// Position is an entity's world position.
type Position struct {
	X, Y float64
}

// Vec converts the position to a geom vector.
func (p Position) Vec() geom.Vec2 {
	return geom.Vec2{X: p.X, Y: p.Y}
}

// Set overwrites the position from a geom vector.
func (p *Position) Set(v geom.Vec2) {
	p.X, p.Y = v.X, v.Y
}

// AnimalState is the mutable per-tick state of a living animal. Hunger is
// a fullness meter: it decays every tick and the animal dies at zero.
type AnimalState struct {
	Hunger          float64
	Age             int32
	TicksSinceRepro int32
	Dead            bool
}

// IsMature reports whether the animal has reached its maturity age.
func (s *AnimalState) IsMature(a *Attributes) bool {
	return float64(s.Age) >= a.Lifecycle.MaturityAge
}
