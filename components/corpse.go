package components

import "github.com/pthm-cable/meadow/species"

// CorpseID is a stable ASCII identifier of the form "corpse_<n>".
type CorpseID string

// Corpse is an immobile food record left behind by a dead animal. Its
// position is snapped to the vegetation tile the animal died on. A corpse
// with zero food value is legal (starvation) and still decays normally.
type Corpse struct {
	ID            CorpseID
	Seq           uint64
	SourceSpecies species.Species
	SourceID      AnimalID
	SourceSize    float64
	FoodValue     float64
	DecayTimer    int32
}

// Expired reports whether the decay timer has run out. Food exhaustion
// is handled at consumption time, so a starvation corpse born with zero
// food value still decays normally on its timer.
func (c *Corpse) Expired() bool {
	return c.DecayTimer <= 0
}
