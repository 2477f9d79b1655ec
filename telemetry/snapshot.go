package telemetry

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math"

	"github.com/pthm-cable/meadow/components"
	"github.com/pthm-cable/meadow/sim"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot is the deterministic observable state of a simulation between
// ticks: animals sorted by id with positions and hunger rounded to 1e-3,
// corpse ids and food values, and the vegetation count. Two runs with the
// same seed and configuration produce identical snapshots.
type Snapshot struct {
	Version         int            `json:"version"`
	Seed            uint32         `json:"seed"`
	Tick            uint64         `json:"tick"`
	AnimalCount     int            `json:"animal_count"`
	CorpseCount     int            `json:"corpse_count"`
	VegetationCount int            `json:"vegetation_count"`
	Animals         []AnimalRecord `json:"animals"`
	Corpses         []CorpseRecord `json:"corpses"`
}

// AnimalRecord is one animal's comparable state.
type AnimalRecord struct {
	ID     components.AnimalID `json:"id"`
	X      float64             `json:"x"`
	Y      float64             `json:"y"`
	Hunger float64             `json:"hunger"`
	Age    int32               `json:"age"`
}

// CorpseRecord is one corpse's comparable state.
type CorpseRecord struct {
	ID        components.CorpseID `json:"id"`
	FoodValue float64             `json:"food_value"`
	Decay     int32               `json:"decay"`
}

// Capture snapshots a simulation through its public queries.
func Capture(s *sim.Simulation) Snapshot {
	animals := s.LivingAnimals()
	corpses := s.Corpses()

	snap := Snapshot{
		Version:         SnapshotVersion,
		Seed:            s.Seed(),
		Tick:            s.CurrentTick(),
		AnimalCount:     len(animals),
		CorpseCount:     len(corpses),
		VegetationCount: s.VegetationCount(),
		Animals:         make([]AnimalRecord, len(animals)),
		Corpses:         make([]CorpseRecord, len(corpses)),
	}
	for i, a := range animals {
		snap.Animals[i] = AnimalRecord{
			ID:     a.ID,
			X:      round3(a.Pos.X),
			Y:      round3(a.Pos.Y),
			Hunger: round3(a.Hunger),
			Age:    a.Age,
		}
	}
	for i, c := range corpses {
		snap.Corpses[i] = CorpseRecord{
			ID:        c.ID,
			FoodValue: round3(c.FoodValue),
			Decay:     c.DecayTimer,
		}
	}
	return snap
}

// JSON renders the snapshot as a stable JSON document.
func (s Snapshot) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling snapshot: %w", err)
	}
	return data, nil
}

// Hash returns a short digest of the snapshot JSON, for quick
// determinism comparisons.
func (s Snapshot) Hash() string {
	data, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	h := fnv.New64a()
	h.Write(data)
	return fmt.Sprintf("%016x", h.Sum64())
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
