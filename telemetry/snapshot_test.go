package telemetry

import (
	"encoding/json"
	"testing"

	"github.com/pthm-cable/meadow/config"
	"github.com/pthm-cable/meadow/sim"
)

func TestCaptureDeterministic(t *testing.T) {
	cfg := config.Default()
	cfg.Entities.InitialDeerCount = 10
	cfg.Entities.InitialWolfCount = 3

	run := func() Snapshot {
		s := sim.New(cfg, 98765)
		for i := 0; i < 120; i++ {
			s.Step()
		}
		return Capture(s)
	}

	a, b := run(), run()
	if a.Hash() != b.Hash() {
		t.Error("snapshot hashes differ for identical runs")
	}
	aj, _ := a.JSON()
	bj, _ := b.JSON()
	if string(aj) != string(bj) {
		t.Error("snapshot JSON differs for identical runs")
	}
}

func TestCaptureShape(t *testing.T) {
	cfg := config.Default()
	s := sim.New(cfg, 5)
	for i := 0; i < 10; i++ {
		s.Step()
	}

	snap := Capture(s)
	if snap.Version != SnapshotVersion || snap.Seed != 5 || snap.Tick != 10 {
		t.Errorf("header = %+v", snap)
	}
	if snap.AnimalCount != len(snap.Animals) || snap.CorpseCount != len(snap.Corpses) {
		t.Error("counts disagree with record slices")
	}
	// Animals arrive sorted by id from the query layer.
	for i := 1; i < len(snap.Animals); i++ {
		if !snap.Animals[i-1].ID.Less(snap.Animals[i].ID) {
			t.Fatalf("animals not sorted: %v before %v", snap.Animals[i-1].ID, snap.Animals[i].ID)
		}
	}
	// Positions are rounded to 1e-3: re-rounding is a no-op.
	for _, a := range snap.Animals {
		if round3(a.X) != a.X || round3(a.Y) != a.Y || round3(a.Hunger) != a.Hunger {
			t.Fatalf("record %v not rounded: %+v", a.ID, a)
		}
	}

	data, err := snap.JSON()
	if err != nil {
		t.Fatal(err)
	}
	var decoded Snapshot
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("snapshot JSON does not round-trip: %v", err)
	}
	if decoded.Tick != snap.Tick || decoded.AnimalCount != snap.AnimalCount {
		t.Error("round-trip lost fields")
	}
}
