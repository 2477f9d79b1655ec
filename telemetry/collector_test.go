package telemetry

import (
	"testing"

	"github.com/pthm-cable/meadow/config"
	"github.com/pthm-cable/meadow/geom"
	"github.com/pthm-cable/meadow/sim"
	"github.com/pthm-cable/meadow/species"
)

func TestCollectorWindows(t *testing.T) {
	cfg := config.Default()
	s := sim.New(cfg, 42)

	var flushed []WindowStats
	c := NewCollector(s, 50, func(w WindowStats) { flushed = append(flushed, w) })
	c.Attach()
	defer c.Detach()

	for i := 0; i < 100; i++ {
		s.Step()
	}

	if len(c.Windows()) != 2 {
		t.Fatalf("windows = %d, want 2", len(c.Windows()))
	}
	if len(flushed) != 2 {
		t.Fatalf("callbacks = %d, want 2", len(flushed))
	}

	w := c.Windows()[1]
	if w.WindowEndTick != 100 {
		t.Errorf("window end = %d", w.WindowEndTick)
	}
	if w.DeerCount != s.DeerCount() || w.WolfCount != s.WolfCount() {
		t.Error("window counts disagree with queries")
	}
	if w.DeerCount > 0 && w.HungerMean <= 0 {
		t.Error("hunger distribution not computed")
	}
}

func TestCollectorDeathAccounting(t *testing.T) {
	cfg := config.Default()
	cfg.Vegetation.InitialDensity = 0
	cfg.Vegetation.SpreadRate = 0
	cfg.Entities.InitialDeerCount = 5
	cfg.Entities.InitialWolfCount = 0
	cfg.Entities.InitialHungerSpawn = 10
	s := sim.New(cfg, 42)

	c := NewCollector(s, 100, nil)
	c.Attach()

	for i := 0; i < 100; i++ {
		s.Step()
	}

	if len(c.Windows()) != 1 {
		t.Fatalf("windows = %d", len(c.Windows()))
	}
	w := c.Windows()[0]
	if w.DeathsStarvation != 5 {
		t.Errorf("starvation deaths = %d, want 5", w.DeathsStarvation)
	}
	if w.CorpsesCreated != 5 {
		t.Errorf("corpses created = %d, want 5", w.CorpsesCreated)
	}
}

func TestCollectorDetach(t *testing.T) {
	s := sim.New(config.Default(), 42)
	c := NewCollector(s, 10, nil)
	c.Attach()
	for i := 0; i < 10; i++ {
		s.Step()
	}
	c.Detach()
	for i := 0; i < 20; i++ {
		s.Step()
	}
	if len(c.Windows()) != 1 {
		t.Errorf("windows after detach = %d, want 1", len(c.Windows()))
	}
}

func TestLifetimeTracker(t *testing.T) {
	cfg := config.Default()
	cfg.World.Width = 50
	cfg.World.Height = 50
	cfg.Vegetation.InitialDensity = 1.0
	cfg.Entities.InitialDeerCount = 0
	cfg.Entities.InitialWolfCount = 0
	s := sim.New(cfg, 42)
	founder, err := s.AddAnimal(species.Deer, geom.Vec2{X: 25, Y: 25})
	if err != nil {
		t.Fatal(err)
	}

	c := NewCollector(s, 100, nil)
	c.Attach()
	for i := 0; i < 200; i++ {
		s.Step()
	}

	records := c.Lifetime().All()
	if len(records) == 0 {
		t.Fatal("no births tracked over 200 lush ticks")
	}

	firstborn := false
	for _, r := range records {
		if r.ParentID == founder {
			firstborn = true
			if r.Generation != 1 {
				t.Errorf("founder child generation = %d", r.Generation)
			}
		}
	}
	if !firstborn {
		t.Error("no child of the founder tracked")
	}

	if got, ok := c.Lifetime().Get(records[0].ID); !ok || got.ID != records[0].ID {
		t.Error("Get failed for a tracked record")
	}
}
