package genetics

import (
	"testing"

	"github.com/pthm-cable/meadow/components"
	"github.com/pthm-cable/meadow/config"
	"github.com/pthm-cable/meadow/rng"
	"github.com/pthm-cable/meadow/species"
)

func TestZeroRateIsIdentity(t *testing.T) {
	cfg := config.Default()
	cfg.Evolution.BaseMutationRate = 0
	cfg.Evolution.BehavioralMutationRate = 0
	cfg.Evolution.LifecycleMutationRate = 0

	parent := components.BaselineAttributes(species.Deer)
	child := Offspring(parent, cfg, rng.New(42))

	if child != parent {
		t.Errorf("zero-rate offspring differs from parent:\nparent %+v\nchild  %+v", parent, child)
	}
}

func TestDeterministic(t *testing.T) {
	cfg := config.Default()
	parent := components.BaselineAttributes(species.Wolf)

	a := Offspring(parent, cfg, rng.New(7))
	b := Offspring(parent, cfg, rng.New(7))
	if a != b {
		t.Error("same seed produced different offspring")
	}

	c := Offspring(parent, cfg, rng.New(8))
	if a == c {
		t.Error("different seeds produced identical offspring")
	}
}

func TestOffspringInBounds(t *testing.T) {
	cfg := config.Default()
	cfg.Evolution.BaseMutationRate = 0.8
	cfg.Evolution.BehavioralMutationRate = 0.8
	cfg.Evolution.LifecycleMutationRate = 0.8

	r := rng.New(99)
	parent := components.BaselineAttributes(species.Deer)
	for i := 0; i < 500; i++ {
		child := Offspring(parent, cfg, r)
		if !child.InBounds() {
			t.Fatalf("offspring %d out of bounds: %+v", i, child)
		}
		parent = child
	}
}

func TestLifecycleIntegersRounded(t *testing.T) {
	cfg := config.Default()
	r := rng.New(3)
	parent := components.BaselineAttributes(species.Deer)
	for i := 0; i < 100; i++ {
		child := Offspring(parent, cfg, r)
		for _, f := range child.LifecycleFields() {
			if *f.Value != float64(int64(*f.Value)) {
				t.Fatalf("%s = %v, not integral", f.Name, *f.Value)
			}
		}
		parent = child
	}
}

func TestMaturityEnforced(t *testing.T) {
	cfg := config.Default()
	cfg.Evolution.LifecycleMutationRate = 0.5

	r := rng.New(12)
	parent := components.BaselineAttributes(species.Deer)
	// Push maturity close to max age to provoke collisions.
	parent.Lifecycle.MaxAge = 60
	parent.Lifecycle.MaturityAge = 59

	for i := 0; i < 300; i++ {
		child := Offspring(parent, cfg, r)
		if child.Lifecycle.MaturityAge >= child.Lifecycle.MaxAge {
			t.Fatalf("maturity invariant broken: %+v", child.Lifecycle)
		}
	}
}

func TestParentUnmodified(t *testing.T) {
	cfg := config.Default()
	parent := components.BaselineAttributes(species.Deer)
	before := parent
	Offspring(parent, cfg, rng.New(5))
	if parent != before {
		t.Error("Offspring mutated the parent vector")
	}
}
