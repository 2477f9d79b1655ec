package telemetry

import (
	"github.com/pthm-cable/meadow/behavior"
	"github.com/pthm-cable/meadow/sim"
)

// Collector subscribes to a simulation's events and aggregates them into
// window stats. It observes only event snapshots and read-only queries.
type Collector struct {
	sim        *sim.Simulation
	windowSize uint64
	current    WindowStats
	windows    []WindowStats
	lifetime   *LifetimeTracker

	onWindow func(WindowStats)
	tokens   []subToken
}

type subToken struct {
	kind sim.EventKind
	id   int
}

// NewCollector creates a collector flushing a window every windowTicks
// ticks. The optional onWindow callback fires at each flush.
func NewCollector(s *sim.Simulation, windowTicks uint64, onWindow func(WindowStats)) *Collector {
	if windowTicks == 0 {
		windowTicks = 100
	}
	return &Collector{
		sim:        s,
		windowSize: windowTicks,
		lifetime:   NewLifetimeTracker(),
		onWindow:   onWindow,
	}
}

// Lifetime returns the per-animal lifetime tracker.
func (c *Collector) Lifetime() *LifetimeTracker {
	return c.lifetime
}

// Windows returns all flushed windows.
func (c *Collector) Windows() []WindowStats {
	return c.windows
}

// Attach subscribes the collector to the simulation.
func (c *Collector) Attach() {
	c.sub(sim.EventAnimalBorn, func(e sim.Event) {
		c.current.Births++
		c.lifetime.RecordBirth(e.Animal, e.Tick)
	})
	c.sub(sim.EventAnimalDied, func(e sim.Event) {
		switch e.Cause {
		case behavior.CauseOldAge:
			c.current.DeathsOldAge++
		case behavior.CauseKilled:
			c.current.DeathsKilled++
		default:
			c.current.DeathsStarvation++
		}
		c.lifetime.RecordDeath(e.Animal.ID, e.Tick, e.Cause)
	})
	c.sub(sim.EventCorpseCreated, func(e sim.Event) { c.current.CorpsesCreated++ })
	c.sub(sim.EventCorpseRemoved, func(e sim.Event) { c.current.CorpsesRemoved++ })
	c.sub(sim.EventTick, func(e sim.Event) {
		if e.Tick%c.windowSize == 0 {
			c.flush(e)
		}
	})
}

// Detach unsubscribes everything.
func (c *Collector) Detach() {
	for _, t := range c.tokens {
		c.sim.Unsubscribe(t.kind, t.id)
	}
	c.tokens = nil
}

func (c *Collector) sub(kind sim.EventKind, fn sim.Listener) {
	c.tokens = append(c.tokens, subToken{kind, c.sim.Subscribe(kind, fn)})
}

// flush closes the current window using the tick event's counts plus a
// population snapshot.
func (c *Collector) flush(e sim.Event) {
	w := c.current
	w.WindowEndTick = e.Tick
	w.DeerCount = e.DeerCount
	w.WolfCount = e.WolfCount
	w.VegetationCount = e.VegetationCount

	maxHunger := c.sim.Config().Entities.MaxHunger
	animals := c.sim.LivingAnimals()
	hunger := make([]float64, 0, len(animals))
	var speedSum, sizeSum float64
	for _, a := range animals {
		hunger = append(hunger, a.Hunger/maxHunger)
		speedSum += a.Derived.Speed
		sizeSum += a.Attrs.Base.Size
		if a.Generation > w.GenerationMax {
			w.GenerationMax = a.Generation
		}
	}
	w.HungerMean, w.HungerStd, w.HungerP10, w.HungerP50, w.HungerP90 = Distribution(hunger)
	if len(animals) > 0 {
		w.SpeedMean = speedSum / float64(len(animals))
		w.SizeMean = sizeSum / float64(len(animals))
	}

	c.windows = append(c.windows, w)
	if c.onWindow != nil {
		c.onWindow(w)
	}
	c.current = WindowStats{}
}
