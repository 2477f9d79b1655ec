package sim

import (
	"fmt"
	"sync"
	"time"

	"github.com/pthm-cable/meadow/components"
	"github.com/pthm-cable/meadow/config"
	"github.com/pthm-cable/meadow/genetics"
	"github.com/pthm-cable/meadow/geom"
	"github.com/pthm-cable/meadow/rng"
	"github.com/pthm-cable/meadow/species"
	"github.com/pthm-cable/meadow/systems"
	"github.com/pthm-cable/meadow/world"
)

// Speed bounds for the wall-clock scheduler.
const (
	MinSpeed = 0.1
	MaxSpeed = 10.0
)

// spawnAttempts bounds the placement retries when honouring the initial
// spawn minimum distance. After that the last candidate is accepted.
const spawnAttempts = 10

// Simulation is the façade exposed to shells. The deterministic substrate
// is driven exclusively by Step (directly or via the wall-clock loop);
// same seed and same number of steps reproduce the same state regardless
// of real-time pacing.
type Simulation struct {
	mu sync.Mutex

	cfg      config.Config
	origSeed uint32
	seed     uint32
	rng      *rng.Source

	store *world.Store
	veg   *systems.VegetationGrid
	index *systems.SpatialIndex

	tick    uint64
	pending []Event

	emitter *emitter
	history ActionSink

	speed   float64
	running bool
	stop    chan struct{}
}

// New creates a simulation from a validated configuration and a seed. The
// configuration is copied; later changes by the caller have no effect.
func New(cfg *config.Config, seed uint32) *Simulation {
	s := &Simulation{
		cfg:      *cfg,
		origSeed: seed,
		seed:     seed,
		speed:    1,
		emitter:  newEmitter(),
	}
	s.cfg.Validate()
	s.initWorld()
	return s
}

// initWorld rebuilds the deterministic substrate from the current seed.
// Random consumption order is fixed: vegetation first, then deer, then
// wolves.
func (s *Simulation) initWorld() {
	c := &s.cfg
	s.rng = rng.New(s.seed)
	s.store = world.NewStore()
	s.veg = systems.NewVegetationGrid(c.World.Width, c.World.Height, c.Vegetation.TileSize)
	s.index = systems.NewSpatialIndex(c.World.Width, c.World.Height, c.Performance.SpatialBucketSize)
	s.tick = 0

	if c.Vegetation.Pattern == "patchy" {
		s.veg.InitPatchy(int64(s.seed), c.Vegetation.PatchScale, c.Vegetation.PatchThreshold)
	} else {
		s.veg.InitUniform(s.rng, c.Vegetation.InitialDensity)
	}

	for i := 0; i < c.Entities.InitialDeerCount; i++ {
		s.spawnFounder(species.Deer)
	}
	for i := 0; i < c.Entities.InitialWolfCount; i++ {
		s.spawnFounder(species.Wolf)
	}
}

// spawnFounder places one initial animal: a position honouring the spawn
// minimum distance (bounded retries), baseline attributes passed through
// one mutation round, and the configured spawn hunger.
func (s *Simulation) spawnFounder(sp species.Species) {
	c := &s.cfg
	pos := geom.Vec2{
		X: s.rng.FloatRange(0, c.World.Width),
		Y: s.rng.FloatRange(0, c.World.Height),
	}
	minDist := c.Entities.InitialSpawnMinDistance
	if minDist > 0 {
		for attempt := 0; attempt < spawnAttempts; attempt++ {
			if _, crowded := s.index.Nearest(pos, minDist, ""); !crowded {
				break
			}
			pos = geom.Vec2{
				X: s.rng.FloatRange(0, c.World.Width),
				Y: s.rng.FloatRange(0, c.World.Height),
			}
		}
	}

	attrs := genetics.Offspring(components.BaselineAttributes(sp), c, s.rng)
	derived := components.ComputeDerived(attrs.Base, c.DerivedParams())
	state := components.AnimalState{Hunger: c.Entities.InitialHungerSpawn}

	e, ident := s.store.AddAnimal(sp, pos, attrs, derived, state, "", 0)
	s.index.Insert(systems.Entry{Entity: e, ID: ident.ID, Pos: pos, Size: attrs.Base.Size})
}

// Step runs one tick. Events are emitted synchronously after the tick
// completes, outside the state lock, so listeners may issue snapshot
// queries.
func (s *Simulation) Step() {
	s.mu.Lock()
	s.runTick()
	events := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, e := range events {
		s.emitter.emit(e)
	}
}

// Start begins the wall-clock loop at TickRate * speed. Starting a
// running simulation is a no-op.
func (s *Simulation) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	stop := make(chan struct{})
	s.stop = stop
	s.mu.Unlock()

	go s.runLoop(stop)
}

func (s *Simulation) runLoop(stop chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-time.After(s.tickInterval()):
			select {
			case <-stop:
				return
			default:
			}
			s.Step()
		}
	}
}

func (s *Simulation) tickInterval() time.Duration {
	s.mu.Lock()
	rate := s.cfg.UI.TickRate * s.speed
	s.mu.Unlock()
	if rate <= 0 {
		rate = 1
	}
	return time.Duration(float64(time.Second) / rate)
}

// Pause stops the wall-clock loop. Idempotent; has no effect on
// simulation state.
func (s *Simulation) Pause() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stop)
	s.mu.Unlock()

	s.emitter.emit(Event{Kind: EventPaused, Tick: s.CurrentTick()})
}

// Resume restarts the wall-clock loop after a pause. Idempotent.
func (s *Simulation) Resume() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	stop := make(chan struct{})
	s.stop = stop
	s.mu.Unlock()

	go s.runLoop(stop)
	s.emitter.emit(Event{Kind: EventResumed, Tick: s.CurrentTick()})
}

// SetSpeed adjusts the wall-clock multiplier, clamped to [0.1, 10]. The
// deterministic substrate is unaffected.
func (s *Simulation) SetSpeed(x float64) {
	s.mu.Lock()
	s.speed = geom.Clamp(x, MinSpeed, MaxSpeed)
	s.mu.Unlock()
}

// Speed returns the current wall-clock multiplier.
func (s *Simulation) Speed() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speed
}

// Reset rebuilds the world with the given seed, or the original seed when
// omitted. The tick counter restarts at zero.
func (s *Simulation) Reset(seed ...uint32) {
	s.mu.Lock()
	if len(seed) > 0 {
		s.seed = seed[0]
	} else {
		s.seed = s.origSeed
	}
	s.initWorld()
	tick := s.tick
	s.mu.Unlock()

	s.emitter.emit(Event{Kind: EventReset, Tick: tick})
}

// Subscribe registers a listener for one event kind and returns a token
// for Unsubscribe.
func (s *Simulation) Subscribe(kind EventKind, fn Listener) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.emitter.subscribe(kind, fn)
}

// Unsubscribe removes a listener.
func (s *Simulation) Unsubscribe(kind EventKind, id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emitter.unsubscribe(kind, id)
}

// SetActionHistory installs the optional per-animal action sink. Pass nil
// to disable.
func (s *Simulation) SetActionHistory(sink ActionSink) {
	s.mu.Lock()
	s.history = sink
	s.mu.Unlock()
}

// Seed returns the seed of the current run.
func (s *Simulation) Seed() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seed
}

// CurrentTick returns the number of completed ticks.
func (s *Simulation) CurrentTick() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick
}

// Config returns a copy of the validated configuration in use.
func (s *Simulation) Config() config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// LivingAnimals returns snapshots of all living animals sorted by id.
func (s *Simulation) LivingAnimals() []AnimalSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	living := s.store.LivingAnimals()
	out := make([]AnimalSnapshot, len(living))
	for i, e := range living {
		out[i] = s.animalSnapshot(e)
	}
	return out
}

// AnimalsBySpecies returns snapshots of the living animals of one
// species, sorted by id.
func (s *Simulation) AnimalsBySpecies(sp species.Species) []AnimalSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	entities := s.store.AnimalsBySpecies(sp)
	out := make([]AnimalSnapshot, len(entities))
	for i, e := range entities {
		out[i] = s.animalSnapshot(e)
	}
	return out
}

// Corpses returns snapshots of all corpses sorted by id.
func (s *Simulation) Corpses() []CorpseSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	entities := s.store.Corpses()
	out := make([]CorpseSnapshot, len(entities))
	for i, e := range entities {
		out[i] = s.corpseSnapshot(e)
	}
	return out
}

// VegetationPositions returns the world centers of all vegetated tiles in
// row-major order.
func (s *Simulation) VegetationPositions() []geom.Vec2 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.veg.Positions()
}

// VegetationCount returns the number of vegetated tiles.
func (s *Simulation) VegetationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.veg.Count()
}

// DeerCount returns the number of living deer.
func (s *Simulation) DeerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.CountSpecies(species.Deer)
}

// WolfCount returns the number of living wolves.
func (s *Simulation) WolfCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.CountSpecies(species.Wolf)
}

// AddAnimal inserts one animal with baseline attributes at the given
// position (clamped to world bounds) and spawn hunger. It is a mutation
// entry point for shells and scenarios; it consumes no random draws.
func (s *Simulation) AddAnimal(sp species.Species, pos geom.Vec2) (components.AnimalID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store.CountLiving() >= s.cfg.Entities.MaxEntities {
		return "", fmt.Errorf("entity cap %d reached", s.cfg.Entities.MaxEntities)
	}
	pos = pos.ClampRect(s.cfg.World.Width, s.cfg.World.Height)
	attrs := components.BaselineAttributes(sp)
	derived := components.ComputeDerived(attrs.Base, s.cfg.DerivedParams())
	state := components.AnimalState{Hunger: s.cfg.Entities.InitialHungerSpawn}
	e, ident := s.store.AddAnimal(sp, pos, attrs, derived, state, "", 0)
	s.index.Insert(systems.Entry{Entity: e, ID: ident.ID, Pos: pos, Size: attrs.Base.Size})
	return ident.ID, nil
}

// SetAnimalAge overwrites one animal's age. Mutation entry point for
// shells and scenarios; unknown ids report false.
func (s *Simulation) SetAnimalAge(id components.AnimalID, age int32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.UpdateAnimal(id, func(_ *components.Position, _ *components.Attributes, _ *components.Derived, st *components.AnimalState) {
		st.Age = age
	})
}

// publish queues an event for emission after the running tick completes.
func (s *Simulation) publish(e Event) {
	s.pending = append(s.pending, e)
}
