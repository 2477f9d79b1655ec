package behavior

import (
	"math"

	"github.com/pthm-cable/meadow/components"
	"github.com/pthm-cable/meadow/config"
	"github.com/pthm-cable/meadow/geom"
	"github.com/pthm-cable/meadow/rng"
)

// ActionKind enumerates the decisions an animal can make in one tick.
type ActionKind uint8

const (
	ActionStay ActionKind = iota
	ActionDie
	ActionFlee
	ActionEat
	ActionMoveToFood
	ActionMoveToMate // accepted by the executor as a MoveToFood synonym
	ActionAttack
	ActionReproduce
	ActionDrift
)

// String returns the action name for history sinks and logs.
func (k ActionKind) String() string {
	switch k {
	case ActionDie:
		return "die"
	case ActionFlee:
		return "flee"
	case ActionEat:
		return "eat"
	case ActionMoveToFood:
		return "move_to_food"
	case ActionMoveToMate:
		return "move_to_mate"
	case ActionAttack:
		return "attack"
	case ActionReproduce:
		return "reproduce"
	case ActionDrift:
		return "drift"
	default:
		return "stay"
	}
}

// DeathCause labels a death.
type DeathCause uint8

const (
	CauseStarvation DeathCause = iota
	CauseOldAge
	CauseKilled
)

// String returns the cause name.
func (c DeathCause) String() string {
	switch c {
	case CauseOldAge:
		return "old_age"
	case CauseKilled:
		return "killed"
	default:
		return "starvation"
	}
}

// Action is the self-contained decision result: every id, position and
// kind the executor needs is captured at decision time, so the execution
// phase never re-queries perception.
type Action struct {
	Kind   ActionKind
	Cause  DeathCause          // for ActionDie
	Target geom.Vec2           // for flee/move/drift
	Food   FoodKind            // for ActionEat
	Corpse components.CorpseID // for ActionEat on a corpse
	Prey   components.AnimalID // for ActionAttack
}

// fullRatio is the hunger ratio above which an animal stops seeking food.
const fullRatio = 0.9

// Decide runs the priority ladder and produces exactly one action. Every
// probabilistic branch consumes a fixed number of draws from r in a fixed
// order, which keeps the random stream reproducible across replays.
func Decide(v *View, cfg *config.Config, r *rng.Source) Action {
	self := &v.Self
	maxHunger := cfg.Entities.MaxHunger
	hungerRatio := self.Hunger / maxHunger

	// 1. Death.
	if self.Hunger <= 0 {
		return Action{Kind: ActionDie, Cause: CauseStarvation}
	}
	if float64(self.Age) >= self.Attrs.Lifecycle.MaxAge {
		return Action{Kind: ActionDie, Cause: CauseOldAge}
	}

	// 2. Flee. Well-fed animals always run; hungry ones weigh the threat
	// against the food they would abandon.
	if threats := Threats(v); len(threats) > 0 {
		threshold := self.Attrs.Behavioral.FoodPriorityThreshold
		flee := hungerRatio > threshold
		if !flee && r.Bool(hungerRatio/threshold) {
			flee = true
		}
		if flee {
			dir := FleeVector(self.Pos, threats)
			if !dir.IsZero() {
				return Action{
					Kind:   ActionFlee,
					Target: self.Pos.Add(dir.Scale(self.Derived.Speed)),
				}
			}
			return idle(v, cfg, r, hungerRatio)
		}
	}

	// 3. Feeding.
	if hungerRatio < fullRatio {
		switch target := SelectFood(v, r); target.Kind {
		case FoodPrey:
			contact := self.Attrs.Base.Size + target.Prey.Size + 2
			if target.Prey.Dist <= contact {
				if r.Bool(attackProbability(self, hungerRatio)) {
					return Action{Kind: ActionAttack, Prey: target.Prey.ID}
				}
				// Failed roll in contact: the prey slips by this tick.
			} else {
				return Action{Kind: ActionMoveToFood, Target: target.Pos}
			}
		case FoodVegetation:
			sgx, sgy := v.Veg.WorldToGrid(self.Pos.X, self.Pos.Y)
			tgx, tgy := v.Veg.WorldToGrid(target.Pos.X, target.Pos.Y)
			if sgx == tgx && sgy == tgy {
				return Action{Kind: ActionEat, Food: FoodVegetation}
			}
			return Action{Kind: ActionMoveToFood, Target: target.Pos}
		case FoodCorpse:
			if target.Corpse.Dist <= self.Attrs.Base.Size+2 {
				return Action{Kind: ActionEat, Food: FoodCorpse, Corpse: target.Corpse.ID}
			}
			return Action{Kind: ActionMoveToFood, Target: target.Pos}
		}
	}

	// 4. Opportunistic attack while sated.
	if self.Diet.Hunts() && hungerRatio >= fullRatio {
		if prey, ok := NearestPrey(v); ok {
			contact := self.Attrs.Base.Size + prey.Size + 2
			if prey.Dist <= contact && r.Bool(attackProbability(self, hungerRatio)) {
				return Action{Kind: ActionAttack, Prey: prey.ID}
			}
		}
	}

	// 5. Reproduce.
	if ReproductionReady(&self.Attrs, self.Hunger, self.Age, self.TicksSinceRepro, cfg) && r.Bool(self.Attrs.Behavioral.ReproductiveUrge) {
		return Action{Kind: ActionReproduce}
	}

	// 6. Idle.
	return idle(v, cfg, r, hungerRatio)
}

// attackProbability is aggression scaled down as the attacker fills up.
// The hunger ratio divides by max hunger, not a fixed constant.
func attackProbability(self *Agent, hungerRatio float64) float64 {
	return self.Attrs.Behavioral.Aggression * (1 - hungerRatio)
}

// ReproductionReady checks maturity, the litter-scaled hunger threshold,
// and the cooldown. The tick executor uses it to mark mate candidates in
// perception views.
func ReproductionReady(attrs *components.Attributes, hunger float64, age, ticksSince int32, cfg *config.Config) bool {
	life := attrs.Lifecycle
	if float64(age) < life.MaturityAge {
		return false
	}
	need := (cfg.Reproduction.Cost*life.LitterSize + cfg.Reproduction.SafetyBuffer) * cfg.Entities.MaxHunger
	if hunger <= need {
		return false
	}
	return ticksSince >= int32(cfg.Reproduction.Cooldown)
}

// idle drifts while hungry, stays put otherwise. Drift consumes one draw
// for the heading.
func idle(v *View, _ *config.Config, r *rng.Source, hungerRatio float64) Action {
	if hungerRatio < fullRatio {
		angle := r.Float64() * 2 * math.Pi
		dir := geom.Vec2{X: math.Cos(angle), Y: math.Sin(angle)}
		return Action{
			Kind:   ActionDrift,
			Target: v.Self.Pos.Add(dir.Scale(v.Self.Derived.Speed / 2)),
		}
	}
	return Action{Kind: ActionStay}
}
