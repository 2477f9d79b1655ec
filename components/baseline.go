package components

import "github.com/pthm-cable/meadow/species"

// BaselineAttributes returns the founder attribute vector for a species.
// Founders pass through one mutation round at spawn, so with non-zero
// mutation rates the initial population carries a seeded spread around
// these values.
func BaselineAttributes(sp species.Species) Attributes {
	switch sp {
	case species.Wolf:
		return Attributes{
			Base: Base{
				Strength:   14,
				Agility:    10,
				Endurance:  8,
				Perception: 14,
				Size:       1.3,
			},
			Behavioral: Behavioral{
				Aggression:            0.7,
				FlightInstinct:        0.2,
				CarrionPreference:     0.4,
				FoodPriorityThreshold: 0.5,
				ReproductiveUrge:      0.4,
			},
			Lifecycle: Lifecycle{
				MaxAge:      700,
				MaturityAge: 80,
				LitterSize:  2,
			},
		}
	default: // Deer
		return Attributes{
			Base: Base{
				Strength:   5,
				Agility:    12,
				Endurance:  10,
				Perception: 12,
				Size:       1.0,
			},
			Behavioral: Behavioral{
				Aggression:            0.1,
				FlightInstinct:        0.8,
				CarrionPreference:     0.0,
				FoodPriorityThreshold: 0.5,
				ReproductiveUrge:      0.5,
			},
			Lifecycle: Lifecycle{
				MaxAge:      500,
				MaturityAge: 50,
				LitterSize:  2,
			},
		}
	}
}
