// Package scenario defines starting rosters for a combat and loads them from
// YAML or the compiled-in registry.
package scenario

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cory-johannsen/combatsim/internal/game/combat"
)

// Variant selects the unit model a scenario uses.
type Variant string

const (
	// VariantStacks uses stacks of identical units removed toughest first.
	VariantStacks Variant = "stacks"
	// VariantShips uses individual ships with sustain damage and draws.
	VariantShips Variant = "ships"
)

// StackSpec describes one stack of identical units.
type StackSpec struct {
	Name         string `yaml:"name,omitempty"`
	Quantity     int    `yaml:"quantity"`
	Attacks      int    `yaml:"attacks,omitempty"`
	AttackRating int    `yaml:"attack_rating"`
	// AttacksPerQuantity defaults to 1 when omitted.
	AttacksPerQuantity int `yaml:"attacks_per_quantity,omitempty"`
}

// ShipSpec describes Count identical ships.
type ShipSpec struct {
	Name          string `yaml:"name,omitempty"`
	Count         int    `yaml:"count,omitempty"`
	Attacks       int    `yaml:"attacks"`
	CombatRating  int    `yaml:"combat_rating"`
	SustainDamage bool   `yaml:"sustain_damage,omitempty"`
}

// Side is one force in a scenario. Only the list matching the scenario's
// variant may be populated.
type Side struct {
	Stacks []StackSpec `yaml:"stacks,omitempty"`
	Ships  []ShipSpec  `yaml:"ships,omitempty"`
}

// Scenario is an immutable pair of starting forces.
//
// Precondition: ID must be non-empty and Validate must pass before Rosters is called.
type Scenario struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Description string  `yaml:"description,omitempty"`
	Variant     Variant `yaml:"variant"`
	Attacker    Side    `yaml:"attacker"`
	Defender    Side    `yaml:"defender"`
}

// ErrInvalidScenario wraps every validation failure.
var ErrInvalidScenario = errors.New("invalid scenario")

// Normalize fills defaulted fields: AttacksPerQuantity 1, Attacks derived from
// quantity, ship Count 1.
//
// Postcondition: returns a copy; the receiver is not modified.
func (s Scenario) Normalize() Scenario {
	s.Attacker = s.Attacker.normalize()
	s.Defender = s.Defender.normalize()
	return s
}

func (sd Side) normalize() Side {
	out := Side{}
	for _, st := range sd.Stacks {
		if st.AttacksPerQuantity == 0 {
			st.AttacksPerQuantity = 1
		}
		if st.Attacks == 0 {
			st.Attacks = st.AttacksPerQuantity * st.Quantity
		}
		out.Stacks = append(out.Stacks, st)
	}
	for _, sh := range sd.Ships {
		if sh.Count == 0 {
			sh.Count = 1
		}
		out.Ships = append(out.Ships, sh)
	}
	return out
}

// Validate checks all scenario invariants on a normalized scenario.
//
// Postcondition: Returns nil if valid, or an error wrapping ErrInvalidScenario
// that lists every violation.
func (s Scenario) Validate() error {
	var errs []string
	if s.ID == "" {
		errs = append(errs, "id must not be empty")
	}
	switch s.Variant {
	case VariantStacks, VariantShips:
	default:
		errs = append(errs, fmt.Sprintf("variant must be one of [stacks, ships], got %q", s.Variant))
	}
	errs = append(errs, s.Attacker.validate("attacker", s.Variant)...)
	errs = append(errs, s.Defender.validate("defender", s.Variant)...)
	if len(errs) > 0 {
		return fmt.Errorf("%w %q: %s", ErrInvalidScenario, s.ID, strings.Join(errs, "; "))
	}
	return nil
}

func (sd Side) validate(side string, v Variant) []string {
	var errs []string
	if v == VariantStacks && len(sd.Ships) > 0 {
		errs = append(errs, fmt.Sprintf("%s: ships are not allowed in a stacks scenario", side))
	}
	if v == VariantShips && len(sd.Stacks) > 0 {
		errs = append(errs, fmt.Sprintf("%s: stacks are not allowed in a ships scenario", side))
	}
	for i, st := range sd.Stacks {
		if st.Quantity < 0 {
			errs = append(errs, fmt.Sprintf("%s.stacks[%d].quantity must be >= 0, got %d", side, i, st.Quantity))
		}
		if st.AttackRating < 1 {
			errs = append(errs, fmt.Sprintf("%s.stacks[%d].attack_rating must be >= 1, got %d", side, i, st.AttackRating))
		}
		if st.AttacksPerQuantity < 1 {
			errs = append(errs, fmt.Sprintf("%s.stacks[%d].attacks_per_quantity must be >= 1, got %d", side, i, st.AttacksPerQuantity))
		}
		if st.Attacks != st.AttacksPerQuantity*st.Quantity {
			errs = append(errs, fmt.Sprintf("%s.stacks[%d].attacks must equal attacks_per_quantity * quantity (%d), got %d",
				side, i, st.AttacksPerQuantity*st.Quantity, st.Attacks))
		}
	}
	for i, sh := range sd.Ships {
		if sh.Count < 1 {
			errs = append(errs, fmt.Sprintf("%s.ships[%d].count must be >= 1, got %d", side, i, sh.Count))
		}
		if sh.Attacks < 0 {
			errs = append(errs, fmt.Sprintf("%s.ships[%d].attacks must be >= 0, got %d", side, i, sh.Attacks))
		}
		if sh.CombatRating < 1 {
			errs = append(errs, fmt.Sprintf("%s.ships[%d].combat_rating must be >= 1, got %d", side, i, sh.CombatRating))
		}
	}
	return errs
}

// Rosters builds fresh starting rosters for both sides.
//
// Precondition: s is normalized and valid.
// Postcondition: the returned rosters share no state with s or with each other.
func (s Scenario) Rosters() (attacker, defender combat.Roster) {
	if s.Variant == VariantShips {
		return s.Attacker.ships(), s.Defender.ships()
	}
	return s.Attacker.stacks(), s.Defender.stacks()
}

func (sd Side) stacks() *combat.StackRoster {
	out := make([]combat.Stack, 0, len(sd.Stacks))
	for _, st := range sd.Stacks {
		out = append(out, combat.Stack{
			Quantity:           st.Quantity,
			Attacks:            st.Attacks,
			AttackRating:       st.AttackRating,
			AttacksPerQuantity: st.AttacksPerQuantity,
		})
	}
	return combat.NewStackRoster(out...)
}

func (sd Side) ships() *combat.ShipRoster {
	var out []combat.Ship
	for _, sh := range sd.Ships {
		for i := 0; i < sh.Count; i++ {
			out = append(out, combat.Ship{
				Attacks:       sh.Attacks,
				CombatRating:  sh.CombatRating,
				SustainDamage: sh.SustainDamage,
			})
		}
	}
	return combat.NewShipRoster(out...)
}

// WinRule returns the winner rule for the scenario's variant.
func (s Scenario) WinRule() combat.WinRule {
	if s.Variant == VariantShips {
		return combat.ShipWinRule
	}
	return combat.StackWinRule
}

// Outcomes lists the outcome categories the scenario can produce, in report order.
func (s Scenario) Outcomes() []combat.Outcome {
	if s.Variant == VariantShips {
		return []combat.Outcome{combat.AttackerWins, combat.DefenderWins, combat.Draw}
	}
	return []combat.Outcome{combat.AttackerWins, combat.DefenderWins}
}
