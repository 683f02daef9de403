// Package combat implements the round-based combat resolution engine: hit
// rolling, casualty allocation and the round loop that decides a winner.
package combat

// Outcome is the result of one resolved combat.
type Outcome int

const (
	AttackerWins Outcome = iota
	DefenderWins
	Draw
)

// String returns the outcome category label.
func (o Outcome) String() string {
	switch o {
	case AttackerWins:
		return "attacker"
	case DefenderWins:
		return "defender"
	case Draw:
		return "draw"
	default:
		return "unknown"
	}
}

// HitRoller rolls attack dice. *dice.Roller satisfies it.
type HitRoller interface {
	// CountHits rolls n dice and returns how many meet or exceed threshold.
	CountHits(n, threshold int) int
}

// Roster is one side's combat units within a single trial.
//
// Rosters are mutated in place by TakeHits and are not safe for concurrent use.
type Roster interface {
	// RollHits rolls every surviving unit's attacks and returns the hits scored.
	// The roster itself is not mutated.
	RollHits(r HitRoller) int
	// TakeHits applies incoming hits using the roster's casualty policy and
	// returns the capacity destroyed.
	TakeHits(hits int) int
	// Defeated reports whether the side has nothing left to fight with.
	Defeated() bool
	// Strength returns the remaining capacity: total stack quantity or alive ships.
	Strength() int
	// Clone returns a deep, independent copy.
	Clone() Roster
}

// WinRule decides the outcome once a combat has resolved.
type WinRule func(attacker, defender Roster) Outcome

// StackWinRule awards the win to the attacker iff it still has units.
// Mutual destruction goes to the defender.
func StackWinRule(attacker, _ Roster) Outcome {
	if !attacker.Defeated() {
		return AttackerWins
	}
	return DefenderWins
}

// ShipWinRule compares surviving strength; equal strength is a draw.
func ShipWinRule(attacker, defender Roster) Outcome {
	a, d := attacker.Strength(), defender.Strength()
	switch {
	case a == d:
		return Draw
	case a > d:
		return AttackerWins
	default:
		return DefenderWins
	}
}
