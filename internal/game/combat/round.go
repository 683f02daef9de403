package combat

import (
	"errors"
	"fmt"
)

// ErrRoundLimit is returned when a combat is still undecided after MaxRounds.
var ErrRoundLimit = errors.New("combat: round limit reached")

// Result summarizes one resolved combat.
type Result struct {
	Outcome Outcome
	// Rounds is the number of rounds fought.
	Rounds int
	// AttackerHits and DefenderHits are the hits each side scored over all rounds.
	AttackerHits int
	DefenderHits int
	// AttackerLosses and DefenderLosses are the capacity each side lost.
	AttackerLosses int
	DefenderLosses int
}

// Combat pairs two rosters with the rule that decides the winner.
type Combat struct {
	Attacker Roster
	Defender Roster
	Win      WinRule
	// MaxRounds caps the round loop; 0 means unbounded.
	MaxRounds int
}

// Resolve fights simultaneous-fire rounds until either side is defeated.
// Each round the attacker rolls before the defender, then both hit pools are
// applied, so neither side's losses reduce its fire in the same round.
//
// Precondition: Attacker, Defender and Win must be non-nil; roller must be non-nil.
// Postcondition: on success both rosters hold their final state and the
// returned Result carries the Win outcome. When MaxRounds is exceeded the error
// wraps ErrRoundLimit and Result holds the partial tallies.
func (c *Combat) Resolve(roller HitRoller) (Result, error) {
	var res Result
	for !c.Attacker.Defeated() && !c.Defender.Defeated() {
		if c.MaxRounds > 0 && res.Rounds >= c.MaxRounds {
			return res, fmt.Errorf("%w: undecided after %d rounds", ErrRoundLimit, res.Rounds)
		}
		res.Rounds++

		attackerHits := c.Attacker.RollHits(roller)
		defenderHits := c.Defender.RollHits(roller)
		res.AttackerHits += attackerHits
		res.DefenderHits += defenderHits

		res.AttackerLosses += c.Attacker.TakeHits(defenderHits)
		res.DefenderLosses += c.Defender.TakeHits(attackerHits)
	}
	res.Outcome = c.Win(c.Attacker, c.Defender)
	return res, nil
}
