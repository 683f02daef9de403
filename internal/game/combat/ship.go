package combat

import "slices"

// Ship is an individual combatant. Destroyed ships stay in their roster so
// indices remain stable.
type Ship struct {
	Attacks      int
	CombatRating int
	// SustainDamage is true while the ship can still absorb one hit.
	SustainDamage bool
	// SustainedThisRound marks a ship that absorbed a hit during the current
	// allocation. Cleared before TakeHits returns.
	SustainedThisRound bool
	Destroyed          bool
}

// ShipRoster is a fixed-length roster of ships with a running alive count.
type ShipRoster struct {
	ships []Ship
	alive int
}

// NewShipRoster returns a roster holding copies of ships in the given order.
func NewShipRoster(ships ...Ship) *ShipRoster {
	r := &ShipRoster{ships: slices.Clone(ships)}
	for _, s := range r.ships {
		if !s.Destroyed {
			r.alive++
		}
	}
	return r
}

// Ships returns a copy of every ship, destroyed or not, in roster order.
func (r *ShipRoster) Ships() []Ship { return slices.Clone(r.ships) }

// Alive returns the number of ships not destroyed.
func (r *ShipRoster) Alive() int { return r.alive }

// RollHits rolls Attacks dice per surviving ship against its CombatRating.
func (r *ShipRoster) RollHits(hr HitRoller) int {
	hits := 0
	for _, s := range r.ships {
		if s.Destroyed {
			continue
		}
		hits += hr.CountHits(s.Attacks, s.CombatRating)
	}
	return hits
}

// TakeHits spends hits in three passes: sustain, fresh destruction and
// destruction of ships that sustained this round.
//
// Precondition: hits >= 0.
// Postcondition: returns the number of ships destroyed, never more than the
// alive count on entry; no ship carries SustainedThisRound afterwards.
func (r *ShipRoster) TakeHits(hits int) int {
	hits = r.SustainPass(hits)
	hits, fresh := r.DestroyPass(hits)
	_, sustained := r.SustainedDestroyPass(hits)
	for i := range r.ships {
		r.ships[i].SustainedThisRound = false
	}
	return fresh + sustained
}

// SustainPass walks the roster in order and lets each ship that can still
// sustain damage absorb one hit. Returns the hits left.
func (r *ShipRoster) SustainPass(hits int) int {
	for i := range r.ships {
		if hits <= 0 {
			break
		}
		s := &r.ships[i]
		if s.Destroyed || !s.SustainDamage {
			continue
		}
		s.SustainDamage = false
		s.SustainedThisRound = true
		hits--
	}
	return hits
}

// DestroyPass walks the roster from the last ship to the first, destroying one
// ship per hit. A ship that sustained this round is skipped and its flag is
// cleared without spending a hit. Returns the hits left and ships destroyed.
func (r *ShipRoster) DestroyPass(hits int) (int, int) {
	destroyed := 0
	for i := len(r.ships) - 1; i >= 0 && hits > 0; i-- {
		s := &r.ships[i]
		if s.SustainedThisRound {
			s.SustainedThisRound = false
			continue
		}
		if s.Destroyed {
			continue
		}
		s.Destroyed = true
		r.alive--
		destroyed++
		hits--
	}
	return hits, destroyed
}

// SustainedDestroyPass walks the roster from the last ship to the first and
// spends any remaining hits on ships still alive, which after DestroyPass are
// only the ships that sustained this round. Returns the hits left and ships
// destroyed.
func (r *ShipRoster) SustainedDestroyPass(hits int) (int, int) {
	destroyed := 0
	for i := len(r.ships) - 1; i >= 0 && hits > 0; i-- {
		s := &r.ships[i]
		if s.Destroyed || s.SustainedThisRound {
			continue
		}
		s.Destroyed = true
		r.alive--
		destroyed++
		hits--
	}
	return hits, destroyed
}

// Defeated reports whether no ship is left alive.
func (r *ShipRoster) Defeated() bool { return r.alive == 0 }

// Strength returns the alive count.
func (r *ShipRoster) Strength() int { return r.alive }

// Clone returns an independent copy of the roster.
func (r *ShipRoster) Clone() Roster {
	return &ShipRoster{ships: slices.Clone(r.ships), alive: r.alive}
}
