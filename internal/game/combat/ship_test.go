package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/combatsim/internal/game/combat"
)

// countingRoller records each CountHits call and reports every die as a hit.
type countingRoller struct {
	calls []int
}

func (c *countingRoller) CountHits(n, _ int) int {
	c.calls = append(c.calls, n)
	return n
}

// mixedFleet is [sustain, plain, sustain, plain].
func mixedFleet() *combat.ShipRoster {
	return combat.NewShipRoster(
		combat.Ship{Attacks: 1, CombatRating: 5, SustainDamage: true},
		combat.Ship{Attacks: 1, CombatRating: 7},
		combat.Ship{Attacks: 2, CombatRating: 5, SustainDamage: true},
		combat.Ship{Attacks: 1, CombatRating: 9},
	)
}

func destroyedFlags(r *combat.ShipRoster) []bool {
	var out []bool
	for _, s := range r.Ships() {
		out = append(out, s.Destroyed)
	}
	return out
}

func TestShipRoster_Alive(t *testing.T) {
	r := combat.NewShipRoster(combat.Ship{}, combat.Ship{Destroyed: true}, combat.Ship{})
	assert.Equal(t, 2, r.Alive())
	assert.Equal(t, 2, r.Strength())
	assert.False(t, r.Defeated())
}

func TestShipRoster_SustainPass(t *testing.T) {
	r := mixedFleet()
	left := r.SustainPass(1)
	assert.Zero(t, left)
	ships := r.Ships()
	assert.False(t, ships[0].SustainDamage)
	assert.True(t, ships[0].SustainedThisRound)
	assert.True(t, ships[2].SustainDamage, "budget ran out before the second sustainer")
	assert.False(t, ships[2].SustainedThisRound)
}

func TestShipRoster_DestroyPass_SkipsAndClearsSustained(t *testing.T) {
	r := mixedFleet()
	left := r.SustainPass(3)
	require.Equal(t, 1, left)

	left, destroyed := r.DestroyPass(10)
	assert.Equal(t, 8, left)
	assert.Equal(t, 2, destroyed)
	ships := r.Ships()
	assert.Equal(t, []bool{false, true, false, true}, destroyedFlags(r))
	assert.False(t, ships[0].SustainedThisRound)
	assert.False(t, ships[2].SustainedThisRound)
}

func TestShipRoster_DestroyPass_ReverseOrder(t *testing.T) {
	r := combat.NewShipRoster(combat.Ship{}, combat.Ship{}, combat.Ship{})
	left, destroyed := r.DestroyPass(1)
	assert.Zero(t, left)
	assert.Equal(t, 1, destroyed)
	assert.Equal(t, []bool{false, false, true}, destroyedFlags(r))
	assert.Equal(t, 2, r.Alive())
}

func TestShipRoster_SustainedDestroyPass(t *testing.T) {
	r := combat.NewShipRoster(
		combat.Ship{},
		combat.Ship{Destroyed: true},
		combat.Ship{},
	)
	left, destroyed := r.SustainedDestroyPass(1)
	assert.Zero(t, left)
	assert.Equal(t, 1, destroyed)
	assert.Equal(t, []bool{false, true, true}, destroyedFlags(r))
}

func TestShipRoster_TakeHits(t *testing.T) {
	tests := []struct {
		hits      int
		destroyed int
		want      []bool
	}{
		{0, 0, []bool{false, false, false, false}},
		{2, 0, []bool{false, false, false, false}}, // both sustainers soak
		{3, 1, []bool{false, false, false, true}},
		{4, 2, []bool{false, true, false, true}},
		{5, 3, []bool{false, true, true, true}}, // sustained ships exposed last, reverse order
		{6, 4, []bool{true, true, true, true}},
		{50, 4, []bool{true, true, true, true}},
	}
	for _, tc := range tests {
		r := mixedFleet()
		got := r.TakeHits(tc.hits)
		assert.Equal(t, tc.destroyed, got, "hits=%d", tc.hits)
		assert.Equal(t, tc.want, destroyedFlags(r), "hits=%d", tc.hits)
		assert.Equal(t, 4-tc.destroyed, r.Alive(), "hits=%d", tc.hits)
		for i, s := range r.Ships() {
			assert.False(t, s.SustainedThisRound, "hits=%d ship=%d flag must reset", tc.hits, i)
		}
	}
}

func TestShipRoster_TakeHits_SustainIsOneTime(t *testing.T) {
	r := mixedFleet()
	require.Zero(t, r.TakeHits(2))

	// Next round the sustainers have nothing left to absorb with.
	assert.Equal(t, 2, r.TakeHits(2))
	assert.Equal(t, []bool{false, false, true, true}, destroyedFlags(r))
}

func TestShipRoster_RollHits_SkipsDestroyed(t *testing.T) {
	r := combat.NewShipRoster(
		combat.Ship{Attacks: 3, CombatRating: 5},
		combat.Ship{Attacks: 4, CombatRating: 5, Destroyed: true},
		combat.Ship{Attacks: 2, CombatRating: 5},
	)
	cr := &countingRoller{}
	assert.Equal(t, 5, r.RollHits(cr))
	assert.Equal(t, []int{3, 2}, cr.calls)
}

func TestShipRoster_CloneIsIndependent(t *testing.T) {
	orig := mixedFleet()
	cp := orig.Clone()
	cp.TakeHits(10)
	assert.True(t, cp.Defeated())
	assert.Equal(t, 4, orig.Alive())
	assert.True(t, orig.Ships()[0].SustainDamage)
}

func genShips(rt *rapid.T) []combat.Ship {
	n := rapid.IntRange(1, 12).Draw(rt, "ships")
	out := make([]combat.Ship, n)
	for i := range out {
		out[i] = combat.Ship{
			Attacks:       rapid.IntRange(0, 3).Draw(rt, "attacks"),
			CombatRating:  rapid.IntRange(1, 10).Draw(rt, "rating"),
			SustainDamage: rapid.Bool().Draw(rt, "sustain"),
			Destroyed:     rapid.Bool().Draw(rt, "destroyed"),
		}
	}
	return out
}

func TestShipRoster_Property_AllocationBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		r := combat.NewShipRoster(genShips(rt)...)
		hits := rapid.IntRange(0, 30).Draw(rt, "hits")
		before := r.Alive()

		destroyed := r.TakeHits(hits)

		assert.LessOrEqual(rt, destroyed, before)
		assert.LessOrEqual(rt, destroyed, hits)
		assert.Equal(rt, before-destroyed, r.Alive())
		alive := 0
		for _, s := range r.Ships() {
			if !s.Destroyed {
				alive++
			}
			assert.False(rt, s.SustainedThisRound)
		}
		assert.Equal(rt, alive, r.Alive(), "running counter must match a rescan")
	})
}

func TestShipRoster_Property_SustainersProtectedUntilOthersGone(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ships := genShips(rt)
		r := combat.NewShipRoster(ships...)
		sustainers, others := 0, 0
		for _, s := range ships {
			switch {
			case s.Destroyed:
			case s.SustainDamage:
				sustainers++
			default:
				others++
			}
		}
		hits := rapid.IntRange(0, sustainers+others).Draw(rt, "hits")

		r.TakeHits(hits)

		for i, s := range r.Ships() {
			if ships[i].SustainDamage && !ships[i].Destroyed {
				assert.False(rt, s.Destroyed, "ship %d sustained but was destroyed with %d hits", i, hits)
			}
		}
	})
}
