package scenario_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/combatsim/internal/game/combat"
	"github.com/cory-johannsen/combatsim/internal/scenario"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestBuiltin_AllValid(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range scenario.Builtin() {
		assert.NoError(t, s.Normalize().Validate(), "scenario %q", s.ID)
		assert.False(t, seen[s.ID], "duplicate id %q", s.ID)
		seen[s.ID] = true
	}
	assert.True(t, seen[scenario.DefaultID])
}

func TestScenario_Rosters_Stacks(t *testing.T) {
	r := scenario.NewRegistry()
	s, err := r.Get("assault")
	require.NoError(t, err)

	att, def := s.Rosters()
	require.IsType(t, &combat.StackRoster{}, att)
	assert.Equal(t, 22, att.Strength())
	assert.Equal(t, 28, def.Strength())
	stacks := att.(*combat.StackRoster).Stacks()
	assert.Equal(t, combat.Stack{Quantity: 2, Attacks: 6, AttackRating: 4, AttacksPerQuantity: 3}, stacks[0])
	assert.Equal(t, []combat.Outcome{combat.AttackerWins, combat.DefenderWins}, s.Outcomes())
}

func TestScenario_Rosters_ShipsExpandCount(t *testing.T) {
	s, err := scenario.NewRegistry().Get("fleet")
	require.NoError(t, err)

	att, def := s.Rosters()
	require.IsType(t, &combat.ShipRoster{}, att)
	assert.Equal(t, 8, att.Strength())
	assert.Equal(t, 5, def.Strength())
	ships := att.(*combat.ShipRoster).Ships()
	assert.True(t, ships[0].SustainDamage)
	assert.True(t, ships[1].SustainDamage)
	assert.False(t, ships[2].SustainDamage)
	assert.Len(t, s.Outcomes(), 3)
}

func TestScenario_RostersAreFresh(t *testing.T) {
	s, err := scenario.NewRegistry().Get("assault")
	require.NoError(t, err)
	a1, _ := s.Rosters()
	a1.TakeHits(100)
	a2, _ := s.Rosters()
	assert.Equal(t, 22, a2.Strength())
}

func TestScenario_WinRule(t *testing.T) {
	empty := combat.NewShipRoster()
	stacks := scenario.Scenario{Variant: scenario.VariantStacks}
	ships := scenario.Scenario{Variant: scenario.VariantShips}
	assert.Equal(t, combat.DefenderWins, stacks.WinRule()(combat.NewStackRoster(), combat.NewStackRoster()))
	assert.Equal(t, combat.Draw, ships.WinRule()(empty, empty))
}

func TestParse_DerivesDefaults(t *testing.T) {
	s, err := scenario.Parse([]byte(`
id: raid
name: Raid
variant: stacks
attacker:
  stacks:
    - quantity: 3
      attack_rating: 6
      attacks_per_quantity: 2
defender:
  stacks:
    - quantity: 4
      attack_rating: 8
`))
	require.NoError(t, err)
	assert.Equal(t, 6, s.Attacker.Stacks[0].Attacks)
	assert.Equal(t, 1, s.Defender.Stacks[0].AttacksPerQuantity)
	assert.Equal(t, 4, s.Defender.Stacks[0].Attacks)
}

func TestParse_RejectsBrokenAttackInvariant(t *testing.T) {
	_, err := scenario.Parse([]byte(`
id: bad
variant: stacks
attacker:
  stacks:
    - {quantity: 2, attacks: 5, attack_rating: 4, attacks_per_quantity: 3}
defender:
  stacks:
    - {quantity: 1, attack_rating: 4}
`))
	require.ErrorIs(t, err, scenario.ErrInvalidScenario)
	assert.Contains(t, err.Error(), "attacker.stacks[0].attacks")
}

func TestParse_RejectsMixedVariant(t *testing.T) {
	_, err := scenario.Parse([]byte(`
id: mixed
variant: ships
attacker:
  stacks:
    - {quantity: 1, attack_rating: 4}
defender:
  ships:
    - {attacks: 1, combat_rating: 5}
`))
	require.ErrorIs(t, err, scenario.ErrInvalidScenario)
	assert.Contains(t, err.Error(), "stacks are not allowed")
}

func TestParse_RejectsUnknownField(t *testing.T) {
	_, err := scenario.Parse([]byte(`
id: typo
variant: ships
attacker:
  ships:
    - {attacks: 1, combat_ratin: 5}
`))
	assert.Error(t, err)
}

func TestValidate_CollectsAllViolations(t *testing.T) {
	s := scenario.Scenario{
		Variant: "tanks",
		Attacker: scenario.Side{Stacks: []scenario.StackSpec{
			{Quantity: -1, AttackRating: 0, AttacksPerQuantity: 1, Attacks: -1},
		}},
		Defender: scenario.Side{Ships: []scenario.ShipSpec{
			{Count: 0, Attacks: -1, CombatRating: 0},
		}},
	}
	err := s.Validate()
	require.Error(t, err)
	msg := err.Error()
	for _, want := range []string{
		"id must not be empty",
		"variant must be one of",
		"attacker.stacks[0].quantity",
		"attacker.stacks[0].attack_rating",
		"defender.ships[0].count",
		"defender.ships[0].attacks",
		"defender.ships[0].combat_rating",
	} {
		assert.Contains(t, msg, want)
	}
}

func TestLoadDir_ParsesYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b_patrol.yaml"), `
id: patrol
name: "Patrol"
variant: ships
attacker:
  ships:
    - name: frigate
      count: 3
      attacks: 1
      combat_rating: 8
defender:
  ships:
    - name: flagship
      attacks: 2
      combat_rating: 5
      sustain_damage: true
`)
	writeFile(t, filepath.Join(dir, "a_notes.txt"), "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

	got, err := scenario.LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, got, 1)
	s := got[0]
	assert.Equal(t, "patrol", s.ID)
	assert.Equal(t, scenario.VariantShips, s.Variant)
	assert.Equal(t, 3, s.Attacker.Ships[0].Count)
	assert.Equal(t, 1, s.Defender.Ships[0].Count)
	assert.True(t, s.Defender.Ships[0].SustainDamage)
}

func TestLoadDir_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "broken.yaml"), "id: [")
	_, err := scenario.LoadDir(dir)
	assert.Error(t, err)
}

func TestLoadDir_MissingDir(t *testing.T) {
	_, err := scenario.LoadDir("/nonexistent/scenarios")
	assert.Error(t, err)
}

func TestRegistry_FileOverridesBuiltin(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "assault.yaml"), `
id: assault
name: "Tiny Assault"
variant: stacks
attacker:
  stacks:
    - {quantity: 1, attack_rating: 5}
defender:
  stacks:
    - {quantity: 1, attack_rating: 5}
`)
	r := scenario.NewRegistry()
	n, err := r.LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	s, err := r.Get("assault")
	require.NoError(t, err)
	assert.Equal(t, "Tiny Assault", s.Name)
	assert.Equal(t, []string{"assault", "fleet", "skirmish"}, r.IDs())
}

func TestRegistry_Unknown(t *testing.T) {
	_, err := scenario.NewRegistry().Get("nope")
	require.ErrorIs(t, err, scenario.ErrUnknownScenario)
	assert.Contains(t, err.Error(), "fleet")
}

func TestScenario_Property_NormalizedStacksSatisfyInvariant(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 6).Draw(rt, "n")
		side := scenario.Side{}
		for i := 0; i < n; i++ {
			side.Stacks = append(side.Stacks, scenario.StackSpec{
				Quantity:           rapid.IntRange(1, 40).Draw(rt, "quantity"),
				AttackRating:       rapid.IntRange(1, 10).Draw(rt, "rating"),
				AttacksPerQuantity: rapid.IntRange(0, 4).Draw(rt, "per_quantity"),
			})
		}
		s := scenario.Scenario{ID: "gen", Variant: scenario.VariantStacks, Attacker: side, Defender: side}.Normalize()
		if err := s.Validate(); err != nil {
			rt.Fatalf("normalized scenario invalid: %v", err)
		}
		att, _ := s.Rosters()
		for _, st := range att.(*combat.StackRoster).Stacks() {
			assert.Equal(rt, st.AttacksPerQuantity*st.Quantity, st.Attacks)
		}
	})
}

func TestLoadDir_ShippedScenarios(t *testing.T) {
	got, err := scenario.LoadDir(filepath.Join("..", "..", "scenarios"))
	require.NoError(t, err)
	require.NotEmpty(t, got)

	reg := scenario.NewRegistry()
	n, err := reg.LoadDir(filepath.Join("..", "..", "scenarios"))
	require.NoError(t, err)
	assert.Equal(t, len(got), n)

	clash, err := reg.Get("border_clash")
	require.NoError(t, err)
	assert.Len(t, clash.Outcomes(), 3)
	attacker, defender := clash.Rosters()
	assert.Equal(t, attacker.Strength(), defender.Strength())
}
