package scenario

// DefaultID is the scenario run when none is configured.
const DefaultID = "assault"

// Builtin returns the compiled-in scenarios. Each call returns fresh values.
func Builtin() []Scenario {
	return []Scenario{
		{
			ID:          "assault",
			Name:        "Assault",
			Description: "Mixed strike force against a large garrison.",
			Variant:     VariantStacks,
			Attacker: Side{Stacks: []StackSpec{
				{Name: "heavy walker", Quantity: 2, Attacks: 6, AttackRating: 4, AttacksPerQuantity: 3},
				{Name: "commander", Quantity: 1, Attacks: 1, AttackRating: 6, AttacksPerQuantity: 1},
				{Name: "infantry", Quantity: 17, Attacks: 17, AttackRating: 9, AttacksPerQuantity: 1},
				{Name: "militia", Quantity: 2, Attacks: 2, AttackRating: 10, AttacksPerQuantity: 1},
			}},
			Defender: Side{Stacks: []StackSpec{
				{Name: "garrison", Quantity: 24, Attacks: 24, AttackRating: 8, AttacksPerQuantity: 1},
				{Name: "conscripts", Quantity: 4, Attacks: 4, AttackRating: 9, AttacksPerQuantity: 1},
			}},
		},
		{
			ID:          "skirmish",
			Name:        "Skirmish",
			Description: "Small raiding party against an outpost.",
			Variant:     VariantStacks,
			Attacker: Side{Stacks: []StackSpec{
				{Name: "heavy walker", Quantity: 1, Attacks: 2, AttackRating: 7, AttacksPerQuantity: 2},
				{Name: "commander", Quantity: 1, Attacks: 1, AttackRating: 6, AttacksPerQuantity: 1},
				{Name: "infantry", Quantity: 6, Attacks: 6, AttackRating: 9, AttacksPerQuantity: 1},
				{Name: "militia", Quantity: 2, Attacks: 2, AttackRating: 10, AttacksPerQuantity: 1},
			}},
			Defender: Side{Stacks: []StackSpec{
				{Name: "garrison", Quantity: 3, Attacks: 3, AttackRating: 8, AttacksPerQuantity: 1},
				{Name: "conscripts", Quantity: 4, Attacks: 4, AttackRating: 9, AttacksPerQuantity: 1},
			}},
		},
		{
			ID:          "fleet",
			Name:        "Fleet Engagement",
			Description: "Space battle between two fleets with capital ships that sustain damage.",
			Variant:     VariantShips,
			Attacker: Side{Ships: []ShipSpec{
				{Name: "dreadnought", Count: 2, Attacks: 1, CombatRating: 5, SustainDamage: true},
				{Name: "cruiser", Count: 2, Attacks: 1, CombatRating: 7},
				{Name: "fighter", Count: 4, Attacks: 1, CombatRating: 9},
			}},
			Defender: Side{Ships: []ShipSpec{
				{Name: "war sun", Count: 1, Attacks: 3, CombatRating: 3, SustainDamage: true},
				{Name: "destroyer", Count: 2, Attacks: 1, CombatRating: 9},
				{Name: "carrier", Count: 2, Attacks: 1, CombatRating: 9},
			}},
		},
	}
}
