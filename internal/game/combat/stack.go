package combat

import "slices"

// Stack is a group of identical units sharing one combat profile.
//
// Invariant: Attacks == AttacksPerQuantity * Quantity between rounds.
type Stack struct {
	Quantity           int
	Attacks            int
	AttackRating       int
	AttacksPerQuantity int
}

// NewStack builds a stack with Attacks derived from quantity.
//
// Precondition: quantity >= 0; attacksPerQuantity >= 1.
func NewStack(quantity, attackRating, attacksPerQuantity int) Stack {
	return Stack{
		Quantity:           quantity,
		Attacks:            attacksPerQuantity * quantity,
		AttackRating:       attackRating,
		AttacksPerQuantity: attacksPerQuantity,
	}
}

// StackRoster is an ordered roster of stacks. Exhausted stacks are removed, so
// the roster is defeated once it is empty.
type StackRoster struct {
	stacks []Stack
}

// NewStackRoster returns a roster holding copies of stacks in the given order.
func NewStackRoster(stacks ...Stack) *StackRoster {
	return &StackRoster{stacks: slices.Clone(stacks)}
}

// Stacks returns a copy of the remaining stacks in roster order.
func (s *StackRoster) Stacks() []Stack { return slices.Clone(s.stacks) }

// Len returns the number of remaining stacks.
func (s *StackRoster) Len() int { return len(s.stacks) }

// RollHits rolls Attacks dice per stack against its AttackRating.
func (s *StackRoster) RollHits(r HitRoller) int {
	hits := 0
	for _, st := range s.stacks {
		hits += r.CountHits(st.Attacks, st.AttackRating)
	}
	return hits
}

// TakeHits allocates hits to the toughest stack first, consuming whole stacks
// before moving on. The first stack in roster order wins ties. Hits left over
// once the roster is empty are discarded.
//
// Precondition: hits >= 0.
// Postcondition: returns the quantity destroyed, which never exceeds hits.
func (s *StackRoster) TakeHits(hits int) int {
	destroyed := 0
	for hits > 0 {
		i := s.toughest()
		if i < 0 {
			break
		}
		quantity := s.stacks[i].Quantity
		if hits >= quantity {
			s.stacks = slices.Delete(s.stacks, i, i+1)
			hits -= quantity
			destroyed += quantity
			continue
		}
		st := &s.stacks[i]
		st.Quantity -= hits
		st.Attacks = st.AttacksPerQuantity * st.Quantity
		destroyed += hits
		hits = 0
	}
	return destroyed
}

// toughest returns the index of the first stack with the highest attack
// rating, or -1 when no stack has a positive rating.
func (s *StackRoster) toughest() int {
	idx, highest := -1, 0
	for i, st := range s.stacks {
		if st.AttackRating > highest {
			idx, highest = i, st.AttackRating
		}
	}
	return idx
}

// Defeated reports whether every stack has been removed.
func (s *StackRoster) Defeated() bool { return len(s.stacks) == 0 }

// Strength returns the total remaining quantity.
func (s *StackRoster) Strength() int {
	total := 0
	for _, st := range s.stacks {
		total += st.Quantity
	}
	return total
}

// Clone returns an independent copy of the roster.
func (s *StackRoster) Clone() Roster {
	return &StackRoster{stacks: slices.Clone(s.stacks)}
}
