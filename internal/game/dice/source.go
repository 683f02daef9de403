// Package dice provides the randomness abstraction and die rolling used by the
// combat engine.
package dice

import (
	"crypto/rand"
	"math/big"
	randv2 "math/rand/v2"
)

// Source is the randomness provider for dice rolls.
//
// Implementations are not required to be safe for concurrent use; the
// simulator gives every worker its own Source.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// cryptoSource implements Source using crypto/rand.
//
// Invariant: All values produced are uniformly distributed in [0, n) for any n > 0.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
//
// Postcondition: Every value returned by Intn is in [0, n).
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Intn returns a cryptographically secure random int in [0, n).
//
// Precondition: n > 0. Panics with "dice: Intn called with n <= 0" if n <= 0.
// Panics with "dice: crypto/rand failure: <err>" if crypto/rand fails.
func (c *cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	val, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}

// seededSource implements Source with a PCG generator.
type seededSource struct {
	rng *randv2.Rand
}

// NewSeededSource returns a deterministic Source. Two sources built from the
// same (seed, stream) pair produce identical sequences.
//
// Postcondition: Every value returned by Intn is in [0, n).
func NewSeededSource(seed, stream uint64) Source {
	return &seededSource{rng: randv2.New(randv2.NewPCG(seed, stream))}
}

// Intn returns a pseudo-random int in [0, n).
//
// Precondition: n > 0.
func (s *seededSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	return s.rng.IntN(n)
}

// sequenceSource replays a fixed list of die faces, wrapping around at the end.
type sequenceSource struct {
	faces []int
	next  int
}

// NewSequenceSource returns a Source that yields the given die faces in order,
// cycling when exhausted. Faces are 1-based: a face of 7 makes the next roll
// come up 7 regardless of the die size.
//
// Precondition: at least one face must be supplied.
func NewSequenceSource(faces ...int) Source {
	if len(faces) == 0 {
		panic("dice: NewSequenceSource requires at least one face")
	}
	cp := make([]int, len(faces))
	copy(cp, faces)
	return &sequenceSource{faces: cp}
}

// Intn returns the next face minus one, ignoring n.
func (s *sequenceSource) Intn(_ int) int {
	f := s.faces[s.next]
	s.next = (s.next + 1) % len(s.faces)
	return f - 1
}
