package dice

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultSides is the die size used by the combat model.
const DefaultSides = 10

// Roller rolls single dice of a fixed size from a Source.
// When its logger has debug enabled every batch of rolls is logged with the
// individual faces, threshold and hit count.
type Roller struct {
	src    Source
	sides  int
	logger *zap.Logger
	debug  bool
}

// NewRoller creates a Roller for dice with the given number of sides.
//
// Precondition: src must be non-nil; sides >= 2. A nil logger disables roll logging.
func NewRoller(src Source, sides int, logger *zap.Logger) *Roller {
	if src == nil {
		panic("dice: NewRoller called with nil source")
	}
	if sides < 2 {
		panic(fmt.Sprintf("dice: NewRoller called with %d sides", sides))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Roller{
		src:    src,
		sides:  sides,
		logger: logger,
		debug:  logger.Core().Enabled(zapcore.DebugLevel),
	}
}

// Sides returns the die size.
func (r *Roller) Sides() int { return r.sides }

// RollDie returns one die face in [1, Sides()].
//
// Postcondition: 1 <= result <= Sides(). A Source that breaks its contract
// causes a panic.
func (r *Roller) RollDie() int {
	face := r.src.Intn(r.sides) + 1
	if face < 1 || face > r.sides {
		panic(fmt.Sprintf("dice: source produced face %d outside [1, %d]", face, r.sides))
	}
	return face
}

// CountHits rolls n dice and returns how many meet or exceed threshold.
//
// Precondition: n >= 0.
// Postcondition: 0 <= result <= n; exactly n faces are drawn from the source.
func (r *Roller) CountHits(n, threshold int) int {
	var faces []int
	if r.debug {
		faces = make([]int, 0, n)
	}
	hits := 0
	for i := 0; i < n; i++ {
		face := r.RollDie()
		if face >= threshold {
			hits++
		}
		if r.debug {
			faces = append(faces, face)
		}
	}
	if r.debug && n > 0 {
		r.logger.Debug("dice roll",
			zap.String("expression", fmt.Sprintf("%dd%d", n, r.sides)),
			zap.Ints("dice", faces),
			zap.Int("threshold", threshold),
			zap.Int("hits", hits),
		)
	}
	return hits
}
