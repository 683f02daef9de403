package sim

import (
	"fmt"
	"io"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/cory-johannsen/combatsim/internal/game/combat"
)

// Tally aggregates the results of many trials.
type Tally struct {
	Trials   int
	Attacker int
	Defender int
	Draw     int
	// Rounds, AttackerHits and DefenderHits are summed over all trials.
	Rounds       int
	AttackerHits int
	DefenderHits int
}

// Add records one trial result.
func (t *Tally) Add(res combat.Result) {
	t.Trials++
	switch res.Outcome {
	case combat.AttackerWins:
		t.Attacker++
	case combat.DefenderWins:
		t.Defender++
	case combat.Draw:
		t.Draw++
	}
	t.Rounds += res.Rounds
	t.AttackerHits += res.AttackerHits
	t.DefenderHits += res.DefenderHits
}

// Merge folds other into t.
func (t *Tally) Merge(other Tally) {
	t.Trials += other.Trials
	t.Attacker += other.Attacker
	t.Defender += other.Defender
	t.Draw += other.Draw
	t.Rounds += other.Rounds
	t.AttackerHits += other.AttackerHits
	t.DefenderHits += other.DefenderHits
}

// Count returns the number of trials that ended with o.
func (t Tally) Count(o combat.Outcome) int {
	switch o {
	case combat.AttackerWins:
		return t.Attacker
	case combat.DefenderWins:
		return t.Defender
	case combat.Draw:
		return t.Draw
	default:
		return 0
	}
}

// Percent returns the share of trials ending with o, in percent, rounded half
// up to digits decimal places. An empty tally reports 0.
func (t Tally) Percent(o combat.Outcome, digits int) float64 {
	if t.Trials == 0 {
		return 0
	}
	scaled := ScaledPercent(t.Count(o), t.Trials, digits)
	return float64(scaled) / math.Pow10(digits)
}

// MeanRounds returns the average number of rounds per trial.
func (t Tally) MeanRounds() float64 {
	if t.Trials == 0 {
		return 0
	}
	return float64(t.Rounds) / float64(t.Trials)
}

// ScaledPercent returns 100*count/total in units of 10^-digits, rounded half
// up. The division is exact, so 1005 of 100000 at two digits gives 101 (1.01%).
//
// Precondition: total > 0; 0 <= count; digits >= 0.
func ScaledPercent(count, total, digits int) int64 {
	// floor((2*count*100*10^digits + total) / (2*total))
	num := new(big.Int).Mul(big.NewInt(int64(count)), big.NewInt(200))
	num.Mul(num, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil))
	den := big.NewInt(2 * int64(total))
	num.Add(num, big.NewInt(int64(total)))
	return num.Quo(num, den).Int64()
}

// Label returns the report label for an outcome category: "attacker wins",
// "defender wins", or "draws" for the draw category.
func Label(o combat.Outcome) string {
	if o == combat.Draw {
		return "draws"
	}
	return o.String() + " wins"
}

// WriteReport writes one line per outcome category in the form
// "attacker wins: 512 (51.2%)".
func (t Tally) WriteReport(w io.Writer, outcomes []combat.Outcome, digits int) error {
	for _, o := range outcomes {
		pct := formatScaled(t, o, digits)
		if _, err := fmt.Fprintf(w, "%s: %d (%s%%)\n", Label(o), t.Count(o), pct); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}
	return nil
}

func formatScaled(t Tally, o combat.Outcome, digits int) string {
	if t.Trials == 0 {
		return "0"
	}
	scaled := ScaledPercent(t.Count(o), t.Trials, digits)
	s := strconv.FormatInt(scaled, 10)
	if digits == 0 {
		return s
	}
	if len(s) <= digits {
		s = strings.Repeat("0", digits-len(s)+1) + s
	}
	s = s[:len(s)-digits] + "." + s[len(s)-digits:]
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
