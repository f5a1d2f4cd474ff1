// Package subsetsum picks, out of a small list of candidate amounts, the
// subset whose sum comes closest to a target without going over it.
package subsetsum

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MaxCandidates bounds the candidate list accepted by SelectBounded.
// Enumeration is exhaustive, so cost doubles with every extra candidate;
// 20 candidates is already ~1M subsets.
const MaxCandidates = 20

var ErrTooManyCandidates = fmt.Errorf("too many candidates for exhaustive search")

// Result is the winning subset for one selection.
type Result struct {
	// Indices into the candidate list, ascending. Empty when nothing fits.
	Indices []int
	// Values of the chosen candidates, in candidate order.
	Values []decimal.Decimal
	Sum    decimal.Decimal
}

// Select enumerates every subset of candidates and returns the one with the
// largest sum that does not exceed target. The empty subset (sum 0) is always
// considered, so for a non-negative target there is always a feasible answer.
// For a negative target the empty subset is returned as-is, its sum 0 being
// the conventional "nothing fits" answer rather than a feasible one.
//
// Ties are broken by enumeration order: subsets are visited in ascending
// bitmask order (bit i of the mask includes candidate i) and a later subset
// only wins with a strictly larger sum. The same input always produces the
// same indices.
func Select(target decimal.Decimal, candidates []decimal.Decimal) Result {
	best := Result{Sum: decimal.Zero}

	n := len(candidates)
	for mask := 1; mask < 1<<n; mask++ {
		sum := decimal.Zero
		for i := 0; i < n; i++ {
			if mask&(1<<i) != 0 {
				sum = sum.Add(candidates[i])
			}
		}
		if sum.LessThanOrEqual(target) && sum.GreaterThan(best.Sum) {
			best = Result{Indices: indicesOf(mask, n), Sum: sum}
		}
	}

	best.Values = make([]decimal.Decimal, len(best.Indices))
	for i, idx := range best.Indices {
		best.Values[i] = candidates[idx]
	}
	return best
}

// SelectBounded is Select with a hard input-size limit, for callers feeding
// in unvalidated rows.
func SelectBounded(target decimal.Decimal, candidates []decimal.Decimal) (Result, error) {
	if len(candidates) > MaxCandidates {
		return Result{}, fmt.Errorf(
			"%w: got %d, limit %d",
			ErrTooManyCandidates, len(candidates), MaxCandidates,
		)
	}
	return Select(target, candidates), nil
}

func indicesOf(mask, n int) []int {
	var out []int
	for i := 0; i < n; i++ {
		if mask&(1<<i) != 0 {
			out = append(out, i)
		}
	}
	return out
}
