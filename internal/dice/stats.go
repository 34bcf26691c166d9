package dice

import "math/big"

// Probability returns the chance of rolling exactly sum. It is zero for
// sums outside the achievable range and for the empty distribution.
func (d *Distribution) Probability(sum int) float64 {
	if d.Empty() {
		return 0
	}
	return d.quotient(d.ref(sum))
}

// CumulativeStats computes the odds for a target sum in one pass over the
// distribution. Any integer target is legal: targets below the achievable
// range make AtLeast 1 and AtMost 0, targets above it the reverse. The
// empty distribution yields all zeroes.
func (d *Distribution) CumulativeStats(target int) CumulativeStats {
	if d.Empty() {
		return CumulativeStats{}
	}

	// Accumulate exact counts first; division happens once per figure.
	var atLeast, atMost big.Int
	for sum := d.minSum; sum <= d.maxSum; sum++ {
		c := &d.counts[sum-d.minSum]
		if sum >= target {
			atLeast.Add(&atLeast, c)
		}
		if sum <= target {
			atMost.Add(&atMost, c)
		}
	}

	return CumulativeStats{
		AtLeast: d.quotient(&atLeast),
		AtMost:  d.quotient(&atMost),
		Exactly: d.quotient(d.ref(target)),
	}
}

// ModifierImpact reports how a flat modifier shifts the odds against
// target. The modifier is folded into the target, clamped to the
// achievable range, and the cumulative stats of both targets are compared.
// For the empty distribution the impact is zero and NewTarget stays the
// unclamped target, since there is no range to clamp into.
func (d *Distribution) ModifierImpact(target, modifier int) ModifierImpact {
	if d.Empty() {
		return ModifierImpact{NewTarget: target}
	}

	newTarget := target - modifier
	if newTarget < d.minSum {
		newTarget = d.minSum
	}
	if newTarget > d.maxSum {
		newTarget = d.maxSum
	}

	base := d.CumulativeStats(target)
	shifted := d.CumulativeStats(newTarget)

	return ModifierImpact{
		Impact: CumulativeStats{
			AtLeast: shifted.AtLeast - base.AtLeast,
			AtMost:  shifted.AtMost - base.AtMost,
			Exactly: shifted.Exactly,
		},
		NewTarget: newTarget,
	}
}

// quotient converts an exact combination count into a float64 fraction of
// the total. This is the only place the package leaves integer arithmetic.
func (d *Distribution) quotient(count *big.Int) float64 {
	f, _ := new(big.Rat).SetFrac(count, &d.total).Float64()
	return f
}
