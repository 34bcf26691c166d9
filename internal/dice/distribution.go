// Package dice computes exact sum distributions for pools of fair dice.
//
// Counts are held as big integers so that large pools stay exact: ten
// hundred-sided dice produce 10^20 combinations, which overflows int64 and
// silently loses precision in float64. Probabilities are derived from the
// exact counts only at the last step of a query.
package dice

import "math/big"

// Distribution is the exact probability distribution of the sum of a dice
// set. It is immutable after Build returns; all accessors copy, so a value
// can be shared across goroutines without locking.
//
// Achievable sums form a contiguous range. The smallest sum is the number
// of dice (all ones) and the largest is the total of all side counts.
type Distribution struct {
	minSum int
	maxSum int
	counts []big.Int // counts[i] holds the combination count for sum minSum+i
	total  big.Int   // product of all side counts; zero for the empty set
}

type dpBuilder struct{}

// New creates a Builder that constructs distributions by convolving one die
// at a time.
func New() Builder {
	return &dpBuilder{}
}

// Build computes the distribution for a set of dice given by their side
// counts. Order does not matter and duplicates are meaningful: two d6 are
// two dice. An empty set is valid and yields the empty distribution. If any
// die has fewer than one side, Build returns ErrInvalidDie and no partial
// result.
func (b *dpBuilder) Build(sides []int) (*Distribution, error) {
	for _, s := range sides {
		if s < 1 {
			return nil, ErrInvalidDie
		}
	}
	if len(sides) == 0 {
		return &Distribution{}, nil
	}

	// Seed with the first die: sums 1..s, one combination each. Every
	// further die widens the range by s-1 and redistributes the counts.
	cur := make([]big.Int, sides[0])
	for i := range cur {
		cur[i].SetInt64(1)
	}
	lo := 1
	for _, s := range sides[1:] {
		next := make([]big.Int, len(cur)+s-1)
		for i := range cur {
			c := &cur[i]
			for face := 1; face <= s; face++ {
				next[i+face-1].Add(&next[i+face-1], c)
			}
		}
		cur = next
		lo++
	}

	total := big.NewInt(1)
	for _, s := range sides {
		total.Mul(total, big.NewInt(int64(s)))
	}

	return &Distribution{
		minSum: lo,
		maxSum: lo + len(cur) - 1,
		counts: cur,
		total:  *total,
	}, nil
}

// Empty reports whether the distribution was built from no dice.
func (d *Distribution) Empty() bool {
	return d.total.Sign() == 0
}

// MinSum returns the smallest achievable sum, which equals the number of
// dice. It is zero for the empty distribution.
func (d *Distribution) MinSum() int {
	return d.minSum
}

// MaxSum returns the largest achievable sum, the total of all side counts.
// It is zero for the empty distribution.
func (d *Distribution) MaxSum() int {
	return d.maxSum
}

// Size returns the number of distinct achievable sums.
func (d *Distribution) Size() int {
	return len(d.counts)
}

// TotalCombinations returns the exact number of equally likely face
// combinations, a copy safe for the caller to mutate.
func (d *Distribution) TotalCombinations() *big.Int {
	return new(big.Int).Set(&d.total)
}

// Count returns the exact number of face combinations producing sum, zero
// for sums outside the achievable range. The returned value is a copy.
func (d *Distribution) Count(sum int) *big.Int {
	return new(big.Int).Set(d.ref(sum))
}

var zeroCount big.Int

// ref returns a read-only pointer to the stored count for sum. Callers must
// not mutate it.
func (d *Distribution) ref(sum int) *big.Int {
	if d.Empty() || sum < d.minSum || sum > d.maxSum {
		return &zeroCount
	}
	return &d.counts[sum-d.minSum]
}
