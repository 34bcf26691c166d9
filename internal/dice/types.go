package dice

// Builder describes the behavior required to turn a dice set into its
// exact sum distribution.
type Builder interface {
	Build(sides []int) (*Distribution, error)
}

// CumulativeStats bundles the three probabilities a single target sum
// resolves to: rolling at least the target, at most the target, and the
// target exactly.
type CumulativeStats struct {
	AtLeast float64
	AtMost  float64
	Exactly float64
}

// ModifierImpact describes how the odds move when a flat modifier is added
// to every roll. Adding a modifier to the roll is equivalent to lowering
// the target, so NewTarget holds target minus modifier, clamped into the
// achievable sum range.
//
// Inside Impact, AtLeast and AtMost are signed deltas against the
// unmodified target. Exactly is not a delta: it is the absolute probability
// of hitting NewTarget on the nose. Callers that want an exactly delta
// subtract the unmodified value themselves.
type ModifierImpact struct {
	Impact    CumulativeStats
	NewTarget int
}
