package dice

import "math/rand/v2"

// RollResult captures a single sampled roll of a dice set.
type RollResult struct {
	Faces []int // one face per die, in set order
	Total int
}

// Roll samples every die in the set once. The same seed always produces the
// same faces, so rolls can be replayed and audited. Validation matches
// Build: any die with fewer than one side returns ErrInvalidDie. Rolling
// the empty set succeeds with no faces and a total of zero.
func Roll(sides []int, seed int64) (RollResult, error) {
	for _, s := range sides {
		if s < 1 {
			return RollResult{}, ErrInvalidDie
		}
	}

	rng := rand.New(rand.NewPCG(uint64(seed), 0))
	faces := make([]int, len(sides))
	total := 0
	for i, s := range sides {
		f := rng.IntN(s) + 1
		faces[i] = f
		total += f
	}
	return RollResult{Faces: faces, Total: total}, nil
}
