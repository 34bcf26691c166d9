package dice

import (
	"errors"
	"math"
	"math/big"
	"math/rand/v2"
	"reflect"
	"testing"
)

func TestRollIsDeterministicForSeed(t *testing.T) {
	t.Parallel()

	sides := []int{4, 6, 8, 20}

	for seed := int64(0); seed < 50; seed++ {
		first, err := Roll(sides, seed)
		if err != nil {
			t.Fatalf("Roll returned unexpected error: %v", err)
		}
		second, err := Roll(sides, seed)
		if err != nil {
			t.Fatalf("Roll returned unexpected error: %v", err)
		}

		if !reflect.DeepEqual(first, second) {
			t.Fatalf("seed %d produced different rolls: %+v vs %+v", seed, first, second)
		}
	}
}

func TestRollStaysWithinBounds(t *testing.T) {
	t.Parallel()

	sides := []int{4, 6, 8}

	for seed := int64(0); seed < 200; seed++ {
		result, err := Roll(sides, seed)
		if err != nil {
			t.Fatalf("Roll returned unexpected error: %v", err)
		}

		if len(result.Faces) != len(sides) {
			t.Fatalf("expected %d faces, got %d", len(sides), len(result.Faces))
		}
		total := 0
		for i, face := range result.Faces {
			if face < 1 || face > sides[i] {
				t.Errorf("seed %d: face %d out of range for d%d", seed, face, sides[i])
			}
			total += face
		}
		if total != result.Total {
			t.Errorf("seed %d: faces sum to %d, reported total %d", seed, total, result.Total)
		}
	}
}

func TestRollEmptySet(t *testing.T) {
	t.Parallel()

	result, err := Roll(nil, 42)
	if err != nil {
		t.Fatalf("Roll returned unexpected error: %v", err)
	}
	if len(result.Faces) != 0 {
		t.Errorf("expected no faces, got %v", result.Faces)
	}
	if result.Total != 0 {
		t.Errorf("expected total 0, got %d", result.Total)
	}
}

func TestRollDegenerateDice(t *testing.T) {
	t.Parallel()

	for seed := int64(0); seed < 10; seed++ {
		result, err := Roll([]int{1, 1}, seed)
		if err != nil {
			t.Fatalf("Roll returned unexpected error: %v", err)
		}
		if !reflect.DeepEqual(result.Faces, []int{1, 1}) || result.Total != 2 {
			t.Errorf("seed %d: expected [1 1] totalling 2, got %+v", seed, result)
		}
	}
}

func TestRollRejectsInvalidDice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		sides []int
	}{
		{name: "zero sides", sides: []int{0}},
		{name: "negative sides", sides: []int{6, -1}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := Roll(tt.sides, 1); !errors.Is(err, ErrInvalidDie) {
				t.Errorf("expected ErrInvalidDie, got %v", err)
			}
		})
	}
}

// TestRollAgreesWithDistribution samples many seeded rolls and checks the
// observed sum frequencies against the exact distribution. The seeds are
// fixed, so the observed frequencies never change between runs; the 0.02
// tolerance is far wider than the sampling noise of 20000 trials.
func TestRollAgreesWithDistribution(t *testing.T) {
	t.Parallel()

	sides := []int{6, 6}
	dist := mustBuild(t, sides)

	const trials = 20000
	observed := make(map[int]int)
	for i := 0; i < trials; i++ {
		seed := int64(i) * 2654435761
		result, err := Roll(sides, seed)
		if err != nil {
			t.Fatalf("Roll returned unexpected error: %v", err)
		}
		observed[result.Total]++
	}

	seen := 0
	for sum, n := range observed {
		if sum < dist.MinSum() || sum > dist.MaxSum() {
			t.Fatalf("observed impossible sum %d", sum)
		}
		seen += n
	}
	if seen != trials {
		t.Fatalf("expected %d trials, counted %d", trials, seen)
	}

	for sum := dist.MinSum(); sum <= dist.MaxSum(); sum++ {
		expected := dist.Probability(sum)
		got := float64(observed[sum]) / trials
		if math.Abs(got-expected) > 0.02 {
			t.Errorf("sum %d: observed frequency %v, exact probability %v", sum, got, expected)
		}
	}
}

// TestRollMatchesGeneratorSequence pins the sampling scheme: one PCG stream
// per seed, one draw per die in set order.
func TestRollMatchesGeneratorSequence(t *testing.T) {
	t.Parallel()

	sides := []int{6, 6, 8}
	seed := int64(99)

	rng := rand.New(rand.NewPCG(uint64(seed), 0))
	want := make([]int, len(sides))
	for i, s := range sides {
		want[i] = rng.IntN(s) + 1
	}

	result, err := Roll(sides, seed)
	if err != nil {
		t.Fatalf("Roll returned unexpected error: %v", err)
	}
	if !reflect.DeepEqual(result.Faces, want) {
		t.Errorf("expected faces %v, got %v", want, result.Faces)
	}
}

func TestRollTotalMatchesCountSupport(t *testing.T) {
	t.Parallel()

	sides := []int{4, 6}
	dist := mustBuild(t, sides)

	for seed := int64(0); seed < 100; seed++ {
		result, err := Roll(sides, seed)
		if err != nil {
			t.Fatalf("Roll returned unexpected error: %v", err)
		}
		if dist.Count(result.Total).Cmp(big.NewInt(0)) <= 0 {
			t.Errorf("seed %d: rolled total %d outside the distribution support", seed, result.Total)
		}
	}
}
