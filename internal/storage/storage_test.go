package storage

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"
)

func TestNewMemoryStorageReturnsDefaultDice(t *testing.T) {
	t.Parallel()

	store := NewMemoryStorage()

	got, err := store.GetDice()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := DefaultDice()
	if !slices.Equal(got, want) {
		t.Fatalf("expected default dice %v, got %v", want, got)
	}

	// ensure mutation safety
	got[0] = 999
	again, err := store.GetDice()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slices.Equal(again, got) {
		t.Fatalf("expected defensive copy, got %v", again)
	}
}

func TestSetDiceUpdatesState(t *testing.T) {
	t.Parallel()

	store := NewMemoryStorage()
	if err := store.SetDice([]int{20, 4, 6}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.GetDice()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []int{4, 6, 20}
	if !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestSetDiceKeepsDuplicates(t *testing.T) {
	t.Parallel()

	store := NewMemoryStorage()
	if err := store.SetDice([]int{6, 6, 6, 4, 4}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.GetDice()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []int{4, 4, 6, 6, 6}
	if !slices.Equal(got, want) {
		t.Fatalf("expected duplicates preserved as %v, got %v", want, got)
	}
}

func TestSetDiceAllowsEmptySet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		sides []int
	}{
		{name: "nil", sides: nil},
		{name: "empty", sides: []int{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := NewMemoryStorage()
			if err := store.SetDice(tt.sides); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			got, err := store.GetDice()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != 0 {
				t.Fatalf("expected empty dice set, got %v", got)
			}
		})
	}
}

func TestSetDiceRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	tooMany := make([]int, maxDice+1)
	for i := range tooMany {
		tooMany[i] = 6
	}

	testCases := [][]int{
		{0},
		{6, 0, 6},
		{-5, 6},
		{maxSides + 1},
		tooMany,
	}

	for idx, tc := range testCases {
		tc := tc
		t.Run(fmt.Sprintf("case_%d", idx), func(t *testing.T) {
			store := NewMemoryStorage()
			if err := store.SetDice(tc); !errors.Is(err, ErrInvalidDiceSet) {
				t.Fatalf("expected ErrInvalidDiceSet for %v, got %v", tc, err)
			}
		})
	}
}

func TestSetDiceAcceptsBoundaryValues(t *testing.T) {
	t.Parallel()

	atLimit := make([]int, maxDice)
	for i := range atLimit {
		atLimit[i] = maxSides
	}

	store := NewMemoryStorage()
	if err := store.SetDice(atLimit); err != nil {
		t.Fatalf("unexpected error at the bounds: %v", err)
	}
	if err := store.SetDice([]int{1}); err != nil {
		t.Fatalf("unexpected error for a one-sided die: %v", err)
	}
}

func TestSetDiceDoesNotRetainInput(t *testing.T) {
	t.Parallel()

	store := NewMemoryStorage()
	sides := []int{6, 4}
	if err := store.SetDice(sides); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sides[0] = 999
	got, err := store.GetDice()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []int{4, 6}
	if !slices.Equal(got, want) {
		t.Fatalf("expected %v after mutating input, got %v", want, got)
	}
}

func TestMemoryStorageConcurrentAccess(t *testing.T) {
	store := NewMemoryStorage()
	var wg sync.WaitGroup

	for i := 0; i < 32; i++ {
		wg.Add(2)

		go func(offset int) {
			defer wg.Done()
			sides := []int{4 + offset%16, 6 + offset%16}
			if err := store.SetDice(sides); err != nil {
				t.Errorf("SetDice failed: %v", err)
			}
		}(i)

		go func() {
			defer wg.Done()
			if _, err := store.GetDice(); err != nil {
				t.Errorf("GetDice failed: %v", err)
			}
		}()
	}

	wg.Wait()

	// final read should succeed
	if _, err := store.GetDice(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
