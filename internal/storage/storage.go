package storage

import (
	"errors"
	"sort"
	"sync"
)

const (
	maxDice  = 32
	maxSides = 120
)

var (
	// ErrInvalidDiceSet indicates the provided dice violate the service bounds.
	ErrInvalidDiceSet = errors.New("dice set may hold at most 32 dice with 1 to 120 sides each")
)

var defaultDice = []int{6, 6}

// Storage provides access to the dice set the service computes odds for.
type Storage interface {
	GetDice() ([]int, error)
	SetDice(sides []int) error
}

// MemoryStorage keeps the dice set in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	mu   sync.RWMutex
	dice []int
}

// NewMemoryStorage initialises storage with a copy of the default dice set.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		dice: cloneAndSort(defaultDice),
	}
}

// DefaultDice returns a copy of the default dice set, two six-sided dice.
func DefaultDice() []int {
	return cloneAndSort(defaultDice)
}

// GetDice returns a defensive copy of the currently configured dice set.
func (s *MemoryStorage) GetDice() ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneAndSort(s.dice), nil
}

// SetDice validates, normalises, and stores the provided dice set. A set is
// a multiset: duplicates are kept, two d6 are two dice. Order carries no
// meaning, so sets are stored sorted ascending. The empty set is legal and
// means no dice are configured.
func (s *MemoryStorage) SetDice(sides []int) error {
	normalized, err := normalizeDice(sides)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.dice = normalized
	s.mu.Unlock()

	return nil
}

func cloneAndSort(src []int) []int {
	if len(src) == 0 {
		return []int{}
	}

	out := make([]int, len(src))
	copy(out, src)
	sort.Ints(out)
	return out
}

func normalizeDice(sides []int) ([]int, error) {
	if len(sides) > maxDice {
		return nil, ErrInvalidDiceSet
	}

	for _, s := range sides {
		if s < 1 || s > maxSides {
			return nil, ErrInvalidDiceSet
		}
	}

	return cloneAndSort(sides), nil
}
