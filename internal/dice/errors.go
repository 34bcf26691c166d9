package dice

import "errors"

var (
	// ErrInvalidDie is returned when any die in a set has fewer than one side.
	ErrInvalidDie = errors.New("every die must have at least one side")
	// ErrBadNotation is returned when a dice expression cannot be parsed.
	ErrBadNotation = errors.New("dice expression must list side counts or NdM terms")
)
