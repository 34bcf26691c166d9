package dice

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// maxSetSize bounds how many dice a single expression may expand to, so an
// NdM term cannot amplify a short string into an enormous allocation.
const maxSetSize = 1000

var termPattern = regexp.MustCompile(`^(\d*)[dD](\d+)$`)

// ParseSet parses a dice expression into a slice of side counts, in the
// order written. Terms are separated by commas, plus signs, or whitespace.
// Each term is either an NdM group ("2d6", "d20") or a bare integer naming
// a single die by its side count ("8" is one d8).
//
// There is no modifier syntax. A trailing "+1" reads as one one-sided die,
// which shifts every sum by exactly one and is therefore the same
// arithmetic as a flat +1 bonus. Negative terms are rejected.
//
// The empty expression is the empty set. Unparseable terms return
// ErrBadNotation; syntactically valid dice with zero sides return
// ErrInvalidDie.
func ParseSet(expr string) ([]int, error) {
	fields := strings.FieldsFunc(expr, func(r rune) bool {
		return r == ',' || r == '+' || r == ' ' || r == '\t'
	})

	sides := make([]int, 0, len(fields))
	for _, field := range fields {
		count, faces, err := parseTerm(field)
		if err != nil {
			return nil, err
		}
		// count may be as large as MaxInt, so keep it out of any sum.
		if count > maxSetSize-len(sides) {
			return nil, fmt.Errorf("%w: expression expands to more than %d dice", ErrBadNotation, maxSetSize)
		}
		for i := 0; i < count; i++ {
			sides = append(sides, faces)
		}
	}
	return sides, nil
}

func parseTerm(term string) (count, faces int, err error) {
	if m := termPattern.FindStringSubmatch(term); m != nil {
		count = 1
		if m[1] != "" {
			count, err = strconv.Atoi(m[1])
			if err != nil || count < 1 {
				return 0, 0, fmt.Errorf("term %q: %w", term, ErrBadNotation)
			}
		}
		faces, err = strconv.Atoi(m[2])
		if err != nil {
			return 0, 0, fmt.Errorf("term %q: %w", term, ErrBadNotation)
		}
		if faces < 1 {
			return 0, 0, fmt.Errorf("term %q: %w", term, ErrInvalidDie)
		}
		return count, faces, nil
	}

	faces, err = strconv.Atoi(term)
	if err != nil {
		return 0, 0, fmt.Errorf("term %q: %w", term, ErrBadNotation)
	}
	if faces < 1 {
		return 0, 0, fmt.Errorf("term %q: %w", term, ErrInvalidDie)
	}
	return 1, faces, nil
}

// FormatSet renders a dice set in compact NdM notation, grouping identical
// dice and ordering groups by side count ascending, e.g. [8 6 6] becomes
// "2d6+1d8". The empty set renders as the empty string.
func FormatSet(sides []int) string {
	if len(sides) == 0 {
		return ""
	}

	byFaces := make(map[int]int, len(sides))
	for _, s := range sides {
		byFaces[s]++
	}
	faces := make([]int, 0, len(byFaces))
	for f := range byFaces {
		faces = append(faces, f)
	}
	sort.Ints(faces)

	terms := make([]string, 0, len(faces))
	for _, f := range faces {
		terms = append(terms, fmt.Sprintf("%dd%d", byFaces[f], f))
	}
	return strings.Join(terms, "+")
}
