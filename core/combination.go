package core

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNoCombinationFound = errors.New("cannot create another round: no more combinations")
)

// Two opponents that are paired for a match
type Pair struct {
	First  Opponent
	Second Opponent
}

// Partitions the entries into pairs of opponents that have
// not played each other according to the history.
//
// The entries are expected in ranking order and with an even length
// (see evenEntries). The first remaining entry is paired with the
// candidates in the order given by the visitor. When the remaining
// entries cannot be paired the next candidate is tried, so a failure
// deep in the search can revise the choices of the outer levels.
//
// Returns ErrNoCombinationFound when no complete pairing exists.
// When ctx is done the search is aborted and the returned error
// wraps both ErrNoCombinationFound and the context's error.
func Combine(
	ctx context.Context,
	entries []Opponent,
	history *History,
	visitor Visitor,
) ([]Pair, error) {
	if len(entries) < 2 || history.Exhausted(entries) {
		return nil, ErrNoCombinationFound
	}

	search := &combinationSearch{ctx: ctx, history: history, visitor: visitor}
	pairs, ok := search.combine(entries)
	if search.err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoCombinationFound, search.err)
	}
	if !ok {
		return nil, ErrNoCombinationFound
	}

	return pairs, nil
}

type combinationSearch struct {
	ctx     context.Context
	history *History
	visitor Visitor

	// Set when the context is done
	err error
}

// The remaining slice is never modified, each level works
// on its own reduced copy.
func (s *combinationSearch) combine(remaining []Opponent) ([]Pair, bool) {
	if len(remaining) < 2 {
		return nil, false
	}
	if err := s.ctx.Err(); err != nil {
		s.err = err
		return nil, false
	}

	first := remaining[0]
	others := remaining[1:]

	for second := range s.visitor.Visit(first, others, s.history) {
		pair := Pair{First: first, Second: second}
		if len(remaining) == 2 {
			return []Pair{pair}, true
		}

		reduced := withoutOpponent(others, second)
		pairs, ok := s.combine(reduced)
		if ok {
			return append([]Pair{pair}, pairs...), true
		}
		if s.err != nil {
			return nil, false
		}
	}

	return nil, false
}

func withoutOpponent(opponents []Opponent, o Opponent) []Opponent {
	reduced := make([]Opponent, 0, len(opponents)-1)
	for _, c := range opponents {
		if c != o {
			reduced = append(reduced, c)
		}
	}
	return reduced
}
