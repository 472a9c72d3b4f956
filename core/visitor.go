package core

import (
	"errors"
	"iter"
	"slices"
	"strings"
)

var (
	ErrUnknownPairingStrategy = errors.New("unknown pairing strategy")
)

// A Visitor decides in which order the candidate opponents
// of a competitor are tried by the combination search.
type Visitor interface {
	// Yields the candidates from others that first has not
	// played yet in the order they should be tried
	Visit(first Opponent, others []Opponent, history *History) iter.Seq[Opponent]
}

// The SerialVisitor tries the candidates from left to right
type SerialVisitor struct{}

func (v SerialVisitor) Visit(first Opponent, others []Opponent, history *History) iter.Seq[Opponent] {
	return visitUnplayed(first, others, history)
}

// The DazedVisitor delays the matches between the very top
// competitors.
//
// Among the candidates with the same points as the first
// competitor it tries the second half of that block first,
// then the first half and then all other candidates in order.
type DazedVisitor struct {
	// Returns the current points of an opponent
	Points func(o Opponent) int
}

func (v DazedVisitor) Visit(first Opponent, others []Opponent, history *History) iter.Seq[Opponent] {
	if first.IsBye() {
		return visitUnplayed(first, others, history)
	}

	points := v.Points(first)
	samePoints := func(o Opponent) bool { return !o.IsBye() && v.Points(o) == points }

	var block, rest []Opponent
	for _, o := range others {
		if samePoints(o) {
			block = append(block, o)
		} else {
			rest = append(rest, o)
		}
	}

	middle := len(block) / 2
	order := make([]Opponent, 0, len(others))
	order = append(order, block[middle:]...)
	order = append(order, block[:middle]...)
	order = append(order, rest...)

	return visitUnplayed(first, order, history)
}

func visitUnplayed(first Opponent, candidates []Opponent, history *History) iter.Seq[Opponent] {
	return func(yield func(o Opponent) bool) {
		for _, c := range candidates {
			if history.HasPlayed(first, c) {
				continue
			}
			if !yield(c) {
				return
			}
		}
	}
}

// The visiting order used to pair competitors
type PairingStrategy int

const (
	SerialPairing PairingStrategy = iota
	DazedPairing
)

var pairingStrategyNames = map[PairingStrategy]string{
	SerialPairing: "serial",
	DazedPairing:  "dazed",
}

var visitorFactories = map[PairingStrategy]func(points func(o Opponent) int) Visitor{
	SerialPairing: func(_ func(o Opponent) int) Visitor { return SerialVisitor{} },
	DazedPairing:  func(points func(o Opponent) int) Visitor { return DazedVisitor{Points: points} },
}

func ParsePairingStrategy(name string) (PairingStrategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for s, n := range pairingStrategyNames {
		if n == name {
			return s, nil
		}
	}
	return 0, ErrUnknownPairingStrategy
}

// Creates the Visitor of the strategy.
// The points function is used by strategies that look at the standings.
func (s PairingStrategy) Visitor(points func(o Opponent) int) (Visitor, error) {
	factory, ok := visitorFactories[s]
	if !ok {
		return nil, ErrUnknownPairingStrategy
	}
	return factory(points), nil
}

func (s PairingStrategy) String() string {
	name, ok := pairingStrategyNames[s]
	if !ok {
		return "unknown"
	}
	return name
}

// Returns the names of all pairing strategies sorted alphabetically
func PairingStrategyNames() []string {
	names := make([]string, 0, len(pairingStrategyNames))
	for _, n := range pairingStrategyNames {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
