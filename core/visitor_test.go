package core

import (
	"slices"
	"testing"
)

func pointsOf(points map[string]int) func(o Opponent) int {
	return func(o Opponent) int {
		if c := o.Competitor(); c != nil {
			return points[c.ID]
		}
		return 0
	}
}

func TestSerialVisitor(t *testing.T) {
	entries := Entries(CompetitorSlice(4)...)

	history := NewHistory()
	history.Record(entries[0], entries[2])

	visited := slices.Collect(SerialVisitor{}.Visit(entries[0], entries[1:], history))
	expected := []Opponent{entries[1], entries[3]}
	if !slices.Equal(visited, expected) {
		t.Fatal("serial visitor did not skip the past opponent")
	}
}

func TestDazedVisitor(t *testing.T) {
	competitors := CompetitorSlice(6)
	entries := Entries(competitors...)
	a, b, c, d, e, f := entries[0], entries[1], entries[2], entries[3], entries[4], entries[5]

	visitor := DazedVisitor{Points: pointsOf(map[string]int{
		"c0": 4, "c1": 4, "c2": 4, "c3": 4, "c4": 2, "c5": 2,
	})}

	visited := slices.Collect(visitor.Visit(a, entries[1:], NewHistory()))
	expected := []Opponent{c, d, b, e, f}
	if !slices.Equal(visited, expected) {
		t.Fatalf("unexpected dazed order %v", visited)
	}

	history := NewHistory()
	history.Record(a, c)
	visited = slices.Collect(visitor.Visit(a, entries[1:], history))
	expected = []Opponent{d, b, e, f}
	if !slices.Equal(visited, expected) {
		t.Fatalf("dazed visitor did not skip the past opponent: %v", visited)
	}
}

func TestDazedVisitorEvenBlock(t *testing.T) {
	entries := Entries(CompetitorSlice(5)...)
	a, b, c, d, e := entries[0], entries[1], entries[2], entries[3], entries[4]

	// b and c share the points of a, the leader meets c before b
	visitor := DazedVisitor{Points: pointsOf(map[string]int{
		"c0": 4, "c1": 4, "c2": 4, "c3": 2, "c4": 2,
	})}
	visited := slices.Collect(visitor.Visit(a, entries[1:], NewHistory()))
	if !slices.Equal(visited, []Opponent{c, b, d, e}) {
		t.Fatalf("unexpected dazed order %v", visited)
	}

	// Four candidates on the same points are split in two halves
	entries = Entries(CompetitorSlice(6)...)
	visitor = DazedVisitor{Points: pointsOf(map[string]int{
		"c0": 2, "c1": 2, "c2": 2, "c3": 2, "c4": 2, "c5": 0,
	})}
	visited = slices.Collect(visitor.Visit(entries[0], entries[1:], NewHistory()))
	expected := []Opponent{entries[3], entries[4], entries[1], entries[2], entries[5]}
	if !slices.Equal(visited, expected) {
		t.Fatalf("unexpected dazed order %v", visited)
	}
}

func TestDazedVisitorSmallBlocks(t *testing.T) {
	entries := Entries(CompetitorSlice(4)...)
	a, b, c, d := entries[0], entries[1], entries[2], entries[3]

	// Two competitors on the same points play each other first
	visitor := DazedVisitor{Points: pointsOf(map[string]int{"c0": 2, "c1": 2})}
	visited := slices.Collect(visitor.Visit(a, entries[1:], NewHistory()))
	if !slices.Equal(visited, []Opponent{b, c, d}) {
		t.Fatalf("unexpected dazed order %v", visited)
	}

	// Nobody else on the same points
	visitor = DazedVisitor{Points: pointsOf(map[string]int{"c0": 4, "c1": 2, "c2": 2, "c3": 0})}
	visited = slices.Collect(visitor.Visit(a, entries[1:], NewHistory()))
	if !slices.Equal(visited, []Opponent{b, c, d}) {
		t.Fatalf("unexpected dazed order %v", visited)
	}

	// The phantom is never part of a block
	withBye := append(Entries(b.Competitor(), c.Competitor()), Bye())
	visitor = DazedVisitor{Points: pointsOf(map[string]int{"c0": 0, "c1": 0, "c2": 0})}
	visited = slices.Collect(visitor.Visit(a, withBye, NewHistory()))
	if !slices.Equal(visited, []Opponent{c, b, Bye()}) {
		t.Fatalf("unexpected dazed order %v", visited)
	}
}

func TestPairingStrategy(t *testing.T) {
	s, err := ParsePairingStrategy(" Dazed")
	if err != nil || s != DazedPairing {
		t.Fatal("dazed strategy was not parsed")
	}

	_, err = ParsePairingStrategy("random")
	if err != ErrUnknownPairingStrategy {
		t.Fatal("unknown strategy did not error")
	}

	v, err := SerialPairing.Visitor(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := v.(SerialVisitor); !ok {
		t.Fatal("serial strategy did not create a SerialVisitor")
	}

	_, err = PairingStrategy(42).Visitor(nil)
	if err != ErrUnknownPairingStrategy {
		t.Fatal("unknown strategy created a visitor")
	}

	if !slices.Equal(PairingStrategyNames(), []string{"dazed", "serial"}) {
		t.Fatal("unexpected strategy names")
	}
}
