// This file contains a thin wrapper around the graph module
// for keeping track of who has played whom.
package core

import (
	"errors"
	"slices"

	"github.com/dominikbraun/graph"
)

func opponentKey(o Opponent) string {
	return o.key()
}

// The History of a tournament is an undirected graph with the
// opponents as its nodes. An edge between two opponents means
// they already met in a non-final match.
//
// Since the graph is undirected a pairing (a, b) is also
// recorded as (b, a).
type History struct {
	graph graph.Graph[string, Opponent]
}

func NewHistory() *History {
	return &History{graph: graph.New(opponentKey)}
}

// Creates the History of all non-final matches
func HistoryFromMatches(matches []*Match) *History {
	history := NewHistory()
	for _, m := range matches {
		if m.Final {
			continue
		}
		history.Record(Against(m.Competitor1), m.Competitor2)
	}
	return history
}

// Records that a and b played each other
func (h *History) Record(a, b Opponent) {
	h.addOpponent(a)
	h.addOpponent(b)

	err := h.graph.AddEdge(a.key(), b.key())
	if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
		panic(err)
	}
}

func (h *History) addOpponent(o Opponent) {
	err := h.graph.AddVertex(o)
	if err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
		panic(err)
	}
}

// Returns true when a and b already played each other
func (h *History) HasPlayed(a, b Opponent) bool {
	_, err := h.graph.Edge(a.key(), b.key())
	return err == nil
}

// Returns the number of distinct pairings
func (h *History) Size() int {
	size, err := h.graph.Size()
	if err != nil {
		return 0
	}
	return size
}

// Returns true when every pair of the given entries
// already played each other
func (h *History) Exhausted(entries []Opponent) bool {
	for i, a := range entries {
		if slices.ContainsFunc(entries[i+1:], func(b Opponent) bool { return !h.HasPlayed(a, b) }) {
			return false
		}
	}
	return true
}
