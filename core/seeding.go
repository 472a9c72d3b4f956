package core

import (
	"math/rand"
	"slices"
	"time"
)

// Creates the random source of a tournament.
// A zero seed means the source is seeded by the clock.
func newRNG(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Pairs the competitors by repeatedly drawing two of them at random.
// When a single competitor is left it is paired with the phantom.
//
// The pairs are returned in the order they were drawn.
func randomPairs(competitors []*Competitor, rng *rand.Rand) []Pair {
	remaining := slices.Clone(competitors)
	pairs := make([]Pair, 0, (len(remaining)+1)/2)

	draw := func() Opponent {
		i := rng.Intn(len(remaining))
		c := remaining[i]
		remaining = slices.Delete(remaining, i, i+1)
		return Against(c)
	}

	for len(remaining) > 0 {
		first := draw()
		second := Bye()
		if len(remaining) > 0 {
			second = draw()
		}
		pairs = append(pairs, Pair{First: first, Second: second})
	}

	return pairs
}
