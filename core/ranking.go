package core

import (
	"cmp"
	"slices"
)

// Returns the competitors from best to worst.
//
// Before the first turn is ranked and when a RateSource is set the
// competitors are ordered by their rate. Otherwise they are ordered by
// prize, points, bucholz, net score and total score. Competitors that
// are equal in all of these are ordered by name.
//
// While the tournament is not prized and the finals are complete the
// competitors of each final are swapped when the second one won
// more final matches.
//
// The ranking is computed on every call from the ranking fields
// of the competitors and the final matches.
func (t *Tournament) Ranking() []*Competitor {
	ranking := t.orderCompetitors(t.storedTuples(), t.RankedTurn)

	if !t.Prized && t.Finals > 0 {
		status := t.FinalsStatus()
		if status.Complete {
			swapFinalists(ranking, t.finalPairs(), status.Wins)
		}
	}

	return ranking
}

// Orders all competitors of the tournament by the given tuples
func (t *Tournament) orderCompetitors(tuples map[string]RankTuple, rankedTurn int) []*Competitor {
	ranking := slices.Clone(t.Competitors)
	sortByName(ranking)

	if rankedTurn == 0 && t.Rates != nil {
		slices.SortStableFunc(ranking, func(a, b *Competitor) int {
			return compareRates(tuples[b.ID], tuples[a.ID])
		})
		return ranking
	}

	slices.SortStableFunc(ranking, func(a, b *Competitor) int {
		return cmp.Or(
			cmp.Compare(b.Prize, a.Prize),
			tuples[b.ID].Compare(tuples[a.ID]),
		)
	})
	return ranking
}

// Orders the competitors for the pairing of the next turn.
//
// With rateAhead the rate is compared right after the points,
// otherwise the order is the same as in orderCompetitors.
func orderForPairing(competitors []*Competitor, tuples map[string]RankTuple, rateAhead bool) []*Competitor {
	order := slices.Clone(competitors)
	sortByName(order)

	slices.SortStableFunc(order, func(a, b *Competitor) int {
		ta, tb := tuples[a.ID], tuples[b.ID]
		if rateAhead {
			return cmp.Or(
				cmp.Compare(tb.Points, ta.Points),
				compareRates(tb, ta),
				tb.Compare(ta),
			)
		}
		return tb.Compare(ta)
	})

	return order
}

// Rated competitors come before unrated ones
func compareRates(a, b RankTuple) int {
	switch {
	case a.HasRate && b.HasRate:
		return cmp.Compare(a.Rate, b.Rate)
	case a.HasRate:
		return 1
	case b.HasRate:
		return -1
	}
	return 0
}

func sortByName(competitors []*Competitor) {
	slices.SortStableFunc(competitors, func(a, b *Competitor) int {
		return cmp.Compare(a.nameKey(), b.nameKey())
	})
}

// Returns the ranking fields stored on the competitors
// along with their rates
func (t *Tournament) storedTuples() map[string]RankTuple {
	tuples := make(map[string]RankTuple, len(t.Competitors))
	for _, c := range t.Competitors {
		tuple := RankTuple{
			Points:   c.Points,
			Bucholz:  c.Bucholz,
			NetScore: c.NetScore,
			TotScore: c.TotScore,
		}
		if t.Rates != nil {
			tuple.Rate, tuple.HasRate = t.Rates.Rate(c)
		}
		tuples[c.ID] = tuple
	}
	return tuples
}

// Returns the standings to rank with. When standings is nil
// the ranking fields of the competitors are used.
func (t *Tournament) tuplesOf(standings []Standing) map[string]RankTuple {
	if standings == nil {
		return t.storedTuples()
	}
	return standingsByID(standings)
}

// Puts the winner of each final pair in front of the loser
func swapFinalists(ranking []*Competitor, pairs [][2]*Competitor, wins map[string]int) {
	for _, pair := range pairs {
		i := slices.Index(ranking, pair[0])
		j := slices.Index(ranking, pair[1])
		if i < 0 || j < 0 {
			continue
		}
		if i > j {
			i, j = j, i
		}
		if wins[ranking[j].ID] > wins[ranking[i].ID] {
			ranking[i], ranking[j] = ranking[j], ranking[i]
		}
	}
}
