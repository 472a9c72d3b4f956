package core

import (
	"cmp"
	"slices"
)

// The ranking values of a competitor
type RankTuple struct {
	Points   int `json:"points"`
	Bucholz  int `json:"bucholz"`
	NetScore int `json:"netscore"`
	TotScore int `json:"totscore"`

	// The external rating. Only meaningful when HasRate is true.
	Rate    int  `json:"rate"`
	HasRate bool `json:"-"`
}

// Compares the tuples lexicographically on
// (Points, Bucholz, NetScore, TotScore)
func (r RankTuple) Compare(other RankTuple) int {
	return cmp.Or(
		cmp.Compare(r.Points, other.Points),
		cmp.Compare(r.Bucholz, other.Bucholz),
		cmp.Compare(r.NetScore, other.NetScore),
		cmp.Compare(r.TotScore, other.TotScore),
	)
}

// A competitor together with its computed ranking values
type Standing struct {
	Competitor *Competitor
	RankTuple
}

// A RateSource provides the external rating of competitors.
type RateSource interface {
	// Returns the rate of the competitor and false
	// if the competitor is not rated
	Rate(c *Competitor) (int, bool)
}

// Computes the ranking values of the competitors from the matches.
//
// The matches are expected in their stored order (by turn, then board).
// They are counted up to the first match that is part of the finals or,
// when upToTurn is positive, that belongs to a turn after upToTurn.
// Unplayed matches do not count.
//
// The points are counted in a first pass over the matches. The bucholz
// of a competitor is the sum of the points of its opponents, so it is
// computed in a second pass once all points are known.
//
// The result is sorted in descending order of the rank tuples.
// Equal tuples keep the order of the competitors slice.
// The rates are only filled in when rates is not nil.
func ComputeRanking(
	competitors []*Competitor,
	matches []*Match,
	upToTurn int,
	rates RateSource,
) []Standing {
	tuples := make(map[string]*RankTuple, len(competitors)+1)
	for _, c := range competitors {
		tuples[Against(c).key()] = &RankTuple{}
	}
	tuples[byeKey] = &RankTuple{}

	counted := countedMatches(matches, upToTurn)

	for _, m := range counted {
		winner, loser, netscore := m.Results()
		w := tupleOf(tuples, winner)
		l := tupleOf(tuples, loser)

		if netscore == 0 && !m.IsBye() {
			w.Points += DrawPoints
			l.Points += DrawPoints
			continue
		}

		w.Points += WinnerPoints
		w.NetScore += netscore
		l.Points += LoserPoints
		l.NetScore -= netscore
	}

	for _, m := range counted {
		c1 := Against(m.Competitor1)
		t1 := tupleOf(tuples, c1)
		t2 := tupleOf(tuples, m.Competitor2)

		t1.TotScore += m.Score1
		t2.TotScore += m.Score2

		t1.Bucholz += t2.Points
		t2.Bucholz += t1.Points
	}

	standings := make([]Standing, 0, len(competitors))
	for _, c := range competitors {
		tuple := *tuples[Against(c).key()]
		if rates != nil {
			tuple.Rate, tuple.HasRate = rates.Rate(c)
		}
		standings = append(standings, Standing{Competitor: c, RankTuple: tuple})
	}

	slices.SortStableFunc(standings, func(a, b Standing) int {
		return b.RankTuple.Compare(a.RankTuple)
	})

	return standings
}

// Returns the matches that count for the ranking
func countedMatches(matches []*Match, upToTurn int) []*Match {
	counted := make([]*Match, 0, len(matches))
	for _, m := range matches {
		if m.Final || (upToTurn > 0 && m.Turn > upToTurn) {
			break
		}
		if !m.IsPlayed() {
			continue
		}
		counted = append(counted, m)
	}
	return counted
}

// Opponents that are not in the tuples map (e.g. a
// competitor that was removed) get a zero tuple
func tupleOf(tuples map[string]*RankTuple, o Opponent) *RankTuple {
	key := o.key()
	tuple, ok := tuples[key]
	if !ok {
		tuple = &RankTuple{}
		tuples[key] = tuple
	}
	return tuple
}

// Stores the ranking values on the competitors
func applyStandings(standings []Standing) {
	for _, s := range standings {
		c := s.Competitor
		c.Points = s.Points
		c.Bucholz = s.Bucholz
		c.NetScore = s.NetScore
		c.TotScore = s.TotScore
	}
}

// Indexes the standings by competitor ID
func standingsByID(standings []Standing) map[string]RankTuple {
	byID := make(map[string]RankTuple, len(standings))
	for _, s := range standings {
		byID[s.Competitor.ID] = s.RankTuple
	}
	return byID
}
