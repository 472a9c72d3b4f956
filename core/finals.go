package core

import (
	"errors"
	"slices"
)

var (
	ErrFinalsAlreadyComplete = errors.New("no further final matches are needed")
)

// The number of won matches that decides a best of three final
const bestOfThreeWins = 2

// The progress of the finals
type FinalsStatus struct {
	// True when the finals are decided and the prizes may be assigned
	Complete bool
	// The number of final turns created so far
	Turns int
	// The number of won final matches per competitor ID
	Wins map[string]int
}

// Evaluates the final matches of the tournament.
//
// Simple finals are complete after one final turn. Best of three
// finals are complete after three final turns or as soon as one
// competitor of every final pair has won two matches.
func (t *Tournament) FinalsStatus() FinalsStatus {
	status := FinalsStatus{Wins: make(map[string]int)}

	lastTurn := 0
	for _, m := range t.Matches {
		if !m.Final {
			continue
		}
		if m.Turn != lastTurn {
			status.Turns += 1
			lastTurn = m.Turn
		}
		if !m.IsPlayed() || m.IsDraw() {
			continue
		}
		winner, _, _ := m.Results()
		if c := winner.Competitor(); c != nil {
			status.Wins[c.ID] += 1
		}
	}

	switch t.FinalKind {
	case SimpleFinal:
		status.Complete = status.Turns >= 1
	case BestOfThreeFinal:
		status.Complete = status.Turns >= 3 || t.finalsDecided(status.Wins)
	}

	return status
}

// Returns true when every final pair has a competitor
// with two wins
func (t *Tournament) finalsDecided(wins map[string]int) bool {
	pairs := t.finalPairs()
	if len(pairs) == 0 {
		return false
	}
	for _, pair := range pairs {
		if !pairDecided(pair, wins) {
			return false
		}
	}
	return true
}

func pairDecided(pair [2]*Competitor, wins map[string]int) bool {
	return wins[pair[0].ID] >= bestOfThreeWins || wins[pair[1].ID] >= bestOfThreeWins
}

// Returns the competitor pairs of the first final turn
// in board order. Later final turns repeat these pairs.
func (t *Tournament) finalPairs() [][2]*Competitor {
	firstTurn := 0
	pairs := make([][2]*Competitor, 0, t.Finals)
	for _, m := range t.Matches {
		if !m.Final || m.IsBye() {
			continue
		}
		if firstTurn == 0 {
			firstTurn = m.Turn
		}
		if m.Turn != firstTurn {
			break
		}
		pairs = append(pairs, [2]*Competitor{m.Competitor1, m.Competitor2.Competitor()})
	}

	return pairs
}

// Creates the matches of the next final turn.
//
// The top 2*Finals competitors of the current ranking are paired
// first against second, third against fourth. Pairs in which a
// competitor already won two final matches get no further match.
func (t *Tournament) makeFinalTurnMatches() ([]*Match, error) {
	if t.FinalsStatus().Complete {
		return nil, ErrFinalsAlreadyComplete
	}

	var standings []Standing
	rankedTurn := t.RankedTurn
	if t.RankingIsStale() {
		standings = t.Standings(0)
		rankedTurn = t.CurrentTurn
	}

	ranking := t.orderCompetitors(t.tuplesOf(standings), rankedTurn)
	finalists := slices.DeleteFunc(ranking, func(c *Competitor) bool { return c.Retired })
	if len(finalists) < 2*t.Finals {
		return nil, ErrTooFewCompetitors
	}

	wins := t.FinalsStatus().Wins
	turn := t.CurrentTurn + 1
	matches := make([]*Match, 0, t.Finals)
	for k := range t.Finals {
		pair := [2]*Competitor{finalists[2*k], finalists[2*k+1]}
		if pairDecided(pair, wins) {
			continue
		}
		m := NewMatch(turn, k+1, pair[0], Against(pair[1]))
		m.Final = true
		matches = append(matches, m)
	}

	if len(matches) == 0 {
		return nil, ErrFinalsAlreadyComplete
	}

	t.commitTurn(matches, standings)
	return matches, nil
}
