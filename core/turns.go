package core

import (
	"cmp"
	"context"
	"slices"
)

// Creates the matches of the next turn and appends them to the tournament.
//
// The first turn pairs the competitors at random unless a RateSource is
// set. Every other turn brings the ranking up to date and pairs the
// active competitors in ranking order so that nobody meets an opponent
// twice. When the finals are in progress the next final turn is created
// instead.
//
// Either all matches of the turn are created or, on error, the
// tournament is left unchanged.
func (t *Tournament) MakeNextTurn(ctx context.Context) ([]*Match, error) {
	if t.Prized {
		return nil, ErrAlreadyPrized
	}
	if t.FinalTurns {
		return t.makeFinalTurnMatches()
	}

	active := t.activeCompetitors()
	if len(active) < 2 {
		return nil, ErrTooFewCompetitors
	}

	if t.CurrentTurn == 0 && t.Rates == nil {
		matches := t.randomTurn(active)
		t.commitTurn(matches, nil)
		return matches, nil
	}

	var standings []Standing
	rankedTurn := t.RankedTurn
	if t.RankingIsStale() {
		standings = t.Standings(0)
		rankedTurn = t.CurrentTurn
	}

	matches, err := t.pairedTurn(ctx, active, t.tuplesOf(standings), rankedTurn)
	if err != nil {
		t.logger().WarnContext(ctx, "Failed to create turn",
			"tournament", t.ID,
			"turn", t.CurrentTurn+1,
			"error", err,
		)
		return nil, err
	}

	t.commitTurn(matches, standings)
	return matches, nil
}

// Enters the finals and creates the first final turn.
// Subsequent final turns are created by MakeNextTurn.
func (t *Tournament) MakeFinalTurn(ctx context.Context) ([]*Match, error) {
	if t.Prized {
		return nil, ErrAlreadyPrized
	}
	if t.Finals == 0 {
		return nil, ErrFinalsNotConfigured
	}

	wasFinal := t.FinalTurns
	t.FinalTurns = true

	matches, err := t.MakeNextTurn(ctx)
	if err != nil {
		t.FinalTurns = wasFinal
		return nil, err
	}

	return matches, nil
}

// Pairs the competitors at random. The boards are numbered in
// the order of the draw, so the phantom is on the last board.
func (t *Tournament) randomTurn(active []*Competitor) []*Match {
	turn := t.CurrentTurn + 1
	pairs := randomPairs(active, t.random())

	matches := make([]*Match, 0, len(pairs))
	for i, p := range pairs {
		m := NewMatch(turn, i+1, p.First.Competitor(), p.Second)
		if m.IsBye() {
			m.Score1 = t.PhantomScore
		}
		matches = append(matches, m)
	}

	return matches
}

// Pairs the competitors by their standings while avoiding rematches
// and assigns the boards. The phantom match is put on the last board.
func (t *Tournament) pairedTurn(
	ctx context.Context,
	active []*Competitor,
	tuples map[string]RankTuple,
	rankedTurn int,
) ([]*Match, error) {
	rateAhead := t.Rates != nil && rankedTurn <= t.DelayTopPairing
	order := orderForPairing(active, tuples, rateAhead)
	entries := evenEntries(order)

	points := func(o Opponent) int {
		c := o.Competitor()
		if c == nil {
			return 0
		}
		return tuples[c.ID].Points
	}
	visitor, err := t.Couplings.Visitor(points)
	if err != nil {
		return nil, err
	}

	history := HistoryFromMatches(t.Matches)
	t.logger().Debug("Pairing turn",
		"tournament", t.ID,
		"turn", t.CurrentTurn+1,
		"entries", len(entries),
		"past_pairings", history.Size(),
	)

	pairs, err := Combine(ctx, entries, history, visitor)
	if err != nil {
		return nil, err
	}

	turn := t.CurrentTurn + 1
	matches := make([]*Match, 0, len(pairs))
	var bye *Match
	for _, p := range pairs {
		first, second := p.First, p.Second
		if first.IsBye() {
			first, second = second, first
		}
		m := NewMatch(turn, 0, first.Competitor(), second)
		if m.IsBye() {
			bye = m
			continue
		}
		matches = append(matches, m)
	}

	AssignBoards(matches, BoardUsageFrom(t.Matches), BoardRange(len(matches)))
	slices.SortFunc(matches, func(a, b *Match) int { return cmp.Compare(a.Board, b.Board) })

	if bye != nil {
		bye.Board = len(matches) + 1
		bye.Score1 = t.PhantomScore
		matches = append(matches, bye)
	}

	return matches, nil
}

// Appends the matches of a new turn. When standings is not nil
// the ranking was brought up to date for this turn.
func (t *Tournament) commitTurn(matches []*Match, standings []Standing) {
	if standings != nil {
		t.commitStandings(standings)
	}

	t.Matches = append(t.Matches, matches...)
	t.CurrentTurn += 1
	t.touch()

	t.logger().Info("Turn created",
		"tournament", t.ID,
		"turn", t.CurrentTurn,
		"matches", len(matches),
		"final", t.FinalTurns,
	)
}
