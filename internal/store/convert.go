package store

import (
	"fmt"

	"github.com/ezBadminton/goswiss/core"
)

// TournamentFromCore creates the stored form of a tournament.
func TournamentFromCore(t *core.Tournament, prizes core.PrizeStrategy) *Tournament {
	return &Tournament{
		ID:              t.ID,
		Description:     t.Description,
		Date:            t.Date,
		Finals:          t.Finals,
		FinalKind:       t.FinalKind.String(),
		Couplings:       t.Couplings.String(),
		Rated:           t.Rated,
		DelayTopPairing: t.DelayTopPairing,
		PhantomScore:    t.PhantomScore,
		Seed:            t.Seed,
		PrizeStrategy:   prizes.String(),
		CurrentTurn:     t.CurrentTurn,
		RankedTurn:      t.RankedTurn,
		Prized:          t.Prized,
		FinalTurns:      t.FinalTurns,
		Modified:        t.Modified,
	}
}

// ToCore restores the tournament without its competitors and matches.
func (m *Tournament) ToCore() (*core.Tournament, error) {
	couplings, err := core.ParsePairingStrategy(m.Couplings)
	if err != nil {
		return nil, fmt.Errorf("tournament %s: %w", m.ID, err)
	}
	finalKind, err := core.ParseFinalKind(m.FinalKind)
	if err != nil {
		return nil, fmt.Errorf("tournament %s: %w", m.ID, err)
	}

	return &core.Tournament{
		ID:          m.ID,
		Description: m.Description,
		Date:        m.Date,
		Settings: core.Settings{
			Finals:          m.Finals,
			FinalKind:       finalKind,
			Couplings:       couplings,
			Rated:           m.Rated,
			DelayTopPairing: m.DelayTopPairing,
			PhantomScore:    m.PhantomScore,
			Seed:            m.Seed,
		},
		CurrentTurn: m.CurrentTurn,
		RankedTurn:  m.RankedTurn,
		Prized:      m.Prized,
		FinalTurns:  m.FinalTurns,
		Modified:    m.Modified,
	}, nil
}

// CompetitorFromCore creates the stored form of a competitor.
// The position keeps the registration order.
func CompetitorFromCore(tournamentID string, c *core.Competitor, position int) *Competitor {
	members := c.Members()
	players := make([]Player, 0, len(members))
	for _, p := range members {
		players = append(players, Player{ID: p.ID, FirstName: p.FirstName, LastName: p.LastName})
	}

	return &Competitor{
		TournamentID: tournamentID,
		CompetitorID: c.ID,
		Position:     position,
		Players:      players,
		Points:       c.Points,
		Bucholz:      c.Bucholz,
		NetScore:     c.NetScore,
		TotScore:     c.TotScore,
		Prize:        c.Prize,
		Retired:      c.Retired,
	}
}

func (m *Competitor) ToCore() *core.Competitor {
	players := make([]*core.Player, 0, len(m.Players))
	for _, p := range m.Players {
		players = append(players, &core.Player{ID: p.ID, FirstName: p.FirstName, LastName: p.LastName})
	}

	c := core.NewCompetitor(m.CompetitorID, players...)
	c.Points = m.Points
	c.Bucholz = m.Bucholz
	c.NetScore = m.NetScore
	c.TotScore = m.TotScore
	c.Prize = m.Prize
	c.Retired = m.Retired
	return c
}

// MatchFromCore creates the stored form of a match.
func MatchFromCore(tournamentID string, m *core.Match) *Match {
	match := &Match{
		TournamentID:  tournamentID,
		Turn:          m.Turn,
		Board:         m.Board,
		Final:         m.Final,
		Competitor1ID: m.Competitor1.ID,
		Score1:        m.Score1,
		Score2:        m.Score2,
	}
	if c2 := m.Competitor2.Competitor(); c2 != nil {
		match.Competitor2ID = c2.ID
	}
	return match
}

// ToCore restores the match with the competitors of its tournament.
func (m *Match) ToCore(competitors map[string]*core.Competitor) (*core.Match, error) {
	c1, ok := competitors[m.Competitor1ID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCompetitor, m.Competitor1ID)
	}

	c2 := core.Bye()
	if m.Competitor2ID != "" {
		c, ok := competitors[m.Competitor2ID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCompetitor, m.Competitor2ID)
		}
		c2 = core.Against(c)
	}

	match := core.NewMatch(m.Turn, m.Board, c1, c2)
	match.Final = m.Final
	match.Score1 = m.Score1
	match.Score2 = m.Score2
	return match, nil
}

// Assemble restores a complete tournament from its stored parts.
// The competitors are expected in registration order and
// the matches ordered by turn, then board.
func Assemble(t *Tournament, competitors []Competitor, matches []Match) (*core.Tournament, error) {
	tournament, err := t.ToCore()
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*core.Competitor, len(competitors))
	tournament.Competitors = make([]*core.Competitor, 0, len(competitors))
	for i := range competitors {
		c := competitors[i].ToCore()
		byID[c.ID] = c
		tournament.Competitors = append(tournament.Competitors, c)
	}

	tournament.Matches = make([]*core.Match, 0, len(matches))
	for i := range matches {
		m, err := matches[i].ToCore(byID)
		if err != nil {
			return nil, fmt.Errorf("tournament %s: %w", t.ID, err)
		}
		tournament.Matches = append(tournament.Matches, m)
	}

	return tournament, nil
}
