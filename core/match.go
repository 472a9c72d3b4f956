package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNegativeScore = errors.New("negative score")
	ErrByeScore      = errors.New("the phantom cannot score")
	ErrMatchNotFound = errors.New("match not found")
)

// Points awarded for the outcome of a match
const (
	WinnerPoints = 2
	DrawPoints   = 1
	LoserPoints  = 0
)

// A Match between a competitor and an opponent in one turn
// of a tournament.
//
// A match whose scores are both zero has not been played yet.
// A match against the phantom counts as played and is won
// by the first competitor.
type Match struct {
	// The round number, starting at 1
	Turn int
	// The table or board the match is played on, starting at 1
	Board int
	// True for matches of the finals bracket
	Final bool

	Competitor1 *Competitor
	Competitor2 Opponent

	Score1 int
	Score2 int
}

func NewMatch(turn, board int, c1 *Competitor, c2 Opponent) *Match {
	return &Match{
		Turn:        turn,
		Board:       board,
		Competitor1: c1,
		Competitor2: c2,
	}
}

// Returns true when the match is against the phantom
func (m *Match) IsBye() bool {
	return m.Competitor2.IsBye()
}

// Returns true when a result has been entered or the
// match is against the phantom
func (m *Match) IsPlayed() bool {
	return m.IsBye() || m.Score1 != 0 || m.Score2 != 0
}

// Returns true when the match is played and ended even
func (m *Match) IsDraw() bool {
	return !m.IsBye() && m.IsPlayed() && m.Score1 == m.Score2
}

// Returns the winner, the loser and the (non-negative) net score of the match.
//
// In a draw the competitors are returned in their match order with a
// zero net score. The loser of a phantom match is the phantom.
func (m *Match) Results() (Opponent, Opponent, int) {
	c1 := Against(m.Competitor1)
	c2 := m.Competitor2

	if m.IsBye() || m.Score1 >= m.Score2 {
		return c1, c2, m.Score1 - m.Score2
	}
	return c2, c1, m.Score2 - m.Score1
}

// Returns true when the given competitor plays in the match
func (m *Match) Involves(c *Competitor) bool {
	return m.Competitor1.ID == c.ID || m.Competitor2.Is(c)
}

// Returns the side of the match that is not the given competitor
func (m *Match) OpponentOf(c *Competitor) Opponent {
	if m.Competitor1.ID == c.ID {
		return m.Competitor2
	}
	if m.Competitor2.Is(c) {
		return Against(m.Competitor1)
	}

	panic("Competitor is not in the Match")
}

// Enters the result of the match
func (m *Match) SetScore(score1, score2 int) error {
	if score1 < 0 || score2 < 0 {
		return ErrNegativeScore
	}
	if m.IsBye() && score2 != 0 {
		return ErrByeScore
	}
	m.Score1 = score1
	m.Score2 = score2
	return nil
}

func (m *Match) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("T%d B%d ", m.Turn, m.Board))
	if m.Final {
		sb.WriteString("(final) ")
	}
	sb.WriteString(Against(m.Competitor1).String())
	sb.WriteString(" vs. ")
	sb.WriteString(m.Competitor2.String())

	if m.IsPlayed() {
		sb.WriteString(fmt.Sprintf("\t%v - %v", m.Score1, m.Score2))
	}

	return sb.String()
}
