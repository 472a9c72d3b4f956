package carrom

import (
	"errors"
)

var (
	ErrPointsZero      = errors.New("winning points are zero or less")
	ErrBoardsZero      = errors.New("max boards are zero or less")
	ErrBoardPointsZero = errors.New("max board points are zero or less")

	ErrUndetermined = errors.New("the winner is undeterminable from the score")

	ErrEmpty             = errors.New("empty score")
	ErrUnequalBoards     = errors.New("opponents have unequal number of boards")
	ErrTooManyBoards     = errors.New("too many boards")
	ErrNegativePoints    = errors.New("negative points")
	ErrTooManyPoints     = errors.New("board points exceed the max board points setting")
	ErrUndeterminedBoard = errors.New("nobody scored on a board")
	ErrBothScored        = errors.New("both opponents scored on the same board")
	ErrUnneededBoards    = errors.New("score contains boards after the game was won")
	ErrUnfinished        = errors.New("the game is not finished")
)

// The rules of a carrom game.
//
// A game is a sequence of boards. Only the winner of a board scores.
// The game ends when an opponent reaches the winning points or after
// the maximum number of boards.
type ScoreSettings struct {
	WinningPoints, MaxBoards, MaxBoardPoints int
}

func NewScoreSettings(winningPoints, maxBoards, maxBoardPoints int) (ScoreSettings, error) {
	settings := ScoreSettings{winningPoints, maxBoards, maxBoardPoints}

	if winningPoints <= 0 {
		return settings, ErrPointsZero
	}
	if maxBoards <= 0 {
		return settings, ErrBoardsZero
	}
	if maxBoardPoints <= 0 {
		return settings, ErrBoardPointsZero
	}

	return settings, nil
}

// The usual game to 25 points over at most 8 boards
func DefaultScoreSettings() ScoreSettings {
	return ScoreSettings{WinningPoints: 25, MaxBoards: 8, MaxBoardPoints: 13}
}

// The validated points of both opponents, board by board
type Score struct {
	a, b []int
}

func (s *Score) Points1() []int {
	return s.a
}

func (s *Score) Points2() []int {
	return s.b
}

// Returns the sums of the board points of both opponents.
// These are the scores of the match.
func (s *Score) Totals() (int, int) {
	return sum(s.a), sum(s.b)
}

// Returns either 0 or 1 whether the
// first opponent won or the second.
// Errors when the game is drawn.
func (s *Score) GetWinner() (int, error) {
	total1, total2 := s.Totals()
	if total1 > total2 {
		return 0, nil
	}
	if total2 > total1 {
		return 1, nil
	}
	return -1, ErrUndetermined
}

func (s *Score) Invert() *Score {
	return &Score{
		a: s.b,
		b: s.a,
	}
}

func NewScore(a, b []int, settings ScoreSettings) (*Score, error) {
	switch {
	case len(a) == 0 || len(b) == 0:
		return nil, ErrEmpty
	case len(a) != len(b):
		return nil, ErrUnequalBoards
	case len(a) > settings.MaxBoards:
		return nil, ErrTooManyBoards
	}

	total1, total2 := 0, 0
	for i := range len(a) {
		w := max(a[i], b[i])
		l := min(a[i], b[i])

		switch {
		case total1 >= settings.WinningPoints || total2 >= settings.WinningPoints:
			return nil, ErrUnneededBoards
		case l < 0:
			return nil, ErrNegativePoints
		case w == 0:
			return nil, ErrUndeterminedBoard
		case l > 0:
			return nil, ErrBothScored
		case w > settings.MaxBoardPoints:
			return nil, ErrTooManyPoints
		}

		total1 += a[i]
		total2 += b[i]
	}

	won := total1 >= settings.WinningPoints || total2 >= settings.WinningPoints
	if !won && len(a) < settings.MaxBoards {
		return nil, ErrUnfinished
	}

	return &Score{a, b}, nil
}

// Returns the shortest game that the first
// opponent wins without conceding a point
func MaxScore(settings ScoreSettings) *Score {
	a := make([]int, 0, settings.MaxBoards)
	for remaining := settings.WinningPoints; remaining > 0; {
		points := min(remaining, settings.MaxBoardPoints)
		a = append(a, points)
		remaining -= points
	}
	b := make([]int, len(a))
	return &Score{a, b}
}

func sum(points []int) int {
	total := 0
	for _, p := range points {
		total += p
	}
	return total
}
