package service

import (
	"context"
	"time"

	"github.com/ezBadminton/goswiss/core"
)

// Draft describes a new tournament. Nil fields take the configured defaults.
type Draft struct {
	Description string
	Date        time.Time
	Settings    *core.Settings
	Prizes      *core.PrizeStrategy
}

// Service defines the operations on stored tournaments.
type Service interface {
	// Create stores a new tournament without competitors.
	Create(ctx context.Context, draft Draft) (*core.Tournament, error)
	AddCompetitor(ctx context.Context, tournamentID string, players ...core.Player) (*core.Competitor, error)
	RetireCompetitor(ctx context.Context, tournamentID, competitorID string) error
	ReenterCompetitor(ctx context.Context, tournamentID, competitorID string) error
	// Replay creates a new tournament with the competitors of another one.
	Replay(ctx context.Context, tournamentID string, date time.Time) (*core.Tournament, error)

	NextTurn(ctx context.Context, tournamentID string) ([]*core.Match, error)
	FinalTurn(ctx context.Context, tournamentID string) ([]*core.Match, error)
	// RecordResult validates the board points of a match and enters its score.
	RecordResult(ctx context.Context, tournamentID string, turn, board int, points1, points2 []int) (*core.Match, error)

	// Turn returns the matches of a created turn in board order.
	Turn(ctx context.Context, tournamentID string, turn int) ([]*core.Match, error)
	CompetitorMatches(ctx context.Context, tournamentID, competitorID string) (*core.Competitor, []*core.Match, error)
	Ranking(ctx context.Context, tournamentID string) ([]*core.Competitor, error)
	FinalsStatus(ctx context.Context, tournamentID string) (core.FinalsStatus, error)

	AssignPrizes(ctx context.Context, tournamentID string) ([]*core.Competitor, error)
	ResetPrizes(ctx context.Context, tournamentID string) error
	RecomputeRatings(ctx context.Context, asOf time.Time) error
}
