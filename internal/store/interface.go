package store

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/ezBadminton/goswiss/core"
)

// Repository defines the contract for tournament persistence.
// All methods accept an optional bun.IDB so they can take part in a
// transaction. A nil db uses the repository's own connection.
//
// Error semantics:
//   - ErrNotFound: the tournament does not exist
//   - ErrNoRowsAffected: an UPDATE matched no rows
//   - Other errors: infrastructure failures (connection, query errors)
type Repository interface {
	// CreateTournament stores a new tournament with its competitors.
	CreateTournament(ctx context.Context, db bun.IDB, t *core.Tournament, prizes core.PrizeStrategy) error

	// LoadTournament loads the tournament with its competitors and matches.
	LoadTournament(ctx context.Context, db bun.IDB, tournamentID string) (*core.Tournament, error)

	// LoadCompetitors returns the stored competitors in registration order.
	LoadCompetitors(ctx context.Context, db bun.IDB, tournamentID string) ([]Competitor, error)

	// LoadMatches returns the stored matches ordered by turn, then board.
	LoadMatches(ctx context.Context, db bun.IDB, tournamentID string) ([]Match, error)

	// AddCompetitor registers a competitor at the given position.
	AddCompetitor(ctx context.Context, db bun.IDB, tournamentID string, c *core.Competitor, position int) error

	// AppendMatches stores the matches of a new turn.
	AppendMatches(ctx context.Context, db bun.IDB, tournamentID string, matches []*core.Match) error

	// UpdateMatchScore stores the scores of a match.
	UpdateMatchScore(ctx context.Context, db bun.IDB, tournamentID string, m *core.Match) error

	// UpdateCompetitorRankingFields stores the ranking fields, the prize
	// and the retired flag of the competitors.
	UpdateCompetitorRankingFields(ctx context.Context, db bun.IDB, tournamentID string, competitors []*core.Competitor) error

	// SaveTournamentState stores the turn counters, the flags and
	// the modification time of the tournament.
	SaveTournamentState(ctx context.Context, db bun.IDB, t *core.Tournament) error

	// PrizeStrategy returns the prize-giving configured for the tournament.
	PrizeStrategy(ctx context.Context, db bun.IDB, tournamentID string) (core.PrizeStrategy, error)

	// PrizedTournaments returns the prized tournaments dated up to asOf,
	// oldest first.
	PrizedTournaments(ctx context.Context, db bun.IDB, asOf time.Time) ([]*core.Tournament, error)
}
