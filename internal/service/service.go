package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ezBadminton/goswiss/carrom"
	"github.com/ezBadminton/goswiss/core"
	"github.com/ezBadminton/goswiss/internal/events"
	"github.com/ezBadminton/goswiss/internal/metrics"
	"github.com/ezBadminton/goswiss/internal/rating"
	"github.com/ezBadminton/goswiss/internal/store"
)

// Options configures the engine behind the service.
type Options struct {
	// Settings of tournaments created without explicit settings
	Defaults core.Settings
	// The prize-giving of tournaments created without an explicit one
	Prizes core.PrizeStrategy
	Scores carrom.ScoreSettings
	// Upper bound of the pairing search of a turn. Zero means no bound.
	PairingTimeout time.Duration
}

// TournamentService runs the engine operations on stored tournaments.
//
// Every mutating operation loads the tournament, applies the operation
// and persists the result in one transaction. Operations on the same
// tournament are serialized.
type TournamentService struct {
	repo      store.Repository
	publisher *events.Publisher
	ratings   *rating.Ratings
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
	db        *bun.DB
	options   Options

	// Returns the current time, defaults to time.Now
	now func() time.Time

	locks sync.Map
}

// NewTournamentService creates a new TournamentService.
// The publisher, the ratings and the metrics are optional.
func NewTournamentService(
	repo store.Repository,
	publisher *events.Publisher,
	ratings *rating.Ratings,
	logger *slog.Logger,
	metrics *metrics.Metrics,
	tracer trace.Tracer,
	db *bun.DB,
	options Options,
) *TournamentService {
	return &TournamentService{
		repo:      repo,
		publisher: publisher,
		ratings:   ratings,
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
		db:        db,
		options:   options,
		now:       time.Now,
	}
}

var _ Service = (*TournamentService)(nil)

// operationFunc is the signature of the service operations.
type operationFunc[T any] func(ctx context.Context) (T, error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[T any](
	s *TournamentService,
	ctx context.Context,
	operationName string,
	tournamentID string,
	op operationFunc[T],
) (result T, err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.String("tournament_id", tournamentID),
	))
	defer span.End()

	startTime := s.now()
	defer func() {
		s.metrics.RecordOperation(operationName, s.now().Sub(startTime), err)
	}()

	s.logger.DebugContext(ctx, operationName+" triggered",
		"operation", operationName,
		"tournament_id", tournamentID,
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				"tournament_id", tournamentID,
				"error", err,
			)
			span.RecordError(err)
			var zero T
			result = zero
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			"operation", operationName,
			"tournament_id", tournamentID,
			"error", wrappedErr,
		)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	s.logger.InfoContext(ctx, operationName+" completed successfully",
		"operation", operationName,
		"tournament_id", tournamentID,
	)
	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[T any](
	s *TournamentService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (T, error),
) (T, error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result T
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})

	return result, err
}

// lock serializes the operations on a tournament.
func (s *TournamentService) lock(tournamentID string) func() {
	mu, _ := s.locks.LoadOrStore(tournamentID, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

// load restores a tournament and connects it to the collaborators.
func (s *TournamentService) load(ctx context.Context, db bun.IDB, tournamentID string) (*core.Tournament, error) {
	t, err := s.repo.LoadTournament(ctx, db, tournamentID)
	if err != nil {
		return nil, err
	}
	s.attach(t)
	return t, nil
}

func (s *TournamentService) attach(t *core.Tournament) {
	t.Logger = s.logger
	t.Now = s.now
	if t.Rated && s.ratings != nil {
		t.Rates = s.ratings
	}
}

// persistState stores the ranking fields of the competitors
// and the state of the tournament.
func (s *TournamentService) persistState(ctx context.Context, db bun.IDB, t *core.Tournament) error {
	if err := s.repo.UpdateCompetitorRankingFields(ctx, db, t.ID, t.Competitors); err != nil {
		return err
	}
	return s.repo.SaveTournamentState(ctx, db, t)
}

// publish sends an event after a successful operation.
// A failed publication does not undo the operation.
func (s *TournamentService) publish(ctx context.Context, topic string, payload any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, topic, payload); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish event",
			"topic", topic,
			"error", err,
		)
	}
}

// refreshRatings rebuilds the ratings after a committed change of the
// prize-giving. On failure the previous ratings stay in use.
func (s *TournamentService) refreshRatings(ctx context.Context, tournamentID string, asOf time.Time) {
	if err := s.recomputeRatings(ctx, asOf); err != nil {
		s.logger.WarnContext(ctx, "Failed to recompute ratings",
			"tournament", tournamentID,
			"as_of", asOf,
			"error", err,
		)
	}
}

// recomputeRatings rebuilds the ratings from the prized
// tournaments up to the given date.
func (s *TournamentService) recomputeRatings(ctx context.Context, asOf time.Time) error {
	if s.ratings == nil {
		return nil
	}
	source := func(ctx context.Context, asOf time.Time) ([]*core.Tournament, error) {
		return s.repo.PrizedTournaments(ctx, nil, asOf)
	}
	return s.ratings.Recompute(ctx, source, asOf)
}
