package service

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/ezBadminton/goswiss/core"
	"github.com/ezBadminton/goswiss/internal/events"
)

// AssignPrizes gives the prizes with the strategy stored for the
// tournament. The ratings are rebuilt as of the tournament date once
// the prize-giving is committed.
func (s *TournamentService) AssignPrizes(ctx context.Context, tournamentID string) ([]*core.Competitor, error) {
	return withTelemetry(s, ctx, "AssignPrizes", tournamentID, func(ctx context.Context) ([]*core.Competitor, error) {
		defer s.lock(tournamentID)()

		var (
			strategy core.PrizeStrategy
			date     time.Time
		)
		ranking, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) ([]*core.Competitor, error) {
			t, err := s.load(ctx, db, tournamentID)
			if err != nil {
				return nil, err
			}
			strategy, err = s.repo.PrizeStrategy(ctx, db, tournamentID)
			if err != nil {
				return nil, err
			}
			if err := t.AssignPrizes(strategy); err != nil {
				return nil, err
			}
			if err := s.persistState(ctx, db, t); err != nil {
				return nil, err
			}
			date = t.Date
			return t.Ranking(), nil
		})
		if err != nil {
			return nil, err
		}

		s.refreshRatings(ctx, tournamentID, date)

		s.publish(ctx, events.TopicPrizesAssigned, events.NewPrizesAssignedPayload(tournamentID, strategy, ranking))
		return ranking, nil
	})
}

// ResetPrizes takes back the prize-giving and rebuilds the ratings
// without the tournament once the change is committed.
func (s *TournamentService) ResetPrizes(ctx context.Context, tournamentID string) error {
	_, err := withTelemetry(s, ctx, "ResetPrizes", tournamentID, func(ctx context.Context) (struct{}, error) {
		defer s.lock(tournamentID)()

		date, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (time.Time, error) {
			t, err := s.load(ctx, db, tournamentID)
			if err != nil {
				return time.Time{}, err
			}
			t.ResetPrizes()
			if err := s.persistState(ctx, db, t); err != nil {
				return time.Time{}, err
			}
			return t.Date, nil
		})
		if err != nil {
			return struct{}{}, err
		}

		s.refreshRatings(ctx, tournamentID, date)

		s.publish(ctx, events.TopicPrizesReset, events.PrizesResetPayload{TournamentID: tournamentID})
		return struct{}{}, nil
	})
	return err
}

// RecomputeRatings rebuilds the ratings from all tournaments
// prized up to asOf.
func (s *TournamentService) RecomputeRatings(ctx context.Context, asOf time.Time) error {
	_, err := withTelemetry(s, ctx, "RecomputeRatings", "", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.recomputeRatings(ctx, asOf)
	})
	return err
}
