package service

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/ezBadminton/goswiss/core"
	"github.com/ezBadminton/goswiss/internal/events"
	"github.com/ezBadminton/goswiss/internal/metrics"
)

// NextTurn creates the next turn of the tournament. The pairing search
// is aborted after the configured pairing timeout.
func (s *TournamentService) NextTurn(ctx context.Context, tournamentID string) ([]*core.Match, error) {
	return withTelemetry(s, ctx, "NextTurn", tournamentID, func(ctx context.Context) ([]*core.Match, error) {
		return s.makeTurn(ctx, tournamentID, (*core.Tournament).MakeNextTurn)
	})
}

// FinalTurn enters the finals of the tournament.
func (s *TournamentService) FinalTurn(ctx context.Context, tournamentID string) ([]*core.Match, error) {
	return withTelemetry(s, ctx, "FinalTurn", tournamentID, func(ctx context.Context) ([]*core.Match, error) {
		return s.makeTurn(ctx, tournamentID, (*core.Tournament).MakeFinalTurn)
	})
}

type turnMaker func(t *core.Tournament, ctx context.Context) ([]*core.Match, error)

func (s *TournamentService) makeTurn(ctx context.Context, tournamentID string, makeTurn turnMaker) ([]*core.Match, error) {
	defer s.lock(tournamentID)()

	var kind string
	startTime := s.now()
	matches, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) ([]*core.Match, error) {
		t, err := s.load(ctx, db, tournamentID)
		if err != nil {
			return nil, err
		}

		pairingCtx := ctx
		if s.options.PairingTimeout > 0 {
			var cancel context.CancelFunc
			pairingCtx, cancel = context.WithTimeout(ctx, s.options.PairingTimeout)
			defer cancel()
		}

		random := t.CurrentTurn == 0 && t.Rates == nil
		matches, err := makeTurn(t, pairingCtx)
		if err != nil {
			return nil, err
		}

		switch {
		case t.FinalTurns:
			kind = metrics.TurnFinal
		case random:
			kind = metrics.TurnRandom
		default:
			kind = metrics.TurnPaired
		}

		if err := s.repo.AppendMatches(ctx, db, t.ID, matches); err != nil {
			return nil, err
		}
		if err := s.persistState(ctx, db, t); err != nil {
			return nil, err
		}
		return matches, nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordTurn(kind, len(matches), s.now().Sub(startTime))
	s.publish(ctx, events.TopicTurnCreated, events.NewTurnCreatedPayload(tournamentID, matches))
	return matches, nil
}
