package service

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/ezBadminton/goswiss/carrom"
	"github.com/ezBadminton/goswiss/core"
	"github.com/ezBadminton/goswiss/internal/events"
)

func (s *TournamentService) RecordResult(
	ctx context.Context,
	tournamentID string,
	turn, board int,
	points1, points2 []int,
) (*core.Match, error) {
	return withTelemetry(s, ctx, "RecordResult", tournamentID, func(ctx context.Context) (*core.Match, error) {
		score, err := carrom.NewScore(points1, points2, s.options.Scores)
		if err != nil {
			return nil, err
		}
		score1, score2 := score.Totals()

		defer s.lock(tournamentID)()
		var stale bool
		m, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (*core.Match, error) {
			t, err := s.load(ctx, db, tournamentID)
			if err != nil {
				return nil, err
			}
			m, err := t.RecordResult(turn, board, score1, score2)
			if err != nil {
				return nil, err
			}
			stale = t.RankingIsStale()

			if err := s.repo.UpdateMatchScore(ctx, db, t.ID, m); err != nil {
				return nil, err
			}
			return m, s.repo.SaveTournamentState(ctx, db, t)
		})
		if err != nil {
			return nil, err
		}

		s.publish(ctx, events.TopicResultRecorded, events.ResultRecordedPayload{
			TournamentID: tournamentID,
			Match:        events.NewMatchPayload(m),
			RankingStale: stale,
		})
		return m, nil
	})
}

// Ranking returns the display ranking computed from the stored tournament.
func (s *TournamentService) Ranking(ctx context.Context, tournamentID string) ([]*core.Competitor, error) {
	return withTelemetry(s, ctx, "Ranking", tournamentID, func(ctx context.Context) ([]*core.Competitor, error) {
		t, err := s.load(ctx, nil, tournamentID)
		if err != nil {
			return nil, err
		}
		return t.Ranking(), nil
	})
}

func (s *TournamentService) FinalsStatus(ctx context.Context, tournamentID string) (core.FinalsStatus, error) {
	return withTelemetry(s, ctx, "FinalsStatus", tournamentID, func(ctx context.Context) (core.FinalsStatus, error) {
		t, err := s.load(ctx, nil, tournamentID)
		if err != nil {
			return core.FinalsStatus{}, err
		}
		return t.FinalsStatus(), nil
	})
}

func (s *TournamentService) Turn(ctx context.Context, tournamentID string, turn int) ([]*core.Match, error) {
	return withTelemetry(s, ctx, "Turn", tournamentID, func(ctx context.Context) ([]*core.Match, error) {
		t, err := s.load(ctx, nil, tournamentID)
		if err != nil {
			return nil, err
		}
		if turn < 1 || turn > t.CurrentTurn {
			return nil, ErrTurnNotFound
		}
		return t.TurnMatches(turn), nil
	})
}

// CompetitorMatches returns a competitor with its matches in turn order.
func (s *TournamentService) CompetitorMatches(
	ctx context.Context,
	tournamentID, competitorID string,
) (*core.Competitor, []*core.Match, error) {
	type result struct {
		competitor *core.Competitor
		matches    []*core.Match
	}
	r, err := withTelemetry(s, ctx, "CompetitorMatches", tournamentID, func(ctx context.Context) (result, error) {
		t, err := s.load(ctx, nil, tournamentID)
		if err != nil {
			return result{}, err
		}
		c, err := t.Competitor(competitorID)
		if err != nil {
			return result{}, err
		}
		return result{competitor: c, matches: t.MatchesOf(c)}, nil
	})
	return r.competitor, r.matches, err
}
