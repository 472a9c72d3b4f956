package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/ezBadminton/goswiss/core"
	"github.com/ezBadminton/goswiss/internal/events"
)

func (s *TournamentService) Create(ctx context.Context, draft Draft) (*core.Tournament, error) {
	id := uuid.NewString()
	return withTelemetry(s, ctx, "Create", id, func(ctx context.Context) (*core.Tournament, error) {
		settings := s.options.Defaults
		if draft.Settings != nil {
			settings = *draft.Settings
		}
		prizes := s.options.Prizes
		if draft.Prizes != nil {
			prizes = *draft.Prizes
		}
		if _, err := prizes.Prizes(0); err != nil {
			return nil, err
		}

		t, err := core.NewTournament(id, settings)
		if err != nil {
			return nil, err
		}
		t.Description = draft.Description
		t.Date = draft.Date
		s.attach(t)
		t.Modified = s.now()

		_, err = runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (struct{}, error) {
			return struct{}{}, s.repo.CreateTournament(ctx, db, t, prizes)
		})
		if err != nil {
			return nil, err
		}

		s.publish(ctx, events.TopicTournamentCreated, events.TournamentPayload{
			TournamentID: t.ID,
			Description:  t.Description,
		})
		return t, nil
	})
}

func (s *TournamentService) AddCompetitor(ctx context.Context, tournamentID string, players ...core.Player) (*core.Competitor, error) {
	return withTelemetry(s, ctx, "AddCompetitor", tournamentID, func(ctx context.Context) (*core.Competitor, error) {
		switch {
		case len(players) == 0:
			return nil, ErrNoPlayers
		case len(players) > core.MaxPlayers:
			return nil, ErrTooManyPlayers
		}

		members := make([]*core.Player, 0, len(players))
		for _, p := range players {
			if p.ID == "" {
				p.ID = uuid.NewString()
			}
			members = append(members, &p)
		}
		c := core.NewCompetitor(uuid.NewString(), members...)

		defer s.lock(tournamentID)()
		_, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (struct{}, error) {
			t, err := s.load(ctx, db, tournamentID)
			if err != nil {
				return struct{}{}, err
			}
			if err := t.AddCompetitor(c); err != nil {
				return struct{}{}, err
			}
			if err := s.repo.AddCompetitor(ctx, db, t.ID, c, len(t.Competitors)-1); err != nil {
				return struct{}{}, err
			}
			return struct{}{}, s.repo.SaveTournamentState(ctx, db, t)
		})
		if err != nil {
			return nil, err
		}

		s.publish(ctx, events.TopicCompetitorChanged, events.CompetitorPayload{
			TournamentID: tournamentID,
			CompetitorID: c.ID,
			Change:       events.CompetitorAdded,
		})
		return c, nil
	})
}

func (s *TournamentService) RetireCompetitor(ctx context.Context, tournamentID, competitorID string) error {
	_, err := withTelemetry(s, ctx, "RetireCompetitor", tournamentID, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.setRetired(ctx, tournamentID, competitorID, true)
	})
	return err
}

func (s *TournamentService) ReenterCompetitor(ctx context.Context, tournamentID, competitorID string) error {
	_, err := withTelemetry(s, ctx, "ReenterCompetitor", tournamentID, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.setRetired(ctx, tournamentID, competitorID, false)
	})
	return err
}

func (s *TournamentService) setRetired(ctx context.Context, tournamentID, competitorID string, retired bool) error {
	defer s.lock(tournamentID)()
	_, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (struct{}, error) {
		t, err := s.load(ctx, db, tournamentID)
		if err != nil {
			return struct{}{}, err
		}

		if retired {
			err = t.Retire(competitorID)
		} else {
			err = t.Reenter(competitorID)
		}
		if err != nil {
			return struct{}{}, err
		}

		c, _ := t.Competitor(competitorID)
		if err := s.repo.UpdateCompetitorRankingFields(ctx, db, t.ID, []*core.Competitor{c}); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, s.repo.SaveTournamentState(ctx, db, t)
	})
	if err != nil {
		return err
	}

	change := events.CompetitorReentered
	if retired {
		change = events.CompetitorRetired
	}
	s.publish(ctx, events.TopicCompetitorChanged, events.CompetitorPayload{
		TournamentID: tournamentID,
		CompetitorID: competitorID,
		Change:       change,
	})
	return nil
}

func (s *TournamentService) Replay(ctx context.Context, tournamentID string, date time.Time) (*core.Tournament, error) {
	return withTelemetry(s, ctx, "Replay", tournamentID, func(ctx context.Context) (*core.Tournament, error) {
		replay, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (*core.Tournament, error) {
			t, err := s.load(ctx, db, tournamentID)
			if err != nil {
				return nil, err
			}
			prizes, err := s.repo.PrizeStrategy(ctx, db, tournamentID)
			if err != nil {
				return nil, err
			}

			replay := t.Replay(uuid.NewString(), date)
			if err := s.repo.CreateTournament(ctx, db, replay, prizes); err != nil {
				return nil, err
			}
			return replay, nil
		})
		if err != nil {
			return nil, err
		}

		s.publish(ctx, events.TopicTournamentReplayed, events.ReplayedPayload{
			TournamentID: tournamentID,
			ReplayID:     replay.ID,
		})
		return replay, nil
	})
}
