package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/ezBadminton/goswiss/core"
)

// Impl is the PostgreSQL implementation of Repository.
type Impl struct {
	db bun.IDB
}

func NewRepository(db bun.IDB) *Impl {
	return &Impl{db: db}
}

var _ Repository = (*Impl)(nil)

func (r *Impl) CreateTournament(ctx context.Context, db bun.IDB, t *core.Tournament, prizes core.PrizeStrategy) error {
	if db == nil {
		db = r.db
	}

	_, err := db.NewInsert().Model(TournamentFromCore(t, prizes)).Exec(ctx)
	if err != nil {
		return fmt.Errorf("store.CreateTournament: %w", err)
	}

	if len(t.Competitors) == 0 {
		return nil
	}
	competitors := make([]*Competitor, 0, len(t.Competitors))
	for i, c := range t.Competitors {
		competitors = append(competitors, CompetitorFromCore(t.ID, c, i))
	}
	_, err = db.NewInsert().Model(&competitors).Exec(ctx)
	if err != nil {
		return fmt.Errorf("store.CreateTournament: %w", err)
	}
	return nil
}

func (r *Impl) LoadTournament(ctx context.Context, db bun.IDB, tournamentID string) (*core.Tournament, error) {
	if db == nil {
		db = r.db
	}

	row, err := r.tournamentRow(ctx, db, tournamentID)
	if err != nil {
		return nil, err
	}
	competitors, err := r.LoadCompetitors(ctx, db, tournamentID)
	if err != nil {
		return nil, err
	}
	matches, err := r.LoadMatches(ctx, db, tournamentID)
	if err != nil {
		return nil, err
	}

	tournament, err := Assemble(row, competitors, matches)
	if err != nil {
		return nil, fmt.Errorf("store.LoadTournament: %w", err)
	}
	return tournament, nil
}

func (r *Impl) tournamentRow(ctx context.Context, db bun.IDB, tournamentID string) (*Tournament, error) {
	row := new(Tournament)
	err := db.NewSelect().
		Model(row).
		Where("id = ?", tournamentID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store.LoadTournament: %w", err)
	}
	return row, nil
}

func (r *Impl) LoadCompetitors(ctx context.Context, db bun.IDB, tournamentID string) ([]Competitor, error) {
	if db == nil {
		db = r.db
	}
	var competitors []Competitor
	err := db.NewSelect().
		Model(&competitors).
		Where("tournament_id = ?", tournamentID).
		Order("position ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.LoadCompetitors: %w", err)
	}
	return competitors, nil
}

func (r *Impl) LoadMatches(ctx context.Context, db bun.IDB, tournamentID string) ([]Match, error) {
	if db == nil {
		db = r.db
	}
	var matches []Match
	err := db.NewSelect().
		Model(&matches).
		Where("tournament_id = ?", tournamentID).
		Order("turn ASC", "board ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.LoadMatches: %w", err)
	}
	return matches, nil
}

func (r *Impl) AddCompetitor(ctx context.Context, db bun.IDB, tournamentID string, c *core.Competitor, position int) error {
	if db == nil {
		db = r.db
	}
	_, err := db.NewInsert().Model(CompetitorFromCore(tournamentID, c, position)).Exec(ctx)
	if err != nil {
		return fmt.Errorf("store.AddCompetitor: %w", err)
	}
	return nil
}

func (r *Impl) AppendMatches(ctx context.Context, db bun.IDB, tournamentID string, matches []*core.Match) error {
	if len(matches) == 0 {
		return nil
	}
	if db == nil {
		db = r.db
	}
	rows := make([]*Match, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, MatchFromCore(tournamentID, m))
	}
	_, err := db.NewInsert().Model(&rows).Exec(ctx)
	if err != nil {
		return fmt.Errorf("store.AppendMatches: %w", err)
	}
	return nil
}

func (r *Impl) UpdateMatchScore(ctx context.Context, db bun.IDB, tournamentID string, m *core.Match) error {
	if db == nil {
		db = r.db
	}
	res, err := db.NewUpdate().
		Model((*Match)(nil)).
		Set("score1 = ?", m.Score1).
		Set("score2 = ?", m.Score2).
		Where("tournament_id = ?", tournamentID).
		Where("turn = ?", m.Turn).
		Where("board = ?", m.Board).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("store.UpdateMatchScore: %w", err)
	}
	return checkAffected(res, "store.UpdateMatchScore")
}

func (r *Impl) UpdateCompetitorRankingFields(ctx context.Context, db bun.IDB, tournamentID string, competitors []*core.Competitor) error {
	if len(competitors) == 0 {
		return nil
	}
	if db == nil {
		db = r.db
	}
	rows := make([]*Competitor, 0, len(competitors))
	for i, c := range competitors {
		rows = append(rows, CompetitorFromCore(tournamentID, c, i))
	}
	_, err := db.NewUpdate().
		Model(&rows).
		Column("points", "bucholz", "net_score", "tot_score", "prize", "retired").
		Bulk().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("store.UpdateCompetitorRankingFields: %w", err)
	}
	return nil
}

func (r *Impl) SaveTournamentState(ctx context.Context, db bun.IDB, t *core.Tournament) error {
	if db == nil {
		db = r.db
	}
	res, err := db.NewUpdate().
		Model((*Tournament)(nil)).
		Set("current_turn = ?", t.CurrentTurn).
		Set("ranked_turn = ?", t.RankedTurn).
		Set("prized = ?", t.Prized).
		Set("final_turns = ?", t.FinalTurns).
		Set("modified = ?", t.Modified).
		Where("id = ?", t.ID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("store.SaveTournamentState: %w", err)
	}
	return checkAffected(res, "store.SaveTournamentState")
}

func (r *Impl) PrizeStrategy(ctx context.Context, db bun.IDB, tournamentID string) (core.PrizeStrategy, error) {
	if db == nil {
		db = r.db
	}
	row, err := r.tournamentRow(ctx, db, tournamentID)
	if err != nil {
		return 0, err
	}
	strategy, err := core.ParsePrizeStrategy(row.PrizeStrategy)
	if err != nil {
		return 0, fmt.Errorf("store.PrizeStrategy: %w", err)
	}
	return strategy, nil
}

func (r *Impl) PrizedTournaments(ctx context.Context, db bun.IDB, asOf time.Time) ([]*core.Tournament, error) {
	if db == nil {
		db = r.db
	}
	var ids []string
	err := db.NewSelect().
		Model((*Tournament)(nil)).
		Column("id").
		Where("prized = ?", true).
		Where("date <= ?", asOf).
		Order("date ASC", "id ASC").
		Scan(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("store.PrizedTournaments: %w", err)
	}

	tournaments := make([]*core.Tournament, 0, len(ids))
	for _, id := range ids {
		t, err := r.LoadTournament(ctx, db, id)
		if err != nil {
			return nil, err
		}
		tournaments = append(tournaments, t)
	}
	return tournaments, nil
}

func checkAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNoRowsAffected)
	}
	return nil
}
