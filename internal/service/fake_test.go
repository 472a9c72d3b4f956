package service

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/uptrace/bun"

	"github.com/ezBadminton/goswiss/core"
	"github.com/ezBadminton/goswiss/internal/store"
)

// ------------------------
// Fake Tournament Repo
// ------------------------

// FakeTournamentRepository keeps the stored rows in memory.
// The ...Func fields replace the behavior of single methods.
type FakeTournamentRepository struct {
	mu    sync.Mutex
	trace []string

	tournaments map[string]*store.Tournament
	competitors map[string][]store.Competitor
	matches     map[string][]store.Match

	CreateTournamentFunc    func(ctx context.Context, db bun.IDB, t *core.Tournament, prizes core.PrizeStrategy) error
	AppendMatchesFunc       func(ctx context.Context, db bun.IDB, tournamentID string, matches []*core.Match) error
	SaveTournamentStateFunc func(ctx context.Context, db bun.IDB, t *core.Tournament) error
	PrizedTournamentsFunc   func(ctx context.Context, db bun.IDB, asOf time.Time) ([]*core.Tournament, error)
}

var _ store.Repository = (*FakeTournamentRepository)(nil)

func NewFakeTournamentRepository() *FakeTournamentRepository {
	return &FakeTournamentRepository{
		trace:       []string{},
		tournaments: make(map[string]*store.Tournament),
		competitors: make(map[string][]store.Competitor),
		matches:     make(map[string][]store.Match),
	}
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeTournamentRepository) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeTournamentRepository) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

func (f *FakeTournamentRepository) CreateTournament(ctx context.Context, db bun.IDB, t *core.Tournament, prizes core.PrizeStrategy) error {
	f.record("CreateTournament")
	if f.CreateTournamentFunc != nil {
		return f.CreateTournamentFunc(ctx, db, t, prizes)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.tournaments[t.ID] = store.TournamentFromCore(t, prizes)
	competitors := make([]store.Competitor, 0, len(t.Competitors))
	for i, c := range t.Competitors {
		competitors = append(competitors, *store.CompetitorFromCore(t.ID, c, i))
	}
	f.competitors[t.ID] = competitors
	return nil
}

func (f *FakeTournamentRepository) LoadTournament(ctx context.Context, db bun.IDB, tournamentID string) (*core.Tournament, error) {
	f.record("LoadTournament")
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.assemble(tournamentID)
}

func (f *FakeTournamentRepository) assemble(tournamentID string) (*core.Tournament, error) {
	row, ok := f.tournaments[tournamentID]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *row
	return store.Assemble(&copied, slices.Clone(f.competitors[tournamentID]), slices.Clone(f.matches[tournamentID]))
}

func (f *FakeTournamentRepository) LoadCompetitors(ctx context.Context, db bun.IDB, tournamentID string) ([]store.Competitor, error) {
	f.record("LoadCompetitors")
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.competitors[tournamentID]), nil
}

func (f *FakeTournamentRepository) LoadMatches(ctx context.Context, db bun.IDB, tournamentID string) ([]store.Match, error) {
	f.record("LoadMatches")
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.matches[tournamentID]), nil
}

func (f *FakeTournamentRepository) AddCompetitor(ctx context.Context, db bun.IDB, tournamentID string, c *core.Competitor, position int) error {
	f.record("AddCompetitor")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.competitors[tournamentID] = append(f.competitors[tournamentID], *store.CompetitorFromCore(tournamentID, c, position))
	return nil
}

func (f *FakeTournamentRepository) AppendMatches(ctx context.Context, db bun.IDB, tournamentID string, matches []*core.Match) error {
	f.record("AppendMatches")
	if f.AppendMatchesFunc != nil {
		return f.AppendMatchesFunc(ctx, db, tournamentID, matches)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range matches {
		f.matches[tournamentID] = append(f.matches[tournamentID], *store.MatchFromCore(tournamentID, m))
	}
	sort.SliceStable(f.matches[tournamentID], func(i, j int) bool {
		a, b := f.matches[tournamentID][i], f.matches[tournamentID][j]
		if a.Turn != b.Turn {
			return a.Turn < b.Turn
		}
		return a.Board < b.Board
	})
	return nil
}

func (f *FakeTournamentRepository) UpdateMatchScore(ctx context.Context, db bun.IDB, tournamentID string, m *core.Match) error {
	f.record("UpdateMatchScore")
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, stored := range f.matches[tournamentID] {
		if stored.Turn == m.Turn && stored.Board == m.Board {
			f.matches[tournamentID][i].Score1 = m.Score1
			f.matches[tournamentID][i].Score2 = m.Score2
			return nil
		}
	}
	return store.ErrNoRowsAffected
}

func (f *FakeTournamentRepository) UpdateCompetitorRankingFields(ctx context.Context, db bun.IDB, tournamentID string, competitors []*core.Competitor) error {
	f.record("UpdateCompetitorRankingFields")
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := f.competitors[tournamentID]
	for _, c := range competitors {
		for i := range stored {
			if stored[i].CompetitorID != c.ID {
				continue
			}
			stored[i].Points = c.Points
			stored[i].Bucholz = c.Bucholz
			stored[i].NetScore = c.NetScore
			stored[i].TotScore = c.TotScore
			stored[i].Prize = c.Prize
			stored[i].Retired = c.Retired
		}
	}
	return nil
}

func (f *FakeTournamentRepository) SaveTournamentState(ctx context.Context, db bun.IDB, t *core.Tournament) error {
	f.record("SaveTournamentState")
	if f.SaveTournamentStateFunc != nil {
		return f.SaveTournamentStateFunc(ctx, db, t)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.tournaments[t.ID]
	if !ok {
		return store.ErrNoRowsAffected
	}
	row.CurrentTurn = t.CurrentTurn
	row.RankedTurn = t.RankedTurn
	row.Prized = t.Prized
	row.FinalTurns = t.FinalTurns
	row.Modified = t.Modified
	return nil
}

func (f *FakeTournamentRepository) PrizeStrategy(ctx context.Context, db bun.IDB, tournamentID string) (core.PrizeStrategy, error) {
	f.record("PrizeStrategy")
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.tournaments[tournamentID]
	if !ok {
		return 0, store.ErrNotFound
	}
	return core.ParsePrizeStrategy(row.PrizeStrategy)
}

func (f *FakeTournamentRepository) PrizedTournaments(ctx context.Context, db bun.IDB, asOf time.Time) ([]*core.Tournament, error) {
	f.record("PrizedTournaments")
	if f.PrizedTournamentsFunc != nil {
		return f.PrizedTournamentsFunc(ctx, db, asOf)
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	rows := make([]*store.Tournament, 0, len(f.tournaments))
	for _, row := range f.tournaments {
		if row.Prized && !row.Date.After(asOf) {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		return rows[i].ID < rows[j].ID
	})

	tournaments := make([]*core.Tournament, 0, len(rows))
	for _, row := range rows {
		t, err := f.assemble(row.ID)
		if err != nil {
			return nil, err
		}
		tournaments = append(tournaments, t)
	}
	return tournaments, nil
}
