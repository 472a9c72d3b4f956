// Package rating keeps OpenSkill ratings of the players and derives
// the rate of competitors from them.
package rating

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	openskill "github.com/intinig/go-openskill/rating"
	"github.com/intinig/go-openskill/types"

	"github.com/ezBadminton/goswiss/core"
)

// Rates are reported as the ordinal scaled to an integer
const rateScale = 100

// HistorySource returns the prized tournaments dated up to asOf,
// oldest first.
type HistorySource func(ctx context.Context, asOf time.Time) ([]*core.Tournament, error)

// Ratings holds the rating of every player that played a rated match.
// It is safe for concurrent use.
type Ratings struct {
	mu      sync.RWMutex
	players map[string]types.Rating
	logger  *slog.Logger
}

var _ core.RateSource = (*Ratings)(nil)

func New(logger *slog.Logger) *Ratings {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Ratings{
		players: make(map[string]types.Rating),
		logger:  logger,
	}
}

// Ordinal is the conservative skill estimate of a rating.
func Ordinal(r types.Rating) float64 {
	return r.Mu - 3*r.Sigma
}

// Rate returns the mean ordinal of the rated players of the competitor.
func (r *Ratings) Rate(c *core.Competitor) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total, rated := 0.0, 0
	for _, p := range c.Members() {
		pr, ok := r.players[p.ID]
		if !ok {
			continue
		}
		total += Ordinal(pr)
		rated += 1
	}
	if rated == 0 {
		return 0, false
	}
	return int(math.Round(total / float64(rated) * rateScale)), true
}

// Player returns the rating of a player.
func (r *Ratings) Player(id string) (types.Rating, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pr, ok := r.players[id]
	return pr, ok
}

func (r *Ratings) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}

// Update rates the outcome of a match. Unplayed matches, draws and
// matches against the phantom do not change any rating.
func (r *Ratings) Update(m *core.Match) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return rateMatch(r.players, m)
}

// Recompute rebuilds all ratings by replaying the matches of the
// prized tournaments up to asOf in order.
//
// The ratings are replaced at once when the replay is complete.
// On error the previous ratings are kept.
func (r *Ratings) Recompute(ctx context.Context, source HistorySource, asOf time.Time) error {
	tournaments, err := source(ctx, asOf)
	if err != nil {
		return fmt.Errorf("rating.Recompute: %w", err)
	}

	players := make(map[string]types.Rating)
	rated := 0
	for _, t := range tournaments {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("rating.Recompute: %w", err)
		}
		for _, m := range t.Matches {
			if rateMatch(players, m) {
				rated += 1
			}
		}
	}

	r.mu.Lock()
	r.players = players
	r.mu.Unlock()

	r.logger.InfoContext(ctx, "Ratings recomputed",
		"as_of", asOf,
		"tournaments", len(tournaments),
		"matches", rated,
		"players", len(players),
	)
	return nil
}

func rateMatch(players map[string]types.Rating, m *core.Match) bool {
	if m.IsBye() || !m.IsPlayed() || m.IsDraw() {
		return false
	}
	winner, loser, _ := m.Results()

	winners := teamOf(players, winner.Competitor())
	losers := teamOf(players, loser.Competitor())
	if len(winners) == 0 || len(losers) == 0 {
		return false
	}

	teams := openskill.Rate([]types.Team{winners.ratings(), losers.ratings()}, nil)
	winners.store(players, teams[0])
	losers.store(players, teams[1])
	return true
}

type member struct {
	id     string
	rating types.Rating
}

type team []member

// Collects the identified players of a competitor with their
// current or initial rating.
func teamOf(players map[string]types.Rating, c *core.Competitor) team {
	if c == nil {
		return nil
	}
	members := make(team, 0, core.MaxPlayers)
	for _, p := range c.Members() {
		if p.ID == "" {
			continue
		}
		pr, ok := players[p.ID]
		if !ok {
			pr = openskill.New()
		}
		members = append(members, member{id: p.ID, rating: pr})
	}
	return members
}

func (t team) ratings() types.Team {
	ratings := make(types.Team, 0, len(t))
	for _, m := range t {
		ratings = append(ratings, m.rating)
	}
	return ratings
}

func (t team) store(players map[string]types.Rating, rated types.Team) {
	for i, m := range t {
		players[m.id] = rated[i]
	}
}
