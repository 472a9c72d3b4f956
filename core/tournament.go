package core

import (
	"errors"
	"log/slog"
	"math/rand"
	"slices"
	"strings"
	"time"
)

var (
	ErrAlreadyPrized       = errors.New("cannot modify the tournament after the prize-giving")
	ErrFinalsNotConfigured = errors.New("the tournament has no finals")
	ErrTooFewCompetitors   = errors.New("not enough competitors")
	ErrInvalidFinals       = errors.New("the number of finals must be 0, 1 or 2")
	ErrInvalidDelay        = errors.New("the top pairing delay is negative")
	ErrUnknownFinalKind    = errors.New("unknown kind of finals")
	ErrDuplicateCompetitor = errors.New("competitor already in the tournament")
	ErrCompetitorNotFound  = errors.New("competitor not found")
)

// The format of each final match
type FinalKind int

const (
	// A single match decides each final
	SimpleFinal FinalKind = iota
	// Each final is a best of three matches
	BestOfThreeFinal
)

var finalKindNames = map[FinalKind]string{
	SimpleFinal:      "simple",
	BestOfThreeFinal: "bestof3",
}

func ParseFinalKind(name string) (FinalKind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range finalKindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, ErrUnknownFinalKind
}

func (k FinalKind) String() string {
	name, ok := finalKindNames[k]
	if !ok {
		return "unknown"
	}
	return name
}

// The configuration of a tournament
type Settings struct {
	// Number of final matches (0, 1 or 2).
	// One final is played between the first two, a second
	// one between the third and fourth of the ranking.
	Finals    int
	FinalKind FinalKind

	Couplings PairingStrategy

	// Pairs and ranks by the rating of the players when the
	// tournament is connected to a RateSource. Unrated
	// tournaments draw the first turn at random.
	Rated bool

	// The number of early turns during which the rating is
	// used ahead of the bucholz to pair competitors.
	// Only applies when a RateSource is set.
	DelayTopPairing int

	// The score awarded to a competitor that plays the phantom
	PhantomScore int

	// Seed of the random pairing of the first turn.
	// Zero seeds by the clock.
	Seed int64
}

func (s Settings) Validate() error {
	if s.Finals < 0 || s.Finals > 2 {
		return ErrInvalidFinals
	}
	if _, ok := finalKindNames[s.FinalKind]; !ok {
		return ErrUnknownFinalKind
	}
	if _, ok := pairingStrategyNames[s.Couplings]; !ok {
		return ErrUnknownPairingStrategy
	}
	if s.DelayTopPairing < 0 {
		return ErrInvalidDelay
	}
	return nil
}

// A Swiss Tournament is a sequence of turns where each turn
// pairs competitors with similar standings who did not meet yet.
//
// The tournament progresses from no turns over any number of
// ranked turns to the optional finals and ends with the
// prize-giving.
//
// A Tournament is not safe for concurrent mutation. Callers must
// serialize MakeNextTurn, MakeFinalTurn, AssignPrizes, ResetPrizes
// and the other mutating methods.
type Tournament struct {
	ID          string
	Description string
	Date        time.Time

	Settings

	// The number of the latest turn
	CurrentTurn int
	// The number of the latest turn that is reflected
	// in the ranking fields of the competitors
	RankedTurn int
	// True after the prize-giving
	Prized bool
	// True when the finals are in progress
	FinalTurns bool
	// Stamped on every change
	Modified time.Time

	Competitors []*Competitor
	// The matches in order of turn, then board
	Matches []*Match

	// The optional rating of the competitors
	Rates RateSource

	Logger *slog.Logger

	// Returns the current time, defaults to time.Now
	Now func() time.Time

	rng *rand.Rand
}

func NewTournament(id string, settings Settings) (*Tournament, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	tournament := &Tournament{
		ID:       id,
		Settings: settings,
	}
	tournament.touch()

	return tournament, nil
}

func (t *Tournament) logger() *slog.Logger {
	if t.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return t.Logger
}

func (t *Tournament) now() time.Time {
	if t.Now == nil {
		return time.Now()
	}
	return t.Now()
}

func (t *Tournament) touch() {
	t.Modified = t.now()
}

func (t *Tournament) random() *rand.Rand {
	if t.rng == nil {
		t.rng = newRNG(t.Seed)
	}
	return t.rng
}

func (t *Tournament) AddCompetitor(c *Competitor) error {
	if t.Prized {
		return ErrAlreadyPrized
	}
	if _, err := t.Competitor(c.ID); err == nil {
		return ErrDuplicateCompetitor
	}

	t.Competitors = append(t.Competitors, c)
	t.touch()
	return nil
}

func (t *Tournament) Competitor(id string) (*Competitor, error) {
	i := slices.IndexFunc(t.Competitors, func(c *Competitor) bool { return c.ID == id })
	if i < 0 {
		return nil, ErrCompetitorNotFound
	}
	return t.Competitors[i], nil
}

// Excludes the competitor from the pairing of future turns
func (t *Tournament) Retire(id string) error {
	return t.setRetired(id, true)
}

// Reverts the retirement of the competitor
func (t *Tournament) Reenter(id string) error {
	return t.setRetired(id, false)
}

func (t *Tournament) setRetired(id string, retired bool) error {
	if t.Prized {
		return ErrAlreadyPrized
	}
	c, err := t.Competitor(id)
	if err != nil {
		return err
	}
	c.Retired = retired
	t.touch()
	return nil
}

func (t *Tournament) activeCompetitors() []*Competitor {
	active := make([]*Competitor, 0, len(t.Competitors))
	for _, c := range t.Competitors {
		if !c.Retired {
			active = append(active, c)
		}
	}
	return active
}

func (t *Tournament) FindMatch(turn, board int) (*Match, error) {
	i := slices.IndexFunc(t.Matches, func(m *Match) bool { return m.Turn == turn && m.Board == board })
	if i < 0 {
		return nil, ErrMatchNotFound
	}
	return t.Matches[i], nil
}

// Returns the matches of the given turn
func (t *Tournament) TurnMatches(turn int) []*Match {
	matches := make([]*Match, 0, len(t.Competitors)/2+1)
	for _, m := range t.Matches {
		if m.Turn == turn {
			matches = append(matches, m)
		}
	}
	return matches
}

// Returns the matches of a competitor in turn order
func (t *Tournament) MatchesOf(c *Competitor) []*Match {
	var matches []*Match
	for _, m := range t.Matches {
		if m.Involves(c) {
			matches = append(matches, m)
		}
	}
	return matches
}

// Enters the result of a match.
//
// Changing a result of an already ranked turn marks the ranking
// as stale so it is recomputed before the next turn.
func (t *Tournament) RecordResult(turn, board, score1, score2 int) (*Match, error) {
	if t.Prized {
		return nil, ErrAlreadyPrized
	}
	m, err := t.FindMatch(turn, board)
	if err != nil {
		return nil, err
	}
	if err := m.SetScore(score1, score2); err != nil {
		return nil, err
	}

	if !m.Final && turn <= t.RankedTurn {
		t.RankedTurn = turn - 1
	}
	t.touch()

	return m, nil
}

// Returns true when the ranking fields of the competitors
// do not reflect the latest turn
func (t *Tournament) RankingIsStale() bool {
	return t.CurrentTurn != t.RankedTurn
}

// Computes the standings of all competitors.
// See ComputeRanking for the meaning of upToTurn.
func (t *Tournament) Standings(upToTurn int) []Standing {
	return ComputeRanking(t.Competitors, t.Matches, upToTurn, t.Rates)
}

// Stores the current standings in the ranking fields
// of the competitors
func (t *Tournament) UpdateRanking() error {
	if t.Prized {
		return ErrAlreadyPrized
	}
	t.commitStandings(t.Standings(0))
	t.touch()
	return nil
}

func (t *Tournament) commitStandings(standings []Standing) {
	applyStandings(standings)
	t.RankedTurn = t.CurrentTurn

	t.logger().Debug("Ranking updated",
		"tournament", t.ID,
		"turn", t.RankedTurn,
	)
}

// Creates a new tournament with the same settings and competitors.
//
// The competitors keep their identities, players and order while
// their ranking fields are reset. No matches are copied.
func (t *Tournament) Replay(id string, date time.Time) *Tournament {
	replay := &Tournament{
		ID:          id,
		Description: t.Description,
		Date:        date,
		Settings:    t.Settings,
		Rates:       t.Rates,
		Logger:      t.Logger,
		Now:         t.Now,
		Competitors: make([]*Competitor, 0, len(t.Competitors)),
	}

	for _, c := range t.Competitors {
		replay.Competitors = append(replay.Competitors, &Competitor{
			ID:      c.ID,
			Players: c.Players,
		})
	}
	replay.touch()

	t.logger().Info("Tournament replayed",
		"tournament", t.ID,
		"replay", id,
		"competitors", len(replay.Competitors),
	)

	return replay
}
