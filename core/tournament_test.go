package core

import (
	"context"
	"errors"
	"math/rand"
	"slices"
	"testing"
	"time"
)

func newTestTournament(t *testing.T, num int, settings Settings) *Tournament {
	if settings.Seed == 0 {
		settings.Seed = 1
	}
	tournament, err := NewTournament("test", settings)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range CompetitorSlice(num) {
		if err := tournament.AddCompetitor(c); err != nil {
			t.Fatal(err)
		}
	}
	return tournament
}

func nextTurn(t *testing.T, tournament *Tournament) []*Match {
	matches, err := tournament.MakeNextTurn(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return matches
}

// Enters a result for every unplayed match of the turn
func playTurn(t *testing.T, tournament *Tournament, matches []*Match, rng *rand.Rand) {
	for _, m := range matches {
		if m.IsBye() {
			continue
		}
		score1, score2 := rng.Intn(26), rng.Intn(26)
		if score1 == 0 && score2 == 0 {
			score1 = 25
		}
		_, err := tournament.RecordResult(m.Turn, m.Board, score1, score2)
		if err != nil {
			t.Fatal(err)
		}
	}
}

// Returns true when every active competitor plays exactly once in the matches
func playsOnce(competitors []*Competitor, matches []*Match) bool {
	for _, c := range competitors {
		if c.Retired {
			continue
		}
		n := 0
		for _, m := range matches {
			if m.Involves(c) {
				n += 1
			}
		}
		if n != 1 {
			return false
		}
	}
	return true
}

func TestSettingsValidation(t *testing.T) {
	_, err := NewTournament("t", Settings{Finals: 3})
	if err != ErrInvalidFinals {
		t.Fatal("three finals did not error")
	}

	_, err = NewTournament("t", Settings{Couplings: PairingStrategy(9)})
	if err != ErrUnknownPairingStrategy {
		t.Fatal("unknown pairing strategy did not error")
	}

	_, err = NewTournament("t", Settings{FinalKind: FinalKind(9)})
	if err != ErrUnknownFinalKind {
		t.Fatal("unknown final kind did not error")
	}

	_, err = NewTournament("t", Settings{DelayTopPairing: -1})
	if err != ErrInvalidDelay {
		t.Fatal("negative delay did not error")
	}

	kind, err := ParseFinalKind("BestOf3")
	if err != nil || kind != BestOfThreeFinal {
		t.Fatal("best of three finals were not parsed")
	}
}

func TestAddCompetitor(t *testing.T) {
	tournament := newTestTournament(t, 2, Settings{})

	err := tournament.AddCompetitor(NewCompetitor("c0"))
	if err != ErrDuplicateCompetitor {
		t.Fatal("duplicate competitor did not error")
	}

	c, err := tournament.Competitor("c1")
	if err != nil || c.ID != "c1" {
		t.Fatal("competitor was not found")
	}
	if _, err := tournament.Competitor("c9"); err != ErrCompetitorNotFound {
		t.Fatal("unknown competitor was found")
	}
}

// Four competitors play a random first turn and a second
// turn where the winners and the losers meet
func TestFourCompetitorTournament(t *testing.T) {
	tournament := newTestTournament(t, 4, Settings{Couplings: SerialPairing})

	first := nextTurn(t, tournament)
	if len(first) != 2 || tournament.CurrentTurn != 1 {
		t.Fatal("the first turn does not have two matches")
	}
	if !playsOnce(tournament.Competitors, first) {
		t.Fatal("the first turn does not include every competitor once")
	}
	if first[0].Board != 1 || first[1].Board != 2 || first[0].Turn != 1 {
		t.Fatal("the first turn is not numbered in draw order")
	}

	tournament.RecordResult(1, 1, 25, 10)
	tournament.RecordResult(1, 2, 25, 20)
	winner1, winner2 := first[0].Competitor1, first[1].Competitor1

	second := nextTurn(t, tournament)
	if len(second) != 2 || tournament.CurrentTurn != 2 {
		t.Fatal("the second turn does not have two matches")
	}
	if tournament.RankedTurn != 1 {
		t.Fatal("the ranking was not updated before pairing the second turn")
	}
	if winner1.Points != WinnerPoints || winner2.Points != WinnerPoints {
		t.Fatal("the winners do not have the winner points")
	}

	history := HistoryFromMatches(first)
	for _, m := range second {
		if history.HasPlayed(Against(m.Competitor1), m.Competitor2) {
			t.Fatalf("rematch in the second turn: %v", m)
		}
	}

	top := second[slices.IndexFunc(second, func(m *Match) bool { return m.Involves(winner1) })]
	if !top.OpponentOf(winner1).Is(winner2) {
		t.Fatal("the winners of the first turn were not paired")
	}

	boards := boardsOf(second)
	slices.Sort(boards)
	if !slices.Equal(boards, []int{1, 2}) {
		t.Fatal("the second turn does not use the boards 1 and 2")
	}
}

func TestOddCompetitorsPlayThePhantom(t *testing.T) {
	tournament := newTestTournament(t, 5, Settings{PhantomScore: 25})
	rng := rand.New(rand.NewSource(3))

	first := nextTurn(t, tournament)
	if len(first) != 3 {
		t.Fatal("the first turn does not have three matches")
	}
	bye1 := first[2]
	if !bye1.IsBye() || bye1.Board != 3 || bye1.Score1 != 25 {
		t.Fatal("the phantom match is not last with the phantom score")
	}

	playTurn(t, tournament, first, rng)
	second := nextTurn(t, tournament)

	bye2 := second[len(second)-1]
	if !bye2.IsBye() || bye2.Board != 3 {
		t.Fatal("the phantom match is not on the highest board")
	}
	if bye2.Competitor1 == bye1.Competitor1 {
		t.Fatal("the same competitor played the phantom twice")
	}
}

func TestNoRematches(t *testing.T) {
	cases := []struct {
		competitors, turns int
		couplings          PairingStrategy
	}{
		{8, 4, SerialPairing},
		{8, 4, DazedPairing},
		{9, 5, SerialPairing},
		{9, 5, DazedPairing},
	}

	for _, c := range cases {
		tournament := newTestTournament(t, c.competitors, Settings{Couplings: c.couplings})
		rng := rand.New(rand.NewSource(int64(c.competitors)))

		for range c.turns {
			matches := nextTurn(t, tournament)
			if !playsOnce(tournament.Competitors, matches) {
				t.Fatalf("%v: a turn does not include every competitor once", c.couplings)
			}
			playTurn(t, tournament, matches, rng)
		}

		history := NewHistory()
		for _, m := range tournament.Matches {
			a, b := Against(m.Competitor1), m.Competitor2
			if history.HasPlayed(a, b) {
				t.Fatalf("%v: rematch %v", c.couplings, m)
			}
			history.Record(a, b)
		}
	}
}

func TestFailedTurnLeavesTournamentUnchanged(t *testing.T) {
	tournament := newTestTournament(t, 2, Settings{})

	first := nextTurn(t, tournament)
	tournament.RecordResult(1, first[0].Board, 25, 3)
	modified := tournament.Modified

	_, err := tournament.MakeNextTurn(context.Background())
	if err != ErrNoCombinationFound {
		t.Fatalf("expected no combination, got %v", err)
	}
	if tournament.CurrentTurn != 1 || len(tournament.Matches) != 1 {
		t.Fatal("the failed turn changed the matches")
	}
	if tournament.RankedTurn != 0 || first[0].Competitor1.Points != 0 {
		t.Fatal("the failed turn changed the ranking")
	}
	if tournament.Modified != modified {
		t.Fatal("the failed turn touched the tournament")
	}
}

func TestCanceledTurn(t *testing.T) {
	tournament := newTestTournament(t, 6, Settings{})
	playTurn(t, tournament, nextTurn(t, tournament), rand.New(rand.NewSource(1)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tournament.MakeNextTurn(ctx)
	if !errors.Is(err, context.Canceled) || !errors.Is(err, ErrNoCombinationFound) {
		t.Fatalf("canceled turn returned %v", err)
	}
	if tournament.CurrentTurn != 1 {
		t.Fatal("the canceled turn was created")
	}
}

func TestTooFewCompetitors(t *testing.T) {
	tournament := newTestTournament(t, 1, Settings{})
	if _, err := tournament.MakeNextTurn(context.Background()); err != ErrTooFewCompetitors {
		t.Fatal("a single competitor was paired")
	}
}

func TestRetiredCompetitorsAreNotPaired(t *testing.T) {
	tournament := newTestTournament(t, 5, Settings{})
	playTurn(t, tournament, nextTurn(t, tournament), rand.New(rand.NewSource(1)))

	if err := tournament.Retire("c2"); err != nil {
		t.Fatal(err)
	}
	retired, _ := tournament.Competitor("c2")

	second := nextTurn(t, tournament)
	if len(second) != 2 {
		t.Fatal("four active competitors do not play two matches")
	}
	for _, m := range second {
		if m.IsBye() || m.Involves(retired) {
			t.Fatal("the retired competitor was paired")
		}
	}

	if err := tournament.Reenter("c2"); err != nil || retired.Retired {
		t.Fatal("the competitor did not reenter")
	}
}

func TestRecordResult(t *testing.T) {
	tournament := newTestTournament(t, 4, Settings{})
	rng := rand.New(rand.NewSource(1))

	playTurn(t, tournament, nextTurn(t, tournament), rng)
	nextTurn(t, tournament)
	if tournament.RankedTurn != 1 || !tournament.RankingIsStale() {
		t.Fatal("the ranking does not lag one turn behind")
	}

	if _, err := tournament.RecordResult(7, 1, 1, 0); err != ErrMatchNotFound {
		t.Fatal("recording an unknown match did not error")
	}

	// The second turn is not ranked yet
	if _, err := tournament.RecordResult(2, 1, 25, 0); err != nil {
		t.Fatal(err)
	}
	if tournament.RankedTurn != 1 {
		t.Fatal("a result of an unranked turn changed the ranked turn")
	}

	// Correcting a ranked turn invalidates the ranking
	if _, err := tournament.RecordResult(1, 1, 0, 25); err != nil {
		t.Fatal(err)
	}
	if tournament.RankedTurn != 0 || !tournament.RankingIsStale() {
		t.Fatal("correcting a ranked turn did not invalidate the ranking")
	}

	if err := tournament.UpdateRanking(); err != nil {
		t.Fatal(err)
	}
	if tournament.RankedTurn != 2 {
		t.Fatal("updating the ranking did not rank the current turn")
	}
}

func TestRatedFirstTurn(t *testing.T) {
	tournament := newTestTournament(t, 4, Settings{})
	tournament.Rates = rateMap{"c0": 1500, "c1": 1700, "c2": 1400, "c3": 1800}

	ranking := tournament.Ranking()
	if ranking[0].ID != "c3" || ranking[3].ID != "c2" {
		t.Fatal("the unranked tournament is not ordered by rate")
	}

	matches := nextTurn(t, tournament)
	if !matches[0].Involves(ranking[0]) || !matches[0].OpponentOf(ranking[0]).Is(ranking[1]) {
		t.Fatal("the two best rated competitors were not paired")
	}
}

func TestRandomFirstTurnFollowsSeed(t *testing.T) {
	firstTurn := func(seed int64) string {
		tournament := newTestTournament(t, 8, Settings{Seed: seed})
		pairings := ""
		for _, m := range nextTurn(t, tournament) {
			pairings += m.Competitor1.ID + "-" + m.Competitor2.String() + " "
		}
		return pairings
	}

	if firstTurn(7) != firstTurn(7) {
		t.Fatal("the same seed drew a different first turn")
	}

	distinct := map[string]bool{}
	for seed := range int64(20) {
		distinct[firstTurn(seed+1)] = true
	}
	if len(distinct) < 2 {
		t.Fatal("the first turn does not depend on the seed")
	}
}

func TestMatchesOf(t *testing.T) {
	tournament := newTestTournament(t, 3, Settings{})
	rng := rand.New(rand.NewSource(3))
	for range 2 {
		playTurn(t, tournament, nextTurn(t, tournament), rng)
	}

	c := tournament.Competitors[0]
	matches := tournament.MatchesOf(c)
	if len(matches) != 2 {
		t.Fatalf("expected one match per turn, got %d", len(matches))
	}
	for i, m := range matches {
		if m.Turn != i+1 || !m.Involves(c) {
			t.Fatalf("unexpected match %v", m)
		}
		if m.OpponentOf(c).Is(c) {
			t.Fatal("a competitor is its own opponent")
		}
	}
}

func TestReplay(t *testing.T) {
	tournament := newTestTournament(t, 5, Settings{Finals: 1, PhantomScore: 20})
	rng := rand.New(rand.NewSource(1))
	playTurn(t, tournament, nextTurn(t, tournament), rng)
	playTurn(t, tournament, nextTurn(t, tournament), rng)
	tournament.Retire("c1")

	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	replay := tournament.Replay("replay", date)

	if replay.ID != "replay" || !replay.Date.Equal(date) {
		t.Fatal("the replay has the wrong identity")
	}
	if replay.CurrentTurn != 0 || replay.RankedTurn != 0 || len(replay.Matches) != 0 {
		t.Fatal("the replay is not empty")
	}
	if replay.Settings != tournament.Settings {
		t.Fatal("the replay has different settings")
	}
	if len(replay.Competitors) != len(tournament.Competitors) {
		t.Fatal("the replay lost competitors")
	}
	for i, c := range replay.Competitors {
		original := tournament.Competitors[i]
		if c == original || c.ID != original.ID || c.Players != original.Players {
			t.Fatal("the replay does not keep the competitors in order")
		}
		if c.Points != 0 || c.Bucholz != 0 || c.NetScore != 0 || c.TotScore != 0 || c.Retired {
			t.Fatal("the replay kept the ranking of a competitor")
		}
	}

	nextTurn(t, replay)
	if len(tournament.Matches) == len(replay.Matches) {
		t.Fatal("the replay shares the matches")
	}
}

func TestPrizedTournamentIsClosed(t *testing.T) {
	tournament := newTestTournament(t, 4, Settings{Finals: 1})
	ctx := context.Background()
	playTurn(t, tournament, nextTurn(t, tournament), rand.New(rand.NewSource(1)))

	if err := tournament.AssignPrizes(AsIsPrizes); err != nil {
		t.Fatal(err)
	}

	if _, err := tournament.MakeNextTurn(ctx); err != ErrAlreadyPrized {
		t.Fatal("a turn was created after the prize-giving")
	}
	if _, err := tournament.MakeFinalTurn(ctx); err != ErrAlreadyPrized {
		t.Fatal("a final turn was created after the prize-giving")
	}
	if err := tournament.AssignPrizes(AsIsPrizes); err != ErrAlreadyPrized {
		t.Fatal("the prizes were assigned twice")
	}
	if _, err := tournament.RecordResult(1, 1, 3, 2); err != ErrAlreadyPrized {
		t.Fatal("a result was changed after the prize-giving")
	}
	if err := tournament.UpdateRanking(); err != ErrAlreadyPrized {
		t.Fatal("the ranking was changed after the prize-giving")
	}
	if err := tournament.AddCompetitor(NewCompetitor("late")); err != ErrAlreadyPrized {
		t.Fatal("a competitor was added after the prize-giving")
	}

	tournament.ResetPrizes()
	for _, c := range tournament.Competitors {
		if c.Prize != 0 {
			t.Fatal("the prizes were not reset")
		}
	}
	if _, err := tournament.MakeNextTurn(ctx); err != nil {
		t.Fatalf("no turn after resetting the prizes: %v", err)
	}
}
