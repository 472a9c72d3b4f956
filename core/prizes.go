package core

import (
	"errors"
	"math"
	"strings"
)

var (
	ErrUnknownPrizeStrategy = errors.New("unknown prize strategy")
)

// The way prizes are derived from the final ranking
type PrizeStrategy int

const (
	// N, N-1, ..., 1 for N competitors
	AsIsPrizes PrizeStrategy = iota
	// The values of FixedPrizeTable, then 0
	FixedPrizes
	// The values of Fixed40PrizeTable, then 0
	Fixed40Prizes
	// 1000 decremented by 1000/N for each rank
	MillesimalPrizes
	// 100 down to 1 in equal steps, rounded to two decimals
	CentesimalPrizes
)

var prizeStrategyNames = map[PrizeStrategy]string{
	AsIsPrizes:       "asis",
	FixedPrizes:      "fixed",
	Fixed40Prizes:    "fixed40",
	MillesimalPrizes: "millesimal",
	CentesimalPrizes: "centesimal",
}

var FixedPrizeTable = []float64{18, 16, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1}

var Fixed40PrizeTable = []float64{
	50, 45, 42, 40, 38, 36, 35, 34, 33, 32,
	31, 30, 29, 28, 27, 26, 25, 24, 23, 22,
	21, 20, 19, 18, 17, 16, 15, 14, 13, 12,
	11, 10, 9, 8, 7, 6, 5, 4, 3, 2,
}

// Returns the prizes of n ranked competitors, best first
type prizeFunc func(n int) []float64

var prizeFuncs = map[PrizeStrategy]prizeFunc{
	AsIsPrizes:       asIsPrizes,
	FixedPrizes:      tablePrizes(FixedPrizeTable),
	Fixed40Prizes:    tablePrizes(Fixed40PrizeTable),
	MillesimalPrizes: millesimalPrizes,
	CentesimalPrizes: centesimalPrizes,
}

func ParsePrizeStrategy(name string) (PrizeStrategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for s, n := range prizeStrategyNames {
		if n == name {
			return s, nil
		}
	}
	return 0, ErrUnknownPrizeStrategy
}

func (s PrizeStrategy) String() string {
	name, ok := prizeStrategyNames[s]
	if !ok {
		return "unknown"
	}
	return name
}

// Returns the prizes for n ranked competitors, best first
func (s PrizeStrategy) Prizes(n int) ([]float64, error) {
	f, ok := prizeFuncs[s]
	if !ok {
		return nil, ErrUnknownPrizeStrategy
	}
	return f(n), nil
}

func asIsPrizes(n int) []float64 {
	prizes := make([]float64, n)
	for i := range prizes {
		prizes[i] = float64(n - i)
	}
	return prizes
}

func tablePrizes(table []float64) prizeFunc {
	return func(n int) []float64 {
		prizes := make([]float64, n)
		copy(prizes, table)
		return prizes
	}
}

func millesimalPrizes(n int) []float64 {
	prizes := make([]float64, n)
	if n == 0 {
		return prizes
	}
	step := 1000 / n
	for i := range prizes {
		prizes[i] = float64(1000 - i*step)
	}
	return prizes
}

func centesimalPrizes(n int) []float64 {
	prizes := make([]float64, n)
	if n == 0 {
		return prizes
	}
	if n == 1 {
		prizes[0] = 100
		return prizes
	}
	step := 99.0 / float64(n-1)
	for i := range prizes {
		prizes[i] = math.Round((100-float64(i)*step)*100) / 100
	}
	return prizes
}

// Assigns the prizes along the ranking and closes the tournament.
//
// The ranking is brought up to date first. Once prized the
// tournament can not be changed until ResetPrizes is called.
func (t *Tournament) AssignPrizes(strategy PrizeStrategy) error {
	if t.Prized {
		return ErrAlreadyPrized
	}
	prizes, err := strategy.Prizes(len(t.Competitors))
	if err != nil {
		return err
	}

	if t.RankingIsStale() {
		t.commitStandings(t.Standings(0))
	}

	for i, c := range t.Ranking() {
		c.Prize = prizes[i]
	}
	t.Prized = true
	t.touch()

	t.logger().Info("Prizes assigned",
		"tournament", t.ID,
		"strategy", strategy,
		"competitors", len(t.Competitors),
	)
	return nil
}

// Takes back the prize-giving so the tournament can be changed again
func (t *Tournament) ResetPrizes() {
	for _, c := range t.Competitors {
		c.Prize = 0
	}
	t.Prized = false
	t.touch()

	t.logger().Info("Prizes reset", "tournament", t.ID)
}
