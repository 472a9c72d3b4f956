package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	"github.com/ezBadminton/goswiss/core"
	"github.com/ezBadminton/goswiss/internal/service"
)

const dateLayout = "2006-01-02"

func newTournamentCommand(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "tournament",
		Usage: "create and replay tournaments",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "create a tournament",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "description"},
					&cli.StringFlag{Name: "date", Usage: "date of the tournament (" + dateLayout + ")"},
					&cli.IntFlag{Name: "finals", Usage: "number of finals (0, 1 or 2)"},
					&cli.StringFlag{Name: "final-kind", Usage: "simple or bestof3"},
					&cli.StringFlag{Name: "couplings", Usage: strings.Join(core.PairingStrategyNames(), " or ")},
					&cli.BoolFlag{Name: "rated", Usage: "pair and rank by the player ratings"},
					&cli.IntFlag{Name: "delay-top-pairing"},
					&cli.StringFlag{Name: "prizes", Usage: "prize-giving of the tournament"},
				},
				Action: func(c *cli.Context) error {
					settings, err := settingsFrom(c, rt.defaults)
					if err != nil {
						return err
					}
					draft := service.Draft{
						Description: c.String("description"),
						Settings:    &settings,
					}
					if draft.Date, err = parseDate(c.String("date")); err != nil {
						return err
					}
					if c.IsSet("prizes") {
						prizes, err := core.ParsePrizeStrategy(c.String("prizes"))
						if err != nil {
							return err
						}
						draft.Prizes = &prizes
					}

					t, err := rt.svc.Create(c.Context, draft)
					if err != nil {
						return err
					}
					fmt.Println(t.ID)
					return nil
				},
			},
			{
				Name:      "replay",
				Usage:     "create a tournament with the competitors of another one",
				ArgsUsage: "<tournament>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "date", Usage: "date of the replay (" + dateLayout + ")"},
				},
				Action: func(c *cli.Context) error {
					date, err := parseDate(c.String("date"))
					if err != nil {
						return err
					}
					replay, err := rt.svc.Replay(c.Context, c.Args().First(), date)
					if err != nil {
						return err
					}
					fmt.Println(replay.ID)
					return nil
				},
			},
		},
	}
}

func newCompetitorCommand(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "competitor",
		Usage: "manage the competitors of a tournament",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "register a competitor of up to four players",
				ArgsUsage: "<tournament> <first name>:<last name>[@<player id>]...",
				Action: func(c *cli.Context) error {
					players := make([]core.Player, 0, c.NArg())
					for _, arg := range c.Args().Tail() {
						players = append(players, parsePlayer(arg))
					}
					competitor, err := rt.svc.AddCompetitor(c.Context, c.Args().First(), players...)
					if err != nil {
						return err
					}
					fmt.Printf("%s\t%s\n", competitor.ID, competitor)
					return nil
				},
			},
			{
				Name:      "matches",
				Usage:     "print the opponents and scores of a competitor",
				ArgsUsage: "<tournament> <competitor>",
				Action: func(c *cli.Context) error {
					competitor, matches, err := rt.svc.CompetitorMatches(c.Context, c.Args().Get(0), c.Args().Get(1))
					if err != nil {
						return err
					}
					return printCompetitorMatches(os.Stdout, competitor, matches)
				},
			},
			{
				Name:      "retire",
				Usage:     "exclude a competitor from future turns",
				ArgsUsage: "<tournament> <competitor>",
				Action: func(c *cli.Context) error {
					return rt.svc.RetireCompetitor(c.Context, c.Args().Get(0), c.Args().Get(1))
				},
			},
			{
				Name:      "reenter",
				Usage:     "pair a retired competitor again",
				ArgsUsage: "<tournament> <competitor>",
				Action: func(c *cli.Context) error {
					return rt.svc.ReenterCompetitor(c.Context, c.Args().Get(0), c.Args().Get(1))
				},
			},
		},
	}
}

func newTurnCommand(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "turn",
		Usage: "create and show turns",
		Subcommands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "print the matches of a turn",
				ArgsUsage: "<tournament> <turn>",
				Action: func(c *cli.Context) error {
					turn, err := strconv.Atoi(c.Args().Get(1))
					if err != nil {
						return fmt.Errorf("invalid turn: %w", err)
					}
					matches, err := rt.svc.Turn(c.Context, c.Args().First(), turn)
					if err != nil {
						return err
					}
					return printMatches(os.Stdout, matches)
				},
			},
			{
				Name:      "next",
				Usage:     "create the next turn",
				ArgsUsage: "<tournament>",
				Before:    rt.loadRatings,
				Action: func(c *cli.Context) error {
					matches, err := rt.svc.NextTurn(c.Context, c.Args().First())
					if err != nil {
						return err
					}
					return printMatches(os.Stdout, matches)
				},
			},
			{
				Name:      "final",
				Usage:     "enter the finals",
				ArgsUsage: "<tournament>",
				Before:    rt.loadRatings,
				Action: func(c *cli.Context) error {
					matches, err := rt.svc.FinalTurn(c.Context, c.Args().First())
					if err != nil {
						return err
					}
					return printMatches(os.Stdout, matches)
				},
			},
		},
	}
}

func newResultCommand(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:      "result",
		Usage:     "enter the board points of a match",
		ArgsUsage: "<tournament> <turn> <board>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "points1", Required: true, Usage: "board points of the first competitor, e.g. 13,0,12"},
			&cli.StringFlag{Name: "points2", Required: true, Usage: "board points of the second competitor, e.g. 0,4,0"},
		},
		Action: func(c *cli.Context) error {
			turn, err := strconv.Atoi(c.Args().Get(1))
			if err != nil {
				return fmt.Errorf("invalid turn: %w", err)
			}
			board, err := strconv.Atoi(c.Args().Get(2))
			if err != nil {
				return fmt.Errorf("invalid board: %w", err)
			}
			points1, err := parsePoints(c.String("points1"))
			if err != nil {
				return err
			}
			points2, err := parsePoints(c.String("points2"))
			if err != nil {
				return err
			}

			m, err := rt.svc.RecordResult(c.Context, c.Args().First(), turn, board, points1, points2)
			if err != nil {
				return err
			}
			fmt.Println(m)
			return nil
		},
	}
}

func newRankingCommand(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:      "ranking",
		Usage:     "print the ranking",
		ArgsUsage: "<tournament>",
		Before:    rt.loadRatings,
		Action: func(c *cli.Context) error {
			ranking, err := rt.svc.Ranking(c.Context, c.Args().First())
			if err != nil {
				return err
			}
			return printRanking(os.Stdout, ranking)
		},
	}
}

func newPrizesCommand(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "prizes",
		Usage: "prize-giving",
		Subcommands: []*cli.Command{
			{
				Name:      "assign",
				Usage:     "assign the prizes and close the tournament",
				ArgsUsage: "<tournament>",
				Action: func(c *cli.Context) error {
					ranking, err := rt.svc.AssignPrizes(c.Context, c.Args().First())
					if err != nil {
						return err
					}
					return printRanking(os.Stdout, ranking)
				},
			},
			{
				Name:      "reset",
				Usage:     "take back the prize-giving",
				ArgsUsage: "<tournament>",
				Action: func(c *cli.Context) error {
					return rt.svc.ResetPrizes(c.Context, c.Args().First())
				},
			},
		},
	}
}

// parsePlayer reads "first:last" with an optional "@id" suffix.
// Players keep their rating across tournaments through the id.
func parsePlayer(arg string) core.Player {
	name, id, _ := strings.Cut(arg, "@")
	first, last, _ := strings.Cut(name, ":")
	return core.Player{ID: id, FirstName: first, LastName: last}
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Now().UTC().Truncate(24 * time.Hour), nil
	}
	date, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return date, nil
}

func parsePoints(value string) ([]int, error) {
	fields := strings.Split(value, ",")
	points := make([]int, 0, len(fields))
	for _, f := range fields {
		p, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("invalid board points %q: %w", value, err)
		}
		points = append(points, p)
	}
	return points, nil
}

func printMatches(w io.Writer, matches []*core.Match) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TURN\tBOARD\tCOMPETITOR 1\tCOMPETITOR 2\tSCORE")
	for _, m := range matches {
		score := ""
		if m.IsPlayed() {
			score = fmt.Sprintf("%d - %d", m.Score1, m.Score2)
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\n", m.Turn, m.Board, core.Against(m.Competitor1), m.Competitor2, score)
	}
	return tw.Flush()
}

// Scores are printed from the side of the competitor
func printCompetitorMatches(w io.Writer, c *core.Competitor, matches []*core.Match) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\n", c)
	fmt.Fprintln(tw, "TURN\tBOARD\tOPPONENT\tSCORE")
	for _, m := range matches {
		score := ""
		if m.IsPlayed() {
			own, other := m.Score1, m.Score2
			if m.Competitor2.Is(c) {
				own, other = other, own
			}
			score = fmt.Sprintf("%d - %d", own, other)
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\n", m.Turn, m.Board, m.OpponentOf(c), score)
	}
	return tw.Flush()
}

func printRanking(w io.Writer, ranking []*core.Competitor) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tCOMPETITOR\tPOINTS\tBUCHOLZ\tNET\tTOTAL\tPRIZE")
	for i, c := range ranking {
		name := c.String()
		if c.Retired {
			name += " (retired)"
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\t%g\n", i+1, name, c.Points, c.Bucholz, c.NetScore, c.TotScore, c.Prize)
	}
	return tw.Flush()
}

func printMetrics(w io.Writer, registry *prometheus.Registry) error {
	families, err := registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, l.GetName()+"="+l.GetValue())
			}
			switch {
			case m.GetCounter() != nil:
				fmt.Fprintf(w, "%s{%s} %g\n", mf.GetName(), strings.Join(labels, ","), m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				fmt.Fprintf(w, "%s_count{%s} %d\n", mf.GetName(), strings.Join(labels, ","), m.GetHistogram().GetSampleCount())
			}
		}
	}
	return nil
}
