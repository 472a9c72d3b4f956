package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"
	"go.opentelemetry.io/otel"

	"github.com/ezBadminton/goswiss/core"
	"github.com/ezBadminton/goswiss/internal/config"
	"github.com/ezBadminton/goswiss/internal/events"
	"github.com/ezBadminton/goswiss/internal/metrics"
	"github.com/ezBadminton/goswiss/internal/rating"
	"github.com/ezBadminton/goswiss/internal/service"
	"github.com/ezBadminton/goswiss/internal/store"
	"github.com/ezBadminton/goswiss/internal/store/migrations"
)

// runtime holds the collaborators shared by the commands.
type runtime struct {
	cfg      *config.Config
	logger   *slog.Logger
	db       *bun.DB
	pubSub   *gochannel.GoChannel
	registry *prometheus.Registry
	svc      *service.TournamentService
	defaults core.Settings

	stopEvents context.CancelFunc
	events     *events.LogSubscriber
}

func main() {
	rt := &runtime{}

	cliApp := &cli.App{
		Name:  "swissctl",
		Usage: "run swiss tournaments",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: "config.yaml",
				Usage: "Path to the configuration file",
			},
			&cli.BoolFlag{
				Name:  "metrics",
				Usage: "print the collected metrics on exit",
			},
		},
		Before: rt.open,
		After:  rt.close,
		Commands: []*cli.Command{
			newMigrateCommand(rt),
			newTournamentCommand(rt),
			newCompetitorCommand(rt),
			newTurnCommand(rt),
			newResultCommand(rt),
			newRankingCommand(rt),
			newPrizesCommand(rt),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func (rt *runtime) open(c *cli.Context) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	rt.cfg = cfg
	rt.logger = cfg.Log.NewLogger(os.Stderr)

	pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	rt.db = bun.NewDB(pgdb, pgdialect.New())

	rt.pubSub = gochannel.NewGoChannel(gochannel.Config{}, watermill.NewSlogLogger(rt.logger))
	var ctx context.Context
	ctx, rt.stopEvents = context.WithCancel(c.Context)
	rt.events = events.NewLogSubscriber(rt.pubSub, rt.logger)
	if err := rt.events.Start(ctx, events.Topics...); err != nil {
		return err
	}

	settings, err := cfg.Engine.Settings()
	if err != nil {
		return err
	}
	prizes, err := cfg.Engine.Prizes()
	if err != nil {
		return err
	}
	scores, err := cfg.Score.Settings()
	if err != nil {
		return err
	}

	rt.defaults = settings
	rt.registry = prometheus.NewRegistry()
	repo := store.NewRepository(rt.db)
	rt.svc = service.NewTournamentService(
		repo,
		events.NewPublisher(rt.pubSub, rt.logger),
		rating.New(rt.logger),
		rt.logger,
		metrics.New(rt.registry),
		otel.Tracer("swissctl"),
		rt.db,
		service.Options{
			Defaults:       settings,
			Prizes:         prizes,
			Scores:         scores,
			PairingTimeout: cfg.Engine.PairingTimeout,
		},
	)
	return nil
}

func (rt *runtime) close(c *cli.Context) error {
	if rt.stopEvents != nil {
		rt.stopEvents()
		rt.events.Wait()
	}
	if rt.pubSub != nil {
		_ = rt.pubSub.Close()
	}
	if rt.registry != nil && c.Bool("metrics") {
		if err := printMetrics(os.Stdout, rt.registry); err != nil {
			return err
		}
	}
	if rt.db != nil {
		return rt.db.Close()
	}
	return nil
}

// loadRatings rebuilds the ratings before commands that pair
// or rank competitors.
func (rt *runtime) loadRatings(c *cli.Context) error {
	return rt.svc.RecomputeRatings(c.Context, time.Now())
}

func newMigrateCommand(rt *runtime) *cli.Command {
	migrator := func() *migrate.Migrator {
		return migrate.NewMigrator(rt.db, migrations.Migrations)
	}

	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: func(c *cli.Context) error {
					fmt.Println("Initializing migrations")
					return migrator().Init(c.Context)
				},
			},
			{
				Name:  "migrate",
				Usage: "migrate database",
				Action: func(c *cli.Context) error {
					group, err := migrator().Migrate(c.Context)
					if err != nil {
						return err
					}
					if group.IsZero() {
						fmt.Println("No new migrations to run")
					} else {
						fmt.Printf("Migrated to %s\n", group)
					}
					return nil
				},
			},
			{
				Name:  "rollback",
				Usage: "rollback the last migration group",
				Action: func(c *cli.Context) error {
					group, err := migrator().Rollback(c.Context)
					if err != nil {
						return err
					}
					if group.IsZero() {
						fmt.Println("No groups to roll back")
					} else {
						fmt.Printf("Rolled back %s\n", group)
					}
					return nil
				},
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: func(c *cli.Context) error {
					ms, err := migrator().MigrationsWithStatus(c.Context)
					if err != nil {
						return err
					}
					fmt.Printf("Migrations: %s\n", ms)
					fmt.Printf("  Applied: %s\n", ms.Applied())
					fmt.Printf("  Unapplied: %s\n", ms.Unapplied())
					return nil
				},
			},
		},
	}
}

// Parses the settings flags on top of the configured defaults
func settingsFrom(c *cli.Context, defaults core.Settings) (core.Settings, error) {
	settings := defaults
	if c.IsSet("finals") {
		settings.Finals = c.Int("finals")
	}
	if c.IsSet("final-kind") {
		kind, err := core.ParseFinalKind(c.String("final-kind"))
		if err != nil {
			return settings, err
		}
		settings.FinalKind = kind
	}
	if c.IsSet("couplings") {
		couplings, err := core.ParsePairingStrategy(c.String("couplings"))
		if err != nil {
			return settings, err
		}
		settings.Couplings = couplings
	}
	if c.IsSet("rated") {
		settings.Rated = c.Bool("rated")
	}
	if c.IsSet("delay-top-pairing") {
		settings.DelayTopPairing = c.Int("delay-top-pairing")
	}
	return settings, settings.Validate()
}
