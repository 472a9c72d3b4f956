package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/ezBadminton/goswiss/internal/store"
)

func init() {
	if err := Migrations.DiscoverCaller(); err != nil {
		panic(err)
	}
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating swiss tournament tables...")

		models := []any{
			(*store.Tournament)(nil),
			(*store.Competitor)(nil),
			(*store.Match)(nil),
		}
		for _, model := range models {
			if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to create table for %T: %w", model, err)
			}
		}

		_, err := db.ExecContext(ctx, `
			CREATE INDEX IF NOT EXISTS idx_swiss_tournaments_prized_date
			ON swiss_tournaments (prized, date);
		`)
		if err != nil {
			return fmt.Errorf("failed to create prized index: %w", err)
		}

		fmt.Println("Swiss tournament tables created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping swiss tournament tables...")

		for _, table := range []string{"swiss_matches", "swiss_competitors", "swiss_tournaments"} {
			if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table+";"); err != nil {
				return fmt.Errorf("failed to drop %s: %w", table, err)
			}
		}

		fmt.Println("Swiss tournament tables dropped successfully!")
		return nil
	})
}
