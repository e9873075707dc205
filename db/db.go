package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/padraicbc/rpingest/config"
	"github.com/padraicbc/rpingest/models"
)

// Setup opens a PostgreSQL connection using the provided config.
func Setup(cfg *config.Config) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.PostgresDSN())))
	db := bun.NewDB(sqldb, pgdialect.New())

	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	if err := db.PingContext(context.Background()); err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	return db
}

// CreateTables creates all tables in dependency order: reference
// entities first, then horses, lineage, races and runners. The order
// here mirrors the writer's levels.
func CreateTables(ctx context.Context, db *bun.DB) error {
	tables := []interface{}{
		(*models.User)(nil),
		(*models.Course)(nil),
		(*models.Jockey)(nil),
		(*models.Trainer)(nil),
		(*models.Owner)(nil),
		(*models.Horse)(nil),
		(*models.Lineage)(nil),
		(*models.Race)(nil),
		(*models.Runner)(nil),
		(*models.AncestorStats)(nil),
		(*models.Cycle)(nil),
	}

	for _, model := range tables {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("creating table for %T: %w", model, err)
		}
	}

	constraints := []string{
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'lineage_no_dupes') THEN ALTER TABLE lineage ADD CONSTRAINT lineage_no_dupes UNIQUE (horse_id, relation); END IF; END $$`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'runners_no_dupes') THEN ALTER TABLE runners ADD CONSTRAINT runners_no_dupes UNIQUE (race_id, horse_id); END IF; END $$`,
	}
	for _, stmt := range constraints {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			log.Printf("constraint: %v", err)
		}
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS lineage_ancestor_idx ON lineage (ancestor_id)`,
		`CREATE INDEX IF NOT EXISTS runners_horse_idx ON runners (horse_id)`,
		`CREATE INDEX IF NOT EXISTS races_date_idx ON races (date)`,
	}
	for _, stmt := range indexes {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			log.Printf("index: %v", err)
		}
	}

	return nil
}
