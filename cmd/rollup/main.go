// cmd/rollup/main.go
// Recomputes ancestor statistics from the full lineage and runner
// history. Scheduled weekly, never overlapping an ingestion run.
//
// Usage:
//
//	go run ./cmd/rollup
package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/padraicbc/rpingest/config"
	bundb "github.com/padraicbc/rpingest/db"
	applog "github.com/padraicbc/rpingest/logger"
	"github.com/padraicbc/rpingest/rollup"
)

func main() {
	cfg := config.Load()

	logger, err := applog.New(cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	ctx := context.Background()

	bdb := bundb.Setup(cfg)
	defer bdb.Close()

	if err := bundb.CreateTables(ctx, bdb); err != nil {
		logger.Fatal("create tables failed", zap.Error(err))
	}

	engine := rollup.New(bundb.NewStore(bdb, cfg.ProtectedFields), logger)
	if _, err := engine.Run(ctx); err != nil {
		logger.Fatal("rollup failed", zap.Error(err))
	}
}
