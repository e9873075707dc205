// Ingestion cycle runner. Invoked by cron once per day (and again after
// results are published); each invocation processes one date across the
// configured regions.
//
// Usage:
//
//	go run . -date 2026-08-31
package main

import (
	"context"
	"flag"
	"time"

	"go.uber.org/zap"

	"github.com/padraicbc/rpingest/config"
	bundb "github.com/padraicbc/rpingest/db"
	"github.com/padraicbc/rpingest/ingest"
	applog "github.com/padraicbc/rpingest/logger"
	"github.com/padraicbc/rpingest/racingapi"
)

func main() {
	date := flag.String("date", time.Now().Format("2006-01-02"), "card date (YYYY-MM-DD)")
	flag.Parse()

	cfg := config.Load()
	cfg.ValidateAPI()

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

	store := bundb.NewStore(bdb, cfg.ProtectedFields)
	src := racingapi.NewClient(cfg.APIBaseURL, cfg.APIKey)
	pacer := ingest.NewPacer(cfg.EnrichInterval)
	pipeline := ingest.New(src, store, pacer, cfg.ReenrichFailed, logger)

	for _, region := range cfg.Regions {
		sum, err := pipeline.Run(ctx, *date, region)
		if err != nil {
			// A failed region doesn't stop the others; the next run's
			// upserts pick up whatever this one missed.
			logger.Error("cycle failed",
				zap.String("date", *date),
				zap.String("region", region),
				zap.Error(err))
			continue
		}
		for _, f := range sum.Enrich.Failures {
			logger.Warn("unenriched horse",
				zap.String("horse_id", f.HorseID),
				zap.String("reason", f.Reason))
		}
	}
}
