package ingest

import (
	"context"

	"github.com/padraicbc/rpingest/models"
)

// WriteConflict is a row that failed its upsert despite the conflict
// clause. The row is skipped, not retried; the conflict surfaces in the
// cycle summary.
type WriteConflict struct {
	Table  string `json:"table"`
	Key    string `json:"key"`
	Reason string `json:"reason"`
}

// WriteResult reports one upsert batch.
type WriteResult struct {
	Created   int
	Updated   int
	Conflicts []WriteConflict
}

// Store is the persisted-store contract the pipeline writes through.
// Upserts are keyed by natural identifier and must be idempotent;
// protected columns keep their stored value when the incoming row
// carries NULL for them.
type Store interface {
	// KnownHorseIDs returns the subset of ids already persisted, in one
	// batched lookup.
	KnownHorseIDs(ctx context.Context, ids []string) (map[string]struct{}, error)
	// UnenrichedHorseIDs returns the subset of ids persisted without a
	// successful enrichment. Used only by the optional re-enrich sweep.
	UnenrichedHorseIDs(ctx context.Context, ids []string) ([]string, error)

	UpsertCourses(ctx context.Context, rows []models.Course) (WriteResult, error)
	UpsertJockeys(ctx context.Context, rows []models.Jockey) (WriteResult, error)
	UpsertTrainers(ctx context.Context, rows []models.Trainer) (WriteResult, error)
	UpsertOwners(ctx context.Context, rows []models.Owner) (WriteResult, error)
	UpsertHorses(ctx context.Context, rows []models.Horse) (WriteResult, error)
	UpsertLineage(ctx context.Context, rows []models.Lineage) (WriteResult, error)
	UpsertRaces(ctx context.Context, rows []models.Race) (WriteResult, error)
	UpsertRunners(ctx context.Context, rows []models.Runner) (WriteResult, error)

	SaveCycle(ctx context.Context, c *models.Cycle) error
}
