package ingest

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/padraicbc/rpingest/models"
)

// LevelReport is the outcome of one table's batch within a write level.
type LevelReport struct {
	Level  int
	Table  string
	Result WriteResult
}

// Writer applies a cycle's entities in dependency order:
//
//	level 0  courses, jockeys, trainers, owners (no foreign keys)
//	level 1  horses
//	level 2  lineage (references level-1 horses; ancestors stay plain values)
//	level 3  races   (reference level-0 courses)
//	level 4  runners (reference levels 0, 1 and 3)
//
// A level is fully applied before the next begins, so no row is written
// before everything it references. A store error aborts the cycle at
// whatever level was in progress; re-running is safe because every
// upsert is idempotent.
type Writer struct {
	store Store
	log   *zap.Logger
}

// NewWriter builds a Writer over the given store.
func NewWriter(store Store, log *zap.Logger) *Writer {
	return &Writer{store: store, log: log}
}

// Write applies all entities and lineage edges level by level.
func (w *Writer) Write(ctx context.Context, ents *Entities, lineage []models.Lineage) ([]LevelReport, error) {
	coerceRunnerRefs(ents.Runners)

	steps := []struct {
		level int
		table string
		fn    func(context.Context) (WriteResult, error)
	}{
		{0, "courses", func(ctx context.Context) (WriteResult, error) {
			return w.store.UpsertCourses(ctx, sortedCourses(ents.Courses))
		}},
		{0, "jockeys", func(ctx context.Context) (WriteResult, error) {
			return w.store.UpsertJockeys(ctx, sortedJockeys(ents.Jockeys))
		}},
		{0, "trainers", func(ctx context.Context) (WriteResult, error) {
			return w.store.UpsertTrainers(ctx, sortedTrainers(ents.Trainers))
		}},
		{0, "owners", func(ctx context.Context) (WriteResult, error) {
			return w.store.UpsertOwners(ctx, sortedOwners(ents.Owners))
		}},
		{1, "horses", func(ctx context.Context) (WriteResult, error) {
			return w.store.UpsertHorses(ctx, sortedHorses(ents.Horses))
		}},
		{2, "lineage", func(ctx context.Context) (WriteResult, error) {
			return w.store.UpsertLineage(ctx, lineage)
		}},
		{3, "races", func(ctx context.Context) (WriteResult, error) {
			return w.store.UpsertRaces(ctx, sortedRaces(ents.Races))
		}},
		{4, "runners", func(ctx context.Context) (WriteResult, error) {
			return w.store.UpsertRunners(ctx, sortedRunners(ents.Runners))
		}},
	}

	var reports []LevelReport
	for _, s := range steps {
		res, err := s.fn(ctx)
		if err != nil {
			return reports, fmt.Errorf("write level %d (%s): %w", s.level, s.table, err)
		}
		for _, c := range res.Conflicts {
			w.log.Warn("row skipped on write conflict",
				zap.String("table", c.Table),
				zap.String("key", c.Key),
				zap.String("reason", c.Reason))
		}
		reports = append(reports, LevelReport{Level: s.level, Table: s.table, Result: res})
	}

	return reports, nil
}

// coerceRunnerRefs turns blank role references into NULLs so a card
// with no declared jockey never writes an invalid "" reference.
func coerceRunnerRefs(runners map[string]*models.Runner) {
	for _, r := range runners {
		r.JockeyID = dropBlank(r.JockeyID)
		r.TrainerID = dropBlank(r.TrainerID)
		r.OwnerID = dropBlank(r.OwnerID)
	}
}

func dropBlank(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func sortedIDs[V any](m map[string]*V) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func collect[V any](m map[string]*V) []V {
	out := make([]V, 0, len(m))
	for _, id := range sortedIDs(m) {
		out = append(out, *m[id])
	}
	return out
}

func sortedCourses(m map[string]*models.Course) []models.Course { return collect(m) }
func sortedJockeys(m map[string]*models.Jockey) []models.Jockey { return collect(m) }
func sortedTrainers(m map[string]*models.Trainer) []models.Trainer { return collect(m) }
func sortedOwners(m map[string]*models.Owner) []models.Owner { return collect(m) }
func sortedHorses(m map[string]*models.Horse) []models.Horse { return collect(m) }
func sortedRaces(m map[string]*models.Race) []models.Race { return collect(m) }
func sortedRunners(m map[string]*models.Runner) []models.Runner { return collect(m) }
