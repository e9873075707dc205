package db

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/padraicbc/rpingest/ingest"
	"github.com/padraicbc/rpingest/models"
)

// Store is the bun-backed implementation of the ingest and rollup store
// contracts. Every write is an ON CONFLICT upsert keyed by the entity's
// natural identifier; protected columns use COALESCE so a stored
// non-null value survives an incoming null.
type Store struct {
	db        *bun.DB
	protected map[string]bool
}

// NewStore wraps a bun connection. protectedFields lists table.column
// pairs that are never overwritten by null once set.
func NewStore(bdb *bun.DB, protectedFields []string) *Store {
	prot := make(map[string]bool, len(protectedFields))
	for _, f := range protectedFields {
		prot[f] = true
	}
	return &Store{db: bdb, protected: prot}
}

// set renders one DO UPDATE assignment, honouring the protected list.
// alias is the model's bun alias, used to reference the stored row.
func (s *Store) set(table, alias, col string) string {
	if s.protected[table+"."+col] {
		return fmt.Sprintf("%s = COALESCE(EXCLUDED.%s, %s.%s)", col, col, alias, col)
	}
	return fmt.Sprintf("%s = EXCLUDED.%s", col, col)
}

// keep renders an assignment that always preserves a stored non-null
// value, used for enrichment and outcome columns whose overwrite-by-null
// would undo a one-time transition.
func keep(alias, col string) string {
	return fmt.Sprintf("%s = COALESCE(EXCLUDED.%s, %s.%s)", col, col, alias, col)
}

// keepText is keep for NOT NULL text columns where '' plays the role of
// absent.
func keepText(alias, col string) string {
	return fmt.Sprintf("%s = COALESCE(NULLIF(EXCLUDED.%s, ''), %s.%s)", col, col, alias, col)
}

// KnownHorseIDs returns the subset of ids already persisted.
func (s *Store) KnownHorseIDs(ctx context.Context, ids []string) (map[string]struct{}, error) {
	known := map[string]struct{}{}
	if len(ids) == 0 {
		return known, nil
	}

	var found []string
	err := s.db.NewSelect().
		Model((*models.Horse)(nil)).
		Column("horse_id").
		Where("horse_id IN (?)", bun.In(ids)).
		Scan(ctx, &found)
	if err != nil {
		return nil, err
	}

	for _, id := range found {
		known[id] = struct{}{}
	}
	return known, nil
}

// UnenrichedHorseIDs returns the subset of ids persisted but not yet
// enriched.
func (s *Store) UnenrichedHorseIDs(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var found []string
	err := s.db.NewSelect().
		Model((*models.Horse)(nil)).
		Column("horse_id").
		Where("horse_id IN (?)", bun.In(ids)).
		Where("NOT enriched").
		Scan(ctx, &found)
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (s *Store) UpsertCourses(ctx context.Context, rows []models.Course) (ingest.WriteResult, error) {
	return upsert(ctx, s.db, rows, "courses",
		func(r *models.Course) string { return r.CourseID },
		func(q *bun.InsertQuery) *bun.InsertQuery {
			return q.On("CONFLICT (course_id) DO UPDATE").
				Set(s.set("courses", "c", "name")).
				Set(s.set("courses", "c", "region")).
				Set(s.set("courses", "c", "surface")).
				Set(s.set("courses", "c", "latitude")).
				Set(s.set("courses", "c", "longitude"))
		})
}

func (s *Store) UpsertJockeys(ctx context.Context, rows []models.Jockey) (ingest.WriteResult, error) {
	return upsert(ctx, s.db, rows, "jockeys",
		func(r *models.Jockey) string { return r.JockeyID },
		func(q *bun.InsertQuery) *bun.InsertQuery {
			return q.On("CONFLICT (jockey_id) DO UPDATE").
				Set(s.set("jockeys", "j", "name"))
		})
}

func (s *Store) UpsertTrainers(ctx context.Context, rows []models.Trainer) (ingest.WriteResult, error) {
	return upsert(ctx, s.db, rows, "trainers",
		func(r *models.Trainer) string { return r.TrainerID },
		func(q *bun.InsertQuery) *bun.InsertQuery {
			return q.On("CONFLICT (trainer_id) DO UPDATE").
				Set(s.set("trainers", "t", "name")).
				Set(s.set("trainers", "t", "location"))
		})
}

func (s *Store) UpsertOwners(ctx context.Context, rows []models.Owner) (ingest.WriteResult, error) {
	return upsert(ctx, s.db, rows, "owners",
		func(r *models.Owner) string { return r.OwnerID },
		func(q *bun.InsertQuery) *bun.InsertQuery {
			return q.On("CONFLICT (owner_id) DO UPDATE").
				Set(s.set("owners", "o", "name"))
		})
}

// UpsertHorses preserves enrichment across re-runs: enriched only ever
// flips to true, and the extended columns never go back to null once a
// profile has filled them. That is what makes the "enrich at most once"
// contract safe when the same batch is replayed.
func (s *Store) UpsertHorses(ctx context.Context, rows []models.Horse) (ingest.WriteResult, error) {
	return upsert(ctx, s.db, rows, "horses",
		func(r *models.Horse) string { return r.HorseID },
		func(q *bun.InsertQuery) *bun.InsertQuery {
			return q.On("CONFLICT (horse_id) DO UPDATE").
				Set("name = EXCLUDED.name").
				Set(keepText("h", "sex")).
				Set("enriched = h.enriched OR EXCLUDED.enriched").
				Set(keep("h", "foaled_on")).
				Set(keep("h", "colour")).
				Set(keep("h", "breeder")).
				Set(keep("h", "region")).
				Set(keepText("h", "sire_id")).
				Set(keepText("h", "sire_name")).
				Set(keepText("h", "dam_id")).
				Set(keepText("h", "dam_name")).
				Set(keepText("h", "damsire_id")).
				Set(keepText("h", "damsire_name"))
		})
}

func (s *Store) UpsertLineage(ctx context.Context, rows []models.Lineage) (ingest.WriteResult, error) {
	return upsert(ctx, s.db, rows, "lineage",
		func(r *models.Lineage) string { return r.HorseID + "|" + r.Relation },
		func(q *bun.InsertQuery) *bun.InsertQuery {
			return q.On("CONFLICT (horse_id, relation) DO UPDATE").
				Set("ancestor_id = EXCLUDED.ancestor_id").
				Set("ancestor_name = EXCLUDED.ancestor_name").
				Set("generation = EXCLUDED.generation")
		})
}

func (s *Store) UpsertRaces(ctx context.Context, rows []models.Race) (ingest.WriteResult, error) {
	return upsert(ctx, s.db, rows, "races",
		func(r *models.Race) string { return r.RaceID },
		func(q *bun.InsertQuery) *bun.InsertQuery {
			return q.On("CONFLICT (race_id) DO UPDATE").
				Set(s.set("races", "rc", "course_id")).
				Set(s.set("races", "rc", "date")).
				Set(s.set("races", "rc", "off_time")).
				Set(s.set("races", "rc", "name")).
				Set(s.set("races", "rc", "class")).
				Set(s.set("races", "rc", "distance")).
				Set(keep("rc", "going")).
				Set(s.set("races", "rc", "region"))
		})
}

// UpsertRunners updates outcome columns in place once the results pass
// supplies them; a later card-only replay carrying nulls leaves them
// alone.
func (s *Store) UpsertRunners(ctx context.Context, rows []models.Runner) (ingest.WriteResult, error) {
	return upsert(ctx, s.db, rows, "runners",
		func(r *models.Runner) string { return r.RaceID + "|" + r.HorseID },
		func(q *bun.InsertQuery) *bun.InsertQuery {
			return q.On("CONFLICT (race_id, horse_id) DO UPDATE").
				Set(s.set("runners", "r", "jockey_id")).
				Set(s.set("runners", "r", "trainer_id")).
				Set(s.set("runners", "r", "owner_id")).
				Set(s.set("runners", "r", "number")).
				Set(s.set("runners", "r", "draw")).
				Set(s.set("runners", "r", "age")).
				Set(s.set("runners", "r", "weight_carried")).
				Set(s.set("runners", "r", "official_rating")).
				Set(s.set("runners", "r", "headgear")).
				Set(keep("r", "position")).
				Set(keep("r", "distance_behind")).
				Set(keep("r", "starting_price"))
		})
}

// SaveCycle appends one ingestion summary row.
func (s *Store) SaveCycle(ctx context.Context, c *models.Cycle) error {
	_, err := s.db.NewInsert().Model(c).Exec(ctx)
	return err
}

// upsert applies one batch with created/updated counting via the
// Postgres xmax trick, falling back to row-by-row when the batch fails
// so a single bad row is skipped rather than sinking the level.
func upsert[T any](
	ctx context.Context,
	bdb *bun.DB,
	rows []T,
	table string,
	key func(*T) string,
	build func(*bun.InsertQuery) *bun.InsertQuery,
) (ingest.WriteResult, error) {
	var res ingest.WriteResult
	if len(rows) == 0 {
		return res, nil
	}

	var inserted []bool
	_, err := build(bdb.NewInsert().Model(&rows)).
		Returning("(xmax = 0)").
		Exec(ctx, &inserted)
	if err == nil {
		return tallied(inserted), nil
	}

	failures := 0
	var lastErr error
	for i := range rows {
		row := rows[i : i+1]
		var ins []bool
		if _, err := build(bdb.NewInsert().Model(&row)).
			Returning("(xmax = 0)").
			Exec(ctx, &ins); err != nil {
			failures++
			lastErr = err
			res.Conflicts = append(res.Conflicts, ingest.WriteConflict{
				Table:  table,
				Key:    key(&rows[i]),
				Reason: err.Error(),
			})
			continue
		}
		r := tallied(ins)
		res.Created += r.Created
		res.Updated += r.Updated
	}

	// Every single row failing is not a row problem.
	if failures == len(rows) {
		return res, fmt.Errorf("upsert %s: %w", table, lastErr)
	}
	return res, nil
}

func tallied(inserted []bool) ingest.WriteResult {
	var res ingest.WriteResult
	for _, in := range inserted {
		if in {
			res.Created++
		} else {
			res.Updated++
		}
	}
	return res
}
