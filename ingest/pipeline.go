package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/padraicbc/rpingest/models"
	"github.com/padraicbc/rpingest/racingapi"
)

// Counts tracks one entity type through a cycle.
type Counts struct {
	Seen    int `json:"seen"`
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// Summary is the per-cycle report and the sole error-reporting surface
// for non-fatal problems.
type Summary struct {
	Date       string
	Region     string
	StartedAt  time.Time
	FinishedAt time.Time

	EntriesSeen int
	NewHorses   int

	Entities map[string]*Counts
	Enrich   EnrichReport
	Levels   []LevelReport
}

// Conflicts returns all skipped rows across levels.
func (s *Summary) Conflicts() []WriteConflict {
	var out []WriteConflict
	for _, l := range s.Levels {
		out = append(out, l.Result.Conflicts...)
	}
	return out
}

func (s *Summary) totals() (created, updated int) {
	for _, l := range s.Levels {
		created += l.Result.Created
		updated += l.Result.Updated
	}
	return created, updated
}

// Pipeline runs one ingestion cycle: fetch, dedup, classify, enrich,
// derive lineage, write. Stages are batch-synchronous; nothing is
// written until every stage before the writer has finished.
type Pipeline struct {
	src      racingapi.Source
	store    Store
	fetcher  *Fetcher
	reenrich bool
	log      *zap.Logger
	now      func() time.Time
}

// New builds a Pipeline. reenrich controls whether horses whose earlier
// enrichment failed are retried (see Classification.Retry).
func New(src racingapi.Source, store Store, pacer Pacer, reenrich bool, log *zap.Logger) *Pipeline {
	return &Pipeline{
		src:      src,
		store:    store,
		fetcher:  NewFetcher(src, pacer, log),
		reenrich: reenrich,
		log:      log,
		now:      time.Now,
	}
}

// Run processes one date/region batch end to end and persists the cycle
// summary. An error return means the cycle aborted before or during the
// writes; enrichment failures are never errors.
func (p *Pipeline) Run(ctx context.Context, date, region string) (*Summary, error) {
	sum := &Summary{
		Date:      date,
		Region:    region,
		StartedAt: p.now(),
		Entities:  map[string]*Counts{},
	}

	entries, err := p.src.Entries(ctx, date, region)
	if err != nil {
		return nil, fmt.Errorf("fetch entries %s/%s: %w", date, region, err)
	}
	sum.EntriesSeen = len(entries)
	if len(entries) == 0 {
		p.log.Info("no entries", zap.String("date", date), zap.String("region", region))
		sum.FinishedAt = p.now()
		return sum, nil
	}

	ents := Dedup(entries)

	cls, err := Classify(ctx, p.store, sortedIDs(ents.Horses), p.reenrich)
	if err != nil {
		return nil, err
	}
	sum.NewHorses = len(cls.New)

	toEnrich := append(append([]string(nil), cls.New...), cls.Retry...)
	enrich, err := p.fetcher.Enrich(ctx, ents.Horses, toEnrich)
	if err != nil {
		return nil, fmt.Errorf("enrichment interrupted: %w", err)
	}
	sum.Enrich = *enrich

	lineage := BuildLineage(ents.Horses)

	levels, err := NewWriter(p.store, p.log).Write(ctx, ents, lineage)
	sum.Levels = levels
	if err != nil {
		return sum, err
	}

	sum.Entities["courses"] = &Counts{Seen: len(ents.Courses)}
	sum.Entities["jockeys"] = &Counts{Seen: len(ents.Jockeys)}
	sum.Entities["trainers"] = &Counts{Seen: len(ents.Trainers)}
	sum.Entities["owners"] = &Counts{Seen: len(ents.Owners)}
	sum.Entities["horses"] = &Counts{Seen: len(ents.Horses)}
	sum.Entities["lineage"] = &Counts{Seen: len(lineage)}
	sum.Entities["races"] = &Counts{Seen: len(ents.Races)}
	sum.Entities["runners"] = &Counts{Seen: len(ents.Runners)}
	for _, l := range levels {
		if c, ok := sum.Entities[l.Table]; ok {
			c.Created += l.Result.Created
			c.Updated += l.Result.Updated
		}
	}

	sum.FinishedAt = p.now()

	if err := p.saveCycle(ctx, sum); err != nil {
		// The writes themselves succeeded; a failed summary row is
		// worth a log line, not a failed cycle.
		p.log.Error("save cycle summary", zap.Error(err))
	}

	p.log.Info("cycle complete",
		zap.String("date", date),
		zap.String("region", region),
		zap.Int("entries", sum.EntriesSeen),
		zap.Int("new_horses", sum.NewHorses),
		zap.Int("enrich_failed", sum.Enrich.Failed),
		zap.Int("conflicts", len(sum.Conflicts())))

	return sum, nil
}

func (p *Pipeline) saveCycle(ctx context.Context, sum *Summary) error {
	created, updated := sum.totals()

	var failures json.RawMessage
	if len(sum.Enrich.Failures) > 0 {
		b, err := json.Marshal(sum.Enrich.Failures)
		if err != nil {
			return err
		}
		failures = b
	}

	return p.store.SaveCycle(ctx, &models.Cycle{
		Date:              sum.Date,
		Region:            sum.Region,
		StartedAt:         sum.StartedAt,
		FinishedAt:        sum.FinishedAt,
		EntriesSeen:       sum.EntriesSeen,
		EnrichAttempted:   sum.Enrich.Attempted,
		EnrichSucceeded:   sum.Enrich.Succeeded,
		EnrichFailed:      sum.Enrich.Failed,
		LevelsApplied:     len(sum.Levels),
		RowsCreated:       created,
		RowsUpdated:       updated,
		WriteConflicts:    len(sum.Conflicts()),
		EnrichFailureList: failures,
	})
}
