// Package rollup recomputes per-ancestor aggregate statistics from the
// full lineage and runner history. It runs as its own job on a lower
// cadence than ingestion and replaces each ancestor's row wholesale;
// there is no incremental merge. Actual-vs-expected and profit/loss
// figures need market-implied probabilities and are not computed.
package rollup

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/padraicbc/rpingest/models"
)

// Ancestor is one distinct ancestor identifier from the lineage table.
type Ancestor struct {
	ID   string
	Name string
}

// Run is one completed start by a descendant of an ancestor: the
// lineage generation, the race's class and distance, and the finishing
// position.
type Run struct {
	Generation int
	Class      string
	Distance   float64
	Position   int
}

// Store is the read/write contract the engine needs.
type Store interface {
	// Ancestors returns every distinct ancestor referenced by lineage.
	Ancestors(ctx context.Context) ([]Ancestor, error)
	// DescendantRuns returns all completed runs by horses whose lineage
	// includes the ancestor. Card-only entries without a finishing
	// position are excluded.
	DescendantRuns(ctx context.Context, ancestorID string) ([]Run, error)
	// OwnCareer returns the ancestor's own completed runs and wins, zero
	// if it never raced domestically.
	OwnCareer(ctx context.Context, ancestorID string) (runs, wins int, err error)
	// ReplaceStats upserts the full recomputed row for one ancestor.
	ReplaceStats(ctx context.Context, stats *models.AncestorStats) error
}

// Report summarizes one rollup run.
type Report struct {
	Ancestors int
	Failed    int
	Elapsed   time.Duration
}

// Engine recomputes ancestor statistics.
type Engine struct {
	store Store
	log   *zap.Logger
	now   func() time.Time
}

// New builds an Engine over the given store.
func New(store Store, log *zap.Logger) *Engine {
	return &Engine{store: store, log: log, now: time.Now}
}

// Run recomputes statistics for every ancestor. A failure on one
// ancestor is logged and counted but does not stop the rest.
func (e *Engine) Run(ctx context.Context) (*Report, error) {
	start := e.now()

	ancestors, err := e.store.Ancestors(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ancestors: %w", err)
	}

	rep := &Report{}
	for _, a := range ancestors {
		if err := e.recompute(ctx, a); err != nil {
			rep.Failed++
			e.log.Error("rollup ancestor failed",
				zap.String("ancestor_id", a.ID), zap.Error(err))
			continue
		}
		rep.Ancestors++
	}

	rep.Elapsed = e.now().Sub(start)
	e.log.Info("rollup complete",
		zap.Int("ancestors", rep.Ancestors),
		zap.Int("failed", rep.Failed),
		zap.Duration("elapsed", rep.Elapsed))
	return rep, nil
}

func (e *Engine) recompute(ctx context.Context, a Ancestor) error {
	runs, err := e.store.DescendantRuns(ctx, a.ID)
	if err != nil {
		return err
	}
	ownRuns, ownWins, err := e.store.OwnCareer(ctx, a.ID)
	if err != nil {
		return err
	}

	stats := aggregate(a, runs)
	stats.OwnRuns = ownRuns
	stats.OwnWins = ownWins
	stats.ComputedAt = e.now()

	return e.store.ReplaceStats(ctx, stats)
}

type bucket struct {
	runs int
	wins int
}

// aggregate folds descendant runs into totals plus the top-3 class and
// distance-band breakdowns by win rate.
func aggregate(a Ancestor, runs []Run) *models.AncestorStats {
	stats := &models.AncestorStats{AncestorID: a.ID, Name: a.Name}

	byClass := map[string]*bucket{}
	byBand := map[string]*bucket{}
	for _, r := range runs {
		stats.ProgenyRuns++
		won := r.Position == 1
		if won {
			stats.ProgenyWins++
		}
		if r.Class != "" {
			tally(byClass, r.Class, won)
		}
		tally(byBand, DistanceBand(r.Distance), won)
	}
	if stats.ProgenyRuns > 0 {
		stats.ProgenyWinRate = float64(stats.ProgenyWins) / float64(stats.ProgenyRuns)
	}

	stats.TopClasses = marshalTop(topN(byClass, 3))
	stats.TopDistances = marshalTop(topN(byBand, 3))
	return stats
}

func tally(m map[string]*bucket, key string, won bool) {
	b, ok := m[key]
	if !ok {
		b = &bucket{}
		m[key] = b
	}
	b.runs++
	if won {
		b.wins++
	}
}

// topN ranks buckets by win rate, then run count, then key.
func topN(m map[string]*bucket, n int) []models.BreakdownEntry {
	out := make([]models.BreakdownEntry, 0, len(m))
	for key, b := range m {
		out = append(out, models.BreakdownEntry{
			Key:     key,
			Runs:    b.runs,
			Wins:    b.wins,
			WinRate: float64(b.wins) / float64(b.runs),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WinRate != out[j].WinRate {
			return out[i].WinRate > out[j].WinRate
		}
		if out[i].Runs != out[j].Runs {
			return out[i].Runs > out[j].Runs
		}
		return out[i].Key < out[j].Key
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func marshalTop(entries []models.BreakdownEntry) json.RawMessage {
	if len(entries) == 0 {
		return nil
	}
	b, err := json.Marshal(entries)
	if err != nil {
		return nil
	}
	return b
}

// DistanceBand maps a distance in furlongs onto a reporting band.
func DistanceBand(furlongs float64) string {
	switch {
	case furlongs <= 6:
		return "5-6f"
	case furlongs <= 8:
		return "6-8f"
	case furlongs <= 10:
		return "8-10f"
	case furlongs <= 12:
		return "10-12f"
	case furlongs <= 14:
		return "12-14f"
	default:
		return "14f+"
	}
}
