package db

import (
	"context"

	"github.com/padraicbc/rpingest/models"
	"github.com/padraicbc/rpingest/rollup"
)

// Ancestors returns every distinct ancestor referenced from lineage,
// keeping the longest recorded spelling of the name.
func (s *Store) Ancestors(ctx context.Context) ([]rollup.Ancestor, error) {
	type row struct {
		AncestorID string `bun:"ancestor_id"`
		Name       string `bun:"name"`
	}

	var rows []row
	err := s.db.NewRaw(`
		SELECT ancestor_id, MAX(ancestor_name) AS name
		FROM lineage
		GROUP BY ancestor_id
		ORDER BY ancestor_id`,
	).Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}

	out := make([]rollup.Ancestor, len(rows))
	for i, r := range rows {
		out[i] = rollup.Ancestor{ID: r.AncestorID, Name: r.Name}
	}
	return out, nil
}

// DescendantRuns returns all completed runs by horses whose lineage
// includes the ancestor.
func (s *Store) DescendantRuns(ctx context.Context, ancestorID string) ([]rollup.Run, error) {
	type row struct {
		Generation int     `bun:"generation"`
		Class      *string `bun:"class"`
		Distance   float64 `bun:"distance"`
		Position   int     `bun:"position"`
	}

	var rows []row
	err := s.db.NewRaw(`
		SELECT l.generation, rc.class, rc.distance, r.position
		FROM lineage l
		INNER JOIN runners r ON r.horse_id = l.horse_id
		INNER JOIN races  rc ON rc.race_id = r.race_id
		WHERE l.ancestor_id = ? AND r.position IS NOT NULL`,
		ancestorID,
	).Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}

	out := make([]rollup.Run, len(rows))
	for i, r := range rows {
		run := rollup.Run{
			Generation: r.Generation,
			Distance:   r.Distance,
			Position:   r.Position,
		}
		if r.Class != nil {
			run.Class = *r.Class
		}
		out[i] = run
	}
	return out, nil
}

// OwnCareer returns the ancestor's own completed runs and wins. An
// ancestor that never raced domestically has no runner rows and scores
// zero on both.
func (s *Store) OwnCareer(ctx context.Context, ancestorID string) (int, int, error) {
	var counts struct {
		Runs int `bun:"runs"`
		Wins int `bun:"wins"`
	}
	err := s.db.NewRaw(`
		SELECT COUNT(*) AS runs,
		       COUNT(*) FILTER (WHERE position = 1) AS wins
		FROM runners
		WHERE horse_id = ? AND position IS NOT NULL`,
		ancestorID,
	).Scan(ctx, &counts)
	if err != nil {
		return 0, 0, err
	}
	return counts.Runs, counts.Wins, nil
}

// ReplaceStats swaps in the full recomputed row for one ancestor.
func (s *Store) ReplaceStats(ctx context.Context, stats *models.AncestorStats) error {
	_, err := s.db.NewInsert().Model(stats).
		On("CONFLICT (ancestor_id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("own_runs = EXCLUDED.own_runs").
		Set("own_wins = EXCLUDED.own_wins").
		Set("progeny_runs = EXCLUDED.progeny_runs").
		Set("progeny_wins = EXCLUDED.progeny_wins").
		Set("progeny_win_rate = EXCLUDED.progeny_win_rate").
		Set("top_classes = EXCLUDED.top_classes").
		Set("top_distances = EXCLUDED.top_distances").
		Set("computed_at = EXCLUDED.computed_at").
		Exec(ctx)
	return err
}
