package models

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
)

// AncestorStats holds the full-recompute aggregates for one ancestor:
// its own career plus totals over every horse whose lineage points at
// it. TopClasses/TopDistances are the top-3 breakdowns by win rate,
// stored as JSON arrays of BreakdownEntry.
type AncestorStats struct {
	bun.BaseModel `bun:"table:ancestor_stats,alias:a"`

	AncestorID string `bun:"ancestor_id,pk" json:"ancestorID"`
	Name       string `bun:"name,notnull,default:''" json:"name"`

	OwnRuns int `bun:"own_runs,notnull,default:0" json:"ownRuns"`
	OwnWins int `bun:"own_wins,notnull,default:0" json:"ownWins"`

	ProgenyRuns    int     `bun:"progeny_runs,notnull,default:0" json:"progenyRuns"`
	ProgenyWins    int     `bun:"progeny_wins,notnull,default:0" json:"progenyWins"`
	ProgenyWinRate float64 `bun:"progeny_win_rate,notnull,default:0" json:"progenyWinRate"`

	TopClasses   json.RawMessage `bun:"top_classes,type:jsonb" json:"topClasses,omitempty"`
	TopDistances json.RawMessage `bun:"top_distances,type:jsonb" json:"topDistances,omitempty"`

	ComputedAt time.Time `bun:"computed_at,notnull" json:"computedAt"`
}

// BreakdownEntry is one class or distance-band bucket inside a
// top-N breakdown.
type BreakdownEntry struct {
	Key     string  `json:"key"`
	Runs    int     `json:"runs"`
	Wins    int     `json:"wins"`
	WinRate float64 `json:"winRate"`
}
