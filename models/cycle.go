package models

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
)

// Cycle records one ingestion run's summary so operational history can
// be queried after the fact.
type Cycle struct {
	bun.BaseModel `bun:"table:ingest_cycles,alias:ic"`

	ID         int       `bun:"id,pk,autoincrement" json:"id"`
	Date       string    `bun:"date,notnull,type:date" json:"date"`
	Region     string    `bun:"region,notnull,default:''" json:"region"`
	StartedAt  time.Time `bun:"started_at,notnull" json:"startedAt"`
	FinishedAt time.Time `bun:"finished_at,notnull" json:"finishedAt"`

	EntriesSeen       int             `bun:"entries_seen,notnull,default:0" json:"entriesSeen"`
	EnrichAttempted   int             `bun:"enrich_attempted,notnull,default:0" json:"enrichAttempted"`
	EnrichSucceeded   int             `bun:"enrich_succeeded,notnull,default:0" json:"enrichSucceeded"`
	EnrichFailed      int             `bun:"enrich_failed,notnull,default:0" json:"enrichFailed"`
	LevelsApplied     int             `bun:"levels_applied,notnull,default:0" json:"levelsApplied"`
	RowsCreated       int             `bun:"rows_created,notnull,default:0" json:"rowsCreated"`
	RowsUpdated       int             `bun:"rows_updated,notnull,default:0" json:"rowsUpdated"`
	WriteConflicts    int             `bun:"write_conflicts,notnull,default:0" json:"writeConflicts"`
	EnrichFailureList json.RawMessage `bun:"enrich_failure_list,type:jsonb" json:"enrichFailureList,omitempty"`
}
