package models

import "github.com/uptrace/bun"

// Jockey is a rider referenced by runners.
type Jockey struct {
	bun.BaseModel `bun:"table:jockeys,alias:j"`

	JockeyID string `bun:"jockey_id,pk" json:"jockeyID"`
	Name     string `bun:"name,notnull" json:"name"`
}
