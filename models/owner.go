package models

import "github.com/uptrace/bun"

// Owner is the registered owner of a horse.
type Owner struct {
	bun.BaseModel `bun:"table:owners,alias:o"`

	OwnerID string `bun:"owner_id,pk" json:"ownerID"`
	Name    string `bun:"name,notnull" json:"name"`
}
