package models

import "github.com/uptrace/bun"

// Trainer holds trainer name and yard location.
type Trainer struct {
	bun.BaseModel `bun:"table:trainers,alias:t"`

	TrainerID string  `bun:"trainer_id,pk" json:"trainerID"`
	Name      string  `bun:"name,notnull" json:"name"`
	Location  *string `bun:"location" json:"location,omitempty"`
}
