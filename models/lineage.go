package models

import "github.com/uptrace/bun"

// Lineage relationship kinds. Sire and dam are generation 1,
// the maternal grandsire generation 2. The feed provides no
// deeper generations and none are inferred.
const (
	RelSire    = "sire"
	RelDam     = "dam"
	RelDamSire = "damsire"
)

// Lineage is a directed edge from a horse to one ancestor, unique per
// (horse, relation). The ancestor side is a plain identifier, not a
// foreign key.
type Lineage struct {
	bun.BaseModel `bun:"table:lineage,alias:l"`

	ID           int    `bun:"id,pk,autoincrement" json:"id"`
	HorseID      string `bun:"horse_id,notnull,unique:lineage_no_dupes" json:"horseID"`
	Relation     string `bun:"relation,notnull,unique:lineage_no_dupes" json:"relation"`
	AncestorID   string `bun:"ancestor_id,notnull" json:"ancestorID"`
	AncestorName string `bun:"ancestor_name,notnull,default:''" json:"ancestorName"`
	Generation   int    `bun:"generation,notnull" json:"generation"`
}
