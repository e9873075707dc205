package models

import "github.com/uptrace/bun"

// Horse represents a racehorse. Name and sex come from every racecard
// entry; the remaining columns are only populated once the profile
// lookup has succeeded, at which point Enriched flips to true and the
// store never lets a later minimal upsert blank them again.
type Horse struct {
	bun.BaseModel `bun:"table:horses,alias:h"`

	HorseID  string `bun:"horse_id,pk" json:"horseID"`
	Name     string `bun:"name,notnull" json:"name"`
	Sex      string `bun:"sex,notnull,default:''" json:"sex"`
	Enriched bool   `bun:"enriched,notnull,default:false" json:"enriched"`

	FoaledOn *string `bun:"foaled_on,type:date" json:"foaledOn,omitempty"`
	Colour   *string `bun:"colour" json:"colour,omitempty"`
	Breeder  *string `bun:"breeder" json:"breeder,omitempty"`
	Region   *string `bun:"region" json:"region,omitempty"`

	// Ancestor identifiers are plain values, not foreign keys: a sire
	// may never have raced domestically and so never gets a horses row.
	SireID      string `bun:"sire_id,notnull,default:''" json:"sireID,omitempty"`
	SireName    string `bun:"sire_name,notnull,default:''" json:"sireName,omitempty"`
	DamID       string `bun:"dam_id,notnull,default:''" json:"damID,omitempty"`
	DamName     string `bun:"dam_name,notnull,default:''" json:"damName,omitempty"`
	DamSireID   string `bun:"damsire_id,notnull,default:''" json:"damsireID,omitempty"`
	DamSireName string `bun:"damsire_name,notnull,default:''" json:"damsireName,omitempty"`
}
