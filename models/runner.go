package models

import "github.com/uptrace/bun"

// Runner is one horse's participation in one race. Role references are
// nullable: a card with no declared jockey stores NULL, never "".
// Outcome columns stay NULL until the results pass updates the row in
// place.
type Runner struct {
	bun.BaseModel `bun:"table:runners,alias:r"`

	ID      int    `bun:"id,pk,autoincrement" json:"id"`
	RaceID  string `bun:"race_id,notnull,unique:runners_no_dupes" json:"raceID"`
	HorseID string `bun:"horse_id,notnull,unique:runners_no_dupes" json:"horseID"`

	JockeyID  *string `bun:"jockey_id" json:"jockeyID,omitempty"`
	TrainerID *string `bun:"trainer_id" json:"trainerID,omitempty"`
	OwnerID   *string `bun:"owner_id" json:"ownerID,omitempty"`

	Number         int     `bun:"number,notnull,default:0" json:"number"`
	Draw           *int    `bun:"draw" json:"draw,omitempty"`
	Age            int     `bun:"age,notnull,default:0" json:"age"`
	WeightCarried  *int    `bun:"weight_carried" json:"weightCarried,omitempty"`
	OfficialRating *int    `bun:"official_rating" json:"officialRating,omitempty"`
	Headgear       *string `bun:"headgear" json:"headgear,omitempty"`

	Position       *int     `bun:"position" json:"position,omitempty"`
	DistanceBehind *float64 `bun:"distance_behind" json:"distanceBehind,omitempty"`
	StartingPrice  *string  `bun:"starting_price" json:"startingPrice,omitempty"`
}
