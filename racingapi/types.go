// Package racingapi wraps the external racing data feed. It exposes the
// two lookups the pipeline consumes (racecard entries for a date/region
// and a per-horse profile) behind the Source interface so the pipeline
// can run against fakes in tests.
package racingapi

import "context"

// Entry is one horse's participation in one scheduled race, exactly as
// the feed's JSON maps onto it. Role identifiers may be empty when the
// card has no declared jockey/trainer/owner; downstream code treats ""
// as absent.
type Entry struct {
	// Race / card fields.
	RaceID     string  `json:"race_id"`
	CourseID   string  `json:"course_id"`
	Course     string  `json:"course"`
	Region     string  `json:"region"`
	Date       string  `json:"date"`
	OffTime    string  `json:"off_time"`
	RaceName   string  `json:"race_name"`
	RaceClass  string  `json:"race_class"`
	DistanceF  float64 `json:"distance_f"`
	Going      string  `json:"going"`

	// Horse fields.
	HorseID string `json:"horse_id"`
	Horse   string `json:"horse"`
	Sex     string `json:"sex"`
	Age     int    `json:"age"`

	// People.
	JockeyID        string `json:"jockey_id"`
	Jockey          string `json:"jockey"`
	TrainerID       string `json:"trainer_id"`
	Trainer         string `json:"trainer"`
	TrainerLocation string `json:"trainer_location"`
	OwnerID         string `json:"owner_id"`
	Owner           string `json:"owner"`

	// Embedded pedigree (depth the feed provides, nothing deeper).
	SireID    string `json:"sire_id"`
	Sire      string `json:"sire"`
	DamID     string `json:"dam_id"`
	Dam       string `json:"dam"`
	DamsireID string `json:"damsire_id"`
	Damsire   string `json:"damsire"`

	// Card attributes.
	Number         int    `json:"number"`
	Draw           *int   `json:"draw,omitempty"`
	Lbs            *int   `json:"lbs,omitempty"`
	OfficialRating *int   `json:"ofr,omitempty"`
	Headgear       string `json:"headgear"`

	// Outcome fields, present only on the results pass.
	Position       *int     `json:"position,omitempty"`
	BeatenDistance *float64 `json:"btn,omitempty"`
	StartingPrice  string   `json:"sp,omitempty"`
}

// Profile is the extended record returned by the per-horse lookup.
type Profile struct {
	HorseID  string `json:"horse_id"`
	Name     string `json:"horse"`
	Sex      string `json:"sex"`
	FoaledOn string `json:"dob"`
	Colour   string `json:"colour"`
	Breeder  string `json:"breeder"`
	Region   string `json:"region"`

	SireID    string `json:"sire_id"`
	Sire      string `json:"sire"`
	DamID     string `json:"dam_id"`
	Dam       string `json:"dam"`
	DamsireID string `json:"damsire_id"`
	Damsire   string `json:"damsire"`
}

// Source is the feed boundary the pipeline depends on.
type Source interface {
	// Entries returns all racecard entries for a date (YYYY-MM-DD) and
	// region code.
	Entries(ctx context.Context, date, region string) ([]Entry, error)
	// Profile returns the extended record for one horse.
	Profile(ctx context.Context, horseID string) (*Profile, error)
}
