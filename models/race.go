package models

import "github.com/uptrace/bun"

// Race represents one scheduled race on a card.
type Race struct {
	bun.BaseModel `bun:"table:races,alias:rc"`

	RaceID   string  `bun:"race_id,pk" json:"raceID"`
	CourseID string  `bun:"course_id,notnull" json:"courseID"`
	Date     string  `bun:"date,notnull,type:date" json:"date"`
	OffTime  string  `bun:"off_time,notnull" json:"offTime"`
	Name     string  `bun:"name,notnull,default:''" json:"name"`
	Class    *string `bun:"class" json:"class,omitempty"`
	Distance float64 `bun:"distance,notnull" json:"distance"`
	Going    *string `bun:"going" json:"going,omitempty"`
	Region   string  `bun:"region,notnull,default:''" json:"region"`

	Course *Course `bun:"rel:belongs-to,join:course_id=course_id" json:"-"`
}
