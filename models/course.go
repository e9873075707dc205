package models

import "github.com/uptrace/bun"

// Course represents a racecourse as supplied by the racing API.
// Latitude/longitude are filled in by hand and protected from being
// blanked by later feed upserts.
type Course struct {
	bun.BaseModel `bun:"table:courses,alias:c"`

	CourseID  string   `bun:"course_id,pk" json:"courseID"`
	Name      string   `bun:"name,notnull" json:"name"`
	Region    string   `bun:"region,notnull,default:''" json:"region"`
	Surface   *string  `bun:"surface" json:"surface,omitempty"`
	Latitude  *float64 `bun:"latitude" json:"latitude,omitempty"`
	Longitude *float64 `bun:"longitude" json:"longitude,omitempty"`
}
