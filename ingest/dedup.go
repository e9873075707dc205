// Package ingest turns a batch of racecard entries into a deduplicated,
// dependency-ordered set of idempotent store writes. One Pipeline.Run is
// one ingestion cycle: dedup, novelty classification, profile
// enrichment, lineage derivation, then level-ordered upserts.
package ingest

import (
	"github.com/padraicbc/rpingest/models"
	"github.com/padraicbc/rpingest/racingapi"
)

// Entities is one batch folded into per-type unique sets keyed by
// external identifier. Values are pointers so enrichment can update
// horses in place before the write stage.
type Entities struct {
	Courses  map[string]*models.Course
	Jockeys  map[string]*models.Jockey
	Trainers map[string]*models.Trainer
	Owners   map[string]*models.Owner
	Horses   map[string]*models.Horse
	Races    map[string]*models.Race
	// Runners are keyed by raceID+"|"+horseID.
	Runners map[string]*models.Runner
}

// Dedup folds a batch of entries into unique entity sets. Later
// occurrences of the same identifier overwrite earlier ones, and
// entries with a blank identifier for a role contribute nothing for
// that role. Single pass, no store access.
func Dedup(entries []racingapi.Entry) *Entities {
	ents := &Entities{
		Courses:  map[string]*models.Course{},
		Jockeys:  map[string]*models.Jockey{},
		Trainers: map[string]*models.Trainer{},
		Owners:   map[string]*models.Owner{},
		Horses:   map[string]*models.Horse{},
		Races:    map[string]*models.Race{},
		Runners:  map[string]*models.Runner{},
	}

	for _, e := range entries {
		if e.CourseID != "" {
			ents.Courses[e.CourseID] = &models.Course{
				CourseID: e.CourseID,
				Name:     e.Course,
				Region:   e.Region,
			}
		}
		if e.JockeyID != "" {
			ents.Jockeys[e.JockeyID] = &models.Jockey{JockeyID: e.JockeyID, Name: e.Jockey}
		}
		if e.TrainerID != "" {
			ents.Trainers[e.TrainerID] = &models.Trainer{
				TrainerID: e.TrainerID,
				Name:      e.Trainer,
				Location:  optStr(e.TrainerLocation),
			}
		}
		if e.OwnerID != "" {
			ents.Owners[e.OwnerID] = &models.Owner{OwnerID: e.OwnerID, Name: e.Owner}
		}
		if e.HorseID != "" {
			ents.Horses[e.HorseID] = &models.Horse{
				HorseID:     e.HorseID,
				Name:        e.Horse,
				Sex:         e.Sex,
				SireID:      e.SireID,
				SireName:    e.Sire,
				DamID:       e.DamID,
				DamName:     e.Dam,
				DamSireID:   e.DamsireID,
				DamSireName: e.Damsire,
			}
		}
		if e.RaceID != "" {
			ents.Races[e.RaceID] = &models.Race{
				RaceID:   e.RaceID,
				CourseID: e.CourseID,
				Date:     e.Date,
				OffTime:  e.OffTime,
				Name:     e.RaceName,
				Class:    optStr(e.RaceClass),
				Distance: e.DistanceF,
				Going:    optStr(e.Going),
				Region:   e.Region,
			}
		}
		if e.RaceID != "" && e.HorseID != "" {
			jockeyID, trainerID, ownerID := e.JockeyID, e.TrainerID, e.OwnerID
			ents.Runners[e.RaceID+"|"+e.HorseID] = &models.Runner{
				RaceID:  e.RaceID,
				HorseID: e.HorseID,
				// Blank role references survive to the writer, which
				// coerces them to NULL before the level-4 upsert.
				JockeyID:       &jockeyID,
				TrainerID:      &trainerID,
				OwnerID:        &ownerID,
				Number:         e.Number,
				Draw:           e.Draw,
				Age:            e.Age,
				WeightCarried:  e.Lbs,
				OfficialRating: e.OfficialRating,
				Headgear:       optStr(e.Headgear),
				Position:       e.Position,
				DistanceBehind: e.BeatenDistance,
				StartingPrice:  optStr(e.StartingPrice),
			}
		}
	}

	return ents
}

// optStr maps "" to nil so absent text lands as NULL.
func optStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
