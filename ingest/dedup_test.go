package ingest

import (
	"testing"

	"github.com/padraicbc/rpingest/racingapi"
)

func entry(raceID, horseID, horseName string) racingapi.Entry {
	return racingapi.Entry{
		RaceID:    raceID,
		CourseID:  "crs_1",
		Course:    "Naas",
		Region:    "ire",
		Date:      "2026-08-31",
		OffTime:   "14:05",
		DistanceF: 7,
		HorseID:   horseID,
		Horse:     horseName,
		Sex:       "F",
		JockeyID:  "jky_1",
		Jockey:    "R Moore",
		TrainerID: "trn_1",
		Trainer:   "A O'Brien",
		OwnerID:   "own_1",
		Owner:     "Coolmore",
		SireID:    "hrs_s1",
		Sire:      "Galileo",
		DamID:     "hrs_d1",
		Dam:       "Quarter Moon",
	}
}

func TestDedup_LastWriteWins(t *testing.T) {
	entries := []racingapi.Entry{
		entry("rac_1", "hrs_1", "Dancer"),
		entry("rac_2", "hrs_1", "Dancer"),
		entry("rac_3", "hrs_1", "Dancer (IRE)"),
	}

	ents := Dedup(entries)

	if len(ents.Horses) != 1 {
		t.Fatalf("expected 1 horse, got %d", len(ents.Horses))
	}
	h := ents.Horses["hrs_1"]
	if h == nil {
		t.Fatal("horse hrs_1 missing")
	}
	if h.Name != "Dancer (IRE)" {
		t.Errorf("expected last name to win, got %q", h.Name)
	}
	if len(ents.Runners) != 3 {
		t.Errorf("expected 3 runners (one per race), got %d", len(ents.Runners))
	}
}

func TestDedup_RunnerCollapsesOnRaceAndHorse(t *testing.T) {
	e1 := entry("rac_1", "hrs_1", "Dancer")
	e2 := entry("rac_1", "hrs_1", "Dancer")
	pos := 1
	e2.Position = &pos

	ents := Dedup([]racingapi.Entry{e1, e2})

	if len(ents.Runners) != 1 {
		t.Fatalf("expected 1 runner, got %d", len(ents.Runners))
	}
	r := ents.Runners["rac_1|hrs_1"]
	if r.Position == nil || *r.Position != 1 {
		t.Error("later occurrence should overwrite the earlier one")
	}
}

func TestDedup_BlankIdentifiersDropped(t *testing.T) {
	e := entry("rac_1", "hrs_1", "Dancer")
	e.JockeyID = ""
	e.OwnerID = ""
	e.SireID = ""

	blankHorse := entry("rac_1", "", "Ghost")

	ents := Dedup([]racingapi.Entry{e, blankHorse})

	if len(ents.Jockeys) != 0 {
		t.Errorf("blank jockey id should produce no entity, got %d", len(ents.Jockeys))
	}
	if len(ents.Owners) != 0 {
		t.Errorf("blank owner id should produce no entity, got %d", len(ents.Owners))
	}
	if len(ents.Horses) != 1 {
		t.Errorf("blank horse id should produce no entity, got %d horses", len(ents.Horses))
	}
	if len(ents.Trainers) != 1 {
		t.Errorf("expected trainer kept, got %d", len(ents.Trainers))
	}
	// The runner row still exists with the blank jockey carried through
	// for the writer to coerce.
	r := ents.Runners["rac_1|hrs_1"]
	if r == nil {
		t.Fatal("runner missing")
	}
	if r.JockeyID == nil || *r.JockeyID != "" {
		t.Error("blank jockey ref should survive dedup untouched")
	}
}
