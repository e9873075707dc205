package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/padraicbc/rpingest/models"
	"github.com/padraicbc/rpingest/racingapi"
)

// fakeStore is an in-memory Store mirroring the real upsert semantics:
// create on first sight, merge on conflict, with enrichment and outcome
// columns preserved against incoming nulls. It records upsert order and
// flags any write referencing an identifier not yet present.
type fakeStore struct {
	order []string

	courses  map[string]models.Course
	jockeys  map[string]models.Jockey
	trainers map[string]models.Trainer
	owners   map[string]models.Owner
	horses   map[string]models.Horse
	lineage  map[string]models.Lineage
	races    map[string]models.Race
	runners  map[string]models.Runner
	cycles   []models.Cycle

	// failKeys simulates per-row constraint violations: table|key.
	failKeys map[string]bool
	// refErrs collects dependency-order violations observed at write time.
	refErrs []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		courses:  map[string]models.Course{},
		jockeys:  map[string]models.Jockey{},
		trainers: map[string]models.Trainer{},
		owners:   map[string]models.Owner{},
		horses:   map[string]models.Horse{},
		lineage:  map[string]models.Lineage{},
		races:    map[string]models.Race{},
		runners:  map[string]models.Runner{},
		failKeys: map[string]bool{},
	}
}

func (s *fakeStore) KnownHorseIDs(_ context.Context, ids []string) (map[string]struct{}, error) {
	known := map[string]struct{}{}
	for _, id := range ids {
		if _, ok := s.horses[id]; ok {
			known[id] = struct{}{}
		}
	}
	return known, nil
}

func (s *fakeStore) UnenrichedHorseIDs(_ context.Context, ids []string) ([]string, error) {
	var out []string
	for _, id := range ids {
		if h, ok := s.horses[id]; ok && !h.Enriched {
			out = append(out, id)
		}
	}
	return out, nil
}

func upsertFake[T any](s *fakeStore, table string, m map[string]T, rows []T, key func(T) string, merge func(old, in T) T) (WriteResult, error) {
	s.order = append(s.order, table)
	var res WriteResult
	for _, in := range rows {
		k := key(in)
		if s.failKeys[table+"|"+k] {
			res.Conflicts = append(res.Conflicts, WriteConflict{Table: table, Key: k, Reason: "constraint violation"})
			continue
		}
		if old, ok := m[k]; ok {
			m[k] = merge(old, in)
			res.Updated++
		} else {
			m[k] = in
			res.Created++
		}
	}
	return res, nil
}

func (s *fakeStore) UpsertCourses(_ context.Context, rows []models.Course) (WriteResult, error) {
	return upsertFake(s, "courses", s.courses, rows,
		func(r models.Course) string { return r.CourseID },
		func(old, in models.Course) models.Course {
			// latitude/longitude are protected.
			if in.Latitude == nil {
				in.Latitude = old.Latitude
			}
			if in.Longitude == nil {
				in.Longitude = old.Longitude
			}
			return in
		})
}

func (s *fakeStore) UpsertJockeys(_ context.Context, rows []models.Jockey) (WriteResult, error) {
	return upsertFake(s, "jockeys", s.jockeys, rows,
		func(r models.Jockey) string { return r.JockeyID },
		func(_, in models.Jockey) models.Jockey { return in })
}

func (s *fakeStore) UpsertTrainers(_ context.Context, rows []models.Trainer) (WriteResult, error) {
	return upsertFake(s, "trainers", s.trainers, rows,
		func(r models.Trainer) string { return r.TrainerID },
		func(_, in models.Trainer) models.Trainer { return in })
}

func (s *fakeStore) UpsertOwners(_ context.Context, rows []models.Owner) (WriteResult, error) {
	return upsertFake(s, "owners", s.owners, rows,
		func(r models.Owner) string { return r.OwnerID },
		func(_, in models.Owner) models.Owner { return in })
}

func (s *fakeStore) UpsertHorses(_ context.Context, rows []models.Horse) (WriteResult, error) {
	return upsertFake(s, "horses", s.horses, rows,
		func(r models.Horse) string { return r.HorseID },
		func(old, in models.Horse) models.Horse {
			in.Enriched = old.Enriched || in.Enriched
			if in.FoaledOn == nil {
				in.FoaledOn = old.FoaledOn
			}
			if in.Colour == nil {
				in.Colour = old.Colour
			}
			if in.Breeder == nil {
				in.Breeder = old.Breeder
			}
			if in.Region == nil {
				in.Region = old.Region
			}
			if in.SireID == "" {
				in.SireID, in.SireName = old.SireID, old.SireName
			}
			if in.DamID == "" {
				in.DamID, in.DamName = old.DamID, old.DamName
			}
			if in.DamSireID == "" {
				in.DamSireID, in.DamSireName = old.DamSireID, old.DamSireName
			}
			return in
		})
}

func (s *fakeStore) UpsertLineage(_ context.Context, rows []models.Lineage) (WriteResult, error) {
	for _, l := range rows {
		if _, ok := s.horses[l.HorseID]; !ok {
			s.refErrs = append(s.refErrs, fmt.Sprintf("lineage %s references missing horse", l.HorseID))
		}
	}
	return upsertFake(s, "lineage", s.lineage, rows,
		func(r models.Lineage) string { return r.HorseID + "|" + r.Relation },
		func(_, in models.Lineage) models.Lineage { return in })
}

func (s *fakeStore) UpsertRaces(_ context.Context, rows []models.Race) (WriteResult, error) {
	for _, r := range rows {
		if _, ok := s.courses[r.CourseID]; !ok {
			s.refErrs = append(s.refErrs, fmt.Sprintf("race %s references missing course %s", r.RaceID, r.CourseID))
		}
	}
	return upsertFake(s, "races", s.races, rows,
		func(r models.Race) string { return r.RaceID },
		func(_, in models.Race) models.Race { return in })
}

func (s *fakeStore) UpsertRunners(_ context.Context, rows []models.Runner) (WriteResult, error) {
	for _, r := range rows {
		if _, ok := s.horses[r.HorseID]; !ok {
			s.refErrs = append(s.refErrs, fmt.Sprintf("runner references missing horse %s", r.HorseID))
		}
		if _, ok := s.races[r.RaceID]; !ok {
			s.refErrs = append(s.refErrs, fmt.Sprintf("runner references missing race %s", r.RaceID))
		}
		if r.JockeyID != nil {
			if _, ok := s.jockeys[*r.JockeyID]; !ok {
				s.refErrs = append(s.refErrs, fmt.Sprintf("runner references missing jockey %s", *r.JockeyID))
			}
		}
	}
	return upsertFake(s, "runners", s.runners, rows,
		func(r models.Runner) string { return r.RaceID + "|" + r.HorseID },
		func(old, in models.Runner) models.Runner {
			if in.Position == nil {
				in.Position = old.Position
			}
			if in.DistanceBehind == nil {
				in.DistanceBehind = old.DistanceBehind
			}
			if in.StartingPrice == nil {
				in.StartingPrice = old.StartingPrice
			}
			return in
		})
}

func (s *fakeStore) SaveCycle(_ context.Context, c *models.Cycle) error {
	s.cycles = append(s.cycles, *c)
	return nil
}

// fakeSource serves canned entries and profiles, counting profile calls
// per horse.
type fakeSource struct {
	entries  map[string][]racingapi.Entry
	profiles map[string]*racingapi.Profile
	errs     map[string]error

	profileCalls map[string]int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		entries:      map[string][]racingapi.Entry{},
		profiles:     map[string]*racingapi.Profile{},
		errs:         map[string]error{},
		profileCalls: map[string]int{},
	}
}

func (s *fakeSource) Entries(_ context.Context, date, region string) ([]racingapi.Entry, error) {
	return s.entries[date+"|"+region], nil
}

func (s *fakeSource) Profile(_ context.Context, horseID string) (*racingapi.Profile, error) {
	s.profileCalls[horseID]++
	if err, ok := s.errs[horseID]; ok {
		return nil, err
	}
	if p, ok := s.profiles[horseID]; ok {
		return p, nil
	}
	return nil, errors.New("no such horse")
}

// fakePacer never blocks.
type fakePacer struct{ waits int }

func (p *fakePacer) Wait(context.Context) error {
	p.waits++
	return nil
}
