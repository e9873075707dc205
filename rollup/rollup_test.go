package rollup

import (
	"context"
	"encoding/json"
	"testing"

	"go.uber.org/zap"

	"github.com/padraicbc/rpingest/models"
)

type fakeStore struct {
	ancestors []Ancestor
	runs      map[string][]Run
	careers   map[string][2]int

	replaced map[string]*models.AncestorStats
}

func (s *fakeStore) Ancestors(context.Context) ([]Ancestor, error) {
	return s.ancestors, nil
}

func (s *fakeStore) DescendantRuns(_ context.Context, id string) ([]Run, error) {
	return s.runs[id], nil
}

func (s *fakeStore) OwnCareer(_ context.Context, id string) (int, int, error) {
	c := s.careers[id]
	return c[0], c[1], nil
}

func (s *fakeStore) ReplaceStats(_ context.Context, stats *models.AncestorStats) error {
	if s.replaced == nil {
		s.replaced = map[string]*models.AncestorStats{}
	}
	s.replaced[stats.AncestorID] = stats
	return nil
}

func TestEngine_AggregatesTotals(t *testing.T) {
	store := &fakeStore{
		ancestors: []Ancestor{{ID: "hrs_s1", Name: "Galileo"}},
		runs: map[string][]Run{
			"hrs_s1": {
				{Generation: 1, Class: "Class 1", Distance: 7, Position: 1},
				{Generation: 1, Class: "Class 1", Distance: 7, Position: 4},
				{Generation: 1, Class: "Class 3", Distance: 12, Position: 1},
				{Generation: 2, Class: "Class 3", Distance: 12, Position: 2},
			},
		},
		careers: map[string][2]int{"hrs_s1": {10, 6}},
	}

	rep, err := New(store, zap.NewNop()).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if rep.Ancestors != 1 || rep.Failed != 0 {
		t.Fatalf("report = %+v", rep)
	}

	stats := store.replaced["hrs_s1"]
	if stats == nil {
		t.Fatal("stats not replaced")
	}
	if stats.ProgenyRuns != 4 || stats.ProgenyWins != 2 {
		t.Errorf("runs/wins = %d/%d", stats.ProgenyRuns, stats.ProgenyWins)
	}
	if stats.ProgenyWinRate != 0.5 {
		t.Errorf("win rate = %v", stats.ProgenyWinRate)
	}
	if stats.OwnRuns != 10 || stats.OwnWins != 6 {
		t.Errorf("own career = %d/%d", stats.OwnRuns, stats.OwnWins)
	}
	if stats.ComputedAt.IsZero() {
		t.Error("computed_at not set")
	}
}

func TestEngine_TopThreeByWinRate(t *testing.T) {
	runs := []Run{
		// Class 1: 1/1, Class 2: 1/2, Class 3: 0/1, Class 4: 0/1.
		{Class: "Class 1", Distance: 7, Position: 1},
		{Class: "Class 2", Distance: 7, Position: 1},
		{Class: "Class 2", Distance: 7, Position: 3},
		{Class: "Class 3", Distance: 7, Position: 5},
		{Class: "Class 4", Distance: 7, Position: 9},
	}
	store := &fakeStore{
		ancestors: []Ancestor{{ID: "hrs_s1"}},
		runs:      map[string][]Run{"hrs_s1": runs},
	}

	if _, err := New(store, zap.NewNop()).Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	var top []models.BreakdownEntry
	if err := json.Unmarshal(store.replaced["hrs_s1"].TopClasses, &top); err != nil {
		t.Fatal(err)
	}
	if len(top) != 3 {
		t.Fatalf("expected top 3, got %d", len(top))
	}
	if top[0].Key != "Class 1" || top[0].WinRate != 1 {
		t.Errorf("first = %+v", top[0])
	}
	if top[1].Key != "Class 2" || top[1].Runs != 2 || top[1].Wins != 1 {
		t.Errorf("second = %+v", top[1])
	}
	// Classes 3 and 4 tie at zero; the key breaks the tie.
	if top[2].Key != "Class 3" {
		t.Errorf("third = %+v", top[2])
	}
}

func TestEngine_NoRunsAncestor(t *testing.T) {
	store := &fakeStore{ancestors: []Ancestor{{ID: "hrs_d1", Name: "Quarter Moon"}}}

	if _, err := New(store, zap.NewNop()).Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	stats := store.replaced["hrs_d1"]
	if stats.ProgenyRuns != 0 || stats.ProgenyWinRate != 0 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.TopClasses != nil || stats.TopDistances != nil {
		t.Error("empty breakdowns should marshal as null")
	}
}

func TestDistanceBand(t *testing.T) {
	cases := []struct {
		furlongs float64
		want     string
	}{
		{5, "5-6f"},
		{6, "5-6f"},
		{7, "6-8f"},
		{8.5, "8-10f"},
		{12, "10-12f"},
		{13, "12-14f"},
		{16, "14f+"},
	}
	for _, c := range cases {
		if got := DistanceBand(c.furlongs); got != c.want {
			t.Errorf("DistanceBand(%v) = %q, want %q", c.furlongs, got, c.want)
		}
	}
}
