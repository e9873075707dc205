package ingest

import (
	"context"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/padraicbc/rpingest/racingapi"
)

func TestWriter_LevelOrder(t *testing.T) {
	store := newFakeStore()
	ents := Dedup([]racingapi.Entry{entry("rac_1", "hrs_1", "Dancer")})
	lineage := BuildLineage(ents.Horses)

	w := NewWriter(store, zap.NewNop())
	reports, err := w.Write(context.Background(), ents, lineage)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"courses", "jockeys", "trainers", "owners", "horses", "lineage", "races", "runners"}
	if !reflect.DeepEqual(store.order, want) {
		t.Errorf("write order = %v, want %v", store.order, want)
	}
	if len(store.refErrs) != 0 {
		t.Errorf("dependency violations: %v", store.refErrs)
	}
	if len(reports) != len(want) {
		t.Errorf("expected %d level reports, got %d", len(want), len(reports))
	}
	for i := 1; i < len(reports); i++ {
		if reports[i].Level < reports[i-1].Level {
			t.Errorf("levels out of order: %v then %v", reports[i-1], reports[i])
		}
	}
}

func TestWriter_CoercesBlankRefsToNull(t *testing.T) {
	e := entry("rac_1", "hrs_1", "Dancer")
	e.JockeyID = ""
	e.OwnerID = ""
	ents := Dedup([]racingapi.Entry{e})

	store := newFakeStore()
	w := NewWriter(store, zap.NewNop())
	if _, err := w.Write(context.Background(), ents, nil); err != nil {
		t.Fatal(err)
	}

	r, ok := store.runners["rac_1|hrs_1"]
	if !ok {
		t.Fatal("runner not written")
	}
	if r.JockeyID != nil {
		t.Errorf("blank jockey must be stored as null, got %q", *r.JockeyID)
	}
	if r.OwnerID != nil {
		t.Errorf("blank owner must be stored as null, got %q", *r.OwnerID)
	}
	if r.TrainerID == nil || *r.TrainerID != "trn_1" {
		t.Error("non-blank trainer ref must survive")
	}
}

func TestWriter_ConflictSkipsRowNotLevel(t *testing.T) {
	ents := Dedup([]racingapi.Entry{
		entry("rac_1", "hrs_1", "Dancer"),
		entry("rac_1", "hrs_2", "Prancer"),
	})

	store := newFakeStore()
	store.failKeys["runners|rac_1|hrs_1"] = true

	w := NewWriter(store, zap.NewNop())
	reports, err := w.Write(context.Background(), ents, nil)
	if err != nil {
		t.Fatal(err)
	}

	var conflicts []WriteConflict
	var runnersCreated int
	for _, rep := range reports {
		conflicts = append(conflicts, rep.Result.Conflicts...)
		if rep.Table == "runners" {
			runnersCreated = rep.Result.Created
		}
	}
	if len(conflicts) != 1 || conflicts[0].Table != "runners" {
		t.Fatalf("conflicts = %+v", conflicts)
	}
	if runnersCreated != 1 {
		t.Errorf("the clean row should still be written, created = %d", runnersCreated)
	}
}
