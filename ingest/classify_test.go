package ingest

import (
	"context"
	"reflect"
	"testing"

	"github.com/padraicbc/rpingest/models"
)

func TestClassify_PartitionsKnownAndNew(t *testing.T) {
	store := newFakeStore()
	store.horses["hrs_1"] = models.Horse{HorseID: "hrs_1", Enriched: true}

	cls, err := Classify(context.Background(), store, []string{"hrs_2", "hrs_1", "hrs_3"}, false)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(cls.Known, []string{"hrs_1"}) {
		t.Errorf("known = %v", cls.Known)
	}
	if !reflect.DeepEqual(cls.New, []string{"hrs_2", "hrs_3"}) {
		t.Errorf("new = %v", cls.New)
	}
	if cls.Retry != nil {
		t.Errorf("retry should be empty without the sweep, got %v", cls.Retry)
	}
}

func TestClassify_ReenrichSweepQueuesUnenriched(t *testing.T) {
	store := newFakeStore()
	store.horses["hrs_1"] = models.Horse{HorseID: "hrs_1", Enriched: true}
	store.horses["hrs_2"] = models.Horse{HorseID: "hrs_2"} // enrichment failed earlier

	cls, err := Classify(context.Background(), store, []string{"hrs_1", "hrs_2"}, true)
	if err != nil {
		t.Fatal(err)
	}

	if len(cls.New) != 0 {
		t.Errorf("both horses are known, new = %v", cls.New)
	}
	if !reflect.DeepEqual(cls.Retry, []string{"hrs_2"}) {
		t.Errorf("retry = %v, want [hrs_2]", cls.Retry)
	}
}
