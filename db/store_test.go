package db

import "testing"

func TestSetClause_ProtectedColumn(t *testing.T) {
	s := NewStore(nil, []string{"courses.latitude", "courses.longitude"})

	if got, want := s.set("courses", "c", "latitude"),
		"latitude = COALESCE(EXCLUDED.latitude, c.latitude)"; got != want {
		t.Errorf("protected clause = %q, want %q", got, want)
	}
	if got, want := s.set("courses", "c", "name"),
		"name = EXCLUDED.name"; got != want {
		t.Errorf("plain clause = %q, want %q", got, want)
	}
	// Same column name on another table is not protected.
	if got, want := s.set("races", "rc", "latitude"),
		"latitude = EXCLUDED.latitude"; got != want {
		t.Errorf("other-table clause = %q, want %q", got, want)
	}
}

func TestKeepClauses(t *testing.T) {
	if got, want := keep("h", "foaled_on"),
		"foaled_on = COALESCE(EXCLUDED.foaled_on, h.foaled_on)"; got != want {
		t.Errorf("keep = %q, want %q", got, want)
	}
	if got, want := keepText("h", "sire_id"),
		"sire_id = COALESCE(NULLIF(EXCLUDED.sire_id, ''), h.sire_id)"; got != want {
		t.Errorf("keepText = %q, want %q", got, want)
	}
}
