package registry

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(filepath.Join(t.TempDir(), "formulas.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStorePutGetDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "damage", "base * crit"); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(ctx, "damage")
	if err != nil {
		t.Fatal(err)
	}
	if got != "base * crit" {
		t.Errorf("want %q, got %q", "base * crit", got)
	}

	// Upsert replaces.
	if err := s.Put(ctx, "damage", "base * 2"); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.Get(ctx, "damage"); got != "base * 2" {
		t.Errorf("upsert did not replace: %q", got)
	}

	ok, err := s.Delete(ctx, "damage")
	if err != nil || !ok {
		t.Fatalf("delete: %v, existed=%v", err, ok)
	}
	ok, err = s.Delete(ctx, "damage")
	if err != nil || ok {
		t.Fatalf("second delete: %v, existed=%v", err, ok)
	}
	if _, err := s.Get(ctx, "damage"); !errors.Is(err, ErrNotStored) {
		t.Errorf("want ErrNotStored, got %v", err)
	}
}

func TestStoreAllAndLoadInto(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	want := map[string]string{
		"hp":     "base + level * 10",
		"mp":     "wisdom * 3",
		"broken": "1 +",
	}
	for id, expr := range want {
		if err := s.Put(ctx, id, expr); err != nil {
			t.Fatal(err)
		}
	}

	all, err := s.All(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != len(want) {
		t.Fatalf("want %d rows, got %d", len(want), len(all))
	}
	for id, expr := range want {
		if all[id] != expr {
			t.Errorf("row %q: want %q, got %q", id, expr, all[id])
		}
	}

	r := New(quiet())
	err = s.LoadInto(ctx, r)
	if err == nil {
		t.Error("no error for the unparseable row")
	}
	if r.Len() != 2 {
		t.Errorf("valid rows not loaded: %v", r.IDs())
	}
	if v, e := r.Evaluate("mp", map[string]float64{"wisdom": 4}); e != nil || v != 12 {
		t.Errorf("mp: want 12, got %g, %v", v, e)
	}
}

func TestStoreSaveFrom(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	r := New(quiet())
	if err := r.Register("speed", "agility / weight"); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveFrom(ctx, r); err != nil {
		t.Fatal(err)
	}

	r2 := New(quiet())
	if err := s.LoadInto(ctx, r2); err != nil {
		t.Fatal(err)
	}
	if v, err := r2.Evaluate("speed", map[string]float64{"agility": 10, "weight": 4}); err != nil || v != 2.5 {
		t.Errorf("speed: want 2.5, got %g, %v", v, err)
	}
}
