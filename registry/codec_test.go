package registry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestJSONRoundTrip(t *testing.T) {
	r := New(quiet())
	src := `{
		"damage": "(base + bonus) * crit",
		"heal": "max(potency, 1) * 0.5"
	}`
	if err := r.ImportJSON(strings.NewReader(src)); err != nil {
		t.Fatal(err)
	}
	if r.Len() != 2 {
		t.Fatalf("want 2 formulas, got %v", r.IDs())
	}

	var buf strings.Builder
	if err := r.ExportJSON(&buf); err != nil {
		t.Fatal(err)
	}
	r2 := New(quiet())
	if err := r2.ImportJSON(strings.NewReader(buf.String())); err != nil {
		t.Fatal(err)
	}
	if got, want := r2.Sources(), r.Sources(); len(got) != len(want) {
		t.Fatalf("round trip lost formulas: %v vs %v", got, want)
	} else {
		for id, src := range want {
			if got[id] != src {
				t.Errorf("formula %q: want %q, got %q", id, src, got[id])
			}
		}
	}
	if v, err := r2.Evaluate("heal", map[string]float64{"potency": 8}); err != nil || v != 4 {
		t.Errorf("heal: want 4, got %g, %v", v, err)
	}
}

func TestImportJSONPartial(t *testing.T) {
	r := New(quiet())
	src := `{"good": "a + 1", "bad": "1 +", "alsogood": "2"}`
	err := r.ImportJSON(strings.NewReader(src))
	if err == nil {
		t.Fatal("no error for invalid entry")
	}
	if !strings.Contains(err.Error(), `"bad"`) {
		t.Errorf("error does not name the bad entry: %v", err)
	}
	if r.Len() != 2 {
		t.Errorf("valid entries not registered: %v", r.IDs())
	}
}

func TestImportJSONBadSyntax(t *testing.T) {
	r := New(quiet())
	if err := r.ImportJSON(strings.NewReader(`{"x": `)); err == nil {
		t.Error("no error for truncated JSON")
	}
}

func TestImportLibrary(t *testing.T) {
	r := New(quiet())
	src := `
formulas:
  - name: crit_chance
    description: Chance to land a critical hit.
    expression: clamp01(luck / 100 + 0.05)
  - name: dodge
    expression: agility / (agility + 50)
`
	if err := r.ImportLibrary(strings.NewReader(src)); err != nil {
		t.Fatal(err)
	}
	if r.Len() != 2 {
		t.Fatalf("want 2 formulas, got %v", r.IDs())
	}
	if v, err := r.Evaluate("dodge", map[string]float64{"agility": 50}); err != nil || v != 0.5 {
		t.Errorf("dodge: want 0.5, got %g, %v", v, err)
	}
}

func TestImportLibraryMissingName(t *testing.T) {
	r := New(quiet())
	src := `
formulas:
  - expression: "1 + 1"
`
	if err := r.ImportLibrary(strings.NewReader(src)); err == nil {
		t.Error("no error for unnamed entry")
	}
}

func TestImportFileByExtension(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "formulas.json")
	if err := os.WriteFile(jsonPath, []byte(`{"one": "1"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	yamlPath := filepath.Join(dir, "formulas.yaml")
	lib := "formulas:\n  - name: two\n    expression: \"2\"\n"
	if err := os.WriteFile(yamlPath, []byte(lib), 0o644); err != nil {
		t.Fatal(err)
	}

	r := New(quiet())
	if err := r.ImportFile(jsonPath); err != nil {
		t.Fatal(err)
	}
	if err := r.ImportFile(yamlPath); err != nil {
		t.Fatal(err)
	}
	if r.Len() != 2 {
		t.Errorf("want 2 formulas, got %v", r.IDs())
	}
	if err := r.ImportFile(filepath.Join(dir, "formulas.txt")); err == nil {
		t.Error("no error for unsupported extension")
	}
}
