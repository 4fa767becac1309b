package favorites

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rebeliceyang/lazycodex/internal/export"
	"github.com/rebeliceyang/lazycodex/internal/models"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return m
}

func TestAddAndReload(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	fav, err := m.Add("  Tanky dragons ", "hp over 50", models.ResourceCreatures, "?sort_by=health&q=drake", []string{"pve"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if fav.ID == "" {
		t.Error("expected a generated ID")
	}
	if fav.Name != "Tanky dragons" {
		t.Errorf("name not trimmed: %q", fav.Name)
	}
	if fav.Query != "sort_by=health&q=drake" {
		t.Errorf("leading ? not stripped: %q", fav.Query)
	}

	if _, err := os.Stat(filepath.Join(dir, FileName)); err != nil {
		t.Fatalf("favorites file not written: %v", err)
	}

	reloaded, err := NewManager(dir)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	got, err := reloaded.Get(fav.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Resource != models.ResourceCreatures || got.Query != fav.Query {
		t.Errorf("unexpected reloaded favorite %+v", got)
	}
}

func TestAddValidation(t *testing.T) {
	m := newTestManager(t)
	if _, err := m.Add("Dragons", "", models.ResourceCreatures, "q=drake", nil); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	tests := []struct {
		name     string
		favName  string
		resource models.Resource
		query    string
		wantErr  error
	}{
		{"empty name", "  ", models.ResourceCreatures, "", ErrEmptyName},
		{"duplicate name", "DRAGONS", models.ResourceSpells, "", ErrDuplicateName},
		{"unknown resource", "Dungeons", models.Resource("dungeons"), "", nil},
		{"bad query", "Broken", models.ResourceSpells, "q=%zz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Add(tt.favName, "", tt.resource, tt.query, nil)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
	if n := len(m.List("")); n != 1 {
		t.Errorf("failed adds must not be kept, have %d favorites", n)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	m := newTestManager(t)
	a, _ := m.Add("A", "", models.ResourceTraits, "", nil)
	b, _ := m.Add("B", "", models.ResourceTraits, "", nil)

	if err := m.Update(b.ID, "a", "", "", nil); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("expected duplicate name error, got %v", err)
	}
	// renaming to its own name in another case is fine
	if err := m.Update(a.ID, "a", "lowercase", "q=ice", []string{"ice"}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got, _ := m.Get(a.ID)
	if got.Name != "a" || got.Query != "q=ice" || got.Description != "lowercase" {
		t.Errorf("unexpected updated favorite %+v", got)
	}

	if err := m.Update("missing", "C", "", "", nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}

	if err := m.Delete(a.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := m.Get(a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected deleted favorite to be gone, got %v", err)
	}
	if err := m.Delete(a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected not found on second delete, got %v", err)
	}
	if list := m.List(""); len(list) != 1 || list[0].ID != b.ID {
		t.Errorf("unexpected remaining favorites %+v", list)
	}
}

func TestGetByName(t *testing.T) {
	m := newTestManager(t)
	fav, _ := m.Add("Fire spells", "", models.ResourceSpells, "q=fire", nil)

	got, err := m.Get("fire SPELLS")
	if err != nil {
		t.Fatalf("Get by name failed: %v", err)
	}
	if got.ID != fav.ID {
		t.Errorf("expected %s, got %s", fav.ID, got.ID)
	}
}

func TestListAndSearch(t *testing.T) {
	m := newTestManager(t)
	_, _ = m.Add("Dragons", "big lizards", models.ResourceCreatures, "", []string{"pve"})
	_, _ = m.Add("Fire spells", "", models.ResourceSpells, "", []string{"Burn"})
	_, _ = m.Add("Undead", "", models.ResourceCreatures, "", nil)

	if n := len(m.List(models.ResourceCreatures)); n != 2 {
		t.Errorf("expected 2 creature favorites, got %d", n)
	}
	if n := len(m.List("")); n != 3 {
		t.Errorf("expected 3 favorites, got %d", n)
	}

	tests := []struct {
		text string
		want int
	}{
		{"", 3},
		{"lizard", 1}, // description
		{"burn", 1},   // tag
		{"D", 2},      // Dragons, Undead
		{"nothing", 0},
	}
	for _, tt := range tests {
		if got := m.Search(tt.text); len(got) != tt.want {
			t.Errorf("Search(%q) returned %d, want %d", tt.text, len(got), tt.want)
		}
	}
}

func TestMarkUsedOrdering(t *testing.T) {
	m := newTestManager(t)
	clock := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }

	a, _ := m.Add("A", "", models.ResourcePerks, "", nil)
	b, _ := m.Add("B", "", models.ResourcePerks, "", nil)

	clock = clock.Add(time.Minute)
	_ = m.MarkUsed(b.ID)
	clock = clock.Add(time.Minute)
	_ = m.MarkUsed(a.ID)
	_ = m.MarkUsed(b.ID)

	most := m.MostUsed(1)
	if len(most) != 1 || most[0].ID != b.ID || most[0].UsageCount != 2 {
		t.Errorf("unexpected most used %+v", most)
	}
	recent := m.Recent(0)
	if len(recent) != 2 || !recent[0].LastUsed.Equal(clock) {
		t.Errorf("unexpected recent %+v", recent)
	}
	if err := m.MarkUsed("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestExport(t *testing.T) {
	m := newTestManager(t)
	if _, err := m.Export(export.FormatCSV, ""); err == nil {
		t.Error("expected an error exporting no favorites")
	}

	_, _ = m.Add("Dragons", "", models.ResourceCreatures, "q=drake", []string{"pve", "boss"})

	path, err := m.Export(export.FormatCSV, "")
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if filepath.Base(path) != "favorites.csv" || filepath.Dir(path) != filepath.Dir(m.Path()) {
		t.Errorf("unexpected default export path %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer func() { _ = f.Close() }()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(records) != 2 || records[1][0] != "Dragons" || records[1][3] != "q=drake" {
		t.Errorf("unexpected records %v", records)
	}

	custom := filepath.Join(t.TempDir(), "out.json")
	path, err = m.Export(export.FormatJSON, custom)
	if err != nil {
		t.Fatalf("Export json failed: %v", err)
	}
	if path != custom {
		t.Errorf("expected %s, got %s", custom, path)
	}
}
