package records

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"reelbuzz/internal/core"
)

func TestGet_MissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "last_draft.json"))
	if got := store.Get(core.CategoryMovie); got != nil {
		t.Errorf("expected nil record from a missing file, got %+v", got)
	}
}

func TestPutGet_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_draft.json")
	store := NewStore(path)

	created := time.Date(2026, time.August, 21, 9, 30, 0, 0, time.UTC)
	record := core.DraftRecord{
		Title:     "Wicked",
		URL:       "https://www.imdb.com/title/tt1262426/",
		DraftID:   "draft-abc",
		CreatedAt: created,
	}
	if err := store.Put(core.CategoryMovie, record); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := store.Get(core.CategoryMovie)
	if got == nil {
		t.Fatal("expected a record")
	}
	if got.Title != "Wicked" || got.DraftID != "draft-abc" {
		t.Errorf("unexpected record %+v", got)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("expected created_at %v, got %v", created, got.CreatedAt)
	}
	if store.Get(core.CategoryTV) != nil {
		t.Error("tv record should be absent")
	}
}

func TestPut_PreservesOtherCategory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_draft.json")
	store := NewStore(path)

	movie := core.DraftRecord{Title: "Wicked", DraftID: "d1", CreatedAt: time.Now().UTC()}
	tv := core.DraftRecord{Title: "Severance", DraftID: "d2", CreatedAt: time.Now().UTC()}

	if err := store.Put(core.CategoryMovie, movie); err != nil {
		t.Fatal(err)
	}
	if err := store.Put(core.CategoryTV, tv); err != nil {
		t.Fatal(err)
	}

	if got := store.Get(core.CategoryMovie); got == nil || got.Title != "Wicked" {
		t.Errorf("movie record lost: %+v", got)
	}
	if got := store.Get(core.CategoryTV); got == nil || got.Title != "Severance" {
		t.Errorf("tv record wrong: %+v", got)
	}
}

func TestPut_OverwritesSameCategory(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "last_draft.json"))

	if err := store.Put(core.CategoryMovie, core.DraftRecord{Title: "Old", DraftID: "d1"}); err != nil {
		t.Fatal(err)
	}
	if err := store.Put(core.CategoryMovie, core.DraftRecord{Title: "New", DraftID: "d2"}); err != nil {
		t.Fatal(err)
	}

	got := store.Get(core.CategoryMovie)
	if got == nil || got.Title != "New" || got.DraftID != "d2" {
		t.Errorf("expected overwritten record, got %+v", got)
	}
}

func TestGet_CorruptFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_draft.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewStore(path)
	if got := store.Get(core.CategoryMovie); got != nil {
		t.Errorf("corrupt file should read as empty, got %+v", got)
	}

	// A write after corruption starts a fresh file.
	if err := store.Put(core.CategoryMovie, core.DraftRecord{Title: "Wicked"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := store.Get(core.CategoryMovie); got == nil || got.Title != "Wicked" {
		t.Errorf("expected recovery after corrupt file, got %+v", got)
	}
}

func TestFileLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_draft.json")
	store := NewStore(path)

	created := time.Date(2026, time.August, 21, 9, 30, 0, 0, time.UTC)
	if err := store.Put(core.CategoryMovie, core.DraftRecord{
		Title: "Wicked", URL: "u", DraftID: "d", CreatedAt: created,
	}); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(raw)
	for _, want := range []string{`"movie"`, `"title"`, `"draft_id"`, `"created_at"`, "2026-08-21T09:30:00Z"} {
		if !strings.Contains(content, want) {
			t.Errorf("file layout missing %s:\n%s", want, content)
		}
	}

	// No leftover temp files after the rename.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the record file, found %d entries", len(entries))
	}
}
