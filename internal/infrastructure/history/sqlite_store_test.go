package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/doeshing/sysq/internal/domain"
)

func openStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history", "history.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleTrace(id string, createdAt time.Time) domain.Trace {
	return domain.Trace{
		ID:          id,
		Query:       "what games do i have installed",
		Goal:        domain.GoalInspect,
		Domain:      domain.DomainPackages,
		SafetyLevel: "read-only",
		Commands: []domain.TraceCommand{
			{FullCommand: "pacman -Qq | grep -Ei '(steam|game)'", Success: true, TimeMS: 42},
		},
		Answer:     "Yes, 2 games-related package(s) are installed: steam, lutris.",
		Confidence: domain.ConfidenceHigh,
		Reasoning:  "matched installed packages against the games filter",
		Source:     "structural parser",
		Success:    true,
		ElapsedMS:  45,
		CreatedAt:  createdAt,
	}
}

func TestSaveAndListRoundTrip(t *testing.T) {
	store := openStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	want := sampleTrace("trace-1", now)
	if err := store.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.List(10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d traces, want 1", len(got))
	}
	if got[0].ID != want.ID || got[0].Answer != want.Answer || len(got[0].Commands) != 1 {
		t.Errorf("round trip lost fields: %+v", got[0])
	}
}

func TestListNewestFirstAndLimited(t *testing.T) {
	store := openStore(t)
	base := time.Now().UTC()
	for i, id := range []string{"old", "mid", "new"} {
		if err := store.Save(sampleTrace(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Save %s: %v", id, err)
		}
	}

	got, err := store.List(2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].ID != "new" || got[1].ID != "mid" {
		t.Errorf("want [new mid], got %v", ids(got))
	}
}

func TestPruneRemovesOldTraces(t *testing.T) {
	store := openStore(t)
	now := time.Now().UTC()
	if err := store.Save(sampleTrace("ancient", now.AddDate(0, 0, -90))); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(sampleTrace("recent", now)); err != nil {
		t.Fatal(err)
	}

	removed, err := store.Prune(30)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	got, err := store.List(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "recent" {
		t.Errorf("want only the recent trace, got %v", ids(got))
	}
}

func ids(traces []domain.Trace) []string {
	out := make([]string, 0, len(traces))
	for _, tr := range traces {
		out = append(out, tr.ID)
	}
	return out
}
