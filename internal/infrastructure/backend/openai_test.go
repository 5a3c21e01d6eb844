package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/sysq/internal/domain"
)

func TestNewReturnsNilWithoutEndpoint(t *testing.T) {
	if b := New(domain.BackendSettings{}); b != nil {
		t.Error("empty endpoint must disable the backend")
	}
}

func TestDraftParsesNarrativeAndPreferredTools(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant",
			"content":"PREFER: pacman, flatpak\nYour package list likely includes gaming titles.\nCheck the launcher entries too."}}]}`))
	}))
	defer srv.Close()

	b := New(domain.BackendSettings{Endpoint: srv.URL + "/v1", ModelID: "llama3"})
	draft, err := b.Draft(context.Background(), domain.Intent{Query: "what games do i have"}, "no telemetry collected")
	if err != nil {
		t.Fatalf("Draft: %v", err)
	}

	if diff := cmp.Diff([]string{"pacman", "flatpak"}, draft.PreferredTools()); diff != "" {
		t.Errorf("preferred tools mismatch (-want +got):\n%s", diff)
	}
	want := "Your package list likely includes gaming titles. Check the launcher entries too."
	if draft.Narrative() != want {
		t.Errorf("Narrative = %q, want %q", draft.Narrative(), want)
	}
}

func TestDraftSurfacesServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	b := New(domain.BackendSettings{Endpoint: srv.URL, ModelID: "llama3"})
	if _, err := b.Draft(context.Background(), domain.Intent{}, ""); err == nil {
		t.Error("server error must surface as an error, not an empty draft")
	}
}
