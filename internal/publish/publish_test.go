package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"reelbuzz/internal/config"
	"reelbuzz/internal/core"
)

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

func newPublisher(t *testing.T, endpoint string) *Publisher {
	t.Helper()
	p, err := NewPublisher(config.Hashnode{
		Endpoint:      endpoint,
		PublicationID: "pub-1",
		AccessToken:   "token-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p
}

func TestNewPublisher_MissingCredentials(t *testing.T) {
	if _, err := NewPublisher(config.Hashnode{PublicationID: "pub-1"}); !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("expected ErrMissingCredentials, got %v", err)
	}
	if _, err := NewPublisher(config.Hashnode{AccessToken: "tok"}); !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("expected ErrMissingCredentials, got %v", err)
	}
}

func TestCreateDraft_FirstFieldAccepted(t *testing.T) {
	var seenFields []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer token-1" {
			t.Errorf("unexpected auth header %q", got)
		}
		var req gqlRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		input := req.Variables["input"].(map[string]any)
		for _, f := range contentFields {
			if _, ok := input[f]; ok {
				seenFields = append(seenFields, f)
			}
		}
		fmt.Fprint(w, `{"data":{"createDraft":{"draft":{"id":"draft-abc"}}}}`)
	}))
	defer server.Close()

	p := newPublisher(t, server.URL)
	result, err := p.CreateDraft(context.Background(),
		core.ResolvedTitle{Name: "Wicked"}, "A review.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DraftID != "draft-abc" {
		t.Errorf("expected draft-abc, got %q", result.DraftID)
	}
	if result.FieldUsed != "contentMarkdown" {
		t.Errorf("expected contentMarkdown to be used, got %q", result.FieldUsed)
	}
	if len(seenFields) != 1 {
		t.Errorf("expected a single attempt, saw %v", seenFields)
	}
}

func TestCreateDraft_FallsBackThroughFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req gqlRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		input := req.Variables["input"].(map[string]any)
		if _, ok := input["content"]; ok {
			fmt.Fprint(w, `{"data":{"createDraft":{"draft":{"id":"draft-xyz"}}}}`)
			return
		}
		fmt.Fprint(w, `{"errors":[{"message":"unknown field"}],"data":null}`)
	}))
	defer server.Close()

	p := newPublisher(t, server.URL)
	result, err := p.CreateDraft(context.Background(),
		core.ResolvedTitle{Name: "Severance"}, "A review.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.FieldUsed != "content" {
		t.Errorf("expected the third field to win, got %q", result.FieldUsed)
	}
	if result.DraftID != "draft-xyz" {
		t.Errorf("unexpected draft id %q", result.DraftID)
	}
}

func TestCreateDraft_AllFieldsRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"errors":[{"message":"nope"}],"data":null}`)
	}))
	defer server.Close()

	p := newPublisher(t, server.URL)
	result, err := p.CreateDraft(context.Background(),
		core.ResolvedTitle{Name: "Wicked"}, "A review.")
	if err == nil {
		t.Fatal("expected an error when no field shape is accepted")
	}
	if !strings.Contains(result.LastResponse, "nope") {
		t.Errorf("expected the last raw response to be retained, got %q", result.LastResponse)
	}
}

func TestDraftExists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req gqlRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.Variables["id"] == "draft-live" {
			fmt.Fprint(w, `{"data":{"draft":{"id":"draft-live"}}}`)
			return
		}
		fmt.Fprint(w, `{"data":{"draft":null}}`)
	}))
	defer server.Close()

	p := newPublisher(t, server.URL)
	if !p.DraftExists(context.Background(), "draft-live") {
		t.Error("expected existing draft to be found")
	}
	if p.DraftExists(context.Background(), "draft-gone") {
		t.Error("expected deleted draft to read as absent")
	}
	if p.DraftExists(context.Background(), "") {
		t.Error("empty id is never present")
	}
}

func TestDraftExists_FalseOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	p := newPublisher(t, server.URL)
	if p.DraftExists(context.Background(), "draft-live") {
		t.Error("server errors must read as absent")
	}
}

func TestFormatBody(t *testing.T) {
	at := time.Date(2026, time.August, 28, 12, 0, 0, 0, time.UTC)
	body := FormatBody("Wicked", "  The review text.  ", at)

	if !strings.HasPrefix(body, "# 🎬 Wicked\n\n") {
		t.Errorf("expected markdown heading, got %q", body[:30])
	}
	if !strings.Contains(body, "The review text.\n\n---\n\n") {
		t.Error("expected trimmed review followed by footer rule")
	}
	if !strings.Contains(body, "*Generated on August 28, 2026*") {
		t.Error("expected dated footer")
	}
}
