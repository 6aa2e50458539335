// Package publish creates unpublished drafts on a Hashnode publication
// over its GraphQL API.
package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"reelbuzz/internal/config"
	"reelbuzz/internal/core"
	"reelbuzz/internal/logger"
)

const defaultEndpoint = "https://gql.hashnode.com"

// ErrMissingCredentials means the publication id or access token is not
// configured. Publishing cannot proceed and no record is written.
var ErrMissingCredentials = errors.New("hashnode credentials missing")

// Content input field names vary across schema revisions; they are tried
// in order and the first shape that yields a draft id wins.
var contentFields = []string{"contentMarkdown", "body", "content", "bodyMarkdown"}

const createDraftQuery = `mutation createDraft($input: CreateDraftInput!) {
  createDraft(input: $input) {
    draft {
      id
    }
  }
}`

const draftExistsQuery = `query getDraft($id: ObjectId!) {
  draft(id: $id) {
    id
  }
}`

// DraftResult describes a successful draft creation, including which
// content field the schema accepted and the raw response that produced
// the id, for troubleshooting schema drift.
type DraftResult struct {
	DraftID      string
	FieldUsed    string
	LastResponse string
}

// Publisher talks to the Hashnode GraphQL endpoint.
type Publisher struct {
	endpoint      string
	publicationID string
	accessToken   string
	httpClient    *http.Client
	now           func() time.Time
}

func NewPublisher(cfg config.Hashnode) (*Publisher, error) {
	if cfg.PublicationID == "" || cfg.AccessToken == "" {
		return nil, ErrMissingCredentials
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	timeout := 30 * time.Second
	if d, err := time.ParseDuration(cfg.Timeout); err == nil && d > 0 {
		timeout = d
	}

	return &Publisher{
		endpoint:      endpoint,
		publicationID: cfg.PublicationID,
		accessToken:   cfg.AccessToken,
		httpClient:    &http.Client{Timeout: timeout},
		now:           time.Now,
	}, nil
}

// CreateDraft creates an unpublished draft titled after the resolved
// title. Each content field shape is posted in turn until one yields a
// draft id; exhausting the list is an error carrying the last response.
func (p *Publisher) CreateDraft(ctx context.Context, title core.ResolvedTitle, reviewBody string) (DraftResult, error) {
	body := FormatBody(title.Name, reviewBody, p.now())

	var lastResponse string
	for _, field := range contentFields {
		input := map[string]any{
			"publicationId": p.publicationID,
			"title":         title.Name,
			field:           body,
		}

		raw, err := p.post(ctx, createDraftQuery, map[string]any{"input": input})
		if err != nil {
			lastResponse = err.Error()
			continue
		}
		lastResponse = string(raw)

		var parsed struct {
			Data struct {
				CreateDraft struct {
					Draft struct {
						ID string `json:"id"`
					} `json:"draft"`
				} `json:"createDraft"`
			} `json:"data"`
		}
		if err := json.Unmarshal(raw, &parsed); err != nil {
			continue
		}
		if id := parsed.Data.CreateDraft.Draft.ID; id != "" {
			logger.Info("Created draft",
				"title", title.Name,
				"draft_id", id,
				"field_used", field,
			)
			return DraftResult{DraftID: id, FieldUsed: field, LastResponse: lastResponse}, nil
		}
	}

	return DraftResult{LastResponse: lastResponse},
		fmt.Errorf("no draft id returned for %q after trying all content fields", title.Name)
}

// DraftExists reports whether the draft is still present on the
// publication. Any transport or API failure reads as absent, which at
// worst recreates a draft rather than silently skipping one.
func (p *Publisher) DraftExists(ctx context.Context, draftID string) bool {
	if draftID == "" {
		return false
	}

	raw, err := p.post(ctx, draftExistsQuery, map[string]any{"id": draftID})
	if err != nil {
		logger.Warn("Draft existence check failed", "draft_id", draftID, "error", err.Error())
		return false
	}

	var parsed struct {
		Data struct {
			Draft struct {
				ID string `json:"id"`
			} `json:"draft"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return false
	}
	return parsed.Data.Draft.ID != ""
}

func (p *Publisher) post(ctx context.Context, query string, variables map[string]any) ([]byte, error) {
	payload, err := json.Marshal(map[string]any{"query": query, "variables": variables})
	if err != nil {
		return nil, fmt.Errorf("encoding graphql payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building graphql request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("graphql request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading graphql response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("graphql status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return raw, nil
}

// FormatBody renders the draft body as markdown with a dated footer.
func FormatBody(title, review string, generatedAt time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# 🎬 %s\n\n", title)
	b.WriteString(strings.TrimSpace(review))
	b.WriteString("\n\n---\n\n")
	fmt.Fprintf(&b, "*Generated on %s*\n", generatedAt.Format("January 2, 2006"))
	return b.String()
}
