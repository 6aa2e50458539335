// Package guard decides whether a selected title was drafted recently
// enough to skip, and reconciles records whose remote draft has vanished.
package guard

import (
	"context"
	"time"

	"reelbuzz/internal/core"
	"reelbuzz/internal/logger"
)

// State classifies the prior record relative to the current selection.
type State string

const (
	StateNoPriorRecord  State = "NO_PRIOR_RECORD"
	StateRecentMatch    State = "RECENT_MATCH"
	StateStaleMatch     State = "STALE_MATCH"
	StateRecordOrphaned State = "RECORD_ORPHANED"
)

// RecordStore is the persisted per-category draft memory.
type RecordStore interface {
	Get(category core.Category) *core.DraftRecord
	Put(category core.Category, record core.DraftRecord) error
}

// RemoteChecker verifies a draft still exists on the publication.
type RemoteChecker interface {
	DraftExists(ctx context.Context, draftID string) bool
}

// Guard applies the duplicate window over a record store, consulting the
// remote only when the record alone would force a skip.
type Guard struct {
	store  RecordStore
	remote RemoteChecker
	window time.Duration
	now    func() time.Time
}

// NewGuard builds a guard with the given dedup window. A zero window
// falls back to seven days.
func NewGuard(store RecordStore, remote RemoteChecker, window time.Duration) *Guard {
	if window <= 0 {
		window = 7 * 24 * time.Hour
	}
	return &Guard{store: store, remote: remote, window: window, now: time.Now}
}

// Decision holds the guard verdict for one category run.
type Decision struct {
	Skip  bool
	State State
}

// ShouldSkip reports whether drafting title again would duplicate recent
// work. A record matches only when both the normalized title and the
// canonical id or URL agree; any divergence means a different item and no
// skip. A recent match still requires the remote draft to exist, so a
// deleted draft gets recreated instead of silently skipped.
func (g *Guard) ShouldSkip(ctx context.Context, category core.Category, title core.ResolvedTitle) Decision {
	record := g.store.Get(category)
	if record == nil {
		return Decision{State: StateNoPriorRecord}
	}

	sameTitle := core.NormalizeTitle(record.Title) == core.NormalizeTitle(title.Name)
	sameItem := sameTitle && record.URL != "" &&
		(record.URL == title.DetailURL || record.URL == title.CanonicalID)
	if !sameItem {
		return Decision{State: StateNoPriorRecord}
	}

	age := g.now().UTC().Sub(record.CreatedAt.UTC())
	if age >= g.window {
		logger.Info("Prior draft is stale, drafting again",
			"category", string(category), "title", title.Name, "age", age.String())
		return Decision{State: StateStaleMatch}
	}

	if record.DraftID == "" || !g.remote.DraftExists(ctx, record.DraftID) {
		logger.Warn("Recent record has no live draft, recreating",
			"category", string(category), "title", title.Name, "draft_id", record.DraftID)
		return Decision{State: StateRecordOrphaned}
	}

	logger.Info("Title drafted recently, skipping",
		"category", string(category), "title", title.Name, "draft_id", record.DraftID)
	return Decision{Skip: true, State: StateRecentMatch}
}

// Commit records a successful draft. Called only after draft creation
// succeeded; a skipped or failed category never touches the record.
func (g *Guard) Commit(category core.Category, title core.ResolvedTitle, draftID string) error {
	return g.store.Put(category, core.DraftRecord{
		Title:     title.Name,
		URL:       title.DetailURL,
		DraftID:   draftID,
		CreatedAt: g.now().UTC(),
	})
}
