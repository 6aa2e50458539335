// Package core defines the shared domain types for the review drafting pipeline.
package core

import (
	"regexp"
	"strings"
	"time"
)

// Category is the content type partition, processed independently end-to-end.
type Category string

const (
	CategoryMovie Category = "movie"
	CategoryTV    Category = "tv"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c == CategoryMovie || c == CategoryTV
}

// AllCategories returns every category in processing order.
func AllCategories() []Category {
	return []Category{CategoryMovie, CategoryTV}
}

// Source identifies one external buzz signal.
type Source string

const (
	SourceIMDBMeter    Source = "imdb-meter"
	SourceLetterboxd   Source = "letterboxd"
	SourceReddit       Source = "reddit"
	SourceGoogleTrends Source = "google-trends"
	SourceStatic       Source = "static"
)

// SourcePriority returns the tie-break priority of a source. Lower is
// stronger; unknown sources sort last.
func SourcePriority(s Source) int {
	switch s {
	case SourceIMDBMeter:
		return 0
	case SourceLetterboxd:
		return 1
	case SourceReddit:
		return 2
	case SourceGoogleTrends:
		return 3
	case SourceStatic:
		return 4
	default:
		return 5
	}
}

// Candidate is a title as reported by a single source. Candidates are
// created per run and discarded after aggregation.
type Candidate struct {
	Name   string  `json:"name"`
	Source Source  `json:"source"`
	Rank   int     `json:"rank"`  // 1-based position in the source's own ordering, 0 if unranked
	Score  float64 `json:"score"` // source-reported score (e.g. mention count), 0 if none
}

// ScoredCandidate is a candidate after cross-source aggregation.
type ScoredCandidate struct {
	Name       string   `json:"name"`
	TotalScore float64  `json:"total_score"`
	Sources    []Source `json:"sources"` // contributing sources, strongest first
}

// ResolvedTitle is a candidate resolved to a canonical detail page on the
// metadata source.
type ResolvedTitle struct {
	Name        string `json:"name"`
	CanonicalID string `json:"canonical_id"` // IMDb title id, e.g. "tt1262426"
	DetailURL   string `json:"detail_url"`
}

// TitleDetails holds the descriptive fields scraped from a detail page,
// plus up to three prior audience review excerpts.
type TitleDetails struct {
	Plot     string   `json:"plot"`
	Rating   string   `json:"rating"`
	Year     string   `json:"year"`
	Excerpts []string `json:"excerpts"`
}

// DraftRecord is the persisted memory of the last successful draft for one
// category. It is overwritten, never appended, and never deleted.
type DraftRecord struct {
	Title     string    `json:"title"`
	URL       string    `json:"url"` // canonical id or detail URL
	DraftID   string    `json:"draft_id"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// OutcomeKind is the per-category result variant of a run.
type OutcomeKind string

const (
	OutcomeDrafted OutcomeKind = "drafted"
	OutcomeSkipped OutcomeKind = "skipped"
	OutcomeFailed  OutcomeKind = "failed"
)

// Skip reasons surfaced in CategoryOutcome.Reason.
const (
	SkipReasonRecentDraft      = "recently_drafted"
	SkipReasonResolutionFailed = "resolution_failed"
)

// CategoryOutcome describes what happened to one category during a run.
type CategoryOutcome struct {
	Kind    OutcomeKind `json:"kind"`
	Title   string      `json:"title,omitempty"`
	DraftID string      `json:"draft_id,omitempty"`
	Reason  string      `json:"reason,omitempty"`
	Err     error       `json:"-"`
}

// RunReport aggregates the outcomes of a single pipeline run.
type RunReport struct {
	ID         string                       `json:"id"`
	StartedAt  time.Time                    `json:"started_at"`
	FinishedAt time.Time                    `json:"finished_at"`
	Outcomes   map[Category]CategoryOutcome `json:"outcomes"`
}

var (
	punctRe = regexp.MustCompile(`[^\p{L}\p{N} ]+`)
	spaceRe = regexp.MustCompile(`[\s]+`)
)

// NormalizeTitle produces the cross-source accumulation key for a title:
// lowercased, punctuation stripped, whitespace collapsed.
func NormalizeTitle(name string) string {
	n := strings.ToLower(name)
	n = punctRe.ReplaceAllString(n, "")
	n = spaceRe.ReplaceAllString(n, " ")
	return strings.TrimSpace(n)
}
