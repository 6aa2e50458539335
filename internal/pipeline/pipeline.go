// Package pipeline runs the end-to-end flow for each category: aggregate
// buzz, resolve the winner, fetch details, generate a review, and create
// a draft, guarded against recent duplicates.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"reelbuzz/internal/core"
	"reelbuzz/internal/guard"
	"reelbuzz/internal/logger"
	"reelbuzz/internal/publish"
	"reelbuzz/internal/resolve"
)

// Aggregator collects raw candidates from all configured sources.
type Aggregator interface {
	FetchAll(ctx context.Context, category core.Category) (map[core.Source][]core.Candidate, []error)
}

// Ranker scores candidates and picks the buzz winner.
type Ranker interface {
	Pick(category core.Category, bySource map[core.Source][]core.Candidate) core.ScoredCandidate
}

// Resolver resolves a raw title name to its canonical detail page.
type Resolver interface {
	Resolve(ctx context.Context, category core.Category, name string) (core.ResolvedTitle, error)
}

// DetailFetcher scrapes title metadata and review excerpts.
type DetailFetcher interface {
	Fetch(ctx context.Context, title core.ResolvedTitle) (core.TitleDetails, error)
}

// ReviewGenerator writes the review body.
type ReviewGenerator interface {
	Generate(ctx context.Context, category core.Category, title core.ResolvedTitle, details core.TitleDetails) (string, error)
}

// DraftCreator creates the unpublished draft.
type DraftCreator interface {
	CreateDraft(ctx context.Context, title core.ResolvedTitle, reviewBody string) (publish.DraftResult, error)
}

// DuplicateGuard wraps the skip decision and record commit.
type DuplicateGuard interface {
	ShouldSkip(ctx context.Context, category core.Category, title core.ResolvedTitle) guard.Decision
	Commit(category core.Category, title core.ResolvedTitle, draftID string) error
}

// Orchestrator wires the stages together. Categories run concurrently,
// bounded by maxConcurrency; one category's failure never aborts another.
type Orchestrator struct {
	sources        Aggregator
	ranker         Ranker
	resolver       Resolver
	details        DetailFetcher
	reviewer       ReviewGenerator
	publisher      DraftCreator
	guard          DuplicateGuard
	maxConcurrency int
}

func NewOrchestrator(
	sources Aggregator,
	ranker Ranker,
	resolver Resolver,
	details DetailFetcher,
	reviewer ReviewGenerator,
	publisher DraftCreator,
	dupGuard DuplicateGuard,
	maxConcurrency int,
) *Orchestrator {
	if maxConcurrency <= 0 {
		maxConcurrency = 2
	}
	return &Orchestrator{
		sources:        sources,
		ranker:         ranker,
		resolver:       resolver,
		details:        details,
		reviewer:       reviewer,
		publisher:      publisher,
		guard:          dupGuard,
		maxConcurrency: maxConcurrency,
	}
}

// Run executes the pipeline for the given categories and blocks until all
// finish. Unknown categories are a caller bug and fail the whole run
// before any work starts.
func (o *Orchestrator) Run(ctx context.Context, categories []core.Category) (core.RunReport, error) {
	for _, category := range categories {
		if !category.Valid() {
			return core.RunReport{}, fmt.Errorf("invalid category %q", category)
		}
	}
	if len(categories) == 0 {
		categories = core.AllCategories()
	}

	report := core.RunReport{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Outcomes:  make(map[core.Category]core.CategoryOutcome, len(categories)),
	}
	logger.Info("Starting run", "run_id", report.ID, "categories", len(categories))

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		sem = make(chan struct{}, o.maxConcurrency)
	)
	for _, category := range categories {
		wg.Add(1)
		go func(category core.Category) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			outcome := o.runCategory(ctx, category)
			mu.Lock()
			report.Outcomes[category] = outcome
			mu.Unlock()
		}(category)
	}
	wg.Wait()

	report.FinishedAt = time.Now().UTC()
	logger.Info("Run finished", "run_id", report.ID,
		"duration", report.FinishedAt.Sub(report.StartedAt).String())
	return report, nil
}

// runCategory executes all stages for one category. Panics are contained
// here so a bad adapter or scraper can never take down the sibling
// category.
func (o *Orchestrator) runCategory(ctx context.Context, category core.Category) (outcome core.CategoryOutcome) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Category run panicked", fmt.Errorf("%v", r),
				"category", string(category))
			outcome = core.CategoryOutcome{
				Kind: core.OutcomeFailed,
				Err:  fmt.Errorf("category %s panicked: %v", category, r),
			}
		}
	}()

	bySource, errs := o.sources.FetchAll(ctx, category)
	for _, err := range errs {
		logger.Warn("Source failed", "category", string(category), "error", err.Error())
	}

	winner := o.ranker.Pick(category, bySource)
	logger.Info("Buzz winner selected",
		"category", string(category), "title", winner.Name, "score", winner.TotalScore)

	resolved, err := o.resolver.Resolve(ctx, category, winner.Name)
	if err != nil {
		if errors.Is(err, resolve.ErrNoMatch) {
			return core.CategoryOutcome{
				Kind:   core.OutcomeSkipped,
				Title:  winner.Name,
				Reason: core.SkipReasonResolutionFailed,
			}
		}
		return core.CategoryOutcome{Kind: core.OutcomeFailed, Title: winner.Name, Err: err}
	}

	if decision := o.guard.ShouldSkip(ctx, category, resolved); decision.Skip {
		return core.CategoryOutcome{
			Kind:   core.OutcomeSkipped,
			Title:  resolved.Name,
			Reason: core.SkipReasonRecentDraft,
		}
	}

	details, err := o.details.Fetch(ctx, resolved)
	if err != nil {
		return core.CategoryOutcome{Kind: core.OutcomeFailed, Title: resolved.Name, Err: err}
	}

	review, err := o.reviewer.Generate(ctx, category, resolved, details)
	if err != nil {
		return core.CategoryOutcome{Kind: core.OutcomeFailed, Title: resolved.Name, Err: err}
	}

	result, err := o.publisher.CreateDraft(ctx, resolved, review)
	if err != nil {
		return core.CategoryOutcome{Kind: core.OutcomeFailed, Title: resolved.Name, Err: err}
	}

	if err := o.guard.Commit(category, resolved, result.DraftID); err != nil {
		// The draft exists; a failed record write only weakens dedup.
		logger.Error("Failed to persist draft record", err,
			"category", string(category), "draft_id", result.DraftID)
	}

	return core.CategoryOutcome{
		Kind:    core.OutcomeDrafted,
		Title:   resolved.Name,
		DraftID: result.DraftID,
	}
}
