// Package sources implements the buzz signal adapters. Each adapter turns
// one external site into a list of candidate titles; adapters fail
// independently and an empty result is never fatal.
package sources

import (
	"context"
	"fmt"
	"sync"
	"time"

	"reelbuzz/internal/core"
	"reelbuzz/internal/logger"
)

// SourceError reports a single adapter failure. It is isolated: the
// aggregator treats a failed adapter as contributing zero candidates.
type SourceError struct {
	Source core.Source
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source %s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// Adapter is one external buzz signal.
type Adapter interface {
	// Source identifies the adapter for weighting and tie-breaking.
	Source() core.Source
	// Fetch returns candidate titles for a category. Rank is 1-based when
	// the source is ordered, 0 otherwise; Score carries a source-reported
	// magnitude (e.g. mention count) when one exists.
	Fetch(ctx context.Context, category core.Category) ([]core.Candidate, error)
}

// Set fans out to a group of adapters with a per-adapter timeout.
type Set struct {
	adapters       []Adapter
	adapterTimeout time.Duration
}

// NewSet creates an adapter set. A non-positive timeout defaults to 20s.
func NewSet(adapterTimeout time.Duration, adapters ...Adapter) *Set {
	if adapterTimeout <= 0 {
		adapterTimeout = 20 * time.Second
	}
	return &Set{adapters: adapters, adapterTimeout: adapterTimeout}
}

// FetchAll invokes every adapter concurrently and collects their candidates
// by source. A hung or erroring adapter is recorded as a SourceError and
// contributes nothing; FetchAll itself never fails.
func (s *Set) FetchAll(ctx context.Context, category core.Category) (map[core.Source][]core.Candidate, []error) {
	results := make(map[core.Source][]core.Candidate, len(s.adapters))
	var errs []error

	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, adapter := range s.adapters {
		wg.Add(1)
		go func(a Adapter) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					mu.Lock()
					errs = append(errs, &SourceError{Source: a.Source(), Err: fmt.Errorf("adapter panicked: %v", r)})
					mu.Unlock()
				}
			}()

			actx, cancel := context.WithTimeout(ctx, s.adapterTimeout)
			defer cancel()

			candidates, err := a.Fetch(actx, category)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, &SourceError{Source: a.Source(), Err: err})
				return
			}
			if len(candidates) > 0 {
				results[a.Source()] = candidates
			}
		}(adapter)
	}

	wg.Wait()

	for _, err := range errs {
		logger.Warn("Buzz source failed", "category", string(category), "error", err.Error())
	}
	logger.Info("Buzz sources fetched",
		"category", string(category),
		"sources_ok", len(results),
		"sources_failed", len(errs),
	)

	return results, errs
}
