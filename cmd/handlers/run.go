/*
Copyright © 2025 Your Name

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package handlers

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"reelbuzz/internal/buzz"
	"reelbuzz/internal/config"
	"reelbuzz/internal/core"
	"reelbuzz/internal/details"
	"reelbuzz/internal/fetch"
	"reelbuzz/internal/guard"
	"reelbuzz/internal/llm"
	"reelbuzz/internal/logger"
	"reelbuzz/internal/pipeline"
	"reelbuzz/internal/publish"
	"reelbuzz/internal/records"
	"reelbuzz/internal/render"
	"reelbuzz/internal/resolve"
	"reelbuzz/internal/review"
	"reelbuzz/internal/sources"
	"reelbuzz/internal/store"
)

// NewRunCmd creates the run command, the main pipeline entry point
func NewRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Select buzzing titles and draft reviews for them",
		Long: `Run the full pipeline: aggregate buzz sources, resolve the winning
movie and TV titles, generate reviews, and create unpublished Hashnode
drafts. Titles drafted within the dedup window are skipped.`,
		Run: func(cmd *cobra.Command, args []string) {
			categoryFlags, _ := cmd.Flags().GetStringSlice("category")
			if err := runPipeline(cmd.Context(), categoryFlags); err != nil {
				logger.Error("Run failed", err)
				os.Exit(1)
			}
		},
	}

	runCmd.Flags().StringSlice("category", nil, "categories to run (movie, tv); default both")
	return runCmd
}

func runPipeline(ctx context.Context, categoryFlags []string) error {
	cfg := config.Get()

	categories := make([]core.Category, 0, len(categoryFlags))
	for _, flag := range categoryFlags {
		categories = append(categories, core.Category(flag))
	}

	client, closeStore, err := buildFetchClient(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	llmClient, err := llm.NewClient(ctx, cfg.AI)
	if err != nil {
		return fmt.Errorf("building llm client: %w", err)
	}
	defer llmClient.Close()

	publisher, err := publish.NewPublisher(cfg.Hashnode)
	if err != nil {
		return fmt.Errorf("building publisher: %w", err)
	}

	static := sources.NewStatic(nil, nil)
	adapterTimeout := config.Duration(cfg.Sources.AdapterTimeout, 30*time.Second)
	set := sources.NewSet(adapterTimeout,
		sources.NewIMDBMeter(client, 10),
		sources.NewLetterboxd(client, 10),
		sources.NewReddit(client, cfg.Sources.MovieSubreddits, cfg.Sources.TVSubreddits, 12),
		sources.NewGoogleTrends(client, 10),
	)

	ranker := buzz.NewRanker(buzzWeights(cfg.Buzz), staticFallback(ctx, static))
	recordStore := records.NewStore(cfg.Records.Path)
	dedupWindow := config.Duration(cfg.Pipeline.DedupWindow, 7*24*time.Hour)

	orchestrator := pipeline.NewOrchestrator(
		set,
		ranker,
		resolve.NewResolver(client, ""),
		details.NewFetcher(client),
		review.NewGenerator(llmClient),
		publisher,
		guard.NewGuard(recordStore, publisher, dedupWindow),
		cfg.Pipeline.MaxConcurrency,
	)

	report, err := orchestrator.Run(ctx, categories)
	if err != nil {
		return err
	}

	fmt.Println(render.Report(report))

	for _, outcome := range report.Outcomes {
		if outcome.Kind == core.OutcomeFailed {
			return fmt.Errorf("one or more categories failed")
		}
	}
	return nil
}

// buildFetchClient assembles the scraping client, backed by the SQLite
// page cache when enabled.
func buildFetchClient(cfg *config.Config) (*fetch.Client, func(), error) {
	opts := fetch.Options{
		UserAgent: cfg.Sources.UserAgent,
		Timeout:   config.Duration(cfg.Sources.Timeout, 15*time.Second),
		RateLimit: config.Duration(cfg.Sources.RateLimit, 0),
		CacheTTL:  config.Duration(cfg.Sources.CacheTTL, time.Hour),
	}

	closeStore := func() {}
	if cfg.Sources.CacheEnabled {
		pageStore, err := store.NewStore(cfg.App.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("opening page cache: %w", err)
		}
		opts.Cache = pageStore
		closeStore = func() { pageStore.Close() }
	}
	return fetch.NewClient(opts), closeStore, nil
}

// staticFallback materializes the static adapter's lists so the ranker
// always has something to return when every live source fails.
func staticFallback(ctx context.Context, static *sources.Static) map[core.Category][]core.Candidate {
	fallback := make(map[core.Category][]core.Candidate)
	for _, category := range core.AllCategories() {
		candidates, err := static.Fetch(ctx, category)
		if err != nil {
			continue
		}
		fallback[category] = candidates
	}
	return fallback
}

func buzzWeights(cfg config.Buzz) buzz.Weights {
	weights := buzz.DefaultWeights()
	if cfg.WeightIMDBMeter > 0 {
		weights.IMDBMeter = cfg.WeightIMDBMeter
	}
	if cfg.WeightLetterboxd > 0 {
		weights.Letterboxd = cfg.WeightLetterboxd
	}
	if cfg.WeightReddit > 0 {
		weights.Reddit = cfg.WeightReddit
	}
	if cfg.WeightGoogleTrends > 0 {
		weights.GoogleTrends = cfg.WeightGoogleTrends
	}
	if cfg.WeightStatic > 0 {
		weights.Static = cfg.WeightStatic
	}
	return weights
}
