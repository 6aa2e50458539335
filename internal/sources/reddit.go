package sources

import (
	"context"
	"fmt"
	"sort"

	"github.com/mmcdole/gofeed"

	"reelbuzz/internal/core"
	"reelbuzz/internal/fetch"
	"reelbuzz/internal/logger"
)

// Reddit counts title mentions across the hot feeds of a set of
// subreddits. It reports unranked candidates whose Score is the mention
// count; the aggregator normalizes those counts per run.
type Reddit struct {
	client     *fetch.Client
	parser     *gofeed.Parser
	subreddits map[core.Category][]string
	limit      int
}

// NewReddit creates the Reddit adapter over per-category subreddit lists.
// limit bounds candidates; non-positive means 12.
func NewReddit(client *fetch.Client, movieSubs, tvSubs []string, limit int) *Reddit {
	if limit <= 0 {
		limit = 12
	}
	return &Reddit{
		client: client,
		parser: gofeed.NewParser(),
		subreddits: map[core.Category][]string{
			core.CategoryMovie: movieSubs,
			core.CategoryTV:    tvSubs,
		},
		limit: limit,
	}
}

func (a *Reddit) Source() core.Source { return core.SourceReddit }

func (a *Reddit) Fetch(ctx context.Context, category core.Category) ([]core.Candidate, error) {
	subs := a.subreddits[category]
	if len(subs) == 0 {
		return nil, nil
	}

	mentions := map[string]int{}
	display := map[string]string{}
	fetched := 0

	for _, sub := range subs {
		url := fmt.Sprintf("https://old.reddit.com/r/%s/hot/.rss", sub)
		body, err := a.client.GetBody(ctx, url)
		if err != nil {
			logger.Debug("Subreddit feed failed", "subreddit", sub, "error", err.Error())
			continue
		}

		feed, err := a.parser.ParseString(body)
		if err != nil {
			logger.Debug("Subreddit feed unparseable", "subreddit", sub, "error", err.Error())
			continue
		}
		fetched++
		tallyMentions(feed, mentions, display)
	}

	if fetched == 0 {
		return nil, fmt.Errorf("all %d subreddit feeds failed", len(subs))
	}

	candidates := make([]core.Candidate, 0, len(mentions))
	for key, count := range mentions {
		candidates = append(candidates, core.Candidate{
			Name:   display[key],
			Source: core.SourceReddit,
			Score:  float64(count),
		})
	}

	// Keep only the most mentioned titles, deterministically.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Name < candidates[j].Name
	})
	if len(candidates) > a.limit {
		candidates = candidates[:a.limit]
	}

	return candidates, nil
}

// tallyMentions counts extracted titles from one feed into the shared
// mention map, remembering the first spelling seen for display.
func tallyMentions(feed *gofeed.Feed, mentions map[string]int, display map[string]string) {
	for _, item := range feed.Items {
		title := ExtractPostTitle(item.Title)
		if title == "" || !LikelyTitle(title) {
			continue
		}
		key := core.NormalizeTitle(title)
		mentions[key]++
		if _, ok := display[key]; !ok {
			display[key] = title
		}
	}
}
