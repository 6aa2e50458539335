package sources

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"reelbuzz/internal/core"
	"reelbuzz/internal/fetch"
)

const googleTrendsURL = "https://trends.google.com/trends/trendingsearches/daily?geo=US"

// Google rotates the trending-page markup; selectors tried in order.
var trendsSelectors = []string{
	"div.feed-item span.title",
	"div.title a",
	"div[class*='title']",
	"span[class*='title']",
}

// Category markers a trending search must mention to count as a signal
// for that category.
var trendsMarkers = map[core.Category][]string{
	core.CategoryMovie: {"movie", "film"},
	core.CategoryTV:    {"tv", "series", "season", "episode", "show"},
}

// GoogleTrends scrapes the daily trending searches page and keeps the
// entries that mention the requested category. The page lists search
// phrases, not titles, so this signal is weak and unranked.
type GoogleTrends struct {
	client *fetch.Client
	limit  int
}

// NewGoogleTrends creates the trends adapter. limit bounds candidates;
// non-positive means 8.
func NewGoogleTrends(client *fetch.Client, limit int) *GoogleTrends {
	if limit <= 0 {
		limit = 8
	}
	return &GoogleTrends{client: client, limit: limit}
}

func (a *GoogleTrends) Source() core.Source { return core.SourceGoogleTrends }

func (a *GoogleTrends) Fetch(ctx context.Context, category core.Category) ([]core.Candidate, error) {
	doc, err := a.client.GetDocument(ctx, googleTrendsURL)
	if err != nil {
		return nil, err
	}

	markers := trendsMarkers[category]
	if len(markers) == 0 {
		return nil, fmt.Errorf("no trend markers for category %q", category)
	}

	for _, selector := range trendsSelectors {
		candidates := a.parseTrending(doc, selector, markers)
		if len(candidates) > 0 {
			return candidates, nil
		}
	}

	// The page loaded but nothing matched; a quiet day is not an error.
	return nil, nil
}

func (a *GoogleTrends) parseTrending(doc *goquery.Document, selector string, markers []string) []core.Candidate {
	var candidates []core.Candidate
	seen := map[string]bool{}

	doc.Find(selector).EachWithBreak(func(i int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		lower := strings.ToLower(text)

		matched := false
		for _, marker := range markers {
			if strings.Contains(lower, marker) {
				matched = true
				break
			}
		}
		if !matched {
			return true
		}

		title := ExtractPostTitle(text)
		if title == "" {
			title = text
		}
		key := core.NormalizeTitle(title)
		if key == "" || seen[key] || !LikelyTitle(title) {
			return true
		}
		seen[key] = true

		candidates = append(candidates, core.Candidate{
			Name:   title,
			Source: core.SourceGoogleTrends,
		})
		return len(candidates) < a.limit
	})

	return candidates
}
