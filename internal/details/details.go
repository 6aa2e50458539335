// Package details scrapes descriptive metadata and review excerpts from a
// resolved title's detail page.
package details

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"reelbuzz/internal/core"
	"reelbuzz/internal/fetch"
	"reelbuzz/internal/logger"
)

const (
	maxExcerpts    = 3
	maxExcerptLen  = 800
	reviewsSegment = "reviews/"
)

// Plot appears under different test IDs depending on viewport variant.
var plotSelectors = []string{
	"span[data-testid='plot-xl']",
	"span[data-testid='plot-l']",
	"span[data-testid='plot-xs_to_m']",
	"p[data-testid='plot'] span",
}

var ratingSelectors = []string{
	"div[data-testid='hero-rating-bar__aggregate-rating__score'] span",
	"span.sc-bde20123-1",
}

var reviewSelectors = []string{
	"div[data-testid='review-card-parent'] div.ipc-html-content-inner-div",
	"article.user-review-item div.ipc-html-content-inner-div",
	"div.review-container div.text.show-more__control",
}

var yearRe = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// Fetcher scrapes title metadata. Every field is best effort: a page that
// yields nothing still produces an empty TitleDetails without error, and
// the review page failing never fails the fetch.
type Fetcher struct {
	client *fetch.Client
}

func NewFetcher(client *fetch.Client) *Fetcher {
	return &Fetcher{client: client}
}

// Fetch loads the detail page for the resolved title and, separately, its
// review page. Only a detail page transport failure is returned as an
// error; missing fields degrade to zero values.
func (f *Fetcher) Fetch(ctx context.Context, title core.ResolvedTitle) (core.TitleDetails, error) {
	doc, err := f.client.GetDocument(ctx, title.DetailURL)
	if err != nil {
		return core.TitleDetails{}, fmt.Errorf("fetching detail page for %q: %w", title.Name, err)
	}

	details := core.TitleDetails{
		Plot:   firstText(doc, plotSelectors),
		Rating: firstText(doc, ratingSelectors),
		Year:   extractYear(doc),
	}

	details.Excerpts = f.fetchExcerpts(ctx, title)

	logger.Info("Fetched title details",
		"title", title.Name,
		"has_plot", details.Plot != "",
		"has_rating", details.Rating != "",
		"excerpts", len(details.Excerpts),
	)
	return details, nil
}

// fetchExcerpts pulls up to maxExcerpts review bodies from the reviews
// page. Any failure is logged and swallowed.
func (f *Fetcher) fetchExcerpts(ctx context.Context, title core.ResolvedTitle) []string {
	reviewsURL := strings.TrimRight(title.DetailURL, "/") + "/" + reviewsSegment
	doc, err := f.client.GetDocument(ctx, reviewsURL)
	if err != nil {
		logger.Warn("Review page unavailable, continuing without excerpts",
			"title", title.Name, "error", err.Error())
		return nil
	}

	var excerpts []string
	for _, selector := range reviewSelectors {
		doc.Find(selector).EachWithBreak(func(i int, s *goquery.Selection) bool {
			text := strings.TrimSpace(s.Text())
			if text == "" {
				return true
			}
			excerpts = append(excerpts, truncate(text, maxExcerptLen))
			return len(excerpts) < maxExcerpts
		})
		if len(excerpts) > 0 {
			break
		}
	}
	return excerpts
}

func firstText(doc *goquery.Document, selectors []string) string {
	for _, selector := range selectors {
		if text := strings.TrimSpace(doc.Find(selector).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// extractYear reads the release year from the title block metadata list,
// falling back to the first plausible year in the page title.
func extractYear(doc *goquery.Document) string {
	block := doc.Find("ul.ipc-inline-list a[href*='releaseinfo']").First().Text()
	if m := yearRe.FindString(block); m != "" {
		return m
	}
	return yearRe.FindString(doc.Find("title").Text())
}

// truncate cuts s to at most limit runes, appending an ellipsis marker
// when anything was dropped.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit])) + "..."
}
