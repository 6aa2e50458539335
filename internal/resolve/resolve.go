// Package resolve turns a selected title into a canonical IMDb detail page.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"reelbuzz/internal/core"
	"reelbuzz/internal/fetch"
	"reelbuzz/internal/logger"
)

// ErrNoMatch means the metadata source returned no acceptable result for
// the requested category. Callers skip the category for this run.
var ErrNoMatch = errors.New("no matching title found")

const defaultBaseURL = "https://www.imdb.com"

// Result rows across IMDb's markup generations, tried in order.
var resultRowSelectors = []string{
	"section[data-testid='find-results-section-title'] li.ipc-metadata-list-summary-item",
	"li.find-title-result",
	"table.findList tr.findResult",
}

var titleIDRe = regexp.MustCompile(`/title/(tt\d+)`)

// Row text markers that identify non-movie entry types.
var tvMarkers = []string{"tv series", "tv mini series", "tv mini-series", "tv special"}
var rejectMarkers = []string{"video game", "podcast", "music video", "short"}

// Resolver looks titles up on the IMDb find page.
type Resolver struct {
	client  *fetch.Client
	baseURL string
}

// NewResolver creates a resolver. An empty baseURL uses imdb.com; tests
// point it at a local server.
func NewResolver(client *fetch.Client, baseURL string) *Resolver {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Resolver{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

// Resolve searches for name and returns the top match of the requested
// category. Rows of the wrong entry type are skipped rather than accepted;
// zero acceptable rows is ErrNoMatch.
func (r *Resolver) Resolve(ctx context.Context, category core.Category, name string) (core.ResolvedTitle, error) {
	if !category.Valid() {
		return core.ResolvedTitle{}, fmt.Errorf("invalid category %q", category)
	}

	findURL := fmt.Sprintf("%s/find/?q=%s&s=tt", r.baseURL, url.QueryEscape(name))
	doc, err := r.client.GetDocument(ctx, findURL)
	if err != nil {
		return core.ResolvedTitle{}, fmt.Errorf("title lookup failed for %q: %w", name, err)
	}

	for _, selector := range resultRowSelectors {
		rows := doc.Find(selector)
		if rows.Length() == 0 {
			continue
		}

		resolved, found := r.pickRow(rows, category)
		if !found {
			break // rows existed but none matched the category
		}

		logger.Info("Resolved title",
			"category", string(category),
			"name", resolved.Name,
			"canonical_id", resolved.CanonicalID,
		)
		return resolved, nil
	}

	return core.ResolvedTitle{}, fmt.Errorf("%w: %q (%s)", ErrNoMatch, name, category)
}

// pickRow scans result rows in order and accepts the first one whose
// entry type matches the requested category.
func (r *Resolver) pickRow(rows *goquery.Selection, category core.Category) (core.ResolvedTitle, bool) {
	var resolved core.ResolvedTitle
	found := false

	rows.EachWithBreak(func(i int, row *goquery.Selection) bool {
		rowText := strings.ToLower(row.Text())
		for _, marker := range rejectMarkers {
			if strings.Contains(rowText, marker) {
				return true
			}
		}

		isTV := false
		for _, marker := range tvMarkers {
			if strings.Contains(rowText, marker) {
				isTV = true
				break
			}
		}
		if (category == core.CategoryTV) != isTV {
			return true
		}

		link := row.Find("a[href*='/title/']").First()
		href, ok := link.Attr("href")
		if !ok {
			return true
		}
		m := titleIDRe.FindStringSubmatch(href)
		if m == nil {
			return true
		}

		title := strings.TrimSpace(link.Text())
		if title == "" {
			title = strings.TrimSpace(row.Find("img").AttrOr("alt", ""))
		}
		if title == "" {
			return true
		}

		resolved = core.ResolvedTitle{
			Name:        title,
			CanonicalID: m[1],
			DetailURL:   fmt.Sprintf("%s/title/%s/", r.baseURL, m[1]),
		}
		found = true
		return false
	})

	return resolved, found
}
