package sources

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"reelbuzz/internal/core"
	"reelbuzz/internal/fetch"
)

const imdbBaseURL = "https://www.imdb.com"

// Chart URLs per category, tried in order of preference. The secondary
// chart covers the case where the meter page is blocked or has changed
// layout.
var imdbChartURLs = map[core.Category][]string{
	core.CategoryMovie: {
		imdbBaseURL + "/chart/moviemeter/",
		imdbBaseURL + "/chart/top/",
	},
	core.CategoryTV: {
		imdbBaseURL + "/chart/tvmeter/",
		imdbBaseURL + "/chart/toptv/",
	},
}

// Selectors tried in order on each chart page; IMDb has shipped several
// generations of chart markup.
var imdbChartSelectors = []string{
	"td.titleColumn a",
	"h3.ipc-title__text",
	"a.ipc-title-link-wrapper",
	"a[href^='/title/']",
}

// IMDBMeter scrapes the IMDb popularity meter charts. It is the strongest
// buzz signal and reports ranked candidates.
type IMDBMeter struct {
	client *fetch.Client
	limit  int
}

// NewIMDBMeter creates the IMDb meter adapter. limit bounds how many chart
// rows become candidates; non-positive means 10.
func NewIMDBMeter(client *fetch.Client, limit int) *IMDBMeter {
	if limit <= 0 {
		limit = 10
	}
	return &IMDBMeter{client: client, limit: limit}
}

func (a *IMDBMeter) Source() core.Source { return core.SourceIMDBMeter }

func (a *IMDBMeter) Fetch(ctx context.Context, category core.Category) ([]core.Candidate, error) {
	urls, ok := imdbChartURLs[category]
	if !ok {
		return nil, fmt.Errorf("no IMDb chart for category %q", category)
	}

	var lastErr error
	for _, url := range urls {
		doc, err := a.client.GetDocument(ctx, url)
		if err != nil {
			lastErr = err
			continue
		}

		candidates := a.parseChart(doc)
		if len(candidates) > 0 {
			return candidates, nil
		}
		lastErr = fmt.Errorf("no chart rows matched any known selector on %s", url)
	}

	return nil, lastErr
}

// parseChart extracts ranked titles using the first selector generation
// that yields rows.
func (a *IMDBMeter) parseChart(doc *goquery.Document) []core.Candidate {
	for _, selector := range imdbChartSelectors {
		var candidates []core.Candidate
		seen := map[string]bool{}

		doc.Find(selector).EachWithBreak(func(i int, s *goquery.Selection) bool {
			title := StripRank(s.Text())
			if title == "" {
				if alt, ok := s.Find("img").Attr("alt"); ok {
					title = StripRank(alt)
				}
			}

			key := core.NormalizeTitle(title)
			if key == "" || seen[key] || !LikelyTitle(title) {
				return true
			}
			seen[key] = true

			candidates = append(candidates, core.Candidate{
				Name:   title,
				Source: core.SourceIMDBMeter,
				Rank:   len(candidates) + 1,
			})
			return len(candidates) < a.limit
		})

		if len(candidates) > 0 {
			return candidates
		}
	}
	return nil
}
