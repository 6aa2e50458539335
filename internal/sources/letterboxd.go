package sources

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"reelbuzz/internal/core"
	"reelbuzz/internal/fetch"
)

const letterboxdPopularURL = "https://letterboxd.com/films/popular/this/week/"

// Selectors tried in order; poster alt text carries the film title when
// the headline variant is absent.
var letterboxdSelectors = []string{
	"h2.headline-2",
	"img.image",
	"a[href*='/film/']",
}

// Letterboxd scrapes the weekly popular films page, reporting candidates
// in shelf order. Letterboxd only covers films; the TV category gets
// nothing from it.
type Letterboxd struct {
	client *fetch.Client
	limit  int
}

// NewLetterboxd creates the Letterboxd adapter. limit bounds candidates;
// non-positive means 8.
func NewLetterboxd(client *fetch.Client, limit int) *Letterboxd {
	if limit <= 0 {
		limit = 8
	}
	return &Letterboxd{client: client, limit: limit}
}

func (a *Letterboxd) Source() core.Source { return core.SourceLetterboxd }

func (a *Letterboxd) Fetch(ctx context.Context, category core.Category) ([]core.Candidate, error) {
	if category != core.CategoryMovie {
		return nil, nil
	}

	doc, err := a.client.GetDocument(ctx, letterboxdPopularURL)
	if err != nil {
		return nil, err
	}

	candidates := a.parsePopular(doc)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no films matched any known selector on %s", letterboxdPopularURL)
	}
	return candidates, nil
}

func (a *Letterboxd) parsePopular(doc *goquery.Document) []core.Candidate {
	var candidates []core.Candidate
	seen := map[string]bool{}

	add := func(title string) bool {
		key := core.NormalizeTitle(title)
		if key == "" || seen[key] || !LikelyTitle(title) {
			return len(candidates) < a.limit
		}
		seen[key] = true
		candidates = append(candidates, core.Candidate{
			Name:   title,
			Source: core.SourceLetterboxd,
			Rank:   len(candidates) + 1,
		})
		return len(candidates) < a.limit
	}

	for _, selector := range letterboxdSelectors {
		if selector == "img.image" {
			doc.Find(selector).EachWithBreak(func(i int, s *goquery.Selection) bool {
				alt, _ := s.Attr("alt")
				return add(alt)
			})
		} else {
			doc.Find(selector).EachWithBreak(func(i int, s *goquery.Selection) bool {
				return add(s.Text())
			})
		}

		if len(candidates) >= a.limit {
			break
		}
	}

	return candidates
}
