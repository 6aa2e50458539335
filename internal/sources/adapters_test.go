package sources

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"reelbuzz/internal/core"
)

func docFrom(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("building document: %v", err)
	}
	return doc
}

func TestIMDBParseChart_ModernMarkup(t *testing.T) {
	doc := docFrom(t, `<html><body>
<ul>
<li><h3 class="ipc-title__text">1. Wicked</h3></li>
<li><h3 class="ipc-title__text">2. Gladiator II</h3></li>
<li><h3 class="ipc-title__text">2. Gladiator II</h3></li>
<li><h3 class="ipc-title__text">3. Dune: Part Two</h3></li>
</ul>
</body></html>`)

	adapter := NewIMDBMeter(nil, 10)
	candidates := adapter.parseChart(doc)

	if len(candidates) != 3 {
		t.Fatalf("expected 3 deduped candidates, got %d: %+v", len(candidates), candidates)
	}
	if candidates[0].Name != "Wicked" || candidates[0].Rank != 1 {
		t.Errorf("unexpected first candidate %+v", candidates[0])
	}
	if candidates[2].Name != "Dune: Part Two" || candidates[2].Rank != 3 {
		t.Errorf("expected rank positions to follow chart order, got %+v", candidates[2])
	}
}

func TestIMDBParseChart_LegacyMarkupFallback(t *testing.T) {
	doc := docFrom(t, `<html><body>
<table><tr><td class="titleColumn"><a>The Substance</a></td></tr>
<tr><td class="titleColumn"><a>Oppenheimer</a></td></tr></table>
</body></html>`)

	candidates := NewIMDBMeter(nil, 10).parseChart(doc)
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates from legacy markup, got %d", len(candidates))
	}
	if candidates[0].Name != "The Substance" {
		t.Errorf("unexpected candidate %+v", candidates[0])
	}
}

func TestIMDBParseChart_LimitAndJunk(t *testing.T) {
	doc := docFrom(t, `<html><body>
<h3 class="ipc-title__text">Wicked</h3>
<h3 class="ipc-title__text">What is everyone watching</h3>
<h3 class="ipc-title__text">Gladiator II</h3>
<h3 class="ipc-title__text">Dune: Part Two</h3>
</body></html>`)

	candidates := NewIMDBMeter(nil, 2).parseChart(doc)
	if len(candidates) != 2 {
		t.Fatalf("expected the limit to cap candidates, got %d", len(candidates))
	}
	for _, c := range candidates {
		if strings.Contains(c.Name, "everyone") {
			t.Errorf("junk row slipped through: %+v", c)
		}
	}
}

func TestLetterboxdParsePopular_PosterAltText(t *testing.T) {
	doc := docFrom(t, `<html><body>
<ul>
<li><img class="image" alt="Wicked"></li>
<li><img class="image" alt="The Substance"></li>
</ul>
</body></html>`)

	adapter := NewLetterboxd(nil, 8)
	candidates := adapter.parsePopular(doc)

	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	if candidates[0].Name != "Wicked" || candidates[0].Rank != 1 {
		t.Errorf("unexpected first candidate %+v", candidates[0])
	}
	if candidates[1].Rank != 2 {
		t.Errorf("shelf order should become rank, got %+v", candidates[1])
	}
}

func TestLetterboxdFetch_TVGetsNothing(t *testing.T) {
	adapter := NewLetterboxd(nil, 8)
	candidates, err := adapter.Fetch(context.Background(), core.CategoryTV)
	if err != nil || candidates != nil {
		t.Errorf("letterboxd covers films only, got %v / %v", candidates, err)
	}
}

func TestTrendsParseTrending_MarkerFilter(t *testing.T) {
	doc := docFrom(t, `<html><body>
<div class="feed-item"><span class="title">Wicked Part Two movie</span></div>
<div class="feed-item"><span class="title">Weather forecast tomorrow</span></div>
<div class="feed-item"><span class="title">Severance Season Two finale show</span></div>
</body></html>`)

	adapter := NewGoogleTrends(nil, 8)

	movies := adapter.parseTrending(doc, trendsSelectors[0], trendsMarkers[core.CategoryMovie])
	if len(movies) != 1 {
		t.Fatalf("expected 1 movie trend, got %+v", movies)
	}
	if movies[0].Rank != 0 {
		t.Errorf("trends candidates are unranked, got %+v", movies[0])
	}

	tv := adapter.parseTrending(doc, trendsSelectors[0], trendsMarkers[core.CategoryTV])
	if len(tv) != 1 || !strings.Contains(tv[0].Name, "Severance") {
		t.Errorf("expected the severance trend, got %+v", tv)
	}
}

func TestStaticFetch_DefaultsAndOrder(t *testing.T) {
	adapter := NewStatic(nil, nil)

	for _, category := range core.AllCategories() {
		candidates, err := adapter.Fetch(context.Background(), category)
		if err != nil {
			t.Fatalf("%s: static adapter never fails: %v", category, err)
		}
		if len(candidates) == 0 {
			t.Fatalf("%s: static adapter never returns empty", category)
		}
		for i, c := range candidates {
			if c.Rank != i+1 {
				t.Errorf("%s: expected rank %d, got %+v", category, i+1, c)
			}
		}
	}
}

func TestStaticFetch_Overrides(t *testing.T) {
	adapter := NewStatic([]string{"My Film"}, nil)

	movies, _ := adapter.Fetch(context.Background(), core.CategoryMovie)
	if len(movies) != 1 || movies[0].Name != "My Film" {
		t.Errorf("expected override list, got %+v", movies)
	}

	tv, _ := adapter.Fetch(context.Background(), core.CategoryTV)
	if len(tv) == 0 {
		t.Error("empty override should fall back to defaults")
	}
}

const redditRSS = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>hot posts</title>
  <entry><title>Just watched "Wicked" and it blew me away</title></entry>
  <entry><title>Wicked (2024) appreciation post thread</title></entry>
  <entry><title>finally saw Wicked last night</title></entry>
  <entry><title>Gladiator II (2024) was a letdown</title></entry>
  <entry><title>how do I find older films</title></entry>
</feed>`

func TestRedditTallyMentions(t *testing.T) {
	feed, err := gofeed.NewParser().ParseString(redditRSS)
	if err != nil {
		t.Fatalf("parsing fixture feed: %v", err)
	}

	mentions := map[string]int{}
	display := map[string]string{}
	tallyMentions(feed, mentions, display)

	wickedKey := core.NormalizeTitle("Wicked")
	if mentions[wickedKey] != 2 {
		t.Errorf("expected 2 countable Wicked mentions, got %d (%v)", mentions[wickedKey], mentions)
	}
	if display[wickedKey] != "Wicked" {
		t.Errorf("expected first-seen spelling, got %q", display[wickedKey])
	}
	gladiatorKey := core.NormalizeTitle("Gladiator II")
	if mentions[gladiatorKey] != 1 {
		t.Errorf("expected 1 Gladiator II mention, got %d", mentions[gladiatorKey])
	}
	if mentions[core.NormalizeTitle("how do I find older films")] != 0 {
		t.Error("question posts must not count")
	}
}

func TestRedditFetch_NoSubreddits(t *testing.T) {
	adapter := NewReddit(nil, nil, nil, 12)
	candidates, err := adapter.Fetch(context.Background(), core.CategoryMovie)
	if err != nil || candidates != nil {
		t.Errorf("no subreddits means no signal and no error, got %v / %v", candidates, err)
	}
}
