package sources

import (
	"context"

	"reelbuzz/internal/core"
)

// Default fallback titles when every live source is down: recent notable
// releases, refreshed occasionally by hand. The list only needs to name
// titles that resolve on IMDb; staleness is acceptable for an outage path.
var defaultStaticTitles = map[core.Category][]string{
	core.CategoryMovie: {
		"Wicked",
		"Dune: Part Two",
		"Gladiator II",
		"Oppenheimer",
		"The Substance",
	},
	core.CategoryTV: {
		"Severance",
		"The Last of Us",
		"Shogun",
		"The Bear",
		"House of the Dragon",
	},
}

// Static is the outage fallback source. It never fails and never performs
// I/O; the aggregator gives it a sentinel low weight so any live signal
// outranks it.
type Static struct {
	titles map[core.Category][]string
}

// NewStatic creates the static fallback adapter. Empty overrides fall back
// to the built-in lists.
func NewStatic(movieTitles, tvTitles []string) *Static {
	titles := map[core.Category][]string{
		core.CategoryMovie: movieTitles,
		core.CategoryTV:    tvTitles,
	}
	for category, list := range titles {
		if len(list) == 0 {
			titles[category] = defaultStaticTitles[category]
		}
	}
	return &Static{titles: titles}
}

func (a *Static) Source() core.Source { return core.SourceStatic }

func (a *Static) Fetch(ctx context.Context, category core.Category) ([]core.Candidate, error) {
	names := a.titles[category]
	candidates := make([]core.Candidate, 0, len(names))
	for i, name := range names {
		candidates = append(candidates, core.Candidate{
			Name:   name,
			Source: core.SourceStatic,
			Rank:   i + 1,
		})
	}
	return candidates, nil
}
