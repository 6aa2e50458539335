// Package buzz merges per-source candidate lists into one ranked choice.
package buzz

import (
	"sort"

	"reelbuzz/internal/core"
	"reelbuzz/internal/logger"
)

// Weights holds the per-source base weights. A ranked source decays by
// inverse rank (position k contributes weight/k); a source that reports
// its own per-candidate score contributes weight scaled by that score
// relative to the source's maximum; an unranked, unscored source
// contributes the flat weight.
type Weights struct {
	IMDBMeter    float64
	Letterboxd   float64
	Reddit       float64
	GoogleTrends float64
	Static       float64
}

// DefaultWeights are the documented constants; they are configuration,
// not behavior.
func DefaultWeights() Weights {
	return Weights{
		IMDBMeter:    40,
		Letterboxd:   30,
		Reddit:       25,
		GoogleTrends: 15,
		Static:       1,
	}
}

func (w Weights) forSource(s core.Source) float64 {
	switch s {
	case core.SourceIMDBMeter:
		return w.IMDBMeter
	case core.SourceLetterboxd:
		return w.Letterboxd
	case core.SourceReddit:
		return w.Reddit
	case core.SourceGoogleTrends:
		return w.GoogleTrends
	case core.SourceStatic:
		return w.Static
	default:
		return 0
	}
}

// Ranker aggregates candidates across sources. It performs no I/O; the
// fallback lists are plain data captured at construction.
type Ranker struct {
	weights  Weights
	fallback map[core.Category][]core.Candidate
}

// NewRanker creates a ranker. fallback maps each category to the static
// candidate list used when every live source failed; it keeps the pipeline
// alive through a full trend-source outage.
func NewRanker(weights Weights, fallback map[core.Category][]core.Candidate) *Ranker {
	return &Ranker{weights: weights, fallback: fallback}
}

// accumulator tracks one normalized title across sources.
type accumulator struct {
	name    string // first display spelling seen from the strongest source
	namePri int    // priority of the source that supplied name
	total   float64
	sources map[core.Source]bool
}

// Rank merges the adapter outputs into a single descending-scored list.
// Scores for the same normalized title accumulate across sources. Ties
// break by the strongest contributing source's priority, then
// alphabetically. Rank never returns an empty list and never fails: with
// no live candidates at all it scores the static fallback list instead.
func (r *Ranker) Rank(category core.Category, bySource map[core.Source][]core.Candidate) []core.ScoredCandidate {
	if total := countCandidates(bySource); total == 0 {
		logger.Warn("All buzz sources empty, using static fallback", "category", string(category))
		bySource = map[core.Source][]core.Candidate{
			core.SourceStatic: r.fallback[category],
		}
	}

	acc := map[string]*accumulator{}

	for source, candidates := range bySource {
		weight := r.weights.forSource(source)
		if weight <= 0 || len(candidates) == 0 {
			continue
		}

		maxScore := 0.0
		for _, c := range candidates {
			if c.Score > maxScore {
				maxScore = c.Score
			}
		}

		for _, c := range candidates {
			key := core.NormalizeTitle(c.Name)
			if key == "" {
				continue
			}

			contribution := weight
			switch {
			case c.Rank > 0:
				contribution = weight / float64(c.Rank)
			case c.Score > 0 && maxScore > 0:
				contribution = weight * (c.Score / maxScore)
			}

			a, ok := acc[key]
			if !ok {
				a = &accumulator{name: c.Name, namePri: core.SourcePriority(source), sources: map[core.Source]bool{}}
				acc[key] = a
			}
			a.total += contribution
			a.sources[source] = true
			if pri := core.SourcePriority(source); pri < a.namePri {
				a.name = c.Name
				a.namePri = pri
			}
		}
	}

	scored := make([]core.ScoredCandidate, 0, len(acc))
	for _, a := range acc {
		scored = append(scored, core.ScoredCandidate{
			Name:       a.name,
			TotalScore: a.total,
			Sources:    sortedSources(a.sources),
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].TotalScore != scored[j].TotalScore {
			return scored[i].TotalScore > scored[j].TotalScore
		}
		pi, pj := bestPriority(scored[i].Sources), bestPriority(scored[j].Sources)
		if pi != pj {
			return pi < pj
		}
		return core.NormalizeTitle(scored[i].Name) < core.NormalizeTitle(scored[j].Name)
	})

	return scored
}

// Pick returns the single selected candidate for the run.
func (r *Ranker) Pick(category core.Category, bySource map[core.Source][]core.Candidate) core.ScoredCandidate {
	return r.Rank(category, bySource)[0]
}

func countCandidates(bySource map[core.Source][]core.Candidate) int {
	total := 0
	for _, candidates := range bySource {
		total += len(candidates)
	}
	return total
}

// sortedSources orders contributing sources strongest first.
func sortedSources(set map[core.Source]bool) []core.Source {
	out := make([]core.Source, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return core.SourcePriority(out[i]) < core.SourcePriority(out[j])
	})
	return out
}

func bestPriority(sources []core.Source) int {
	best := core.SourcePriority("")
	for _, s := range sources {
		if pri := core.SourcePriority(s); pri < best {
			best = pri
		}
	}
	return best
}
