package sources

import (
	"regexp"
	"strings"
	"unicode"
)

// Forum phrases that mark a scraped string as a discussion post rather
// than a title.
var excludeKeywords = []string{
	"cakeday", "megathread", "discussion", "official", "trailer",
	"review", "question", "help", "where", "how", "what", "why",
	"reddit", "post", "thread", "ama", "announcement",
}

// Interrogative or auxiliary leads that mark a sentence, not a title.
var rejectStarts = map[string]bool{
	"how": true, "what": true, "where": true, "why": true, "when": true,
	"is": true, "are": true, "do": true, "does": true,
}

// LikelyTitle reports whether a scraped string plausibly names a film or
// show rather than forum noise.
func LikelyTitle(title string) bool {
	if len(title) < 3 {
		return false
	}

	lower := strings.ToLower(title)
	for _, keyword := range excludeKeywords {
		if strings.Contains(lower, keyword) {
			return false
		}
	}

	words := strings.Fields(title)
	// Too many words = likely a discussion post.
	if len(words) > 8 {
		return false
	}

	capitalized := 0
	for _, word := range words {
		r := []rune(word)
		if len(r) > 0 && unicode.IsUpper(r[0]) {
			capitalized++
		}
	}
	if len(words) >= 2 && capitalized < 2 {
		return false
	}
	if len(words) == 1 && capitalized < 1 {
		return false
	}

	if rejectStarts[strings.ToLower(words[0])] {
		return false
	}

	return true
}

var (
	quotedTitleRe  = regexp.MustCompile(`["']([A-Z][^"']{3,50})["']`)
	titleYearRe    = regexp.MustCompile(`([A-Z][A-Za-z\s':&-]{3,50})\s*\((20[0-9]{2})\)`)
	taggedTitleRe  = regexp.MustCompile(`\[(?:Discussion|Review|Official)\]\s*([A-Z][A-Za-z\s':&-]{3,50})`)
	titleTaggedRe  = regexp.MustCompile(`([A-Z][A-Za-z\s':&-]{3,50})\s*\[(?:Discussion|Review)`)
	watchedTitleRe = regexp.MustCompile(`(?i)(?:watched|saw|loved|hated|finished)\s+["']?([A-Z][A-Za-z\s':&-]{3,50})["']?`)
	leadingRankRe  = regexp.MustCompile(`^\d+\.\s*`)
)

// ExtractPostTitle pulls a probable title out of a forum post headline
// using the patterns those posts actually follow. Returns "" when no
// pattern matches.
func ExtractPostTitle(text string) string {
	for _, re := range []*regexp.Regexp{quotedTitleRe, titleYearRe, taggedTitleRe, titleTaggedRe, watchedTitleRe} {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// StripRank removes a leading chart position like "1. " from a title.
func StripRank(title string) string {
	return strings.TrimSpace(leadingRankRe.ReplaceAllString(strings.TrimSpace(title), ""))
}
