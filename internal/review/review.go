// Package review builds critic prompts and turns title details into a
// generated review body.
package review

import (
	"context"
	"fmt"
	"strings"

	"reelbuzz/internal/core"
	"reelbuzz/internal/llm"
	"reelbuzz/internal/logger"
)

const maxReferenceLen = 800

// Generator produces a review for a resolved title using an LLM client.
type Generator struct {
	client llm.Client
}

func NewGenerator(client llm.Client) *Generator {
	return &Generator{client: client}
}

// Generate writes a review for the title. The prompt format depends on the
// category; review excerpts, when present, are appended as numbered
// reference material.
func (g *Generator) Generate(ctx context.Context, category core.Category, title core.ResolvedTitle, details core.TitleDetails) (string, error) {
	prompt := buildPrompt(category, title.Name, details)

	text, err := g.client.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("review generation for %q: %w", title.Name, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("review generation for %q: empty response", title.Name)
	}

	logger.Info("Generated review",
		"category", string(category),
		"title", title.Name,
		"chars", len(text),
	)
	return text, nil
}

// buildPrompt renders the critic prompt for a category.
func buildPrompt(category core.Category, title string, details core.TitleDetails) string {
	plot := details.Plot
	if plot == "" {
		plot = "(no plot summary available)"
	}

	var b strings.Builder
	switch category {
	case core.CategoryTV:
		fmt.Fprintf(&b, "Write a 400-600 word original TV show review for '%s'.\n\n", title)
		fmt.Fprintf(&b, "SERIES SUMMARY: %s\n\n", plot)
		b.WriteString("Your review should:\n")
		b.WriteString("1. Start with an engaging hook\n")
		b.WriteString("2. Discuss season/episode structure, performances, themes\n")
		b.WriteString("3. Give honest critique (strengths + weaknesses)\n")
		b.WriteString("4. End with rating (★ out of ★★★★★) and recommendation\n\n")
		b.WriteString("Write in engaging, conversational style like a professional TV critic.")
	default:
		fmt.Fprintf(&b, "Write a 400-600 word original movie review for '%s'.\n\n", title)
		fmt.Fprintf(&b, "PLOT SUMMARY: %s\n\n", plot)
		b.WriteString("Your review should:\n")
		b.WriteString("1. Start with an engaging hook\n")
		b.WriteString("2. Analyze themes, characters, direction\n")
		b.WriteString("3. Give honest critique (strengths + weaknesses)\n")
		b.WriteString("4. End with rating (★ out of ★★★★★) and recommendation\n\n")
		b.WriteString("Write in engaging, conversational style like a professional film critic.")
	}

	if block := referencesBlock(details.Excerpts); block != "" {
		b.WriteString(block)
	}
	return b.String()
}

// referencesBlock numbers the excerpts, flattens newlines, and caps each
// at maxReferenceLen runes.
func referencesBlock(excerpts []string) string {
	if len(excerpts) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n\nREFERENCE REVIEWS:\n")
	for i, excerpt := range excerpts {
		snippet := strings.Join(strings.Fields(excerpt), " ")
		if runes := []rune(snippet); len(runes) > maxReferenceLen {
			snippet = string(runes[:maxReferenceLen])
		}
		fmt.Fprintf(&b, "%d) %s\n", i+1, snippet)
	}
	return b.String()
}
