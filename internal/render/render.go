// Package render formats a run report for the terminal.
package render

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"reelbuzz/internal/core"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	draftedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	skippedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

// Report renders the run report as styled terminal text, one line per
// category in stable order.
func Report(report core.RunReport) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("Run %s", report.ID)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("finished in %s",
		report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))))
	b.WriteString("\n\n")

	categories := make([]core.Category, 0, len(report.Outcomes))
	for category := range report.Outcomes {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })

	for _, category := range categories {
		outcome := report.Outcomes[category]
		b.WriteString(fmt.Sprintf("%-6s %s\n", category, outcomeLine(outcome)))
	}
	return b.String()
}

func outcomeLine(outcome core.CategoryOutcome) string {
	switch outcome.Kind {
	case core.OutcomeDrafted:
		return draftedStyle.Render(
			fmt.Sprintf("drafted %q (draft %s)", outcome.Title, outcome.DraftID))
	case core.OutcomeSkipped:
		return skippedStyle.Render(
			fmt.Sprintf("skipped %q (%s)", outcome.Title, outcome.Reason))
	case core.OutcomeFailed:
		msg := "unknown error"
		if outcome.Err != nil {
			msg = outcome.Err.Error()
		}
		if outcome.Title != "" {
			return failedStyle.Render(fmt.Sprintf("failed %q: %s", outcome.Title, msg))
		}
		return failedStyle.Render("failed: " + msg)
	default:
		return dimStyle.Render("no outcome")
	}
}
