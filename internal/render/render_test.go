package render

import (
	"errors"
	"strings"
	"testing"
	"time"

	"reelbuzz/internal/core"
)

func TestReport(t *testing.T) {
	start := time.Date(2026, time.August, 28, 12, 0, 0, 0, time.UTC)
	report := core.RunReport{
		ID:         "run-123",
		StartedAt:  start,
		FinishedAt: start.Add(42 * time.Second),
		Outcomes: map[core.Category]core.CategoryOutcome{
			core.CategoryMovie: {Kind: core.OutcomeDrafted, Title: "Wicked", DraftID: "draft-1"},
			core.CategoryTV:    {Kind: core.OutcomeSkipped, Title: "Severance", Reason: core.SkipReasonRecentDraft},
		},
	}

	out := Report(report)
	for _, want := range []string{
		"Run run-123",
		`drafted "Wicked" (draft draft-1)`,
		`skipped "Severance" (recently_drafted)`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}

	// Movie line before tv line, every run.
	if strings.Index(out, "movie") > strings.Index(out, "tv") {
		t.Error("expected stable category ordering")
	}
}

func TestReport_FailedOutcome(t *testing.T) {
	report := core.RunReport{
		ID: "run-456",
		Outcomes: map[core.Category]core.CategoryOutcome{
			core.CategoryMovie: {Kind: core.OutcomeFailed, Title: "Wicked", Err: errors.New("hashnode down")},
		},
	}

	out := Report(report)
	if !strings.Contains(out, `failed "Wicked": hashnode down`) {
		t.Errorf("missing failure line:\n%s", out)
	}
}
