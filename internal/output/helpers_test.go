package output

import (
	"testing"

	"labscore/internal/grading"
	"labscore/internal/outcome"
	"labscore/internal/report"
	"labscore/internal/scoring"
)

// scoredOutcome builds a lab outcome worth 5 out of 10 points.
func scoredOutcome(t *testing.T, lab, dir string) LabOutcome {
	t.Helper()
	cfg, err := grading.New([]grading.CategorySpec{
		{Name: "Connectivity", Rules: []grading.RuleSpec{
			{Name: "ping", Type: "each", Pattern: "ping", Points: 5},
		}},
	})
	if err != nil {
		t.Fatalf("grading.New: %v", err)
	}
	res, err := scoring.Score(cfg, []outcome.Record{
		{Description: "ping a", Passed: true},
		{Description: "ping b", Passed: false},
	})
	if err != nil {
		t.Fatalf("scoring.Score: %v", err)
	}
	return LabOutcome{RunID: "run-1", Lab: lab, Dir: dir, Result: res, Lines: report.Lines(res, false)}
}
