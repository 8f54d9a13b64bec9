package engine

import (
	"errors"
	"fmt"

	"labscore/internal/grading"
)

// ScorePlan is everything needed to score a set of labs with one grading
// configuration.
type ScorePlan struct {
	RunID   string
	Grading *grading.Configuration
	Labs    []LabRef
	// ShowAll includes hidden categories in the rendered reports.
	ShowAll bool
}

// NewScorePlan validates the inputs of a run.
func NewScorePlan(runID string, cfg *grading.Configuration, labs []LabRef, showAll bool) (*ScorePlan, error) {
	if cfg == nil {
		return nil, errors.New("grading configuration is nil")
	}
	seen := make(map[string]struct{}, len(labs))
	for _, l := range labs {
		if _, dup := seen[l.Dir]; dup {
			return nil, fmt.Errorf("lab %s is listed twice", l.Name)
		}
		seen[l.Dir] = struct{}{}
	}
	return &ScorePlan{RunID: runID, Grading: cfg, Labs: labs, ShowAll: showAll}, nil
}
