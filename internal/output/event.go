package output

import "labscore/internal/scoring"

// Event is a lifecycle record for NDJSON streaming output.
//
// In NDJSON mode, sinks emit Events (one JSON object per line), including:
// - run.started
// - lab.started
// - lab.scored
// - lab.failed
// - run.finished
//
// JSON mode remains an aggregate of LabDocument values.
type Event struct {
	Type   string       `json:"type"`
	RunID  string       `json:"run_id,omitempty"`
	Lab    string       `json:"lab,omitempty"`
	Result *LabDocument `json:"result,omitempty"`
	Labs   int          `json:"labs,omitempty"`
	Failed int          `json:"failed,omitempty"`
	// ExitCode is only set on run.finished.
	ExitCode int `json:"exit_code,omitempty"`
}

const (
	EventRunStarted  = "run.started"
	EventLabStarted  = "lab.started"
	EventLabScored   = "lab.scored"
	EventLabFailed   = "lab.failed"
	EventRunFinished = "run.finished"
)

// LabOutcome is what the engine writes to sinks once per lab.
type LabOutcome struct {
	RunID string
	Lab   string
	Dir   string
	// Result is nil when Err is set.
	Result *scoring.Result
	Lines  []string
	Err    error
}

func (o LabOutcome) Failed() bool { return o.Err != nil || o.Result == nil }

func eventFromOutcome(o LabOutcome) Event {
	doc := NewLabDocument(o)
	typ := EventLabScored
	if o.Failed() {
		typ = EventLabFailed
	}
	return Event{Type: typ, RunID: o.RunID, Lab: o.Lab, Result: &doc}
}
