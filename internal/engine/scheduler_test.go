package engine

import (
	"context"
	"errors"
	"math"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"labscore/internal/grading"
	"labscore/internal/outcome"
	"labscore/internal/output"
	"labscore/internal/scoring"
)

func refs(names ...string) []LabRef {
	out := make([]LabRef, 0, len(names))
	for _, n := range names {
		out = append(out, LabRef{Name: n, Dir: "/labs/" + n})
	}
	return out
}

func collect(ch <-chan output.LabOutcome) []string {
	var names []string
	for o := range ch {
		names = append(names, o.Lab)
	}
	return names
}

func TestNewScheduler_Errors(t *testing.T) {
	if _, err := NewScheduler(nil, 1, false); err == nil {
		t.Fatal("expected error for nil score function")
	}
	noop := func(context.Context, LabRef) output.LabOutcome { return output.LabOutcome{} }
	if _, err := NewScheduler(noop, 0, false); err == nil {
		t.Fatal("expected error for zero concurrency")
	}
}

func TestScheduler_PreservesLabOrder(t *testing.T) {
	delays := map[string]time.Duration{"a": 30 * time.Millisecond, "b": 10 * time.Millisecond, "c": 0}

	var inFlight, peak atomic.Int32
	score := func(_ context.Context, lab LabRef) output.LabOutcome {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(delays[lab.Name])
		inFlight.Add(-1)
		return output.LabOutcome{Lab: lab.Name}
	}

	s, err := NewScheduler(score, 2, false)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	got := collect(s.Execute(context.Background(), refs("a", "b", "c")))
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("outcomes out of order: %v", got)
	}
	if p := peak.Load(); p > 2 {
		t.Fatalf("concurrency limit exceeded: %d labs in flight", p)
	}
}

func TestScheduler_FailuresDoNotStopWithoutFailFast(t *testing.T) {
	score := func(_ context.Context, lab LabRef) output.LabOutcome {
		o := output.LabOutcome{Lab: lab.Name}
		if lab.Name == "a" {
			o.Err = errors.New("broken")
		}
		return o
	}
	s, _ := NewScheduler(score, 1, false)
	if got := collect(s.Execute(context.Background(), refs("a", "b", "c"))); len(got) != 3 {
		t.Fatalf("expected 3 outcomes, got %v", got)
	}
}

func TestScheduler_FailFast(t *testing.T) {
	var calls atomic.Int32
	score := func(_ context.Context, lab LabRef) output.LabOutcome {
		calls.Add(1)
		o := output.LabOutcome{Lab: lab.Name}
		if lab.Name == "a" {
			o.Err = errors.New("broken")
		}
		return o
	}
	s, _ := NewScheduler(score, 1, true)
	got := collect(s.Execute(context.Background(), refs("a", "b", "c")))
	if !reflect.DeepEqual(got, []string{"a"}) {
		t.Fatalf("expected only the failed lab, got %v", got)
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("expected 1 lab scored, got %d", n)
	}
}

func TestScheduler_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	score := func(_ context.Context, lab LabRef) output.LabOutcome { return output.LabOutcome{Lab: lab.Name} }
	s, _ := NewScheduler(score, 2, false)
	if got := collect(s.Execute(ctx, refs("a", "b"))); len(got) != 0 {
		t.Fatalf("expected no outcomes after cancellation, got %v", got)
	}
}

func TestSummarize(t *testing.T) {
	if _, ok := Summarize(nil); ok {
		t.Fatal("expected no statistics without outcomes")
	}

	outcomes := []output.LabOutcome{
		scoredLab(t, "a", 1),
		scoredLab(t, "b", 2),
		{Lab: "c", Err: errors.New("broken")},
		scoredLab(t, "d", 0),
	}
	st, ok := Summarize(outcomes)
	if !ok {
		t.Fatal("expected statistics")
	}
	if st.Labs != 3 || st.Mean != 50 || st.Median != 50 || st.Min != 0 || st.Max != 100 {
		t.Fatalf("unexpected statistics %+v", st)
	}
	if math.Abs(st.StdDev-40.8248) > 1e-3 {
		t.Fatalf("unexpected standard deviation %v", st.StdDev)
	}
}

// scoredLab scores a lab whose single linear rule is worth 10 points and
// passes the given number of its two records.
func scoredLab(t *testing.T, lab string, passed int) output.LabOutcome {
	t.Helper()
	cfg, err := grading.New([]grading.CategorySpec{
		{Name: "main", Rules: []grading.RuleSpec{{Name: "r", Type: "linear", Pattern: "check", Points: 10}}},
	})
	if err != nil {
		t.Fatalf("grading.New: %v", err)
	}
	records := []outcome.Record{{Description: "check 1"}, {Description: "check 2"}}
	for i := 0; i < passed; i++ {
		records[i].Passed = true
	}
	res, err := scoring.Score(cfg, records)
	if err != nil {
		t.Fatalf("scoring.Score: %v", err)
	}
	return output.LabOutcome{Lab: lab, Result: res}
}
