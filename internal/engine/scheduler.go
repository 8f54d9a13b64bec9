package engine

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"labscore/internal/output"
)

// ScoreFunc scores a single lab. Failures are reported on the returned
// outcome, never as a separate error.
type ScoreFunc func(ctx context.Context, lab LabRef) output.LabOutcome

var errStopScheduling = errors.New("stop scheduling after lab failure")

// Scheduler scores labs concurrently and yields outcomes in lab order.
type Scheduler struct {
	score       ScoreFunc
	concurrency int
	failFast    bool
}

// NewScheduler returns a scheduler running at most concurrency labs at a time.
// With failFast, labs not yet started are skipped after the first failure.
func NewScheduler(score ScoreFunc, concurrency int, failFast bool) (*Scheduler, error) {
	if score == nil {
		return nil, errors.New("score function is nil")
	}
	if concurrency <= 0 {
		return nil, fmt.Errorf("concurrency must be >= 1, got %d", concurrency)
	}
	return &Scheduler{score: score, concurrency: concurrency, failFast: failFast}, nil
}

// Execute scores labs with at most s.concurrency labs in flight and streams
// the outcomes in the order of labs, regardless of completion order.
//
// Channel semantics:
//   - Normally exactly one outcome is sent per lab.
//   - With fail-fast, labs not yet started when a lab fails are skipped.
//   - On context cancellation, labs not yet started are skipped.
//   - The channel is always closed.
func (s *Scheduler) Execute(ctx context.Context, labs []LabRef) <-chan output.LabOutcome {
	out := make(chan output.LabOutcome)

	// One slot per lab. A slot is closed after its outcome is sent, or without
	// a value when the lab was skipped.
	slots := make([]chan output.LabOutcome, len(labs))
	for i := range slots {
		slots[i] = make(chan output.LabOutcome, 1)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	go func() {
		for i, lab := range labs {
			if gctx.Err() != nil {
				close(slots[i])
				continue
			}
			g.Go(func() error {
				defer close(slots[i])
				if gctx.Err() != nil {
					return nil
				}
				o := s.score(gctx, lab)
				slots[i] <- o
				if s.failFast && o.Failed() {
					return errStopScheduling
				}
				return nil
			})
		}
		_ = g.Wait()
	}()

	go func() {
		defer close(out)
		for _, slot := range slots {
			if o, ok := <-slot; ok {
				out <- o
			}
		}
	}()

	return out
}
