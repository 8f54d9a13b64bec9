package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"labscore/internal/report"
)

// SummaryHeader is the header row of the batch summary file.
var SummaryHeader = []string{"Lab name", "Earned points", "Max points", "Score percentage"}

// SummarySink collects scored labs and writes one CSV row per lab on Close.
// Failed labs are left out.
type SummarySink struct {
	path string
	mu   sync.Mutex
	rows [][]string
}

func NewSummarySink(path string) (*SummarySink, error) {
	if path == "" {
		return nil, fmt.Errorf("summary path required")
	}
	return &SummarySink{path: path}, nil
}

func (s *SummarySink) Write(v any) error {
	o, ok := v.(LabOutcome)
	if !ok || o.Failed() {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, []string{
		o.Lab,
		report.FormatPlain(o.Result.Earned()),
		report.FormatPlain(o.Result.Max()),
		o.Result.Percentage().String(),
	})
	return nil
}

func (s *SummarySink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create summary directory: %w", err)
		}
	}
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(SummaryHeader); err != nil {
		_ = f.Close()
		return err
	}
	if err := w.WriteAll(s.rows); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
