package output

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

type ConsoleSink struct {
	writer io.Writer
	format string // "text", "json", "ndjson"
	// multiLab prefixes each report with the lab name in text mode.
	multiLab bool
	mu       sync.Mutex
	written  int
	out      *structuredWriter
}

func NewConsoleSink(w io.Writer, format string, multiLab bool) *ConsoleSink {
	if w == nil {
		w = os.Stdout
	}
	if format == "" {
		format = "text"
	}
	return &ConsoleSink{
		writer:   w,
		format:   format,
		multiLab: multiLab,
		out:      &structuredWriter{w: w, format: format},
	}
}

func (s *ConsoleSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.format != "text" {
		if err := s.out.write(v); err != nil {
			return fmt.Errorf("console: %w", err)
		}
		return nil
	}
	o, ok := v.(LabOutcome)
	if !ok {
		// Events are not shown in text mode.
		return nil
	}
	if err := s.writeText(o); err != nil {
		return err
	}
	return flushIfPossible(s.writer)
}

func (s *ConsoleSink) writeText(o LabOutcome) error {
	if s.multiLab {
		if s.written > 0 {
			if _, err := fmt.Fprintln(s.writer); err != nil {
				return err
			}
		}
		if _, err := color.New(color.Bold).Fprintf(s.writer, "== %s ==\n", o.Lab); err != nil {
			return err
		}
	}
	s.written++

	if o.Failed() {
		_, err := color.New(color.FgRed).Fprintf(s.writer, "[FAILED] %s: %v\n", o.Lab, o.Err)
		return err
	}
	for _, line := range o.Lines {
		if _, err := fmt.Fprintln(s.writer, line); err != nil {
			return err
		}
	}
	return nil
}

func (s *ConsoleSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.format {
	case "text", FormatNDJSON:
		return nil
	case FormatJSON:
		return s.out.finish()
	default:
		return fmt.Errorf("unsupported console format: %s", s.format)
	}
}
