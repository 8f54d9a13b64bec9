package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LabReportSink writes each scored lab's report lines into a file inside the
// lab directory.
type LabReportSink struct {
	fileName string
}

func NewLabReportSink(fileName string) (*LabReportSink, error) {
	if fileName == "" {
		return nil, fmt.Errorf("lab report file name required")
	}
	if filepath.Base(fileName) != fileName {
		return nil, fmt.Errorf("lab report file name must not contain a directory: %s", fileName)
	}
	return &LabReportSink{fileName: fileName}, nil
}

func (s *LabReportSink) Write(v any) error {
	o, ok := v.(LabOutcome)
	if !ok || o.Failed() || o.Dir == "" {
		return nil
	}
	var b strings.Builder
	for _, line := range o.Lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	path := filepath.Join(o.Dir, s.fileName)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write lab report: %w", err)
	}
	return nil
}

func (s *LabReportSink) Close() error { return nil }
