package outcome

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Record is the result of one check reported by the lab checker.
type Record struct {
	Description string `json:"description"`
	Passed      bool   `json:"passed"`
	Reason      string `json:"reason,omitempty"`
}

func (r Record) String() string {
	status := "failed"
	if r.Passed {
		status = "passed"
	}
	if r.Reason == "" {
		return fmt.Sprintf("%q (%s)", r.Description, status)
	}
	return fmt.Sprintf("%q (%s: %s)", r.Description, status, r.Reason)
}

// ResultsPath returns the checker's "all results" CSV for a lab directory.
func ResultsPath(labDir string) string {
	name := filepath.Base(filepath.Clean(labDir))
	return filepath.Join(labDir, name+"_result_all.csv")
}

// LoadCSV reads the records of a results file.
func LoadCSV(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open results: %w", err)
	}
	defer f.Close()

	records, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

type columns struct {
	description int
	passed      int
	reason      int
}

var positional = columns{description: 0, passed: 1, reason: 2}

// ReadCSV parses delimited check results. A header row naming the
// description, passed and reason columns is optional and recognized on the
// first non-blank row; without it the first three columns are used in that
// order. Errors carry the file line the offending row starts on.
func ReadCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var out []Record
	cols := positional
	first := true
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		if isBlank(row) {
			continue
		}
		if first {
			first = false
			if hdr, ok := headerColumns(row); ok {
				cols = hdr
				continue
			}
		}

		rec, err := parseRow(row, cols)
		if err != nil {
			// Quoted fields may span lines, so ask the reader where the row began.
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func headerColumns(row []string) (columns, bool) {
	cols := columns{description: -1, passed: -1, reason: -1}
	for i, cell := range row {
		switch strings.ToLower(strings.TrimSpace(cell)) {
		case "description":
			cols.description = i
		case "passed", "status", "result":
			cols.passed = i
		case "reason":
			cols.reason = i
		}
	}
	if cols.description < 0 || cols.passed < 0 {
		return columns{}, false
	}
	return cols, true
}

func parseRow(row []string, cols columns) (Record, error) {
	if cols.description >= len(row) || cols.passed >= len(row) {
		return Record{}, fmt.Errorf("expected at least %d columns, got %d", max(cols.description, cols.passed)+1, len(row))
	}
	passed, err := ParsePassed(row[cols.passed])
	if err != nil {
		return Record{}, err
	}
	rec := Record{
		Description: strings.TrimSpace(row[cols.description]),
		Passed:      passed,
	}
	if cols.reason >= 0 && cols.reason < len(row) {
		rec.Reason = strings.TrimSpace(row[cols.reason])
	}
	return rec, nil
}

// ParsePassed accepts the boolean spellings used by checker reports.
func ParsePassed(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "t", "1", "yes", "y", "pass", "passed", "ok":
		return true, nil
	case "false", "f", "0", "no", "n", "fail", "failed":
		return false, nil
	default:
		return false, fmt.Errorf("invalid passed value %q", raw)
	}
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
