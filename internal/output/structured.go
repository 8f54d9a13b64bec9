package output

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

const (
	FormatJSON   = "json"
	FormatNDJSON = "ndjson"
)

// InferFormat maps a structured output path to its format by extension.
func InferFormat(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return FormatJSON, nil
	case ".ndjson", ".jsonl":
		return FormatNDJSON, nil
	case "":
		return "", fmt.Errorf("cannot infer output format from file extension (missing extension)")
	default:
		return "", fmt.Errorf("cannot infer output format from file extension %q", ext)
	}
}

type flusher interface {
	Flush() error
}

func flushIfPossible(w io.Writer) error {
	if f, ok := w.(flusher); ok {
		return f.Flush()
	}
	return nil
}

// structuredWriter renders sink values either as one JSON array of
// LabDocument (written by finish) or as a stream of NDJSON events.
type structuredWriter struct {
	w      io.Writer
	format string
	docs   []LabDocument
}

func (sw *structuredWriter) write(v any) error {
	switch sw.format {
	case FormatJSON:
		// Lifecycle events have no place in the aggregate.
		if o, ok := v.(LabOutcome); ok {
			sw.docs = append(sw.docs, NewLabDocument(o))
		}
		return nil
	case FormatNDJSON:
		var e Event
		switch t := v.(type) {
		case Event:
			e = t
		case LabOutcome:
			e = eventFromOutcome(t)
		default:
			return nil
		}
		if err := json.NewEncoder(sw.w).Encode(e); err != nil {
			return err
		}
		return flushIfPossible(sw.w)
	default:
		return fmt.Errorf("unsupported output format: %s", sw.format)
	}
}

func (sw *structuredWriter) finish() error {
	if sw.format != FormatJSON {
		return nil
	}
	docs := sw.docs
	if docs == nil {
		docs = []LabDocument{}
	}
	enc := json.NewEncoder(sw.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(docs); err != nil {
		return err
	}
	return flushIfPossible(sw.w)
}
