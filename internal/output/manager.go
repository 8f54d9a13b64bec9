package output

import (
	"errors"
	"fmt"
)

// Sink defines a destination for lab outcomes and lifecycle events.
type Sink interface {
	Write(v any) error
	Close() error
}

type namedSink struct {
	name string
	sink Sink
}

// Manager fans every value out to all registered sinks. Sinks are named so
// that errors point at the output the user configured.
type Manager struct {
	sinks []namedSink
}

func NewManager() *Manager {
	return &Manager{}
}

func (m *Manager) AddSink(name string, s Sink) error {
	if m == nil {
		return fmt.Errorf("output manager is nil")
	}
	if s == nil {
		return fmt.Errorf("sink %q must not be nil", name)
	}
	if name == "" {
		name = fmt.Sprintf("%T", s)
	}
	m.sinks = append(m.sinks, namedSink{name: name, sink: s})
	return nil
}

// Sinks returns the registered sink names in registration order.
func (m *Manager) Sinks() []string {
	out := make([]string, 0, len(m.sinks))
	for _, s := range m.sinks {
		out = append(out, s.name)
	}
	return out
}

func (m *Manager) Write(v any) error {
	if m == nil {
		return fmt.Errorf("output manager is nil")
	}
	var errs []error
	for _, s := range m.sinks {
		if err := s.sink.Write(v); err != nil {
			errs = append(errs, fmt.Errorf("write %s: %w", s.name, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors writing to sinks: %w", errors.Join(errs...))
	}
	return nil
}

func (m *Manager) Close() error {
	if m == nil {
		return fmt.Errorf("output manager is nil")
	}
	var errs []error
	for _, s := range m.sinks {
		if err := s.sink.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", s.name, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing sinks: %w", errors.Join(errs...))
	}
	return nil
}
