package output

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

type recordingSink struct {
	writes   []any
	writeErr error
	closeErr error
}

func (s *recordingSink) Write(v any) error {
	s.writes = append(s.writes, v)
	return s.writeErr
}

func (s *recordingSink) Close() error {
	return s.closeErr
}

func TestManager(t *testing.T) {
	t.Run("writes to all sinks", func(t *testing.T) {
		a := &recordingSink{}
		b := &recordingSink{}

		mgr := NewManager()
		if err := mgr.AddSink("a", a); err != nil {
			t.Fatalf("AddSink(a) error: %v", err)
		}
		if err := mgr.AddSink("b", b); err != nil {
			t.Fatalf("AddSink(b) error: %v", err)
		}

		if err := mgr.Write("v1"); err != nil {
			t.Fatalf("Write(v1) error: %v", err)
		}
		if err := mgr.Write("v2"); err != nil {
			t.Fatalf("Write(v2) error: %v", err)
		}
		if err := mgr.Close(); err != nil {
			t.Fatalf("Close() error: %v", err)
		}

		if got := len(a.writes); got != 2 {
			t.Fatalf("sink a writes: want 2, got %d", got)
		}
		if got := len(b.writes); got != 2 {
			t.Fatalf("sink b writes: want 2, got %d", got)
		}
		if got := mgr.Sinks(); !reflect.DeepEqual(got, []string{"a", "b"}) {
			t.Fatalf("Sinks() = %v", got)
		}
	})

	t.Run("AddSink rejects nil", func(t *testing.T) {
		mgr := NewManager()
		if err := mgr.AddSink("nil", nil); err == nil {
			t.Fatalf("AddSink(nil) want error, got nil")
		}
	})

	t.Run("AddSink names anonymous sinks by type", func(t *testing.T) {
		mgr := NewManager()
		if err := mgr.AddSink("", &recordingSink{}); err != nil {
			t.Fatalf("AddSink error: %v", err)
		}
		if got := mgr.Sinks()[0]; got != "*output.recordingSink" {
			t.Fatalf("unexpected sink name %q", got)
		}
	})

	t.Run("Write aggregates sink errors", func(t *testing.T) {
		mgr := NewManager()
		_ = mgr.AddSink("console", &recordingSink{writeErr: errors.New("boom-a")})
		_ = mgr.AddSink("summary", &recordingSink{writeErr: errors.New("boom-b")})

		err := mgr.Write("v")
		if err == nil {
			t.Fatalf("Write want error, got nil")
		}
		msg := err.Error()
		for _, want := range []string{"errors writing to sinks", "write console: boom-a", "write summary: boom-b"} {
			if !strings.Contains(msg, want) {
				t.Fatalf("Write error missing %q; got: %s", want, msg)
			}
		}
	})

	t.Run("Close aggregates sink errors", func(t *testing.T) {
		mgr := NewManager()
		_ = mgr.AddSink("console", &recordingSink{closeErr: errors.New("close-a")})
		_ = mgr.AddSink("summary", &recordingSink{closeErr: errors.New("close-b")})

		err := mgr.Close()
		if err == nil {
			t.Fatalf("Close want error, got nil")
		}
		msg := err.Error()
		for _, want := range []string{"errors closing sinks", "close console: close-a", "close summary: close-b"} {
			if !strings.Contains(msg, want) {
				t.Fatalf("Close error missing %q; got: %s", want, msg)
			}
		}
	})
}
