package checker

import (
	"context"
	"errors"
	"os/exec"
	"reflect"
	"strings"
	"testing"
)

func TestArgs(t *testing.T) {
	r := NewRunner("")
	got, err := r.Args(Request{Config: "checker.json", Lab: "labs/lab1"})
	if err != nil {
		t.Fatalf("Args: %v", err)
	}
	want := []string{"python3", "-m", "kathara_lab_checker", "-c", "checker.json", "--no-cache", "--report-type", "csv", "--lab", "labs/lab1"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Args() = %v, want %v", got, want)
	}

	r = NewRunner("/opt/venv/bin/python")
	got, err = r.Args(Request{Config: "c.json", Labs: "labs"})
	if err != nil {
		t.Fatalf("Args: %v", err)
	}
	if got[0] != "/opt/venv/bin/python" || got[len(got)-2] != "--labs" {
		t.Fatalf("unexpected args %v", got)
	}
}

func TestArgs_Invalid(t *testing.T) {
	r := NewRunner("")
	tests := []Request{
		{Lab: "lab1"},
		{Config: "c.json"},
		{Config: "c.json", Lab: "a", Labs: "b"},
	}
	for _, req := range tests {
		if _, err := r.Args(req); err == nil {
			t.Errorf("Args(%+v): expected error", req)
		}
	}
}

func TestRun(t *testing.T) {
	r := NewRunner("python3")
	var ran []string
	r.run = func(cmd *exec.Cmd) error {
		ran = cmd.Args
		return nil
	}
	if err := r.Run(context.Background(), Request{Config: "c.json", Lab: "lab1"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(ran) == 0 || ran[len(ran)-1] != "lab1" {
		t.Fatalf("unexpected command %v", ran)
	}

	r.run = func(cmd *exec.Cmd) error { return errors.New("boom") }
	err := r.Run(context.Background(), Request{Config: "c.json", Lab: "lab1"})
	if err == nil || !strings.Contains(err.Error(), "run kathara-lab-checker: boom") {
		t.Fatalf("unexpected error %v", err)
	}
}
