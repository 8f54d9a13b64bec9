// Package checker runs kathara-lab-checker to produce the result CSV files
// that labscore consumes.
package checker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

const DefaultPython = "python3"

// Request selects what the checker runs on. Exactly one of Lab and Labs must
// be set.
type Request struct {
	Config string
	Lab    string
	Labs   string
}

type Runner struct {
	// Python is the interpreter used to run the checker module.
	Python string
	Stdout io.Writer
	Stderr io.Writer

	// run is a test seam replacing process execution.
	run func(cmd *exec.Cmd) error
}

func NewRunner(python string) *Runner {
	if strings.TrimSpace(python) == "" {
		python = DefaultPython
	}
	return &Runner{Python: python}
}

// Args returns the full command line for req.
func (r *Runner) Args(req Request) ([]string, error) {
	if req.Config == "" {
		return nil, errors.New("checker configuration path is required")
	}
	if (req.Lab == "") == (req.Labs == "") {
		return nil, errors.New("exactly one of lab or labs must be set")
	}
	args := []string{r.Python, "-m", "kathara_lab_checker", "-c", req.Config, "--no-cache", "--report-type", "csv"}
	if req.Lab != "" {
		args = append(args, "--lab", req.Lab)
	} else {
		args = append(args, "--labs", req.Labs)
	}
	return args, nil
}

// Run executes the checker and waits for it to finish.
func (r *Runner) Run(ctx context.Context, req Request) error {
	args, err := r.Args(req)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdout = r.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stderr
	}
	cmd.Stderr = r.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	run := r.run
	if run == nil {
		run = func(c *exec.Cmd) error { return c.Run() }
	}
	if err := run(cmd); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("kathara-lab-checker failed (exit code: %d)", exitErr.ExitCode())
		}
		return fmt.Errorf("run kathara-lab-checker: %w", err)
	}
	return nil
}
