package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"labscore/internal/output"
)

// SummaryFileName and LabReportFileName are the files written in --labs mode.
const (
	SummaryFileName   = "result-scoring.csv"
	LabReportFileName = "result-scoring.txt"
)

type Config struct {
	// MAINTAINER NOTE: If you add/change/remove config fields that affect scoring
	// behavior, keep the CLI flags in internal/cli/score.go in sync.
	Input   Input
	Scoring Scoring
	Output  Output
	Runtime Runtime
}

type Input struct {
	// Config is the grading configuration file, JSON or YAML (see --config).
	Config string

	// Lab is a single lab directory to score (see --lab).
	Lab string

	// Labs is a directory whose sub-directories containing lab.conf are scored (see --labs).
	// Lab and Labs are mutually exclusive.
	Labs string

	// CheckerConfig runs kathara-lab-checker with this configuration before
	// scoring instead of using existing result files (see --run-checker).
	CheckerConfig string

	// Python is the interpreter used for kathara-lab-checker (LABSCORE_PYTHON).
	Python string

	// DryRun lists the labs that would be scored and exits (see --dry-run).
	DryRun bool
}

type Scoring struct {
	// ShowHiddenCategories includes categories with a multiplier of 0 in reports
	// (see --show-hidden-categories).
	ShowHiddenCategories bool
}

type Output struct {
	// ConsoleFormat controls the console sink format (see --console-format).
	// Allowed values: text, json, ndjson.
	ConsoleFormat string

	// Out writes structured lab results to this path (see --out).
	Out string

	// OutFormat selects the format for --out (see --out-format).
	// Allowed values: json, ndjson. If empty, it is inferred from the --out file extension.
	OutFormat string

	// Summary is the batch summary CSV written in --labs mode (see --summary).
	// Defaults to <labs>/result-scoring.csv.
	Summary string

	// NoLabReports disables writing <lab>/result-scoring.txt in --labs mode.
	NoLabReports bool

	// NoConsole suppresses the console sink (see --no-console).
	NoConsole bool
}

type Runtime struct {
	// Concurrency controls how many labs are scored in parallel (see --concurrency).
	// Must be >= 1.
	Concurrency int

	// FailFast stops scheduling labs after the first failure (see --fail-fast).
	FailFast bool

	// Verbose enables debug diagnostics.
	Verbose bool
}

func New() *Config {
	return &Config{
		Output: Output{
			ConsoleFormat: "text",
		},
		Runtime: Runtime{
			Concurrency: 4,
		},
	}
}

// MultiLab reports whether the run scores a directory of labs.
func (c *Config) MultiLab() bool { return c.Input.Labs != "" }

func (c *Config) Validate() error {
	c.Input.Config = strings.TrimSpace(c.Input.Config)
	c.Input.Lab = strings.TrimSpace(c.Input.Lab)
	c.Input.Labs = strings.TrimSpace(c.Input.Labs)

	// Input validation
	if c.Input.Config == "" {
		return errors.New("--config is required (or set LABSCORE_CONFIG)")
	}
	if c.Input.Lab == "" && c.Input.Labs == "" {
		return errors.New("one of --lab or --labs must be provided")
	}
	if c.Input.Lab != "" && c.Input.Labs != "" {
		return errors.New("--lab and --labs are mutually exclusive")
	}

	// Output validation
	c.Output.ConsoleFormat = normalizeEnumValue(c.Output.ConsoleFormat)
	if c.Output.ConsoleFormat == "" {
		return errors.New("--console-format must be one of: text, json, ndjson")
	}
	if c.Output.ConsoleFormat != "text" && c.Output.ConsoleFormat != "json" && c.Output.ConsoleFormat != "ndjson" {
		return fmt.Errorf("unsupported --console-format: %s (must be one of: text, json, ndjson)", c.Output.ConsoleFormat)
	}

	if c.Output.Out != "" {
		c.Output.OutFormat = normalizeEnumValue(c.Output.OutFormat)
		if c.Output.OutFormat == "" {
			format, err := output.InferFormat(c.Output.Out)
			if err != nil {
				return fmt.Errorf("%w; use --out-format", err)
			}
			c.Output.OutFormat = format
		} else if c.Output.OutFormat != output.FormatJSON && c.Output.OutFormat != output.FormatNDJSON {
			return fmt.Errorf("unsupported output format: %s", c.Output.OutFormat)
		}
	}

	if c.Output.Summary != "" && !c.MultiLab() {
		return errors.New("--summary requires --labs")
	}
	if c.MultiLab() && c.Output.Summary == "" {
		c.Output.Summary = filepath.Join(c.Input.Labs, SummaryFileName)
	}

	// Runtime validation
	if c.Runtime.Concurrency <= 0 {
		return errors.New("--concurrency must be >= 1")
	}

	return nil
}

func normalizeEnumValue(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
