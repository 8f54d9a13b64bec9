package flags

// Package flags defines canonical CLI flag names shared across the CLI and engine.
// IMPORTANT: These are flag *names* without leading dashes.
// Example usage:
//
//	cmd.Flags().StringVar(&cfg.Input.Lab, flags.FlagLab, "", "...")
//	arg := "--" + flags.FlagLab
const (
	// Input
	FlagConfig     = "config"
	FlagLab        = "lab"
	FlagLabs       = "labs"
	FlagRunChecker = "run-checker"
	FlagDryRun     = "dry-run"

	// Scoring
	FlagShowHiddenCategories = "show-hidden-categories"

	// Output
	FlagConsoleFormat = "console-format"
	FlagOut           = "out"
	FlagOutFormat     = "out-format"
	FlagSummary       = "summary"
	FlagNoLabReports  = "no-lab-reports"
	FlagNoConsole     = "no-console"

	// Runtime
	FlagConcurrency = "concurrency"
	FlagFailFast    = "fail-fast"
	FlagVerbose     = "verbose"
)

// Environment variables read by the CLI.
const (
	EnvConfig = "LABSCORE_CONFIG"
	EnvPython = "LABSCORE_PYTHON"
)
