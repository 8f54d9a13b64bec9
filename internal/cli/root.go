package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"labscore/internal/flags"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "labscore",
	Short: "Score Kathara lab check results against a grading configuration",
	Long: `labscore turns the pass/fail check results produced by kathara-lab-checker
into points, per rule and per category, using a grading configuration.

labscore is read-only with respect to the labs: it reads result files and
writes score reports next to them, it never changes the labs themselves.

Examples:
	# Show available commands and global flags
	labscore --help

	# Score one lab
	labscore score --config scoring.yaml --lab ./lab1

	# Score every lab in a directory and write a summary CSV
	labscore score --config scoring.yaml --labs ./submissions

	# Inspect a grading configuration
	labscore config show --config scoring.yaml

	# Print build info
	labscore version

Environment:
	A .env file in the working directory is loaded on startup. Variables
	already set in the environment take precedence.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadDotEnv(".env")
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&cfg.Runtime.Verbose, flags.FlagVerbose, false, "Enable verbose logging (prints debug diagnostics to stderr)")
}

// loadDotEnv loads path into the process environment. A missing file is not
// an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
