package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"labscore/internal/checker"
	"labscore/internal/config"
	"labscore/internal/engine"
	"labscore/internal/flags"
	"labscore/internal/logging"
)

var cfg = config.New()

const scoreHelpTemplate = `{{with (or .Long .Short)}}{{. | trimTrailingWhitespaces}}

{{end}}Usage:
  {{.UseLine}}

{{if .HasAvailableLocalFlags}}Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableInheritedFlags}}Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}Environment:
  LABSCORE_CONFIG   Grading configuration used when --config is omitted.
  LABSCORE_PYTHON   Python interpreter used by --run-checker (default: python3).

  Both can also be set in a .env file in the working directory.

{{if .HasAvailableSubCommands}}Available Commands:
{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}

{{end}}{{if .HasAvailableSubCommands}}Use "{{.CommandPath}} [command] --help" for more information about a command.
{{end}}`

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one lab or a directory of labs",
	Long: `Score the check results of one lab (--lab) or of every lab in a directory
(--labs) against a grading configuration (--config).

Each lab directory must contain the checker results file
<lab>/<lab>_result_all.csv. Use --run-checker to produce it with
kathara-lab-checker before scoring.

With --labs, every sub-directory containing a lab.conf is scored. A report is
written to <lab>/result-scoring.txt for each lab and a summary CSV to
<labs>/result-scoring.csv (see --summary).

Output:
	Console output is controlled by --console-format (default: text).
	Structured outputs can be written via:
	- --out / --out-format: write an aggregate JSON array or NDJSON stream to a file
	- --no-console: suppress the console sink (use with --out for machine output)

	NDJSON mode emits one JSON object per line. Objects are lifecycle Events with a
	"type" field (run.started, lab.started, lab.scored, lab.failed, run.finished).
	Scored and failed labs carry a nested "result" object.

	Diagnostics (matching errors, progress) are written to stderr.

Exit codes:
	0 = every lab was scored
	2 = partial failure (some labs could not be scored)
	3 = fatal error (nothing was scored)

Examples:
  labscore score --config scoring.yaml --lab ./lab1

  # Run the checker first, then score every lab
  labscore score --config scoring.yaml --labs ./submissions --run-checker checker.json

  # Machine-readable events on stdout
  labscore score --config scoring.yaml --labs ./submissions --console-format ndjson
`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 && cmd.Flags().NFlag() == 0 && os.Getenv(flags.EnvConfig) == "" {
			_ = cmd.Help()
			return
		}

		applyEnvDefaults(cmd, cfg)

		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(engine.ExitFatal)
		}

		logger := logging.New(os.Stderr, cfg.Runtime.Verbose)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		eng := engine.NewEngine(logger, checker.NewRunner(cfg.Input.Python))
		code := eng.Run(ctx, cfg)
		stop()
		_ = logger.Sync()
		os.Exit(code)
	},
}

// applyEnvDefaults fills settings that were not given on the command line
// from the environment. It runs after .env has been loaded.
func applyEnvDefaults(cmd *cobra.Command, cfg *config.Config) {
	if cmd != nil && !cmd.Flags().Changed(flags.FlagConfig) && cfg.Input.Config == "" {
		cfg.Input.Config = os.Getenv(flags.EnvConfig)
	}
	if cfg.Input.Python == "" {
		cfg.Input.Python = os.Getenv(flags.EnvPython)
	}
}

func init() {
	rootCmd.AddCommand(scoreCmd)
	scoreCmd.SetHelpTemplate(scoreHelpTemplate)

	// Input
	scoreCmd.Flags().StringVar(&cfg.Input.Config, flags.FlagConfig, "", "Grading configuration file, JSON or YAML (default: $LABSCORE_CONFIG)")
	scoreCmd.Flags().StringVar(&cfg.Input.Lab, flags.FlagLab, "", "Lab directory to score")
	scoreCmd.Flags().StringVar(&cfg.Input.Labs, flags.FlagLabs, "", "Directory of labs to score (sub-directories containing lab.conf)")
	scoreCmd.Flags().StringVar(&cfg.Input.CheckerConfig, flags.FlagRunChecker, "", "Run kathara-lab-checker with this configuration before scoring")
	scoreCmd.Flags().BoolVar(&cfg.Input.DryRun, flags.FlagDryRun, false, "List the labs that would be scored and exit")

	// Scoring
	scoreCmd.Flags().BoolVar(&cfg.Scoring.ShowHiddenCategories, flags.FlagShowHiddenCategories, false, "Include categories with a multiplier of 0 in reports")

	// Output
	scoreCmd.Flags().StringVar(&cfg.Output.ConsoleFormat, flags.FlagConsoleFormat, "text", "Console output format: text|json|ndjson (default: text)")
	scoreCmd.Flags().StringVar(&cfg.Output.Out, flags.FlagOut, "", "Write structured output to this path")
	scoreCmd.Flags().StringVar(&cfg.Output.OutFormat, flags.FlagOutFormat, "", "Structured output format for --out: json|ndjson (default: inferred from file extension)")
	scoreCmd.Flags().StringVar(&cfg.Output.Summary, flags.FlagSummary, "", "Summary CSV path for --labs (default: <labs>/"+config.SummaryFileName+")")
	scoreCmd.Flags().BoolVar(&cfg.Output.NoLabReports, flags.FlagNoLabReports, false, "Do not write <lab>/"+config.LabReportFileName+" with --labs")
	scoreCmd.Flags().BoolVar(&cfg.Output.NoConsole, flags.FlagNoConsole, false, "Suppress console output (use with --out)")

	// Runtime
	scoreCmd.Flags().IntVar(&cfg.Runtime.Concurrency, flags.FlagConcurrency, 4, "Labs scored in parallel (default: 4)")
	scoreCmd.Flags().BoolVar(&cfg.Runtime.FailFast, flags.FlagFailFast, false, "Stop scoring after the first lab that fails (default: false)")
}
