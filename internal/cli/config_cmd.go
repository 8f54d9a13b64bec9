package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"labscore/internal/flags"
	"labscore/internal/grading"
)

var (
	configPath      string
	configShowQuiet bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect grading configurations",
	Long: `Inspect and validate labscore grading configurations.

A grading configuration lists categories, each with a multiplier and a set of
rules. Every rule has a scoring type (each, linear, linear_rounded,
linear_floored, all, any), a description pattern matched as a regular
expression prefix, and a number of points.

Examples:
  labscore config show --config scoring.yaml
  labscore config validate --config scoring.json
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the categories and rules of a grading configuration",
	Long: `Print the categories and rules of a grading configuration, in order.

Output:
  A vertical list of categories:
    ----------------------------------------
    CATEGORY: {NAME} (x{MULTIPLIER})
    ----------------------------------------
      {RULE}  {TYPE}  pattern={PATTERN}  points={POINTS}

With --quiet only the qualified rule names (category/rule) are printed.
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		gc, err := loadGradingConfig()
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if configShowQuiet {
			for _, ref := range gc.Rules() {
				fmt.Fprintln(w, gc.QualifiedName(ref))
			}
			return nil
		}
		for _, cat := range gc.Categories {
			printCategory(w, cat)
		}
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that a grading configuration is valid",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		gc, err := loadGradingConfig()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "OK: %d categories, %d rules\n", len(gc.Categories), len(gc.Rules()))
		return nil
	},
}

func loadGradingConfig() (*grading.Configuration, error) {
	path := configPath
	if path == "" {
		path = os.Getenv(flags.EnvConfig)
	}
	if path == "" {
		return nil, errors.New("--config is required (or set LABSCORE_CONFIG)")
	}
	return grading.Load(path)
}

func printCategory(w io.Writer, cat grading.Category) {
	bold := color.New(color.Bold)
	fmt.Fprintln(w, "----------------------------------------")
	header := fmt.Sprintf("CATEGORY: %s (x%s)", cat.Name, strconv.FormatFloat(cat.Multiplier, 'f', -1, 64))
	if cat.Hidden() {
		header += " [hidden]"
	}
	bold.Fprintln(w, header)
	fmt.Fprintln(w, "----------------------------------------")
	for _, r := range cat.Rules {
		fmt.Fprintf(w, "  %s  %s  pattern=%q  points=%s\n", r.Name, r.Strategy, r.Pattern.String(), strconv.FormatFloat(r.Points, 'f', -1, 64))
	}
	fmt.Fprintln(w)
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.PersistentFlags().StringVar(&configPath, flags.FlagConfig, "", "Grading configuration file, JSON or YAML (default: $LABSCORE_CONFIG)")
	configCmd.AddCommand(configShowCmd)
	configShowCmd.Flags().BoolVarP(&configShowQuiet, "quiet", "q", false, "Only print qualified rule names")
	configCmd.AddCommand(configValidateCmd)
}
