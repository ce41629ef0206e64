package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ppiankov/truelinks/internal/scenario"
)

var (
	assertScenario string
	assertFormat   string
)

func init() {
	rootCmd.AddCommand(assertCmd)
	assertCmd.Flags().StringVar(&assertScenario, "scenario", "", "Glob pattern for scenario YAML files (required)")
	assertCmd.Flags().StringVarP(&assertFormat, "format", "f", "text", "Output format (text|json)")
	assertCmd.MarkFlagRequired("scenario")
}

var assertCmd = &cobra.Command{
	Use:   "assert",
	Short: "Run link assertions from scenario files",
	Long: "Loads scenario YAML files matching a glob pattern, evaluates each\n" +
		"link, and reports whether its classification, score, and top reason\n" +
		"match the expectation.\n\n" +
		"Exit code 0 if all cases pass, 1 if any fail.",
	RunE: runAssert,
}

func runAssert(cmd *cobra.Command, args []string) error {
	matches, err := filepath.Glob(assertScenario)
	if err != nil {
		return fmt.Errorf("invalid glob pattern: %w", err)
	}
	if len(matches) == 0 {
		return fmt.Errorf("no scenario files match pattern: %s", assertScenario)
	}

	var results []*scenario.RunResult
	for _, path := range matches {
		r, err := scenario.LoadAndRun(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		results = append(results, r)
	}

	out := cmd.OutOrStdout()
	switch assertFormat {
	case "json":
		s, err := scenario.FormatJSON(results)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, s)
	default:
		fmt.Fprint(out, scenario.FormatText(results))
	}

	failed := 0
	for _, r := range results {
		failed += r.Failed
	}
	if failed > 0 {
		return fmt.Errorf("%d assertion(s) failed", failed)
	}
	return nil
}
