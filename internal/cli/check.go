package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/ppiankov/truelinks/internal/config"
	"github.com/ppiankov/truelinks/internal/input"
	"github.com/ppiankov/truelinks/internal/link"
	"github.com/ppiankov/truelinks/internal/render"
	"github.com/ppiankov/truelinks/internal/risk"
)

var (
	checkFile     string
	checkFormat   string
	checkDetailed bool
	checkColor    string
)

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&checkFile, "file", "", "Read links from file (one or more per line)")
	checkCmd.Flags().StringVarP(&checkFormat, "format", "f", "text", "Output format (text|json)")
	checkCmd.Flags().BoolVar(&checkDetailed, "detailed", false, "Show location and reason tags (overrides config)")
	checkCmd.Flags().StringVar(&checkColor, "color", "", "Colour mode auto|always|never (overrides config)")
}

var checkCmd = &cobra.Command{
	Use:   "check [url...]",
	Short: "Score links for phishing and abuse risk",
	Long: "Evaluates each link given as an argument, or read from --file or stdin,\n" +
		"and prints its classification, 0-100 score, and leading reasons.\n\n" +
		"Exit code 1 if any link could not be parsed.",
	RunE: runCheck,
}

// checkResult is one line of JSON output.
type checkResult struct {
	URL     string         `json:"url"`
	Enabled bool           `json:"enabled"`
	Report  *render.Report `json:"report,omitempty"`
	Error   string         `json:"error,omitempty"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	links := args
	if len(links) == 0 {
		var err error
		links, err = input.ReadLinksFromFileOrStdin(checkFile, os.Stdin)
		if err != nil {
			return err
		}
	}
	if len(links) == 0 {
		return fmt.Errorf("no links to check")
	}

	display := loadedConfig.Display
	if checkDetailed {
		display.Detailed = true
	}
	if checkColor != "" {
		display.Color = checkColor
	}
	if checkFormat == "json" {
		display.Color = config.ColorNever
	}
	opts := display.RenderOptions(isTerminal(cmd.OutOrStdout()))

	results := make([]checkResult, 0, len(links))
	failed := 0
	for _, raw := range links {
		res := evaluateLink(raw, display.Enabled, opts)
		if res.Error != "" {
			failed++
			logger.Warn("link_parse_failed", "url", raw, "err", res.Error)
		}
		results = append(results, res)
	}

	out := cmd.OutOrStdout()
	switch checkFormat {
	case "json":
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal results: %w", err)
		}
		fmt.Fprintln(out, string(data))
	case "text":
		writeCheckText(out, results)
	default:
		return fmt.Errorf("unknown format %q (want text|json)", checkFormat)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d links could not be parsed", failed, len(links))
	}
	return nil
}

func evaluateLink(raw string, enabled bool, opts render.Options) checkResult {
	res := checkResult{URL: raw, Enabled: enabled}
	if !enabled {
		return res
	}

	u, err := link.Parse(raw)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	rep := render.NewReport(u, risk.Evaluate(raw, u), opts)
	res.Report = &rep
	return res
}

func writeCheckText(w io.Writer, results []checkResult) {
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		switch {
		case r.Error != "":
			fmt.Fprintf(w, "%s\n  error: %s\n", r.URL, r.Error)
		case r.Report == nil:
			fmt.Fprintln(w, r.URL)
		default:
			fmt.Fprintf(w, "[%s] %s\n", r.Report.Outline, r.URL)
			for _, line := range strings.Split(r.Report.Tooltip, "\n") {
				fmt.Fprintf(w, "  %s\n", line)
			}
		}
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
