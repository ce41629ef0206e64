package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/truelinks/internal/config"
	"github.com/ppiankov/truelinks/internal/logging"
)

var (
	configPath string

	// Populated by the root pre-run for every subcommand.
	loadedConfig *config.Config
	logger       *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "truelinks",
	Short: "Explainable risk scoring for links",
	Long: "Scores links for phishing and abuse indicators with a fixed set of heuristics.\n" +
		"No network lookups: every verdict is a pure function of the link text.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		l, err := logging.New(cfg.Logging)
		if err != nil {
			return err
		}
		slog.SetDefault(l)
		loadedConfig = cfg
		logger = l
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config YAML (default ~/.truelinks/config.yaml)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
