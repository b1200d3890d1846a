package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vocadian/vocadian/internal/app"
	"github.com/vocadian/vocadian/pkg/logging"
)

var (
	// Analyze command flags
	analyzeOutputFile   string
	analyzeFeaturesFile string
	analyzeDiagnostics  bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [flags] <recording.wav>",
	Short: "Label each second of a recording as voice or noise",
	Long: `Analyze a mono WAV recording and label each second as voice or noise.

The result is a JSON array of {start_time, end_time, label} records, one per
segment, written to stdout or to --output-file.

Examples:
  # Label a recording and print results to stdout
  vocadian analyze recording.wav

  # Write results to a file with the per-segment diagnostic table
  vocadian analyze --output-file results.json --diagnostics recording.wav

  # Export raw and smoothed feature timelines for plotting
  vocadian analyze --features-file features.yaml recording.wav

  # Override thresholds from the command line
  VOCADIAN_CLASSIFIER_ENERGY_THRESHOLD=250 vocadian analyze recording.wav`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeOutputFile, "output-file", "o", "",
		"write JSON results to this file instead of stdout")
	analyzeCmd.Flags().StringVar(&analyzeFeaturesFile, "features-file", "",
		"write raw and smoothed feature timelines to this file (.json or .yaml)")
	analyzeCmd.Flags().BoolVarP(&analyzeDiagnostics, "diagnostics", "d", false,
		"print the per-segment threshold pass/fail table to stderr")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	logger := logging.NewLoggerWithLevel(effectiveLogLevel())

	ctx := &app.Context{
		InputFile:    args[0],
		OutputFile:   analyzeOutputFile,
		FeaturesFile: analyzeFeaturesFile,
		Diagnostics:  analyzeDiagnostics,
		Verbose:      verbose,
		Logger:       logger,
	}

	analyzeApp, err := app.NewAnalyzeApp(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	return analyzeApp.Run(cmd.Context())
}

// effectiveLogLevel promotes --verbose to debug logging
func effectiveLogLevel() string {
	if verbose {
		return "debug"
	}
	return logLevel
}
