package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "e2e",
	Short: "Generate end-to-end tests from your app's UI surface",
	Long: `e2e inspects a web application's source tree, builds a structured
model of its UI surface (elements, forms, validation, state), and drives
a text-generation service to produce end-to-end test files.

Quick start:
  e2e init              Write a default e2e.yaml config
  e2e analyze ./src     Print the extracted UI model as JSON
  e2e generate ./src    Generate test files into the output directory

The OPENAI_API_KEY environment variable (or a .env file) is required
for generation; analysis runs fully offline.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(generateCmd)
}
