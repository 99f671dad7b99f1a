package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/m2rads/e2e/internal/config"
	"github.com/m2rads/e2e/internal/generator"
	"github.com/m2rads/e2e/internal/pipeline"
)

var (
	flagOutput    string
	flagModel     string
	flagMaxTokens int
	flagDryRun    bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [path]",
	Short: "Generate end-to-end test files from a source tree",
	Long: `Run the full pipeline: analyze the source tree, chunk the extracted
context under the token budget, drive the generation service one chunk
at a time and write the reconstructed test files.

Requires OPENAI_API_KEY in the environment or a .env file.

Example:
  e2e generate ./src
  e2e generate ./src --output tests/e2e --model gpt-4o
  e2e generate ./src --dry-run`,
	Args: cobra.MaximumNArgs(1),
	Run:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output directory (overrides config)")
	generateCmd.Flags().StringVarP(&flagModel, "model", "m", "", "Model id (overrides config)")
	generateCmd.Flags().IntVar(&flagMaxTokens, "max-tokens", 0, "Token ceiling per request (overrides config)")
	generateCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Assemble prompts but skip the generation service")
}

func runGenerate(cmd *cobra.Command, args []string) {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	cfg, err := config.Load(config.DefaultFile)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if flagOutput != "" {
		cfg.OutputDir = flagOutput
	}
	if flagModel != "" {
		cfg.Model = flagModel
	}
	if flagMaxTokens > 0 {
		cfg.MaxTokens = flagMaxTokens
	}

	var client generator.Client
	if flagDryRun {
		client = dryRunClient{}
	} else {
		client, err = generator.NewOpenAIClient(cfg.Model, cfg.MaxTokens, slog.Default())
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
	}

	cache := openCache(cfg)
	if cache != nil {
		defer cache.Close()
	}

	fmt.Printf("Generating tests from %s...\n", root)

	p := pipeline.New(cfg, client, cache, slog.Default())
	result, err := p.Run(context.Background(), root)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		if result == nil {
			return
		}
		// fall through: earlier chunks may still have produced artifacts
	}

	fmt.Println("")
	fmt.Printf("  Files analyzed:   %d\n", len(result.Analyses))
	fmt.Printf("  Request chunks:   %d (%d failed)\n", result.Chunks, result.FailedChunks)
	fmt.Printf("  Artifacts:        %d", len(result.Artifacts))
	if result.FailedWrites > 0 {
		fmt.Printf(" (%d failed to write)", result.FailedWrites)
	}
	fmt.Println("")
	for _, path := range result.Written {
		fmt.Printf("    %s\n", path)
	}
	if flagDryRun {
		fmt.Println("")
		fmt.Println("Dry run: no requests were sent.")
	}
}

// dryRunClient satisfies the generation seam without network calls
type dryRunClient struct{}

func (dryRunClient) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return "", nil
}
