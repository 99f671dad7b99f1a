package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/m2rads/e2e/internal/config"
	"github.com/m2rads/e2e/internal/pipeline"
	"github.com/m2rads/e2e/internal/storage"
)

var analyzeJSON bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Extract the UI model without calling the generation service",
	Long: `Run discovery, prioritization and structural analysis over a source
tree and print the result. Fully offline.

Example:
  e2e analyze ./src
  e2e analyze ./src --json > model.json`,
	Args: cobra.MaximumNArgs(1),
	Run:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the raw analysis list as JSON")
}

func runAnalyze(cmd *cobra.Command, args []string) {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	cfg, err := config.Load(config.DefaultFile)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	cache := openCache(cfg)
	if cache != nil {
		defer cache.Close()
	}

	p := pipeline.New(cfg, nil, cache, slog.Default())
	analyses, selected, fw, err := p.Analyze(context.Background(), root)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	if analyzeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(analyses); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
		return
	}

	fmt.Printf("Analyzed %d of %d selected files\n", len(analyses), len(selected))
	fmt.Printf("Framework: %s", fw.Type)
	if fw.ComponentStyle != "" {
		fmt.Printf(" (%s components)", fw.ComponentStyle)
	}
	fmt.Println("")
	fmt.Println("")

	for _, a := range analyses {
		fmt.Printf("  %s\n", a.File)
		fmt.Printf("    elements: %d  forms: %d  state hooks: %d\n",
			len(a.Elements), len(a.Forms), a.StateCount)
		if len(a.Dependencies.APIs) > 0 {
			fmt.Printf("    apis: %v\n", a.Dependencies.APIs)
		}
	}
}

// openCache opens the analysis cache; failures degrade to cache-less runs
func openCache(cfg *config.Config) *storage.Cache {
	cache, err := storage.Open(cfg.CacheDir)
	if err != nil {
		slog.Warn("analysis cache unavailable", "error", err)
		return nil
	}
	return cache
}
