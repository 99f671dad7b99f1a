package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m2rads/e2e/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default e2e.yaml in the current directory",
	Long: `Write a default configuration file covering include/exclude globs,
the output directory, the model id and the per-request token ceiling.

Example:
  e2e init
  $EDITOR e2e.yaml`,
	Run: runInit,
}

func runInit(cmd *cobra.Command, args []string) {
	if err := config.Default().Write(config.DefaultFile); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("Wrote %s\n", config.DefaultFile)
	fmt.Println("")
	fmt.Println("Next steps:")
	fmt.Println("  1. Set OPENAI_API_KEY in your environment or a .env file")
	fmt.Println("  2. Run 'e2e analyze ./src' to inspect the extracted UI model")
	fmt.Println("  3. Run 'e2e generate ./src' to produce test files")
}
