package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "abadmin",
	Short: "A/B testing administration",
	Long: `abadmin runs experiments with weighted variants.

It serves the demo landing page and the admin pages, and manages
experiments, variants and allocations from the command line.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(experimentCmd)
	rootCmd.AddCommand(variantCmd)
	rootCmd.AddCommand(seedCmd)
}
