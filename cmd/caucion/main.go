// Package main provides the entry point for the caución quote CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "caucion",
	Short: "Rental-guarantee (caución de alquiler) quote client",
	Long: `Resolves the policy holder of an application from the registry service and
requests a computed quote from the calculation service.

Configuration can be loaded from a JSON file using --config and from CAUCION_*
environment variables. Command-line flags override both.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupApp,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
