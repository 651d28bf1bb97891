package main

import (
	"github.com/spf13/cobra"

	"github.com/mauricioroteta/CalculadoraCaucion/internal/observability"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration helpers",
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate configuration and print the effective values",
	Long: `Loads the --config file, CAUCION_* environment variables and root flags,
applies defaults and validates the result. The token is redacted.`,
	RunE: runConfigCheck,
}

func init() {
	configCmd.AddCommand(configCheckCmd)
	rootCmd.AddCommand(configCmd)
}

// setupApp already validated the configuration; reaching here means it is usable.
func runConfigCheck(cmd *cobra.Command, _ []string) error {
	if err := writeJSON(cmd.OutOrStdout(), current.cfg.Redacted()); err != nil {
		return err
	}
	observability.PrintSuccess(cmd.ErrOrStderr(), "configuration is valid")
	return nil
}
