package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags puts every flag of cmd and its subcommands back to its default
// and clears the Changed mark, so required-flag checks run fresh.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// execute runs rootCmd in-process with clean flag state and an isolated environment.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	for _, key := range []string{
		"CAUCION_API_URL", "CAUCION_API_TOKEN", "CAUCION_TIMEOUT",
		"CAUCION_ENV", "CAUCION_LOG_LEVEL", "CAUCION_PARALLEL",
	} {
		t.Setenv(key, "")
	}

	resetFlags(rootCmd)
	current = nil

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--env", "prod", "--log-level", "error"}, args...))
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}
