package main

import (
	"context"

	"github.com/spf13/cobra"
)

var holderCmd = &cobra.Command{
	Use:   "holder",
	Short: "Resolve the policy holder of an application",
	Long: `Validates the coverage inputs, then looks up the policy holder in the registry:
GET /policyholder/{applicationId}/{totalAmount}/{dayCount}.`,
	RunE: runHolder,
}

var holderFlags coverageFlags

func init() {
	holderFlags.register(holderCmd)
	rootCmd.AddCommand(holderCmd)
}

func runHolder(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	w := newWorkflow(current, cmd.ErrOrStderr())
	if err := holderFlags.apply(w); err != nil {
		return err
	}

	_, lookupErr := w.ResolveHolder(ctx)
	if err := printSnapshot(cmd.OutOrStdout(), cmd.ErrOrStderr(), w.Snapshot()); err != nil {
		return err
	}
	return lookupErr
}
