package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/mauricioroteta/CalculadoraCaucion/internal/observability"
	"github.com/mauricioroteta/CalculadoraCaucion/internal/pipeline"
	"github.com/mauricioroteta/CalculadoraCaucion/internal/types"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Quote many applications from a JSON file",
	Long: `Reads a JSON array of entries:

  [{"applicationId": "151547", "insuredAmount": 100000, "monthlyExpenses": 5000,
    "fromDate": "2024-01-01", "toDate": "2025-01-01", "rentalType": "U", "cuotas": 3}]

Each entry runs its own holder lookup and quote. A failed entry does not stop
the others. Results are written in input order.`,
	RunE: runBatch,
}

var (
	batchInput    string
	batchOutput   string
	batchParallel int
)

func init() {
	batchCmd.Flags().StringVarP(&batchInput, "in", "i", "", "Path to the batch JSON file (required)")
	batchCmd.Flags().StringVarP(&batchOutput, "out", "o", "", "Write results to this file instead of stdout")
	batchCmd.Flags().IntVarP(&batchParallel, "parallel", "p", 0, "Entries quoted at once (defaults to config parallel)")
	_ = batchCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	entries, err := pipeline.LoadBatch(batchInput)
	if err != nil {
		return err
	}

	parallel := batchParallel
	if parallel <= 0 {
		parallel = current.cfg.Parallel
	}

	opts := pipeline.BatchOptions{
		Parallel: parallel,
		Logger:   current.logger,
	}
	if rootVerbose {
		var mu sync.Mutex
		stderr := cmd.ErrOrStderr()
		opts.OnProgress = func(e pipeline.ProgressEvent) {
			mu.Lock()
			defer mu.Unlock()
			_, _ = fmt.Fprintf(stderr, "[%d %s] %s %s %s\n", e.Index, e.ApplicationID, e.Step, e.Phase, e.Message)
		}
	}

	results, runErr := pipeline.RunBatch(ctx, current.client, entries, opts)

	out := cmd.OutOrStdout()
	if batchOutput != "" {
		f, err := os.Create(batchOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}
	if err := writeBatchResults(out, results); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	stderr := cmd.ErrOrStderr()
	if failed > 0 {
		observability.Errorf(stderr, "%d of %d entries failed", failed, len(results))
	} else {
		observability.PrintSuccess(stderr, fmt.Sprintf("%d entries quoted", len(results)))
	}

	if runErr != nil {
		return runErr
	}
	if failed > 0 {
		return fmt.Errorf("%d batch entries failed", failed)
	}
	return nil
}

// writeBatchResults writes one JSON object per line, or boxes when --json is off
// and the destination is stdout.
func writeBatchResults(w io.Writer, results []types.BatchResult) error {
	if rootJSON || batchOutput != "" {
		enc := json.NewEncoder(w)
		for _, r := range results {
			if err := enc.Encode(r); err != nil {
				return fmt.Errorf("failed to write result: %w", err)
			}
		}
		return nil
	}

	printer := observability.NewPrinter(w)
	for _, r := range results {
		_, _ = fmt.Fprintf(w, "Solicitud %s\n", r.ApplicationID)
		printer.PrintPolicyHolder(r.Holder)
		printer.PrintQuote(r.Quote)
		if r.Error != "" {
			observability.PrintError(w, r.Error)
		}
	}
	return nil
}
