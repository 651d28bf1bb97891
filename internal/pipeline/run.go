// Package pipeline runs the quote workflow for many applications at once.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mauricioroteta/CalculadoraCaucion/internal/policy"
	"github.com/mauricioroteta/CalculadoraCaucion/internal/quote"
	"github.com/mauricioroteta/CalculadoraCaucion/internal/types"
)

// DefaultParallel is used when BatchOptions.Parallel is not positive.
const DefaultParallel = 4

// ProgressEvent represents a progress update during a batch run
type ProgressEvent struct {
	RunID         string `json:"run_id"`
	Index         int    `json:"index"`
	ApplicationID string `json:"application_id"`
	Step          string `json:"step"`
	Phase         string `json:"phase"`
	Message       string `json:"message,omitempty"`
}

// ProgressCallback is called when batch progress occurs. It may be called
// from several goroutines at once.
type ProgressCallback func(event ProgressEvent)

// BatchOptions holds configuration for a batch run
type BatchOptions struct {
	Parallel   int
	Logger     *slog.Logger
	OnProgress ProgressCallback
}

// LoadError represents an error reading or decoding a batch file
type LoadError struct {
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("load error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("load error: %s", e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// LoadBatch reads a JSON array of batch entries from path.
func LoadBatch(path string) ([]types.BatchEntry, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Message: fmt.Sprintf("failed to read file %s", path), Cause: err}
	}

	var entries []types.BatchEntry
	if err := json.Unmarshal(content, &entries); err != nil {
		return nil, &LoadError{Message: "failed to unmarshal JSON", Cause: err}
	}
	if len(entries) == 0 {
		return nil, &LoadError{Message: "batch file has no entries"}
	}
	return entries, nil
}

// RunBatch quotes every entry with its own workflow. Each workflow is
// independent; entries fail individually and never stop the others. Results
// keep the order of entries. The returned error is only set when ctx ends the run.
func RunBatch(ctx context.Context, gateway policy.Gateway, entries []types.BatchEntry, opts BatchOptions) ([]types.BatchResult, error) {
	parallel := opts.Parallel
	if parallel <= 0 {
		parallel = DefaultParallel
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	runID := uuid.New().String()
	logger = logger.With("run_id", runID)

	results := make([]types.BatchResult, len(entries))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for i := range entries {
		entry := entries[i]
		idx := i
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[idx] = runEntry(gCtx, gateway, idx, entry, runID, logger, opts.OnProgress)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, fmt.Errorf("batch run %s interrupted: %w", runID, err)
	}
	logger.Info("batch run finished", "entries", len(entries))
	return results, nil
}

func runEntry(ctx context.Context, gateway policy.Gateway, idx int, entry types.BatchEntry, runID string, logger *slog.Logger, onProgress ProgressCallback) types.BatchResult {
	result := types.BatchResult{ApplicationID: entry.ApplicationID}

	if err := entry.Validate(); err != nil {
		result.Error = fmt.Sprintf("invalid entry: %v", err)
		logger.Warn("batch entry rejected", "index", idx, "application_id", entry.ApplicationID, "error", err)
		return result
	}

	var progress quote.ProgressCallback
	if onProgress != nil {
		progress = func(e quote.ProgressEvent) {
			onProgress(ProgressEvent{
				RunID:         runID,
				Index:         idx,
				ApplicationID: entry.ApplicationID,
				Step:          e.Step,
				Phase:         e.Phase,
				Message:       e.Message,
			})
		}
	}

	w := quote.New(gateway, &quote.Options{
		Logger:     logger.With("index", idx),
		OnProgress: progress,
	})
	if err := applyEntry(w, entry); err != nil {
		result.Error = quote.Message(err)
		return result
	}

	holder, err := w.ResolveHolder(ctx)
	if err != nil {
		result.Error = quote.Message(err)
		return result
	}
	result.Holder = holder

	// The holder lookup seeds F; an explicit rental type in the entry wins.
	if entry.RentalType != "" {
		w.SetRentalType(types.ParseRentalType(entry.RentalType))
	}

	q, err := w.CalculateQuote(ctx)
	if err != nil {
		result.Error = quote.Message(err)
		return result
	}
	result.Quote = q
	return result
}

func applyEntry(w *quote.Workflow, entry types.BatchEntry) error {
	edits := [][2]string{
		{quote.FieldApplicationID, entry.ApplicationID},
		{quote.FieldFromDate, entry.FromDate},
		{quote.FieldToDate, entry.ToDate},
	}
	if entry.Cuotas > 0 {
		edits = append(edits, [2]string{quote.FieldCuotas, strconv.Itoa(entry.Cuotas)})
	}
	for _, edit := range edits {
		if err := w.EditField(edit[0], edit[1]); err != nil {
			return err
		}
	}
	w.SetInsuredAmount(entry.InsuredAmount)
	w.SetMonthlyExpenses(entry.MonthlyExpenses)
	return nil
}
