package main

import (
	"encoding/json"
	"io"

	"github.com/mauricioroteta/CalculadoraCaucion/internal/observability"
	"github.com/mauricioroteta/CalculadoraCaucion/internal/quote"
	"github.com/mauricioroteta/CalculadoraCaucion/internal/validation"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printSnapshot renders the workflow result on stdout and any step error on stderr.
func printSnapshot(stdout, stderr io.Writer, snap quote.Snapshot) error {
	if validation.IsReversed(snap.Coverage.FromDate, snap.Coverage.ToDate) {
		observability.PrintWarning(stderr, "coverage range ends before it starts; the day count uses the absolute difference")
	}

	if rootJSON {
		return writeJSON(stdout, snap)
	}

	printer := observability.NewPrinter(stdout)
	printer.PrintCoverage(snap)
	printer.PrintPolicyHolder(snap.Holder)
	printer.PrintQuote(snap.Quote)

	if snap.HolderError != "" {
		observability.PrintError(stderr, snap.HolderError)
	}
	if snap.QuoteError != "" {
		observability.PrintError(stderr, snap.QuoteError)
	}
	return nil
}
