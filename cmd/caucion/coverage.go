package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mauricioroteta/CalculadoraCaucion/internal/observability"
	"github.com/mauricioroteta/CalculadoraCaucion/internal/quote"
)

// coverageFlags are the raw field edits shared by holder and quote.
type coverageFlags struct {
	applicationID   string
	insuredAmount   string
	monthlyExpenses string
	fromDate        string
	toDate          string
}

func (f *coverageFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.applicationID, "application-id", "a", "", "Application (solicitud) number (required)")
	cmd.Flags().StringVar(&f.insuredAmount, "insured-amount", "", "Insured amount (suma asegurada) (required)")
	cmd.Flags().StringVar(&f.monthlyExpenses, "monthly-expenses", "", "Monthly expenses (expensas), defaults to 0")
	cmd.Flags().StringVar(&f.fromDate, "from", "", "Coverage start date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&f.toDate, "to", "", "Coverage end date YYYY-MM-DD (default twelve months after today)")
	_ = cmd.MarkFlagRequired("application-id")
	_ = cmd.MarkFlagRequired("insured-amount")
}

// apply feeds the flags to the workflow as field edits. Unset dates keep the workflow defaults.
func (f *coverageFlags) apply(w *quote.Workflow) error {
	edits := [][2]string{
		{quote.FieldApplicationID, f.applicationID},
		{quote.FieldInsuredAmount, f.insuredAmount},
		{quote.FieldMonthlyExpenses, f.monthlyExpenses},
	}
	if f.fromDate != "" {
		edits = append(edits, [2]string{quote.FieldFromDate, f.fromDate})
	}
	if f.toDate != "" {
		edits = append(edits, [2]string{quote.FieldToDate, f.toDate})
	}
	for _, edit := range edits {
		if err := w.EditField(edit[0], edit[1]); err != nil {
			return fmt.Errorf("invalid --%s: %w", flagName(edit[0]), err)
		}
	}
	return nil
}

func flagName(field string) string {
	switch field {
	case quote.FieldApplicationID:
		return "application-id"
	case quote.FieldInsuredAmount:
		return "insured-amount"
	case quote.FieldMonthlyExpenses:
		return "monthly-expenses"
	case quote.FieldFromDate:
		return "from"
	case quote.FieldToDate:
		return "to"
	case quote.FieldRentalType:
		return "rental-type"
	case quote.FieldCuotas:
		return "cuotas"
	default:
		return field
	}
}

// newWorkflow builds a workflow wired to the resolved app and, in verbose mode,
// prints each transition to stderr.
func newWorkflow(a *app, stderr io.Writer) *quote.Workflow {
	opts := &quote.Options{Logger: a.logger}
	if rootVerbose {
		printer := observability.NewPrinter(stderr)
		opts.OnProgress = printer.PrintProgress
	}
	return quote.New(a.client, opts)
}
