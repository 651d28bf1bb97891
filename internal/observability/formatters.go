// Package observability provides logging setup and formatted terminal output for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/mauricioroteta/CalculadoraCaucion/internal/quote"
	"github.com/mauricioroteta/CalculadoraCaucion/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// labelWidth pads labels inside boxes
	labelWidth = 20
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %s │\n", pad(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad truncates or right-pads s to width runes.
func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n > width {
		runes := []rune(s)
		return string(runes[:width-3]) + "..."
	}
	return s + strings.Repeat(" ", width-n)
}

func row(sb *strings.Builder, label, value string) {
	sb.WriteString(fmt.Sprintf("%-*s %s\n", labelWidth, label+":", value))
}

// Money formats an amount with two decimals and thousands separators (1.234.567,89).
func Money(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%.2f", v)
	intPart, frac := s[:len(s)-3], s[len(s)-2:]

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	out := strings.Join(groups, ".") + "," + frac
	if neg {
		out = "-" + out
	}
	return "$ " + out
}

func pct(v float64) string {
	return strings.Replace(fmt.Sprintf("%.2f%%", v), ".", ",", 1)
}

// PrintPolicyHolder outputs a human-readable summary of the policy holder.
func (p *Printer) PrintPolicyHolder(holder *types.PolicyHolder) {
	if holder == nil {
		return
	}

	var sb strings.Builder
	row(&sb, "Solicitud", holder.ID)
	row(&sb, "Tomador", holder.Name)
	row(&sb, "CUIT", holder.CUIT)
	row(&sb, "Provincia", fmt.Sprintf("%s (%s)", holder.Province, holder.ProvinceCode))
	sb.WriteString("\n")
	row(&sb, "Item A", fmt.Sprintf("%g", holder.ItemA))
	row(&sb, "Item B", fmt.Sprintf("%g", holder.ItemB))
	row(&sb, "Item C", fmt.Sprintf("%g", holder.ItemC))
	row(&sb, "Item D", fmt.Sprintf("%g", holder.ItemD))
	row(&sb, "Item E", fmt.Sprintf("%g", holder.ItemE))

	p.printBox("TOMADOR", sb.String())
}

// PrintQuote outputs the premium breakdown, including tax detail lines.
func (p *Printer) PrintQuote(q *types.QuoteDetails) {
	if q == nil {
		return
	}

	var sb strings.Builder
	row(&sb, "Suma asegurada", Money(q.SumaAsegurada))
	row(&sb, "Tasa aplicada", fmt.Sprintf("%g", q.TasaAplicada))
	sb.WriteString("\n")
	row(&sb, "Prima tarifa", Money(q.PrimaTarifa))
	row(&sb, "Bonificación "+pct(q.BonificacionPct), Money(q.Bonificacion))
	row(&sb, "Prima neta", Money(q.PrimaNeta))
	row(&sb, "Rec. admin. "+pct(q.RecAdministrativoPct), Money(q.RecAdministrativo))
	row(&sb, "Rec. financ. "+pct(q.RecFinancieroPct), Money(q.RecFinanciero))
	row(&sb, "Derecho de emisión", Money(q.DerEmision))
	row(&sb, "Gastos de escribanía", Money(q.GastosEscribania))
	row(&sb, "Subtotal", Money(q.Subtotal))
	row(&sb, "Impuestos", Money(q.Impuestos))

	for _, tax := range q.DetalleImpuestos {
		sb.WriteString(fmt.Sprintf("  • %s %s s/ %s = %s\n", tax.ImpCod, pct(tax.Alicuota), Money(tax.Base), Money(tax.Importe)))
	}

	sb.WriteString("\n")
	row(&sb, "PREMIO", Money(q.Premio))

	p.printBox("COTIZACIÓN", sb.String())
}

// PrintCoverage outputs the inputs and derived values a snapshot was computed from.
func (p *Printer) PrintCoverage(snap quote.Snapshot) {
	var sb strings.Builder
	row(&sb, "Solicitud", snap.ApplicationID)
	if snap.TotalAmount != nil {
		row(&sb, "Suma total", Money(*snap.TotalAmount))
	} else {
		row(&sb, "Suma total", "-")
	}
	row(&sb, "Vigencia", fmt.Sprintf("%s → %s (%d días)",
		snap.Coverage.FromDate.Format("2006-01-02"),
		snap.Coverage.ToDate.Format("2006-01-02"),
		snap.DayCount))
	row(&sb, "Tipo de alquiler", fmt.Sprintf("%s (%s)", snap.RentalType.Label(), string(snap.RentalType)))
	if snap.Cuotas > 0 {
		row(&sb, "Cuotas", fmt.Sprintf("%d", snap.Cuotas))
	}

	p.printBox("DATOS DE LA COTIZACIÓN", sb.String())
}

// PrintProgress writes one line per workflow transition.
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) PrintProgress(event quote.ProgressEvent) {
	if event.Message != "" {
		fmt.Fprintf(p.out, "[%s] %s: %s\n", event.Step, event.Phase, event.Message)
		return
	}
	fmt.Fprintf(p.out, "[%s] %s\n", event.Step, event.Phase)
}
