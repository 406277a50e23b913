// Package output provides utilities for formatting and displaying affordability results.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/mortgage-affordability/internal/analysis"
	"github.com/iwvelando/mortgage-affordability/pkg/constants"
	"github.com/iwvelando/mortgage-affordability/pkg/format"
	"github.com/iwvelando/mortgage-affordability/pkg/summary"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat writes a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, a *analysis.Analysis) error {
	p := message.NewPrinter(language.English)
	sym := a.CurrencySymbol
	if sym == "" {
		sym = constants.DefaultCurrencySymbol
	}
	in := a.Inputs

	_, _ = fmt.Fprintf(w, "--- Borrower ---\n")
	_, _ = p.Fprintf(w, "Monthly net income:   %s %.2f\n", sym, in.MonthlyNetIncome)
	_, _ = p.Fprintf(w, "Max installment:      %s %.2f (%s of income)\n", sym, in.MaxInstallment(), format.Percent(in.MaxInstallmentRatio))
	_, _ = fmt.Fprintf(w, "Loan term:            %d years\n", in.LoanTermYears)
	_, _ = fmt.Fprintf(w, "Loan-to-value:        %s (down payment %s)\n", format.Percent(in.LoanToValueRatio), format.Percent(a.DownPaymentRatio))

	_, _ = fmt.Fprintf(w, "\n--- Maximum loan and property value by rate ---\n")
	_, _ = fmt.Fprintf(w, "Rate   | Max Loan        | Max Property Value\n")
	_, _ = fmt.Fprintf(w, "____   | _______________ | __________________\n")
	for _, point := range a.Sweep {
		_, _ = p.Fprintf(w, "%.3f%% | %s %.2f | %s %.2f\n",
			point.AnnualInterestRatePercent, sym, point.MaxLoanPrincipal, sym, point.MaxPropertyValue)
	}

	_, _ = fmt.Fprintf(w, "\n--- Fixed rate %s ---\n", format.Rate(a.Fixed.AnnualInterestRatePercent))
	_, _ = p.Fprintf(w, "Max loan:             %s %.2f\n", sym, a.Fixed.MaxLoanPrincipal)
	_, _ = p.Fprintf(w, "Max property value:   %s %.2f\n", sym, a.Fixed.MaxPropertyValue)

	_, _ = fmt.Fprintf(w, "\n--- Down payment ---\n")
	_, _ = p.Fprintf(w, "Planned down payment: %s %.2f\n", sym, a.MaxDownPayment)
	if a.DownPaymentLimit != nil {
		_, _ = p.Fprintf(w, "Covers a property of: %s %.2f\n", sym, *a.DownPaymentLimit)
	} else {
		_, _ = fmt.Fprintf(w, "Covers a property of: unlimited (no down payment required)\n")
	}

	_, _ = fmt.Fprintf(w, "\n--- 100%% financing ---\n")
	_, _ = p.Fprintf(w, "Max loan:             %s %.2f\n", sym, a.FullFinancing.MaxLoanPrincipal)
	_, _ = p.Fprintf(w, "Max property value:   %s %.2f\n", sym, a.FullFinancing.MaxPropertyValue)

	for _, eval := range a.Prices {
		_, _ = p.Fprintf(w, "\n--- Price check %s %.2f ---\n", sym, eval.Price)
		_, _ = p.Fprintf(w, "Down payment:         %s %.2f\n", sym, eval.RequiredDownPayment)
		_, _ = p.Fprintf(w, "Loan:                 %s %.2f\n", sym, eval.RequiredLoanAmount)
		_, _ = p.Fprintf(w, "Monthly installment:  %s %.2f\n", sym, eval.MonthlyInstallment)
		_, _ = p.Fprintf(w, "Max sustainable:      %s %.2f\n", sym, eval.MaxSustainableInstallment)
		_, _ = fmt.Fprintf(w, "%s\n", summary.Verdict(eval))
	}

	if len(a.Warnings) > 0 {
		_, _ = fmt.Fprintf(w, "\nWarnings:\n")
		for _, warning := range a.Warnings {
			_, _ = fmt.Fprintf(w, "  - %s\n", warning)
		}
	}

	return nil
}

// CsvFormat writes the rate sweep and the down payment curve in
// comma-separated value format, one blank line between the two tables.
func CsvFormat(w io.Writer, a *analysis.Analysis) error {
	if _, err := fmt.Fprintf(w, `"rate (%%)","max loan","max property value"`+"\n"); err != nil {
		return err
	}
	for _, point := range a.Sweep {
		if _, err := fmt.Fprintf(w, `"%.4f","%.2f","%.2f"`+"\n",
			point.AnnualInterestRatePercent, point.MaxLoanPrincipal, point.MaxPropertyValue); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "\n"+`"property value","required down payment"`+"\n"); err != nil {
		return err
	}
	for _, point := range a.DownPaymentCurve {
		if _, err := fmt.Fprintf(w, `"%.2f","%.2f"`+"\n", point.PropertyValue, point.RequiredDownPayment); err != nil {
			return err
		}
	}
	return nil
}

// CsvString returns the CSV rendering of a.
func CsvString(a *analysis.Analysis) string {
	var b strings.Builder
	_ = CsvFormat(&b, a)
	return b.String()
}

// JSONFormat writes a as indented JSON.
func JSONFormat(w io.Writer, a *analysis.Analysis) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(a); err != nil {
		return fmt.Errorf("encoding analysis: %w", err)
	}
	return nil
}

// Write renders a in the named output format.
func Write(w io.Writer, outputFormat string, a *analysis.Analysis) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		return PrettyFormat(w, a)
	case constants.OutputFormatCSV:
		return CsvFormat(w, a)
	case constants.OutputFormatJSON:
		return JSONFormat(w, a)
	default:
		return fmt.Errorf("unknown output format %q", outputFormat)
	}
}
