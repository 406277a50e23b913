// Package summary renders the narrative part of an affordability analysis as
// markdown, and that markdown as HTML for the web UI.
package summary

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/iwvelando/mortgage-affordability/internal/analysis"
	"github.com/iwvelando/mortgage-affordability/pkg/affordability"
	"github.com/iwvelando/mortgage-affordability/pkg/format"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Verdicts shown under each price check.
const (
	VerdictSustainable   = "✅ The installment is within the sustainability limit."
	VerdictUnsustainable = "⚠️ The installment exceeds the sustainability limit."
)

var renderer = goldmark.New(goldmark.WithExtensions(extension.Table))

// Markdown returns the summary of a as a markdown document.
func Markdown(a *analysis.Analysis) string {
	var b strings.Builder
	sym := a.CurrencySymbol
	in := a.Inputs

	b.WriteString("## Maximum loan and property value by rate\n\n")
	fmt.Fprintf(&b, "**At a fixed rate of %s** you can roughly obtain:\n\n", format.Rate(a.Fixed.AnnualInterestRatePercent))
	fmt.Fprintf(&b, "- Maximum loan (installment = %s of income): **%s**\n",
		format.Percent(in.MaxInstallmentRatio), format.WholeCurrency(sym, a.Fixed.MaxLoanPrincipal))
	fmt.Fprintf(&b, "- Maximum property value (loan %s): **%s**\n",
		format.Percent(in.LoanToValueRatio), format.WholeCurrency(sym, a.Fixed.MaxPropertyValue))
	if len(a.Sweep) > 0 {
		first, last := a.Sweep[0], a.Sweep[len(a.Sweep)-1]
		fmt.Fprintf(&b, "\nBetween %s and %s the maximum loan moves from **%s** to **%s**.\n",
			format.Rate(first.AnnualInterestRatePercent), format.Rate(last.AnnualInterestRatePercent),
			format.WholeCurrency(sym, first.MaxLoanPrincipal), format.WholeCurrency(sym, last.MaxLoanPrincipal))
	}

	b.WriteString("\n## Down payment vs property value\n\n")
	fmt.Fprintf(&b, "- Maximum down payment you plan to put in: **%s**\n", format.WholeCurrency(sym, a.MaxDownPayment))
	if a.DownPaymentLimit != nil {
		fmt.Fprintf(&b, "- This covers a property value of **%s** (given a %s down payment)\n",
			format.WholeCurrency(sym, *a.DownPaymentLimit), format.Percent(a.DownPaymentRatio))
	} else {
		b.WriteString("- The loan covers the whole price, so no down payment is required\n")
	}

	b.WriteString("\n## Hypothetical scenario: 100% financing\n\n")
	b.WriteString("If a bank financed **100%** of the property value:\n\n")
	fmt.Fprintf(&b, "- Maximum loan: **%s**\n", format.WholeCurrency(sym, a.FullFinancing.MaxLoanPrincipal))
	fmt.Fprintf(&b, "- Maximum property value (100%% loan): **%s**\n", format.WholeCurrency(sym, a.FullFinancing.MaxPropertyValue))

	for _, eval := range a.Prices {
		b.WriteString("\n")
		b.WriteString(PriceCheck(sym, in, eval))
	}

	if len(a.Warnings) > 0 {
		b.WriteString("\n## Warnings\n\n")
		for _, w := range a.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}

	return b.String()
}

// PriceCheck returns the markdown block for a single price evaluation.
func PriceCheck(sym string, in affordability.Inputs, eval affordability.PriceEvaluation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Price check: %s\n\n", format.WholeCurrency(sym, eval.Price))
	fmt.Fprintf(&b, "- Required down payment (%s): **%s**\n",
		format.Percent(in.DownPaymentRatio()), format.WholeCurrency(sym, eval.RequiredDownPayment))
	fmt.Fprintf(&b, "- Required loan (%s): **%s**\n",
		format.Percent(in.LoanToValueRatio), format.WholeCurrency(sym, eval.RequiredLoanAmount))
	fmt.Fprintf(&b, "- Monthly installment at %s over %d years: **%s**\n",
		format.Rate(in.AnnualInterestRatePercent), in.LoanTermYears, format.Currency(sym, eval.MonthlyInstallment))
	fmt.Fprintf(&b, "- Maximum sustainable installment: **%s**\n\n",
		format.Currency(sym, eval.MaxSustainableInstallment))
	b.WriteString(Verdict(eval))
	b.WriteString("\n")
	return b.String()
}

// Verdict returns the sustainability line for eval.
func Verdict(eval affordability.PriceEvaluation) string {
	if eval.IsSustainable {
		return VerdictSustainable
	}
	return VerdictUnsustainable
}

// HTML converts markdown to an HTML fragment.
func HTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := renderer.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("rendering summary: %w", err)
	}
	return buf.String(), nil
}
