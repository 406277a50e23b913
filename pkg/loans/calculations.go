// Package loans provides the fixed-rate annuity formulas shared by the
// affordability calculations.
package loans

import (
	"math"

	"github.com/iwvelando/mortgage-affordability/pkg/constants"
)

// MonthlyRate converts an annual percentage rate (e.g. 3.0 for 3%) into the
// periodic monthly rate (0.0025).
func MonthlyRate(annualInterestRate float64) float64 {
	return annualInterestRate / (constants.PercentageMultiplier * constants.MonthsPerYear)
}

// NumberOfPayments returns the count of monthly installments in a term.
func NumberOfPayments(termYears int) int {
	return termYears * constants.MonthsPerYear
}

// annuityFactor returns 1 - (1+r)^-n. Expm1/Log1p keep precision for rates
// close to zero where the naive power form cancels to 0.
func annuityFactor(periodicRate float64, termMonths int) float64 {
	return -math.Expm1(-float64(termMonths) * math.Log1p(periodicRate))
}

// PresentValue returns the principal that a fixed monthly payment amortizes
// over termMonths at the given annual rate (ordinary annuity).
func PresentValue(payment, annualInterestRate float64, termMonths int) float64 {
	if termMonths <= 0 {
		return 0
	}

	periodicInterestRate := MonthlyRate(annualInterestRate)
	if periodicInterestRate == 0 {
		// Limit of the annuity formula as the rate goes to zero.
		return payment * float64(termMonths)
	}

	return payment * annuityFactor(periodicInterestRate, termMonths) / periodicInterestRate
}

// CalculateMonthlyPayment calculates the monthly payment for a loan using the standard amortization formula.
func CalculateMonthlyPayment(principal, downPayment, annualInterestRate float64, termMonths int) float64 {
	if termMonths <= 0 {
		return 0
	}

	financed := principal - downPayment
	periodicInterestRate := MonthlyRate(annualInterestRate)
	if periodicInterestRate == 0 {
		// For zero interest, simply divide the principal by term
		return financed / float64(termMonths)
	}

	return financed * periodicInterestRate / annuityFactor(periodicInterestRate, termMonths)
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingPrincipal, annualInterestRate float64) float64 {
	return remainingPrincipal * MonthlyRate(annualInterestRate)
}

// TotalInterest returns the interest paid over the life of a loan when every
// installment is paid as scheduled.
func TotalInterest(principal, annualInterestRate float64, termMonths int) float64 {
	payment := CalculateMonthlyPayment(principal, 0, annualInterestRate, termMonths)
	return payment*float64(termMonths) - principal
}
