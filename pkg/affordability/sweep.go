package affordability

import (
	"github.com/iwvelando/mortgage-affordability/pkg/loans"
	"github.com/iwvelando/mortgage-affordability/pkg/mathutil"
)

// SweepByRate evaluates MaxLoan and MaxPropertyValue at sampleCount evenly
// spaced rates in [rateMin, rateMax], both bounds included. With a single
// sample the sweep is just rateMin and rateMax is not consulted.
func SweepByRate(income, installmentRatio float64, termYears int, loanToValueRatio, rateMin, rateMax float64, sampleCount int) ([]RatePoint, error) {
	if err := validateBudget(income, installmentRatio, termYears); err != nil {
		return nil, err
	}
	if err := requireFraction("loanToValueRatio", loanToValueRatio); err != nil {
		return nil, err
	}
	if err := requireSampleCount(sampleCount); err != nil {
		return nil, err
	}
	if err := requireNonNegative("rateMin", rateMin); err != nil {
		return nil, err
	}
	if sampleCount > 1 {
		if err := requireNonNegative("rateMax", rateMax); err != nil {
			return nil, err
		}
		if rateMax < rateMin {
			return nil, invalid("rateMax", rateMax, "must not be below rateMin")
		}
	}

	maxInstallment := income * installmentRatio
	months := loans.NumberOfPayments(termYears)

	rates := mathutil.Linspace(rateMin, rateMax, sampleCount)
	points := make([]RatePoint, len(rates))
	for i, rate := range rates {
		maxLoan := loans.PresentValue(maxInstallment, rate, months)
		maxValue := maxLoan / loanToValueRatio
		if err := requireFiniteResult("monthlyNetIncome", income, maxValue); err != nil {
			return nil, err
		}
		points[i] = RatePoint{
			AnnualInterestRatePercent: rate,
			MaxLoanPrincipal:          maxLoan,
			MaxPropertyValue:          maxValue,
		}
	}
	return points, nil
}

// DownPaymentCurve samples the down payment required for property values from
// 0 up to maxPropertyValue.
func DownPaymentCurve(maxPropertyValue, loanToValueRatio float64, sampleCount int) ([]DownPaymentPoint, error) {
	if err := requireNonNegative("maxPropertyValue", maxPropertyValue); err != nil {
		return nil, err
	}
	if err := requireFraction("loanToValueRatio", loanToValueRatio); err != nil {
		return nil, err
	}
	if err := requireSampleCount(sampleCount); err != nil {
		return nil, err
	}

	downPaymentRatio := 1 - loanToValueRatio
	values := mathutil.Linspace(0, maxPropertyValue, sampleCount)
	points := make([]DownPaymentPoint, len(values))
	for i, value := range values {
		points[i] = DownPaymentPoint{
			PropertyValue:       value,
			RequiredDownPayment: downPaymentRatio * value,
		}
	}
	return points, nil
}
