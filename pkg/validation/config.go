// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/mortgage-affordability/pkg/constants"
	"github.com/iwvelando/mortgage-affordability/pkg/format"
)

// Lender guideline thresholds; crossing them is allowed but worth a warning.
const (
	GuidelineMaxInstallmentRatio = 0.5
	GuidelineMinLoanToValueRatio = 0.5
)

// ConfigValidator holds the subset of the configuration that is checked for
// plausibility. Hard errors are left to the calculator; this only produces
// warnings.
type ConfigValidator struct {
	MaxInstallmentRatio float64
	LoanToValueRatio    float64
	RateMin             float64
	RateMax             float64
	FixedRate           float64
	SweepSamples        int
	DownPaymentSamples  int
	MaxDownPayment      float64
	CurrencySymbol      string
}

// ValidateAll validates the configuration and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	if cv.MaxInstallmentRatio > GuidelineMaxInstallmentRatio {
		warnings = append(warnings, fmt.Sprintf("Installment ratio %s exceeds the %s most lenders accept",
			format.Percent(cv.MaxInstallmentRatio), format.Percent(GuidelineMaxInstallmentRatio)))
	}

	if cv.LoanToValueRatio > 0 && cv.LoanToValueRatio < GuidelineMinLoanToValueRatio {
		warnings = append(warnings, fmt.Sprintf("Loan-to-value ratio %s is below the %s lenders usually finance",
			format.Percent(cv.LoanToValueRatio), format.Percent(GuidelineMinLoanToValueRatio)))
	}

	warnings = append(warnings, ValidateRateRange(cv.RateMin, cv.RateMax, cv.FixedRate, cv.SweepSamples)...)
	warnings = append(warnings, ValidateSampleCount("Rate sweep", cv.SweepSamples)...)
	warnings = append(warnings, ValidateSampleCount("Down payment curve", cv.DownPaymentSamples)...)

	if cv.LoanToValueRatio == 1 && cv.MaxDownPayment > 0 {
		warnings = append(warnings, fmt.Sprintf("Loan-to-value ratio is 100%%; the planned down payment of %s is not required",
			format.WholeCurrency(cv.CurrencySymbol, cv.MaxDownPayment)))
	}

	return warnings
}

// ValidateRateRange checks the sweep bounds against the fixed analysis rate.
func ValidateRateRange(rateMin, rateMax, fixedRate float64, samples int) []string {
	var warnings []string

	if samples == 1 && rateMax != rateMin {
		warnings = append(warnings, fmt.Sprintf("Rate sweep has a single sample; maximum rate %s is ignored",
			format.Rate(rateMax)))
		rateMax = rateMin
	}

	if rateMax >= rateMin && (fixedRate < rateMin || fixedRate > rateMax) {
		warnings = append(warnings, fmt.Sprintf("Fixed rate %s is outside the sweep range [%s, %s]",
			format.Rate(fixedRate), format.Rate(rateMin), format.Rate(rateMax)))
	}

	return warnings
}

// ValidateSampleCount flags a chart series with more points than the
// calculator accepts.
func ValidateSampleCount(series string, samples int) []string {
	if samples > constants.MaxSamples {
		return []string{fmt.Sprintf("%s has %d samples; at most %d are supported",
			series, samples, constants.MaxSamples)}
	}
	return nil
}
