package validation

import (
	"strings"
	"testing"
)

func baseValidator() ConfigValidator {
	return ConfigValidator{
		MaxInstallmentRatio: 1.0 / 3.0,
		LoanToValueRatio:    0.8,
		RateMin:             2.8,
		RateMax:             3.3,
		FixedRate:           3.0,
		SweepSamples:        200,
		DownPaymentSamples:  200,
		MaxDownPayment:      60000,
		CurrencySymbol:      "€",
	}
}

func TestValidateAll(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*ConfigValidator)
		expected []string
	}{
		{
			name:     "Defaults produce no warnings",
			mutate:   func(cv *ConfigValidator) {},
			expected: nil,
		},
		{
			name:     "Aggressive installment ratio",
			mutate:   func(cv *ConfigValidator) { cv.MaxInstallmentRatio = 0.6 },
			expected: []string{"Installment ratio 60% exceeds the 50% most lenders accept"},
		},
		{
			name:     "Low loan-to-value",
			mutate:   func(cv *ConfigValidator) { cv.LoanToValueRatio = 0.4 },
			expected: []string{"Loan-to-value ratio 40% is below the 50% lenders usually finance"},
		},
		{
			name:     "Fixed rate outside sweep",
			mutate:   func(cv *ConfigValidator) { cv.FixedRate = 4 },
			expected: []string{"Fixed rate 4.00% is outside the sweep range [2.80%, 3.30%]"},
		},
		{
			name:     "Full financing with down payment",
			mutate:   func(cv *ConfigValidator) { cv.LoanToValueRatio = 1 },
			expected: []string{"Loan-to-value ratio is 100%; the planned down payment of € 60,000 is not required"},
		},
		{
			name:     "Oversized sweep",
			mutate:   func(cv *ConfigValidator) { cv.SweepSamples = 20000 },
			expected: []string{"Rate sweep has 20000 samples; at most 10000 are supported"},
		},
		{
			name:     "Oversized down payment curve",
			mutate:   func(cv *ConfigValidator) { cv.DownPaymentSamples = 1000000000 },
			expected: []string{"Down payment curve has 1000000000 samples; at most 10000 are supported"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cv := baseValidator()
			tt.mutate(&cv)
			warnings := cv.ValidateAll()
			if len(warnings) != len(tt.expected) {
				t.Fatalf("ValidateAll() returned %d warnings %v, expected %d", len(warnings), warnings, len(tt.expected))
			}
			for i := range warnings {
				if warnings[i] != tt.expected[i] {
					t.Errorf("warning[%d] = %q, expected %q", i, warnings[i], tt.expected[i])
				}
			}
		})
	}
}

func TestValidateRateRangeSingleSample(t *testing.T) {
	warnings := ValidateRateRange(3.0, 3.3, 3.0, 1)
	if len(warnings) != 1 {
		t.Fatalf("expected one warning, got %v", warnings)
	}
	if !strings.Contains(warnings[0], "single sample") {
		t.Errorf("unexpected warning %q", warnings[0])
	}

	// The fixed rate is compared against the collapsed range.
	warnings = ValidateRateRange(2.8, 3.3, 3.0, 1)
	if len(warnings) != 2 {
		t.Fatalf("expected two warnings, got %v", warnings)
	}
}

func TestValidateRateRangeInvertedIsLeftToCalculator(t *testing.T) {
	if warnings := ValidateRateRange(3.3, 2.8, 3.0, 10); len(warnings) != 0 {
		t.Errorf("expected no warnings for inverted range, got %v", warnings)
	}
}
