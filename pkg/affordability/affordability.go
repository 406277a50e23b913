// Package affordability answers "how much house can I afford": the largest
// loan a monthly installment budget can carry, the property value that loan
// finances, and whether a given price is sustainable.
//
// Every exported function is a pure computation. Inputs are validated up
// front and rejected with an error wrapping ErrInvalidParameter; nothing is
// clamped and no NaN or infinity is ever returned.
package affordability

import (
	"fmt"

	"github.com/iwvelando/mortgage-affordability/pkg/constants"
	"github.com/iwvelando/mortgage-affordability/pkg/loans"
	"github.com/iwvelando/mortgage-affordability/pkg/mathutil"
)

// Inputs holds the borrower parameters of a single affordability question.
type Inputs struct {
	MonthlyNetIncome          float64 `json:"monthlyNetIncome"`
	LoanTermYears             int     `json:"loanTermYears"`
	MaxInstallmentRatio       float64 `json:"maxInstallmentRatio"`
	AnnualInterestRatePercent float64 `json:"annualInterestRatePercent"`
	LoanToValueRatio          float64 `json:"loanToValueRatio"`
}

// Result is the affordability ceiling at one interest rate.
type Result struct {
	AnnualInterestRatePercent float64 `json:"annualInterestRatePercent"`
	MaxInstallment            float64 `json:"maxInstallment"`
	MaxLoanPrincipal          float64 `json:"maxLoanPrincipal"`
	MaxPropertyValue          float64 `json:"maxPropertyValue"`
}

// RatePoint is one sample of a rate sweep.
type RatePoint struct {
	AnnualInterestRatePercent float64 `json:"annualInterestRatePercent"`
	MaxLoanPrincipal          float64 `json:"maxLoanPrincipal"`
	MaxPropertyValue          float64 `json:"maxPropertyValue"`
}

// PriceEvaluation is the verdict for one candidate property price.
type PriceEvaluation struct {
	Price                     float64 `json:"price"`
	RequiredDownPayment       float64 `json:"requiredDownPayment"`
	RequiredLoanAmount        float64 `json:"requiredLoanAmount"`
	MonthlyInstallment        float64 `json:"monthlyInstallment"`
	MaxSustainableInstallment float64 `json:"maxSustainableInstallment"`
	IsSustainable             bool    `json:"isSustainable"`
}

// DownPaymentPoint is one sample of the down payment curve.
type DownPaymentPoint struct {
	PropertyValue       float64 `json:"propertyValue"`
	RequiredDownPayment float64 `json:"requiredDownPayment"`
}

// Validate checks every field of the inputs.
func (in Inputs) Validate() error {
	if err := validateBudget(in.MonthlyNetIncome, in.MaxInstallmentRatio, in.LoanTermYears); err != nil {
		return err
	}
	if err := requireNonNegative("annualInterestRatePercent", in.AnnualInterestRatePercent); err != nil {
		return err
	}
	return requireFraction("loanToValueRatio", in.LoanToValueRatio)
}

// MaxInstallment is the largest monthly payment the income allows.
func (in Inputs) MaxInstallment() float64 {
	return in.MonthlyNetIncome * in.MaxInstallmentRatio
}

// DownPaymentRatio is the share of the price not covered by the loan.
func (in Inputs) DownPaymentRatio() float64 {
	return 1 - in.LoanToValueRatio
}

// Calculate returns the maximum loan and property value for the inputs.
func Calculate(in Inputs) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, err
	}

	maxLoan, err := MaxLoan(in.MonthlyNetIncome, in.MaxInstallmentRatio, in.AnnualInterestRatePercent, in.LoanTermYears)
	if err != nil {
		return Result{}, err
	}
	maxValue, err := MaxPropertyValue(maxLoan, in.LoanToValueRatio)
	if err != nil {
		return Result{}, err
	}

	return Result{
		AnnualInterestRatePercent: in.AnnualInterestRatePercent,
		MaxInstallment:            in.MaxInstallment(),
		MaxLoanPrincipal:          maxLoan,
		MaxPropertyValue:          maxValue,
	}, nil
}

// MaxLoan returns the principal that an installment of income*installmentRatio
// amortizes over termYears at annualRatePercent. A zero rate yields
// installment * months.
func MaxLoan(income, installmentRatio, annualRatePercent float64, termYears int) (float64, error) {
	if err := validateBudget(income, installmentRatio, termYears); err != nil {
		return 0, err
	}
	if err := requireNonNegative("annualInterestRatePercent", annualRatePercent); err != nil {
		return 0, err
	}

	maxInstallment := income * installmentRatio
	maxLoan := loans.PresentValue(maxInstallment, annualRatePercent, loans.NumberOfPayments(termYears))
	if err := requireFiniteResult("monthlyNetIncome", income, maxLoan); err != nil {
		return 0, err
	}
	return maxLoan, nil
}

// MaxPropertyValue returns the price a loan finances at the given
// loan-to-value ratio.
func MaxPropertyValue(maxLoanPrincipal, loanToValueRatio float64) (float64, error) {
	if err := requireNonNegative("maxLoanPrincipal", maxLoanPrincipal); err != nil {
		return 0, err
	}
	if err := requireFraction("loanToValueRatio", loanToValueRatio); err != nil {
		return 0, err
	}
	value := maxLoanPrincipal / loanToValueRatio
	if err := requireFiniteResult("maxLoanPrincipal", maxLoanPrincipal, value); err != nil {
		return 0, err
	}
	return value, nil
}

// FullFinancing is the hypothetical case where the lender covers the whole
// price, so the maximum property value equals the maximum loan.
func FullFinancing(income, installmentRatio, annualRatePercent float64, termYears int) (Result, error) {
	return Calculate(Inputs{
		MonthlyNetIncome:          income,
		LoanTermYears:             termYears,
		MaxInstallmentRatio:       installmentRatio,
		AnnualInterestRatePercent: annualRatePercent,
		LoanToValueRatio:          1,
	})
}

// EvaluatePrice splits a candidate price into down payment and loan, computes
// the installment of that loan, and compares it to maxInstallment. A tie is
// sustainable.
func EvaluatePrice(price, loanToValueRatio, annualRatePercent float64, termYears int, maxInstallment float64) (PriceEvaluation, error) {
	if err := requirePositive("price", price); err != nil {
		return PriceEvaluation{}, err
	}
	if err := requireFraction("loanToValueRatio", loanToValueRatio); err != nil {
		return PriceEvaluation{}, err
	}
	if err := requireNonNegative("annualInterestRatePercent", annualRatePercent); err != nil {
		return PriceEvaluation{}, err
	}
	if err := requireTerm(termYears); err != nil {
		return PriceEvaluation{}, err
	}
	if err := requireNonNegative("maxInstallment", maxInstallment); err != nil {
		return PriceEvaluation{}, err
	}

	loanAmount := loanToValueRatio * price
	installment := loans.CalculateMonthlyPayment(loanAmount, 0, annualRatePercent, loans.NumberOfPayments(termYears))
	if err := requireFiniteResult("price", price, installment); err != nil {
		return PriceEvaluation{}, err
	}

	return PriceEvaluation{
		Price:                     price,
		RequiredDownPayment:       (1 - loanToValueRatio) * price,
		RequiredLoanAmount:        loanAmount,
		MonthlyInstallment:        installment,
		MaxSustainableInstallment: maxInstallment,
		IsSustainable:             installment <= maxInstallment,
	}, nil
}

// PropertyValueForDownPayment returns the most expensive property a down
// payment budget covers. It fails at a loan-to-value ratio of 1, where no down
// payment is required and the value is unbounded.
func PropertyValueForDownPayment(maxDownPayment, loanToValueRatio float64) (float64, error) {
	if err := requireNonNegative("maxDownPayment", maxDownPayment); err != nil {
		return 0, err
	}
	if err := requireFraction("loanToValueRatio", loanToValueRatio); err != nil {
		return 0, err
	}
	downPaymentRatio := 1 - loanToValueRatio
	if downPaymentRatio <= 0 {
		return 0, invalid("loanToValueRatio", loanToValueRatio, "leaves no down payment share")
	}
	value := maxDownPayment / downPaymentRatio
	if err := requireFiniteResult("maxDownPayment", maxDownPayment, value); err != nil {
		return 0, err
	}
	return value, nil
}

func validateBudget(income, installmentRatio float64, termYears int) error {
	if err := requirePositive("monthlyNetIncome", income); err != nil {
		return err
	}
	if err := requireFraction("maxInstallmentRatio", installmentRatio); err != nil {
		return err
	}
	return requireTerm(termYears)
}

func requirePositive(name string, value float64) error {
	if !mathutil.IsFinite(value) {
		return invalid(name, value, "is not a finite number")
	}
	if value <= 0 {
		return invalid(name, value, "must be greater than 0")
	}
	return nil
}

func requireNonNegative(name string, value float64) error {
	if !mathutil.IsFinite(value) {
		return invalid(name, value, "is not a finite number")
	}
	if value < 0 {
		return invalid(name, value, "must not be negative")
	}
	return nil
}

func requireFraction(name string, value float64) error {
	if !mathutil.IsFinite(value) {
		return invalid(name, value, "is not a finite number")
	}
	if value <= 0 || value > 1 {
		return invalid(name, value, "must be in (0, 1]")
	}
	return nil
}

// requireTerm also caps the term so the month count cannot overflow.
func requireTerm(termYears int) error {
	if termYears <= 0 {
		return invalid("loanTermYears", float64(termYears), "must be greater than 0")
	}
	if termYears > constants.MaxLoanTermYears {
		return invalid("loanTermYears", float64(termYears), fmt.Sprintf("must be at most %d", constants.MaxLoanTermYears))
	}
	return nil
}

func requireSampleCount(sampleCount int) error {
	if sampleCount < 1 {
		return invalid("sampleCount", float64(sampleCount), "must be at least 1")
	}
	if sampleCount > constants.MaxSamples {
		return invalid("sampleCount", float64(sampleCount), fmt.Sprintf("must be at most %d", constants.MaxSamples))
	}
	return nil
}

// requireFiniteResult rejects an input that is finite but large enough for
// the computed result to overflow.
func requireFiniteResult(name string, input, result float64) error {
	if !mathutil.IsFinite(result) {
		return invalid(name, input, "is too large to compute a finite result")
	}
	return nil
}
