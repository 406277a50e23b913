// Package analysis defines the affordability report and assembles it from a
// configuration: the rate sweep, the fixed-rate ceiling, the down payment
// curve, the full-financing scenario and the price checks.
package analysis

import (
	"context"
	"fmt"

	"github.com/iwvelando/mortgage-affordability/internal/config"
	"github.com/iwvelando/mortgage-affordability/internal/metrics"
	"github.com/iwvelando/mortgage-affordability/internal/tracing"
	"github.com/iwvelando/mortgage-affordability/pkg/affordability"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Analysis holds every figure derived from one configuration.
type Analysis struct {
	Inputs           affordability.Inputs             `json:"inputs"`
	DownPaymentRatio float64                          `json:"downPaymentRatio"`
	RateMin          float64                          `json:"rateMin"`
	RateMax          float64                          `json:"rateMax"`
	Sweep            []affordability.RatePoint        `json:"sweep"`
	Fixed            affordability.Result             `json:"fixed"`
	DownPaymentCurve []affordability.DownPaymentPoint `json:"downPaymentCurve"`
	MaxDownPayment   float64                          `json:"maxDownPayment"`
	DownPaymentLimit *float64                         `json:"downPaymentLimit,omitempty"` // nil when the loan covers the whole price
	FullFinancing    affordability.Result             `json:"fullFinancing"`
	Prices           []affordability.PriceEvaluation  `json:"prices"`
	Warnings         []string                         `json:"warnings,omitempty"`
	CurrencySymbol   string                           `json:"currencySymbol"`
	Chart            config.ChartStyle                `json:"chart"`
}

// Build computes the full analysis for conf.
func Build(ctx context.Context, logger *zap.Logger, conf config.Configuration) (*Analysis, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, span := tracing.Tracer().Start(ctx, "analysis.Build")
	defer span.End()

	in := conf.Inputs()
	span.SetAttributes(
		attribute.Float64("borrower.monthly_net_income", in.MonthlyNetIncome),
		attribute.Int("borrower.loan_term_years", in.LoanTermYears),
		attribute.Float64("borrower.loan_to_value_ratio", in.LoanToValueRatio),
		attribute.Float64("rates.fixed", in.AnnualInterestRatePercent),
	)

	result := &Analysis{
		Inputs:           in,
		DownPaymentRatio: in.DownPaymentRatio(),
		RateMin:          conf.Rates.Min,
		RateMax:          conf.Rates.Max,
		MaxDownPayment:   conf.DownPayment.Maximum,
		Warnings:         conf.ValidateConfiguration(),
		CurrencySymbol:   conf.Output.CurrencySymbol,
		Chart:            conf.Chart,
	}

	err := observe(ctx, "calculate", func() (err error) {
		result.Fixed, err = affordability.Calculate(in)
		return err
	})
	if err != nil {
		return fail(span, "fixed-rate analysis", err)
	}
	logger.Debug(fmt.Sprintf("at %.2f%% the maximum loan is %.2f for a property of %.2f",
		in.AnnualInterestRatePercent, result.Fixed.MaxLoanPrincipal, result.Fixed.MaxPropertyValue),
		zap.String("op", "analysis.Build"),
	)

	err = observe(ctx, "sweep_by_rate", func() (err error) {
		result.Sweep, err = affordability.SweepByRate(in.MonthlyNetIncome, in.MaxInstallmentRatio, in.LoanTermYears,
			in.LoanToValueRatio, conf.Rates.Min, conf.Rates.Max, conf.Rates.Samples)
		return err
	})
	if err != nil {
		return fail(span, "rate sweep", err)
	}

	err = observe(ctx, "down_payment_curve", func() (err error) {
		result.DownPaymentCurve, err = affordability.DownPaymentCurve(result.Fixed.MaxPropertyValue,
			in.LoanToValueRatio, conf.DownPayment.Samples)
		return err
	})
	if err != nil {
		return fail(span, "down payment curve", err)
	}

	if in.LoanToValueRatio < 1 {
		var limit float64
		err = observe(ctx, "property_value_for_down_payment", func() (err error) {
			limit, err = affordability.PropertyValueForDownPayment(conf.DownPayment.Maximum, in.LoanToValueRatio)
			return err
		})
		if err != nil {
			return fail(span, "down payment limit", err)
		}
		result.DownPaymentLimit = &limit
	} else {
		logger.Debug("loan covers the whole price, skipping down payment limit",
			zap.String("op", "analysis.Build"),
		)
	}

	err = observe(ctx, "full_financing", func() (err error) {
		result.FullFinancing, err = affordability.FullFinancing(in.MonthlyNetIncome, in.MaxInstallmentRatio,
			in.AnnualInterestRatePercent, in.LoanTermYears)
		return err
	})
	if err != nil {
		return fail(span, "full financing scenario", err)
	}

	result.Prices = make([]affordability.PriceEvaluation, 0, len(conf.Prices))
	for _, price := range conf.Prices {
		var eval affordability.PriceEvaluation
		err = observe(ctx, "evaluate_price", func() (err error) {
			eval, err = affordability.EvaluatePrice(price, in.LoanToValueRatio, in.AnnualInterestRatePercent,
				in.LoanTermYears, in.MaxInstallment())
			return err
		})
		if err != nil {
			return fail(span, fmt.Sprintf("price %.2f", price), err)
		}
		if !eval.IsSustainable {
			logger.Debug(fmt.Sprintf("installment %.2f for price %.2f exceeds the sustainable %.2f",
				eval.MonthlyInstallment, price, eval.MaxSustainableInstallment),
				zap.String("op", "analysis.Build"),
			)
		}
		result.Prices = append(result.Prices, eval)
	}

	logger.Debug("analysis complete",
		zap.String("op", "analysis.Build"),
		zap.Int("sweepSamples", len(result.Sweep)),
		zap.Int("prices", len(result.Prices)),
		zap.Int("warnings", len(result.Warnings)),
	)

	return result, nil
}

// observe runs one calculator operation inside its own span and records the
// outcome.
func observe(ctx context.Context, operation string, fn func() error) error {
	_, span := tracing.Tracer().Start(ctx, "affordability."+operation)
	defer span.End()

	err := fn()
	metrics.ObserveCalculation(operation, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func fail(span trace.Span, stage string, err error) (*Analysis, error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, stage)
	return nil, fmt.Errorf("%s: %w", stage, err)
}
