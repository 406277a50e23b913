// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/mortgage-affordability/pkg/affordability"
	"github.com/iwvelando/mortgage-affordability/pkg/constants"
	"github.com/iwvelando/mortgage-affordability/pkg/validation"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for mortgage-affordability.
type Configuration struct {
	Borrower    Borrower      `yaml:"borrower" json:"borrower"`
	Rates       Rates         `yaml:"rates" json:"rates"`
	DownPayment DownPayment   `yaml:"downPayment" json:"downPayment"`
	Prices      []float64     `yaml:"prices" json:"prices"`
	Chart       ChartStyle    `yaml:"chart" json:"chart"`
	Logging     LoggingConfig `yaml:"logging,omitempty" json:"logging,omitempty"`
	Output      OutputConfig  `yaml:"output,omitempty" json:"output,omitempty"`
}

// Borrower holds the income and financing parameters.
type Borrower struct {
	MonthlyNetIncome    float64 `yaml:"monthlyNetIncome" json:"monthlyNetIncome"`
	LoanTermYears       int     `yaml:"loanTermYears" json:"loanTermYears"`
	MaxInstallmentRatio float64 `yaml:"maxInstallmentRatio" json:"maxInstallmentRatio"` // share of income, (0,1]
	LoanToValueRatio    float64 `yaml:"loanToValueRatio" json:"loanToValueRatio"`       // share of price financed, (0,1]
}

// Rates holds the interest rate sweep and the fixed rate of the detailed
// analysis. All values are annual percentages.
type Rates struct {
	Min     float64 `yaml:"min" json:"min"`
	Max     float64 `yaml:"max" json:"max"`
	Fixed   float64 `yaml:"fixed" json:"fixed"`
	Samples int     `yaml:"samples" json:"samples"`
}

// DownPayment holds the down payment the borrower can put in.
type DownPayment struct {
	Maximum float64 `yaml:"maximum" json:"maximum"`
	Samples int     `yaml:"samples" json:"samples"`
}

// ChartStyle is the rendering configuration handed to chart collaborators.
// It is loaded once and passed by value.
type ChartStyle struct {
	LoanColor        string  `yaml:"loanColor" json:"loanColor"`
	PropertyColor    string  `yaml:"propertyColor" json:"propertyColor"`
	DownPaymentColor string  `yaml:"downPaymentColor" json:"downPaymentColor"`
	LineWidth        float64 `yaml:"lineWidth" json:"lineWidth"`
	Ticks            int     `yaml:"ticks" json:"ticks"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" json:"level,omitempty"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" json:"format,omitempty"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" json:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format         string `yaml:"format,omitempty" json:"format,omitempty"` // pretty, csv, json
	CurrencySymbol string `yaml:"currencySymbol,omitempty" json:"currencySymbol,omitempty"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Values from a .env file or AFFORD_* environment
// variables override the file.
func LoadConfiguration(configPath string) (*Configuration, error) {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	v := newViper()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML (or JSON) configuration from r.
// Environment overrides are not applied.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return decode(v)
}

// Default returns the configuration used when no file is given.
func Default() *Configuration {
	conf, err := decode(newViper())
	if err != nil {
		// Defaults always decode.
		panic(err)
	}
	return conf
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("borrower.monthlyNetIncome", constants.DefaultMonthlyNetIncome)
	v.SetDefault("borrower.loanTermYears", constants.DefaultLoanTermYears)
	v.SetDefault("borrower.maxInstallmentRatio", constants.DefaultMaxInstallmentRatio)
	v.SetDefault("borrower.loanToValueRatio", constants.DefaultLoanToValueRatio)

	v.SetDefault("rates.min", constants.DefaultRateMin)
	v.SetDefault("rates.max", constants.DefaultRateMax)
	v.SetDefault("rates.fixed", constants.DefaultFixedRate)
	v.SetDefault("rates.samples", constants.DefaultSweepSamples)

	v.SetDefault("downPayment.maximum", constants.DefaultMaxDownPayment)
	v.SetDefault("downPayment.samples", constants.DefaultDownPaymentSamples)

	v.SetDefault("prices", []float64{constants.DefaultEvaluatedPrice})

	v.SetDefault("chart.loanColor", constants.DefaultLoanColor)
	v.SetDefault("chart.propertyColor", constants.DefaultPropertyColor)
	v.SetDefault("chart.downPaymentColor", constants.DefaultDownPaymentColor)
	v.SetDefault("chart.lineWidth", constants.DefaultLineWidth)
	v.SetDefault("chart.ticks", constants.DefaultTickCount)

	v.SetDefault("output.currencySymbol", constants.DefaultCurrencySymbol)

	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// Inputs returns the calculator inputs at the fixed analysis rate.
func (c *Configuration) Inputs() affordability.Inputs {
	return affordability.Inputs{
		MonthlyNetIncome:          c.Borrower.MonthlyNetIncome,
		LoanTermYears:             c.Borrower.LoanTermYears,
		MaxInstallmentRatio:       c.Borrower.MaxInstallmentRatio,
		AnnualInterestRatePercent: c.Rates.Fixed,
		LoanToValueRatio:          c.Borrower.LoanToValueRatio,
	}
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	validator := validation.ConfigValidator{
		MaxInstallmentRatio: c.Borrower.MaxInstallmentRatio,
		LoanToValueRatio:    c.Borrower.LoanToValueRatio,
		RateMin:             c.Rates.Min,
		RateMax:             c.Rates.Max,
		FixedRate:           c.Rates.Fixed,
		SweepSamples:        c.Rates.Samples,
		DownPaymentSamples:  c.DownPayment.Samples,
		MaxDownPayment:      c.DownPayment.Maximum,
		CurrencySymbol:      c.Output.CurrencySymbol,
	}
	return validator.ValidateAll()
}
