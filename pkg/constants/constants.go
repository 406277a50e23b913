// Package constants provides shared constants for the mortgage-affordability application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01
)

// Borrower defaults, matching the values a first-time buyer is typically
// asked about.
const (
	// DefaultMonthlyNetIncome is the default monthly net income
	DefaultMonthlyNetIncome = 4000.0

	// DefaultLoanTermYears is the default mortgage term in years
	DefaultLoanTermYears = 30

	// DefaultMaxInstallmentRatio is the default share of income that may go to the installment
	DefaultMaxInstallmentRatio = 1.0 / 3.0

	// DefaultLoanToValueRatio is the default share of the property price financed by the loan
	DefaultLoanToValueRatio = 0.8

	// DefaultMaxDownPayment is the default down payment the borrower plans to put in
	DefaultMaxDownPayment = 60000.0

	// DefaultEvaluatedPrice is the default property price checked for sustainability
	DefaultEvaluatedPrice = 300000.0

	// MaxLoanTermYears is the longest mortgage term accepted
	MaxLoanTermYears = 100
)

// Interest rate defaults (percentages)
const (
	// DefaultRateMin is the lower bound of the rate sweep
	DefaultRateMin = 2.8

	// DefaultRateMax is the upper bound of the rate sweep
	DefaultRateMax = 3.3

	// DefaultFixedRate is the rate used for the detailed analysis
	DefaultFixedRate = 3.0

	// DefaultSweepSamples is the number of points in the rate sweep
	DefaultSweepSamples = 200

	// DefaultDownPaymentSamples is the number of points in the down payment curve
	DefaultDownPaymentSamples = 200

	// MaxSamples bounds the points of a rate sweep or down payment curve
	MaxSamples = 10000
)

// Chart style defaults
const (
	DefaultLoanColor        = "#7FF64D"
	DefaultPropertyColor    = "#F4D40C"
	DefaultDownPaymentColor = "#FD57E7"
	DefaultLineWidth        = 1.0
	DefaultTickCount        = 5
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"

	// DefaultCurrencySymbol is prefixed to every amount in human-readable output
	DefaultCurrencySymbol = "€"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix is the prefix for environment variable overrides (e.g. AFFORD_BORROWER_MONTHLYNETINCOME)
	EnvPrefix = "AFFORD"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML configs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultCacheTTL is how long cached analyses are kept
	DefaultCacheTTL = "10m"

	// DefaultCacheMaxEntries is how many analyses the in-memory cache holds
	DefaultCacheMaxEntries = 1000

	// DefaultServiceName is the service name reported to the tracing backend
	DefaultServiceName = "mortgage-affordability"
)
