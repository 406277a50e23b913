package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/iwvelando/mortgage-affordability/internal/analysis"
	"github.com/iwvelando/mortgage-affordability/internal/config"
	"github.com/iwvelando/mortgage-affordability/internal/logging"
	"github.com/iwvelando/mortgage-affordability/pkg/constants"
	"github.com/iwvelando/mortgage-affordability/pkg/output"
	"github.com/iwvelando/mortgage-affordability/pkg/validation"
	"go.uber.org/zap"
)

// priceList collects repeated -price flags.
type priceList []float64

func (p *priceList) String() string {
	values := make([]string, len(*p))
	for i, v := range *p {
		values[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(values, ",")
}

func (p *priceList) Set(value string) error {
	for _, field := range strings.Split(value, ",") {
		price, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return fmt.Errorf("invalid price %q: %w", field, err)
		}
		*p = append(*p, price)
	}
	return nil
}

// resolveOutputFormat applies the CLI override on top of the configured format.
func resolveOutputFormat(configured, override string) string {
	if override != "" {
		return override
	}
	if configured != "" {
		return configured
	}
	return constants.OutputFormatPretty
}

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	var prices priceList
	flag.Var(&prices, "price", "property price to check; repeat or comma-separate for several (replaces configured prices)")
	flag.Parse()

	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	// Initialize logging based on config and CLI override
	logger, err := logging.NewLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	outputFormat := resolveOutputFormat(conf.Output.Format, *outputFormatFlag)
	err = validation.ValidateOutputFormat(outputFormat)
	if err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	if len(prices) > 0 {
		conf.Prices = prices
	}

	// Build the analysis; configuration warnings ride along with it.
	result, err := analysis.Build(context.Background(), logger, *conf)
	if err != nil {
		logger.Fatal("failed to compute affordability",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	for _, warning := range result.Warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	if err := output.Write(os.Stdout, outputFormat, result); err != nil {
		logger.Fatal("failed to write output",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
