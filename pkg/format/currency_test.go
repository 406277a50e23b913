package format

import "testing"

func TestCurrency(t *testing.T) {
	tests := []struct {
		name     string
		symbol   string
		amount   float64
		expected string
	}{
		{"Euro thousands", "€", 316252.5087, "€ 316,252.51"},
		{"Dollar millions", "$", 1234567.891, "$ 1,234,567.89"},
		{"Small amount", "€", 5.5, "€ 5.50"},
		{"Negative amount", "€", -1234.5, "-€ 1,234.50"},
		{"Negative rounds to zero", "€", -0.001, "€ 0.00"},
		{"Default symbol", "", 60000, "€ 60,000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Currency(tt.symbol, tt.amount); got != tt.expected {
				t.Errorf("Currency(%q, %v) = %q, expected %q", tt.symbol, tt.amount, got, tt.expected)
			}
		})
	}
}

func TestWholeCurrency(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{316252.5087, "€ 316,253"},
		{395315.6358, "€ 395,316"},
		{999.4, "€ 999"},
		{0, "€ 0"},
	}

	for _, tt := range tests {
		if got := WholeCurrency("€", tt.amount); got != tt.expected {
			t.Errorf("WholeCurrency(%v) = %q, expected %q", tt.amount, got, tt.expected)
		}
	}
}

func TestNumericCurrency(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{1011.8496, "1,011.85"},
		{-2500, "-2,500.00"},
		{0.004, "0.00"},
		{123, "123.00"},
	}

	for _, tt := range tests {
		if got := NumericCurrency(tt.amount); got != tt.expected {
			t.Errorf("NumericCurrency(%v) = %q, expected %q", tt.amount, got, tt.expected)
		}
	}
}

func TestPercentAndRate(t *testing.T) {
	if got := Percent(0.8); got != "80%" {
		t.Errorf("Percent(0.8) = %q, expected 80%%", got)
	}
	if got := Percent(1.0 / 3.0); got != "33%" {
		t.Errorf("Percent(1/3) = %q, expected 33%%", got)
	}
	if got := Rate(3); got != "3.00%" {
		t.Errorf("Rate(3) = %q, expected 3.00%%", got)
	}
	if got := Rate(2.8); got != "2.80%" {
		t.Errorf("Rate(2.8) = %q, expected 2.80%%", got)
	}
}
