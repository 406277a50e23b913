package testutil

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

func TestWithin(t *testing.T) {
	tests := []struct {
		name      string
		expected  float64
		actual    float64
		tolerance float64
		want      bool
	}{
		{"Equal values", 100, 100, 0, true},
		{"Inside tolerance", 100, 100.4, 0.5, true},
		{"Outside tolerance", 100, 101, 0.5, false},
		{"Below expected", 100, 99.6, 0.5, true},
		{"NaN never matches", 100, math.NaN(), 1e9, false},
		{"Infinity never matches", 100, math.Inf(1), 1e9, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Within(tt.expected, tt.actual, tt.tolerance); got != tt.want {
				t.Errorf("Within(%v, %v, %v) = %v, want %v", tt.expected, tt.actual, tt.tolerance, got, tt.want)
			}
		})
	}
}

func TestAssertWithinPasses(t *testing.T) {
	AssertWithin(t, "exact", 375000, 375000, 0)
	AssertWithin(t, "close", 316252.5, 316252.51, 0.05)
}

func TestAssertErrorIsPasses(t *testing.T) {
	sentinel := errors.New("sentinel")
	AssertErrorIs(t, sentinel, sentinel)
	AssertErrorIs(t, fmt.Errorf("context: %w", sentinel), sentinel)
}
