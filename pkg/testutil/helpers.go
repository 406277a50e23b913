// Package testutil provides common utility functions for testing.
package testutil

import (
	"errors"
	"math"
	"testing"
)

// Within reports whether actual is a number no further than tolerance from
// expected.
func Within(expected, actual, tolerance float64) bool {
	return !math.IsNaN(actual) && math.Abs(expected-actual) <= tolerance
}

// AssertWithin fails the test when actual differs from expected by more than
// tolerance.
func AssertWithin(t testing.TB, description string, expected, actual, tolerance float64) {
	t.Helper()
	if !Within(expected, actual, tolerance) {
		t.Errorf("%s: expected %.4f, got %.4f (diff: %.4f, tolerance %.4f)",
			description, expected, actual, actual-expected, tolerance)
	}
}

// AssertErrorIs fails the test unless err matches target.
func AssertErrorIs(t testing.TB, err, target error) {
	t.Helper()
	if err == nil {
		t.Errorf("expected error matching %v, got nil", target)
		return
	}
	if !errors.Is(err, target) {
		t.Errorf("expected error matching %v, got %v", target, err)
	}
}
