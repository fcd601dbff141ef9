// Package test carries small assertion helpers shared by the package
// tests.
package test

import (
	"errors"
	"testing"
)

func AssertEqual[T comparable](t *testing.T, expected, actual T) bool {
	t.Helper()

	if expected != actual {
		t.Errorf(""+
			"Not equal: \n"+
			"Expected: %v\n"+
			"Actual: %v", expected, actual)
		return false
	}
	return true
}

func AssertTrue(t *testing.T, condition bool, msg string) bool {
	t.Helper()

	if !condition {
		t.Error(msg)
		return false
	}
	return true
}

func AssertNoError(t *testing.T, err error) bool {
	t.Helper()

	if err != nil {
		t.Errorf("Unexpected error: %v", err)
		return false
	}
	return true
}

func AssertErrorIs(t *testing.T, err, target error) bool {
	t.Helper()

	if !errors.Is(err, target) {
		t.Errorf("Expected error %v, got %v", target, err)
		return false
	}
	return true
}
