package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorClass_String(t *testing.T) {
	tests := []struct {
		class    ErrorClass
		expected string
	}{
		{ErrorTransient, "transient"},
		{ErrorInvalid, "invalid"},
		{ErrorFatal, "fatal"},
		{ErrorClass(999), "unknown"},
	}

	for _, test := range tests {
		t.Run(test.expected, func(t *testing.T) {
			result := test.class.String()
			if result != test.expected {
				t.Errorf("expected %s, got %s", test.expected, result)
			}
		})
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"revision conflict", ErrRevisionConflict, true},
		{"connection timeout", ErrConnectionTimeout, true},
		{"no connection", ErrNoConnection, true},
		{"context deadline exceeded", context.DeadlineExceeded, true},
		{"invalid data", ErrInvalidData, false},
		{"value too large", ErrValueTooLarge, false},
		{"wrapped conflict", fmt.Errorf("cas: %w", ErrRevisionConflict), true},
		{"classified transient", &ClassifiedError{Class: ErrorTransient, Err: fmt.Errorf("test")}, true},
		{"classified fatal", &ClassifiedError{Class: ErrorFatal, Err: fmt.Errorf("test")}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := IsTransient(test.err)
			if result != test.expected {
				t.Errorf("expected %v, got %v for error: %v", test.expected, result, test.err)
			}
		})
	}
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"data corrupted", ErrDataCorrupted, true},
		{"value too large", ErrValueTooLarge, true},
		{"missing config", ErrMissingConfig, true},
		{"key not found", ErrKeyNotFound, false},
		{"classified fatal", &ClassifiedError{Class: ErrorFatal, Err: fmt.Errorf("test")}, true},
		{"classified invalid", &ClassifiedError{Class: ErrorInvalid, Err: fmt.Errorf("test")}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := IsFatal(test.err)
			if result != test.expected {
				t.Errorf("expected %v, got %v for error: %v", test.expected, result, test.err)
			}
		})
	}
}

func TestIsInvalid(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"invalid data", ErrInvalidData, true},
		{"invalid config", ErrInvalidConfig, true},
		{"key exists", ErrKeyExists, true},
		{"key not found", ErrKeyNotFound, false},
		{"classified invalid", &ClassifiedError{Class: ErrorInvalid, Err: fmt.Errorf("test")}, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := IsInvalid(test.err)
			if result != test.expected {
				t.Errorf("expected %v, got %v for error: %v", test.expected, result, test.err)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorClass
	}{
		{"fatal wins", ErrDataCorrupted, ErrorFatal},
		{"invalid", ErrInvalidConfig, ErrorInvalid},
		{"unknown defaults to transient", errors.New("mystery"), ErrorTransient},
		{"conflict is transient", ErrRevisionConflict, ErrorTransient},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Classify(test.err); got != test.expected {
				t.Errorf("expected %v, got %v", test.expected, got)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	base := errors.New("boom")
	err := Wrap(base, "KVStore", "Put", "kv write")
	if err == nil {
		t.Fatal("expected error")
	}
	expected := "KVStore.Put: kv write failed: boom"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
	if !errors.Is(err, base) {
		t.Error("wrapped error should unwrap to base")
	}
	if Wrap(nil, "a", "b", "c") != nil {
		t.Error("Wrap(nil) should be nil")
	}
}

func TestWrapClassified(t *testing.T) {
	base := errors.New("boom")

	tests := []struct {
		name  string
		wrap  func(error, string, string, string) error
		check func(error) bool
	}{
		{"transient", WrapTransient, IsTransient},
		{"invalid", WrapInvalid, IsInvalid},
		{"fatal", WrapFatal, IsFatal},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.wrap(base, "KVStore", "Update", "cas update")
			if err == nil {
				t.Fatal("expected error")
			}
			if !test.check(err) {
				t.Errorf("expected %s classification", test.name)
			}
			if !errors.Is(err, base) {
				t.Error("classified error should unwrap to base")
			}
			if !strings.Contains(err.Error(), "KVStore.Update") {
				t.Errorf("expected component context in %q", err.Error())
			}
			if test.wrap(nil, "a", "b", "c") != nil {
				t.Error("wrapping nil should be nil")
			}
		})
	}
}
