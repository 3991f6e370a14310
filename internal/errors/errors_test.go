package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "simple error",
			err:      errors.New("something went wrong"),
			expected: "Error: something went wrong",
		},
		{
			name:     "wrapped error",
			err:      fmt.Errorf("failed to add entry: %w", errors.New("connection refused")),
			expected: "Error: failed to add entry: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.err)
			if result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	got := Formatf("entry %s not found", "abc")
	if got != "Error: entry abc not found" {
		t.Errorf("Formatf() = %q", got)
	}
}

type opError struct {
	op  string
	err error
}

func (e *opError) Error() string { return e.op + " failed" }
func (e *opError) Unwrap() error { return e.err }

func TestAlert(t *testing.T) {
	root := errors.New("quota exceeded")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "plain", err: root, want: "quota exceeded"},
		{name: "suffix wrap", err: fmt.Errorf("narrator: %w", root), want: "narrator: quota exceeded"},
		{name: "opaque wrapper", err: &opError{op: "create entry", err: root}, want: "create entry failed (quota exceeded)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Alert(tt.err); got != tt.want {
				t.Errorf("Alert() = %q, want %q", got, tt.want)
			}
		})
	}
}
