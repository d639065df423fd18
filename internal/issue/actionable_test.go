// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name: "operation only",
			err: &ActionableError{
				Operation: "provision environment",
			},
			expected: "failed to provision environment",
		},
		{
			name: "operation with resource",
			err: &ActionableError{
				Operation: "provision environment",
				Resource:  ".venv",
			},
			expected: "failed to provision environment: .venv",
		},
		{
			name: "operation with cause",
			err: &ActionableError{
				Operation: "read dependency manifest",
				Cause:     errors.New("no such file or directory"),
			},
			expected: "failed to read dependency manifest: no such file or directory",
		},
		{
			name: "operation, resource, and cause",
			err: &ActionableError{
				Operation: "run build entry point",
				Resource:  "build_posts.py",
				Cause:     errors.New("exit status 2"),
			},
			expected: "failed to run build entry point: build_posts.py: exit status 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := WrapWithOperation(cause, "upgrade pip")

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestActionableError_Format(t *testing.T) {
	err := &ActionableError{
		Operation:   "activate environment",
		Resource:    ".venv",
		Suggestions: []string{"Run 'venvoke setup' to provision it"},
		Cause:       errors.New("missing pyvenv.cfg"),
	}

	t.Run("default output lists suggestions", func(t *testing.T) {
		out := err.Format(false)
		if !strings.Contains(out, "• Run 'venvoke setup'") {
			t.Errorf("Format(false) missing suggestion bullet:\n%s", out)
		}
		if strings.Contains(out, "Error chain") {
			t.Error("Format(false) must not include the error chain")
		}
	})

	t.Run("verbose output includes error chain", func(t *testing.T) {
		out := err.Format(true)
		if !strings.Contains(out, "Error chain:") {
			t.Errorf("Format(true) missing error chain:\n%s", out)
		}
		if !strings.Contains(out, "1. missing pyvenv.cfg") {
			t.Errorf("Format(true) should enumerate causes:\n%s", out)
		}
	})
}

func TestErrorContext_Build(t *testing.T) {
	t.Run("full context", func(t *testing.T) {
		cause := errors.New("exit status 1")
		err := NewErrorContext().
			WithOperation("install dependencies").
			WithResource("requirements.txt").
			WithSuggestions("Check the manifest for typos", "Re-run with --verbose").
			Wrap(cause).
			Build()

		if err == nil {
			t.Fatal("Build() returned nil")
		}
		if err.Operation != "install dependencies" {
			t.Errorf("Operation = %q", err.Operation)
		}
		if err.Resource != "requirements.txt" {
			t.Errorf("Resource = %q", err.Resource)
		}
		if len(err.Suggestions) != 2 {
			t.Errorf("Suggestions = %v", err.Suggestions)
		}
		if !errors.Is(err, cause) {
			t.Error("cause not preserved")
		}
	})

	t.Run("missing operation yields nil", func(t *testing.T) {
		if err := NewErrorContext().WithResource(".venv").Build(); err != nil {
			t.Errorf("Build() = %v, want nil without operation", err)
		}
	})
}

func TestWrapHelpers_NilErr(t *testing.T) {
	if WrapWithOperation(nil, "anything") != nil {
		t.Error("WrapWithOperation(nil) should return nil")
	}
	if WrapWithContext(nil, "anything", "res") != nil {
		t.Error("WrapWithContext(nil) should return nil")
	}
}
