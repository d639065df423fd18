// SPDX-License-Identifier: MPL-2.0

// Package runtime provides the build invocation runtime interface and
// implementations: the venv runtime that runs the external entry point with
// the provisioned environment activated, and the hook runtime that runs
// configured shell hooks in-process.
package runtime

import (
	"context"
	"io"

	"venvoke-cli/internal/pyenv"
)

type (
	// ExecutionContext contains all information needed to run the entry point
	// or a hook.
	ExecutionContext struct {
		// Context is the Go context for cancellation.
		Context context.Context
		// Venv is the provisioned environment to activate.
		Venv pyenv.Venv
		// Entry is the path of the external build entry point. It is invoked
		// with no arguments; its behavior is opaque to venvoke.
		Entry string
		// Script is the shell snippet to run (hook runtime only).
		Script string
		// WorkDir overrides the working directory.
		WorkDir string
		// ExtraEnv contains additional environment variables, set after
		// activation so they win over inherited values.
		ExtraEnv map[string]string
		// Stdout is where to write standard output.
		Stdout io.Writer
		// Stderr is where to write standard error.
		Stderr io.Writer
		// Stdin is where to read standard input.
		Stdin io.Reader
		// Verbose enables verbose output.
		Verbose bool
	}

	// Result contains the result of an invocation.
	Result struct {
		// ExitCode is the exit code of the invocation.
		ExitCode ExitCode
		// Error contains any error that occurred before or instead of a
		// normal child exit.
		Error error
		// Output contains captured stdout (if captured).
		Output string
		// ErrOutput contains captured stderr (if captured).
		ErrOutput string
	}

	// Runtime defines the interface for build invocation.
	Runtime interface {
		// Name returns the runtime name.
		Name() string
		// Execute runs the context's work in this runtime.
		Execute(ctx *ExecutionContext) *Result
		// Available returns whether this runtime is usable on the current system.
		Available() bool
		// Validate checks if the context can be executed with this runtime.
		Validate(ctx *ExecutionContext) error
	}

	// CapturingRuntime is implemented by runtimes that support capturing output.
	CapturingRuntime interface {
		// ExecuteCapture runs the context's work and captures stdout/stderr.
		ExecuteCapture(ctx *ExecutionContext) *Result
	}
)

// Succeeded reports whether the invocation completed with exit status 0 and
// no runtime-level error.
func (r *Result) Succeeded() bool {
	return r.Error == nil && r.ExitCode.IsSuccess()
}
