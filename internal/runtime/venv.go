// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"

	"venvoke-cli/internal/issue"
)

// VenvRuntime runs the build entry point with the provisioned virtual
// environment activated. The entry point is always invoked through the
// venv's own interpreter with no arguments; its exit status is propagated
// verbatim.
type VenvRuntime struct{}

// NewVenvRuntime creates a new venv runtime.
func NewVenvRuntime() *VenvRuntime {
	return &VenvRuntime{}
}

// Name returns the runtime name.
func (r *VenvRuntime) Name() string {
	return "venv"
}

// Available returns whether this runtime is available.
// The venv runtime needs nothing beyond the environment directory itself,
// which Validate checks per invocation.
func (r *VenvRuntime) Available() bool {
	return true
}

// Validate checks that the environment is provisioned and the entry point
// exists. Invoking on a missing venv must fail immediately, before any
// child process is started.
func (r *VenvRuntime) Validate(ctx *ExecutionContext) error {
	if ctx.Entry == "" {
		return fmt.Errorf("no build entry point configured")
	}

	if !ctx.Venv.Exists() {
		return issue.NewErrorContext().
			WithOperation("activate environment").
			WithResource(ctx.Venv.Dir).
			WithSuggestion("Run 'venvoke setup' to provision it").
			Wrap(fmt.Errorf("environment directory does not exist")).
			BuildError()
	}
	if err := ctx.Venv.Validate(); err != nil {
		return issue.NewErrorContext().
			WithOperation("activate environment").
			WithResource(ctx.Venv.Dir).
			WithSuggestion("Run 'venvoke setup --force' to recreate it").
			Wrap(err).
			BuildError()
	}

	if _, err := os.Stat(ctx.Entry); err != nil {
		return issue.NewErrorContext().
			WithOperation("run build entry point").
			WithResource(ctx.Entry).
			WithSuggestion("Check the 'entry' setting in venvoke.toml or pass --entry").
			Wrap(err).
			BuildError()
	}

	return validateWorkDir(ctx.WorkDir)
}

// Execute runs the entry point inside the activated environment.
func (r *VenvRuntime) Execute(ctx *ExecutionContext) *Result {
	cmd := r.buildCmd(ctx)

	cmd.Stdout = ctx.Stdout
	cmd.Stderr = ctx.Stderr
	cmd.Stdin = ctx.Stdin

	if err := cmd.Run(); err != nil {
		if code, ok := ExitCodeFromError(err); ok {
			return &Result{ExitCode: code}
		}
		return &Result{ExitCode: 1, Error: fmt.Errorf("failed to run entry point: %w", err)}
	}

	return &Result{ExitCode: 0}
}

// ExecuteCapture runs the entry point and captures its output.
func (r *VenvRuntime) ExecuteCapture(ctx *ExecutionContext) *Result {
	cmd := r.buildCmd(ctx)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &Result{
		Output:    stdout.String(),
		ErrOutput: stderr.String(),
	}

	if err != nil {
		if code, ok := ExitCodeFromError(err); ok {
			result.ExitCode = code
		} else {
			result.ExitCode = 1
			result.Error = err
		}
	}

	return result
}

func (r *VenvRuntime) buildCmd(ctx *ExecutionContext) *exec.Cmd {
	execCtx := ctx.Context
	if execCtx == nil {
		execCtx = context.Background()
	}

	// The entry point takes no arguments; everything it needs comes from
	// the activated environment and its own conventions.
	cmd := exec.CommandContext(execCtx, ctx.Venv.Python(), ctx.Entry)

	if ctx.WorkDir != "" {
		cmd.Dir = ctx.WorkDir
	}

	cmd.Env = EnvToSlice(buildInvocationEnv(ctx))

	return cmd
}
