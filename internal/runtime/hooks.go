// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// HookRuntime runs pre/post build hooks with the built-in mvdan/sh
// interpreter. Hooks see the same activated environment as the entry point,
// so `python` and `pip` inside a hook resolve to the venv's executables.
type HookRuntime struct{}

// NewHookRuntime creates a new hook runtime.
func NewHookRuntime() *HookRuntime {
	return &HookRuntime{}
}

// Name returns the runtime name.
func (r *HookRuntime) Name() string {
	return "hook"
}

// Available returns whether this runtime is available.
// The interpreter is built in, so it always is.
func (r *HookRuntime) Available() bool {
	return true
}

// Validate checks the hook script parses before anything runs.
func (r *HookRuntime) Validate(ctx *ExecutionContext) error {
	if ctx.Script == "" {
		return fmt.Errorf("hook has no script to execute")
	}
	if _, err := syntax.NewParser().Parse(strings.NewReader(ctx.Script), "hook"); err != nil {
		return fmt.Errorf("hook syntax error: %w", err)
	}
	return validateWorkDir(ctx.WorkDir)
}

// Execute runs the hook script in-process.
func (r *HookRuntime) Execute(ctx *ExecutionContext) *Result {
	return r.run(ctx, ctx.Stdout, ctx.Stderr)
}

// ExecuteCapture runs the hook script and captures its output.
func (r *HookRuntime) ExecuteCapture(ctx *ExecutionContext) *Result {
	var stdout, stderr bytes.Buffer
	result := r.run(ctx, &stdout, &stderr)
	result.Output = stdout.String()
	result.ErrOutput = stderr.String()
	return result
}

func (r *HookRuntime) run(ctx *ExecutionContext, stdout, stderr io.Writer) *Result {
	prog, err := syntax.NewParser().Parse(strings.NewReader(ctx.Script), "hook")
	if err != nil {
		return &Result{ExitCode: 1, Error: fmt.Errorf("failed to parse hook: %w", err)}
	}

	env := buildInvocationEnv(ctx)

	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(EnvToSlice(env)...)),
		interp.StdIO(ctx.Stdin, stdout, stderr),
	}
	if ctx.WorkDir != "" {
		opts = append(opts, interp.Dir(ctx.WorkDir))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return &Result{ExitCode: 1, Error: fmt.Errorf("failed to create interpreter: %w", err)}
	}

	execCtx := ctx.Context
	if execCtx == nil {
		execCtx = context.Background()
	}

	if err := runner.Run(execCtx, prog); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return &Result{ExitCode: ExitCode(exitStatus)}
		}
		return &Result{ExitCode: 1, Error: fmt.Errorf("hook execution failed: %w", err)}
	}

	return &Result{ExitCode: 0}
}
