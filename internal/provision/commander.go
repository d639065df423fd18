// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"context"
	"io"
	"os"
	"os/exec"
)

// Commander runs one external tool invocation to completion. It exists so
// tests can observe and fail individual provisioning steps without spawning
// processes.
type Commander interface {
	// Run executes name with args, streaming output to the configured
	// writers, and returns the process error (an *exec.ExitError for
	// non-zero exits).
	Run(ctx context.Context, name string, args ...string) error
}

// ExecCommander is the production Commander backed by os/exec.
type ExecCommander struct {
	// Stdout receives the tool's standard output (defaults to os.Stdout).
	Stdout io.Writer
	// Stderr receives the tool's standard error (defaults to os.Stderr).
	Stderr io.Writer
}

// Run executes the tool and blocks until it exits.
func (c *ExecCommander) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)

	cmd.Stdout = c.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = c.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	return cmd.Run()
}
