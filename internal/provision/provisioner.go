// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"context"
	"fmt"
	"os"
	"strings"

	"venvoke-cli/internal/issue"
	"venvoke-cli/internal/manifest"
	"venvoke-cli/internal/pyenv"
	"venvoke-cli/internal/runtime"

	"github.com/charmbracelet/log"
)

// Provisioning steps, in execution order.
const (
	StepCreateVenv  Step = "create-venv"
	StepUpgradePip  Step = "upgrade-pip"
	StepInstallDeps Step = "install-deps"
)

type (
	// Step identifies one provisioning step.
	Step string

	// StepError reports a failed provisioning step. ExitCode carries the
	// failing tool's exit status so the CLI can propagate it.
	StepError struct {
		Step     Step
		ExitCode runtime.ExitCode
		Cause    error
	}

	// Options configures a provisioning run.
	Options struct {
		// Interpreter is the Python interpreter to bootstrap with; empty
		// means platform default discovery.
		Interpreter string
		// VenvDir is the environment directory (default pyenv.DefaultDir).
		VenvDir string
		// Requirements is the dependency manifest path (default
		// manifest.DefaultPath).
		Requirements string
		// Force removes an existing environment directory first.
		Force bool
		// SkipPipUpgrade leaves the bundled pip as-is.
		SkipPipUpgrade bool
	}

	// Result contains the output of a provisioning run.
	Result struct {
		// Venv is the populated environment.
		Venv pyenv.Venv
		// Interpreter is the resolved bootstrap interpreter path.
		Interpreter string
		// Steps lists the steps that completed, in order.
		Steps []Step
	}

	// Provisioner prepares a virtual environment with the declared
	// dependencies installed.
	Provisioner interface {
		Provision(ctx context.Context, opts Options) (*Result, error)
	}

	// VenvProvisioner implements Provisioner with `python -m venv` and
	// `python -m pip`, exactly the tool invocations the shell workflow used.
	VenvProvisioner struct {
		commander Commander
		logger    *log.Logger
	}
)

// Error implements the error interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("step %s failed: %v", e.Step, e.Cause)
}

// Unwrap returns the underlying tool error.
func (e *StepError) Unwrap() error { return e.Cause }

// NewVenvProvisioner creates a VenvProvisioner. A nil commander gets the
// production ExecCommander; a nil logger gets the package default.
func NewVenvProvisioner(commander Commander, logger *log.Logger) *VenvProvisioner {
	if commander == nil {
		commander = &ExecCommander{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &VenvProvisioner{commander: commander, logger: logger}
}

// Provision runs the full provisioning sequence. The first failing step
// aborts the run; the returned Result (also on error) records how far it got.
func (p *VenvProvisioner) Provision(ctx context.Context, opts Options) (*Result, error) {
	if opts.VenvDir == "" {
		opts.VenvDir = pyenv.DefaultDir
	}
	if opts.Requirements == "" {
		opts.Requirements = manifest.DefaultPath
	}

	result := &Result{}

	interpreter, err := pyenv.FindInterpreter(opts.Interpreter)
	if err != nil {
		return result, issue.NewErrorContext().
			WithOperation("locate Python interpreter").
			WithSuggestion("Install Python 3 or set 'python' in venvoke.toml").
			Wrap(err).
			BuildError()
	}
	result.Interpreter = interpreter
	p.logger.Debug("resolved interpreter", "path", interpreter)

	if err := p.preflightManifest(opts.Requirements); err != nil {
		return result, err
	}

	venv, err := pyenv.New(opts.VenvDir)
	if err != nil {
		return result, err
	}
	result.Venv = venv

	if opts.Force && venv.Exists() {
		p.logger.Info("removing existing environment", "dir", venv.Dir)
		if err := os.RemoveAll(venv.Dir); err != nil {
			return result, issue.WrapWithContext(err, "remove existing environment", venv.Dir)
		}
	}

	steps := []struct {
		step Step
		skip bool
		name string
		args []string
	}{
		{StepCreateVenv, false, interpreter, []string{"-m", "venv", venv.Dir}},
		{StepUpgradePip, opts.SkipPipUpgrade, venv.Python(), []string{"-m", "pip", "install", "--upgrade", "pip"}},
		{StepInstallDeps, false, venv.Python(), []string{"-m", "pip", "install", "-r", opts.Requirements}},
	}

	for _, s := range steps {
		if s.skip {
			p.logger.Debug("skipping step", "step", s.step)
			continue
		}

		p.logger.Info("running step", "step", s.step, "cmd", s.name, "args", strings.Join(s.args, " "))
		if err := p.commander.Run(ctx, s.name, s.args...); err != nil {
			code, _ := runtime.ExitCodeFromError(err)
			stepErr := &StepError{Step: s.step, ExitCode: code, Cause: err}
			return result, issue.NewErrorContext().
				WithOperation("provision environment").
				WithResource(venv.Dir).
				WithSuggestion("Read the tool output above for the underlying cause").
				WithSuggestion("Re-run with --force to start from a clean environment").
				Wrap(stepErr).
				BuildError()
		}
		result.Steps = append(result.Steps, s.step)
	}

	return result, nil
}

// preflightManifest rejects a missing or syntactically invalid manifest
// before any tool runs, so a doomed install never leaves a half-provisioned
// environment behind.
func (p *VenvProvisioner) preflightManifest(path string) error {
	f, err := manifest.Load(path)
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("read dependency manifest").
			WithResource(path).
			WithSuggestion("Create a requirements.txt or pass --requirements").
			Wrap(err).
			BuildError()
	}

	if !f.Valid() {
		msgs := make([]string, 0, len(f.Problems))
		for _, problem := range f.Problems {
			msgs = append(msgs, problem.Error())
		}
		return issue.NewErrorContext().
			WithOperation("validate dependency manifest").
			WithResource(path).
			WithSuggestion("Fix the reported lines, or run 'venvoke doctor' for details").
			Wrap(fmt.Errorf("%s", strings.Join(msgs, "; "))).
			BuildError()
	}

	p.logger.Debug("manifest preflight passed",
		"path", path, "requirements", len(f.Requirements))
	return nil
}
