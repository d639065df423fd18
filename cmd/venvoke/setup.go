// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"

	"venvoke-cli/internal/issue"
	"venvoke-cli/internal/provision"

	"github.com/spf13/cobra"
)

var (
	setupPython       string
	setupVenvDir      string
	setupRequirements string
	setupForce        bool
	setupSkipPip      bool

	// setupCmd provisions the virtual environment
	setupCmd = &cobra.Command{
		Use:   "setup",
		Short: "Provision the virtual environment and install dependencies",
		Long: `Provision the virtual environment and install dependencies.

This runs the classic setup sequence: create the venv, upgrade pip, then
install every requirement from the dependency manifest. The sequence is
fail-fast - the first failing step aborts provisioning with that step's
exit status.

Re-running reuses the existing environment with venv's own semantics;
pass --force to delete it and start from scratch.`,
		RunE: runSetup,
	}
)

func init() {
	setupCmd.Flags().StringVar(&setupPython, "python", "", "Python interpreter to bootstrap with (default: discover on PATH)")
	setupCmd.Flags().StringVar(&setupVenvDir, "venv", "", "environment directory (default: .venv)")
	setupCmd.Flags().StringVarP(&setupRequirements, "requirements", "r", "", "dependency manifest (default: requirements.txt)")
	setupCmd.Flags().BoolVarP(&setupForce, "force", "f", false, "remove an existing environment first")
	setupCmd.Flags().BoolVar(&setupSkipPip, "skip-pip-upgrade", false, "keep the bundled pip version")
}

func runSetup(cmd *cobra.Command, args []string) error {
	conf := effectiveConfig()

	opts := provision.Options{
		Interpreter:    conf.Python,
		VenvDir:        conf.VenvDir,
		Requirements:   conf.Requirements,
		Force:          setupForce,
		SkipPipUpgrade: setupSkipPip,
	}
	if setupPython != "" {
		opts.Interpreter = setupPython
	}
	if setupVenvDir != "" {
		opts.VenvDir = setupVenvDir
	}
	if setupRequirements != "" {
		opts.Requirements = setupRequirements
	}

	p := provision.NewVenvProvisioner(nil, logger)

	result, err := p.Provision(cmd.Context(), opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))

		// Propagate the failing tool's exit status, as the shell workflow did.
		var stepErr *provision.StepError
		if errors.As(err, &stepErr) {
			explainIssue(issue.ProvisionFailedId)
			return &ExitError{Code: stepErr.ExitCode, Err: err}
		}
		return &ExitError{Code: 1, Err: err}
	}

	fmt.Printf("%s Environment ready at %s\n",
		SuccessStyle.Render("✓"), PathStyle.Render(result.Venv.Dir))
	return nil
}
