// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"venvoke-cli/internal/config"
	"venvoke-cli/internal/issue"
	"venvoke-cli/internal/manifest"
	"venvoke-cli/internal/pyenv"

	"github.com/spf13/cobra"
)

var (
	doctorExplain bool

	// doctorCmd checks the workspace for problems
	doctorCmd = &cobra.Command{
		Use:   "doctor",
		Short: "Check the workspace for provisioning and build problems",
		Long: `Check the workspace for provisioning and build problems.

Doctor verifies the pieces each venvoke command depends on: a Python
interpreter on PATH, the virtual environment, the dependency manifest,
and the build entry point. It exits non-zero when any check fails.`,
		RunE: runDoctor,
	}
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorExplain, "explain", false, "print remediation guidance for failed checks")
}

// doctorCheck is one verification. run returns the issue describing the
// failure alongside the error; the issue id is meaningless on success.
type doctorCheck struct {
	name string
	run  func(conf *config.Config) (issue.Id, error)
}

func doctorChecks() []doctorCheck {
	return []doctorCheck{
		{
			name: "Python interpreter",
			run: func(conf *config.Config) (issue.Id, error) {
				path, err := pyenv.FindInterpreter(conf.Python)
				if err != nil {
					return issue.InterpreterNotFoundId, err
				}
				logger.Debug("interpreter found", "path", path)
				return issue.InterpreterNotFoundId, nil
			},
		},
		{
			name: "virtual environment",
			run: func(conf *config.Config) (issue.Id, error) {
				venv, err := pyenv.New(conf.VenvDir)
				if err != nil {
					return issue.VenvNotFoundId, err
				}
				if !venv.Exists() {
					return issue.VenvNotFoundId, venv.Validate()
				}
				// The directory is there, so a failure means it is not
				// actually a venv.
				return issue.VenvInvalidId, venv.Validate()
			},
		},
		{
			name: "dependency manifest",
			run: func(conf *config.Config) (issue.Id, error) {
				f, err := manifest.Load(conf.Requirements)
				if err != nil {
					return issue.ManifestNotFoundId, err
				}
				if !f.Valid() {
					return issue.ManifestInvalidId, fmt.Errorf("%d invalid line(s), first: %s",
						len(f.Problems), f.Problems[0].Error())
				}
				logger.Debug("manifest ok", "requirements", len(f.Requirements))
				return issue.ManifestInvalidId, nil
			},
		},
		{
			name: "build entry point",
			run: func(conf *config.Config) (issue.Id, error) {
				info, err := os.Stat(conf.Entry)
				if err != nil {
					return issue.EntryPointNotFoundId, err
				}
				if info.IsDir() {
					return issue.EntryPointNotFoundId, fmt.Errorf("%s is a directory", conf.Entry)
				}
				return issue.EntryPointNotFoundId, nil
			},
		},
	}
}

func runDoctor(cmd *cobra.Command, args []string) error {
	conf := effectiveConfig()

	failed := 0
	for _, check := range doctorChecks() {
		id, err := check.run(conf)
		if err == nil {
			fmt.Printf("%s %s\n", SuccessStyle.Render("✓"), check.name)
			continue
		}

		failed++
		fmt.Printf("%s %s: %v\n", ErrorStyle.Render("✗"), check.name, err)

		if doctorExplain {
			if rendered, renderErr := issue.Get(id).Render("auto"); renderErr == nil {
				fmt.Println(rendered)
			}
		}
	}

	if failed > 0 {
		fmt.Println()
		fmt.Printf("%d check(s) failed", failed)
		if !doctorExplain {
			fmt.Print(SubtitleStyle.Render("  (re-run with --explain for guidance)"))
		}
		fmt.Println()
		return &ExitError{Code: 1}
	}

	fmt.Println()
	fmt.Printf("%s All checks passed\n", SuccessStyle.Render("✓"))
	return nil
}
