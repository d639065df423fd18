// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"venvoke-cli/internal/config"
	"venvoke-cli/internal/issue"
	"venvoke-cli/internal/pyenv"
	"venvoke-cli/internal/runtime"

	"github.com/spf13/cobra"
)

var (
	buildEntry   string
	buildVenvDir string
	buildWorkDir string

	// buildCmd runs the external build entry point inside the venv
	buildCmd = &cobra.Command{
		Use:   "build",
		Short: "Run the build entry point inside the provisioned environment",
		Long: `Run the build entry point inside the provisioned environment.

The entry point is an external Python script invoked with no arguments;
venvoke treats it as opaque. It runs with the virtual environment
activated (VIRTUAL_ENV set, the venv bin directory first on PATH, and
PYTHONHOME unset) and its exit status is propagated unchanged.

Configured pre_build/post_build hooks run around the entry point with the
same environment. Execution is fail-fast: a failing pre_build hook skips
the entry point, and a failing entry point skips post_build.`,
		RunE: runBuild,
	}
)

func init() {
	buildCmd.Flags().StringVar(&buildEntry, "entry", "", "build entry point (default: build_posts.py)")
	buildCmd.Flags().StringVar(&buildVenvDir, "venv", "", "environment directory (default: .venv)")
	buildCmd.Flags().StringVar(&buildWorkDir, "workdir", "", "working directory for the entry point")
}

func runBuild(cmd *cobra.Command, args []string) error {
	conf := effectiveConfig()

	entry, venvDir := buildConfigFor(conf, buildEntry, buildVenvDir)

	venv, err := pyenv.New(venvDir)
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	invocation := &runtime.ExecutionContext{
		Context:  cmd.Context(),
		Venv:     venv,
		Entry:    entry,
		WorkDir:  buildWorkDir,
		ExtraEnv: conf.Env,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Stdin:    os.Stdin,
		Verbose:  verbose,
	}

	venvRt := runtime.NewVenvRuntime()
	if err := venvRt.Validate(invocation); err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
		return &ExitError{Code: 1, Err: err}
	}

	if err := runHook(invocation, "pre_build", conf.Hooks.PreBuild); err != nil {
		return err
	}

	logger.Debug("invoking entry point", "entry", entry, "python", venv.Python())
	result := venvRt.Execute(invocation)
	if result.Error != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(result.Error, verbose))
		return &ExitError{Code: result.ExitCode, Err: result.Error}
	}
	if !result.ExitCode.IsSuccess() {
		// Fail-fast propagation: no completion marker, no post_build hook.
		explainIssue(issue.BuildFailedId)
		return &ExitError{Code: result.ExitCode}
	}

	if err := runHook(invocation, "post_build", conf.Hooks.PostBuild); err != nil {
		return err
	}

	fmt.Printf("%s Build complete\n", SuccessStyle.Render("✓"))
	return nil
}

// runHook executes one configured hook snippet with the hook runtime.
// An empty snippet is a no-op. A failing hook aborts the build with the
// hook's exit status.
func runHook(invocation *runtime.ExecutionContext, name, script string) error {
	if script == "" {
		return nil
	}

	hookCtx := *invocation
	hookCtx.Script = script

	hookRt := runtime.NewHookRuntime()
	if err := hookRt.Validate(&hookCtx); err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+fmt.Sprintf("%s hook: %v", name, err))
		return &ExitError{Code: 1, Err: err}
	}

	logger.Debug("running hook", "hook", name)
	result := hookRt.Execute(&hookCtx)
	if result.Error != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+fmt.Sprintf("%s hook: %v", name, result.Error))
		return &ExitError{Code: result.ExitCode, Err: result.Error}
	}
	if !result.ExitCode.IsSuccess() {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+fmt.Sprintf("%s hook exited with status %s", name, result.ExitCode))
		return &ExitError{Code: result.ExitCode}
	}
	return nil
}

// buildConfigFor resolves the entry point and venv dir from configuration
// and flag overrides; flags win.
func buildConfigFor(conf *config.Config, entryFlag, venvFlag string) (entry, venvDir string) {
	entry = conf.Entry
	if entryFlag != "" {
		entry = entryFlag
	}
	venvDir = conf.VenvDir
	if venvFlag != "" {
		venvDir = venvFlag
	}
	return entry, venvDir
}
