// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for venvoke.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"venvoke-cli/internal/config"
	"venvoke-cli/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// cfg is the configuration loaded during initialization; nil means
	// loading failed and commands run on defaults.
	cfg *config.Config

	// logger is the shared diagnostic logger, writing to stderr so it never
	// mixes with the entry point's stdout.
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		Prefix:          "venvoke",
	})

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "venvoke",
		Short: "A Python virtualenv provisioner and build invoker",
		Long: TitleStyle.Render("venvoke") + SubtitleStyle.Render(" - A Python virtualenv provisioner and build invoker") + `

venvoke replaces the classic setup.sh/build.sh pair of a Python content
build: it provisions an isolated virtual environment from a requirements
manifest and then invokes the external build entry point inside that
environment, propagating its exit status unchanged.

` + SubtitleStyle.Render("Quick Start:") + `
  1. venvoke setup        Provision .venv and install requirements.txt
  2. venvoke build        Run build_posts.py inside the environment
  3. venvoke doctor       Check the workspace when something is off

` + SubtitleStyle.Render("Examples:") + `
  venvoke setup --force         Recreate the environment from scratch
  venvoke build --entry gen.py  Use a different entry point
  venvoke init                  Create a venvoke.toml
  venvoke config show           Show the effective configuration`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./venvoke.toml)")

	// Add subcommands
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(configCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// initRootConfig reads in config file and ENV variables if set.
func initRootConfig() {
	if cfgFile != "" {
		config.SetConfigFilePathOverride(cfgFile)
	}

	loaded, err := config.Load()
	if err != nil {
		// Config problems must be surfaced, but they only abort commands
		// that genuinely need the file (the explicit --config case).
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
		explainIssue(issue.ConfigLoadFailedId)
	}
	cfg = loaded

	if cfg != nil && !verbose {
		verbose = cfg.Verbose
	}
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
}

// effectiveConfig returns the loaded configuration, falling back to defaults
// when loading failed.
func effectiveConfig() *config.Config {
	if cfg != nil {
		return cfg
	}
	return config.DefaultConfig()
}

// explainIssue prints the catalog guidance for id when verbose output is
// enabled. Rendering failures are ignored; guidance is best effort.
func explainIssue(id issue.Id) {
	if !verbose {
		return
	}
	if rendered, err := issue.Get(id).Render("auto"); err == nil {
		fmt.Fprintln(os.Stderr, rendered)
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
