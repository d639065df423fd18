// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"venvoke-cli/internal/pyenv"

	"github.com/spf13/cobra"
)

var (
	cleanVenvDir string

	// cleanCmd removes the environment directory
	cleanCmd = &cobra.Command{
		Use:   "clean",
		Short: "Remove the virtual environment directory",
		Long: `Remove the virtual environment directory.

The next 'venvoke setup' recreates it from scratch. Project sources and
the dependency manifest are never touched.`,
		RunE: runClean,
	}
)

func init() {
	cleanCmd.Flags().StringVar(&cleanVenvDir, "venv", "", "environment directory (default: .venv)")
}

func runClean(cmd *cobra.Command, args []string) error {
	conf := effectiveConfig()

	venvDir := conf.VenvDir
	if cleanVenvDir != "" {
		venvDir = cleanVenvDir
	}

	venv, err := pyenv.New(venvDir)
	if err != nil {
		return err
	}

	if !venv.Exists() {
		fmt.Printf("%s Nothing to clean: %s does not exist\n",
			SubtitleStyle.Render("·"), PathStyle.Render(venv.Dir))
		return nil
	}

	// Refuse to delete a directory that isn't actually a venv; a typo'd
	// --venv flag must not wipe arbitrary trees.
	if err := venv.Validate(); err != nil {
		return fmt.Errorf("refusing to remove %s: %w", venv.Dir, err)
	}

	if err := os.RemoveAll(venv.Dir); err != nil {
		return fmt.Errorf("failed to remove environment: %w", err)
	}

	fmt.Printf("%s Removed %s\n", SuccessStyle.Render("✓"), PathStyle.Render(venv.Dir))
	return nil
}
