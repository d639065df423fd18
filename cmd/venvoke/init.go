// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"venvoke-cli/internal/config"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

var (
	initForce bool

	// initCmd creates a new venvoke.toml
	initCmd = &cobra.Command{
		Use:   "init [filename]",
		Short: "Create a new venvoke.toml in the current directory",
		Long: `Create a new venvoke.toml in the current directory.

The generated file carries the default workflow settings so they are
easy to adjust: interpreter, environment directory, dependency manifest,
and build entry point.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInit,
	}
)

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing venvoke.toml")
}

func runInit(cmd *cobra.Command, args []string) error {
	filename := config.ConfigFileName + "." + config.ConfigFileExt
	if len(args) > 0 {
		filename = args[0]
	}

	// Check if file exists
	if _, err := os.Stat(filename); err == nil && !initForce {
		return fmt.Errorf("file '%s' already exists. Use --force to overwrite", filename)
	}

	content, err := toml.Marshal(config.DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to render default config: %w", err)
	}

	if err := os.WriteFile(filename, content, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	absPath, _ := filepath.Abs(filename)
	fmt.Printf("%s Created %s\n", SuccessStyle.Render("✓"), absPath)
	fmt.Println()
	fmt.Println(SubtitleStyle.Render("Next steps:"))
	fmt.Println("  1. Adjust the settings for your project")
	fmt.Println("  2. Run 'venvoke setup' to provision the environment")
	fmt.Println("  3. Run 'venvoke build' to invoke the build entry point")

	return nil
}
