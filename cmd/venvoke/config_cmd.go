// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"venvoke-cli/internal/config"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

var (
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Inspect the venvoke configuration",
	}

	configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long: `Show the effective configuration as TOML.

The output merges defaults, any configuration file, and VENVOKE_*
environment variables, in that order of precedence.`,
		RunE: runConfigShow,
	}

	configPathCmd = &cobra.Command{
		Use:   "path",
		Short: "Show which configuration file is in use",
		RunE:  runConfigPath,
	}
)

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	data, err := toml.Marshal(effectiveConfig())
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}
	fmt.Print(string(data))
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := config.ResolvedPath()
	if err != nil {
		return err
	}
	if path == "" {
		fmt.Println(SubtitleStyle.Render("no configuration file found, using defaults"))
		return nil
	}
	fmt.Println(PathStyle.Render(path))
	return nil
}
