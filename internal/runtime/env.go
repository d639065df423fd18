// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"fmt"
	"maps"
	"os"
	"sort"
	"strings"
)

// internalEnvPrefix marks variables venvoke uses for its own bookkeeping;
// they never leak into the entry point's environment.
const internalEnvPrefix = "VENVOKE_"

// buildInvocationEnv builds the environment for the entry point or a hook
// with proper precedence:
//  1. Host environment (venvoke-internal variables filtered out)
//  2. Venv activation (VIRTUAL_ENV, PATH prepend, PYTHONHOME unset)
//  3. ExtraEnv from configuration and flags - highest priority
func buildInvocationEnv(ctx *ExecutionContext) map[string]string {
	env := make(map[string]string)

	for _, entry := range FilterInternalEnvVars(os.Environ()) {
		idx := findEnvSeparator(entry)
		if idx == -1 {
			continue
		}
		env[entry[:idx]] = entry[idx+1:]
	}

	ctx.Venv.Environ(env)

	maps.Copy(env, ctx.ExtraEnv)

	return env
}

// FilterInternalEnvVars removes venvoke-internal variables from a KEY=VALUE
// environment slice.
func FilterInternalEnvVars(environ []string) []string {
	filtered := make([]string, 0, len(environ))
	for _, entry := range environ {
		if strings.HasPrefix(entry, internalEnvPrefix) {
			continue
		}
		filtered = append(filtered, entry)
	}
	return filtered
}

// EnvToSlice converts an environment map to a sorted KEY=VALUE slice.
// Sorting keeps child process environments deterministic across runs.
func EnvToSlice(env map[string]string) []string {
	entries := make([]string, 0, len(env))
	for k, v := range env {
		entries = append(entries, k+"="+v)
	}
	sort.Strings(entries)
	return entries
}

// findEnvSeparator returns the index of the '=' separating name and value.
// Windows environments can carry entries starting with '=', so the search
// starts at index 1.
func findEnvSeparator(entry string) int {
	for i := 1; i < len(entry); i++ {
		if entry[i] == '=' {
			return i
		}
	}
	return -1
}

// validateWorkDir validates that a working directory exists and is accessible.
// This provides a better error message than letting exec fail with a cryptic error.
func validateWorkDir(dir string) error {
	if dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", dir)
		}
		if os.IsPermission(err) {
			return fmt.Errorf("permission denied: %s", dir)
		}
		return fmt.Errorf("cannot access directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", dir)
	}

	return nil
}
