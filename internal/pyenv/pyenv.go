// SPDX-License-Identifier: MPL-2.0

// Package pyenv models Python virtual environments on disk: interpreter
// discovery, platform-specific venv layout, and the environment variable
// changes that `bin/activate` would perform, expressed per child process.
package pyenv

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// DefaultDir is the environment directory created and consumed when no
// override is configured.
const DefaultDir = ".venv"

// interpreterCandidates are tried in order when no interpreter is configured.
func interpreterCandidates() []string {
	if runtime.GOOS == "windows" {
		return []string{"python3", "python", "py"}
	}
	return []string{"python3", "python"}
}

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// FindInterpreter locates a Python interpreter on PATH. If preferred is
// non-empty it is the only candidate; otherwise platform defaults are tried
// in order. The returned path is absolute when PATH lookup resolves one.
func FindInterpreter(preferred string) (string, error) {
	candidates := interpreterCandidates()
	if preferred != "" {
		candidates = []string{preferred}
	}

	var lastErr error
	for _, name := range candidates {
		path, err := lookPath(name)
		if err == nil {
			return path, nil
		}
		lastErr = err
	}

	return "", fmt.Errorf("no Python interpreter found (tried %s): %w",
		strings.Join(candidates, ", "), lastErr)
}

// Venv is a virtual environment rooted at Dir. The zero value is not usable;
// construct with New so relative paths are anchored to the working directory.
type Venv struct {
	// Dir is the environment directory, absolute after New.
	Dir string
}

// New returns a Venv for dir, resolving it to an absolute path so that
// activation values (VIRTUAL_ENV, PATH entries) are stable regardless of
// the child process working directory.
func New(dir string) (Venv, error) {
	if dir == "" {
		dir = DefaultDir
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Venv{}, fmt.Errorf("failed to resolve venv directory %q: %w", dir, err)
	}
	return Venv{Dir: abs}, nil
}

// BinDir returns the directory holding the venv's executables
// ("Scripts" on Windows, "bin" elsewhere).
func (v Venv) BinDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(v.Dir, "Scripts")
	}
	return filepath.Join(v.Dir, "bin")
}

// Python returns the path of the venv's interpreter.
func (v Venv) Python() string {
	name := "python"
	if runtime.GOOS == "windows" {
		name = "python.exe"
	}
	return filepath.Join(v.BinDir(), name)
}

// ConfigFile returns the path of the venv marker file written by
// `python -m venv`.
func (v Venv) ConfigFile() string {
	return filepath.Join(v.Dir, "pyvenv.cfg")
}

// Exists reports whether the environment directory is present.
func (v Venv) Exists() bool {
	info, err := os.Stat(v.Dir)
	return err == nil && info.IsDir()
}

// Validate checks that the environment directory holds a usable venv:
// the directory exists, carries pyvenv.cfg, and contains an interpreter.
func (v Venv) Validate() error {
	info, err := os.Stat(v.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("environment directory does not exist: %s", v.Dir)
		}
		return fmt.Errorf("cannot access environment directory %s: %w", v.Dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", v.Dir)
	}

	if _, err := os.Stat(v.ConfigFile()); err != nil {
		return fmt.Errorf("not a virtual environment (missing pyvenv.cfg): %s", v.Dir)
	}

	if _, err := os.Stat(v.Python()); err != nil {
		return fmt.Errorf("virtual environment has no interpreter: %s", v.Python())
	}

	return nil
}

// Environ applies the venv activation semantics to a KEY=VALUE environment
// map: set VIRTUAL_ENV, prepend the venv bin directory to PATH, and unset
// PYTHONHOME. This is the documented effect of sourcing bin/activate; since
// it only touches the map handed to one child process, there is nothing to
// deactivate afterwards.
func (v Venv) Environ(env map[string]string) {
	env["VIRTUAL_ENV"] = v.Dir
	delete(env, "PYTHONHOME")

	// Windows convention for the variable name differs only in case;
	// respect an existing "Path" key before falling back to "PATH".
	key := "PATH"
	if _, ok := env[key]; !ok {
		if _, ok := env["Path"]; ok {
			key = "Path"
		}
	}

	if current := env[key]; current != "" {
		env[key] = v.BinDir() + string(os.PathListSeparator) + current
	} else {
		env[key] = v.BinDir()
	}
}
