// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"path/filepath"
	"strings"
	"testing"

	"venvoke-cli/internal/pyenv"
)

func TestHookRuntime_Validate(t *testing.T) {
	rt := NewHookRuntime()

	tests := []struct {
		name    string
		script  string
		wantErr string
	}{
		{"valid script", "echo hello", ""},
		{"empty script", "", "no script"},
		{"syntax error", "if then fi", "syntax error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rt.Validate(&ExecutionContext{Script: tt.script})
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestHookRuntime_Execute(t *testing.T) {
	rt := NewHookRuntime()
	venv := pyenv.Venv{Dir: filepath.Join(string(filepath.Separator), "proj", ".venv")}

	t.Run("exit status propagates", func(t *testing.T) {
		result := rt.ExecuteCapture(&ExecutionContext{Venv: venv, Script: "exit 3"})
		if result.Error != nil {
			t.Fatalf("Error = %v", result.Error)
		}
		if result.ExitCode != 3 {
			t.Errorf("ExitCode = %d, want 3", result.ExitCode)
		}
	})

	t.Run("hook sees activation variables", func(t *testing.T) {
		result := rt.ExecuteCapture(&ExecutionContext{
			Venv:   venv,
			Script: `printf '%s' "$VIRTUAL_ENV"`,
		})
		if !result.Succeeded() {
			t.Fatalf("result = %+v", result)
		}
		if result.Output != venv.Dir {
			t.Errorf("Output = %q, want %q", result.Output, venv.Dir)
		}
	})

	t.Run("extra env is visible", func(t *testing.T) {
		result := rt.ExecuteCapture(&ExecutionContext{
			Venv:     venv,
			Script:   `printf '%s' "$SITE_ENV"`,
			ExtraEnv: map[string]string{"SITE_ENV": "staging"},
		})
		if !result.Succeeded() {
			t.Fatalf("result = %+v", result)
		}
		if result.Output != "staging" {
			t.Errorf("Output = %q, want staging", result.Output)
		}
	})

	t.Run("stderr is captured separately", func(t *testing.T) {
		result := rt.ExecuteCapture(&ExecutionContext{
			Venv:   venv,
			Script: `echo out; echo err >&2`,
		})
		if !result.Succeeded() {
			t.Fatalf("result = %+v", result)
		}
		if strings.TrimSpace(result.Output) != "out" {
			t.Errorf("Output = %q", result.Output)
		}
		if strings.TrimSpace(result.ErrOutput) != "err" {
			t.Errorf("ErrOutput = %q", result.ErrOutput)
		}
	})
}
