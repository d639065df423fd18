// SPDX-License-Identifier: MPL-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// chdir moves the test into a scratch directory so local venvoke.toml
// lookup is hermetic.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(old)
		Reset()
	})
	return dir
}

func TestLoad_DefaultsWithoutAnyFile(t *testing.T) {
	chdir(t)
	SetConfigDirOverride(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.VenvDir != ".venv" {
		t.Errorf("VenvDir = %q, want .venv", cfg.VenvDir)
	}
	if cfg.Requirements != "requirements.txt" {
		t.Errorf("Requirements = %q, want requirements.txt", cfg.Requirements)
	}
	if cfg.Entry != "build_posts.py" {
		t.Errorf("Entry = %q, want build_posts.py", cfg.Entry)
	}
	if cfg.Python != "" {
		t.Errorf("Python = %q, want empty (PATH discovery)", cfg.Python)
	}
}

func TestLoad_LocalProjectFile(t *testing.T) {
	chdir(t)
	SetConfigDirOverride(t.TempDir())

	content := `
python = "/usr/local/bin/python3.12"
venv = "env"
entry = "scripts/build_posts.py"

[env]
SITE_ENV = "production"

[hooks]
pre_build = "echo pre"
`
	if err := os.WriteFile("venvoke.toml", []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Python != "/usr/local/bin/python3.12" {
		t.Errorf("Python = %q", cfg.Python)
	}
	if cfg.VenvDir != "env" {
		t.Errorf("VenvDir = %q", cfg.VenvDir)
	}
	if cfg.Entry != "scripts/build_posts.py" {
		t.Errorf("Entry = %q", cfg.Entry)
	}
	// Unset keys fall back to defaults.
	if cfg.Requirements != "requirements.txt" {
		t.Errorf("Requirements = %q, want default", cfg.Requirements)
	}
	if cfg.Env["SITE_ENV"] != "production" {
		t.Errorf("Env = %v", cfg.Env)
	}
	if cfg.Hooks.PreBuild != "echo pre" {
		t.Errorf("Hooks.PreBuild = %q", cfg.Hooks.PreBuild)
	}
}

func TestLoad_UserConfigDirFile(t *testing.T) {
	chdir(t)
	cfgDir := t.TempDir()
	SetConfigDirOverride(cfgDir)

	path := filepath.Join(cfgDir, "venvoke.toml")
	if err := os.WriteFile(path, []byte(`venv = "global-env"`+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.VenvDir != "global-env" {
		t.Errorf("VenvDir = %q, want global-env", cfg.VenvDir)
	}

	resolved, err := ResolvedPath()
	if err != nil {
		t.Fatalf("ResolvedPath() error = %v", err)
	}
	if resolved != path {
		t.Errorf("ResolvedPath() = %q, want %q", resolved, path)
	}
}

func TestLoad_LocalFileWinsOverUserFile(t *testing.T) {
	chdir(t)
	cfgDir := t.TempDir()
	SetConfigDirOverride(cfgDir)

	if err := os.WriteFile(filepath.Join(cfgDir, "venvoke.toml"), []byte(`venv = "global-env"`+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile("venvoke.toml", []byte(`venv = "local-env"`+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.VenvDir != "local-env" {
		t.Errorf("VenvDir = %q, local file must take precedence", cfg.VenvDir)
	}
}

func TestLoad_ExplicitOverridePath(t *testing.T) {
	chdir(t)
	SetConfigDirOverride(t.TempDir())

	t.Run("existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.toml")
		if err := os.WriteFile(path, []byte(`entry = "other.py"`+"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		SetConfigFilePathOverride(path)
		defer SetConfigFilePathOverride("")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Entry != "other.py" {
			t.Errorf("Entry = %q", cfg.Entry)
		}
	})

	t.Run("missing file is an error, not a fallback", func(t *testing.T) {
		SetConfigFilePathOverride(filepath.Join(t.TempDir(), "nope.toml"))
		defer SetConfigFilePathOverride("")

		if _, err := Load(); err == nil {
			t.Error("Load() = nil, want error for missing explicit config")
		}
	})
}

func TestLoad_InvalidToml(t *testing.T) {
	chdir(t)
	SetConfigDirOverride(t.TempDir())

	if err := os.WriteFile("venvoke.toml", []byte("entry = [unclosed\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load()
	if err == nil {
		t.Fatal("Load() = nil, want TOML parse error")
	}
	if !strings.Contains(err.Error(), "load configuration") {
		t.Errorf("error = %v, want load configuration context", err)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	chdir(t)
	SetConfigDirOverride(t.TempDir())
	t.Setenv("VENVOKE_ENTRY", "from_env.py")
	t.Setenv("VENVOKE_HOOKS_PRE_BUILD", "echo from env")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Entry != "from_env.py" {
		t.Errorf("Entry = %q, want env override", cfg.Entry)
	}
	if cfg.Hooks.PreBuild != "echo from env" {
		t.Errorf("Hooks.PreBuild = %q, want env override", cfg.Hooks.PreBuild)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"empty venv", func(c *Config) { c.VenvDir = "" }, true},
		{"empty requirements", func(c *Config) { c.Requirements = "" }, true},
		{"empty entry", func(c *Config) { c.Entry = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
