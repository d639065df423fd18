// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"venvoke-cli/internal/issue"
	"venvoke-cli/internal/manifest"
	"venvoke-cli/internal/pyenv"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "venvoke"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "venvoke"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "toml"
	// EnvPrefix is the prefix for environment variable overrides.
	EnvPrefix = "VENVOKE"
)

type (
	// HooksConfig holds optional shell snippets run around the build entry
	// point by the built-in interpreter.
	HooksConfig struct {
		// PreBuild runs before the entry point; a failure aborts the build.
		PreBuild string `mapstructure:"pre_build" toml:"pre_build"`
		// PostBuild runs after a successful entry point. Under fail-fast
		// semantics it is skipped when the entry point fails.
		PostBuild string `mapstructure:"post_build" toml:"post_build"`
	}

	// Config is the effective venvoke configuration.
	Config struct {
		// Python is the bootstrap interpreter; empty means PATH discovery.
		Python string `mapstructure:"python" toml:"python"`
		// VenvDir is the environment directory.
		VenvDir string `mapstructure:"venv" toml:"venv"`
		// Requirements is the dependency manifest path.
		Requirements string `mapstructure:"requirements" toml:"requirements"`
		// Entry is the external build entry point invoked by `venvoke build`.
		Entry string `mapstructure:"entry" toml:"entry"`
		// Env is extra environment passed to the entry point and hooks.
		Env map[string]string `mapstructure:"env" toml:"env,omitempty"`
		// Verbose enables verbose output without the --verbose flag.
		Verbose bool `mapstructure:"verbose" toml:"verbose"`
		// Hooks are the optional pre/post build shell snippets.
		Hooks HooksConfig `mapstructure:"hooks" toml:"hooks"`
	}
)

// DefaultConfig returns the configuration used when no file or overrides
// are present. The defaults reproduce the original shell workflow verbatim.
func DefaultConfig() *Config {
	return &Config{
		VenvDir:      pyenv.DefaultDir,
		Requirements: manifest.DefaultPath,
		Entry:        "build_posts.py",
	}
}

// ConfigDir returns the venvoke configuration directory using
// platform-specific conventions: Windows uses %APPDATA%, macOS uses
// ~/Library/Application Support, and Linux/others use $XDG_CONFIG_HOME
// (defaulting to ~/.config).
func ConfigDir() (string, error) {
	// Allow tests to override the config directory
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// Load reads the effective configuration: defaults, then the first config
// file found (explicit override, current directory, platform config dir),
// then VENVOKE_* environment variables on top.
func Load() (*Config, error) {
	cfg, _, err := loadResolved()
	return cfg, err
}

// ResolvedPath returns the config file the current lookup would load,
// or "" when only defaults and environment apply.
func ResolvedPath() (string, error) {
	_, path, err := loadResolved()
	return path, err
}

func loadResolved() (*Config, string, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("python", defaults.Python)
	v.SetDefault("venv", defaults.VenvDir)
	v.SetDefault("requirements", defaults.Requirements)
	v.SetDefault("entry", defaults.Entry)
	v.SetDefault("verbose", defaults.Verbose)
	v.SetDefault("hooks.pre_build", defaults.Hooks.PreBuild)
	v.SetDefault("hooks.post_build", defaults.Hooks.PostBuild)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Explicit binds so env-only overrides survive Unmarshal.
	for _, key := range []string{
		"python", "venv", "requirements", "entry", "verbose",
		"hooks.pre_build", "hooks.post_build",
	} {
		_ = v.BindEnv(key)
	}

	resolvedPath := ""

	// A --config path is used exclusively; a broken explicit path is an
	// error rather than a silent fallback.
	if configFilePathOverride != "" {
		if !fileExists(configFilePathOverride) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(configFilePathOverride).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Run 'venvoke init' to create a starter config").
				Wrap(fmt.Errorf("config file not found: %s", configFilePathOverride)).
				BuildError()
		}
		resolvedPath = configFilePathOverride
	} else {
		localPath := ConfigFileName + "." + ConfigFileExt
		if fileExists(localPath) {
			resolvedPath = localPath
		} else {
			cfgDir, err := ConfigDir()
			if err != nil {
				return nil, "", err
			}
			userPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
			if fileExists(userPath) {
				resolvedPath = userPath
			}
		}
	}

	if resolvedPath != "" {
		v.SetConfigFile(resolvedPath)
		v.SetConfigType(ConfigFileExt)
		if err := v.ReadInConfig(); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithSuggestion("Check that the file contains valid TOML syntax").
				WithSuggestion("See 'venvoke config --help' for configuration options").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	// Viper lowercases map keys, but environment variable names are case
	// sensitive. Re-read the env table with the TOML decoder, which keeps
	// keys as written.
	if resolvedPath != "" {
		raw, err := os.ReadFile(resolvedPath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to re-read config: %w", err)
		}
		var caseSensitive struct {
			Env map[string]string `toml:"env"`
		}
		if err := toml.Unmarshal(raw, &caseSensitive); err == nil && caseSensitive.Env != nil {
			cfg.Env = caseSensitive.Env
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			Wrap(err).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// Validate rejects configurations that cannot work at all. Values pointing
// at missing files are not errors here; the provisioner and runtimes report
// those with more context.
func (c *Config) Validate() error {
	if c.VenvDir == "" {
		return fmt.Errorf("venv directory must not be empty")
	}
	if c.Requirements == "" {
		return fmt.Errorf("requirements path must not be empty")
	}
	if c.Entry == "" {
		return fmt.Errorf("entry point must not be empty")
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
