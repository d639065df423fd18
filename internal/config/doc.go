// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with TOML as
// the file format.
//
// Configuration is looked up as ./venvoke.toml first, then in the platform
// config directory (~/.config/venvoke on Linux/XDG, ~/Library/Application
// Support/venvoke on macOS, %APPDATA%\venvoke on Windows). VENVOKE_*
// environment variables override file values. All settings have working
// defaults, so running without any config file is fully supported.
package config
