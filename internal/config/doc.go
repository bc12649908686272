// Package config loads termcore configuration from a TOML file and the
// environment.
//
// # Precedence
//
// Values are resolved in a fixed order, highest first:
//
//  1. Command-line flags (applied by the caller after Load)
//  2. TERMCORE_* environment variables
//  3. The TOML config file
//  4. Built-in defaults
//
// # File Format
//
// The config file has three sections:
//
//	[terminal]
//	command = "/bin/zsh"
//	args = ["-i"]
//	cols = 120
//	rows = 40
//	sync_interval = "500ms"
//
//	[screen]
//	foreground = "bright_white"
//	background = "#1e1e2e"
//
//	[logging]
//	level = "info"
//	file = "/tmp/termcore.log"
//
// # Environment Variables
//
// Each setting can be overridden by an environment variable:
// TERMCORE_COMMAND, TERMCORE_COLS, TERMCORE_ROWS,
// TERMCORE_SYNC_INTERVAL, TERMCORE_FOREGROUND, TERMCORE_BACKGROUND,
// TERMCORE_LOG_LEVEL, and TERMCORE_LOG_FILE. Numeric and duration
// variables are parsed strictly; a malformed value fails the load.
//
// # Validation
//
// Load validates everything up front: color names are resolved against
// the screen package's palette and malformed values are reported with
// the offending setting, so a typo surfaces at startup rather than at
// first use.
package config
