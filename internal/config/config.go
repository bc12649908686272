package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/termcore/internal/screen"
)

// Duration decodes TOML strings like "500ms" into a time.Duration.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the complete termcore configuration. Values are resolved in
// precedence order: command-line flags, then TERMCORE_* environment
// variables, then the config file, then built-in defaults. Load covers
// the last three; flag overrides are applied by the caller.
type Config struct {
	Terminal TerminalConfig `toml:"terminal"`
	Screen   ScreenConfig   `toml:"screen"`
	Logging  LoggingConfig  `toml:"logging"`
}

// TerminalConfig holds session settings.
type TerminalConfig struct {
	// Command is the executable to run (defaults to $SHELL, then /bin/sh).
	Command string `toml:"command"`

	// Args are the command arguments.
	Args []string `toml:"args"`

	// Cols is the terminal width used when no UI reports a size.
	Cols int `toml:"cols"`

	// Rows is the terminal height used when no UI reports a size.
	Rows int `toml:"rows"`

	// SyncInterval is how often the UI size is polled, e.g. "500ms".
	SyncInterval Duration `toml:"sync_interval"`
}

// ScreenConfig holds rendering settings.
type ScreenConfig struct {
	// Foreground is the default foreground color. Accepts named colors
	// ("red", "bright_blue"), palette indexes ("245"), and hex values
	// ("#rrggbb").
	Foreground string `toml:"foreground"`

	// Background is the default background color, in the same forms as
	// Foreground.
	Background string `toml:"background"`
}

// ForegroundColor returns the parsed foreground color. Call after the
// config has been validated by Load.
func (c ScreenConfig) ForegroundColor() screen.Color {
	col, _ := screen.ParseColor(c.Foreground)
	return col
}

// BackgroundColor returns the parsed background color.
func (c ScreenConfig) BackgroundColor() screen.Color {
	col, _ := screen.ParseColor(c.Background)
	return col
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the logging verbosity ("debug", "info", "warn", "error").
	Level string `toml:"level"`

	// File is the log file path. Empty logs to stderr.
	File string `toml:"file"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Terminal: TerminalConfig{
			Cols:         80,
			Rows:         24,
			SyncInterval: Duration(500 * time.Millisecond),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration from path layered under any TERMCORE_*
// environment variables. A missing file is not an error; the defaults
// and environment still apply.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No file, defaults stand.
	case err != nil:
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv overlays TERMCORE_* environment variables onto cfg.
func applyEnv(cfg *Config) error {
	if v := os.Getenv("TERMCORE_COMMAND"); v != "" {
		cfg.Terminal.Command = v
	}
	if v := os.Getenv("TERMCORE_COLS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid TERMCORE_COLS %q: %w", v, err)
		}
		cfg.Terminal.Cols = n
	}
	if v := os.Getenv("TERMCORE_ROWS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid TERMCORE_ROWS %q: %w", v, err)
		}
		cfg.Terminal.Rows = n
	}
	if v := os.Getenv("TERMCORE_SYNC_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TERMCORE_SYNC_INTERVAL %q: %w", v, err)
		}
		cfg.Terminal.SyncInterval = Duration(d)
	}
	if v := os.Getenv("TERMCORE_FOREGROUND"); v != "" {
		cfg.Screen.Foreground = v
	}
	if v := os.Getenv("TERMCORE_BACKGROUND"); v != "" {
		cfg.Screen.Background = v
	}
	if v := os.Getenv("TERMCORE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("TERMCORE_LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}
	return nil
}

// Validate checks that every configured value is usable. Color names
// and log levels are rejected here rather than when first used.
func (c Config) Validate() error {
	if c.Terminal.Cols <= 0 || c.Terminal.Rows <= 0 {
		return fmt.Errorf("invalid terminal size %dx%d", c.Terminal.Cols, c.Terminal.Rows)
	}
	if c.Terminal.SyncInterval <= 0 {
		return fmt.Errorf("invalid sync interval %v", c.Terminal.SyncInterval.Std())
	}
	if c.Screen.Foreground != "" {
		if _, err := screen.ParseColor(c.Screen.Foreground); err != nil {
			return fmt.Errorf("foreground: %w", err)
		}
	}
	if c.Screen.Background != "" {
		if _, err := screen.ParseColor(c.Screen.Background); err != nil {
			return fmt.Errorf("background: %w", err)
		}
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	return nil
}
