package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dshills/termcore/internal/screen"
)

// writeConfig writes a config file into a temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "termcore.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Terminal.Cols != 80 || cfg.Terminal.Rows != 24 {
		t.Errorf("expected 80x24 defaults, got %dx%d", cfg.Terminal.Cols, cfg.Terminal.Rows)
	}
	if cfg.Terminal.SyncInterval.Std() != 500*time.Millisecond {
		t.Errorf("expected 500ms sync interval, got %v", cfg.Terminal.SyncInterval.Std())
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected info level, got %q", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if cfg.Terminal.Cols != 80 {
		t.Errorf("expected defaults for missing file, got %+v", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[terminal]
command = "/bin/zsh"
args = ["-i"]
cols = 120
sync_interval = "250ms"

[screen]
foreground = "bright_white"
background = "#1e1e2e"

[logging]
level = "debug"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Terminal.Command != "/bin/zsh" {
		t.Errorf("command = %q, want /bin/zsh", cfg.Terminal.Command)
	}
	if len(cfg.Terminal.Args) != 1 || cfg.Terminal.Args[0] != "-i" {
		t.Errorf("args = %v, want [-i]", cfg.Terminal.Args)
	}
	if cfg.Terminal.Cols != 120 {
		t.Errorf("cols = %d, want 120", cfg.Terminal.Cols)
	}
	// Unset keys keep their defaults.
	if cfg.Terminal.Rows != 24 {
		t.Errorf("rows = %d, want default 24", cfg.Terminal.Rows)
	}
	if cfg.Terminal.SyncInterval.Std() != 250*time.Millisecond {
		t.Errorf("sync interval = %v, want 250ms", cfg.Terminal.SyncInterval.Std())
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q, want debug", cfg.Logging.Level)
	}

	fg := cfg.Screen.ForegroundColor()
	if fg.Kind != screen.ColorNamed || fg.Name != screen.BrightWhite {
		t.Errorf("foreground = %v, want named bright_white", fg)
	}
	bg := cfg.Screen.BackgroundColor()
	if bg.Kind != screen.ColorRGB {
		t.Errorf("background = %v, want RGB", bg)
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	path := writeConfig(t, "terminal = {{{")

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "parsing config file") {
		t.Errorf("unexpected error text: %v", err)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
[terminal]
command = "/bin/zsh"
cols = 120
`)

	t.Setenv("TERMCORE_COMMAND", "/usr/bin/fish")
	t.Setenv("TERMCORE_COLS", "100")
	t.Setenv("TERMCORE_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Terminal.Command != "/usr/bin/fish" {
		t.Errorf("command = %q, want env value", cfg.Terminal.Command)
	}
	if cfg.Terminal.Cols != 100 {
		t.Errorf("cols = %d, want env value 100", cfg.Terminal.Cols)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("level = %q, want env value warn", cfg.Logging.Level)
	}
}

func TestLoadEnvInvalid(t *testing.T) {
	t.Setenv("TERMCORE_COLS", "lots")

	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil || !strings.Contains(err.Error(), "TERMCORE_COLS") {
		t.Errorf("expected TERMCORE_COLS error, got %v", err)
	}
}

func TestLoadEnvDuration(t *testing.T) {
	t.Setenv("TERMCORE_SYNC_INTERVAL", "1s")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Terminal.SyncInterval.Std() != time.Second {
		t.Errorf("sync interval = %v, want 1s", cfg.Terminal.SyncInterval.Std())
	}

	t.Setenv("TERMCORE_SYNC_INTERVAL", "fast")
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for malformed duration")
	}
}

func TestLoadUnknownColor(t *testing.T) {
	path := writeConfig(t, `
[screen]
foreground = "cheerful"
`)

	_, err := Load(path)
	if !errors.Is(err, screen.ErrUnknownColor) {
		t.Errorf("expected ErrUnknownColor, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Terminal.Cols = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero cols")
	}

	cfg = Default()
	cfg.Terminal.SyncInterval = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero sync interval")
	}

	cfg = Default()
	cfg.Logging.Level = "loud"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown log level")
	}

	cfg = Default()
	cfg.Screen.Background = "299"
	if err := cfg.Validate(); !errors.Is(err, screen.ErrUnknownColor) {
		t.Errorf("expected ErrUnknownColor for bad index, got %v", err)
	}
}

func TestDurationUnmarshalText(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("750ms")); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if d.Std() != 750*time.Millisecond {
		t.Errorf("duration = %v, want 750ms", d.Std())
	}

	if err := d.UnmarshalText([]byte("soon")); err == nil {
		t.Error("expected error for malformed duration")
	}
}
