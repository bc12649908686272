package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/termcore/internal/config"
	"github.com/dshills/termcore/internal/logging"
)

func TestCommandSpec(t *testing.T) {
	spec := commandSpec(options{workDir: "/tmp"}, []string{"htop", "-d", "10"})
	if spec.Command != "htop" {
		t.Errorf("Command = %q, want htop", spec.Command)
	}
	if len(spec.Args) != 2 || spec.Args[0] != "-d" || spec.Args[1] != "10" {
		t.Errorf("Args = %v, want [-d 10]", spec.Args)
	}
	if spec.WorkDir != "/tmp" {
		t.Errorf("WorkDir = %q, want /tmp", spec.WorkDir)
	}

	spec = commandSpec(options{}, nil)
	if spec.Command != "" || len(spec.Args) != 0 {
		t.Errorf("empty args spec = %+v, want zero command", spec)
	}
}

func TestConfigPath(t *testing.T) {
	if got := configPath(options{configPath: "/etc/custom.toml"}); got != "/etc/custom.toml" {
		t.Errorf("explicit path = %q, want /etc/custom.toml", got)
	}

	got := configPath(options{})
	if got != "" && !strings.HasSuffix(got, filepath.Join("termcore", "config.toml")) {
		t.Errorf("default path = %q, want .../termcore/config.toml", got)
	}
}

func TestSessionConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Terminal.Command = "bash"
	cfg.Terminal.Cols = 120
	cfg.Terminal.Rows = 40

	sc := sessionConfig(cfg, nil)
	if sc.Command != "bash" {
		t.Errorf("Command = %q, want bash", sc.Command)
	}
	if sc.Cols != 120 || sc.Rows != 40 {
		t.Errorf("size = %dx%d, want 120x40", sc.Cols, sc.Rows)
	}
	if sc.SyncInterval != cfg.Terminal.SyncInterval.Std() {
		t.Errorf("SyncInterval = %v, want %v", sc.SyncInterval, cfg.Terminal.SyncInterval.Std())
	}
	if sc.Logf == nil {
		t.Error("Logf not wired")
	}
}

func TestSetupLoggingFile(t *testing.T) {
	defer logging.SetLogger(logging.NullLogger)

	path := filepath.Join(t.TempDir(), "termcore.log")
	closeLog, err := setupLogging(config.LoggingConfig{Level: "debug", File: path}, true)
	if err != nil {
		t.Fatalf("setupLogging() error: %v", err)
	}

	logging.GetLogger().Debug("probe %d", 42)
	closeLog()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "probe 42") {
		t.Errorf("log file missing entry: %q", data)
	}
}

func TestSetupLoggingInteractiveWithoutFile(t *testing.T) {
	defer logging.SetLogger(logging.NullLogger)

	closeLog, err := setupLogging(config.LoggingConfig{Level: "info"}, true)
	if err != nil {
		t.Fatalf("setupLogging() error: %v", err)
	}
	defer closeLog()

	if logging.GetLogger() != logging.NullLogger {
		t.Error("interactive run without a log file must disable logging")
	}
}

func TestSetupLoggingBadPath(t *testing.T) {
	_, err := setupLogging(config.LoggingConfig{File: "/nonexistent-dir/x/y.log"}, false)
	if err == nil {
		t.Error("expected error for unwritable log file")
	}
}
