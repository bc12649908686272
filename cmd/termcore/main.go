// Package main is the entry point for the termcore terminal viewer.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/term"

	"github.com/dshills/termcore/internal/config"
	"github.com/dshills/termcore/internal/logging"
	"github.com/dshills/termcore/internal/terminal"
	"github.com/dshills/termcore/internal/view"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

type options struct {
	configPath string
	workDir    string
	cols       int
	rows       int
	logLevel   string
	logFile    string
	dump       bool
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(configPath(opts))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	applyFlags(&cfg, opts)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	closeLog, err := setupLogging(cfg.Logging, !opts.dump)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()

	if opts.dump {
		return runDump(cfg, opts)
	}
	return runInteractive(cfg, opts)
}

// runInteractive displays the session on the host terminal until the
// child exits and the user dismisses it.
func runInteractive(cfg config.Config, opts options) int {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: stdin is not a terminal (use -dump for non-interactive runs)")
		return 1
	}

	v, err := view.New(view.Options{
		Foreground: cfg.Screen.ForegroundColor(),
		Background: cfg.Screen.BackgroundColor(),
		Logf:       logging.GetLogger().WithComponent("view").Debug,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open terminal: %v\n", err)
		return 1
	}
	defer v.Close()

	sess := terminal.NewSession(sessionConfig(cfg, v.ContentSize))
	defer sess.Close()

	if err := sess.Start(commandSpec(opts, flag.Args())); err != nil {
		v.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// Tear down the screen on outside termination so Run unblocks.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)
	go func() {
		<-signals
		v.Close()
	}()

	if err := v.Run(sess); err != nil {
		v.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	sess.Close()
	v.Close()
	if st, ok := sess.ExitStatus(); ok && (st.Signaled || st.Code != 0) {
		fmt.Printf("%s\n", st)
	}
	return 0
}

// runDump runs the command without a UI, waits for it to exit, and
// prints the final screen contents. The exit code follows the child's.
func runDump(cfg config.Config, opts options) int {
	sess := terminal.NewSession(sessionConfig(cfg, nil))
	defer sess.Close()

	if err := sess.Start(commandSpec(opts, flag.Args())); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	for ev := range sess.Events() {
		ex, ok := ev.(*terminal.EventExited)
		if !ok {
			continue
		}
		fmt.Println(sess.Text())
		if ex.Status.Signaled {
			fmt.Fprintf(os.Stderr, "%s\n", ex.Status)
			return 128 + int(ex.Status.Signal)
		}
		return ex.Status.Code
	}
	return 1
}

func sessionConfig(cfg config.Config, sizeFunc func() (cols, rows int)) terminal.Config {
	return terminal.Config{
		Command:      cfg.Terminal.Command,
		Args:         cfg.Terminal.Args,
		Cols:         cfg.Terminal.Cols,
		Rows:         cfg.Terminal.Rows,
		SizeFunc:     sizeFunc,
		SyncInterval: cfg.Terminal.SyncInterval.Std(),
		Logf:         logging.GetLogger().WithComponent("session").Debug,
	}
}

// commandSpec builds the child command from the positional arguments.
// With none, the session falls back to the configured command and then
// the login shell.
func commandSpec(opts options, args []string) terminal.CommandSpec {
	spec := terminal.CommandSpec{WorkDir: opts.workDir}
	if len(args) > 0 {
		spec.Command = args[0]
		spec.Args = args[1:]
	}
	return spec
}

// configPath returns the explicit config path, else the default under
// the user config directory.
func configPath(opts options) string {
	if opts.configPath != "" {
		return opts.configPath
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "termcore", "config.toml")
}

// applyFlags overlays set command-line flags onto the configuration.
// Only flags the user actually passed take effect.
func applyFlags(cfg *config.Config, opts options) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "cols":
			cfg.Terminal.Cols = opts.cols
		case "rows":
			cfg.Terminal.Rows = opts.rows
		case "log-level":
			cfg.Logging.Level = opts.logLevel
		case "log-file":
			cfg.Logging.File = opts.logFile
		}
	})
}

// setupLogging installs the global logger. Interactive runs without a
// log file disable logging so nothing bleeds onto the display.
func setupLogging(cfg config.LoggingConfig, interactive bool) (func(), error) {
	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(cfg.Level)

	if cfg.File == "" {
		if interactive {
			logging.SetLogger(logging.NullLogger)
			return func() {}, nil
		}
		logging.SetLogger(logging.New(logCfg))
		return func() {}, nil
	}

	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", cfg.File, err)
	}
	logCfg.Output = f
	logging.SetLogger(logging.New(logCfg))
	return func() { _ = f.Close() }, nil
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.workDir, "workdir", "", "Working directory for the child process")
	flag.StringVar(&opts.workDir, "w", "", "Working directory for the child process (shorthand)")
	flag.IntVar(&opts.cols, "cols", 0, "Terminal width when no UI reports a size")
	flag.IntVar(&opts.rows, "rows", 0, "Terminal height when no UI reports a size")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.logFile, "log-file", "", "Log file path")
	flag.BoolVar(&opts.dump, "dump", false, "Run without a UI and print the final screen")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Termcore - pseudo-terminal session viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: termcore [options] [command [args...]]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  termcore                    Run the login shell\n")
		fmt.Fprintf(os.Stderr, "  termcore htop               Run a command\n")
		fmt.Fprintf(os.Stderr, "  termcore -w ./project       Run the shell in a directory\n")
		fmt.Fprintf(os.Stderr, "  termcore -dump ls -la       Capture a command's final screen\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("Termcore %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	return opts
}
