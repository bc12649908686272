package terminal

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
)

// termKillGrace is how long Terminate waits after SIGTERM before
// escalating to SIGKILL.
const termKillGrace = 2 * time.Second

// readChunkSize is the PTY read buffer size. Output is delivered in
// chunks of at most this many bytes.
const readChunkSize = 4096

// ExitStatus describes how a child process exited.
type ExitStatus struct {
	// Code is the exit code for a normal exit, or -1 when the process
	// was terminated by a signal.
	Code int

	// Signal is the terminating signal when Signaled is true.
	Signal syscall.Signal

	// Signaled is true when the process was terminated by a signal
	// rather than exiting on its own.
	Signaled bool
}

// String returns a human-readable description of the exit.
func (s ExitStatus) String() string {
	if s.Signaled {
		return fmt.Sprintf("terminated by signal %d (%s)", int(s.Signal), s.Signal)
	}
	return fmt.Sprintf("exited with code %d", s.Code)
}

// process owns one child process attached to a pseudo-terminal. It
// pumps PTY output onto a channel and records the exit status when the
// child goes away.
type process struct {
	cmd *exec.Cmd
	pty *os.File

	output chan []byte
	done   chan struct{}

	closeOnce sync.Once

	// status is written by the read loop before done is closed.
	status ExitStatus

	logf func(format string, args ...any)
}

// startProcess spawns spec.Command on a new PTY of the given size and
// begins pumping its output. The caller receives output chunks from
// Output until the channel closes, then Done reports the exit.
func startProcess(spec CommandSpec, cols, rows int, logf func(format string, args ...any)) (*process, error) {
	path, err := exec.LookPath(spec.Command)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCommandNotFound, spec.Command)
	}

	cmd := exec.Command(path, spec.Args...)
	cmd.Dir = spec.WorkDir

	env := append(os.Environ(), spec.Env...)
	env = defaultEnv(env, "TERM", "xterm-256color")
	env = defaultEnv(env, "COLORTERM", "truecolor")
	cmd.Env = env

	ws := &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)}
	f, err := pty.StartWithSize(cmd, ws)
	if err != nil {
		return nil, fmt.Errorf("start pty: %w", err)
	}

	p := &process{
		cmd:    cmd,
		pty:    f,
		output: make(chan []byte),
		done:   make(chan struct{}),
		logf:   logf,
	}

	go p.readLoop()

	return p, nil
}

// defaultEnv appends key=value unless key is already present.
func defaultEnv(env []string, key, value string) []string {
	prefix := key + "="
	for _, kv := range env {
		if strings.HasPrefix(kv, prefix) {
			return env
		}
	}
	return append(env, prefix+value)
}

// readLoop pumps PTY output to the output channel until the descriptor
// reports an error, then reaps the child. Any read error is treated as
// end of output: on Linux a closed PTY pair reads as EIO, elsewhere as
// EOF, and the child is gone either way.
func (p *process) readLoop() {
	buf := make([]byte, readChunkSize)
	for {
		n, err := p.pty.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			p.output <- data
		}
		if err != nil {
			break
		}
	}

	close(p.output)
	p.closePTY()

	p.status = waitStatus(p.cmd)
	close(p.done)
}

// waitStatus reaps the child and classifies how it exited.
func waitStatus(cmd *exec.Cmd) ExitStatus {
	err := cmd.Wait()
	if err == nil {
		return ExitStatus{Code: 0}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		st := ExitStatus{Code: exitErr.ExitCode()}
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			st.Signaled = true
			st.Signal = ws.Signal()
		}
		return st
	}

	// Wait itself failed; there is no meaningful exit code.
	return ExitStatus{Code: -1}
}

// closePTY closes the PTY descriptor exactly once.
func (p *process) closePTY() {
	p.closeOnce.Do(func() {
		p.pty.Close()
	})
}

// Output returns the channel of PTY output chunks. The channel is
// closed when the child's output ends.
func (p *process) Output() <-chan []byte {
	return p.output
}

// Done returns a channel that is closed once the child has been reaped
// and its exit status recorded.
func (p *process) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the child has been reaped and returns its exit
// classification.
func (p *process) Wait() ExitStatus {
	<-p.done
	return p.status
}

// ExitStatus returns the exit status once the child has been reaped.
func (p *process) ExitStatus() (ExitStatus, bool) {
	select {
	case <-p.done:
		return p.status, true
	default:
		return ExitStatus{}, false
	}
}

// PID returns the child process ID.
func (p *process) PID() int {
	if p.cmd.Process == nil {
		return -1
	}
	return p.cmd.Process.Pid
}

// Write sends input bytes to the child. Write errors are logged and
// swallowed; once the child is gone there is nobody left to tell.
func (p *process) Write(data []byte) {
	if _, err := p.pty.Write(data); err != nil {
		if p.logf != nil {
			p.logf("pty write failed: %v", err)
		}
	}
}

// Resize changes the PTY dimensions. The kernel raises SIGWINCH in the
// child as a side effect.
func (p *process) Resize(cols, rows int) error {
	if cols < 1 || rows < 1 {
		return ErrInvalidSize
	}
	ws := &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)}
	if err := pty.Setsize(p.pty, ws); err != nil {
		return fmt.Errorf("resize pty: %w", err)
	}
	return nil
}

// Terminate asks the child to exit with SIGTERM, escalates to SIGKILL
// after a grace period, and waits for the read loop to finish. It is
// safe to call multiple times and after the child has already exited.
func (p *process) Terminate() {
	p.signal(syscall.SIGTERM)

	select {
	case <-p.done:
		return
	case <-time.After(termKillGrace):
	}

	p.signal(syscall.SIGKILL)
	<-p.done
}

// Kill forcibly terminates the child without the SIGTERM grace period.
func (p *process) Kill() {
	p.signal(syscall.SIGKILL)
	<-p.done
}

// signal delivers sig to the child, ignoring errors from an already
// exited process.
func (p *process) signal(sig syscall.Signal) {
	if p.cmd.Process == nil {
		return
	}
	if err := p.cmd.Process.Signal(sig); err != nil && p.logf != nil {
		p.logf("signal %v failed: %v", sig, err)
	}
}
