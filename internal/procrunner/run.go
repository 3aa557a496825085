// Package procrunner spawns child processes with a hard timeout, bounded
// stdout capture, and a two-signal (SIGTERM then SIGKILL) kill protocol. It
// is the only place in the engine that ever starts a subprocess.
package procrunner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nextlevelbuilder/climb/internal/sandbox"
)

// DefaultMaxStdoutBytes is the minimum stdout cap the spec requires (≥100 KB).
const DefaultMaxStdoutBytes = 100_000

// gracePeriod is the wait between SIGTERM and SIGKILL on timeout.
const gracePeriod = 100 * time.Millisecond

// Options configures a single Run call.
type Options struct {
	// TimeoutMs is required; zero disables the timeout (used only in tests
	// that want a child to run to completion on its own).
	TimeoutMs int
	// MaxStdoutBytes caps captured stdout. Zero selects DefaultMaxStdoutBytes.
	MaxStdoutBytes int
	// Env overrides the child's environment. Nil selects sandbox.BuildEnv
	// applied to the current process environment.
	Env []string
}

// Result is what a Run call returns. ExitCode is nil when the process was
// killed before it could exit normally.
type Result struct {
	ID         string
	Stdout     []byte
	Stderr     []byte
	ExitCode   *int
	DurationMs int64
	TimedOut   bool
}

// cappedBuffer discards writes past a fixed limit instead of growing forever.
type cappedBuffer struct {
	mu    sync.Mutex
	buf   bytes.Buffer
	limit int
}

func (c *cappedBuffer) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	remaining := c.limit - c.buf.Len()
	if remaining <= 0 {
		return len(p), nil
	}
	if len(p) > remaining {
		c.buf.Write(p[:remaining])
	} else {
		c.buf.Write(p)
	}
	return len(p), nil
}

func (c *cappedBuffer) Bytes() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]byte, c.buf.Len())
	copy(out, c.buf.Bytes())
	return out
}

// Run spawns path with args, enforces opts.TimeoutMs, and returns a Result.
// It never returns an error for a non-zero exit or a timeout — those are
// encoded in the Result. It returns an error only when the child could not
// be spawned at all (spec §7 SpawnFailure).
func Run(ctx context.Context, path string, args []string, opts Options) (*Result, error) {
	id := uuid.NewString()

	maxStdout := opts.MaxStdoutBytes
	if maxStdout <= 0 {
		maxStdout = DefaultMaxStdoutBytes
	}

	env := opts.Env
	if env == nil {
		env = sandbox.BuildEnv(os.Environ())
	}

	cmd := exec.Command(path, args...)
	cmd.Env = env
	cmd.Stdin = nil
	setPlatformAttrs(cmd)

	stdout := &cappedBuffer{limit: maxStdout}
	stderr := &cappedBuffer{limit: maxStdout}
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	// A grandchild that inherits the output pipes can hold them open after
	// the child itself has exited; stop waiting for it after gracePeriod.
	cmd.WaitDelay = gracePeriod

	start := time.Now()
	if err := cmd.Start(); err != nil {
		slog.Warn("procrunner.spawn_failure", "id", id, "path", path, "error", err)
		return nil, err
	}

	waitErr := make(chan error, 1)
	go func() { waitErr <- cmd.Wait() }()

	timedOut := false
	var timer *time.Timer
	if opts.TimeoutMs > 0 {
		timer = time.NewTimer(time.Duration(opts.TimeoutMs) * time.Millisecond)
		defer timer.Stop()
	} else {
		// Never fires; keeps the select symmetric.
		timer = time.NewTimer(time.Hour * 24 * 365)
		defer timer.Stop()
	}

	var err error
	select {
	case err = <-waitErr:
	case <-timer.C:
		timedOut = true
		killGracefully(cmd, waitErr)
		err = <-waitErr
	case <-ctx.Done():
		timedOut = true
		killGracefully(cmd, waitErr)
		err = <-waitErr
	}

	duration := time.Since(start)

	result := &Result{
		ID:         id,
		Stdout:     stdout.Bytes(),
		Stderr:     stderr.Bytes(),
		DurationMs: duration.Milliseconds(),
		TimedOut:   timedOut,
	}
	if !timedOut {
		if exitErr, ok := err.(*exec.ExitError); ok {
			code := exitErr.ExitCode()
			result.ExitCode = &code
		} else if err == nil || errors.Is(err, exec.ErrWaitDelay) {
			code := cmd.ProcessState.ExitCode()
			result.ExitCode = &code
		}
	}

	slog.Debug("procrunner.run", "id", id, "path", path, "durationMs", result.DurationMs,
		"timedOut", result.TimedOut, "exitCode", result.ExitCode)

	return result, nil
}

// killGracefully sends SIGTERM, waits gracePeriod, then SIGKILL if the
// process is still alive. waitErr is drained in the background so Wait
// always completes and the process is reaped.
func killGracefully(cmd *exec.Cmd, waitErr chan error) {
	if cmd.Process == nil {
		return
	}
	_ = terminate(cmd.Process)

	select {
	case e := <-waitErr:
		// Exited on its own after SIGTERM; put the result back for the
		// caller's receive.
		waitErr <- e
		return
	case <-time.After(gracePeriod):
	}

	_ = cmd.Process.Kill()
}

// setPlatformAttrs applies OS-specific process attributes (e.g. hiding
// console windows on Windows). No-op elsewhere.
func setPlatformAttrs(cmd *exec.Cmd) {
	if runtime.GOOS != "windows" {
		return
	}
	setWindowsAttrs(cmd)
}

var _ io.Writer = (*cappedBuffer)(nil)
