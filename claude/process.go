package claude

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/agentwire/claudesdk/internal/ndjson"
	"github.com/agentwire/claudesdk/internal/procattr"
)

// Spawn-env marker identifying this client to the CLI. Merged into the
// child's environment only; the parent env is never touched, so concurrent
// queries and the host application see nothing.
const entrypointEnv = "CLAUDE_CODE_ENTRYPOINT=sdk-go"

// maxStderrCapture bounds how much stderr is retained for error reporting.
const maxStderrCapture = 64 * 1024

// processManager runs one CLI invocation in one-shot --print mode: stdin
// null, stdout carrying the stream-json output, stderr drained on the side.
type processManager struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	reader *ndjson.Reader
	opts   Options
	prompt string

	stderrBuf  bytes.Buffer
	stderrMu   sync.Mutex
	stderrDone chan struct{}

	waitOnce sync.Once
	waitErr  error

	mu       sync.Mutex
	started  bool
	stopping bool
}

func newProcessManager(prompt string, opts Options) *processManager {
	return &processManager{
		opts:       opts,
		prompt:     prompt,
		stderrDone: make(chan struct{}),
	}
}

// Start spawns the CLI process and wires up its pipes.
func (pm *processManager) Start(ctx context.Context) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if pm.started {
		return ErrAlreadyStarted
	}

	cliPath := pm.opts.CLIPath
	if cliPath == "" {
		found, err := FindCLI()
		if err != nil {
			return err
		}
		cliPath = found
	}

	pm.cmd = exec.CommandContext(ctx, cliPath, buildCLIArgs(pm.prompt, pm.opts)...)

	pm.cmd.Env = append(os.Environ(), entrypointEnv)
	for k, v := range pm.opts.Env {
		pm.cmd.Env = append(pm.cmd.Env, k+"="+v)
	}

	procattr.Set(pm.cmd)

	if pm.opts.WorkDir != "" {
		pm.cmd.Dir = pm.opts.WorkDir
	}

	var err error
	pm.stdout, err = pm.cmd.StdoutPipe()
	if err != nil {
		return &ConnectionError{Message: "failed to create stdout pipe", Cause: err}
	}

	stderr, err := pm.cmd.StderrPipe()
	if err != nil {
		return &ConnectionError{Message: "failed to create stderr pipe", Cause: err}
	}

	pm.reader = ndjson.NewReaderLimit(pm.stdout, pm.opts.Limits.MaxLineSize)

	if err := pm.cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
			return &CLINotFoundError{Path: cliPath}
		}
		return &ConnectionError{Message: "failed to start Claude Code", Cause: err}
	}

	go pm.drainStderr(stderr)

	pm.started = true
	return nil
}

// drainStderr reads stderr to EOF, forwarding chunks to the handler and
// keeping a bounded copy for error reporting.
func (pm *processManager) drainStderr(r io.Reader) {
	defer close(pm.stderrDone)

	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			if pm.opts.StderrHandler != nil {
				pm.opts.StderrHandler(chunk)
			}
			pm.stderrMu.Lock()
			if room := maxStderrCapture - pm.stderrBuf.Len(); room > 0 {
				if len(chunk) > room {
					chunk = chunk[:room]
				}
				pm.stderrBuf.Write(chunk)
			}
			pm.stderrMu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

func (pm *processManager) stderrText() string {
	pm.stderrMu.Lock()
	defer pm.stderrMu.Unlock()
	return pm.stderrBuf.String()
}

// wait reaps the process exactly once, after stderr is fully drained.
func (pm *processManager) wait() error {
	pm.waitOnce.Do(func() {
		<-pm.stderrDone
		pm.waitErr = pm.cmd.Wait()
	})
	return pm.waitErr
}

// Stop shuts the CLI down: SIGTERM to the process group, a short grace
// period, then SIGKILL. Safe to call more than once.
func (pm *processManager) Stop() error {
	pm.mu.Lock()
	if !pm.started || pm.stopping {
		pm.mu.Unlock()
		return nil
	}
	pm.stopping = true
	pm.mu.Unlock()

	done := make(chan struct{})
	go func() {
		_ = pm.wait()
		close(done)
	}()

	if pm.cmd.Process != nil {
		_ = procattr.SignalGroup(pm.cmd.Process, syscall.SIGTERM)
	}

	select {
	case <-done:
		return nil
	case <-time.After(500 * time.Millisecond):
	}

	if pm.cmd.Process != nil {
		_ = procattr.KillGroup(pm.cmd.Process)
	}

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
	}

	return nil
}
