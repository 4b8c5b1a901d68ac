// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package runner

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"pakewrapper/internal/logger"
	"pakewrapper/internal/pake"

	"github.com/fatih/color"
)

// State is the lifecycle of a single Pake run.
type State int

const (
	NotStarted State = iota
	Running
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "NOT_STARTED"
	case Running:
		return "RUNNING"
	case Succeeded:
		return "SUCCEEDED"
	case Failed:
		return "FAILED"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var ErrArtifactMissing = errors.New("application bundle was not created")

// waitDelay bounds how long Wait keeps the output pipes open after the child
// exits or is killed, in case a grandchild still holds them.
const waitDelay = 2 * time.Second

var (
	outputColor  = color.New(color.FgCyan)
	errorColor   = color.New(color.FgRed)
	successColor = color.New(color.FgGreen)
)

// Indicator is a progress animation shown while the child is running.
// *spinner.Spinner satisfies it.
type Indicator interface {
	Start()
	Stop()
}

// Result describes how a run ended.
type Result struct {
	State    State
	ExitCode int
	Stderr   string
	Artifact string
	Err      error
}

// Succeeded reports whether the run produced the application bundle.
func (r Result) Succeeded() bool {
	return r.State == Succeeded
}

// Runner executes Pake commands and streams their output.
type Runner struct {
	// Stdout receives the child's output lines and status messages.
	Stdout io.Writer
	// Stderr receives the child's captured stderr when it fails.
	Stderr io.Writer
	// Dir is the working directory of the child and where the bundle is expected.
	// Empty means the current directory.
	Dir string
	// Indicator is optional.
	Indicator Indicator
	Log       *logger.Logger

	state State
}



// State returns the state of the most recent run.
func (r *Runner) State() State {
	return r.state
}

func (r *Runner) startIndicator() {
	if r.Indicator != nil {
		r.Indicator.Start()
	}
}

func (r *Runner) stopIndicator() {
	if r.Indicator != nil {
		r.Indicator.Stop()
	}
}

func (r *Runner) fail(res Result, err error) Result {
	r.state = Failed
	res.State = Failed
	res.Err = err
	return res
}

// Run executes c, printing each stdout line as it arrives. The run succeeds only
// if the child exits 0 and "<appname>.app" exists in Dir afterwards. Cancelling
// ctx kills the child.
func (r *Runner) Run(ctx context.Context, c pake.Command) Result {
	if r.Log == nil {
		r.Log = logger.Discard()
	}
	res := Result{State: NotStarted, ExitCode: -1, Artifact: filepath.Join(r.Dir, c.Bundle())}
	r.state = NotStarted
	cmdDesc := fmt.Sprintf("pake build for %s", c.AppName)
	log := r.Log.With("app", c.AppName)

	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Dir = r.Dir
	cmd.WaitDelay = waitDelay

	var stderrBuf bytes.Buffer
	cmd.Stderr = &stderrBuf
	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		errorColor.Fprintf(r.Stderr, "Error running command: %v\n", err)
		return r.fail(res, fmt.Errorf("failed to get stdout pipe for %s: %w", cmdDesc, err))
	}

	if err := cmd.Start(); err != nil {
		errorColor.Fprintf(r.Stderr, "Error running command: %v\n", err)
		return r.fail(res, fmt.Errorf("failed to start %s: %w", cmdDesc, err))
	}
	r.state = Running
	res.State = Running
	log.Info("Pake started", "pid", cmd.Process.Pid, "argv", strings.Join(c.Argv(), " "))
	outputColor.Fprintln(r.Stdout, "Process started. Waiting for output...")

	r.startIndicator()
	scanDone := make(chan struct{})
	go r.streamLines(stdoutPipe, log, scanDone)

	select {
	case <-scanDone:
	case <-ctx.Done():
	}
	cmdErr := cmd.Wait()
	<-scanDone
	r.stopIndicator()

	res.Stderr = stderrBuf.String()

	if cmdErr != nil {
		var exitError *exec.ExitError
		if errors.As(cmdErr, &exitError) {
			if status, ok := exitError.Sys().(syscall.WaitStatus); ok {
				res.ExitCode = status.ExitStatus()
			} else {
				res.ExitCode = exitError.ExitCode()
			}
		}
		if msg := strings.TrimSpace(res.Stderr); msg != "" {
			errorColor.Fprintf(r.Stderr, "Error: %s\n", msg)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return r.fail(res, fmt.Errorf("%s interrupted: %w", cmdDesc, ctxErr))
		}
		if res.ExitCode != -1 {
			return r.fail(res, fmt.Errorf("%s exited with status %d: %w", cmdDesc, res.ExitCode, cmdErr))
		}
		return r.fail(res, fmt.Errorf("%s failed: %w", cmdDesc, cmdErr))
	}
	res.ExitCode = 0

	if _, err := os.Stat(res.Artifact); err != nil {
		errorColor.Fprintf(r.Stdout, "✗ File %s was not created.\n", c.Bundle())
		return r.fail(res, fmt.Errorf("%w: %s", ErrArtifactMissing, res.Artifact))
	}
	successColor.Fprintf(r.Stdout, "✓ File %s created successfully!\n", c.Bundle())

	r.state = Succeeded
	res.State = Succeeded
	return res
}

// streamLines prints every stdout line as soon as it is complete. Lines have
// no length cap. After a read error the rest of the pipe is discarded so the
// child never blocks on a full pipe; the error alone does not fail the run.
func (r *Runner) streamLines(pipe io.Reader, log *logger.Logger, done chan<- struct{}) {
	defer close(done)
	reader := bufio.NewReader(pipe)
	for {
		line, err := reader.ReadString('\n')
		if text := strings.TrimSpace(line); err == nil || text != "" {
			r.stopIndicator()
			outputColor.Fprintln(r.Stdout, text)
			r.startIndicator()
		}
		if err == nil {
			continue
		}
		if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) {
			log.Debug("stdout read error", "error", err)
			_, _ = io.Copy(io.Discard, pipe)
		}
		return
	}
}
