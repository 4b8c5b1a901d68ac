// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package runner

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"pakewrapper/internal/logger"
	"pakewrapper/internal/pake"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePake writes an executable shell script standing in for the Pake binary.
func fakePake(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixtures need a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "pake")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755))
	return path
}

func buildCommand(t *testing.T, bin string) pake.Command {
	t.Helper()
	cmd, err := pake.Build(pake.Options{Binary: bin, Width: 1280, Height: 800, MultiArch: true}, "https://example.com", "")
	require.NoError(t, err)
	return cmd
}

type countingIndicator struct {
	mu      sync.Mutex
	starts  int
	stops   int
	running bool
}

func (c *countingIndicator) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.starts++
	c.running = true
}

func (c *countingIndicator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stops++
	c.running = false
}

func newTestRunner(dir string) (*Runner, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &Runner{Stdout: &stdout, Stderr: &stderr, Dir: dir, Log: logger.Discard()}, &stdout, &stderr
}

func TestRun_SucceedsWhenBundleExists(t *testing.T) {
	bin := fakePake(t, `
echo "building $1"
echo "name=$3 width=$5 height=$7 flag=$8"
mkdir "$3.app"
`)
	dir := t.TempDir()
	r, stdout, _ := newTestRunner(dir)
	ind := &countingIndicator{}
	r.Indicator = ind

	res := r.Run(context.Background(), buildCommand(t, bin))

	require.NoError(t, res.Err)
	assert.True(t, res.Succeeded())
	assert.Equal(t, Succeeded, r.State())
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, filepath.Join(dir, "examplecom.app"), res.Artifact)

	out := stdout.String()
	assert.Contains(t, out, "Process started. Waiting for output...")
	assert.Contains(t, out, "building https://example.com")
	assert.Contains(t, out, "name=examplecom width=1280 height=800 flag=--multi-arch")
	assert.Contains(t, out, "examplecom.app created successfully")
	assert.Less(t, strings.Index(out, "building"), strings.Index(out, "created successfully"))

	assert.False(t, ind.running)
	assert.GreaterOrEqual(t, ind.starts, 1)
	assert.Equal(t, ind.starts, ind.stops)
}

func TestRun_ZeroExitWithoutBundleFails(t *testing.T) {
	bin := fakePake(t, "echo done\nexit 0\n")
	r, stdout, _ := newTestRunner(t.TempDir())

	res := r.Run(context.Background(), buildCommand(t, bin))

	assert.False(t, res.Succeeded())
	assert.Equal(t, Failed, res.State)
	assert.Equal(t, 0, res.ExitCode)
	assert.ErrorIs(t, res.Err, ErrArtifactMissing)
	assert.Contains(t, stdout.String(), "examplecom.app was not created")
}

func TestRun_LongLinesDoNotStallTheChild(t *testing.T) {
	bin := fakePake(t, `
head -c 2097152 /dev/zero | tr '\0' '#'
echo
echo "after long line"
mkdir "$3.app"
printf "no trailing newline"
`)
	r, stdout, _ := newTestRunner(t.TempDir())

	done := make(chan Result, 1)
	go func() { done <- r.Run(context.Background(), buildCommand(t, bin)) }()

	var res Result
	select {
	case res = <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("run did not finish after a 2 MiB output line")
	}

	require.NoError(t, res.Err)
	assert.True(t, res.Succeeded())
	out := stdout.String()
	assert.Contains(t, out, strings.Repeat("#", 2097152))
	assert.Contains(t, out, "after long line")
	assert.Contains(t, out, "no trailing newline")
}

func TestRun_NonZeroExitPrintsStderr(t *testing.T) {
	bin := fakePake(t, `
echo "partial output"
echo "rust toolchain missing" >&2
mkdir "$3.app"
exit 3
`)
	r, stdout, stderr := newTestRunner(t.TempDir())

	res := r.Run(context.Background(), buildCommand(t, bin))

	assert.Equal(t, Failed, res.State)
	assert.Equal(t, 3, res.ExitCode)
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "exited with status 3")
	assert.Contains(t, res.Stderr, "rust toolchain missing")
	assert.Contains(t, stderr.String(), "Error: rust toolchain missing")
	assert.Contains(t, stdout.String(), "partial output")
	assert.NotContains(t, stdout.String(), "created successfully")
}

func TestRun_StderrHiddenOnSuccess(t *testing.T) {
	bin := fakePake(t, "echo 'warning: slow network' >&2\nmkdir \"$3.app\"\n")
	r, _, stderr := newTestRunner(t.TempDir())

	res := r.Run(context.Background(), buildCommand(t, bin))

	require.NoError(t, res.Err)
	assert.Empty(t, stderr.String())
	assert.Contains(t, res.Stderr, "slow network")
}

func TestRun_LaunchFailure(t *testing.T) {
	r, _, stderr := newTestRunner(t.TempDir())
	cmd := buildCommand(t, filepath.Join(t.TempDir(), "does-not-exist"))

	res := r.Run(context.Background(), cmd)

	assert.Equal(t, Failed, res.State)
	assert.Equal(t, -1, res.ExitCode)
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "failed to start")
	assert.Contains(t, stderr.String(), "Error running command")
}

func TestRun_CancelKillsChild(t *testing.T) {
	bin := fakePake(t, "echo started\nexec sleep 30\n")
	r, _, _ := newTestRunner(t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(200 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	res := r.Run(ctx, buildCommand(t, bin))

	assert.Less(t, time.Since(start), 10*time.Second)
	assert.Equal(t, Failed, res.State)
	assert.ErrorIs(t, res.Err, context.Canceled)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "NOT_STARTED", NotStarted.String())
	assert.Equal(t, "RUNNING", Running.String())
	assert.Equal(t, "SUCCEEDED", Succeeded.String())
	assert.Equal(t, "FAILED", Failed.String())
	assert.Equal(t, "State(9)", State(9).String())
}
