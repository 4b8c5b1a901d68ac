// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package session drives one interactive build: environment check, prompts,
// validation, confirmation, execution and the final report.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"pakewrapper/internal/config"
	"pakewrapper/internal/logger"
	"pakewrapper/internal/pake"
	"pakewrapper/internal/preflight"
	"pakewrapper/internal/runner"

	"github.com/fatih/color"
)

var (
	bannerColor  = color.New(color.Bold)
	statusColor  = color.New(color.FgCyan)
	noticeColor  = color.New(color.FgYellow)
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
)

var postInstallSuggestions = []string{
	"1. The app was created in the current folder",
	"2. Drag it to the Applications folder",
	"3. Open it once and allow it under Privacy & Security",
}

// Executor runs a built command. *runner.Runner is the production implementation.
type Executor interface {
	Run(ctx context.Context, c pake.Command) runner.Result
}

// Inputs are answers supplied up front (flags or the TUI form) instead of prompts.
type Inputs struct {
	URL  string
	Icon string
}

// Options wires a Session to its environment. Zero values fall back to the
// process's stdio, os.Geteuid and a runner.Runner.
type Options struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	// Inputs skips the URL and icon prompts when set.
	Inputs *Inputs
	// AssumeYes skips the confirmation prompt.
	AssumeYes bool

	// Dir is where Pake runs and where the bundle is expected.
	Dir       string
	Indicator runner.Indicator
	Executor  Executor
	Geteuid   func() int
}

// Session holds everything needed for one build.
type Session struct {
	cfg  config.Config
	log  *logger.Logger
	opts Options

	reader *lineReader
}

// New returns a Session for cfg. log must not be nil.
func New(cfg config.Config, log *logger.Logger, opts Options) *Session {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	if opts.Geteuid == nil {
		opts.Geteuid = os.Geteuid
	}
	if opts.Executor == nil {
		opts.Executor = &runner.Runner{
			Stdout:    opts.Out,
			Stderr:    opts.Err,
			Dir:       opts.Dir,
			Indicator: opts.Indicator,
			Log:       log,
		}
	}
	return &Session{cfg: cfg, log: log, opts: opts}
}

// Run performs the whole build and prints the outcome. The returned error
// matches one of the package's sentinel errors; pass it to ExitCode.
func (s *Session) Run(ctx context.Context) error {
	err := s.run(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ErrInterrupted):
		s.Interrupted()
	case errors.Is(err, ErrCancelled):
		s.Cancelled()
	}
	return err
}

// Cancelled reports that the user declined the build and returns ErrCancelled.
func (s *Session) Cancelled() error {
	s.log.Info("build cancelled at confirmation")
	noticeColor.Fprintln(s.opts.Out, "Operation cancelled.")
	return ErrCancelled
}

// Interrupted reports a user interrupt and returns ErrInterrupted.
func (s *Session) Interrupted() error {
	s.log.Info("operation interrupted by user")
	noticeColor.Fprintln(s.opts.Out, "\nOperation interrupted by user.")
	return ErrInterrupted
}

func (s *Session) run(ctx context.Context) error {
	if err := preflight.Check(s.cfg.PakePath, s.opts.Geteuid()); err != nil {
		s.log.Errorf("Error: %v", err)
		return fmt.Errorf("%w: %w", ErrEnvironment, err)
	}

	bannerColor.Fprintln(s.opts.Out, "=== PakeWrapper - App Builder ===")

	rawURL, rawIcon, err := s.collect(ctx)
	if err != nil {
		return err
	}

	targetURL, err := pake.ValidateURL(rawURL)
	if err != nil {
		s.log.Errorf("Error: invalid URL - %v", err)
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	if s.opts.Inputs == nil {
		rawIcon, err = s.prompt(ctx, "\nEnter the icon path (optional): ")
		if err != nil {
			return err
		}
	}
	icon, err := pake.ValidateIcon(rawIcon)
	if err != nil {
		s.log.Errorf("Error: %v", err)
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	cmd, err := pake.Build(s.cfg.PakeOptions(), targetURL, icon)
	if err != nil {
		s.log.Errorf("Error: %v", err)
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	s.log.Info("command built", "url", cmd.URL, "name", cmd.AppName, "icon", cmd.Icon)

	statusColor.Fprintln(s.opts.Out, "\nCommand to be executed:")
	fmt.Fprintln(s.opts.Out, cmd.String())

	if err := s.confirm(ctx); err != nil {
		return err
	}

	return s.execute(ctx, cmd)
}

// collect returns the raw URL, prompting unless Inputs were supplied. The icon
// is only returned for preset inputs; it is prompted for after URL validation.
func (s *Session) collect(ctx context.Context) (string, string, error) {
	if s.opts.Inputs != nil {
		return s.opts.Inputs.URL, s.opts.Inputs.Icon, nil
	}
	rawURL, err := s.prompt(ctx, "\nEnter the site URL: ")
	return rawURL, "", err
}

// prompt prints label and reads one line. End of input counts as an empty answer.
func (s *Session) prompt(ctx context.Context, label string) (string, error) {
	if s.reader == nil {
		s.reader = newLineReader(s.opts.In)
	}
	fmt.Fprint(s.opts.Out, label)
	line, err := s.reader.next(ctx)
	switch {
	case err == nil:
		return line, nil
	case errors.Is(err, io.EOF):
		fmt.Fprintln(s.opts.Out)
		return "", nil
	case ctx.Err() != nil:
		return "", ErrInterrupted
	default:
		return "", fmt.Errorf("failed to read input: %w", err)
	}
}

func (s *Session) confirm(ctx context.Context) error {
	if s.opts.AssumeYes {
		s.log.Info("confirmation skipped")
		return nil
	}
	prompt := fmt.Sprintf("\nProceed? (%s/n): ", s.cfg.ConfirmToken)
	answer, err := s.prompt(ctx, prompt)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, s.cfg.ConfirmToken) {
		return ErrCancelled
	}
	return nil
}

func (s *Session) execute(ctx context.Context, cmd pake.Command) error {
	start := time.Now()
	statusColor.Fprintln(s.opts.Out, "\nStarting build...")
	noticeColor.Fprintln(s.opts.Out, "This may take a few minutes...")
	s.log.Info("build started", "argv", strings.Join(cmd.Argv(), " "))

	res := s.opts.Executor.Run(ctx, cmd)
	elapsed := time.Since(start)

	if ctx.Err() != nil {
		return ErrInterrupted
	}

	if !res.Succeeded() {
		s.log.Error("build failed", "error", res.Err, "exit_code", res.ExitCode, "elapsed", elapsed)
		errorColor.Fprintln(s.opts.Out, "\n✗ Failed to create the app.")
		fmt.Fprintf(s.opts.Out, "Elapsed time: %.2f seconds\n", elapsed.Seconds())
		return fmt.Errorf("%w: %w", ErrExecution, res.Err)
	}

	s.log.Info("build succeeded", "bundle", res.Artifact, "elapsed", elapsed)
	successColor.Fprintln(s.opts.Out, "\n✓ App created successfully!")
	fmt.Fprintf(s.opts.Out, "Elapsed time: %.2f seconds\n", elapsed.Seconds())

	bannerColor.Fprintln(s.opts.Out, "\nPost-install suggestions:")
	for _, line := range postInstallSuggestions {
		fmt.Fprintln(s.opts.Out, line)
	}
	return nil
}
