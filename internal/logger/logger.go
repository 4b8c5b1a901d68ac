// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package logger provides the application logger: structured records appended to
// a log file, with warnings and errors echoed to the console in color.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fatih/color"
)

var (
	warnColor  = color.New(color.FgYellow)
	errorColor = color.New(color.FgRed)
)

// Options configures a Logger.
type Options struct {
	// FilePath is the log file. Empty disables file logging.
	FilePath string
	// Console receives warnings and errors. Nil disables the echo.
	Console io.Writer
	// Verbose lowers the file level to Debug.
	Verbose bool
}

// Logger writes records to the log file and echoes warnings and errors to the console.
type Logger struct {
	file    *slog.Logger
	handle  *os.File
	console io.Writer
}

// openLogFile creates the log directory (0750) and opens the file for appending (0640).
func openLogFile(path string) (*os.File, error) {
	logDir := filepath.Dir(path)
	if err := os.MkdirAll(logDir, 0750); err != nil {
		return nil, fmt.Errorf("error creating log directory %s: %w", logDir, err)
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
	if err != nil {
		return nil, fmt.Errorf("error opening log file %s: %w", path, err)
	}
	return file, nil
}

// New builds a Logger. If the log file cannot be opened the error is returned
// together with a usable console-only Logger, so callers may warn and continue.
func New(opts Options) (*Logger, error) {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}

	l := &Logger{console: opts.Console}

	var fileErr error
	var w io.Writer = io.Discard
	if opts.FilePath != "" {
		file, err := openLogFile(opts.FilePath)
		if err != nil {
			fileErr = err
		} else {
			l.handle = file
			w = file
		}
	}

	l.file = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return l, fileErr
}

// Discard returns a Logger that drops everything. Used by tests and as a fallback.
func Discard() *Logger {
	return &Logger{file: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.handle == nil {
		return nil
	}
	err := l.handle.Close()
	l.handle = nil
	return err
}

// With returns a Logger whose file records carry the given attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{file: l.file.With(args...), console: l.console}
}

func (l *Logger) echo(c *color.Color, msg string) {
	if l.console == nil {
		return
	}
	c.Fprintln(l.console, msg)
}

// Info logs an informational message.
func (l *Logger) Info(msg string, args ...any) {
	l.file.Info(msg, args...)
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...any) {
	l.file.Debug(msg, args...)
}

// Warn logs a warning message and prints it in yellow.
func (l *Logger) Warn(msg string, args ...any) {
	l.file.Warn(msg, args...)
	l.echo(warnColor, msg)
}

// Error logs an error message and prints it in red.
func (l *Logger) Error(msg string, args ...any) {
	l.file.Error(msg, args...)
	l.echo(errorColor, msg)
}

// Errorf logs a formatted error message and prints it in red.
func (l *Logger) Errorf(format string, v ...any) {
	l.Error(fmt.Sprintf(format, v...))
}
