// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package session

import "errors"

// Every run ends with nil or an error matching exactly one of these.
var (
	ErrEnvironment = errors.New("environment check failed")
	ErrValidation  = errors.New("invalid input")
	ErrExecution   = errors.New("build failed")
	ErrCancelled   = errors.New("cancelled by user")
	ErrInterrupted = errors.New("interrupted by user")
)

// ExitCode maps a session result to the process exit status.
// Success and an explicit "no" at the confirmation prompt exit 0.
func ExitCode(err error) int {
	if err == nil || errors.Is(err, ErrCancelled) {
		return 0
	}
	return 1
}
