// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package preflight checks the environment before anything is spawned.
package preflight

import (
	"errors"
	"fmt"
	"os"
)

var (
	ErrBinaryMissing = errors.New("pake binary not found")
	ErrPrivileged    = errors.New("refusing to run as root")
)

// Binary fails if nothing exists at path.
func Binary(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w at %s", ErrBinaryMissing, path)
		}
		return fmt.Errorf("cannot check pake binary at %s: %w", path, err)
	}
	return nil
}

// Unprivileged fails for the superuser. A negative euid means the platform has
// no such notion and always passes.
func Unprivileged(euid int) error {
	if euid == 0 {
		return ErrPrivileged
	}
	return nil
}

// Check runs the privilege check followed by the binary check.
func Check(path string, euid int) error {
	if err := Unprivileged(euid); err != nil {
		return err
	}
	return Binary(path)
}
