// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package pake

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pakewrapper/internal/util"
)

var iconExtensions = []string{".icns", ".png"}

// ValidateIcon resolves raw to an absolute path of an existing .icns or .png file.
// Empty input means "no icon" and returns ("", nil).
func ValidateIcon(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}

	expanded, err := util.ExpandHome(raw)
	if err != nil {
		return "", fmt.Errorf("error processing icon: %w", err)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("error processing icon: %w", err)
	}

	if _, err := os.Stat(abs); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w at %s", ErrIconNotFound, abs)
		}
		return "", fmt.Errorf("error processing icon %s: %w", abs, err)
	}

	ext := strings.ToLower(filepath.Ext(abs))
	for _, allowed := range iconExtensions {
		if ext == allowed {
			return abs, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrIconExtension, abs)
}
