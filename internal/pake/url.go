// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package pake validates user input and builds Pake command lines.
package pake

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	ErrEmptyURL      = errors.New("URL is required")
	ErrInvalidURL    = errors.New("invalid URL")
	ErrEmptyAppName  = errors.New("cannot derive an app name from URL")
	ErrIconNotFound  = errors.New("icon not found")
	ErrIconExtension = errors.New("icon must be .icns or .png")
)

// ValidateURL normalizes raw into an absolute http(s) URL.
// A missing scheme is replaced by "https://".
func ValidateURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyURL
	}

	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: %q has no host", ErrInvalidURL, raw)
	}

	return u.String(), nil
}

// authority returns userinfo@host:port as it appears in the URL.
func authority(u *url.URL) string {
	if u.User == nil {
		return u.Host
	}
	return u.User.String() + "@" + u.Host
}

// AppName derives the bundle name from the URL authority: ASCII letters and
// digits only, lower-cased. It returns "" when rawURL cannot be parsed.
func AppName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	var b strings.Builder
	for _, r := range authority(u) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		}
	}
	return b.String()
}
