// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package pake

import (
	"fmt"
	"strconv"

	"pakewrapper/internal/util"
)

// Options holds the fixed parts of every Pake invocation.
type Options struct {
	Binary    string
	Width     int
	Height    int
	MultiArch bool
}

// Command is a fully built Pake invocation.
type Command struct {
	Path    string
	Args    []string
	AppName string
	URL     string
	Icon    string
}

// Build assembles the Pake command for a validated URL and optional icon path.
func Build(opts Options, targetURL, icon string) (Command, error) {
	name := AppName(targetURL)
	if name == "" {
		return Command{}, fmt.Errorf("%w %q", ErrEmptyAppName, targetURL)
	}

	args := []string{
		targetURL,
		"--name", name,
		"--width", strconv.Itoa(opts.Width),
		"--height", strconv.Itoa(opts.Height),
	}
	if opts.MultiArch {
		args = append(args, "--multi-arch")
	}
	if icon != "" {
		args = append(args, "--icon", icon)
	}

	return Command{
		Path:    opts.Binary,
		Args:    args,
		AppName: name,
		URL:     targetURL,
		Icon:    icon,
	}, nil
}

// Argv returns the binary followed by its arguments.
func (c Command) Argv() []string {
	return append([]string{c.Path}, c.Args...)
}

// Bundle is the file name of the application bundle Pake is expected to produce.
func (c Command) Bundle() string {
	return c.AppName + ".app"
}

// String renders the command for display.
func (c Command) String() string {
	return util.JoinForShell(c.Argv())
}
