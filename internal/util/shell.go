// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package util

import "strings"

// shellSafe reports whether arg can be pasted into a POSIX shell unquoted.
func shellSafe(arg string) bool {
	if arg == "" {
		return false
	}
	for _, r := range arg {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune("-_./:=,+@%", r):
		default:
			return false
		}
	}
	return true
}

// QuoteArgForShell quotes an argument for safe use in a POSIX shell command.
// It uses single quotes and escapes any internal single quotes. Arguments made
// only of safe characters are returned unchanged.
func QuoteArgForShell(arg string) string {
	if shellSafe(arg) {
		return arg
	}
	quotedArg := strings.ReplaceAll(arg, "'", `'\''`)
	return `'` + quotedArg + `'`
}

// JoinForShell renders args as a single copy-pasteable command line.
// The result is for display only; commands are always executed as an argument vector.
func JoinForShell(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		quoted[i] = QuoteArgForShell(arg)
	}
	return strings.Join(quoted, " ")
}
