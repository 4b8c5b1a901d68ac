// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// This file defines the keyboard bindings for the build form.

package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the form.
type KeyMap struct {
	Quit  key.Binding // Abort the whole program
	Enter key.Binding // Submit the current field
	Esc   key.Binding // Go back a field, or cancel from the first one
	Yes   key.Binding // Confirm the build
	No    key.Binding // Decline the build
}

// DefaultKeyMap provides the default keybindings.
var DefaultKeyMap = KeyMap{
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "next"),
	),
	Esc: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Yes: key.NewBinding(
		key.WithKeys("y", "Y"),
		key.WithHelp("y", "build"),
	),
	No: key.NewBinding(
		key.WithKeys("n", "N"),
		key.WithHelp("n", "cancel"),
	),
}

// helpFor returns the bindings shown in the footer for a step.
func (k KeyMap) helpFor(s step) []key.Binding {
	if s == stepConfirm {
		return []key.Binding{k.Yes, k.No, k.Esc, k.Quit}
	}
	return []key.Binding{k.Enter, k.Esc, k.Quit}
}
