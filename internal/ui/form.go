// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package ui implements the Bubble Tea form that collects the URL, icon and
// confirmation for a build.
package ui

import (
	"fmt"
	"io"
	"strings"

	"pakewrapper/internal/pake"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// step is the form field currently being edited.
type step int

const (
	stepURL step = iota
	stepIcon
	stepConfirm
)

// Result is what the form collected when it exited.
type Result struct {
	URL  string
	Icon string
	// Confirmed is true only if the user accepted the command preview.
	Confirmed bool
	// Aborted is true when the user quit with ctrl+c.
	Aborted bool
}

// Model is the form's Bubble Tea model.
type Model struct {
	opts   pake.Options
	keymap KeyMap
	inputs []textinput.Model
	step   step

	command pake.Command
	err     error
	result  Result
	done    bool
}

// NewForm returns a form that previews commands built with opts.
func NewForm(opts pake.Options) Model {
	inputs := make([]textinput.Model, 2)
	var t textinput.Model

	t = textinput.New()
	t.Placeholder = "example.com"
	t.Focus() // Initial focus
	t.CharLimit = 2048
	t.Width = 60
	inputs[stepURL] = t

	t = textinput.New()
	t.Placeholder = "~/icons/app.icns (optional)"
	t.CharLimit = 1024
	t.Width = 60
	inputs[stepIcon] = t

	return Model{opts: opts, keymap: DefaultKeyMap, inputs: inputs}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Result returns the collected answers. It is meaningful once the program exits.
func (m Model) Result() Result {
	return m.result
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.done = true
	return m, tea.Quit
}

func (m Model) focus(s step) (Model, tea.Cmd) {
	m.step = s
	m.err = nil
	var cmd tea.Cmd
	for i := range m.inputs {
		if step(i) == s {
			cmd = m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return m, cmd
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateInput(msg)
	}

	if key.Matches(keyMsg, m.keymap.Quit) {
		m.result.Aborted = true
		return m.quit()
	}

	switch m.step {
	case stepURL:
		switch {
		case key.Matches(keyMsg, m.keymap.Esc):
			return m.quit()
		case key.Matches(keyMsg, m.keymap.Enter):
			return m.submitURL()
		}
	case stepIcon:
		switch {
		case key.Matches(keyMsg, m.keymap.Esc):
			return m.focus(stepURL)
		case key.Matches(keyMsg, m.keymap.Enter):
			return m.submitIcon()
		}
	case stepConfirm:
		switch {
		case key.Matches(keyMsg, m.keymap.Yes):
			m.result.Confirmed = true
			return m.quit()
		case key.Matches(keyMsg, m.keymap.No):
			return m.quit()
		case key.Matches(keyMsg, m.keymap.Esc):
			return m.focus(stepIcon)
		}
		return m, nil
	}

	return m.updateInput(msg)
}

func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.step == stepConfirm {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.step], cmd = m.inputs[m.step].Update(msg)
	return m, cmd
}

func (m Model) submitURL() (tea.Model, tea.Cmd) {
	u, err := pake.ValidateURL(m.inputs[stepURL].Value())
	if err != nil {
		m.err = err
		return m, nil
	}
	if pake.AppName(u) == "" {
		m.err = fmt.Errorf("%w %q", pake.ErrEmptyAppName, u)
		return m, nil
	}
	m.result.URL = u
	return m.focus(stepIcon)
}

func (m Model) submitIcon() (tea.Model, tea.Cmd) {
	icon, err := pake.ValidateIcon(m.inputs[stepIcon].Value())
	if err != nil {
		m.err = err
		return m, nil
	}
	command, err := pake.Build(m.opts, m.result.URL, icon)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.result.Icon = icon
	m.command = command
	return m.focus(stepConfirm)
}

func (m Model) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("PakeWrapper - App Builder"))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Site URL"))
	b.WriteString("\n")
	if m.step == stepURL {
		b.WriteString(m.inputs[stepURL].View())
	} else {
		b.WriteString(valueStyle.Render(m.result.URL))
	}
	b.WriteString("\n\n")

	if m.step >= stepIcon {
		b.WriteString(labelStyle.Render("Icon path"))
		b.WriteString("\n")
		if m.step == stepIcon {
			b.WriteString(m.inputs[stepIcon].View())
		} else if m.result.Icon == "" {
			b.WriteString(valueStyle.Render("(none)"))
		} else {
			b.WriteString(valueStyle.Render(m.result.Icon))
		}
		b.WriteString("\n\n")
	}

	if m.step == stepConfirm {
		b.WriteString(labelStyle.Render("Command to be executed"))
		b.WriteString("\n")
		b.WriteString(commandStyle.Render(m.command.String()))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("Proceed? (y/n)"))
		b.WriteString("\n\n")
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderFooter())
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderFooter() string {
	var parts []string
	for _, binding := range m.keymap.helpFor(m.step) {
		h := binding.Help()
		parts = append(parts, footerKeyStyle.Render(h.Key)+" "+footerStyle.Render(h.Desc))
	}
	return strings.Join(parts, footerSeparatorStyle.Render(" | "))
}

// Run shows the form on the given terminal streams and returns what was collected.
func Run(opts pake.Options, in io.Reader, out io.Writer) (Result, error) {
	p := tea.NewProgram(NewForm(opts), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return Result{}, fmt.Errorf("form failed: %w", err)
	}
	m, ok := final.(Model)
	if !ok {
		return Result{}, fmt.Errorf("unexpected form model %T", final)
	}
	return m.Result(), nil
}
