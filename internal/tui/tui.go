// Package tui is the interactive bubbletea picker over a session.
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/papapumpkin/pickgraph/internal/filter"
	"github.com/papapumpkin/pickgraph/internal/session"
)

// Program is an alias for tea.Program, exposed so callers don't need
// to import bubbletea directly.
type Program = tea.Program

// NewProgram creates a picker program over sess. The program uses the
// alternate screen buffer and wires the filter debouncer to program.Send.
func NewProgram(sess *session.Session, debouncer *filter.Debouncer, opts ...tea.ProgramOption) *Program {
	model := NewModel(sess, debouncer)
	allOpts := append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)

	var p *tea.Program
	model.Send = func(msg tea.Msg) { p.Send(msg) }
	p = tea.NewProgram(model, allOpts...)
	return p
}

// Run shows the picker until the user confirms or quits. It reports
// whether the selection was confirmed.
func Run(sess *session.Session, debouncer *filter.Debouncer, opts ...tea.ProgramOption) (bool, error) {
	final, err := NewProgram(sess, debouncer, opts...).Run()
	if err != nil {
		return false, fmt.Errorf("TUI error: %w", err)
	}
	m, ok := final.(Model)
	return ok && m.Confirmed, nil
}
