package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/LeoncioDev/github-analyzer/internal/display"
)

// Run starts the full-screen page and blocks until the user quits or ctx is
// cancelled. Requests started from the page are bound to ctx.
func Run(ctx context.Context, m Model) error {
	m.ctx = ctx
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	// Observers run on request goroutines and sometimes inside Update, so the
	// send must not block the event loop.
	m.ctrl.Region().Observe(display.ObserverFunc(func(display.Snapshot) {
		go p.Send(regionChangedMsg{})
	}))

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
