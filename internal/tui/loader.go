package tui

import (
	"context"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type loaderDoneMsg struct {
	result string
	err    error
}

type loaderModel struct {
	label   string
	ctx     context.Context
	cancel  context.CancelFunc
	fn      func(ctx context.Context) (string, error)
	spinner spinner.Model
	result  string
	err     error
	done    bool
}

func (m loaderModel) Init() tea.Cmd {
	return tea.Batch(m.run(), m.spinner.Tick)
}

func (m loaderModel) run() tea.Cmd {
	ctx, fn := m.ctx, m.fn
	return func() tea.Msg {
		result, err := fn(ctx)
		return loaderDoneMsg{result: result, err: err}
	}
}

func (m loaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loaderDoneMsg:
		m.result = msg.result
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		// The request sees the cancellation and finishes with context.Canceled.
		if msg.String() == "ctrl+c" || msg.String() == "esc" {
			m.cancel()
		}
	}
	return m, nil
}

func (m loaderModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + m.label + "\n"
}

// RunLoader shows a spinner on stderr while fn runs. It renders inline (no
// alt screen) so stdout carries only the result. ctrl+c cancels fn's context.
func RunLoader(ctx context.Context, label string, fn func(ctx context.Context) (string, error)) (string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))

	m := loaderModel{
		label:   label,
		ctx:     ctx,
		cancel:  cancel,
		fn:      fn,
		spinner: sp,
	}
	p := tea.NewProgram(m, tea.WithOutput(os.Stderr))
	result, err := p.Run()
	if err != nil {
		return "", err
	}
	final := result.(loaderModel)
	return final.result, final.err
}
