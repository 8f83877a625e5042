package chat

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Update is the bubbletea event loop. The session itself is strictly
// sequential: one user turn at a time, and while a model call is in flight
// the input only accepts the interrupt.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 3
		inputHeight := m.textarea.Height() + 2
		footerHeight := 2
		vpHeight := msg.Height - headerHeight - inputHeight - footerHeight
		if vpHeight < 3 {
			vpHeight = 3
		}

		if !m.ready {
			m.viewport = viewport.New(msg.Width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = vpHeight
		}
		m.textarea.SetWidth(msg.Width - 4)
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			if m.isLoading && m.cancelTurn != nil {
				m.cancelTurn()
				return m, nil
			}
			return m, tea.Quit

		case tea.KeyEnter:
			if m.isLoading || m.isIngesting {
				return m, nil
			}
			input := m.textarea.Value()
			m.textarea.Reset()
			cmd := m.handleSubmit(input)
			m.refreshViewport()
			return m, cmd
		}

	case turnResultMsg:
		m.finishTurn(msg)
		m.refreshViewport()
		return m, nil

	case ingestResultMsg:
		m.finishIngest(msg)
		m.refreshViewport()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var taCmd, vpCmd tea.Cmd
	m.textarea, taCmd = m.textarea.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	cmds = append(cmds, taCmd, vpCmd)

	return m, tea.Batch(cmds...)
}

// refreshViewport re-renders history into the viewport and follows the
// tail.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
}
