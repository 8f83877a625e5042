package chat

import (
	"strings"

	"forge/internal/session"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := m.renderHeader()
	content := m.styles.Content.Render(m.viewport.View())

	inputStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.styles.Theme.Accent).
		Padding(0, 1)
	inputArea := inputStyle.Render(m.textarea.View())

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		content,
		inputArea,
		m.renderFooter(),
	)
}

func (m Model) renderHeader() string {
	title := m.styles.Header.Render(" forge ")
	workspace := m.styles.Muted.Render(" " + m.workspace)

	var status string
	if m.isLoading {
		status = lipgloss.JoinHorizontal(lipgloss.Center,
			m.spinner.View(), " ", m.styles.Badge.Render("Thinking... (Ctrl+C to interrupt)"))
	} else if m.isIngesting {
		status = lipgloss.JoinHorizontal(lipgloss.Center,
			m.spinner.View(), " ", m.styles.Badge.Render("Adding files..."))
	} else if m.awaitingConfirm {
		status = m.styles.Warning.Render("Awaiting confirmation (y/n)")
	} else {
		status = m.styles.Success.Render("Ready")
	}

	line := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", status)
	return lipgloss.JoinVertical(lipgloss.Left, line, workspace, m.styles.RenderDivider(m.width))
}

func (m Model) renderFooter() string {
	hints := "/add <path> | /help | exit"
	if m.isLoading {
		hints = "Ctrl+C: interrupt | " + hints
	}
	return m.styles.Muted.Render(hints)
}

func (m Model) renderHistory() string {
	var sb strings.Builder

	for _, msg := range m.history {
		switch {
		case msg.notice:
			sb.WriteString(m.styles.Muted.Render(msg.content))
			sb.WriteString("\n\n")

		case msg.role == session.RoleUser:
			sb.WriteString(m.styles.Bold.Foreground(m.styles.Theme.Primary).Render("You") + "\n")
			sb.WriteString(m.styles.UserInput.Render(msg.content))
			sb.WriteString("\n\n")

		default:
			sb.WriteString(m.styles.Bold.Foreground(m.styles.Theme.Accent).Render("forge") + "\n")
			sb.WriteString(m.renderMarkdown(msg.content))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// renderMarkdown renders assistant markdown, falling back to plain text.
func (m Model) renderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = content
		}
	}()

	if m.renderer != nil && content != "" {
		if rendered, err := m.renderer.Render(content); err == nil {
			return rendered
		}
	}
	return content
}
