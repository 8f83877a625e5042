package chat

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const helpText = `Commands:
  /add <path>   add a file, or every eligible file in a folder, to the conversation
  /help         show this help
  exit | quit   end the session

Anything else is sent to the model. File creations proposed by the model are
applied immediately; edits are listed first and only applied after you
confirm with y.`

// handleSubmit routes one line of user input. While an edit batch is
// pending, all input goes through the confirmation gate first.
func (m *Model) handleSubmit(input string) tea.Cmd {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}

	// An in-flight /add walk appends to the transcript from its own
	// goroutine; nothing else may write until it reports back.
	if m.isIngesting {
		return nil
	}

	if m.awaitingConfirm {
		m.handleConfirm(input)
		return nil
	}

	switch {
	case strings.EqualFold(input, "exit"), strings.EqualFold(input, "quit"):
		m.pushNotice("Goodbye!")
		return tea.Quit

	case input == "/help":
		m.pushNotice(helpText)
		return nil

	case strings.HasPrefix(input, "/add"):
		path := strings.TrimSpace(strings.TrimPrefix(input, "/add"))
		if path == "" {
			m.pushNotice("Usage: /add <path>")
			return nil
		}
		m.isIngesting = true
		return m.runIngest(path)

	case strings.HasPrefix(input, "/"):
		m.pushNotice("Unknown command " + input + ". Type /help for commands.")
		return nil

	default:
		return m.submitTurn(input)
	}
}

// handleConfirm resolves the pending edit batch. Only an explicit yes
// applies; anything else discards the batch untouched.
func (m *Model) handleConfirm(input string) {
	switch strings.ToLower(input) {
	case "y", "yes":
		m.applyPendingEdits()
	default:
		m.pendingEdits = nil
		m.awaitingConfirm = false
		m.pushNotice("Skipped applying edits.")
	}
}
