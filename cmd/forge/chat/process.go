package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"forge/internal/ingest"
	"forge/internal/mutate"
	"forge/internal/proposal"
	"forge/internal/session"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// turnResultMsg carries the outcome of one model call.
type turnResultMsg struct {
	proposal *proposal.Proposal
	raw      string
	err      error
}

// ingestResultMsg carries the outcome of an /add command.
type ingestResultMsg struct {
	path   string
	report *ingest.Report
	err    error
}

// submitTurn appends the user entry and fires the model call. The entry is
// appended before the call: on cancellation the user turn stays in history
// and no assistant turn is added.
func (m *Model) submitTurn(input string) tea.Cmd {
	m.transcript.Append(session.RoleUser, input)
	m.history = append(m.history, message{role: session.RoleUser, content: input})

	ctx, cancel := context.WithCancel(context.Background())
	m.cancelTurn = cancel
	m.isLoading = true

	history := m.transcript.Snapshot()
	client := m.client
	log := m.log
	return func() tea.Msg {
		raw, err := client.Chat(ctx, history)
		if err != nil {
			return turnResultMsg{err: err}
		}
		log.Debug("model response received", zap.Int("bytes", len(raw)))

		p, err := proposal.Parse(raw)
		if err != nil {
			return turnResultMsg{raw: raw, err: err}
		}
		return turnResultMsg{proposal: p, raw: raw}
	}
}

// finishTurn processes a completed model call: append the assistant turn,
// apply creates unconditionally, then park any edits behind the y/n gate.
func (m *Model) finishTurn(msg turnResultMsg) {
	m.isLoading = false
	if m.cancelTurn != nil {
		// Release the turn context even when the call completed.
		m.cancelTurn()
		m.cancelTurn = nil
	}

	if msg.err != nil {
		if errors.Is(msg.err, context.Canceled) {
			// Interrupted call: no assistant turn is appended.
			m.pushNotice("Interrupted. The pending model call was discarded.")
			return
		}

		var schemaErr *proposal.SchemaError
		if errors.As(msg.err, &schemaErr) {
			m.log.Warn("model response failed validation", zap.String("reason", schemaErr.Reason))
			m.pushNotice(fmt.Sprintf("Turn failed: %s\n\nRaw response:\n%s",
				schemaErr.Reason, truncate(schemaErr.Raw, 2000)))
			return
		}

		m.log.Error("model call failed", zap.Error(msg.err))
		m.pushNotice("Turn failed: " + msg.err.Error())
		return
	}

	// The raw payload is the canonical assistant turn: replaying it keeps
	// the model consistent with its own earlier output format.
	m.transcript.Append(session.RoleAssistant, msg.raw)
	m.history = append(m.history, message{role: session.RoleAssistant, content: msg.proposal.AssistantReply})

	m.applyCreates(msg.proposal.FilesToCreate)

	if len(msg.proposal.FilesToEdit) > 0 {
		m.pendingEdits = msg.proposal.FilesToEdit
		m.awaitingConfirm = true
		m.pushNotice(renderEditPreview(msg.proposal.FilesToEdit) +
			"\nApply these edits? (y/n)")
	}
}

// applyCreates writes each create instruction in order. Creates are
// additive, so they apply without confirmation; one failure never blocks
// the rest of the batch.
func (m *Model) applyCreates(creates []proposal.FileCreate) {
	for _, c := range creates {
		if err := mutate.WriteFile(c.Path, c.Content); err != nil {
			m.log.Error("create failed", zap.String("path", c.Path), zap.Error(err))
			m.pushNotice("✗ Could not create " + c.Path + ": " + err.Error())
			continue
		}
		m.log.Info("file created", zap.String("path", c.Path), zap.Int("bytes", len(c.Content)))
		m.pushNotice("✓ Created " + c.Path)
	}
}

// applyPendingEdits applies the confirmed batch sequentially. Instructions
// are independent: a missing file or stale snippet is reported per
// instruction and the remainder still runs.
func (m *Model) applyPendingEdits() {
	for _, e := range m.pendingEdits {
		err := mutate.ApplyEdit(e.Path, e.OriginalSnippet, e.NewSnippet)
		switch {
		case errors.Is(err, mutate.ErrFileNotFound):
			m.pushNotice("✗ " + e.Path + ": file not found")
		case errors.Is(err, mutate.ErrSnippetNotFound):
			m.pushNotice("✗ " + e.Path + ": snippet not found, file unchanged")
		case err != nil:
			m.log.Error("edit failed", zap.String("path", e.Path), zap.Error(err))
			m.pushNotice("✗ " + e.Path + ": " + err.Error())
		default:
			m.log.Info("edit applied", zap.String("path", e.Path))
			m.pushNotice("✓ Edited " + e.Path)
		}
	}
	m.pendingEdits = nil
	m.awaitingConfirm = false
}

// runIngest routes an /add path through the ingestor off the UI thread.
func (m *Model) runIngest(path string) tea.Cmd {
	ingestor := m.ingestor
	return func() tea.Msg {
		report, err := ingestor.AddPath(path)
		return ingestResultMsg{path: path, report: report, err: err}
	}
}

// finishIngest renders an ingestion outcome and reopens the input gate.
func (m *Model) finishIngest(msg ingestResultMsg) {
	m.isIngesting = false

	if msg.err != nil {
		if errors.Is(msg.err, ingest.ErrInvalidPath) {
			m.pushNotice("✗ Invalid path '" + msg.path + "': parent directory references are not allowed.")
			return
		}
		m.pushNotice("✗ Could not add '" + msg.path + "': " + msg.err.Error())
		return
	}

	var sb strings.Builder
	sb.WriteString("✓ Added '" + msg.path + "' to the conversation: " + msg.report.Summary() + "\n")
	for _, p := range msg.report.Added {
		sb.WriteString("  + " + p + "\n")
	}
	for _, s := range msg.report.Skipped {
		sb.WriteString("  - " + s.Path + " (" + string(s.Reason) + ")\n")
	}
	m.pushNotice(strings.TrimRight(sb.String(), "\n"))
}

// renderEditPreview shows the pending batch before the confirmation gate.
func renderEditPreview(edits []proposal.FileEdit) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Proposed edits (%d):\n", len(edits)))
	for i, e := range edits {
		sb.WriteString(fmt.Sprintf("  %d. %s  (replace %d bytes with %d bytes)\n",
			i+1, e.Path, len(e.OriginalSnippet), len(e.NewSnippet)))
		sb.WriteString("     - " + firstLine(e.OriginalSnippet) + "\n")
		sb.WriteString("     + " + firstLine(e.NewSnippet) + "\n")
	}
	return sb.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return truncate(s[:i], 80) + " …"
	}
	return truncate(s, 80)
}

// truncate cuts s to at most n bytes, backing up to a rune boundary so a
// multi-byte character is never split.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "…"
}
