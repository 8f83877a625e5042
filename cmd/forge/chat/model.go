// Package chat implements the interactive TUI loop for forge: user turns
// in, model proposals out, with file ingestion via /add and an explicit
// confirmation gate in front of every edit batch.
package chat

import (
	"context"

	"forge/cmd/forge/ui"
	"forge/internal/config"
	"forge/internal/ingest"
	"forge/internal/llm"
	"forge/internal/proposal"
	"forge/internal/session"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"
)

// message is a display-side record. The transcript remains the source of
// truth for what the model sees; this slice only drives rendering.
type message struct {
	role    session.Role
	content string
	notice  bool // status output (ingest reports, edit results), not a turn
}

// Model is the bubbletea model for the chat session.
type Model struct {
	// UI components
	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	styles   ui.Styles
	renderer *glamour.TermRenderer

	// Session state
	cfg        *config.Config
	log        *zap.Logger
	transcript *session.Transcript
	ingestor   *ingest.Ingestor
	client     llm.Client
	workspace  string

	history []message

	// Pending edit batch awaiting the y/n gate.
	pendingEdits    []proposal.FileEdit
	awaitingConfirm bool

	// In-flight model call; cancelTurn interrupts it.
	isLoading  bool
	cancelTurn context.CancelFunc

	// In-flight /add walk. The transcript is single-writer, so input is
	// gated while the walk goroutine appends to it.
	isIngesting bool

	width  int
	height int
	ready  bool
	err    error
}

// New assembles the chat model. The transcript arrives already seeded with
// the system prompt.
func New(cfg *config.Config, client llm.Client, transcript *session.Transcript, workspace string, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}

	ta := textarea.New()
	ta.Placeholder = "Ask forge, or /add <path> to share files..."
	ta.Focus()
	ta.Prompt = "> "
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		// Markdown falls back to plain text.
		renderer = nil
	}

	return Model{
		textarea:   ta,
		spinner:    sp,
		styles:     ui.DefaultStyles(),
		renderer:   renderer,
		cfg:        cfg,
		log:        log.Named("chat"),
		transcript: transcript,
		ingestor:   ingest.New(transcript, log),
		client:     client,
		workspace:  workspace,
		history: []message{{
			role:    session.RoleAssistant,
			content: welcomeText,
			notice:  true,
		}},
	}
}

// Init starts the cursor blink and spinner tickers.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick)
}

// pushNotice appends status output to the display history.
func (m *Model) pushNotice(content string) {
	m.history = append(m.history, message{role: session.RoleSystem, content: content, notice: true})
}

const welcomeText = `Welcome to **forge**.

Use /add to include files in the conversation:
  - ` + "`/add path/to/file`" + ` for a single file
  - ` + "`/add path/to/folder`" + ` for all eligible files in a folder

Type /help for commands, exit or quit to end the session.`
