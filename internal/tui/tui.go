// Package tui provides the Bubble Tea chat interface. All
// conversation state lives in the session manager; the model only
// renders snapshots and dispatches manager calls as commands.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/joss/lawchat/internal/domain"
	"github.com/joss/lawchat/internal/session"
	lawstrings "github.com/joss/lawchat/internal/strings"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginLeft(2)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226")).
			Bold(true)

	assistantStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	inputBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				Padding(0, 1)
)

// View represents the current view mode
type View int

const (
	ViewChat View = iota
	ViewConversations
	ViewHelp
)

// Model is the main TUI model
type Model struct {
	// State
	view        View
	manager     *session.Manager
	snapshot    session.Snapshot
	selectedIdx int
	err         error
	ready       bool
	quitting    bool

	// Components
	spinner  spinner.Model
	input    textinput.Model
	viewport viewport.Model
	width    int
	height   int
}

// Message types
type refreshMsg struct{}
type selectDoneMsg struct{ err error }
type sendDoneMsg struct{}
type createDoneMsg struct{ ok bool }

// New creates a new TUI model
func New(manager *session.Manager) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ti := textinput.New()
	ti.Placeholder = "Ask a family law question..."
	ti.CharLimit = 2000
	ti.Width = 60
	ti.Focus()

	return Model{
		view:    ViewChat,
		manager: manager,
		spinner: s,
		input:   ti,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.loadConversations(),
	)
}

// Commands

func (m Model) loadConversations() tea.Cmd {
	mgr := m.manager
	return func() tea.Msg {
		mgr.LoadConversations(context.Background())
		return refreshMsg{}
	}
}

func (m Model) selectConversation(id int64) tea.Cmd {
	mgr := m.manager
	return func() tea.Msg {
		return selectDoneMsg{err: mgr.Select(context.Background(), id)}
	}
}

func (m Model) sendMessage() tea.Cmd {
	mgr := m.manager
	return func() tea.Msg {
		mgr.Send(context.Background())
		return sendDoneMsg{}
	}
}

func (m Model) createConversation() tea.Cmd {
	mgr := m.manager
	return func() tea.Msg {
		_, ok := mgr.NewConversation(context.Background())
		return createDoneMsg{ok: ok}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 3
		footerHeight := 5
		vp := viewport.New(msg.Width-4, msg.Height-headerHeight-footerHeight)
		vp.SetContent(m.renderTranscript())
		vp.GotoBottom()
		m.viewport = vp
		m.input.Width = msg.Width - 8
		m.ready = true

	case refreshMsg:
		m.snapshot = m.manager.Snapshot()
		m.syncViewport()

	case selectDoneMsg:
		m.snapshot = m.manager.Snapshot()
		m.syncViewport()
		m.view = ViewChat

	case createDoneMsg:
		m.snapshot = m.manager.Snapshot()
		m.syncViewport()
		if !msg.ok {
			m.err = fmt.Errorf("could not create conversation")
		}

	case sendDoneMsg:
		m.snapshot = m.manager.Snapshot()
		m.input.SetValue(m.snapshot.Input)
		m.syncViewport()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

		// Poll while a request is in flight so optimistic updates
		// and flag changes show up without waiting for completion.
		if m.busy() {
			m.snapshot = m.manager.Snapshot()
			m.syncViewport()
		}
	}

	if m.view == ViewChat {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "esc":
		if m.view != ViewChat {
			m.view = ViewChat
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit

	case "?":
		if m.view == ViewHelp {
			m.view = ViewChat
		} else {
			m.view = ViewHelp
		}
		return m, nil

	case "ctrl+l":
		if m.view == ViewChat {
			m.view = ViewConversations
			m.selectedIdx = m.selectedIndex()
			return m, m.loadConversations()
		}

	case "ctrl+n":
		if !m.busy() {
			return m, m.createConversation()
		}

	case "enter":
		if m.view == ViewConversations {
			conversations := m.snapshot.Conversations
			if m.selectedIdx >= 0 && m.selectedIdx < len(conversations) {
				return m, m.selectConversation(conversations[m.selectedIdx].ID)
			}
			return m, nil
		}
		if m.view == ViewChat && !m.busy() {
			m.manager.SetInput(m.input.Value())
			if strings.TrimSpace(m.input.Value()) == "" {
				return m, nil
			}
			// The manager owns the input buffer. Send clears it on
			// success and preserves it on failure, so the field is
			// synced from the snapshot once the round trip finishes.
			return m, tea.Batch(m.spinner.Tick, m.sendMessage())
		}

	case "up", "k":
		if m.view == ViewConversations && m.selectedIdx > 0 {
			m.selectedIdx--
		}

	case "down", "j":
		if m.view == ViewConversations && m.selectedIdx < len(m.snapshot.Conversations)-1 {
			m.selectedIdx++
		}
	}

	if m.view == ViewChat {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) busy() bool {
	f := m.snapshot.Flags
	return f.FetchingList || f.FetchingActive || f.WaitingForAssistant || f.Creating
}

func (m Model) selectedIndex() int {
	if !m.snapshot.HasActive {
		return 0
	}
	for i, c := range m.snapshot.Conversations {
		if c.ID == m.snapshot.ActiveID {
			return i
		}
	}
	return 0
}

func (m *Model) syncViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m Model) renderTranscript() string {
	if !m.snapshot.HasActive {
		return infoStyle.Render("No conversation selected. Press ctrl+n to start one.")
	}

	width := m.viewport.Width
	if width <= 0 {
		width = 76
	}

	var b strings.Builder
	for _, msg := range m.snapshot.Messages {
		label := userStyle.Render("you")
		if msg.Sender == domain.SenderAssistant {
			label = assistantStyle.Render("assistant")
		}
		b.WriteString(label + "\n")
		b.WriteString(lawstrings.WordWrap(msg.Text, width-2) + "\n\n")
	}
	return b.String()
}

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	if !m.ready {
		return fmt.Sprintf("\n  %s Loading...", m.spinner.View())
	}

	switch m.view {
	case ViewConversations:
		return m.viewConversations()
	case ViewHelp:
		return m.viewHelp()
	default:
		return m.viewChat()
	}
}

func (m Model) viewChat() string {
	var b strings.Builder

	title := "Family Law Chat"
	if m.snapshot.HasActive {
		for _, c := range m.snapshot.Conversations {
			if c.ID == m.snapshot.ActiveID {
				title = c.Title
				break
			}
		}
	}
	b.WriteString(titleStyle.Render("⚖ "+title) + "\n\n")

	b.WriteString(m.viewport.View() + "\n")

	switch {
	case m.snapshot.Flags.WaitingForAssistant:
		b.WriteString(infoStyle.Render(fmt.Sprintf("  %s assistant is typing...", m.spinner.View())) + "\n")
	case m.snapshot.Flags.FetchingActive:
		b.WriteString(infoStyle.Render(fmt.Sprintf("  %s loading history...", m.spinner.View())) + "\n")
	case m.snapshot.Flags.Creating:
		b.WriteString(infoStyle.Render(fmt.Sprintf("  %s creating conversation...", m.spinner.View())) + "\n")
	default:
		b.WriteString("\n")
	}

	b.WriteString(inputBorderStyle.Width(m.width - 4).Render(m.input.View()) + "\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render("  "+m.err.Error()) + "\n")
	}
	b.WriteString(helpStyle.Render("  enter send · ctrl+l conversations · ctrl+n new · ? help · esc quit"))

	return b.String()
}

func (m Model) viewConversations() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Conversations") + "\n\n")

	if m.snapshot.Flags.FetchingList {
		b.WriteString(fmt.Sprintf("  %s loading...\n", m.spinner.View()))
	}

	if len(m.snapshot.Conversations) == 0 && !m.snapshot.Flags.FetchingList {
		b.WriteString(infoStyle.Render("  No conversations yet. Press ctrl+n to start one.") + "\n")
	}

	for i, c := range m.snapshot.Conversations {
		cursor := "  "
		line := fmt.Sprintf("%d. %s", c.ID, c.Title)
		if i == m.selectedIdx {
			cursor = activeStyle.Render("> ")
			line = activeStyle.Render(line)
		}
		if m.snapshot.HasActive && c.ID == m.snapshot.ActiveID {
			line += infoStyle.Render("  (active)")
		}
		b.WriteString(cursor + line + "\n")
	}

	b.WriteString(helpStyle.Render("  ↑/↓ move · enter open · esc back"))
	return b.String()
}

func (m Model) viewHelp() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Help") + "\n\n")
	b.WriteString("  enter      send the typed question\n")
	b.WriteString("  ctrl+l     list conversations\n")
	b.WriteString("  ctrl+n     start a new conversation\n")
	b.WriteString("  ↑/↓ or j/k move in the conversation list\n")
	b.WriteString("  ?          toggle this help\n")
	b.WriteString("  esc        back, or quit from the chat view\n")
	b.WriteString(helpStyle.Render("\n  Answers are general information, not legal advice."))

	return b.String()
}

// Run starts the chat TUI against the given store.
func Run(store domain.Store) error {
	manager := session.NewManager(store)

	p := tea.NewProgram(New(manager), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
