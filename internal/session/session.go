// Package session owns the client-side conversation state and its
// reconciliation with the conversation store: the conversation list,
// per-conversation transcripts, the active selection, and the in-flight
// activity flags the UI renders. All mutations go through the named
// operations; the rendering layer only ever reads snapshots.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/joss/lawchat/internal/domain"
	"github.com/joss/lawchat/internal/logging"
)

// Synthetic messages injected client-side. They are never persisted to
// the store.
const (
	GreetingText     = "Hello, how can I assist you with family law today?"
	HistoryErrorText = "Error fetching conversation history"
	AskFallbackText  = "Sorry, there was an issue retrieving your message"
)

// Flags are the transient in-flight indicators exposed to the UI.
// They are affordances only; correctness never depends on them.
type Flags struct {
	FetchingList        bool
	FetchingActive      bool
	WaitingForAssistant bool
	Creating            bool
}

// Snapshot is a consistent copy of everything the rendering layer needs.
type Snapshot struct {
	Conversations []domain.Conversation
	ActiveID      int64
	HasActive     bool
	Messages      []domain.Message
	Input         string
	Flags         Flags
}

// Manager reconciles local state with the remote conversation store.
// A single mutex guards all state; it is held only between network
// calls, never across them, so optimistic updates are visible to
// readers while a request is still in flight.
type Manager struct {
	mu    sync.Mutex
	store domain.Store
	log   *logging.Logger

	conversations []domain.Conversation
	messages      map[int64][]domain.Message
	activeID      int64
	hasActive     bool
	input         string
	flags         Flags

	// Stale-response guard for history fetches: each fetch captures a
	// token at issue time and its result is applied only if the token
	// is still the latest issued for that conversation.
	fetchSeq     uint64
	latestFetch  map[int64]uint64
	latestIssued uint64
}

// NewManager creates a session manager backed by the given store.
func NewManager(store domain.Store) *Manager {
	return &Manager{
		store:       store,
		log:         logging.New("session"),
		messages:    make(map[int64][]domain.Message),
		latestFetch: make(map[int64]uint64),
	}
}

// LoadConversations issues the one list fetch of session start. On
// success the list is replaced wholesale; on failure it is left empty
// and nothing is surfaced, since there is no transcript to show an
// error in.
func (m *Manager) LoadConversations(ctx context.Context) {
	m.mu.Lock()
	m.flags.FetchingList = true
	m.mu.Unlock()

	convs, err := m.store.ListConversations(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.flags.FetchingList = false
	if err != nil {
		m.log.Warn("list_load_failed", nil, err)
		m.conversations = nil
		return
	}
	m.conversations = append([]domain.Conversation(nil), convs...)
}

// Select makes id the active conversation and fetches its history. The
// id must already be in the conversation list. The selection takes
// effect immediately; the transcript follows when the fetch resolves.
// Re-selecting the active conversation re-fetches.
func (m *Manager) Select(ctx context.Context, id int64) error {
	m.mu.Lock()
	if m.indexOf(id) < 0 {
		m.mu.Unlock()
		return fmt.Errorf("unknown conversation %d", id)
	}
	m.activeID = id
	m.hasActive = true
	m.flags.FetchingActive = true
	m.fetchSeq++
	token := m.fetchSeq
	m.latestFetch[id] = token
	m.latestIssued = token
	m.mu.Unlock()

	msgs, err := m.store.GetMessages(ctx, id)

	m.mu.Lock()
	defer m.mu.Unlock()
	if token == m.latestIssued {
		m.flags.FetchingActive = false
	}
	if token != m.latestFetch[id] {
		// A newer fetch for this conversation was issued while this
		// one was in flight; its result wins.
		m.log.Debug("history_fetch_stale", map[string]interface{}{"conversation": id})
		return nil
	}
	switch {
	case err != nil:
		m.log.Warn("history_fetch_failed", nil, err)
		m.messages[id] = []domain.Message{domain.AssistantMessage(HistoryErrorText)}
	case len(msgs) == 0:
		m.messages[id] = []domain.Message{domain.AssistantMessage(GreetingText)}
	default:
		m.messages[id] = append([]domain.Message(nil), msgs...)
	}
	return nil
}

// NewConversation asks the store to create a conversation with a
// placeholder title and, on success, appends it to the list, makes it
// active, and seeds the greeting. The returned bool reports whether a
// conversation now exists; on failure nothing was added or activated
// and the caller can abort gracefully.
func (m *Manager) NewConversation(ctx context.Context) (int64, bool) {
	m.mu.Lock()
	// Display number only. The id comes from the store; two creations
	// racing can repeat this number, which at worst repeats the
	// cosmetic default title.
	title := placeholderTitle(len(m.conversations) + 1)
	m.flags.Creating = true
	m.mu.Unlock()

	id, err := m.store.CreateConversation(ctx, title)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.flags.Creating = false
	if err != nil {
		m.log.Warn("create_failed", nil, err)
		return 0, false
	}
	m.conversations = append(m.conversations, domain.Conversation{ID: id, Title: title})
	m.activeID = id
	m.hasActive = true
	m.messages[id] = []domain.Message{domain.AssistantMessage(GreetingText)}
	return id, true
}

// Send runs the full send path: resolve a target conversation
// (creating one if none is active), append the user's message locally,
// promote a placeholder title, clear the input, then ask the assistant
// and append its answer or the fixed fallback. A create failure aborts
// the send with the typed input left untouched; an ask failure is
// absorbed into the transcript.
func (m *Manager) Send(ctx context.Context) {
	m.mu.Lock()
	text := strings.TrimSpace(m.input)
	if text == "" {
		m.mu.Unlock()
		return
	}
	id := m.activeID
	resolved := m.hasActive
	m.mu.Unlock()

	if !resolved {
		created, ok := m.NewConversation(ctx)
		if !ok {
			// Nothing was appended anywhere; the input stays so the
			// user's text is not lost.
			return
		}
		id = created
	}

	m.mu.Lock()
	m.messages[id] = append(append([]domain.Message(nil), m.messages[id]...), domain.UserMessage(text))
	if i := m.indexOf(id); i >= 0 && isPlaceholderTitle(m.conversations[i].Title) {
		m.conversations[i].Title = deriveTitle(text)
	}
	// Committed: the message is in the transcript, so the input clears
	// regardless of how the ask turns out.
	m.input = ""
	m.flags.WaitingForAssistant = true
	m.mu.Unlock()

	answer, err := m.store.Ask(ctx, id, text)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.flags.WaitingForAssistant = false
	if err != nil {
		m.log.WithConversation(id).Warn("ask_failed", nil, err)
		answer = AskFallbackText
	}
	m.messages[id] = append(append([]domain.Message(nil), m.messages[id]...), domain.AssistantMessage(answer))
}

// SetInput replaces the input buffer.
func (m *Manager) SetInput(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.input = text
}

// Input returns the current input buffer.
func (m *Manager) Input() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.input
}

// Conversations returns a copy of the conversation list in discovery
// order.
func (m *Manager) Conversations() []domain.Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Conversation(nil), m.conversations...)
}

// ActiveID returns the active conversation id, if any.
func (m *Manager) ActiveID() (int64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeID, m.hasActive
}

// Messages returns a copy of a conversation's transcript.
func (m *Manager) Messages(id int64) []domain.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Message(nil), m.messages[id]...)
}

// Flags returns the current activity flags.
func (m *Manager) Flags() Flags {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flags
}

// Snapshot returns a consistent copy of the state the renderer reads:
// list, active transcript, input, and flags.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := Snapshot{
		Conversations: append([]domain.Conversation(nil), m.conversations...),
		ActiveID:      m.activeID,
		HasActive:     m.hasActive,
		Input:         m.input,
		Flags:         m.flags,
	}
	if m.hasActive {
		snap.Messages = append([]domain.Message(nil), m.messages[m.activeID]...)
	}
	return snap
}

// indexOf returns the position of id in the conversation list, or -1.
// Caller holds the lock.
func (m *Manager) indexOf(id int64) int {
	for i, c := range m.conversations {
		if c.ID == id {
			return i
		}
	}
	return -1
}
