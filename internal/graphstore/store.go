// Package graphstore implements domain.ServerStore on the graph
// database. Conversations and messages persist as nodes linked by
// HAS_MESSAGE edges, an alternative to the SQLite backend.
package graphstore

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/joss/lawchat/internal/domain"
	"github.com/joss/lawchat/internal/graph"
)

// Store implements domain.ServerStore backed by a graph database.
type Store struct {
	db graph.Driver
}

var _ domain.ServerStore = (*Store)(nil)

// New creates a graph-backed store.
func New(db graph.Driver) *Store {
	return &Store{db: db}
}

// CreateConversation allocates the next integer id from a counter
// node and creates the conversation in one query. This is a write
// that returns a row, so it must take the write path: routed through
// Execute it would be cacheable and could hand two creators the same
// id.
func (s *Store) CreateConversation(ctx context.Context, title string) (int64, error) {
	query := `
		MERGE (seq:Sequence:LawChat {name: 'conversation'})
		SET seq.value = coalesce(seq.value, 0) + 1
		WITH seq.value AS id
		CREATE (c:Conversation:LawChat {
			id: id,
			title: $title,
			createdAt: $createdAt
		})
		RETURN c.id AS id
	`
	records, err := s.db.ExecuteWriteQuery(ctx, query, map[string]any{
		"title":     title,
		"createdAt": time.Now().Unix(),
	})
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, fmt.Errorf("create conversation returned no id")
	}
	return graph.GetInt64(records[0], "id"), nil
}

func (s *Store) GetConversation(ctx context.Context, id int64) (*domain.Conversation, error) {
	query := `
		MATCH (c:Conversation:LawChat {id: $id})
		RETURN c.id AS id, c.title AS title
	`
	records, err := s.db.Execute(ctx, query, map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("conversation %d not found", id)
	}
	c := recordToConversation(records[0])
	return &c, nil
}

func (s *Store) ListConversations(ctx context.Context) ([]domain.Conversation, error) {
	query := `
		MATCH (c:Conversation:LawChat)
		RETURN c.id AS id, c.title AS title
		ORDER BY c.id ASC
	`
	records, err := s.db.Execute(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	var conversations []domain.Conversation
	for _, r := range records {
		conversations = append(conversations, recordToConversation(r))
	}
	return conversations, nil
}

// AppendMessage stores a message node keyed by a ulid, which sorts
// lexicographically in insertion order.
func (s *Store) AppendMessage(ctx context.Context, conversationID int64, msg domain.Message) error {
	query := `
		MATCH (c:Conversation:LawChat {id: $conversationID})
		CREATE (m:Message:LawChat {
			id: $id,
			conversationID: $conversationID,
			sender: $sender,
			text: $text,
			createdAt: $createdAt
		})
		CREATE (c)-[:HAS_MESSAGE]->(m)
	`
	return s.db.ExecuteWrite(ctx, query, map[string]any{
		"id":             ulid.Make().String(),
		"conversationID": conversationID,
		"sender":         string(msg.Sender),
		"text":           msg.Text,
		"createdAt":      time.Now().Unix(),
	})
}

func (s *Store) GetMessages(ctx context.Context, conversationID int64) ([]domain.Message, error) {
	query := `
		MATCH (m:Message:LawChat {conversationID: $conversationID})
		RETURN m.sender AS sender, m.text AS text
		ORDER BY m.id ASC
	`
	records, err := s.db.Execute(ctx, query, map[string]any{"conversationID": conversationID})
	if err != nil {
		return nil, err
	}

	var messages []domain.Message
	for _, r := range records {
		messages = append(messages, domain.Message{
			Sender: domain.Sender(graph.GetString(r, "sender")),
			Text:   graph.GetString(r, "text"),
		})
	}
	return messages, nil
}

func recordToConversation(r graph.Record) domain.Conversation {
	return domain.Conversation{
		ID:    graph.GetInt64(r, "id"),
		Title: graph.GetString(r, "title"),
	}
}

// Ping verifies the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close releases any resources held by the store.
func (s *Store) Close() error {
	return nil // Connection managed externally
}
