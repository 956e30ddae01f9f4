package domain

import "context"

// Store is the conversation store as seen by the client: the four
// operations the backend exposes. Implementations make exactly one
// attempt per call; any transport or non-2xx failure surfaces as an
// error and the caller decides how to absorb it.
type Store interface {
	// ListConversations returns all conversations in store order.
	ListConversations(ctx context.Context) ([]Conversation, error)
	// GetMessages returns a conversation's transcript in store order.
	// An empty slice is a valid result, distinct from an error.
	GetMessages(ctx context.Context, conversationID int64) ([]Message, error)
	// CreateConversation creates a conversation with the given title
	// and returns the store-assigned id.
	CreateConversation(ctx context.Context, title string) (int64, error)
	// Ask sends a question into a conversation and returns the
	// assistant's answer.
	Ask(ctx context.Context, conversationID int64, question string) (string, error)
}

// ServerStore is the persistence interface behind the backend server.
// This interface lives in domain so storage backends and the server
// depend on the abstraction, not each other.
type ServerStore interface {
	ListConversations(ctx context.Context) ([]Conversation, error)
	GetConversation(ctx context.Context, id int64) (*Conversation, error)
	CreateConversation(ctx context.Context, title string) (int64, error)
	GetMessages(ctx context.Context, conversationID int64) ([]Message, error)
	AppendMessage(ctx context.Context, conversationID int64, msg Message) error

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error
	// Close releases any resources held by the store.
	Close() error
}
