package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joss/lawchat/internal/domain"
)

func TestListConversations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/conversations", r.URL.Path)
		json.NewEncoder(w).Encode([]domain.Conversation{
			{ID: 1, Title: "Divorce Process"},
			{ID: 2, Title: "Child Custody"},
		})
	}))
	defer server.Close()

	c := New(server.URL)
	conversations, err := c.ListConversations(context.Background())

	require.NoError(t, err)
	require.Len(t, conversations, 2)
	assert.Equal(t, int64(1), conversations[0].ID)
	assert.Equal(t, "Child Custody", conversations[1].Title)
}

func TestGetMessages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/conversations/3", r.URL.Path)
		json.NewEncoder(w).Encode([]domain.Message{
			{Text: "Hello", Sender: domain.SenderUser},
			{Text: "Hi there!", Sender: domain.SenderAssistant},
		})
	}))
	defer server.Close()

	c := New(server.URL)
	messages, err := c.GetMessages(context.Background(), 3)

	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, domain.SenderUser, messages[0].Sender)
}

func TestGetMessagesEmptyIsValid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]domain.Message{})
	}))
	defer server.Close()

	c := New(server.URL)
	messages, err := c.GetMessages(context.Background(), 3)

	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestCreateConversation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/conversations", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req struct {
			Title string `json:"title"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Conversation 1", req.Title)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]int64{"conversation_id": 7})
	}))
	defer server.Close()

	c := New(server.URL)
	id, err := c.CreateConversation(context.Background(), "Conversation 1")

	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
}

func TestAsk(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/ask", r.URL.Path)

		var req struct {
			Question       string `json:"question"`
			ConversationID int64  `json:"conversation_id"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "What is custody?", req.Question)
		assert.Equal(t, int64(7), req.ConversationID)

		json.NewEncoder(w).Encode(map[string]string{"answer": "Custody depends on..."})
	}))
	defer server.Close()

	c := New(server.URL)
	answer, err := c.Ask(context.Background(), 7, "What is custody?")

	require.NoError(t, err)
	assert.Equal(t, "Custody depends on...", answer)
}

func TestNon2xxIsFailure(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"bad request", http.StatusBadRequest},
		{"not found", http.StatusNotFound},
		{"server error", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			c := New(server.URL)

			_, err := c.ListConversations(context.Background())
			assert.Error(t, err)

			_, err = c.GetMessages(context.Background(), 1)
			assert.Error(t, err)

			_, err = c.CreateConversation(context.Background(), "Conversation 1")
			assert.Error(t, err)

			_, err = c.Ask(context.Background(), 1, "q")
			assert.Error(t, err)
		})
	}
}

func TestTransportErrorIsFailure(t *testing.T) {
	// Point at a server that is already closed.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	c := New(server.URL)
	_, err := c.ListConversations(context.Background())

	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer server.Close()

	c := New(server.URL)
	assert.NoError(t, c.Health(context.Background()))
}
