package llm

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

func TestOpenAIComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Error("Missing or wrong Authorization header")
		}

		var req openaiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "gpt-4o-mini", req.Model)
		require.Len(t, req.Messages, 3)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)
		assert.Equal(t, "assistant", req.Messages[2].Role)

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "Custody depends on..."}},
			},
		})
	}))
	defer server.Close()

	p := NewOpenAIWithClient("test-key", server.URL, server.Client())

	answer, err := p.Complete(context.Background(), &CompletionRequest{
		Model:        "gpt-4o-mini",
		SystemPrompt: "You are a family law assistant.",
		History: []domain.Message{
			domain.UserMessage("What is custody?"),
			domain.AssistantMessage("Hello!"),
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "Custody depends on...", answer)
}

func TestOpenAICompleteErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer server.Close()

	p := NewOpenAIWithClient("test-key", server.URL, server.Client())

	_, err := p.Complete(context.Background(), &CompletionRequest{
		Model:   "gpt-4o-mini",
		History: []domain.Message{domain.UserMessage("hi")},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestOpenAICompleteNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer server.Close()

	p := NewOpenAIWithClient("test-key", server.URL, server.Client())

	_, err := p.Complete(context.Background(), &CompletionRequest{
		Model:   "gpt-4o-mini",
		History: []domain.Message{domain.UserMessage("hi")},
	})

	assert.Error(t, err)
}

func TestBaseURLNormalization(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty uses default", "", openaiAPIURL},
		{"bare host", "http://localhost:8080", "http://localhost:8080/v1/chat/completions"},
		{"trailing slash", "http://localhost:8080/", "http://localhost:8080/v1/chat/completions"},
		{"v1 suffix", "http://localhost:8080/v1", "http://localhost:8080/v1/chat/completions"},
		{"full path untouched", "http://localhost:8080/v1/chat/completions", "http://localhost:8080/v1/chat/completions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("OPENAI_BASE_URL", "")
			p := NewOpenAI("key", tt.in)
			assert.Equal(t, tt.want, p.baseURL)
		})
	}
}

func TestRegistry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	r := NewRegistry()
	r.Register(NewOpenAI("key", server.URL))

	p, ok := r.Get("openai")
	require.True(t, ok)
	assert.Equal(t, "OpenAI", p.Name())
	assert.Len(t, r.List(), 1)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}
