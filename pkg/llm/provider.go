// Package llm defines the model provider interface the backend's
// answerer can delegate to. One question in, one answer out; no
// streaming, matching the store API.
package llm

import (
	"context"

	"github.com/joss/lawchat/internal/domain"
)

// Provider is the interface all model providers must implement.
type Provider interface {
	ID() string
	Name() string

	// Complete sends the conversation and returns the assistant's answer.
	Complete(ctx context.Context, req *CompletionRequest) (string, error)
}

// CompletionRequest represents a request to the model.
type CompletionRequest struct {
	Model        string
	SystemPrompt string
	// History is the conversation so far, ending with the user's
	// current question.
	History     []domain.Message
	MaxTokens   int
	Temperature float64
}

// Registry holds all available providers.
type Registry struct {
	providers map[string]Provider
}

func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
	}
}

func (r *Registry) Register(p Provider) {
	r.providers[p.ID()] = p
}

func (r *Registry) Get(id string) (Provider, bool) {
	p, ok := r.providers[id]
	return p, ok
}

func (r *Registry) List() []Provider {
	result := make([]Provider, 0, len(r.providers))
	for _, p := range r.providers {
		result = append(result, p)
	}
	return result
}
