// Package answer produces assistant replies for the backend. The
// default answerer searches a local knowledge base of family-law
// notes; when a model provider is configured it answers through the
// model instead, falling back to the knowledge base on error.
package answer

import (
	"context"

	"github.com/joss/lawchat/internal/config"
	"github.com/joss/lawchat/internal/domain"
	"github.com/joss/lawchat/pkg/llm"
)

// Answerer turns a question (with the conversation so far) into an
// assistant reply.
type Answerer interface {
	Answer(ctx context.Context, question string, history []domain.Message) (string, error)
}

// Fallback tries primary and falls back to secondary when primary
// fails. Both failing surfaces the secondary's error.
type Fallback struct {
	Primary   Answerer
	Secondary Answerer
}

var _ Answerer = (*Fallback)(nil)

func (f *Fallback) Answer(ctx context.Context, question string, history []domain.Message) (string, error) {
	reply, err := f.Primary.Answer(ctx, question, history)
	if err == nil {
		return reply, nil
	}
	return f.Secondary.Answer(ctx, question, history)
}

// FromEnv builds the answerer the environment selects: the configured
// model provider when an API key is set, with the knowledge base as
// fallback; otherwise the knowledge base alone.
func FromEnv(env *config.LawchatEnv) Answerer {
	dir := env.KnowledgeDir
	if dir == "" {
		dir = config.GetPaths().Knowledge
	}
	kb := NewKnowledgeBase(dir)

	if env.OpenAIKey == "" {
		return kb
	}
	provider, ok := Providers(env).Get(env.Provider)
	if !ok {
		return kb
	}
	return &Fallback{
		Primary:   NewModelAnswerer(provider, env.Model),
		Secondary: kb,
	}
}

// Providers returns the registry of model providers built from the
// environment. LAWCHAT_PROVIDER picks one by id.
func Providers(env *config.LawchatEnv) *llm.Registry {
	reg := llm.NewRegistry()
	reg.Register(llm.NewOpenAI(env.OpenAIKey, env.OpenAIBaseURL))
	return reg
}
