package answer

import (
	"context"
	"fmt"

	"github.com/joss/lawchat/internal/domain"
	"github.com/joss/lawchat/pkg/llm"
)

const systemPrompt = "You are a helpful assistant answering general " +
	"questions about family law. Be concise, avoid legalese, and " +
	"remind the user to consult a licensed attorney for advice on " +
	"their specific situation."

// ModelAnswerer answers through an LLM provider, sending the
// conversation so far plus the current question.
type ModelAnswerer struct {
	provider llm.Provider
	model    string
}

var _ Answerer = (*ModelAnswerer)(nil)

func NewModelAnswerer(provider llm.Provider, model string) *ModelAnswerer {
	return &ModelAnswerer{
		provider: provider,
		model:    model,
	}
}

func (m *ModelAnswerer) Answer(ctx context.Context, question string, history []domain.Message) (string, error) {
	msgs := make([]domain.Message, 0, len(history)+1)
	msgs = append(msgs, history...)
	msgs = append(msgs, domain.UserMessage(question))

	reply, err := m.provider.Complete(ctx, &llm.CompletionRequest{
		Model:        m.model,
		SystemPrompt: systemPrompt,
		History:      msgs,
		MaxTokens:    1024,
	})
	if err != nil {
		return "", fmt.Errorf("complete: %w", err)
	}
	return reply, nil
}
