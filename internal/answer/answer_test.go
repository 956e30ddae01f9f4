package answer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joss/lawchat/internal/config"
	"github.com/joss/lawchat/internal/domain"
	"github.com/joss/lawchat/pkg/llm"
)

func writeNote(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestKnowledgeBaseMatchesBestParagraph(t *testing.T) {
	dir := t.TempDir()
	writeNote(t, dir, "custody.md", `# Custody

Custody is decided based on the best interests of the child.
Courts weigh stability, caregiving history, and the child's needs.

Visitation schedules are set separately from custody orders.`)
	writeNote(t, dir, "property.md", `# Property

Marital property is divided equitably between the spouses.`)

	kb := NewKnowledgeBase(dir)
	reply, err := kb.Answer(context.Background(), "How is custody decided?", nil)

	require.NoError(t, err)
	assert.Contains(t, reply, "best interests of the child")
}

func TestKnowledgeBaseSearchesNestedDirectories(t *testing.T) {
	dir := t.TempDir()
	writeNote(t, dir, "topics/divorce/process.md",
		"An uncontested divorce typically takes a few months to finalize.")

	kb := NewKnowledgeBase(dir)
	reply, err := kb.Answer(context.Background(), "How long does an uncontested divorce take?", nil)

	require.NoError(t, err)
	assert.Contains(t, reply, "few months")
}

func TestKnowledgeBaseNoMatchReturnsDefault(t *testing.T) {
	dir := t.TempDir()
	writeNote(t, dir, "custody.md", "Custody is decided by the court.")

	kb := NewKnowledgeBase(dir)
	reply, err := kb.Answer(context.Background(), "zoning variances", nil)

	require.NoError(t, err)
	assert.Equal(t, DefaultAnswer, reply)
}

func TestKnowledgeBaseMissingDirReturnsDefault(t *testing.T) {
	kb := NewKnowledgeBase(filepath.Join(t.TempDir(), "missing"))

	reply, err := kb.Answer(context.Background(), "What is custody?", nil)

	require.NoError(t, err)
	assert.Equal(t, DefaultAnswer, reply)
}

func TestQueryTermsDropsStopwords(t *testing.T) {
	terms := queryTerms("What is custody and how does it work?")

	assert.Contains(t, terms, "custody")
	assert.NotContains(t, terms, "what")
	assert.NotContains(t, terms, "and")
	assert.NotContains(t, terms, "is")
}

// fakeProvider implements llm.Provider.
type fakeProvider struct {
	reply string
	err   error
	got   *llm.CompletionRequest
}

func (f *fakeProvider) ID() string   { return "fake" }
func (f *fakeProvider) Name() string { return "Fake" }

func (f *fakeProvider) Complete(ctx context.Context, req *llm.CompletionRequest) (string, error) {
	f.got = req
	return f.reply, f.err
}

func TestModelAnswererAppendsQuestion(t *testing.T) {
	p := &fakeProvider{reply: "Custody depends on..."}
	m := NewModelAnswerer(p, "gpt-4o-mini")

	history := []domain.Message{domain.AssistantMessage("Hello!")}
	reply, err := m.Answer(context.Background(), "What is custody?", history)

	require.NoError(t, err)
	assert.Equal(t, "Custody depends on...", reply)
	require.NotNil(t, p.got)
	require.Len(t, p.got.History, 2)
	assert.Equal(t, "What is custody?", p.got.History[1].Text)
	assert.Equal(t, domain.SenderUser, p.got.History[1].Sender)
	assert.NotEmpty(t, p.got.SystemPrompt)
}

func TestFallbackUsesSecondaryOnError(t *testing.T) {
	primary := &fakeProvider{err: errors.New("rate limited")}
	dir := t.TempDir()
	writeNote(t, dir, "custody.md", "Custody is decided by the court.")

	f := &Fallback{
		Primary:   NewModelAnswerer(primary, "gpt-4o-mini"),
		Secondary: NewKnowledgeBase(dir),
	}

	reply, err := f.Answer(context.Background(), "Who decides custody?", nil)

	require.NoError(t, err)
	assert.Contains(t, reply, "decided by the court")
}

func TestFallbackPrefersPrimary(t *testing.T) {
	primary := &fakeProvider{reply: "model answer"}

	f := &Fallback{
		Primary:   NewModelAnswerer(primary, "gpt-4o-mini"),
		Secondary: NewKnowledgeBase(t.TempDir()),
	}

	reply, err := f.Answer(context.Background(), "What is custody?", nil)

	require.NoError(t, err)
	assert.Equal(t, "model answer", reply)
}

func TestFromEnvWithoutKeyUsesKnowledgeBase(t *testing.T) {
	env := &config.LawchatEnv{KnowledgeDir: t.TempDir()}

	a := FromEnv(env)

	_, ok := a.(*KnowledgeBase)
	assert.True(t, ok)
}

func TestFromEnvWithKeyUsesModelWithFallback(t *testing.T) {
	env := &config.LawchatEnv{
		KnowledgeDir: t.TempDir(),
		Provider:     "openai",
		OpenAIKey:    "test-key",
		Model:        "gpt-4o-mini",
	}

	a := FromEnv(env)

	_, ok := a.(*Fallback)
	assert.True(t, ok)
}

func TestFromEnvUnknownProviderUsesKnowledgeBase(t *testing.T) {
	env := &config.LawchatEnv{
		KnowledgeDir: t.TempDir(),
		Provider:     "anthropic",
		OpenAIKey:    "test-key",
	}

	a := FromEnv(env)

	_, ok := a.(*KnowledgeBase)
	assert.True(t, ok)
}

func TestProvidersRegistryResolvesByID(t *testing.T) {
	reg := Providers(&config.LawchatEnv{OpenAIKey: "test-key"})

	p, ok := reg.Get("openai")
	require.True(t, ok)
	assert.Equal(t, "OpenAI", p.Name())
	assert.Len(t, reg.List(), 1)
}
