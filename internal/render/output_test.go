package render

import (
	"strings"
	"testing"

	"github.com/joss/lawchat/internal/domain"
)

func TestConversationsPlain(t *testing.T) {
	r := New(false)

	out := r.Conversations([]domain.Conversation{
		{ID: 1, Title: "Conversation 1"},
		{ID: 2, Title: "Custody question"},
	})

	if !strings.Contains(out, "1\tConversation 1") {
		t.Errorf("missing first row: %q", out)
	}
	if !strings.Contains(out, "2\tCustody question") {
		t.Errorf("missing second row: %q", out)
	}
}

func TestConversationsEmpty(t *testing.T) {
	r := New(false)
	if out := r.Conversations(nil); out != "No conversations yet" {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestTranscriptPlain(t *testing.T) {
	r := New(false)

	out := r.Transcript("Custody question", []domain.Message{
		domain.UserMessage("What is custody?"),
		domain.AssistantMessage("Custody depends on..."),
	})

	if !strings.Contains(out, "[you] What is custody?") {
		t.Errorf("missing user line: %q", out)
	}
	if !strings.Contains(out, "[assistant] Custody depends on...") {
		t.Errorf("missing assistant line: %q", out)
	}
}
