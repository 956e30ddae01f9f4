// Package render formats conversations and transcripts for terminal
// output.
package render

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/joss/lawchat/internal/domain"
	lawstrings "github.com/joss/lawchat/internal/strings"
)

const wrapWidth = 76

// Renderer handles output formatting. Pretty output uses color and
// box drawing; plain output is stable for piping.
type Renderer struct {
	pretty bool
}

// New creates a new renderer.
func New(pretty bool) *Renderer {
	return &Renderer{pretty: pretty}
}

// Conversations formats the conversation list.
func (r *Renderer) Conversations(conversations []domain.Conversation) string {
	if len(conversations) == 0 {
		return "No conversations yet"
	}

	var sb strings.Builder

	if r.pretty {
		sb.WriteString(color.CyanString("Conversations\n"))
		sb.WriteString(strings.Repeat("─", 60) + "\n")
	}

	for _, c := range conversations {
		if r.pretty {
			fmt.Fprintf(&sb, "%s %s\n", color.HiBlackString(fmt.Sprintf("%4d", c.ID)), c.Title)
		} else {
			fmt.Fprintf(&sb, "%d\t%s\n", c.ID, c.Title)
		}
	}

	return sb.String()
}

// Transcript formats a conversation's messages.
func (r *Renderer) Transcript(title string, messages []domain.Message) string {
	var sb strings.Builder

	if r.pretty {
		sb.WriteString(color.CyanString(title + "\n"))
		sb.WriteString(strings.Repeat("─", 60) + "\n")
	} else if title != "" {
		sb.WriteString(title + "\n")
	}

	for _, m := range messages {
		r.formatMessage(&sb, m)
	}

	return sb.String()
}

func (r *Renderer) formatMessage(sb *strings.Builder, m domain.Message) {
	label := "you"
	if m.Sender == domain.SenderAssistant {
		label = "assistant"
	}

	text := lawstrings.WordWrap(m.Text, wrapWidth)

	if r.pretty {
		if m.Sender == domain.SenderAssistant {
			fmt.Fprintf(sb, "%s\n%s\n\n", color.GreenString(label), text)
		} else {
			fmt.Fprintf(sb, "%s\n%s\n\n", color.YellowString(label), text)
		}
	} else {
		fmt.Fprintf(sb, "[%s] %s\n", label, m.Text)
	}
}

// Answer formats a single assistant reply.
func (r *Renderer) Answer(text string) string {
	wrapped := lawstrings.WordWrap(text, wrapWidth)
	if r.pretty {
		return color.GreenString("assistant") + "\n" + wrapped + "\n"
	}
	return wrapped + "\n"
}
