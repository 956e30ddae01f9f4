package domain

// Conversation represents a titled thread of messages with the assistant.
// The ID is assigned by the store; the client never fabricates one.
type Conversation struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// Message is a single entry in a conversation transcript.
type Message struct {
	Text   string `json:"text"`
	Sender Sender `json:"sender"`
}

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// UserMessage builds a user message.
func UserMessage(text string) Message {
	return Message{Text: text, Sender: SenderUser}
}

// AssistantMessage builds an assistant message.
func AssistantMessage(text string) Message {
	return Message{Text: text, Sender: SenderAssistant}
}
