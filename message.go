package gochat

import "time"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single message in the conversation.
type Message struct {
	Role    string    `json:"role"`    // "system", "user", or "assistant"
	Content string    `json:"content"` // Content of the message
	Time    time.Time `json:"time"`
}

// NewMessage stamps a message with the current time.
func NewMessage(role, content string) Message {
	return Message{Role: role, Content: content, Time: time.Now()}
}

// CodeBlocks returns the fenced code blocks of an assistant message.
// Other roles never carry highlighted code.
func (m Message) CodeBlocks() []CodeBlock {
	if m.Role != RoleAssistant {
		return nil
	}
	return ExtractCodeBlocks(m.Content)
}
