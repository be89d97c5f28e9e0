package chat

import "time"

// MaxStoredContextMessages caps how many stored messages are replayed as
// context into the next AI call. The full history is always retained.
const MaxStoredContextMessages = 10

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn in a document conversation.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// History is the conversation attached to one document. It is created lazily
// on the first message.
type History struct {
	DocumentID string    `json:"documentId"`
	Messages   []Message `json:"messages"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
