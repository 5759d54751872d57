// File: internal/domain/message.go
package domain

import "time"

// Role values a message can carry.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single chat message as the API serves it. The server owns it;
// clients only ever replace their copy wholesale.
type Message struct {
	ID        string    `json:"_id" gorm:"primaryKey;size:36"`
	Role      string    `json:"role" gorm:"not null"` // "user" or "assistant"
	Text      string    `json:"text" gorm:"not null"`
	Tokens    int       `json:"tokens"`
	Model     string    `json:"model,omitempty"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
}

// IsUser reports whether the message was written by the user.
func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

// Author is the label shown above a bubble.
func (m Message) Author() string {
	if m.IsUser() {
		return "You"
	}
	return "AI"
}

// TokenCount never goes below zero, whatever the server sent.
func (m Message) TokenCount() int {
	if m.Tokens < 0 {
		return 0
	}
	return m.Tokens
}
