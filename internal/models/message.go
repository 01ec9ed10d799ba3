package models

import "time"

// Role identifies the author of an Exchange entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Label returns the display name used by the chat bubbles.
func (r Role) Label() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Genius"
	default:
		return string(r)
	}
}

// Exchange is one entry of a conversation history.
// Entries have no identity beyond content and position.
type Exchange struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewUserExchange creates the user half of an exchange
func NewUserExchange(content string) Exchange {
	return Exchange{Role: RoleUser, Content: content}
}

// NewAssistantExchange creates the assistant half of an exchange
func NewAssistantExchange(content string) Exchange {
	return Exchange{Role: RoleAssistant, Content: content}
}

// Track is a generated audio asset returned by the music endpoint.
type Track struct {
	Prompt      string    `json:"prompt"`
	URL         string    `json:"url"`
	GeneratedAt time.Time `json:"generated_at"`
}

// IsZero reports whether the track slot is empty.
func (t Track) IsZero() bool {
	return t.URL == ""
}
