package model

import "time"

// Role identifies who authored a chat message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// DefaultDisclaimer is attached to unverified assistant messages whose
// canned entry does not carry its own disclaimer
const DefaultDisclaimer = "AI-generated explanation. Verify with textbook or teacher."

// ChatMessage is one entry of a session's message log
type ChatMessage struct {
	ID           string    `json:"id"`
	Role         Role      `json:"role"`
	Text         string    `json:"text"`
	Verified     bool      `json:"verified"`
	Citation     string    `json:"citation,omitempty"`      // Source reference shown under the text
	Disclaimer   string    `json:"disclaimer,omitempty"`    // Empty on verified messages
	VerifierName string    `json:"verifier_name,omitempty"` // Set only on verified messages
	Topic        Topic     `json:"topic,omitempty"`         // Topic the reply was selected from
	CreatedAt    time.Time `json:"created_at"`
}

// IsAssistant reports whether the message was generated by the tutor
func (m ChatMessage) IsAssistant() bool {
	return m.Role == RoleAssistant
}
