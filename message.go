// Package devchat defines the domain types shared by the chat service:
// messages, provider and stream contracts, and the conversation store.
package devchat

import "time"

// Message is one entry in a conversation. Immutable once stored.
//
// Timestamp is set by the store layer when the message is appended; it is
// zero on messages that exist only in-flight (e.g. the windower's injected
// summary message, which is never persisted).
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp,omitzero"`
}

// User returns a user-role message with the given content.
func User(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// Assistant returns an assistant-role message with the given content.
func Assistant(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// System returns a system-role message with the given content.
func System(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}
