package api

import (
	"time"

	"github.com/devdocs-ai/devchat"
)

// MessagePart is one element of a structured client message.
type MessagePart struct {
	Type string `json:"type"` // "text", "image", "file", ...
	Text string `json:"text,omitempty"`
}

// InboundMessage is a client-submitted message. Content is the flattened
// legacy form, Parts the structured one; either may be absent.
type InboundMessage struct {
	Role      string        `json:"role"`
	Content   string        `json:"content,omitempty"`
	Parts     []MessagePart `json:"parts,omitempty"`
	Timestamp *time.Time    `json:"timestamp,omitempty"`
}

// Text extracts plain text from either form. A non-empty Content wins
// verbatim; otherwise the text of every "text"-typed part is concatenated in
// order, parts of other types contributing nothing. A message with neither
// form yields "" rather than an error.
func (m InboundMessage) Text() string {
	if m.Content != "" {
		return m.Content
	}
	var text string
	for _, part := range m.Parts {
		if part.Type == "text" {
			text += part.Text
		}
	}
	return text
}

// Message converts to the domain type, defaulting an empty role to user.
func (m InboundMessage) Message() devchat.Message {
	role := devchat.Role(m.Role)
	if role == "" {
		role = devchat.RoleUser
	}
	return devchat.Message{Role: role, Content: m.Text()}
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Messages       []InboundMessage `json:"messages"`
	ConversationID string           `json:"conversation_id,omitempty"`
	Language       string           `json:"language,omitempty"`
	Stream         bool             `json:"stream,omitempty"`
}

// ChatResponse is the non-streaming response body.
type ChatResponse struct {
	Message        ResponseMessage `json:"message"`
	ConversationID string          `json:"conversation_id"`
	Usage          *devchat.Usage  `json:"usage,omitempty"`
}

// ResponseMessage is the assistant's turn in a non-streaming response.
type ResponseMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationResponse is the body of GET /api/chat/conversations/{id}.
type ConversationResponse struct {
	ConversationID string            `json:"conversation_id"`
	Messages       []devchat.Message `json:"messages"`
}

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}
