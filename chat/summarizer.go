package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/devdocs-ai/devchat"
)

const (
	summaryMaxTokens   = 500
	summaryTemperature = 0.3 // favor factual recall over creativity
)

// Summarizer compresses older conversation history into a short text summary
// via the model provider.
type Summarizer struct {
	provider devchat.Provider
	model    string
	logger   zerolog.Logger
}

// NewSummarizer creates a Summarizer using the given provider and model.
func NewSummarizer(provider devchat.Provider, model string, logger zerolog.Logger) *Summarizer {
	return &Summarizer{provider: provider, model: model, logger: logger}
}

// Summarize compresses msgs into a concise summary. On any provider error it
// returns a deterministic fallback string instead; summarization never fails
// the overall request.
func (s *Summarizer) Summarize(ctx context.Context, msgs []devchat.Message, language string) string {
	temp := summaryTemperature
	comp, err := s.provider.Complete(ctx, devchat.Request{
		Model:       s.model,
		MaxTokens:   summaryMaxTokens,
		Temperature: &temp,
		Messages:    []devchat.Message{devchat.User(summaryPrompt(msgs, language))},
	})
	if err != nil {
		s.logger.Warn().Err(err).Int("messages", len(msgs)).Msg("summarization failed, using fallback")
		return fallbackSummary(msgs, language)
	}
	return comp.Content
}

func summaryPrompt(msgs []devchat.Message, language string) string {
	var conversation strings.Builder
	for i, msg := range msgs {
		if i > 0 {
			conversation.WriteByte('\n')
		}
		conversation.WriteString(string(msg.Role))
		conversation.WriteString(": ")
		conversation.WriteString(msg.Content)
	}

	if language == "" {
		language = "general"
	}

	return fmt.Sprintf(`Summarize the following conversation in a concise way, preserving:
- Key topics discussed
- Important decisions or conclusions
- Relevant code examples or patterns mentioned
- User preferences or context

Language context: %s

Conversation:
%s

Provide a clear, concise summary:`, language, conversation.String())
}

func fallbackSummary(msgs []devchat.Message, language string) string {
	if language == "" {
		language = "code"
	}
	return fmt.Sprintf("Previous conversation about %s (%d messages)", language, len(msgs))
}
