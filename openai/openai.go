// Package openai implements [devchat.Provider] for the OpenAI Chat
// Completions API. It serves as the secondary provider behind Anthropic.
//
// Chat Completions has no separate system slot: the system prompt is sent as
// the first message with role "system", and system-role history entries pass
// through in place.
package openai

const (
	defaultBaseURL   = "https://api.openai.com"
	defaultModel     = "gpt-4"
	defaultMaxTokens = 4096
	completionsPath  = "/v1/chat/completions"
)

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiRequest struct {
	Model       string       `json:"model"`
	Messages    []apiMessage `json:"messages"`
	MaxTokens   int          `json:"max_tokens,omitempty"`
	Temperature *float64     `json:"temperature,omitempty"`
	Stream      bool         `json:"stream,omitempty"`
}

type apiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *apiUsage `json:"usage"`
}

type apiUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// apiChunk is one SSE data payload of a streaming response.
type apiChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
}

type apiErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
