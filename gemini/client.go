package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/devdocs-ai/devchat"
)

// Interface compliance check.
var _ devchat.Provider = (*Client)(nil)

// Client implements [devchat.Provider] for the Google Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

// Option configures a [Client].
type Option func(*Client)

// WithModel sets the default model ID.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// New creates a new Gemini [Client] with the given API key and options.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	c := &Client{
		client: gc,
		model:  defaultModel,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Complete sends a non-streaming request and returns the generated text
// with token usage.
func (c *Client) Complete(ctx context.Context, req devchat.Request) (devchat.Completion, error) {
	if err := req.Validate(); err != nil {
		return devchat.Completion{}, fmt.Errorf("gemini: %w", err)
	}

	contents, system := ConvertMessages(req.Messages)
	resp, err := c.client.Models.GenerateContent(ctx, c.resolveModel(req), contents, buildConfig(req, system))
	if err != nil {
		return devchat.Completion{}, fmt.Errorf("gemini: %w", err)
	}

	comp := devchat.Completion{Content: responseText(resp)}
	if resp.UsageMetadata != nil {
		comp.Usage = &devchat.Usage{
			InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		}
	}
	return comp, nil
}

// Stream sends a streaming request and returns a [devchat.Stream] of text
// fragments pulled from the SDK's iterator.
func (c *Client) Stream(ctx context.Context, req devchat.Request) (devchat.Stream, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}

	contents, system := ConvertMessages(req.Messages)
	iterFn := c.client.Models.GenerateContentStream(ctx, c.resolveModel(req), contents, buildConfig(req, system))
	return NewStreamFromIter(ctx, iterFn), nil
}

func (c *Client) resolveModel(req devchat.Request) string {
	if req.Model != "" {
		return req.Model
	}
	return c.model
}

func buildConfig(req devchat.Request, extraSystem []string) *genai.GenerateContentConfig {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(maxTokens),
	}

	system := req.SystemPrompt
	if len(extraSystem) > 0 {
		parts := make([]string, 0, len(extraSystem)+1)
		if system != "" {
			parts = append(parts, system)
		}
		parts = append(parts, extraSystem...)
		system = strings.Join(parts, "\n\n")
	}
	if system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}

	if req.Temperature != nil {
		temp := float32(*req.Temperature)
		config.Temperature = &temp
	}

	return config
}

// ConvertMessages converts devchat messages to genai contents. System-role
// entries are returned separately for the SystemInstruction.
// Exported for testing.
func ConvertMessages(msgs []devchat.Message) ([]*genai.Content, []string) {
	var contents []*genai.Content
	var system []string
	for _, msg := range msgs {
		switch msg.Role {
		case devchat.RoleSystem:
			system = append(system, msg.Content)
		case devchat.RoleAssistant:
			contents = append(contents, &genai.Content{
				Role:  "model",
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		default:
			contents = append(contents, &genai.Content{
				Role:  "user",
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		}
	}
	return contents, system
}

// responseText concatenates the text parts of the first candidate, skipping
// thought parts.
func responseText(resp *genai.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String()
}
