package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/devdocs-ai/devchat"
)

// Interface compliance check.
var _ devchat.Provider = (*Client)(nil)

// Client implements [devchat.Provider] for the Anthropic Messages API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the API base URL. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a new Anthropic [Client] with the given API key and options.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Complete sends a non-streaming request and returns the generated text
// with token usage.
func (c *Client) Complete(ctx context.Context, req devchat.Request) (devchat.Completion, error) {
	resp, err := c.do(ctx, req, false)
	if err != nil {
		return devchat.Completion{}, err
	}
	defer resp.Body.Close()

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return devchat.Completion{}, fmt.Errorf("anthropic: failed to parse response: %w", err)
	}

	var text string
	for _, block := range apiResp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	return devchat.Completion{
		Content: text,
		Usage: &devchat.Usage{
			InputTokens:  apiResp.Usage.InputTokens,
			OutputTokens: apiResp.Usage.OutputTokens,
		},
	}, nil
}

// Stream sends a streaming request and returns a [devchat.Stream] of text
// fragments parsed from the SSE response.
func (c *Client) Stream(ctx context.Context, req devchat.Request) (devchat.Stream, error) {
	resp, err := c.do(ctx, req, true)
	if err != nil {
		return nil, err
	}
	return newStream(ctx, resp.Body), nil
}

func (c *Client) do(ctx context.Context, req devchat.Request, streaming bool) (*http.Response, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("anthropic: %w", err)
	}

	body, err := json.Marshal(buildRequestBody(req, streaming))
	if err != nil {
		return nil, fmt.Errorf("anthropic: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+messagesPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("anthropic: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", c.apiKey)
	httpReq.Header.Set("Anthropic-Version", apiVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("anthropic: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, parseHTTPError(resp)
	}
	return resp, nil
}

func buildRequestBody(req devchat.Request, streaming bool) apiRequest {
	model := req.Model
	if model == "" {
		model = defaultModel
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	system, messages := convertMessages(req.SystemPrompt, req.Messages)

	return apiRequest{
		Model:       model,
		MaxTokens:   maxTokens,
		Stream:      streaming,
		System:      system,
		Messages:    messages,
		Temperature: req.Temperature,
	}
}

// convertMessages splits the message list into system blocks and API
// messages. System-role entries become system blocks after the configured
// system prompt, preserving their relative order.
func convertMessages(prompt string, msgs []devchat.Message) ([]apiContentBlock, []apiMessage) {
	var system []apiContentBlock
	if prompt != "" {
		system = append(system, apiContentBlock{Type: "text", Text: prompt})
	}

	var result []apiMessage
	for _, msg := range msgs {
		if msg.Role == devchat.RoleSystem {
			system = append(system, apiContentBlock{Type: "text", Text: msg.Content})
			continue
		}
		result = append(result, apiMessage{
			Role:    string(msg.Role),
			Content: []apiContentBlock{{Type: "text", Text: msg.Content}},
		})
	}
	return system, result
}

func parseHTTPError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("anthropic: HTTP %d (failed to read body: %w)", resp.StatusCode, err)
	}
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err != nil {
		return fmt.Errorf("anthropic: HTTP %d: %s", resp.StatusCode, string(body))
	}
	return fmt.Errorf("anthropic: %s: %s", apiErr.Error.Type, apiErr.Error.Message)
}
