package devchat

// Usage tracks token consumption for one completion.
//
// Providers normalize their API-specific fields to these two counts.
// Streaming responses carry no usage; the field stays nil at call sites.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}
