// Package gemini implements [devchat.Provider] for the Google Gemini API.
//
// It wraps the google.golang.org/genai SDK, translating between devchat's
// domain types and the Gemini API types. Streaming uses the SDK's iter.Seq2
// iterator, wrapped into the pull-based [devchat.Stream] interface. Gemini
// has no system role in its content sequence, so system-role entries are
// folded into the SystemInstruction.
package gemini

const (
	defaultModel     = "gemini-2.5-pro"
	defaultMaxTokens = 4096
)
