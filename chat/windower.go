// Package chat implements the conversation logic of the service: context
// windowing, history summarization, and response generation with provider
// fallback.
package chat

import (
	"context"
	"fmt"

	"github.com/devdocs-ai/devchat"
)

// DefaultThreshold is the message count above which older history is
// replaced by a summary.
const DefaultThreshold = 20

// summaryPrefix leads the system message injected by the windower.
const summaryPrefix = "Previous conversation summary: "

// Windower decides which prior turns are sent to the model verbatim and
// which are replaced by a compressed summary.
type Windower struct {
	store      devchat.Store
	summarizer *Summarizer
	threshold  int
}

// NewWindower creates a Windower. A non-positive threshold falls back to
// DefaultThreshold.
func NewWindower(store devchat.Store, summarizer *Summarizer, threshold int) *Windower {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Windower{store: store, summarizer: summarizer, threshold: threshold}
}

// Process combines stored history with newMsgs and returns the message list
// to send to the model.
//
// Within the threshold the combined list passes through unchanged. Beyond
// it, everything that predates this call is summarized (the boundary is
// "pre-existing history", not the threshold), the summary replaces any prior
// one in the store, and the result is a summary-bearing system message
// followed by the trailing threshold messages of the combined list. The
// injected system message is never persisted as history.
func (w *Windower) Process(ctx context.Context, newMsgs []devchat.Message, conversationID, language string) ([]devchat.Message, error) {
	history, err := w.store.Get(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("windower: fetch history: %w", err)
	}

	combined := make([]devchat.Message, 0, len(history)+len(newMsgs))
	combined = append(combined, history...)
	combined = append(combined, newMsgs...)

	if len(combined) <= w.threshold {
		return combined, nil
	}

	older := combined[:len(combined)-len(newMsgs)]
	if len(older) == 0 {
		// Nothing predates this call; summarizing an empty slice is never
		// worth a provider round trip.
		return combined, nil
	}

	summary := w.summarizer.Summarize(ctx, older, language)
	if err := w.store.SetSummary(ctx, conversationID, summary); err != nil {
		return nil, fmt.Errorf("windower: store summary: %w", err)
	}

	recent := combined[len(combined)-w.threshold:]
	result := make([]devchat.Message, 0, len(recent)+1)
	result = append(result, devchat.System(summaryPrefix+summary))
	result = append(result, recent...)
	return result, nil
}
