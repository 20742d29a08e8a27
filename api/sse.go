package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/oklog/ulid/v2"

	"github.com/devdocs-ai/devchat"
)

// Streaming event types, AI SDK wire format.
const (
	eventTextStart = "text-start"
	eventTextDelta = "text-delta"
	eventTextEnd   = "text-end"
	eventError     = "error"
)

// StreamEvent is one line-delimited streaming event. Every event of a turn
// carries the same id so clients can correlate them.
type StreamEvent struct {
	Type      string `json:"type"`
	ID        string `json:"id"`
	Delta     string `json:"delta,omitempty"`
	ErrorText string `json:"errorText,omitempty"`
}

// NewEventID returns the shared id for one streaming turn.
func NewEventID() string {
	return "msg_" + ulid.Make().String()
}

// StreamEncoder writes stream events as SSE data frames, flushing after
// every event so fragments reach the client without buffering delay.
type StreamEncoder struct {
	w       io.Writer
	flusher http.Flusher
	id      string
}

// NewStreamEncoder creates an encoder writing to w. When w implements
// http.Flusher each event is flushed as it is written.
func NewStreamEncoder(w io.Writer, id string) *StreamEncoder {
	enc := &StreamEncoder{w: w, id: id}
	if f, ok := w.(http.Flusher); ok {
		enc.flusher = f
	}
	return enc
}

// Encode drains stream into events: one text-start, one text-delta per
// non-empty fragment in arrival order, and a terminal text-end or error.
// After the terminal text-end has been written and flushed, persist is
// called with the full concatenated text; an errored stream persists
// nothing. Write failures (client gone) abort encoding silently.
func (e *StreamEncoder) Encode(stream devchat.Stream, persist func(full string)) {
	defer stream.Close()

	if err := e.write(StreamEvent{Type: eventTextStart, ID: e.id}); err != nil {
		return
	}

	var full string
	for {
		frag, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			_ = e.write(StreamEvent{Type: eventError, ID: e.id, ErrorText: err.Error()})
			return
		}
		if frag == "" {
			continue
		}
		full += frag
		if err := e.write(StreamEvent{Type: eventTextDelta, ID: e.id, Delta: frag}); err != nil {
			return
		}
	}

	if err := e.write(StreamEvent{Type: eventTextEnd, ID: e.id}); err != nil {
		return
	}
	if persist != nil {
		persist(full)
	}
}

func (e *StreamEncoder) write(evt StreamEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(e.w, "data: %s\n\n", payload); err != nil {
		return err
	}
	if e.flusher != nil {
		e.flusher.Flush()
	}
	return nil
}
