package api_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devdocs-ai/devchat/api"
	"github.com/devdocs-ai/devchat/mock"
)

func decodeEvents(t *testing.T, raw []byte) []api.StreamEvent {
	t.Helper()
	var events []api.StreamEvent
	for _, frame := range strings.Split(string(raw), "\n\n") {
		if frame == "" {
			continue
		}
		payload, ok := strings.CutPrefix(frame, "data: ")
		require.True(t, ok, "frame %q has no data prefix", frame)
		var evt api.StreamEvent
		require.NoError(t, json.Unmarshal([]byte(payload), &evt))
		events = append(events, evt)
	}
	return events
}

func TestStreamEncoderEncode(t *testing.T) {
	t.Parallel()

	t.Run("fragments become delta events framed by start and end", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		var persisted string
		enc := api.NewStreamEncoder(&buf, "msg_test")
		enc.Encode(mock.Fragments([]string{"Hel", "lo"}, nil), func(full string) {
			persisted = full
		})

		events := decodeEvents(t, buf.Bytes())
		require.Len(t, events, 4)
		assert.Equal(t, api.StreamEvent{Type: "text-start", ID: "msg_test"}, events[0])
		assert.Equal(t, api.StreamEvent{Type: "text-delta", ID: "msg_test", Delta: "Hel"}, events[1])
		assert.Equal(t, api.StreamEvent{Type: "text-delta", ID: "msg_test", Delta: "lo"}, events[2])
		assert.Equal(t, api.StreamEvent{Type: "text-end", ID: "msg_test"}, events[3])
		assert.Equal(t, "Hello", persisted)
	})

	t.Run("empty fragments are suppressed", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		enc := api.NewStreamEncoder(&buf, "msg_test")
		enc.Encode(mock.Fragments([]string{"", "a", ""}, nil), nil)

		events := decodeEvents(t, buf.Bytes())
		require.Len(t, events, 3)
		assert.Equal(t, "text-delta", events[1].Type)
		assert.Equal(t, "a", events[1].Delta)
	})

	t.Run("stream error emits error event and skips persist", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		persisted := false
		enc := api.NewStreamEncoder(&buf, "msg_test")
		enc.Encode(mock.Fragments([]string{"partial"}, errors.New("connection reset")), func(string) {
			persisted = true
		})

		events := decodeEvents(t, buf.Bytes())
		require.Len(t, events, 3)
		assert.Equal(t, api.StreamEvent{Type: "error", ID: "msg_test", ErrorText: "connection reset"}, events[2])
		assert.False(t, persisted)
	})

	t.Run("closes the stream", func(t *testing.T) {
		t.Parallel()

		closed := false
		stream := mock.Fragments(nil, nil)
		stream.CloseFn = func() error {
			closed = true
			return nil
		}

		var buf bytes.Buffer
		api.NewStreamEncoder(&buf, "msg_test").Encode(stream, nil)
		assert.True(t, closed)
	})
}

func TestNewEventID(t *testing.T) {
	t.Parallel()

	a := api.NewEventID()
	b := api.NewEventID()
	assert.True(t, strings.HasPrefix(a, "msg_"))
	assert.NotEqual(t, a, b)
}
