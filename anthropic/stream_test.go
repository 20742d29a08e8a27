package anthropic_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devdocs-ai/devchat"
	"github.com/devdocs-ai/devchat/anthropic"
)

func sseServer(t *testing.T, events string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, events)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestStream_TextDeltas(t *testing.T) {
	t.Parallel()

	srv := sseServer(t, ""+
		"event: message_start\n"+
		"data: {\"type\": \"message_start\", \"message\": {\"id\": \"msg_01\", \"usage\": {\"input_tokens\": 5, \"output_tokens\": 0}}}\n\n"+
		"event: content_block_start\n"+
		"data: {\"type\": \"content_block_start\", \"index\": 0, \"content_block\": {\"type\": \"text\"}}\n\n"+
		"event: content_block_delta\n"+
		"data: {\"type\": \"content_block_delta\", \"index\": 0, \"delta\": {\"type\": \"text_delta\", \"text\": \"Hel\"}}\n\n"+
		"event: ping\n"+
		"data: {\"type\": \"ping\"}\n\n"+
		"event: content_block_delta\n"+
		"data: {\"type\": \"content_block_delta\", \"index\": 0, \"delta\": {\"type\": \"text_delta\", \"text\": \"lo\"}}\n\n"+
		"event: content_block_stop\n"+
		"data: {\"type\": \"content_block_stop\", \"index\": 0}\n\n"+
		"event: message_stop\n"+
		"data: {\"type\": \"message_stop\"}\n\n")

	client := anthropic.New("key", anthropic.WithBaseURL(srv.URL))
	stream, err := client.Stream(context.Background(), devchat.Request{
		Messages: []devchat.Message{devchat.User("hi")},
	})
	require.NoError(t, err)
	defer stream.Close()

	frag, err := stream.Next()
	require.NoError(t, err)
	assert.Equal(t, "Hel", frag)

	frag, err = stream.Next()
	require.NoError(t, err)
	assert.Equal(t, "lo", frag)

	_, err = stream.Next()
	assert.Equal(t, io.EOF, err)

	// Terminal state is sticky.
	_, err = stream.Next()
	assert.Equal(t, io.EOF, err)
}

func TestStream_ErrorEvent(t *testing.T) {
	t.Parallel()

	srv := sseServer(t, ""+
		"event: content_block_delta\n"+
		"data: {\"type\": \"content_block_delta\", \"index\": 0, \"delta\": {\"type\": \"text_delta\", \"text\": \"par\"}}\n\n"+
		"event: error\n"+
		"data: {\"type\": \"error\", \"error\": {\"type\": \"overloaded_error\", \"message\": \"Overloaded\"}}\n\n")

	client := anthropic.New("key", anthropic.WithBaseURL(srv.URL))
	stream, err := client.Stream(context.Background(), devchat.Request{
		Messages: []devchat.Message{devchat.User("hi")},
	})
	require.NoError(t, err)
	defer stream.Close()

	frag, err := stream.Next()
	require.NoError(t, err)
	assert.Equal(t, "par", frag)

	_, err = stream.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overloaded_error")

	// Error is sticky.
	_, err2 := stream.Next()
	assert.Equal(t, err, err2)
}

func TestStream_UnexpectedEOF(t *testing.T) {
	t.Parallel()

	// Stream ends without message_stop.
	srv := sseServer(t, ""+
		"event: content_block_delta\n"+
		"data: {\"type\": \"content_block_delta\", \"index\": 0, \"delta\": {\"type\": \"text_delta\", \"text\": \"x\"}}\n\n")

	client := anthropic.New("key", anthropic.WithBaseURL(srv.URL))
	stream, err := client.Stream(context.Background(), devchat.Request{
		Messages: []devchat.Message{devchat.User("hi")},
	})
	require.NoError(t, err)
	defer stream.Close()

	frag, err := stream.Next()
	require.NoError(t, err)
	assert.Equal(t, "x", frag)

	_, err = stream.Next()
	require.Error(t, err)
	assert.NotEqual(t, io.EOF, err)
	assert.Contains(t, err.Error(), "unexpected end of stream")
}

func TestStream_NextAfterClose(t *testing.T) {
	t.Parallel()

	srv := sseServer(t, "event: message_stop\ndata: {\"type\": \"message_stop\"}\n\n")

	client := anthropic.New("key", anthropic.WithBaseURL(srv.URL))
	stream, err := client.Stream(context.Background(), devchat.Request{
		Messages: []devchat.Message{devchat.User("hi")},
	})
	require.NoError(t, err)
	require.NoError(t, stream.Close())

	_, err = stream.Next()
	assert.ErrorIs(t, err, devchat.ErrStreamClosed)
}
