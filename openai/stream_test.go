package openai_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devdocs-ai/devchat"
	"github.com/devdocs-ai/devchat/openai"
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

func TestStream_Deltas(t *testing.T) {
	t.Parallel()

	srv := sseServer(t, ""+
		"data: {\"choices\": [{\"delta\": {\"role\": \"assistant\", \"content\": \"\"}}]}\n\n"+
		"data: {\"choices\": [{\"delta\": {\"content\": \"Hel\"}}]}\n\n"+
		"data: {\"choices\": [{\"delta\": {\"content\": \"lo\"}}]}\n\n"+
		"data: {\"choices\": [{\"delta\": {}, \"finish_reason\": \"stop\"}]}\n\n"+
		"data: [DONE]\n\n")

	client := openai.New("key", openai.WithBaseURL(srv.URL))
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
}

func TestStream_TruncatedWithoutDone(t *testing.T) {
	t.Parallel()

	srv := sseServer(t, "data: {\"choices\": [{\"delta\": {\"content\": \"x\"}}]}\n\n")

	client := openai.New("key", openai.WithBaseURL(srv.URL))
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
	assert.Contains(t, err.Error(), "unexpected end of stream")
}
