package chat_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devdocs-ai/devchat"
	"github.com/devdocs-ai/devchat/chat"
	"github.com/devdocs-ai/devchat/mock"
)

func TestGenerator_Generate(t *testing.T) {
	t.Parallel()

	var gotReq devchat.Request
	primary := &mock.Provider{
		CompleteFn: func(_ context.Context, req devchat.Request) (devchat.Completion, error) {
			gotReq = req
			return devchat.Completion{
				Content: "answer",
				Usage:   &devchat.Usage{InputTokens: 10, OutputTokens: 4},
			}, nil
		},
	}

	g := chat.NewGenerator(chat.GeneratorConfig{
		Primary:      primary,
		PrimaryModel: "claude-sonnet-4-5",
		MaxTokens:    4096,
		Temperature:  0.7,
		Logger:       zerolog.Nop(),
	})

	msgs := []devchat.Message{devchat.User("explain goroutines")}
	comp, err := g.Generate(context.Background(), msgs, "go")
	require.NoError(t, err)
	assert.Equal(t, "answer", comp.Content)
	require.NotNil(t, comp.Usage)
	assert.Equal(t, 10, comp.Usage.InputTokens)

	assert.Equal(t, "claude-sonnet-4-5", gotReq.Model)
	assert.Equal(t, 4096, gotReq.MaxTokens)
	require.NotNil(t, gotReq.Temperature)
	assert.InDelta(t, 0.7, *gotReq.Temperature, 1e-9)
	assert.Contains(t, gotReq.SystemPrompt, "goroutines", "language guidance selected from the hint")
	assert.Equal(t, msgs, gotReq.Messages)
}

func TestGenerator_FallsBackToSecondary(t *testing.T) {
	t.Parallel()

	primary := &mock.Provider{
		CompleteFn: func(context.Context, devchat.Request) (devchat.Completion, error) {
			return devchat.Completion{}, errors.New("anthropic: overloaded")
		},
	}
	var gotReq devchat.Request
	secondary := &mock.Provider{
		CompleteFn: func(_ context.Context, req devchat.Request) (devchat.Completion, error) {
			gotReq = req
			return devchat.Completion{
				Content: "fallback answer",
				Usage:   &devchat.Usage{InputTokens: 22, OutputTokens: 8},
			}, nil
		},
	}

	g := chat.NewGenerator(chat.GeneratorConfig{
		Primary:        primary,
		Secondary:      secondary,
		PrimaryModel:   "claude-sonnet-4-5",
		SecondaryModel: "gpt-4",
		MaxTokens:      4096,
		Temperature:    0.7,
		Logger:         zerolog.Nop(),
	})

	comp, err := g.Generate(context.Background(), []devchat.Message{devchat.User("hi")}, "python")
	require.NoError(t, err)
	assert.Equal(t, "fallback answer", comp.Content)
	require.NotNil(t, comp.Usage)
	assert.Equal(t, 22, comp.Usage.InputTokens)
	assert.Equal(t, 8, comp.Usage.OutputTokens)

	// The whole request is retried: same messages, same prompt selection,
	// secondary model.
	assert.Equal(t, "gpt-4", gotReq.Model)
	assert.Contains(t, gotReq.SystemPrompt, "Pythonic")
}

func TestGenerator_NoSecondaryPropagatesError(t *testing.T) {
	t.Parallel()

	boom := errors.New("anthropic: overloaded")
	primary := &mock.Provider{
		CompleteFn: func(context.Context, devchat.Request) (devchat.Completion, error) {
			return devchat.Completion{}, boom
		},
	}

	g := chat.NewGenerator(chat.GeneratorConfig{Primary: primary, Logger: zerolog.Nop()})
	_, err := g.Generate(context.Background(), []devchat.Message{devchat.User("hi")}, "")
	assert.ErrorIs(t, err, boom)
}

func TestGenerator_SecondaryFailurePropagates(t *testing.T) {
	t.Parallel()

	secondaryErr := errors.New("openai: rate limited")
	primary := &mock.Provider{
		CompleteFn: func(context.Context, devchat.Request) (devchat.Completion, error) {
			return devchat.Completion{}, errors.New("primary down")
		},
	}
	secondary := &mock.Provider{
		CompleteFn: func(context.Context, devchat.Request) (devchat.Completion, error) {
			return devchat.Completion{}, secondaryErr
		},
	}

	g := chat.NewGenerator(chat.GeneratorConfig{Primary: primary, Secondary: secondary, Logger: zerolog.Nop()})
	_, err := g.Generate(context.Background(), []devchat.Message{devchat.User("hi")}, "")
	assert.ErrorIs(t, err, secondaryErr)
}

func TestGenerator_StreamHasNoFallback(t *testing.T) {
	t.Parallel()

	boom := errors.New("anthropic: connection refused")
	primary := &mock.Provider{
		StreamFn: func(context.Context, devchat.Request) (devchat.Stream, error) {
			return nil, boom
		},
	}
	secondary := &mock.Provider{
		StreamFn: func(context.Context, devchat.Request) (devchat.Stream, error) {
			t.Fatal("streaming must not fall back to the secondary provider")
			return nil, nil
		},
	}

	g := chat.NewGenerator(chat.GeneratorConfig{Primary: primary, Secondary: secondary, Logger: zerolog.Nop()})
	_, err := g.Stream(context.Background(), []devchat.Message{devchat.User("hi")}, "")
	assert.ErrorIs(t, err, boom)
}

func TestGenerator_StreamPassesThrough(t *testing.T) {
	t.Parallel()

	want := mock.Fragments([]string{"Hel", "lo"}, nil)
	primary := &mock.Provider{
		StreamFn: func(context.Context, devchat.Request) (devchat.Stream, error) {
			return want, nil
		},
	}

	g := chat.NewGenerator(chat.GeneratorConfig{Primary: primary, Logger: zerolog.Nop()})
	stream, err := g.Stream(context.Background(), []devchat.Message{devchat.User("hi")}, "")
	require.NoError(t, err)

	text, err := devchat.Drain(stream)
	require.NoError(t, err)
	assert.Equal(t, "Hello", text)
}
